package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"studystream/internal/auth"
	"studystream/models"
	"studystream/services/planner"
	"studystream/services/playlist"
	"studystream/services/progress"
	"studystream/services/schedules"
	"studystream/utils"
)

// Schedule modes accepted by the generate endpoint.
const (
	ModeTimeBased = "time"
	ModeDayBased  = "days"
)

// MinDailyMinutes is the smallest accepted daily study time; anything under
// this leaves no room once the daily overhead is reserved.
const MinDailyMinutes = 20

// SchedulesHandler handles schedule generation, listing, progress updates,
// and deletion.
type SchedulesHandler struct {
	source    playlist.Source
	schedules *schedules.Service
}

// NewSchedulesHandler creates a new schedules handler.
func NewSchedulesHandler(source playlist.Source, schedulesSvc *schedules.Service) *SchedulesHandler {
	return &SchedulesHandler{
		source:    source,
		schedules: schedulesSvc,
	}
}

// GenerateRequest represents the schedule generation request body.
type GenerateRequest struct {
	PlaylistURL  string `json:"playlistUrl"`
	Name         string `json:"name"`
	Mode         string `json:"mode"` // "time" or "days"
	DailyMinutes int    `json:"dailyMinutes,omitempty"`
	NumDays      int    `json:"numDays,omitempty"`
	StartVideo   int    `json:"startVideo,omitempty"` // 1-based offset into the playlist
}

// ScheduleResponse is a stored schedule plus its completion summary.
type ScheduleResponse struct {
	Name     string               `json:"name"`
	Days     []models.ScheduleDay `json:"days"`
	Progress progress.Summary     `json:"progress"`
}

// ListResponse is the fetch-all response. Failed names are schedules whose
// stored payloads could not be parsed; they are reported, not fatal.
type ListResponse struct {
	Schedules []ScheduleResponse `json:"schedules"`
	Failed    []string           `json:"failed,omitempty"`
}

// SetCompletedRequest represents the completion toggle request body.
type SetCompletedRequest struct {
	Completed bool `json:"completed"`
}

// Generate fetches the playlist, runs the selected planner strategy, and
// saves the resulting schedule under the caller's account. Nothing is saved
// when the playlist fetch fails.
func (h *SchedulesHandler) Generate(w http.ResponseWriter, r *http.Request) {
	username := auth.GetUsername(r)

	var req GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error": "invalid request body"}`, http.StatusBadRequest)
		return
	}

	if strings.TrimSpace(req.PlaylistURL) == "" {
		writeError(w, http.StatusBadRequest, "playlist URL is required")
		return
	}
	if !utils.IsValidPlaylistURL(req.PlaylistURL) {
		writeError(w, http.StatusBadRequest, "playlist URL must be an absolute http(s) URL")
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		writeError(w, http.StatusBadRequest, "schedule name is required")
		return
	}
	if req.StartVideo == 0 {
		req.StartVideo = 1
	}
	if req.StartVideo < 1 {
		writeError(w, http.StatusBadRequest, "start video must be at least 1")
		return
	}

	switch req.Mode {
	case ModeTimeBased:
		if req.DailyMinutes < MinDailyMinutes {
			writeError(w, http.StatusBadRequest, "daily study time must be at least 20 minutes")
			return
		}
	case ModeDayBased:
		if req.NumDays < 1 {
			writeError(w, http.StatusBadRequest, "number of days must be at least 1")
			return
		}
	default:
		writeError(w, http.StatusBadRequest, `mode must be "time" or "days"`)
		return
	}

	videos, err := h.source.Fetch(r.Context(), strings.TrimSpace(req.PlaylistURL))
	if err != nil {
		switch {
		case errors.Is(err, playlist.ErrURLRequired):
			writeError(w, http.StatusBadRequest, "playlist URL is required")
		case errors.Is(err, playlist.ErrEmptyPlaylist):
			writeError(w, http.StatusUnprocessableEntity, "playlist is empty or private")
		default:
			writeError(w, http.StatusBadGateway, "playlist source unavailable")
		}
		return
	}

	if req.StartVideo > len(videos) {
		writeError(w, http.StatusUnprocessableEntity, "start video is past the end of the playlist")
		return
	}
	videos = videos[req.StartVideo-1:]

	var schedule models.Schedule
	if req.Mode == ModeTimeBased {
		schedule = planner.TimeBased(videos, req.DailyMinutes)
	} else {
		schedule = planner.DayBased(videos, req.NumDays)
	}

	if err := h.schedules.Save(username, strings.TrimSpace(req.Name), schedule); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to save schedule")
		return
	}

	resp := ScheduleResponse{
		Name:     strings.TrimSpace(req.Name),
		Days:     schedule.Days,
		Progress: progress.Summarize(schedule),
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(resp)
}

// List returns all of the caller's schedules with completion summaries.
// Schedules whose payloads no longer parse are listed under failed.
func (h *SchedulesHandler) List(w http.ResponseWriter, r *http.Request) {
	username := auth.GetUsername(r)

	loaded, failures, err := h.schedules.List(username)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load schedules")
		return
	}

	names, err := h.schedules.Names(username)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load schedules")
		return
	}

	resp := ListResponse{Schedules: []ScheduleResponse{}}
	for _, name := range names {
		schedule, ok := loaded[name]
		if !ok {
			continue
		}
		resp.Schedules = append(resp.Schedules, ScheduleResponse{
			Name:     name,
			Days:     schedule.Days,
			Progress: progress.Summarize(schedule),
		})
	}
	for _, f := range failures {
		resp.Failed = append(resp.Failed, f.Name)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// Delete removes one schedule. Deleting a schedule that does not exist is a
// no-op and still reports success.
func (h *SchedulesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	username := auth.GetUsername(r)
	name := mux.Vars(r)["name"]

	if err := h.schedules.Delete(username, name); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to delete schedule")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "deleted"})
}

// SetCompleted updates one entry's completion flag and returns the refreshed
// summary. The whole schedule is rewritten; there is no partial update.
func (h *SchedulesHandler) SetCompleted(w http.ResponseWriter, r *http.Request) {
	username := auth.GetUsername(r)
	vars := mux.Vars(r)
	name, dayLabel, videoID := vars["name"], vars["day"], vars["videoId"]

	var req SetCompletedRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error": "invalid request body"}`, http.StatusBadRequest)
		return
	}

	updated, err := h.schedules.SetCompleted(username, name, dayLabel, videoID, req.Completed)
	if err != nil {
		switch {
		case errors.Is(err, schedules.ErrScheduleNotFound):
			writeError(w, http.StatusNotFound, "schedule not found")
		case errors.Is(err, progress.ErrDayNotFound), errors.Is(err, progress.ErrEntryNotFound):
			writeError(w, http.StatusNotFound, "schedule entry not found")
		default:
			writeError(w, http.StatusInternalServerError, "failed to update schedule")
		}
		return
	}

	resp := ScheduleResponse{
		Name:     name,
		Days:     updated.Days,
		Progress: progress.Summarize(updated),
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}
