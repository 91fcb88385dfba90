// Package schedules is the persistence boundary for study schedules. It
// serializes schedules into a versioned JSON envelope and stores them through
// the sqlite schedule repository, keyed by (username, schedule name).
package schedules

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"studystream/internal/database"
	"studystream/models"
	"studystream/services/progress"
)

var (
	ErrUsernameRequired     = errors.New("username is required")
	ErrScheduleNameRequired = errors.New("schedule name is required")
	ErrScheduleNotFound     = errors.New("schedule not found")
	ErrUnsupportedVersion   = errors.New("unsupported schedule payload version")
)

// envelopeVersion tags stored payloads so the format can evolve without
// breaking round-trips of existing rows.
const envelopeVersion = 1

// envelope is the stored shape of a schedule.
type envelope struct {
	Version int                  `json:"version"`
	Days    []models.ScheduleDay `json:"days"`
}

// DecodeFailure reports a stored schedule whose payload could not be parsed.
type DecodeFailure struct {
	Name string
	Err  error
}

// Service manages schedule persistence for all users.
type Service struct {
	log  *slog.Logger
	repo *database.ScheduleRepository
}

// NewService creates a schedules service backed by the given repository.
func NewService(repo *database.ScheduleRepository) *Service {
	return &Service{
		log:  slog.Default().With("component", "schedules"),
		repo: repo,
	}
}

// Save upserts the schedule under (username, name). Saving twice for the same
// key replaces the payload and never duplicates the record.
func (s *Service) Save(username, name string, schedule models.Schedule) error {
	if strings.TrimSpace(username) == "" {
		return ErrUsernameRequired
	}
	if strings.TrimSpace(name) == "" {
		return ErrScheduleNameRequired
	}

	payload, err := encode(schedule)
	if err != nil {
		return err
	}
	return s.repo.Upsert(username, name, payload)
}

// Get returns the stored schedule for (username, name).
func (s *Service) Get(username, name string) (models.Schedule, error) {
	rec, err := s.repo.Get(username, name)
	if err != nil {
		return models.Schedule{}, err
	}
	if rec == nil {
		return models.Schedule{}, ErrScheduleNotFound
	}
	return decode(rec.Payload)
}

// List returns every schedule stored for the user, in creation order of their
// records. A payload that fails to parse is reported and skipped; it does not
// prevent the user's other schedules from loading.
func (s *Service) List(username string) (map[string]models.Schedule, []DecodeFailure, error) {
	records, err := s.repo.ListByUser(username)
	if err != nil {
		return nil, nil, err
	}

	result := make(map[string]models.Schedule, len(records))
	var failures []DecodeFailure
	for _, rec := range records {
		schedule, err := decode(rec.Payload)
		if err != nil {
			s.log.Warn("skipping corrupted schedule payload",
				"username", username, "schedule", rec.Name, "error", err)
			failures = append(failures, DecodeFailure{Name: rec.Name, Err: err})
			continue
		}
		result[rec.Name] = schedule
	}
	return result, failures, nil
}

// Names returns the stored schedule names for the user in creation order,
// including ones whose payloads no longer parse.
func (s *Service) Names(username string) ([]string, error) {
	records, err := s.repo.ListByUser(username)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(records))
	for _, rec := range records {
		names = append(names, rec.Name)
	}
	return names, nil
}

// Delete removes the schedule for (username, name). Deleting a schedule that
// does not exist is a no-op.
func (s *Service) Delete(username, name string) error {
	return s.repo.Delete(username, name)
}

// SetCompleted updates one entry's completion flag and rewrites the whole
// schedule; there is no partial-field update. The updated schedule is
// returned.
func (s *Service) SetCompleted(username, name, dayLabel, entryID string, completed bool) (models.Schedule, error) {
	schedule, err := s.Get(username, name)
	if err != nil {
		return models.Schedule{}, err
	}
	if err := progress.SetCompleted(&schedule, dayLabel, entryID, completed); err != nil {
		return models.Schedule{}, err
	}
	if err := s.Save(username, name, schedule); err != nil {
		return models.Schedule{}, err
	}
	return schedule, nil
}

func encode(schedule models.Schedule) (string, error) {
	data, err := json.Marshal(envelope{Version: envelopeVersion, Days: schedule.Days})
	if err != nil {
		return "", fmt.Errorf("encode schedule: %w", err)
	}
	return string(data), nil
}

func decode(payload string) (models.Schedule, error) {
	var env envelope
	if err := json.Unmarshal([]byte(payload), &env); err != nil {
		return models.Schedule{}, fmt.Errorf("decode schedule: %w", err)
	}
	if env.Version != envelopeVersion {
		return models.Schedule{}, fmt.Errorf("%w: %d", ErrUnsupportedVersion, env.Version)
	}
	return models.Schedule{Days: env.Days}, nil
}
