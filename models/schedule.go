package models

import "fmt"

// PlaylistVideo is a single video as reported by the playlist source.
// The slice order must match the source playlist order exactly.
type PlaylistVideo struct {
	Title    string `json:"title"`
	Duration int    `json:"duration"` // seconds
	Link     string `json:"link"`
}

// VideoEntry is a video embedded in a schedule. The duration display string is
// rendered once when the schedule is created and never recomputed; ID is the
// stable identity used for completion updates (titles may collide within a day).
type VideoEntry struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Duration  string `json:"duration"` // frozen "H:MM:SS" display
	Link      string `json:"link"`
	Completed bool   `json:"completed"`
}

// ScheduleDay is one labeled bucket of entries.
type ScheduleDay struct {
	Label  string       `json:"label"`
	Videos []VideoEntry `json:"videos"`
}

// Schedule is an ordered list of non-empty days. Concatenating all days'
// entries in order reproduces the original playlist order.
type Schedule struct {
	Days []ScheduleDay `json:"days"`
}

// DayLabel returns the label for a 1-based day number.
func DayLabel(day int) string {
	return fmt.Sprintf("Day %d", day)
}

// Day returns the day with the given label, or nil if not present.
func (s *Schedule) Day(label string) *ScheduleDay {
	for i := range s.Days {
		if s.Days[i].Label == label {
			return &s.Days[i]
		}
	}
	return nil
}

// TotalVideos returns the number of entries across all days.
func (s Schedule) TotalVideos() int {
	n := 0
	for _, d := range s.Days {
		n += len(d.Videos)
	}
	return n
}

// FormatDuration renders a second count as H:MM:SS. Hours are not capped at
// 24 and carry no padding; minutes and seconds are zero-padded.
func FormatDuration(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	return fmt.Sprintf("%d:%02d:%02d", h, m, s)
}
