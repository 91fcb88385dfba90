// Package progress derives completion statistics from a schedule and mutates
// per-entry completion flags. Entries are addressed by their stable ID rather
// than by title, since titles may repeat within a day.
package progress

import (
	"errors"

	"studystream/models"
)

var (
	ErrDayNotFound   = errors.New("day not found in schedule")
	ErrEntryNotFound = errors.New("entry not found in day")
)

// Summary holds aggregate completion counts for a schedule.
type Summary struct {
	Completed int     `json:"completed"`
	Total     int     `json:"total"`
	Percent   float64 `json:"percent"`
}

// Summarize counts completed and total entries across all days. An empty
// schedule reports 0% rather than dividing by zero.
func Summarize(schedule models.Schedule) Summary {
	var s Summary
	for _, d := range schedule.Days {
		for _, v := range d.Videos {
			s.Total++
			if v.Completed {
				s.Completed++
			}
		}
	}
	if s.Total > 0 {
		s.Percent = 100 * float64(s.Completed) / float64(s.Total)
	}
	return s
}

// SetCompleted updates the completion flag of the entry with the given ID
// inside the named day. The schedule is mutated in place; persisting the
// change is the caller's job (the store rewrites the whole schedule).
func SetCompleted(schedule *models.Schedule, dayLabel, entryID string, completed bool) error {
	day := schedule.Day(dayLabel)
	if day == nil {
		return ErrDayNotFound
	}
	for i := range day.Videos {
		if day.Videos[i].ID == entryID {
			day.Videos[i].Completed = completed
			return nil
		}
	}
	return ErrEntryNotFound
}
