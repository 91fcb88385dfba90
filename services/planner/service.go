// Package planner turns an ordered playlist into a day-bucketed study
// schedule. Both strategies are single-pass greedy allocators: they never
// reorder, split, or drop a video, and they never emit an empty day.
package planner

import (
	"github.com/google/uuid"

	"studystream/models"
)

// DailyOverheadMinutes is reserved out of every requested daily budget to
// account for breaks and note-taking.
const DailyOverheadMinutes = 10

// TimeBased buckets videos under a per-day time budget of
// (dailyMinutes - DailyOverheadMinutes) * 60 seconds. A single video longer
// than the budget still gets a day of its own; that day simply runs over.
// With dailyMinutes <= DailyOverheadMinutes the budget is non-positive and
// every video with a positive duration starts a new day by itself.
func TimeBased(videos []models.PlaylistVideo, dailyMinutes int) models.Schedule {
	budget := (dailyMinutes - DailyOverheadMinutes) * 60

	var schedule models.Schedule
	day := 1
	var current []models.VideoEntry
	currentDuration := 0

	for _, v := range videos {
		entry := newEntry(v)
		if currentDuration+v.Duration <= budget {
			current = append(current, entry)
			currentDuration += v.Duration
			continue
		}
		if len(current) > 0 {
			schedule.Days = append(schedule.Days, models.ScheduleDay{Label: models.DayLabel(day), Videos: current})
			day++
		}
		current = []models.VideoEntry{entry}
		currentDuration = v.Duration
	}

	if len(current) > 0 {
		schedule.Days = append(schedule.Days, models.ScheduleDay{Label: models.DayLabel(day), Videos: current})
	}

	return schedule
}

// DayBased buckets videos into at most numDays days, breaking whenever the
// running total would exceed the truncating average total/numDays. The video
// that triggers a break opens the new day. Once the final day is reached all
// remaining videos accumulate there, however large the total grows.
func DayBased(videos []models.PlaylistVideo, numDays int) models.Schedule {
	total := 0
	for _, v := range videos {
		total += v.Duration
	}
	avg := 0
	if numDays > 0 {
		avg = total / numDays
	}

	var schedule models.Schedule
	day := 1
	var current []models.VideoEntry
	currentDuration := 0

	for _, v := range videos {
		if day < numDays && currentDuration+v.Duration > avg && len(current) > 0 {
			schedule.Days = append(schedule.Days, models.ScheduleDay{Label: models.DayLabel(day), Videos: current})
			day++
			current = nil
			currentDuration = 0
		}
		current = append(current, newEntry(v))
		currentDuration += v.Duration
	}

	if len(current) > 0 {
		schedule.Days = append(schedule.Days, models.ScheduleDay{Label: models.DayLabel(day), Videos: current})
	}

	return schedule
}

// newEntry builds a schedule entry from a playlist video. The duration display
// string is rendered here once and frozen; the ID is the entry's stable
// identity for completion updates.
func newEntry(v models.PlaylistVideo) models.VideoEntry {
	return models.VideoEntry{
		ID:       uuid.NewString(),
		Title:    v.Title,
		Duration: models.FormatDuration(v.Duration),
		Link:     v.Link,
	}
}
