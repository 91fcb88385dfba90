package planner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"studystream/models"
)

func video(title string, duration int) models.PlaylistVideo {
	return models.PlaylistVideo{
		Title:    title,
		Duration: duration,
		Link:     "https://example.com/watch?v=" + title,
	}
}

// flatten concatenates all entries across days in day order.
func flatten(s models.Schedule) []models.VideoEntry {
	var out []models.VideoEntry
	for _, d := range s.Days {
		out = append(out, d.Videos...)
	}
	return out
}

func TestTimeBased_BudgetBoundaries(t *testing.T) {
	// 20 minutes requested -> (20-10)*60 = 600s budget.
	videos := []models.PlaylistVideo{video("A", 600), video("B", 900), video("C", 300)}

	s := TimeBased(videos, 20)

	require.Len(t, s.Days, 3)
	assert.Equal(t, "Day 1", s.Days[0].Label)
	require.Len(t, s.Days[0].Videos, 1)
	assert.Equal(t, "A", s.Days[0].Videos[0].Title)

	// B exceeds the budget outright but still gets its own day.
	assert.Equal(t, "Day 2", s.Days[1].Label)
	require.Len(t, s.Days[1].Videos, 1)
	assert.Equal(t, "B", s.Days[1].Videos[0].Title)

	assert.Equal(t, "Day 3", s.Days[2].Label)
	require.Len(t, s.Days[2].Videos, 1)
	assert.Equal(t, "C", s.Days[2].Videos[0].Title)
}

func TestTimeBased_ExactFitStaysInDay(t *testing.T) {
	// Budget 600: 300+300 fills the day exactly, the <= comparison keeps both.
	s := TimeBased([]models.PlaylistVideo{video("A", 300), video("B", 300), video("C", 1)}, 20)

	require.Len(t, s.Days, 2)
	assert.Len(t, s.Days[0].Videos, 2)
	assert.Len(t, s.Days[1].Videos, 1)
}

func TestTimeBased_FirstVideoOverBudget(t *testing.T) {
	s := TimeBased([]models.PlaylistVideo{video("big", 5000), video("small", 60)}, 20)

	require.Len(t, s.Days, 2)
	assert.Equal(t, "Day 1", s.Days[0].Label)
	require.Len(t, s.Days[0].Videos, 1)
	assert.Equal(t, "big", s.Days[0].Videos[0].Title)
	assert.Equal(t, "small", s.Days[1].Videos[0].Title)
}

func TestTimeBased_NonPositiveBudget(t *testing.T) {
	// 10 minutes requested -> budget 0: every video lands alone.
	s := TimeBased([]models.PlaylistVideo{video("A", 10), video("B", 10), video("C", 10)}, 10)

	require.Len(t, s.Days, 3)
	for i, d := range s.Days {
		assert.Equal(t, models.DayLabel(i+1), d.Label)
		assert.Len(t, d.Videos, 1)
	}
}

func TestTimeBased_EmptyInput(t *testing.T) {
	s := TimeBased(nil, 60)
	assert.Empty(t, s.Days)
}

func TestTimeBased_PreservesOrderAndDropsNothing(t *testing.T) {
	videos := []models.PlaylistVideo{
		video("v1", 1200), video("v2", 340), video("v3", 2600),
		video("v4", 45), video("v5", 0), video("v6", 3000),
	}

	s := TimeBased(videos, 45)

	entries := flatten(s)
	require.Len(t, entries, len(videos))
	for i, e := range entries {
		assert.Equal(t, videos[i].Title, e.Title)
		assert.Equal(t, videos[i].Link, e.Link)
		assert.False(t, e.Completed)
		assert.NotEmpty(t, e.ID)
	}
	for _, d := range s.Days {
		assert.NotEmpty(t, d.Videos)
	}
}

func TestTimeBased_DayTotalsWithinBudget(t *testing.T) {
	videos := []models.PlaylistVideo{
		video("v1", 500), video("v2", 500), video("v3", 500),
		video("v4", 2000), video("v5", 100), video("v6", 100),
	}
	budget := (30 - DailyOverheadMinutes) * 60

	s := TimeBased(videos, 30)

	// Rebuild per-day totals from the input; only a single over-budget video
	// may push a day past the budget.
	byTitle := make(map[string]int, len(videos))
	for _, v := range videos {
		byTitle[v.Title] = v.Duration
	}
	for _, d := range s.Days {
		total := 0
		for _, e := range d.Videos {
			total += byTitle[e.Title]
		}
		if total > budget {
			assert.Len(t, d.Videos, 1, "over-budget day %s must hold a single video", d.Label)
		}
	}
}

func TestDayBased_SplitBoundary(t *testing.T) {
	// total=3000, avg=1500: v2 triggers the split and opens day 2; once the
	// day index reaches numDays, v3 accumulates into the final day.
	videos := []models.PlaylistVideo{video("v1", 1000), video("v2", 1000), video("v3", 1000)}

	s := DayBased(videos, 2)

	require.Len(t, s.Days, 2)
	require.Len(t, s.Days[0].Videos, 1)
	assert.Equal(t, "v1", s.Days[0].Videos[0].Title)
	require.Len(t, s.Days[1].Videos, 2)
	assert.Equal(t, "v2", s.Days[1].Videos[0].Title)
	assert.Equal(t, "v3", s.Days[1].Videos[1].Title)
}

func TestDayBased_AtMostNumDays(t *testing.T) {
	var videos []models.PlaylistVideo
	for i := 0; i < 20; i++ {
		videos = append(videos, video(string(rune('a'+i)), 100*(i+1)))
	}

	for _, numDays := range []int{1, 3, 7, 19, 25} {
		s := DayBased(videos, numDays)

		assert.LessOrEqual(t, len(s.Days), numDays)
		assert.NotEmpty(t, s.Days)
		entries := flatten(s)
		require.Len(t, entries, len(videos))
		for i, e := range entries {
			assert.Equal(t, videos[i].Title, e.Title)
		}
		for i, d := range s.Days {
			assert.Equal(t, models.DayLabel(i+1), d.Label)
			assert.NotEmpty(t, d.Videos)
		}
	}
}

func TestDayBased_SingleDay(t *testing.T) {
	s := DayBased([]models.PlaylistVideo{video("a", 100), video("b", 100)}, 1)

	require.Len(t, s.Days, 1)
	assert.Len(t, s.Days[0].Videos, 2)
}

func TestDayBased_MoreDaysThanDuration(t *testing.T) {
	// avg truncates to 0; every positive-duration video after the first
	// triggers a break until the day index is exhausted.
	s := DayBased([]models.PlaylistVideo{video("a", 1), video("b", 1), video("c", 1)}, 10)

	require.Len(t, s.Days, 3)
	for _, d := range s.Days {
		assert.Len(t, d.Videos, 1)
	}
}

func TestDayBased_EmptyInput(t *testing.T) {
	s := DayBased(nil, 5)
	assert.Empty(t, s.Days)
}

func TestNewEntry_FreezesDurationDisplay(t *testing.T) {
	s := TimeBased([]models.PlaylistVideo{video("long", 94985)}, 60)

	require.Len(t, s.Days, 1)
	assert.Equal(t, "26:23:05", s.Days[0].Videos[0].Duration)
}

func TestEntryIDsAreUnique(t *testing.T) {
	// Identical titles within a day must still be independently addressable.
	s := TimeBased([]models.PlaylistVideo{video("dup", 10), video("dup", 10)}, 60)

	entries := flatten(s)
	require.Len(t, entries, 2)
	assert.NotEqual(t, entries[0].ID, entries[1].ID)
}
