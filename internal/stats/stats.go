// Package stats computes derived mood metrics. Everything here is a pure
// function over a slice of entries; nothing touches the database.
package stats

import (
	"math"
	"sort"
	"time"

	"github.com/seralvarez/moodpad/internal/models"
)

// trendLen is how many recent entries the trend projection keeps.
const trendLen = 7

// Compute aggregates a window of mood entries, given most recently created
// first (the order stores return them in). Zero entries yields the zero
// result, not an error.
//
// Ties for the most common mood break to the category whose first entry
// appears earliest in the input.
func Compute(entries []models.MoodEntry) models.MoodStats {
	stats := models.MoodStats{
		MoodDistribution: make(map[models.Mood]int),
		WeeklyTrend:      []models.TrendPoint{},
	}
	if len(entries) == 0 {
		return stats
	}

	stats.TotalEntries = len(entries)

	var sum int
	firstSeen := make(map[models.Mood]int)
	for i, e := range entries {
		sum += e.Intensity
		if _, ok := firstSeen[e.Mood]; !ok {
			firstSeen[e.Mood] = i
		}
		stats.MoodDistribution[e.Mood]++
	}
	stats.AverageIntensity = round1(float64(sum) / float64(len(entries)))

	for mood, count := range stats.MoodDistribution {
		best := stats.MoodDistribution[stats.MostCommonMood]
		switch {
		case stats.MostCommonMood == "":
			stats.MostCommonMood = mood
		case count > best:
			stats.MostCommonMood = mood
		case count == best && firstSeen[mood] < firstSeen[stats.MostCommonMood]:
			stats.MostCommonMood = mood
		}
	}

	for _, e := range entries[:min(trendLen, len(entries))] {
		stats.WeeklyTrend = append(stats.WeeklyTrend, models.TrendPoint{
			Date:      e.Date,
			Mood:      e.Mood,
			Intensity: e.Intensity,
		})
	}

	return stats
}

// Streak counts consecutive calendar days with at least one entry, walking
// backward from the most recent entry's date. A most recent date more than
// one day before today means the streak is already broken and counts as 0.
// Duplicate entries on one day are collapsed before the walk.
func Streak(entries []models.MoodEntry, today string) int {
	dates := distinctDates(entries)
	if len(dates) == 0 {
		return 0
	}

	cursor, err := time.Parse(models.DateLayout, today)
	if err != nil {
		return 0
	}

	streak := 0
	for _, d := range dates {
		if dayGap(cursor, d) > 1 {
			break
		}
		streak++
		cursor = d
	}
	return streak
}

// Filter restricts entries to the window [today-windowDays, today], keeping
// the input's order.
func Filter(entries []models.MoodEntry, today string, windowDays int) []models.MoodEntry {
	day, err := time.Parse(models.DateLayout, today)
	if err != nil {
		return []models.MoodEntry{}
	}
	since := models.DateOf(day.AddDate(0, 0, -windowDays))

	out := make([]models.MoodEntry, 0, len(entries))
	for _, e := range entries {
		if e.Date >= since && e.Date <= today {
			out = append(out, e)
		}
	}
	return out
}

// round1 rounds half-up to one decimal place.
func round1(v float64) float64 {
	return math.Floor(v*10+0.5) / 10
}

// distinctDates returns the unique entry dates, most recent first.
func distinctDates(entries []models.MoodEntry) []time.Time {
	seen := make(map[string]bool, len(entries))
	dates := make([]time.Time, 0, len(entries))
	for _, e := range entries {
		if seen[e.Date] {
			continue
		}
		d, err := time.Parse(models.DateLayout, e.Date)
		if err != nil {
			continue
		}
		seen[e.Date] = true
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].After(dates[j]) })
	return dates
}

func dayGap(later, earlier time.Time) int {
	return int(later.Sub(earlier).Hours() / 24)
}
