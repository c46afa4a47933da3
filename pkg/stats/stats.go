package stats

import (
	"math"
	"strconv"
	"time"

	"github.com/aayushbajaj/study-telemetry/pkg/heatmap"
)

type HeatmapStats struct {
	ActiveDays               int     `json:"activeDays"`
	TotalCards               int     `json:"totalCards"`
	TotalSessions            int     `json:"totalSessions"`
	TotalTime                int64   `json:"totalTime"` // milliseconds
	MaxCardsInDay            int     `json:"maxCardsInDay"`
	AverageCardsPerActiveDay float64 `json:"averageCardsPerActiveDay"`
	StudyRate                int     `json:"studyRate"` // percent of window days with activity
}

// CalculateHeatmapStats reduces a grid in a single pass. It never fails;
// an all-zero grid yields all-zero stats.
func CalculateHeatmapStats(grid *heatmap.Grid) HeatmapStats {
	var s HeatmapStats
	if grid == nil {
		return s
	}

	for _, w := range grid.Weeks {
		for _, d := range w.Days {
			if d.CardsStudied > 0 {
				s.ActiveDays++
			}
			s.TotalCards += d.CardsStudied
			s.TotalSessions += d.SessionCount
			if d.TotalDuration != nil {
				s.TotalTime += *d.TotalDuration
			}
			if d.CardsStudied > s.MaxCardsInDay {
				s.MaxCardsInDay = d.CardsStudied
			}
		}
	}

	if s.ActiveDays > 0 {
		s.AverageCardsPerActiveDay = float64(s.TotalCards) / float64(s.ActiveDays)
	}
	if grid.TotalDays > 0 {
		s.StudyRate = int(math.Round(float64(s.ActiveDays) / float64(grid.TotalDays) * 100))
		if s.StudyRate == 100 && s.ActiveDays < grid.TotalDays {
			s.StudyRate = 99
		}
	}
	return s
}

// FindBestDay returns the first day with the highest card count.
func FindBestDay(days []heatmap.Day) (date string, cards int) {
	for _, d := range days {
		if d.CardsStudied > cards {
			date = d.Date
			cards = d.CardsStudied
		}
	}
	return
}

// CurrentStreak counts consecutive active days ending today. A day without
// activity yet does not break the streak until it is over, so counting
// starts from yesterday when today is still empty.
func CurrentStreak(days []heatmap.Day, today time.Time) int {
	active := activeSet(days)
	y, m, d := today.Date()
	date := time.Date(y, m, d, 0, 0, 0, 0, today.Location())

	if !active[date.Format(heatmap.DateLayout)] {
		date = date.AddDate(0, 0, -1)
	}

	streak := 0
	for active[date.Format(heatmap.DateLayout)] {
		streak++
		date = date.AddDate(0, 0, -1)
	}
	return streak
}

// LongestStreak returns the longest run of consecutive active calendar days.
// Days need not be ordered.
func LongestStreak(days []heatmap.Day) int {
	active := activeSet(days)
	longest := 0
	for key := range active {
		t, err := time.Parse(heatmap.DateLayout, key)
		if err != nil {
			continue
		}
		// only start counting at the first day of a run
		if active[t.AddDate(0, 0, -1).Format(heatmap.DateLayout)] {
			continue
		}
		run := 0
		for active[t.Format(heatmap.DateLayout)] {
			run++
			t = t.AddDate(0, 0, 1)
		}
		longest = max(longest, run)
	}
	return longest
}

func activeSet(days []heatmap.Day) map[string]bool {
	active := make(map[string]bool, len(days))
	for _, d := range days {
		if d.CardsStudied > 0 {
			active[d.Date] = true
		}
	}
	return active
}

// FormatCardCount abbreviates large counts: 999, 1.5K, 2M.
// The decimal is truncated, never rounded up.
func FormatCardCount(count int64) string {
	switch {
	case count >= 1000000:
		return formatTenths(count, 1000000) + "M"
	case count >= 1000:
		return formatTenths(count, 1000) + "K"
	default:
		return strconv.FormatInt(count, 10)
	}
}

func formatTenths(count, unit int64) string {
	whole := count / unit
	tenth := (count % unit) * 10 / unit
	if tenth == 0 {
		return strconv.FormatInt(whole, 10)
	}
	return strconv.FormatInt(whole, 10) + "." + strconv.FormatInt(tenth, 10)
}
