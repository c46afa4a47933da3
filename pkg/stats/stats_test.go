package stats

import (
	"testing"
	"time"

	"github.com/aayushbajaj/study-telemetry/pkg/heatmap"
)

var pinnedToday = time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)

func mustGrid(t *testing.T, records []heatmap.DailyActivityRecord) *heatmap.Grid {
	t.Helper()
	grid, err := heatmap.GenerateGrid(records, pinnedToday)
	if err != nil {
		t.Fatalf("GenerateGrid failed: %v", err)
	}
	return grid
}

func ms(v int64) *int64 { return &v }

func TestCalculateHeatmapStats(t *testing.T) {
	tests := []struct {
		name     string
		records  []heatmap.DailyActivityRecord
		expected HeatmapStats
	}{
		{
			name:     "empty input",
			records:  nil,
			expected: HeatmapStats{},
		},
		{
			name: "single active day",
			records: []heatmap.DailyActivityRecord{
				{Date: "2024-06-15", CardsStudied: 5, SessionCount: 1, TotalDuration: ms(300000)},
			},
			expected: HeatmapStats{
				ActiveDays:               1,
				TotalCards:               5,
				TotalSessions:            1,
				TotalTime:                300000,
				MaxCardsInDay:            5,
				AverageCardsPerActiveDay: 5,
				StudyRate:                0, // round(1/365*100)
			},
		},
		{
			name: "several days",
			records: []heatmap.DailyActivityRecord{
				{Date: "2024-06-15", CardsStudied: 10, SessionCount: 2, TotalDuration: ms(60000)},
				{Date: "2024-06-14", CardsStudied: 30, SessionCount: 3},
				{Date: "2024-01-01", CardsStudied: 5, SessionCount: 1, TotalDuration: ms(1000)},
				{Date: "2024-01-02", SessionCount: 1}, // opened a session, studied nothing
			},
			expected: HeatmapStats{
				ActiveDays:               3,
				TotalCards:               45,
				TotalSessions:            7,
				TotalTime:                61000,
				MaxCardsInDay:            30,
				AverageCardsPerActiveDay: 15,
				StudyRate:                1,
			},
		},
		{
			name: "out-of-window record ignored",
			records: []heatmap.DailyActivityRecord{
				{Date: "2022-06-15", CardsStudied: 500, SessionCount: 10},
				{Date: "2024-06-01", CardsStudied: 2, SessionCount: 1},
			},
			expected: HeatmapStats{
				ActiveDays:               1,
				TotalCards:               2,
				TotalSessions:            1,
				MaxCardsInDay:            2,
				AverageCardsPerActiveDay: 2,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CalculateHeatmapStats(mustGrid(t, tt.records))
			if result != tt.expected {
				t.Errorf("CalculateHeatmapStats() = %+v, want %+v", result, tt.expected)
			}
		})
	}
}

func TestCalculateHeatmapStatsFullYear(t *testing.T) {
	var records []heatmap.DailyActivityRecord
	for i := 0; i < heatmap.WindowDays; i++ {
		records = append(records, heatmap.DailyActivityRecord{
			Date:         pinnedToday.AddDate(0, 0, -i).Format(heatmap.DateLayout),
			CardsStudied: 1,
			SessionCount: 1,
		})
	}
	result := CalculateHeatmapStats(mustGrid(t, records))
	if result.StudyRate != 100 {
		t.Errorf("StudyRate = %d, want 100", result.StudyRate)
	}
	if result.ActiveDays != heatmap.WindowDays {
		t.Errorf("ActiveDays = %d, want %d", result.ActiveDays, heatmap.WindowDays)
	}

	// 364/365 rounds to 100, but a missed day must never read as a perfect year
	result = CalculateHeatmapStats(mustGrid(t, records[1:]))
	if result.StudyRate != 99 {
		t.Errorf("StudyRate = %d, want 99", result.StudyRate)
	}
	if result.ActiveDays != heatmap.WindowDays-1 {
		t.Errorf("ActiveDays = %d, want %d", result.ActiveDays, heatmap.WindowDays-1)
	}
}

func TestCalculateHeatmapStatsIdempotent(t *testing.T) {
	records := []heatmap.DailyActivityRecord{
		{Date: "2024-06-01", CardsStudied: 25, SessionCount: 3, TotalDuration: ms(1200000)},
		{Date: "2024-05-20", CardsStudied: 4, SessionCount: 1},
		{Date: "2023-11-11", CardsStudied: 11, SessionCount: 2},
	}

	first := mustGrid(t, records)
	second := mustGrid(t, records)

	a := CalculateHeatmapStats(first)
	b := CalculateHeatmapStats(second)
	if a != b {
		t.Errorf("Stats differ across identical grids: %+v vs %+v", a, b)
	}
	if again := CalculateHeatmapStats(first); again != a {
		t.Errorf("Stats changed on recompute: %+v vs %+v", a, again)
	}
	if a.TotalCards != 40 || a.ActiveDays != 3 {
		t.Errorf("Unexpected stats %+v", a)
	}
}

func TestCalculateHeatmapStatsNilGrid(t *testing.T) {
	if got := CalculateHeatmapStats(nil); got != (HeatmapStats{}) {
		t.Errorf("CalculateHeatmapStats(nil) = %+v", got)
	}
}

func TestFindBestDay(t *testing.T) {
	days := []heatmap.Day{
		{Date: "2024-06-01", CardsStudied: 3},
		{Date: "2024-06-02", CardsStudied: 9},
		{Date: "2024-06-03", CardsStudied: 9},
	}
	date, cards := FindBestDay(days)
	if date != "2024-06-02" || cards != 9 {
		t.Errorf("FindBestDay() = (%s, %d), want (2024-06-02, 9)", date, cards)
	}

	date, cards = FindBestDay(nil)
	if date != "" || cards != 0 {
		t.Errorf("FindBestDay(nil) = (%s, %d)", date, cards)
	}
}

func activeDays(dates ...string) []heatmap.Day {
	days := make([]heatmap.Day, 0, len(dates))
	for _, d := range dates {
		days = append(days, heatmap.Day{Date: d, CardsStudied: 1})
	}
	return days
}

func TestCurrentStreak(t *testing.T) {
	tests := []struct {
		name     string
		days     []heatmap.Day
		expected int
	}{
		{"no data", nil, 0},
		{"only today", activeDays("2024-06-15"), 1},
		{"today and two before", activeDays("2024-06-13", "2024-06-14", "2024-06-15"), 3},
		{"today not studied yet", activeDays("2024-06-13", "2024-06-14"), 2},
		{"broken yesterday", activeDays("2024-06-12", "2024-06-13"), 0},
		{"gap in the run", activeDays("2024-06-10", "2024-06-12", "2024-06-14", "2024-06-15"), 2},
		{"stale run", activeDays("2024-05-30", "2024-05-31", "2024-06-01"), 0},
		{"zero-card days ignored", append(activeDays("2024-06-15"), heatmap.Day{Date: "2024-06-14"}), 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CurrentStreak(tt.days, pinnedToday); got != tt.expected {
				t.Errorf("CurrentStreak() = %d, want %d", got, tt.expected)
			}
		})
	}
}

func TestLongestStreak(t *testing.T) {
	tests := []struct {
		name     string
		days     []heatmap.Day
		expected int
	}{
		{"no data", nil, 0},
		{"single day", activeDays("2024-06-15"), 1},
		{"unordered run", activeDays("2024-06-03", "2024-06-01", "2024-06-02"), 3},
		{"two runs", activeDays("2024-01-01", "2024-01-02", "2024-03-01", "2024-03-02", "2024-03-03", "2024-03-04"), 4},
		{"leap day", activeDays("2024-02-28", "2024-02-29", "2024-03-01"), 3},
		{"year boundary", activeDays("2023-12-30", "2023-12-31", "2024-01-01"), 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := LongestStreak(tt.days); got != tt.expected {
				t.Errorf("LongestStreak() = %d, want %d", got, tt.expected)
			}
		})
	}
}

func TestFormatCardCount(t *testing.T) {
	tests := []struct {
		name     string
		count    int64
		expected string
	}{
		{"zero", 0, "0"},
		{"single digit", 5, "5"},
		{"triple digit", 999, "999"},
		{"exactly 1K", 1000, "1K"},
		{"1.5K", 1500, "1.5K"},
		{"just under 1M", 999999, "999.9K"},
		{"exactly 1M", 1000000, "1M"},
		{"2.5M", 2500000, "2.5M"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatCardCount(tt.count); got != tt.expected {
				t.Errorf("FormatCardCount(%d) = %q, want %q", tt.count, got, tt.expected)
			}
		})
	}
}
