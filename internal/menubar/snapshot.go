package menubar

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/aayushbajaj/study-telemetry/pkg/heatmap"
	"github.com/aayushbajaj/study-telemetry/pkg/stats"
)

// Source supplies the records for the heatmap window.
type Source interface {
	Window(today time.Time, deck string) ([]heatmap.DailyActivityRecord, error)
}

// Snapshot is what the menu bar shows at one refresh.
type Snapshot struct {
	Today         heatmap.Day
	Stats         stats.HeatmapStats
	CurrentStreak int
	LongestStreak int
	Grid          *heatmap.Grid
	Reference     time.Time
}

// TakeSnapshot builds the year window ending on now and summarises it.
func TakeSnapshot(src Source, builder heatmap.Builder, now time.Time) (Snapshot, error) {
	records, err := src.Window(now, "")
	if err != nil {
		return Snapshot{}, err
	}
	grid, err := builder.Generate(records, now)
	if err != nil {
		return Snapshot{}, err
	}

	days := grid.Days()
	return Snapshot{
		Today:         days[len(days)-1],
		Stats:         stats.CalculateHeatmapStats(grid),
		CurrentStreak: stats.CurrentStreak(days, now),
		LongestStreak: stats.LongestStreak(days),
		Grid:          grid,
		Reference:     now,
	}, nil
}

// Title is the compact status bar text, e.g. "📚 42 🔥5".
func (s Snapshot) Title() string {
	title := "📚 " + stats.FormatCardCount(int64(s.Today.CardsStudied))
	if s.CurrentStreak > 0 {
		title += fmt.Sprintf(" 🔥%d", s.CurrentStreak)
	}
	return title
}

// Lines are the informational rows at the top of the dropdown.
func (s Snapshot) Lines() []string {
	lines := []string{
		"Today: " + formatAbsolute(int64(s.Today.CardsStudied)) + " cards",
		fmt.Sprintf("Streak: %d days (best %d)", s.CurrentStreak, s.LongestStreak),
		fmt.Sprintf("This year: %s cards on %d days", formatAbsolute(int64(s.Stats.TotalCards)), s.Stats.ActiveDays),
	}
	if s.Today.TotalDuration != nil && *s.Today.TotalDuration > 0 {
		lines = append(lines, "Studied today: "+heatmap.FormatDuration(*s.Today.TotalDuration))
	}
	return lines
}

// ErrorTitle is shown when storage cannot be read.
const ErrorTitle = "📚 --"

func formatAbsolute(n int64) string {
	return humanize.Comma(n)
}
