package menubar

import (
	"errors"
	"slices"
	"testing"
	"time"

	"github.com/aayushbajaj/study-telemetry/pkg/heatmap"
)

type fakeSource struct {
	records []heatmap.DailyActivityRecord
	err     error
}

func (f fakeSource) Window(time.Time, string) ([]heatmap.DailyActivityRecord, error) {
	return f.records, f.err
}

var now = time.Date(2024, 6, 15, 18, 0, 0, 0, time.UTC)

func int64Ptr(v int64) *int64 { return &v }

func TestTakeSnapshot(t *testing.T) {
	src := fakeSource{records: []heatmap.DailyActivityRecord{
		{Date: "2024-06-13", CardsStudied: 4, SessionCount: 1},
		{Date: "2024-06-14", CardsStudied: 1500, SessionCount: 3},
		{Date: "2024-06-15", CardsStudied: 42, SessionCount: 2, TotalDuration: int64Ptr(3900000)},
	}}

	snap, err := TakeSnapshot(src, heatmap.NewBuilder(heatmap.DefaultThresholds), now)
	if err != nil {
		t.Fatalf("TakeSnapshot: %v", err)
	}

	if snap.Today.Date != "2024-06-15" || snap.Today.CardsStudied != 42 {
		t.Errorf("Today = %+v", snap.Today)
	}
	if snap.CurrentStreak != 3 || snap.LongestStreak != 3 {
		t.Errorf("Streaks = (%d, %d), want (3, 3)", snap.CurrentStreak, snap.LongestStreak)
	}
	if snap.Stats.TotalCards != 1546 {
		t.Errorf("TotalCards = %d, want 1546", snap.Stats.TotalCards)
	}

	if got := snap.Title(); got != "📚 42 🔥3" {
		t.Errorf("Title() = %q", got)
	}

	want := []string{
		"Today: 42 cards",
		"Streak: 3 days (best 3)",
		"This year: 1,546 cards on 3 days",
		"Studied today: 1h 5m",
	}
	if got := snap.Lines(); !slices.Equal(got, want) {
		t.Errorf("Lines() = %q, want %q", got, want)
	}
}

func TestSnapshotTitle(t *testing.T) {
	tests := []struct {
		name     string
		cards    int
		streak   int
		expected string
	}{
		{"nothing yet", 0, 0, "📚 0"},
		{"streak alive from yesterday", 0, 4, "📚 0 🔥4"},
		{"compact thousands", 1500, 10, "📚 1.5K 🔥10"},
		{"millions", 2000000, 1, "📚 2M 🔥1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap := Snapshot{Today: heatmap.Day{CardsStudied: tt.cards}, CurrentStreak: tt.streak}
			if got := snap.Title(); got != tt.expected {
				t.Errorf("Title() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestTakeSnapshotError(t *testing.T) {
	_, err := TakeSnapshot(fakeSource{err: errors.New("locked")}, heatmap.NewBuilder(heatmap.DefaultThresholds), now)
	if err == nil {
		t.Error("Expected source error")
	}

	_, err = TakeSnapshot(fakeSource{}, heatmap.NewBuilder(heatmap.DefaultThresholds), time.Time{})
	if !errors.Is(err, heatmap.ErrInvalidToday) {
		t.Errorf("Expected ErrInvalidToday, got %v", err)
	}
}

func TestFormatAbsolute(t *testing.T) {
	tests := []struct {
		name     string
		input    int64
		expected string
	}{
		{"zero", 0, "0"},
		{"999", 999, "999"},
		{"1000", 1000, "1,000"},
		{"1234567", 1234567, "1,234,567"},
		{"negative", -100, "-100"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatAbsolute(tt.input); got != tt.expected {
				t.Errorf("formatAbsolute(%d) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}
