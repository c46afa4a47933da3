package heatmap

import (
	"errors"
	"time"
)

const (
	// WindowDays is the fixed length of the trailing window. It is not a
	// calendar year: leap years still cover exactly 365 days.
	WindowDays = 365

	DateLayout = "2006-01-02"
)

var ErrInvalidToday = errors.New("heatmap: today must be a non-zero time")

// DailyActivityRecord is one day of study activity as reported by storage.
type DailyActivityRecord struct {
	Date          string `json:"date"`
	CardsStudied  int    `json:"cardsStudied"`
	SessionCount  int    `json:"sessionCount"`
	TotalDuration *int64 `json:"totalDuration,omitempty"` // milliseconds
}

type Day struct {
	Date          string `json:"date"`
	CardsStudied  int    `json:"cardsStudied"`
	SessionCount  int    `json:"sessionCount"`
	TotalDuration *int64 `json:"totalDuration,omitempty"`
	Level         Level  `json:"level"`
	DayOfWeek     int    `json:"dayOfWeek"`
	WeekIndex     int    `json:"weekIndex"`
	DayIndex      int    `json:"dayIndex"`
}

// Time parses the day's date in the given location. ok is false when
// Date is not a valid YYYY-MM-DD key.
func (d Day) Time(loc *time.Location) (t time.Time, ok bool) {
	t, err := time.ParseInLocation(DateLayout, d.Date, loc)
	return t, err == nil
}

type Week struct {
	WeekIndex int   `json:"weekIndex"`
	Days      []Day `json:"days"`
}

// MonthSpan labels the week columns a calendar month occupies.
type MonthSpan struct {
	Name      string `json:"name"`
	Year      int    `json:"year"`
	WeekStart int    `json:"weekStart"`
	WeekSpan  int    `json:"weekSpan"`
}

type Grid struct {
	Weeks     []Week      `json:"weeks"`
	Months    []MonthSpan `json:"months"`
	StartDate time.Time   `json:"startDate"`
	EndDate   time.Time   `json:"endDate"`
	TotalDays int         `json:"totalDays"`
}

// Days flattens the grid in chronological order.
func (g *Grid) Days() []Day {
	days := make([]Day, 0, g.TotalDays)
	for _, w := range g.Weeks {
		days = append(days, w.Days...)
	}
	return days
}

// Cell returns the day at the given column and row, if the grid has one there.
func (g *Grid) Cell(weekIndex, dayIndex int) (Day, bool) {
	if weekIndex < 0 || weekIndex >= len(g.Weeks) {
		return Day{}, false
	}
	for _, d := range g.Weeks[weekIndex].Days {
		if d.DayIndex == dayIndex {
			return d, true
		}
	}
	return Day{}, false
}
