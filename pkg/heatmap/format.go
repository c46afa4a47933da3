package heatmap

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
)

var dayLabels = [7]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

// DayLabels returns the row labels, Sunday first to match DayIndex.
func DayLabels() []string {
	labels := make([]string, len(dayLabels))
	copy(labels, dayLabels[:])
	return labels
}

// Tooltip carries the parts of a tooltip so a presentation layer can
// localize the sentence itself. Month, Day and Year are zero when Date
// does not parse.
type Tooltip struct {
	Date         string     `json:"date"`
	CardsStudied int        `json:"cardsStudied"`
	Weekday      int        `json:"weekday"`
	Month        time.Month `json:"month"`
	Day          int        `json:"day"`
	Year         int        `json:"year"`
}

func TooltipData(day Day) Tooltip {
	tip := Tooltip{
		Date:         day.Date,
		CardsStudied: day.CardsStudied,
		Weekday:      day.DayOfWeek,
	}
	if t, ok := day.Time(time.UTC); ok {
		tip.Month, tip.Day, tip.Year = t.Month(), t.Day(), t.Year()
	}
	return tip
}

// FormatTooltip renders the English tooltip sentence for a cell.
func FormatTooltip(day Day) string {
	tip := TooltipData(day)
	when := tip.Date
	if tip.Year != 0 {
		when = fmt.Sprintf("%s, %s %d, %d",
			time.Weekday(tip.Weekday), tip.Month, tip.Day, tip.Year)
	}

	switch tip.CardsStudied {
	case 0:
		return "No activity on " + when
	case 1:
		return "1 card studied on " + when
	default:
		return fmt.Sprintf("%s cards studied on %s", humanize.Comma(int64(tip.CardsStudied)), when)
	}
}

// FormatDuration renders milliseconds as a short "1h 5m" style string.
func FormatDuration(ms int64) string {
	d := time.Duration(ms) * time.Millisecond
	switch {
	case d <= 0:
		return "0m"
	case d < time.Minute:
		return fmt.Sprintf("%ds", int(d.Seconds()))
	case d < time.Hour:
		return fmt.Sprintf("%dm", int(d.Minutes()))
	default:
		h := int(d.Hours())
		m := int(d.Minutes()) % 60
		if m == 0 {
			return fmt.Sprintf("%dh", h)
		}
		return fmt.Sprintf("%dh %dm", h, m)
	}
}
