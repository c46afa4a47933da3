package heatmap

import "time"

// Builder generates grids with a specific classifier.
type Builder struct {
	Thresholds Thresholds
}

func NewBuilder(t Thresholds) Builder {
	return Builder{Thresholds: t}
}

// GenerateGrid builds the trailing-window grid with DefaultThresholds.
func GenerateGrid(records []DailyActivityRecord, today time.Time) (*Grid, error) {
	return NewBuilder(DefaultThresholds).Generate(records, today)
}

// Generate lays out the WindowDays days ending on today (inclusive) as
// Sunday-first week columns. Records outside the window or with an
// unparseable date are ignored; when dates repeat, the last record wins.
func (b Builder) Generate(records []DailyActivityRecord, today time.Time) (*Grid, error) {
	if today.IsZero() {
		return nil, ErrInvalidToday
	}

	loc := today.Location()
	end := truncateDay(today)
	start := end.AddDate(0, 0, -(WindowDays - 1))

	lookup := indexRecords(records, loc)

	offset := int(start.Weekday())
	weekCount := (WindowDays + offset + 6) / 7
	grid := &Grid{
		Weeks:     make([]Week, weekCount),
		StartDate: start,
		EndDate:   end,
		TotalDays: WindowDays,
	}
	for i := range grid.Weeks {
		grid.Weeks[i].WeekIndex = i
	}

	var months monthFold
	for i := 0; i < WindowDays; i++ {
		date := start.AddDate(0, 0, i)
		key := date.Format(DateLayout)
		weekday := int(date.Weekday())
		weekIndex := (i + offset) / 7

		day := Day{
			Date:      key,
			DayOfWeek: weekday,
			WeekIndex: weekIndex,
			DayIndex:  weekday,
		}
		if rec, ok := lookup[key]; ok {
			day.CardsStudied = max(rec.CardsStudied, 0)
			day.SessionCount = max(rec.SessionCount, 0)
			day.TotalDuration = copyDuration(rec.TotalDuration)
		}
		day.Level = b.Thresholds.Level(day.CardsStudied)

		grid.Weeks[weekIndex].Days = append(grid.Weeks[weekIndex].Days, day)
		months.add(date, weekIndex)
	}
	grid.Months = months.spans

	return grid, nil
}

type monthFold struct {
	spans []MonthSpan
	month time.Month
	year  int
}

func (f *monthFold) add(date time.Time, weekIndex int) {
	if len(f.spans) == 0 || date.Month() != f.month || date.Year() != f.year {
		f.month = date.Month()
		f.year = date.Year()
		f.spans = append(f.spans, MonthSpan{
			Name:      date.Month().String()[:3],
			Year:      date.Year(),
			WeekStart: weekIndex,
			WeekSpan:  1,
		})
		return
	}
	last := &f.spans[len(f.spans)-1]
	last.WeekSpan = weekIndex - last.WeekStart + 1
}

func indexRecords(records []DailyActivityRecord, loc *time.Location) map[string]DailyActivityRecord {
	lookup := make(map[string]DailyActivityRecord, len(records))
	for _, rec := range records {
		t, err := time.ParseInLocation(DateLayout, rec.Date, loc)
		if err != nil {
			continue
		}
		lookup[t.Format(DateLayout)] = rec
	}
	return lookup
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func copyDuration(d *int64) *int64 {
	if d == nil {
		return nil
	}
	v := max(*d, 0)
	return &v
}
