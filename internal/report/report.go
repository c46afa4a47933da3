package report

import (
	"fmt"
	"html/template"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/aayushbajaj/study-telemetry/pkg/heatmap"
	"github.com/aayushbajaj/study-telemetry/pkg/stats"
)

// DefaultColors is the fallback cell palette for levels 0-4.
var DefaultColors = [5]string{"#1a1a2e", "#2d4a3e", "#3d6b4f", "#5a9a6f", "#7bc96f"}

// Page is everything rendered into a standalone HTML heatmap.
type Page struct {
	Title         string
	Grid          *heatmap.Grid
	Stats         stats.HeatmapStats
	CurrentStreak int
	LongestStreak int
	Colors        [5]string
	GeneratedAt   time.Time
}

type cell struct {
	Class   string
	Column  int
	Row     int
	Tooltip string
}

type monthLabel struct {
	Name   string
	Column int
	Span   int
}

type view struct {
	Page
	Cells     []cell
	Months    []monthLabel
	DayLabels []dayLabel
	Levels    []string
	Summary   []summaryItem
}

type dayLabel struct {
	Name string
	Row  int
}

type summaryItem struct {
	Label string
	Value string
}

var pageTmpl = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html>
<head>
    <meta charset="utf-8">
    <title>{{.Title}}</title>
    <style>
        * { margin: 0; padding: 0; box-sizing: border-box; }
        body {
            font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif;
            background: linear-gradient(135deg, #1a1a2e 0%, #16213e 100%);
            color: #eee;
            min-height: 100vh;
            padding: 30px;
        }
        h1 { text-align: center; margin-bottom: 10px; font-size: 2em; }
        .subtitle { text-align: center; color: #888; margin-bottom: 30px; }
        .heatmap-box {
            max-width: 1100px;
            margin: 0 auto;
            background: rgba(255,255,255,0.05);
            border-radius: 16px;
            padding: 25px;
            border: 1px solid rgba(255,255,255,0.1);
            overflow-x: auto;
        }
        .heatmap {
            display: grid;
            grid-template-columns: 36px repeat({{len .Grid.Weeks}}, 14px);
            grid-template-rows: 16px repeat(7, 14px);
            gap: 3px;
        }
        .month-label, .day-label { font-size: 10px; color: #888; }
        .day-label { grid-column: 1; }
        .heatmap-cell { width: 14px; height: 14px; border-radius: 3px; }
        .heatmap-cell:hover { outline: 1px solid #fff; }
        {{range $i, $c := .Colors}}.level-{{$i}} { background: {{$c}}; }
        {{end}}
        .legend { display: flex; align-items: center; justify-content: flex-end; gap: 4px; margin-top: 12px; font-size: 11px; color: #888; }
        .legend .heatmap-cell { display: inline-block; }
        .stats-summary { display: flex; justify-content: center; flex-wrap: wrap; gap: 40px; margin-top: 30px; }
        .stat { text-align: center; }
        .stat-value { font-size: 1.8em; font-weight: bold; color: #7bc96f; }
        .stat-label { color: #888; font-size: 0.9em; }
        .generated { margin-top: 30px; font-size: 0.8em; }
    </style>
</head>
<body>
    <h1>{{.Title}}</h1>
    <p class="subtitle">{{.Grid.StartDate.Format "Jan 2, 2006"}} – {{.Grid.EndDate.Format "Jan 2, 2006"}}</p>
    <div class="heatmap-box">
        <div class="heatmap">
            {{range .Months}}<div class="month-label" style="grid-row: 1; grid-column: {{.Column}} / span {{.Span}};">{{.Name}}</div>
            {{end}}{{range .DayLabels}}<div class="day-label" style="grid-row: {{.Row}};">{{.Name}}</div>
            {{end}}{{range .Cells}}<div class="heatmap-cell {{.Class}}" style="grid-column: {{.Column}}; grid-row: {{.Row}};" title="{{.Tooltip}}"></div>
            {{end}}
        </div>
        <div class="legend">Less {{range .Levels}}<span class="heatmap-cell {{.}}"></span>{{end}} More</div>
    </div>
    <div class="stats-summary">
        {{range .Summary}}<div class="stat"><div class="stat-value">{{.Value}}</div><div class="stat-label">{{.Label}}</div></div>
        {{end}}
    </div>
    {{if not .GeneratedAt.IsZero}}<p class="subtitle generated">Generated {{.GeneratedAt.Format "Jan 2, 2006 15:04"}}</p>{{end}}
</body>
</html>
`))

// Render writes the page as a standalone HTML document.
func Render(w io.Writer, p Page) error {
	if p.Grid == nil {
		return fmt.Errorf("report: page has no grid")
	}
	if p.Title == "" {
		p.Title = "Study Activity"
	}
	if p.Colors == ([5]string{}) {
		p.Colors = DefaultColors
	}

	v := view{Page: p}
	for _, d := range p.Grid.Days() {
		v.Cells = append(v.Cells, cell{
			Class:   d.Level.Class(),
			Column:  d.WeekIndex + 2,
			Row:     d.DayIndex + 2,
			Tooltip: heatmap.FormatTooltip(d),
		})
	}
	for _, m := range p.Grid.Months {
		v.Months = append(v.Months, monthLabel{Name: m.Name, Column: m.WeekStart + 2, Span: m.WeekSpan})
	}

	// only Mon/Wed/Fri are labelled
	for i, l := range heatmap.DayLabels() {
		if i%2 == 1 {
			v.DayLabels = append(v.DayLabels, dayLabel{Name: l, Row: i + 2})
		}
	}
	for l := heatmap.LevelNone; l <= heatmap.LevelMax; l++ {
		v.Levels = append(v.Levels, l.Class())
	}

	s := p.Stats
	v.Summary = []summaryItem{
		{"Cards studied", humanize.Comma(int64(s.TotalCards))},
		{"Active days", humanize.Comma(int64(s.ActiveDays))},
		{"Best day", humanize.Comma(int64(s.MaxCardsInDay))},
		{"Study rate", fmt.Sprintf("%d%%", s.StudyRate)},
		{"Current streak", fmt.Sprintf("%d days", p.CurrentStreak)},
		{"Longest streak", fmt.Sprintf("%d days", p.LongestStreak)},
		{"Time studied", heatmap.FormatDuration(s.TotalTime)},
	}

	return pageTmpl.Execute(w, v)
}

// WriteFile renders the page to path, creating parent directories.
func WriteFile(path string, p Page) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Render(f, p); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
