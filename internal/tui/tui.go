package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/aayushbajaj/study-telemetry/pkg/heatmap"
	"github.com/aayushbajaj/study-telemetry/pkg/stats"
)

// Source supplies the records for the heatmap window.
type Source interface {
	Window(today time.Time, deck string) ([]heatmap.DailyActivityRecord, error)
}

const cellWidth = 2

type Model struct {
	source  Source
	builder heatmap.Builder
	today   func() time.Time
	deck    string

	grid          *heatmap.Grid
	stats         stats.HeatmapStats
	currentStreak int
	longestStreak int

	cursorWeek int
	cursorDay  int
	themeIdx   int

	width  int
	height int
	err    error
}

type gridMsg struct {
	grid    *heatmap.Grid
	stats   stats.HeatmapStats
	current int
	longest int
	err     error
}

type Option func(*Model)

// WithDeck restricts the view to a single deck.
func WithDeck(deck string) Option {
	return func(m *Model) { m.deck = deck }
}

// WithToday pins the reference date instead of reading the clock.
func WithToday(today func() time.Time) Option {
	return func(m *Model) { m.today = today }
}

func WithThresholds(t heatmap.Thresholds) Option {
	return func(m *Model) { m.builder = heatmap.NewBuilder(t) }
}

func New(source Source, opts ...Option) Model {
	m := Model{
		source:  source,
		builder: heatmap.NewBuilder(heatmap.DefaultThresholds),
		today:   time.Now,
	}
	for _, opt := range opts {
		opt(&m)
	}
	for i, name := range ThemeNames {
		if Themes[name].Name == CurrentTheme.Name {
			m.themeIdx = i
		}
	}
	return m
}

func (m Model) Init() tea.Cmd {
	return m.fetchGrid
}

func (m Model) fetchGrid() tea.Msg {
	today := m.today()
	records, err := m.source.Window(today, m.deck)
	if err != nil {
		return gridMsg{err: err}
	}

	grid, err := m.builder.Generate(records, today)
	if err != nil {
		return gridMsg{err: err}
	}

	days := grid.Days()
	return gridMsg{
		grid:    grid,
		stats:   stats.CalculateHeatmapStats(grid),
		current: stats.CurrentStreak(days, today),
		longest: stats.LongestStreak(days),
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "r":
			return m, m.fetchGrid
		case "t":
			m.themeIdx = (m.themeIdx + 1) % len(ThemeNames)
			SetTheme(ThemeNames[m.themeIdx])
		case "left", "h":
			m.moveCursor(-1, 0)
		case "right", "l":
			m.moveCursor(1, 0)
		case "up", "k":
			m.moveCursor(0, -1)
		case "down", "j":
			m.moveCursor(0, 1)
		case "end", "G":
			m.focusToday()
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case gridMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.grid = msg.grid
		m.stats = msg.stats
		m.currentStreak = msg.current
		m.longestStreak = msg.longest
		m.focusToday()
	}

	return m, nil
}

// moveCursor steps the focused cell, skipping the empty slots of partial
// first and last weeks.
func (m *Model) moveCursor(dWeek, dDay int) {
	if m.grid == nil {
		return
	}
	week, day := m.cursorWeek+dWeek, m.cursorDay+dDay
	if day < 0 || day > 6 {
		return
	}
	if _, ok := m.grid.Cell(week, day); !ok {
		return
	}
	m.cursorWeek, m.cursorDay = week, day
}

func (m *Model) focusToday() {
	if m.grid == nil || len(m.grid.Weeks) == 0 {
		return
	}
	last := m.grid.Weeks[len(m.grid.Weeks)-1]
	m.cursorWeek = last.WeekIndex
	m.cursorDay = last.Days[len(last.Days)-1].DayIndex
}

// Focused returns the day under the cursor.
func (m Model) Focused() (heatmap.Day, bool) {
	if m.grid == nil {
		return heatmap.Day{}, false
	}
	return m.grid.Cell(m.cursorWeek, m.cursorDay)
}

func (m Model) View() string {
	if m.err != nil {
		return fmt.Sprintf("Error: %v\n\nPress q to quit.", m.err)
	}

	if m.grid == nil {
		return "Loading..."
	}

	var b strings.Builder

	title := "Study Activity"
	if m.deck != "" {
		title += " · " + m.deck
	}
	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n\n")

	b.WriteString(m.renderGrid())
	b.WriteString("\n")
	b.WriteString(m.renderLegend())
	b.WriteString("\n\n")

	if day, ok := m.Focused(); ok {
		b.WriteString(statValueStyle.Render(heatmap.FormatTooltip(day)))
		if day.TotalDuration != nil && *day.TotalDuration > 0 {
			b.WriteString(statLabelStyle.Render(" · " + heatmap.FormatDuration(*day.TotalDuration)))
		}
		b.WriteString("\n\n")
	}

	b.WriteString(boxStyle.Render(m.renderStats()))
	b.WriteString("\n")

	b.WriteString(helpStyle.Render("←↓↑→/hjkl: move • G: today • t: theme • r: refresh • q: quit"))

	return b.String()
}

func (m Model) renderGrid() string {
	const labelWidth = 4
	cols := len(m.grid.Weeks)

	// month axis
	axis := []rune(strings.Repeat(" ", labelWidth+cols*cellWidth))
	for _, mo := range m.grid.Months {
		pos := labelWidth + mo.WeekStart*cellWidth
		// skip labels that would overwrite the previous one
		if mo.WeekSpan < 2 && mo.WeekStart != 0 {
			continue
		}
		if pos > 0 && axis[pos-1] != ' ' {
			continue
		}
		for i, r := range mo.Name {
			if pos+i < len(axis) {
				axis[pos+i] = r
			}
		}
	}

	var g strings.Builder
	g.WriteString(statLabelStyle.Render(strings.TrimRight(string(axis), " ")))
	g.WriteString("\n")

	labels := heatmap.DayLabels()
	for row := 0; row < 7; row++ {
		label := ""
		if row%2 == 1 {
			label = labels[row]
		}
		g.WriteString(statLabelStyle.Render(fmt.Sprintf("%-*s", labelWidth, label)))

		for col := 0; col < cols; col++ {
			day, ok := m.grid.Cell(col, row)
			switch {
			case !ok:
				g.WriteString(strings.Repeat(" ", cellWidth))
			case col == m.cursorWeek && row == m.cursorDay:
				g.WriteString(cursorStyle.Render("▣"))
				g.WriteString(" ")
			default:
				g.WriteString(levelStyles[day.Level].Render("■"))
				g.WriteString(" ")
			}
		}
		g.WriteString("\n")
	}

	return g.String()
}

func (m Model) renderLegend() string {
	var b strings.Builder
	b.WriteString(statLabelStyle.Render("    Less "))
	for _, s := range levelStyles {
		b.WriteString(s.Render("■"))
		b.WriteString(" ")
	}
	b.WriteString(statLabelStyle.Render("More"))
	return b.String()
}

func (m Model) renderStats() string {
	s := m.stats
	return fmt.Sprintf(
		"%s %s   %s %s   %s %s   %s %d%%\n%s %s   %s %s   %s %s",
		statLabelStyle.Render("Cards:"),
		statValueStyle.Render(stats.FormatCardCount(int64(s.TotalCards))),
		statLabelStyle.Render("Active days:"),
		statValueStyle.Render(fmt.Sprintf("%d", s.ActiveDays)),
		statLabelStyle.Render("Best day:"),
		statValueStyle.Render(fmt.Sprintf("%d", s.MaxCardsInDay)),
		statLabelStyle.Render("Study rate:"),
		s.StudyRate,
		statLabelStyle.Render("Streak:"),
		statValueStyle.Render(fmt.Sprintf("%d (best %d)", m.currentStreak, m.longestStreak)),
		statLabelStyle.Render("Avg/active day:"),
		statValueStyle.Render(fmt.Sprintf("%.1f", s.AverageCardsPerActiveDay)),
		statLabelStyle.Render("Time:"),
		statValueStyle.Render(heatmap.FormatDuration(s.TotalTime)),
	)
}
