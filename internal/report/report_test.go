package report

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/aayushbajaj/study-telemetry/pkg/heatmap"
	"github.com/aayushbajaj/study-telemetry/pkg/stats"
)

var pinnedToday = time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)

func testPage(t *testing.T) Page {
	t.Helper()
	grid, err := heatmap.GenerateGrid([]heatmap.DailyActivityRecord{
		{Date: "2024-06-15", CardsStudied: 25, SessionCount: 2},
		{Date: "2024-06-14", CardsStudied: 1, SessionCount: 1},
		{Date: "2024-01-03", CardsStudied: 1234, SessionCount: 9},
	}, pinnedToday)
	if err != nil {
		t.Fatalf("GenerateGrid: %v", err)
	}
	days := grid.Days()
	return Page{
		Grid:          grid,
		Stats:         stats.CalculateHeatmapStats(grid),
		CurrentStreak: stats.CurrentStreak(days, pinnedToday),
		LongestStreak: stats.LongestStreak(days),
	}
}

func TestRenderHTML(t *testing.T) {
	var buf bytes.Buffer
	if err := Render(&buf, testPage(t)); err != nil {
		t.Fatalf("Render: %v", err)
	}
	html := buf.String()

	if !strings.HasPrefix(html, "<!DOCTYPE html>") {
		t.Error("Expected an HTML document")
	}

	for _, want := range []string{
		"<title>Study Activity</title>",
		"Jun 17, 2023",
		"Jun 15, 2024",
		`class="month-label"`,
		">Jun<",
		">Mon<",
		">Wed<",
		">Fri<",
		"25 cards studied on Saturday, June 15, 2024",
		"1 card studied on Friday, June 14, 2024",
		"1,234 cards studied on Wednesday, January 3, 2024",
		"No activity on Thursday, June 13, 2024",
		"1,260",
		"2 days",
	} {
		if !strings.Contains(html, want) {
			t.Errorf("Expected %q in HTML", want)
		}
	}
}

func TestRenderHTMLCells(t *testing.T) {
	var buf bytes.Buffer
	if err := Render(&buf, testPage(t)); err != nil {
		t.Fatalf("Render: %v", err)
	}
	html := buf.String()

	if got := strings.Count(html, `<div class="heatmap-cell`); got != heatmap.WindowDays {
		t.Errorf("Rendered %d cells, want %d", got, heatmap.WindowDays)
	}
	if got := strings.Count(html, `<span class="heatmap-cell`); got != 5 {
		t.Errorf("Legend has %d swatches, want 5", got)
	}

	// first cell is Saturday of week 0, last is today
	if !strings.Contains(html, `heatmap-cell level-0" style="grid-column: 2; grid-row: 8;"`) {
		t.Error("Expected first day in column 2, row 8")
	}
	if !strings.Contains(html, `heatmap-cell level-4" style="grid-column: 54; grid-row: 8;"`) {
		t.Error("Expected today at level 4 in the last column")
	}
}

func TestRenderHTMLColors(t *testing.T) {
	var buf bytes.Buffer
	if err := Render(&buf, testPage(t)); err != nil {
		t.Fatalf("Render: %v", err)
	}
	for i, c := range DefaultColors {
		if !strings.Contains(buf.String(), c) {
			t.Errorf("Expected default color %d (%s) in HTML", i, c)
		}
	}

	p := testPage(t)
	p.Title = "Spanish Verbs"
	p.Colors = [5]string{"#000001", "#000002", "#000003", "#000004", "#000005"}
	buf.Reset()
	if err := Render(&buf, p); err != nil {
		t.Fatalf("Render: %v", err)
	}
	html := buf.String()
	if !strings.Contains(html, "<title>Spanish Verbs</title>") {
		t.Error("Expected custom title")
	}
	if !strings.Contains(html, ".level-4 { background: #000005; }") {
		t.Error("Expected custom level-4 color")
	}
	if strings.Contains(html, ".level-4 { background: "+DefaultColors[4]) {
		t.Error("Default palette leaked into custom render")
	}
}

func TestRenderHTMLGeneratedAt(t *testing.T) {
	var buf bytes.Buffer
	if err := Render(&buf, testPage(t)); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if strings.Contains(buf.String(), "Generated ") {
		t.Error("Zero GeneratedAt should not be rendered")
	}

	p := testPage(t)
	p.GeneratedAt = time.Date(2024, 6, 15, 18, 5, 0, 0, time.UTC)
	buf.Reset()
	if err := Render(&buf, p); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(buf.String(), "Generated Jun 15, 2024 18:05") {
		t.Error("Expected generation timestamp")
	}
}

func TestRenderHTMLEscapesTitle(t *testing.T) {
	p := testPage(t)
	p.Title = "<script>alert(1)</script>"

	var buf bytes.Buffer
	if err := Render(&buf, p); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if strings.Contains(buf.String(), "<script>") {
		t.Error("Title was not escaped")
	}
}

func TestRenderNilGrid(t *testing.T) {
	var buf bytes.Buffer
	if err := Render(&buf, Page{}); err == nil {
		t.Error("Expected error for page without grid")
	}
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reports", "nested", "heatmap.html")
	if err := WriteFile(path, testPage(t)); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !bytes.Contains(data, []byte("Study Activity")) {
		t.Error("Written report missing title")
	}
}
