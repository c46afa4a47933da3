//go:build darwin

package menubar

import (
	"os"
	"os/exec"
	"time"

	"github.com/caseymrm/menuet"

	"github.com/aayushbajaj/study-telemetry/internal/logger"
	"github.com/aayushbajaj/study-telemetry/internal/report"
	"github.com/aayushbajaj/study-telemetry/pkg/heatmap"
)

const refreshInterval = 30 * time.Second

type App struct {
	source     Source
	builder    heatmap.Builder
	log        *logger.Logger
	reportPath string
	colors     [5]string
}

func New(source Source, thresholds heatmap.Thresholds, log *logger.Logger, reportPath string, colors [5]string) *App {
	return &App{
		source:     source,
		builder:    heatmap.NewBuilder(thresholds),
		log:        log.With("component", "menubar"),
		reportPath: reportPath,
		colors:     colors,
	}
}

// Run blocks on the macOS event loop.
func (a *App) Run() {
	app := menuet.App()
	app.Label = "com.studytel.menubar"
	app.Children = a.menuItems

	go a.updateLoop()

	app.RunApplication()
}

func (a *App) updateLoop() {
	// wait for the event loop before touching the status item
	time.Sleep(3 * time.Second)

	ticker := time.NewTicker(refreshInterval)
	defer ticker.Stop()

	for {
		a.updateTitle()
		<-ticker.C
	}
}

func (a *App) updateTitle() {
	snap, err := TakeSnapshot(a.source, a.builder, time.Now())
	if err != nil {
		a.log.Warn("refresh failed", "error", err)
		menuet.App().SetMenuState(&menuet.MenuState{Title: ErrorTitle})
		return
	}
	menuet.App().SetMenuState(&menuet.MenuState{Title: snap.Title()})
}

func (a *App) menuItems() []menuet.MenuItem {
	var items []menuet.MenuItem

	snap, err := TakeSnapshot(a.source, a.builder, time.Now())
	if err != nil {
		items = append(items, menuet.MenuItem{Text: "Activity unavailable"})
	} else {
		for _, line := range snap.Lines() {
			items = append(items, menuet.MenuItem{Text: line})
		}
	}

	items = append(items,
		menuet.MenuItem{Type: menuet.Separator},
		menuet.MenuItem{Text: "Open Heatmap", Clicked: a.openReport},
		menuet.MenuItem{Type: menuet.Separator},
		menuet.MenuItem{Text: "Quit", Clicked: a.quit},
	)
	return items
}

func (a *App) openReport() {
	go func() {
		snap, err := TakeSnapshot(a.source, a.builder, time.Now())
		if err != nil {
			a.log.Error("failed to load activity", "error", err)
			return
		}
		err = report.WriteFile(a.reportPath, report.Page{
			Grid:          snap.Grid,
			Stats:         snap.Stats,
			CurrentStreak: snap.CurrentStreak,
			LongestStreak: snap.LongestStreak,
			Colors:        a.colors,
			GeneratedAt:   snap.Reference,
		})
		if err != nil {
			a.log.Error("failed to write report", "error", err)
			return
		}
		if err := exec.Command("open", a.reportPath).Run(); err != nil {
			a.log.Error("failed to open report", "error", err, "path", a.reportPath)
		}
	}()
}

func (a *App) quit() {
	a.log.Sync()
	os.Exit(0)
}
