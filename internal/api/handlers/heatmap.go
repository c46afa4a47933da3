package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/aayushbajaj/study-telemetry/internal/api/response"
	"github.com/aayushbajaj/study-telemetry/internal/logger"
	"github.com/aayushbajaj/study-telemetry/internal/storage"
	"github.com/aayushbajaj/study-telemetry/pkg/heatmap"
	"github.com/aayushbajaj/study-telemetry/pkg/stats"
)

// ActivityReader is the read side of storage the heatmap endpoints need.
type ActivityReader interface {
	Window(today time.Time, deck string) ([]heatmap.DailyActivityRecord, error)
	MatchDeck(query string) (string, error)
}

type HeatmapHandler struct {
	log     *logger.Logger
	store   ActivityReader
	builder heatmap.Builder
	now     func() time.Time
}

func NewHeatmapHandler(log *logger.Logger, store ActivityReader, thresholds heatmap.Thresholds) *HeatmapHandler {
	return &HeatmapHandler{
		log:     log.With("handler", "HeatmapHandler"),
		store:   store,
		builder: heatmap.NewBuilder(thresholds),
		now:     time.Now,
	}
}

type windowQuery struct {
	Today string `form:"today"`
	Deck  string `form:"deck"`
}

type window struct {
	today time.Time
	deck  string
	grid  *heatmap.Grid
}

type HeatmapResponse struct {
	Deck      string        `json:"deck,omitempty"`
	DayLabels []string      `json:"dayLabels"`
	Grid      *heatmap.Grid `json:"grid"`
}

type BestDay struct {
	Date  string `json:"date"`
	Cards int    `json:"cards"`
}

type StatsResponse struct {
	Deck    string             `json:"deck,omitempty"`
	Stats   stats.HeatmapStats `json:"stats"`
	BestDay *BestDay           `json:"bestDay,omitempty"`
}

type StreakResponse struct {
	Deck    string `json:"deck,omitempty"`
	Today   string `json:"today"`
	Current int    `json:"current"`
	Longest int    `json:"longest"`
}

// GET /api/heatmap
func (h *HeatmapHandler) GetHeatmap(c *gin.Context) {
	w, ok := h.loadWindow(c)
	if !ok {
		return
	}
	response.RespondOK(c, HeatmapResponse{
		Deck:      w.deck,
		DayLabels: heatmap.DayLabels(),
		Grid:      w.grid,
	})
}

// GET /api/stats
func (h *HeatmapHandler) GetStats(c *gin.Context) {
	w, ok := h.loadWindow(c)
	if !ok {
		return
	}
	resp := StatsResponse{
		Deck:  w.deck,
		Stats: stats.CalculateHeatmapStats(w.grid),
	}
	if date, cards := stats.FindBestDay(w.grid.Days()); date != "" {
		resp.BestDay = &BestDay{Date: date, Cards: cards}
	}
	response.RespondOK(c, resp)
}

// GET /api/streak
func (h *HeatmapHandler) GetStreak(c *gin.Context) {
	w, ok := h.loadWindow(c)
	if !ok {
		return
	}
	days := w.grid.Days()
	response.RespondOK(c, StreakResponse{
		Deck:    w.deck,
		Today:   w.today.Format(heatmap.DateLayout),
		Current: stats.CurrentStreak(days, w.today),
		Longest: stats.LongestStreak(days),
	})
}

// loadWindow resolves the query, reads the window from storage and builds
// the grid. It writes the error response itself and reports false on failure.
func (h *HeatmapHandler) loadWindow(c *gin.Context) (window, bool) {
	var q windowQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_query", err)
		return window{}, false
	}

	w := window{today: h.now()}
	if q.Today != "" {
		t, err := time.ParseInLocation(heatmap.DateLayout, q.Today, time.Local)
		if err != nil {
			response.RespondError(c, http.StatusBadRequest, "invalid_today", fmt.Errorf("today must be YYYY-MM-DD: %q", q.Today))
			return window{}, false
		}
		w.today = t
	}

	if q.Deck != "" {
		deck, err := h.store.MatchDeck(q.Deck)
		switch {
		case errors.Is(err, storage.ErrNoDeckMatch):
			response.RespondError(c, http.StatusNotFound, "deck_not_found", err)
			return window{}, false
		case err != nil:
			h.log.Error("match deck failed", "error", err, "query", q.Deck)
			response.RespondError(c, http.StatusInternalServerError, "match_deck_failed", err)
			return window{}, false
		}
		w.deck = deck
	}

	records, err := h.store.Window(w.today, w.deck)
	if err != nil {
		h.log.Error("load window failed", "error", err, "deck", w.deck)
		response.RespondError(c, http.StatusInternalServerError, "load_activity_failed", err)
		return window{}, false
	}

	grid, err := h.builder.Generate(records, w.today)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_today", err)
		return window{}, false
	}
	w.grid = grid
	return w, true
}
