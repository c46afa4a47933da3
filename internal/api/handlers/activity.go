package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/aayushbajaj/study-telemetry/internal/api/response"
	"github.com/aayushbajaj/study-telemetry/internal/logger"
	"github.com/aayushbajaj/study-telemetry/internal/storage"
)

// ActivityRecorder is the write side of storage.
type ActivityRecorder interface {
	RecordReview(r storage.Review) (storage.Review, error)
	RecordSession(s storage.Session) (storage.Session, error)
}

type ActivityHandler struct {
	log   *logger.Logger
	store ActivityRecorder
}

func NewActivityHandler(log *logger.Logger, store ActivityRecorder) *ActivityHandler {
	return &ActivityHandler{
		log:   log.With("handler", "ActivityHandler"),
		store: store,
	}
}

type ReviewRequest struct {
	ID         string     `json:"id"`
	CardID     string     `json:"cardId" binding:"required"`
	Deck       string     `json:"deck"`
	SessionID  string     `json:"sessionId"`
	ReviewedAt *time.Time `json:"reviewedAt"`
	DurationMs int64      `json:"durationMs" binding:"gte=0"`
}

type SessionRequest struct {
	ID         string     `json:"id"`
	Deck       string     `json:"deck"`
	StartedAt  *time.Time `json:"startedAt"`
	DurationMs int64      `json:"durationMs" binding:"gte=0"`
}

// POST /api/reviews
func (h *ActivityHandler) RecordReview(c *gin.Context) {
	var req ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_review", err)
		return
	}

	r := storage.Review{
		ID:         req.ID,
		CardID:     req.CardID,
		Deck:       req.Deck,
		SessionID:  req.SessionID,
		DurationMs: req.DurationMs,
	}
	if req.ReviewedAt != nil {
		r.ReviewedAt = *req.ReviewedAt
	}

	saved, err := h.store.RecordReview(r)
	if err != nil {
		h.writeErr(c, "record_review_failed", err)
		return
	}
	response.RespondCreated(c, saved)
}

// POST /api/sessions
func (h *ActivityHandler) RecordSession(c *gin.Context) {
	var req SessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_session", err)
		return
	}

	s := storage.Session{
		ID:         req.ID,
		Deck:       req.Deck,
		DurationMs: req.DurationMs,
	}
	if req.StartedAt != nil {
		s.StartedAt = *req.StartedAt
	}

	saved, err := h.store.RecordSession(s)
	if err != nil {
		h.writeErr(c, "record_session_failed", err)
		return
	}
	response.RespondCreated(c, saved)
}

func (h *ActivityHandler) writeErr(c *gin.Context, code string, err error) {
	if errors.Is(err, storage.ErrDuplicateID) {
		response.RespondError(c, http.StatusConflict, "duplicate_id", err)
		return
	}
	h.log.Error("write failed", "code", code, "error", err)
	response.RespondError(c, http.StatusInternalServerError, code, err)
}
