package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/aayushbajaj/study-telemetry/internal/api/handlers"
	"github.com/aayushbajaj/study-telemetry/internal/logger"
	"github.com/aayushbajaj/study-telemetry/internal/storage"
	"github.com/aayushbajaj/study-telemetry/pkg/heatmap"
)

type Server struct {
	Engine *gin.Engine

	log             *logger.Logger
	srv             *http.Server
	shutdownTimeout time.Duration
}

// NewServer wires every handler against store.
func NewServer(log *logger.Logger, store *storage.Store, thresholds heatmap.Thresholds, addr string, shutdownTimeout time.Duration) *Server {
	engine := NewRouter(RouterConfig{
		Log:             log,
		HealthHandler:   handlers.NewHealthHandler(),
		HeatmapHandler:  handlers.NewHeatmapHandler(log, store, thresholds),
		ActivityHandler: handlers.NewActivityHandler(log, store),
	})
	return &Server{
		Engine:          engine,
		log:             log,
		srv:             &http.Server{Addr: addr, Handler: engine},
		shutdownTimeout: shutdownTimeout,
	}
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.log.Info("API listening", "addr", s.srv.Addr)
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()
	s.log.Info("API shutting down")
	return s.srv.Shutdown(shutdownCtx)
}
