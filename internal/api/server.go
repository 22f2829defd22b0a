package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/HelicopterHelicopter/AssetHound/internal/config"
	"github.com/HelicopterHelicopter/AssetHound/internal/domain"
)

// Engine runs validation batches and supports whole-batch cancellation.
type Engine interface {
	ValidateBatch(ctx context.Context, urls []string) []domain.ValidationOutcome
	Cancel()
}

// StatusStore serves last-known outcomes for the status endpoint.
type StatusStore interface {
	GetStatus(ctx context.Context, url string) (*domain.CheckStatus, error)
}

// Pinger reports backend connectivity for health checks.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server holds the dependencies for the HTTP server.
type Server struct {
	config     *config.Config
	router     http.Handler
	httpServer *http.Server
	engine     Engine
	store      StatusStore
	pingers    map[string]Pinger
	logger     *zap.Logger
}

func NewServer(cfg *config.Config, engine Engine, store StatusStore, pingers map[string]Pinger, l *zap.Logger) *Server {
	s := &Server{
		config:  cfg,
		engine:  engine,
		store:   store,
		pingers: pingers,
		logger:  l,
	}
	s.router = s.setupRouter()
	return s
}

func (s *Server) Start() error {
	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%s", s.config.ServerPort),
		Handler:      s.router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 120 * time.Second,
	}
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
