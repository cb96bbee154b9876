// Package httpapi exposes the URL-bar engine and the request filter over
// HTTP and WebSocket so a browser shell can drive them.
package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/bnema/wayfinder/internal/application/usecase"
	"github.com/bnema/wayfinder/internal/domain/entity"
	"github.com/bnema/wayfinder/internal/infrastructure/filtering"
	"github.com/bnema/wayfinder/internal/logging"
	"github.com/bnema/wayfinder/internal/ui/urlbar"
)

const defaultShutdownTimeout = 5 * time.Second

// Suggester produces URL-bar suggestions.
type Suggester interface {
	Execute(ctx context.Context, input usecase.SuggestURLBarInput) *usecase.SuggestURLBarOutput
}

// RequestFilter decides whether a sub-resource request is cancelled.
type RequestFilter interface {
	Evaluate(details filtering.RequestDetails) filtering.Decision
}

// FilterResources reports filter lists and accepts custom rules.
type FilterResources interface {
	Statuses() []filtering.ResourceStatus
	UpdateCustomRules(ctx context.Context, rules string)
}

// RulesWriter persists the user's custom rules. When set, the rebuild is
// left to whoever watches the persisted settings.
type RulesWriter interface {
	SetCustomRules(rules string) error
}

// History records and lists visits.
type History interface {
	RecordVisit(ctx context.Context, input usecase.RecordVisitInput) (*entity.HistoryEntry, error)
	GetRecent(ctx context.Context, limit, offset int) ([]*entity.HistoryEntry, error)
}

// Bookmarks adds and lists favorites.
type Bookmarks interface {
	Add(ctx context.Context, input usecase.AddFavoriteInput) (*entity.Favorite, error)
	GetAll(ctx context.Context) ([]*entity.Favorite, error)
}

// Deps are the collaborators behind the routes. Routes whose collaborator
// is nil are not registered.
type Deps struct {
	Suggester Suggester
	Store     *urlbar.Store
	Filter    RequestFilter
	Resources FilterResources
	Rules     RulesWriter
	History   History
	Bookmarks Bookmarks
	// Invalidate, when set, runs after a visit or bookmark is stored so
	// cached suggestions pick up the change.
	Invalidate func()
}

// Config configures the listener.
type Config struct {
	Listen          string
	ShutdownTimeout time.Duration
	// Version is reported by /health.
	Version string
}

// Server is the HTTP API.
type Server struct {
	cfg    Config
	deps   Deps
	engine *gin.Engine
	ctx    context.Context
}

// New builds the router. ctx carries the base logger for request logs.
func New(ctx context.Context, cfg Config, deps Deps) *Server {
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaultShutdownTimeout
	}

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(requestID(), requestLogger(ctx), gin.Recovery())

	s := &Server{
		cfg:    cfg,
		deps:   deps,
		engine: engine,
		ctx:    logging.WithComponent(ctx, "httpapi"),
	}
	s.routes()
	return s
}

// Handler returns the router, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Listen)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.cfg.Listen, err)
	}
	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	log := logging.FromContext(s.ctx)
	srv := &http.Server{
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return s.ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", ln.Addr().String()).Msg("HTTP API listening")
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	log.Info().Msg("HTTP API stopped")
	return nil
}
