// Package web hosts the browser-facing dashboard for the guessing game.
package web

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/louisbranch/mindvsmachine/internal/game/rng"
	"github.com/louisbranch/mindvsmachine/internal/platform/metrics"
	"github.com/louisbranch/mindvsmachine/internal/platform/timeouts"
	"github.com/louisbranch/mindvsmachine/internal/services/web/platform/httpx"
	"github.com/louisbranch/mindvsmachine/internal/services/web/platform/observability"
	webstatic "github.com/louisbranch/mindvsmachine/internal/services/web/static"
	"github.com/louisbranch/mindvsmachine/internal/storage"
)

const (
	// DefaultSpecialNumber is the number that gets the gold treatment.
	DefaultSpecialNumber = 47
	// DefaultSpecialMinute is the minute of the hour that shows the special badge.
	DefaultSpecialMinute = 47
)

// visitorPruneInterval is how often idle visitor state is swept.
const visitorPruneInterval = time.Hour

// Config defines startup inputs for the web service.
type Config struct {
	HTTPAddr      string
	Store         storage.RoundStore
	ExportDir     string
	Logger        zerolog.Logger
	Metrics       *metrics.Metrics
	SpecialNumber int
	SpecialMinute int
	Version       string
	// Now overrides the clock for tests.
	Now func() time.Time
	// Engines overrides the generators per algorithm for tests.
	Engines map[rng.Algorithm]*rng.Engine
}

// Server hosts the web HTTP surface and lifecycle.
type Server struct {
	httpAddr   string
	httpServer *http.Server
	app        *app
}

// app carries the dependencies every handler needs.
type app struct {
	store         storage.RoundStore
	exportDir     string
	logger        zerolog.Logger
	metrics       *metrics.Metrics
	engines       map[rng.Algorithm]*rng.Engine
	visitors      *visitorStore
	tracer        trace.Tracer
	now           func() time.Time
	specialNumber int
	specialMinute int
	version       string
}

func newApp(cfg Config) (*app, error) {
	if cfg.Store == nil {
		return nil, errors.New("round store is required")
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	m := cfg.Metrics
	if m == nil {
		m = metrics.New()
	}
	engines := cfg.Engines
	if engines == nil {
		engines = make(map[rng.Algorithm]*rng.Engine)
	}
	for _, info := range rng.Algorithms() {
		if engines[info.Algorithm] != nil {
			continue
		}
		engine, err := rng.NewEngine(info.Algorithm, rng.WithClock(now), rng.WithLogger(cfg.Logger))
		if err != nil {
			return nil, fmt.Errorf("build %s engine: %w", info.Algorithm, err)
		}
		engines[info.Algorithm] = engine
	}
	a := &app{
		store:         cfg.Store,
		exportDir:     strings.TrimSpace(cfg.ExportDir),
		logger:        cfg.Logger,
		metrics:       m,
		engines:       engines,
		visitors:      newVisitorStore(now),
		tracer:        otel.Tracer("github.com/louisbranch/mindvsmachine/internal/services/web"),
		now:           now,
		specialNumber: cfg.SpecialNumber,
		specialMinute: cfg.SpecialMinute,
		version:       strings.TrimSpace(cfg.Version),
	}
	if a.specialNumber == 0 {
		a.specialNumber = DefaultSpecialNumber
	}
	if a.specialMinute == 0 {
		a.specialMinute = DefaultSpecialMinute
	}
	if a.exportDir == "" {
		a.exportDir = storage.ExportDir
	}
	if a.version == "" {
		a.version = "dev"
	}
	return a, nil
}

func (a *app) handler() http.Handler {
	mux := http.NewServeMux()
	get := httpx.RequireMethod(http.MethodGet, http.MethodHead)
	post := httpx.RequireMethod(http.MethodPost)

	mux.Handle("/{$}", get(http.HandlerFunc(a.handleDashboard)))
	mux.Handle("/settings", post(http.HandlerFunc(a.handleSettings)))
	mux.Handle("/generate", post(http.HandlerFunc(a.handleGenerate)))
	mux.Handle("/round/new", post(http.HandlerFunc(a.handleNewRound)))
	mux.Handle("/sessions/export", post(http.HandlerFunc(a.handleExport)))
	mux.Handle("/sessions/export.csv", get(http.HandlerFunc(a.handleDownload)))
	mux.Handle("/sessions/clear", post(http.HandlerFunc(a.handleClear)))
	mux.Handle("/sessions/clear/confirm", post(http.HandlerFunc(a.handleClearConfirm)))
	mux.Handle("/sessions/clear/cancel", post(http.HandlerFunc(a.handleClearCancel)))
	mux.Handle("/charts/distribution", get(http.HandlerFunc(a.handleDistributionChart)))
	mux.Handle("/charts/heatmap", get(http.HandlerFunc(a.handleHeatmapChart)))
	mux.Handle("/api/summary", get(http.HandlerFunc(a.handleSummary)))
	mux.Handle("/healthz", get(http.HandlerFunc(handleHealth)))

	root := http.NewServeMux()
	root.Handle("/static/", http.StripPrefix("/static/", http.FileServer(http.FS(webstatic.FS))))
	root.Handle("/metrics", get(a.metrics.Handler()))
	root.Handle("/", httpx.Chain(mux, withVisitor()))
	return httpx.Chain(root,
		httpx.RecoverPanic(a.logger),
		httpx.RequestID(),
		observability.Trace(),
		observability.RequestLogger(a.logger, a.metrics),
	)
}

// NewHandler builds the root handler with every route and middleware.
func NewHandler(cfg Config) (http.Handler, error) {
	a, err := newApp(cfg)
	if err != nil {
		return nil, err
	}
	return a.handler(), nil
}

// NewServer validates config and constructs a web server.
func NewServer(_ context.Context, cfg Config) (*Server, error) {
	httpAddr := strings.TrimSpace(cfg.HTTPAddr)
	if httpAddr == "" {
		return nil, errors.New("http address is required")
	}
	a, err := newApp(cfg)
	if err != nil {
		return nil, fmt.Errorf("compose web handler: %w", err)
	}
	return &Server{
		httpAddr: httpAddr,
		app:      a,
		httpServer: &http.Server{
			Addr:              httpAddr,
			Handler:           a.handler(),
			ReadHeaderTimeout: timeouts.ReadHeader,
		},
	}, nil
}

// Addr returns the configured listen address.
func (s *Server) Addr() string {
	if s == nil {
		return ""
	}
	return s.httpAddr
}

// ListenAndServe serves HTTP traffic until context cancellation or server stop.
func (s *Server) ListenAndServe(ctx context.Context) error {
	if s == nil {
		return errors.New("web server is nil")
	}
	if ctx == nil {
		return errors.New("context is required")
	}

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- s.httpServer.ListenAndServe()
	}()
	go s.pruneVisitors(ctx)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeouts.Shutdown)
		err := s.httpServer.Shutdown(shutdownCtx)
		cancel()
		if err != nil {
			return fmt.Errorf("shutdown web http server: %w", err)
		}
		return nil
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve web http: %w", err)
	}
}

func (s *Server) pruneVisitors(ctx context.Context) {
	ticker := time.NewTicker(visitorPruneInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if dropped := s.app.visitors.Prune(visitorIdleTTL); dropped > 0 {
				s.app.logger.Debug().Int("dropped", dropped).Msg("pruned idle visitors")
			}
		}
	}
}

// Close closes open server resources.
func (s *Server) Close() {
	if s == nil || s.httpServer == nil {
		return
	}
	_ = s.httpServer.Close()
}
