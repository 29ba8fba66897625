// Package api serves task ranking over HTTP.
package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"golang.org/x/sync/errgroup"

	"github.com/papapumpkin/triage/internal/intake"
	"github.com/papapumpkin/triage/internal/ranking"
	"github.com/papapumpkin/triage/internal/scoring"
	"github.com/papapumpkin/triage/internal/telemetry"
)

// Options configures a Server. Zero values fall back to the defaults noted
// on each field.
type Options struct {
	Ranker *ranking.Ranker // required
	Logger *slog.Logger    // defaults to slog.Default()
	Events *telemetry.Emitter

	Intake          intake.Options
	DefaultStrategy scoring.Strategy // used when the request names none
	SuggestLimit    int              // defaults to ranking.DefaultSuggestLimit

	Addr            string        // defaults to ":8080"
	ReadTimeout     time.Duration // defaults to 10s
	WriteTimeout    time.Duration // defaults to 10s
	ShutdownTimeout time.Duration // defaults to 5s
	MaxBodyBytes    int64         // defaults to 1 MiB
	CORSOrigins     []string      // defaults to any origin

	MetricsEnabled bool
	MetricsPath    string // defaults to "/metrics"
}

// Server routes ranking requests to a Ranker.
type Server struct {
	ranker  *ranking.Ranker
	logger  *slog.Logger
	events  *telemetry.Emitter
	opts    Options
	handler http.Handler
}

// New creates a Server from opts.
func New(opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.SuggestLimit <= 0 {
		opts.SuggestLimit = ranking.DefaultSuggestLimit
	}
	if opts.Addr == "" {
		opts.Addr = ":8080"
	}
	if opts.ReadTimeout <= 0 {
		opts.ReadTimeout = 10 * time.Second
	}
	if opts.WriteTimeout <= 0 {
		opts.WriteTimeout = 10 * time.Second
	}
	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = 5 * time.Second
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = 1 << 20
	}
	if len(opts.CORSOrigins) == 0 {
		opts.CORSOrigins = []string{"*"}
	}
	if opts.MetricsPath == "" {
		opts.MetricsPath = "/metrics"
	}

	s := &Server{
		ranker: opts.Ranker,
		logger: opts.Logger,
		events: opts.Events,
		opts:   opts,
	}
	s.handler = s.routes()
	return s
}

// Handler returns the fully wrapped HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/tasks/analyze/{$}", s.handleAnalyze)
	mux.HandleFunc("POST /api/tasks/analyze", s.handleAnalyze)
	mux.HandleFunc("GET /api/tasks/suggest/{$}", s.handleSuggest)
	mux.HandleFunc("GET /api/tasks/suggest", s.handleSuggest)
	mux.HandleFunc("GET /api/strategies/{$}", s.handleStrategies)
	mux.HandleFunc("GET /api/strategies", s.handleStrategies)
	mux.HandleFunc("GET /health", s.handleHealth)
	if s.opts.MetricsEnabled {
		mux.Handle("GET "+s.opts.MetricsPath, promhttp.Handler())
	}

	c := cors.New(cors.Options{
		AllowedOrigins: s.opts.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", RequestIDHeader},
		ExposedHeaders: []string{RequestIDHeader},
	})

	var h http.Handler = mux
	h = withRecover(s.logger, h)
	h = withObservability(s.logger, h)
	h = withRequestID(h)
	return c.Handler(h)
}

// ListenAndServe listens on the configured address and serves until ctx is
// cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.opts.Addr)
	if err != nil {
		return fmt.Errorf("api: listen on %s: %w", s.opts.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is cancelled. In-flight requests
// get up to the shutdown timeout to finish.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.handler,
		ReadTimeout:       s.opts.ReadTimeout,
		ReadHeaderTimeout: s.opts.ReadTimeout,
		WriteTimeout:      s.opts.WriteTimeout,
		ErrorLog:          slog.NewLogLogger(s.logger.Handler(), slog.LevelWarn),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info("listening", "addr", ln.Addr().String())
		if err := srv.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("api: serve: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.opts.ShutdownTimeout)
		defer cancel()
		s.logger.Info("shutting down", "timeout", s.opts.ShutdownTimeout)
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("api: shutdown: %w", err)
		}
		return nil
	})
	return g.Wait()
}
