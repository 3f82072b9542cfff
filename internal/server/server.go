// Package server exposes puzzle generation and validation over HTTP.
package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"league_grid_go/internal/usecase"
)

type Options struct {
	Addr            string
	AllowedOrigin   string
	ShutdownTimeout time.Duration
	// Defaults applied to POST /api/puzzles when the body leaves them out.
	Defaults usecase.GenerateOptions
}

type Server struct {
	uc       *usecase.Service
	logger   *zap.Logger
	opts     Options
	defaults usecase.GenerateOptions
}

func New(uc *usecase.Service, opts Options, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.AllowedOrigin == "" {
		opts.AllowedOrigin = "*"
	}
	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = 10 * time.Second
	}
	return &Server{uc: uc, logger: logger, opts: opts, defaults: opts.Defaults}
}

// Handler returns the routed API wrapped in request logging.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	api := r.PathPrefix("/api").Subrouter()
	api.Use(cors(s.opts.AllowedOrigin))

	api.HandleFunc("/puzzles", s.handleList).Methods(http.MethodGet)
	api.HandleFunc("/puzzles", s.handleCreate).Methods(http.MethodPost, http.MethodOptions)
	api.HandleFunc("/puzzles/{id}", s.handleGet).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/puzzles/{id}/validate", s.handleValidate).Methods(http.MethodPost, http.MethodOptions)

	return requestLogger(s.logger, r)
}

// Run listens on the configured address and serves until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.opts.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is cancelled, then drains in-flight requests for at
// most the shutdown timeout.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info("listening", zap.String("addr", ln.Addr().String()))
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.opts.ShutdownTimeout)
		defer cancel()
		s.logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
