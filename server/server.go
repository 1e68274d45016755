package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httplog/v3"
	"github.com/rs/cors"
	"golang.org/x/sync/errgroup"

	"github.com/sig-0/currconv/config"
	"github.com/sig-0/currconv/provider"
	"github.com/sig-0/currconv/storage"
)

const healthPath = "/health"

var noopLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// Server is the read API over stored conversions and provider rates
type Server struct {
	logger *slog.Logger
	config *config.Config

	storage  storage.Storage
	provider provider.Provider

	mux *chi.Mux
}

// New creates a new server instance
func New(storage storage.Storage, provider provider.Provider, opts ...Option) (*Server, error) {
	s := &Server{
		logger:   noopLogger,
		storage:  storage,
		provider: provider,
		config:   config.DefaultConfig(),
		mux:      chi.NewMux(),
	}

	// Apply the options
	for _, opt := range opts {
		opt(s)
	}

	// Validate the configuration
	if err := config.ValidateConfig(s.config); err != nil {
		return nil, fmt.Errorf("invalid configuration, %w", err)
	}

	// Set up the CORS middleware
	if s.config.CORSConfig != nil {
		corsMiddleware := cors.New(cors.Options{
			AllowedOrigins: s.config.CORSConfig.AllowedOrigins,
			AllowedMethods: s.config.CORSConfig.AllowedMethods,
			AllowedHeaders: s.config.CORSConfig.AllowedHeaders,
		})

		s.mux.Use(corsMiddleware.Handler)
	}

	s.mux.Use(httplog.RequestLogger(s.logger, &httplog.Options{
		Level:         slog.LevelInfo,
		Schema:        httplog.SchemaOTEL,
		RecoverPanics: true,
		Skip: func(r *http.Request, respStatus int) bool {
			return respStatus == http.StatusNotFound ||
				respStatus == http.StatusMethodNotAllowed ||
				r.URL.Path == healthPath
		},
	}))

	s.registerRoutes()

	return s, nil
}

func (s *Server) registerRoutes() {
	// Register the health check handler
	s.mux.Get(healthPath, func(writer http.ResponseWriter, _ *http.Request) {
		writer.WriteHeader(http.StatusOK)
	})

	s.mux.Get("/openapi.yaml", s.OpenAPI)
	s.mux.Get("/docs", s.Redoc)

	s.mux.Route("/v1", func(r chi.Router) {
		r.Get("/conversions", s.Conversions)
		r.Get("/rates/{base}/{target}", s.LiveRate)
		r.Get("/rates/{base}/{target}/history", s.HistoricalRates)
	})
}

// Handler returns the server router
func (s *Server) Handler() http.Handler {
	return s.mux
}

// Serve serves the read API until the context is cancelled
func (s *Server) Serve(ctx context.Context) error {
	server := &http.Server{
		Addr:              s.config.ListenAddress,
		Handler:           s.mux,
		ReadHeaderTimeout: 60 * time.Second,
	}

	group, gCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		defer s.logger.Info("server shut down")

		ln, err := net.Listen("tcp", server.Addr)
		if err != nil {
			return err
		}

		s.logger.Info(
			fmt.Sprintf(
				"server started at %s",
				ln.Addr().String(),
			),
		)

		if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}

		return nil
	})

	group.Go(func() error {
		<-gCtx.Done()

		s.logger.Info("server to be shutdown")

		wsCtx, cancel := context.WithTimeout(context.Background(), time.Second*30)
		defer cancel()

		return server.Shutdown(wsCtx)
	})

	return group.Wait()
}
