package http

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/custodia-labs/reelscout/internal/core/domain"
	"github.com/custodia-labs/reelscout/internal/core/ports/driving"
)

// Pinger is a simple health check interface
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server represents the HTTP server
type Server struct {
	httpServer *http.Server
	router     *http.ServeMux
	version    string
	features   domain.Features
	logger     *slog.Logger

	// Services
	recommendationService driving.RecommendationService
	movieService          driving.MovieService

	// Infrastructure
	db          Pinger // PostgreSQL health check (optional)
	redisClient Pinger // Redis health check (optional)
}

// Config holds server configuration
type Config struct {
	Host         string
	Port         int
	Version      string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	// CORSOrigins lists allowed origins; "*" allows any.
	CORSOrigins []string

	// RateLimit is requests per minute per client IP on /api routes. 0 disables it.
	RateLimit int

	Features domain.Features
	Logger   *slog.Logger
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Host:         "0.0.0.0",
		Port:         8080,
		Version:      "dev",
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		CORSOrigins:  []string{"*"},
		Features:     domain.DefaultFeatures(),
	}
}

// NewServer creates a new HTTP server
func NewServer(
	cfg Config,
	recommendationService driving.RecommendationService,
	movieService driving.MovieService,
	db Pinger, // can be nil
	redisClient Pinger, // can be nil
) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		router:                http.NewServeMux(),
		version:               cfg.Version,
		features:              cfg.Features,
		logger:                logger,
		recommendationService: recommendationService,
		movieService:          movieService,
		db:                    db,
		redisClient:           redisClient,
	}

	s.setupRoutes(cfg.RateLimit)

	handler := NewCORSMiddleware(cfg.CORSOrigins).Handler(s.router)
	handler = NewLoggingMiddleware(logger).Handler(handler)
	handler = NewRecoveryMiddleware(logger).Handler(handler)

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      handler,
		ReadTimeout:  orDefault(cfg.ReadTimeout, 15*time.Second),
		WriteTimeout: orDefault(cfg.WriteTimeout, 60*time.Second),
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// Handler returns the fully wrapped handler. Used by tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes(rateLimit int) {
	limit := NewRateLimitMiddleware(rateLimit, time.Minute)
	recs := func(h http.HandlerFunc) http.Handler {
		return limit(s.requireFeature(featureRecommendations, h))
	}
	movies := func(h http.HandlerFunc) http.Handler {
		return limit(s.requireFeature(featureAPI, h))
	}

	// Health endpoints
	s.router.HandleFunc("GET /health", s.handleHealth)
	s.router.HandleFunc("GET /ready", s.handleReady)
	s.router.HandleFunc("GET /version", s.handleVersion)

	// Operational endpoints
	s.router.Handle("GET /metrics", promhttp.Handler())
	s.router.HandleFunc("GET /swagger/doc.json", s.handleSwaggerDoc)

	// Recommendation endpoints. Literal segments win over {title}.
	s.router.Handle("GET /api/v1/recommendations/genres", recs(s.handleListGenres))
	s.router.Handle("GET /api/v1/recommendations/stats", recs(s.handleDatasetStats))
	s.router.Handle("GET /api/v1/recommendations/genre/{genre}", recs(s.handleGenreRecommendations))
	s.router.Handle("GET /api/v1/recommendations/{title}", recs(s.handleTitleRecommendations))

	// Metadata endpoints
	s.router.Handle("GET /api/v1/movies/{title}", movies(s.handleMovieDetails))
	s.router.Handle("GET /api/v1/movies/imdb/{id}", movies(s.handleMovieByIMDbID))
	s.router.Handle("POST /api/v1/movies/search", movies(s.handleMovieLookup))
	s.router.Handle("GET /api/v1/search", movies(s.handleMovieSearch))
	s.router.Handle("GET /api/v1/popular", limit(s.requireFeature(featurePopular, s.handlePopular)))
}

// Start starts the HTTP server with graceful shutdown
func (s *Server) Start() error {
	// Channel to listen for OS signals
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Starting server on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-stop:
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	}
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	log.Println("Server stopped")
	return nil
}

// Stop stops the server
func (s *Server) Stop(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func orDefault(d, fallback time.Duration) time.Duration {
	if d <= 0 {
		return fallback
	}
	return d
}
