package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/custodia-labs/reelscout/internal/core/domain"
	"github.com/custodia-labs/reelscout/internal/core/ports/driven"
	"github.com/custodia-labs/reelscout/internal/core/ports/driving"
	"github.com/custodia-labs/reelscout/internal/metrics"
	"github.com/custodia-labs/reelscout/internal/runtime"
)

// Ensure movieService implements MovieService
var _ driving.MovieService = (*movieService)(nil)

const (
	msgProviderMissing = "Metadata provider not configured"
	msgTitleRequired   = "Movie title is required"
	imdbKeyPrefix      = "imdb:"
)

// MovieConfig holds the dependencies of the movie metadata service.
type MovieConfig struct {
	// Services supplies the metadata provider, which may be swapped at runtime
	Services *runtime.Services

	// Cache stores found results (optional)
	Cache    driven.MetadataCache
	CacheTTL time.Duration

	// PopularTitles are fetched by Popular
	PopularTitles []string

	Logger *slog.Logger
}

// movieService implements the MovieService interface
type movieService struct {
	services *runtime.Services
	cache    driven.MetadataCache
	cacheTTL time.Duration
	popular  []string
	logger   *slog.Logger
}

// NewMovieService creates a new MovieService
func NewMovieService(cfg MovieConfig) driving.MovieService {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &movieService{
		services: cfg.Services,
		cache:    cfg.Cache,
		cacheTTL: cfg.CacheTTL,
		popular:  append([]string(nil), cfg.PopularTitles...),
		logger:   logger,
	}
}

// Details fetches metadata for a title, consulting the cache first
func (s *movieService) Details(ctx context.Context, title string) domain.MetadataResult {
	title = strings.TrimSpace(title)
	if title == "" {
		return domain.MetadataResult{Error: msgTitleRequired}
	}
	return s.cached(ctx, title, func(p driven.MetadataProvider) domain.MetadataResult {
		return p.Lookup(ctx, title)
	})
}

// DetailsByIMDbID fetches metadata for an IMDb identifier
func (s *movieService) DetailsByIMDbID(ctx context.Context, imdbID string) domain.MetadataResult {
	imdbID = strings.TrimSpace(imdbID)
	if imdbID == "" {
		return domain.MetadataResult{Error: "IMDb ID is required"}
	}
	return s.cached(ctx, imdbKeyPrefix+imdbID, func(p driven.MetadataProvider) domain.MetadataResult {
		return p.LookupByIMDbID(ctx, imdbID)
	})
}

// Search lists provider titles matching a query
func (s *movieService) Search(ctx context.Context, title, year string) domain.MetadataSearchResult {
	provider := s.services.MetadataProvider()
	if provider == nil {
		return domain.MetadataSearchResult{Error: msgProviderMissing}
	}
	if strings.TrimSpace(title) == "" {
		return domain.MetadataSearchResult{Error: msgTitleRequired}
	}
	return provider.Search(ctx, strings.TrimSpace(title), strings.TrimSpace(year))
}

// Popular fetches details for the configured popular titles
func (s *movieService) Popular(ctx context.Context) []domain.MovieDetails {
	movies := make([]domain.MovieDetails, 0, len(s.popular))
	if !s.Available() {
		return movies
	}
	for _, title := range s.popular {
		if ctx.Err() != nil {
			break
		}
		result := s.Details(ctx, title)
		if !result.Found {
			s.logger.Debug("popular movie skipped", "title", title, "reason", result.Error)
			continue
		}
		movies = append(movies, *result.Details)
	}
	return movies
}

// Available reports whether a provider is configured
func (s *movieService) Available() bool {
	return s.services.MetadataProvider() != nil
}

func (s *movieService) cached(ctx context.Context, key string, fetch func(driven.MetadataProvider) domain.MetadataResult) domain.MetadataResult {
	provider := s.services.MetadataProvider()
	if provider == nil {
		return domain.MetadataResult{Error: msgProviderMissing}
	}

	if s.cache != nil {
		details, err := s.cache.Get(ctx, key)
		switch {
		case err == nil:
			metrics.RecordCacheResult(true)
			return domain.MetadataResult{Found: true, Details: details}
		case errors.Is(err, domain.ErrNotFound):
			metrics.RecordCacheResult(false)
		default:
			s.logger.Warn("metadata cache read failed", "key", key, "error", err)
		}
	}

	result := fetch(provider)
	if result.Found && s.cache != nil && s.cacheTTL > 0 {
		if err := s.cache.Set(ctx, key, result.Details, s.cacheTTL); err != nil {
			s.logger.Warn("metadata cache write failed", "key", key, "error", err)
		}
	}
	return result
}
