package driven

import (
	"context"
	"time"

	"github.com/custodia-labs/reelscout/internal/core/domain"
)

// MetadataProvider fetches descriptive movie metadata from an external service.
// Lookups never return an error for "not found" or transport failures; those
// are reported through MetadataResult.Found and MetadataResult.Error.
type MetadataProvider interface {
	// Lookup fetches details for a title.
	Lookup(ctx context.Context, title string) domain.MetadataResult

	// LookupByIMDbID fetches details for an IMDb identifier.
	LookupByIMDbID(ctx context.Context, imdbID string) domain.MetadataResult

	// Search lists titles matching a query, optionally filtered by year.
	Search(ctx context.Context, title, year string) domain.MetadataSearchResult

	// Ping checks the provider is reachable.
	Ping(ctx context.Context) error
}

// MetadataCache caches found provider results.
type MetadataCache interface {
	// Get returns cached details for a key, or domain.ErrNotFound.
	Get(ctx context.Context, key string) (*domain.MovieDetails, error)

	// Set stores details for a key with the given TTL.
	Set(ctx context.Context, key string, details *domain.MovieDetails, ttl time.Duration) error

	// Ping checks the cache backend is healthy.
	Ping(ctx context.Context) error
}
