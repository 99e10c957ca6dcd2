package driving

import (
	"context"

	"github.com/custodia-labs/reelscout/internal/core/domain"
)

// MovieService exposes provider metadata lookups.
type MovieService interface {
	// Details fetches metadata for a title, consulting the cache first.
	Details(ctx context.Context, title string) domain.MetadataResult

	// DetailsByIMDbID fetches metadata for an IMDb identifier.
	DetailsByIMDbID(ctx context.Context, imdbID string) domain.MetadataResult

	// Search lists provider titles matching a query.
	Search(ctx context.Context, title, year string) domain.MetadataSearchResult

	// Popular fetches details for the configured popular titles, skipping
	// titles the provider does not know.
	Popular(ctx context.Context) []domain.MovieDetails

	// Available reports whether a provider is configured.
	Available() bool
}
