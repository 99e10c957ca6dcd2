package driving

import (
	"context"

	"github.com/custodia-labs/reelscout/internal/core/domain"
)

// RecommendationService serves recommendations from the loaded snapshot.
// Every query method returns an empty result (never an error) when the
// snapshot cannot be loaded or the query matches nothing.
type RecommendationService interface {
	// Load loads the snapshot if it is not already loaded.
	// Concurrent callers share a single load.
	Load(ctx context.Context) error

	// Reload replaces the snapshot with the artifacts currently on disk.
	Reload(ctx context.Context) error

	// State returns the current load state.
	State() domain.EngineState

	// RecommendByTitle returns movies most similar to the resolved title.
	// count <= 0 uses the configured maximum.
	RecommendByTitle(ctx context.Context, title string, count int) []domain.Recommendation

	// RecommendByGenre returns a random sample of movies in a genre.
	RecommendByGenre(ctx context.Context, genre string, count int) []domain.Recommendation

	// Enhance decorates recommendations with provider metadata.
	Enhance(ctx context.Context, recs []domain.Recommendation) []domain.EnhancedRecommendation

	// EnhancedRecommendations is RecommendByTitle followed by Enhance.
	EnhancedRecommendations(ctx context.Context, title string, count int) []domain.EnhancedRecommendation

	// ListGenres returns the sorted set of distinct genre tokens.
	ListGenres(ctx context.Context) []string

	// DatasetStats summarises the loaded snapshot.
	DatasetStats(ctx context.Context) domain.DatasetStats
}
