package services

import (
	"io"
	"log/slog"
	"math/rand"

	"github.com/custodia-labs/reelscout/internal/core/domain"
	"github.com/custodia-labs/reelscout/internal/core/ports/driven/mocks"
	"github.com/custodia-labs/reelscout/internal/runtime"
	"github.com/custodia-labs/reelscout/internal/similarity"
)

// discardLogger keeps test output quiet
func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// movieRow is a compact fixture row
type movieRow struct {
	title, genres, overview string
}

// buildSnapshot assembles a serving snapshot from rows and a dense matrix.
func buildSnapshot(columns []string, rows []movieRow, matrix [][]float64) *domain.Snapshot {
	movies := &domain.ProcessedCorpus{Columns: columns}
	titles := make([]string, len(rows))
	for i, r := range rows {
		movies.Movies = append(movies.Movies, domain.ProcessedMovie{
			Movie: domain.Movie{Title: r.title, Genres: r.genres, Overview: r.overview},
		})
		titles[i] = r.title
	}
	return &domain.Snapshot{
		Similarity: similarity.FromDense(matrix),
		Index:      domain.BuildTitleIndex(titles),
		Movies:     movies,
	}
}

// matrixSnapshot is a four movie catalogue with hand-picked similarities.
func matrixSnapshot() *domain.Snapshot {
	return buildSnapshot(
		[]string{"title", "genres", "overview"},
		[]movieRow{
			{"The Matrix", "Action|Sci-Fi", "A hacker learns the truth"},
			{"Matrix Reloaded", "Action, Sci-Fi", "Neo returns"},
			{"Heat", "Crime Drama", "A thief and a detective"},
			{"Alien", "Horror Sci-Fi", "A crew meets a creature"},
		},
		[][]float64{
			{1, 0.9, 0.05, 0.4},
			{0.9, 1, 0.05, 0.4},
			{0.05, 0.05, 1, 0.2},
			{0.4, 0.4, 0.2, 1},
		},
	)
}

// newTestRecommendationService wires a service over a mock store.
func newTestRecommendationService(store *mocks.MockArtifactStore, metadata *mocks.MockMetadataProvider) (*recommendationService, *runtime.Services) {
	services := runtime.NewServices(domain.NewRuntimeConfig("local", "none"))
	cfg := RecommendationConfig{
		Store:    store,
		Services: services,
		Settings: domain.DefaultRecommendationSettings(),
		Rand:     rand.New(rand.NewSource(42)),
		Logger:   discardLogger(),
	}
	if metadata != nil {
		services.SetMetadataProvider(metadata)
		cfg.Metadata = NewMovieService(MovieConfig{Services: services, Logger: discardLogger()})
	}
	return NewRecommendationService(cfg).(*recommendationService), services
}
