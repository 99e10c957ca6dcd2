package services

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/reelscout/internal/core/domain"
	"github.com/custodia-labs/reelscout/internal/core/ports/driven/mocks"
)

func titles(recs []domain.Recommendation) []string {
	out := make([]string, len(recs))
	for i, r := range recs {
		out[i] = r.Title
	}
	return out
}

func TestRecommendationService_RecommendByTitle(t *testing.T) {
	svc, _ := newTestRecommendationService(mocks.NewMockArtifactStore().WithSnapshot(matrixSnapshot()), nil)

	recs := svc.RecommendByTitle(context.Background(), "The Matrix", 10)

	require.Len(t, recs, 2)
	assert.Equal(t, []string{"Matrix Reloaded", "Alien"}, titles(recs))
	assert.Equal(t, 0.9, recs[0].SimilarityScore)
	assert.Equal(t, "Action, Sci-Fi", recs[0].Genres)
	assert.Equal(t, "Neo returns", recs[0].Overview)
	assert.Empty(t, recs[0].Keywords)
	assert.Equal(t, domain.EngineLoaded, svc.State())
}

func TestRecommendationService_RecommendByTitleProperties(t *testing.T) {
	svc, _ := newTestRecommendationService(mocks.NewMockArtifactStore().WithSnapshot(matrixSnapshot()), nil)
	minScore := domain.DefaultRecommendationSettings().MinSimilarityScore

	for _, title := range []string{"The Matrix", "Matrix Reloaded", "Heat", "Alien"} {
		t.Run(title, func(t *testing.T) {
			recs := svc.RecommendByTitle(context.Background(), title, 0)
			for i, r := range recs {
				assert.NotEqual(t, title, r.Title, "query movie must be excluded")
				assert.GreaterOrEqual(t, r.SimilarityScore, minScore)
				if i > 0 {
					assert.GreaterOrEqual(t, recs[i-1].SimilarityScore, r.SimilarityScore)
				}
			}
		})
	}
}

func TestRecommendationService_TiesKeepRowOrder(t *testing.T) {
	svc, _ := newTestRecommendationService(mocks.NewMockArtifactStore().WithSnapshot(matrixSnapshot()), nil)

	recs := svc.RecommendByTitle(context.Background(), "Alien", 0)

	assert.Equal(t, []string{"The Matrix", "Matrix Reloaded", "Heat"}, titles(recs))
}

func TestRecommendationService_CaseInsensitiveTitle(t *testing.T) {
	svc, _ := newTestRecommendationService(mocks.NewMockArtifactStore().WithSnapshot(matrixSnapshot()), nil)
	ctx := context.Background()

	want := svc.RecommendByTitle(ctx, "Heat", 5)
	for _, q := range []string{"heat", "HEAT", "  Heat  "} {
		assert.Equal(t, want, svc.RecommendByTitle(ctx, q, 5), q)
	}
}

func TestRecommendationService_PartialTitlePicksClosestLength(t *testing.T) {
	svc, _ := newTestRecommendationService(mocks.NewMockArtifactStore().WithSnapshot(matrixSnapshot()), nil)

	// "matrix" is a substring of both Matrix titles; "The Matrix" is closer in length.
	recs := svc.RecommendByTitle(context.Background(), "matrix", 1)

	require.Len(t, recs, 1)
	assert.Equal(t, "Matrix Reloaded", recs[0].Title)
}

func TestRecommendationService_Count(t *testing.T) {
	svc, _ := newTestRecommendationService(mocks.NewMockArtifactStore().WithSnapshot(matrixSnapshot()), nil)

	assert.Len(t, svc.RecommendByTitle(context.Background(), "Alien", 1), 1)
	assert.Len(t, svc.RecommendByTitle(context.Background(), "Alien", -3), 3)
}

func TestRecommendationService_UnknownTitle(t *testing.T) {
	svc, _ := newTestRecommendationService(mocks.NewMockArtifactStore().WithSnapshot(matrixSnapshot()), nil)

	recs := svc.RecommendByTitle(context.Background(), "Casablanca", 5)

	assert.NotNil(t, recs)
	assert.Empty(t, recs)
}

func TestRecommendationService_EndToEndThreeMovies(t *testing.T) {
	snap := buildSnapshot(
		[]string{"title", "genres"},
		[]movieRow{{title: "Movie A"}, {title: "Movie B"}, {title: "Movie C"}},
		[][]float64{{1, 0.8, 0.3}, {0.8, 1, 0.5}, {0.3, 0.5, 1}},
	)
	svc, _ := newTestRecommendationService(mocks.NewMockArtifactStore().WithSnapshot(snap), nil)

	recs := svc.RecommendByTitle(context.Background(), "Movie A", 2)

	require.Len(t, recs, 2)
	assert.Equal(t, "Movie B", recs[0].Title)
	assert.Equal(t, 0.8, recs[0].SimilarityScore)
	assert.Equal(t, "Movie C", recs[1].Title)
	assert.Equal(t, 0.3, recs[1].SimilarityScore)
	assert.Equal(t, domain.NotAvailable, recs[0].Overview)
}

func TestRecommendationService_UnavailableArtifacts(t *testing.T) {
	store := mocks.NewMockArtifactStore()
	svc, _ := newTestRecommendationService(store, nil)
	ctx := context.Background()

	err := svc.Load(ctx)
	assert.ErrorIs(t, err, domain.ErrArtifactsUnavailable)
	assert.Equal(t, domain.EngineFailed, svc.State())

	assert.Empty(t, svc.RecommendByTitle(ctx, "Heat", 5))
	assert.Empty(t, svc.RecommendByGenre(ctx, "Drama", 5))
	assert.Empty(t, svc.ListGenres(ctx))
	assert.Equal(t, domain.DatasetStats{}, svc.DatasetStats(ctx))
	assert.Empty(t, svc.EnhancedRecommendations(ctx, "Heat", 5))

	// Artifacts appear later; the next request retries the load.
	store.WithSnapshot(matrixSnapshot())
	assert.NotEmpty(t, svc.RecommendByTitle(ctx, "Heat", 5))
	assert.Equal(t, domain.EngineLoaded, svc.State())
}

func TestRecommendationService_ConcurrentFirstRequestsLoadOnce(t *testing.T) {
	store := mocks.NewMockArtifactStore().WithSnapshot(matrixSnapshot())
	svc, _ := newTestRecommendationService(store, nil)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			svc.RecommendByTitle(context.Background(), "Heat", 3)
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, store.LoadCalls)
}

func TestRecommendationService_Reload(t *testing.T) {
	store := mocks.NewMockArtifactStore().WithSnapshot(matrixSnapshot())
	svc, _ := newTestRecommendationService(store, nil)
	ctx := context.Background()
	require.NoError(t, svc.Load(ctx))

	store.WithSnapshot(buildSnapshot(
		[]string{"title", "genres"},
		[]movieRow{{"Up", "Animation", ""}, {"Cars", "Animation", ""}},
		[][]float64{{1, 0.5}, {0.5, 1}},
	))
	require.NoError(t, svc.Reload(ctx))

	assert.Equal(t, []string{"Animation"}, svc.ListGenres(ctx))
}

func TestRecommendationService_RecommendByGenre(t *testing.T) {
	snap := buildSnapshot(
		[]string{"title", "genres"},
		[]movieRow{
			{"Movie 1", "Action|Drama", ""},
			{"Movie 2", "Comedy", ""},
			{"Movie 3", "Action|Thriller", ""},
			{"Movie 4", "Drama", ""},
		},
		[][]float64{{1, 0, 0, 0}, {0, 1, 0, 0}, {0, 0, 1, 0}, {0, 0, 0, 1}},
	)
	svc, _ := newTestRecommendationService(mocks.NewMockArtifactStore().WithSnapshot(snap), nil)

	recs := svc.RecommendByGenre(context.Background(), "Action", 10)

	assert.ElementsMatch(t, []string{"Movie 1", "Movie 3"}, titles(recs))
	for _, r := range recs {
		assert.Equal(t, 1.0, r.SimilarityScore)
		assert.Contains(t, strings.ToLower(r.Genres), "action")
	}
}

func TestRecommendationService_RecommendByGenreSamples(t *testing.T) {
	svc, _ := newTestRecommendationService(mocks.NewMockArtifactStore().WithSnapshot(matrixSnapshot()), nil)
	ctx := context.Background()

	recs := svc.RecommendByGenre(ctx, "sci-fi", 2)
	require.Len(t, recs, 2)
	assert.NotEqual(t, recs[0].Title, recs[1].Title)
	for _, r := range recs {
		assert.NotEqual(t, "Heat", r.Title)
	}

	assert.Empty(t, svc.RecommendByGenre(ctx, "Romance", 5))
	assert.Empty(t, svc.RecommendByGenre(ctx, "   ", 5))
}

func TestRecommendationService_ListGenres(t *testing.T) {
	snap := buildSnapshot(
		[]string{"title", "genres"},
		[]movieRow{{"A", "Action Drama", ""}, {"B", "Comedy", ""}, {"C", "Drama Thriller", ""}, {"D", "", ""}},
		[][]float64{{1, 0, 0, 0}, {0, 1, 0, 0}, {0, 0, 1, 0}, {0, 0, 0, 1}},
	)
	svc, _ := newTestRecommendationService(mocks.NewMockArtifactStore().WithSnapshot(snap), nil)

	assert.Equal(t, []string{"Action", "Comedy", "Drama", "Thriller"}, svc.ListGenres(context.Background()))
}

func TestRecommendationService_ListGenresSeparators(t *testing.T) {
	svc, _ := newTestRecommendationService(mocks.NewMockArtifactStore().WithSnapshot(matrixSnapshot()), nil)

	assert.Equal(t, []string{"Action", "Crime", "Drama", "Horror", "Sci-Fi"}, svc.ListGenres(context.Background()))
}

func TestRecommendationService_DatasetStats(t *testing.T) {
	svc, _ := newTestRecommendationService(mocks.NewMockArtifactStore().WithSnapshot(matrixSnapshot()), nil)

	stats := svc.DatasetStats(context.Background())

	assert.Equal(t, 4, stats.TotalMovies)
	assert.Equal(t, 5, stats.TotalGenres)
	assert.InDelta(t, 4.0/12.0, stats.AverageSimilarity, 1e-9)
	assert.Equal(t, domain.MatrixShape{Rows: 4, Cols: 4}, stats.MatrixShape)
	assert.Equal(t, []string{"title", "genres", "overview"}, stats.DataColumns)
	assert.Equal(t, []string{"The Matrix", "Matrix Reloaded", "Heat", "Alien"}, stats.SampleMovies)
	assert.GreaterOrEqual(t, stats.MemoryUsageMB, 0.0)
}

func TestRecommendationService_EnhancedRecommendations(t *testing.T) {
	provider := mocks.NewMockMetadataProvider()
	provider.Add("Matrix Reloaded", &domain.MovieDetails{
		Title:      "The Matrix Reloaded",
		Year:       "2003",
		Director:   "Lana Wachowski, Lilly Wachowski",
		IMDbRating: "7.2",
	})
	svc, _ := newTestRecommendationService(mocks.NewMockArtifactStore().WithSnapshot(matrixSnapshot()), provider)

	recs := svc.EnhancedRecommendations(context.Background(), "The Matrix", 5)

	require.Len(t, recs, 2)
	assert.True(t, recs[0].Enhanced())
	assert.Equal(t, "The Matrix Reloaded", recs[0].Title)
	assert.Equal(t, "Lana Wachowski, Lilly Wachowski", recs[0].Director)
	assert.Equal(t, 0.9, recs[0].RecommendationScore)
	assert.Equal(t, 0.9, recs[0].SimilarityScore)
	assert.Equal(t, "2003", recs[0].Details.Year)

	assert.False(t, recs[1].Enhanced())
	assert.Equal(t, "Alien", recs[1].Title)
	assert.Equal(t, 1, provider.Calls("Alien"))
}

func TestRecommendationService_EnhanceWithoutProvider(t *testing.T) {
	svc, _ := newTestRecommendationService(mocks.NewMockArtifactStore().WithSnapshot(matrixSnapshot()), nil)
	recs := []domain.Recommendation{{Title: "Heat", SimilarityScore: 0.5}}

	out := svc.Enhance(context.Background(), recs)

	require.Len(t, out, 1)
	assert.False(t, out[0].Enhanced())
	assert.Equal(t, "Heat", out[0].Title)
}

func TestRecommendationService_EnhancePreservesOrder(t *testing.T) {
	provider := mocks.NewMockMetadataProvider()
	var recs []domain.Recommendation
	for _, title := range []string{"a", "b", "c", "d", "e", "f", "g", "h"} {
		provider.Add(title, &domain.MovieDetails{Title: strings.ToUpper(title)})
		recs = append(recs, domain.Recommendation{Title: title})
	}
	svc, _ := newTestRecommendationService(mocks.NewMockArtifactStore(), provider)

	out := svc.Enhance(context.Background(), recs)

	require.Len(t, out, len(recs))
	for i, r := range out {
		assert.Equal(t, strings.ToUpper(recs[i].Title), r.Title)
	}
}
