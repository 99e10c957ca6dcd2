package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/reelscout/internal/core/domain"
	"github.com/custodia-labs/reelscout/internal/core/ports/driven/mocks"
	"github.com/custodia-labs/reelscout/internal/runtime"
)

func newTestMovieService(provider *mocks.MockMetadataProvider, cache *mocks.MockMetadataCache, popular ...string) *movieService {
	services := runtime.NewServices(domain.NewRuntimeConfig("local", "redis"))
	if provider != nil {
		services.SetMetadataProvider(provider)
	}
	cfg := MovieConfig{
		Services:      services,
		CacheTTL:      time.Hour,
		PopularTitles: popular,
		Logger:        discardLogger(),
	}
	if cache != nil {
		cfg.Cache = cache
	}
	return NewMovieService(cfg).(*movieService)
}

func TestMovieService_DetailsUsesCache(t *testing.T) {
	provider := mocks.NewMockMetadataProvider()
	provider.Add("Inception", &domain.MovieDetails{Title: "Inception", Year: "2010"})
	cache := mocks.NewMockMetadataCache()
	svc := newTestMovieService(provider, cache)
	ctx := context.Background()

	first := svc.Details(ctx, "Inception")
	require.True(t, first.Found)
	assert.Equal(t, 1, cache.Len())

	second := svc.Details(ctx, "Inception")
	require.True(t, second.Found)
	assert.Equal(t, "2010", second.Details.Year)
	assert.Equal(t, 1, provider.Calls("Inception"))
}

func TestMovieService_DetailsNotFoundIsNotCached(t *testing.T) {
	provider := mocks.NewMockMetadataProvider()
	cache := mocks.NewMockMetadataCache()
	svc := newTestMovieService(provider, cache)

	res := svc.Details(context.Background(), "Unknown")

	assert.False(t, res.Found)
	assert.Equal(t, "Movie not found!", res.Error)
	assert.Equal(t, 0, cache.Len())
}

func TestMovieService_CacheWriteFailureStillReturnsResult(t *testing.T) {
	provider := mocks.NewMockMetadataProvider()
	provider.Add("Heat", &domain.MovieDetails{Title: "Heat"})
	cache := mocks.NewMockMetadataCache()
	cache.SetErr = errors.New("redis down")
	svc := newTestMovieService(provider, cache)

	assert.True(t, svc.Details(context.Background(), "Heat").Found)
}

func TestMovieService_NoProvider(t *testing.T) {
	svc := newTestMovieService(nil, nil, "Heat")
	ctx := context.Background()

	assert.False(t, svc.Available())
	assert.Equal(t, msgProviderMissing, svc.Details(ctx, "Heat").Error)
	assert.Equal(t, msgProviderMissing, svc.Search(ctx, "Heat", "").Error)
	assert.Empty(t, svc.Popular(ctx))
}

func TestMovieService_EmptyTitle(t *testing.T) {
	svc := newTestMovieService(mocks.NewMockMetadataProvider(), nil)

	assert.Equal(t, msgTitleRequired, svc.Details(context.Background(), "  ").Error)
	assert.False(t, svc.DetailsByIMDbID(context.Background(), "").Found)
}

func TestMovieService_DetailsByIMDbID(t *testing.T) {
	provider := mocks.NewMockMetadataProvider()
	provider.Add("Inception", &domain.MovieDetails{Title: "Inception", IMDbID: "tt1375666"})
	cache := mocks.NewMockMetadataCache()
	svc := newTestMovieService(provider, cache)

	res := svc.DetailsByIMDbID(context.Background(), "tt1375666")

	require.True(t, res.Found)
	assert.Equal(t, "Inception", res.Details.Title)
	cached, err := cache.Get(context.Background(), "imdb:tt1375666")
	require.NoError(t, err)
	assert.Equal(t, "Inception", cached.Title)
}

func TestMovieService_Search(t *testing.T) {
	provider := mocks.NewMockMetadataProvider()
	provider.Add("Alien", &domain.MovieDetails{Title: "Alien", Year: "1979", IMDbID: "tt0078748"})
	svc := newTestMovieService(provider, nil)

	res := svc.Search(context.Background(), " Alien ", "1979")

	require.True(t, res.Found)
	assert.Equal(t, 1, res.TotalResults)
	assert.Equal(t, "tt0078748", res.Results[0].IMDbID)
}

func TestMovieService_PopularSkipsUnknown(t *testing.T) {
	provider := mocks.NewMockMetadataProvider()
	provider.Add("Inception", &domain.MovieDetails{Title: "Inception"})
	provider.Add("Heat", &domain.MovieDetails{Title: "Heat"})
	svc := newTestMovieService(provider, nil, "Inception", "Nonexistent", "Heat")

	movies := svc.Popular(context.Background())

	require.Len(t, movies, 2)
	assert.Equal(t, "Inception", movies[0].Title)
	assert.Equal(t, "Heat", movies[1].Title)
}
