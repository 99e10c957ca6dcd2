package services

import (
	"context"
	"log/slog"
	"math/rand"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/reelscout/internal/core/domain"
	"github.com/custodia-labs/reelscout/internal/core/ports/driven"
	"github.com/custodia-labs/reelscout/internal/core/ports/driving"
	"github.com/custodia-labs/reelscout/internal/metrics"
	"github.com/custodia-labs/reelscout/internal/runtime"
)

// Ensure recommendationService implements RecommendationService
var _ driving.RecommendationService = (*recommendationService)(nil)

// Query kinds used in metrics labels
const (
	kindTitle = "title"
	kindGenre = "genre"
)

// sampleMovieCount is the number of titles listed in dataset stats.
const sampleMovieCount = 5

// genreSeparators are replaced by spaces before genre matching and splitting.
var genreSeparators = strings.NewReplacer("|", " ", ",", " ")

// RecommendationConfig holds the dependencies of the recommendation service.
type RecommendationConfig struct {
	Store    driven.ArtifactStore
	Services *runtime.Services
	Settings domain.RecommendationSettings

	// Metadata decorates recommendations in Enhance (optional)
	Metadata driving.MovieService

	// Rand drives genre sampling. Defaults to a time-seeded source.
	Rand *rand.Rand

	Logger *slog.Logger
}

// recommendationService implements the RecommendationService interface
type recommendationService struct {
	store    driven.ArtifactStore
	services *runtime.Services
	settings domain.RecommendationSettings
	metadata driving.MovieService
	logger   *slog.Logger

	randMu sync.Mutex
	rand   *rand.Rand
}

// NewRecommendationService creates a new RecommendationService
func NewRecommendationService(cfg RecommendationConfig) driving.RecommendationService {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	r := cfg.Rand
	if r == nil {
		r = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	settings := cfg.Settings
	if settings.MaxRecommendations <= 0 {
		settings.MaxRecommendations = domain.DefaultRecommendationSettings().MaxRecommendations
	}
	if settings.EnhanceConcurrency <= 0 {
		settings.EnhanceConcurrency = 1
	}
	return &recommendationService{
		store:    cfg.Store,
		services: cfg.Services,
		settings: settings,
		metadata: cfg.Metadata,
		logger:   logger,
		rand:     r,
	}
}

// Load loads the snapshot if it is not already loaded
func (s *recommendationService) Load(ctx context.Context) error {
	_, err := s.services.Load(ctx, s.loadSnapshot)
	return err
}

// Reload replaces the snapshot with the artifacts currently in the store
func (s *recommendationService) Reload(ctx context.Context) error {
	_, err := s.services.Reload(ctx, s.loadSnapshot)
	return err
}

// State returns the current load state
func (s *recommendationService) State() domain.EngineState {
	return s.services.Config().EngineState()
}

// RecommendByTitle returns the movies most similar to the resolved title
func (s *recommendationService) RecommendByTitle(ctx context.Context, title string, count int) []domain.Recommendation {
	start := time.Now()
	snap := s.snapshot(ctx)
	if snap == nil {
		metrics.RecordRecommendation(kindTitle, "unavailable", time.Since(start))
		return []domain.Recommendation{}
	}

	row, ok := snap.Index.Resolve(title)
	if !ok {
		s.logger.Info("movie not found in dataset", "title", title)
		metrics.RecordRecommendation(kindTitle, "empty", time.Since(start))
		return []domain.Recommendation{}
	}
	if matched := snap.Index.Titles[row]; matched != strings.TrimSpace(title) {
		s.logger.Debug("title resolved", "query", title, "matched", matched)
	}

	scores := snap.Similarity.Row(row)
	candidates := make([]int, 0, len(scores)-1)
	for j, score := range scores {
		if j != row && score >= s.settings.MinSimilarityScore {
			candidates = append(candidates, j)
		}
	}
	sort.SliceStable(candidates, func(a, b int) bool {
		return scores[candidates[a]] > scores[candidates[b]]
	})

	n := s.settings.EffectiveCount(count)
	if len(candidates) > n {
		candidates = candidates[:n]
	}

	recs := make([]domain.Recommendation, len(candidates))
	for i, j := range candidates {
		recs[i] = s.recommendation(snap.Movies, j, scores[j])
	}
	metrics.RecordRecommendation(kindTitle, outcome(len(recs)), time.Since(start))
	return recs
}

// RecommendByGenre returns a random sample of movies whose genres contain the query
func (s *recommendationService) RecommendByGenre(ctx context.Context, genre string, count int) []domain.Recommendation {
	start := time.Now()
	snap := s.snapshot(ctx)
	if snap == nil {
		metrics.RecordRecommendation(kindGenre, "unavailable", time.Since(start))
		return []domain.Recommendation{}
	}

	query := strings.ToLower(strings.TrimSpace(genre))
	if query == "" {
		metrics.RecordRecommendation(kindGenre, "empty", time.Since(start))
		return []domain.Recommendation{}
	}

	var matches []int
	for i := range snap.Movies.Movies {
		genres := strings.ToLower(genreSeparators.Replace(snap.Movies.Movies[i].Genres))
		if strings.Contains(genres, query) {
			matches = append(matches, i)
		}
	}
	if len(matches) == 0 {
		s.logger.Info("no movies found for genre", "genre", genre)
		metrics.RecordRecommendation(kindGenre, "empty", time.Since(start))
		return []domain.Recommendation{}
	}

	n := s.settings.EffectiveCount(count)
	if n > len(matches) {
		n = len(matches)
	}

	s.randMu.Lock()
	perm := s.rand.Perm(len(matches))
	s.randMu.Unlock()

	recs := make([]domain.Recommendation, n)
	for i := 0; i < n; i++ {
		recs[i] = s.recommendation(snap.Movies, matches[perm[i]], 1.0)
	}
	metrics.RecordRecommendation(kindGenre, outcome(len(recs)), time.Since(start))
	return recs
}

// Enhance decorates recommendations with provider metadata. Lookups run with
// bounded concurrency; output order matches input order.
func (s *recommendationService) Enhance(ctx context.Context, recs []domain.Recommendation) []domain.EnhancedRecommendation {
	out := make([]domain.EnhancedRecommendation, len(recs))
	for i := range recs {
		out[i] = domain.EnhancedRecommendation{Recommendation: recs[i]}
	}
	if s.metadata == nil || !s.metadata.Available() || len(recs) == 0 {
		return out
	}

	var g errgroup.Group
	g.SetLimit(s.settings.EnhanceConcurrency)
	for i := range out {
		if ctx.Err() != nil {
			break
		}
		rec := &out[i]
		g.Go(func() error {
			result := s.metadata.Details(ctx, rec.Title)
			if !result.Found || result.Details == nil {
				s.logger.Debug("recommendation not enhanced", "title", rec.Title, "reason", result.Error)
				return nil
			}
			merge(rec, result.Details)
			return nil
		})
	}
	_ = g.Wait()
	return out
}

// EnhancedRecommendations is RecommendByTitle followed by Enhance
func (s *recommendationService) EnhancedRecommendations(ctx context.Context, title string, count int) []domain.EnhancedRecommendation {
	recs := s.RecommendByTitle(ctx, title, count)
	if len(recs) == 0 {
		return []domain.EnhancedRecommendation{}
	}
	enhanced := s.Enhance(ctx, recs)

	n := 0
	for i := range enhanced {
		if enhanced[i].Enhanced() {
			n++
		}
	}
	s.logger.Info("recommendations enhanced", "title", title, "total", len(enhanced), "enhanced", n)
	return enhanced
}

// ListGenres returns the sorted set of distinct genre tokens
func (s *recommendationService) ListGenres(ctx context.Context) []string {
	snap := s.snapshot(ctx)
	if snap == nil {
		return []string{}
	}
	return distinctGenres(snap.Movies)
}

// DatasetStats summarises the loaded snapshot
func (s *recommendationService) DatasetStats(ctx context.Context) domain.DatasetStats {
	snap := s.snapshot(ctx)
	if snap == nil {
		return domain.DatasetStats{}
	}

	n := snap.Similarity.Size()
	samples := make([]string, 0, sampleMovieCount)
	for i := 0; i < len(snap.Movies.Movies) && i < sampleMovieCount; i++ {
		samples = append(samples, snap.Movies.Movies[i].Title)
	}

	return domain.DatasetStats{
		TotalMovies:       snap.Movies.Len(),
		TotalGenres:       len(distinctGenres(snap.Movies)),
		AverageSimilarity: snap.Similarity.OffDiagonalMean(),
		MatrixShape:       domain.MatrixShape{Rows: n, Cols: n},
		DataColumns:       append([]string(nil), snap.Movies.Columns...),
		SampleMovies:      samples,
		MemoryUsageMB:     snap.Similarity.MemoryMB(),
	}
}

// snapshot returns the loaded snapshot, loading lazily. Nil when unavailable.
func (s *recommendationService) snapshot(ctx context.Context) *domain.Snapshot {
	snap, err := s.services.Load(ctx, s.loadSnapshot)
	if err != nil {
		s.logger.Warn("recommendation data unavailable", "error", err)
		return nil
	}
	return snap
}

func (s *recommendationService) loadSnapshot(ctx context.Context) (*domain.Snapshot, error) {
	snap, err := s.store.Load(ctx)
	if err != nil {
		metrics.RecordEngineLoad(0, err)
		return nil, err
	}

	// The vectorizer is not needed to serve, so a missing one only warns.
	// One that disagrees with the matrix means a mixed artifact set.
	model, err := s.store.LoadVectorizer(ctx)
	switch {
	case err != nil:
		s.logger.Warn("vectorizer not loaded, skipping consistency check", "error", err)
	default:
		if err := verifyVectorizer(model, snap); err != nil {
			metrics.RecordEngineLoad(0, err)
			return nil, err
		}
	}
	metrics.RecordEngineLoad(snap.Movies.Len(), nil)

	s.logger.Info("recommendation data loaded",
		"movies", snap.Movies.Len(),
		"matrix_size", snap.Similarity.Size(),
	)
	if snap.Index.Duplicates > 0 {
		s.logger.Warn("duplicate titles in dataset, lookups resolve to the first occurrence",
			"duplicates", snap.Index.Duplicates)
	}
	return snap, nil
}

// recommendation builds the entry for row j. Genres and overview fall back to
// N/A when the column is absent; the optional fields appear only when present.
func (s *recommendationService) recommendation(movies *domain.ProcessedCorpus, j int, score float64) domain.Recommendation {
	m := &movies.Movies[j].Movie
	rec := domain.Recommendation{
		Title:           m.Title,
		SimilarityScore: score,
		Genres:          domain.NotAvailable,
		Overview:        domain.NotAvailable,
	}
	if movies.HasColumn(domain.FieldGenres) {
		rec.Genres = m.Genres
	}
	if movies.HasColumn(domain.FieldOverview) {
		rec.Overview = m.Overview
	}
	if movies.HasColumn(domain.FieldKeywords) {
		rec.Keywords = m.Keywords
	}
	if movies.HasColumn(domain.FieldCast) {
		rec.Cast = m.Cast
	}
	if movies.HasColumn(domain.FieldDirector) {
		rec.Director = m.Director
	}
	return rec
}

// merge copies provider details onto a recommendation. Overlapping fields
// take the provider value; the similarity score is preserved.
func merge(rec *domain.EnhancedRecommendation, details *domain.MovieDetails) {
	rec.Details = details
	rec.RecommendationScore = rec.SimilarityScore
	if details.Title != "" {
		rec.Title = details.Title
	}
	if details.Director != "" {
		rec.Director = details.Director
	}
}

func distinctGenres(movies *domain.ProcessedCorpus) []string {
	seen := make(map[string]struct{})
	for i := range movies.Movies {
		for _, g := range strings.Fields(genreSeparators.Replace(movies.Movies[i].Genres)) {
			seen[g] = struct{}{}
		}
	}
	genres := make([]string, 0, len(seen))
	for g := range seen {
		genres = append(genres, g)
	}
	sort.Strings(genres)
	return genres
}

func outcome(n int) string {
	if n == 0 {
		return "empty"
	}
	return "results"
}
