package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/custodia-labs/reelscout/internal/core/domain"
	"github.com/custodia-labs/reelscout/internal/core/ports/driven"
	"github.com/custodia-labs/reelscout/internal/core/ports/driving"
	"github.com/custodia-labs/reelscout/internal/features"
	"github.com/custodia-labs/reelscout/internal/metrics"
	"github.com/custodia-labs/reelscout/internal/normalisers"
	"github.com/custodia-labs/reelscout/internal/postprocessors"
	"github.com/custodia-labs/reelscout/internal/similarity"
	"github.com/custodia-labs/reelscout/internal/vectorspace"
)

// Ensure preprocessService implements PreprocessService
var _ driving.PreprocessService = (*preprocessService)(nil)

// PreprocessLockName is the distributed lock held for the duration of a run.
const PreprocessLockName = "preprocess"

// Pipeline stage names used in logs and metrics
const (
	stageLoad       = "load"
	stageCompose    = "compose"
	stageVectorize  = "vectorize"
	stageSimilarity = "similarity"
	stageSave       = "save"
)

// PreprocessConfig holds the dependencies of the preprocessing pipeline.
type PreprocessConfig struct {
	Source   driven.CorpusSource
	Store    driven.ArtifactStore
	Lock     driven.DistributedLock
	Composer *features.Composer
	Params   domain.TFIDFParams

	// LockTTL bounds how long a crashed run can block others (default 30m)
	LockTTL time.Duration

	// Recorder keeps run history (optional)
	Recorder driven.RunRecorder

	Logger *slog.Logger
}

// preprocessService implements the PreprocessService interface
type preprocessService struct {
	source   driven.CorpusSource
	store    driven.ArtifactStore
	lock     driven.DistributedLock
	composer *features.Composer
	params   domain.TFIDFParams
	lockTTL  time.Duration
	recorder driven.RunRecorder
	logger   *slog.Logger
}

// NewPreprocessService creates a new PreprocessService
func NewPreprocessService(cfg PreprocessConfig) driving.PreprocessService {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	composer := cfg.Composer
	if composer == nil {
		text := domain.DefaultTextSettings()
		composer = features.NewComposer(features.ComposerConfig{
			Registry: normalisers.DefaultRegistry(text, postprocessors.ForSettings(text)),
			Logger:   logger,
		})
	}
	ttl := cfg.LockTTL
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &preprocessService{
		source:   cfg.Source,
		store:    cfg.Store,
		lock:     cfg.Lock,
		composer: composer,
		params:   cfg.Params,
		lockTTL:  ttl,
		recorder: cfg.Recorder,
		logger:   logger,
	}
}

// ArtifactsExist reports whether the serving artifacts are present
func (s *preprocessService) ArtifactsExist(ctx context.Context) bool {
	return s.store.Exists(ctx)
}

// Run builds and persists the full artifact set
func (s *preprocessService) Run(ctx context.Context, force bool) (*domain.Manifest, error) {
	if !force && s.store.Exists(ctx) {
		s.logger.Info("processed data already exists, skipping preprocessing (use force to rebuild)")
		metrics.RecordPreprocessRun("skipped")
		return nil, nil
	}

	if err := vectorspace.Validate(s.params); err != nil {
		metrics.RecordPreprocessRun("error")
		return nil, err
	}

	acquired, err := s.lock.Acquire(ctx, PreprocessLockName, s.lockTTL)
	if err != nil {
		metrics.RecordPreprocessRun("error")
		return nil, fmt.Errorf("acquire preprocess lock: %w", err)
	}
	if !acquired {
		metrics.RecordPreprocessRun("locked")
		s.logHolder(ctx)
		return nil, domain.ErrPreprocessInProgress
	}
	stopRenew := s.renewLock(ctx)
	defer stopRenew()
	defer func() {
		releaseCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		if err := s.lock.Release(releaseCtx, PreprocessLockName); err != nil {
			s.logger.Warn("failed to release preprocess lock", "error", err)
		}
	}()

	manifest, err := s.run(ctx)
	if err != nil {
		metrics.RecordPreprocessRun("error")
		s.logger.Error("preprocessing failed", "error", err)
		return nil, err
	}
	metrics.RecordPreprocessRun("success")
	return manifest, nil
}

func (s *preprocessService) run(ctx context.Context) (*domain.Manifest, error) {
	started := time.Now()
	s.logger.Info("preprocessing started", "source", s.source.Name())

	var corpus *domain.Corpus
	if err := s.stage(stageLoad, func() error {
		var err error
		corpus, err = s.source.Load(ctx)
		if err != nil {
			return err
		}
		if corpus == nil || corpus.Len() == 0 {
			return fmt.Errorf("%w: corpus has no movies", domain.ErrCorpusUnavailable)
		}
		return nil
	}); err != nil {
		return nil, fmt.Errorf("load corpus: %w", err)
	}

	var processed *domain.ProcessedCorpus
	_ = s.stage(stageCompose, func() error {
		processed = s.composer.Compose(corpus)
		return nil
	})

	var (
		vectorizer *vectorspace.Vectorizer
		tfidf      *domain.SparseMatrix
	)
	if err := s.stage(stageVectorize, func() error {
		var err error
		vectorizer, tfidf, err = vectorspace.Fit(processed.Documents(), s.params)
		return err
	}); err != nil {
		return nil, fmt.Errorf("build vector space: %w", err)
	}

	var sim *domain.SimilarityMatrix
	_ = s.stage(stageSimilarity, func() error {
		sim = similarity.Build(tfidf)
		return nil
	})

	titles := make([]string, processed.Len())
	for i := range processed.Movies {
		titles[i] = processed.Movies[i].Title
	}
	index := domain.BuildTitleIndex(titles)
	if index.Duplicates > 0 {
		s.logger.Warn("duplicate titles found, lookups resolve to the first occurrence", "duplicates", index.Duplicates)
	}

	bundle := &domain.ArtifactBundle{
		Snapshot: domain.Snapshot{
			Similarity: sim,
			Index:      index,
			Movies:     processed,
		},
		TFIDF:      tfidf,
		Vectorizer: vectorizer.Model(),
	}

	var manifest *domain.Manifest
	if err := s.stage(stageSave, func() error {
		var err error
		manifest, err = s.store.Save(ctx, bundle)
		return err
	}); err != nil {
		return nil, fmt.Errorf("save artifacts: %w", err)
	}

	metrics.CorpusMovies.Set(float64(processed.Len()))
	metrics.VocabularySize.Set(float64(vectorizer.VocabularySize()))

	if s.recorder != nil {
		if err := s.recorder.RecordRun(ctx, manifest); err != nil {
			s.logger.Warn("failed to record preprocessing run", "run_id", manifest.RunID, "error", err)
		}
	}

	s.logger.Info("preprocessing complete",
		"movies", processed.Len(),
		"vocabulary_size", vectorizer.VocabularySize(),
		"tfidf_nnz", tfidf.NNZ(),
		"similarity_shape", fmt.Sprintf("%dx%d", sim.Size(), sim.Size()),
		"duration_ms", time.Since(started).Milliseconds(),
	)
	return manifest, nil
}

// renewLock extends the preprocess lock every third of its TTL until the
// returned stop function is called.
func (s *preprocessService) renewLock(ctx context.Context) (stop func()) {
	interval := s.lockTTL / 3
	if interval <= 0 {
		return func() {}
	}

	done := make(chan struct{})
	finished := make(chan struct{})
	go func() {
		defer close(finished)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := s.lock.Extend(ctx, PreprocessLockName, s.lockTTL); err != nil {
					s.logger.Warn("failed to renew preprocess lock", "error", err)
				}
			}
		}
	}()

	return func() {
		close(done)
		<-finished
	}
}

// logHolder names the current lock holder when the backend can tell.
func (s *preprocessService) logHolder(ctx context.Context) {
	holder, ok := s.lock.(driven.LockHolder)
	if !ok {
		s.logger.Warn("preprocessing already in progress")
		return
	}
	owner, err := holder.Holder(ctx, PreprocessLockName)
	if err != nil {
		s.logger.Warn("preprocessing already in progress", "holder_error", err)
		return
	}
	s.logger.Warn("preprocessing already in progress", "holder", owner)
}

// stage runs one pipeline step and records its duration.
func (s *preprocessService) stage(name string, fn func() error) error {
	start := time.Now()
	err := fn()
	elapsed := time.Since(start)
	metrics.RecordStage(name, elapsed)
	if err != nil {
		return err
	}
	s.logger.Info("stage complete", "stage", name, "duration_ms", elapsed.Milliseconds())
	return nil
}
