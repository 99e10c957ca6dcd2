package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/custodia-labs/reelscout/internal/core/domain"
	"github.com/custodia-labs/reelscout/internal/core/ports/driven"
	"github.com/custodia-labs/reelscout/internal/core/ports/driving"
)

var _ driving.CorpusImportService = (*corpusImportService)(nil)

// CorpusImportConfig holds the dependencies of the corpus import.
type CorpusImportConfig struct {
	Source driven.CorpusSource
	Target driven.CorpusStore

	// Lock, when set, keeps an import from racing a preprocessing run that
	// reads the same table.
	Lock    driven.DistributedLock
	LockTTL time.Duration

	Logger *slog.Logger
}

type corpusImportService struct {
	source  driven.CorpusSource
	target  driven.CorpusStore
	lock    driven.DistributedLock
	lockTTL time.Duration
	logger  *slog.Logger
}

// NewCorpusImportService creates the service behind the import run mode.
func NewCorpusImportService(cfg CorpusImportConfig) driving.CorpusImportService {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	ttl := cfg.LockTTL
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &corpusImportService{
		source:  cfg.Source,
		target:  cfg.Target,
		lock:    cfg.Lock,
		lockTTL: ttl,
		logger:  logger,
	}
}

func (s *corpusImportService) Import(ctx context.Context) (int, error) {
	if s.lock != nil {
		acquired, err := s.lock.Acquire(ctx, PreprocessLockName, s.lockTTL)
		if err != nil {
			return 0, fmt.Errorf("acquire preprocess lock: %w", err)
		}
		if !acquired {
			return 0, domain.ErrPreprocessInProgress
		}
		defer func() {
			releaseCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
			defer cancel()
			if err := s.lock.Release(releaseCtx, PreprocessLockName); err != nil {
				s.logger.Warn("failed to release preprocess lock", "error", err)
			}
		}()
	}

	start := time.Now()
	corpus, err := s.source.Load(ctx)
	if err != nil {
		return 0, fmt.Errorf("load corpus from %s: %w", s.source.Name(), err)
	}
	if corpus.Len() == 0 {
		return 0, fmt.Errorf("%w: %s has no movies", domain.ErrCorpusUnavailable, s.source.Name())
	}

	if err := s.target.Replace(ctx, corpus); err != nil {
		return 0, fmt.Errorf("replace corpus in %s: %w", s.target.Name(), err)
	}
	n, err := s.target.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count movies in %s: %w", s.target.Name(), err)
	}

	s.logger.Info("corpus imported",
		"from", s.source.Name(),
		"to", s.target.Name(),
		"movies", n,
		"duration", time.Since(start),
	)
	return n, nil
}
