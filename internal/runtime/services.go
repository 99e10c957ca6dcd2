package runtime

import (
	"context"
	"io"
	"sync"

	"github.com/custodia-labs/reelscout/internal/core/domain"
	"github.com/custodia-labs/reelscout/internal/core/ports/driven"
)

// Loader produces a serving snapshot.
type Loader func(ctx context.Context) (*domain.Snapshot, error)

// Services holds the loaded snapshot and the optional metadata provider.
// The snapshot is immutable once published; readers share it without locking.
// Thread-safe for concurrent access.
type Services struct {
	mu sync.RWMutex

	// loadMu serialises loads so concurrent first requests load once
	loadMu sync.Mutex

	// Config tracks capability flags
	config *domain.RuntimeConfig

	// Dynamic state (can be nil)
	snapshot *domain.Snapshot
	metadata driven.MetadataProvider
}

// NewServices creates a new Services registry
func NewServices(config *domain.RuntimeConfig) *Services {
	return &Services{
		config: config,
	}
}

// Config returns the runtime configuration
func (s *Services) Config() *domain.RuntimeConfig {
	return s.config
}

// Snapshot returns the current snapshot (may be nil)
func (s *Services) Snapshot() *domain.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot
}

// Load returns the current snapshot, running load first when none is
// published yet. Concurrent callers wait for a single load. A failed load
// publishes nothing, so a later call retries.
func (s *Services) Load(ctx context.Context, load Loader) (*domain.Snapshot, error) {
	if snap := s.Snapshot(); snap != nil {
		return snap, nil
	}

	s.loadMu.Lock()
	defer s.loadMu.Unlock()

	// Another caller may have finished while we waited
	if snap := s.Snapshot(); snap != nil {
		return snap, nil
	}
	return s.replace(ctx, load)
}

// Reload runs load unconditionally and publishes the result on success.
// On failure the previously published snapshot stays in place.
func (s *Services) Reload(ctx context.Context, load Loader) (*domain.Snapshot, error) {
	s.loadMu.Lock()
	defer s.loadMu.Unlock()
	return s.replace(ctx, load)
}

func (s *Services) replace(ctx context.Context, load Loader) (*domain.Snapshot, error) {
	snap, err := load(ctx)
	if err != nil {
		if s.Snapshot() == nil {
			s.config.SetEngineFailed(err.Error())
		}
		return nil, err
	}
	s.SetSnapshot(snap)
	return snap, nil
}

// SetSnapshot publishes a snapshot. Passing nil unloads the engine.
func (s *Services) SetSnapshot(snap *domain.Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshot = snap
	if snap != nil {
		s.config.SetEngineLoaded()
	} else {
		s.config.SetEngineUnloaded()
	}
}

// MetadataProvider returns the current metadata provider (may be nil)
func (s *Services) MetadataProvider() driven.MetadataProvider {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.metadata
}

// SetMetadataProvider updates the metadata provider.
// Closes the old provider if it holds resources. Updates config flags.
func (s *Services) SetMetadataProvider(p driven.MetadataProvider) {
	s.mu.Lock()
	defer s.mu.Unlock()

	closeProvider(s.metadata)
	s.metadata = p
	s.config.SetMetadataAvailable(p != nil)
}

// ValidateAndSetMetadata checks the provider is reachable before setting it
func (s *Services) ValidateAndSetMetadata(ctx context.Context, p driven.MetadataProvider) error {
	if p == nil {
		s.SetMetadataProvider(nil)
		return nil
	}

	if err := p.Ping(ctx); err != nil {
		closeProvider(p)
		return err
	}

	s.SetMetadataProvider(p)
	return nil
}

// Close releases the metadata provider and drops the snapshot
func (s *Services) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	closeProvider(s.metadata)
	s.metadata = nil
	s.snapshot = nil

	s.config.SetMetadataAvailable(false)
	s.config.SetEngineUnloaded()
	return nil
}

func closeProvider(p driven.MetadataProvider) {
	if c, ok := p.(io.Closer); ok && c != nil {
		_ = c.Close()
	}
}
