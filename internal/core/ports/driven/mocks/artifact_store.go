package mocks

import (
	"context"
	"fmt"
	"sync"

	"github.com/custodia-labs/reelscout/internal/core/domain"
)

// MockArtifactStore is an in-memory ArtifactStore for testing.
type MockArtifactStore struct {
	mu       sync.Mutex
	bundle   *domain.ArtifactBundle
	manifest *domain.Manifest

	SaveFn func(bundle *domain.ArtifactBundle) (*domain.Manifest, error)
	LoadFn func() (*domain.Snapshot, error)

	SaveCalls int
	LoadCalls int
}

// NewMockArtifactStore creates an empty store.
func NewMockArtifactStore() *MockArtifactStore {
	return &MockArtifactStore{}
}

// WithSnapshot seeds the store with a serving snapshot.
func (m *MockArtifactStore) WithSnapshot(snap *domain.Snapshot) *MockArtifactStore {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bundle = &domain.ArtifactBundle{Snapshot: *snap}
	return m
}

// WithVectorizer adds a fitted vectorizer model to the seeded snapshot.
func (m *MockArtifactStore) WithVectorizer(model *domain.VectorizerModel) *MockArtifactStore {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.bundle == nil {
		m.bundle = &domain.ArtifactBundle{}
	}
	m.bundle.Vectorizer = model
	return m
}

func (m *MockArtifactStore) Save(ctx context.Context, bundle *domain.ArtifactBundle) (*domain.Manifest, error) {
	m.mu.Lock()
	m.SaveCalls++
	m.mu.Unlock()

	if m.SaveFn != nil {
		return m.SaveFn(bundle)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.bundle = bundle
	files := make(map[domain.ArtifactKind]string, len(domain.AllArtifacts))
	for _, kind := range domain.AllArtifacts {
		files[kind] = "mem://" + string(kind)
	}
	m.manifest = &domain.Manifest{
		Files:      files,
		MovieCount: bundle.Movies.Len(),
	}
	if bundle.Vectorizer != nil {
		m.manifest.VocabularySize = len(bundle.Vectorizer.Terms)
		m.manifest.Params = bundle.Vectorizer.Params
	}
	return m.manifest, nil
}

func (m *MockArtifactStore) Load(ctx context.Context) (*domain.Snapshot, error) {
	m.mu.Lock()
	m.LoadCalls++
	m.mu.Unlock()

	if m.LoadFn != nil {
		return m.LoadFn()
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.bundle == nil {
		return nil, fmt.Errorf("load: %w", domain.ErrArtifactsUnavailable)
	}
	snap := m.bundle.Snapshot
	return &snap, nil
}

func (m *MockArtifactStore) LoadVectorizer(ctx context.Context) (*domain.VectorizerModel, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.bundle == nil || m.bundle.Vectorizer == nil {
		return nil, fmt.Errorf("load vectorizer: %w", domain.ErrArtifactsUnavailable)
	}
	return m.bundle.Vectorizer, nil
}

func (m *MockArtifactStore) Exists(ctx context.Context) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.bundle != nil
}

func (m *MockArtifactStore) Manifest(ctx context.Context) (*domain.Manifest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.manifest == nil {
		return nil, domain.ErrNotFound
	}
	return m.manifest, nil
}

// Bundle returns the last saved bundle (for test assertions).
func (m *MockArtifactStore) Bundle() *domain.ArtifactBundle {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.bundle
}
