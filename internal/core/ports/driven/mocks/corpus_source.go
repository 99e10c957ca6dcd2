package mocks

import (
	"context"

	"github.com/custodia-labs/reelscout/internal/core/domain"
)

// MockCorpusSource returns a fixed corpus or error.
type MockCorpusSource struct {
	Corpus *domain.Corpus
	Err    error
	Calls  int
}

// NewMockCorpusSource creates a source that yields the given corpus.
func NewMockCorpusSource(corpus *domain.Corpus) *MockCorpusSource {
	return &MockCorpusSource{Corpus: corpus}
}

func (m *MockCorpusSource) Load(ctx context.Context) (*domain.Corpus, error) {
	m.Calls++
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Corpus, nil
}

func (m *MockCorpusSource) Name() string {
	return "mock"
}

// MockCorpusStore is an in-memory CorpusStore.
type MockCorpusStore struct {
	MockCorpusSource
	ReplaceErr error
	Replaces   int
}

// NewMockCorpusStore creates an empty corpus store.
func NewMockCorpusStore() *MockCorpusStore {
	return &MockCorpusStore{MockCorpusSource: MockCorpusSource{Corpus: &domain.Corpus{}}}
}

func (m *MockCorpusStore) Replace(ctx context.Context, corpus *domain.Corpus) error {
	m.Replaces++
	if m.ReplaceErr != nil {
		return m.ReplaceErr
	}
	m.Corpus = corpus
	return nil
}

func (m *MockCorpusStore) Count(ctx context.Context) (int, error) {
	if m.Corpus == nil {
		return 0, nil
	}
	return m.Corpus.Len(), nil
}

func (m *MockCorpusStore) Name() string {
	return "mock-store"
}
