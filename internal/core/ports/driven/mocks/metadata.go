package mocks

import (
	"context"
	"sync"
	"time"

	"github.com/custodia-labs/reelscout/internal/core/domain"
)

// MockMetadataProvider serves details from an in-memory title map.
type MockMetadataProvider struct {
	mu      sync.Mutex
	details map[string]*domain.MovieDetails
	calls   map[string]int

	// LookupFn overrides Lookup when set
	LookupFn func(title string) domain.MetadataResult
	PingErr  error
}

// NewMockMetadataProvider creates an empty provider.
func NewMockMetadataProvider() *MockMetadataProvider {
	return &MockMetadataProvider{
		details: make(map[string]*domain.MovieDetails),
		calls:   make(map[string]int),
	}
}

// Add registers details for a title.
func (m *MockMetadataProvider) Add(title string, details *domain.MovieDetails) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.details[title] = details
}

func (m *MockMetadataProvider) Lookup(ctx context.Context, title string) domain.MetadataResult {
	m.mu.Lock()
	m.calls[title]++
	m.mu.Unlock()

	if m.LookupFn != nil {
		return m.LookupFn(title)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.details[title]
	if !ok {
		return domain.MetadataResult{Found: false, Error: "Movie not found!"}
	}
	cp := *d
	return domain.MetadataResult{Found: true, Details: &cp}
}

func (m *MockMetadataProvider) LookupByIMDbID(ctx context.Context, imdbID string) domain.MetadataResult {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, d := range m.details {
		if d.IMDbID == imdbID {
			cp := *d
			return domain.MetadataResult{Found: true, Details: &cp}
		}
	}
	return domain.MetadataResult{Found: false, Error: "Incorrect IMDb ID."}
}

func (m *MockMetadataProvider) Search(ctx context.Context, title, year string) domain.MetadataSearchResult {
	m.mu.Lock()
	defer m.mu.Unlock()
	var hits []domain.MetadataSearchHit
	for t, d := range m.details {
		if t == title && (year == "" || d.Year == year) {
			hits = append(hits, domain.MetadataSearchHit{Title: d.Title, Year: d.Year, IMDbID: d.IMDbID, Type: "movie"})
		}
	}
	if len(hits) == 0 {
		return domain.MetadataSearchResult{Found: false, Error: "Movie not found!"}
	}
	return domain.MetadataSearchResult{Found: true, Results: hits, TotalResults: len(hits)}
}

func (m *MockMetadataProvider) Ping(ctx context.Context) error {
	return m.PingErr
}

// Calls returns how many times a title was looked up.
func (m *MockMetadataProvider) Calls(title string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[title]
}

// MockMetadataCache is an in-memory MetadataCache.
type MockMetadataCache struct {
	mu      sync.Mutex
	entries map[string]domain.MovieDetails

	SetErr error
}

// NewMockMetadataCache creates an empty cache.
func NewMockMetadataCache() *MockMetadataCache {
	return &MockMetadataCache{entries: make(map[string]domain.MovieDetails)}
}

func (m *MockMetadataCache) Get(ctx context.Context, key string) (*domain.MovieDetails, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.entries[key]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &d, nil
}

func (m *MockMetadataCache) Set(ctx context.Context, key string, details *domain.MovieDetails, ttl time.Duration) error {
	if m.SetErr != nil {
		return m.SetErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = *details
	return nil
}

func (m *MockMetadataCache) Ping(ctx context.Context) error {
	return nil
}

// Len returns the number of cached entries.
func (m *MockMetadataCache) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}
