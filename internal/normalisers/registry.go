package normalisers

import (
	"sort"
	"strings"
	"sync"

	"github.com/custodia-labs/reelscout/internal/core/domain"
	"github.com/custodia-labs/reelscout/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.NormaliserRegistry = (*Registry)(nil)

// Registry implements NormaliserRegistry with priority-based selection.
// When multiple normalisers match a field, the highest priority one is used.
type Registry struct {
	mu          sync.RWMutex
	normalisers []driven.Normaliser
}

// NewRegistry creates a new normaliser registry.
func NewRegistry() *Registry {
	return &Registry{
		normalisers: make([]driven.Normaliser, 0),
	}
}

// Register registers a normaliser.
func (r *Registry) Register(normaliser driven.Normaliser) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.normalisers = append(r.normalisers, normaliser)
}

// Get retrieves the best-matching normaliser for a field.
// Returns nil if no normaliser is registered for the field.
func (r *Registry) Get(field string) driven.Normaliser {
	matches := r.GetAll(field)
	if len(matches) == 0 {
		return nil
	}
	return matches[0]
}

// GetAll retrieves all normalisers that match a field, sorted by priority (highest first).
func (r *Registry) GetAll(field string) []driven.Normaliser {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matches []driven.Normaliser
	for _, n := range r.normalisers {
		if matchesField(n.SupportedFields(), field) {
			matches = append(matches, n)
		}
	}

	// Stable so that equal priorities keep registration order
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Priority() > matches[j].Priority()
	})

	return matches
}

// List returns all registered field names.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	fieldSet := make(map[string]struct{})
	for _, n := range r.normalisers {
		for _, f := range n.SupportedFields() {
			fieldSet[f] = struct{}{}
		}
	}

	fields := make([]string, 0, len(fieldSet))
	for f := range fieldSet {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return fields
}

// matchesField checks if any supported field matches, case-insensitively.
// "*" matches every field.
func matchesField(supported []string, field string) bool {
	field = strings.ToLower(strings.TrimSpace(field))

	for _, s := range supported {
		s = strings.ToLower(strings.TrimSpace(s))
		if s == "*" || s == field {
			return true
		}
	}
	return false
}

// DefaultRegistry creates a registry with the generic text normaliser
// registered for every field.
func DefaultRegistry(settings domain.TextSettings, pipeline driven.TokenPipeline) *Registry {
	r := NewRegistry()
	r.Register(NewTextNormaliser(settings, pipeline))
	return r
}
