package driven

import (
	"context"

	"github.com/custodia-labs/reelscout/internal/core/domain"
)

// CorpusSource reads the raw movie corpus for a preprocessing run.
type CorpusSource interface {
	// Load returns the corpus in a stable row order.
	// Returns domain.ErrCorpusUnavailable (wrapped) when the source cannot be read.
	Load(ctx context.Context) (*domain.Corpus, error)

	// Name identifies the source for logging.
	Name() string
}

// CorpusStore is a corpus source that can also be written, such as the
// movies table. Imports replace its contents wholesale.
type CorpusStore interface {
	CorpusSource

	// Replace swaps the stored corpus for the given one atomically.
	Replace(ctx context.Context, corpus *domain.Corpus) error

	// Count returns the number of stored movies.
	Count(ctx context.Context) (int, error)
}
