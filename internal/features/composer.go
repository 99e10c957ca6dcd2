// Package features composes the per-movie text fields of a corpus into the
// single document that gets vectorized.
package features

import (
	"log/slog"
	"strings"

	"github.com/custodia-labs/reelscout/internal/core/domain"
	"github.com/custodia-labs/reelscout/internal/core/ports/driven"
)

// CombinedColumn is the name of the derived column holding the combined document.
const CombinedColumn = "combined_features"

// ComposerConfig holds configuration for the Composer.
type ComposerConfig struct {
	// Fields is the ordered list of columns to combine.
	// Defaults to domain.DefaultTextFeatures().
	Fields []string

	Registry driven.NormaliserRegistry
	Logger   *slog.Logger
}

// Composer normalizes configured fields and joins them into one document per movie.
type Composer struct {
	fields   []string
	registry driven.NormaliserRegistry
	logger   *slog.Logger
}

// NewComposer creates a Composer.
func NewComposer(cfg ComposerConfig) *Composer {
	fields := cfg.Fields
	if len(fields) == 0 {
		fields = domain.DefaultTextFeatures()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Composer{
		fields:   append([]string(nil), fields...),
		registry: cfg.Registry,
		logger:   logger,
	}
}

// Fields returns the configured field order.
func (c *Composer) Fields() []string {
	return append([]string(nil), c.fields...)
}

// Compose produces the processed corpus. Configured fields missing from the
// corpus schema yield "" for every movie and are reported once at WARN.
func (c *Composer) Compose(corpus *domain.Corpus) *domain.ProcessedCorpus {
	out := &domain.ProcessedCorpus{}
	if corpus == nil {
		return out
	}

	normalisers := make([]driven.Normaliser, len(c.fields))
	for i, field := range c.fields {
		if !corpus.HasColumn(field) {
			c.logger.Warn("feature column missing from corpus, using empty values", "field", field)
			continue
		}
		if c.registry != nil {
			normalisers[i] = c.registry.Get(field)
		}
		if normalisers[i] == nil {
			c.logger.Warn("no normaliser registered for field", "field", field)
		}
	}

	out.Columns = append(out.Columns, corpus.Columns...)
	for _, field := range c.fields {
		out.Columns = append(out.Columns, field+domain.CleanSuffix)
	}
	out.Columns = append(out.Columns, CombinedColumn)

	out.Movies = make([]domain.ProcessedMovie, len(corpus.Movies))
	for row := range corpus.Movies {
		movie := corpus.Movies[row]
		clean := make(map[string]string, len(c.fields))
		pieces := make([]string, 0, len(c.fields))

		for i, field := range c.fields {
			var value string
			if n := normalisers[i]; n != nil {
				value = n.Normalise(movie.Field(field))
			}
			clean[field+domain.CleanSuffix] = value
			if value != "" {
				pieces = append(pieces, value)
			}
		}

		out.Movies[row] = domain.ProcessedMovie{
			Movie:            movie,
			Clean:            clean,
			CombinedFeatures: strings.Join(pieces, " "),
		}
	}

	c.logger.Debug("composed feature documents", "movies", len(out.Movies), "fields", c.fields)
	return out
}
