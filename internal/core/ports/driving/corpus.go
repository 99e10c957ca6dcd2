package driving

import "context"

// CorpusImportService copies a corpus file into the database so that
// preprocessing can read it from there.
type CorpusImportService interface {
	// Import loads the source corpus, replaces the stored one with it and
	// returns how many movies the store holds afterwards.
	Import(ctx context.Context) (int, error)
}
