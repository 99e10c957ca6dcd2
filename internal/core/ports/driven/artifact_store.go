package driven

import (
	"context"

	"github.com/custodia-labs/reelscout/internal/core/domain"
)

// ArtifactStore persists and restores the outputs of a preprocessing run.
type ArtifactStore interface {
	// Save writes every artifact of the bundle and returns the manifest of files written.
	Save(ctx context.Context, bundle *domain.ArtifactBundle) (*domain.Manifest, error)

	// Load restores the serving snapshot. It is all-or-nothing: if any of the
	// serving artifacts is missing or unreadable, it returns
	// domain.ErrArtifactsUnavailable (wrapped) and no snapshot.
	Load(ctx context.Context) (*domain.Snapshot, error)

	// LoadVectorizer restores the fitted vectorizer model.
	LoadVectorizer(ctx context.Context) (*domain.VectorizerModel, error)

	// Exists reports whether all serving artifacts are present.
	Exists(ctx context.Context) bool

	// Manifest returns the manifest of the last completed run.
	Manifest(ctx context.Context) (*domain.Manifest, error)
}

// RunRecorder keeps a history of completed preprocessing runs.
type RunRecorder interface {
	// RecordRun stores the manifest of a completed run.
	RecordRun(ctx context.Context, manifest *domain.Manifest) error
}
