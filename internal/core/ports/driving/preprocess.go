package driving

import (
	"context"

	"github.com/custodia-labs/reelscout/internal/core/domain"
)

// PreprocessService runs the offline pipeline that builds the artifact set.
type PreprocessService interface {
	// Run builds and persists all artifacts. Unless force is set, it returns
	// (nil, nil) without doing any work when the serving artifacts already exist.
	Run(ctx context.Context, force bool) (*domain.Manifest, error)

	// ArtifactsExist reports whether the serving artifacts are present.
	ArtifactsExist(ctx context.Context) bool
}
