package services

import (
	"fmt"
	"math"

	"github.com/custodia-labs/reelscout/internal/core/domain"
	"github.com/custodia-labs/reelscout/internal/similarity"
	"github.com/custodia-labs/reelscout/internal/vectorspace"
)

const similarityTolerance = 1e-6

// verifyVectorizer checks that a persisted vectorizer belongs to the snapshot
// it was saved with. It must have been fit on one document per row, and
// re-vectorizing row 0 and its nearest neighbour must reproduce their
// stored similarity.
func verifyVectorizer(model *domain.VectorizerModel, snap *domain.Snapshot) error {
	v, err := vectorspace.FromModel(model)
	if err != nil {
		return fmt.Errorf("%w: vectorizer: %v", domain.ErrArtifactsUnavailable, err)
	}
	n := snap.Movies.Len()
	if model.Documents != n {
		return fmt.Errorf("%w: vectorizer was fit on %d documents, snapshot has %d rows",
			domain.ErrArtifactsUnavailable, model.Documents, n)
	}
	if n < 2 {
		return nil
	}

	j := nearestNeighbour(snap.Similarity, 0)
	docs := []string{snap.Movies.Movies[0].CombinedFeatures, snap.Movies.Movies[j].CombinedFeatures}
	got := similarity.Build(v.Transform(docs)).At(0, 1)
	want := snap.Similarity.At(0, j)
	if math.Abs(got-want) > similarityTolerance {
		return fmt.Errorf("%w: vectorizer gives similarity %.6f for rows 0 and %d, matrix has %.6f",
			domain.ErrArtifactsUnavailable, got, j, want)
	}
	return nil
}

// nearestNeighbour returns the other row most similar to row i.
func nearestNeighbour(m *domain.SimilarityMatrix, i int) int {
	best, bestScore := -1, -1.0
	for j, score := range m.Row(i) {
		if j != i && score > bestScore {
			best, bestScore = j, score
		}
	}
	return best
}
