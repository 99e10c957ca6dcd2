// Package similarity builds the dense pairwise cosine similarity matrix.
package similarity

import (
	"github.com/custodia-labs/reelscout/internal/core/domain"
)

// posting is one non-zero entry of a column.
type posting struct {
	row   int
	value float64
}

// Build computes cosine similarity between every pair of rows of an
// L2-normalized matrix. Only the upper triangle is computed and then
// mirrored, so the result is exactly symmetric. The diagonal is 1.0 even for
// empty rows and every value is clamped to [0,1].
func Build(m *domain.SparseMatrix) *domain.SimilarityMatrix {
	if m == nil {
		return domain.NewSimilarityMatrix(0)
	}
	n := m.Rows
	s := domain.NewSimilarityMatrix(n)

	columns := make([][]posting, m.Cols)
	for i := 0; i < n; i++ {
		cols, values := m.Row(i)
		for k, c := range cols {
			columns[c] = append(columns[c], posting{row: i, value: values[k]})
		}
	}

	scores := make([]float64, n)
	for i := 0; i < n; i++ {
		cols, values := m.Row(i)
		for k, c := range cols {
			for _, p := range columns[c] {
				if p.row > i {
					scores[p.row] += values[k] * p.value
				}
			}
		}

		s.Set(i, i, 1.0)
		for j := i + 1; j < n; j++ {
			v := clamp(scores[j])
			s.Set(i, j, v)
			s.Set(j, i, v)
			scores[j] = 0
		}
	}
	return s
}

// FromDense builds a similarity matrix from nested rows. It is used to load
// externally computed matrices and in tests.
func FromDense(rows [][]float64) *domain.SimilarityMatrix {
	s := domain.NewSimilarityMatrix(len(rows))
	for i, row := range rows {
		for j, v := range row {
			if j < s.N {
				s.Set(i, j, v)
			}
		}
	}
	return s
}

// IsSymmetric reports whether S[i][j] == S[j][i] for every pair.
func IsSymmetric(s *domain.SimilarityMatrix) bool {
	for i := 0; i < s.Size(); i++ {
		for j := i + 1; j < s.Size(); j++ {
			if s.At(i, j) != s.At(j, i) {
				return false
			}
		}
	}
	return true
}

func clamp(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
