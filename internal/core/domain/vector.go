package domain

import "math"

// Stop word modes for the vectorizer
const (
	StopWordsEnglish = "english"
	StopWordsNone    = "none"
)

// TFIDFParams configures vector space construction.
type TFIDFParams struct {
	// MaxFeatures caps the vocabulary size; 0 means unlimited
	MaxFeatures int `json:"max_features" koanf:"max_features" validate:"gte=0"`

	// StopWords is "english" or "none"
	StopWords string `json:"stop_words" koanf:"stop_words" validate:"oneof=english none"`

	// NGramMin and NGramMax bound the token n-gram sizes
	NGramMin int `json:"ngram_min" koanf:"ngram_min" validate:"gte=1"`
	NGramMax int `json:"ngram_max" koanf:"ngram_max" validate:"gtefield=NGramMin"`

	// MinDF is the minimum number of documents a term must occur in
	MinDF int `json:"min_df" koanf:"min_df" validate:"gte=1"`

	// MaxDF is the maximum fraction of documents a term may occur in
	MaxDF float64 `json:"max_df" koanf:"max_df" validate:"gt=0,lte=1"`
}

// DefaultTFIDFParams returns the standard vectorizer settings.
func DefaultTFIDFParams() TFIDFParams {
	return TFIDFParams{
		MaxFeatures: 5000,
		StopWords:   StopWordsEnglish,
		NGramMin:    1,
		NGramMax:    2,
		MinDF:       2,
		MaxDF:       0.8,
	}
}

// VectorizerModel is the fitted, serializable state of a TF-IDF vectorizer.
// Terms are in column order (alphabetical).
type VectorizerModel struct {
	Params    TFIDFParams `json:"params"`
	Terms     []string    `json:"terms"`
	IDF       []float64   `json:"idf"`
	Documents int         `json:"documents"`
}

// SparseMatrix is a compressed sparse row matrix.
type SparseMatrix struct {
	Rows    int       `json:"rows"`
	Cols    int       `json:"cols"`
	IndPtr  []int     `json:"indptr"`
	Indices []int     `json:"indices"`
	Data    []float64 `json:"data"`
}

// Row returns the column indices and values of row i.
func (m *SparseMatrix) Row(i int) ([]int, []float64) {
	start, end := m.IndPtr[i], m.IndPtr[i+1]
	return m.Indices[start:end], m.Data[start:end]
}

// NNZ returns the number of stored entries.
func (m *SparseMatrix) NNZ() int {
	return len(m.Data)
}

// SimilarityMatrix is a dense, symmetric N×N matrix stored row-major.
type SimilarityMatrix struct {
	N      int       `json:"n"`
	Values []float64 `json:"values"`
}

// NewSimilarityMatrix allocates an n×n zero matrix.
func NewSimilarityMatrix(n int) *SimilarityMatrix {
	return &SimilarityMatrix{N: n, Values: make([]float64, n*n)}
}

// Size returns N.
func (m *SimilarityMatrix) Size() int {
	if m == nil {
		return 0
	}
	return m.N
}

// At returns S[i][j].
func (m *SimilarityMatrix) At(i, j int) float64 {
	return m.Values[i*m.N+j]
}

// Set assigns S[i][j].
func (m *SimilarityMatrix) Set(i, j int, v float64) {
	m.Values[i*m.N+j] = v
}

// Row returns row i as a view into the backing slice.
func (m *SimilarityMatrix) Row(i int) []float64 {
	return m.Values[i*m.N : (i+1)*m.N]
}

// OffDiagonalMean returns the mean of all entries excluding the diagonal.
func (m *SimilarityMatrix) OffDiagonalMean() float64 {
	if m.Size() < 2 {
		return 0
	}
	var sum float64
	for i := 0; i < m.N; i++ {
		row := m.Row(i)
		for j, v := range row {
			if i != j {
				sum += v
			}
		}
	}
	return sum / float64(m.N*m.N-m.N)
}

// MemoryMB estimates the in-memory size of the dense matrix in megabytes.
func (m *SimilarityMatrix) MemoryMB() float64 {
	n := float64(m.Size())
	return math.Round(n*n*8/(1024*1024)*100) / 100
}
