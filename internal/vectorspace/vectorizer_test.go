package vectorspace

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/reelscout/internal/core/domain"
)

func looseParams() domain.TFIDFParams {
	return domain.TFIDFParams{
		MaxFeatures: 0,
		StopWords:   domain.StopWordsNone,
		NGramMin:    1,
		NGramMax:    1,
		MinDF:       1,
		MaxDF:       1.0,
	}
}

func rowNorm(m *domain.SparseMatrix, i int) float64 {
	_, values := m.Row(i)
	var sum float64
	for _, v := range values {
		sum += v * v
	}
	return math.Sqrt(sum)
}

func TestFit_SmoothIDFAndNormalization(t *testing.T) {
	docs := []string{"space alien", "space robot", "ocean robot"}

	v, m, err := Fit(docs, looseParams())
	require.NoError(t, err)

	assert.Equal(t, []string{"alien", "ocean", "robot", "space"}, v.Terms())
	assert.Equal(t, 3, m.Rows)
	assert.Equal(t, 4, m.Cols)

	rare := math.Log(4.0/2.0) + 1
	common := math.Log(4.0/3.0) + 1
	assert.InDelta(t, rare, v.IDF(0), 1e-12)
	assert.InDelta(t, common, v.IDF(3), 1e-12)

	cols, values := m.Row(0)
	require.Equal(t, []int{0, 3}, cols)
	norm := math.Sqrt(rare*rare + common*common)
	assert.InDelta(t, rare/norm, values[0], 1e-12)
	assert.InDelta(t, common/norm, values[1], 1e-12)

	for i := 0; i < m.Rows; i++ {
		assert.InDelta(t, 1.0, rowNorm(m, i), 1e-12)
	}
}

func TestFit_RawTermCounts(t *testing.T) {
	v, m, err := Fit([]string{"war war peace", "peace love"}, looseParams())
	require.NoError(t, err)

	warCol, ok := v.Column("war")
	require.True(t, ok)
	peaceCol, _ := v.Column("peace")

	cols, values := m.Row(0)
	weights := map[int]float64{}
	for i, c := range cols {
		weights[c] = values[i]
	}
	ratio := weights[warCol] / weights[peaceCol]
	assert.InDelta(t, 2*v.IDF(warCol)/v.IDF(peaceCol), ratio, 1e-12)
}

func TestFit_NGramsAfterStopWords(t *testing.T) {
	params := looseParams()
	params.StopWords = domain.StopWordsEnglish
	params.NGramMax = 2

	v, _, err := Fit([]string{"the dark of night", "dark night falls"}, params)
	require.NoError(t, err)

	_, ok := v.Column("dark night")
	assert.True(t, ok, "expected bigram spanning a removed stop word")
	_, ok = v.Column("the")
	assert.False(t, ok)
	_, ok = v.Column("night falls")
	assert.True(t, ok)
}

func TestFit_SingleCharacterTokensIgnored(t *testing.T) {
	v, _, err := Fit([]string{"a b cd", "cd ef"}, looseParams())
	require.NoError(t, err)
	assert.Equal(t, []string{"cd", "ef"}, v.Terms())
}

func TestFit_DocumentFrequencyPruning(t *testing.T) {
	params := looseParams()
	params.MinDF = 2
	params.MaxDF = 0.7

	docs := []string{"drama crime heist", "drama crime", "drama comedy", "comedy romance"}
	v, _, err := Fit(docs, params)
	require.NoError(t, err)

	// drama appears in 3/4 > 0.7, heist and romance appear once
	assert.Equal(t, []string{"comedy", "crime"}, v.Terms())
}

func TestFit_MaxFeaturesKeepsMostFrequent(t *testing.T) {
	params := looseParams()
	params.MaxFeatures = 2

	v, m, err := Fit([]string{"alpha alpha beta", "alpha gamma", "beta gamma"}, params)
	require.NoError(t, err)

	assert.Equal(t, []string{"alpha", "beta"}, v.Terms())
	assert.Equal(t, 2, m.Cols)
}

func TestFit_EmptyDocumentGetsZeroRow(t *testing.T) {
	v, m, err := Fit([]string{"robot uprising", "", "robot"}, looseParams())
	require.NoError(t, err)
	require.NotNil(t, v)

	cols, _ := m.Row(1)
	assert.Empty(t, cols)
	assert.Equal(t, 0.0, rowNorm(m, 1))
}

func TestFit_Deterministic(t *testing.T) {
	docs := []string{"space opera empire", "space western", "empire strikes back"}
	params := domain.DefaultTFIDFParams()
	params.MinDF = 1

	v1, m1, err := Fit(docs, params)
	require.NoError(t, err)
	v2, m2, err := Fit(docs, params)
	require.NoError(t, err)

	assert.Equal(t, v1.Terms(), v2.Terms())
	assert.Equal(t, m1.Indices, m2.Indices)
	assert.Equal(t, m1.Data, m2.Data)
}

func TestFit_InvalidParams(t *testing.T) {
	docs := []string{"one two", "two three"}

	tests := []struct {
		name   string
		mutate func(p *domain.TFIDFParams)
	}{
		{"negative max features", func(p *domain.TFIDFParams) { p.MaxFeatures = -1 }},
		{"min df zero", func(p *domain.TFIDFParams) { p.MinDF = 0 }},
		{"max df zero", func(p *domain.TFIDFParams) { p.MaxDF = 0 }},
		{"max df above one", func(p *domain.TFIDFParams) { p.MaxDF = 1.5 }},
		{"ngram min zero", func(p *domain.TFIDFParams) { p.NGramMin = 0 }},
		{"ngram range inverted", func(p *domain.TFIDFParams) { p.NGramMin = 3; p.NGramMax = 2 }},
		{"unknown stop words", func(p *domain.TFIDFParams) { p.StopWords = "french" }},
		{"max df below min df", func(p *domain.TFIDFParams) { p.MinDF = 2; p.MaxDF = 0.5 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := looseParams()
			tt.mutate(&params)

			_, _, err := Fit(docs, params)
			require.Error(t, err)
			assert.True(t, errors.Is(err, domain.ErrInvalidConfig), "got %v", err)
		})
	}
}

func TestFit_EmptyVocabulary(t *testing.T) {
	params := looseParams()
	params.StopWords = domain.StopWordsEnglish

	tests := map[string][]string{
		"empty corpus":    nil,
		"only stop words": {"the and of", "it is"},
		"pruned away":     {"alpha", "beta"},
		"blank documents": {"", "  "},
	}

	for name, docs := range tests {
		t.Run(name, func(t *testing.T) {
			p := params
			if name == "pruned away" {
				p.MinDF = 2
			}
			_, _, err := Fit(docs, p)
			assert.ErrorIs(t, err, domain.ErrInvalidConfig)
		})
	}
}

func TestVectorizer_ModelRoundTrip(t *testing.T) {
	docs := []string{"space alien", "space robot", "ocean robot"}
	v, m, err := Fit(docs, looseParams())
	require.NoError(t, err)

	restored, err := FromModel(v.Model())
	require.NoError(t, err)

	again := restored.Transform(docs)
	assert.Equal(t, m.IndPtr, again.IndPtr)
	assert.Equal(t, m.Indices, again.Indices)
	assert.Equal(t, m.Data, again.Data)
}

func TestVectorizer_TransformIgnoresUnknownTerms(t *testing.T) {
	v, _, err := Fit([]string{"space alien", "space robot"}, looseParams())
	require.NoError(t, err)

	m := v.Transform([]string{"unknown words only", "robot"})
	cols, _ := m.Row(0)
	assert.Empty(t, cols)
	cols, values := m.Row(1)
	assert.Len(t, cols, 1)
	assert.InDelta(t, 1.0, values[0], 1e-12)
}

func TestFromModel_Invalid(t *testing.T) {
	_, err := FromModel(nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = FromModel(&domain.VectorizerModel{Params: looseParams(), Terms: []string{"a"}, IDF: nil})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
