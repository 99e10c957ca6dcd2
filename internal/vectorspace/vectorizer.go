// Package vectorspace fits a TF-IDF vector space over combined movie documents.
package vectorspace

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/custodia-labs/reelscout/internal/core/domain"
)

// tokenPattern matches runs of two or more word characters.
var tokenPattern = regexp.MustCompile(`[\p{L}\p{M}\p{N}_]{2,}`)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// Validate checks the structural validity of vectorizer parameters.
func Validate(params domain.TFIDFParams) error {
	err := getValidator().Struct(params)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", domain.ErrInvalidConfig, err)
	}
	msgs := make([]string, len(verrs))
	for i, fe := range verrs {
		msgs[i] = fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag())
		if fe.Param() != "" {
			msgs[i] += "=" + fe.Param()
		}
	}
	return fmt.Errorf("%w: tfidf %s", domain.ErrInvalidConfig, strings.Join(msgs, "; "))
}

// Vectorizer is a fitted TF-IDF model. It is immutable and safe for concurrent use.
type Vectorizer struct {
	params     domain.TFIDFParams
	terms      []string
	vocabulary map[string]int
	idf        []float64
	documents  int
	stopWords  map[string]struct{}
}

// Fit learns a vocabulary and idf weights from docs and returns the
// L2-normalized document-term matrix.
func Fit(docs []string, params domain.TFIDFParams) (*Vectorizer, *domain.SparseMatrix, error) {
	if err := Validate(params); err != nil {
		return nil, nil, err
	}
	n := len(docs)
	if n == 0 {
		return nil, nil, fmt.Errorf("%w: empty corpus", domain.ErrInvalidConfig)
	}
	maxDocs := params.MaxDF * float64(n)
	if maxDocs < float64(params.MinDF) {
		return nil, nil, fmt.Errorf("%w: max_df corresponds to fewer documents than min_df", domain.ErrInvalidConfig)
	}

	v := &Vectorizer{
		params:    params,
		documents: n,
		stopWords: stopWordsFor(params.StopWords),
	}

	// Count per-document terms once; df and total frequency come from these.
	counts := make([]map[string]int, n)
	df := make(map[string]int)
	tf := make(map[string]int)
	for i, doc := range docs {
		counts[i] = v.count(doc)
		for term, c := range counts[i] {
			df[term]++
			tf[term] += c
		}
	}
	if len(df) == 0 {
		return nil, nil, fmt.Errorf("%w: empty vocabulary; documents contain only stop words", domain.ErrInvalidConfig)
	}

	kept := make([]string, 0, len(df))
	for term, d := range df {
		if float64(d) <= maxDocs && d >= params.MinDF {
			kept = append(kept, term)
		}
	}
	if params.MaxFeatures > 0 && len(kept) > params.MaxFeatures {
		sort.Slice(kept, func(i, j int) bool {
			if tf[kept[i]] != tf[kept[j]] {
				return tf[kept[i]] > tf[kept[j]]
			}
			return kept[i] < kept[j]
		})
		kept = kept[:params.MaxFeatures]
	}
	if len(kept) == 0 {
		return nil, nil, fmt.Errorf("%w: no terms remain after pruning, lower min_df or raise max_df", domain.ErrInvalidConfig)
	}
	sort.Strings(kept)

	v.terms = kept
	v.vocabulary = make(map[string]int, len(kept))
	v.idf = make([]float64, len(kept))
	for col, term := range kept {
		v.vocabulary[term] = col
		v.idf[col] = math.Log(float64(1+n)/float64(1+df[term])) + 1
	}

	return v, v.weigh(counts), nil
}

// FromModel restores a vectorizer from its persisted form.
func FromModel(model *domain.VectorizerModel) (*Vectorizer, error) {
	if model == nil {
		return nil, fmt.Errorf("%w: nil vectorizer model", domain.ErrInvalidInput)
	}
	if len(model.Terms) != len(model.IDF) {
		return nil, fmt.Errorf("%w: %d terms but %d idf weights", domain.ErrInvalidInput, len(model.Terms), len(model.IDF))
	}
	if err := Validate(model.Params); err != nil {
		return nil, err
	}
	v := &Vectorizer{
		params:     model.Params,
		terms:      append([]string(nil), model.Terms...),
		idf:        append([]float64(nil), model.IDF...),
		documents:  model.Documents,
		vocabulary: make(map[string]int, len(model.Terms)),
		stopWords:  stopWordsFor(model.Params.StopWords),
	}
	for col, term := range v.terms {
		v.vocabulary[term] = col
	}
	return v, nil
}

// Model returns the serializable state of the vectorizer.
func (v *Vectorizer) Model() *domain.VectorizerModel {
	return &domain.VectorizerModel{
		Params:    v.params,
		Terms:     append([]string(nil), v.terms...),
		IDF:       append([]float64(nil), v.idf...),
		Documents: v.documents,
	}
}

// Transform maps documents into the fitted vector space. Unknown terms are ignored.
func (v *Vectorizer) Transform(docs []string) *domain.SparseMatrix {
	counts := make([]map[string]int, len(docs))
	for i, doc := range docs {
		counts[i] = v.count(doc)
	}
	return v.weigh(counts)
}

// VocabularySize returns the number of terms.
func (v *Vectorizer) VocabularySize() int {
	return len(v.terms)
}

// Terms returns the vocabulary in column order.
func (v *Vectorizer) Terms() []string {
	return append([]string(nil), v.terms...)
}

// Column returns the column of a term.
func (v *Vectorizer) Column(term string) (int, bool) {
	col, ok := v.vocabulary[term]
	return col, ok
}

// IDF returns the idf weight of a column.
func (v *Vectorizer) IDF(col int) float64 {
	return v.idf[col]
}

// analyze splits a document into its n-gram terms.
func (v *Vectorizer) analyze(doc string) []string {
	raw := tokenPattern.FindAllString(strings.ToLower(doc), -1)
	tokens := raw[:0]
	for _, tok := range raw {
		if _, stop := v.stopWords[tok]; !stop {
			tokens = append(tokens, tok)
		}
	}

	minN, maxN := v.params.NGramMin, v.params.NGramMax
	terms := make([]string, 0, len(tokens)*(maxN-minN+1))
	for size := minN; size <= maxN; size++ {
		for start := 0; start+size <= len(tokens); start++ {
			terms = append(terms, strings.Join(tokens[start:start+size], " "))
		}
	}
	return terms
}

func (v *Vectorizer) count(doc string) map[string]int {
	counts := make(map[string]int)
	for _, term := range v.analyze(doc) {
		counts[term]++
	}
	return counts
}

// weigh turns raw counts into L2-normalized TF-IDF rows over the fitted vocabulary.
func (v *Vectorizer) weigh(counts []map[string]int) *domain.SparseMatrix {
	m := &domain.SparseMatrix{
		Rows:   len(counts),
		Cols:   len(v.terms),
		IndPtr: make([]int, 1, len(counts)+1),
	}

	for _, row := range counts {
		cols := make([]int, 0, len(row))
		for term := range row {
			if col, ok := v.vocabulary[term]; ok {
				cols = append(cols, col)
			}
		}
		sort.Ints(cols)

		values := make([]float64, len(cols))
		var norm float64
		for i, col := range cols {
			values[i] = float64(row[v.terms[col]]) * v.idf[col]
			norm += values[i] * values[i]
		}
		if norm > 0 {
			norm = math.Sqrt(norm)
			for i := range values {
				values[i] /= norm
			}
		}

		m.Indices = append(m.Indices, cols...)
		m.Data = append(m.Data, values...)
		m.IndPtr = append(m.IndPtr, len(m.Indices))
	}
	return m
}

func stopWordsFor(mode string) map[string]struct{} {
	if mode != domain.StopWordsEnglish {
		return nil
	}
	set := make(map[string]struct{}, len(englishStopWords))
	for _, w := range englishStopWords {
		set[w] = struct{}{}
	}
	return set
}
