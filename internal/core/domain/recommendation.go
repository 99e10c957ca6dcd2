package domain

import (
	"strings"
)

// Recommendation is one ranked similar movie.
type Recommendation struct {
	Title           string  `json:"title"`
	SimilarityScore float64 `json:"similarity_score"`
	Genres          string  `json:"genres"`
	Overview        string  `json:"overview"`
	Keywords        string  `json:"keywords,omitempty"`
	Cast            string  `json:"cast,omitempty"`
	Director        string  `json:"director,omitempty"`
}

// EnhancedRecommendation is a recommendation decorated with provider metadata.
// When Details is nil the provider had nothing for this title.
type EnhancedRecommendation struct {
	Recommendation
	RecommendationScore float64       `json:"recommendation_score"`
	Details             *MovieDetails `json:"details,omitempty"`
}

// Enhanced reports whether provider metadata was merged in.
func (r *EnhancedRecommendation) Enhanced() bool {
	return r.Details != nil
}

// MatrixShape describes the similarity matrix dimensions.
type MatrixShape struct {
	Rows int `json:"rows"`
	Cols int `json:"cols"`
}

// DatasetStats summarises the loaded snapshot.
type DatasetStats struct {
	TotalMovies       int         `json:"total_movies"`
	TotalGenres       int         `json:"total_genres"`
	AverageSimilarity float64     `json:"avg_similarity"`
	MatrixShape       MatrixShape `json:"similarity_matrix_shape"`
	DataColumns       []string    `json:"data_columns"`
	SampleMovies      []string    `json:"sample_movies"`
	MemoryUsageMB     float64     `json:"memory_usage_mb"`
}

// TitleIndex resolves titles to corpus rows.
type TitleIndex struct {
	Titles     []string       `json:"titles"`
	Exact      map[string]int `json:"exact"`
	Folded     map[string]int `json:"folded"`
	Duplicates int            `json:"duplicates"`
}

// BuildTitleIndex indexes titles in row order. When a title repeats, the
// first row keeps the mapping and the repeat is counted in Duplicates.
func BuildTitleIndex(titles []string) *TitleIndex {
	idx := &TitleIndex{
		Titles: append([]string(nil), titles...),
		Exact:  make(map[string]int, len(titles)),
		Folded: make(map[string]int, len(titles)),
	}
	for row, title := range titles {
		if _, ok := idx.Exact[title]; ok {
			idx.Duplicates++
			continue
		}
		idx.Exact[title] = row
		folded := strings.ToLower(title)
		if _, ok := idx.Folded[folded]; !ok {
			idx.Folded[folded] = row
		}
	}
	return idx
}

// Len returns the number of indexed rows.
func (i *TitleIndex) Len() int {
	if i == nil {
		return 0
	}
	return len(i.Titles)
}

// Resolve maps a user-supplied title to a row. Matching is tried as exact,
// then case-insensitive, then substring in either direction. Among substring
// candidates the title closest in length to the query wins, ties going to the
// lowest row.
func (i *TitleIndex) Resolve(query string) (int, bool) {
	if i == nil {
		return 0, false
	}
	query = strings.TrimSpace(query)
	if query == "" {
		return 0, false
	}
	if row, ok := i.Exact[query]; ok {
		return row, true
	}
	folded := strings.ToLower(query)
	if row, ok := i.Folded[folded]; ok {
		return row, true
	}

	best, bestDist := -1, 0
	for row, title := range i.Titles {
		t := strings.ToLower(title)
		if t == "" {
			continue
		}
		if !strings.Contains(t, folded) && !strings.Contains(folded, t) {
			continue
		}
		dist := len(t) - len(folded)
		if dist < 0 {
			dist = -dist
		}
		if best == -1 || dist < bestDist {
			best, bestDist = row, dist
		}
	}
	if best == -1 {
		return 0, false
	}
	return best, true
}
