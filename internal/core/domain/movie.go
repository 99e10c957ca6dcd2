package domain

import "strings"

// Well-known corpus columns
const (
	FieldTitle    = "title"
	FieldGenres   = "genres"
	FieldKeywords = "keywords"
	FieldOverview = "overview"
	FieldCast     = "cast"
	FieldDirector = "director"
)

// CleanSuffix is appended to a field name to form its normalized column name.
const CleanSuffix = "_clean"

// Movie is one raw corpus record. Title is the lookup key; the remaining
// text columns are optional and empty when absent.
type Movie struct {
	Title    string `json:"title"`
	Genres   string `json:"genres,omitempty"`
	Keywords string `json:"keywords,omitempty"`
	Overview string `json:"overview,omitempty"`
	Cast     string `json:"cast,omitempty"`
	Director string `json:"director,omitempty"`

	// Extra holds any other text column read from the source
	Extra map[string]string `json:"extra,omitempty"`
}

// Field returns the value of a named column.
func (m *Movie) Field(name string) string {
	switch name {
	case FieldTitle:
		return m.Title
	case FieldGenres:
		return m.Genres
	case FieldKeywords:
		return m.Keywords
	case FieldOverview:
		return m.Overview
	case FieldCast:
		return m.Cast
	case FieldDirector:
		return m.Director
	}
	if m.Extra == nil {
		return ""
	}
	return m.Extra[name]
}

// SetField assigns a named column.
func (m *Movie) SetField(name, value string) {
	switch name {
	case FieldTitle:
		m.Title = value
	case FieldGenres:
		m.Genres = value
	case FieldKeywords:
		m.Keywords = value
	case FieldOverview:
		m.Overview = value
	case FieldCast:
		m.Cast = value
	case FieldDirector:
		m.Director = value
	default:
		if m.Extra == nil {
			m.Extra = make(map[string]string)
		}
		m.Extra[name] = value
	}
}

// Corpus is an ordered collection of movies. Row order is the matrix row order.
type Corpus struct {
	Columns []string `json:"columns"`
	Movies  []Movie  `json:"movies"`
}

// HasColumn reports whether the corpus schema contains the named column.
func (c *Corpus) HasColumn(name string) bool {
	for _, col := range c.Columns {
		if strings.EqualFold(col, name) {
			return true
		}
	}
	return false
}

// Len returns the number of movies.
func (c *Corpus) Len() int {
	return len(c.Movies)
}

// ProcessedMovie is a movie with its normalized fields and combined document.
type ProcessedMovie struct {
	Movie
	Clean            map[string]string `json:"clean"`
	CombinedFeatures string            `json:"combined_features"`
}

// ProcessedCorpus is the output of feature composition.
type ProcessedCorpus struct {
	// Columns lists the source columns plus every derived <field>_clean column
	// and combined_features.
	Columns []string         `json:"columns"`
	Movies  []ProcessedMovie `json:"movies"`
}

// Len returns the number of movies.
func (c *ProcessedCorpus) Len() int {
	if c == nil {
		return 0
	}
	return len(c.Movies)
}

// HasColumn reports whether the processed schema contains the named column.
func (c *ProcessedCorpus) HasColumn(name string) bool {
	if c == nil {
		return false
	}
	for _, col := range c.Columns {
		if strings.EqualFold(col, name) {
			return true
		}
	}
	return false
}

// Documents returns the combined feature documents in row order.
func (c *ProcessedCorpus) Documents() []string {
	docs := make([]string, len(c.Movies))
	for i := range c.Movies {
		docs[i] = c.Movies[i].CombinedFeatures
	}
	return docs
}
