package domain

// Features holds the toggles that gate optional behaviour.
type Features struct {
	Recommendations bool `json:"recommendations" koanf:"recommendations"`
	APIEndpoints    bool `json:"api_endpoints" koanf:"api_endpoints"`
	PopularMovies   bool `json:"popular_movies" koanf:"popular_movies"`

	// CacheDurationSeconds is how long provider metadata is cached
	CacheDurationSeconds int `json:"cache_duration" koanf:"cache_duration" validate:"gte=0"`
}

// DefaultFeatures returns every feature enabled with a one hour cache.
func DefaultFeatures() Features {
	return Features{
		Recommendations:      true,
		APIEndpoints:         true,
		PopularMovies:        true,
		CacheDurationSeconds: 3600,
	}
}

// RecommendationSettings controls ranking output.
type RecommendationSettings struct {
	// MaxRecommendations is the result count used when a caller passes none
	MaxRecommendations int `json:"max_recommendations" koanf:"max_recommendations" validate:"gte=1"`

	// MinSimilarityScore drops candidates scoring below it
	MinSimilarityScore float64 `json:"min_similarity_score" koanf:"min_similarity_score" validate:"gte=0,lte=1"`

	// EnhanceConcurrency bounds parallel metadata lookups
	EnhanceConcurrency int `json:"enhance_concurrency" koanf:"enhance_concurrency" validate:"gte=1"`
}

// DefaultRecommendationSettings returns the standard ranking settings.
func DefaultRecommendationSettings() RecommendationSettings {
	return RecommendationSettings{
		MaxRecommendations: 10,
		MinSimilarityScore: 0.1,
		EnhanceConcurrency: 4,
	}
}

// EffectiveCount resolves a caller-supplied count against the configured default.
func (s RecommendationSettings) EffectiveCount(count int) int {
	if count <= 0 {
		return s.MaxRecommendations
	}
	return count
}

// TextSettings toggles the steps of text normalization.
type TextSettings struct {
	Lowercase         bool `json:"lowercase" koanf:"lowercase"`
	RemovePunctuation bool `json:"remove_punctuation" koanf:"remove_punctuation"`
	RemoveStopwords   bool `json:"remove_stopwords" koanf:"remove_stopwords"`
	Lemmatize         bool `json:"lemmatize" koanf:"lemmatize"`
	MinWordLength     int  `json:"min_word_length" koanf:"min_word_length" validate:"gte=0"`
}

// DefaultTextSettings enables every normalization step.
func DefaultTextSettings() TextSettings {
	return TextSettings{
		Lowercase:         true,
		RemovePunctuation: true,
		RemoveStopwords:   true,
		Lemmatize:         true,
		MinWordLength:     2,
	}
}

// DefaultTextFeatures is the default ordered list of fields combined into a document.
func DefaultTextFeatures() []string {
	return []string{FieldGenres, FieldKeywords, FieldOverview}
}
