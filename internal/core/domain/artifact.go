package domain

import "time"

// ArtifactKind names one persisted preprocessing output.
type ArtifactKind string

const (
	ArtifactSimilarityMatrix ArtifactKind = "similarity_matrix"
	ArtifactTFIDFMatrix      ArtifactKind = "tfidf_matrix"
	ArtifactVectorizer       ArtifactKind = "tfidf_vectorizer"
	ArtifactMovieIndices     ArtifactKind = "movie_indices"
	ArtifactProcessedMovies  ArtifactKind = "processed_movies"
)

// AllArtifacts lists every artifact written by a preprocessing run.
var AllArtifacts = []ArtifactKind{
	ArtifactSimilarityMatrix,
	ArtifactTFIDFMatrix,
	ArtifactVectorizer,
	ArtifactMovieIndices,
	ArtifactProcessedMovies,
}

// ManifestFileName is the run manifest inside the artifact directory.
const ManifestFileName = "manifest.json"

// DefaultFileName is the blob name used when no override is configured.
func (k ArtifactKind) DefaultFileName() string {
	return string(k) + ".json.zst"
}

// ServingArtifacts lists the artifacts the recommendation engine needs.
var ServingArtifacts = []ArtifactKind{
	ArtifactSimilarityMatrix,
	ArtifactMovieIndices,
	ArtifactProcessedMovies,
}

// Snapshot is the immutable state served by the recommendation engine.
type Snapshot struct {
	Similarity *SimilarityMatrix
	Index      *TitleIndex
	Movies     *ProcessedCorpus
}

// Valid reports whether the three parts agree on the number of rows.
func (s *Snapshot) Valid() bool {
	if s == nil || s.Similarity == nil || s.Index == nil || s.Movies == nil {
		return false
	}
	n := s.Similarity.Size()
	return s.Index.Len() == n && s.Movies.Len() == n
}

// ArtifactBundle is everything a preprocessing run produces.
type ArtifactBundle struct {
	Snapshot
	TFIDF      *SparseMatrix
	Vectorizer *VectorizerModel
}

// Manifest records a completed preprocessing run.
type Manifest struct {
	RunID          string                  `json:"run_id"`
	CreatedAt      time.Time               `json:"created_at"`
	Files          map[ArtifactKind]string `json:"files"`
	Checksums      map[ArtifactKind]string `json:"checksums,omitempty"`
	MovieCount     int                     `json:"movie_count"`
	VocabularySize int                     `json:"vocabulary_size"`
	DuplicateCount int                     `json:"duplicate_count"`
	Params         TFIDFParams             `json:"params"`
}
