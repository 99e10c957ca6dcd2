package domain

// NotAvailable is the placeholder for metadata fields a provider did not return.
const NotAvailable = "N/A"

// MovieDetails is descriptive metadata returned by an external provider.
type MovieDetails struct {
	Title      string `json:"title"`
	Year       string `json:"year"`
	Plot       string `json:"plot"`
	Poster     string `json:"poster"`
	Director   string `json:"director"`
	Actors     string `json:"actors"`
	Genre      string `json:"genre"`
	Runtime    string `json:"runtime"`
	IMDbRating string `json:"imdb_rating"`
	Released   string `json:"released"`
	Rated      string `json:"rated"`
	Language   string `json:"language"`
	Country    string `json:"country"`
	Awards     string `json:"awards"`
	BoxOffice  string `json:"box_office"`
	IMDbID     string `json:"imdb_id"`
	Metascore  string `json:"metascore"`
	Writer     string `json:"writer"`
	Production string `json:"production"`
	Website    string `json:"website"`
}

// MetadataResult is the outcome of a provider lookup. Found is false when the
// provider had no match or the call failed; Error then carries the reason.
type MetadataResult struct {
	Found   bool          `json:"found"`
	Error   string        `json:"error,omitempty"`
	Details *MovieDetails `json:"details,omitempty"`
}

// MetadataSearchHit is one row of a provider title search.
type MetadataSearchHit struct {
	Title  string `json:"title"`
	Year   string `json:"year"`
	IMDbID string `json:"imdb_id"`
	Type   string `json:"type"`
	Poster string `json:"poster"`
}

// MetadataSearchResult is the outcome of a provider title search.
type MetadataSearchResult struct {
	Found        bool                `json:"found"`
	Error        string              `json:"error,omitempty"`
	Results      []MetadataSearchHit `json:"results,omitempty"`
	TotalResults int                 `json:"total_results"`
}
