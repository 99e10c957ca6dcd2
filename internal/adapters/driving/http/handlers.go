package http

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/swaggo/swag"

	// Registers the OpenAPI document served at /swagger/doc.json.
	_ "github.com/custodia-labs/reelscout/docs"
	"github.com/custodia-labs/reelscout/internal/core/domain"
)

// maxLimit caps the limit query parameter.
const maxLimit = 100

// ErrorResponse represents an API error response
// @Description API error response
type ErrorResponse struct {
	Error string `json:"error" example:"invalid limit"`
}

// StatusResponse represents a simple status response
// @Description Simple status response
type StatusResponse struct {
	Status string `json:"status" example:"ok"`
}

// VersionResponse represents the API version response
// @Description API version response
type VersionResponse struct {
	Version string `json:"version" example:"1.0.0"`
}

// HealthResponse reports liveness and the feature toggles in force
// @Description Liveness status
type HealthResponse struct {
	Status   string          `json:"status" example:"healthy"`
	Version  string          `json:"version" example:"1.0.0"`
	Engine   string          `json:"engine" example:"loaded"`
	Features domain.Features `json:"features"`
}

// ReadyResponse reports readiness and per-dependency checks
// @Description Readiness status
type ReadyResponse struct {
	Status string            `json:"status" example:"ready"`
	Engine string            `json:"engine" example:"loaded"`
	Checks map[string]string `json:"checks,omitempty"`
}

// RecommendationsResponse is the result of a title query
// @Description Movies similar to a source title
type RecommendationsResponse struct {
	SourceMovie     string                  `json:"source_movie" example:"The Matrix"`
	Recommendations []domain.Recommendation `json:"recommendations"`
	Count           int                     `json:"count" example:"10"`
}

// EnhancedRecommendationsResponse is a title query with provider metadata
// @Description Movies similar to a source title, decorated with metadata
type EnhancedRecommendationsResponse struct {
	SourceMovie     string                          `json:"source_movie" example:"The Matrix"`
	Recommendations []domain.EnhancedRecommendation `json:"recommendations"`
	Count           int                             `json:"count" example:"10"`
}

// GenreRecommendationsResponse is the result of a genre query
// @Description Random movies from a genre
type GenreRecommendationsResponse struct {
	Genre           string                  `json:"genre" example:"action"`
	Recommendations []domain.Recommendation `json:"recommendations"`
	Count           int                     `json:"count" example:"10"`
}

// GenresResponse lists the known genres
// @Description Distinct genre tokens
type GenresResponse struct {
	Genres []string `json:"genres"`
	Count  int      `json:"count" example:"18"`
}

// PopularResponse lists metadata for the configured popular titles
// @Description Popular movie metadata
type PopularResponse struct {
	Movies []domain.MovieDetails `json:"movies"`
	Count  int                   `json:"count" example:"6"`
}

// MovieLookupRequest is the body of a metadata lookup
// @Description Metadata lookup request
type MovieLookupRequest struct {
	Title string `json:"title" example:"Inception"`
}

// Health endpoints

// handleHealth godoc
// @Summary      Health check
// @Description  Returns liveness, version, engine state and feature toggles
// @Tags         Health
// @Produce      json
// @Success      200  {object}  HealthResponse
// @Router       /health [get]
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:   "healthy",
		Version:  s.version,
		Engine:   string(s.recommendationService.State()),
		Features: s.features,
	})
}

// handleReady godoc
// @Summary      Readiness check
// @Description  Returns 503 until the similarity snapshot is loaded and optional backends answer
// @Tags         Health
// @Produce      json
// @Success      200  {object}  ReadyResponse
// @Failure      503  {object}  ReadyResponse
// @Router       /ready [get]
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	state := s.recommendationService.State()
	resp := ReadyResponse{Status: "ready", Engine: string(state), Checks: map[string]string{}}
	ready := state == domain.EngineLoaded

	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	for name, p := range map[string]Pinger{"postgres": s.db, "redis": s.redisClient} {
		if p == nil {
			continue
		}
		if err := p.Ping(ctx); err != nil {
			resp.Checks[name] = err.Error()
			ready = false
			continue
		}
		resp.Checks[name] = "ok"
	}

	if !ready {
		resp.Status = "not ready"
		writeJSON(w, http.StatusServiceUnavailable, resp)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleVersion godoc
// @Summary      Get API version
// @Description  Returns the current API version
// @Tags         Health
// @Produce      json
// @Success      200  {object}  VersionResponse
// @Router       /version [get]
func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, VersionResponse{Version: s.version})
}

func (s *Server) handleSwaggerDoc(w http.ResponseWriter, r *http.Request) {
	doc, err := swag.ReadDoc()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "api documentation unavailable")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(doc))
}

// Recommendation endpoints

// handleTitleRecommendations godoc
// @Summary      Recommend by title
// @Description  Returns movies most similar to the given title. Matching is case-insensitive and falls back to a partial match. The lower-case paths genres and stats are taken by their own routes; request a movie with one of those titles capitalised (for example Stats).
// @Tags         Recommendations
// @Produce      json
// @Param        title     path      string  true   "Source movie title"
// @Param        limit     query     int     false  "Number of results (default from configuration)"
// @Param        enhanced  query     bool    false  "Merge provider metadata (default true)"
// @Success      200       {object}  EnhancedRecommendationsResponse
// @Failure      400       {object}  ErrorResponse  "Invalid query parameter"
// @Failure      403       {object}  ErrorResponse  "Feature disabled"
// @Router       /api/v1/recommendations/{title} [get]
func (s *Server) handleTitleRecommendations(w http.ResponseWriter, r *http.Request) {
	title := strings.TrimSpace(r.PathValue("title"))
	if title == "" {
		writeError(w, http.StatusBadRequest, "title is required")
		return
	}
	limit, ok := parseLimit(w, r)
	if !ok {
		return
	}
	enhanced := true
	if v := r.URL.Query().Get("enhanced"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "enhanced must be true or false")
			return
		}
		enhanced = b
	}

	if enhanced {
		recs := s.recommendationService.EnhancedRecommendations(r.Context(), title, limit)
		writeJSON(w, http.StatusOK, EnhancedRecommendationsResponse{
			SourceMovie:     title,
			Recommendations: recs,
			Count:           len(recs),
		})
		return
	}

	recs := s.recommendationService.RecommendByTitle(r.Context(), title, limit)
	writeJSON(w, http.StatusOK, RecommendationsResponse{
		SourceMovie:     title,
		Recommendations: recs,
		Count:           len(recs),
	})
}

// handleGenreRecommendations godoc
// @Summary      Recommend by genre
// @Description  Returns a random sample of movies whose genres contain the given token
// @Tags         Recommendations
// @Produce      json
// @Param        genre  path      string  true   "Genre token"
// @Param        limit  query     int     false  "Number of results (default from configuration)"
// @Success      200    {object}  GenreRecommendationsResponse
// @Failure      400    {object}  ErrorResponse  "Invalid query parameter"
// @Failure      403    {object}  ErrorResponse  "Feature disabled"
// @Router       /api/v1/recommendations/genre/{genre} [get]
func (s *Server) handleGenreRecommendations(w http.ResponseWriter, r *http.Request) {
	genre := strings.TrimSpace(r.PathValue("genre"))
	if genre == "" {
		writeError(w, http.StatusBadRequest, "genre is required")
		return
	}
	limit, ok := parseLimit(w, r)
	if !ok {
		return
	}

	recs := s.recommendationService.RecommendByGenre(r.Context(), genre, limit)
	writeJSON(w, http.StatusOK, GenreRecommendationsResponse{
		Genre:           genre,
		Recommendations: recs,
		Count:           len(recs),
	})
}

// handleListGenres godoc
// @Summary      List genres
// @Description  Returns the sorted distinct genre tokens of the loaded corpus
// @Tags         Recommendations
// @Produce      json
// @Success      200  {object}  GenresResponse
// @Failure      403  {object}  ErrorResponse  "Feature disabled"
// @Router       /api/v1/recommendations/genres [get]
func (s *Server) handleListGenres(w http.ResponseWriter, r *http.Request) {
	genres := s.recommendationService.ListGenres(r.Context())
	writeJSON(w, http.StatusOK, GenresResponse{Genres: genres, Count: len(genres)})
}

// handleDatasetStats godoc
// @Summary      Dataset statistics
// @Description  Summarises the loaded corpus and similarity matrix
// @Tags         Recommendations
// @Produce      json
// @Success      200  {object}  domain.DatasetStats
// @Failure      403  {object}  ErrorResponse  "Feature disabled"
// @Router       /api/v1/recommendations/stats [get]
func (s *Server) handleDatasetStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.recommendationService.DatasetStats(r.Context()))
}

// Metadata endpoints

// handleMovieDetails godoc
// @Summary      Movie metadata
// @Description  Looks up a title with the metadata provider
// @Tags         Movies
// @Produce      json
// @Param        title  path      string  true  "Movie title"
// @Success      200    {object}  domain.MetadataResult
// @Failure      404    {object}  domain.MetadataResult  "Not found"
// @Failure      503    {object}  ErrorResponse          "Provider not configured"
// @Router       /api/v1/movies/{title} [get]
func (s *Server) handleMovieDetails(w http.ResponseWriter, r *http.Request) {
	if !s.requireProvider(w) {
		return
	}
	writeMetadata(w, s.movieService.Details(r.Context(), r.PathValue("title")))
}

// handleMovieByIMDbID godoc
// @Summary      Movie metadata by IMDb id
// @Description  Looks up an IMDb identifier with the metadata provider
// @Tags         Movies
// @Produce      json
// @Param        id   path      string  true  "IMDb id"  example(tt0133093)
// @Success      200  {object}  domain.MetadataResult
// @Failure      404  {object}  domain.MetadataResult  "Not found"
// @Failure      503  {object}  ErrorResponse          "Provider not configured"
// @Router       /api/v1/movies/imdb/{id} [get]
func (s *Server) handleMovieByIMDbID(w http.ResponseWriter, r *http.Request) {
	if !s.requireProvider(w) {
		return
	}
	writeMetadata(w, s.movieService.DetailsByIMDbID(r.Context(), r.PathValue("id")))
}

// handleMovieLookup godoc
// @Summary      Movie metadata lookup
// @Description  Looks up the title given in the request body
// @Tags         Movies
// @Accept       json
// @Produce      json
// @Param        request  body      MovieLookupRequest     true  "Title to look up"
// @Success      200      {object}  domain.MetadataResult
// @Failure      400      {object}  ErrorResponse          "Missing title"
// @Failure      404      {object}  domain.MetadataResult  "Not found"
// @Failure      503      {object}  ErrorResponse          "Provider not configured"
// @Router       /api/v1/movies/search [post]
func (s *Server) handleMovieLookup(w http.ResponseWriter, r *http.Request) {
	var req MovieLookupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Title) == "" {
		writeError(w, http.StatusBadRequest, "Missing 'title' in request body")
		return
	}
	if !s.requireProvider(w) {
		return
	}
	writeMetadata(w, s.movieService.Details(r.Context(), req.Title))
}

// handleMovieSearch godoc
// @Summary      Search titles
// @Description  Lists provider titles matching a query
// @Tags         Movies
// @Produce      json
// @Param        q     query     string  true   "Title query"
// @Param        year  query     string  false  "Release year"
// @Success      200   {object}  domain.MetadataSearchResult
// @Failure      400   {object}  ErrorResponse                "Missing query"
// @Failure      404   {object}  domain.MetadataSearchResult  "No matches"
// @Failure      503   {object}  ErrorResponse                "Provider not configured"
// @Router       /api/v1/search [get]
func (s *Server) handleMovieSearch(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	if q == "" {
		writeError(w, http.StatusBadRequest, "q is required")
		return
	}
	if !s.requireProvider(w) {
		return
	}

	result := s.movieService.Search(r.Context(), q, r.URL.Query().Get("year"))
	if !result.Found {
		writeJSON(w, http.StatusNotFound, result)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// handlePopular godoc
// @Summary      Popular movies
// @Description  Returns metadata for the configured popular titles, skipping unknown ones
// @Tags         Movies
// @Produce      json
// @Success      200  {object}  PopularResponse
// @Failure      403  {object}  ErrorResponse  "Feature disabled"
// @Failure      503  {object}  ErrorResponse  "Provider not configured"
// @Router       /api/v1/popular [get]
func (s *Server) handlePopular(w http.ResponseWriter, r *http.Request) {
	if !s.requireProvider(w) {
		return
	}
	movies := s.movieService.Popular(r.Context())
	writeJSON(w, http.StatusOK, PopularResponse{Movies: movies, Count: len(movies)})
}

func (s *Server) requireProvider(w http.ResponseWriter) bool {
	if s.movieService == nil || !s.movieService.Available() {
		writeError(w, http.StatusServiceUnavailable, "Metadata provider not configured")
		return false
	}
	return true
}

// parseLimit reads the optional limit parameter. 0 means "use the configured default".
func parseLimit(w http.ResponseWriter, r *http.Request) (int, bool) {
	v := r.URL.Query().Get("limit")
	if v == "" {
		return 0, true
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 || n > maxLimit {
		writeError(w, http.StatusBadRequest, "limit must be an integer between 1 and "+strconv.Itoa(maxLimit))
		return 0, false
	}
	return n, true
}

func writeMetadata(w http.ResponseWriter, result domain.MetadataResult) {
	if !result.Found {
		writeJSON(w, http.StatusNotFound, result)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Error: message})
}
