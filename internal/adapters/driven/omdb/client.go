// Package omdb implements MetadataProvider against the OMDb HTTP API.
package omdb

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/custodia-labs/reelscout/internal/core/domain"
	"github.com/custodia-labs/reelscout/internal/core/ports/driven"
	"github.com/custodia-labs/reelscout/internal/metrics"
)

// Verify interface compliance
var _ driven.MetadataProvider = (*Client)(nil)

// errCallerGone marks a request that failed because the caller's context
// ended. The breaker ignores it: OMDb itself may be healthy.
var errCallerGone = errors.New("caller context done")

// DefaultBaseURL is the public OMDb endpoint.
const DefaultBaseURL = "http://www.omdbapi.com/"

// Result messages returned in MetadataResult.Error.
const (
	msgNotFound      = "Movie not found"
	msgNoResults     = "No movies found"
	msgTimeout       = "Request timeout - please try again"
	msgExhausted     = "Failed to fetch movie data after multiple attempts"
	msgUnavailable   = "Metadata service temporarily unavailable"
	breakerName      = "omdb-api"
	responseOK       = "True"
	maxResponseBytes = 1 << 20
)

// Config holds configuration for the OMDb client.
type Config struct {
	APIKey  string
	BaseURL string

	// Timeout bounds each HTTP attempt (default 10s)
	Timeout time.Duration

	// MaxRetries is the number of attempts for title lookups (default 3)
	MaxRetries int

	// RetryDelay is the pause between attempts (default 1s, negative for none)
	RetryDelay time.Duration

	// RequestsPerSecond limits outgoing calls; 0 disables the limiter
	RequestsPerSecond float64
	Burst             int

	// FailureThreshold is the number of consecutive failed calls that opens
	// the circuit (default 5)
	FailureThreshold uint32

	// OpenTimeout is how long the circuit stays open before probing (default 30s)
	OpenTimeout time.Duration

	Logger *slog.Logger
}

// Client is an OMDb MetadataProvider with retries, a rate limiter and a
// circuit breaker.
type Client struct {
	apiKey     string
	baseURL    string
	maxRetries int
	retryDelay time.Duration
	client     *http.Client
	limiter    *rate.Limiter
	cb         *gobreaker.CircuitBreaker[[]byte]
	logger     *slog.Logger
}

// NewClient creates a new OMDb client.
func NewClient(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: OMDb API key is required", domain.ErrInvalidConfig)
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 3
	}
	if cfg.RetryDelay < 0 {
		cfg.RetryDelay = 0
	} else if cfg.RetryDelay == 0 {
		cfg.RetryDelay = time.Second
	}
	if cfg.FailureThreshold == 0 {
		cfg.FailureThreshold = 5
	}
	if cfg.OpenTimeout <= 0 {
		cfg.OpenTimeout = 30 * time.Second
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	c := &Client{
		apiKey:     cfg.APIKey,
		baseURL:    cfg.BaseURL,
		maxRetries: cfg.MaxRetries,
		retryDelay: cfg.RetryDelay,
		client:     &http.Client{Timeout: cfg.Timeout},
		logger:     logger,
	}
	if cfg.RequestsPerSecond > 0 {
		burst := cfg.Burst
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), burst)
	}

	metrics.CircuitBreakerState.WithLabelValues(breakerName).Set(0)
	threshold := cfg.FailureThreshold
	c.cb = gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:        breakerName,
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		IsExcluded: func(err error) bool {
			return errors.Is(err, errCallerGone)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state changed", "name", name, "from", from.String(), "to", to.String())
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateValue(to))
		},
	})

	return c, nil
}

// movieResponse is the raw OMDb response. Fields are kept as a map so that
// absent keys can be told apart from empty values.
type movieResponse map[string]any

type searchResponse struct {
	Response     string `json:"Response"`
	Error        string `json:"Error"`
	TotalResults string `json:"totalResults"`
	Search       []struct {
		Title  string `json:"Title"`
		Year   string `json:"Year"`
		IMDbID string `json:"imdbID"`
		Type   string `json:"Type"`
		Poster string `json:"Poster"`
	} `json:"Search"`
}

// Lookup fetches full details for a title. Transport failures are retried
// up to MaxRetries attempts.
func (c *Client) Lookup(ctx context.Context, title string) domain.MetadataResult {
	params := url.Values{}
	params.Set("t", title)
	params.Set("plot", "full")

	for attempt := 0; attempt < c.maxRetries; attempt++ {
		body, err := c.get(ctx, params)
		if err == nil {
			return c.decodeMovie(body)
		}
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			metrics.RecordMetadataLookup("rejected")
			return domain.MetadataResult{Error: msgUnavailable}
		}

		last := attempt == c.maxRetries-1
		c.logger.Debug("omdb request failed", "title", title, "attempt", attempt+1, "error", err)
		if last || ctx.Err() != nil {
			metrics.RecordMetadataLookup("error")
			if isTimeout(err) {
				return domain.MetadataResult{Error: msgTimeout}
			}
			return domain.MetadataResult{Error: "API Error: " + err.Error()}
		}
		if !c.sleep(ctx) {
			break
		}
	}

	metrics.RecordMetadataLookup("error")
	return domain.MetadataResult{Error: msgExhausted}
}

// LookupByIMDbID fetches full details for an IMDb identifier. Not retried.
func (c *Client) LookupByIMDbID(ctx context.Context, imdbID string) domain.MetadataResult {
	params := url.Values{}
	params.Set("i", imdbID)
	params.Set("plot", "full")

	body, err := c.get(ctx, params)
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			metrics.RecordMetadataLookup("rejected")
			return domain.MetadataResult{Error: msgUnavailable}
		}
		metrics.RecordMetadataLookup("error")
		return domain.MetadataResult{Error: "API Error: " + err.Error()}
	}
	return c.decodeMovie(body)
}

// Search lists movies matching a title, optionally filtered by year.
func (c *Client) Search(ctx context.Context, title, year string) domain.MetadataSearchResult {
	params := url.Values{}
	params.Set("s", title)
	params.Set("type", "movie")
	if year != "" {
		params.Set("y", year)
	}

	body, err := c.get(ctx, params)
	if err != nil {
		return domain.MetadataSearchResult{Error: "Search failed: " + err.Error()}
	}

	var resp searchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return domain.MetadataSearchResult{Error: "Search failed: " + err.Error()}
	}
	if resp.Response != responseOK {
		msg := resp.Error
		if msg == "" {
			msg = msgNoResults
		}
		return domain.MetadataSearchResult{Error: msg}
	}

	result := domain.MetadataSearchResult{
		Found:   true,
		Results: make([]domain.MetadataSearchHit, 0, len(resp.Search)),
	}
	result.TotalResults, _ = strconv.Atoi(resp.TotalResults)
	for _, hit := range resp.Search {
		result.Results = append(result.Results, domain.MetadataSearchHit{
			Title:  hit.Title,
			Year:   hit.Year,
			IMDbID: hit.IMDbID,
			Type:   hit.Type,
			Poster: hit.Poster,
		})
	}
	return result
}

// Ping reports whether calls are currently admitted by the circuit breaker.
// It does not spend API quota.
func (c *Client) Ping(ctx context.Context) error {
	if c.cb.State() == gobreaker.StateOpen {
		return fmt.Errorf("%w: omdb circuit open", domain.ErrServiceUnavailable)
	}
	return nil
}

// Close releases idle connections.
func (c *Client) Close() error {
	c.client.CloseIdleConnections()
	return nil
}

// get performs one rate-limited GET through the circuit breaker and returns
// the response body.
func (c *Client) get(ctx context.Context, params url.Values) ([]byte, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limit wait: %w", err)
		}
	}
	params.Set("apikey", c.apiKey)

	return c.cb.Execute(func() ([]byte, error) {
		body, err := c.fetch(ctx, params)
		if err != nil && ctx.Err() != nil {
			return nil, fmt.Errorf("%w: %w", errCallerGone, err)
		}
		return body, err
	})
}

func (c *Client) fetch(ctx context.Context, params url.Values) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("OMDb returned status %d", resp.StatusCode)
	}
	return body, nil
}

func (c *Client) decodeMovie(body []byte) domain.MetadataResult {
	var data movieResponse
	if err := json.Unmarshal(body, &data); err != nil {
		metrics.RecordMetadataLookup("error")
		return domain.MetadataResult{Error: "API Error: failed to parse response: " + err.Error()}
	}
	if data.str("Response", "") != responseOK {
		metrics.RecordMetadataLookup("not_found")
		return domain.MetadataResult{Error: data.str("Error", msgNotFound)}
	}
	metrics.RecordMetadataLookup("found")
	return domain.MetadataResult{Found: true, Details: data.details()}
}

func (m movieResponse) str(key, fallback string) string {
	if s, ok := m[key].(string); ok {
		return s
	}
	return fallback
}

func (m movieResponse) details() *domain.MovieDetails {
	na := domain.NotAvailable
	return &domain.MovieDetails{
		Title:      m.str("Title", na),
		Year:       m.str("Year", na),
		Plot:       m.str("Plot", na),
		Poster:     m.str("Poster", na),
		Director:   m.str("Director", na),
		Actors:     m.str("Actors", na),
		Genre:      m.str("Genre", na),
		Runtime:    m.str("Runtime", na),
		IMDbRating: m.str("imdbRating", na),
		Released:   m.str("Released", na),
		Rated:      m.str("Rated", na),
		Language:   m.str("Language", na),
		Country:    m.str("Country", na),
		Awards:     m.str("Awards", na),
		BoxOffice:  m.str("BoxOffice", na),
		IMDbID:     m.str("imdbID", na),
		Metascore:  m.str("Metascore", na),
		Writer:     m.str("Writer", na),
		Production: m.str("Production", na),
		Website:    m.str("Website", na),
	}
}

// sleep waits for the retry delay and reports false if ctx ended first.
func (c *Client) sleep(ctx context.Context) bool {
	if c.retryDelay == 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(c.retryDelay)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func stateValue(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return 0
	}
}
