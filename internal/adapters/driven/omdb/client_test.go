package omdb

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/reelscout/internal/core/domain"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, mutate ...func(*Config)) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := Config{
		APIKey:     "test-key",
		BaseURL:    server.URL + "/",
		Timeout:    time.Second,
		RetryDelay: -1,
	}
	for _, m := range mutate {
		m(&cfg)
	}
	c, err := NewClient(cfg)
	require.NoError(t, err)
	return c
}

func TestNewClient_RequiresAPIKey(t *testing.T) {
	_, err := NewClient(Config{})
	assert.ErrorIs(t, err, domain.ErrInvalidConfig)
}

func TestNewClient_Defaults(t *testing.T) {
	c, err := NewClient(Config{APIKey: "k"})
	require.NoError(t, err)

	assert.Equal(t, DefaultBaseURL, c.baseURL)
	assert.Equal(t, 3, c.maxRetries)
	assert.Equal(t, time.Second, c.retryDelay)
	assert.Equal(t, 10*time.Second, c.client.Timeout)
	assert.Nil(t, c.limiter)
}

func TestClient_LookupFound(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "Inception", q.Get("t"))
		assert.Equal(t, "test-key", q.Get("apikey"))
		assert.Equal(t, "full", q.Get("plot"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"Response":"True","Title":"Inception","Year":"2010","Director":"Christopher Nolan","imdbRating":"8.8","imdbID":"tt1375666","Plot":""}`))
	})

	res := c.Lookup(context.Background(), "Inception")
	require.True(t, res.Found)
	assert.Empty(t, res.Error)
	assert.Equal(t, "Inception", res.Details.Title)
	assert.Equal(t, "2010", res.Details.Year)
	assert.Equal(t, "8.8", res.Details.IMDbRating)
	assert.Equal(t, "tt1375666", res.Details.IMDbID)
	assert.Equal(t, "", res.Details.Plot)
	assert.Equal(t, domain.NotAvailable, res.Details.Poster)
	assert.Equal(t, domain.NotAvailable, res.Details.BoxOffice)
}

func TestClient_LookupNotFound(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"provider error", `{"Response":"False","Error":"Movie not found!"}`, "Movie not found!"},
		{"no error message", `{"Response":"False"}`, "Movie not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tt.body))
			})

			res := c.Lookup(context.Background(), "Nope")
			assert.False(t, res.Found)
			assert.Nil(t, res.Details)
			assert.Equal(t, tt.want, res.Error)
		})
	}
}

func TestClient_LookupRetriesThenSucceeds(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(`{"Response":"True","Title":"Heat"}`))
	})

	res := c.Lookup(context.Background(), "Heat")
	assert.True(t, res.Found)
	assert.Equal(t, int32(3), calls.Load())
}

func TestClient_LookupGivesUpAfterMaxRetries(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}, func(cfg *Config) { cfg.MaxRetries = 2 })

	res := c.Lookup(context.Background(), "Heat")
	assert.False(t, res.Found)
	assert.Contains(t, res.Error, "API Error:")
	assert.Contains(t, res.Error, "500")
	assert.Equal(t, int32(2), calls.Load())
}

func TestClient_LookupTimeout(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.Write([]byte(`{"Response":"True"}`))
	}, func(cfg *Config) {
		cfg.Timeout = 20 * time.Millisecond
		cfg.MaxRetries = 1
	})

	res := c.Lookup(context.Background(), "Slow")
	assert.False(t, res.Found)
	assert.Equal(t, "Request timeout - please try again", res.Error)
}

func TestClient_CircuitOpensAfterFailures(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}, func(cfg *Config) {
		cfg.MaxRetries = 1
		cfg.FailureThreshold = 2
		cfg.OpenTimeout = time.Hour
	})
	ctx := context.Background()

	c.Lookup(ctx, "a")
	c.Lookup(ctx, "b")
	require.Error(t, c.Ping(ctx))
	assert.ErrorIs(t, c.Ping(ctx), domain.ErrServiceUnavailable)

	res := c.Lookup(ctx, "c")
	assert.False(t, res.Found)
	assert.Equal(t, msgUnavailable, res.Error)
	assert.Equal(t, int32(2), calls.Load())
}

func TestClient_CancelledCallersDoNotOpenCircuit(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"Response":"True","Title":"Heat","Year":"1995"}`))
	}, func(cfg *Config) {
		cfg.MaxRetries = 1
		cfg.FailureThreshold = 2
		cfg.OpenTimeout = time.Hour
	})

	cancelled, cancel := context.WithCancel(context.Background())
	cancel()
	for i := 0; i < 5; i++ {
		res := c.Lookup(cancelled, "Heat")
		assert.False(t, res.Found)
	}

	expired, cancelExpired := context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
	defer cancelExpired()
	for i := 0; i < 5; i++ {
		c.LookupByIMDbID(expired, "tt0113277")
	}

	require.NoError(t, c.Ping(context.Background()))
	res := c.Lookup(context.Background(), "Heat")
	assert.True(t, res.Found)
	assert.Empty(t, res.Error)
}

func TestClient_UpstreamTimeoutsStillOpenCircuit(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}, func(cfg *Config) {
		cfg.Timeout = 20 * time.Millisecond
		cfg.MaxRetries = 1
		cfg.FailureThreshold = 2
		cfg.OpenTimeout = time.Hour
	})
	ctx := context.Background()

	c.Lookup(ctx, "a")
	c.Lookup(ctx, "b")

	assert.ErrorIs(t, c.Ping(ctx), domain.ErrServiceUnavailable)
}

func TestClient_LookupByIMDbID(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "tt0133093", r.URL.Query().Get("i"))
		w.Write([]byte(`{"Response":"True","Title":"The Matrix","imdbID":"tt0133093"}`))
	})

	res := c.LookupByIMDbID(context.Background(), "tt0133093")
	require.True(t, res.Found)
	assert.Equal(t, "The Matrix", res.Details.Title)
}

func TestClient_Search(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "Alien", q.Get("s"))
		assert.Equal(t, "movie", q.Get("type"))
		assert.Equal(t, "1979", q.Get("y"))
		w.Write([]byte(`{"Response":"True","totalResults":"2","Search":[
			{"Title":"Alien","Year":"1979","imdbID":"tt0078748","Type":"movie","Poster":"N/A"},
			{"Title":"Alien Resurrection","Year":"1997","imdbID":"tt0118583","Type":"movie","Poster":"N/A"}]}`))
	})

	res := c.Search(context.Background(), "Alien", "1979")
	require.True(t, res.Found)
	assert.Equal(t, 2, res.TotalResults)
	require.Len(t, res.Results, 2)
	assert.Equal(t, "tt0078748", res.Results[0].IMDbID)
}

func TestClient_SearchNoResults(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.URL.Query().Get("y"))
		w.Write([]byte(`{"Response":"False"}`))
	})

	res := c.Search(context.Background(), "zzzz", "")
	assert.False(t, res.Found)
	assert.Equal(t, "No movies found", res.Error)
}

func TestClient_SearchTransportError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	res := c.Search(context.Background(), "Alien", "")
	assert.False(t, res.Found)
	assert.Contains(t, res.Error, "Search failed:")
}

func TestClient_RateLimiterHonoursContext(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"Response":"True","Title":"Heat"}`))
	}, func(cfg *Config) {
		cfg.RequestsPerSecond = 0.001
		cfg.Burst = 1
		cfg.MaxRetries = 1
	})

	assert.True(t, c.Lookup(context.Background(), "Heat").Found)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	res := c.Lookup(ctx, "Heat")
	assert.False(t, res.Found)
	assert.Contains(t, res.Error, "rate limit")
}
