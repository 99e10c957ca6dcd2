// Package config loads reelscout configuration from defaults, an optional
// YAML file and environment variables, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/custodia-labs/reelscout/internal/core/domain"
)

// Config is the complete runtime configuration.
type Config struct {
	Server          ServerConfig                  `koanf:"server"`
	Logging         LoggingConfig                 `koanf:"logging"`
	Corpus          CorpusConfig                  `koanf:"corpus"`
	Artifacts       ArtifactsConfig               `koanf:"artifacts"`
	Preprocessing   PreprocessingConfig           `koanf:"preprocessing"`
	TFIDF           domain.TFIDFParams            `koanf:"tfidf"`
	Recommendations domain.RecommendationSettings `koanf:"recommendations"`
	Features        domain.Features               `koanf:"features"`
	PopularMovies   []string                      `koanf:"popular_movies"`
	OMDb            OMDbConfig                    `koanf:"omdb"`
	Redis           RedisConfig                   `koanf:"redis"`
	Postgres        PostgresConfig                `koanf:"postgres"`
	Lock            LockConfig                    `koanf:"lock"`
}

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	Host         string        `koanf:"host"`
	Port         int           `koanf:"port" validate:"gte=1,lte=65535"`
	ReadTimeout  time.Duration `koanf:"read_timeout"`
	WriteTimeout time.Duration `koanf:"write_timeout"`

	// CORSOrigins lists allowed origins. "*" allows any.
	CORSOrigins []string `koanf:"cors_origins"`

	// RateLimit is the per-client request budget per minute. 0 disables limiting.
	RateLimit int `koanf:"rate_limit" validate:"gte=0"`
}

// LoggingConfig selects the slog handler.
type LoggingConfig struct {
	Level  string `koanf:"level" validate:"oneof=debug info warn error"`
	Format string `koanf:"format" validate:"oneof=text json"`
}

// CorpusConfig selects where the raw movie corpus comes from.
type CorpusConfig struct {
	Source           string   `koanf:"source" validate:"oneof=csv postgres"`
	Patterns         []string `koanf:"patterns"`
	FallbackToSample bool     `koanf:"fallback_to_sample"`
	SamplePath       string   `koanf:"sample_path"`
}

// ArtifactsConfig locates processed artifacts.
type ArtifactsConfig struct {
	Dir string `koanf:"dir" validate:"required"`

	// Files overrides blob names keyed by artifact kind, e.g. similarity_matrix.
	Files map[string]string `koanf:"files"`

	// ReloadInterval is how often the server checks for a new run.
	// Zero disables hot reload.
	ReloadInterval time.Duration `koanf:"reload_interval" validate:"min=0"`
}

// PreprocessingConfig controls feature composition and text normalization.
type PreprocessingConfig struct {
	TextFeatures []string            `koanf:"text_features" validate:"min=1"`
	Text         domain.TextSettings `koanf:"text"`
	LockTTL      time.Duration       `koanf:"lock_ttl"`
}

// OMDbConfig configures the metadata provider. An empty API key disables it.
type OMDbConfig struct {
	APIKey            string        `koanf:"api_key"`
	BaseURL           string        `koanf:"base_url" validate:"omitempty,url"`
	Timeout           time.Duration `koanf:"timeout"`
	MaxRetries        int           `koanf:"max_retries" validate:"gte=0"`
	RetryDelay        time.Duration `koanf:"retry_delay"`
	RequestsPerSecond float64       `koanf:"requests_per_second" validate:"gte=0"`
	Burst             int           `koanf:"burst" validate:"gte=0"`
}

// Enabled reports whether a usable API key is configured.
func (c OMDbConfig) Enabled() bool {
	return c.APIKey != "" && c.APIKey != placeholderAPIKey
}

// RedisConfig configures the optional Redis backend.
type RedisConfig struct {
	URL string `koanf:"url"`
}

// PostgresConfig configures the optional PostgreSQL backend.
type PostgresConfig struct {
	URL          string `koanf:"url"`
	MaxOpenConns int    `koanf:"max_open_conns" validate:"gte=0"`
	MaxIdleConns int    `koanf:"max_idle_conns" validate:"gte=0"`

	// ConnectAttempts is how many pings Connect tries before giving up.
	ConnectAttempts int `koanf:"connect_attempts" validate:"gte=0"`
}

// LockConfig selects the preprocessing lock backend.
// "auto" prefers Redis, then PostgreSQL, then an in-process lock.
type LockConfig struct {
	Backend string `koanf:"backend" validate:"oneof=auto redis postgres local"`
}

const placeholderAPIKey = "your-api-key-here"

// ErrInvalidConfig is returned when validation fails.
var ErrInvalidConfig = errors.New("invalid configuration")

var validate = validator.New()

// Validate checks field constraints and cross-field requirements.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if c.Corpus.Source == "postgres" && c.Postgres.URL == "" {
		return fmt.Errorf("%w: corpus.source=postgres requires postgres.url", ErrInvalidConfig)
	}
	if c.Corpus.Source == "csv" && len(c.Corpus.Patterns) == 0 && !c.Corpus.FallbackToSample {
		return fmt.Errorf("%w: corpus.patterns is empty and sample fallback is disabled", ErrInvalidConfig)
	}
	switch c.Lock.Backend {
	case "redis":
		if c.Redis.URL == "" {
			return fmt.Errorf("%w: lock.backend=redis requires redis.url", ErrInvalidConfig)
		}
	case "postgres":
		if c.Postgres.URL == "" {
			return fmt.Errorf("%w: lock.backend=postgres requires postgres.url", ErrInvalidConfig)
		}
	}
	for kind := range c.Artifacts.Files {
		if !isArtifactKind(kind) {
			return fmt.Errorf("%w: unknown artifact %q in artifacts.files", ErrInvalidConfig, kind)
		}
	}
	return c.validateArtifactNames()
}

// validateArtifactNames rejects overrides that would make two blobs, or a
// blob and the manifest, share a file.
func (c *Config) validateArtifactNames() error {
	owners := map[string]string{domain.ManifestFileName: "manifest"}
	for _, kind := range domain.AllArtifacts {
		name := kind.DefaultFileName()
		if override := c.Artifacts.Files[string(kind)]; override != "" {
			name = override
		}
		if filepath.Base(name) != name {
			return fmt.Errorf("%w: artifacts.files.%s must be a plain file name, got %q", ErrInvalidConfig, kind, name)
		}
		if other, taken := owners[name]; taken {
			return fmt.Errorf("%w: artifacts.files maps %s and %s to the same file %q", ErrInvalidConfig, other, kind, name)
		}
		owners[name] = string(kind)
	}
	return nil
}

// ArtifactFileNames converts the configured overrides to artifact kinds.
func (c *Config) ArtifactFileNames() map[domain.ArtifactKind]string {
	names := make(map[domain.ArtifactKind]string, len(c.Artifacts.Files))
	for kind, name := range c.Artifacts.Files {
		names[domain.ArtifactKind(kind)] = name
	}
	return names
}

// Address returns the host:port the HTTP server listens on.
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

func isArtifactKind(kind string) bool {
	for _, k := range domain.AllArtifacts {
		if string(k) == kind {
			return true
		}
	}
	return false
}
