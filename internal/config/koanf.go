package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/custodia-labs/reelscout/internal/core/domain"
)

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
// The first file found will be used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"config/config.yaml",
	"/etc/reelscout/config.yaml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// Defaults returns the configuration used when nothing overrides it.
func Defaults() *Config {
	return &Config{
		Server: ServerConfig{
			Host:         "0.0.0.0",
			Port:         8080,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 60 * time.Second,
			CORSOrigins:  []string{"*"},
			RateLimit:    120,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Corpus: CorpusConfig{
			Source: "csv",
			Patterns: []string{
				"data/raw/*.csv",
				"data/*.csv",
				"*.csv",
			},
			FallbackToSample: true,
			SamplePath:       "data/raw/sample_movies.csv",
		},
		Artifacts: ArtifactsConfig{
			Dir:            "data/processed",
			ReloadInterval: time.Minute,
		},
		Preprocessing: PreprocessingConfig{
			TextFeatures: domain.DefaultTextFeatures(),
			Text:         domain.DefaultTextSettings(),
			LockTTL:      30 * time.Minute,
		},
		TFIDF:           domain.DefaultTFIDFParams(),
		Recommendations: domain.DefaultRecommendationSettings(),
		Features:        domain.DefaultFeatures(),
		PopularMovies: []string{
			"The Shawshank Redemption",
			"The Godfather",
			"The Dark Knight",
			"Pulp Fiction",
			"Inception",
			"The Matrix",
		},
		OMDb: OMDbConfig{
			BaseURL:           "http://www.omdbapi.com/",
			Timeout:           10 * time.Second,
			MaxRetries:        3,
			RetryDelay:        time.Second,
			RequestsPerSecond: 10,
			Burst:             5,
		},
		Postgres: PostgresConfig{
			MaxOpenConns:    10,
			MaxIdleConns:    5,
			ConnectAttempts: 5,
		},
		Lock: LockConfig{
			Backend: "auto",
		},
	}
}

// Load builds the configuration from defaults, the first config file found
// and the environment, then validates it.
func Load() (*Config, error) {
	return LoadFile(findConfigFile())
}

// LoadFile is Load with an explicit config file. An empty path skips the file layer.
func LoadFile(configPath string) (*Config, error) {
	k := koanf.New(".")

	// Layer 1: defaults
	if err := k.Load(structs.Provider(Defaults(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: config file (optional)
	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: environment variables (highest priority)
	// OMDB_API_KEY -> omdb.api_key
	// DATABASE_URL -> postgres.url
	if err := k.Load(env.ProviderWithValue("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// findConfigFile returns the first existing config file, or "" when none is found.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// sliceSeparators lists the paths that may arrive from the environment as a
// single delimited string. Titles can contain commas, so popular_movies uses "|".
var sliceSeparators = map[string]string{
	"server.cors_origins":         ",",
	"corpus.patterns":             ",",
	"preprocessing.text_features": ",",
	"popular_movies":              "|",
}

func processSliceFields(k *koanf.Koanf) error {
	for path, sep := range sliceSeparators {
		strVal, ok := k.Get(path).(string)
		if !ok {
			continue
		}
		parts := strings.Split(strVal, sep)
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if err := k.Set(path, trimmed); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// envMappings maps lowercased environment variable names to koanf paths.
// Variables not listed are ignored.
var envMappings = map[string]string{
	// Server
	"port":           "server.port",
	"reelscout_host": "server.host",
	"reelscout_port": "server.port",
	"cors_origins":   "server.cors_origins",
	"rate_limit":     "server.rate_limit",
	"read_timeout":   "server.read_timeout",
	"write_timeout":  "server.write_timeout",
	"log_level":      "logging.level",
	"log_format":     "logging.format",

	// Corpus and artifacts
	"corpus_source":      "corpus.source",
	"corpus_patterns":    "corpus.patterns",
	"corpus_fallback":    "corpus.fallback_to_sample",
	"corpus_sample_path": "corpus.sample_path",
	"artifacts_dir":      "artifacts.dir",
	"artifacts_reload":   "artifacts.reload_interval",

	// Preprocessing
	"text_features":       "preprocessing.text_features",
	"text_lowercase":      "preprocessing.text.lowercase",
	"text_remove_punct":   "preprocessing.text.remove_punctuation",
	"text_stopwords":      "preprocessing.text.remove_stopwords",
	"text_lemmatize":      "preprocessing.text.lemmatize",
	"text_min_word_len":   "preprocessing.text.min_word_length",
	"preprocess_lock_ttl": "preprocessing.lock_ttl",
	"tfidf_max_features":  "tfidf.max_features",
	"tfidf_stop_words":    "tfidf.stop_words",
	"tfidf_ngram_min":     "tfidf.ngram_min",
	"tfidf_ngram_max":     "tfidf.ngram_max",
	"tfidf_min_df":        "tfidf.min_df",
	"tfidf_max_df":        "tfidf.max_df",

	// Recommendations
	"max_recommendations":  "recommendations.max_recommendations",
	"min_similarity_score": "recommendations.min_similarity_score",
	"enhance_concurrency":  "recommendations.enhance_concurrency",

	// Feature toggles (legacy ENABLE_ names)
	"enable_recommendations": "features.recommendations",
	"enable_api_endpoints":   "features.api_endpoints",
	"enable_popular_movies":  "features.popular_movies",
	"cache_duration":         "features.cache_duration",
	"popular_movies":         "popular_movies",

	// OMDb
	"omdb_api_key":             "omdb.api_key",
	"omdb_base_url":            "omdb.base_url",
	"omdb_timeout":             "omdb.timeout",
	"omdb_max_retries":         "omdb.max_retries",
	"omdb_retry_delay":         "omdb.retry_delay",
	"omdb_requests_per_second": "omdb.requests_per_second",
	"omdb_burst":               "omdb.burst",

	// Backends
	"redis_url":                 "redis.url",
	"database_url":              "postgres.url",
	"postgres_max_open_conns":   "postgres.max_open_conns",
	"postgres_max_idle_conns":   "postgres.max_idle_conns",
	"postgres_connect_attempts": "postgres.connect_attempts",
	"lock_backend":              "lock.backend",
}

// envTransformFunc maps an environment variable to a koanf path.
// Unmapped and empty variables return "" so the env provider skips them.
func envTransformFunc(key, value string) (string, interface{}) {
	if value == "" {
		return "", nil
	}
	return envMappings[strings.ToLower(key)], value
}
