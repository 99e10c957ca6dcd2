package main

// @title           Reelscout API
// @version         1.0
// @description     Content-based movie recommendations. Reelscout serves TF-IDF cosine similarity recommendations with optional OMDb metadata.

// @contact.name   Custodia Labs
// @contact.url    https://github.com/custodia-labs/reelscout/issues

// @license.name  Apache 2.0
// @license.url   http://www.apache.org/licenses/LICENSE-2.0.html

// @host      localhost:8080
// @BasePath  /
// @schemes   http https

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/custodia-labs/reelscout/docs"
	"github.com/custodia-labs/reelscout/internal/adapters/driven/artifacts"
	"github.com/custodia-labs/reelscout/internal/adapters/driven/corpus"
	"github.com/custodia-labs/reelscout/internal/adapters/driven/local"
	"github.com/custodia-labs/reelscout/internal/adapters/driven/omdb"
	"github.com/custodia-labs/reelscout/internal/adapters/driven/postgres"
	redisadapter "github.com/custodia-labs/reelscout/internal/adapters/driven/redis"
	"github.com/custodia-labs/reelscout/internal/adapters/driving/http"
	"github.com/custodia-labs/reelscout/internal/config"
	"github.com/custodia-labs/reelscout/internal/core/domain"
	"github.com/custodia-labs/reelscout/internal/core/ports/driven"
	"github.com/custodia-labs/reelscout/internal/core/ports/driving"
	"github.com/custodia-labs/reelscout/internal/core/services"
	"github.com/custodia-labs/reelscout/internal/features"
	"github.com/custodia-labs/reelscout/internal/normalisers"
	"github.com/custodia-labs/reelscout/internal/postprocessors"
	"github.com/custodia-labs/reelscout/internal/runtime"
	"github.com/custodia-labs/reelscout/internal/worker"
)

var version = "dev"

func main() {
	// Get run mode from environment (RUN_MODE) or command line arg
	mode := getEnv("RUN_MODE", "all")
	args := os.Args[1:]
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		mode = args[0]
		args = args[1:]
	}

	flags := flag.NewFlagSet("reelscout", flag.ExitOnError)
	force := flags.Bool("force", false, "rebuild artifacts even if they exist")
	configPath := flags.String("config", "", "path to a YAML config file")
	_ = flags.Parse(args)

	log.Printf("reelscout %s starting in %s mode", version, mode)

	// ===== Configuration =====
	var (
		cfg *config.Config
		err error
	)
	if *configPath != "" {
		cfg, err = config.LoadFile(*configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := newLogger(cfg.Logging)
	slog.SetDefault(logger)

	// Setup context with cancellation for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Println("Shutdown signal received, stopping...")
		cancel()
	}()

	// ===== Initialize PostgreSQL (optional) =====
	var db *postgres.DB
	if cfg.Postgres.URL != "" {
		log.Println("Connecting to PostgreSQL...")
		dbConfig := postgres.DefaultConfig(cfg.Postgres.URL)
		if cfg.Postgres.MaxOpenConns > 0 {
			dbConfig.MaxOpenConns = cfg.Postgres.MaxOpenConns
		}
		if cfg.Postgres.MaxIdleConns > 0 {
			dbConfig.MaxIdleConns = cfg.Postgres.MaxIdleConns
		}
		if cfg.Postgres.ConnectAttempts > 0 {
			dbConfig.ConnectAttempts = cfg.Postgres.ConnectAttempts
		}
		dbConfig.Logger = logger
		db, err = postgres.Connect(ctx, dbConfig)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer db.Close()

		// Initialize schema (idempotent)
		if err := db.InitSchema(ctx); err != nil {
			log.Fatalf("Failed to initialize schema: %v", err)
		}
		log.Println("PostgreSQL connected and schema initialized")
	}

	// ===== Initialize Redis (optional) =====
	var redisClient *redis.Client
	if cfg.Redis.URL != "" {
		log.Println("Connecting to Redis...")
		opts, err := redis.ParseURL(cfg.Redis.URL)
		if err != nil {
			log.Fatalf("Failed to parse Redis URL: %v", err)
		}
		redisClient = redis.NewClient(opts)
		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer redisClient.Close()
		log.Println("Redis connected")
	}

	// ===== Distributed Lock =====
	lockBackend, distributedLock := selectLock(cfg.Lock.Backend, db, redisClient)
	log.Printf("Using %s preprocessing lock", lockBackend)

	// ===== Metadata Cache (Redis if available) =====
	var metadataCache driven.MetadataCache
	cacheBackend := "none"
	if redisClient != nil {
		metadataCache = redisadapter.NewMetadataCache(redisClient)
		cacheBackend = "redis"
	}

	runtimeConfig := domain.NewRuntimeConfig(lockBackend, cacheBackend)
	runtimeServices := runtime.NewServices(runtimeConfig)
	defer runtimeServices.Close()

	// ===== Driven adapters =====
	var source driven.CorpusSource
	var recorder driven.RunRecorder
	if db != nil {
		movieStore := postgres.NewMovieStore(db)
		recorder = movieStore
		if cfg.Corpus.Source == "postgres" {
			source = movieStore
		}
	}
	if source == nil {
		source = corpus.NewCSVSource(corpus.CSVSourceConfig{
			Patterns:         cfg.Corpus.Patterns,
			FallbackToSample: cfg.Corpus.FallbackToSample,
			SamplePath:       cfg.Corpus.SamplePath,
			Logger:           logger,
		})
	}
	log.Printf("Corpus source: %s", source.Name())

	artifactStore := artifacts.NewFileStore(artifacts.FileStoreConfig{
		Dir:       cfg.Artifacts.Dir,
		FileNames: cfg.ArtifactFileNames(),
		Logger:    logger,
	})

	// ===== Metadata provider (optional) =====
	if cfg.OMDb.Enabled() {
		client, err := omdb.NewClient(omdb.Config{
			APIKey:            cfg.OMDb.APIKey,
			BaseURL:           cfg.OMDb.BaseURL,
			Timeout:           cfg.OMDb.Timeout,
			MaxRetries:        cfg.OMDb.MaxRetries,
			RetryDelay:        cfg.OMDb.RetryDelay,
			RequestsPerSecond: cfg.OMDb.RequestsPerSecond,
			Burst:             cfg.OMDb.Burst,
			Logger:            logger,
		})
		if err != nil {
			log.Fatalf("Failed to create OMDb client: %v", err)
		}
		if err := runtimeServices.ValidateAndSetMetadata(ctx, client); err != nil {
			log.Printf("Warning: OMDb provider unavailable: %v (metadata disabled)", err)
		} else {
			log.Println("OMDb metadata provider configured")
		}
	} else {
		log.Println("OMDb API key not set, metadata endpoints disabled")
	}

	// ===== Services (core business logic) =====
	text := cfg.Preprocessing.Text
	composer := features.NewComposer(features.ComposerConfig{
		Fields:   cfg.Preprocessing.TextFeatures,
		Registry: normalisers.DefaultRegistry(text, postprocessors.ForSettings(text)),
		Logger:   logger,
	})

	preprocessService := services.NewPreprocessService(services.PreprocessConfig{
		Source:   source,
		Store:    artifactStore,
		Lock:     distributedLock,
		Composer: composer,
		Params:   cfg.TFIDF,
		LockTTL:  cfg.Preprocessing.LockTTL,
		Recorder: recorder,
		Logger:   logger,
	})

	movieService := services.NewMovieService(services.MovieConfig{
		Services:      runtimeServices,
		Cache:         metadataCache,
		CacheTTL:      time.Duration(cfg.Features.CacheDurationSeconds) * time.Second,
		PopularTitles: cfg.PopularMovies,
		Logger:        logger,
	})

	recommendationService := services.NewRecommendationService(services.RecommendationConfig{
		Store:    artifactStore,
		Services: runtimeServices,
		Settings: cfg.Recommendations,
		Metadata: movieService,
		Logger:   logger,
	})

	log.Printf("Runtime config: lock_backend=%s, cache_backend=%s, metadata=%t",
		runtimeConfig.LockBackend,
		runtimeConfig.CacheBackend,
		runtimeConfig.MetadataAvailable())

	switch mode {
	case "import":
		// Load the corpus file into the movies table for corpus.source=postgres
		if db == nil {
			log.Fatal("import mode requires postgres.url")
		}
		importService := services.NewCorpusImportService(services.CorpusImportConfig{
			Source: corpus.NewCSVSource(corpus.CSVSourceConfig{
				Patterns: cfg.Corpus.Patterns,
				Logger:   logger,
			}),
			Target:  postgres.NewMovieStore(db),
			Lock:    distributedLock,
			LockTTL: cfg.Preprocessing.LockTTL,
			Logger:  logger,
		})
		n, err := importService.Import(ctx)
		if err != nil {
			log.Fatalf("Corpus import failed: %v", err)
		}
		log.Printf("Corpus import complete: %d movies in the movies table", n)

	case "preprocess":
		// Offline mode: build artifacts and exit
		runPreprocess(ctx, preprocessService, *force)

	case "api":
		// API-only mode: serve whatever artifacts exist
		runAPI(ctx, cfg, logger, artifactStore, recommendationService, movieService, db, redisClient)

	case "all":
		// Combined mode: build artifacts when missing, then serve
		if *force || !preprocessService.ArtifactsExist(ctx) {
			runPreprocess(ctx, preprocessService, *force)
		}
		runAPI(ctx, cfg, logger, artifactStore, recommendationService, movieService, db, redisClient)

	default:
		log.Fatalf("Unknown mode: %s (use: import, preprocess, api, or all)", mode)
	}
}

func runPreprocess(ctx context.Context, svc driving.PreprocessService, force bool) {
	log.Printf("Running preprocessing (force=%t)...", force)

	manifest, err := svc.Run(ctx, force)
	if err != nil {
		log.Fatalf("Preprocessing failed: %v", err)
	}
	if manifest == nil {
		log.Println("Artifacts already present, nothing to do (use --force to rebuild)")
		return
	}

	log.Printf("Preprocessing complete: run=%s movies=%d vocabulary=%d duplicates=%d",
		manifest.RunID, manifest.MovieCount, manifest.VocabularySize, manifest.DuplicateCount)
}

func runAPI(
	ctx context.Context,
	cfg *config.Config,
	logger *slog.Logger,
	store driven.ArtifactStore,
	recommendationService driving.RecommendationService,
	movieService driving.MovieService,
	db *postgres.DB,
	redisClient *redis.Client,
) {
	// Eager load; a failure leaves the engine unloaded and /ready reports it
	if err := recommendationService.Load(ctx); err != nil {
		log.Printf("Warning: artifacts not loaded: %v (run preprocess first)", err)
	}

	// ===== Reload worker =====
	if cfg.Artifacts.ReloadInterval > 0 {
		w := worker.NewWorker(worker.WorkerConfig{
			Store:    store,
			Engine:   recommendationService,
			Logger:   logger,
			Interval: cfg.Artifacts.ReloadInterval,
			WatchDir: cfg.Artifacts.Dir,
		})
		if err := w.Start(ctx); err != nil {
			log.Fatalf("Failed to start reload worker: %v", err)
		}
		defer w.Stop()
	}

	docs.SwaggerInfo.Version = version

	// Typed nil pointers must not reach the Pinger interfaces
	var dbPinger, redisPinger http.Pinger
	if db != nil {
		dbPinger = db
	}
	if redisClient != nil {
		redisPinger = redisadapter.NewMetadataCache(redisClient)
	}

	server := http.NewServer(
		http.Config{
			Host:         cfg.Server.Host,
			Port:         cfg.Server.Port,
			Version:      version,
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
			CORSOrigins:  cfg.Server.CORSOrigins,
			RateLimit:    cfg.Server.RateLimit,
			Features:     cfg.Features,
			Logger:       logger,
		},
		recommendationService,
		movieService,
		dbPinger,
		redisPinger,
	)

	log.Printf("API server starting on %s", cfg.Address())
	if err := server.Start(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

// selectLock resolves the configured lock backend. "auto" prefers Redis,
// then PostgreSQL advisory locks, then an in-process lock.
func selectLock(backend string, db *postgres.DB, redisClient *redis.Client) (string, driven.DistributedLock) {
	switch backend {
	case "redis":
		if redisClient == nil {
			log.Fatal("lock.backend=redis requires redis.url")
		}
		return "redis", redisadapter.NewLock(redisClient)
	case "postgres":
		if db == nil {
			log.Fatal("lock.backend=postgres requires postgres.url")
		}
		return "postgres", postgres.NewAdvisoryLock(db)
	case "local":
		return "local", local.NewLock()
	}

	if redisClient != nil {
		return "redis", redisadapter.NewLock(redisClient)
	}
	if db != nil {
		return "postgres", postgres.NewAdvisoryLock(db)
	}
	return "local", local.NewLock()
}

func newLogger(cfg config.LoggingConfig) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}

	if cfg.Format == "json" {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
