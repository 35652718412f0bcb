package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"tangled.org/arabica.social/brewjournal/internal/autofill"
	"tangled.org/arabica.social/brewjournal/internal/config"
	"tangled.org/arabica.social/brewjournal/internal/database"
	"tangled.org/arabica.social/brewjournal/internal/database/boltstore"
	"tangled.org/arabica.social/brewjournal/internal/database/gormstore"
	"tangled.org/arabica.social/brewjournal/internal/database/sqlitestore"
	"tangled.org/arabica.social/brewjournal/internal/events"
	"tangled.org/arabica.social/brewjournal/internal/handlers"
	"tangled.org/arabica.social/brewjournal/internal/journal"
	"tangled.org/arabica.social/brewjournal/internal/metrics"
	"tangled.org/arabica.social/brewjournal/internal/routing"
	"tangled.org/arabica.social/brewjournal/internal/tracing"
)

// eventBuffer is the per-subscriber queue length of the change stream
const eventBuffer = 32

const shutdownTimeout = 10 * time.Second

func main() {
	configFile := flag.String("config", "", "path to a brewjournal.yaml config file")
	flag.Parse()

	cfg, err := config.Load(config.Options{ConfigFile: *configFile})
	if err != nil {
		// Logging isn't configured yet, so fall back to the console writer
		setupLogging(os.Stdout, config.DefaultLogLevel, "")
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	setupLogging(os.Stdout, cfg.Log.Level, cfg.Log.Format)
	log.Info().Msg("Starting brew journal")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		log.Fatal().Err(err).Msg("Server failed")
	}
	log.Info().Msg("Server stopped")
}

// setupLogging configures the global zerolog logger.
// Use pretty console logging in development, JSON in production.
func setupLogging(out io.Writer, level, format string) {
	switch level {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info", "":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	if format == "json" {
		log.Logger = zerolog.New(out).With().Timestamp().Logger()
	} else {
		log.Logger = zerolog.New(zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: time.RFC3339,
		}).With().Timestamp().Logger()
	}
}

// openDocuments opens the document backend selected by cfg.
func openDocuments(ctx context.Context, cfg config.StorageConfig) (database.Documents, error) {
	switch cfg.Backend {
	case config.BackendBolt:
		return boltstore.Open(boltstore.Options{Path: cfg.Path})
	case config.BackendSQLite:
		return sqlitestore.Open(ctx, cfg.Path)
	case config.BackendPostgres:
		return gormstore.Open(cfg.DSN)
	case config.BackendMemory:
		return database.NewMemoryDocuments(), nil
	default:
		return nil, fmt.Errorf("%w: %q", config.ErrUnknownBackend, cfg.Backend)
	}
}

// newLookup builds the cached Gemini lookup, or returns nil when autofill is off.
func newLookup(ctx context.Context, cfg config.AutofillConfig) (*autofill.CachedLookup, error) {
	if !cfg.Enabled() {
		return nil, nil
	}
	gemini, err := autofill.NewGeminiLookup(ctx, cfg.APIKey, cfg.Model)
	if err != nil {
		return nil, err
	}
	return autofill.NewCachedLookup(gemini, cfg.CacheTTL), nil
}

func run(ctx context.Context, cfg *config.Config) error {
	if cfg.Tracing.Enabled {
		tp, err := tracing.Init(ctx, cfg.Tracing.Endpoint)
		if err != nil {
			return fmt.Errorf("init tracing: %w", err)
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := tp.Shutdown(shutdownCtx); err != nil {
				log.Warn().Err(err).Msg("Failed to flush traces")
			}
		}()
		log.Info().Str("endpoint", cfg.Tracing.Endpoint).Msg("Tracing enabled")
	}

	docs, err := openDocuments(ctx, cfg.Storage)
	if err != nil {
		return fmt.Errorf("open %s storage: %w", cfg.Storage.Backend, err)
	}
	store := database.NewRecordStore(docs)
	defer store.Close()

	log.Info().
		Str("backend", cfg.Storage.Backend).
		Str("path", cfg.Storage.Path).
		Msg("Database opened")

	hub := events.NewHub(eventBuffer)
	defer hub.Close()

	opts := []journal.Option{journal.WithPublisher(hub)}
	lookup, err := newLookup(ctx, cfg.Autofill)
	if err != nil {
		return fmt.Errorf("init autofill: %w", err)
	}
	if lookup != nil {
		lookup.StartCleanup(ctx, time.Hour)
		opts = append(opts, journal.WithLookup(lookup))
		log.Info().Str("model", cfg.Autofill.Model).Dur("cache_ttl", cfg.Autofill.CacheTTL).Msg("Autofill enabled")
	} else {
		log.Info().Msg("Autofill disabled (no API key)")
	}

	svc := journal.NewService(store, opts...)
	metrics.StartCollector(ctx, metrics.StatsSource{Snapshot: svc.MetricsSnapshot}, cfg.Metrics.Interval)

	origins := cfg.Server.Origins()
	handler := routing.SetupRouter(routing.Config{
		Handlers:       handlers.NewHandler(svc),
		Events:         events.NewWebSocketHandler(hub, routing.OriginChecker(origins)),
		Logger:         log.Logger,
		AllowedOrigins: origins,
		Tracing:        cfg.Tracing.Enabled,
	})

	srv := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	log.Info().
		Str("address", srv.Addr).
		Str("url", cfg.Server.PublicURL).
		Str("database", cfg.Storage.Backend).
		Msg("Starting HTTP server")

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	// Websocket connections are hijacked and not tracked by Shutdown; closing the
	// hub ends their subscriptions.
	hub.Close()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
