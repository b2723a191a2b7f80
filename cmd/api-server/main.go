package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"funding-tracker/internal/api/dossiers"
	"funding-tracker/internal/api/opportunities"
	"funding-tracker/internal/cache"
	"funding-tracker/internal/common/config"
	"funding-tracker/internal/common/database"
	apperrors "funding-tracker/internal/common/errors"
	"funding-tracker/internal/common/logger"
	"funding-tracker/internal/common/observability"
	"funding-tracker/internal/common/validation"
	"funding-tracker/internal/dossier"
	"funding-tracker/internal/search"
	"funding-tracker/internal/server"
	"funding-tracker/internal/store"

	"go.uber.org/zap"
)

const serviceName = "funding-tracker"

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		boot := logger.New("info", "console")
		boot.Fatal("config load failed", zap.Error(err))
	}

	zapLog := logger.NewFromOptions(logger.Options{
		Level:      cfg.Logging.Level,
		Format:     cfg.Logging.Format,
		Output:     cfg.Logging.Output,
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
		MaxAgeDays: cfg.Logging.MaxAgeDays,
		Compress:   cfg.Logging.Compress,
	})
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting funding tracker API...", zap.String("environment", cfg.App.Environment))

	obs := observability.New(serviceName)
	defer obs.Shutdown()
	if cfg.Tracing.Enabled {
		if err := obs.EnableTracing(serviceName, cfg.Tracing.JaegerEndpoint); err != nil {
			zapLog.Fatal("tracing setup failed", zap.Error(err))
		}
		zapLog.Info("Tracing enabled", zap.String("endpoint", cfg.Tracing.JaegerEndpoint))
	}

	ctx := context.Background()
	checks := map[string]server.Pinger{}

	// --- Init PostgreSQL with retry ---
	var pg *database.PostgresClient
	err = retryWithBackoff(func() error {
		var err error
		pg, err = database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		return pg.Ping(ctx)
	}, 15, 2*time.Second, zapLog, "PostgreSQL connection")
	if err != nil {
		zapLog.Fatal("postgres failed after retries", zap.Error(err))
	}
	defer pg.Close()
	checks["postgres"] = pg
	zapLog.Info("PostgreSQL connected successfully")

	if cfg.Database.Postgres.AutoMigrate {
		version, err := pg.Migrate()
		if err != nil {
			zapLog.Fatal("schema migration failed", zap.Error(err))
		}
		zapLog.Info("Schema up to date", zap.Uint("version", version))
	}

	// --- Init Redis cache (optional) ---
	var opportunityCache opportunities.Cache
	if cfg.Cache.Enabled {
		var rdb *database.RedisClient
		err = retryWithBackoff(func() error {
			var err error
			rdb, err = database.NewRedis(cfg.Database.Redis)
			if err != nil {
				return err
			}
			return rdb.Ping(ctx)
		}, 10, 2*time.Second, zapLog, "Redis connection")
		if err != nil {
			zapLog.Fatal("redis failed after retries", zap.Error(err))
		}
		defer rdb.Close()
		checks["redis"] = rdb
		opportunityCache = cache.NewOpportunityCache(rdb.Client, time.Duration(cfg.Cache.TTL)*time.Second, log)
		zapLog.Info("Redis cache enabled", zap.Int("ttlSeconds", cfg.Cache.TTL))
	}

	// --- Init Elasticsearch index (optional) ---
	var index opportunities.Index
	if cfg.Search.Enabled {
		var es *database.ElasticsearchClient
		err = retryWithBackoff(func() error {
			var err error
			es, err = database.NewElasticsearch(cfg.Database.Elasticsearch)
			if err != nil {
				return err
			}
			return es.Ping(ctx)
		}, 15, 2*time.Second, zapLog, "Elasticsearch connection")
		if err != nil {
			zapLog.Fatal("elasticsearch failed after retries", zap.Error(err))
		}
		ix := search.NewIndex(es.Client, cfg.Search, log)
		if err := ix.EnsureIndex(ctx); err != nil {
			zapLog.Fatal("search index setup failed", zap.Error(err))
		}
		checks["elasticsearch"] = es
		index = ix
		zapLog.Info("Search index enabled", zap.String("index", cfg.Search.Index))
	}

	// --- Handlers ---
	validator, err := validation.NewValidator()
	if err != nil {
		zapLog.Fatal("request schemas failed to compile", zap.Error(err))
	}
	errs := apperrors.NewErrorHandler(log)
	repos := store.New(pg.GetDB())
	evaluator := dossier.FromConfig(cfg.Dossier)

	router := server.NewRouter(server.Deps{
		Opportunities: opportunities.NewHandler(repos.Opportunities, opportunityCache, index, validator, errs, log),
		Dossiers:      dossiers.FromStore(repos, evaluator, validator, errs, log),
		Errors:        errs,
		Logger:        log,
		Observability: obs,
		CORSOrigins:   cfg.HTTP.CORSOrigins,
		Checks:        checks,
	})

	srv := &http.Server{
		Addr:         cfg.HTTP.Address,
		Handler:      router,
		ReadTimeout:  config.GetDuration(cfg.HTTP.ReadTimeout),
		WriteTimeout: config.GetDuration(cfg.HTTP.WriteTimeout),
		IdleTimeout:  config.GetDuration(cfg.HTTP.IdleTimeout),
	}

	go func() {
		zapLog.Info("HTTP server listening", zap.String("address", cfg.HTTP.Address))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLog.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, draining requests...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.GetDuration(cfg.HTTP.ShutdownTimeout))
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("HTTP server shutdown failed", zap.Error(err))
	}
	zapLog.Info("Funding tracker API stopped gracefully")
}
