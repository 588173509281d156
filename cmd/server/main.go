package main

import (
	"context"
	"errors"
	"fmt"
	stdhttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"ilmhub/app/internal/config"
	"ilmhub/app/internal/content"
	appdb "ilmhub/app/internal/db"
	apphttp "ilmhub/app/internal/http"
	applog "ilmhub/app/internal/log"
	"ilmhub/app/internal/redisdb"
	"ilmhub/app/internal/store/document"
	"ilmhub/app/internal/store/fallback"
	"ilmhub/app/internal/store/relational"
)

const (
	rateLimitRequestsPerSecond = 10
	rateLimitBurst             = 20
	rateLimitClientTTL         = 5 * time.Minute
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return eris.Wrap(err, "failure loading configuration")
	}

	logger, err := applog.NewLogger(cfg.LogLevel)
	if err != nil {
		return eris.Wrap(err, "failure initialising logger")
	}

	sentryHub, flush, err := applog.InitSentry(logger, applog.SentrySettings{
		DSN:         cfg.SentryDSN,
		Environment: cfg.Environment,
	})
	if err != nil {
		return eris.Wrap(err, "failure initialising sentry")
	}
	defer flush()

	var (
		primary     content.Store
		dbConn      *gorm.DB
		redisClient *redis.Client
	)

	switch cfg.PrimaryStore {
	case config.StoreRelational:
		dbConn, err = appdb.Open(appdb.Options{Path: cfg.DBPath})
		if err != nil {
			return eris.Wrap(err, "opening database")
		}
		defer func() {
			if closeErr := appdb.Close(dbConn); closeErr != nil {
				logger.WithError(closeErr).Error("closing database")
			}
		}()

		if err := relational.Migrate(ctx, dbConn, logger); err != nil {
			return eris.Wrap(err, "running migrations")
		}

		primary, err = relational.NewStore(dbConn, logger)
		if err != nil {
			return eris.Wrap(err, "building relational store")
		}

	case config.StoreDocument:
		redisClient, err = redisdb.Open(ctx, redisdb.Options{
			Addr: cfg.RedisAddr,
			DB:   cfg.RedisDB,
		})
		if err != nil {
			return eris.Wrap(err, "opening redis")
		}
		defer func() {
			if closeErr := redisdb.Close(redisClient); closeErr != nil {
				logger.WithError(closeErr).Error("closing redis")
			}
		}()

		primary, err = document.NewStore(redisClient, logger)
		if err != nil {
			return eris.Wrap(err, "building document store")
		}

	default:
		return eris.Errorf("unsupported primary store: %s", cfg.PrimaryStore)
	}

	repository, err := content.NewRepository(content.RepositoryOptions{
		Primary:        primary,
		Fallback:       fallback.NewProvider(logger),
		Logger:         logger,
		Sentry:         sentryHub,
		PrimaryTimeout: cfg.PrimaryTimeout,
	})
	if err != nil {
		return eris.Wrap(err, "building content repository")
	}

	views, err := content.NewViewCounter(primary, logger, cfg.PrimaryTimeout)
	if err != nil {
		return eris.Wrap(err, "building view counter")
	}
	defer views.Wait()

	stats, err := content.NewAggregator(primary, logger, sentryHub)
	if err != nil {
		return eris.Wrap(err, "building stats aggregator")
	}

	transport, err := apphttp.NewServer(apphttp.Options{
		Repository: repository,
		Views:      views,
		Stats:      stats,
		Database:   dbConn,
		Redis:      redisClient,
		Logger:     logger,
		SentryHub:  sentryHub,
		RateLimiter: apphttp.RateLimiterSettings{
			RequestsPerSecond: rateLimitRequestsPerSecond,
			Burst:             rateLimitBurst,
			ClientTTL:         rateLimitClientTTL,
		},
	})
	if err != nil {
		return eris.Wrap(err, "initialising http transport")
	}

	httpServer := &stdhttp.Server{
		Addr:    fmt.Sprintf("0.0.0.0:%d", cfg.ServerPort),
		Handler: transport.Handler(),
	}

	logger.WithFields(logrus.Fields{
		"addr":  httpServer.Addr,
		"store": string(cfg.PrimaryStore),
	}).Info("starting http server")

	serverErrCh := make(chan error, 1)
	go func() {
		err := httpServer.ListenAndServe()
		if err != nil && !errors.Is(err, stdhttp.ErrServerClosed) {
			serverErrCh <- err
		} else {
			serverErrCh <- nil
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-serverErrCh:
		if err != nil {
			return eris.Wrap(err, "http server error")
		}
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownGrace)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return eris.Wrap(err, "shutting down http server")
	}

	logger.Info("http server shut down cleanly")
	return nil
}
