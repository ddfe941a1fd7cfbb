package main

import (
	"context"
	"database/sql"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/SARVESHVARADKAR123/postbox/internal/application"
	"github.com/SARVESHVARADKAR123/postbox/internal/cache"
	"github.com/SARVESHVARADKAR123/postbox/internal/config"
	"github.com/SARVESHVARADKAR123/postbox/internal/kafka"
	"github.com/SARVESHVARADKAR123/postbox/internal/observability"
	"github.com/SARVESHVARADKAR123/postbox/internal/repository/postgres"
)

func main() {
	_ = godotenv.Load(".env")
	cfg := config.LoadProcessor()

	observability.InitLogger(cfg.ServiceName, cfg.LogLevel)
	log := observability.Log
	defer log.Sync()

	if cfg.TracingEnabled {
		tp, err := observability.InitTracer(cfg.ServiceName, cfg.JaegerURL)
		if err != nil {
			log.Fatal("failed to initialize tracer", zap.Error(err))
		}
		defer tp.Shutdown(context.Background())
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := postgres.NewDB(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer db.Close()

	repo := postgres.New(db, cfg.MessageStoreTable)
	if err := repo.EnsureSchema(ctx); err != nil {
		log.Fatal("failed to prepare message table", zap.Error(err))
	}

	var msgCache application.Cache
	if cfg.RedisAddr != "" {
		rdb, err := cache.NewClient(ctx, cfg.RedisAddr)
		if err != nil {
			log.Fatal("failed to connect to redis", zap.Error(err))
		}
		defer rdb.Close()
		msgCache = &cache.MessageCache{R: rdb, TTL: cfg.CacheTTL}
	}

	proc := application.NewProcessor(repo, msgCache, cfg.Limits(), cfg.ProcessorConcurrency)

	consumer, err := kafka.New(cfg.KafkaBrokers, cfg.DispatchTopic, cfg.KafkaGroupID, proc)
	if err != nil {
		log.Fatal("failed to create kafka consumer", zap.Error(err))
	}
	consumer.Start(ctx)

	obsSrv := initObservabilityServer(cfg, db)
	go func() {
		log.Info("starting observability server", zap.String("addr", obsSrv.Addr))
		if err := obsSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("observability server error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("shutting down...")

	<-consumer.Done()
	consumer.Close()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := obsSrv.Shutdown(shutdownCtx); err != nil {
		log.Error("error during observability server shutdown", zap.Error(err))
	}
	log.Info("shutdown complete, exiting")
}

func initObservabilityServer(cfg *config.Config, db *sql.DB) *http.Server {
	mux := chi.NewRouter()
	mux.Handle("/metrics", promhttp.Handler())
	mux.Get("/health/live", observability.HealthLiveHandler)
	mux.Get("/health/ready", observability.HealthReadyHandler(db))
	return &http.Server{Addr: cfg.ObsHTTPAddr, Handler: mux}
}
