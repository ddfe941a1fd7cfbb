package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
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
	"github.com/SARVESHVARADKAR123/postbox/internal/handler"
	"github.com/SARVESHVARADKAR123/postbox/internal/kafka"
	"github.com/SARVESHVARADKAR123/postbox/internal/observability"
	"github.com/SARVESHVARADKAR123/postbox/internal/repository/postgres"
)

func main() {
	_ = godotenv.Load(".env")
	cfg := config.LoadIngress()

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

	producer := kafka.NewProducer(cfg.KafkaBrokers, cfg.DispatchTopic)
	defer producer.Close()

	ingress := application.NewIngress(repo, producer, initCache(ctx, cfg, log), cfg.Limits())

	apiSrv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           handler.NewRouter(handler.NewMessageHandler(ingress), cfg),
		ReadHeaderTimeout: 5 * time.Second,
	}
	obsSrv := initObservabilityServer(cfg, db)

	serve(apiSrv, "api", log)
	serve(obsSrv, "observability", log)

	<-ctx.Done()
	log.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := apiSrv.Shutdown(shutdownCtx); err != nil {
		log.Error("error during api server shutdown", zap.Error(err))
	}
	if err := obsSrv.Shutdown(shutdownCtx); err != nil {
		log.Error("error during observability server shutdown", zap.Error(err))
	}
	log.Info("shutdown complete, exiting")
}

// initCache returns nil when no Redis address is configured.
func initCache(ctx context.Context, cfg *config.Config, log *zap.Logger) application.Cache {
	if cfg.RedisAddr == "" {
		log.Info("message cache disabled")
		return nil
	}
	rdb, err := cache.NewClient(ctx, cfg.RedisAddr)
	if err != nil {
		log.Fatal("failed to connect to redis", zap.Error(err))
	}
	return &cache.MessageCache{R: rdb, TTL: cfg.CacheTTL}
}

func initObservabilityServer(cfg *config.Config, db *sql.DB) *http.Server {
	mux := chi.NewRouter()
	mux.Handle("/metrics", promhttp.Handler())
	mux.Get("/health/live", observability.HealthLiveHandler)
	mux.Get("/health/ready", observability.HealthReadyHandler(db))
	return &http.Server{Addr: cfg.ObsHTTPAddr, Handler: mux}
}

func serve(srv *http.Server, name string, log *zap.Logger) {
	go func() {
		log.Info("starting "+name+" server", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error(name+" server error", zap.Error(err))
			os.Exit(1)
		}
	}()
}
