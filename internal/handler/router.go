package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/SARVESHVARADKAR123/postbox/internal/config"
	"github.com/SARVESHVARADKAR123/postbox/internal/middleware"
	"github.com/SARVESHVARADKAR123/postbox/internal/observability"
)

func NewRouter(msgH *MessageHandler, cfg *config.Config) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(observability.MetricsMiddleware(cfg.ServiceName))
	r.Use(middleware.Recovery())
	r.Use(middleware.RateLimit(cfg.RateLimitRequests, cfg.RateLimitWindow))
	r.Use(middleware.Timeout(cfg.RequestTimeout))

	r.Get("/", msgH.ListMessages)
	r.Get("/*", msgH.GetMessage)
	r.Post("/", msgH.CreateMessage)
	r.Post("/*", msgH.CreateMessage)
	r.Delete("/", msgH.DeleteMessage)
	r.Delete("/*", msgH.DeleteMessage)

	r.MethodNotAllowed(msgH.Unsupported)
	r.NotFound(msgH.Unsupported)

	return otelhttp.NewHandler(r, cfg.ServiceName)
}
