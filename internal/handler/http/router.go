package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dylanS0811/product-review-platform/pkg/health"
	"github.com/dylanS0811/product-review-platform/pkg/middleware"
)

// RouterConfig carries the cross-cutting settings the router needs.
type RouterConfig struct {
	ServiceName        string
	Environment        string
	CORSAllowedOrigins []string
	Logger             *slog.Logger
}

// NewRouter assembles the HTTP routing tree with the standard middleware
// chain: panic recovery, request logging, tracing, CORS, and metrics.
func NewRouter(cfg RouterConfig, products *ProductHandler, reviews *ReviewHandler, healthHandler *health.Handler) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.RequestLogging(cfg.Logger))
	r.Use(middleware.Tracing(cfg.ServiceName))
	r.Use(middleware.CORS(middleware.CORSConfig{
		AllowedOrigins: cfg.CORSAllowedOrigins,
		Environment:    cfg.Environment,
	}))
	r.Use(middleware.PrometheusMetrics(cfg.ServiceName))
	r.Use(ContentTypeJSON)

	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/products", func(r chi.Router) {
		r.Get("/", products.List)
		r.Route("/{productId}", func(r chi.Router) {
			r.Get("/", products.Get)
			r.Route("/reviews", func(r chi.Router) {
				r.Get("/", reviews.List)
				r.Post("/", reviews.Create)
				r.Put("/{reviewId}", reviews.Update)
				r.Delete("/{reviewId}", reviews.Delete)
			})
		})
	})

	return r
}
