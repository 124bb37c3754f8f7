// Package httpapi assembles the public HTTP surface.
package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"trainyard/internal/httpx"
	"trainyard/internal/locomotive"
	"trainyard/internal/maintenance"
	"trainyard/internal/report"
	"trainyard/internal/rollingstock"
)

// Services are the domain services exposed over HTTP.
type Services struct {
	Locomotives  locomotive.Service
	RollingStock rollingstock.Service
	Maintenance  maintenance.Service
	Reports      report.Service
}

// Options configures the cross-cutting middleware.
type Options struct {
	Logger         zerolog.Logger
	AllowedOrigins []string
	RateLimit      rate.Limit
	RateBurst      int
	// Registry receives the HTTP metrics and backs /metrics. A fresh registry is used when nil.
	Registry *prometheus.Registry
}

// Router builds the HTTP router with health, metrics and API routes.
func Router(svc Services, opts Options) http.Handler {
	r := chi.NewRouter()

	allowed := opts.AllowedOrigins
	if len(allowed) == 0 {
		allowed = []string{"*"}
	}
	reg := opts.Registry
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	r.Use(httpx.RequestID)
	r.Use(httpx.Logger(opts.Logger))
	r.Use(middleware.Recoverer)
	r.Use(httpx.NewMetrics(reg).Handler)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowed,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", httpx.RequestIDHeader},
		ExposedHeaders: []string{httpx.RequestIDHeader},
		MaxAge:         int((10 * time.Minute).Seconds()),
	}))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))

	r.Route("/api", func(r chi.Router) {
		if opts.RateLimit > 0 {
			r.Use(httpx.RateLimit(opts.RateLimit, opts.RateBurst))
		}
		r.Route("/locomotives", locomotive.NewHandler(svc.Locomotives, svc.Maintenance).Routes)
		r.Route("/rolling-stock", rollingstock.NewHandler(svc.RollingStock, svc.Maintenance).Routes)
		r.Route("/maintenance", maintenance.NewHandler(svc.Maintenance).Routes)
		r.Route("/reports", report.NewHandler(svc.Reports).Routes)
	})

	return r
}
