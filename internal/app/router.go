package app

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/tempizhere/shortlinks/internal/metrics"
	"github.com/tempizhere/shortlinks/internal/middleware"
	"go.uber.org/zap"
)

// ReservedCodes коды, совпадающие со статическими маршрутами первого уровня
var ReservedCodes = []string{"shorten", "metrics"}

// NewRouter собирает маршруты HTTP-сервера.
// Статистика и метрики доступны только из доверенной подсети.
func NewRouter(a *App, subnet *middleware.Subnet, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.LoggingMiddleware(logger))
	r.Use(chimw.Recoverer)
	r.Use(chimw.Compress(5, "text/html", "application/json"))

	r.Get("/", a.HandleIndex)
	r.Post("/shorten", a.HandleShorten)
	r.Get("/ping", a.HandlePing)

	r.Group(func(r chi.Router) {
		r.Use(middleware.TrustedSubnetMiddleware(subnet, logger))
		r.Get("/api/internal/stats", a.HandleStats)
		r.Method(http.MethodGet, "/metrics", metrics.Handler())
	})

	r.Get("/{code}", a.HandleRedirect)
	r.NotFound(a.HandleNotFound)
	r.MethodNotAllowed(a.HandleNotFound)
	return r
}
