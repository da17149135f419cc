// Package metrics содержит счётчики Prometheus сервиса коротких ссылок
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Причины отказа в создании ссылки
const (
	ReasonInvalidURL = "invalid_url"
	ReasonProhibited = "prohibited"
	ReasonExhausted  = "code_space_exhausted"
)

var (
	LinksCreated = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "shortlinks_links_created_total",
		Help: "Short links created.",
	})
	CreateRejected = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "shortlinks_create_rejected_total",
		Help: "Rejected create requests by reason.",
	}, []string{"reason"})
	Redirects = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "shortlinks_redirects_total",
		Help: "Resolved short codes.",
	})
	RedirectMisses = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "shortlinks_redirect_misses_total",
		Help: "Lookups of unknown short codes.",
	})
	LinksExpired = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "shortlinks_links_expired_total",
		Help: "Links removed by the expiry sweeper.",
	})
	Saves = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "shortlinks_saves_total",
		Help: "Completed snapshot writes.",
	})
	SaveFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "shortlinks_save_failures_total",
		Help: "Failed snapshot writes.",
	})
	Links = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "shortlinks_links",
		Help: "Links currently held by the store.",
	})
)

func init() {
	prometheus.MustRegister(LinksCreated, CreateRejected, Redirects, RedirectMisses, LinksExpired, Saves, SaveFailures, Links)
}

// Handler отдаёт метрики в формате Prometheus
func Handler() http.Handler {
	return promhttp.Handler()
}
