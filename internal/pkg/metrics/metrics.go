package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	SubmissionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "stepout",
		Name:      "submissions_total",
		Help:      "Signup submissions by outcome",
	}, []string{"outcome"})

	UploadsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "stepout",
		Name:      "uploads_total",
		Help:      "Media uploads by category and result",
	}, []string{"category", "result"})

	UploadDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "stepout",
		Name:      "upload_duration_seconds",
		Help:      "Time spent writing one media file",
		Buckets:   []float64{.1, .25, .5, 1, 2.5, 5, 10, 30, 60},
	}, []string{"category"})

	AdminUpdatesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "stepout",
		Name:      "admin_updates_total",
		Help:      "Admin updates by kind",
	}, []string{"kind"})

	RateLimitedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "stepout",
		Name:      "rate_limited_total",
		Help:      "Requests rejected by the signup rate limiter",
	})

	EventConnections = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "stepout",
		Name:      "admin_event_connections",
		Help:      "Open admin event websocket connections",
	})
)

var registerOnce sync.Once

// Init registers the collectors with the default registry
func Init() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			SubmissionsTotal,
			UploadsTotal,
			UploadDuration,
			AdminUpdatesTotal,
			RateLimitedTotal,
			EventConnections,
		)
	})
}

// Handler returns an http.Handler for Prometheus scraping
func Handler() http.Handler {
	return promhttp.Handler()
}
