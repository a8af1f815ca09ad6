package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// RequestsTotal counts chat completion requests by mode (sync/stream)
	// and outcome (ok/rejected/aborted).
	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dummy_openai_requests_total",
			Help: "Total number of chat completion requests",
		},
		[]string{"mode", "status"},
	)

	// TokensEmitted counts stub tokens actually delivered, by mode.
	TokensEmitted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dummy_openai_tokens_emitted_total",
			Help: "Total number of generated tokens emitted",
		},
		[]string{"mode"},
	)

	// RequestLatency tracks end-to-end latency of the aggregated path, which
	// includes time spent waiting on the rate limiter.
	RequestLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "dummy_openai_request_duration_seconds",
			Help:    "Request latency distributions",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"mode"},
	)
)

// Init registers all collectors. Call once at startup.
func Init() {
	prometheus.MustRegister(RequestsTotal)
	prometheus.MustRegister(TokensEmitted)
	prometheus.MustRegister(RequestLatency)
}

// RegisterAvailableGauge exposes the limiter's current token count as a
// gauge sampled at scrape time.
func RegisterAvailableGauge(available func() int) {
	prometheus.MustRegister(prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "dummy_openai_tokens_available",
			Help: "Tokens currently available in the shared bucket",
		},
		func() float64 { return float64(available()) },
	))
}
