package observability

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Вызовы удалённого банковского API по action
	BankAPICalls = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bank_api_calls_total",
			Help: "Total number of remote bank API calls",
		},
		[]string{"action", "status"},
	)

	BankAPIDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "bank_api_duration_seconds",
			Help:    "Duration of remote bank API calls in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"action"},
	)

	// Счётчик вызовов методов репозитория
	RepositoryCalls = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "repository_calls_total",
			Help: "Total number of repository method calls",
		},
		[]string{"method", "status"},
	)

	RepositoryDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "repository_duration_seconds",
			Help:    "Duration of repository method calls in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method"},
	)

	StaleViewResults = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "view_stale_results_total",
			Help: "Fetch results dropped because a newer refresh had started",
		},
		[]string{"view"},
	)
)

// InitMetrics registers the collectors and serves them on addr when addr is
// not empty.
func InitMetrics(addr string) {
	prometheus.MustRegister(BankAPICalls, BankAPIDuration, RepositoryCalls, RepositoryDuration, StaleViewResults)
	if addr == "" {
		return
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	go func() {
		if err := http.ListenAndServe(addr, mux); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("metrics server failed", "addr", addr, "error", err)
		}
	}()
}
