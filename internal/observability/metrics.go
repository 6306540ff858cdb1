package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	registry *prometheus.Registry

	// OpenWeatherMap API call rate by status class. Watch for: error vs success ratio.
	WeatherAPICallsTotal *prometheus.CounterVec

	// OpenWeatherMap latency per call.
	WeatherAPIDuration *prometheus.HistogramVec

	// Weather failures by category (see client.ErrorCategory).
	WeatherAPIErrorsTotal *prometheus.CounterVec

	// Language model calls by operation (generate, call_function) and status.
	LLMCallsTotal *prometheus.CounterVec

	// Language model latency. Watch for: p95 growth, it dominates query latency.
	LLMDuration *prometheus.HistogramVec

	// Queries processed by outcome.
	QueriesTotal *prometheus.CounterVec

	// End-to-end query latency (extract + fetch + compose).
	QueryDuration prometheus.Histogram

	// Requests served by the ops server (/metrics, /health).
	HTTPRequestsTotal *prometheus.CounterVec

	// Ops server latency per route.
	HTTPRequestDuration *prometheus.HistogramVec
)

// Query outcomes.
const (
	OutcomeAnswered             = "answered"
	OutcomeAnsweredWeatherError = "answered_with_weather_error"
	OutcomeFailed               = "failed"
)

func init() {
	registry = prometheus.NewRegistry()

	registry.MustRegister(
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewGoCollector(),
	)

	WeatherAPICallsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "weatherApiCallsTotal",
			Help: "Total number of OpenWeatherMap API calls",
		},
		[]string{"status"},
	)
	WeatherAPIDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "weatherApiDurationSeconds",
			Help:    "OpenWeatherMap API latency in seconds (per request)",
			Buckets: []float64{.1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"status"},
	)
	WeatherAPIErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "weatherApiErrorsTotal",
			Help: "Weather lookups that produced the error variant, by category",
		},
		[]string{"category"},
	)
	LLMCallsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "llmCallsTotal",
			Help: "Total number of language model calls",
		},
		[]string{"operation", "status"},
	)
	LLMDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "llmDurationSeconds",
			Help:    "Language model latency in seconds (per call)",
			Buckets: []float64{.25, .5, 1, 2, 4, 8, 16, 32},
		},
		[]string{"operation"},
	)
	QueriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "weatherQueriesTotal",
			Help: "Total number of weather queries by outcome",
		},
		[]string{"outcome"},
	)
	QueryDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "weatherQueryDurationSeconds",
			Help:    "End-to-end query latency in seconds",
			Buckets: []float64{.5, 1, 2, 4, 8, 16, 32, 64},
		},
	)

	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "httpRequestsTotal",
			Help: "Total number of ops server requests",
		},
		[]string{"method", "route", "statusCode"},
	)
	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "httpRequestDurationSeconds",
			Help:    "Ops server request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	registry.MustRegister(
		WeatherAPICallsTotal, WeatherAPIDuration, WeatherAPIErrorsTotal,
		LLMCallsTotal, LLMDuration,
		QueriesTotal, QueryDuration,
		HTTPRequestsTotal, HTTPRequestDuration,
	)
}

// RecordQuery records one processed query.
func RecordQuery(outcome string, d time.Duration) {
	QueriesTotal.WithLabelValues(outcome).Inc()
	QueryDuration.Observe(d.Seconds())
}

// StatusLabel buckets an HTTP status code for metric labels.
func StatusLabel(statusCode int) string {
	if statusCode >= 200 && statusCode < 300 {
		return "success"
	}
	if statusCode == 429 {
		return "rate_limited"
	}
	if statusCode >= 400 && statusCode < 500 {
		return "client_error"
	}
	if statusCode >= 500 {
		return "server_error"
	}
	return "error"
}

// MetricsHandler returns an http.Handler that serves application and runtime metrics.
func MetricsHandler() http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}
