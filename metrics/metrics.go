// Package metrics exposes Prometheus instrumentation for the tracking API.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "intent_tracker_http_requests_total",
		Help: "Total number of HTTP requests by method, route and status",
	}, []string{"method", "path", "status"})

	httpDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "intent_tracker_http_request_duration_seconds",
		Help:    "HTTP request latency in seconds by method and route",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path"})

	eventsIngested = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "intent_tracker_events_ingested_total",
		Help: "Total number of behavioral events accepted by type",
	}, []string{"type"})

	predictions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "intent_tracker_predictions_total",
		Help: "Total number of predictions served by primary intent",
	}, []string{"intent"})

	predictionDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "intent_tracker_prediction_duration_seconds",
		Help:    "Intent scoring latency in seconds, including persistence",
		Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2.5},
	})

	cacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "intent_tracker_prediction_cache_hits_total",
		Help: "Total number of predictions answered from the cache",
	})

	cacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "intent_tracker_prediction_cache_misses_total",
		Help: "Total number of predictions computed on a cache miss",
	})
)

// ObserveRequest records one completed HTTP request. The path label is the
// registered route pattern, not the raw URL, to keep cardinality bounded.
func ObserveRequest(method, pattern string, status int, duration time.Duration) {
	httpRequests.WithLabelValues(method, pattern, strconv.Itoa(status)).Inc()
	httpDuration.WithLabelValues(method, pattern).Observe(duration.Seconds())
}

// RecordEvent counts one accepted behavioral event.
func RecordEvent(eventType string) {
	eventsIngested.WithLabelValues(eventType).Inc()
}

// RecordPrediction counts one served prediction and its latency.
func RecordPrediction(intent string, duration time.Duration) {
	predictions.WithLabelValues(intent).Inc()
	predictionDuration.Observe(duration.Seconds())
}

// RecordCacheHit counts a prediction answered without rescoring.
func RecordCacheHit() { cacheHits.Inc() }

// RecordCacheMiss counts a prediction that had to be computed.
func RecordCacheMiss() { cacheMisses.Inc() }

// Handler serves the Prometheus scrape endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
