// Package metrics collects and exposes Prometheus metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsCollector is the collection interface used by the handler and
// service layers.
type MetricsCollector interface {
	RecordHTTPStatus(statusCode int)
	RecordRequestLatency(duration time.Duration)
	RecordTextSave(changed bool)
	RecordUpload(success bool)
	RecordReconcileStep(kind string, success bool)
}

// Collector is the Prometheus-backed implementation.
type Collector struct {
	httpStatus     *prometheus.CounterVec
	requestLatency prometheus.Histogram
	textSaves      *prometheus.CounterVec
	uploads        *prometheus.CounterVec
	reconcileSteps *prometheus.CounterVec
}

// NewCollector creates a Collector and registers its metrics.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "lamaitrise_http_status_total",
			Help: "Responses by HTTP status code.",
		}, []string{"status_code"}),
		requestLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "lamaitrise_request_latency_seconds",
			Help:    "Request handling latency in seconds.",
			Buckets: prometheus.DefBuckets,
		}),
		textSaves: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "lamaitrise_text_saves_total",
			Help: "Inline text saves, split by whether anything changed.",
		}, []string{"changed"}),
		uploads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "lamaitrise_uploads_total",
			Help: "Media uploads by outcome.",
		}, []string{"outcome"}),
		reconcileSteps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "lamaitrise_reconcile_steps_total",
			Help: "Image reconciliation steps by kind and outcome.",
		}, []string{"kind", "outcome"}),
	}

	reg.MustRegister(
		c.httpStatus,
		c.requestLatency,
		c.textSaves,
		c.uploads,
		c.reconcileSteps,
	)

	return c
}

// RecordHTTPStatus counts a response by status code.
func (c *Collector) RecordHTTPStatus(statusCode int) {
	c.httpStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

// RecordRequestLatency observes one request's handling time.
func (c *Collector) RecordRequestLatency(duration time.Duration) {
	c.requestLatency.Observe(duration.Seconds())
}

// RecordTextSave counts an inline text save.
func (c *Collector) RecordTextSave(changed bool) {
	c.textSaves.WithLabelValues(strconv.FormatBool(changed)).Inc()
}

// RecordUpload counts a media upload attempt.
func (c *Collector) RecordUpload(success bool) {
	c.uploads.WithLabelValues(outcome(success)).Inc()
}

// RecordReconcileStep counts one image reconciliation step.
func (c *Collector) RecordReconcileStep(kind string, success bool) {
	c.reconcileSteps.WithLabelValues(kind, outcome(success)).Inc()
}

func outcome(success bool) string {
	if success {
		return "success"
	}
	return "failure"
}

// Handler returns the Prometheus scrape handler.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
