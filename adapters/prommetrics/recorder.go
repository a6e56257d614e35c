package prommetrics

import (
	"context"
	"strings"

	"github.com/goliatone/go-connector/core"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "connector"

var operationLabels = []string{"operation", "outcome", "type_tag", "rejection_reason"}

// Recorder implements core.MetricsRecorder on Prometheus collectors.
// Observer metrics named "connector.<operation>.total" and
// "connector.<operation>.duration_ms" land on the operation collectors;
// anything else is recorded by name on the generic collectors.
type Recorder struct {
	operations        *prometheus.CounterVec
	operationDuration *prometheus.HistogramVec
	counters          *prometheus.CounterVec
	histograms        *prometheus.HistogramVec
}

// New registers the collectors on registerer. A nil registerer uses the
// default Prometheus registry.
func New(registerer prometheus.Registerer) *Recorder {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}
	factory := promauto.With(registerer)
	return &Recorder{
		operations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operations_total",
			Help:      "Total number of connector operations by outcome",
		}, operationLabels),
		operationDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "operation_duration_ms",
			Help:      "Duration of connector operations in milliseconds",
			Buckets:   []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500},
		}, operationLabels),
		counters: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_total",
			Help:      "Total number of named connector events",
		}, []string{"name"}),
		histograms: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "observations",
			Help:      "Named connector observations",
		}, []string{"name"}),
	}
}

func (r *Recorder) IncCounter(_ context.Context, name string, value int64, tags map[string]string) {
	if r == nil || value < 0 {
		return
	}
	if operation, ok := operationMetric(name, ".total"); ok {
		r.operations.With(operationLabelValues(operation, tags)).Add(float64(value))
		return
	}
	r.counters.WithLabelValues(strings.TrimSpace(name)).Add(float64(value))
}

func (r *Recorder) ObserveHistogram(_ context.Context, name string, value float64, tags map[string]string) {
	if r == nil {
		return
	}
	if operation, ok := operationMetric(name, ".duration_ms"); ok {
		r.operationDuration.With(operationLabelValues(operation, tags)).Observe(value)
		return
	}
	r.histograms.WithLabelValues(strings.TrimSpace(name)).Observe(value)
}

func operationMetric(name string, suffix string) (string, bool) {
	rest, ok := strings.CutPrefix(strings.TrimSpace(name), namespace+".")
	if !ok {
		return "", false
	}
	operation, ok := strings.CutSuffix(rest, suffix)
	if !ok || operation == "" || strings.Contains(operation, ".") {
		return "", false
	}
	return operation, true
}

func operationLabelValues(operation string, tags map[string]string) prometheus.Labels {
	labels := prometheus.Labels{}
	for _, key := range operationLabels {
		labels[key] = strings.TrimSpace(tags[key])
	}
	if labels["operation"] == "" {
		labels["operation"] = operation
	}
	return labels
}

var _ core.MetricsRecorder = (*Recorder)(nil)
