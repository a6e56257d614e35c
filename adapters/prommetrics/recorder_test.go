package prommetrics

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/goliatone/go-connector/core"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecorderRoutesObserverMetrics(t *testing.T) {
	recorder := New(prometheus.NewRegistry())
	observer := core.NewObserver(nil, recorder)

	observer.ObserveResponse(context.Background(), time.Now(), "dispatch", &core.ErrorResponse{
		Reason: core.RejectionNotFound,
	}, nil, map[string]any{"type_tag": core.TypeDescriptionRequestMessage})
	observer.ObserveResponse(context.Background(), time.Now(), "dispatch", nil, errors.New("boom"), nil)

	rejected := recorder.operations.WithLabelValues("dispatch", core.OutcomeRejected,
		core.TypeDescriptionRequestMessage, string(core.RejectionNotFound))
	if got := testutil.ToFloat64(rejected); got != 1 {
		t.Fatalf("expected one rejected dispatch, got %v", got)
	}
	fatal := recorder.operations.WithLabelValues("dispatch", core.OutcomeFatal, "", "")
	if got := testutil.ToFloat64(fatal); got != 1 {
		t.Fatalf("expected one fatal dispatch, got %v", got)
	}
	if got := testutil.CollectAndCount(recorder.operationDuration); got != 2 {
		t.Fatalf("expected two duration series, got %d", got)
	}
}

func TestRecorderGenericMetrics(t *testing.T) {
	recorder := New(prometheus.NewRegistry())
	ctx := context.Background()

	recorder.IncCounter(ctx, "cache.miss", 2, nil)
	recorder.IncCounter(ctx, "cache.miss", 1, map[string]string{"ignored": "x"})
	recorder.IncCounter(ctx, "cache.miss", -1, nil)
	recorder.ObserveHistogram(ctx, "catalog.size", 3, nil)

	if got := testutil.ToFloat64(recorder.counters.WithLabelValues("cache.miss")); got != 3 {
		t.Fatalf("expected cache.miss=3, got %v", got)
	}
	if got := testutil.CollectAndCount(recorder.histograms); got != 1 {
		t.Fatalf("expected one generic histogram series, got %d", got)
	}
	if got := testutil.CollectAndCount(recorder.operations); got != 0 {
		t.Fatalf("expected no operation series, got %d", got)
	}
}

func TestOperationMetricName(t *testing.T) {
	cases := map[string]string{
		"connector.describe.total": "describe",
		"connector.dispatch.total": "dispatch",
	}
	for name, want := range cases {
		got, ok := operationMetric(name, ".total")
		if !ok || got != want {
			t.Fatalf("%s: expected %q, got %q (%v)", name, want, got, ok)
		}
	}
	for _, name := range []string{"cache.miss", "connector..total", "connector.a.b.total", "connector.describe.duration_ms"} {
		if _, ok := operationMetric(name, ".total"); ok {
			t.Fatalf("%s: expected generic metric", name)
		}
	}
}

func TestNilRecorderIsSafe(t *testing.T) {
	var recorder *Recorder
	recorder.IncCounter(context.Background(), "x", 1, nil)
	recorder.ObserveHistogram(context.Background(), "x", 1, nil)
}
