package observability

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// Metrics holds all application metrics implementing the golden 4 signals:
// - Latency: How long submitted work takes to reach a terminal outcome
// - Traffic: Submission throughput
// - Errors: Rate of non-success outcomes (outcome attribute)
// - Saturation: Concurrently blocked completion/readiness watches
type Metrics struct {
	meter metric.Meter

	SubmitsTotal       metric.Int64Counter
	WatchDuration      metric.Float64Histogram
	WatchOutcomesTotal metric.Int64Counter
	WatchesActive      metric.Int64UpDownCounter
	LogLinesTotal      metric.Int64Counter
}

// NewMetrics creates and registers all metrics with a Prometheus exporter.
func NewMetrics(ctx context.Context) (*Metrics, http.Handler, error) {
	exporter, err := prometheus.New()
	if err != nil {
		return nil, nil, err
	}

	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(exporter))
	otel.SetMeterProvider(provider)

	meter := provider.Meter("kuberun")
	m := &Metrics{meter: meter}

	m.SubmitsTotal, err = meter.Int64Counter(
		"submits_total",
		metric.WithDescription("Total number of jobs and workloads submitted"),
	)
	if err != nil {
		return nil, nil, err
	}

	m.WatchDuration, err = meter.Float64Histogram(
		"watch_duration_seconds",
		metric.WithDescription("Time from watch start to terminal outcome in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.5, 1, 2.5, 5, 10, 30, 60, 120, 300, 600),
	)
	if err != nil {
		return nil, nil, err
	}

	m.WatchOutcomesTotal, err = meter.Int64Counter(
		"watch_outcomes_total",
		metric.WithDescription("Terminal outcomes by kind (succeeded, failed, timed_out, watch_closed)"),
	)
	if err != nil {
		return nil, nil, err
	}

	m.WatchesActive, err = meter.Int64UpDownCounter(
		"watches_active",
		metric.WithDescription("Number of watches currently blocked awaiting resolution (saturation)"),
	)
	if err != nil {
		return nil, nil, err
	}

	m.LogLinesTotal, err = meter.Int64Counter(
		"log_lines_total",
		metric.WithDescription("Total log lines relayed from principal containers"),
	)
	if err != nil {
		return nil, nil, err
	}

	return m, promhttp.Handler(), nil
}

// RecordSubmit records a job or workload submission.
func (m *Metrics) RecordSubmit(ctx context.Context, kind, image string) {
	m.SubmitsTotal.Add(ctx, 1, metric.WithAttributes(kindAttr(kind), imageAttr(image)))
}

// RecordWatchStarted records a watch entering its blocked phase.
func (m *Metrics) RecordWatchStarted(ctx context.Context) {
	m.WatchesActive.Add(ctx, 1)
}

// RecordWatchResolved records a watch resolving to a terminal outcome. Kind
// separates completion watches ("job") from readiness watches ("workload"),
// whose outcome vocabularies overlap.
func (m *Metrics) RecordWatchResolved(ctx context.Context, kind, outcome string, durationSeconds float64) {
	attrs := metric.WithAttributes(kindAttr(kind), outcomeAttr(outcome))
	m.WatchesActive.Add(ctx, -1)
	m.WatchOutcomesTotal.Add(ctx, 1, attrs)
	m.WatchDuration.Record(ctx, durationSeconds, attrs)
}

// RecordLogLines records lines relayed by the log extraction step.
func (m *Metrics) RecordLogLines(ctx context.Context, count int) {
	m.LogLinesTotal.Add(ctx, int64(count))
}
