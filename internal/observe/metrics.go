// Package observe provides application-wide observability primitives for
// shortsmith: OpenTelemetry metrics, render tracing, and structured logging
// helpers.
//
// Metrics are recorded through the OpenTelemetry Metrics API. A Prometheus
// exporter bridge is available via [InitProvider] so that metrics can be
// scraped via a standard /metrics endpoint in batch-server deployments. A
// package-level default [Metrics] instance ([DefaultMetrics]) is provided
// for convenience; tests should use [NewMetrics] with a custom
// [metric.MeterProvider] to avoid cross-test pollution.
package observe

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// meterName is the instrumentation scope name used for all shortsmith metrics.
const meterName = "github.com/MrWong99/shortsmith"

// Metrics holds all OpenTelemetry metric instruments for the engine.
// All fields are safe for concurrent use — the underlying OTel types handle
// their own synchronisation.
type Metrics struct {
	// --- Latency histograms per pipeline stage ---

	// SynthesisDuration tracks per-segment TTS synthesis latency. Use with
	// attributes: attribute.String("kind", ...), attribute.String("provider", ...)
	SynthesisDuration metric.Float64Histogram

	// MixDuration tracks composite track build latency.
	MixDuration metric.Float64Histogram

	// RenderDuration tracks end-to-end render latency.
	RenderDuration metric.Float64Histogram

	// --- Counters ---

	// Renders counts completed renders. Use with attribute:
	//   attribute.String("status", "ok"|"degraded"|"error")
	Renders metric.Int64Counter

	// Warnings counts recoverable conditions surfaced during a render. Use
	// with attribute: attribute.String("code", ...)
	Warnings metric.Int64Counter

	// ProviderErrors counts TTS provider failures (before fallback). Use
	// with attribute: attribute.String("provider", ...)
	ProviderErrors metric.Int64Counter
}

// latencyBuckets defines histogram bucket boundaries (in seconds) sized for
// batch synthesis and mixing operations.
var latencyBuckets = []float64{
	0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60,
}

// NewMetrics creates a fully initialised [Metrics] struct using the given
// [metric.MeterProvider]. Returns an error if any instrument creation fails.
func NewMetrics(mp metric.MeterProvider) (*Metrics, error) {
	m := mp.Meter(meterName)
	var err error
	met := &Metrics{}

	// Histograms.
	if met.SynthesisDuration, err = m.Float64Histogram("shortsmith.synthesis.duration",
		metric.WithDescription("Latency of per-segment TTS synthesis."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	); err != nil {
		return nil, err
	}
	if met.MixDuration, err = m.Float64Histogram("shortsmith.mix.duration",
		metric.WithDescription("Latency of composite track building."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	); err != nil {
		return nil, err
	}
	if met.RenderDuration, err = m.Float64Histogram("shortsmith.render.duration",
		metric.WithDescription("End-to-end render latency."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	); err != nil {
		return nil, err
	}

	// Counters.
	if met.Renders, err = m.Int64Counter("shortsmith.renders",
		metric.WithDescription("Total renders by terminal status."),
	); err != nil {
		return nil, err
	}
	if met.Warnings, err = m.Int64Counter("shortsmith.warnings",
		metric.WithDescription("Total recoverable warnings by code."),
	); err != nil {
		return nil, err
	}
	if met.ProviderErrors, err = m.Int64Counter("shortsmith.provider.errors",
		metric.WithDescription("Total TTS provider failures by provider."),
	); err != nil {
		return nil, err
	}

	return met, nil
}

// defaultMetrics is the lazily-initialised package-level Metrics instance.
var (
	defaultMetrics     *Metrics
	defaultMetricsOnce sync.Once
)

// DefaultMetrics returns the package-level [Metrics] instance, creating it on
// first call using [otel.GetMeterProvider]. Subsequent calls return the same
// pointer. Panics if instrument creation fails (should not happen with the
// global provider).
func DefaultMetrics() *Metrics {
	defaultMetricsOnce.Do(func() {
		var err error
		defaultMetrics, err = NewMetrics(otel.GetMeterProvider())
		if err != nil {
			panic("observe: failed to create default metrics: " + err.Error())
		}
	})
	return defaultMetrics
}

// RecordSynthesis records a synthesis latency sample with the standard
// attribute set.
func (m *Metrics) RecordSynthesis(ctx context.Context, kind, provider string, seconds float64) {
	m.SynthesisDuration.Record(ctx, seconds,
		metric.WithAttributes(
			attribute.String("kind", kind),
			attribute.String("provider", provider),
		),
	)
}

// RecordRender records a render counter increment by terminal status.
func (m *Metrics) RecordRender(ctx context.Context, status string) {
	m.Renders.Add(ctx, 1,
		metric.WithAttributes(attribute.String("status", status)),
	)
}

// RecordWarning records a warning counter increment by warning code.
func (m *Metrics) RecordWarning(ctx context.Context, code string) {
	m.Warnings.Add(ctx, 1,
		metric.WithAttributes(attribute.String("code", code)),
	)
}

// RecordProviderError records a TTS provider failure.
func (m *Metrics) RecordProviderError(ctx context.Context, provider string) {
	m.ProviderErrors.Add(ctx, 1,
		metric.WithAttributes(attribute.String("provider", provider)),
	)
}
