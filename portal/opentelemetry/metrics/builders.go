package metrics

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

var (
	// ErrNilCounter is returned when a counter builder has no instrument.
	ErrNilCounter = errors.New("counter instrument is nil")
	// ErrNilHistogram is returned when a histogram builder has no instrument.
	ErrNilHistogram = errors.New("histogram instrument is nil")
)

// Attribute keys of the portal metrics.
const (
	AttrFlow      = attribute.Key("flow")
	AttrOutcome   = attribute.Key("outcome")
	AttrOperation = attribute.Key("operation")
	AttrStatus    = attribute.Key("status")
)

// labels is an immutable attribute list; every builder method copies it.
type labels []attribute.KeyValue

func (l labels) with(kv ...attribute.KeyValue) labels {
	out := make(labels, 0, len(l)+len(kv))

	return append(append(out, l...), kv...)
}

// CounterBuilder adds to one counter under a fixed label set.
type CounterBuilder struct {
	counter metric.Int64Counter
	labels  labels
}

// WithAttributes returns a copy of the builder with attrs appended.
func (c *CounterBuilder) WithAttributes(attrs ...attribute.KeyValue) *CounterBuilder {
	return &CounterBuilder{counter: c.counter, labels: c.labels.with(attrs...)}
}

// ForFlow labels the count with a wizard flow.
func (c *CounterBuilder) ForFlow(flow string) *CounterBuilder {
	return c.WithAttributes(AttrFlow.String(flow))
}

// WithOutcome labels the count with a wizard outcome.
func (c *CounterBuilder) WithOutcome(outcome string) *CounterBuilder {
	return c.WithAttributes(AttrOutcome.String(outcome))
}

// AddOne increments the counter by one.
func (c *CounterBuilder) AddOne(ctx context.Context) error {
	if c.counter == nil {
		return ErrNilCounter
	}

	c.counter.Add(ctx, 1, metric.WithAttributes(c.labels...))

	return nil
}

// HistogramBuilder records on one histogram under a fixed label set.
type HistogramBuilder struct {
	histogram metric.Float64Histogram
	labels    labels
}

// ForCall labels the observation with a backend operation and its HTTP
// status. Status 0 marks a call that got no response.
func (h *HistogramBuilder) ForCall(operation string, status int) *HistogramBuilder {
	return &HistogramBuilder{
		histogram: h.histogram,
		labels:    h.labels.with(AttrOperation.String(operation), AttrStatus.Int(status)),
	}
}

// Record records a single observation.
func (h *HistogramBuilder) Record(ctx context.Context, value float64) error {
	if h.histogram == nil {
		return ErrNilHistogram
	}

	h.histogram.Record(ctx, value, metric.WithAttributes(h.labels...))

	return nil
}
