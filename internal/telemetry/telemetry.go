package telemetry

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "github.com/xtding233/ttk-backend/internal/telemetry"

func meter() metric.Meter {
	return otel.Meter(instrumentationName)
}

// Metrics holds the service instruments. The zero value records nothing.
type Metrics struct {
	simulations metric.Int64Counter
	duration    metric.Float64Histogram
	reloads     metric.Int64Counter
}

// New creates the instruments on the global meter provider (no-op unless one is installed).
func New() (*Metrics, error) {
	return NewWithMeter(meter())
}

func NewWithMeter(m metric.Meter) (*Metrics, error) {
	var err error
	mt := &Metrics{}

	mt.simulations, err = m.Int64Counter(
		"ttk.simulations",
		metric.WithDescription("Total simulations resolved"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating simulations counter: %w", err)
	}

	mt.duration, err = m.Float64Histogram(
		"ttk.simulation.duration",
		metric.WithDescription("Wall time spent resolving one simulation"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating duration histogram: %w", err)
	}

	mt.reloads, err = m.Int64Counter(
		"ttk.catalog.reloads",
		metric.WithDescription("Catalog reload attempts"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating reloads counter: %w", err)
	}
	return mt, nil
}

// Simulation records one resolved simulation of the given operation.
func (m *Metrics) Simulation(ctx context.Context, op string, elapsed time.Duration) {
	if m == nil || m.simulations == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String("op", op))
	m.simulations.Add(ctx, 1, attrs)
	m.duration.Record(ctx, float64(elapsed)/float64(time.Millisecond), attrs)
}

// Reload records a catalog reload attempt.
func (m *Metrics) Reload(ctx context.Context, err error) {
	if m == nil || m.reloads == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.reloads.Add(ctx, 1, metric.WithAttributes(attribute.String("result", result)))
}
