package observability

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// OTelObserver bridges events into OpenTelemetry: every event becomes a
// zero-duration span carrying the event data as attributes, and a counter
// tracks event volume by type and level. Wire it alongside a SlogObserver via
// NewMultiObserver when both logs and traces are wanted.
type OTelObserver struct {
	tracer trace.Tracer
	events metric.Int64Counter
}

// NewOTelObserver creates an OTelObserver emitting through the given tracer
// and meter.
func NewOTelObserver(tracer trace.Tracer, meter metric.Meter) (*OTelObserver, error) {
	events, err := meter.Int64Counter("historian.events",
		metric.WithDescription("Count of history manager events by type and level"))
	if err != nil {
		return nil, fmt.Errorf("create event counter: %w", err)
	}

	return &OTelObserver{tracer: tracer, events: events}, nil
}

func (o *OTelObserver) OnEvent(ctx context.Context, event Event) {
	attrs := make([]attribute.KeyValue, 0, len(event.Data)+3)
	attrs = append(attrs,
		attribute.String("event.type", string(event.Type)),
		attribute.String("event.level", event.Level.String()),
		attribute.String("event.source", event.Source),
	)
	for k, v := range event.Data {
		attrs = append(attrs, anyAttribute(k, v))
	}

	_, span := o.tracer.Start(ctx, string(event.Type),
		trace.WithTimestamp(event.Timestamp),
		trace.WithAttributes(attrs...))
	span.End()

	o.events.Add(ctx, 1, metric.WithAttributes(
		attribute.String("event.type", string(event.Type)),
		attribute.String("event.level", event.Level.String()),
	))
}

func anyAttribute(key string, value any) attribute.KeyValue {
	switch v := value.(type) {
	case string:
		return attribute.String(key, v)
	case bool:
		return attribute.Bool(key, v)
	case int:
		return attribute.Int(key, v)
	case int64:
		return attribute.Int64(key, v)
	case float64:
		return attribute.Float64(key, v)
	default:
		return attribute.String(key, fmt.Sprint(v))
	}
}
