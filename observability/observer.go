// Package observability delivers structured events from the history manager
// to pluggable sinks. The manager itself never logs; it emits events and the
// configured Observer decides whether they become slog lines, OTel spans, or
// nothing at all.
package observability

import (
	"context"
	"log/slog"
	"time"
)

// Level is the severity of an event. Values mirror log/slog levels so slog
// emission needs no translation; the OTel observer derives severity text from
// the same values.
type Level int

const (
	LevelDebug Level = Level(slog.LevelDebug)
	LevelInfo  Level = Level(slog.LevelInfo)
	LevelWarn  Level = Level(slog.LevelWarn)
	LevelError Level = Level(slog.LevelError)
)

// String returns the slog severity text for the level.
func (l Level) String() string {
	return slog.Level(l).String()
}

// SlogLevel converts l for use with a slog.Logger.
func (l Level) SlogLevel() slog.Level {
	return slog.Level(l)
}

// EventType names the kind of event, dotted by subsystem
// (e.g. "manager.submit.start", "manager.trim").
type EventType string

// Event is one observability record. Data carries event-specific attributes;
// Source names the emitting operation.
type Event struct {
	Type      EventType
	Level     Level
	Timestamp time.Time
	Source    string
	Data      map[string]any
}

// Observer receives events for logging, tracing, or metrics. Implementations
// must be safe for concurrent use and must not block the caller longer than a
// log write would.
type Observer interface {
	OnEvent(ctx context.Context, event Event)
}
