package service

import (
	"context"
	"io"
	"log/slog"
	"maps"
	"slices"
	"time"
)

// UseCaseEvent describes one finished service call.
type UseCaseEvent struct {
	Name      string
	StartedAt time.Time
	Duration  time.Duration
	Err       error
	// Fields carries use-case counters such as placed or consumed.
	Fields map[string]any
}

// Success reports whether the call returned without error.
func (e UseCaseEvent) Success() bool { return e.Err == nil }

// Degraded reports a successful call that still left work undone, such as a
// schedule run with overflow.
func (e UseCaseEvent) Degraded() bool {
	n, ok := e.Fields["overflow"].(int)
	return e.Err == nil && ok && n > 0
}

// UseCaseObserver receives use-case execution events.
type UseCaseObserver interface {
	ObserveUseCase(ctx context.Context, event UseCaseEvent)
}

// NoopUseCaseObserver ignores all events.
type NoopUseCaseObserver struct{}

func (NoopUseCaseObserver) ObserveUseCase(context.Context, UseCaseEvent) {}

type slogUseCaseObserver struct {
	logger *slog.Logger
}

// NewLogUseCaseObserver logs events as text lines to w at or above level.
func NewLogUseCaseObserver(w io.Writer, level slog.Level) UseCaseObserver {
	if w == nil {
		return NoopUseCaseObserver{}
	}
	return NewSlogUseCaseObserver(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})))
}

// NewSlogUseCaseObserver reports events through an existing logger.
func NewSlogUseCaseObserver(logger *slog.Logger) UseCaseObserver {
	if logger == nil {
		return NoopUseCaseObserver{}
	}
	return &slogUseCaseObserver{logger: logger}
}

// ObserveUseCase logs failures at error, overflowing runs at warn and
// everything else at info. Fields are emitted in key order.
func (o *slogUseCaseObserver) ObserveUseCase(ctx context.Context, event UseCaseEvent) {
	attrs := []slog.Attr{
		slog.String("use_case", event.Name),
		slog.Int64("duration_ms", event.Duration.Milliseconds()),
		slog.Bool("success", event.Success()),
	}
	for _, k := range slices.Sorted(maps.Keys(event.Fields)) {
		attrs = append(attrs, slog.Any(k, event.Fields[k]))
	}

	level := slog.LevelInfo
	switch {
	case event.Err != nil:
		level = slog.LevelError
		attrs = append(attrs, slog.String("error", event.Err.Error()))
	case event.Degraded():
		level = slog.LevelWarn
	}
	o.logger.LogAttrs(ctx, level, "use case finished", attrs...)
}

func useCaseObserverOrNoop(observers []UseCaseObserver) UseCaseObserver {
	for _, obs := range observers {
		if obs != nil {
			return obs
		}
	}
	return NoopUseCaseObserver{}
}

// observe reports a finished use case. Defer it with a pointer to the named
// error result so the final error is seen.
func observe(ctx context.Context, obs UseCaseObserver, name string, startedAt time.Time, errp *error, fields map[string]any) {
	var err error
	if errp != nil {
		err = *errp
	}
	obs.ObserveUseCase(ctx, UseCaseEvent{
		Name:      name,
		StartedAt: startedAt,
		Duration:  time.Since(startedAt),
		Err:       err,
		Fields:    fields,
	})
}
