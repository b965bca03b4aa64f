package engine

import (
	"log/slog"
	"time"
)

// UseCaseEvent records one engine operation.
type UseCaseEvent struct {
	Name      string
	Duration  time.Duration
	Success   bool
	Err       error
	Dirty     bool
	Fields    map[string]any
	StartedAt time.Time
}

// UseCaseObserver receives an event after every engine operation, outside
// the engine lock.
type UseCaseObserver interface {
	ObserveUseCase(event UseCaseEvent)
}

type NoopUseCaseObserver struct{}

func (NoopUseCaseObserver) ObserveUseCase(UseCaseEvent) {}

type logUseCaseObserver struct {
	logger *slog.Logger
}

// NewLogUseCaseObserver logs engine operations to logger. Clean ticks that
// changed nothing are logged at debug level.
func NewLogUseCaseObserver(logger *slog.Logger) UseCaseObserver {
	if logger == nil {
		return NoopUseCaseObserver{}
	}
	return &logUseCaseObserver{logger: logger.With("component", "engine")}
}

func (o *logUseCaseObserver) ObserveUseCase(event UseCaseEvent) {
	attrs := make([]any, 0, 8+len(event.Fields)*2)
	attrs = append(attrs,
		"use_case", event.Name,
		"duration_us", event.Duration.Microseconds(),
		"dirty", event.Dirty,
	)
	for k, v := range event.Fields {
		attrs = append(attrs, k, v)
	}
	switch {
	case event.Err != nil:
		o.logger.Warn("engine_use_case", append(attrs, "error", event.Err.Error())...)
	case event.Name == "tick" && !event.Dirty:
		o.logger.Debug("engine_use_case", attrs...)
	default:
		o.logger.Info("engine_use_case", attrs...)
	}
}
