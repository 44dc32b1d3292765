package events

import (
	"context"
	"log/slog"
	"sync"
)

// InMemoryEmitter is a simple implementation of the Emitter interface
// that stores registered handlers in memory and dispatches events to them.
type InMemoryEmitter struct {
	handlers []ProgressHandler
	mu       sync.RWMutex
	logger   *slog.Logger
}

// Verify interface compliance at compile time
var _ Emitter = (*InMemoryEmitter)(nil)

// NewInMemoryEmitter creates a new instance of InMemoryEmitter.
func NewInMemoryEmitter(logger *slog.Logger) *InMemoryEmitter {
	if logger == nil {
		logger = slog.Default()
	}
	return &InMemoryEmitter{
		handlers: make([]ProgressHandler, 0),
		logger:   logger.With(slog.String("component", "progress_emitter")),
	}
}

// RegisterHandler adds a new progress handler to receive events.
func (e *InMemoryEmitter) RegisterHandler(handler ProgressHandler) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.handlers = append(e.handlers, handler)
	e.logger.Debug("registered new progress handler", "handler_count", len(e.handlers))
}

// Emit publishes the given event to all registered handlers. Every handler
// receives the event regardless of what the others do; errors and panics
// are logged and swallowed.
func (e *InMemoryEmitter) Emit(ctx context.Context, event *ProgressEvent) {
	e.mu.RLock()
	handlers := make([]ProgressHandler, len(e.handlers))
	copy(handlers, e.handlers)
	e.mu.RUnlock()

	e.logger.Debug("emitting progress event",
		"event_id", event.ID,
		"event_type", event.Type,
		"handler_count", len(handlers))

	for i, handler := range handlers {
		e.dispatch(ctx, handler, i, event)
	}
}

// dispatch invokes a single handler, containing any error or panic.
func (e *InMemoryEmitter) dispatch(
	ctx context.Context,
	handler ProgressHandler,
	index int,
	event *ProgressEvent,
) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("progress handler panicked",
				"panic", r,
				"handler_index", index,
				"event_id", event.ID,
				"event_type", event.Type)
		}
	}()

	if err := handler.HandleProgress(ctx, event); err != nil {
		e.logger.Warn("progress handler failed to process event",
			"error", err,
			"handler_index", index,
			"event_id", event.ID,
			"event_type", event.Type)
	}
}
