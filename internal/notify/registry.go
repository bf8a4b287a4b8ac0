package notify

import "go.uber.org/zap"

// Registry holds N Notifier subscribers, read-only after startup (spec
// §5's shared-resource policy).
type Registry struct {
	handlers []Notifier
	logger   *zap.Logger
}

// NewRegistry builds a Registry over a fixed set of handlers.
func NewRegistry(logger *zap.Logger, handlers ...Notifier) *Registry {
	return &Registry{handlers: handlers, logger: logger}
}

// NotifyAll broadcasts e to every handler concurrently. Handlers are
// fire-and-forget: a panic or the handler's own error handling is
// contained here and logged, never propagated to the caller's hot path.
func (r *Registry) NotifyAll(e Event) {
	for _, h := range r.handlers {
		go r.dispatch(h, e)
	}
}

func (r *Registry) dispatch(h Notifier, e Event) {
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error("notifier-panicked", zap.Any("recover", rec), zap.String("kind", string(e.Kind)))
		}
	}()
	h.Notify(e)
}
