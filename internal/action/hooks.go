package action

import (
	"github.com/GriffinCanCode/actionkit/internal/apierr"
	"github.com/GriffinCanCode/actionkit/internal/logging"
	"go.uber.org/zap"
)

// hooks holds one replaceable callback per lifecycle stage
type hooks[T any] struct {
	onInit    func()
	onStart   func()
	onSuccess func(T)
	onError   func(*apierr.Error)
	onDone    func()
}

// guard runs fn, logging instead of propagating a panic
func guard(log *logging.Logger, hook string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			log.Error("Hook panicked", zap.String("hook", hook), zap.Any("panic", r))
		}
	}()
	fn()
}

func (h *hooks[T]) init(log *logging.Logger) {
	if h.onInit != nil {
		guard(log, "init", h.onInit)
	}
}

func (h *hooks[T]) start(log *logging.Logger) {
	if h.onStart != nil {
		guard(log, "start", h.onStart)
	}
}

func (h *hooks[T]) success(log *logging.Logger, v T) {
	if h.onSuccess != nil {
		guard(log, "success", func() { h.onSuccess(v) })
	}
}

func (h *hooks[T]) failure(log *logging.Logger, e *apierr.Error) {
	if h.onError != nil {
		guard(log, "error", func() { h.onError(e) })
	}
}

func (h *hooks[T]) done(log *logging.Logger) {
	if h.onDone != nil {
		guard(log, "done", h.onDone)
	}
}
