package transport

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RequestIDHeader carries a unique id per dispatch
const RequestIDHeader = "X-Request-ID"

// Handler sends a call and returns its response
type Handler func(ctx context.Context, call *Call) (*Response, error)

// Middleware wraps a Handler
type Middleware func(next Handler) Handler

// Dispatcher is the end of a chain
type Dispatcher interface {
	Dispatch(ctx context.Context, call *Call) (*Response, error)
}

// DispatcherFunc adapts a function to Dispatcher
type DispatcherFunc func(ctx context.Context, call *Call) (*Response, error)

// Dispatch implements Dispatcher
func (f DispatcherFunc) Dispatch(ctx context.Context, call *Call) (*Response, error) {
	return f(ctx, call)
}

// Chain wraps h so that mws[0] runs first. Nil middlewares are skipped.
func Chain(h Handler, mws ...Middleware) Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		if mws[i] != nil {
			h = mws[i](h)
		}
	}
	return h
}

// RequestID sets X-Request-ID unless the caller already did
func RequestID() Middleware {
	return func(next Handler) Handler {
		return func(ctx context.Context, call *Call) (*Response, error) {
			if call.Header.Get(RequestIDHeader) == "" {
				call.SetHeader(RequestIDHeader, uuid.NewString())
			}
			return next(ctx, call)
		}
	}
}

// Logging logs every dispatch and its outcome at debug level
func Logging(logger *zap.Logger) Middleware {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(next Handler) Handler {
		return func(ctx context.Context, call *Call) (*Response, error) {
			start := time.Now()
			logger.Debug("Dispatching request",
				zap.String("action", call.Action),
				zap.String("method", call.Method),
				zap.String("url", call.URL()),
				zap.String("request_id", call.Header.Get(RequestIDHeader)),
			)

			resp, err := next(ctx, call)

			fields := []zap.Field{
				zap.String("action", call.Action),
				zap.String("method", call.Method),
				zap.String("path", call.Path),
				zap.Duration("duration", time.Since(start)),
			}
			if resp != nil {
				fields = append(fields, zap.Int("status", resp.StatusCode()), zap.Int("bytes", len(resp.Body())))
			}
			if err != nil {
				logger.Debug("Request failed", append(fields, zap.Error(err))...)
			} else {
				logger.Debug("Request completed", fields...)
			}
			return resp, err
		}
	}
}
