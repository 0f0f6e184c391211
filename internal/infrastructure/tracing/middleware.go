package tracing

import (
	"context"
	"strconv"

	"github.com/GriffinCanCode/actionkit/internal/transport"
)

// Middleware opens a span per dispatch and propagates it in request headers
func Middleware(tracer *Tracer) transport.Middleware {
	return func(next transport.Handler) transport.Handler {
		return func(ctx context.Context, call *transport.Call) (*transport.Response, error) {
			span, ctx := tracer.StartSpan(ctx, call.Action)
			span.SetTag("http.method", call.Method)
			span.SetTag("http.url", call.FullPath())
			span.SetTag("span.kind", "client")

			if call.Header == nil {
				call.Header = make(map[string][]string)
			}
			InjectTraceContext(ctx, call.Header)

			resp, err := next(ctx, call)

			if resp != nil {
				span.SetStatus(resp.StatusCode())
				span.SetTag("http.status", strconv.Itoa(resp.StatusCode()))
			}
			if err != nil {
				span.SetError(err)
			}

			span.Finish()
			tracer.Submit(span)
			return resp, err
		}
	}
}
