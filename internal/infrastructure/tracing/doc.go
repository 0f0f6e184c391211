/*
Package tracing provides lightweight client-side tracing for dispatches.

# Overview

Each dispatch runs in its own span. Trace and span ids travel to the server
in the X-Trace-ID and X-Span-ID headers, so server logs can be joined with
the client's. Nested actions executed with a traced context share the
trace id.

# Usage

	tracer := tracing.New("actionkit", logger)
	h := transport.Chain(dispatch, tracing.Middleware(tracer))

	// Continue an upstream trace
	ctx = tracing.WithTrace(ctx, upstreamTrace, upstreamSpan)

Finished spans are logged at debug level with their duration and status.
*/
package tracing
