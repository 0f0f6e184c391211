/*
Package transport describes one resolved call and dispatches it over HTTP.

# Overview

A Call is built fresh for every action execution. It flows through a
Handler chain composed per execution from Middleware values, ending in a
Dispatcher. The production dispatcher is Resty, a go-resty client over a
pooled, non-retrying transport with progress reporting and transparent
response decompression.

# Usage

	d, err := transport.NewResty(transport.Options{ConnectTimeout: 5 * time.Second})
	h := transport.Chain(d.Dispatch,
		transport.RequestID(),
		transport.Logging(logger),
	)
	resp, err := h(ctx, call)

# Mocks

MockRoundTripper answers every request with a fixed MockResponse. Passing it
as Options.Base keeps the full chain, including progress ticks, while never
touching the network.
*/
package transport
