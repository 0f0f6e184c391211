package tracing

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/GriffinCanCode/actionkit/internal/shared/id"
	"github.com/GriffinCanCode/actionkit/internal/transport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestStartSpan(t *testing.T) {
	tracer := New("test", nil)

	root, ctx := tracer.StartSpan(context.Background(), "root")
	child, childCtx := tracer.StartSpan(ctx, "child")

	assert.True(t, strings.HasPrefix(string(root.TraceID), id.TracePrefix+"_"))
	assert.Equal(t, root.TraceID, child.TraceID)
	assert.Equal(t, root.SpanID, child.ParentID)
	assert.Empty(t, root.ParentID)
	assert.Equal(t, child.SpanID, GetSpanID(childCtx))
}

func TestWithTrace(t *testing.T) {
	ctx := WithTrace(context.Background(), "trace_upstream", "span_upstream")
	span, _ := New("test", nil).StartSpan(ctx, "op")

	assert.Equal(t, id.TraceID("trace_upstream"), span.TraceID)
	assert.Equal(t, id.SpanID("span_upstream"), span.ParentID)
}

func TestMiddleware(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	tracer := New("test", zap.New(core))

	var header http.Header
	h := transport.Chain(func(_ context.Context, call *transport.Call) (*transport.Response, error) {
		header = call.Header.Clone()
		return transport.NewResponse(http.StatusTeapot, "", nil, nil), errors.New("boom")
	}, Middleware(tracer))

	_, err := h(context.Background(), &transport.Call{Action: "Brew", Method: "POST"})
	require.Error(t, err)

	assert.NotEmpty(t, header.Get(TraceHeader))
	assert.NotEmpty(t, header.Get(SpanHeader))

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "span completed with error", entry.Message)
	assert.Equal(t, "Brew", entry.ContextMap()["operation"])
	assert.Equal(t, int64(http.StatusTeapot), entry.ContextMap()["status"])
}
