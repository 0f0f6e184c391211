package monitoring

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/GriffinCanCode/actionkit/internal/transport"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordAction(t *testing.T) {
	m := NewMetrics()

	m.RecordAction("GetUser", "GET", OutcomeSucceeded, 200*time.Millisecond)
	m.RecordAction("GetUser", "GET", OutcomeFailed, 400*time.Millisecond)
	m.RecordAction("GetUser", "GET", OutcomeSkipped, 0)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.ActionsTotal.WithLabelValues("GetUser", "GET", OutcomeSucceeded)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ActionsTotal.WithLabelValues("GetUser", "GET", OutcomeSkipped)))
	assert.Equal(t, 1, testutil.CollectAndCount(m.ActionDuration))

	snap := m.Snapshot()
	assert.Equal(t, int64(3), snap.TotalActions)
	assert.Equal(t, int64(1), snap.TotalFailures)
	assert.Equal(t, int64(1), snap.TotalSkipped)
	assert.InDelta(t, 0.3, snap.AverageDuration(), 1e-9)
}

func TestAddTransfer(t *testing.T) {
	m := NewMetrics()
	m.AddTransfer("upload", 100)
	m.AddTransfer("download", 50)
	m.AddTransfer("download", 0)

	assert.Equal(t, 100.0, testutil.ToFloat64(m.TransferBytes.WithLabelValues("upload")))
	assert.Equal(t, int64(50), m.Snapshot().BytesReceived)
}

func TestSeparateRegistries(t *testing.T) {
	assert.NotPanics(t, func() {
		NewMetrics()
		NewMetrics()
	})
}

func TestMiddleware(t *testing.T) {
	m := NewMetrics()
	var inFlight float64
	h := transport.Chain(func(context.Context, *transport.Call) (*transport.Response, error) {
		inFlight = testutil.ToFloat64(m.InFlight)
		return transport.NewResponse(http.StatusNotFound, "", nil, nil), nil
	}, Middleware(m))

	_, err := h(context.Background(), &transport.Call{Method: "GET"})
	require.NoError(t, err)

	assert.Equal(t, 1.0, inFlight)
	assert.Equal(t, 0.0, testutil.ToFloat64(m.InFlight))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.DispatchTotal.WithLabelValues("GET", "404")))
}

func TestHandler(t *testing.T) {
	m := NewMetrics()
	NewTimer(m, "ListUsers", "GET").Stop(OutcomeSucceeded)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), `actionkit_actions_total{action="ListUsers",method="GET",outcome="succeeded"} 1`))
}
