package progress

import (
	"context"
	"io"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEvent(t *testing.T) {
	t.Run("monotonic and ends at 100", func(t *testing.T) {
		const total = 1000
		last := -1.0
		var ev Event
		for sent := int64(0); sent <= total; sent += 125 {
			ev = NewEvent(sent, total, Upload)
			assert.GreaterOrEqual(t, ev.Percentage, last)
			last = ev.Percentage
		}
		assert.Equal(t, 100.0, ev.Percentage)
		assert.True(t, ev.Done())
	})

	t.Run("zero total is zero percent", func(t *testing.T) {
		ev := NewEvent(10, 0, Download)
		assert.Equal(t, 0.0, ev.Percentage)
		assert.False(t, math.IsNaN(ev.Percentage))
		assert.False(t, math.IsInf(ev.Percentage, 0))
		assert.False(t, ev.Done())
		assert.False(t, NewEvent(0, 0, Upload).Done())
	})

	t.Run("clamped above total", func(t *testing.T) {
		ev := NewEvent(150, 100, Download)
		assert.Equal(t, 100.0, ev.Percentage)
	})

	t.Run("unknown total normalized", func(t *testing.T) {
		ev := NewEvent(5, -1, Download)
		assert.Equal(t, int64(0), ev.Total)
		assert.Equal(t, 0.0, ev.Percentage)
		assert.False(t, ev.Done())
	})

	t.Run("partial not done", func(t *testing.T) {
		assert.False(t, NewEvent(10, 100, Upload).Done())
	})
}

func TestTracker(t *testing.T) {
	t.Run("generic and direction handlers both fire", func(t *testing.T) {
		var generic, upload, download []Event
		tr := NewTracker().
			OnProgress(func(e Event) { generic = append(generic, e) }).
			OnUpload(func(e Event) { upload = append(upload, e) }).
			OnDownload(func(e Event) { download = append(download, e) })

		tr.Tick(Upload, 5, 10)
		tr.Tick(Download, 10, 10)

		require.Len(t, generic, 2)
		require.Len(t, upload, 1)
		require.Len(t, download, 1)
		assert.Equal(t, Upload, upload[0].Direction)
		assert.Equal(t, 50.0, upload[0].Percentage)
		assert.Equal(t, Download, download[0].Direction)
	})

	t.Run("every tick produces one event", func(t *testing.T) {
		count := 0
		tr := NewTracker().OnProgress(func(Event) { count++ })
		for i := 0; i < 5; i++ {
			tr.Tick(Download, 1, 10)
		}
		assert.Equal(t, 5, count)
	})

	t.Run("nil tracker is a no-op", func(t *testing.T) {
		var tr *Tracker
		assert.True(t, tr.Empty())
		assert.NotPanics(t, func() { tr.Tick(Upload, 1, 1) })
	})

	t.Run("clone is independent", func(t *testing.T) {
		tr := NewTracker().OnUpload(func(Event) {})
		clone := tr.Clone()
		clone.OnDownload(func(Event) {})

		assert.Len(t, tr.download, 0)
		assert.Len(t, clone.download, 1)
		assert.Len(t, clone.upload, 1)
	})
}

func TestTransport(t *testing.T) {
	payload := strings.Repeat("x", 4096)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		w.Header().Set("Content-Length", "4096")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(strings.ToUpper(string(body))))
	}))
	defer server.Close()

	var mu sync.Mutex
	var events []Event
	tracker := NewTracker().OnProgress(func(e Event) {
		mu.Lock()
		events = append(events, e)
		mu.Unlock()
	})

	client := &http.Client{Transport: NewTransport(nil)}
	ctx := WithTracker(context.Background(), tracker)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, server.URL, strings.NewReader(payload))
	require.NoError(t, err)

	resp, err := client.Do(req)
	require.NoError(t, err)
	_, err = io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())

	mu.Lock()
	defer mu.Unlock()

	var lastUp, lastDown Event
	for _, e := range events {
		if e.Direction == Upload {
			lastUp = e
		} else {
			lastDown = e
		}
	}
	assert.Equal(t, int64(4096), lastUp.Sent)
	assert.Equal(t, 100.0, lastUp.Percentage)
	assert.Equal(t, int64(4096), lastDown.Sent)
	assert.True(t, lastDown.Done())
}

func TestTransportWithoutTracker(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	client := &http.Client{Transport: NewTransport(nil)}
	resp, err := client.Get(server.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}

type tick struct{ sent, total int64 }

func countTicks(rc io.ReadCloser, total int64) (*countingReader, *[]tick) {
	var ticks []tick
	cr := &countingReader{rc: rc, total: total, tick: func(sent, total int64) {
		ticks = append(ticks, tick{sent, total})
	}}
	return cr, &ticks
}

func TestCountingReaderUnknownLength(t *testing.T) {
	t.Run("separate EOF adds one sized event", func(t *testing.T) {
		cr, ticks := countTicks(io.NopCloser(iotest.OneByteReader(strings.NewReader("abcd"))), -1)
		_, err := io.ReadAll(cr)
		require.NoError(t, err)

		require.Len(t, *ticks, 5)
		assert.Equal(t, tick{4, 4}, (*ticks)[4])
		for i := 1; i < len(*ticks); i++ {
			assert.NotEqual(t, (*ticks)[i-1], (*ticks)[i])
		}
		assert.True(t, NewEvent((*ticks)[4].sent, (*ticks)[4].total, Download).Done())
	})

	t.Run("data with EOF is one event", func(t *testing.T) {
		cr, ticks := countTicks(io.NopCloser(iotest.DataErrReader(strings.NewReader("abcd"))), -1)
		_, err := io.ReadAll(cr)
		require.NoError(t, err)

		assert.Equal(t, []tick{{4, 4}}, *ticks)
	})

	t.Run("empty body emits nothing", func(t *testing.T) {
		cr, ticks := countTicks(io.NopCloser(strings.NewReader("")), -1)
		_, err := io.ReadAll(cr)
		require.NoError(t, err)

		assert.Empty(t, *ticks)
	})

	t.Run("repeated EOF reads do not tick", func(t *testing.T) {
		cr, ticks := countTicks(io.NopCloser(strings.NewReader("ab")), -1)
		_, err := io.ReadAll(cr)
		require.NoError(t, err)
		n := len(*ticks)

		_, err = cr.Read(make([]byte, 8))
		assert.Equal(t, io.EOF, err)
		assert.Len(t, *ticks, n)
	})

	t.Run("known length never adds an EOF event", func(t *testing.T) {
		cr, ticks := countTicks(io.NopCloser(iotest.OneByteReader(strings.NewReader("abc"))), 3)
		_, err := io.ReadAll(cr)
		require.NoError(t, err)

		assert.Equal(t, []tick{{1, 3}, {2, 3}, {3, 3}}, *ticks)
	})
}

func TestTrackerContainsHandlerPanics(t *testing.T) {
	var got []Event
	tr := NewTracker().
		OnProgress(func(Event) { panic("handler bug") }).
		OnUpload(func(ev Event) { got = append(got, ev) })

	assert.NotPanics(t, func() { tr.Tick(Upload, 5, 10) })
	require.Len(t, got, 1)
	assert.Equal(t, 50.0, got[0].Percentage)
}
