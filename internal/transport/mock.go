package transport

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/bytedance/sonic"
)

// MockResponse is a canned answer used instead of the network
type MockResponse struct {
	// StatusCode defaults to 200
	StatusCode int
	// Body is sent as is for string and []byte, JSON encoded otherwise
	Body   any
	Header http.Header
	// Delay holds the response back, honouring cancellation
	Delay time.Duration
	// Err fails the round trip without a response
	Err error
}

// MockRoundTripper answers every request with Response
type MockRoundTripper struct {
	Response MockResponse
}

// RoundTrip implements http.RoundTripper. The request body is read fully so
// upload progress is reported as for a real transfer.
func (m *MockRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Body != nil {
		_, _ = io.Copy(io.Discard, req.Body)
		_ = req.Body.Close()
	}

	if m.Response.Delay > 0 {
		timer := time.NewTimer(m.Response.Delay)
		defer timer.Stop()
		select {
		case <-req.Context().Done():
			return nil, req.Context().Err()
		case <-timer.C:
		}
	}
	if err := req.Context().Err(); err != nil {
		return nil, err
	}
	if m.Response.Err != nil {
		return nil, m.Response.Err
	}

	header := m.Response.Header.Clone()
	if header == nil {
		header = http.Header{}
	}
	body, err := mockBody(m.Response.Body, header)
	if err != nil {
		return nil, err
	}

	code := m.Response.StatusCode
	if code == 0 {
		code = http.StatusOK
	}
	header.Set("Content-Length", strconv.Itoa(len(body)))

	return &http.Response{
		StatusCode:    code,
		Status:        fmt.Sprintf("%d %s", code, http.StatusText(code)),
		Proto:         "HTTP/1.1",
		ProtoMajor:    1,
		ProtoMinor:    1,
		Header:        header,
		Body:          io.NopCloser(bytes.NewReader(body)),
		ContentLength: int64(len(body)),
		Request:       req,
	}, nil
}

func mockBody(v any, header http.Header) ([]byte, error) {
	switch b := v.(type) {
	case nil:
		return nil, nil
	case []byte:
		return b, nil
	case string:
		if header.Get("Content-Type") == "" {
			header.Set("Content-Type", "text/plain; charset=utf-8")
		}
		return []byte(b), nil
	}

	data, err := sonic.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode mock body: %w", err)
	}
	if header.Get("Content-Type") == "" {
		header.Set("Content-Type", "application/json")
	}
	return data, nil
}
