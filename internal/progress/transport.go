package progress

import (
	"io"
	"net/http"
)

// Transport reports request and response body transfer to the Tracker
// found in the request context. Requests without a tracker pass through.
type Transport struct {
	Base http.RoundTripper
}

// NewTransport wraps base; a nil base means http.DefaultTransport
func NewTransport(base http.RoundTripper) *Transport {
	if base == nil {
		base = http.DefaultTransport
	}
	return &Transport{Base: base}
}

// RoundTrip implements http.RoundTripper
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	tracker := FromContext(req.Context())
	if tracker.Empty() {
		return t.Base.RoundTrip(req)
	}

	if req.Body != nil && req.Body != http.NoBody {
		total := req.ContentLength
		if total == 0 {
			// a request body with zero ContentLength has unknown length
			total = -1
		}
		req = req.Clone(req.Context())
		req.Body = &countingReader{
			rc:    req.Body,
			total: total,
			tick:  tracker.Callback(Upload),
		}
	}

	resp, err := t.Base.RoundTrip(req)
	if err != nil || resp == nil || resp.Body == nil {
		return resp, err
	}

	resp.Body = &countingReader{
		rc:    resp.Body,
		total: resp.ContentLength,
		tick:  tracker.Callback(Download),
	}
	return resp, nil
}

// countingReader ticks after every successful read
type countingReader struct {
	rc    io.ReadCloser
	total int64
	read  int64
	tick  func(transferred, total int64)
}

func (r *countingReader) Read(p []byte) (int, error) {
	n, err := r.rc.Read(p)
	known := r.total >= 0
	if err == io.EOF && !known {
		// unknown length: the final size is the count at EOF
		r.total = r.read + int64(n)
	}
	if n > 0 {
		r.read += int64(n)
		r.tick(r.read, r.total)
	} else if !known && r.total > 0 {
		r.tick(r.read, r.total)
	}
	return n, err
}

func (r *countingReader) Close() error {
	return r.rc.Close()
}
