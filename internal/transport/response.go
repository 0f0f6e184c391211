package transport

import (
	"fmt"
	"mime"
	"net/http"
	"time"
)

// Response is a received HTTP response with its body fully read
type Response struct {
	statusCode int
	status     string
	header     http.Header
	body       []byte
	duration   time.Duration
}

// NewResponse builds a response. An empty status is derived from the code.
func NewResponse(statusCode int, status string, header http.Header, body []byte) *Response {
	if status == "" && statusCode > 0 {
		status = fmt.Sprintf("%d %s", statusCode, http.StatusText(statusCode))
	}
	if header == nil {
		header = http.Header{}
	}
	return &Response{
		statusCode: statusCode,
		status:     status,
		header:     header,
		body:       body,
	}
}

// StatusCode returns the HTTP status code, 0 for a nil response
func (r *Response) StatusCode() int {
	if r == nil {
		return 0
	}
	return r.statusCode
}

// Status returns the status line, e.g. "404 Not Found"
func (r *Response) Status() string {
	if r == nil {
		return ""
	}
	return r.status
}

// Header returns the response headers
func (r *Response) Header() http.Header {
	if r == nil {
		return http.Header{}
	}
	return r.header
}

// Body returns the raw body
func (r *Response) Body() []byte {
	if r == nil {
		return nil
	}
	return r.body
}

// String returns the body as a string
func (r *Response) String() string {
	return string(r.Body())
}

// ContentType returns the media type without parameters
func (r *Response) ContentType() string {
	ct := r.Header().Get("Content-Type")
	if ct == "" {
		return ""
	}
	mediaType, _, err := mime.ParseMediaType(ct)
	if err != nil {
		return ct
	}
	return mediaType
}

// Duration is the time from dispatch to the full body
func (r *Response) Duration() time.Duration {
	if r == nil {
		return 0
	}
	return r.duration
}

// IsSuccess reports a status below 400
func (r *Response) IsSuccess() bool {
	code := r.StatusCode()
	return code > 0 && code < 400
}
