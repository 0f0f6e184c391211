package transport

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/GriffinCanCode/actionkit/internal/apierr"
	"github.com/GriffinCanCode/actionkit/internal/encoding"
)

// Call is a fully resolved request
type Call struct {
	Action  string
	Method  string
	BaseURL string
	// Path is the resolved path, placeholders already substituted
	Path    string
	Query   url.Values
	Header  http.Header
	Body    *encoding.Body
	Timeout time.Duration
}

// FullPath joins the base URL and path without the query
func (c *Call) FullPath() string {
	return JoinURL(c.BaseURL, c.Path)
}

// URL returns the full request URL including the query
func (c *Call) URL() string {
	full := c.FullPath()
	if len(c.Query) == 0 {
		return full
	}
	sep := "?"
	if strings.Contains(full, "?") {
		sep = "&"
	}
	return full + sep + c.Query.Encode()
}

// Target identifies the call for error classification
func (c *Call) Target() apierr.Target {
	return apierr.Target{Method: c.Method, Path: c.Path}
}

// SetHeader replaces a header value
func (c *Call) SetHeader(key, value string) {
	if c.Header == nil {
		c.Header = http.Header{}
	}
	c.Header.Set(key, value)
}

// JoinURL joins base and path with exactly one slash. Absolute paths win.
func JoinURL(base, path string) string {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	if base == "" {
		return path
	}
	if path == "" {
		return base
	}
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(path, "/")
}
