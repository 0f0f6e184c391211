package transport

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net"
	"net/http"
	"net/http/cookiejar"
	"time"

	"github.com/GriffinCanCode/actionkit/internal/encoding"
	"github.com/GriffinCanCode/actionkit/internal/progress"
	"github.com/bytedance/sonic"
	"github.com/go-resty/resty/v2"
	"github.com/hashicorp/go-retryablehttp"
	"github.com/klauspost/compress/gzhttp"
	"go.uber.org/zap"
	"golang.org/x/net/publicsuffix"
	"golang.org/x/time/rate"
)

// DefaultUserAgent is sent when Options.UserAgent is empty
const DefaultUserAgent = "actionkit/1.0"

// Options configures the HTTP dispatcher
type Options struct {
	ConnectTimeout time.Duration
	UserAgent      string
	// Cookies enables a public-suffix aware cookie jar
	Cookies bool
	// RateLimit caps dispatches per second; zero means unlimited
	RateLimit float64
	RateBurst int
	// Base replaces the network transport, e.g. with a MockRoundTripper
	Base   http.RoundTripper
	Logger *zap.Logger
}

// Resty dispatches calls through a go-resty client
type Resty struct {
	client  *resty.Client
	limiter *rate.Limiter
	logger  *zap.Logger
}

// NewResty creates a dispatcher. The resty client never retries.
func NewResty(opts Options) (*Resty, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	client := resty.New().
		SetTransport(roundTripper(opts, logger)).
		SetRetryCount(0).
		SetLogger(logger.Sugar()).
		SetJSONMarshaler(sonic.Marshal).
		SetJSONUnmarshaler(sonic.Unmarshal).
		SetHeader("User-Agent", userAgent(opts.UserAgent))

	if opts.Cookies {
		jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
		if err != nil {
			return nil, fmt.Errorf("failed to create cookie jar: %w", err)
		}
		client.SetCookieJar(jar)
	} else {
		client.SetCookieJar(nil)
	}

	r := &Resty{client: client, logger: logger}
	if opts.RateLimit > 0 {
		burst := opts.RateBurst
		if burst <= 0 {
			burst = 1
		}
		r.limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), burst)
	}
	return r, nil
}

// Client returns the underlying resty client
func (r *Resty) Client() *resty.Client {
	return r.client
}

// Dispatch implements Dispatcher
func (r *Resty) Dispatch(ctx context.Context, call *Call) (*Response, error) {
	if r.limiter != nil {
		if err := r.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	if call.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, call.Timeout)
		defer cancel()
	}

	req := r.client.R().SetContext(ctx)
	if len(call.Query) > 0 {
		req.SetQueryParamsFromValues(call.Query)
	}
	if len(call.Header) > 0 {
		req.SetHeaderMultiValues(call.Header)
	}
	if err := setBody(req, call); err != nil {
		return nil, err
	}

	resp, err := req.Execute(call.Method, call.FullPath())
	if resp == nil || resp.RawResponse == nil {
		if err == nil {
			err = fmt.Errorf("%s %s: empty response", call.Method, call.Path)
		}
		return nil, err
	}

	out := NewResponse(resp.StatusCode(), resp.Status(), resp.Header(), resp.Body())
	out.duration = resp.Time()
	return out, err
}

func setBody(req *resty.Request, call *Call) error {
	body := call.Body
	if body.Empty() {
		return nil
	}

	if body.Mode != encoding.Multipart {
		req.SetHeader("Content-Type", "application/json")
		req.SetBody(body.JSON)
		return nil
	}

	switch call.Method {
	case http.MethodPost, http.MethodPut, http.MethodPatch:
		req.SetMultipartFields(body.Fields...)
		return nil
	}

	// resty only builds multipart bodies for POST, PUT and PATCH
	contentType, payload, err := multipartPayload(body.Fields)
	if err != nil {
		return err
	}
	req.SetHeader("Content-Type", contentType)
	req.SetBody(payload)
	return nil
}

func multipartPayload(fields []*resty.MultipartField) (string, []byte, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for _, f := range fields {
		var (
			part io.Writer
			err  error
		)
		if f.FileName != "" {
			part, err = w.CreateFormFile(f.Param, f.FileName)
		} else {
			part, err = w.CreateFormField(f.Param)
		}
		if err != nil {
			return "", nil, fmt.Errorf("failed to create part %q: %w", f.Param, err)
		}
		if _, err := io.Copy(part, f.Reader); err != nil {
			return "", nil, fmt.Errorf("failed to write part %q: %w", f.Param, err)
		}
	}
	if err := w.Close(); err != nil {
		return "", nil, err
	}
	return w.FormDataContentType(), buf.Bytes(), nil
}

// roundTripper stacks decompression over a single-attempt retryablehttp
// client whose own transport counts progress. Counting sits below
// retryablehttp because it buffers the request body before sending.
func roundTripper(opts Options, logger *zap.Logger) http.RoundTripper {
	rc := retryablehttp.NewClient()
	rc.RetryMax = 0
	rc.CheckRetry = func(context.Context, *http.Response, error) (bool, error) { return false, nil }
	rc.ErrorHandler = retryablehttp.PassthroughErrorHandler
	rc.Logger = leveledLogger{logger.Sugar()}

	base := rc.HTTPClient.Transport
	if opts.Base != nil {
		base = opts.Base
	} else if t, ok := base.(*http.Transport); ok && opts.ConnectTimeout > 0 {
		t = t.Clone()
		t.DialContext = (&net.Dialer{
			Timeout:   opts.ConnectTimeout,
			KeepAlive: 30 * time.Second,
		}).DialContext
		base = t
	}
	rc.HTTPClient.Transport = progress.NewTransport(base)

	return gzhttp.Transport(&retryablehttp.RoundTripper{Client: rc})
}

func userAgent(ua string) string {
	if ua == "" {
		return DefaultUserAgent
	}
	return ua
}

// leveledLogger adapts zap to retryablehttp.LeveledLogger
type leveledLogger struct {
	s *zap.SugaredLogger
}

func (l leveledLogger) Error(msg string, kv ...interface{}) { l.s.Errorw(msg, kv...) }
func (l leveledLogger) Info(msg string, kv ...interface{})  { l.s.Debugw(msg, kv...) }
func (l leveledLogger) Debug(msg string, kv ...interface{}) { l.s.Debugw(msg, kv...) }
func (l leveledLogger) Warn(msg string, kv ...interface{})  { l.s.Warnw(msg, kv...) }
