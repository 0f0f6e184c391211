package action

import (
	"net/http"
	"strings"
	"time"

	"github.com/GriffinCanCode/actionkit/internal/apierr"
	"github.com/GriffinCanCode/actionkit/internal/decode"
	"github.com/GriffinCanCode/actionkit/internal/encoding"
	"github.com/GriffinCanCode/actionkit/internal/params"
	"github.com/GriffinCanCode/actionkit/internal/progress"
	"github.com/GriffinCanCode/actionkit/internal/transport"
)

// Definition declares an endpoint
type Definition[T any] struct {
	// Name labels logs, metrics and performance entries; defaults to "METHOD path"
	Name string
	// Path may contain {placeholders} filled from the call's data
	Path string
	// Method defaults to GET
	Method       string
	AuthRequired bool
	Encoding     encoding.Mode
	// Data is the action-level default data. When non-empty it replaces the
	// request payload instead of merging with it.
	Data *params.Map
	// Decode builds the value; defaults to decode.JSON
	Decode decode.Decoder[T]
	// DisableGlobalErrorHook keeps failures away from Settings.OnError
	DisableGlobalErrorHook bool
}

// Action is one configured call of an endpoint. Builder methods mutate the
// action and return it; they must not race with each other. Execute and
// Queue work on a copy, so an action may be re-armed while a queued
// execution runs.
type Action[T any] struct {
	def     Definition[T]
	request params.Request
	extra   *params.Map
	query   *params.Map
	header  http.Header
	tracker *progress.Tracker
	cancel  *CancelToken
	mock    *transport.MockResponse
	engine  *Engine
	timeout time.Duration
	hooks   hooks[T]
}

// New creates an action from a definition
func New[T any](def Definition[T]) *Action[T] {
	def.Method = strings.ToUpper(strings.TrimSpace(def.Method))
	if def.Method == "" {
		def.Method = http.MethodGet
	}
	if def.Name == "" {
		def.Name = def.Method + " " + def.Path
	}
	if def.Decode == nil {
		def.Decode = decode.JSON[T]()
	}
	return &Action[T]{
		def:    def,
		extra:  params.New(),
		query:  params.New(),
		header: http.Header{},
	}
}

// Definition returns the normalized definition
func (a *Action[T]) Definition() Definition[T] {
	return a.def
}

// WithRequest sets the request payload
func (a *Action[T]) WithRequest(req params.Request) *Action[T] {
	a.request = req
	return a
}

// Where adds one data entry, overriding payload and action data
func (a *Action[T]) Where(key string, value any) *Action[T] {
	a.extra.Set(key, value)
	return a
}

// WhereMap adds several data entries in sorted key order
func (a *Action[T]) WhereMap(m map[string]any) *Action[T] {
	a.extra.Merge(params.FromMap(m))
	return a
}

// WhereQuery adds a query-only entry, whatever the method
func (a *Action[T]) WhereQuery(key string, value any) *Action[T] {
	a.query.Set(key, value)
	return a
}

// WhereMapQuery adds several query-only entries
func (a *Action[T]) WhereMapQuery(m map[string]any) *Action[T] {
	a.query.Merge(params.FromMap(m))
	return a
}

// WithHeader sets a header, overriding the configured default
func (a *Action[T]) WithHeader(key, value string) *Action[T] {
	a.header.Set(key, value)
	return a
}

// WithHeaders sets several headers
func (a *Action[T]) WithHeaders(h map[string]string) *Action[T] {
	for k, v := range h {
		a.header.Set(k, v)
	}
	return a
}

// WithProgress registers a handler for both directions
func (a *Action[T]) WithProgress(h progress.Handler) *Action[T] {
	a.progressTracker().OnProgress(h)
	return a
}

// WithUploadProgress registers an upload handler
func (a *Action[T]) WithUploadProgress(h progress.Handler) *Action[T] {
	a.progressTracker().OnUpload(h)
	return a
}

// WithDownloadProgress registers a download handler
func (a *Action[T]) WithDownloadProgress(h progress.Handler) *Action[T] {
	a.progressTracker().OnDownload(h)
	return a
}

func (a *Action[T]) progressTracker() *progress.Tracker {
	if a.tracker == nil {
		a.tracker = progress.NewTracker()
	}
	return a.tracker
}

// WithCancelToken attaches a cancellation token
func (a *Action[T]) WithCancelToken(token *CancelToken) *Action[T] {
	a.cancel = token
	return a
}

// Test answers every execution with mock instead of the network. The mock
// still passes through the middleware chain and reports progress.
func (a *Action[T]) Test(mock transport.MockResponse) *Action[T] {
	a.mock = &mock
	return a
}

// WithEngine runs the action on e instead of the default engine
func (a *Action[T]) WithEngine(e *Engine) *Action[T] {
	a.engine = e
	return a
}

// WithTimeout bounds the call, overriding Settings.RequestTimeout
func (a *Action[T]) WithTimeout(d time.Duration) *Action[T] {
	a.timeout = d
	return a
}

// WithoutGlobalErrorHook keeps this action's failures away from Settings.OnError
func (a *Action[T]) WithoutGlobalErrorHook() *Action[T] {
	a.def.DisableGlobalErrorHook = true
	return a
}

// OnInit replaces the init hook
func (a *Action[T]) OnInit(fn func()) *Action[T] {
	a.hooks.onInit = fn
	return a
}

// OnStart replaces the start hook, fired right before dispatch
func (a *Action[T]) OnStart(fn func()) *Action[T] {
	a.hooks.onStart = fn
	return a
}

// OnSuccess replaces the success hook
func (a *Action[T]) OnSuccess(fn func(T)) *Action[T] {
	a.hooks.onSuccess = fn
	return a
}

// OnError replaces the error hook
func (a *Action[T]) OnError(fn func(*apierr.Error)) *Action[T] {
	a.hooks.onError = fn
	return a
}

// OnDone replaces the done hook, fired last for every outcome
func (a *Action[T]) OnDone(fn func()) *Action[T] {
	a.hooks.onDone = fn
	return a
}

// snapshot copies the per-call state so an execution is isolated from
// later builder calls
func (a *Action[T]) snapshot() *Action[T] {
	c := *a
	c.extra = a.extra.Clone()
	c.query = a.query.Clone()
	c.header = a.header.Clone()
	if a.tracker != nil {
		c.tracker = a.tracker.Clone()
	}
	return &c
}

func (a *Action[T]) engineOrDefault() *Engine {
	if a.engine != nil {
		return a.engine
	}
	return Default()
}
