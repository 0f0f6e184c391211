package action

import (
	"context"
	"fmt"
	"net/http"

	"github.com/GriffinCanCode/actionkit/internal/apierr"
	"github.com/GriffinCanCode/actionkit/internal/auth"
	"github.com/GriffinCanCode/actionkit/internal/config"
	"github.com/GriffinCanCode/actionkit/internal/decode"
	"github.com/GriffinCanCode/actionkit/internal/encoding"
	"github.com/GriffinCanCode/actionkit/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/actionkit/internal/infrastructure/tracing"
	"github.com/GriffinCanCode/actionkit/internal/logging"
	"github.com/GriffinCanCode/actionkit/internal/params"
	"github.com/GriffinCanCode/actionkit/internal/progress"
	"github.com/GriffinCanCode/actionkit/internal/shared/id"
	"github.com/GriffinCanCode/actionkit/internal/transport"
	"go.uber.org/zap"
)

// Execute runs the action and blocks until its single terminal result.
// Failures are returned in the Result, never as a panic, including panics
// raised by the action's own callbacks.
func (a *Action[T]) Execute(ctx context.Context) Result[T] {
	return run(ctx, a.engineOrDefault(), a.snapshot(), nil)
}

// execution carries the state of one run
type execution[T any] struct {
	ctx      context.Context
	engine   *Engine
	action   *Action[T]
	settings *config.Settings
	log      *logging.Logger
	machine  *lifecycle
	call     *transport.Call
	result   Result[T]
	timer    *monitoring.Timer
}

func run[T any](ctx context.Context, e *Engine, a *Action[T], sink progress.Handler) (out Result[T]) {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := a.cancel.bind(ctx)
	defer cancel()

	execID := id.NewExecutionID()
	x := &execution[T]{
		ctx:      ctx,
		engine:   e,
		action:   a,
		settings: e.Settings(),
		log:      e.logger.ForAction(a.def.Name, execID.String()),
		machine:  newLifecycle(),
		result:   Result[T]{ExecutionID: execID},
		timer:    monitoring.NewTimer(e.metrics, a.def.Name, a.def.Method),
	}
	defer func() {
		if r := recover(); r != nil {
			out = x.recovered(r)
		}
	}()

	x.advance(StateInitialized)
	a.hooks.init(x.log)

	token := ""
	if a.def.AuthRequired {
		var err error
		token, err = auth.NewProvider(x.settings.Token, x.log.Logger).Token(ctx)
		if err != nil {
			return x.skip()
		}
	}

	call, err := x.resolve()
	if err != nil {
		return x.fail(apierr.Classify(apierr.Target{Method: a.def.Method, Path: a.def.Path}, nil, err))
	}
	x.call = call
	x.advance(StateResolved)

	dispatcher, err := x.dispatcher()
	if err != nil {
		return x.fail(apierr.Classify(call.Target(), nil, err))
	}
	handler := transport.Chain(dispatcher.Dispatch, x.middlewares(token)...)

	ctx = progress.WithTracker(ctx, x.tracker(sink))
	perfTimer := e.recorder.Start(a.def.Name, call.FullPath())

	x.advance(StateDispatched)
	a.hooks.start(x.log)

	resp, err := handler(ctx, call)
	perfTimer.End()
	x.result.Response = resp

	if err != nil || !resp.IsSuccess() {
		return x.fail(apierr.Classify(call.Target(), resp, err))
	}

	value, err := decodeSafely(a.def.Decode, resp)
	if err != nil {
		return x.fail(apierr.ClassifyParse(call.Target(), resp, err))
	}
	return x.succeed(value)
}

// resolve composes data, resolves the path and builds the call
func (x *execution[T]) resolve() (*transport.Call, error) {
	a, s := x.action, x.settings

	baseURL, err := s.BaseURL.Resolve(x.ctx)
	if err != nil {
		return nil, fmt.Errorf("resolve base url: %w", err)
	}

	var payload *params.Map
	if a.request != nil {
		payload = a.request.Params()
	}
	composed := params.Compose(params.Sources{
		Method:  a.def.Method,
		Path:    a.def.Path,
		Payload: payload,
		Static:  a.def.Data,
		Extra:   a.extra,
		Query:   a.query,
	})
	if leftover := params.Unresolved(composed.Path); len(leftover) > 0 {
		x.log.Debug("Path placeholders left unresolved",
			logging.Path(composed.Path), zap.Strings("placeholders", leftover))
	}

	query := defaultQuery(s.DefaultQuery).Merge(composed.Query)

	body, err := encoding.Encode(a.def.Method, a.def.Encoding, composed.Body, s.ListFormat)
	if err != nil {
		return nil, err
	}

	header := s.DefaultHeaders.Clone()
	if header == nil {
		header = http.Header{}
	}
	for k, v := range a.header {
		header[k] = append([]string(nil), v...)
	}

	timeout := s.RequestTimeout
	if a.timeout > 0 {
		timeout = a.timeout
	}

	return &transport.Call{
		Action:  a.def.Name,
		Method:  a.def.Method,
		BaseURL: baseURL,
		Path:    composed.Path,
		Query:   encoding.QueryValues(query, s.ListFormat),
		Header:  header,
		Body:    body,
		Timeout: timeout,
	}, nil
}

func defaultQuery(defaults map[string]string) *params.Map {
	m := make(map[string]any, len(defaults))
	for k, v := range defaults {
		m[k] = v
	}
	return params.FromMap(m)
}

func (x *execution[T]) dispatcher() (transport.Dispatcher, error) {
	if x.action.mock != nil {
		return x.engine.mockDispatcher(x.settings, *x.action.mock)
	}
	return x.engine.dispatcherFor(x.settings)
}

// middlewares builds this execution's chain, outermost first
func (x *execution[T]) middlewares(token string) []transport.Middleware {
	mws := []transport.Middleware{
		tracing.Middleware(x.engine.tracer),
		transport.RequestID(),
		transport.Logging(x.log.Logger),
		monitoring.Middleware(x.engine.metrics),
	}
	mws = append(mws, x.settings.Middlewares...)
	if x.action.def.AuthRequired {
		mws = append(mws, auth.Inject(token, x.settings.TokenType))
	}
	return append(mws, auth.Unauthenticated(x.settings.OnUnauthenticated, x.log.Logger))
}

// tracker combines the action's handlers with transfer metrics and the
// queue's progress sink
func (x *execution[T]) tracker(sink progress.Handler) *progress.Tracker {
	t := x.action.tracker.Clone()
	metrics := x.engine.metrics

	var sent, received int64
	t.OnUpload(func(ev progress.Event) {
		metrics.AddTransfer(progress.Upload.String(), ev.Sent-sent)
		sent = ev.Sent
	})
	t.OnDownload(func(ev progress.Event) {
		metrics.AddTransfer(progress.Download.String(), ev.Sent-received)
		received = ev.Sent
	})
	if sink != nil {
		t.OnProgress(sink)
	}
	return t
}

func (x *execution[T]) succeed(v T) Result[T] {
	x.advance(StateSucceeded)
	x.result.Outcome = OutcomeSucceeded
	x.result.Value = v
	x.action.hooks.success(x.log, v)

	x.log.Debug("Action succeeded", logging.Status(x.result.Response.StatusCode()))
	return x.finish()
}

func (x *execution[T]) fail(e *apierr.Error) Result[T] {
	x.advance(StateFailed)
	x.result.Outcome = OutcomeFailed
	x.result.Err = e
	x.engine.metrics.RecordError(x.action.def.Name, e.Kind.String())

	x.log.Warn("Action failed",
		logging.Kind(e.Kind.String()),
		logging.Method(e.Method),
		logging.Path(e.Path),
		logging.Status(e.StatusCode),
		zap.String("message", e.Message),
	)

	x.action.hooks.failure(x.log, e)
	if hook := x.settings.OnError; hook != nil && !x.action.def.DisableGlobalErrorHook {
		guard(x.log, "global error", func() { hook(e) })
	}
	return x.finish()
}

// recovered fails the execution after a callback panic. Only legal
// lifecycle transitions are taken from wherever the panic interrupted it.
func (x *execution[T]) recovered(r any) Result[T] {
	x.log.Error("Action panicked", zap.Any("panic", r), zap.Stack("stack"))

	target := apierr.Target{Method: x.action.def.Method, Path: x.action.def.Path}
	if x.call != nil {
		target = x.call.Target()
	}
	e := apierr.Classify(target, nil, fmt.Errorf("%w: %v", apierr.ErrPanic, r))

	switch x.machine.state {
	case StateInitialized, StateResolved, StateDispatched:
		return x.fail(e)
	case StateSucceeded, StateFailed:
		return x.finish()
	default:
		x.result.Lifecycle = x.machine.history
		return x.result
	}
}

// skip ends an execution whose credential could not be resolved
func (x *execution[T]) skip() Result[T] {
	x.result.Outcome = OutcomeSkipped
	x.log.Debug("Action skipped, no credential")
	return x.finish()
}

func (x *execution[T]) finish() Result[T] {
	x.advance(StateDone)
	x.action.hooks.done(x.log)

	duration := x.timer.Stop(x.result.Outcome.String())
	x.log.Debug("Action done", logging.Outcome(x.result.Outcome.String()), logging.Duration(duration))

	x.result.Lifecycle = x.machine.history
	return x.result
}

func (x *execution[T]) advance(next State) {
	if err := x.machine.to(next); err != nil {
		// unreachable unless the engine itself is broken
		x.log.Error("Lifecycle violation", zap.Error(err))
	}
}

func decodeSafely[T any](dec decode.Decoder[T], resp *transport.Response) (v T, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", apierr.ErrDecode, r)
		}
	}()
	return dec(resp)
}
