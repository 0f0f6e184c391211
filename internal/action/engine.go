package action

import (
	"sync"

	"github.com/GriffinCanCode/actionkit/internal/config"
	"github.com/GriffinCanCode/actionkit/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/actionkit/internal/infrastructure/tracing"
	"github.com/GriffinCanCode/actionkit/internal/logging"
	"github.com/GriffinCanCode/actionkit/internal/perf"
	"github.com/GriffinCanCode/actionkit/internal/transport"
)

// DefaultProgressBuffer is the Future progress channel capacity
const DefaultProgressBuffer = 64

// Options configures an Engine. Zero fields get defaults.
type Options struct {
	Settings *config.Settings
	// Dispatcher replaces the HTTP dispatcher built from the settings
	Dispatcher transport.Dispatcher
	Logger     *logging.Logger
	// Recorder defaults to the process-wide perf.Default()
	Recorder *perf.Recorder
	Metrics  *monitoring.Metrics
	Tracer   *tracing.Tracer
	// ProgressBuffer is the capacity of each Future's progress channel
	ProgressBuffer int
}

// Engine runs actions against one settings store
type Engine struct {
	store    *config.Store
	custom   transport.Dispatcher
	logger   *logging.Logger
	recorder *perf.Recorder
	metrics  *monitoring.Metrics
	tracer   *tracing.Tracer
	buffer   int

	mu         sync.Mutex
	dispatcher transport.Dispatcher
	builtFor   transport.Options
}

// NewEngine creates an engine
func NewEngine(opts Options) *Engine {
	e := &Engine{
		store:    config.NewStore(opts.Settings),
		custom:   opts.Dispatcher,
		logger:   opts.Logger,
		recorder: opts.Recorder,
		metrics:  opts.Metrics,
		tracer:   opts.Tracer,
		buffer:   opts.ProgressBuffer,
	}
	if e.logger == nil {
		e.logger = logging.NewNop()
	}
	if e.recorder == nil {
		e.recorder = perf.Default()
	}
	if e.metrics == nil {
		e.metrics = monitoring.NewMetrics()
	}
	if e.tracer == nil {
		e.tracer = tracing.New("actionkit", e.logger.Logger)
	}
	if e.buffer <= 0 {
		e.buffer = DefaultProgressBuffer
	}
	return e
}

var (
	defaultEngine *Engine
	defaultOnce   sync.Once
)

// Default returns the process-wide engine, configured from the environment
// on first use
func Default() *Engine {
	defaultOnce.Do(func() {
		env := config.LoadOrDefault()

		logger, err := logging.New(env.LogConfig())
		if err != nil {
			logger = logging.NewDefault()
		}

		settings, err := env.Settings()
		if err != nil {
			logger.Warn("Invalid environment configuration, using defaults")
			settings = config.Defaults()
		}

		defaultEngine = NewEngine(Options{Settings: settings, Logger: logger})
	})
	return defaultEngine
}

// Configure merges p into the default engine's settings
func Configure(p config.Patch) *config.Settings {
	return Default().Configure(p)
}

// Configure merges p into the settings. Executions already running keep
// the snapshot they started with.
func (e *Engine) Configure(p config.Patch) *config.Settings {
	return e.store.Configure(p)
}

// Settings returns the current snapshot
func (e *Engine) Settings() *config.Settings {
	return e.store.Load()
}

// Report returns the latest timing per full path
func (e *Engine) Report() map[string]perf.Entry {
	return e.recorder.Report()
}

// Metrics returns the engine's collector
func (e *Engine) Metrics() *monitoring.Metrics {
	return e.metrics
}

// Logger returns the engine's logger
func (e *Engine) Logger() *logging.Logger {
	return e.logger
}

// dispatcherFor returns the dispatcher for a snapshot, rebuilding the HTTP
// client when the transport settings changed since the last build
func (e *Engine) dispatcherFor(s *config.Settings) (transport.Dispatcher, error) {
	if e.custom != nil {
		return e.custom, nil
	}

	opts := s.TransportOptions()
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.dispatcher != nil && e.builtFor == opts {
		return e.dispatcher, nil
	}

	withLogger := opts
	withLogger.Logger = e.logger.Logger
	d, err := transport.NewResty(withLogger)
	if err != nil {
		return nil, err
	}
	e.dispatcher, e.builtFor = d, opts
	return d, nil
}

// mockDispatcher answers with mock through a full resty stack
func (e *Engine) mockDispatcher(s *config.Settings, mock transport.MockResponse) (transport.Dispatcher, error) {
	opts := s.TransportOptions()
	opts.RateLimit = 0
	opts.Base = &transport.MockRoundTripper{Response: mock}
	opts.Logger = e.logger.Logger
	return transport.NewResty(opts)
}
