// Package id generates the identifiers attached to action executions.
//
// Every id is a ULID, optionally prefixed by its type:
//   - exec_<ulid>: one action execution, carried in log fields
//   - trace_<ulid>: a trace spanning nested executions
//   - span_<ulid>: one dispatch within a trace
//
// ULIDs sort by creation time, so log lines keyed by execution id read in
// order.
package id

import (
	"crypto/rand"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// ExecutionID identifies one action execution
type ExecutionID string

// TraceID identifies a trace
type TraceID string

// SpanID identifies a span within a trace
type SpanID string

const (
	ExecutionPrefix = "exec"
	TracePrefix     = "trace"
	SpanPrefix      = "span"
)

// Generator generates ULIDs with optional prefixes
type Generator struct {
	mu      sync.Mutex
	entropy io.Reader
}

var (
	defaultGenerator *Generator
	once             sync.Once
)

// Default returns the singleton generator instance
func Default() *Generator {
	once.Do(func() {
		defaultGenerator = NewGenerator()
	})
	return defaultGenerator
}

// NewGenerator creates a generator with monotonic, cryptographically secure
// entropy. Ids from one generator strictly increase within a millisecond.
func NewGenerator() *Generator {
	return &Generator{entropy: ulid.Monotonic(rand.Reader, 0)}
}

// NewGeneratorWithEntropy creates a generator with a custom entropy source
func NewGeneratorWithEntropy(entropy io.Reader) *Generator {
	return &Generator{entropy: entropy}
}

// Generate creates a new ULID
func (g *Generator) Generate() ulid.ULID {
	g.mu.Lock()
	defer g.mu.Unlock()
	return ulid.MustNew(ulid.Timestamp(time.Now()), g.entropy)
}

// GenerateString creates a new ULID as a string
func (g *Generator) GenerateString() string {
	return g.Generate().String()
}

// GenerateWithPrefix creates a prefixed ULID string
func (g *Generator) GenerateWithPrefix(prefix string) string {
	return fmt.Sprintf("%s_%s", prefix, g.GenerateString())
}

// NewExecutionID generates a new execution ID
func NewExecutionID() ExecutionID {
	return ExecutionID(Default().GenerateWithPrefix(ExecutionPrefix))
}

// NewTraceID generates a new trace ID
func NewTraceID() TraceID {
	return TraceID(Default().GenerateWithPrefix(TracePrefix))
}

// NewSpanID generates a new span ID
func NewSpanID() SpanID {
	return SpanID(Default().GenerateWithPrefix(SpanPrefix))
}

func (id ExecutionID) String() string { return string(id) }
func (id TraceID) String() string     { return string(id) }
func (id SpanID) String() string      { return string(id) }

// Split separates a prefixed id into prefix and ULID. Unprefixed ids
// return an empty prefix.
func Split(id string) (prefix, raw string) {
	if i := strings.LastIndexByte(id, '_'); i >= 0 {
		return id[:i], id[i+1:]
	}
	return "", id
}

// IsValid checks if an ID string is a valid ULID, with or without prefix
func IsValid(id string) bool {
	_, err := Parse(id)
	return err == nil
}

// Parse parses a ULID string, with or without prefix
func Parse(id string) (ulid.ULID, error) {
	_, raw := Split(id)
	return ulid.ParseStrict(raw)
}

// Timestamp extracts the timestamp from an ID
func Timestamp(id string) (time.Time, error) {
	parsed, err := Parse(id)
	if err != nil {
		return time.Time{}, err
	}
	return ulid.Time(parsed.Time()), nil
}
