package config

import (
	"net/http"
	"time"

	"github.com/GriffinCanCode/actionkit/internal/apierr"
	"github.com/GriffinCanCode/actionkit/internal/encoding"
	"github.com/GriffinCanCode/actionkit/internal/transport"
)

// DefaultTokenType prefixes the token in the Authorization header
const DefaultTokenType = "Bearer"

// ErrorHook receives classified failures
type ErrorHook func(err *apierr.Error)

// Settings is an immutable configuration snapshot. Do not modify a
// snapshot obtained from a Store; build a Patch instead.
type Settings struct {
	BaseURL   Source
	Token     Source
	TokenType string

	DefaultHeaders http.Header
	DefaultQuery   map[string]string

	ConnectTimeout time.Duration
	// RequestTimeout bounds a whole call; zero means no limit
	RequestTimeout time.Duration

	// Middlewares run in order, after tracing and logging and before auth
	Middlewares []transport.Middleware

	// OnUnauthenticated fires on every 401 response
	OnUnauthenticated ErrorHook
	// OnError fires for every failure unless an action opts out
	OnError ErrorHook

	ListFormat encoding.ListFormat

	UserAgent string
	Cookies   bool
	RateLimit float64
	RateBurst int
}

// Defaults returns an empty snapshot with default values filled in
func Defaults() *Settings {
	return &Settings{
		TokenType:      DefaultTokenType,
		DefaultHeaders: http.Header{},
		DefaultQuery:   map[string]string{},
		ConnectTimeout: 10 * time.Second,
		ListFormat:     encoding.ListMulti,
		RateBurst:      1,
	}
}

// TransportOptions returns the dispatcher options derived from s
func (s *Settings) TransportOptions() transport.Options {
	return transport.Options{
		ConnectTimeout: s.ConnectTimeout,
		UserAgent:      s.UserAgent,
		Cookies:        s.Cookies,
		RateLimit:      s.RateLimit,
		RateBurst:      s.RateBurst,
	}
}

// Patch is a partial update. Zero fields leave the snapshot unchanged.
type Patch struct {
	BaseURL   Source
	Token     Source
	TokenType string

	DefaultHeaders http.Header
	DefaultQuery   map[string]string

	ConnectTimeout time.Duration
	RequestTimeout time.Duration

	// Middlewares replaces the list when non-nil; an empty non-nil slice clears it
	Middlewares []transport.Middleware

	OnUnauthenticated ErrorHook
	OnError           ErrorHook

	ListFormat encoding.ListFormat

	UserAgent string
	Cookies   *bool
	RateLimit float64
	RateBurst int

	// ClearToken drops the token source, applied before Token
	ClearToken bool
}

// Apply returns a new snapshot with p merged over s
func (s *Settings) Apply(p Patch) *Settings {
	next := s.clone()

	if !p.BaseURL.IsZero() {
		next.BaseURL = p.BaseURL
	}
	if p.ClearToken {
		next.Token = Source{}
	}
	if !p.Token.IsZero() {
		next.Token = p.Token
	}
	if p.TokenType != "" {
		next.TokenType = p.TokenType
	}
	for k, v := range p.DefaultHeaders {
		next.DefaultHeaders[http.CanonicalHeaderKey(k)] = append([]string(nil), v...)
	}
	for k, v := range p.DefaultQuery {
		next.DefaultQuery[k] = v
	}
	if p.ConnectTimeout > 0 {
		next.ConnectTimeout = p.ConnectTimeout
	}
	if p.RequestTimeout > 0 {
		next.RequestTimeout = p.RequestTimeout
	}
	if p.Middlewares != nil {
		next.Middlewares = append([]transport.Middleware(nil), p.Middlewares...)
	}
	if p.OnUnauthenticated != nil {
		next.OnUnauthenticated = p.OnUnauthenticated
	}
	if p.OnError != nil {
		next.OnError = p.OnError
	}
	if p.ListFormat != "" {
		next.ListFormat = p.ListFormat
	}
	if p.UserAgent != "" {
		next.UserAgent = p.UserAgent
	}
	if p.Cookies != nil {
		next.Cookies = *p.Cookies
	}
	if p.RateLimit > 0 {
		next.RateLimit = p.RateLimit
	}
	if p.RateBurst > 0 {
		next.RateBurst = p.RateBurst
	}
	return next
}

func (s *Settings) clone() *Settings {
	next := *s
	next.DefaultHeaders = s.DefaultHeaders.Clone()
	if next.DefaultHeaders == nil {
		next.DefaultHeaders = http.Header{}
	}
	next.DefaultQuery = make(map[string]string, len(s.DefaultQuery))
	for k, v := range s.DefaultQuery {
		next.DefaultQuery[k] = v
	}
	next.Middlewares = append([]transport.Middleware(nil), s.Middlewares...)
	return &next
}
