// Package auth resolves credentials and injects them per call.
//
// A Provider walks its source in order: static token, synchronous
// callback, asynchronous callback. Injection is a transport middleware
// added to one execution's chain only when that action requires auth, so
// concurrent actions never see each other's credentials.
package auth

import (
	"context"
	"errors"
	"net/http"

	"github.com/GriffinCanCode/actionkit/internal/apierr"
	"github.com/GriffinCanCode/actionkit/internal/config"
	"github.com/GriffinCanCode/actionkit/internal/transport"
	"go.uber.org/zap"
)

// ErrNoToken means no source produced a credential
var ErrNoToken = errors.New("no credential available")

// Provider resolves the credential for one execution
type Provider struct {
	source config.Source
	logger *zap.Logger
}

// NewProvider creates a provider over source
func NewProvider(source config.Source, logger *zap.Logger) *Provider {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Provider{source: source, logger: logger}
}

// Token returns the credential or ErrNoToken. A failing async source
// counts as unresolved; the failure is logged, not returned.
func (p *Provider) Token(ctx context.Context) (string, error) {
	token, err := p.source.Resolve(ctx)
	if err != nil {
		p.logger.Warn("Credential source failed", zap.Error(err))
		return "", ErrNoToken
	}
	if token == "" {
		return "", ErrNoToken
	}
	return token, nil
}

// Header formats the Authorization value
func Header(token, tokenType string) string {
	if tokenType == "" {
		return token
	}
	return tokenType + " " + token
}

// Inject sets the Authorization header on every call
func Inject(token, tokenType string) transport.Middleware {
	value := Header(token, tokenType)
	return func(next transport.Handler) transport.Handler {
		return func(ctx context.Context, call *transport.Call) (*transport.Response, error) {
			call.SetHeader("Authorization", value)
			return next(ctx, call)
		}
	}
}

// Unauthenticated fires hook for every 401 response. The response and
// error pass through unchanged.
func Unauthenticated(hook config.ErrorHook, logger *zap.Logger) transport.Middleware {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(next transport.Handler) transport.Handler {
		return func(ctx context.Context, call *transport.Call) (*transport.Response, error) {
			resp, err := next(ctx, call)
			if hook != nil && resp.StatusCode() == http.StatusUnauthorized {
				fire(hook, apierr.Classify(call.Target(), resp, err), logger)
			}
			return resp, err
		}
	}
}

func fire(hook config.ErrorHook, e *apierr.Error, logger *zap.Logger) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Unauthenticated hook panicked", zap.Any("panic", r))
		}
	}()
	hook(e)
}
