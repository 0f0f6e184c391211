package auth

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/GriffinCanCode/actionkit/internal/apierr"
	"github.com/GriffinCanCode/actionkit/internal/config"
	"github.com/GriffinCanCode/actionkit/internal/transport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestProviderToken(t *testing.T) {
	ctx := context.Background()

	t.Run("static", func(t *testing.T) {
		token, err := NewProvider(config.Static("abc"), nil).Token(ctx)
		require.NoError(t, err)
		assert.Equal(t, "abc", token)
	})

	t.Run("sync", func(t *testing.T) {
		token, err := NewProvider(config.FromFunc(func() string { return "sync" }), nil).Token(ctx)
		require.NoError(t, err)
		assert.Equal(t, "sync", token)
	})

	t.Run("async", func(t *testing.T) {
		src := config.FromAsync(func(context.Context) (string, error) { return "async", nil })
		token, err := NewProvider(src, nil).Token(ctx)
		require.NoError(t, err)
		assert.Equal(t, "async", token)
	})

	t.Run("none", func(t *testing.T) {
		_, err := NewProvider(config.Source{}, nil).Token(ctx)
		assert.ErrorIs(t, err, ErrNoToken)
	})

	t.Run("async failure is unresolved and logged", func(t *testing.T) {
		core, logs := observer.New(zapcore.WarnLevel)
		src := config.FromAsync(func(context.Context) (string, error) { return "", errors.New("refresh failed") })

		_, err := NewProvider(src, zap.New(core)).Token(ctx)
		assert.ErrorIs(t, err, ErrNoToken)
		assert.Equal(t, 1, logs.Len())
	})
}

func TestInject(t *testing.T) {
	var got string
	h := transport.Chain(func(_ context.Context, call *transport.Call) (*transport.Response, error) {
		got = call.Header.Get("Authorization")
		return nil, nil
	}, Inject("abc", "Bearer"))

	_, _ = h(context.Background(), &transport.Call{})
	assert.Equal(t, "Bearer abc", got)
	assert.Equal(t, "abc", Header("abc", ""))
}

func TestUnauthenticated(t *testing.T) {
	respond := func(code int) transport.Handler {
		return func(context.Context, *transport.Call) (*transport.Response, error) {
			return transport.NewResponse(code, "", nil, []byte(`{"message":"expired"}`)), nil
		}
	}
	call := &transport.Call{Method: http.MethodGet, Path: "/me"}

	t.Run("401 fires hook and passes through", func(t *testing.T) {
		var fired *apierr.Error
		h := transport.Chain(respond(http.StatusUnauthorized), Unauthenticated(func(e *apierr.Error) { fired = e }, nil))

		resp, err := h(context.Background(), call)
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode())

		require.NotNil(t, fired)
		assert.True(t, fired.Unauthorized())
		assert.Equal(t, "expired", fired.Message)
	})

	t.Run("other statuses do not fire", func(t *testing.T) {
		fired := false
		h := transport.Chain(respond(http.StatusForbidden), Unauthenticated(func(*apierr.Error) { fired = true }, nil))
		_, _ = h(context.Background(), call)
		assert.False(t, fired)
	})

	t.Run("no response does not fire", func(t *testing.T) {
		fired := false
		h := transport.Chain(func(context.Context, *transport.Call) (*transport.Response, error) {
			return nil, errors.New("refused")
		}, Unauthenticated(func(*apierr.Error) { fired = true }, nil))
		_, err := h(context.Background(), call)
		assert.Error(t, err)
		assert.False(t, fired)
	})

	t.Run("hook panic is contained", func(t *testing.T) {
		h := transport.Chain(respond(http.StatusUnauthorized), Unauthenticated(func(*apierr.Error) { panic("boom") }, nil))
		assert.NotPanics(t, func() { _, _ = h(context.Background(), call) })
	})
}
