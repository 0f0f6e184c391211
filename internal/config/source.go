package config

import (
	"context"
	"fmt"
)

// Source yields a string value: a static value, else a synchronous
// callback, else an asynchronous one. The zero Source yields nothing.
type Source struct {
	Value string
	Sync  func() string
	Async func(ctx context.Context) (string, error)
}

// Static returns a source with a fixed value
func Static(v string) Source {
	return Source{Value: v}
}

// FromFunc returns a synchronous source
func FromFunc(fn func() string) Source {
	return Source{Sync: fn}
}

// FromAsync returns an asynchronous source
func FromAsync(fn func(ctx context.Context) (string, error)) Source {
	return Source{Async: fn}
}

// IsZero reports whether no value or callback is set
func (s Source) IsZero() bool {
	return s.Value == "" && s.Sync == nil && s.Async == nil
}

// Resolve walks static, sync then async, returning the first non-empty
// value. An empty result with a nil error means nothing is configured.
func (s Source) Resolve(ctx context.Context) (string, error) {
	if s.Value != "" {
		return s.Value, nil
	}
	if s.Sync != nil {
		if v := s.Sync(); v != "" {
			return v, nil
		}
	}
	if s.Async != nil {
		v, err := s.Async(ctx)
		if err != nil {
			return "", fmt.Errorf("async source: %w", err)
		}
		return v, nil
	}
	return "", nil
}
