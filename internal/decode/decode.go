// Package decode provides response builders for actions.
//
// A Decoder turns a successful response into the action's value. Returning
// an error (or panicking) makes the execution fail with a parse error that
// keeps the raw body.
package decode

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/GriffinCanCode/actionkit/internal/transport"
	"github.com/bytedance/sonic"
	"github.com/goccy/go-yaml"
	"github.com/pelletier/go-toml/v2"
	"golang.org/x/net/html/charset"
)

// Decoder builds a typed value from a response
type Decoder[T any] func(resp *transport.Response) (T, error)

// JSON decodes the body with sonic. An empty body yields the zero value.
func JSON[T any]() Decoder[T] {
	return func(resp *transport.Response) (T, error) {
		var out T
		body := bytes.TrimSpace(resp.Body())
		if len(body) == 0 {
			return out, nil
		}
		if err := sonic.Unmarshal(body, &out); err != nil {
			return out, fmt.Errorf("decode json: %w", err)
		}
		return out, nil
	}
}

// YAML decodes the body with go-yaml
func YAML[T any]() Decoder[T] {
	return func(resp *transport.Response) (T, error) {
		var out T
		if len(bytes.TrimSpace(resp.Body())) == 0 {
			return out, nil
		}
		if err := yaml.Unmarshal(resp.Body(), &out); err != nil {
			return out, fmt.Errorf("decode yaml: %w", err)
		}
		return out, nil
	}
}

// TOML decodes the body with go-toml
func TOML[T any]() Decoder[T] {
	return func(resp *transport.Response) (T, error) {
		var out T
		if err := toml.Unmarshal(resp.Body(), &out); err != nil {
			return out, fmt.Errorf("decode toml: %w", err)
		}
		return out, nil
	}
}

// Auto picks YAML, TOML or JSON from the response Content-Type
func Auto[T any]() Decoder[T] {
	jsonDec, yamlDec, tomlDec := JSON[T](), YAML[T](), TOML[T]()
	return func(resp *transport.Response) (T, error) {
		switch ct := resp.ContentType(); {
		case strings.Contains(ct, "yaml"):
			return yamlDec(resp)
		case strings.Contains(ct, "toml"):
			return tomlDec(resp)
		default:
			return jsonDec(resp)
		}
	}
}

// Map decodes a JSON object
func Map() Decoder[map[string]any] {
	return JSON[map[string]any]()
}

// Text returns the body as UTF-8, transcoding from the declared or
// sniffed charset
func Text() Decoder[string] {
	return func(resp *transport.Response) (string, error) {
		r, err := charset.NewReader(bytes.NewReader(resp.Body()), resp.Header().Get("Content-Type"))
		if err != nil {
			return "", fmt.Errorf("decode text: %w", err)
		}
		out, err := io.ReadAll(r)
		if err != nil {
			return "", fmt.Errorf("decode text: %w", err)
		}
		return string(out), nil
	}
}

// Bytes returns the raw body
func Bytes() Decoder[[]byte] {
	return func(resp *transport.Response) ([]byte, error) {
		return resp.Body(), nil
	}
}

// None ignores the body
func None() Decoder[struct{}] {
	return func(*transport.Response) (struct{}, error) {
		return struct{}{}, nil
	}
}
