package main

import (
	"errors"
	"fmt"
	"strings"
)

var errEmptyKey = errors.New("empty key")

// parsePairs turns repeated key=value flags into action data. A key given
// more than once becomes a list.
func parsePairs(pairs []string) (map[string]any, error) {
	out := make(map[string]any, len(pairs))
	for _, p := range pairs {
		key, value, err := splitPair(p, "=")
		if err != nil {
			return nil, err
		}
		switch prev := out[key].(type) {
		case nil:
			out[key] = value
		case string:
			out[key] = []string{prev, value}
		case []string:
			out[key] = append(prev, value)
		}
	}
	return out, nil
}

// parseHeaders accepts "Key: value" and Key=value, split at whichever
// separator comes first
func parseHeaders(pairs []string) (map[string]string, error) {
	out := make(map[string]string, len(pairs))
	for _, p := range pairs {
		i := strings.IndexAny(p, ":=")
		if i < 0 {
			return nil, fmt.Errorf("invalid header %q, expected 'Key: value'", p)
		}
		key, value, err := splitPair(p, p[i:i+1])
		if err != nil {
			return nil, err
		}
		out[key] = value
	}
	return out, nil
}

func splitPair(p, sep string) (string, string, error) {
	key, value, ok := strings.Cut(p, sep)
	if !ok {
		return "", "", fmt.Errorf("invalid pair %q, expected key%svalue", p, sep)
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return "", "", fmt.Errorf("invalid pair %q: %w", p, errEmptyKey)
	}
	return key, strings.TrimSpace(value), nil
}
