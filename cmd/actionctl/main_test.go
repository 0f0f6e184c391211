package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePairs(t *testing.T) {
	got, err := parsePairs([]string{"id=42", "tag=a", "tag=b", "tag=c", "q= spaced "})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"id":  "42",
		"tag": []string{"a", "b", "c"},
		"q":   "spaced",
	}, got)

	_, err = parsePairs([]string{"novalue"})
	assert.Error(t, err)

	_, err = parsePairs([]string{"=x"})
	assert.ErrorIs(t, err, errEmptyKey)

	got, err = parsePairs([]string{"expr=a=b"})
	require.NoError(t, err)
	assert.Equal(t, "a=b", got["expr"])
}

func TestParseHeaders(t *testing.T) {
	got, err := parseHeaders([]string{
		"Accept: application/json",
		"X-Next=https://example.com/page",
		"Authorization: Basic dXNlcjpwYXNz==",
	})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"Accept":        "application/json",
		"X-Next":        "https://example.com/page",
		"Authorization": "Basic dXNlcjpwYXNz==",
	}, got)

	_, err = parseHeaders([]string{"broken"})
	assert.Error(t, err)
}

func TestRedact(t *testing.T) {
	assert.Equal(t, "", redact(""))
	assert.Equal(t, "****", redact("abc"))
	assert.Equal(t, "****6789", redact("123456789"))
}

func TestPrettyJSON(t *testing.T) {
	assert.Equal(t, "{\n  \"a\": 1\n}", string(prettyJSON([]byte(`{"a":1}`))))
	assert.Equal(t, "plain", string(prettyJSON([]byte("plain"))))
}

func TestCallCommand(t *testing.T) {
	color.NoColor = true

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/users/42" || r.URL.Query().Get("fields") != "name" {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"message":"no such user"}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"name":"ada"}`))
	}))
	defer server.Close()

	run := func(args ...string) (string, error) {
		var out bytes.Buffer
		cmd := newRootCmd()
		cmd.SetOut(&out)
		cmd.SetErr(&out)
		cmd.SetArgs(append([]string{"--base-url", server.URL}, args...))
		err := cmd.Execute()
		return out.String(), err
	}

	t.Run("success", func(t *testing.T) {
		out, err := run("call", "get", "/users/{id}", "-w", "id=42", "-w", "fields=name", "--report")
		require.NoError(t, err)
		assert.Contains(t, out, "200 OK")
		assert.Contains(t, out, `"name": "ada"`)
		assert.Contains(t, out, server.URL+"/users/42")
	})

	t.Run("server error", func(t *testing.T) {
		out, err := run("call", "GET", "/users/{id}", "-w", "id=7")
		require.Error(t, err)
		assert.Contains(t, out, "404 Not Found")
		assert.Contains(t, err.Error(), "no such user")
	})

	t.Run("auth without token skips", func(t *testing.T) {
		t.Setenv("ACTIONKIT_TOKEN", "")
		out, err := run("call", "GET", "/users/{id}", "-w", "id=42", "--auth")
		require.Error(t, err)
		assert.Contains(t, out, "Skipped")
	})

	t.Run("env redacts the token", func(t *testing.T) {
		out, err := run("env", "--token", "supersecret")
		require.NoError(t, err)
		assert.Contains(t, out, "ACTIONKIT_BASE_URL")
		assert.Contains(t, out, "****cret")
		assert.NotContains(t, out, "supersecret")
	})
}
