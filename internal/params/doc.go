// Package params holds the data model for action inputs.
//
// A Map is an insertion-ordered key/value collection. Order matters here:
// path placeholders are substituted in insertion order and JSON bodies are
// written in the order callers supplied their fields.
//
// The package provides:
//   - Map: ordered map with merge semantics (later wins, first position kept)
//   - Request: the contract for payload types convertible to a Map
//   - ResolvePath: {name} placeholder substitution consuming matched keys
//   - Compose: merges payload, static, per-call and query data per method
//
// Example Usage:
//
//	data := params.Pairs("id", 123, "limit", 10)
//	path, rest := params.ResolvePath("/users/{id}/posts", data)
//	// path == "/users/123/posts", rest == {limit: 10}
package params
