package params

import (
	"net/http"
	"strings"
)

// Sources are the inputs merged into one call's data
type Sources struct {
	Method string
	Path   string

	// Payload is the Request's own map. Used only when Static is empty.
	Payload *Map
	// Static is the action-level default data; when non-empty it replaces
	// Payload instead of merging with it.
	Static *Map
	// Extra holds per-call Where additions; they win over Payload and Static.
	Extra *Map
	// Query holds per-call WhereQuery additions, always sent as query.
	Query *Map
}

// Composed is the per-call result of Compose
type Composed struct {
	Path  string
	Body  *Map
	Query *Map
}

// Compose merges sources, resolves the path template and places the
// remaining data in the query (GET) or body (every other method).
func Compose(src Sources) Composed {
	data := New()
	if src.Static.Len() > 0 {
		data.Merge(src.Static)
	} else {
		data.Merge(src.Payload)
	}
	data.Merge(src.Extra)

	path, remaining := ResolvePath(src.Path, data)

	out := Composed{Path: path, Body: New(), Query: New()}
	if strings.EqualFold(src.Method, http.MethodGet) {
		out.Query.Merge(remaining)
	} else {
		out.Body = remaining
	}
	out.Query.Merge(src.Query)

	return out
}
