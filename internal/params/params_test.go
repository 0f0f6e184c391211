package params

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolvePath(t *testing.T) {
	t.Run("substitutes and consumes matched keys", func(t *testing.T) {
		path, rest := ResolvePath("/users/{id}/posts", Pairs("id", 123, "limit", 10))

		assert.Equal(t, "/users/123/posts", path)
		assert.Equal(t, []string{"limit"}, rest.Keys())
		v, ok := rest.Get("limit")
		require.True(t, ok)
		assert.Equal(t, 10, v)
		assert.False(t, rest.Has("id"))
	})

	t.Run("unmatched placeholder stays literal", func(t *testing.T) {
		path, rest := ResolvePath("/users/{id}", Pairs("limit", 10))

		assert.Equal(t, "/users/{id}", path)
		assert.Equal(t, 1, rest.Len())
		assert.Equal(t, []string{"id"}, Unresolved(path))
	})

	t.Run("repeated placeholder substituted everywhere", func(t *testing.T) {
		path, rest := ResolvePath("/a/{x}/b/{x}", Pairs("x", "v"))

		assert.Equal(t, "/a/v/b/v", path)
		assert.Equal(t, 0, rest.Len())
	})

	t.Run("values are path escaped", func(t *testing.T) {
		path, _ := ResolvePath("/files/{name}", Pairs("name", "a b"))
		assert.Equal(t, "/files/a%20b", path)
	})

	t.Run("nil data", func(t *testing.T) {
		path, rest := ResolvePath("/ping", nil)
		assert.Equal(t, "/ping", path)
		assert.Equal(t, 0, rest.Len())
	})
}

func TestPlaceholders(t *testing.T) {
	assert.Equal(t, []string{"org", "repo"}, Placeholders("/orgs/{org}/repos/{repo}"))
	assert.Empty(t, Placeholders("/health"))
}

func TestCompose(t *testing.T) {
	t.Run("GET places data in query", func(t *testing.T) {
		out := Compose(Sources{Method: "GET", Path: "/items", Extra: Pairs("page", 1)})

		assert.Equal(t, "/items", out.Path)
		assert.Equal(t, 0, out.Body.Len())
		v, ok := out.Query.Get("page")
		require.True(t, ok)
		assert.Equal(t, 1, v)
	})

	t.Run("POST places data in body", func(t *testing.T) {
		out := Compose(Sources{Method: "POST", Path: "/items", Extra: Pairs("page", 1)})

		assert.Equal(t, 0, out.Query.Len())
		v, ok := out.Body.Get("page")
		require.True(t, ok)
		assert.Equal(t, 1, v)
	})

	t.Run("POST query additions stay separate", func(t *testing.T) {
		out := Compose(Sources{
			Method: "POST",
			Path:   "/items/{id}",
			Extra:  Pairs("id", 7, "name", "x"),
			Query:  Pairs("dry_run", true),
		})

		assert.Equal(t, "/items/7", out.Path)
		assert.Equal(t, []string{"name"}, out.Body.Keys())
		assert.Equal(t, []string{"dry_run"}, out.Query.Keys())
	})

	t.Run("static data replaces payload and per-call wins", func(t *testing.T) {
		out := Compose(Sources{
			Method:  "POST",
			Path:    "/x",
			Payload: Pairs("a", 1, "b", 2),
			Static:  Pairs("a", 9),
			Extra:   Pairs("b", 5),
		})

		assert.Equal(t, map[string]any{"a": 9, "b": 5}, out.Body.ToMap())
	})

	t.Run("payload used when static empty", func(t *testing.T) {
		out := Compose(Sources{
			Method:  "PUT",
			Path:    "/x",
			Payload: Pairs("a", 1, "b", 2),
			Static:  New(),
			Extra:   Pairs("b", 3),
		})

		assert.Equal(t, map[string]any{"a": 1, "b": 3}, out.Body.ToMap())
	})

	t.Run("consumed path key never duplicated", func(t *testing.T) {
		out := Compose(Sources{Method: "GET", Path: "/users/{id}", Extra: Pairs("id", 1)})

		assert.Equal(t, "/users/1", out.Path)
		assert.False(t, out.Query.Has("id"))
		assert.False(t, out.Body.Has("id"))
	})
}

func TestMapOrdering(t *testing.T) {
	m := Pairs("z", 1, "a", 2)
	m.Set("m", 3)
	m.Set("z", 4)

	assert.Equal(t, []string{"z", "a", "m"}, m.Keys())

	b, err := m.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `{"z":4,"a":2,"m":3}`, string(b))

	m.Delete("a")
	assert.Equal(t, []string{"z", "m"}, m.Keys())
}

func TestFromMapIsSorted(t *testing.T) {
	m := FromMap(map[string]any{"b": 1, "a": 2, "c": 3})
	assert.Equal(t, []string{"a", "b", "c"}, m.Keys())
}

type address struct {
	City string `json:"city"`
}

type createUser struct {
	address
	Name     string `json:"name"`
	Email    string `json:"email,omitempty"`
	Password string `json:"-"`
	Age      int
	internal string
}

func TestStruct(t *testing.T) {
	req := Struct(&createUser{
		address:  address{City: "Oslo"},
		Name:     "ada",
		Password: "secret",
		Age:      36,
		internal: "x",
	})

	m := req.Params()
	assert.Equal(t, []string{"city", "name", "Age"}, m.Keys())
}

func TestStringify(t *testing.T) {
	assert.Equal(t, "1.5", Stringify(1.5))
	assert.Equal(t, "10", Stringify(float64(10)))
	assert.Equal(t, "true", Stringify(true))
	assert.Equal(t, "", Stringify(nil))
	assert.Equal(t, "42", Stringify(int64(42)))
}
