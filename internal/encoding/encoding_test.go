package encoding

import (
	"io"
	"strings"
	"testing"

	"github.com/GriffinCanCode/actionkit/internal/params"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncode(t *testing.T) {
	t.Run("GET never gets a body", func(t *testing.T) {
		body, err := Encode("GET", Multipart, params.Pairs("a", 1), ListMulti)
		require.NoError(t, err)
		assert.Nil(t, body)
		assert.True(t, body.Empty())
	})

	t.Run("json passes the map through", func(t *testing.T) {
		data := params.Pairs("a", 1)
		body, err := Encode("POST", JSON, data, ListMulti)
		require.NoError(t, err)
		assert.Equal(t, JSON, body.Mode)
		assert.Same(t, data, body.JSON)
		assert.False(t, body.Empty())
	})

	t.Run("multipart expands lists", func(t *testing.T) {
		body, err := Encode("POST", Multipart, params.Pairs("name", "x", "tags", []string{"a", "b"}), ListMultiCompatible)
		require.NoError(t, err)
		require.Len(t, body.Fields, 3)

		assert.Equal(t, "name", body.Fields[0].Param)
		assert.Equal(t, "tags[]", body.Fields[1].Param)
		assert.Equal(t, "tags[]", body.Fields[2].Param)

		v, err := io.ReadAll(body.Fields[2].Reader)
		require.NoError(t, err)
		assert.Equal(t, "b", string(v))
	})

	t.Run("multipart file detects content type", func(t *testing.T) {
		content := `{"hello":"world"}`
		body, err := Encode("PUT", Multipart, params.Pairs("doc", File{Name: "doc.json", Reader: strings.NewReader(content)}), ListMulti)
		require.NoError(t, err)
		require.Len(t, body.Fields, 1)

		f := body.Fields[0]
		assert.Equal(t, "doc.json", f.FileName)
		assert.Equal(t, "application/json", f.ContentType)

		all, err := io.ReadAll(f.Reader)
		require.NoError(t, err)
		assert.Equal(t, content, string(all))
	})

	t.Run("file without reader fails", func(t *testing.T) {
		_, err := Encode("POST", Multipart, params.Pairs("doc", File{Name: "x"}), ListMulti)
		assert.Error(t, err)
	})
}

func TestQueryValues(t *testing.T) {
	q := params.Pairs("page", 1, "ids", []int{1, 2, 3})

	tests := []struct {
		format ListFormat
		key    string
		want   []string
	}{
		{ListMulti, "ids", []string{"1", "2", "3"}},
		{ListCSV, "ids", []string{"1,2,3"}},
		{ListSSV, "ids", []string{"1 2 3"}},
		{ListTSV, "ids", []string{"1\t2\t3"}},
		{ListPipes, "ids", []string{"1|2|3"}},
		{ListMultiCompatible, "ids[]", []string{"1", "2", "3"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			values := QueryValues(q, tt.format)
			assert.Equal(t, "1", values.Get("page"))
			assert.Equal(t, tt.want, values[tt.key])
		})
	}
}

func TestParseListFormat(t *testing.T) {
	f, err := ParseListFormat("")
	require.NoError(t, err)
	assert.Equal(t, ListMulti, f)

	f, err = ParseListFormat("csv")
	require.NoError(t, err)
	assert.Equal(t, ListCSV, f)

	_, err = ParseListFormat("brackets")
	assert.Error(t, err)
}
