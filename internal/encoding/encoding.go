// Package encoding chooses how composed action data goes on the wire.
//
// JSON mode hands the ordered body map to the transport's JSON codec.
// Multipart mode expands the map into resty multipart fields, honouring a
// list format for slice values. GET requests never carry a body.
package encoding

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"reflect"
	"strings"

	"github.com/GriffinCanCode/actionkit/internal/params"
	"github.com/gabriel-vasile/mimetype"
	"github.com/go-resty/resty/v2"
)

// Mode is an action's declared content encoding
type Mode int

const (
	JSON Mode = iota
	Multipart
)

// String returns the mode name
func (m Mode) String() string {
	switch m {
	case JSON:
		return "json"
	case Multipart:
		return "multipart"
	default:
		return "unknown"
	}
}

// sniffLen matches the read limit mimetype uses for detection
const sniffLen = 3072

// File is a body value sent as a file part in multipart mode
type File struct {
	Name        string
	Reader      io.Reader
	ContentType string // detected from content when empty
}

// Body is the encoded request body for one call
type Body struct {
	Mode   Mode
	JSON   *params.Map
	Fields []*resty.MultipartField
}

// Empty reports whether there is nothing to send
func (b *Body) Empty() bool {
	if b == nil {
		return true
	}
	if b.Mode == Multipart {
		return len(b.Fields) == 0
	}
	return b.JSON.Len() == 0
}

// Encode builds the request body for method. It returns nil for GET.
func Encode(method string, mode Mode, body *params.Map, format ListFormat) (*Body, error) {
	if strings.EqualFold(method, http.MethodGet) {
		return nil, nil
	}
	if mode != Multipart {
		return &Body{Mode: JSON, JSON: body}, nil
	}

	out := &Body{Mode: Multipart}
	var err error
	body.Range(func(key string, value any) bool {
		var fields []*resty.MultipartField
		fields, err = multipartFields(key, value, format)
		if err != nil {
			err = fmt.Errorf("encode field %q: %w", key, err)
			return false
		}
		out.Fields = append(out.Fields, fields...)
		return true
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func multipartFields(key string, value any, format ListFormat) ([]*resty.MultipartField, error) {
	switch v := value.(type) {
	case File:
		f, err := filePart(key, v)
		if err != nil {
			return nil, err
		}
		return []*resty.MultipartField{f}, nil
	case *File:
		f, err := filePart(key, *v)
		if err != nil {
			return nil, err
		}
		return []*resty.MultipartField{f}, nil
	}

	items, ok := listItems(value)
	if !ok {
		return []*resty.MultipartField{textPart(key, params.Stringify(value))}, nil
	}

	var fields []*resty.MultipartField
	for _, kv := range format.Expand(key, items) {
		fields = append(fields, textPart(kv.Key, kv.Value))
	}
	return fields, nil
}

func textPart(key, value string) *resty.MultipartField {
	return &resty.MultipartField{
		Param:  key,
		Reader: strings.NewReader(value),
	}
}

func filePart(key string, f File) (*resty.MultipartField, error) {
	if f.Reader == nil {
		return nil, fmt.Errorf("file %q has no reader", f.Name)
	}

	reader := f.Reader
	contentType := f.ContentType
	if contentType == "" {
		head := make([]byte, sniffLen)
		n, err := io.ReadFull(f.Reader, head)
		if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
			return nil, fmt.Errorf("read file %q: %w", f.Name, err)
		}
		head = head[:n]
		contentType = mimetype.Detect(head).String()
		reader = io.MultiReader(bytes.NewReader(head), f.Reader)
	}

	name := f.Name
	if name == "" {
		name = key
	}
	return &resty.MultipartField{
		Param:       key,
		FileName:    name,
		ContentType: contentType,
		Reader:      reader,
	}, nil
}

// QueryValues converts query data to url.Values using format for slices
func QueryValues(query *params.Map, format ListFormat) url.Values {
	values := url.Values{}
	query.Range(func(key string, value any) bool {
		items, ok := listItems(value)
		if !ok {
			values.Set(key, params.Stringify(value))
			return true
		}
		for _, kv := range format.Expand(key, items) {
			values.Add(kv.Key, kv.Value)
		}
		return true
	})
	return values
}

// listItems stringifies slice and array values. Byte slices are scalars.
func listItems(value any) ([]string, bool) {
	if value == nil {
		return nil, false
	}
	if _, isBytes := value.([]byte); isBytes {
		return nil, false
	}
	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	items := make([]string, rv.Len())
	for i := range items {
		items[i] = params.Stringify(rv.Index(i).Interface())
	}
	return items, true
}
