package params

import (
	"reflect"
	"strings"
)

// Request is a payload convertible to an ordered key/value map.
// Implementations own no engine state; Params is called once per execution.
type Request interface {
	Params() *Map
}

// RequestFunc adapts a function to Request
type RequestFunc func() *Map

// Params implements Request
func (f RequestFunc) Params() *Map { return f() }

// Struct adapts a struct (or pointer to struct) to Request using its json tags.
// Fields tagged "-" are skipped, omitempty fields are skipped when zero and
// anonymous struct fields are flattened in declaration order.
func Struct(v any) Request {
	return RequestFunc(func() *Map {
		m := New()
		collectFields(reflect.ValueOf(v), m)
		return m
	})
}

func collectFields(v reflect.Value, m *Map) {
	for v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return
	}

	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		name, omitEmpty, skip := parseTag(field)
		if skip {
			continue
		}

		fv := v.Field(i)
		if field.Anonymous && name == "" && indirectKind(fv) == reflect.Struct {
			collectFields(fv, m)
			continue
		}
		if !field.IsExported() {
			continue
		}

		if omitEmpty && fv.IsZero() {
			continue
		}
		if name == "" {
			name = field.Name
		}
		m.Set(name, fv.Interface())
	}
}

func parseTag(field reflect.StructField) (name string, omitEmpty, skip bool) {
	tag, ok := field.Tag.Lookup("json")
	if !ok {
		return "", false, false
	}
	if tag == "-" {
		return "", false, true
	}
	parts := strings.Split(tag, ",")
	for _, opt := range parts[1:] {
		if opt == "omitempty" || opt == "omitzero" {
			omitEmpty = true
		}
	}
	return parts[0], omitEmpty, false
}

func indirectKind(v reflect.Value) reflect.Kind {
	for v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return reflect.Invalid
		}
		v = v.Elem()
	}
	return v.Kind()
}
