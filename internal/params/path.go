package params

import (
	"encoding"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"
)

var placeholderPattern = regexp.MustCompile(`\{([^{}/]+)\}`)

// ResolvePath substitutes {key} placeholders in template with values from data.
// Keys are visited in insertion order; a key consumed by the template is left
// out of the returned map. Placeholders with no matching key stay literal.
func ResolvePath(template string, data *Map) (string, *Map) {
	resolved := template
	remaining := New()

	data.Range(func(key string, value any) bool {
		token := "{" + key + "}"
		if strings.Contains(resolved, token) {
			resolved = strings.ReplaceAll(resolved, token, url.PathEscape(Stringify(value)))
			return true
		}
		remaining.Set(key, value)
		return true
	})

	return resolved, remaining
}

// Placeholders lists the placeholder names in template, in order of appearance
func Placeholders(template string) []string {
	matches := placeholderPattern.FindAllStringSubmatch(template, -1)
	names := make([]string, 0, len(matches))
	for _, match := range matches {
		names = append(names, match[1])
	}
	return names
}

// Unresolved is Placeholders applied to an already resolved path
func Unresolved(path string) []string {
	return Placeholders(path)
}

// Stringify renders a value the way it appears in a path or form field
func Stringify(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case []byte:
		return string(val)
	case bool:
		return strconv.FormatBool(val)
	case int:
		return strconv.Itoa(val)
	case int8, int16, int32, int64:
		return fmt.Sprintf("%d", val)
	case uint, uint8, uint16, uint32, uint64:
		return fmt.Sprintf("%d", val)
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case fmt.Stringer:
		return val.String()
	case encoding.TextMarshaler:
		if b, err := val.MarshalText(); err == nil {
			return string(b)
		}
	}
	return fmt.Sprint(v)
}
