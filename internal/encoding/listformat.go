package encoding

import (
	"fmt"
	"strings"
)

// ListFormat controls how slice values are serialized into query strings
// and multipart forms.
type ListFormat string

const (
	// ListMulti repeats the key: a=1&a=2
	ListMulti ListFormat = "multi"
	// ListCSV joins with commas: a=1,2
	ListCSV ListFormat = "csv"
	// ListSSV joins with spaces: a=1 2
	ListSSV ListFormat = "ssv"
	// ListTSV joins with tabs
	ListTSV ListFormat = "tsv"
	// ListPipes joins with pipes: a=1|2
	ListPipes ListFormat = "pipes"
	// ListMultiCompatible repeats a bracketed key: a[]=1&a[]=2
	ListMultiCompatible ListFormat = "multiCompatible"
)

// KeyValue is one serialized entry
type KeyValue struct {
	Key   string
	Value string
}

// ParseListFormat validates a list format name. Empty means ListMulti.
func ParseListFormat(s string) (ListFormat, error) {
	switch f := ListFormat(s); f {
	case "":
		return ListMulti, nil
	case ListMulti, ListCSV, ListSSV, ListTSV, ListPipes, ListMultiCompatible:
		return f, nil
	}
	return "", fmt.Errorf("unknown list format %q", s)
}

// Expand serializes items under key
func (f ListFormat) Expand(key string, items []string) []KeyValue {
	switch f {
	case ListCSV:
		return joined(key, items, ",")
	case ListSSV:
		return joined(key, items, " ")
	case ListTSV:
		return joined(key, items, "\t")
	case ListPipes:
		return joined(key, items, "|")
	case ListMultiCompatible:
		return repeated(key+"[]", items)
	default:
		return repeated(key, items)
	}
}

func joined(key string, items []string, sep string) []KeyValue {
	return []KeyValue{{Key: key, Value: strings.Join(items, sep)}}
}

func repeated(key string, items []string) []KeyValue {
	out := make([]KeyValue, len(items))
	for i, item := range items {
		out[i] = KeyValue{Key: key, Value: item}
	}
	return out
}
