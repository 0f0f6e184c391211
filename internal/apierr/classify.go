package apierr

import (
	"fmt"
	"net/http"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/bytedance/sonic"
)

// maxTextMessage bounds plain-text bodies used verbatim as a message
const maxTextMessage = 512

// messageKeys are the body members inspected for a message, in order
var messageKeys = []string{"message", "error", "error_description", "detail", "title", "msg"}

// Classify turns a failed call into an Error. An existing *Error passes
// through unchanged. A response with status >= 400 is a server error, no
// response is a transport error.
func Classify(target Target, resp Response, err error) (out *Error) {
	if existing, ok := As(err); ok {
		return existing
	}

	defer func() {
		if r := recover(); r != nil {
			out = &Error{
				Kind:    KindTransport,
				Method:  target.Method,
				Path:    target.Path,
				Message: "unclassifiable failure",
				Cause:   fmt.Errorf("classify: %v", r),
			}
		}
	}()

	if hasResponse(resp) && resp.StatusCode() >= 400 {
		return serverError(target, resp, err)
	}

	if err == nil {
		err = ErrNoResponse
	}
	e := &Error{
		Kind:    KindTransport,
		Method:  target.Method,
		Path:    target.Path,
		Message: err.Error(),
		Cause:   err,
	}
	if hasResponse(resp) {
		e.StatusCode = resp.StatusCode()
		e.Body = resp.Body()
	}
	return e
}

// ClassifyParse wraps a decoder failure, keeping the raw response
func ClassifyParse(target Target, resp Response, cause error) *Error {
	if cause == nil {
		cause = ErrDecode
	}
	e := &Error{
		Kind:    KindParse,
		Method:  target.Method,
		Path:    target.Path,
		Message: "failed to parse response: " + cause.Error(),
		Cause:   cause,
	}
	if hasResponse(resp) {
		e.StatusCode = resp.StatusCode()
		e.Body = resp.Body()
	}
	return e
}

func serverError(target Target, resp Response, cause error) *Error {
	body := resp.Body()
	message, structured := extract(body)
	if message == "" {
		message = fallbackMessage(resp)
	}
	return &Error{
		Kind:         KindServer,
		Method:       target.Method,
		Path:         target.Path,
		StatusCode:   resp.StatusCode(),
		Message:      message,
		ServerErrors: structured,
		Body:         body,
		Cause:        cause,
	}
}

// extract reads a message and structured errors from a body, best effort
func extract(body []byte) (string, any) {
	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" {
		return "", nil
	}

	var decoded any
	if err := sonic.UnmarshalString(trimmed, &decoded); err != nil {
		if len(trimmed) <= maxTextMessage && utf8.ValidString(trimmed) && !strings.HasPrefix(trimmed, "<") {
			return trimmed, nil
		}
		return "", nil
	}

	obj, ok := decoded.(map[string]any)
	if !ok {
		return "", nil
	}

	var structured any
	if errs, ok := obj["errors"]; ok {
		structured = errs
	}

	for _, key := range messageKeys {
		switch v := obj[key].(type) {
		case string:
			if v != "" {
				return v, structured
			}
		case map[string]any:
			if msg, ok := v["message"].(string); ok && msg != "" {
				if structured == nil {
					structured = v["details"]
				}
				return msg, structured
			}
		}
	}

	if msg := firstErrorMessage(structured); msg != "" {
		return msg, structured
	}
	return "", structured
}

// firstErrorMessage digs a message out of an "errors" member shaped as a
// list of objects/strings or a field map
func firstErrorMessage(errs any) string {
	switch v := errs.(type) {
	case []any:
		for _, item := range v {
			switch it := item.(type) {
			case string:
				return it
			case map[string]any:
				if msg, ok := it["message"].(string); ok {
					return msg
				}
			}
		}
	case map[string]any:
		fields := FieldErrors(v)
		names := make([]string, 0, len(fields))
		for name := range fields {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			if msgs := fields[name]; len(msgs) > 0 {
				return msgs[0]
			}
		}
	}
	return ""
}

// FieldErrors normalizes a field map such as {"email": ["is invalid"]}
func FieldErrors(errs any) map[string][]string {
	obj, ok := errs.(map[string]any)
	if !ok {
		return nil
	}
	out := make(map[string][]string, len(obj))
	for field, raw := range obj {
		switch v := raw.(type) {
		case string:
			out[field] = []string{v}
		case []any:
			for _, item := range v {
				if s, ok := item.(string); ok {
					out[field] = append(out[field], s)
				}
			}
		}
	}
	return out
}

func fallbackMessage(resp Response) string {
	if status := resp.Status(); status != "" {
		return status
	}
	if text := http.StatusText(resp.StatusCode()); text != "" {
		return text
	}
	return fmt.Sprintf("request failed with status %d", resp.StatusCode())
}

func hasResponse(resp Response) bool {
	if resp == nil {
		return false
	}
	defer func() { _ = recover() }()
	return resp.StatusCode() > 0
}
