package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/GriffinCanCode/actionkit/internal/action"
	"github.com/GriffinCanCode/actionkit/internal/apierr"
	"github.com/GriffinCanCode/actionkit/internal/perf"
	"github.com/GriffinCanCode/actionkit/internal/progress"
	"github.com/GriffinCanCode/actionkit/internal/transport"
	"github.com/fatih/color"
)

var (
	successColor   = color.New(color.FgGreen, color.Bold)
	redirectColor  = color.New(color.FgYellow, color.Bold)
	clientErrColor = color.New(color.FgRed, color.Bold)
	serverErrColor = color.New(color.FgRed, color.Bold, color.BgWhite)
	skipColor      = color.New(color.FgYellow)
	headerKeyColor = color.New(color.FgCyan)
	dimColor       = color.New(color.Faint)
)

type printer struct {
	w io.Writer
}

func newPrinter(w io.Writer) printer {
	return printer{w: w}
}

func (p printer) result(res action.Result[[]byte], showHeaders bool) {
	if res.Skipped() {
		skipColor.Fprintln(p.w, "Skipped: the action requires a token and none is configured")
		return
	}

	resp := res.Response
	if resp == nil {
		return
	}

	statusColor(resp.StatusCode()).Fprintln(p.w, statusLine(resp))
	dimColor.Fprintf(p.w, "  Time: %s\n\n", resp.Duration().Round(time.Millisecond))

	if showHeaders {
		keys := make([]string, 0, len(resp.Header()))
		for k := range resp.Header() {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			for _, v := range resp.Header()[k] {
				headerKeyColor.Fprintf(p.w, "%s", k)
				fmt.Fprintf(p.w, ": %s\n", v)
			}
		}
		fmt.Fprintln(p.w)
	}

	body := resp.Body()
	if res.OK() {
		body = res.Value
	}
	if len(body) > 0 {
		fmt.Fprintln(p.w, string(prettyJSON(body)))
	}
}

func (p printer) report(entries map[string]perf.Entry) {
	if len(entries) == 0 {
		return
	}
	paths := make([]string, 0, len(entries))
	for path := range entries {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	fmt.Fprintln(p.w)
	dimColor.Fprintln(p.w, "Timing:")
	for _, path := range paths {
		e := entries[path]
		fmt.Fprintf(p.w, "  %10s  %s ", e.Duration.Round(time.Microsecond), path)
		dimColor.Fprintf(p.w, "(%s)\n", e.ActionName)
	}
}

func (p printer) progress(ev progress.Event) {
	dimColor.Fprintf(p.w, "  %s %d/%d bytes (%.0f%%)\n", ev.Direction, ev.Sent, ev.Total, ev.Percentage)
}

func printError(w io.Writer, err error) {
	if e, ok := apierr.As(err); ok {
		clientErrColor.Fprintf(w, "Error (%s): ", e.Kind)
		fmt.Fprintln(w, e.Message)
		for field, msgs := range e.FieldErrors() {
			for _, msg := range msgs {
				dimColor.Fprintf(w, "  %s: %s\n", field, msg)
			}
		}
		return
	}
	clientErrColor.Fprint(w, "Error: ")
	fmt.Fprintln(w, err)
}

func statusLine(resp *transport.Response) string {
	if s := resp.Status(); s != "" {
		return s
	}
	return fmt.Sprintf("%d", resp.StatusCode())
}

func statusColor(code int) *color.Color {
	switch {
	case code >= 200 && code < 300:
		return successColor
	case code >= 300 && code < 400:
		return redirectColor
	case code >= 400 && code < 500:
		return clientErrColor
	default:
		return serverErrColor
	}
}

// prettyJSON indents JSON bodies and returns anything else unchanged
func prettyJSON(body []byte) []byte {
	if !json.Valid(body) {
		return body
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, body, "", "  "); err != nil {
		return body
	}
	return buf.Bytes()
}
