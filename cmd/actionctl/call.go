package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/GriffinCanCode/actionkit/internal/action"
	"github.com/GriffinCanCode/actionkit/internal/decode"
	"github.com/GriffinCanCode/actionkit/internal/encoding"
	"github.com/GriffinCanCode/actionkit/internal/progress"
	"github.com/spf13/cobra"
)

type callOptions struct {
	where   []string
	query   []string
	headers []string
	files   []string

	auth      bool
	multipart bool
	report    bool
	verbose   bool
	timeout   time.Duration
}

func newCallCmd(g *globalOptions) *cobra.Command {
	o := &callOptions{}

	cmd := &cobra.Command{
		Use:   "call <method> <path>",
		Short: "Execute one action",
		Example: `  actionctl call GET /users/{id} --where id=42 --where fields=id --where fields=name
  actionctl call DELETE /sessions/current --auth
  actionctl call POST /uploads --file avatar=./me.png --where caption=hi`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.run(cmd, g, args[0], args[1])
		},
	}

	f := cmd.Flags()
	f.StringArrayVarP(&o.where, "where", "w", nil, "Add data as key=value; fills placeholders, then query (GET) or body")
	f.StringArrayVarP(&o.query, "query", "q", nil, "Add a query parameter as key=value, whatever the method")
	f.StringArrayVarP(&o.headers, "header", "H", nil, "Add a header as 'Key: value' or Key=value")
	f.StringArrayVarP(&o.files, "file", "F", nil, "Attach a file as field=path (implies --multipart)")
	f.BoolVar(&o.auth, "auth", false, "Require the configured token; skip the call without one")
	f.BoolVar(&o.multipart, "multipart", false, "Send the body as multipart/form-data")
	f.BoolVar(&o.report, "report", false, "Print the timing report")
	f.BoolVarP(&o.verbose, "verbose", "v", false, "Show response headers and transfer progress")
	f.DurationVar(&o.timeout, "timeout", 0, "Request timeout (0 uses ACTIONKIT_REQUEST_TIMEOUT)")

	return cmd
}

func (o *callOptions) run(cmd *cobra.Command, g *globalOptions, method, path string) error {
	engine, err := g.engine()
	if err != nil {
		return err
	}
	defer func() { _ = engine.Logger().Sync() }()

	where, err := parsePairs(o.where)
	if err != nil {
		return err
	}
	query, err := parsePairs(o.query)
	if err != nil {
		return err
	}
	headers, err := parseHeaders(o.headers)
	if err != nil {
		return err
	}

	mode := encoding.JSON
	if o.multipart || len(o.files) > 0 {
		mode = encoding.Multipart
	}

	a := action.New(action.Definition[[]byte]{
		Method:       method,
		Path:         path,
		AuthRequired: o.auth,
		Encoding:     mode,
		Decode:       decode.Bytes(),
	}).
		WithEngine(engine).
		WhereMap(where).
		WhereMapQuery(query).
		WithHeaders(headers)

	closeFiles, err := attachFiles(a, o.files)
	if err != nil {
		return err
	}
	defer closeFiles()

	if o.timeout > 0 {
		a.WithTimeout(o.timeout)
	}

	out := newPrinter(cmd.OutOrStdout())
	if o.verbose {
		progressOut := newPrinter(cmd.ErrOrStderr())
		a.WithProgress(func(ev progress.Event) { progressOut.progress(ev) })
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	res := a.Execute(ctx)

	out.result(res, o.verbose)
	if o.report {
		out.report(engine.Report())
	}

	switch res.Outcome {
	case action.OutcomeFailed:
		return res.Err
	case action.OutcomeSkipped:
		return action.ErrSkipped
	}
	return nil
}

// attachFiles opens every field=path pair as a multipart file value
func attachFiles(a *action.Action[[]byte], pairs []string) (func(), error) {
	var closers []io.Closer
	closeAll := func() {
		for _, c := range closers {
			_ = c.Close()
		}
	}

	for _, pair := range pairs {
		field, path, err := splitPair(pair, "=")
		if err != nil {
			closeAll()
			return nil, err
		}
		f, err := os.Open(path)
		if err != nil {
			closeAll()
			return nil, fmt.Errorf("open %s: %w", path, err)
		}
		closers = append(closers, f)
		a.Where(field, encoding.File{Name: filepath.Base(path), Reader: f})
	}
	return closeAll, nil
}
