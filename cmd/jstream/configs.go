package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/scott-cotton/cli"

	"github.com/signadot/jstream/debug"
	"github.com/signadot/jstream/jpath"
	"github.com/signadot/jstream/libdiff"
	"github.com/signadot/jstream/source"
	"github.com/signadot/jstream/stream"
	"github.com/signadot/jstream/writer"
)

type MainConfig struct {
	Writer   string `cli:"name=w aliases=writer desc='record writer: pointer, kpath, jsonpath or digest'"`
	Empty    bool   `cli:"name=e aliases=empty desc='write markers for empty objects and arrays'"`
	Sep      string `cli:"name=sep desc='separator between path and value (default tab)'"`
	Where    string `cli:"name=where desc='only write records for which this expr-lang expression holds'"`
	In       string `cli:"name=in desc='input driver: go-json, encoding/json or yaml'"`
	Color    bool   `cli:"name=color desc='color output (default when writing to a terminal)'"`
	MaxDepth int    `cli:"name=max-depth desc='fail on nesting deeper than this, 0 for no limit'"`
	Jobs     int    `cli:"name=j desc='number of files to process in parallel (default GOMAXPROCS)'"`
	Verbose  bool   `cli:"name=v desc='log progress to stderr'"`
	Gops     bool   `cli:"name=gops desc='start the gops diagnostics agent'"`

	Ctx      context.Context
	Out      string
	CloseOut func() error

	Main *cli.Command
}

func (cfg *MainConfig) outOpt(cc *cli.Context, a string) (any, error) {
	cfg.Out = a
	if a == "-" {
		return nil, nil
	}
	f, err := os.OpenFile(cfg.Out, os.O_CREATE|os.O_TRUNC|os.O_RDWR, 0644)
	if err != nil {
		return nil, err
	}
	cc.Out = f
	cfg.CloseOut = f.Close
	return nil, nil
}

// closeOut closes the -o file. Its error is returned when err is nil.
func (cfg *MainConfig) closeOut(err error) error {
	if cfg.CloseOut == nil {
		return err
	}
	if cerr := cfg.CloseOut(); cerr != nil && err == nil {
		return fmt.Errorf("error closing %s: %w", cfg.Out, cerr)
	}
	return err
}

func (cfg *MainConfig) baseContext() context.Context {
	if cfg.Ctx == nil {
		return context.Background()
	}
	return cfg.Ctx
}

func (cfg *MainConfig) driver() string {
	if cfg.In == "" {
		return source.DefaultDriver
	}
	return cfg.In
}

func (cfg *MainConfig) jobs() int {
	if cfg.Jobs <= 0 {
		return runtime.GOMAXPROCS(0)
	}
	return cfg.Jobs
}

// check validates option values before any input is read.
func (cfg *MainConfig) check() error {
	if _, err := source.Lookup(cfg.driver()); err != nil {
		return fmt.Errorf("%w: %w", cli.ErrUsage, err)
	}
	if _, err := writer.Lookup(cfg.Writer); err != nil {
		return fmt.Errorf("%w: %w", cli.ErrUsage, err)
	}
	if cfg.MaxDepth < 0 {
		return fmt.Errorf("%w: -max-depth must not be negative", cli.ErrUsage)
	}
	return nil
}

// eventTrace is one line of the JSTREAM_DEBUG_EVENTS trace.
type eventTrace struct {
	File  string        `json:"file"`
	Event *stream.Event `json:"event"`
}

func (cfg *MainConfig) streamOpts(name string) []stream.Option {
	res := []stream.Option{
		stream.WithEmptyContainers(cfg.Empty),
		stream.WithMaxDepth(cfg.MaxDepth),
	}
	if debug.Events() {
		res = append(res, stream.WithEventHook(func(ev *stream.Event) {
			debug.LogAny(eventTrace{File: name, Event: ev})
		}))
	}
	return res
}

// useColor reports whether output to w is colored: as set by -color, or
// else when w is a terminal.
func (cfg *MainConfig) useColor(w io.Writer) bool {
	if cfg.Main != nil {
		for _, opt := range cfg.Main.Opts {
			if opt.Name != "color" {
				continue
			}
			if opt.Value != nil {
				return cfg.Color
			}
			break
		}
	}
	if cfg.Color {
		return true
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd())
}

func (cfg *MainConfig) writerColors(w io.Writer) *writer.Colors {
	if !cfg.useColor(w) {
		return nil
	}
	color.NoColor = false
	return writer.NewColors()
}

func (cfg *MainConfig) diffColors(w io.Writer) *libdiff.Colors {
	if !cfg.useColor(w) {
		return nil
	}
	color.NoColor = false
	return libdiff.NewColors()
}

// newWriter builds the record writer for one input on top of out. A
// non-empty prefix starts every line.
func (cfg *MainConfig) newWriter(out io.Writer, prefix string, colors *writer.Colors) (stream.Writer, error) {
	f, err := writer.Lookup(cfg.Writer)
	if err != nil {
		return nil, err
	}
	sep := cfg.Sep
	if sep == "" {
		sep = "\t"
	}
	opts := []writer.Option{writer.WithSeparator(sep), writer.WithColors(colors)}
	if prefix != "" {
		opts = append(opts, writer.WithPrefix(prefix))
	}
	w := f(out, opts...)
	if cfg.Where != "" {
		fw, err := writer.NewFilter(cfg.Where, w)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", cli.ErrUsage, err)
		}
		w = fw
	}
	if debug.Records() {
		w = &tracer{name: prefix, Writer: w}
	}
	return w, nil
}

// tracer logs every record before passing it on.
type tracer struct {
	name string
	stream.Writer
}

func (t *tracer) WritePathValue(p jpath.Path, v stream.Value) error {
	debug.Logf("%srecord %s %s", t.name, p.String(), v.Literal())
	return t.Writer.WritePathValue(p, v)
}

func (t *tracer) Flush() error {
	if f, ok := t.Writer.(stream.Flusher); ok {
		return f.Flush()
	}
	return nil
}

type DiffConfig struct {
	*MainConfig
	All bool `cli:"name=a desc='show equal lines too'"`

	Diff *cli.Command
}

type VerifyConfig struct {
	*MainConfig
	Quiet bool `cli:"name=q desc='only report mismatches'"`

	Verify *cli.Command
}

type WritersConfig struct {
	*MainConfig

	Writers *cli.Command
}
