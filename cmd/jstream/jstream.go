package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/google/gops/agent"
	"github.com/scott-cotton/cli"
	"golang.org/x/sync/errgroup"

	"github.com/signadot/jstream/debug"
	"github.com/signadot/jstream/source"
	"github.com/signadot/jstream/stream"
	"github.com/signadot/jstream/writer"
)

func jstreamMain(cfg *MainConfig, cc *cli.Context, args []string) (err error) {
	defer func() { err = cfg.closeOut(err) }()
	args, err = cfg.Main.Parse(cc, args)
	if err != nil {
		return err
	}
	if cfg.Verbose {
		logLevel.Set(slog.LevelDebug)
	}
	if cfg.Gops {
		if err := agent.Listen(agent.Options{}); err != nil {
			theLog.Warn("gops agent failed", "error", err)
		} else {
			defer agent.Close()
		}
	}
	if len(args) > 0 {
		if sub := cfg.Main.FindSub(cc, args[0]); sub != nil {
			err = sub.Run(cc, args[1:])
			if errors.Is(err, cli.ErrUsage) {
				sub.Usage(cc, err)
				os.Exit(sub.Exit(cc, err))
			}
			return err
		}
	}
	return cfg.paths(cfg.baseContext(), cc.Out, cc.In, args)
}

// paths writes the records of every file to w, processing up to cfg.jobs()
// files at once. Output is buffered and flushed when all files are done or
// one of them fails.
func (cfg *MainConfig) paths(ctx context.Context, w io.Writer, stdin io.Reader, files []string) error {
	if err := cfg.check(); err != nil {
		return err
	}
	if len(files) == 0 {
		files = []string{"-"}
	}
	nstdin := 0
	for _, file := range files {
		if file == "" || file == "-" {
			nstdin++
		}
	}
	if nstdin > 1 {
		return fmt.Errorf("%w: stdin (-) given more than once", cli.ErrUsage)
	}
	bw := bufio.NewWriter(w)
	out := io.Writer(bw)
	if len(files) > 1 {
		out = writer.NewSink(bw)
	}
	colors := cfg.writerColors(w)
	ws := make([]stream.Writer, len(files))
	for i, file := range files {
		prefix := ""
		if len(files) > 1 {
			prefix = file + ":"
		}
		wr, err := cfg.newWriter(out, prefix, colors)
		if err != nil {
			return err
		}
		ws[i] = wr
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.jobs())
	for i, file := range files {
		g.Go(func() error {
			return cfg.streamFile(gctx, file, stdin, ws[i])
		})
	}
	err := g.Wait()
	for _, wr := range ws {
		f, ok := wr.(stream.Flusher)
		if !ok {
			continue
		}
		if ferr := f.Flush(); ferr != nil && err == nil {
			err = fmt.Errorf("error writing output: %w", ferr)
		}
	}
	if ferr := bw.Flush(); ferr != nil && err == nil {
		err = fmt.Errorf("error writing output: %w", ferr)
	}
	return err
}

func (cfg *MainConfig) streamFile(ctx context.Context, name string, stdin io.Reader, w stream.Writer) error {
	in, err := source.Open(name, stdin)
	if err != nil {
		return fmt.Errorf("error opening %s: %w", name, err)
	}
	defer in.Close()
	src, err := in.Events(cfg.driver())
	if err != nil {
		return err
	}
	if debug.Source() {
		debug.Logf("%s: driver %s compression %s", in.Name, cfg.driver(), in.Compression)
	}
	stats, err := stream.Stream(ctx, src, w, cfg.streamOpts(in.Name)...)
	theLog.Debug("streamed", "file", in.Name, "events", stats.Events, "records", stats.Records)
	if err != nil {
		return fmt.Errorf("error reading %s: %w", in.Name, err)
	}
	return nil
}
