package main

import (
	"context"
	"fmt"
	"io"

	"github.com/scott-cotton/cli"

	"github.com/signadot/jstream/libdiff"
	"github.com/signadot/jstream/source"
)

func diff(cfg *DiffConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Diff.Parse(cc, args)
	if err != nil {
		cfg.Diff.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) != 2 {
		return fmt.Errorf("%w: diff requires 2 args, got %v", cli.ErrUsage, args)
	}
	changed, err := cfg.diffFiles(cfg.baseContext(), cc.Out, cc.In, args[0], args[1])
	if err != nil {
		return err
	}
	if changed {
		return cli.ExitCodeErr(1)
	}
	return nil
}

// diffFiles writes the record diff of files a and b to w and reports
// whether they differ.
func (cfg *DiffConfig) diffFiles(ctx context.Context, w io.Writer, stdin io.Reader, a, b string) (bool, error) {
	if err := cfg.check(); err != nil {
		return false, err
	}
	if a == b {
		return false, fmt.Errorf("%w: diff of %s with itself", cli.ErrUsage, a)
	}
	ina, err := source.Open(a, stdin)
	if err != nil {
		return false, fmt.Errorf("error opening %s: %w", a, err)
	}
	defer ina.Close()
	inb, err := source.Open(b, stdin)
	if err != nil {
		return false, fmt.Errorf("error opening %s: %w", b, err)
	}
	defer inb.Close()
	ra, err := ina.Events(cfg.driver())
	if err != nil {
		return false, err
	}
	rb, err := inb.Events(cfg.driver())
	if err != nil {
		return false, err
	}
	lines, err := libdiff.Diff(ctx, ra, rb, cfg.streamOpts(a)...)
	if err != nil {
		return false, err
	}
	if err := libdiff.Write(w, lines, cfg.All, cfg.diffColors(w)); err != nil {
		return false, fmt.Errorf("error writing diff: %w", err)
	}
	return libdiff.Changed(lines), nil
}
