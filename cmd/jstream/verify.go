package main

import (
	"context"
	"fmt"
	"io"

	"github.com/scott-cotton/cli"

	"github.com/signadot/jstream/source"
	"github.com/signadot/jstream/verify"
)

func verifyCmd(cfg *VerifyConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Verify.Parse(cc, args)
	if err != nil {
		cfg.Verify.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	ok, err := cfg.verifyFiles(cfg.baseContext(), cc.Out, cc.In, args)
	if err != nil {
		return err
	}
	if !ok {
		return cli.ExitCodeErr(1)
	}
	return nil
}

// verifyFiles verifies each file, writing mismatches to w, and reports
// whether all files passed.
func (cfg *VerifyConfig) verifyFiles(ctx context.Context, w io.Writer, stdin io.Reader, files []string) (bool, error) {
	if d := cfg.driver(); d != source.DefaultDriver && d != "encoding/json" {
		return false, fmt.Errorf("%w: verify reads JSON only, not %s", cli.ErrUsage, d)
	}
	if len(files) == 0 {
		files = []string{"-"}
	}
	ok := true
	for _, file := range files {
		rep, err := verifyFile(ctx, file, stdin)
		if err != nil {
			return false, err
		}
		for _, m := range rep.Mismatches {
			if _, err := fmt.Fprintf(w, "%s: %s\n", file, m); err != nil {
				return false, err
			}
		}
		if !rep.OK() {
			ok = false
			theLog.Warn("verify failed", "file", file, "records", rep.Records, "mismatches", len(rep.Mismatches))
			continue
		}
		if !cfg.Quiet {
			if _, err := fmt.Fprintf(w, "%s: ok, %d records\n", file, rep.Records); err != nil {
				return false, err
			}
		}
	}
	return ok, nil
}

func verifyFile(ctx context.Context, name string, stdin io.Reader) (*verify.Report, error) {
	in, err := source.Open(name, stdin)
	if err != nil {
		return nil, fmt.Errorf("error opening %s: %w", name, err)
	}
	defer in.Close()
	d, err := io.ReadAll(in)
	if err != nil {
		return nil, fmt.Errorf("error reading %s: %w", name, err)
	}
	rep, err := verify.Verify(ctx, d)
	if err != nil {
		return nil, fmt.Errorf("error verifying %s: %w", name, err)
	}
	return rep, nil
}
