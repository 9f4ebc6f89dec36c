package main

import (
	"fmt"
	"io"

	"github.com/scott-cotton/cli"

	"github.com/signadot/jstream/source"
	"github.com/signadot/jstream/writer"
)

func writers(cfg *WritersConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Writers.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) != 0 {
		return fmt.Errorf("%w: writers takes no arguments", cli.ErrUsage)
	}
	return listWriters(cc.Out)
}

func listWriters(w io.Writer) error {
	fmt.Fprintf(w, "writers:\n")
	for _, name := range writer.Names() {
		mark := ""
		if name == writer.Default {
			mark = " (default)"
		}
		fmt.Fprintf(w, "\t- %s%s\n", name, mark)
	}
	fmt.Fprintf(w, "input drivers:\n")
	for _, name := range source.Names() {
		mark := ""
		if name == source.DefaultDriver {
			mark = " (default)"
		}
		if _, err := fmt.Fprintf(w, "\t- %s%s\n", name, mark); err != nil {
			return err
		}
	}
	return nil
}
