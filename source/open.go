package source

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/signadot/jstream/stream"
)

// Input is an open, decompressed input stream.
type Input struct {
	Name        string
	Compression Compression
	io.Reader
	closers []io.Closer
}

// Open opens the named file for reading; "" and "-" read stdin. Compressed
// input is decompressed transparently.
func Open(name string, stdin io.Reader) (*Input, error) {
	in := &Input{Name: name}
	var r io.Reader = stdin
	if name == "" || name == "-" {
		in.Name = "-"
	} else {
		f, err := os.Open(name)
		if err != nil {
			return nil, err
		}
		in.closers = append(in.closers, f)
		r = f
	}
	dr, c, err := Decompress(r)
	if err != nil {
		in.Close()
		return nil, fmt.Errorf("%s: %w", in.Name, err)
	}
	in.Compression = c
	in.Reader = dr
	in.closers = append([]io.Closer{dr}, in.closers...)
	return in, nil
}

// Events returns an event reader for in using the named driver.
func (in *Input) Events(driver string) (stream.EventReader, error) {
	d, err := Lookup(driver)
	if err != nil {
		return nil, err
	}
	return d.NewReader(in), nil
}

func (in *Input) Close() error {
	var errs []error
	for _, c := range in.closers {
		errs = append(errs, c.Close())
	}
	in.closers = nil
	return errors.Join(errs...)
}
