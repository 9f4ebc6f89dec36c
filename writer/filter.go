package writer

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/signadot/jstream/jpath"
	"github.com/signadot/jstream/stream"
)

// Env is the environment of filter expressions, one per record.
type Env struct {
	// Path is the JSON Pointer of the record, "" at the root.
	Path  string `expr:"path"`
	KPath string `expr:"kpath"`
	// Value is the record value as a Go value; numbers are float64.
	Value any    `expr:"value"`
	Text  string `expr:"text"`
	// Kind is one of string, number, bool, null, object or array.
	Kind  string `expr:"kind"`
	Depth int    `expr:"depth"`
	// Key is the last field name, or "" when the record is an array
	// element or the root.
	Key string `expr:"key"`
	// Index is the last array index, or -1.
	Index int `expr:"index"`
}

// Filter passes to an inner Writer only the records for which a boolean
// expr-lang expression holds, e.g.
//
//	kind == "number" && value > 10
//	key startsWith "x-" || depth > 3
type Filter struct {
	inner stream.Writer
	src   string
	prg   *vm.Program
}

// NewFilter compiles the expression src.
func NewFilter(src string, inner stream.Writer) (*Filter, error) {
	prg, err := expr.Compile(src, expr.Env(Env{}), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("error compiling filter %q: %w", src, err)
	}
	return &Filter{inner: inner, src: src, prg: prg}, nil
}

// Match evaluates the expression for one record.
func (f *Filter) Match(p jpath.Path, v stream.Value) (bool, error) {
	out, err := expr.Run(f.prg, newEnv(p, v))
	if err != nil {
		return false, fmt.Errorf("error evaluating filter %q at %q: %w", f.src, p.String(), err)
	}
	return out.(bool), nil
}

func (f *Filter) WritePathValue(p jpath.Path, v stream.Value) error {
	ok, err := f.Match(p, v)
	if err != nil || !ok {
		return err
	}
	return f.inner.WritePathValue(p, v)
}

func (f *Filter) Flush() error {
	if fl, ok := f.inner.(stream.Flusher); ok {
		return fl.Flush()
	}
	return nil
}

func newEnv(p jpath.Path, v stream.Value) Env {
	env := Env{
		Path:  p.String(),
		KPath: p.KPath(),
		Value: v.Interface(),
		Text:  v.Literal(),
		Kind:  v.Kind.String(),
		Depth: len(p),
		Index: -1,
	}
	if last, ok := p.Last(); ok {
		if last.IsIndex() {
			env.Index = last.Index
		} else {
			env.Key = last.Key
		}
	}
	return env
}
