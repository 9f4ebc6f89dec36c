package writer

import (
	"io"

	"github.com/signadot/jstream/jpath"
	"github.com/signadot/jstream/stream"
)

// Line writes one line per record to an io.Writer. Every line is rendered
// into a scratch buffer and written with a single Write call, so a failing
// or cancelled stream never leaves a partial line behind.
//
// A Line is not safe for concurrent use; see Locked.
type Line struct {
	w          io.Writer
	opts       *opts
	appendPath func([]byte, jpath.Path) []byte
	buf, pbuf  []byte
}

// NewPointer returns a Line writing JSON Pointer paths. The root path is
// written as "/".
func NewPointer(w io.Writer, options ...Option) *Line {
	return newLine(w, appendPointer, options)
}

// NewKPath returns a Line writing kinded paths such as a.b[0]. The root path
// is written as ".".
func NewKPath(w io.Writer, options ...Option) *Line {
	return newLine(w, appendKPath, options)
}

// NewJSONPath returns a Line writing RFC 9535 normalized paths such as
// $['a'][0].
func NewJSONPath(w io.Writer, options ...Option) *Line {
	return newLine(w, appendJSONPath, options)
}

func newLine(w io.Writer, f func([]byte, jpath.Path) []byte, options []Option) *Line {
	return &Line{w: w, opts: newOpts(options), appendPath: f}
}

func appendPointer(dst []byte, p jpath.Path) []byte {
	if len(p) == 0 {
		return append(dst, '/')
	}
	return p.AppendPointer(dst)
}

func appendKPath(dst []byte, p jpath.Path) []byte {
	if len(p) == 0 {
		return append(dst, '.')
	}
	return p.AppendKPath(dst)
}

func appendJSONPath(dst []byte, p jpath.Path) []byte {
	return p.AppendJSONPath(dst)
}

func (l *Line) WritePathValue(p jpath.Path, v stream.Value) error {
	l.buf = l.AppendLine(l.buf[:0], p, v)
	_, err := l.w.Write(l.buf)
	return err
}

// AppendLine appends the rendering of one record, including the trailing
// newline, to dst.
func (l *Line) AppendLine(dst []byte, p jpath.Path, v stream.Value) []byte {
	o := l.opts
	if o.colors == nil {
		dst = append(dst, o.prefix...)
		dst = l.appendPath(dst, p)
		dst = append(dst, o.sep...)
		dst = v.AppendLiteral(dst)
		return append(dst, '\n')
	}
	c := o.colors
	if o.prefix != "" {
		dst = append(dst, c.Prefix(o.prefix)...)
	}
	l.pbuf = l.appendPath(l.pbuf[:0], p)
	dst = append(dst, c.Path(string(l.pbuf))...)
	dst = append(dst, c.Sep(o.sep)...)
	l.pbuf = v.AppendLiteral(l.pbuf[:0])
	dst = append(dst, c.value(v.Kind)(string(l.pbuf))...)
	return append(dst, '\n')
}

// Flush flushes the underlying writer if it buffers.
func (l *Line) Flush() error {
	if f, ok := l.w.(stream.Flusher); ok {
		return f.Flush()
	}
	return nil
}
