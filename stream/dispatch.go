package stream

import (
	"context"
	"errors"
	"io"

	"github.com/signadot/jstream/jpath"
)

// Writer renders path-value records. WritePathValue is called once per
// record with no ordering guarantee; path is only valid during the call.
type Writer interface {
	WritePathValue(path jpath.Path, v Value) error
}

// Flusher is implemented by Writers that buffer output.
type Flusher interface {
	Flush() error
}

// WriterFunc adapts a function to a Writer.
type WriterFunc func(jpath.Path, Value) error

func (f WriterFunc) WritePathValue(path jpath.Path, v Value) error {
	return f(path, v)
}

// Stats counts the work done by a Dispatcher.
type Stats struct {
	Events  int64
	Records int64
}

// Dispatcher forwards records to a Writer, one write per record. In the
// default restricted mode empty container markers are dropped.
type Dispatcher struct {
	w     Writer
	opts  *opts
	stats Stats
}

func NewDispatcher(w Writer, options ...Option) *Dispatcher {
	return &Dispatcher{w: w, opts: newOpts(options)}
}

// Dispatch writes rec unless it is a marker in restricted mode. Writer
// failures are returned as WriterError.
func (d *Dispatcher) Dispatch(rec Record) error {
	if rec.Value.IsMarker() && !d.opts.emptyContainers {
		return nil
	}
	if err := d.w.WritePathValue(rec.Path, rec.Value); err != nil {
		var se *Error
		if errors.As(err, &se) {
			return err
		}
		return writerError(err)
	}
	d.stats.Records++
	return nil
}

// Stats returns the counts accumulated so far.
func (d *Dispatcher) Stats() Stats {
	return d.stats
}

// NewState returns a State configured with the Dispatcher's options.
func (d *Dispatcher) NewState() *State {
	st := NewState()
	st.SetMaxDepth(d.opts.maxDepth)
	return st
}

// Run reads src to the end, feeding each event to st and each completed
// record to the Writer. It stops at the first error or when ctx is done;
// records already written form a valid prefix of the output.
func (d *Dispatcher) Run(ctx context.Context, src EventReader, st *State) (Stats, error) {
	for {
		if err := ctx.Err(); err != nil {
			return d.stats, err
		}
		ev, err := src.ReadEvent()
		if err == io.EOF {
			return d.stats, st.Finish()
		}
		if err != nil {
			var se *Error
			if !errors.As(err, &se) {
				err = sourceError(err)
			}
			return d.stats, err
		}
		d.stats.Events++
		if d.opts.eventHook != nil {
			d.opts.eventHook(ev)
		}
		if err := st.ProcessEvent(ev, d.Dispatch); err != nil {
			return d.stats, err
		}
	}
}

// Stream processes every event of src with a fresh State and writes the
// resulting records to w.
func Stream(ctx context.Context, src EventReader, w Writer, options ...Option) (Stats, error) {
	d := NewDispatcher(w, options...)
	return d.Run(ctx, src, d.NewState())
}
