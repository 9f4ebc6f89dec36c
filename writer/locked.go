package writer

import (
	"io"
	"sync"

	"github.com/signadot/jstream/jpath"
	"github.com/signadot/jstream/stream"
)

// Locked serializes calls to a Writer shared by concurrent streams. Records
// from different streams may interleave but each is written whole.
type Locked struct {
	mu sync.Mutex
	w  stream.Writer
}

func NewLocked(w stream.Writer) *Locked {
	return &Locked{w: w}
}

func (l *Locked) WritePathValue(p jpath.Path, v stream.Value) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.WritePathValue(p, v)
}

func (l *Locked) Flush() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if f, ok := l.w.(stream.Flusher); ok {
		return f.Flush()
	}
	return nil
}

// Sink is an io.Writer shared by the Line writers of concurrent streams.
// Each Write is atomic, so lines from different streams never mix.
type Sink struct {
	mu sync.Mutex
	w  io.Writer
}

func NewSink(w io.Writer) *Sink {
	return &Sink{w: w}
}

func (s *Sink) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}

// Flush flushes the underlying writer if it buffers.
func (s *Sink) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if f, ok := s.w.(stream.Flusher); ok {
		return f.Flush()
	}
	return nil
}
