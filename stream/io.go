package stream

import (
	"io"
)

// EventReader provides events from a source (tokenizer, replay, etc.).
// ReadEvent returns io.EOF at the end of the stream.
type EventReader interface {
	ReadEvent() (*Event, error)
}

// EmptyEventReader provides an empty event stream.
type EmptyEventReader struct{}

// NewEmptyEventReader creates an empty event reader.
func NewEmptyEventReader() *EmptyEventReader {
	return &EmptyEventReader{}
}

// ReadEvent returns io.EOF immediately (empty stream).
func (r *EmptyEventReader) ReadEvent() (*Event, error) {
	return nil, io.EOF
}

// SliceEventReader replays a fixed sequence of events.
type SliceEventReader struct {
	events []Event
	i      int
}

// NewSliceEventReader creates an event reader replaying evs in order.
func NewSliceEventReader(evs ...Event) *SliceEventReader {
	return &SliceEventReader{events: evs}
}

func (r *SliceEventReader) ReadEvent() (*Event, error) {
	if r.i >= len(r.events) {
		return nil, io.EOF
	}
	ev := &r.events[r.i]
	r.i++
	return ev, nil
}

// ReadAll drains r into a slice. The returned events are copies.
func ReadAll(r EventReader) ([]Event, error) {
	var res []Event
	for {
		ev, err := r.ReadEvent()
		if err == io.EOF {
			return res, nil
		}
		if err != nil {
			return res, err
		}
		res = append(res, *ev)
	}
}
