package source

import (
	"github.com/signadot/jstream/stream"
)

// tokenizer turns the token stream of a json Decoder into events. Decoder
// tokens do not distinguish object keys from string values, so tokenizer
// keeps a stack of open containers and whether the innermost object
// expects a key next.
type tokenizer struct {
	// read fills in the type and value of the next token, reporting
	// strings as EventString.
	read   func(ev *stream.Event) error
	offset func() int64
	stack  []container
	ev     stream.Event
}

type container struct {
	obj          bool
	expectingKey bool
}

// ReadEvent returns the next event. The event is reused by the following
// call.
func (t *tokenizer) ReadEvent() (*stream.Event, error) {
	t.ev = stream.Event{Offset: -1}
	if err := t.read(&t.ev); err != nil {
		return nil, err
	}
	ev := &t.ev
	if t.offset != nil {
		ev.Offset = t.offset()
	}
	switch ev.Type {
	case stream.EventBeginObject:
		t.stack = append(t.stack, container{obj: true, expectingKey: true})
	case stream.EventBeginArray:
		t.stack = append(t.stack, container{})
	case stream.EventEndObject, stream.EventEndArray:
		if n := len(t.stack); n > 0 {
			t.stack = t.stack[:n-1]
		}
		t.valueDone()
	case stream.EventString:
		if n := len(t.stack); n > 0 {
			top := &t.stack[n-1]
			if top.obj && top.expectingKey {
				top.expectingKey = false
				ev.Type = stream.EventKey
				ev.Key, ev.String = ev.String, ""
				return ev, nil
			}
		}
		t.valueDone()
	default:
		t.valueDone()
	}
	return ev, nil
}

func (t *tokenizer) valueDone() {
	if n := len(t.stack); n > 0 {
		top := &t.stack[n-1]
		if top.obj {
			top.expectingKey = true
		}
	}
}
