package stream

import (
	"io"

	"github.com/signadot/jstream/jpath"
)

// State provides minimal stack/state/path management.
// It just processes events and tracks state: no tokenization, no io.Reader.
// Use this if you already have events; Stream wires a State to a source
// and a Writer.
//
// State keeps one frame per open container and one path segment per frame,
// so memory is proportional to nesting depth. A State is not safe for
// concurrent use.
type State struct {
	stack []frame
	// path[i] is the segment of the child currently open or pending in
	// stack[i]; it is overwritten in place as the frame advances.
	path     jpath.Path
	base     int
	maxDepth int
	err      error
}

type frameKind uint8

const (
	objFrame frameKind = iota
	arrFrame
)

type frame struct {
	kind frameKind
	// n is the next index for arrays and the number of keys seen for
	// objects. A container is empty iff n == 0 when it closes.
	n      int
	hasKey bool
}

// EmitFunc receives the records completed by ProcessEvent. The record's
// Path aliases State storage and is only valid during the call.
type EmitFunc func(Record) error

// NewState creates a new State for tracking structure state.
func NewState() *State {
	return &State{}
}

// StateAt creates a State positioned inside the containers leading to p, as
// if the events of an enclosing document had been processed up to the value
// at p. Events for that value then produce records with paths under p, and
// Finish expects the depth to return to len(p).
//
// StateAt lets a caller process a partition of a document, such as one
// element of a large top-level array, with the same paths a full traversal
// would produce.
func StateAt(p jpath.Path) *State {
	s := NewState()
	for _, seg := range p {
		if seg.IsIndex() {
			s.stack = append(s.stack, frame{kind: arrFrame, n: seg.Index})
		} else {
			s.stack = append(s.stack, frame{kind: objFrame, n: 1, hasKey: true})
		}
		s.path = append(s.path, seg)
	}
	s.base = len(p)
	return s
}

// SetMaxDepth bounds the nesting depth; 0 means unbounded.
func (s *State) SetMaxDepth(n int) {
	s.maxDepth = n
}

// Reset returns s to the root context so it can be reused for a new stream.
// Storage is retained.
func (s *State) Reset() {
	s.stack = s.stack[:0]
	s.path = s.path[:0]
	s.base = 0
	s.err = nil
}

// Err returns the error that invalidated s, if any.
func (s *State) Err() error {
	return s.err
}

// ProcessEvent processes an event and updates state/path tracking, calling
// emit for every record the event completes: a scalar, or, when the event
// closes an empty container, an empty container marker. emit may be nil.
//
// Call this for each event in order. After an error the State is invalid
// and every later call returns the same error.
func (s *State) ProcessEvent(ev *Event, emit EmitFunc) error {
	if s.err != nil {
		return s.err
	}
	if err := s.process(ev, emit); err != nil {
		s.err = err
		return err
	}
	return nil
}

func (s *State) process(ev *Event, emit EmitFunc) error {
	if ev.IsValueStart() {
		if err := s.beginChild(ev); err != nil {
			return err
		}
	}
	switch ev.Type {
	case EventBeginObject, EventBeginArray:
		if s.maxDepth > 0 && len(s.stack)-s.base >= s.maxDepth {
			return structuralf(ev, "nesting exceeds max depth %d at %q", s.maxDepth, s.path.String())
		}
		f := frame{kind: objFrame}
		seg := jpath.Field("")
		if ev.Type == EventBeginArray {
			f.kind = arrFrame
			seg = jpath.Index(0)
		}
		s.stack = append(s.stack, f)
		s.path = append(s.path, seg)

	case EventEndObject, EventEndArray:
		want := objFrame
		if ev.Type == EventEndArray {
			want = arrFrame
		}
		n := len(s.stack)
		if n <= s.base {
			return structuralf(ev, "unexpected %s at depth %d", ev.Type, n)
		}
		top := &s.stack[n-1]
		if top.kind != want {
			return structuralf(ev, "unexpected %s in %s at %q", ev.Type, top.kind, s.path[:n-1].String())
		}
		if top.hasKey {
			return structuralf(ev, "key %q has no value", s.path[n-1].Key)
		}
		if top.n == 0 && emit != nil {
			v := EmptyObject()
			if want == arrFrame {
				v = EmptyArray()
			}
			if err := emit(Record{Path: s.path[:n-1], Value: v}); err != nil {
				return err
			}
		}
		s.stack = s.stack[:n-1]
		s.path = s.path[:n-1]
		s.advance()

	case EventKey:
		n := len(s.stack)
		if n <= s.base {
			return structuralf(ev, "key %q outside object", ev.Key)
		}
		top := &s.stack[n-1]
		if top.kind != objFrame {
			return structuralf(ev, "key %q in array at %q", ev.Key, s.path[:n-1].String())
		}
		if top.hasKey {
			return structuralf(ev, "key %q after key %q", ev.Key, s.path[n-1].Key)
		}
		top.hasKey = true
		top.n++
		s.path[n-1] = jpath.Field(ev.Key)

	case EventString, EventNumber, EventBool, EventNull:
		if emit != nil {
			if err := emit(Record{Path: s.path, Value: valueOf(ev)}); err != nil {
				return err
			}
		}
		s.advance()

	default:
		return structuralf(ev, "unknown event type %d", int(ev.Type))
	}
	return nil
}

// beginChild checks that a value may start in the current context.
func (s *State) beginChild(ev *Event) error {
	n := len(s.stack)
	if n == 0 {
		return nil
	}
	top := &s.stack[n-1]
	if top.kind == objFrame && !top.hasKey {
		return structuralf(ev, "%s without key in object at %q", ev.Type, s.path[:n-1].String())
	}
	return nil
}

// advance counts one consumed child in the top frame.
func (s *State) advance() {
	n := len(s.stack)
	if n == 0 {
		return
	}
	top := &s.stack[n-1]
	switch top.kind {
	case arrFrame:
		top.n++
		s.path[n-1] = jpath.Index(top.n)
	case objFrame:
		top.hasKey = false
	}
}

// Finish checks the end of the stream: every container opened must have
// been closed. Truncated input yields a StructuralError wrapping
// io.ErrUnexpectedEOF.
func (s *State) Finish() error {
	if s.err != nil {
		return s.err
	}
	if n := len(s.stack); n != s.base {
		s.err = &Error{
			Kind:   StructuralError,
			Msg:    "unclosed " + s.stack[n-1].kind.String() + " at " + quotePointer(s.path[:n-1]),
			Offset: -1,
			Err:    io.ErrUnexpectedEOF,
		}
		return s.err
	}
	return nil
}

// Depth returns the current nesting depth (0 = top level).
func (s *State) Depth() int {
	return len(s.stack)
}

// Path returns the path of the value currently open or pending: for an
// array, the index of its next element; for an object, the pending key.
// The result aliases State storage; Clone it to retain it.
func (s *State) Path() jpath.Path {
	return s.path
}

// CurrentPath returns Path as a kinded path (e.g., "", "key", "key[0]").
func (s *State) CurrentPath() string {
	return s.path.KPath()
}

// IsInObject returns true if currently inside an object.
func (s *State) IsInObject() bool {
	n := len(s.stack)
	return n > 0 && s.stack[n-1].kind == objFrame
}

// IsInArray returns true if currently inside an array.
func (s *State) IsInArray() bool {
	n := len(s.stack)
	return n > 0 && s.stack[n-1].kind == arrFrame
}

// CurrentKey returns the pending object key, if in an object and a key
// has been read whose value is not yet complete.
func (s *State) CurrentKey() (string, bool) {
	n := len(s.stack)
	if n == 0 || s.stack[n-1].kind != objFrame || !s.stack[n-1].hasKey {
		return "", false
	}
	return s.path[n-1].Key, true
}

// CurrentIndex returns the index the next element of the current array will
// get, if in an array.
func (s *State) CurrentIndex() (int, bool) {
	n := len(s.stack)
	if n == 0 || s.stack[n-1].kind != arrFrame {
		return 0, false
	}
	return s.stack[n-1].n, true
}

func (k frameKind) String() string {
	if k == arrFrame {
		return "array"
	}
	return "object"
}

func quotePointer(p jpath.Path) string {
	if len(p) == 0 {
		return "root"
	}
	return `"` + p.String() + `"`
}
