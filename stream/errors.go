package stream

import (
	"fmt"
	"strconv"
)

// ErrorKind classifies stream failures. An ErrorKind is itself an error so
// that errors.Is(err, StructuralError) matches any *Error of that kind.
type ErrorKind int

const (
	// StructuralError reports a stack/token mismatch: an unexpected closer,
	// a key outside an object, a value without a key, or truncated input.
	StructuralError ErrorKind = iota + 1
	// TokenSourceError reports malformed input detected by the tokenizer.
	TokenSourceError
	// WriterError reports a failure of the writer or its sink.
	WriterError
)

var (
	ErrStructural  error = StructuralError
	ErrTokenSource error = TokenSourceError
	ErrWriter      error = WriterError
)

func (k ErrorKind) String() string {
	switch k {
	case StructuralError:
		return "structural error"
	case TokenSourceError:
		return "token source error"
	case WriterError:
		return "writer error"
	default:
		return "ErrorKind(" + strconv.Itoa(int(k)) + ")"
	}
}

func (k ErrorKind) Error() string { return k.String() }

// Error represents a stream error.
type Error struct {
	Kind ErrorKind
	Msg  string
	// Offset is the input byte offset just past the offending event, or -1.
	Offset int64
	// Err is the underlying cause, if any.
	Err error
}

func (e *Error) Error() string {
	msg := e.Kind.String()
	if e.Msg != "" {
		msg += ": " + e.Msg
	}
	if e.Offset >= 0 {
		msg += " at offset " + strconv.FormatInt(e.Offset, 10)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is the ErrorKind of e.
func (e *Error) Is(target error) bool {
	k, ok := target.(ErrorKind)
	return ok && k == e.Kind
}

func structuralf(ev *Event, format string, args ...any) *Error {
	e := &Error{Kind: StructuralError, Msg: fmt.Sprintf(format, args...), Offset: -1}
	if ev != nil && ev.Offset > 0 {
		e.Offset = ev.Offset
	}
	return e
}

func sourceError(err error) *Error {
	return &Error{Kind: TokenSourceError, Offset: -1, Err: err}
}

func writerError(err error) *Error {
	return &Error{Kind: WriterError, Offset: -1, Err: err}
}
