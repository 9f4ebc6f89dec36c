package stream

import (
	"strconv"

	"github.com/signadot/jstream/jpath"
)

// Kind classifies a Value.
type Kind int

const (
	KindString Kind = iota
	KindNumber
	KindBool
	KindNull
	// KindEmptyObject and KindEmptyArray are markers for empty containers,
	// only produced in full-capability mode.
	KindEmptyObject
	KindEmptyArray
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	case KindNull:
		return "null"
	case KindEmptyObject:
		return "object"
	case KindEmptyArray:
		return "array"
	default:
		return "unknown"
	}
}

// Value is a terminal JSON value, or an empty container marker. It owns its
// data; nothing refers back into tokenizer buffers.
type Value struct {
	Kind Kind
	// Text holds the decoded string for KindString and the source text of
	// the number for KindNumber.
	Text string
	Bool bool
}

func String(s string) Value    { return Value{Kind: KindString, Text: s} }
func Number(n string) Value    { return Value{Kind: KindNumber, Text: n} }
func Bool(b bool) Value        { return Value{Kind: KindBool, Bool: b} }
func Null() Value              { return Value{Kind: KindNull} }
func EmptyObject() Value       { return Value{Kind: KindEmptyObject} }
func EmptyArray() Value        { return Value{Kind: KindEmptyArray} }
func (v Value) IsMarker() bool { return v.Kind == KindEmptyObject || v.Kind == KindEmptyArray }

// AppendLiteral appends the canonical JSON text of v: quoted strings,
// numbers as written in the source, true/false/null, and {} or [] for
// markers.
func (v Value) AppendLiteral(dst []byte) []byte {
	switch v.Kind {
	case KindString:
		return jpath.AppendQuoted(dst, v.Text)
	case KindNumber:
		return append(dst, v.Text...)
	case KindBool:
		return strconv.AppendBool(dst, v.Bool)
	case KindNull:
		return append(dst, "null"...)
	case KindEmptyObject:
		return append(dst, '{', '}')
	case KindEmptyArray:
		return append(dst, '[', ']')
	}
	return dst
}

// Literal returns the canonical JSON text of v.
func (v Value) Literal() string {
	return string(v.AppendLiteral(nil))
}

// Interface returns v as a Go value: string, float64, bool, nil, or an
// empty map or slice for markers. Numbers that do not parse as float64 are
// returned as their source text.
func (v Value) Interface() any {
	switch v.Kind {
	case KindString:
		return v.Text
	case KindNumber:
		f, err := strconv.ParseFloat(v.Text, 64)
		if err != nil {
			return v.Text
		}
		return f
	case KindBool:
		return v.Bool
	case KindEmptyObject:
		return map[string]any{}
	case KindEmptyArray:
		return []any{}
	}
	return nil
}

func valueOf(ev *Event) Value {
	switch ev.Type {
	case EventString:
		return String(ev.String)
	case EventNumber:
		return Number(ev.Number)
	case EventBool:
		return Bool(ev.Bool)
	default:
		return Null()
	}
}

// Record is one unit of output: a path and the value found there. Records
// handed to a Writer borrow their Path from the State; Writers that retain
// a record must Clone the path.
type Record struct {
	Path  jpath.Path
	Value Value
}
