package jpath

import (
	"strconv"
)

type EntryKind int

const (
	FieldEntry EntryKind = iota
	ArrayEntry
)

func (k EntryKind) String() string {
	switch k {
	case FieldEntry:
		return "field"
	case ArrayEntry:
		return "index"
	default:
		return "unknown"
	}
}

// Segment is one step of a Path: an object field or an array index.
type Segment struct {
	Kind  EntryKind
	Key   string
	Index int
}

// Field returns an object field segment.
func Field(key string) Segment {
	return Segment{Kind: FieldEntry, Key: key}
}

// Index returns an array index segment.
func Index(i int) Segment {
	return Segment{Kind: ArrayEntry, Index: i}
}

func (s Segment) IsField() bool { return s.Kind == FieldEntry }
func (s Segment) IsIndex() bool { return s.Kind == ArrayEntry }

// Token returns the unescaped text of the segment, the field name or the
// decimal index.
func (s Segment) Token() string {
	if s.Kind == ArrayEntry {
		return strconv.Itoa(s.Index)
	}
	return s.Key
}

// AppendToken appends the segment as an escaped JSON Pointer reference
// token, without the leading '/'.
func (s Segment) AppendToken(dst []byte) []byte {
	if s.Kind == ArrayEntry {
		return strconv.AppendInt(dst, int64(s.Index), 10)
	}
	return appendEscaped(dst, s.Key)
}

// SegmentString returns the kinded-path representation of this single
// segment: a possibly quoted field name or "[n]".
func (s Segment) SegmentString() string {
	return string(s.appendKPath(nil, true))
}

func (s Segment) appendKPath(dst []byte, first bool) []byte {
	if s.Kind == ArrayEntry {
		dst = append(dst, '[')
		dst = strconv.AppendInt(dst, int64(s.Index), 10)
		return append(dst, ']')
	}
	if !first {
		dst = append(dst, '.')
	}
	if kpathQuoteField(s.Key) {
		return AppendQuoted(dst, s.Key)
	}
	return append(dst, s.Key...)
}

func (s Segment) appendNormalized(dst []byte) []byte {
	dst = append(dst, '[')
	if s.Kind == ArrayEntry {
		dst = strconv.AppendInt(dst, int64(s.Index), 10)
		return append(dst, ']')
	}
	dst = appendNormalName(dst, s.Key)
	return append(dst, ']')
}

// kpathQuoteField reports whether a field must be quoted in a kinded path:
// empty names, names with path syntax or whitespace, and names that would
// read as a number.
func kpathQuoteField(v string) bool {
	if v == "" {
		return true
	}
	switch v[0] {
	case '0', '1', '2', '3', '4', '5', '6', '7', '8', '9', '-':
		return true
	}
	for i := 0; i < len(v); i++ {
		switch c := v[i]; c {
		case '.', '[', ']', '{', '}', '"', '\'', ' ', '\\':
			return true
		default:
			if c < 0x20 || c == 0x7f {
				return true
			}
		}
	}
	return false
}
