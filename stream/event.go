package stream

import "fmt"

// Event represents a structural event from a token source.
type Event struct {
	Type EventType

	// Value fields (only one is set based on Type)
	Key    string `json:",omitempty"`
	String string `json:",omitempty"`
	Number string `json:",omitempty"` // source text of the number
	Bool   bool   `json:",omitempty"`

	// Offset is the byte offset just past the event in the input, or -1
	// when the source does not track it.
	Offset int64
}

// IsValueStart returns true if this event starts a value (as opposed to a key or end marker).
// Value-starting events are: BeginObject, BeginArray, String, Number, Bool, Null.
func (e *Event) IsValueStart() bool {
	return e.Type == EventBeginObject ||
		e.Type == EventBeginArray ||
		e.Type.IsScalar()
}

// Describe renders the event for traces and error messages, e.g. Key("a").
func (e *Event) Describe() string {
	switch e.Type {
	case EventKey:
		return fmt.Sprintf("Key(%q)", e.Key)
	case EventString:
		return fmt.Sprintf("String(%q)", e.String)
	case EventNumber:
		return "Number(" + e.Number + ")"
	case EventBool:
		return fmt.Sprintf("Bool(%t)", e.Bool)
	default:
		return e.Type.String()
	}
}

// EventType represents the type of a structural event.
type EventType int

const (
	EventBeginObject EventType = iota
	EventEndObject
	EventBeginArray
	EventEndArray
	EventKey
	EventString
	EventNumber
	EventBool
	EventNull
)

func (t EventType) String() string {
	switch t {
	case EventBeginObject:
		return "BeginObject"
	case EventEndObject:
		return "EndObject"
	case EventBeginArray:
		return "BeginArray"
	case EventEndArray:
		return "EndArray"
	case EventKey:
		return "Key"
	case EventString:
		return "String"
	case EventNumber:
		return "Number"
	case EventBool:
		return "Bool"
	case EventNull:
		return "Null"
	default:
		return "Unknown"
	}
}

// IsScalar reports whether t carries a terminal value.
func (t EventType) IsScalar() bool {
	switch t {
	case EventString, EventNumber, EventBool, EventNull:
		return true
	default:
		return false
	}
}

func (t EventType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *EventType) UnmarshalText(d []byte) error {
	k := string(d)
	pt, ok := map[string]EventType{
		"BeginObject": EventBeginObject,
		"EndObject":   EventEndObject,
		"BeginArray":  EventBeginArray,
		"EndArray":    EventEndArray,
		"Key":         EventKey,
		"String":      EventString,
		"Number":      EventNumber,
		"Bool":        EventBool,
		"Null":        EventNull,
	}[k]
	if ok {
		*t = pt
		return nil
	}
	return fmt.Errorf("unknown type %q", k)
}
