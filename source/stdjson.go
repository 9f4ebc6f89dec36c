package source

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/signadot/jstream/stream"
)

// NewStdJSON returns an event reader tokenizing JSON from r with the
// standard library decoder. Unlike NewJSON it records the input offset of
// every event and of syntax errors.
func NewStdJSON(r io.Reader) stream.EventReader {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	return &tokenizer{
		read: func(ev *stream.Event) error {
			tok, err := dec.Token()
			if err != nil {
				if err == io.EOF {
					return err
				}
				off := dec.InputOffset()
				var se *json.SyntaxError
				if errors.As(err, &se) {
					off = se.Offset
				}
				return &stream.Error{Kind: stream.TokenSourceError, Offset: off, Err: err}
			}
			return stdJSONEvent(tok, ev)
		},
		offset: dec.InputOffset,
	}
}

func stdJSONEvent(tok json.Token, ev *stream.Event) error {
	switch v := tok.(type) {
	case json.Delim:
		switch v {
		case '{':
			ev.Type = stream.EventBeginObject
		case '}':
			ev.Type = stream.EventEndObject
		case '[':
			ev.Type = stream.EventBeginArray
		case ']':
			ev.Type = stream.EventEndArray
		default:
			return fmt.Errorf("unexpected delimiter %q", rune(v))
		}
	case string:
		ev.Type = stream.EventString
		ev.String = v
	case json.Number:
		ev.Type = stream.EventNumber
		ev.Number = string(v)
	case float64:
		ev.Type = stream.EventNumber
		ev.Number = strconv.FormatFloat(v, 'g', -1, 64)
	case bool:
		ev.Type = stream.EventBool
		ev.Bool = v
	case nil:
		ev.Type = stream.EventNull
	default:
		return fmt.Errorf("unexpected token %T", tok)
	}
	return nil
}
