package source

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	j "github.com/goccy/go-json"

	"github.com/signadot/jstream/stream"
)

// NewJSON returns an event reader tokenizing JSON from r with
// github.com/goccy/go-json. Numbers keep their source text.
//
// The go-json tokenizer skips ',' and ':' wherever they occur and does not
// check number syntax, so the input is run through a grammar check first;
// malformed input fails with a TokenSourceError carrying its offset.
func NewJSON(r io.Reader) stream.EventReader {
	chk := newCheckReader(r)
	dec := j.NewDecoder(chk)
	dec.UseNumber()
	return &tokenizer{
		read: func(ev *stream.Event) error {
			if chk.err != nil {
				return chk.err
			}
			tok, err := dec.Token()
			if chk.err != nil {
				return chk.err
			}
			if err != nil {
				return err
			}
			return goJSONEvent(tok, ev)
		},
		offset: dec.InputOffset,
	}
}

func goJSONEvent(tok any, ev *stream.Event) error {
	switch v := tok.(type) {
	case j.Delim:
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
	case j.Number:
		// the number text aliases the decoder's read buffer
		ev.Type = stream.EventNumber
		ev.Number = strings.Clone(string(v))
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
