package source

import (
	"errors"
	"fmt"
	"io"
	"math"
	"slices"
	"strconv"
	"time"

	"github.com/goccy/go-yaml"

	"github.com/signadot/jstream/stream"
)

// YAMLReader replays YAML documents as events. Each document is decoded
// whole, with mappings kept in source order, and then walked with an
// explicit stack. Multi-document streams produce one root value per
// document.
type YAMLReader struct {
	dec   *yaml.Decoder
	stack []cursor
	ev    stream.Event
}

type cursor struct {
	m       yaml.MapSlice
	a       []any
	isMap   bool
	i       int
	keyDone bool
}

// NewYAML returns an event reader for the YAML stream in r.
func NewYAML(r io.Reader) *YAMLReader {
	return &YAMLReader{dec: yaml.NewDecoder(r, yaml.UseOrderedMap())}
}

// ReadEvent returns the next event. The event is reused by the following
// call.
func (r *YAMLReader) ReadEvent() (*stream.Event, error) {
	n := len(r.stack)
	if n == 0 {
		var doc any
		if err := r.dec.Decode(&doc); err != nil {
			if errors.Is(err, io.EOF) {
				return nil, io.EOF
			}
			return nil, fmt.Errorf("yaml: %w", err)
		}
		return r.begin(doc), nil
	}
	top := &r.stack[n-1]
	if top.isMap {
		if top.i >= len(top.m) {
			r.stack = r.stack[:n-1]
			return r.set(stream.Event{Type: stream.EventEndObject}), nil
		}
		item := &top.m[top.i]
		if !top.keyDone {
			top.keyDone = true
			return r.set(stream.Event{Type: stream.EventKey, Key: yamlKey(item.Key)}), nil
		}
		top.keyDone = false
		top.i++
		return r.begin(item.Value), nil
	}
	if top.i >= len(top.a) {
		r.stack = r.stack[:n-1]
		return r.set(stream.Event{Type: stream.EventEndArray}), nil
	}
	v := top.a[top.i]
	top.i++
	return r.begin(v), nil
}

func (r *YAMLReader) set(ev stream.Event) *stream.Event {
	ev.Offset = -1
	r.ev = ev
	return &r.ev
}

// begin starts value v, pushing a cursor when it is a container.
func (r *YAMLReader) begin(v any) *stream.Event {
	switch x := v.(type) {
	case yaml.MapSlice:
		r.stack = append(r.stack, cursor{m: x, isMap: true})
		return r.set(stream.Event{Type: stream.EventBeginObject})
	case map[string]any:
		r.stack = append(r.stack, cursor{m: sortedMapSlice(x), isMap: true})
		return r.set(stream.Event{Type: stream.EventBeginObject})
	case []any:
		r.stack = append(r.stack, cursor{a: x})
		return r.set(stream.Event{Type: stream.EventBeginArray})
	}
	return r.set(yamlScalar(v))
}

func sortedMapSlice(m map[string]any) yaml.MapSlice {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	res := make(yaml.MapSlice, len(keys))
	for i, k := range keys {
		res[i] = yaml.MapItem{Key: k, Value: m[k]}
	}
	return res
}

func yamlScalar(v any) stream.Event {
	switch x := v.(type) {
	case nil:
		return stream.Event{Type: stream.EventNull}
	case bool:
		return stream.Event{Type: stream.EventBool, Bool: x}
	case string:
		return stream.Event{Type: stream.EventString, String: x}
	case time.Time:
		return stream.Event{Type: stream.EventString, String: x.Format(time.RFC3339Nano)}
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			// not representable as a JSON number
			return stream.Event{Type: stream.EventString, String: strconv.FormatFloat(x, 'g', -1, 64)}
		}
		return stream.Event{Type: stream.EventNumber, Number: strconv.FormatFloat(x, 'g', -1, 64)}
	case float32:
		return yamlScalar(float64(x))
	case int:
		return stream.Event{Type: stream.EventNumber, Number: strconv.Itoa(x)}
	case int64:
		return stream.Event{Type: stream.EventNumber, Number: strconv.FormatInt(x, 10)}
	case uint64:
		return stream.Event{Type: stream.EventNumber, Number: strconv.FormatUint(x, 10)}
	case int32, int16, int8, uint, uint32, uint16, uint8:
		return stream.Event{Type: stream.EventNumber, Number: fmt.Sprint(x)}
	default:
		return stream.Event{Type: stream.EventString, String: fmt.Sprint(x)}
	}
}

// yamlKey renders a mapping key; YAML allows non-string keys.
func yamlKey(k any) string {
	switch x := k.(type) {
	case string:
		return x
	case nil:
		return "null"
	}
	ev := yamlScalar(k)
	switch ev.Type {
	case stream.EventNumber:
		return ev.Number
	case stream.EventBool:
		return strconv.FormatBool(ev.Bool)
	}
	return ev.String
}
