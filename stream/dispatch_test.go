package stream

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/signadot/jstream/jpath"
)

type lineWriter struct {
	lines []string
}

func (w *lineWriter) WritePathValue(p jpath.Path, v Value) error {
	w.lines = append(w.lines, line(Record{Path: p, Value: v}))
	return nil
}

func TestStreamModes(t *testing.T) {
	restricted := &lineWriter{}
	if _, err := Stream(context.Background(), NewSliceEventReader(sample()...), restricted); err != nil {
		t.Fatal(err)
	}
	full := &lineWriter{}
	if _, err := Stream(context.Background(), NewSliceEventReader(sample()...), full, WithEmptyContainers(true)); err != nil {
		t.Fatal(err)
	}
	if slices.Contains(restricted.lines, "/d/e/f/0\t{}") {
		t.Errorf("restricted mode wrote a marker: %v", restricted.lines)
	}
	if !slices.Contains(full.lines, "/d/e/f/0\t{}") {
		t.Errorf("full mode lacks the marker: %v", full.lines)
	}
	if len(full.lines) != len(restricted.lines)+1 {
		t.Errorf("full %d lines, restricted %d", len(full.lines), len(restricted.lines))
	}
}

func TestStreamEmptyObject(t *testing.T) {
	for _, full := range []bool{false, true} {
		w := &lineWriter{}
		st, err := Stream(context.Background(), NewSliceEventReader(bo(), eo()), w, WithEmptyContainers(full))
		if err != nil {
			t.Fatal(err)
		}
		var want []string
		if full {
			want = []string{"/\t{}"}
		}
		if diff := cmp.Diff(want, w.lines); diff != "" {
			t.Errorf("full=%t (-want +got):\n%s", full, diff)
		}
		if st.Records != int64(len(want)) || st.Events != 2 {
			t.Errorf("full=%t stats %+v", full, st)
		}
	}
}

func TestStreamEmptyInput(t *testing.T) {
	st, err := Stream(context.Background(), NewEmptyEventReader(), &lineWriter{})
	if err != nil || st != (Stats{}) {
		t.Errorf("got %+v, %v", st, err)
	}
}

func TestStreamWriterError(t *testing.T) {
	cause := errors.New("broken pipe")
	n := 0
	w := WriterFunc(func(jpath.Path, Value) error {
		n++
		if n == 2 {
			return cause
		}
		return nil
	})
	st, err := Stream(context.Background(), NewSliceEventReader(sample()...), w)
	if !errors.Is(err, ErrWriter) || !errors.Is(err, cause) {
		t.Fatalf("got %v, want writer error wrapping cause", err)
	}
	if errors.Is(err, ErrStructural) {
		t.Errorf("%v is not structural", err)
	}
	if st.Records != 1 {
		t.Errorf("records = %d, want 1", st.Records)
	}
}

type failingReader struct {
	evs []Event
	err error
}

func (r *failingReader) ReadEvent() (*Event, error) {
	if len(r.evs) == 0 {
		return nil, r.err
	}
	ev := &r.evs[0]
	r.evs = r.evs[1:]
	return ev, nil
}

func TestStreamSourceError(t *testing.T) {
	cause := fmt.Errorf("invalid character 'x'")
	src := &failingReader{evs: []Event{bo(), key("a")}, err: cause}
	_, err := Stream(context.Background(), src, &lineWriter{})
	if !errors.Is(err, TokenSourceError) || !errors.Is(err, cause) {
		t.Fatalf("got %v, want token source error", err)
	}

	// errors that are already classified pass through
	se := &Error{Kind: StructuralError, Msg: "bad", Offset: -1}
	_, err = Stream(context.Background(), &failingReader{err: se}, &lineWriter{})
	if err != se {
		t.Errorf("got %v, want %v", err, se)
	}
}

func TestStreamTruncated(t *testing.T) {
	w := &lineWriter{}
	_, err := Stream(context.Background(), NewSliceEventReader(bo(), key("a"), num("1"), key("b")), w)
	if !errors.Is(err, ErrStructural) {
		t.Fatalf("got %v, want structural error", err)
	}
	if diff := cmp.Diff([]string{"/a\t1"}, w.lines); diff != "" {
		t.Errorf("prefix mismatch (-want +got):\n%s", diff)
	}
}

func TestStreamCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	n := 0
	w := WriterFunc(func(jpath.Path, Value) error {
		n++
		if n == 2 {
			cancel()
		}
		return nil
	})
	st, err := Stream(ctx, NewSliceEventReader(sample()...), w)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("got %v, want context.Canceled", err)
	}
	if n != 2 || st.Records != 2 {
		t.Errorf("wrote %d records (stats %+v) after cancel", n, st)
	}
}

func TestStreamMaxDepth(t *testing.T) {
	_, err := Stream(context.Background(), NewSliceEventReader(ba(), ba(), ea(), ea()), &lineWriter{}, WithMaxDepth(1))
	if !errors.Is(err, ErrStructural) {
		t.Errorf("got %v", err)
	}
}

func TestStreamEventHook(t *testing.T) {
	var seen []string
	hook := func(ev *Event) { seen = append(seen, ev.Describe()) }
	in := []Event{bo(), key("a"), str("b"), eo()}
	if _, err := Stream(context.Background(), NewSliceEventReader(in...), &lineWriter{}, WithEventHook(hook)); err != nil {
		t.Fatal(err)
	}
	want := []string{"BeginObject", `Key("a")`, `String("b")`, "EndObject"}
	if diff := cmp.Diff(want, seen); diff != "" {
		t.Errorf("hook events (-want +got):\n%s", diff)
	}
}

// TestPartitionedTraversal checks that splitting a document at its
// top-level members and processing each with StateAt yields the same
// record multiset as a single pass.
func TestPartitionedTraversal(t *testing.T) {
	serial := &lineWriter{}
	if _, err := Stream(context.Background(), NewSliceEventReader(sample()...), serial, WithEmptyContainers(true)); err != nil {
		t.Fatal(err)
	}

	parts := map[string][]Event{
		"d": {bo(), key("e"), bo(), key("f"), ba(), bo(), eo(), num("9"), str("g"), ea(), eo(), eo()},
		"c": {ba(), str("x"), str("y"), str("z"), ea()},
		"b": {num("2")},
		"a": {num("1")},
	}
	parted := &lineWriter{}
	d := NewDispatcher(parted, WithEmptyContainers(true))
	for k, evs := range parts {
		if _, err := d.Run(context.Background(), NewSliceEventReader(evs...), StateAt(jpath.Path{jpath.Field(k)})); err != nil {
			t.Fatalf("partition %s: %v", k, err)
		}
	}
	slices.Sort(serial.lines)
	slices.Sort(parted.lines)
	if diff := cmp.Diff(serial.lines, parted.lines); diff != "" {
		t.Errorf("record sets differ (-serial +partitioned):\n%s", diff)
	}
}

func TestErrorMessage(t *testing.T) {
	err := &Error{Kind: StructuralError, Msg: `key "a" has no value`, Offset: 12}
	if got, want := err.Error(), `structural error: key "a" has no value at offset 12`; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
	err = &Error{Kind: WriterError, Offset: -1, Err: errors.New("EPIPE")}
	if got, want := err.Error(), "writer error: EPIPE"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestValueLiteral(t *testing.T) {
	tests := []struct {
		v    Value
		want string
	}{
		{String("a\"b"), `"a\"b"`},
		{String(""), `""`},
		{Number("1.50e+3"), "1.50e+3"},
		{Bool(true), "true"},
		{Bool(false), "false"},
		{Null(), "null"},
		{EmptyObject(), "{}"},
		{EmptyArray(), "[]"},
	}
	for _, tt := range tests {
		if got := tt.v.Literal(); got != tt.want {
			t.Errorf("%v.Literal() = %s, want %s", tt.v.Kind, got, tt.want)
		}
	}
}

func TestValueInterface(t *testing.T) {
	if got := Number("2.5").Interface(); got != 2.5 {
		t.Errorf("got %v", got)
	}
	if got := Null().Interface(); got != nil {
		t.Errorf("got %v", got)
	}
	if got, ok := EmptyArray().Interface().([]any); !ok || len(got) != 0 {
		t.Errorf("got %#v", got)
	}
}

func wideArray(n int) []Event {
	evs := []Event{ba()}
	for i := 0; i < n; i++ {
		evs = append(evs, bo(), key("id"), num(fmt.Sprint(i)), key("tags"), ba(), str("a"), str("b"), ea(), eo())
	}
	return append(evs, ea())
}

func BenchmarkStream(b *testing.B) {
	evs := wideArray(1000)
	w := WriterFunc(func(jpath.Path, Value) error { return nil })
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Stream(context.Background(), NewSliceEventReader(evs...), w); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkDeepNesting(b *testing.B) {
	const depth = 10000
	evs := make([]Event, 0, 2*depth+1)
	for i := 0; i < depth; i++ {
		evs = append(evs, ba())
	}
	evs = append(evs, null())
	for i := 0; i < depth; i++ {
		evs = append(evs, ea())
	}
	w := WriterFunc(func(jpath.Path, Value) error { return nil })
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Stream(context.Background(), NewSliceEventReader(evs...), w); err != nil {
			b.Fatal(err)
		}
	}
}
