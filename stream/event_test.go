package stream

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	j "github.com/goccy/go-json"
)

func TestIsValueStart(t *testing.T) {
	for _, ev := range []Event{bo(), ba(), str("s"), num("1"), boolean(false), null()} {
		if !ev.IsValueStart() {
			t.Errorf("%s: not a value start", ev.Describe())
		}
	}
	for _, ev := range []Event{eo(), ea(), key("k")} {
		if ev.IsValueStart() {
			t.Errorf("%s: value start", ev.Describe())
		}
	}
}

func TestEventJSON(t *testing.T) {
	evs := []Event{
		{Type: EventBeginObject, Offset: 1},
		{Type: EventKey, Key: "a", Offset: 4},
		{Type: EventNumber, Number: "1.50", Offset: 9},
		{Type: EventBool, Bool: true, Offset: -1},
		{Type: EventEndObject, Offset: 10},
	}
	d, err := j.Marshal(evs)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{`"Type":"Key","Key":"a"`, `"Type":"Number","Number":"1.50"`} {
		if !strings.Contains(string(d), want) {
			t.Errorf("%s: missing %s", d, want)
		}
	}
	var got []Event
	if err := j.Unmarshal(d, &got); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(evs, got); diff != "" {
		t.Errorf("events mismatch (-want +got):\n%s", diff)
	}

	var ty EventType
	if err := ty.UnmarshalText([]byte("Nope")); err == nil {
		t.Error("expected error for unknown type")
	}
}

func TestReadAllReplay(t *testing.T) {
	evs, err := ReadAll(NewSliceEventReader(sample()...))
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(sample(), evs); diff != "" {
		t.Fatalf("events mismatch (-want +got):\n%s", diff)
	}
	direct, replay := &lineWriter{}, &lineWriter{}
	if _, err := Stream(context.Background(), NewSliceEventReader(sample()...), direct); err != nil {
		t.Fatal(err)
	}
	if _, err := Stream(context.Background(), NewSliceEventReader(evs...), replay); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(direct.lines, replay.lines); diff != "" {
		t.Errorf("replay mismatch (-direct +replay):\n%s", diff)
	}

	cause := errors.New("read failed")
	evs, err = ReadAll(&failingReader{evs: []Event{bo(), key("a")}, err: cause})
	if err != cause || len(evs) != 2 {
		t.Errorf("got %d events, %v", len(evs), err)
	}
}
