package writer

import (
	"bytes"
	"context"
	"errors"
	"regexp"
	"slices"
	"strings"
	"sync"
	"testing"

	"github.com/fatih/color"
	"github.com/google/go-cmp/cmp"

	"github.com/signadot/jstream/jpath"
	"github.com/signadot/jstream/source"
	"github.com/signadot/jstream/stream"
)

const sample = `{"a":1,"b":2,"c":["x","y","z"],"d":{"e":{"f":[{}, 9, "g"]}}}`

func run(t *testing.T, in string, w stream.Writer, options ...stream.Option) {
	t.Helper()
	if _, err := stream.Stream(context.Background(), source.NewJSON(strings.NewReader(in)), w, options...); err != nil {
		t.Fatal(err)
	}
}

func lines(s string) []string {
	res := strings.Split(strings.TrimSuffix(s, "\n"), "\n")
	if len(res) == 1 && res[0] == "" {
		return nil
	}
	return res
}

func TestPointer(t *testing.T) {
	tests := []struct {
		name string
		in   string
		full bool
		want string
	}{
		{
			name: "object",
			in:   `{"a":1, "b":5, "c":9}`,
			want: "/a\t1\n/b\t5\n/c\t9\n",
		},
		{
			name: "array",
			in:   `[1,2,3,null,true,false,"ok"]`,
			want: "/0\t1\n/1\t2\n/2\t3\n/3\tnull\n/4\ttrue\n/5\tfalse\n/6\t\"ok\"\n",
		},
		{
			name: "nested arrays",
			in:   `[1,[2,[3]]]`,
			want: "/0\t1\n/1/0\t2\n/1/1/0\t3\n",
		},
		{
			name: "nulls",
			in:   `[null, [null], null, [null, null]]`,
			want: "/0\tnull\n/1/0\tnull\n/2\tnull\n/3/0\tnull\n/3/1\tnull\n",
		},
		{
			name: "sample",
			in:   sample,
			want: "/a\t1\n/b\t2\n/c/0\t\"x\"\n/c/1\t\"y\"\n/c/2\t\"z\"\n/d/e/f/1\t9\n/d/e/f/2\t\"g\"\n",
		},
		{
			name: "sample full",
			in:   sample,
			full: true,
			want: "/a\t1\n/b\t2\n/c/0\t\"x\"\n/c/1\t\"y\"\n/c/2\t\"z\"\n/d/e/f/0\t{}\n/d/e/f/1\t9\n/d/e/f/2\t\"g\"\n",
		},
		{
			name: "empty object",
			in:   `{}`,
			want: "",
		},
		{
			name: "empty object full",
			in:   `{}`,
			full: true,
			want: "/\t{}\n",
		},
		{
			name: "empty array does not mess up",
			in:   `[[], 1, {}, {"a": []}, 2]`,
			want: "/1\t1\n/4\t2\n",
		},
		{
			name: "root scalar",
			in:   `"hi"`,
			want: "/\t\"hi\"\n",
		},
		{
			name: "escaping",
			in:   `{"a/b":{"~":"tab\there","":"\u0001"}}`,
			want: "/a~1b/~0\t\"tab\\there\"\n/a~1b/\t\"\\u0001\"\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			run(t, tt.in, NewPointer(&buf), stream.WithEmptyContainers(tt.full))
			if diff := cmp.Diff(tt.want, buf.String()); diff != "" {
				t.Errorf("output (-want +got):\n%s", diff)
			}
		})
	}
}

func TestNotations(t *testing.T) {
	in := `{"users":[{"name":"x","a.b":true}],"":{}}`
	tests := []struct {
		writer string
		want   []string
	}{
		{"pointer", []string{"/users/0/name\t\"x\"", "/users/0/a.b\ttrue", "/\t{}"}},
		{"kpath", []string{"users[0].name\t\"x\"", "users[0].\"a.b\"\ttrue", "\"\"\t{}"}},
		{"jsonpath", []string{"$['users'][0]['name']\t\"x\"", "$['users'][0]['a.b']\ttrue", "$['']\t{}"}},
	}
	for _, tt := range tests {
		f, err := Lookup(tt.writer)
		if err != nil {
			t.Fatal(err)
		}
		var buf bytes.Buffer
		run(t, in, f(&buf), stream.WithEmptyContainers(true))
		if diff := cmp.Diff(tt.want, lines(buf.String())); diff != "" {
			t.Errorf("%s (-want +got):\n%s", tt.writer, diff)
		}
	}
}

func TestRootNotation(t *testing.T) {
	tests := []struct {
		w    func(*bytes.Buffer) stream.Writer
		want string
	}{
		{func(b *bytes.Buffer) stream.Writer { return NewPointer(b) }, "/\t1\n"},
		{func(b *bytes.Buffer) stream.Writer { return NewKPath(b) }, ".\t1\n"},
		{func(b *bytes.Buffer) stream.Writer { return NewJSONPath(b) }, "$\t1\n"},
	}
	for _, tt := range tests {
		var buf bytes.Buffer
		run(t, "1", tt.w(&buf))
		if got := buf.String(); got != tt.want {
			t.Errorf("got %q, want %q", got, tt.want)
		}
	}
}

func TestSeparatorAndPrefix(t *testing.T) {
	var buf bytes.Buffer
	run(t, `{"a":[true]}`, NewPointer(&buf, WithSeparator(" = "), WithPrefix("f.json:")))
	if got, want := buf.String(), "f.json:/a/0 = true\n"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

var ansi = regexp.MustCompile("\x1b\\[[0-9;]*m")

func TestColors(t *testing.T) {
	saved := color.NoColor
	color.NoColor = false
	defer func() { color.NoColor = saved }()

	var buf bytes.Buffer
	run(t, `{"a":"s","b":null}`, NewPointer(&buf, WithColors(NewColors()), WithPrefix("x:")))
	out := buf.String()
	if !strings.Contains(out, "\x1b[") {
		t.Fatalf("no escape codes in %q", out)
	}
	if got, want := ansi.ReplaceAllString(out, ""), "x:/a\t\"s\"\nx:/b\tnull\n"; got != want {
		t.Errorf("without escapes got %q, want %q", got, want)
	}
}

// oneShot fails the test if a record is split across Write calls.
type oneShot struct {
	t      *testing.T
	writes []string
}

func (o *oneShot) Write(p []byte) (int, error) {
	if !bytes.HasSuffix(p, []byte("\n")) || bytes.Count(p, []byte("\n")) != 1 {
		o.t.Errorf("partial or multiple records in one write: %q", p)
	}
	o.writes = append(o.writes, string(p))
	return len(p), nil
}

func TestOneWritePerRecord(t *testing.T) {
	o := &oneShot{t: t}
	run(t, sample, NewPointer(o, WithColors(NewColors())), stream.WithEmptyContainers(true))
	if len(o.writes) != 8 {
		t.Errorf("%d writes, want 8", len(o.writes))
	}
}

type failWriter struct{}

func (failWriter) Write([]byte) (int, error) { return 0, errors.New("broken pipe") }

func TestWriteErrorIsWriterError(t *testing.T) {
	_, err := stream.Stream(context.Background(), source.NewJSON(strings.NewReader(sample)), NewPointer(failWriter{}))
	if !errors.Is(err, stream.ErrWriter) {
		t.Errorf("got %v, want writer error", err)
	}
}

func TestDigestOrderIndependent(t *testing.T) {
	a := NewDigest(nil)
	run(t, `{"a":1,"b":[true,null],"c":{}}`, a, stream.WithEmptyContainers(true))
	b := NewDigest(nil)
	run(t, `{"c":{},"b":[true,null],"a":1}`, b, stream.WithEmptyContainers(true))
	if a.Sum() != b.Sum() || a.Count() != 4 || b.Count() != 4 {
		t.Errorf("digests differ: %x/%d vs %x/%d", a.Sum(), a.Count(), b.Sum(), b.Count())
	}
	c := NewDigest(nil)
	run(t, `{"c":{},"b":[null,true],"a":1}`, c, stream.WithEmptyContainers(true))
	if c.Sum() == a.Sum() {
		t.Errorf("different record sets share digest %x", c.Sum())
	}
}

func TestDigestMatchesPointerLines(t *testing.T) {
	var buf bytes.Buffer
	run(t, sample, NewPointer(&buf))
	d := NewDigest(nil)
	run(t, sample, d)
	ls := lines(buf.String())
	slices.Reverse(ls)
	e := NewDigest(nil)
	for _, l := range ls {
		ptr, lit, _ := strings.Cut(l, "\t")
		p := jpath.MustParse(ptr)
		var v stream.Value
		switch {
		case strings.HasPrefix(lit, `"`):
			v = stream.String(strings.Trim(lit, `"`))
		default:
			v = stream.Number(lit)
		}
		if err := e.WritePathValue(p, v); err != nil {
			t.Fatal(err)
		}
	}
	if d.Sum() != e.Sum() {
		t.Errorf("digest %x != digest of reversed pointer lines %x", d.Sum(), e.Sum())
	}
}

func TestDigestFlush(t *testing.T) {
	var buf bytes.Buffer
	d := NewDigest(&buf)
	run(t, `[1]`, d)
	if err := d.Flush(); err != nil {
		t.Fatal(err)
	}
	if !regexp.MustCompile("^[0-9a-f]{16}\t1\n$").MatchString(buf.String()) {
		t.Errorf("got %q", buf.String())
	}
}

func TestFilter(t *testing.T) {
	in := `{"a":1,"b":20,"c":["x",{"x-k":true}],"d":null,"e":{}}`
	tests := []struct {
		where string
		want  []string
	}{
		{`kind == "number" && value > 10`, []string{"/b\t20"}},
		{`key startsWith "x-"`, []string{"/c/1/x-k\ttrue"}},
		{`index == 0`, []string{"/c/0\t\"x\""}},
		{`depth > 1`, []string{"/c/0\t\"x\"", "/c/1/x-k\ttrue"}},
		{`kind == "object"`, []string{"/e\t{}"}},
		{`value == nil && kind == "null"`, []string{"/d\tnull"}},
		{`path matches "^/c/"`, []string{"/c/0\t\"x\"", "/c/1/x-k\ttrue"}},
		{`kpath == "c[1].x-k"`, []string{"/c/1/x-k\ttrue"}},
		{`text == "20"`, []string{"/b\t20"}},
	}
	for _, tt := range tests {
		var buf bytes.Buffer
		f, err := NewFilter(tt.where, NewPointer(&buf))
		if err != nil {
			t.Fatal(err)
		}
		run(t, in, f, stream.WithEmptyContainers(true))
		if diff := cmp.Diff(tt.want, lines(buf.String())); diff != "" {
			t.Errorf("%s (-want +got):\n%s", tt.where, diff)
		}
	}
}

func TestFilterCompileError(t *testing.T) {
	if _, err := NewFilter(`path +`, NewPointer(nil)); err == nil {
		t.Error("expected syntax error")
	}
	if _, err := NewFilter(`depth`, NewPointer(nil)); err == nil {
		t.Error("expected error for non-boolean expression")
	}
}

func TestLocked(t *testing.T) {
	var buf bytes.Buffer
	l := NewLocked(NewPointer(&buf))
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := stream.Stream(context.Background(), source.NewJSON(strings.NewReader(sample)), l); err != nil {
				t.Error(err)
			}
		}()
	}
	wg.Wait()
	got := lines(buf.String())
	if len(got) != 8*7 {
		t.Fatalf("%d lines", len(got))
	}
	for _, ln := range got {
		if !strings.HasPrefix(ln, "/") || !strings.Contains(ln, "\t") {
			t.Errorf("garbled line %q", ln)
		}
	}
}

func TestSink(t *testing.T) {
	var buf bytes.Buffer
	sink := NewSink(&buf)
	var wg sync.WaitGroup
	for _, name := range []string{"a", "b", "c"} {
		wg.Add(1)
		go func() {
			defer wg.Done()
			w := NewPointer(sink, WithPrefix(name+":"))
			if _, err := stream.Stream(context.Background(), source.NewJSON(strings.NewReader(sample)), w); err != nil {
				t.Error(err)
			}
		}()
	}
	wg.Wait()
	if err := sink.Flush(); err != nil {
		t.Fatal(err)
	}
	count := map[string]int{}
	for _, ln := range lines(buf.String()) {
		name, rest, ok := strings.Cut(ln, ":")
		if !ok || !strings.HasPrefix(rest, "/") {
			t.Fatalf("garbled line %q", ln)
		}
		count[name]++
	}
	if diff := cmp.Diff(map[string]int{"a": 7, "b": 7, "c": 7}, count); diff != "" {
		t.Errorf("lines per stream (-want +got):\n%s", diff)
	}
}

func TestDigestPrefix(t *testing.T) {
	var buf bytes.Buffer
	d := NewDigest(&buf, WithPrefix("f.json:"), WithSeparator(" "))
	run(t, `{}`, d)
	if err := d.Flush(); err != nil {
		t.Fatal(err)
	}
	if want := "f.json:0000000000000000\t0\n"; buf.String() != want {
		t.Errorf("got %q, want %q", buf.String(), want)
	}
}

func TestLookup(t *testing.T) {
	if diff := cmp.Diff([]string{"digest", "jsonpath", "kpath", "pointer"}, Names()); diff != "" {
		t.Errorf("names (-want +got):\n%s", diff)
	}
	if _, err := Lookup("csv"); err == nil {
		t.Error("expected error")
	}
	if _, err := Lookup(""); err != nil {
		t.Error(err)
	}
}

func BenchmarkPointer(b *testing.B) {
	var buf bytes.Buffer
	w := NewPointer(&buf)
	p := jpath.Path{jpath.Field("items"), jpath.Index(12), jpath.Field("name/x")}
	v := stream.String("some \"quoted\" value")
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		buf.Reset()
		if err := w.WritePathValue(p, v); err != nil {
			b.Fatal(err)
		}
	}
}
