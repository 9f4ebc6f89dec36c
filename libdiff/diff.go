package libdiff

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"slices"
	"strings"

	diffpatch "github.com/sergi/go-diff/diffmatchpatch"

	"github.com/signadot/jstream/stream"
	"github.com/signadot/jstream/writer"
)

// Op is the kind of a diff line.
type Op int

const (
	Equal Op = iota
	Delete
	Insert
)

func (o Op) String() string {
	switch o {
	case Delete:
		return "-"
	case Insert:
		return "+"
	default:
		return " "
	}
}

// Line is one line of a record-set diff.
type Line struct {
	Op   Op
	Text string
}

// Flatten streams src and returns its pointer lines, without trailing
// newlines, in sorted order.
func Flatten(ctx context.Context, src stream.EventReader, opts ...stream.Option) ([]string, error) {
	var buf bytes.Buffer
	if _, err := stream.Stream(ctx, src, writer.NewPointer(&buf), opts...); err != nil {
		return nil, err
	}
	res := strings.SplitAfter(buf.String(), "\n")
	if n := len(res); n > 0 && res[n-1] == "" {
		res = res[:n-1]
	}
	for i := range res {
		res[i] = strings.TrimSuffix(res[i], "\n")
	}
	slices.Sort(res)
	return res, nil
}

// Lines diffs two sorted line lists.
func Lines(from, to []string) []Line {
	dmp := diffpatch.New()
	a, b, lines := dmp.DiffLinesToChars(joinLines(from), joinLines(to))
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)
	var res []Line
	for _, d := range diffs {
		op := Equal
		switch d.Type {
		case diffpatch.DiffDelete:
			op = Delete
		case diffpatch.DiffInsert:
			op = Insert
		}
		for _, ln := range strings.SplitAfter(d.Text, "\n") {
			if ln == "" {
				continue
			}
			res = append(res, Line{Op: op, Text: strings.TrimSuffix(ln, "\n")})
		}
	}
	return res
}

func joinLines(lines []string) string {
	var sb strings.Builder
	for _, ln := range lines {
		sb.WriteString(ln)
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Changed reports whether diffs contains any insertion or deletion.
func Changed(diffs []Line) bool {
	return slices.ContainsFunc(diffs, func(l Line) bool { return l.Op != Equal })
}

// Diff flattens both sources and diffs their record sets.
func Diff(ctx context.Context, from, to stream.EventReader, opts ...stream.Option) ([]Line, error) {
	a, err := Flatten(ctx, from, opts...)
	if err != nil {
		return nil, fmt.Errorf("error reading first document: %w", err)
	}
	b, err := Flatten(ctx, to, opts...)
	if err != nil {
		return nil, fmt.Errorf("error reading second document: %w", err)
	}
	return Lines(a, b), nil
}

// Write prints the changed lines of diffs prefixed by - or +. With
// showEqual, equal lines are printed too, prefixed by a space.
func Write(w io.Writer, diffs []Line, showEqual bool, colors *Colors) error {
	var buf bytes.Buffer
	for _, d := range diffs {
		if d.Op == Equal && !showEqual {
			continue
		}
		ln := d.Op.String() + d.Text
		if colors != nil {
			ln = colors.line(d.Op)(ln)
		}
		buf.WriteString(ln)
		buf.WriteByte('\n')
	}
	_, err := w.Write(buf.Bytes())
	return err
}
