// Package verify checks that the records produced for a document locate
// their values in that document.
//
// Every record is checked four ways: its JSON Pointer with a JSON Patch
// "test" operation and by resolving it in the decoded document, its
// normalized path with an RFC 9535 JSONPath query, and its value literal
// by parsing it back. A document with duplicate
// object keys fails verification, since a path can only locate one of the
// duplicates.
package verify

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"reflect"

	jsonpatch "github.com/evanphx/json-patch"
	j "github.com/goccy/go-json"
	"github.com/theory/jsonpath"

	"github.com/signadot/jstream/jpath"
	"github.com/signadot/jstream/source"
	"github.com/signadot/jstream/stream"
)

// Check names one of the verification methods.
type Check string

const (
	PatchTest Check = "json-patch"
	Pointer   Check = "pointer"
	JSONPath  Check = "jsonpath"
	Literal   Check = "literal"
)

// Mismatch describes one failed check.
type Mismatch struct {
	Check Check
	Path  string
	Err   error
}

func (m Mismatch) String() string {
	p := m.Path
	if p == "" {
		p = "/"
	}
	return fmt.Sprintf("%s\t%s: %v", p, m.Check, m.Err)
}

// Report is the outcome of Verify.
type Report struct {
	Records    int64
	Mismatches []Mismatch
}

func (r *Report) OK() bool { return len(r.Mismatches) == 0 }

// batchSize bounds the number of test operations applied at once.
const batchSize = 4096

type record struct {
	path jpath.Path
	want any
	raw  []byte
}

type verifier struct {
	doc     any
	canon   []byte
	report  *Report
	pending []record
}

// Verify streams doc, a single JSON document, and checks every record,
// including empty container markers, against it.
func Verify(ctx context.Context, doc []byte) (*Report, error) {
	val, err := decodeOne(doc)
	if err != nil {
		return nil, err
	}
	canon, err := j.Marshal(val)
	if err != nil {
		return nil, err
	}
	v := &verifier{doc: val, canon: canon, report: &Report{}}
	_, err = stream.Stream(ctx, source.NewJSON(bytes.NewReader(doc)), stream.WriterFunc(v.write),
		stream.WithEmptyContainers(true))
	if err != nil {
		return nil, err
	}
	if err := v.flush(); err != nil {
		return nil, err
	}
	return v.report, nil
}

func decodeOne(b []byte) (any, error) {
	dec := j.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var res any
	if err := dec.Decode(&res); err != nil {
		return nil, fmt.Errorf("error decoding document: %w", err)
	}
	var extra any
	if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
		return nil, errors.New("verify needs a single document")
	}
	return res, nil
}

func (v *verifier) mismatch(c Check, p jpath.Path, err error) {
	v.report.Mismatches = append(v.report.Mismatches, Mismatch{Check: c, Path: p.String(), Err: err})
}

func (v *verifier) write(p jpath.Path, val stream.Value) error {
	v.report.Records++
	want, err := decodeOne(val.AppendLiteral(nil))
	if err != nil {
		v.mismatch(Literal, p, err)
		return nil
	}
	if !reflect.DeepEqual(want, goValue(val)) {
		v.mismatch(Literal, p, fmt.Errorf("literal %s reads back as %v", val.Literal(), want))
	}
	v.checkPointer(p, want)
	v.checkJSONPath(p, want)
	if len(p) == 0 {
		// JSON Patch cannot test the whole document
		return nil
	}
	raw, err := j.Marshal(want)
	if err != nil {
		return err
	}
	v.pending = append(v.pending, record{path: p.Clone(), want: want, raw: raw})
	if len(v.pending) >= batchSize {
		return v.flush()
	}
	return nil
}

// goValue is val as the decoder of decodeOne represents it.
func goValue(val stream.Value) any {
	if val.Kind == stream.KindNumber {
		return j.Number(val.Text)
	}
	return val.Interface()
}

func (v *verifier) checkPointer(p jpath.Path, want any) {
	got, err := jpath.Resolve(v.doc, p)
	switch {
	case err != nil:
		v.mismatch(Pointer, p, err)
	case !reflect.DeepEqual(got, want):
		v.mismatch(Pointer, p, fmt.Errorf("resolves to %v, want %v", got, want))
	}
}

func (v *verifier) checkJSONPath(p jpath.Path, want any) {
	q, err := jsonpath.Parse(p.JSONPath())
	if err != nil {
		v.mismatch(JSONPath, p, err)
		return
	}
	nodes := q.Select(v.doc)
	switch {
	case len(nodes) != 1:
		v.mismatch(JSONPath, p, fmt.Errorf("%s selects %d nodes", p.JSONPath(), len(nodes)))
	case !reflect.DeepEqual(nodes[0], want):
		v.mismatch(JSONPath, p, fmt.Errorf("%s selects %v, want %v", p.JSONPath(), nodes[0], want))
	}
}

type testOp struct {
	Op    string       `json:"op"`
	Path  string       `json:"path"`
	Value j.RawMessage `json:"value"`
}

// flush applies the pending test operations as one patch. When the patch
// fails, each operation is retried alone to find the failing records.
func (v *verifier) flush() error {
	if len(v.pending) == 0 {
		return nil
	}
	defer func() { v.pending = v.pending[:0] }()
	if err := v.apply(v.pending...); err == nil {
		return nil
	}
	for _, rec := range v.pending {
		if err := v.apply(rec); err != nil {
			v.mismatch(PatchTest, rec.path, err)
		}
	}
	return nil
}

func (v *verifier) apply(recs ...record) error {
	ops := make([]testOp, len(recs))
	for i, rec := range recs {
		ops[i] = testOp{Op: "test", Path: rec.path.String(), Value: rec.raw}
	}
	d, err := j.Marshal(ops)
	if err != nil {
		return err
	}
	patch, err := jsonpatch.DecodePatch(d)
	if err != nil {
		return err
	}
	_, err = patch.Apply(v.canon)
	return err
}
