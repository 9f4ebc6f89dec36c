package writer

import (
	"fmt"
	"io"
	"sync/atomic"

	"github.com/cespare/xxhash/v2"

	"github.com/signadot/jstream/jpath"
	"github.com/signadot/jstream/stream"
)

// Digest summarizes a record set instead of printing it. Each record is
// hashed as its pointer line and the hashes are added, so the digest does
// not depend on record order and two streams with the same record multiset
// have the same digest.
//
// Digest is safe for concurrent use.
type Digest struct {
	w      io.Writer
	prefix string
	sum    atomic.Uint64
	count  atomic.Int64
}

// NewDigest returns a Digest that prints its summary to w on Flush. Only
// the WithPrefix option applies.
func NewDigest(w io.Writer, options ...Option) *Digest {
	return &Digest{w: w, prefix: newOpts(options).prefix}
}

func (d *Digest) WritePathValue(p jpath.Path, v stream.Value) error {
	var scratch [128]byte
	b := appendPointer(scratch[:0], p)
	b = append(b, '\t')
	b = v.AppendLiteral(b)
	d.sum.Add(xxhash.Sum64(b))
	d.count.Add(1)
	return nil
}

// Sum returns the digest of the records written so far.
func (d *Digest) Sum() uint64 { return d.sum.Load() }

// Count returns the number of records written so far.
func (d *Digest) Count() int64 { return d.count.Load() }

// Flush writes the digest and record count as one line.
func (d *Digest) Flush() error {
	_, err := fmt.Fprintf(d.w, "%s%016x\t%d\n", d.prefix, d.Sum(), d.Count())
	if err != nil {
		return err
	}
	if f, ok := d.w.(stream.Flusher); ok {
		return f.Flush()
	}
	return nil
}
