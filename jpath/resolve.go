package jpath

import (
	"fmt"
	"strconv"
)

// Resolve navigates doc, a value decoded from JSON into map[string]any,
// []any and scalars, along p. Field segments applied to arrays are read as
// decimal indices, as in RFC 6901.
func Resolve(doc any, p Path) (any, error) {
	cur := doc
	for i, seg := range p {
		switch x := cur.(type) {
		case map[string]any:
			v, ok := x[seg.Token()]
			if !ok {
				return nil, fmt.Errorf("%w: no field %q at %s", ErrNotFound, seg.Token(), p[:i])
			}
			cur = v
		case []any:
			idx, err := arrayIndex(seg)
			if err != nil {
				return nil, fmt.Errorf("%w at %s: %w", ErrNotFound, p[:i], err)
			}
			if idx >= len(x) {
				return nil, fmt.Errorf("%w: index %d out of range at %s", ErrNotFound, idx, p[:i])
			}
			cur = x[idx]
		default:
			return nil, fmt.Errorf("%w: cannot step into %T at %s", ErrNotFound, cur, p[:i])
		}
	}
	return cur, nil
}

func arrayIndex(seg Segment) (int, error) {
	if seg.Kind == ArrayEntry {
		return seg.Index, nil
	}
	tok := seg.Key
	if tok == "" || (len(tok) > 1 && tok[0] == '0') {
		return 0, fmt.Errorf("bad array index %q", tok)
	}
	for i := 0; i < len(tok); i++ {
		if tok[i] < '0' || tok[i] > '9' {
			return 0, fmt.Errorf("bad array index %q", tok)
		}
	}
	return strconv.Atoi(tok)
}
