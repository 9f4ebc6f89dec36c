package jpath

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

var (
	ErrInvalidPointer = errors.New("invalid pointer")
	ErrNotFound       = errors.New("match to pointer not found")
)

// Path is a root-to-leaf sequence of segments. The empty Path is the
// document root.
type Path []Segment

// String returns p as a JSON Pointer. The root is the empty string.
func (p Path) String() string {
	return string(p.AppendPointer(nil))
}

// AppendPointer appends p as a JSON Pointer to dst.
func (p Path) AppendPointer(dst []byte) []byte {
	for i := range p {
		dst = append(dst, '/')
		dst = p[i].AppendToken(dst)
	}
	return dst
}

// KPath returns p in kinded-path notation, e.g. `a.b[0]."c.d"`. The root
// is the empty string.
func (p Path) KPath() string {
	return string(p.AppendKPath(nil))
}

func (p Path) AppendKPath(dst []byte) []byte {
	for i := range p {
		dst = p[i].appendKPath(dst, i == 0)
	}
	return dst
}

// JSONPath returns p as an RFC 9535 normalized path, e.g. "$['a'][0]".
func (p Path) JSONPath() string {
	return string(p.AppendJSONPath(nil))
}

func (p Path) AppendJSONPath(dst []byte) []byte {
	dst = append(dst, '$')
	for i := range p {
		dst = p[i].appendNormalized(dst)
	}
	return dst
}

// Clone returns a copy of p that does not share storage with p.
func (p Path) Clone() Path {
	if p == nil {
		return nil
	}
	return slices.Clone(p)
}

// Parent returns the path one level up; the root is its own parent.
func (p Path) Parent() Path {
	if len(p) == 0 {
		return p
	}
	return p[:len(p)-1]
}

// Last returns the final segment, if any.
func (p Path) Last() (Segment, bool) {
	if len(p) == 0 {
		return Segment{}, false
	}
	return p[len(p)-1], true
}

func (p Path) Equal(o Path) bool {
	return slices.Equal(p, o)
}

// Parse parses an RFC 6901 JSON Pointer. Every reference token becomes a
// field segment; Resolve interprets tokens against arrays as indices.
func Parse(ptr string) (Path, error) {
	if ptr == "" {
		return Path{}, nil
	}
	if ptr[0] != '/' {
		return nil, fmt.Errorf("%w: %q does not start with '/'", ErrInvalidPointer, ptr)
	}
	toks := strings.Split(ptr[1:], "/")
	res := make(Path, 0, len(toks))
	for _, tok := range toks {
		key, err := unescape(tok)
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %w", ErrInvalidPointer, ptr, err)
		}
		res = append(res, Field(key))
	}
	return res, nil
}

// MustParse is like Parse but panics on error.
func MustParse(ptr string) Path {
	p, err := Parse(ptr)
	if err != nil {
		panic(err)
	}
	return p
}
