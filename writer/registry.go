package writer

import (
	"fmt"
	"io"
	"slices"
	"sync"

	"github.com/signadot/jstream/stream"
)

// Factory creates a named writer on top of an output stream.
type Factory func(w io.Writer, options ...Option) stream.Writer

// Default is the name of the writer used when none is given.
const Default = "pointer"

var (
	mu        sync.RWMutex
	factories = map[string]Factory{
		"pointer":  func(w io.Writer, o ...Option) stream.Writer { return NewPointer(w, o...) },
		"kpath":    func(w io.Writer, o ...Option) stream.Writer { return NewKPath(w, o...) },
		"jsonpath": func(w io.Writer, o ...Option) stream.Writer { return NewJSONPath(w, o...) },
		"digest":   func(w io.Writer, o ...Option) stream.Writer { return NewDigest(w, o...) },
	}
)

// Register adds or replaces the writer called name.
func Register(name string, f Factory) {
	mu.Lock()
	defer mu.Unlock()
	factories[name] = f
}

// Lookup returns the factory for the writer called name; "" selects
// Default.
func Lookup(name string) (Factory, error) {
	if name == "" {
		name = Default
	}
	mu.RLock()
	defer mu.RUnlock()
	f, ok := factories[name]
	if !ok {
		return nil, fmt.Errorf("unknown writer %q (have %v)", name, namesLocked())
	}
	return f, nil
}

// Names returns the registered writer names in sorted order.
func Names() []string {
	mu.RLock()
	defer mu.RUnlock()
	return namesLocked()
}

func namesLocked() []string {
	res := make([]string, 0, len(factories))
	for name := range factories {
		res = append(res, name)
	}
	slices.Sort(res)
	return res
}
