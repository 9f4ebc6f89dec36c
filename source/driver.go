package source

import (
	"fmt"
	"io"
	"slices"
	"sync"

	"github.com/signadot/jstream/stream"
)

// Driver creates event readers for one input format.
type Driver interface {
	Name() string
	NewReader(r io.Reader) stream.EventReader
}

// DefaultDriver is the name of the driver used when none is given.
const DefaultDriver = "go-json"

var (
	mu      sync.RWMutex
	drivers = map[string]Driver{}
)

func init() {
	Register(goJSONDriver{})
	Register(stdJSONDriver{})
	Register(yamlDriver{})
}

// Register makes d available by its name, replacing any driver with the
// same name.
func Register(d Driver) {
	mu.Lock()
	defer mu.Unlock()
	drivers[d.Name()] = d
}

// Lookup returns the driver with the given name; "" selects DefaultDriver.
func Lookup(name string) (Driver, error) {
	if name == "" {
		name = DefaultDriver
	}
	mu.RLock()
	defer mu.RUnlock()
	d, ok := drivers[name]
	if !ok {
		return nil, fmt.Errorf("unknown input driver %q (have %v)", name, namesLocked())
	}
	return d, nil
}

// Names returns the registered driver names in sorted order.
func Names() []string {
	mu.RLock()
	defer mu.RUnlock()
	return namesLocked()
}

func namesLocked() []string {
	res := make([]string, 0, len(drivers))
	for name := range drivers {
		res = append(res, name)
	}
	slices.Sort(res)
	return res
}

type goJSONDriver struct{}

func (goJSONDriver) Name() string                             { return "go-json" }
func (goJSONDriver) NewReader(r io.Reader) stream.EventReader { return NewJSON(r) }

type stdJSONDriver struct{}

func (stdJSONDriver) Name() string                             { return "encoding/json" }
func (stdJSONDriver) NewReader(r io.Reader) stream.EventReader { return NewStdJSON(r) }

type yamlDriver struct{}

func (yamlDriver) Name() string                             { return "yaml" }
func (yamlDriver) NewReader(r io.Reader) stream.EventReader { return NewYAML(r) }
