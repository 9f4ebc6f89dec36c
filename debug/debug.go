// Package debug holds tracing toggles read from the environment at startup.
package debug

import (
	"fmt"
	"os"
	"strconv"

	j "github.com/goccy/go-json"
)

type debug struct {
	Events  bool
	Records bool
	Source  bool
}

var d *debug

func init() {
	d = &debug{}
	d.Events = boolEnv("JSTREAM_DEBUG_EVENTS")
	d.Records = boolEnv("JSTREAM_DEBUG_RECORDS")
	d.Source = boolEnv("JSTREAM_DEBUG_SOURCE")
}

func boolEnv(v string) bool {
	x := os.Getenv(v)
	if x == "" {
		return false
	}
	b, _ := strconv.ParseBool(x)
	return b
}

// Events reports whether each structural event should be traced.
func Events() bool {
	return d.Events
}

// Records reports whether each record should be traced before it is
// written.
func Records() bool {
	return d.Records
}

// Source reports whether input opening and driver selection are traced.
func Source() bool {
	return d.Source
}

func Logf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
}

// LogAny writes v to stderr as one line of JSON, or with %v when v does
// not marshal.
func LogAny(v any) {
	d, err := j.Marshal(v)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", v)
		return
	}
	os.Stderr.Write(append(d, '\n'))
}
