package stream

// Option configures Dispatcher and Stream behavior.
type Option func(*opts)

type opts struct {
	emptyContainers bool
	maxDepth        int
	eventHook       func(*Event)
}

func newOpts(options []Option) *opts {
	res := &opts{}
	for _, o := range options {
		o(res)
	}
	return res
}

// WithEmptyContainers selects full-capability mode: empty arrays and
// objects are forwarded to the Writer as marker records. By default they
// are dropped and only scalar leaves are written.
func WithEmptyContainers(v bool) Option {
	return func(o *opts) {
		o.emptyContainers = v
	}
}

// WithMaxDepth makes nesting deeper than n a StructuralError. 0, the
// default, means unbounded.
func WithMaxDepth(n int) Option {
	return func(o *opts) {
		o.maxDepth = n
	}
}

// WithEventHook calls f with every event Stream reads, before it is
// processed.
func WithEventHook(f func(*Event)) Option {
	return func(o *opts) {
		o.eventHook = f
	}
}
