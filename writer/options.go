package writer

// Option configures a line writer.
type Option func(*opts)

type opts struct {
	sep    string
	prefix string
	colors *Colors
}

func newOpts(options []Option) *opts {
	res := &opts{sep: "\t"}
	for _, o := range options {
		o(res)
	}
	return res
}

// WithSeparator sets the text between path and value; the default is a
// tab.
func WithSeparator(sep string) Option {
	return func(o *opts) {
		o.sep = sep
	}
}

// WithPrefix starts every line with p, e.g. a file name and a colon.
func WithPrefix(p string) Option {
	return func(o *opts) {
		o.prefix = p
	}
}

// WithColors colors paths, separators and values. A nil c disables colors.
func WithColors(c *Colors) Option {
	return func(o *opts) {
		o.colors = c
	}
}
