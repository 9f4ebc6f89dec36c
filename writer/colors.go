package writer

import (
	"github.com/fatih/color"

	"github.com/signadot/jstream/stream"
)

// Colors holds the functions used to color parts of a line. Whether escape
// codes are emitted at all is decided by color.NoColor.
type Colors struct {
	Prefix  func(...any) string
	Path    func(...any) string
	Sep     func(...any) string
	Default func(...any) string
	Value   map[stream.Kind]func(...any) string
}

func NewColors() *Colors {
	return &Colors{
		Prefix:  color.New(color.FgMagenta).SprintFunc(),
		Path:    color.RGB(128, 168, 196).SprintFunc(),
		Sep:     color.RGB(196, 128, 128).SprintFunc(),
		Default: color.New(color.Reset).SprintFunc(),
		Value: map[stream.Kind]func(...any) string{
			stream.KindString:      color.RGB(8, 196, 16).SprintFunc(),
			stream.KindNumber:      color.RGB(128, 216, 236).SprintFunc(),
			stream.KindBool:        color.New(color.FgCyan).SprintFunc(),
			stream.KindNull:        color.RGB(168, 0, 196).SprintFunc(),
			stream.KindEmptyObject: color.RGB(96, 96, 96).SprintFunc(),
			stream.KindEmptyArray:  color.RGB(96, 96, 96).SprintFunc(),
		},
	}
}

func (c *Colors) value(k stream.Kind) func(...any) string {
	if f, ok := c.Value[k]; ok {
		return f
	}
	return c.Default
}
