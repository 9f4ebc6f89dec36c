package libdiff

import "github.com/fatih/color"

type Colors struct {
	Delete func(...any) string
	Insert func(...any) string
	Equal  func(...any) string
}

func NewColors() *Colors {
	return &Colors{
		Delete: color.New(color.FgRed).SprintFunc(),
		Insert: color.New(color.FgGreen).SprintFunc(),
		Equal:  color.New(color.Faint).SprintFunc(),
	}
}

func (c *Colors) line(op Op) func(...any) string {
	switch op {
	case Delete:
		return c.Delete
	case Insert:
		return c.Insert
	default:
		return c.Equal
	}
}
