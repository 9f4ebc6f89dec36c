package source

import (
	"fmt"
	"io"

	"github.com/signadot/jstream/stream"
)

// checkReader validates the JSON syntax of the bytes read through it
// before a tokenizer sees them. When it finds an error it passes on the
// valid prefix and keeps the error in err; the next Read returns it.
//
// The go-json tokenizer skips ',' and ':' wherever they occur and takes
// number and literal text as given, so NewJSON relies on checkReader for
// the grammar.
type checkReader struct {
	r   io.Reader
	s   scanner
	off int64
	err error
}

func newCheckReader(r io.Reader) *checkReader {
	return &checkReader{r: r}
}

func (c *checkReader) Read(p []byte) (int, error) {
	if c.err != nil {
		return 0, c.err
	}
	n, err := c.r.Read(p)
	for i := 0; i < n; i++ {
		if msg := c.s.step(p[i]); msg != "" {
			c.err = &stream.Error{Kind: stream.TokenSourceError, Msg: msg, Offset: c.off + int64(i)}
			if i == 0 {
				return 0, c.err
			}
			return i, nil
		}
	}
	c.off += int64(n)
	if err == io.EOF {
		if msg := c.s.eof(); msg != "" {
			c.err = &stream.Error{Kind: stream.TokenSourceError, Msg: msg, Offset: c.off}
			return n, c.err
		}
	}
	return n, err
}

type scanState uint8

const (
	scanValue        scanState = iota // a value, or whitespace
	scanValueOrEnd                    // after '['
	scanKeyOrEnd                      // after '{'
	scanKey                           // after ',' in an object
	scanColon                         // after a key
	scanCommaOrEnd                    // after a value in a container
	scanString
	scanEscape
	scanUnicode
	scanLiteral
	scanNeg   // -
	scanZero  // 0
	scanInt   // 1-9 and digits
	scanDot   // .
	scanFrac  // fraction digits
	scanE     // e or E
	scanESign // exponent sign
	scanExp   // exponent digits
)

// scanner is a byte at a time JSON grammar check. Containers are tracked
// with one bool per level, so its memory is proportional to nesting depth.
// A sequence of root values is accepted.
type scanner struct {
	state scanState
	// stack holds true for objects and false for arrays.
	stack []bool
	key   bool
	lit   string
	n     int
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func isDigit(c byte) bool {
	return '0' <= c && c <= '9'
}

func isHex(c byte) bool {
	return isDigit(c) || ('a' <= c && c <= 'f') || ('A' <= c && c <= 'F')
}

func invalid(c byte, context string) string {
	return fmt.Sprintf("invalid character %q %s", c, context)
}

// step consumes one byte and returns a description of the syntax error it
// causes, or "".
func (s *scanner) step(c byte) string {
	switch s.state {
	case scanValue, scanValueOrEnd:
		if isSpace(c) {
			return ""
		}
		if c == ']' && s.state == scanValueOrEnd {
			return s.end()
		}
		return s.begin(c)

	case scanKeyOrEnd, scanKey:
		switch {
		case isSpace(c):
		case c == '}' && s.state == scanKeyOrEnd:
			return s.end()
		case c == '"':
			s.key = true
			s.state = scanString
		default:
			return invalid(c, "looking for beginning of object key string")
		}

	case scanColon:
		switch {
		case isSpace(c):
		case c == ':':
			s.state = scanValue
		default:
			return invalid(c, "after object key")
		}

	case scanCommaOrEnd:
		obj := s.stack[len(s.stack)-1]
		switch {
		case isSpace(c):
		case c == ',' && obj:
			s.state = scanKey
		case c == ',':
			s.state = scanValue
		case c == '}' && obj, c == ']' && !obj:
			return s.end()
		case obj:
			return invalid(c, "after object key:value pair")
		default:
			return invalid(c, "after array element")
		}

	case scanString:
		switch {
		case c == '"':
			if s.key {
				s.key = false
				s.state = scanColon
			} else {
				s.valueDone()
			}
		case c == '\\':
			s.state = scanEscape
		case c < 0x20:
			return invalid(c, "in string literal")
		}

	case scanEscape:
		switch c {
		case '"', '\\', '/', 'b', 'f', 'n', 'r', 't':
			s.state = scanString
		case 'u':
			s.n = 0
			s.state = scanUnicode
		default:
			return invalid(c, "in string escape code")
		}

	case scanUnicode:
		if !isHex(c) {
			return invalid(c, "in \\u hexadecimal character escape")
		}
		s.n++
		if s.n == 4 {
			s.state = scanString
		}

	case scanLiteral:
		if c != s.lit[s.n] {
			return invalid(c, "in literal "+s.lit)
		}
		s.n++
		if s.n == len(s.lit) {
			s.valueDone()
		}

	case scanNeg:
		switch {
		case c == '0':
			s.state = scanZero
		case isDigit(c):
			s.state = scanInt
		default:
			return invalid(c, "in numeric literal")
		}

	case scanZero, scanInt:
		switch {
		case isDigit(c) && s.state == scanInt:
		case isDigit(c):
			return invalid(c, "after leading zero in numeric literal")
		case c == '.':
			s.state = scanDot
		case c == 'e' || c == 'E':
			s.state = scanE
		default:
			return s.numberDone(c)
		}

	case scanDot:
		if !isDigit(c) {
			return invalid(c, "after decimal point in numeric literal")
		}
		s.state = scanFrac

	case scanFrac:
		switch {
		case isDigit(c):
		case c == 'e' || c == 'E':
			s.state = scanE
		default:
			return s.numberDone(c)
		}

	case scanE:
		switch {
		case c == '+' || c == '-':
			s.state = scanESign
		case isDigit(c):
			s.state = scanExp
		default:
			return invalid(c, "in exponent of numeric literal")
		}

	case scanESign:
		if !isDigit(c) {
			return invalid(c, "in exponent of numeric literal")
		}
		s.state = scanExp

	case scanExp:
		if !isDigit(c) {
			return s.numberDone(c)
		}
	}
	return ""
}

// numberDone ends a number at c, the first byte after it. A root number
// must be followed by whitespace, or 1-2 would read as one token.
func (s *scanner) numberDone(c byte) string {
	if len(s.stack) == 0 && !isSpace(c) {
		return invalid(c, "after top-level number")
	}
	s.valueDone()
	return s.step(c)
}

func (s *scanner) begin(c byte) string {
	switch {
	case c == '{':
		s.stack = append(s.stack, true)
		s.state = scanKeyOrEnd
	case c == '[':
		s.stack = append(s.stack, false)
		s.state = scanValueOrEnd
	case c == '"':
		s.key = false
		s.state = scanString
	case c == '-':
		s.state = scanNeg
	case c == '0':
		s.state = scanZero
	case isDigit(c):
		s.state = scanInt
	case c == 't':
		s.literal("true")
	case c == 'f':
		s.literal("false")
	case c == 'n':
		s.literal("null")
	default:
		return invalid(c, "looking for beginning of value")
	}
	return ""
}

func (s *scanner) literal(lit string) {
	s.lit = lit
	s.n = 1
	s.state = scanLiteral
}

func (s *scanner) end() string {
	s.stack = s.stack[:len(s.stack)-1]
	s.valueDone()
	return ""
}

func (s *scanner) valueDone() {
	if len(s.stack) == 0 {
		s.state = scanValue
		return
	}
	s.state = scanCommaOrEnd
}

// eof checks the end of input. Containers left open are reported by
// stream.State; only a scalar cut short is an error here.
func (s *scanner) eof() string {
	switch s.state {
	case scanString, scanEscape, scanUnicode:
		return "unexpected end of input in string literal"
	case scanLiteral:
		return "unexpected end of input in literal " + s.lit
	case scanNeg, scanDot, scanE, scanESign:
		return "unexpected end of input in numeric literal"
	}
	return ""
}
