package jpath

import (
	"errors"
	"strings"
	"unicode"
	"unicode/utf8"
)

const hexDigits = "0123456789abcdef"

var errBadEscape = errors.New("'~' must be followed by '0' or '1'")

// EscapeToken escapes a pointer reference token: '~' becomes "~0" and '/'
// becomes "~1".
func EscapeToken(s string) string {
	if !strings.ContainsAny(s, "~/") {
		return s
	}
	return string(appendEscaped(nil, s))
}

func appendEscaped(dst []byte, s string) []byte {
	if !strings.ContainsAny(s, "~/") {
		return append(dst, s...)
	}
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '~':
			dst = append(dst, '~', '0')
		case '/':
			dst = append(dst, '~', '1')
		default:
			dst = append(dst, c)
		}
	}
	return dst
}

// UnescapeToken reverses EscapeToken.
func UnescapeToken(s string) (string, error) {
	return unescape(s)
}

func unescape(s string) (string, error) {
	if strings.IndexByte(s, '~') < 0 {
		return s, nil
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '~' {
			b.WriteByte(c)
			continue
		}
		if i+1 == len(s) {
			return "", errBadEscape
		}
		i++
		switch s[i] {
		case '0':
			b.WriteByte('~')
		case '1':
			b.WriteByte('/')
		default:
			return "", errBadEscape
		}
	}
	return b.String(), nil
}

// AppendQuoted appends v to dst as a double-quoted JSON string.
func AppendQuoted(dst []byte, v string) []byte {
	dst = append(dst, '"')
	for _, r := range v {
		switch r {
		case '"':
			dst = append(dst, '\\', '"')
		case '\\':
			dst = append(dst, '\\', '\\')
		case '\b':
			dst = append(dst, '\\', 'b')
		case '\f':
			dst = append(dst, '\\', 'f')
		case '\n':
			dst = append(dst, '\\', 'n')
		case '\r':
			dst = append(dst, '\\', 'r')
		case '\t':
			dst = append(dst, '\\', 't')
		default:
			if unicode.IsControl(r) {
				dst = appendUnicodeEscape(dst, r)
			} else {
				dst = utf8.AppendRune(dst, r)
			}
		}
	}
	return append(dst, '"')
}

// Quote returns v as a double-quoted JSON string.
func Quote(v string) string {
	return string(AppendQuoted(make([]byte, 0, len(v)+2), v))
}

// appendNormalName appends a single-quoted name selector as required for
// normalized paths.
func appendNormalName(dst []byte, v string) []byte {
	dst = append(dst, '\'')
	for _, r := range v {
		switch r {
		case '\'':
			dst = append(dst, '\\', '\'')
		case '\\':
			dst = append(dst, '\\', '\\')
		case '\b':
			dst = append(dst, '\\', 'b')
		case '\f':
			dst = append(dst, '\\', 'f')
		case '\n':
			dst = append(dst, '\\', 'n')
		case '\r':
			dst = append(dst, '\\', 'r')
		case '\t':
			dst = append(dst, '\\', 't')
		default:
			if r < 0x20 {
				dst = appendUnicodeEscape(dst, r)
			} else {
				dst = utf8.AppendRune(dst, r)
			}
		}
	}
	return append(dst, '\'')
}

func appendUnicodeEscape(dst []byte, r rune) []byte {
	return append(dst, '\\', 'u',
		hexDigits[(r>>12)&0xf], hexDigits[(r>>8)&0xf],
		hexDigits[(r>>4)&0xf], hexDigits[r&0xf])
}
