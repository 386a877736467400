// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pattern compiles regular expressions whose shorthand classes match
// Unicode text. RE2 restricts \s, \d and \w to ASCII; PDF text extraction
// routinely yields no-break spaces and other non-ASCII whitespace, so every
// pattern in the pipeline goes through Compile.
package pattern

import (
	"regexp"
	"strings"
	"unicode"
)

// Class bodies, usable inside a bracket expression.
const (
	// spaceClass is every rune for which Python's str.isspace is true.
	spaceClass = `\t\n\v\f\r\x{1c}-\x{1f}\x{85}\p{Z}`
	digitClass = `\p{Nd}`
	wordClass  = `\p{L}\p{N}_`
)

// Space matches one whitespace rune, including U+00A0 and U+2028.
const Space = `[` + spaceClass + `]`

var shorthand = map[byte]struct {
	body    string
	negated bool
}{
	's': {spaceClass, false},
	'S': {spaceClass, true},
	'd': {digitClass, false},
	'D': {digitClass, true},
	'w': {wordClass, false},
	'W': {wordClass, true},
}

// Unicode rewrites the \s, \d and \w shorthands of expr (and their negations)
// into Unicode-aware classes. Negated shorthands inside a bracket expression
// are left as written.
func Unicode(expr string) string {
	var b strings.Builder
	b.Grow(len(expr))
	inClass := false
	for i := 0; i < len(expr); i++ {
		c := expr[i]
		switch {
		case c == '\\' && i+1 < len(expr):
			next := expr[i+1]
			i++
			sh, ok := shorthand[next]
			switch {
			case !ok || (inClass && sh.negated):
				b.WriteByte(c)
				b.WriteByte(next)
			case inClass:
				b.WriteString(sh.body)
			case sh.negated:
				b.WriteString(`[^` + sh.body + `]`)
			default:
				b.WriteString(`[` + sh.body + `]`)
			}
		case c == '[' && !inClass:
			inClass = true
			b.WriteByte(c)
			// A ']' right after the opening bracket (or its negation) is literal.
			if i+1 < len(expr) && expr[i+1] == '^' {
				i++
				b.WriteByte('^')
			}
			if i+1 < len(expr) && expr[i+1] == ']' {
				i++
				b.WriteByte(']')
			}
		case c == '[' && inClass && i+1 < len(expr) && expr[i+1] == ':':
			// POSIX class such as [:alpha:] inside a bracket expression.
			end := strings.Index(expr[i:], ":]")
			if end < 0 {
				b.WriteByte(c)
				continue
			}
			b.WriteString(expr[i : i+end+2])
			i += end + 1
		case c == ']' && inClass:
			inClass = false
			b.WriteByte(c)
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

// Compile rewrites expr with Unicode and compiles it.
func Compile(expr string) (*regexp.Regexp, error) {
	return regexp.Compile(Unicode(expr))
}

// MustCompile is like Compile but panics if the expression cannot be parsed.
func MustCompile(expr string) *regexp.Regexp {
	return regexp.MustCompile(Unicode(expr))
}

// IsSpace reports whether r is whitespace in the sense of Space. It differs
// from unicode.IsSpace in also accepting the separators U+001C to U+001F.
func IsSpace(r rune) bool {
	if r >= 0x1c && r <= 0x1f {
		return true
	}
	return unicode.IsSpace(r)
}

// TrimSpace removes leading and trailing runes for which IsSpace is true.
func TrimSpace(s string) string {
	return strings.TrimFunc(s, IsSpace)
}

// TrimLeftSpace removes leading runes for which IsSpace is true.
func TrimLeftSpace(s string) string {
	return strings.TrimLeftFunc(s, IsSpace)
}
