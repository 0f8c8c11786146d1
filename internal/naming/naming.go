// Package naming provides centralized naming logic for converting schema and
// query names into valid TypeScript type identifiers, including
// PascalCase sanitization, singularization, reserved word handling, and
// collision detection.
package naming

import (
	"strings"
	"unicode"
)

// Sanitize converts an arbitrary name into an identifier-shaped PascalCase
// string: a leading digit is replaced with "_", every run of characters that
// are not letters, digits, "_" or "$" is dropped and the following character
// upper-cased, and the first character of the result is upper-cased.
// Input with no usable characters at all yields "_".
func Sanitize(name string) string {
	var b strings.Builder
	b.Grow(len(name))

	upperNext := false
	for i, r := range name {
		if isIdentRune(r) {
			if i == 0 && unicode.IsDigit(r) {
				b.WriteByte('_')
				continue
			}
			if upperNext {
				r = unicode.ToUpper(r)
				upperNext = false
			}
			b.WriteRune(r)
			continue
		}
		upperNext = true
	}

	out := b.String()
	if out == "" {
		return "_"
	}
	return strings.ToUpper(out[:1]) + out[1:]
}

func isIdentRune(r rune) bool {
	return r == '_' || r == '$' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
