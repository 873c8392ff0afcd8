// Package strcase converts logical field names between the naming
// conventions seen on host forms (camelCase, snake_case, Title Case,
// PascalCase, squashed lowercase).
package strcase

import (
	"strings"
	"unicode"
)

// Words splits a camelCase, PascalCase, snake_case, or space-separated
// identifier into lowercase word tokens. Digit runs stay attached to the
// preceding word ("line2" is one token).
func Words(s string) []string {
	var words []string
	var b strings.Builder
	flush := func() {
		if b.Len() > 0 {
			words = append(words, strings.ToLower(b.String()))
			b.Reset()
		}
	}
	runes := []rune(s)
	for i, r := range runes {
		switch {
		case r == '_' || r == '-' || r == ' ':
			flush()
		case unicode.IsUpper(r):
			// "dateOfBirth" splits before O; "NIN" stays together.
			if i > 0 && (unicode.IsLower(runes[i-1]) || (i+1 < len(runes) && unicode.IsLower(runes[i+1]))) {
				flush()
			}
			b.WriteRune(r)
		default:
			b.WriteRune(r)
		}
	}
	flush()
	return words
}

// ToSnake converts an identifier to snake_case.
func ToSnake(s string) string {
	return strings.Join(Words(s), "_")
}

// ToSpaced converts an identifier to lowercase space-separated words.
func ToSpaced(s string) string {
	return strings.Join(Words(s), " ")
}

// ToTitle converts an identifier to Title Case with spaces.
func ToTitle(s string) string {
	words := Words(s)
	for i, w := range words {
		words[i] = capitalize(w)
	}
	return strings.Join(words, " ")
}

// ToPascal converts an identifier to PascalCase.
func ToPascal(s string) string {
	words := Words(s)
	for i, w := range words {
		words[i] = capitalize(w)
	}
	return strings.Join(words, "")
}

// Squash converts an identifier to lowercase with every separator removed.
// This is the canonical form used for case- and convention-insensitive
// comparison.
func Squash(s string) string {
	return strings.Join(Words(s), "")
}

func capitalize(w string) string {
	if w == "" {
		return w
	}
	runes := []rune(w)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
