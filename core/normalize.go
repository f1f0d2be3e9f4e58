package core

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// minTokenLen is the shortest token kept by Tokenize.
const minTokenLen = 2

// Normalize lowercases text, folds ё to е, replaces everything except Latin or Cyrillic letters
// and ASCII digits with spaces, and collapses whitespace. Normalize(Normalize(x)) == Normalize(x).
func Normalize(text string) string {
	// A Caser keeps state between calls, so each call gets its own.
	lowered := cases.Lower(language.Und).String(text)
	lowered = strings.ReplaceAll(lowered, "ё", "е")

	var b strings.Builder
	b.Grow(len(lowered))
	for _, r := range lowered {
		if isWordRune(r) {
			b.WriteRune(r)
		} else {
			b.WriteByte(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// Tokenize normalizes text and splits it into tokens of at least two characters.
func Tokenize(text string) []string {
	fields := strings.Fields(Normalize(text))
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		if utf8.RuneCountInString(f) >= minTokenLen {
			tokens = append(tokens, f)
		}
	}
	return tokens
}

func isWordRune(r rune) bool {
	if r >= '0' && r <= '9' {
		return true
	}
	return unicode.IsLetter(r) && (unicode.Is(unicode.Latin, r) || unicode.Is(unicode.Cyrillic, r))
}
