// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package namenorm canonicalizes free-text author names and general text
// into comparable forms. All functions are pure and deterministic.
package namenorm

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stripAccents decomposes to NFD, drops combining marks, and recomposes,
// so "Élodie Dupont" compares equal to "Elodie Dupont".
var stripAccents = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// NormalizedName is the comparable form of an author name.
type NormalizedName struct {
	// Full is the space-joined token form ("jean pierre smith").
	Full string

	// Tokens holds the ordered name tokens.
	Tokens []string

	// Surname is the final token; Givens are the rest.
	Surname string
	Givens  []string

	// Initials is the initials form: first letter of each given token
	// plus the full surname ("jp smith").
	Initials string
}

// IsZero reports whether the name normalized to nothing. A zero name
// never matches anything.
func (n NormalizedName) IsZero() bool {
	return len(n.Tokens) == 0
}

// InitialsOnly reports whether every given-name token is a single letter,
// as in mentions like "J. Smith" or "J.-P. Smith".
func (n NormalizedName) InitialsOnly() bool {
	if len(n.Givens) == 0 {
		return false
	}
	for _, g := range n.Givens {
		if utf8.RuneCountInString(g) != 1 {
			return false
		}
	}
	return true
}

// Inverted returns the name with the first token treated as the surname,
// covering archives that list "Curie Marie" instead of "Marie Curie".
// Single-token names invert to themselves.
func (n NormalizedName) Inverted() NormalizedName {
	if len(n.Tokens) < 2 {
		return n
	}
	tokens := make([]string, 0, len(n.Tokens))
	tokens = append(tokens, n.Tokens[1:]...)
	tokens = append(tokens, n.Tokens[0])
	return fromTokens(tokens)
}

// Normalize canonicalizes a free-text author name: lower-case, diacritics
// stripped, punctuation removed, hyphenated and dotted tokens split.
// Empty or whitespace-only input yields a zero NormalizedName.
func Normalize(name string) NormalizedName {
	return fromTokens(tokenize(name))
}

func fromTokens(tokens []string) NormalizedName {
	if len(tokens) == 0 {
		return NormalizedName{}
	}

	n := NormalizedName{
		Full:    strings.Join(tokens, " "),
		Tokens:  tokens,
		Surname: tokens[len(tokens)-1],
		Givens:  tokens[:len(tokens)-1],
	}

	if len(n.Givens) > 0 {
		var b strings.Builder
		for _, g := range n.Givens {
			// First rune, not first byte: "łukasz" initials to "ł".
			r, _ := utf8.DecodeRuneInString(g)
			b.WriteRune(r)
		}
		n.Initials = b.String() + " " + n.Surname
	} else {
		n.Initials = n.Surname
	}
	return n
}

// tokenize lowercases, strips accents, and splits on anything that is not
// a letter or digit. "J.-P. O'Brien" → ["j", "p", "obrien"].
func tokenize(s string) []string {
	folded, _, _ := transform.String(stripAccents, strings.ToLower(s))

	// Apostrophes join rather than split: "O'Brien" is one token.
	folded = strings.ReplaceAll(folded, "'", "")
	folded = strings.ReplaceAll(folded, "’", "")

	return strings.FieldsFunc(folded, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// NormalizeText applies the casing, diacritic, and whitespace rules to
// general text. Used for title and venue grouping keys.
func NormalizeText(s string) string {
	return strings.Join(tokenize(s), " ")
}
