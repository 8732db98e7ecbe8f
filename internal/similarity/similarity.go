// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package similarity scores normalized author names against roster names.
//
// The score is a weighted blend of normalized edit-distance similarity and
// token-set overlap, gated on surname agreement: when surnames differ by
// more than a small edit tolerance the score is zero regardless of how
// similar the given names are.
package similarity

import (
	"unicode/utf8"

	"github.com/agnivade/levenshtein"

	"github.com/mlaurent/halindex/internal/namenorm"
)

const (
	// editWeight and tokenWeight blend the two similarity signals.
	editWeight  = 0.6
	tokenWeight = 0.4

	// initialsCap scales scores computed on the initials basis. An exact
	// initials match ("J. Smith" vs "Jean Smith") stays below an exact
	// full-name match: initials cannot distinguish Jean from Jacques.
	initialsCap = 0.9
)

// Score returns a similarity in [0, 1] between a normalized candidate
// mention and a normalized roster name. surnameTolerance is the maximum
// Levenshtein distance between surnames before the score gates to zero;
// surnames of three letters or fewer must match exactly.
//
// Both name orientations are tried ("Curie Marie" vs "Marie Curie") and
// the better one wins. Identical inputs score exactly 1.0.
func Score(candidate, roster namenorm.NormalizedName, surnameTolerance int) float64 {
	if candidate.IsZero() || roster.IsZero() {
		return 0
	}
	// Identical normalized forms score 1.0 even when the name is all
	// initials; the initials cap only discounts against fuller names.
	if candidate.Full == roster.Full {
		return 1
	}
	s := oriented(candidate, roster, surnameTolerance)
	if inv := oriented(candidate.Inverted(), roster, surnameTolerance); inv > s {
		s = inv
	}
	return s
}

func oriented(candidate, roster namenorm.NormalizedName, surnameTolerance int) float64 {
	if !surnamesMatch(candidate.Surname, roster.Surname, surnameTolerance) {
		return 0
	}

	// Initials basis: when the candidate gives only initials, compare
	// initials form against initials form, capped.
	if candidate.InitialsOnly() {
		return initialsCap * blend(candidate.Initials, roster.Initials,
			initialsTokens(candidate), initialsTokens(roster))
	}

	return blend(candidate.Full, roster.Full, candidate.Tokens, roster.Tokens)
}

// blend combines edit-distance similarity on the joined form with Jaccard
// overlap of the token sets.
func blend(a, b string, aTokens, bTokens []string) float64 {
	return editWeight*editSimilarity(a, b) + tokenWeight*jaccard(aTokens, bTokens)
}

func surnamesMatch(a, b string, tolerance int) bool {
	if a == b {
		return true
	}
	if len(a) <= 3 || len(b) <= 3 {
		return false
	}
	return levenshtein.ComputeDistance(a, b) <= tolerance
}

// editSimilarity is 1 - distance/maxLen, so strictly more edits between
// two strings never raise the score.
func editSimilarity(a, b string) float64 {
	if a == b {
		return 1
	}
	longest := max(len(a), len(b))
	if longest == 0 {
		return 0
	}
	d := levenshtein.ComputeDistance(a, b)
	if d >= longest {
		return 0
	}
	return 1 - float64(d)/float64(longest)
}

// jaccard computes token-set overlap. Tokens longer than three letters
// also match within one edit, so a single-character typo in one name part
// does not zero out the overlap signal.
func jaccard(a, b []string) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	aSet := uniq(a)
	bSet := uniq(b)

	shared := 0
	used := make([]bool, len(aSet))
	for _, tb := range bSet {
		for i, ta := range aSet {
			if used[i] {
				continue
			}
			if tokensMatch(ta, tb) {
				used[i] = true
				shared++
				break
			}
		}
	}
	union := len(aSet) + len(bSet) - shared
	return float64(shared) / float64(union)
}

func tokensMatch(a, b string) bool {
	if a == b {
		return true
	}
	if len(a) <= 3 || len(b) <= 3 {
		return false
	}
	return levenshtein.ComputeDistance(a, b) <= 1
}

func uniq(tokens []string) []string {
	seen := make(map[string]bool, len(tokens))
	out := tokens[:0:0]
	for _, t := range tokens {
		if !seen[t] {
			seen[t] = true
			out = append(out, t)
		}
	}
	return out
}

// initialsTokens reduces given names to their first letter so the token
// overlap compares on the same basis as the initials string.
func initialsTokens(n namenorm.NormalizedName) []string {
	tokens := make([]string, 0, len(n.Givens)+1)
	for _, g := range n.Givens {
		_, size := utf8.DecodeRuneInString(g)
		tokens = append(tokens, g[:size])
	}
	return append(tokens, n.Surname)
}
