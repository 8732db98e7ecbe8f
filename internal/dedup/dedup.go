// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package dedup collapses raw publication records into canonical
// publications. Records sharing an archive identifier are always the
// same publication; records without a shared identifier fall back to a
// normalized title, year and venue key.
package dedup

import (
	"sort"

	"github.com/mlaurent/halindex/internal/namenorm"
	"github.com/mlaurent/halindex/pkg/types"
)

// contentKey identifies a publication when no archive identifier links
// the records.
type contentKey struct {
	title string
	year  int
	venue string
}

func keyOf(p *types.CanonicalPublication) contentKey {
	return contentKey{
		title: namenorm.NormalizeText(p.Title),
		year:  p.Year,
		venue: namenorm.NormalizeText(p.Venue),
	}
}

// Deduplicate merges the list into canonical publications. Archive
// identifiers take precedence over content keys, so two records with the
// same identifier merge even when their titles disagree. The operation
// is idempotent and the result is sorted by year, then normalized title,
// then archive identifier.
func Deduplicate(records []*types.CanonicalPublication) []*types.CanonicalPublication {
	byID := make(map[string]*types.CanonicalPublication)
	byContent := make(map[contentKey]*types.CanonicalPublication)
	var out []*types.CanonicalPublication

	for _, rec := range records {
		if rec == nil {
			continue
		}
		var target *types.CanonicalPublication
		if rec.ArchiveID != "" {
			target = byID[rec.ArchiveID]
		}
		if target == nil {
			target = byContent[keyOf(rec)]
		}

		if target == nil {
			merged := clone(rec)
			out = append(out, merged)
			if merged.ArchiveID != "" {
				byID[merged.ArchiveID] = merged
			}
			byContent[keyOf(merged)] = merged
			continue
		}

		oldKey := keyOf(target)
		merge(target, rec)
		if target.ArchiveID != "" {
			byID[target.ArchiveID] = target
		}
		// The merged record may have picked up a better title or venue.
		if newKey := keyOf(target); newKey != oldKey {
			delete(byContent, oldKey)
			byContent[newKey] = target
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Year != out[j].Year {
			return out[i].Year < out[j].Year
		}
		ti, tj := namenorm.NormalizeText(out[i].Title), namenorm.NormalizeText(out[j].Title)
		if ti != tj {
			return ti < tj
		}
		return out[i].ArchiveID < out[j].ArchiveID
	})
	return out
}

func clone(p *types.CanonicalPublication) *types.CanonicalPublication {
	c := *p
	c.Topics = append([]string(nil), p.Topics...)
	c.Attributions = append([]types.Attribution(nil), p.Attributions...)
	c.Sources = append([]string(nil), p.Sources...)
	if c.MergedFrom == 0 {
		c.MergedFrom = 1
	}
	return &c
}

// merge folds src into dst field by field. A record carrying an archive
// identifier outranks one without; otherwise the more complete value
// wins.
func merge(dst, src *types.CanonicalPublication) {
	srcHasID := src.ArchiveID != "" && dst.ArchiveID == ""
	if srcHasID {
		dst.ArchiveID = src.ArchiveID
	}

	if pickString(dst.Title, src.Title, srcHasID) {
		dst.Title = src.Title
	}
	if pickString(dst.Venue, src.Venue, srcHasID) {
		dst.Venue = src.Venue
	}
	if dst.Year == 0 {
		dst.Year = src.Year
	}
	if dst.Date.IsZero() {
		dst.Date = src.Date
	}
	// A specific document type beats an empty or unspecified one.
	if dst.DocType == "" || (srcHasID && src.DocType != "") {
		dst.DocType = src.DocType
	}

	dst.Topics = unionSorted(dst.Topics, src.Topics)
	dst.Sources = unionSorted(dst.Sources, src.Sources)
	dst.Attributions = mergeAttributions(dst.Attributions, src.Attributions)

	n := src.MergedFrom
	if n == 0 {
		n = 1
	}
	dst.MergedFrom += n
}

// pickString reports whether the src value should replace dst: src wins
// when dst is empty, when src came with an archive identifier, or when
// src is strictly longer (more complete).
func pickString(dst, src string, srcHasID bool) bool {
	if src == "" {
		return false
	}
	if dst == "" {
		return true
	}
	if srcHasID {
		return true
	}
	return len(src) > len(dst)
}

func unionSorted(a, b []string) []string {
	seen := make(map[string]bool, len(a)+len(b))
	var out []string
	for _, list := range [][]string{a, b} {
		for _, v := range list {
			if v == "" || seen[v] {
				continue
			}
			seen[v] = true
			out = append(out, v)
		}
	}
	sort.Strings(out)
	return out
}

// mergeAttributions unions by scientist, keeping the strongest
// confidence and, within equal confidence, the higher score.
func mergeAttributions(a, b []types.Attribution) []types.Attribution {
	best := make(map[string]types.Attribution, len(a)+len(b))
	var order []string
	for _, list := range [][]types.Attribution{a, b} {
		for _, attr := range list {
			prev, ok := best[attr.ScientistKey]
			if !ok {
				best[attr.ScientistKey] = attr
				order = append(order, attr.ScientistKey)
				continue
			}
			if attr.Confidence.Rank() > prev.Confidence.Rank() ||
				(attr.Confidence.Rank() == prev.Confidence.Rank() && attr.Score > prev.Score) {
				best[attr.ScientistKey] = attr
			}
		}
	}
	sort.Strings(order)
	// Nil, not empty, so a re-run of Deduplicate reproduces its input.
	if len(order) == 0 {
		return nil
	}
	out := make([]types.Attribution, 0, len(order))
	for _, key := range order {
		out = append(out, best[key])
	}
	return out
}
