// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package resolve matches raw author mentions against the roster and
// emits confidence-labelled attributions.
//
// A mention scoring within epsilon of two or more roster scientists is
// rejected as ambiguous for all of them rather than attributed to the
// highest scorer.
package resolve

import (
	"fmt"
	"sync"

	"github.com/mlaurent/halindex/internal/namenorm"
	"github.com/mlaurent/halindex/internal/similarity"
	"github.com/mlaurent/halindex/pkg/types"
)

// rosterEntry precomputes the normalized name variants for one scientist.
type rosterEntry struct {
	scientist *types.Scientist
	names     []namenorm.NormalizedName
}

// Resolver matches author mentions against a fixed roster. Safe for
// concurrent use; repeated calls with identical input produce identical
// output. The roster records themselves are never mutated.
type Resolver struct {
	cfg     types.ResolverConfig
	entries []rosterEntry

	// cache remembers normalized mention strings already resolved with
	// certainty, keyed by the mention's full form. Purely an accepted-
	// variant memo: scoring is deterministic, so hits and misses yield
	// the same attributions.
	mu    sync.RWMutex
	cache map[string]string // normalized mention → scientist key
}

// New builds a Resolver for the roster. An empty roster is structurally
// invalid input and returns an error before any resolution happens.
func New(roster []*types.Scientist, cfg types.ResolverConfig) (*Resolver, error) {
	if len(roster) == 0 {
		return nil, fmt.Errorf("resolver: roster is empty")
	}
	if cfg.UpperThreshold <= 0 {
		cfg = types.DefaultResolverConfig()
	}
	if cfg.LowerThreshold > cfg.UpperThreshold {
		return nil, fmt.Errorf("resolver: lower threshold %.2f exceeds upper %.2f",
			cfg.LowerThreshold, cfg.UpperThreshold)
	}

	entries := make([]rosterEntry, 0, len(roster))
	for _, s := range roster {
		e := rosterEntry{scientist: s}
		for _, name := range s.Names() {
			if n := namenorm.Normalize(name); !n.IsZero() {
				e.names = append(e.names, n)
			}
		}
		entries = append(entries, e)
	}

	return &Resolver{
		cfg:     cfg,
		entries: entries,
		cache:   make(map[string]string),
	}, nil
}

// candidate is one scientist's best score for a mention.
type candidate struct {
	key   string
	score float64
}

// Resolve matches every author mention on the publication against the
// roster and returns the resulting attributions, at most one per
// scientist, strongest confidence kept. A publication with no roster
// match returns an empty list; that is the normal unattributed outcome,
// not an error.
func (r *Resolver) Resolve(pub *types.RawPublication) []types.Attribution {
	best := make(map[string]types.Attribution) // scientist key → strongest attribution
	var order []string                         // insertion order for deterministic output

	record := func(a types.Attribution) {
		prev, ok := best[a.ScientistKey]
		if !ok {
			best[a.ScientistKey] = a
			order = append(order, a.ScientistKey)
			return
		}
		if a.Confidence.Rank() > prev.Confidence.Rank() ||
			(a.Confidence.Rank() == prev.Confidence.Rank() && a.Score > prev.Score) {
			best[a.ScientistKey] = a
		}
	}

	for _, mention := range pub.Authors {
		for _, a := range r.resolveMention(mention) {
			record(a)
		}
	}

	attrs := make([]types.Attribution, 0, len(order))
	for _, key := range order {
		attrs = append(attrs, best[key])
	}
	return attrs
}

func (r *Resolver) resolveMention(mention types.RawAuthorMention) []types.Attribution {
	// An archive author identifier match short-circuits name similarity.
	if mention.ArchiveID != "" {
		for _, e := range r.entries {
			if e.scientist.HasArchiveID(mention.ArchiveID) {
				return []types.Attribution{{
					ScientistKey: e.scientist.Key,
					Confidence:   types.Certain,
					Score:        1.0,
					Mention:      mention.FullName,
				}}
			}
		}
	}

	n := namenorm.Normalize(mention.FullName)
	if n.IsZero() {
		return nil
	}

	if key, ok := r.cached(n.Full); ok {
		return []types.Attribution{{
			ScientistKey: key,
			Confidence:   types.Certain,
			Score:        1.0,
			Mention:      mention.FullName,
		}}
	}

	// Best score per scientist across all known name variants.
	var candidates []candidate
	for _, e := range r.entries {
		top := 0.0
		for _, rosterName := range e.names {
			if s := similarity.Score(n, rosterName, r.cfg.SurnameTolerance); s > top {
				top = s
			}
		}
		if top >= r.cfg.LowerThreshold {
			candidates = append(candidates, candidate{key: e.scientist.Key, score: top})
		}
	}
	if len(candidates) == 0 {
		return nil
	}

	top := candidates[0]
	for _, c := range candidates[1:] {
		if c.score > top.score {
			top = c
		}
	}

	// Tie-break: every candidate within epsilon of the best competes.
	// More than one competitor means the mention is ambiguous and all of
	// them are rejected.
	var contenders []candidate
	for _, c := range candidates {
		if top.score-c.score <= r.cfg.AmbiguityEpsilon {
			contenders = append(contenders, c)
		}
	}
	if len(contenders) > 1 {
		attrs := make([]types.Attribution, 0, len(contenders))
		for _, c := range contenders {
			attrs = append(attrs, types.Attribution{
				ScientistKey: c.key,
				Confidence:   types.RejectedAmbiguous,
				Score:        c.score,
				Mention:      mention.FullName,
			})
		}
		return attrs
	}

	conf := types.Probable
	if top.score >= r.cfg.UpperThreshold {
		conf = types.Certain
		if top.score == 1.0 {
			r.remember(n.Full, top.key)
		}
	}
	return []types.Attribution{{
		ScientistKey: top.key,
		Confidence:   conf,
		Score:        top.score,
		Mention:      mention.FullName,
	}}
}

func (r *Resolver) cached(full string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	key, ok := r.cache[full]
	return key, ok
}

func (r *Resolver) remember(full, key string) {
	r.mu.Lock()
	r.cache[full] = key
	r.mu.Unlock()
}
