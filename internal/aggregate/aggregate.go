// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package aggregate builds per-scientist and roster-wide publication
// statistics from canonical publications. Only Certain and Probable
// attributions count; rejected-ambiguous ones never reach an index.
package aggregate

import (
	"fmt"
	"sync"

	"github.com/mlaurent/halindex/pkg/types"
)

// Build computes the aggregation index over canonical publications. The
// work is sharded across cfg.Workers goroutines and the partial indices
// are merged by summing, so the result is independent of scheduling.
// Roster-wide topic, venue, and period totals sum across attributed
// scientists; only the distinct-publication count sees a shared
// publication once.
func Build(pubs []*types.CanonicalPublication, cfg types.AggregationConfig) *types.AggregationIndex {
	workers := cfg.Workers
	if workers < 1 {
		workers = 1
	}
	if workers > len(pubs) {
		workers = len(pubs)
	}
	if workers <= 1 {
		return buildPartial(pubs, cfg.Granularity)
	}

	chunk := (len(pubs) + workers - 1) / workers
	partials := make([]*types.AggregationIndex, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		lo := i * chunk
		hi := lo + chunk
		if hi > len(pubs) {
			hi = len(pubs)
		}
		wg.Add(1)
		go func(i int, part []*types.CanonicalPublication) {
			defer wg.Done()
			partials[i] = buildPartial(part, cfg.Granularity)
		}(i, pubs[lo:hi])
	}
	wg.Wait()

	idx := partials[0]
	for _, p := range partials[1:] {
		mergeInto(idx, p)
	}
	return idx
}

func buildPartial(pubs []*types.CanonicalPublication, g types.Granularity) *types.AggregationIndex {
	idx := types.NewAggregationIndex()
	for _, pub := range pubs {
		if pub == nil {
			continue
		}
		counted := false
		period := periodKey(pub, g)
		// Roster-wide totals sum across scientists: a publication
		// attributed to two scientists counts twice in TopicTotals.
		// Only DistinctPublications counts it once.
		for _, attr := range pub.Attributions {
			if !attr.Counted() {
				continue
			}
			si := idx.Scientist(attr.ScientistKey)
			si.Publications++
			for _, topic := range pub.Topics {
				si.Topics[topic]++
				idx.TopicTotals[topic]++
			}
			if pub.Venue != "" {
				si.Venues[pub.Venue]++
				idx.VenueTotals[pub.Venue]++
			}
			if period != "" {
				si.Periods[period]++
				idx.PeriodTotals[period]++
			}
			counted = true
		}
		if counted {
			idx.DistinctPublications++
		}
	}
	return idx
}

// periodKey renders the publication's period bucket. Quarter granularity
// needs a full date; records carrying only a year fall back to the year
// bucket.
func periodKey(pub *types.CanonicalPublication, g types.Granularity) string {
	if pub.Year == 0 {
		return ""
	}
	if g == types.ByQuarter && !pub.Date.IsZero() {
		q := (int(pub.Date.Month())-1)/3 + 1
		return fmt.Sprintf("%d-Q%d", pub.Year, q)
	}
	return fmt.Sprintf("%d", pub.Year)
}

func mergeInto(dst, src *types.AggregationIndex) {
	for key, si := range src.Scientists {
		target := dst.Scientist(key)
		target.Publications += si.Publications
		addCounts(target.Topics, si.Topics)
		addCounts(target.Venues, si.Venues)
		addCounts(target.Periods, si.Periods)
	}
	addCounts(dst.TopicTotals, src.TopicTotals)
	addCounts(dst.VenueTotals, src.VenueTotals)
	addCounts(dst.PeriodTotals, src.PeriodTotals)
	dst.DistinctPublications += src.DistinctPublications
}

func addCounts(dst, src map[string]int) {
	for k, v := range src {
		dst[k] += v
	}
}
