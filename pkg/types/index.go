// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// ScientistIndex holds the per-scientist counters over the canonical
// publication set attributed to that scientist.
type ScientistIndex struct {
	// Topics maps topic/keyword → publication count.
	Topics map[string]int `json:"topics" yaml:"topics"`

	// Venues maps venue name → publication count.
	Venues map[string]int `json:"venues" yaml:"venues"`

	// Periods maps period label ("2023", "2023-Q2") → publication count.
	Periods map[string]int `json:"periods" yaml:"periods"`

	// Publications is the number of canonical publications attributed to
	// the scientist with a counted confidence.
	Publications int `json:"publications" yaml:"publications"`
}

// NewScientistIndex returns an empty per-scientist index.
func NewScientistIndex() *ScientistIndex {
	return &ScientistIndex{
		Topics:  make(map[string]int),
		Venues:  make(map[string]int),
		Periods: make(map[string]int),
	}
}

// AggregationIndex is the pipeline's public artifact: per-scientist and
// roster-wide counters over the canonical set. Derived, rebuilt on each
// run, never incrementally mutated.
type AggregationIndex struct {
	// Scientists maps roster key → per-scientist counters.
	Scientists map[string]*ScientistIndex `json:"scientists" yaml:"scientists"`

	// TopicTotals, VenueTotals and PeriodTotals sum the per-scientist
	// counters across the roster. A publication attributed to two
	// scientists contributes to each of them, so these totals count it
	// once per attributed scientist.
	TopicTotals  map[string]int `json:"topic_totals" yaml:"topic_totals"`
	VenueTotals  map[string]int `json:"venue_totals" yaml:"venue_totals"`
	PeriodTotals map[string]int `json:"period_totals" yaml:"period_totals"`

	// DistinctPublications counts each attributed canonical publication
	// exactly once, regardless of how many scientists it is attributed to.
	DistinctPublications int `json:"distinct_publications" yaml:"distinct_publications"`
}

// NewAggregationIndex returns an empty index.
func NewAggregationIndex() *AggregationIndex {
	return &AggregationIndex{
		Scientists:   make(map[string]*ScientistIndex),
		TopicTotals:  make(map[string]int),
		VenueTotals:  make(map[string]int),
		PeriodTotals: make(map[string]int),
	}
}

// Scientist returns the per-scientist index for key, creating it if absent.
func (idx *AggregationIndex) Scientist(key string) *ScientistIndex {
	si, ok := idx.Scientists[key]
	if !ok {
		si = NewScientistIndex()
		idx.Scientists[key] = si
	}
	return si
}
