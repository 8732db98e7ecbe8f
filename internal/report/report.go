// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package report renders aggregation indices and canonical publications
// for the CLI: fixed-width tables for terminals, JSON for pipelines, and
// CSV for spreadsheet handoff.
package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/mlaurent/halindex/pkg/types"
)

// FormatIndex writes the aggregation index to w as a table, one row per
// scientist sorted by publication count descending, then a totals block.
func FormatIndex(w io.Writer, idx *types.AggregationIndex) {
	if idx == nil || len(idx.Scientists) == 0 {
		fmt.Fprintln(w, "No attributed publications.")
		return
	}

	keys := make([]string, 0, len(idx.Scientists))
	for key := range idx.Scientists {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		pi, pj := idx.Scientists[keys[i]].Publications, idx.Scientists[keys[j]].Publications
		if pi != pj {
			return pi > pj
		}
		return keys[i] < keys[j]
	})

	fmt.Fprintf(w, "%-30s  %5s  %-30s  %-25s  %s\n",
		"Scientist", "Pubs", "Top topic", "Top venue", "Active")
	fmt.Fprintln(w, strings.Repeat("-", 110))

	for _, key := range keys {
		si := idx.Scientists[key]
		fmt.Fprintf(w, "%-30s  %5d  %-30s  %-25s  %s\n",
			truncate(key, 30), si.Publications,
			truncate(topEntry(si.Topics), 30),
			truncate(topEntry(si.Venues), 25),
			periodSpan(si.Periods))
	}

	fmt.Fprintf(w, "\n%d distinct publications, %d scientists\n",
		idx.DistinctPublications, len(idx.Scientists))
	if top := topEntry(idx.TopicTotals); top != "" {
		fmt.Fprintf(w, "Top topic overall: %s\n", top)
	}
}

// FormatIndexJSON writes the aggregation index to w as indented JSON.
func FormatIndexJSON(w io.Writer, idx *types.AggregationIndex) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(idx)
}

// FormatDiagnostics writes accumulated diagnostics, grouped by kind.
func FormatDiagnostics(w io.Writer, diags []types.Diagnostic) {
	if len(diags) == 0 {
		return
	}
	fmt.Fprintf(w, "\n%d diagnostics:\n", len(diags))
	for _, d := range diags {
		fmt.Fprintf(w, "  %s\n", d)
	}
}

// WriteCSV writes the canonical publications to w as CSV with a header
// row. Multi-valued fields are joined with semicolons.
func WriteCSV(w io.Writer, pubs []*types.CanonicalPublication) error {
	cw := csv.NewWriter(w)
	header := []string{
		"archive_id", "title", "year", "venue", "doc_type",
		"topics", "scientists", "confidences", "sources", "merged_from",
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("writing CSV header: %w", err)
	}

	for _, pub := range pubs {
		var scientists, confidences []string
		for _, attr := range pub.Attributions {
			if attr.Counted() {
				scientists = append(scientists, attr.ScientistKey)
				confidences = append(confidences, string(attr.Confidence))
			}
		}
		row := []string{
			pub.ArchiveID,
			pub.Title,
			strconv.Itoa(pub.Year),
			pub.Venue,
			pub.DocType,
			strings.Join(pub.Topics, ";"),
			strings.Join(scientists, ";"),
			strings.Join(confidences, ";"),
			strings.Join(pub.Sources, ";"),
			strconv.Itoa(pub.MergedFrom),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing CSV row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// topEntry returns the highest-count key, ties broken alphabetically.
func topEntry(counts map[string]int) string {
	best, bestN := "", 0
	for k, n := range counts {
		if n > bestN || (n == bestN && best != "" && k < best) {
			best, bestN = k, n
		}
	}
	return best
}

// periodSpan renders the covered period range ("1898-1903", or a single
// label when only one bucket is populated).
func periodSpan(periods map[string]int) string {
	if len(periods) == 0 {
		return ""
	}
	keys := make([]string, 0, len(periods))
	for k := range periods {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	if len(keys) == 1 {
		return keys[0]
	}
	return keys[0] + "-" + keys[len(keys)-1]
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}
