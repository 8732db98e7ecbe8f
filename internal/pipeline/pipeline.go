// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline orchestrates the full run: validate raw records,
// resolve author mentions against the roster, deduplicate, and build the
// aggregation index. Per-record problems become diagnostics on the
// result; only structurally invalid input (an empty roster, a missing
// record set) aborts the run.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"runtime"
	"sync"

	"github.com/mlaurent/halindex/internal/aggregate"
	"github.com/mlaurent/halindex/internal/dedup"
	"github.com/mlaurent/halindex/internal/resolve"
	"github.com/mlaurent/halindex/pkg/types"
)

// Summary holds the run-level counters reported after a pipeline run.
type Summary struct {
	RawRecords       int `json:"raw_records" yaml:"raw_records"`
	MalformedRecords int `json:"malformed_records" yaml:"malformed_records"`
	Canonical        int `json:"canonical" yaml:"canonical"`
	Attributed       int `json:"attributed" yaml:"attributed"`
	AmbiguousRecords int `json:"ambiguous_records" yaml:"ambiguous_records"`
}

// Result is everything one pipeline run produces.
type Result struct {
	Canonical   []*types.CanonicalPublication `json:"canonical" yaml:"canonical"`
	Index       *types.AggregationIndex       `json:"index" yaml:"index"`
	Diagnostics []types.Diagnostic            `json:"diagnostics,omitempty" yaml:"diagnostics,omitempty"`
	Summary     Summary                       `json:"summary" yaml:"summary"`
}

// Run executes the pipeline over the raw records. Status lines go to w.
func Run(ctx context.Context, roster []*types.Scientist, records []*types.RawPublication,
	cfg types.PipelineConfig, w io.Writer) (*Result, error) {

	if len(roster) == 0 {
		return nil, fmt.Errorf("pipeline: roster is empty")
	}
	if records == nil {
		return nil, fmt.Errorf("pipeline: no records to process")
	}

	resolver, err := resolve.New(roster, cfg.Resolver)
	if err != nil {
		return nil, fmt.Errorf("pipeline: %w", err)
	}

	fmt.Fprintf(w, "Resolving %d records against %d scientists\n", len(records), len(roster))

	result := &Result{Summary: Summary{RawRecords: len(records)}}

	out := make([]resolvedRecord, len(records))

	workers := cfg.Aggregation.Workers
	if workers < 1 {
		workers = runtime.NumCPU()
	}
	jobs := make(chan int)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				out[idx] = resolveRecord(resolver, idx, records[idx])
			}
		}()
	}

	var canceled error
feed:
	for i := range records {
		select {
		case <-ctx.Done():
			canceled = ctx.Err()
			break feed
		case jobs <- i:
		}
	}
	close(jobs)
	wg.Wait()
	if canceled != nil {
		return nil, fmt.Errorf("pipeline: %w", canceled)
	}

	var resolvedPubs []*types.CanonicalPublication
	for _, r := range out {
		result.Diagnostics = append(result.Diagnostics, r.diags...)
		if r.pub != nil {
			resolvedPubs = append(resolvedPubs, r.pub)
		}
	}
	for _, d := range result.Diagnostics {
		switch d.Kind {
		case types.MalformedRecord:
			result.Summary.MalformedRecords++
		case types.AmbiguousMention:
			result.Summary.AmbiguousRecords++
		}
	}

	result.Canonical = dedup.Deduplicate(resolvedPubs)
	result.Summary.Canonical = len(result.Canonical)
	for _, pub := range result.Canonical {
		for _, attr := range pub.Attributions {
			if attr.Counted() {
				result.Summary.Attributed++
				break
			}
		}
	}

	fmt.Fprintf(w, "Deduplicated %d records into %d publications (%d attributed)\n",
		len(resolvedPubs), result.Summary.Canonical, result.Summary.Attributed)

	result.Index = aggregate.Build(result.Canonical, cfg.Aggregation)

	fmt.Fprintf(w, "Indexed %d distinct publications across %d scientists\n",
		result.Index.DistinctPublications, len(result.Index.Scientists))
	if n := result.Summary.MalformedRecords; n > 0 {
		fmt.Fprintf(w, "Skipped %d malformed records\n", n)
	}

	return result, nil
}

// resolvedRecord is the per-record output of the resolution stage.
type resolvedRecord struct {
	pub   *types.CanonicalPublication
	diags []types.Diagnostic
}

// resolveRecord validates one raw record and resolves its author
// mentions. A record missing its title or year is reported as malformed
// and dropped.
func resolveRecord(resolver *resolve.Resolver, idx int, rec *types.RawPublication) (r resolvedRecord) {
	if rec == nil {
		r.diags = append(r.diags, types.Diagnostic{
			Kind:   types.MalformedRecord,
			Record: idx,
			Detail: "nil record",
		})
		return r
	}
	if rec.Title == "" || rec.Year == 0 {
		r.diags = append(r.diags, types.Diagnostic{
			Kind:      types.MalformedRecord,
			Record:    idx,
			ArchiveID: rec.ArchiveID,
			Title:     rec.Title,
			Detail:    "missing title or year",
		})
		return r
	}

	attrs := resolver.Resolve(rec)
	for _, a := range attrs {
		if a.Confidence == types.RejectedAmbiguous {
			r.diags = append(r.diags, types.Diagnostic{
				Kind:      types.AmbiguousMention,
				Record:    idx,
				ArchiveID: rec.ArchiveID,
				Title:     rec.Title,
				Detail:    fmt.Sprintf("mention %q matches %s within epsilon", a.Mention, a.ScientistKey),
			})
		}
	}

	r.pub = &types.CanonicalPublication{
		ArchiveID:    rec.ArchiveID,
		Title:        rec.Title,
		Year:         rec.Year,
		Date:         rec.Date,
		Venue:        rec.Venue,
		DocType:      rec.DocType,
		Topics:       append([]string(nil), rec.Topics...),
		Attributions: attrs,
		MergedFrom:   1,
	}
	if rec.Source != "" {
		r.pub.Sources = []string{rec.Source}
	}
	return r
}
