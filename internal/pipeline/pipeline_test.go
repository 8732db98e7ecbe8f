// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mlaurent/halindex/pkg/types"
)

func testConfig() types.PipelineConfig {
	return types.PipelineConfig{
		Resolver:    types.DefaultResolverConfig(),
		Aggregation: types.DefaultAggregationConfig(),
	}
}

func TestRunEmptyRoster(t *testing.T) {
	var buf bytes.Buffer
	_, err := Run(context.Background(), nil, []*types.RawPublication{}, testConfig(), &buf)
	require.Error(t, err)
	assert.Empty(t, buf.String())
}

func TestRunNilRecords(t *testing.T) {
	roster := []*types.Scientist{{Key: "alice", FullName: "Alice Dupont"}}
	var buf bytes.Buffer
	_, err := Run(context.Background(), roster, nil, testConfig(), &buf)
	require.Error(t, err)
}

func TestRunMalformedRecordsSkipped(t *testing.T) {
	roster := []*types.Scientist{{Key: "alice", FullName: "Alice Dupont"}}
	records := []*types.RawPublication{
		{ArchiveID: "hal-1", Title: "", Year: 2020},
		{ArchiveID: "hal-2", Title: "Valid", Year: 0},
		{ArchiveID: "hal-3", Title: "Valid", Year: 2020,
			Authors: []types.RawAuthorMention{{FullName: "Alice Dupont"}}},
	}

	var buf bytes.Buffer
	res, err := Run(context.Background(), roster, records, testConfig(), &buf)
	require.NoError(t, err)

	assert.Equal(t, 3, res.Summary.RawRecords)
	assert.Equal(t, 2, res.Summary.MalformedRecords)
	assert.Equal(t, 1, res.Summary.Canonical)
	require.Len(t, res.Diagnostics, 2)
	assert.Equal(t, types.MalformedRecord, res.Diagnostics[0].Kind)
}

func TestRunEndToEnd(t *testing.T) {
	roster := []*types.Scientist{
		{Key: "marie-curie", FullName: "Marie Curie"},
		{Key: "jean-martin", FullName: "Jean Martin"},
		{Key: "juan-martin", FullName: "Juan Martin"},
	}
	records := []*types.RawPublication{
		{
			ArchiveID: "hal-100",
			Title:     "Radioactive Substances",
			Year:      1903,
			Venue:     "Comptes Rendus",
			Topics:    []string{"physics"},
			Source:    "hal",
			Authors:   []types.RawAuthorMention{{FullName: "Marie Curie"}},
		},
		{
			// Same publication seen from the other endpoint, abbreviated
			// author. Merges by identifier; certain beats probable.
			ArchiveID: "hal-100",
			Title:     "Radioactive Substances",
			Year:      1903,
			Source:    "hal-tel",
			Authors:   []types.RawAuthorMention{{FullName: "M. Curie"}},
		},
		{
			// No identifier; stands alone on its content key.
			Title:   "Sur une substance nouvelle",
			Year:    1898,
			Venue:   "Comptes Rendus",
			Topics:  []string{"chemistry"},
			Source:  "hal",
			Authors: []types.RawAuthorMention{{FullName: "M. Curie"}},
		},
		{
			// Ambiguous between the two Martins.
			ArchiveID: "hal-200",
			Title:     "Graph Algorithms",
			Year:      2001,
			Authors:   []types.RawAuthorMention{{FullName: "J. Martin"}},
		},
	}

	var buf bytes.Buffer
	res, err := Run(context.Background(), roster, records, testConfig(), &buf)
	require.NoError(t, err)

	assert.Equal(t, 3, res.Summary.Canonical)
	assert.Equal(t, 2, res.Summary.Attributed)

	// hal-100 merged from two records, certain attribution kept.
	var merged *types.CanonicalPublication
	for _, p := range res.Canonical {
		if p.ArchiveID == "hal-100" {
			merged = p
		}
	}
	require.NotNil(t, merged)
	assert.Equal(t, 2, merged.MergedFrom)
	assert.Equal(t, []string{"hal", "hal-tel"}, merged.Sources)
	require.Len(t, merged.Attributions, 1)
	assert.Equal(t, types.Certain, merged.Attributions[0].Confidence)

	// Index: two counted publications for Marie, none for the Martins.
	require.NotNil(t, res.Index.Scientists["marie-curie"])
	assert.Equal(t, 2, res.Index.Scientists["marie-curie"].Publications)
	assert.Nil(t, res.Index.Scientists["jean-martin"])
	assert.Equal(t, 2, res.Index.DistinctPublications)

	// The ambiguous mention produced diagnostics, one per rejected match.
	var ambiguous int
	for _, d := range res.Diagnostics {
		if d.Kind == types.AmbiguousMention {
			ambiguous++
			assert.Equal(t, "hal-200", d.ArchiveID)
		}
	}
	assert.Equal(t, 2, ambiguous)

	assert.Contains(t, buf.String(), "Resolving 4 records")
}

func TestRunCanceledContext(t *testing.T) {
	roster := []*types.Scientist{{Key: "alice", FullName: "Alice Dupont"}}
	records := make([]*types.RawPublication, 500)
	for i := range records {
		records[i] = &types.RawPublication{Title: "T", Year: 2020}
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var buf bytes.Buffer
	_, err := Run(ctx, roster, records, testConfig(), &buf)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunDeterministic(t *testing.T) {
	roster := []*types.Scientist{
		{Key: "alice", FullName: "Alice Dupont"},
		{Key: "bob", FullName: "Bob Bernard"},
	}
	var records []*types.RawPublication
	for i := 0; i < 60; i++ {
		name := "Alice Dupont"
		if i%2 == 0 {
			name = "Bob Bernard"
		}
		records = append(records, &types.RawPublication{
			ArchiveID: string(rune('a'+i%26)) + "-id",
			Title:     "Paper",
			Year:      2000 + i%5,
			Authors:   []types.RawAuthorMention{{FullName: name}},
		})
	}

	var buf bytes.Buffer
	first, err := Run(context.Background(), roster, records, testConfig(), &buf)
	require.NoError(t, err)
	second, err := Run(context.Background(), roster, records, testConfig(), &buf)
	require.NoError(t, err)

	assert.Equal(t, first.Canonical, second.Canonical)
	assert.Equal(t, first.Index, second.Index)
	assert.Equal(t, first.Summary, second.Summary)
}
