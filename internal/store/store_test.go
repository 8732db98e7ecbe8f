// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v3"

	"github.com/mlaurent/halindex/pkg/types"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(types.StoreConfig{DataDir: t.TempDir()})
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func testPubs() []*types.CanonicalPublication {
	return []*types.CanonicalPublication{
		{
			ArchiveID: "hal-1",
			Title:     "Radioactive Substances",
			Year:      1903,
			Date:      time.Date(1903, 6, 1, 0, 0, 0, 0, time.UTC),
			Venue:     "Comptes Rendus",
			DocType:   "ART",
			Topics:    []string{"physics"},
			Sources:   []string{"hal"},
			Attributions: []types.Attribution{
				{ScientistKey: "marie-curie", Confidence: types.Certain, Score: 1.0, Mention: "Marie Curie"},
			},
			MergedFrom: 2,
		},
		{
			Title: "Sur une substance nouvelle",
			Year:  1898,
			Attributions: []types.Attribution{
				{ScientistKey: "marie-curie", Confidence: types.Probable, Score: 0.9},
				{ScientistKey: "jean-martin", Confidence: types.RejectedAmbiguous, Score: 0.9},
			},
			MergedFrom: 1,
		},
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	runID, err := s.SaveRun(ctx, testPubs(), RunRecord{
		StartedAt: time.Now(), RawRecords: 3, Canonical: 2, Attributed: 2,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), runID)

	pubs, err := s.LoadPublications(ctx)
	require.NoError(t, err)
	require.Len(t, pubs, 2)

	// Ordered by year.
	assert.Equal(t, 1898, pubs[0].Year)
	assert.Equal(t, "hal-1", pubs[1].ArchiveID)
	assert.Equal(t, []string{"physics"}, pubs[1].Topics)
	assert.Equal(t, "1903-06-01", pubs[1].Date.Format("2006-01-02"))

	require.Len(t, pubs[0].Attributions, 2)
	assert.Equal(t, types.RejectedAmbiguous, pubs[0].Attributions[0].Confidence)
	assert.Equal(t, "jean-martin", pubs[0].Attributions[0].ScientistKey)
}

func TestSaveRunReplaces(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	_, err := s.SaveRun(ctx, testPubs(), RunRecord{StartedAt: time.Now()})
	require.NoError(t, err)
	_, err = s.SaveRun(ctx, testPubs()[:1], RunRecord{StartedAt: time.Now()})
	require.NoError(t, err)

	pubs, err := s.LoadPublications(ctx)
	require.NoError(t, err)
	assert.Len(t, pubs, 1)
}

func TestScientistCounts(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	_, err := s.SaveRun(ctx, testPubs(), RunRecord{StartedAt: time.Now()})
	require.NoError(t, err)

	counts, err := s.ScientistCounts(ctx)
	require.NoError(t, err)
	// Certain and probable count, rejected-ambiguous does not.
	assert.Equal(t, 2, counts["marie-curie"])
	assert.NotContains(t, counts, "jean-martin")
}

func TestLastRun(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	_, err := s.LastRun(ctx)
	require.Error(t, err)

	started := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	_, err = s.SaveRun(ctx, nil, RunRecord{StartedAt: started, RawRecords: 7, Malformed: 1})
	require.NoError(t, err)

	rec, err := s.LastRun(ctx)
	require.NoError(t, err)
	assert.Equal(t, 7, rec.RawRecords)
	assert.Equal(t, 1, rec.Malformed)
	assert.True(t, rec.StartedAt.Equal(started))
}

func TestExportYAML(t *testing.T) {
	dir := t.TempDir()
	s, err := NewStore(types.StoreConfig{DataDir: dir})
	require.NoError(t, err)
	defer s.Close()
	ctx := context.Background()

	_, err = s.SaveRun(ctx, testPubs(), RunRecord{StartedAt: time.Now()})
	require.NoError(t, err)
	require.NoError(t, s.ExportYAML(ctx))

	data, err := os.ReadFile(filepath.Join(dir, "index", "export.yaml"))
	require.NoError(t, err)

	var entries []ExportEntry
	require.NoError(t, yaml.Unmarshal(data, &entries))
	require.Len(t, entries, 2)
	assert.Equal(t, "Sur une substance nouvelle", entries[0].Title)
	// Only counted attributions appear as scientists.
	assert.Equal(t, []string{"marie-curie"}, entries[0].Scientists)
}

func TestExportJSON(t *testing.T) {
	dir := t.TempDir()
	s, err := NewStore(types.StoreConfig{DataDir: dir})
	require.NoError(t, err)
	defer s.Close()
	ctx := context.Background()

	_, err = s.SaveRun(ctx, testPubs(), RunRecord{StartedAt: time.Now()})
	require.NoError(t, err)
	require.NoError(t, s.ExportJSON(ctx))

	data, err := os.ReadFile(filepath.Join(dir, "index", "export.json"))
	require.NoError(t, err)

	var entries []ExportEntry
	require.NoError(t, json.Unmarshal(data, &entries))
	assert.Len(t, entries, 2)
}
