// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mlaurent/halindex/pkg/types"
)

func testIndex() *types.AggregationIndex {
	idx := types.NewAggregationIndex()
	marie := idx.Scientist("marie-curie")
	marie.Publications = 3
	marie.Topics["physics"] = 2
	marie.Topics["chemistry"] = 1
	marie.Venues["Comptes Rendus"] = 3
	marie.Periods["1898"] = 1
	marie.Periods["1903"] = 2

	jean := idx.Scientist("jean-martin")
	jean.Publications = 1
	jean.Periods["2001"] = 1

	idx.DistinctPublications = 4
	idx.TopicTotals["physics"] = 2
	return idx
}

func TestFormatIndex(t *testing.T) {
	var buf bytes.Buffer
	FormatIndex(&buf, testIndex())
	out := buf.String()

	lines := strings.Split(strings.TrimSpace(out), "\n")
	// Header, rule, two scientists sorted by count, blank, totals, top topic.
	require.GreaterOrEqual(t, len(lines), 5)
	assert.Contains(t, lines[2], "marie-curie")
	assert.Contains(t, lines[2], "physics")
	assert.Contains(t, lines[2], "1898-1903")
	assert.Contains(t, lines[3], "jean-martin")
	assert.Contains(t, out, "4 distinct publications, 2 scientists")
	assert.Contains(t, out, "Top topic overall: physics")
}

func TestFormatIndexEmpty(t *testing.T) {
	var buf bytes.Buffer
	FormatIndex(&buf, types.NewAggregationIndex())
	assert.Contains(t, buf.String(), "No attributed publications")
}

func TestFormatIndexJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, FormatIndexJSON(&buf, testIndex()))

	var decoded types.AggregationIndex
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, 4, decoded.DistinctPublications)
	assert.Equal(t, 3, decoded.Scientists["marie-curie"].Publications)
}

func TestFormatDiagnostics(t *testing.T) {
	var buf bytes.Buffer
	FormatDiagnostics(&buf, nil)
	assert.Empty(t, buf.String())

	FormatDiagnostics(&buf, []types.Diagnostic{
		{Kind: types.MalformedRecord, Record: 3, Detail: "missing title or year"},
	})
	assert.Contains(t, buf.String(), "1 diagnostics")
	assert.Contains(t, buf.String(), "malformed-record")
}

func TestWriteCSV(t *testing.T) {
	pubs := []*types.CanonicalPublication{
		{
			ArchiveID: "hal-1",
			Title:     `A "quoted" title, with comma`,
			Year:      1903,
			Venue:     "Comptes Rendus",
			DocType:   "ART",
			Topics:    []string{"physics", "chemistry"},
			Attributions: []types.Attribution{
				{ScientistKey: "marie-curie", Confidence: types.Certain},
				{ScientistKey: "jean-martin", Confidence: types.RejectedAmbiguous},
			},
			Sources:    []string{"hal"},
			MergedFrom: 2,
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, pubs))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "archive_id", rows[0][0])

	row := rows[1]
	assert.Equal(t, "hal-1", row[0])
	assert.Equal(t, `A "quoted" title, with comma`, row[1])
	assert.Equal(t, "1903", row[2])
	assert.Equal(t, "physics;chemistry", row[5])
	// Rejected attributions stay out of the scientists column.
	assert.Equal(t, "marie-curie", row[6])
	assert.Equal(t, "certain", row[7])
	assert.Equal(t, "2", row[9])
}
