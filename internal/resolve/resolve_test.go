// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package resolve

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mlaurent/halindex/pkg/types"
)

func testRoster() []*types.Scientist {
	return []*types.Scientist{
		{Key: "marie-curie", FullName: "Marie Curie", ArchiveIDs: []string{"mcurie-hal"}},
		{Key: "jean-martin", FullName: "Jean Martin"},
		{Key: "juan-martin", FullName: "Juan Martin"},
	}
}

func pub(authors ...types.RawAuthorMention) *types.RawPublication {
	return &types.RawPublication{
		ArchiveID: "hal-0001",
		Title:     "On the Radioactivity of Pitchblende",
		Year:      1902,
		Authors:   authors,
	}
}

func TestNewEmptyRoster(t *testing.T) {
	_, err := New(nil, types.DefaultResolverConfig())
	require.Error(t, err)
}

func TestNewInvertedThresholds(t *testing.T) {
	cfg := types.DefaultResolverConfig()
	cfg.UpperThreshold = 0.5
	cfg.LowerThreshold = 0.9
	_, err := New(testRoster(), cfg)
	require.Error(t, err)
}

func TestResolveExactName(t *testing.T) {
	r, err := New(testRoster(), types.DefaultResolverConfig())
	require.NoError(t, err)

	attrs := r.Resolve(pub(types.RawAuthorMention{FullName: "Marie Curie"}))
	require.Len(t, attrs, 1)
	assert.Equal(t, "marie-curie", attrs[0].ScientistKey)
	assert.Equal(t, types.Certain, attrs[0].Confidence)
	assert.Equal(t, 1.0, attrs[0].Score)
}

func TestResolveArchiveIDShortCircuit(t *testing.T) {
	r, err := New(testRoster(), types.DefaultResolverConfig())
	require.NoError(t, err)

	// Name alone would never match; the archive identifier decides.
	attrs := r.Resolve(pub(types.RawAuthorMention{
		FullName:  "M. Sklodowska",
		ArchiveID: "mcurie-hal",
	}))
	require.Len(t, attrs, 1)
	assert.Equal(t, "marie-curie", attrs[0].ScientistKey)
	assert.Equal(t, types.Certain, attrs[0].Confidence)
}

func TestResolveInitialsProbable(t *testing.T) {
	r, err := New(testRoster(), types.DefaultResolverConfig())
	require.NoError(t, err)

	attrs := r.Resolve(pub(types.RawAuthorMention{FullName: "M. Curie"}))
	require.Len(t, attrs, 1)
	assert.Equal(t, "marie-curie", attrs[0].ScientistKey)
	assert.Equal(t, types.Probable, attrs[0].Confidence)
}

func TestResolveAmbiguousRejected(t *testing.T) {
	r, err := New(testRoster(), types.DefaultResolverConfig())
	require.NoError(t, err)

	// "J. Martin" scores identically against both Martins.
	attrs := r.Resolve(pub(types.RawAuthorMention{FullName: "J. Martin"}))
	require.Len(t, attrs, 2)
	keys := map[string]bool{}
	for _, a := range attrs {
		assert.Equal(t, types.RejectedAmbiguous, a.Confidence)
		keys[a.ScientistKey] = true
	}
	assert.True(t, keys["jean-martin"])
	assert.True(t, keys["juan-martin"])
}

func TestResolveClearWinnerNotAmbiguous(t *testing.T) {
	r, err := New(testRoster(), types.DefaultResolverConfig())
	require.NoError(t, err)

	// The full given name separates the two Martins by more than epsilon.
	attrs := r.Resolve(pub(types.RawAuthorMention{FullName: "Jean Martin"}))
	require.Len(t, attrs, 1)
	assert.Equal(t, "jean-martin", attrs[0].ScientistKey)
	assert.Equal(t, types.Certain, attrs[0].Confidence)
}

func TestResolveNoMatch(t *testing.T) {
	r, err := New(testRoster(), types.DefaultResolverConfig())
	require.NoError(t, err)

	attrs := r.Resolve(pub(types.RawAuthorMention{FullName: "Albert Einstein"}))
	assert.Empty(t, attrs)
}

func TestResolveEmptyMentionSkipped(t *testing.T) {
	r, err := New(testRoster(), types.DefaultResolverConfig())
	require.NoError(t, err)

	attrs := r.Resolve(pub(
		types.RawAuthorMention{FullName: "   "},
		types.RawAuthorMention{FullName: "Marie Curie"},
	))
	require.Len(t, attrs, 1)
	assert.Equal(t, "marie-curie", attrs[0].ScientistKey)
}

func TestResolveOneAttributionPerScientist(t *testing.T) {
	r, err := New(testRoster(), types.DefaultResolverConfig())
	require.NoError(t, err)

	// Two mentions of the same scientist collapse to the strongest.
	attrs := r.Resolve(pub(
		types.RawAuthorMention{FullName: "M. Curie"},
		types.RawAuthorMention{FullName: "Marie Curie"},
	))
	require.Len(t, attrs, 1)
	assert.Equal(t, types.Certain, attrs[0].Confidence)
	assert.Equal(t, 1.0, attrs[0].Score)
}

func TestResolveVariantMatches(t *testing.T) {
	roster := []*types.Scientist{
		{
			Key:      "marie-curie",
			FullName: "Marie Curie",
			Variants: []string{"Marie Sklodowska-Curie"},
		},
	}
	r, err := New(roster, types.DefaultResolverConfig())
	require.NoError(t, err)

	attrs := r.Resolve(pub(types.RawAuthorMention{FullName: "Marie Sklodowska Curie"}))
	require.Len(t, attrs, 1)
	assert.Equal(t, types.Certain, attrs[0].Confidence)
}

func TestResolveRaisingLowerThresholdShrinksProbables(t *testing.T) {
	// Raising the lower threshold can only drop candidates, so the
	// number of probable attributions never grows.
	p := pub(
		types.RawAuthorMention{FullName: "M. Curie"},
		types.RawAuthorMention{FullName: "Marie Curie"},
		types.RawAuthorMention{FullName: "J. Martin"},
	)

	prev := len(p.Authors) + 1
	for _, lower := range []float64{0.75, 0.85, 0.91} {
		cfg := types.DefaultResolverConfig()
		cfg.LowerThreshold = lower
		r, err := New(testRoster(), cfg)
		require.NoError(t, err)

		probables := 0
		for _, a := range r.Resolve(p) {
			if a.Confidence == types.Probable {
				probables++
			}
		}
		assert.LessOrEqual(t, probables, prev, "lower threshold %v", lower)
		prev = probables
	}
	// The strictest threshold excludes the initials-only mention entirely.
	assert.Equal(t, 0, prev)
}

func TestResolveDeterministic(t *testing.T) {
	r, err := New(testRoster(), types.DefaultResolverConfig())
	require.NoError(t, err)

	p := pub(
		types.RawAuthorMention{FullName: "Marie Curie"},
		types.RawAuthorMention{FullName: "J. Martin"},
	)
	first := r.Resolve(p)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, r.Resolve(p))
	}
}
