// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// RawAuthorMention is a single author entry as it appears on one raw
// publication record. Owned by its parent RawPublication.
type RawAuthorMention struct {
	// FullName is the free-text author name from the archive ("M. Curie").
	FullName string `json:"full_name" yaml:"full_name"`

	// Affiliation is the affiliation string, when the archive supplies one.
	Affiliation string `json:"affiliation,omitempty" yaml:"affiliation,omitempty"`

	// ArchiveID is the archive author identifier (idHAL), when present.
	ArchiveID string `json:"archive_id,omitempty" yaml:"archive_id,omitempty"`
}

// RawPublication is one record as returned by a single archive query.
// Multiple RawPublication instances may describe the same real
// publication: duplicate queries against both endpoints return the same
// document with varying field completeness.
type RawPublication struct {
	// ArchiveID is the archive's persistent document identifier (docid).
	// Empty when the record carries none.
	ArchiveID string `json:"archive_id,omitempty" yaml:"archive_id,omitempty"`

	// Title is the publication title.
	Title string `json:"title" yaml:"title"`

	// Year is the publication year.
	Year int `json:"year" yaml:"year"`

	// Date is the full publication date when the archive supplies one;
	// zero otherwise. Used for sub-year period bucketing.
	Date time.Time `json:"date,omitempty" yaml:"date,omitempty"`

	// Venue is the journal or conference name.
	Venue string `json:"venue,omitempty" yaml:"venue,omitempty"`

	// DocType is the archive document type code (ART, COMM, THESE, ...).
	DocType string `json:"doc_type,omitempty" yaml:"doc_type,omitempty"`

	// Topics lists the archive's keyword/category fields for the record.
	Topics []string `json:"topics,omitempty" yaml:"topics,omitempty"`

	// Authors lists the author mentions in source order.
	Authors []RawAuthorMention `json:"authors" yaml:"authors"`

	// Source identifies which archive endpoint returned the record
	// (e.g. "hal", "hal-tel").
	Source string `json:"source,omitempty" yaml:"source,omitempty"`
}

// Confidence labels the strength of an attribution.
type Confidence string

const (
	// Certain marks an identifier match or a name score at or above the
	// upper threshold.
	Certain Confidence = "certain"

	// Probable marks a name score between the lower and upper thresholds.
	Probable Confidence = "probable"

	// RejectedAmbiguous marks a mention that scored within epsilon of two
	// or more roster scientists. Surfaced for audit, never counted.
	RejectedAmbiguous Confidence = "rejected-ambiguous"
)

// Rank orders confidences so merges can keep the strongest label.
// RejectedAmbiguous ranks above Probable: an ambiguity verdict on a
// mention is a finding, not a weaker guess.
func (c Confidence) Rank() int {
	switch c {
	case Certain:
		return 3
	case RejectedAmbiguous:
		return 2
	case Probable:
		return 1
	default:
		return 0
	}
}

// Attribution links one publication to one roster scientist.
type Attribution struct {
	// ScientistKey references the roster entry.
	ScientistKey string `json:"scientist_key" yaml:"scientist_key"`

	// Confidence labels how the link was established.
	Confidence Confidence `json:"confidence" yaml:"confidence"`

	// Score is the similarity score that produced the attribution, or 1.0
	// for identifier matches.
	Score float64 `json:"score" yaml:"score"`

	// Mention is the author string that matched, for audit output.
	Mention string `json:"mention,omitempty" yaml:"mention,omitempty"`
}

// Counted reports whether the attribution contributes to index counts.
func (a Attribution) Counted() bool {
	return a.Confidence == Certain || a.Confidence == Probable
}

// CanonicalPublication is the deduplicated, merged representation of one
// real-world publication. No two canonical publications share an archive
// identifier, and no two share the same (normalized title, year, venue) key.
type CanonicalPublication struct {
	ArchiveID string    `json:"archive_id,omitempty" yaml:"archive_id,omitempty"`
	Title     string    `json:"title" yaml:"title"`
	Year      int       `json:"year" yaml:"year"`
	Date      time.Time `json:"date,omitempty" yaml:"date,omitempty"`
	Venue     string    `json:"venue,omitempty" yaml:"venue,omitempty"`
	DocType   string    `json:"doc_type,omitempty" yaml:"doc_type,omitempty"`
	Topics    []string  `json:"topics,omitempty" yaml:"topics,omitempty"`

	// Attributions is the union of attributions from all merged records,
	// one entry per scientist, strongest confidence kept.
	Attributions []Attribution `json:"attributions,omitempty" yaml:"attributions,omitempty"`

	// Sources lists the archive endpoints the merged records came from.
	Sources []string `json:"sources,omitempty" yaml:"sources,omitempty"`

	// MergedFrom is the number of raw records folded into this one.
	MergedFrom int `json:"merged_from" yaml:"merged_from"`
}
