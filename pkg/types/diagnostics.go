// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "fmt"

// DiagnosticKind classifies a per-record issue accumulated during a run.
type DiagnosticKind string

const (
	// MalformedRecord marks a raw record missing required fields (title
	// or year). Skipped and excluded from aggregation, never fatal.
	MalformedRecord DiagnosticKind = "malformed-record"

	// AmbiguousMention marks an author mention that scored within epsilon
	// of two or more roster scientists and was rejected for all of them.
	AmbiguousMention DiagnosticKind = "ambiguous-mention"
)

// Diagnostic records one per-record issue. Diagnostics ride alongside the
// primary result so one bad record cannot abort a batch.
type Diagnostic struct {
	// Kind classifies the issue.
	Kind DiagnosticKind `json:"kind" yaml:"kind"`

	// Record locates the raw record by its position in the input sequence.
	Record int `json:"record" yaml:"record"`

	// ArchiveID and Title identify the record for manual review.
	ArchiveID string `json:"archive_id,omitempty" yaml:"archive_id,omitempty"`
	Title     string `json:"title,omitempty" yaml:"title,omitempty"`

	// Detail is a human-readable explanation.
	Detail string `json:"detail" yaml:"detail"`
}

func (d Diagnostic) String() string {
	id := d.ArchiveID
	if id == "" {
		id = fmt.Sprintf("record %d", d.Record)
	}
	return fmt.Sprintf("%s: %s: %s", d.Kind, id, d.Detail)
}
