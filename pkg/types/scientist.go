// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the halindex pipeline.
package types

// Scientist is one roster entry: a researcher whose publications the
// pipeline attributes. Roster records are read-only for the duration of
// a run; the resolver keeps accepted spelling variants in its own cache
// rather than mutating the roster.
type Scientist struct {
	// Key is the stable roster key (e.g. the roster-row id).
	Key string `json:"key" yaml:"key"`

	// FullName is the canonical display name ("Marie Curie").
	FullName string `json:"full_name" yaml:"full_name"`

	// Variants lists known alternate spellings of the name
	// ("M. Curie", "Curie Marie", "Marie Sklodowska-Curie").
	Variants []string `json:"variants,omitempty" yaml:"variants,omitempty"`

	// Emails lists professional email addresses.
	Emails []string `json:"emails,omitempty" yaml:"emails,omitempty"`

	// Employers lists employer strings as they appear in the roster.
	Employers []string `json:"employers,omitempty" yaml:"employers,omitempty"`

	// ArchiveIDs lists known archive author identifiers (idHAL values).
	// A mention carrying one of these resolves without name matching.
	ArchiveIDs []string `json:"archive_ids,omitempty" yaml:"archive_ids,omitempty"`
}

// Names returns the canonical name followed by all known variants.
func (s *Scientist) Names() []string {
	names := make([]string, 0, 1+len(s.Variants))
	names = append(names, s.FullName)
	names = append(names, s.Variants...)
	return names
}

// HasArchiveID reports whether id matches one of the scientist's known
// archive author identifiers.
func (s *Scientist) HasArchiveID(id string) bool {
	if id == "" {
		return false
	}
	for _, known := range s.ArchiveIDs {
		if known == id {
			return true
		}
	}
	return false
}
