// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"
)

// ExportEntry is one canonical publication flattened for export.
type ExportEntry struct {
	ArchiveID  string   `json:"archive_id,omitempty" yaml:"archive_id,omitempty"`
	Title      string   `json:"title" yaml:"title"`
	Year       int      `json:"year" yaml:"year"`
	Venue      string   `json:"venue,omitempty" yaml:"venue,omitempty"`
	DocType    string   `json:"doc_type,omitempty" yaml:"doc_type,omitempty"`
	Topics     []string `json:"topics,omitempty" yaml:"topics,omitempty"`
	Scientists []string `json:"scientists,omitempty" yaml:"scientists,omitempty"`
	Sources    []string `json:"sources,omitempty" yaml:"sources,omitempty"`
	MergedFrom int      `json:"merged_from" yaml:"merged_from"`
}

// ExportYAML writes the stored canonical set to dataDir/index/export.yaml.
func (s *Store) ExportYAML(ctx context.Context) error {
	entries, err := s.exportEntries(ctx)
	if err != nil {
		return err
	}
	data, err := yaml.Marshal(entries)
	if err != nil {
		return fmt.Errorf("marshaling YAML: %w", err)
	}
	path := filepath.Join(s.dataDir, indexDir, "export.yaml")
	return os.WriteFile(path, data, 0o644)
}

// ExportJSON writes the stored canonical set to dataDir/index/export.json.
func (s *Store) ExportJSON(ctx context.Context) error {
	entries, err := s.exportEntries(ctx)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	path := filepath.Join(s.dataDir, indexDir, "export.json")
	return os.WriteFile(path, data, 0o644)
}

func (s *Store) exportEntries(ctx context.Context) ([]ExportEntry, error) {
	pubs, err := s.LoadPublications(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading publications for export: %w", err)
	}

	entries := make([]ExportEntry, len(pubs))
	for i, p := range pubs {
		entries[i] = ExportEntry{
			ArchiveID:  p.ArchiveID,
			Title:      p.Title,
			Year:       p.Year,
			Venue:      p.Venue,
			DocType:    p.DocType,
			Topics:     p.Topics,
			Sources:    p.Sources,
			MergedFrom: p.MergedFrom,
		}
		for _, attr := range p.Attributions {
			if attr.Counted() {
				entries[i].Scientists = append(entries[i].Scientists, attr.ScientistKey)
			}
		}
	}
	return entries, nil
}
