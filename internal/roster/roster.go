// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package roster loads the scientist roster from CSV.
//
// The expected columns are nom and prenom, plus optional title (the
// preferred display form of the full name), idhal, email, employer and
// variants (semicolon-separated alternate name forms). Header matching
// is case-insensitive and the file may start with a UTF-8 BOM, which is
// what spreadsheet exports produce.
package roster

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mlaurent/halindex/internal/namenorm"
	"github.com/mlaurent/halindex/pkg/types"
)

// Load reads the roster file at path.
func Load(path string) ([]*types.Scientist, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening roster: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

// Parse reads roster CSV from r.
func Parse(r io.Reader) ([]*types.Scientist, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("reading roster header: %w", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\uFEFF")
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range []string{"nom", "prenom"} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("roster is missing required column %q", required)
		}
	}

	field := func(row []string, name string) string {
		i, ok := cols[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	seen := make(map[string]bool)
	var roster []*types.Scientist
	for line := 2; ; line++ {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading roster line %d: %w", line, err)
		}

		nom := field(row, "nom")
		prenom := field(row, "prenom")
		if nom == "" && prenom == "" {
			continue
		}

		full := field(row, "title")
		if full == "" {
			full = strings.TrimSpace(prenom + " " + nom)
		}

		s := &types.Scientist{
			Key:      keyFor(prenom, nom),
			FullName: full,
		}
		if seen[s.Key] {
			return nil, fmt.Errorf("roster line %d: duplicate scientist %q", line, s.Key)
		}
		seen[s.Key] = true

		for _, v := range strings.Split(field(row, "variants"), ";") {
			if v = strings.TrimSpace(v); v != "" {
				s.Variants = append(s.Variants, v)
			}
		}
		if email := field(row, "email"); email != "" {
			s.Emails = append(s.Emails, email)
		}
		if employer := field(row, "employer"); employer != "" {
			s.Employers = append(s.Employers, employer)
		}
		if id := field(row, "idhal"); id != "" {
			s.ArchiveIDs = append(s.ArchiveIDs, id)
		}

		roster = append(roster, s)
	}

	if len(roster) == 0 {
		return nil, fmt.Errorf("roster contains no scientists")
	}
	return roster, nil
}

// keyFor derives the stable roster key, a lowercase accent-free slug of
// the name ("Élodie Du Pont" becomes "elodie-du-pont").
func keyFor(prenom, nom string) string {
	n := namenorm.Normalize(prenom + " " + nom)
	return strings.Join(n.Tokens, "-")
}
