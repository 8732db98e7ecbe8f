// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/mlaurent/halindex/internal/hal"
	"github.com/mlaurent/halindex/internal/roster"
	"github.com/mlaurent/halindex/pkg/types"
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Fetch raw publication records from the archive for the roster",
	Long: `Extract queries the HAL archive (both the main and thesis endpoints)
for every scientist on the roster and writes the raw records to
data/extraction/records.yaml. Records seen under several name forms or
endpoints are fetched once, by document identifier.

The optional filters narrow the archive query: --year takes a YYYY-YYYY
range, --domain and --type take display labels or archive codes and may
be repeated.`,
	RunE: runExtract,
}

func runExtract(cmd *cobra.Command, args []string) error {
	rosterPath, _ := cmd.Flags().GetString("roster")
	if rosterPath == "" {
		return fmt.Errorf("--roster is required")
	}

	scientists, err := roster.Load(rosterPath)
	if err != nil {
		return err
	}

	query, err := queryFromFlags(cmd)
	if err != nil {
		return err
	}

	cfg := pipelineConfig(cmd)
	client := hal.NewClient(cfg.Archive)
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	var records []*types.RawPublication
	for i, s := range scientists {
		fmt.Fprintf(os.Stdout, "[%d/%d] fetching %s\n", i+1, len(scientists), s.FullName)
		pubs, err := client.FetchScientist(ctx, s, query)
		if err != nil {
			return fmt.Errorf("extracting %s: %w", s.Key, err)
		}
		records = append(records, pubs...)
	}

	outPath := extractionPath(cfg.Store.DataDir)
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("creating extraction directory: %w", err)
	}
	data, err := yaml.Marshal(records)
	if err != nil {
		return fmt.Errorf("marshaling records: %w", err)
	}
	if err := os.WriteFile(outPath, data, 0o644); err != nil {
		return fmt.Errorf("writing records: %w", err)
	}

	fmt.Fprintf(os.Stdout, "Extracted %d records to %s\n", len(records), outPath)
	return nil
}

// queryFromFlags builds the archive query from the filter flags. Domain
// and type values may be archive codes or display labels.
func queryFromFlags(cmd *cobra.Command) (hal.Query, error) {
	var q hal.Query

	if yearRange, _ := cmd.Flags().GetString("year"); yearRange != "" {
		parts := strings.SplitN(yearRange, "-", 2)
		if len(parts) != 2 {
			return q, fmt.Errorf("year range must be YYYY-YYYY, got %q", yearRange)
		}
		from, err := strconv.Atoi(parts[0])
		if err != nil {
			return q, fmt.Errorf("year range must be YYYY-YYYY, got %q", yearRange)
		}
		to, err := strconv.Atoi(parts[1])
		if err != nil {
			return q, fmt.Errorf("year range must be YYYY-YYYY, got %q", yearRange)
		}
		q.FromYear, q.ToYear = from, to
	}

	domains, _ := cmd.Flags().GetStringArray("domain")
	for _, d := range domains {
		if code, ok := hal.DomainCode(d); ok {
			q.Domains = append(q.Domains, code)
			continue
		}
		q.Domains = append(q.Domains, d)
	}

	docTypes, _ := cmd.Flags().GetStringArray("type")
	for _, t := range docTypes {
		if code, ok := hal.DocTypeCode(t); ok {
			q.DocTypes = append(q.DocTypes, code)
			continue
		}
		q.DocTypes = append(q.DocTypes, t)
	}

	return q, nil
}

func init() {
	extractCmd.Flags().String("roster", "", "roster CSV file (columns: nom, prenom, ...)")
	extractCmd.Flags().String("year", "", "publication year range (YYYY-YYYY)")
	extractCmd.Flags().StringArray("domain", nil, "filter by domain (code or label, repeatable)")
	extractCmd.Flags().StringArray("type", nil, "filter by document type (code or label, repeatable)")

	rootCmd.AddCommand(extractCmd)
}
