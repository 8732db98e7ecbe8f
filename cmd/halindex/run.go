// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/mlaurent/halindex/internal/pipeline"
	"github.com/mlaurent/halindex/internal/report"
	"github.com/mlaurent/halindex/internal/roster"
	"github.com/mlaurent/halindex/internal/store"
	"github.com/mlaurent/halindex/pkg/types"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Resolve, deduplicate, and index extracted records",
	Long: `Run loads the extracted raw records, resolves author mentions against
the roster, deduplicates the records into canonical publications, builds
the aggregation index, and stores everything in the results database.
Re-running over the same input leaves the database unchanged.

Per-record problems (malformed records, ambiguous author mentions) are
reported as diagnostics and never abort the run.`,
	RunE: runRun,
}

func runRun(cmd *cobra.Command, args []string) error {
	rosterPath, _ := cmd.Flags().GetString("roster")
	if rosterPath == "" {
		return fmt.Errorf("--roster is required")
	}

	scientists, err := roster.Load(rosterPath)
	if err != nil {
		return err
	}

	cfg := pipelineConfig(cmd)

	recordsPath, _ := cmd.Flags().GetString("records")
	if recordsPath == "" {
		recordsPath = extractionPath(cfg.Store.DataDir)
	}
	records, err := loadRecords(recordsPath)
	if err != nil {
		return err
	}

	if g, _ := cmd.Flags().GetString("granularity"); g != "" {
		cfg.Aggregation.Granularity = types.Granularity(g)
	}
	if w, _ := cmd.Flags().GetInt("workers"); w > 0 {
		cfg.Aggregation.Workers = w
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	started := timestamp()

	result, err := pipeline.Run(ctx, scientists, records, cfg, os.Stdout)
	if err != nil {
		return err
	}

	st, err := store.NewStore(cfg.Store)
	if err != nil {
		return err
	}
	defer st.Close()

	runID, err := st.SaveRun(ctx, result.Canonical, store.RunRecord{
		StartedAt:  started,
		RawRecords: result.Summary.RawRecords,
		Canonical:  result.Summary.Canonical,
		Attributed: result.Summary.Attributed,
		Malformed:  result.Summary.MalformedRecords,
		Ambiguous:  result.Summary.AmbiguousRecords,
	})
	if err != nil {
		return err
	}
	if err := st.ExportYAML(ctx); err != nil {
		return fmt.Errorf("writing export: %w", err)
	}

	fmt.Fprintf(os.Stdout, "Stored run %d\n\n", runID)
	report.FormatIndex(os.Stdout, result.Index)

	if verbose, _ := cmd.Flags().GetBool("diagnostics"); verbose {
		report.FormatDiagnostics(os.Stdout, result.Diagnostics)
	}
	return nil
}

func loadRecords(path string) ([]*types.RawPublication, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading records (run extract first?): %w", err)
	}
	var records []*types.RawPublication
	if err := yaml.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parsing records %s: %w", path, err)
	}
	return records, nil
}

func init() {
	runCmd.Flags().String("roster", "", "roster CSV file (columns: nom, prenom, ...)")
	runCmd.Flags().String("records", "", "raw records file (default: data/extraction/records.yaml)")
	runCmd.Flags().String("granularity", "", "period bucket: year or quarter")
	runCmd.Flags().Int("workers", 0, "parallel resolution workers (0 = one per CPU)")
	runCmd.Flags().Int("sensitivity", 0, "surname matching sensitivity 0-4 (0 = exact)")
	runCmd.Flags().Bool("diagnostics", false, "print per-record diagnostics")

	rootCmd.AddCommand(runCmd)
}
