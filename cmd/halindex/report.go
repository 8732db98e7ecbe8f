// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mlaurent/halindex/internal/aggregate"
	"github.com/mlaurent/halindex/internal/report"
	"github.com/mlaurent/halindex/internal/store"
	"github.com/mlaurent/halindex/pkg/types"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Render the stored results",
	Long: `Report reads the results database written by run, rebuilds the
aggregation index, and renders it as a table (default) or JSON. With
--csv the canonical publications are also written to a CSV file.`,
	RunE: runReport,
}

func runReport(cmd *cobra.Command, args []string) error {
	cfg := pipelineConfig(cmd)

	st, err := store.NewStore(cfg.Store)
	if err != nil {
		return err
	}
	defer st.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	rec, err := st.LastRun(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("no stored results: run the pipeline first")
	}
	if err != nil {
		return err
	}

	pubs, err := st.LoadPublications(ctx)
	if err != nil {
		return err
	}

	if g, _ := cmd.Flags().GetString("granularity"); g != "" {
		cfg.Aggregation.Granularity = types.Granularity(g)
	}
	idx := aggregate.Build(pubs, cfg.Aggregation)

	if jsonOut, _ := cmd.Flags().GetBool("json"); jsonOut {
		if err := report.FormatIndexJSON(os.Stdout, idx); err != nil {
			return err
		}
	} else {
		fmt.Fprintf(os.Stdout, "Run %d (%s): %d raw records, %d canonical, %d malformed, %d ambiguous\n\n",
			rec.ID, rec.StartedAt.Format("2006-01-02 15:04"),
			rec.RawRecords, rec.Canonical, rec.Malformed, rec.Ambiguous)
		report.FormatIndex(os.Stdout, idx)
	}

	if csvPath, _ := cmd.Flags().GetString("csv"); csvPath != "" {
		f, err := os.Create(csvPath)
		if err != nil {
			return fmt.Errorf("creating CSV file: %w", err)
		}
		defer f.Close()
		if err := report.WriteCSV(f, pubs); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Wrote %d publications to %s\n", len(pubs), csvPath)
	}
	return nil
}

func init() {
	reportCmd.Flags().Bool("json", false, "output the index as JSON")
	reportCmd.Flags().String("csv", "", "also write canonical publications to this CSV file")
	reportCmd.Flags().String("granularity", "", "period bucket: year or quarter")

	rootCmd.AddCommand(reportCmd)
}
