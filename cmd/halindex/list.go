// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mlaurent/halindex/internal/hal"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the filter vocabularies",
}

var listDomainsCmd = &cobra.Command{
	Use:   "domains",
	Short: "List the archive domain codes usable with --domain",
	Run: func(cmd *cobra.Command, args []string) {
		for _, pair := range hal.Domains() {
			fmt.Fprintf(os.Stdout, "%-18s %s\n", pair[0], pair[1])
		}
	},
}

var listTypesCmd = &cobra.Command{
	Use:   "types",
	Short: "List the document type codes usable with --type",
	Run: func(cmd *cobra.Command, args []string) {
		for _, pair := range hal.DocTypes() {
			fmt.Fprintf(os.Stdout, "%-18s %s\n", pair[0], pair[1])
		}
	},
}

var listSensitivityCmd = &cobra.Command{
	Use:   "sensitivity",
	Short: "Explain the --sensitivity levels",
	Run: func(cmd *cobra.Command, args []string) {
		levels := []struct {
			level int
			name  string
			desc  string
		}{
			{0, "very strict", "surnames must match exactly"},
			{1, "strict", "1 character difference maximum (default)"},
			{2, "moderate", "2 characters difference maximum"},
			{3, "permissive", "3 characters difference maximum"},
			{4, "very permissive", "4 characters difference maximum"},
		}
		fmt.Fprintln(os.Stdout, "Surname matching sensitivity levels:")
		for _, l := range levels {
			fmt.Fprintf(os.Stdout, "  %d: %-16s %s\n", l.level, l.name, l.desc)
		}
	},
}

func init() {
	listCmd.AddCommand(listDomainsCmd)
	listCmd.AddCommand(listTypesCmd)
	listCmd.AddCommand(listSensitivityCmd)
	rootCmd.AddCommand(listCmd)
}
