// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the halindex CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mlaurent/halindex/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the halindex CLI.
var rootCmd = &cobra.Command{
	Use:   "halindex",
	Short: "Publication indexing for a scientist roster against the HAL archive",
	Long: `halindex resolves which publications in the HAL open archive
(archives-ouvertes.fr) belong to the scientists on a roster, deduplicates
the records, and builds per-scientist publication statistics.

The workflow is two stages: extract fetches raw records from the archive
for every scientist on the roster; run resolves authorship, deduplicates,
aggregates, and stores the result. report renders the stored results.`,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./halindex.yaml or ~/.config/halindex/config.yaml)")
	rootCmd.PersistentFlags().String("data-dir", "data", "base directory for pipeline output (contains extraction/, index/)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("halindex")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "halindex"))
		}
	}

	viper.SetEnvPrefix("HALINDEX")
	viper.AutomaticEnv()

	def := types.DefaultResolverConfig()
	viper.SetDefault("resolver.upper_threshold", def.UpperThreshold)
	viper.SetDefault("resolver.lower_threshold", def.LowerThreshold)
	viper.SetDefault("resolver.ambiguity_epsilon", def.AmbiguityEpsilon)
	viper.SetDefault("resolver.surname_tolerance", def.SurnameTolerance)

	arch := types.DefaultArchiveConfig()
	viper.SetDefault("archive.endpoints", arch.Endpoints)
	viper.SetDefault("archive.rows", arch.Rows)
	viper.SetDefault("archive.rate_limit", arch.RateLimit)
	viper.SetDefault("archive.max_retries", arch.MaxRetries)
	viper.SetDefault("archive.timeout", arch.Timeout)
	viper.SetDefault("archive.user_agent", arch.UserAgent)

	viper.SetDefault("aggregation.granularity", string(types.ByYear))
	viper.SetDefault("aggregation.workers", 0)

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// pipelineConfig assembles the stage configurations from viper and the
// shared flags.
func pipelineConfig(cmd *cobra.Command) types.PipelineConfig {
	dataDir, _ := cmd.Flags().GetString("data-dir")
	if dataDir == "" {
		dataDir = "data"
	}

	cfg := types.PipelineConfig{
		Archive: types.ArchiveConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout:   viper.GetDuration("archive.timeout"),
				UserAgent: viper.GetString("archive.user_agent"),
			},
			Endpoints:  viper.GetStringSlice("archive.endpoints"),
			Rows:       viper.GetInt("archive.rows"),
			RateLimit:  viper.GetFloat64("archive.rate_limit"),
			MaxRetries: viper.GetInt("archive.max_retries"),
		},
		Resolver: types.ResolverConfig{
			UpperThreshold:   viper.GetFloat64("resolver.upper_threshold"),
			LowerThreshold:   viper.GetFloat64("resolver.lower_threshold"),
			AmbiguityEpsilon: viper.GetFloat64("resolver.ambiguity_epsilon"),
			SurnameTolerance: viper.GetInt("resolver.surname_tolerance"),
		},
		Aggregation: types.AggregationConfig{
			Granularity: types.Granularity(viper.GetString("aggregation.granularity")),
			Workers:     viper.GetInt("aggregation.workers"),
		},
		Store: types.StoreConfig{DataDir: dataDir},
	}

	// The sensitivity flag overrides the configured surname tolerance.
	if cmd.Flags().Changed("sensitivity") {
		level, _ := cmd.Flags().GetInt("sensitivity")
		cfg.Resolver.SurnameTolerance = level
	}
	return cfg
}

// extractionPath is where extract writes and run reads raw records.
func extractionPath(dataDir string) string {
	return filepath.Join(dataDir, "extraction", "records.yaml")
}

func timestamp() time.Time { return time.Now().UTC() }

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
