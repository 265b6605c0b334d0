// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the rna-engine CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/rna-engine/internal/slurm"
	"github.com/pdiddy/rna-engine/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the rna-engine CLI.
var rootCmd = &cobra.Command{
	Use:   "rna-engine",
	Short: "RNA structure prediction pipeline",
	Long: `rna-engine predicts RNA secondary and tertiary structure by orchestrating
external tools: RNAfold and mfold locally, ROSETTA, SimRNA, and FARNA on a
SLURM cluster. Results are parsed into a common record format, indexed in
SQLite, and exported for comparison.

Each pipeline stage is a subcommand: fetch, predict, batch, tertiary, and
results.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		creds, err := slurm.LoadCredentials(".secrets/")
		if err != nil {
			return err
		}
		if len(creds) > 0 {
			keys := make([]string, 0, len(creds))
			for k := range creds {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintf(os.Stderr, "Loaded credentials: %v\n", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./rna-engine.yaml or ~/.config/rna-engine/config.yaml)")
	rootCmd.PersistentFlags().String("work-dir", ".", "pipeline working directory (holds output/)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("rna-engine")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "rna-engine"))
		}
	}

	viper.SetEnvPrefix("RNA_ENGINE")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// pipelineConfig merges the config file with the shared flags.
func pipelineConfig(cmd *cobra.Command) types.PipelineConfig {
	var cfg types.PipelineConfig
	_ = viper.Unmarshal(&cfg)

	workDir, _ := cmd.Flags().GetString("work-dir")
	if workDir != "" && workDir != "." {
		cfg.Prediction.WorkDir = workDir
		cfg.Tertiary.WorkDir = workDir
		cfg.Results.WorkDir = workDir
	}
	if cfg.Prediction.WorkDir == "" {
		cfg.Prediction.WorkDir = "."
	}
	if cfg.Tertiary.WorkDir == "" {
		cfg.Tertiary.WorkDir = cfg.Prediction.WorkDir
	}
	if cfg.Results.WorkDir == "" {
		cfg.Results.WorkDir = cfg.Prediction.WorkDir
	}
	return cfg
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
