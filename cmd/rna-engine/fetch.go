// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/rna-engine/internal/seqfetch"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch <accession>",
	Short: "Fetch a sequence from the genome database",
	Long: `Fetch downloads a locus record from the SGD backend API, transcribes
the DNA to RNA, optionally truncates it to the 5'UTR, and writes a FASTA
file plus YAML metadata to the data directory. An accession that was already
fetched is skipped.`,
	Args: cobra.ExactArgs(1),
	RunE: runFetch,
}

func init() {
	rootCmd.AddCommand(fetchCmd)

	fetchCmd.Flags().String("name", "", "name for the stored sequence (default: the accession)")
	fetchCmd.Flags().Int("utr-length", 0, "truncate to the leading N nucleotides (0 keeps the full sequence)")
	fetchCmd.Flags().String("data-dir", "", "directory FASTA and metadata are written to")
}

func runFetch(cmd *cobra.Command, args []string) error {
	cfg := pipelineConfig(cmd).Fetch

	name, _ := cmd.Flags().GetString("name")
	if utr, _ := cmd.Flags().GetInt("utr-length"); utr > 0 {
		cfg.UTRLength = utr
	}
	if dataDir, _ := cmd.Flags().GetString("data-dir"); dataDir != "" {
		cfg.DataDir = dataDir
	}
	if cfg.DataDir == "" {
		cfg.DataDir = "data"
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	client := &http.Client{Timeout: timeout}

	_, err := seqfetch.Fetch(cmd.Context(), client, args[0], name, cfg, os.Stdout)
	return err
}
