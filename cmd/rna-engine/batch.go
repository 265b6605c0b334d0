// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"github.com/pdiddy/rna-engine/internal/fasta"
	"github.com/pdiddy/rna-engine/internal/predict"
	"github.com/pdiddy/rna-engine/internal/structure"
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Predict secondary structure for every FASTA file in a directory",
	Long: `Batch scans a directory for .fasta/.fa/.fas files and runs the full
prediction fan-out for each record, a bounded number of files at a time.
One failed file never stops the rest.`,
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().String("input-dir", "", "directory scanned for FASTA files (required)")
	batchCmd.Flags().Int("max-jobs", 0, "maximum concurrent files (default 4)")
	batchCmd.Flags().StringSlice("methods", nil, "predictors to run (rnafold, mfold)")
	batchCmd.MarkFlagRequired("input-dir")
}

func runBatch(cmd *cobra.Command, args []string) error {
	cfg := pipelineConfig(cmd)

	inputDir, _ := cmd.Flags().GetString("input-dir")
	maxJobs, _ := cmd.Flags().GetInt("max-jobs")
	if maxJobs <= 0 {
		maxJobs = cfg.Batch.MaxJobs
	}
	if maxJobs <= 0 {
		maxJobs = 4
	}

	files, err := fastaFiles(inputDir)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no FASTA files found in %s", inputDir)
	}

	methods, _ := cmd.Flags().GetStringSlice("methods")
	predictors, err := buildPredictors(methods, cfg.Prediction)
	if err != nil {
		return err
	}

	sem := make(chan struct{}, maxJobs)
	var wg sync.WaitGroup
	var mu sync.Mutex
	var predicted, skipped, failed, failedFiles int

	for _, path := range files {
		wg.Add(1)
		go func(path string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			// Per-file output is buffered so concurrent runs do not
			// interleave their status lines.
			var out bytes.Buffer
			batch, err := runFastaFile(cmd, path, predictors, cfg.Prediction.WorkDir, &out)

			mu.Lock()
			defer mu.Unlock()
			fmt.Printf("=== %s ===\n", filepath.Base(path))
			os.Stdout.Write(out.Bytes())
			if err != nil {
				fmt.Printf("failed:  %s (%v)\n", filepath.Base(path), err)
				failedFiles++
				return
			}
			predicted += batch.Predicted
			skipped += batch.Skipped
			failed += batch.Failed
			if batch.HasFailures() {
				failedFiles++
			}
		}(path)
	}
	wg.Wait()

	fmt.Printf("\nBatch summary: %d files, %d predicted, %d skipped, %d failed\n",
		len(files), predicted, skipped, failed)

	if failedFiles > 0 {
		return fmt.Errorf("%d of %d files had failures", failedFiles, len(files))
	}
	return nil
}

func runFastaFile(cmd *cobra.Command, path string, predictors []predict.Predictor, workDir string, out *bytes.Buffer) (predict.BatchResult, error) {
	records, err := fasta.ReadFile(path)
	if err != nil {
		return predict.BatchResult{}, err
	}

	var total predict.BatchResult
	for _, rec := range records {
		seq, err := structure.Validate(rec.Sequence)
		if err != nil {
			return total, fmt.Errorf("%s: %w", rec.Name, err)
		}
		name := rec.Name
		if name == "" {
			name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		}
		batch, _ := predict.Run(cmd.Context(), predict.Job{SequenceName: name, Sequence: seq}, predictors, workDir, out)
		total.Predicted += batch.Predicted
		total.Skipped += batch.Skipped
		total.Failed += batch.Failed
	}
	return total, nil
}

// fastaFiles lists FASTA files in dir, sorted for stable run order.
func fastaFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading input directory: %w", err)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".fasta", ".fa", ".fas":
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(files)
	return files, nil
}
