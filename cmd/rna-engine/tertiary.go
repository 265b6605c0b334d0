// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"github.com/pdiddy/rna-engine/internal/predict"
	"github.com/pdiddy/rna-engine/internal/slurm"
	"github.com/pdiddy/rna-engine/internal/tertiary"
	"github.com/pdiddy/rna-engine/pkg/types"
)

var tertiaryCmd = &cobra.Command{
	Use:   "tertiary <sequence-name>",
	Short: "Run 3D structure prediction on the cluster",
	Long: `Tertiary takes the parsed secondary structures of a sequence and prepares
one SLURM job per (method, parameter set) combination, using ROSETTA, SimRNA,
or FARNA. By default it only writes the job inputs and sbatch scripts;
--submit sends them to the queue and --wait additionally polls until each job
finishes and collects the coordinate files. Everything lands under
<work-dir>/output/3d_structures/<name>/.`,
	Args: cobra.ExactArgs(1),
	RunE: runTertiary,
}

func init() {
	rootCmd.AddCommand(tertiaryCmd)

	tertiaryCmd.Flags().StringSlice("methods", nil, "3D methods to run (rosetta, simrna, farna)")
	tertiaryCmd.Flags().Bool("submit", false, "submit the generated scripts with sbatch")
	tertiaryCmd.Flags().Bool("wait", false, "wait for submitted jobs and collect coordinate files (implies --submit)")
}

func runTertiary(cmd *cobra.Command, args []string) error {
	cfg := pipelineConfig(cmd).Tertiary
	sequenceName := args[0]

	if err := slurm.ApplyCredentials(&cfg.Slurm, ".secrets/"); err != nil {
		return err
	}

	results, err := loadParsedResults(cfg.WorkDir, sequenceName)
	if err != nil {
		return err
	}
	if len(results) == 0 {
		return fmt.Errorf("no parsed predictions for %s; run predict first", sequenceName)
	}

	methods, _ := cmd.Flags().GetStringSlice("methods")

	var opts tertiary.Options
	opts.Submit, _ = cmd.Flags().GetBool("submit")
	opts.Wait, _ = cmd.Flags().GetBool("wait")
	if opts.Wait {
		opts.Submit = true
	}

	runner := tertiary.NewRunner(cfg, nil)
	batch, jobs := runner.Run(cmd.Context(), sequenceName, results, methods, opts, os.Stdout)

	if opts.Wait && len(jobs) > 0 {
		resultsPath, err := runner.SaveResults(sequenceName, jobs)
		if err != nil {
			return err
		}
		summaryPath, err := runner.WriteSummary(sequenceName, jobs)
		if err != nil {
			return err
		}
		fmt.Printf("results: %s\nsummary: %s\n", resultsPath, summaryPath)
	}

	if batch.Failed > 0 {
		return fmt.Errorf("%d 3D jobs failed", batch.Failed)
	}
	return nil
}

// loadParsedResults collects every parsed prediction record for the sequence,
// sorted by method then parameter set.
func loadParsedResults(workDir, sequenceName string) ([]types.StructureResult, error) {
	pattern := filepath.Join(predict.ResultDir(workDir, sequenceName), "*", "*", "parsed_results", "*.json")
	paths, err := filepath.Glob(pattern)
	if err != nil {
		return nil, err
	}

	var results []types.StructureResult
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		var r types.StructureResult
		if err := json.Unmarshal(data, &r); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
		results = append(results, r)
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Method != results[j].Method {
			return results[i].Method < results[j].Method
		}
		return results[i].Parameters < results[j].Parameters
	})
	return results, nil
}
