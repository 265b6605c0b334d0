// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/rna-engine/internal/fasta"
	"github.com/pdiddy/rna-engine/internal/predict"
	"github.com/pdiddy/rna-engine/internal/structure"
	"github.com/pdiddy/rna-engine/pkg/types"
)

var predictCmd = &cobra.Command{
	Use:   "predict",
	Short: "Predict secondary structure for one sequence",
	Long: `Predict runs every configured predictor (RNAfold, mfold) across its
parameter sets against a single sequence, given inline or as a FASTA file.
Raw tool output and parsed records land under
<work-dir>/output/sequences/<name>/.`,
	RunE: runPredict,
}

func init() {
	rootCmd.AddCommand(predictCmd)

	predictCmd.Flags().String("sequence", "", "RNA sequence given inline")
	predictCmd.Flags().String("fasta", "", "FASTA file holding the sequence (first record)")
	predictCmd.Flags().String("name", "", "sequence name keying the output directory")
	predictCmd.Flags().StringSlice("methods", nil, "predictors to run (rnafold, mfold)")
}

func runPredict(cmd *cobra.Command, args []string) error {
	cfg := pipelineConfig(cmd)

	inline, _ := cmd.Flags().GetString("sequence")
	fastaPath, _ := cmd.Flags().GetString("fasta")
	name, _ := cmd.Flags().GetString("name")

	var raw string
	switch {
	case inline != "" && fastaPath != "":
		return fmt.Errorf("--sequence and --fasta are mutually exclusive")
	case inline != "":
		raw = inline
		if name == "" {
			name = "sequence"
		}
	case fastaPath != "":
		records, err := fasta.ReadFile(fastaPath)
		if err != nil {
			return err
		}
		raw = records[0].Sequence
		if name == "" {
			name = records[0].Name
		}
	default:
		return fmt.Errorf("one of --sequence or --fasta is required")
	}

	seq, err := structure.Validate(raw)
	if err != nil {
		return err
	}

	methods, _ := cmd.Flags().GetStringSlice("methods")
	predictors, err := buildPredictors(methods, cfg.Prediction)
	if err != nil {
		return err
	}

	job := predict.Job{SequenceName: name, Sequence: seq}
	batch, results := predict.Run(cmd.Context(), job, predictors, cfg.Prediction.WorkDir, os.Stdout)

	printResultTable(results)

	if batch.HasFailures() {
		return fmt.Errorf("%d of %d combinations failed", batch.Failed, batch.Total())
	}
	return nil
}

// buildPredictors maps method names to configured predictors. An empty list
// falls back to the config, then to RNAfold alone.
func buildPredictors(methods []string, cfg types.PredictionConfig) ([]predict.Predictor, error) {
	if len(methods) == 0 {
		methods = cfg.Methods
	}
	if len(methods) == 0 {
		methods = []string{"rnafold"}
	}

	var predictors []predict.Predictor
	for _, m := range methods {
		switch strings.ToLower(m) {
		case "rnafold":
			predictors = append(predictors, predict.NewRNAfold(cfg.RNAfold, nil))
		case "mfold":
			predictors = append(predictors, predict.NewMfold(cfg.Mfold, nil))
		default:
			return nil, fmt.Errorf("unknown prediction method %q (want rnafold or mfold)", m)
		}
	}
	return predictors, nil
}

func printResultTable(results []types.StructureResult) {
	if len(results) == 0 {
		return
	}

	fmt.Printf("\n%-10s %-18s %10s %6s %6s %8s\n",
		"Method", "Parameters", "Energy", "Pairs", "GC%", "Density")
	for _, r := range results {
		energy := "n/a"
		if r.Energy != nil {
			energy = fmt.Sprintf("%.2f", *r.Energy)
		}
		fmt.Printf("%-10s %-18s %10s %6d %6.1f %8.3f\n",
			r.Method, r.Parameters, energy, r.NumBasePairs, r.GCContent*100, r.BasePairDensity)
	}
}
