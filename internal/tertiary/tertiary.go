// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package tertiary drives 3D-structure prediction jobs on the cluster,
// folding secondary-structure results into PDB coordinate files.
package tertiary

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/pdiddy/rna-engine/internal/fasta"
	"github.com/pdiddy/rna-engine/internal/slurm"
	"github.com/pdiddy/rna-engine/internal/toolexec"
	"github.com/pdiddy/rna-engine/pkg/types"
)

const structures3DDir = "output/3d_structures"

// BatchResult holds the outcome of one tertiary run.
type BatchResult struct {
	Completed int
	Failed    int
}

// Total returns the number of jobs processed.
func (r BatchResult) Total() int { return r.Completed + r.Failed }

// HasFailures reports whether any job failed.
func (r BatchResult) HasFailures() bool { return r.Failed > 0 }

// Options selects how far a run goes: script generation only, submission,
// or submission plus waiting for completion.
type Options struct {
	// Submit sends each generated script to sbatch.
	Submit bool

	// Wait polls each submitted job until it leaves the queue and then
	// checks for the coordinate file. Ignored unless Submit is set.
	Wait bool
}

// Runner submits and tracks tertiary-structure jobs.
type Runner struct {
	cfg  types.TertiaryConfig
	exec toolexec.Executor
}

// NewRunner builds a runner. A nil exec uses the process-backed executor.
func NewRunner(cfg types.TertiaryConfig, exec toolexec.Executor) *Runner {
	if exec == nil {
		exec = toolexec.Default()
	}
	return &Runner{cfg: cfg, exec: exec}
}

// BaseDir returns the 3D output directory for a sequence.
func (r *Runner) BaseDir(sequenceName string) string {
	return filepath.Join(r.cfg.WorkDir, structures3DDir, sequenceName)
}

// Run handles one cluster job per (secondary result, method) combination,
// going as far as opts asks: script, submit, wait. Jobs are serial: the
// cluster scheduler owns the parallelism, and interleaved submissions would
// fight over the allocation. A failed job is reported on w and never aborts
// the rest.
func (r *Runner) Run(ctx context.Context, sequenceName string, results []types.StructureResult, methods []string, opts Options, w io.Writer) (BatchResult, []types.Structure3DResult) {
	if len(methods) == 0 {
		methods = r.cfg.Methods
	}
	if len(methods) == 0 {
		methods = []string{slurm.MethodRosetta}
	}

	var batch BatchResult
	var out []types.Structure3DResult

	for _, res := range results {
		for _, method := range methods {
			label := method + "/" + res.Parameters
			threeD, err := r.runJob(ctx, sequenceName, method, res, opts)
			if err != nil {
				batch.Failed++
				fmt.Fprintf(w, "failed:  %s (%v)\n", label, err)
				continue
			}
			batch.Completed++
			out = append(out, *threeD)
			switch {
			case !opts.Submit:
				fmt.Fprintf(w, "scripted: %s\n", label)
			case !opts.Wait:
				fmt.Fprintf(w, "submitted: %s (job %s)\n", label, threeD.JobID)
			default:
				fmt.Fprintf(w, "completed: %s (job %s)\n", label, threeD.JobID)
			}
		}
	}

	fmt.Fprintf(w, "\nBatch summary: %d completed, %d failed (total: %d)\n",
		batch.Completed, batch.Failed, batch.Total())
	return batch, out
}

// runJob handles one combination: input file and script always, then submit,
// wait, and output check as opts asks.
func (r *Runner) runJob(ctx context.Context, sequenceName, method string, res types.StructureResult, opts Options) (*types.Structure3DResult, error) {
	base := r.BaseDir(sequenceName)
	methodDir := filepath.Join(base, method)
	inputDir := filepath.Join(methodDir, "input", res.Parameters)
	outputDir := filepath.Join(methodDir, "output", res.Parameters)
	for _, dir := range []string{inputDir, outputDir, filepath.Join(outputDir, "logs")} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating directory %s: %w", dir, err)
		}
	}

	// The methods take a FASTA carrying the sequence and its dot-bracket
	// constraint on the following line.
	inputFile := filepath.Join(inputDir, "input.fa")
	if err := fasta.WriteFile(inputFile, fasta.Record{
		Name:     res.Parameters,
		Sequence: res.Sequence + "\n" + res.Structure,
	}); err != nil {
		return nil, fmt.Errorf("writing job input: %w", err)
	}

	scriptPath := filepath.Join(methodDir, "slurm_scripts", fmt.Sprintf("%s_%s.sh", method, res.Parameters))
	if err := slurm.WriteScript(scriptPath, method, res.Parameters, inputFile, outputDir, r.cfg.Slurm); err != nil {
		return nil, err
	}

	threeD := &types.Structure3DResult{
		Method:     method,
		Parameters: res.Parameters,
		Sequence:   res.Sequence,
		Structure:  res.Structure,
	}
	if !opts.Submit {
		return threeD, nil
	}

	jobID, err := slurm.Submit(ctx, r.exec, scriptPath)
	if err != nil {
		return nil, err
	}
	threeD.JobID = jobID
	if !opts.Wait {
		return threeD, nil
	}

	waitCtx := ctx
	if r.cfg.WaitTimeout > 0 {
		var cancel context.CancelFunc
		waitCtx, cancel = context.WithTimeout(ctx, r.cfg.WaitTimeout)
		defer cancel()
	}
	if err := slurm.Wait(waitCtx, r.exec, jobID, r.cfg.PollInterval); err != nil {
		return nil, err
	}

	pdbFile := filepath.Join(outputDir, fmt.Sprintf("%s_%s.pdb", res.Parameters, method))
	if _, err := os.Stat(pdbFile); err != nil {
		return nil, fmt.Errorf("job %s completed but left no coordinate file at %s", jobID, pdbFile)
	}
	threeD.PDBFile = pdbFile
	return threeD, nil
}

// SaveResults writes the combined 3D records as JSON under the sequence's
// 3D directory.
func (r *Runner) SaveResults(sequenceName string, results []types.Structure3DResult) (string, error) {
	base := r.BaseDir(sequenceName)
	if err := os.MkdirAll(base, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(base, sequenceName+"_3d_results.json")
	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return "", err
	}
	return path, os.WriteFile(path, data, 0o644)
}

// WriteSummary writes a plain-text summary of the 3D runs.
func (r *Runner) WriteSummary(sequenceName string, results []types.Structure3DResult) (string, error) {
	base := r.BaseDir(sequenceName)
	if err := os.MkdirAll(base, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(base, sequenceName+"_3d_summary.txt")

	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	fmt.Fprintln(f, "3D STRUCTURE PREDICTION SUMMARY")
	fmt.Fprintf(f, "Sequence: %s\n", sequenceName)
	fmt.Fprintf(f, "Date: %s\n\n", time.Now().Format("2006-01-02 15:04:05"))
	for _, res := range results {
		fmt.Fprintf(f, "Method: %s (%s)\n", res.Method, res.Parameters)
		fmt.Fprintf(f, "  PDB File: %s\n", res.PDBFile)
		if res.JobID != "" {
			fmt.Fprintf(f, "  Job: %s\n", res.JobID)
		}
		if res.Energy != nil {
			fmt.Fprintf(f, "  Energy: %.2f kcal/mol\n", *res.Energy)
		}
		if res.RMSD != nil {
			fmt.Fprintf(f, "  RMSD: %.2f A\n", *res.RMSD)
		}
		if res.QualityScore != nil {
			fmt.Fprintf(f, "  Quality Score: %.2f\n", *res.QualityScore)
		}
		fmt.Fprintln(f)
	}
	return path, nil
}
