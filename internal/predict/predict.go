// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package predict runs secondary-structure prediction tools over a sequence
// and turns their raw output into structure records.
package predict

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/pdiddy/rna-engine/internal/structure"
	"github.com/pdiddy/rna-engine/pkg/types"
)

const (
	// sequencesDir is the subdirectory under the output base holding
	// per-sequence prediction trees.
	sequencesDir = "output/sequences"
	// rawDir holds the unmodified tool output for a combination.
	rawDir = "raw_output"
	// parsedDir holds the parsed JSON record for a combination.
	parsedDir = "parsed_results"

	rawFile    = "structure.fold"
	parsedFile = "result.json"
)

// ParamSet names one parameter combination for a predictor. Args are
// command-line flags; Env holds KEY=VALUE overrides for tools driven through
// the environment.
type ParamSet struct {
	Name string
	Args []string
	Env  []string
}

// Predictor runs one external prediction tool and returns its raw output
// block. Each tool (RNAfold, mfold) implements this interface; the parser is
// the single consumer of the returned block regardless of which tool
// produced it.
type Predictor interface {
	Name() string

	// ParamSets lists the parameter combinations this predictor runs.
	ParamSets() []ParamSet

	// Predict folds the sequence with one parameter set and returns the
	// raw output block.
	Predict(ctx context.Context, seq structure.Sequence, params ParamSet) (string, error)
}

// Job is one sequence to fold.
type Job struct {
	// SequenceName keys the output directory, e.g. "SUI3_5UTR".
	SequenceName string

	// Sequence is the validated input sequence. Metrics are computed from
	// it, never from the sequence echoed back by a tool.
	Sequence structure.Sequence
}

// BatchResult holds the outcome of one fan-out run.
type BatchResult struct {
	Predicted int
	Skipped   int
	Failed    int
}

// Total returns the number of combinations processed.
func (r BatchResult) Total() int {
	return r.Predicted + r.Skipped + r.Failed
}

// HasFailures reports whether any combination failed.
func (r BatchResult) HasFailures() bool {
	return r.Failed > 0
}

// Run fans the job out across every (predictor, parameter set) combination
// concurrently. The combinations are independent and stateless, so they run
// in parallel without coordination. Each successful combination writes the
// raw tool output and a parsed JSON record under
//
//	<work-dir>/output/sequences/<name>/<method>/<param>/
//
// and a combination whose parsed record already exists is skipped. One
// failed combination is reported on w and never aborts the rest. The
// returned records include skipped combinations, reloaded from disk, sorted
// by method then parameter set.
func Run(ctx context.Context, job Job, predictors []Predictor, workDir string, w io.Writer) (BatchResult, []types.StructureResult) {
	type combo struct {
		p      Predictor
		params ParamSet
	}
	type outcome struct {
		status types.PredictionStatus
		result types.StructureResult
		label  string
		err    error
	}

	var combos []combo
	for _, p := range predictors {
		for _, ps := range p.ParamSets() {
			combos = append(combos, combo{p: p, params: ps})
		}
	}

	ch := make(chan outcome, len(combos))
	var wg sync.WaitGroup

	for _, c := range combos {
		wg.Add(1)
		go func(c combo) {
			defer wg.Done()
			label := c.p.Name() + "/" + c.params.Name
			status, result, err := runOne(ctx, job, c.p, c.params, workDir)
			ch <- outcome{status: status, result: result, label: label, err: err}
		}(c)
	}

	go func() {
		wg.Wait()
		close(ch)
	}()

	var batch BatchResult
	var results []types.StructureResult
	for o := range ch {
		switch o.status {
		case types.PredictionDone:
			batch.Predicted++
			results = append(results, o.result)
			fmt.Fprintf(w, "predicted: %s\n", o.label)
		case types.PredictionSkipped:
			batch.Skipped++
			results = append(results, o.result)
			fmt.Fprintf(w, "skipped: %s (already exists)\n", o.label)
		case types.PredictionFailed:
			batch.Failed++
			fmt.Fprintf(w, "failed:  %s (%v)\n", o.label, o.err)
		}
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Method != results[j].Method {
			return results[i].Method < results[j].Method
		}
		return results[i].Parameters < results[j].Parameters
	})

	fmt.Fprintf(w, "\nBatch summary: %d predicted, %d skipped, %d failed (total: %d)\n",
		batch.Predicted, batch.Skipped, batch.Failed, batch.Total())
	return batch, results
}

// runOne executes a single combination end to end: tool run, parse, pair
// reconstruction, metrics, persistence.
func runOne(ctx context.Context, job Job, p Predictor, params ParamSet, workDir string) (types.PredictionStatus, types.StructureResult, error) {
	comboDir := filepath.Join(workDir, sequencesDir, job.SequenceName, p.Name(), params.Name)
	parsedPath := filepath.Join(comboDir, parsedDir, parsedFile)

	if existing, err := loadResult(parsedPath); err == nil {
		return types.PredictionSkipped, existing, nil
	}

	raw, err := p.Predict(ctx, job.Sequence, params)
	if err != nil {
		return types.PredictionFailed, types.StructureResult{}, err
	}

	result, err := buildResult(p.Name(), params.Name, job.Sequence, raw)
	if err != nil {
		return types.PredictionFailed, types.StructureResult{}, err
	}

	if err := persist(comboDir, raw, result); err != nil {
		return types.PredictionFailed, types.StructureResult{}, err
	}
	return types.PredictionDone, result, nil
}

// buildResult parses the raw block and derives the metrics. GC content comes
// from the caller's retained input sequence; pair count and density come from
// the parsed structure.
func buildResult(method, params string, input structure.Sequence, raw string) (types.StructureResult, error) {
	parsed, err := structure.Parse(raw)
	if err != nil {
		return types.StructureResult{}, err
	}

	pairs, err := structure.Reconstruct(parsed.Structure)
	if err != nil {
		return types.StructureResult{}, err
	}

	m := structure.Compute(input, parsed.Structure, pairs)
	return types.StructureResult{
		Method:          method,
		Parameters:      params,
		Sequence:        string(parsed.Sequence),
		Structure:       string(parsed.Structure),
		Energy:          parsed.Energy,
		BasePairs:       pairs,
		NumBasePairs:    m.NumBasePairs,
		GCContent:       m.GCContent,
		BasePairDensity: m.BasePairDensity,
	}, nil
}

func persist(comboDir, raw string, result types.StructureResult) error {
	for _, sub := range []string{rawDir, parsedDir} {
		if err := os.MkdirAll(filepath.Join(comboDir, sub), 0o755); err != nil {
			return err
		}
	}

	if err := os.WriteFile(filepath.Join(comboDir, rawDir, rawFile), []byte(raw), 0o644); err != nil {
		return err
	}

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(comboDir, parsedDir, parsedFile), data, 0o644)
}

func loadResult(path string) (types.StructureResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return types.StructureResult{}, err
	}
	var r types.StructureResult
	if err := json.Unmarshal(data, &r); err != nil {
		return types.StructureResult{}, err
	}
	return r, nil
}

// ResultDir returns the per-sequence output directory under workDir.
func ResultDir(workDir, sequenceName string) string {
	return filepath.Join(workDir, sequencesDir, sequenceName)
}
