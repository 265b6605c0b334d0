// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package tertiary

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/rna-engine/internal/toolexec"
	"github.com/pdiddy/rna-engine/pkg/types"
)

// clusterExecutor fakes sbatch and squeue. On submission it plays the job's
// part by dropping the expected PDB file into the output directory named in
// the script.
type clusterExecutor struct {
	t        *testing.T
	nextJob  int
	failJobs bool
	scripts  []string
}

func (c *clusterExecutor) LookPath(binary string) (string, error) { return binary, nil }

func (c *clusterExecutor) Run(_ context.Context, cmd toolexec.Command) ([]byte, error) {
	switch cmd.Binary {
	case "sbatch":
		c.nextJob++
		c.scripts = append(c.scripts, cmd.Args[0])
		if !c.failJobs {
			c.writeJobOutput(cmd.Args[0])
		}
		return []byte("Submitted batch job 10" + string(rune('0'+c.nextJob)) + "\n"), nil
	case "squeue":
		if c.failJobs {
			return []byte("JOBID STATE\n" + cmd.Args[1] + " FAILED\n"), nil
		}
		return []byte("JOBID STATE\n"), nil
	default:
		c.t.Fatalf("unexpected binary %q", cmd.Binary)
		return nil, nil
	}
}

// writeJobOutput reads the script to find its cd target and output name,
// then creates the PDB the pipeline expects.
func (c *clusterExecutor) writeJobOutput(scriptPath string) {
	data, err := os.ReadFile(scriptPath)
	require.NoError(c.t, err)

	var outputDir, outName string
	for _, line := range strings.Split(string(data), "\n") {
		if strings.HasPrefix(line, "cd ") {
			outputDir = strings.TrimPrefix(line, "cd ")
		}
		if i := strings.Index(line, "-out "); i >= 0 {
			outName = strings.TrimSpace(line[i+len("-out "):])
		}
		if i := strings.Index(line, "-o "); i >= 0 && outName == "" && !strings.HasPrefix(line, "#") {
			outName = strings.TrimSpace(line[i+len("-o "):])
		}
	}
	require.NotEmpty(c.t, outputDir)
	require.NotEmpty(c.t, outName)
	pdb := filepath.Join(outputDir, outName+".pdb")
	require.NoError(c.t, os.WriteFile(pdb, []byte("ATOM      1  P   A     1\nEND\n"), 0o644))
}

func testResults() []types.StructureResult {
	return []types.StructureResult{
		{
			Method:     "rnafold",
			Parameters: "default",
			Sequence:   "GGGGAAACCCC",
			Structure:  "((((...))))",
		},
	}
}

func TestRunnerRun(t *testing.T) {
	exec := &clusterExecutor{t: t}
	r := NewRunner(types.TertiaryConfig{
		WorkDir:      t.TempDir(),
		PollInterval: time.Millisecond,
	}, exec)

	var out bytes.Buffer
	batch, results := r.Run(context.Background(), "SUI3_5UTR", testResults(), []string{"rosetta"}, Options{Submit: true, Wait: true}, &out)

	assert.Equal(t, 1, batch.Completed)
	assert.Equal(t, 0, batch.Failed)
	require.Len(t, results, 1)

	res := results[0]
	assert.Equal(t, "rosetta", res.Method)
	assert.Equal(t, "default", res.Parameters)
	assert.Equal(t, "101", res.JobID)
	assert.FileExists(t, res.PDBFile)

	// The job input carries the sequence and its dot-bracket constraint.
	inputFile := filepath.Join(r.BaseDir("SUI3_5UTR"), "rosetta", "input", "default", "input.fa")
	data, err := os.ReadFile(inputFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "GGGGAAACCCC")
	assert.Contains(t, string(data), "((((...))))")

	assert.Contains(t, out.String(), "completed: rosetta/default (job 101)")
	assert.Contains(t, out.String(), "Batch summary: 1 completed, 0 failed (total: 1)")
}

func TestRunnerScriptOnly(t *testing.T) {
	exec := &clusterExecutor{t: t}
	r := NewRunner(types.TertiaryConfig{WorkDir: t.TempDir()}, exec)

	var out bytes.Buffer
	batch, results := r.Run(context.Background(), "s", testResults(), []string{"rosetta"}, Options{}, &out)

	assert.Equal(t, 1, batch.Completed)
	require.Len(t, results, 1)
	assert.Empty(t, results[0].JobID)
	assert.Empty(t, results[0].PDBFile)
	assert.Empty(t, exec.scripts)
	assert.FileExists(t, filepath.Join(r.BaseDir("s"), "rosetta", "slurm_scripts", "rosetta_default.sh"))
	assert.Contains(t, out.String(), "scripted: rosetta/default")
}

func TestRunnerSubmitWithoutWait(t *testing.T) {
	exec := &clusterExecutor{t: t}
	r := NewRunner(types.TertiaryConfig{WorkDir: t.TempDir()}, exec)

	var out bytes.Buffer
	batch, results := r.Run(context.Background(), "s", testResults(), []string{"rosetta"}, Options{Submit: true}, &out)

	assert.Equal(t, 1, batch.Completed)
	require.Len(t, results, 1)
	assert.Equal(t, "101", results[0].JobID)
	assert.Empty(t, results[0].PDBFile)
	assert.Contains(t, out.String(), "submitted: rosetta/default (job 101)")
}

func TestRunnerContinuesPastFailures(t *testing.T) {
	exec := &clusterExecutor{t: t, failJobs: true}
	r := NewRunner(types.TertiaryConfig{
		WorkDir:      t.TempDir(),
		PollInterval: time.Millisecond,
	}, exec)

	var out bytes.Buffer
	batch, results := r.Run(context.Background(), "s", testResults(), []string{"rosetta", "simrna"}, Options{Submit: true, Wait: true}, &out)

	assert.Equal(t, 0, batch.Completed)
	assert.Equal(t, 2, batch.Failed)
	assert.True(t, batch.HasFailures())
	assert.Empty(t, results)
	assert.Contains(t, out.String(), "failed:  rosetta/default")
	assert.Contains(t, out.String(), "failed:  simrna/default")
}

func TestSaveResultsAndSummary(t *testing.T) {
	r := NewRunner(types.TertiaryConfig{WorkDir: t.TempDir()}, &clusterExecutor{t: t})

	energy := -12.5
	results := []types.Structure3DResult{{
		Method:     "rosetta",
		Parameters: "default",
		Sequence:   "GGGG",
		Structure:  "....",
		PDBFile:    "/tmp/x.pdb",
		JobID:      "77",
		Energy:     &energy,
	}}

	jsonPath, err := r.SaveResults("s", results)
	require.NoError(t, err)

	data, err := os.ReadFile(jsonPath)
	require.NoError(t, err)
	var loaded []types.Structure3DResult
	require.NoError(t, json.Unmarshal(data, &loaded))
	require.Len(t, loaded, 1)
	assert.Equal(t, "77", loaded[0].JobID)

	sumPath, err := r.WriteSummary("s", results)
	require.NoError(t, err)
	text, err := os.ReadFile(sumPath)
	require.NoError(t, err)
	assert.Contains(t, string(text), "Method: rosetta (default)")
	assert.Contains(t, string(text), "Energy: -12.50 kcal/mol")
}
