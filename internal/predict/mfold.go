// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package predict

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pdiddy/rna-engine/internal/structure"
	"github.com/pdiddy/rna-engine/internal/toolexec"
	"github.com/pdiddy/rna-engine/pkg/types"
)

const (
	defaultMfoldBinary        = "mfold"
	defaultMfoldTemperature   = 37.0
	defaultMfoldMaxStructures = 10
)

// mfoldParamSets carries temperature overrides through the environment;
// mfold 3.6 takes its inputs as environment variables, not flags.
var mfoldParamSets = []ParamSet{
	{Name: "default"},
	{Name: "temperature_25C", Env: []string{"T=25"}},
	{Name: "temperature_50C", Env: []string{"T=50"}},
}

// Mfold runs the mfold binary in a scratch directory and reads back its .pnt
// record. Extracting real structures needs mfold_util, which the pipeline
// does not drive; the structure reported is the fully-unpaired placeholder,
// with no energy.
type Mfold struct {
	cfg  types.MfoldConfig
	exec toolexec.Executor
}

// NewMfold builds an mfold predictor. A nil exec uses the process-backed
// executor.
func NewMfold(cfg types.MfoldConfig, exec toolexec.Executor) *Mfold {
	if exec == nil {
		exec = toolexec.Default()
	}
	return &Mfold{cfg: cfg, exec: exec}
}

func (m *Mfold) Name() string { return "mfold" }

func (m *Mfold) ParamSets() []ParamSet { return mfoldParamSets }

func (m *Mfold) Predict(ctx context.Context, seq structure.Sequence, params ParamSet) (string, error) {
	scratch, err := os.MkdirTemp("", "mfold-")
	if err != nil {
		return "", fmt.Errorf("creating mfold scratch dir: %w", err)
	}
	defer os.RemoveAll(scratch)

	input := filepath.Join(scratch, "sequence.fasta")
	if err := os.WriteFile(input, []byte(">sequence\n"+string(seq)+"\n"), 0o644); err != nil {
		return "", fmt.Errorf("writing mfold input: %w", err)
	}

	temp := m.cfg.Temperature
	if temp == 0 {
		temp = defaultMfoldTemperature
	}
	maxStructs := m.cfg.MaxStructures
	if maxStructs == 0 {
		maxStructs = defaultMfoldMaxStructures
	}
	env := []string{
		"SEQ=" + input,
		"T=" + strconv.FormatFloat(temp, 'f', -1, 64),
		"MAX=" + strconv.Itoa(maxStructs),
	}
	// Parameter-set entries come last so they win over config values.
	env = append(env, params.Env...)

	if _, err := m.exec.Run(ctx, toolexec.Command{
		Binary: m.binary(),
		Dir:    scratch,
		Env:    env,
	}); err != nil {
		return "", err
	}

	return readPntBlock(scratch, seq)
}

// readPntBlock locates the .pnt record mfold wrote and synthesizes a fold
// block from it: the echoed sequence plus a fully-unpaired structure of the
// same length.
func readPntBlock(dir string, seq structure.Sequence) (string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*.pnt"))
	if err != nil || len(matches) == 0 {
		return "", fmt.Errorf("no .pnt record in mfold output")
	}

	f, err := os.Open(matches[0])
	if err != nil {
		return "", fmt.Errorf("reading mfold .pnt record: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, "#") || strings.HasPrefix(line, " ") {
			continue
		}
		line = strings.TrimSpace(line)
		if len(line) != len(seq) {
			continue
		}
		dots := strings.Repeat(".", len(line))
		return ">sequence\n" + line + "\n" + dots + "\n", nil
	}
	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("reading mfold .pnt record: %w", err)
	}
	return "", fmt.Errorf("no sequence record in mfold .pnt output")
}

func (m *Mfold) binary() string {
	if m.cfg.Binary != "" {
		return m.cfg.Binary
	}
	return defaultMfoldBinary
}
