// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package predict

import (
	"context"
	"strconv"
	"strings"

	"github.com/pdiddy/rna-engine/internal/structure"
	"github.com/pdiddy/rna-engine/internal/toolexec"
	"github.com/pdiddy/rna-engine/pkg/types"
)

const defaultRNAfoldBinary = "RNAfold"

// rnafoldParamSets mirrors the parameter sweep the pipeline has always run.
var rnafoldParamSets = []ParamSet{
	{Name: "default"},
	{Name: "temperature_25C", Args: []string{"-T", "25"}},
	{Name: "temperature_50C", Args: []string{"-T", "50"}},
	{Name: "maxspan_20", Args: []string{"--maxBPspan", "20"}},
	{Name: "noGU", Args: []string{"--noGU"}},
	{Name: "partfunc", Args: []string{"--partfunc"}},
}

// RNAfold runs the ViennaRNA RNAfold binary, feeding one FASTA record on
// stdin and capturing the fold block it prints.
type RNAfold struct {
	cfg  types.RNAfoldConfig
	exec toolexec.Executor
}

// NewRNAfold builds an RNAfold predictor. A nil exec uses the process-backed
// executor.
func NewRNAfold(cfg types.RNAfoldConfig, exec toolexec.Executor) *RNAfold {
	if exec == nil {
		exec = toolexec.Default()
	}
	return &RNAfold{cfg: cfg, exec: exec}
}

func (r *RNAfold) Name() string { return "rnafold" }

func (r *RNAfold) ParamSets() []ParamSet { return rnafoldParamSets }

// Predict folds the sequence with one parameter set. Config-level
// temperature and span settings come first so a parameter set can override
// them; RNAfold takes the last occurrence of a flag.
func (r *RNAfold) Predict(ctx context.Context, seq structure.Sequence, params ParamSet) (string, error) {
	args := []string{"--noPS"}
	if r.cfg.Temperature != 0 && r.cfg.Temperature != 37 {
		args = append(args, "-T", strconv.FormatFloat(r.cfg.Temperature, 'f', -1, 64))
	}
	if r.cfg.MaxBPSpan > 0 {
		args = append(args, "--maxBPspan", strconv.Itoa(r.cfg.MaxBPSpan))
	}
	args = append(args, params.Args...)

	out, err := r.exec.Run(ctx, toolexec.Command{
		Binary: r.binary(),
		Args:   args,
		Stdin:  strings.NewReader(">sequence\n" + string(seq) + "\n"),
	})
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func (r *RNAfold) binary() string {
	if r.cfg.Binary != "" {
		return r.cfg.Binary
	}
	return defaultRNAfoldBinary
}
