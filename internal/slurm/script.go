// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package slurm templates, submits, and waits on cluster jobs for the
// tertiary-structure methods.
package slurm

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdiddy/rna-engine/pkg/types"
)

// Method commands. Each operates on an input FASTA carrying the sequence
// and dot-bracket lines.
const (
	MethodRosetta = "rosetta"
	MethodSimRNA  = "simrna"
	MethodFARNA   = "farna"
)

// Methods lists the supported tertiary-structure methods.
var Methods = []string{MethodRosetta, MethodSimRNA, MethodFARNA}

// Resources returns the CPU and GPU allocation for a method. ROSETTA is
// CPU-bound; SimRNA and FARNA benefit from a GPU. cfg.CPUsPerTask, when
// positive, caps the CPU count.
func Resources(method string, cfg types.SlurmConfig) (cpus, gpus int) {
	switch method {
	case MethodRosetta:
		cpus, gpus = 30, 0
	case MethodSimRNA, MethodFARNA:
		cpus, gpus = 8, 1
	default:
		cpus, gpus = 4, 0
	}
	if cfg.CPUsPerTask > 0 && cpus > cfg.CPUsPerTask {
		cpus = cfg.CPUsPerTask
	}
	return cpus, gpus
}

// Script renders the batch script for one job. jobName keys the log files;
// inputFile is the FASTA the method reads; outputDir is where the method
// runs and leaves its coordinate files.
func Script(method, jobName, inputFile, outputDir string, cfg types.SlurmConfig) string {
	cpus, gpus := Resources(method, cfg)
	logsDir := filepath.Join(outputDir, "logs")

	var b strings.Builder
	b.WriteString("#!/bin/bash\n")
	if cfg.MailUser != "" {
		fmt.Fprintf(&b, "#SBATCH --mail-user=%s\n", cfg.MailUser)
		b.WriteString("#SBATCH --mail-type=ALL\n")
	}
	if cfg.Account != "" {
		fmt.Fprintf(&b, "#SBATCH --account=%s\n", cfg.Account)
	}
	fmt.Fprintf(&b, "#SBATCH -N %d\n", orDefault(cfg.Nodes, 1))
	fmt.Fprintf(&b, "#SBATCH -n %d\n", orDefault(cfg.MPIRanks, 1))
	fmt.Fprintf(&b, "#SBATCH --cpus-per-task=%d\n", cpus)
	if cfg.Mem != "" {
		fmt.Fprintf(&b, "#SBATCH --mem=%s\n", cfg.Mem)
	}
	if gpus > 0 {
		fmt.Fprintf(&b, "#SBATCH --gres=gpu:%d\n", gpus)
	}
	if cfg.Partition != "" {
		fmt.Fprintf(&b, "#SBATCH -p %s\n", cfg.Partition)
	}
	if cfg.Exclude != "" {
		fmt.Fprintf(&b, "#SBATCH --exclude=%s\n", cfg.Exclude)
	}
	if cfg.Time != "" {
		fmt.Fprintf(&b, "#SBATCH --time=%s\n", cfg.Time)
	}
	fmt.Fprintf(&b, "#SBATCH -J %s_%s\n", method, jobName)
	fmt.Fprintf(&b, "#SBATCH -o %s/%s_%s_%%j.out\n", logsDir, method, jobName)
	fmt.Fprintf(&b, "#SBATCH -e %s/%s_%s_%%j.err\n", logsDir, method, jobName)
	b.WriteString("\n")
	fmt.Fprintf(&b, "mkdir -p %s\n", logsDir)
	fmt.Fprintf(&b, "cd %s\n\n", outputDir)

	switch method {
	case MethodRosetta:
		fmt.Fprintf(&b, "rna_denovo -nstruct 10 -fasta %s -out %s_rosetta\n", inputFile, jobName)
	case MethodSimRNA:
		fmt.Fprintf(&b, "SimRNA -i %s -o %s_simrna\n", inputFile, jobName)
	case MethodFARNA:
		fmt.Fprintf(&b, "farna -i %s -o %s_farna\n", inputFile, jobName)
	default:
		fmt.Fprintf(&b, "%s -i %s -o %s_%s\n", method, inputFile, jobName, method)
	}
	return b.String()
}

// WriteScript renders the script and writes it executable at path.
func WriteScript(path, method, jobName, inputFile, outputDir string, cfg types.SlurmConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating script directory: %w", err)
	}
	content := Script(method, jobName, inputFile, outputDir, cfg)
	return os.WriteFile(path, []byte(content), 0o755)
}

func orDefault(v, def int) int {
	if v > 0 {
		return v
	}
	return def
}
