// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package toolexec wraps the external prediction binaries (RNAfold, mfold,
// sbatch) behind a small executor interface so the pipeline stages can be
// tested without the tools installed.
package toolexec

import (
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"
)

// Command describes one invocation of an external tool.
type Command struct {
	// Binary is the executable name or path.
	Binary string

	// Args are the command-line arguments, without the binary name.
	Args []string

	// Stdin, when non-nil, is piped to the process.
	Stdin io.Reader

	// Dir, when non-empty, is the working directory for the process.
	Dir string

	// Env holds KEY=VALUE entries appended to the inherited environment.
	// mfold takes its inputs this way rather than as flags.
	Env []string
}

// Executor runs external tools. The production implementation shells out;
// tests substitute a fake.
type Executor interface {
	// LookPath reports where the binary resolves on PATH.
	LookPath(binary string) (string, error)

	// Run executes the command and returns its combined stdout. stderr is
	// captured separately and folded into the error on failure.
	Run(ctx context.Context, cmd Command) ([]byte, error)
}

// osExecutor is the production executor backed by os/exec.
type osExecutor struct{}

func (o *osExecutor) LookPath(binary string) (string, error) {
	return exec.LookPath(binary)
}

func (o *osExecutor) Run(ctx context.Context, c Command) ([]byte, error) {
	cmd := exec.CommandContext(ctx, c.Binary, c.Args...)
	cmd.Stdin = c.Stdin
	cmd.Dir = c.Dir
	if len(c.Env) > 0 {
		cmd.Env = append(cmd.Environ(), c.Env...)
	}

	var stdout, stderr strings.Builder
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			return nil, fmt.Errorf("running %s: %w", c.Binary, err)
		}
		return nil, fmt.Errorf("running %s: %w: %s", c.Binary, err, msg)
	}
	return []byte(stdout.String()), nil
}

var defaultExec Executor = &osExecutor{}

// Default returns the process-backed executor.
func Default() Executor { return defaultExec }

// Find checks that the binary exists on PATH, returning its resolved path.
func Find(binary string) (string, error) {
	return FindWith(defaultExec, binary)
}

// FindWith is Find with an explicit executor, for tests.
func FindWith(e Executor, binary string) (string, error) {
	path, err := e.LookPath(binary)
	if err != nil {
		return "", fmt.Errorf("%s not found on PATH: %w", binary, err)
	}
	return path, nil
}
