// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package slurm

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/pdiddy/rna-engine/internal/toolexec"
)

// jobIDPattern matches the sbatch acknowledgement line.
var jobIDPattern = regexp.MustCompile(`Submitted batch job (\d+)`)

const defaultPollInterval = 30 * time.Second

// Submit runs sbatch on the script and returns the assigned job ID.
func Submit(ctx context.Context, exec toolexec.Executor, scriptPath string) (string, error) {
	out, err := exec.Run(ctx, toolexec.Command{
		Binary: "sbatch",
		Args:   []string{scriptPath},
	})
	if err != nil {
		return "", fmt.Errorf("submitting %s: %w", scriptPath, err)
	}

	m := jobIDPattern.FindSubmatch(out)
	if m == nil {
		return "", fmt.Errorf("no job ID in sbatch output: %q", strings.TrimSpace(string(out)))
	}
	return string(m[1]), nil
}

// Wait polls squeue until the job leaves the queue. A job reported as
// FAILED or CANCELLED is an error; a job no longer listed has completed.
// The context bounds the total wait.
func Wait(ctx context.Context, exec toolexec.Executor, jobID string, pollInterval time.Duration) error {
	if pollInterval <= 0 {
		pollInterval = defaultPollInterval
	}

	for {
		out, err := exec.Run(ctx, toolexec.Command{
			Binary: "squeue",
			Args:   []string{"-j", jobID},
		})
		if err != nil {
			return fmt.Errorf("checking job %s: %w", jobID, err)
		}

		listing := string(out)
		if !strings.Contains(listing, jobID) {
			return nil
		}
		if strings.Contains(listing, "FAILED") || strings.Contains(listing, "CANCELLED") {
			return fmt.Errorf("job %s failed or was cancelled", jobID)
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("waiting on job %s: %w", jobID, ctx.Err())
		case <-time.After(pollInterval):
		}
	}
}
