// Package system provides a command runner adapter over os/exec.
package system

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"orangebox-setup/internal/pkg/logging"
	"orangebox-setup/internal/port"
)

// RunnerAdapter is an adapter that implements the CommandRunner port using os/exec.
type RunnerAdapter struct{}

// Ensure RunnerAdapter implements the CommandRunner port
var _ port.CommandRunner = (*RunnerAdapter)(nil)

// NewRunnerAdapter creates a new command runner adapter.
func NewRunnerAdapter() *RunnerAdapter {
	return &RunnerAdapter{}
}

// Run executes the command and waits for it to finish.
func (r *RunnerAdapter) Run(ctx context.Context, name string, args ...string) error {
	logger := logging.WithComponent("exec").WithField("command", name)
	logger.WithField("args", strings.Join(args, " ")).Debug("Running command")

	out, err := exec.CommandContext(ctx, name, args...).CombinedOutput()
	if err != nil {
		return fmt.Errorf("%s %s: %w (output: %s)", name, strings.Join(args, " "), err, strings.TrimSpace(string(out)))
	}
	return nil
}

// Output executes the command and returns its combined output.
func (r *RunnerAdapter) Output(ctx context.Context, name string, args ...string) (string, error) {
	out, err := exec.CommandContext(ctx, name, args...).CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("%s %s: %w (output: %s)", name, strings.Join(args, " "), err, strings.TrimSpace(string(out)))
	}
	return string(out), nil
}
