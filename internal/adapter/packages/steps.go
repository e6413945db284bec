// Package packages bootstraps the deb packages the box needs, in two
// phases: staged .debs installed before networking exists, and apt
// installs once the uplink is verified.
package packages

import (
	"context"

	"orangebox-setup/internal/pkg/logging"
	"orangebox-setup/internal/port"
)

// BootstrapStep installs the staged .deb files (bridge-utils and
// friends) with dpkg. These ship alongside the provisioner image because
// apt cannot run before networking is up. Implements the Step port.
type BootstrapStep struct {
	debGlob string
	fileMgr port.FileManager
	runner  port.CommandRunner
}

var _ port.Step = (*BootstrapStep)(nil)

// NewBootstrapStep creates the pre-network package step.
func NewBootstrapStep(debGlob string, fileMgr port.FileManager, runner port.CommandRunner) *BootstrapStep {
	return &BootstrapStep{debGlob: debGlob, fileMgr: fileMgr, runner: runner}
}

// Name returns the step identifier.
func (s *BootstrapStep) Name() string { return "dpkg-bootstrap" }

// Run installs whatever .debs are staged. Nothing staged is fine:
// a re-run after a successful install finds them already unpacked and
// dpkg treats that as a no-op anyway.
func (s *BootstrapStep) Run(ctx context.Context) error {
	logger := logging.WithComponent("packages")

	debs, err := s.fileMgr.Glob(s.debGlob)
	if err != nil {
		return err
	}
	if len(debs) == 0 {
		logger.WithField("glob", s.debGlob).Info("No staged packages found, skipping")
		return nil
	}

	logger.WithField("count", len(debs)).Info("Installing staged packages")
	args := append([]string{"-i"}, debs...)
	return s.runner.Run(ctx, "dpkg", args...)
}

// AptStep enables the universe repository and installs the convenience
// package set. Runs after networking is verified. Implements the Step
// port.
type AptStep struct {
	convenience []string
	runner      port.CommandRunner
}

var _ port.Step = (*AptStep)(nil)

// NewAptStep creates the post-network package step.
func NewAptStep(convenience []string, runner port.CommandRunner) *AptStep {
	return &AptStep{convenience: convenience, runner: runner}
}

// Name returns the step identifier.
func (s *AptStep) Name() string { return "apt" }

// Run enables universe (openssh-server lives there), refreshes indexes
// and installs the configured packages.
func (s *AptStep) Run(ctx context.Context) error {
	if err := s.runner.Run(ctx, "add-apt-repository", "-y", "universe"); err != nil {
		return err
	}
	if err := s.runner.Run(ctx, "apt", "update"); err != nil {
		return err
	}
	if len(s.convenience) == 0 {
		return nil
	}
	args := append([]string{"install", "-y"}, s.convenience...)
	return s.runner.Run(ctx, "apt", args...)
}
