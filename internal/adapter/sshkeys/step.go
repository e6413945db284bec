// Package sshkeys prepares remote access for the operator account.
package sshkeys

import (
	"context"

	"orangebox-setup/internal/pkg/logging"
	"orangebox-setup/internal/port"
)

// Step generates the operator account's SSH keypair if missing and
// imports the operator's public key from launchpad for remote access.
// Implements the Step port.
type Step struct {
	keyPath  string
	importID string // e.g. lp:username; empty skips the import
	fileMgr  port.FileManager
	runner   port.CommandRunner
}

var _ port.Step = (*Step)(nil)

// NewStep creates the SSH key step.
func NewStep(keyPath, importID string, fileMgr port.FileManager, runner port.CommandRunner) *Step {
	return &Step{keyPath: keyPath, importID: importID, fileMgr: fileMgr, runner: runner}
}

// Name returns the step identifier.
func (s *Step) Name() string { return "ssh-keys" }

// Run generates and imports keys. Generation is skipped when a key
// already exists, keeping re-runs from rotating the box identity.
func (s *Step) Run(ctx context.Context) error {
	logger := logging.WithComponent("sshkeys")

	if s.fileMgr.FileExists(s.keyPath) {
		logger.WithField("path", s.keyPath).Debug("SSH key already exists")
	} else {
		logger.WithField("path", s.keyPath).Info("Generating SSH key")
		if err := s.runner.Run(ctx, "ssh-keygen", "-t", "rsa", "-N", "", "-f", s.keyPath); err != nil {
			return err
		}
	}

	if s.importID == "" {
		return nil
	}
	logger.WithField("id", s.importID).Info("Importing public SSH key")
	return s.runner.Run(ctx, "ssh-import-id", s.importID)
}
