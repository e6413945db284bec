// Package port defines the primary ports (interfaces) for the application.
// This follows the Ports and Adapters (Hexagonal Architecture) pattern.
package port

import (
	"context"
	"os"
)

//go:generate mockgen -destination=../mock/infrastructure.go -package=mock orangebox-setup/internal/port FileManager,CommandRunner

// FileManager is a port for file system operations.
// This interface abstracts file read/write operations.
type FileManager interface {
	// ReadFile reads the contents of a file
	ReadFile(filename string) ([]byte, error)

	// WriteFile writes data to a file with specified permissions
	WriteFile(filename string, data []byte, perm os.FileMode) error

	// FileExists checks if a file exists
	FileExists(filename string) bool

	// Glob returns the names of all files matching the pattern
	Glob(pattern string) ([]string, error)
}

// CommandRunner is a port for executing host commands (systemctl, dpkg,
// apt and friends). The provisioner runs as root; no privilege escalation
// happens here.
type CommandRunner interface {
	// Run executes the command and waits for it to finish
	Run(ctx context.Context, name string, args ...string) error

	// Output executes the command and returns its combined output
	Output(ctx context.Context, name string, args ...string) (string, error)
}
