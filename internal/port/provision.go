// Package port defines the primary ports (interfaces) for the application.
// This follows the Ports and Adapters (Hexagonal Architecture) pattern.
package port

import (
	"context"
)

// Step is the primary port for one stage of the provisioning pipeline.
// Steps run strictly in sequence; the first error aborts the run and the
// documented recovery is re-invoking the whole pipeline, which every step
// must therefore tolerate (idempotency).
type Step interface {
	// Run executes the step. Returned errors are fatal for the pipeline.
	Run(ctx context.Context) error

	// Name returns a short identifier used in logs.
	Name() string
}
