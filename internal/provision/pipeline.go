package provision

import (
	"context"
	"fmt"

	"orangebox-setup/internal/pkg/logging"
	"orangebox-setup/internal/port"
)

// Pipeline runs provisioning steps strictly in sequence. There is no
// concurrency and no retry: the first failing step aborts the run.
type Pipeline struct {
	steps []port.Step
}

// New creates a pipeline from the given steps, run in order.
func New(steps ...port.Step) *Pipeline {
	return &Pipeline{steps: steps}
}

// Run executes all steps. The returned error is the first step failure,
// wrapped with the step name.
func (p *Pipeline) Run(ctx context.Context) error {
	logger := logging.WithComponent("pipeline")
	logger.WithField("steps", len(p.steps)).Info("Starting provisioning run")

	for _, step := range p.steps {
		if err := ctx.Err(); err != nil {
			return err
		}

		stepLogger := logger.WithField("step", step.Name())
		stepLogger.Info("Running step")
		if err := step.Run(ctx); err != nil {
			stepLogger.WithError(err).Error("Step failed")
			return fmt.Errorf("step %s: %w", step.Name(), err)
		}
		stepLogger.Info("Step complete")
	}

	logger.Info("Provisioning run complete")
	return nil
}
