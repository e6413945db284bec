// Package preflight holds non-fatal sanity checks that run once the
// network is applied.
package preflight

import (
	"context"

	"orangebox-setup/internal/pkg/logging"
	"orangebox-setup/internal/port"
)

// DHCPStep probes the first internal bridge for a foreign DHCP server.
// The box will serve DHCP on that segment itself once node management is
// set up; anything else answering DISCOVER there will fight it for the
// nodes. The check only warns: a noisy neighbour is an operator problem,
// not a provisioning failure. Implements the Step port.
type DHCPStep struct {
	interfaceName string
	detector      port.DHCPDetector
}

var _ port.Step = (*DHCPStep)(nil)

// NewDHCPStep creates the DHCP conflict preflight step.
func NewDHCPStep(interfaceName string, detector port.DHCPDetector) *DHCPStep {
	return &DHCPStep{interfaceName: interfaceName, detector: detector}
}

// Name returns the step identifier.
func (s *DHCPStep) Name() string { return "dhcp-preflight" }

// Run broadcasts a DISCOVER and warns if anything answers. Never fails
// the pipeline.
func (s *DHCPStep) Run(ctx context.Context) error {
	logger := logging.WithComponent("preflight").WithField("interface", s.interfaceName)

	server, err := s.detector.Detect(ctx, s.interfaceName)
	if err != nil {
		logger.WithError(err).Debug("DHCP preflight could not probe; skipping")
		return nil
	}
	if server != nil {
		logger.WithField("server", server.String()).Warn("Foreign DHCP server detected on internal segment")
	} else {
		logger.Info("No foreign DHCP server detected")
	}
	return nil
}
