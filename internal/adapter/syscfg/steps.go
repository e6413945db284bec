package syscfg

import (
	"context"
	"fmt"

	"orangebox-setup/internal/pkg/logging"
	"orangebox-setup/internal/port"
	"orangebox-setup/internal/topology"
	"orangebox-setup/internal/types"
)

// Public fallback resolvers, used when the upstream router's DNS is
// unreachable.
const (
	fallbackDNS        = "8.8.8.8"
	fallbackDNSAlt     = "8.8.4.4"
	forwardSysctlKey   = "net.ipv4.ip_forward"
	forwardSysctlValue = "1"
)

// ResolverStep points systemd-resolved at the upstream router with a
// public fallback, then restarts the service. Implements the Step port.
type ResolverStep struct {
	plan         types.TopologyPlan
	resolvedConf string
	fileMgr      port.FileManager
	runner       port.CommandRunner
}

var _ port.Step = (*ResolverStep)(nil)

// NewResolverStep creates the resolver configuration step.
func NewResolverStep(plan types.TopologyPlan, resolvedConf string, fileMgr port.FileManager, runner port.CommandRunner) *ResolverStep {
	return &ResolverStep{plan: plan, resolvedConf: resolvedConf, fileMgr: fileMgr, runner: runner}
}

// Name returns the step identifier.
func (s *ResolverStep) Name() string { return "resolved" }

// Run upserts the DNS keys and restarts systemd-resolved.
func (s *ResolverStep) Run(ctx context.Context) error {
	logger := logging.WithComponent("syscfg")

	data, err := s.fileMgr.ReadFile(s.resolvedConf)
	if err != nil {
		return err
	}

	content := string(data)
	content = UpsertKey(content, "DNS", fmt.Sprintf("%s %s", s.plan.Gateway2IP, fallbackDNS))
	content = UpsertKey(content, "FallbackDNS", fmt.Sprintf("%s %s", fallbackDNS, fallbackDNSAlt))

	if err := s.fileMgr.WriteFile(s.resolvedConf, []byte(content), 0644); err != nil {
		return err
	}
	logger.WithField("path", s.resolvedConf).Info("Updated resolver configuration")

	return s.runner.Run(ctx, "systemctl", "restart", "systemd-resolved")
}

// SysctlStep enables IPv4 forwarding persistently and immediately. The
// box routes between its two internal segments, so forwarding must
// survive reboots. Implements the Step port.
type SysctlStep struct {
	sysctlConf string
	fileMgr    port.FileManager
	runner     port.CommandRunner
}

var _ port.Step = (*SysctlStep)(nil)

// NewSysctlStep creates the sysctl configuration step.
func NewSysctlStep(sysctlConf string, fileMgr port.FileManager, runner port.CommandRunner) *SysctlStep {
	return &SysctlStep{sysctlConf: sysctlConf, fileMgr: fileMgr, runner: runner}
}

// Name returns the step identifier.
func (s *SysctlStep) Name() string { return "sysctl" }

// Run upserts the forwarding key and applies it to the running kernel.
func (s *SysctlStep) Run(ctx context.Context) error {
	logger := logging.WithComponent("syscfg")

	var content string
	if s.fileMgr.FileExists(s.sysctlConf) {
		data, err := s.fileMgr.ReadFile(s.sysctlConf)
		if err != nil {
			return err
		}
		content = string(data)
	}

	content = UpsertKey(content, forwardSysctlKey, forwardSysctlValue)
	if err := s.fileMgr.WriteFile(s.sysctlConf, []byte(content), 0644); err != nil {
		return err
	}
	logger.WithField("path", s.sysctlConf).Info("Updated sysctl configuration")

	return s.runner.Run(ctx, "sysctl", "-w", forwardSysctlKey+"="+forwardSysctlValue)
}

// BoxConfStep persists the box number to its identity file. Other tools
// on the box read this file, so the key name and format are a fixed
// contract. Implements the Step port.
type BoxConfStep struct {
	number  int
	boxConf string
	fileMgr port.FileManager
}

var _ port.Step = (*BoxConfStep)(nil)

// NewBoxConfStep creates the box identity file step.
func NewBoxConfStep(number int, boxConf string, fileMgr port.FileManager) *BoxConfStep {
	return &BoxConfStep{number: number, boxConf: boxConf, fileMgr: fileMgr}
}

// Name returns the step identifier.
func (s *BoxConfStep) Name() string { return "box-conf" }

// Run writes the identity file, overwriting any previous contents.
func (s *BoxConfStep) Run(ctx context.Context) error {
	if err := s.fileMgr.WriteFile(s.boxConf, topology.FormatBoxConf(s.number), 0644); err != nil {
		return err
	}
	logging.WithComponent("syscfg").WithField("number", s.number).Info("Wrote box identity file")
	return nil
}
