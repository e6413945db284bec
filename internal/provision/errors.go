// Package provision orchestrates the one-shot provisioning pipeline and
// defines its fatal error taxonomy. Every error here terminates the run;
// recovery is re-invoking the whole pipeline, which is idempotent.
package provision

import (
	"errors"
	"fmt"
	"os"
)

// Exit codes reported to the invoking operator or init script.
const (
	ExitOK          = 0
	ExitNetwork     = 1 // network unreachable or invalid box number
	ExitDNS         = 2
	ExitNoPrivilege = 77
)

// FatalError is implemented by all pipeline-terminating errors. Hint
// carries the operator-facing remediation message printed on stderr.
type FatalError interface {
	error
	ExitCode() int
	Hint() string
}

// PrivilegeError indicates the process is not running as root.
type PrivilegeError struct{}

func (e *PrivilegeError) Error() string {
	return "must be run as root"
}

func (e *PrivilegeError) ExitCode() int { return ExitNoPrivilege }

func (e *PrivilegeError) Hint() string {
	return "Re-run with sudo: provisioning writes host network configuration."
}

// InvalidTopologyError indicates the box number cannot produce a valid
// address plan.
type InvalidTopologyError struct {
	Number int
	Reason string
}

func (e *InvalidTopologyError) Error() string {
	return fmt.Sprintf("invalid box number %d: %s", e.Number, e.Reason)
}

func (e *InvalidTopologyError) ExitCode() int { return ExitNetwork }

func (e *InvalidTopologyError) Hint() string {
	return "Box numbers are multiples of 4 between 4 and 252 (e.g. hostname OrangeBox28)."
}

// NetworkUnreachableError indicates the external ICMP probe never got a
// reply after the configured attempts.
type NetworkUnreachableError struct {
	Target   string
	Attempts int
}

func (e *NetworkUnreachableError) Error() string {
	return fmt.Sprintf("no reply from %s after %d attempts", e.Target, e.Attempts)
}

func (e *NetworkUnreachableError) ExitCode() int { return ExitNetwork }

func (e *NetworkUnreachableError) Hint() string {
	return "Waited too long for the network to come up. Please fix the network and re-run."
}

// DNSUnreachableError indicates name resolution never succeeded after the
// configured attempts.
type DNSUnreachableError struct {
	Hostname string
	Attempts int
}

func (e *DNSUnreachableError) Error() string {
	return fmt.Sprintf("could not resolve %s after %d attempts", e.Hostname, e.Attempts)
}

func (e *DNSUnreachableError) ExitCode() int { return ExitDNS }

func (e *DNSUnreachableError) Hint() string {
	return "Waited too long for DNS to come up. Please fix the DNS and re-run."
}

// ExitCode maps an error to the process exit status. Untyped errors map
// to the generic failure code.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	var fatal FatalError
	if errors.As(err, &fatal) {
		return fatal.ExitCode()
	}
	return ExitNetwork
}

// Hint returns the remediation message for an error, or empty when the
// error carries none.
func Hint(err error) string {
	var fatal FatalError
	if errors.As(err, &fatal) {
		return fatal.Hint()
	}
	return ""
}

// CheckPrivilege verifies the process runs with root privileges before
// any host state is mutated.
func CheckPrivilege() error {
	if os.Geteuid() != 0 {
		return &PrivilegeError{}
	}
	return nil
}
