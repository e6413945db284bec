//go:build unit

package provision

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExitCode(t *testing.T) {
	t.Run("Nil", func(t *testing.T) {
		assert.Equal(t, ExitOK, ExitCode(nil))
	})

	t.Run("Privilege", func(t *testing.T) {
		assert.Equal(t, ExitNoPrivilege, ExitCode(&PrivilegeError{}))
	})

	t.Run("InvalidTopology", func(t *testing.T) {
		assert.Equal(t, ExitNetwork, ExitCode(&InvalidTopologyError{Number: 2, Reason: "must be at least 4"}))
	})

	t.Run("NetworkUnreachable", func(t *testing.T) {
		assert.Equal(t, ExitNetwork, ExitCode(&NetworkUnreachableError{Target: "8.8.8.8", Attempts: 3}))
	})

	t.Run("DNSUnreachable", func(t *testing.T) {
		assert.Equal(t, ExitDNS, ExitCode(&DNSUnreachableError{Hostname: "launchpad.net", Attempts: 3}))
	})

	t.Run("WrappedErrorsKeepTheirCode", func(t *testing.T) {
		err := fmt.Errorf("step netconf: %w", &DNSUnreachableError{Hostname: "launchpad.net", Attempts: 3})
		assert.Equal(t, ExitDNS, ExitCode(err))
	})

	t.Run("UntypedErrorsAreGenericFailures", func(t *testing.T) {
		assert.Equal(t, ExitNetwork, ExitCode(errors.New("boom")))
	})
}

func TestHint(t *testing.T) {
	t.Run("FatalErrorsCarryRemediation", func(t *testing.T) {
		for _, err := range []error{
			&PrivilegeError{},
			&InvalidTopologyError{Number: 2},
			&NetworkUnreachableError{Target: "8.8.8.8", Attempts: 3},
			&DNSUnreachableError{Hostname: "launchpad.net", Attempts: 3},
		} {
			assert.NotEmpty(t, Hint(err), "%T", err)
		}
	})

	t.Run("UntypedErrorsHaveNone", func(t *testing.T) {
		assert.Empty(t, Hint(errors.New("boom")))
	})
}
