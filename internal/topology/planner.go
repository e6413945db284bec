package topology

import (
	"fmt"
	"sort"
	"strings"

	"orangebox-setup/internal/provision"
	"orangebox-setup/internal/types"
)

// expectedInterfaces is how many ethernet NICs a box chassis has: the
// external uplink plus the two internal USB adapters.
const expectedInterfaces = 3

// FilterInterfaceNames returns the discovered names that look like
// ethernet adapters (enp*, enx*), sorted. The caller passes in whatever
// the host reports; nothing here touches the system.
func FilterInterfaceNames(names []string) []string {
	var filtered []string
	for _, name := range names {
		if strings.HasPrefix(name, "en") {
			filtered = append(filtered, name)
		}
	}
	sort.Strings(filtered)
	return filtered
}

// MapRoles assigns the three discovered interfaces to their roles.
// Index 0/1/2 map to internal0/1/2, then indices 1 and 2 are swapped.
// The swap is a fixed property of how the chassis is cabled, not a
// configuration knob.
func MapRoles(names []string) (types.RoleMapping, error) {
	if len(names) != expectedInterfaces {
		return types.RoleMapping{}, &provision.InvalidTopologyError{
			Reason: fmt.Sprintf("expected %d ethernet interfaces, found %d (%s)", expectedInterfaces, len(names), strings.Join(names, ", ")),
		}
	}
	return types.RoleMapping{
		Internal0: names[0],
		Internal1: names[2],
		Internal2: names[1],
	}, nil
}

// Plan derives the four addresses for a validated box number. Pure and
// deterministic: the same number always yields the same plan.
func Plan(n int) types.TopologyPlan {
	return types.TopologyPlan{
		BoxNumber:   n,
		Internal1IP: fmt.Sprintf("172.27.%d.1", n),
		Gateway1IP:  fmt.Sprintf("172.27.%d.254", n+1),
		Internal2IP: fmt.Sprintf("172.27.%d.1", n+2),
		Gateway2IP:  fmt.Sprintf("172.27.%d.254", n+3),
	}
}
