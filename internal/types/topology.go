// Package types defines common types used across the application.
package types

// BridgeNetmask is the /23 netmask shared by both internal segments.
const BridgeNetmask = "255.255.254.0"

// TopologyPlan holds the IPv4 addresses derived from the box number.
// All four addresses live in consecutive /23 blocks under 172.27.0.0/16,
// keyed by box number n, n+1, n+2, n+3 on the third octet.
type TopologyPlan struct {
	BoxNumber   int
	Internal1IP string // br0 address, 172.27.{n}.1
	Gateway1IP  string // upstream router on the first segment, 172.27.{n+1}.254
	Internal2IP string // br1 address, 172.27.{n+2}.1
	Gateway2IP  string // upstream router on the second segment, 172.27.{n+3}.254
}

// GatewayIP returns the default-route gateway for the box, which is the
// first segment's router.
func (p TopologyPlan) GatewayIP() string {
	return p.Gateway1IP
}

// RoleMapping assigns discovered interface names to their roles. The
// discovery order gives index 0/1/2, then indices 1 and 2 are swapped;
// the swap is fixed and not configurable.
type RoleMapping struct {
	Internal0 string // uplink port, written as manual and left down
	Internal1 string // bridged under br0
	Internal2 string // bridged under br1
}

// All returns the interface names in role order.
func (r RoleMapping) All() []string {
	return []string{r.Internal0, r.Internal1, r.Internal2}
}
