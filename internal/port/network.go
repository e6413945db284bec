// Package port defines the primary ports (interfaces) for the application.
// This follows the Ports and Adapters (Hexagonal Architecture) pattern.
package port

import (
	"context"
	"net"

	"github.com/vishvananda/netlink"
)

//go:generate mockgen -destination=../mock/network.go -package=mock orangebox-setup/internal/port NetworkManager,Pinger,Resolver,DHCPDetector

// NetworkManager is a port for network interface operations.
// This interface abstracts netlink operations for network configuration.
type NetworkManager interface {
	// GetLinkByName returns a network link by interface name
	GetLinkByName(interfaceName string) (netlink.Link, error)

	// ListAddresses returns IPv4 addresses configured on the link
	ListAddresses(link netlink.Link) ([]netlink.Addr, error)

	// AddAddress adds an IP address to the interface
	AddAddress(link netlink.Link, addr *netlink.Addr) error

	// DeleteAddress removes an IP address from the interface
	DeleteAddress(link netlink.Link, addr *netlink.Addr) error

	// AddLink creates a new virtual link (e.g. a bridge)
	AddLink(link netlink.Link) error

	// SetMaster enslaves a link under a master (bridge) link
	SetMaster(slave, master netlink.Link) error

	// ListRoutes returns IPv4 routes
	ListRoutes() ([]netlink.Route, error)

	// AddRoute adds a route
	AddRoute(route *netlink.Route) error

	// DeleteRoute removes a route
	DeleteRoute(route *netlink.Route) error

	// SetLinkUp brings the interface up
	SetLinkUp(link netlink.Link) error

	// SetLinkDown brings the interface down
	SetLinkDown(link netlink.Link) error
}

// Pinger is a port for ICMP reachability probes.
type Pinger interface {
	// Ping sends a single echo request and waits for a reply
	Ping(ctx context.Context, address string) error
}

// Resolver is a port for DNS resolution probes.
type Resolver interface {
	// Resolve looks up A records for the given hostname
	Resolve(ctx context.Context, hostname string) ([]net.IP, error)
}

// DHCPDetector is a port for detecting foreign DHCP servers on a segment.
type DHCPDetector interface {
	// Detect broadcasts a DISCOVER on the interface and returns the
	// responding server's identifier, or nil if nothing answered
	Detect(ctx context.Context, interfaceName string) (net.IP, error)
}
