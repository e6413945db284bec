package netconf

import (
	"context"
	"fmt"
	"net"
	"strings"

	"orangebox-setup/internal/pkg/logging"
	"orangebox-setup/internal/port"
	"orangebox-setup/internal/types"

	"github.com/sirupsen/logrus"
	"github.com/vishvananda/netlink"
)

// State tracks where the applier is in its lifecycle. Transitions are
// strictly forward; any error leaves the run in StateFailed and the
// recovery is a full re-run.
type State string

const (
	StateUnconfigured State = "unconfigured"
	StateFlushed      State = "flushed"
	StateRendered     State = "rendered"
	StateTornDown     State = "torn-down"
	StateApplied      State = "applied"
	StateVerified     State = "verified"
	StateFailed       State = "failed"
)

const (
	bridge0 = "br0"
	bridge1 = "br1"
)

// Applier turns a topology plan into live host network configuration:
// interim address, rendered interfaces file, bridge creation, bring-up
// and reachability verification. It implements the Step port.
type Applier struct {
	plan  types.TopologyPlan
	roles types.RoleMapping

	interfacesFile string
	probeAddress   string
	probeHostname  string
	probeAttempts  int

	networkMgr port.NetworkManager
	fileMgr    port.FileManager
	runner     port.CommandRunner
	pinger     port.Pinger
	resolver   port.Resolver

	state State
}

// Ensure Applier implements the Step port
var _ port.Step = (*Applier)(nil)

// NewApplier creates a new interface configuration applier.
func NewApplier(
	plan types.TopologyPlan,
	roles types.RoleMapping,
	interfacesFile, probeAddress, probeHostname string,
	probeAttempts int,
	networkMgr port.NetworkManager,
	fileMgr port.FileManager,
	runner port.CommandRunner,
	pinger port.Pinger,
	resolver port.Resolver,
) *Applier {
	return &Applier{
		plan:           plan,
		roles:          roles,
		interfacesFile: interfacesFile,
		probeAddress:   probeAddress,
		probeHostname:  probeHostname,
		probeAttempts:  probeAttempts,
		networkMgr:     networkMgr,
		fileMgr:        fileMgr,
		runner:         runner,
		pinger:         pinger,
		resolver:       resolver,
		state:          StateUnconfigured,
	}
}

// Name returns the step identifier.
func (a *Applier) Name() string {
	return "netconf"
}

// State returns the current lifecycle state.
func (a *Applier) State() State {
	return a.state
}

func (a *Applier) transition(logger *logrus.Entry, next State) {
	logger.WithFields(logrus.Fields{"from": a.state, "to": next}).Debug("State transition")
	a.state = next
}

// Run applies the network configuration and verifies reachability.
func (a *Applier) Run(ctx context.Context) error {
	logger := logging.WithComponent("netconf")

	fail := func(err error) error {
		a.state = StateFailed
		return err
	}

	// NetworkManager fights over the interfaces we are about to own.
	// Stopping it is best-effort: a host that never had it is fine.
	a.disableNetworkManager(ctx, logger)

	if err := a.flushInterim(logger); err != nil {
		return fail(err)
	}
	a.transition(logger, StateFlushed)

	content, err := Render(a.plan, a.roles)
	if err != nil {
		return fail(err)
	}
	if err := a.fileMgr.WriteFile(a.interfacesFile, content, 0644); err != nil {
		return fail(err)
	}
	logger.WithField("path", a.interfacesFile).Info("Wrote interface definitions")
	a.transition(logger, StateRendered)

	a.tearDown(logger)
	a.transition(logger, StateTornDown)

	if err := a.bringUp(logger); err != nil {
		return fail(err)
	}
	a.transition(logger, StateApplied)

	if err := a.verifyNetwork(ctx, logger); err != nil {
		return fail(err)
	}
	if err := a.verifyDNS(ctx, logger); err != nil {
		return fail(err)
	}
	a.transition(logger, StateVerified)

	return nil
}

func (a *Applier) disableNetworkManager(ctx context.Context, logger *logrus.Entry) {
	for _, action := range []string{"stop", "disable"} {
		if err := a.runner.Run(ctx, "systemctl", action, "NetworkManager"); err != nil {
			logger.WithError(err).WithField("action", action).Debug("NetworkManager not stopped; continuing")
		}
	}
}

// flushInterim clears internal1_if and gives it the br0 address directly.
// The bridge supersedes this once bring-up completes; the interim binding
// keeps the segment addressed while the old configuration is torn down.
func (a *Applier) flushInterim(logger *logrus.Entry) error {
	link, err := a.networkMgr.GetLinkByName(a.roles.Internal1)
	if err != nil {
		return err
	}

	addrs, err := a.networkMgr.ListAddresses(link)
	if err != nil {
		return err
	}
	for _, addr := range addrs {
		addr := addr
		if err := a.networkMgr.DeleteAddress(link, &addr); err != nil {
			logger.WithError(err).WithField("address", addr.IPNet.String()).Warn("Failed to flush address")
		}
	}

	interim, err := netlink.ParseAddr(a.plan.Internal1IP + "/23")
	if err != nil {
		return fmt.Errorf("bad interim address %s: %w", a.plan.Internal1IP, err)
	}
	if err := a.networkMgr.AddAddress(link, interim); err != nil {
		return err
	}
	logger.WithFields(logrus.Fields{"interface": a.roles.Internal1, "address": interim.IPNet.String()}).Info("Interim address assigned")
	return nil
}

// tearDown brings down the raw interfaces and both bridges. Best-effort
// throughout: a link that does not exist yet is not a failure.
func (a *Applier) tearDown(logger *logrus.Entry) {
	names := append(a.roles.All(), bridge0, bridge1)
	for _, name := range names {
		link, err := a.networkMgr.GetLinkByName(name)
		if err != nil {
			logger.WithField("interface", name).Debug("Link not present, skipping teardown")
			continue
		}
		if err := a.networkMgr.SetLinkDown(link); err != nil {
			logger.WithError(err).WithField("interface", name).Warn("Failed to bring link down")
		}
	}
}

// bringUp creates the bridges, enslaves their ports, assigns addresses
// and the default route, and brings everything up. Unlike teardown this
// is fatal on error: the rest of the pipeline relies on it.
func (a *Applier) bringUp(logger *logrus.Entry) error {
	br0, err := a.ensureBridge(logger, bridge0)
	if err != nil {
		return err
	}
	br1, err := a.ensureBridge(logger, bridge1)
	if err != nil {
		return err
	}

	if err := a.enslave(logger, a.roles.Internal1, br0); err != nil {
		return err
	}
	if err := a.enslave(logger, a.roles.Internal2, br1); err != nil {
		return err
	}

	if err := a.assignAddress(logger, br0, a.plan.Internal1IP); err != nil {
		return err
	}
	if err := a.assignAddress(logger, br1, a.plan.Internal2IP); err != nil {
		return err
	}

	// Bring-up order matters: ports first, bridges after.
	for _, name := range []string{a.roles.Internal1, a.roles.Internal2, bridge0, bridge1} {
		link, err := a.networkMgr.GetLinkByName(name)
		if err != nil {
			return err
		}
		if err := a.networkMgr.SetLinkUp(link); err != nil {
			return fmt.Errorf("failed to bring up %s: %w", name, err)
		}
		logger.WithField("interface", name).Info("Link up")
	}

	return a.configureDefaultRoute(logger, br0)
}

func (a *Applier) ensureBridge(logger *logrus.Entry, name string) (netlink.Link, error) {
	link, err := a.networkMgr.GetLinkByName(name)
	if err == nil {
		return link, nil
	}
	bridge := &netlink.Bridge{LinkAttrs: netlink.LinkAttrs{Name: name}}
	if err := a.networkMgr.AddLink(bridge); err != nil {
		return nil, err
	}
	logger.WithField("bridge", name).Info("Created bridge")
	return a.networkMgr.GetLinkByName(name)
}

func (a *Applier) enslave(logger *logrus.Entry, portName string, master netlink.Link) error {
	link, err := a.networkMgr.GetLinkByName(portName)
	if err != nil {
		return err
	}

	// The interim address must not linger on the port once the bridge
	// carries the segment's identity.
	addrs, err := a.networkMgr.ListAddresses(link)
	if err != nil {
		return err
	}
	for _, addr := range addrs {
		addr := addr
		if err := a.networkMgr.DeleteAddress(link, &addr); err != nil {
			logger.WithError(err).WithField("address", addr.IPNet.String()).Warn("Failed to clear port address")
		}
	}

	if err := a.networkMgr.SetMaster(link, master); err != nil {
		return err
	}
	logger.WithFields(logrus.Fields{"port": portName, "bridge": master.Attrs().Name}).Info("Enslaved port")
	return nil
}

func (a *Applier) assignAddress(logger *logrus.Entry, link netlink.Link, ip string) error {
	addr, err := netlink.ParseAddr(ip + "/23")
	if err != nil {
		return fmt.Errorf("bad bridge address %s: %w", ip, err)
	}

	existing, err := a.networkMgr.ListAddresses(link)
	if err != nil {
		return err
	}
	for _, have := range existing {
		if have.IPNet.IP.Equal(addr.IPNet.IP) {
			logger.WithField("address", addr.IPNet.String()).Debug("Bridge address already present")
			return nil
		}
	}

	if err := a.networkMgr.AddAddress(link, addr); err != nil {
		return err
	}
	logger.WithFields(logrus.Fields{"bridge": link.Attrs().Name, "address": addr.IPNet.String()}).Info("Assigned bridge address")
	return nil
}

func (a *Applier) configureDefaultRoute(logger *logrus.Entry, link netlink.Link) error {
	gateway := net.ParseIP(a.plan.GatewayIP())
	if gateway == nil {
		return fmt.Errorf("invalid gateway address: %s", a.plan.GatewayIP())
	}

	routes, err := a.networkMgr.ListRoutes()
	if err != nil {
		return err
	}

	for _, route := range routes {
		route := route
		if route.Dst != nil || route.Gw == nil {
			continue
		}
		if route.Gw.Equal(gateway) && route.LinkIndex == link.Attrs().Index {
			logger.Debug("Default route already configured")
			return nil
		}
		if err := a.networkMgr.DeleteRoute(&route); err != nil {
			logger.WithError(err).WithField("gateway", route.Gw.String()).Warn("Failed to remove stale default route")
		}
	}

	route := &netlink.Route{
		LinkIndex: link.Attrs().Index,
		Gw:        gateway,
	}
	if err := a.networkMgr.AddRoute(route); err != nil {
		if strings.Contains(err.Error(), "file exists") {
			logger.Debug("Default route already exists")
			return nil
		}
		return err
	}
	logger.WithField("gateway", gateway.String()).Info("Configured default route")
	return nil
}
