//go:build unit

package netconf

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"orangebox-setup/internal/mock"
	"orangebox-setup/internal/provision"
	"orangebox-setup/internal/topology"
	"orangebox-setup/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vishvananda/netlink"
	"go.uber.org/mock/gomock"
)

type harness struct {
	networkMgr *mock.MockNetworkManager
	fileMgr    *mock.MockFileManager
	runner     *mock.MockCommandRunner
	pinger     *mock.MockPinger
	resolver   *mock.MockResolver
	applier    *Applier
	links      map[string]netlink.Link
}

func newHarness(ctrl *gomock.Controller) *harness {
	h := &harness{
		networkMgr: mock.NewMockNetworkManager(ctrl),
		fileMgr:    mock.NewMockFileManager(ctrl),
		runner:     mock.NewMockCommandRunner(ctrl),
		pinger:     mock.NewMockPinger(ctrl),
		resolver:   mock.NewMockResolver(ctrl),
		links: map[string]netlink.Link{
			"enp1s0": &netlink.Dummy{LinkAttrs: netlink.LinkAttrs{Index: 1, Name: "enp1s0"}},
			"enp2s0": &netlink.Dummy{LinkAttrs: netlink.LinkAttrs{Index: 2, Name: "enp2s0"}},
			"enp3s0": &netlink.Dummy{LinkAttrs: netlink.LinkAttrs{Index: 3, Name: "enp3s0"}},
		},
	}

	// Links resolve from the harness map; bridges appear once AddLink
	// creates them, mirroring how the kernel behaves.
	h.networkMgr.EXPECT().GetLinkByName(gomock.Any()).DoAndReturn(func(name string) (netlink.Link, error) {
		if link, ok := h.links[name]; ok {
			return link, nil
		}
		return nil, fmt.Errorf("link %s not found", name)
	}).AnyTimes()

	plan := topology.Plan(28)
	roles := types.RoleMapping{Internal0: "enp1s0", Internal1: "enp3s0", Internal2: "enp2s0"}
	h.applier = NewApplier(
		plan, roles,
		"/etc/network/interfaces", "8.8.8.8", "launchpad.net", 3,
		h.networkMgr, h.fileMgr, h.runner, h.pinger, h.resolver,
	)
	return h
}

// expectHostOps wires permissive expectations for everything up to the
// verification probes. Address assignments are captured for inspection.
func (h *harness) expectHostOps(setLinkUpErr error) *[]string {
	var assigned []string

	h.runner.EXPECT().Run(gomock.Any(), "systemctl", gomock.Any(), "NetworkManager").Return(nil).AnyTimes()
	h.fileMgr.EXPECT().WriteFile("/etc/network/interfaces", gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	h.networkMgr.EXPECT().ListAddresses(gomock.Any()).Return([]netlink.Addr{}, nil).AnyTimes()
	h.networkMgr.EXPECT().AddAddress(gomock.Any(), gomock.Any()).DoAndReturn(func(link netlink.Link, addr *netlink.Addr) error {
		assigned = append(assigned, link.Attrs().Name+" "+addr.IPNet.String())
		return nil
	}).AnyTimes()
	h.networkMgr.EXPECT().DeleteAddress(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	h.networkMgr.EXPECT().AddLink(gomock.Any()).DoAndReturn(func(link netlink.Link) error {
		name := link.Attrs().Name
		h.links[name] = &netlink.Bridge{LinkAttrs: netlink.LinkAttrs{Index: 10 + len(h.links), Name: name}}
		return nil
	}).AnyTimes()
	h.networkMgr.EXPECT().SetMaster(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	h.networkMgr.EXPECT().SetLinkDown(gomock.Any()).Return(nil).AnyTimes()
	h.networkMgr.EXPECT().SetLinkUp(gomock.Any()).Return(setLinkUpErr).AnyTimes()
	h.networkMgr.EXPECT().ListRoutes().Return([]netlink.Route{}, nil).AnyTimes()
	h.networkMgr.EXPECT().AddRoute(gomock.Any()).Return(nil).AnyTimes()

	return &assigned
}

func TestApplier_Run(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		h := newHarness(ctrl)
		assigned := h.expectHostOps(nil)
		h.pinger.EXPECT().Ping(gomock.Any(), "8.8.8.8").Return(nil)
		h.resolver.EXPECT().Resolve(gomock.Any(), "launchpad.net").Return(nil, nil)

		err := h.applier.Run(ctx)
		require.NoError(t, err)
		assert.Equal(t, StateVerified, h.applier.State())

		// Interim assignment on the br0 port, then both bridge addresses.
		assert.Contains(t, *assigned, "enp3s0 172.27.28.1/23")
		assert.Contains(t, *assigned, "br0 172.27.28.1/23")
		assert.Contains(t, *assigned, "br1 172.27.30.1/23")
	})

	t.Run("MissingInternalInterfaceIsFatal", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		h := newHarness(ctrl)
		delete(h.links, "enp3s0")
		h.runner.EXPECT().Run(gomock.Any(), "systemctl", gomock.Any(), "NetworkManager").Return(nil).AnyTimes()

		err := h.applier.Run(ctx)
		require.Error(t, err)
		assert.Equal(t, StateFailed, h.applier.State())
	})

	t.Run("BringUpFailureIsFatal", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		h := newHarness(ctrl)
		h.expectHostOps(errors.New("device busy"))

		err := h.applier.Run(ctx)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to bring up")
		assert.Equal(t, StateFailed, h.applier.State())
	})

	t.Run("ThreeFailedPingsIsNetworkUnreachable", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		h := newHarness(ctrl)
		h.expectHostOps(nil)
		h.pinger.EXPECT().Ping(gomock.Any(), "8.8.8.8").Return(errors.New("timeout")).Times(3)

		err := h.applier.Run(ctx)
		require.Error(t, err)

		var netErr *provision.NetworkUnreachableError
		require.True(t, errors.As(err, &netErr))
		assert.Equal(t, provision.ExitNetwork, provision.ExitCode(err))
		assert.Equal(t, StateFailed, h.applier.State())
	})

	t.Run("PingRecoversOnSecondAttempt", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		h := newHarness(ctrl)
		h.expectHostOps(nil)
		gomock.InOrder(
			h.pinger.EXPECT().Ping(gomock.Any(), "8.8.8.8").Return(errors.New("timeout")),
			h.pinger.EXPECT().Ping(gomock.Any(), "8.8.8.8").Return(nil),
		)
		h.resolver.EXPECT().Resolve(gomock.Any(), "launchpad.net").Return(nil, nil)

		err := h.applier.Run(ctx)
		require.NoError(t, err)
		assert.Equal(t, StateVerified, h.applier.State())
	})

	t.Run("ThreeFailedResolvesIsDNSUnreachable", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		h := newHarness(ctrl)
		h.expectHostOps(nil)
		h.pinger.EXPECT().Ping(gomock.Any(), "8.8.8.8").Return(nil)
		h.resolver.EXPECT().Resolve(gomock.Any(), "launchpad.net").Return(nil, errors.New("servfail")).Times(3)

		err := h.applier.Run(ctx)
		require.Error(t, err)

		var dnsErr *provision.DNSUnreachableError
		require.True(t, errors.As(err, &dnsErr))
		assert.Equal(t, provision.ExitDNS, provision.ExitCode(err))
		assert.Equal(t, StateFailed, h.applier.State())
	})
}
