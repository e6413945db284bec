//go:build unit

package netconf

import (
	"testing"

	"orangebox-setup/internal/topology"
	"orangebox-setup/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const wantBox28 = `# These are generated by orange-box build scripts
auto lo
iface lo inet loopback

auto enp1s0
iface enp1s0 inet manual

auto enp3s0
iface enp3s0 inet manual

auto enp2s0
iface enp2s0 inet manual

auto br0
iface br0 inet static
  address 172.27.28.1
  netmask 255.255.254.0
  gateway 172.27.29.254
  dns-nameservers 172.27.28.1 172.27.29.254
  bridge_ports enp3s0
  bridge_stp off
  bridge_fd 0
  bridge_maxwait 0

auto br1
iface br1 inet static
  address 172.27.30.1
  netmask 255.255.254.0
  bridge_ports enp2s0
  bridge_stp off
  bridge_fd 0
  bridge_maxwait 0
`

func TestRender(t *testing.T) {
	plan := topology.Plan(28)
	roles := types.RoleMapping{Internal0: "enp1s0", Internal1: "enp3s0", Internal2: "enp2s0"}

	t.Run("Box28", func(t *testing.T) {
		content, err := Render(plan, roles)
		require.NoError(t, err)
		assert.Equal(t, wantBox28, string(content))
	})

	t.Run("ByteIdenticalAcrossRuns", func(t *testing.T) {
		first, err := Render(plan, roles)
		require.NoError(t, err)
		second, err := Render(plan, roles)
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})
}
