// Package netconf renders and applies the box's network interface
// configuration: two bridges over the internal NICs, derived from the
// topology plan.
package netconf

import (
	"bytes"
	"fmt"
	"text/template"

	"orangebox-setup/internal/types"
)

// interfacesTemplate is the /etc/network/interfaces layout: loopback,
// the three raw NICs as manual, br0 over internal1 with gateway and DNS,
// br1 over internal2 without a gateway. The file is regenerated from
// scratch on every run; it is never diffed or merged.
var interfacesTemplate = template.Must(template.New("interfaces").Parse(`# These are generated by orange-box build scripts
auto lo
iface lo inet loopback

auto {{.Roles.Internal0}}
iface {{.Roles.Internal0}} inet manual

auto {{.Roles.Internal1}}
iface {{.Roles.Internal1}} inet manual

auto {{.Roles.Internal2}}
iface {{.Roles.Internal2}} inet manual

auto br0
iface br0 inet static
  address {{.Plan.Internal1IP}}
  netmask {{.Netmask}}
  gateway {{.Plan.Gateway1IP}}
  dns-nameservers {{.Plan.Internal1IP}} {{.Plan.Gateway1IP}}
  bridge_ports {{.Roles.Internal1}}
  bridge_stp off
  bridge_fd 0
  bridge_maxwait 0

auto br1
iface br1 inet static
  address {{.Plan.Internal2IP}}
  netmask {{.Netmask}}
  bridge_ports {{.Roles.Internal2}}
  bridge_stp off
  bridge_fd 0
  bridge_maxwait 0
`))

type templateData struct {
	Plan    types.TopologyPlan
	Roles   types.RoleMapping
	Netmask string
}

// Render produces the interface-definition file contents for a plan and
// role mapping. Pure: identical inputs yield byte-identical output.
func Render(plan types.TopologyPlan, roles types.RoleMapping) ([]byte, error) {
	var buf bytes.Buffer
	data := templateData{Plan: plan, Roles: roles, Netmask: types.BridgeNetmask}
	if err := interfacesTemplate.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to render interfaces file: %w", err)
	}
	return buf.Bytes(), nil
}
