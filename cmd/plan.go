package cmd

import (
	"fmt"

	"orangebox-setup/internal/adapter/infrastructure/file"
	"orangebox-setup/internal/adapter/netconf"
	"orangebox-setup/internal/pkg/config"
	"orangebox-setup/internal/pkg/logging"
	"orangebox-setup/internal/types"

	"github.com/spf13/cobra"
)

func printPlan(plan types.TopologyPlan, roles types.RoleMapping) error {
	fmt.Printf("Box number:   %d\n", plan.BoxNumber)
	fmt.Printf("internal0:    %s (uplink, unconfigured)\n", roles.Internal0)
	fmt.Printf("internal1:    %s -> br0 %s/23, gateway %s\n", roles.Internal1, plan.Internal1IP, plan.Gateway1IP)
	fmt.Printf("internal2:    %s -> br1 %s/23\n", roles.Internal2, plan.Internal2IP)
	fmt.Printf("upstream DNS: %s\n", plan.Gateway2IP)

	content, err := netconf.Render(plan, roles)
	if err != nil {
		return err
	}
	fmt.Printf("\n%s", content)
	return nil
}

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Print the derived topology and rendered configuration without applying",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configFlag)
		if err != nil {
			return err
		}
		if err := cfg.Validate(); err != nil {
			return err
		}
		logging.InitLogger(cfg.Logging)

		plan, roles, err := planTopology(cfg, file.NewManagerAdapter())
		if err != nil {
			return err
		}
		return printPlan(plan, roles)
	},
}

func init() {
	planCmd.Flags().StringVarP(&configFlag, "config", "f", "", "Path to config file (YAML)")
	planCmd.Flags().IntVarP(&numberFlag, "number", "n", 0, "Box number (e.g. 4 or 56); derived from hostname if unset")
	rootCmd.AddCommand(planCmd)
}
