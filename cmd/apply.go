package cmd

import (
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"orangebox-setup/internal/adapter/infrastructure/dhcp"
	"orangebox-setup/internal/adapter/infrastructure/file"
	"orangebox-setup/internal/adapter/infrastructure/network"
	"orangebox-setup/internal/adapter/infrastructure/probe"
	"orangebox-setup/internal/adapter/infrastructure/system"
	"orangebox-setup/internal/adapter/netconf"
	"orangebox-setup/internal/adapter/packages"
	"orangebox-setup/internal/adapter/preflight"
	"orangebox-setup/internal/adapter/sshkeys"
	"orangebox-setup/internal/adapter/syscfg"
	"orangebox-setup/internal/pkg/config"
	"orangebox-setup/internal/pkg/logging"
	"orangebox-setup/internal/port"
	"orangebox-setup/internal/provision"
	"orangebox-setup/internal/topology"
	"orangebox-setup/internal/types"

	"github.com/spf13/cobra"
)

var (
	configFlag       string
	numberFlag       int
	sshKeyFlag       string
	skipPackagesFlag bool
	dryRunFlag       bool
)

// resolveBoxNumber finds the box number: explicit flag first, then the
// identity file written by a previous run, then the hostname suffix.
func resolveBoxNumber(cfg *config.Config, fileMgr port.FileManager) (int, error) {
	if numberFlag != 0 {
		return numberFlag, nil
	}

	if fileMgr.FileExists(cfg.Paths.BoxConf) {
		data, err := fileMgr.ReadFile(cfg.Paths.BoxConf)
		if err != nil {
			return 0, err
		}
		return topology.ParseBoxConf(data)
	}

	hostname, err := os.Hostname()
	if err != nil {
		return 0, fmt.Errorf("failed to read hostname: %w", err)
	}
	logging.WithComponent("topology").WithField("hostname", hostname).Info("No box number given, deriving it from hostname")
	return topology.NumberFromHostname(hostname)
}

// discoverInterfaces scans the live interfaces and keeps the ethernet
// adapters. Discovery is the only host query the planner depends on; the
// planner itself stays pure.
func discoverInterfaces() ([]string, error) {
	ifaces, err := net.Interfaces()
	if err != nil {
		return nil, fmt.Errorf("failed to list interfaces: %w", err)
	}
	names := make([]string, 0, len(ifaces))
	for _, iface := range ifaces {
		names = append(names, iface.Name)
	}
	return topology.FilterInterfaceNames(names), nil
}

// planTopology resolves, validates and plans in one go. Shared by apply
// and plan.
func planTopology(cfg *config.Config, fileMgr port.FileManager) (types.TopologyPlan, types.RoleMapping, error) {
	number, err := resolveBoxNumber(cfg, fileMgr)
	if err != nil {
		return types.TopologyPlan{}, types.RoleMapping{}, err
	}
	if err := topology.ValidateBoxNumber(number); err != nil {
		return types.TopologyPlan{}, types.RoleMapping{}, err
	}

	names, err := discoverInterfaces()
	if err != nil {
		return types.TopologyPlan{}, types.RoleMapping{}, err
	}
	roles, err := topology.MapRoles(names)
	if err != nil {
		return types.TopologyPlan{}, types.RoleMapping{}, err
	}

	return topology.Plan(number), roles, nil
}

var applyCmd = &cobra.Command{
	Use:   "apply",
	Short: "Provision this box: packages, DNS, sysctl, bridges, verification",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configFlag)
		if err != nil {
			return err
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		logging.InitLogger(cfg.Logging)
		logger := logging.GetLogger()

		fileMgr := file.NewManagerAdapter()

		plan, roles, err := planTopology(cfg, fileMgr)
		if err != nil {
			return err
		}
		logger.WithField("number", plan.BoxNumber).Info("Provisioning box")

		if dryRunFlag {
			return printPlan(plan, roles)
		}

		if err := provision.CheckPrivilege(); err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		networkMgr := network.NewManagerAdapter()
		runner := system.NewRunnerAdapter()
		probeTimeout := time.Duration(cfg.Probe.TimeoutSeconds) * time.Second
		pinger := probe.NewPingerAdapter(probeTimeout)
		resolver := probe.NewResolverAdapter("", probeTimeout)
		detector := dhcp.NewDetectorAdapter(probeTimeout)

		applier := netconf.NewApplier(
			plan, roles,
			cfg.Paths.InterfacesFile, cfg.Probe.Address, cfg.Probe.Hostname, cfg.Probe.Attempts,
			networkMgr, fileMgr, runner, pinger, resolver,
		)

		steps := []port.Step{}
		if !skipPackagesFlag {
			steps = append(steps, packages.NewBootstrapStep(cfg.Paths.DebGlob, fileMgr, runner))
		}
		steps = append(steps,
			syscfg.NewResolverStep(plan, cfg.Paths.ResolvedConf, fileMgr, runner),
			syscfg.NewBoxConfStep(plan.BoxNumber, cfg.Paths.BoxConf, fileMgr),
			applier,
			syscfg.NewSysctlStep(cfg.Paths.SysctlConf, fileMgr, runner),
			preflight.NewDHCPStep("br0", detector),
		)
		if !skipPackagesFlag {
			steps = append(steps, packages.NewAptStep(cfg.Packages.Convenience, runner))
		}
		sshImport := cfg.SSH.ImportID
		if sshKeyFlag != "" {
			sshImport = sshKeyFlag
		}
		steps = append(steps, sshkeys.NewStep(cfg.SSH.KeyPath, sshImport, fileMgr, runner))

		return provision.New(steps...).Run(ctx)
	},
}

func init() {
	applyCmd.Flags().StringVarP(&configFlag, "config", "f", "", "Path to config file (YAML)")
	applyCmd.Flags().IntVarP(&numberFlag, "number", "n", 0, "Box number (e.g. 4 or 56); derived from hostname if unset")
	applyCmd.Flags().StringVar(&sshKeyFlag, "ssh-key", "", "Public SSH key to import for remote access, e.g. lp:username")
	applyCmd.Flags().BoolVar(&skipPackagesFlag, "skip-packages", false, "Skip dpkg/apt package steps")
	applyCmd.Flags().BoolVar(&dryRunFlag, "dry-run", false, "Print the plan and rendered configuration without touching the host")
	rootCmd.AddCommand(applyCmd)
}
