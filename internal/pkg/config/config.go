package config

import (
	"fmt"
	"os"

	"orangebox-setup/internal/pkg/logging"

	"gopkg.in/yaml.v3"
)

// PathsConfig holds the host file paths the provisioner touches.
type PathsConfig struct {
	InterfacesFile string `yaml:"interfaces_file"`
	ResolvedConf   string `yaml:"resolved_conf"`
	SysctlConf     string `yaml:"sysctl_conf"`
	BoxConf        string `yaml:"box_conf"`
	DebGlob        string `yaml:"deb_glob"`
}

// ProbeConfig holds the reachability verification parameters.
type ProbeConfig struct {
	Address        string `yaml:"address"`  // ICMP probe target
	Hostname       string `yaml:"hostname"` // DNS probe name
	Attempts       int    `yaml:"attempts"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// PackagesConfig holds the package bootstrap parameters.
type PackagesConfig struct {
	Convenience []string `yaml:"convenience,omitempty"`
}

// SSHConfig holds the operator remote-access parameters.
type SSHConfig struct {
	KeyPath  string `yaml:"key_path"`
	ImportID string `yaml:"import_id,omitempty"` // launchpad id, e.g. lp:username
}

// Config represents the main configuration structure
type Config struct {
	Logging  logging.LogConfig `yaml:"logging"`
	Paths    PathsConfig       `yaml:"paths"`
	Probe    ProbeConfig       `yaml:"probe"`
	Packages PackagesConfig    `yaml:"packages"`
	SSH      SSHConfig         `yaml:"ssh"`
}

// Default returns the built-in configuration used when no config file is
// given. The probe targets match what the boxes have always verified
// against: raw IPv4 reachability first, then name resolution.
func Default() *Config {
	return &Config{
		Logging: logging.LogConfig{
			Level:  "info",
			Format: "text",
		},
		Paths: PathsConfig{
			InterfacesFile: "/etc/network/interfaces",
			ResolvedConf:   "/etc/systemd/resolved.conf",
			SysctlConf:     "/etc/sysctl.conf",
			BoxConf:        "/etc/orange-box.conf",
			DebGlob:        "./*.deb",
		},
		Probe: ProbeConfig{
			Address:        "8.8.8.8",
			Hostname:       "launchpad.net",
			Attempts:       3,
			TimeoutSeconds: 5,
		},
		Packages: PackagesConfig{
			Convenience: []string{"vim", "curl", "screen", "openssh-server"},
		},
		SSH: SSHConfig{
			KeyPath: "/home/ubuntu/.ssh/id_rsa",
		},
	}
}

// Load loads configuration from a YAML file, falling back to defaults for
// any section left unset. An empty path returns the defaults unchanged.
func Load(configPath string) (*Config, error) {
	config := Default()
	if configPath == "" {
		return config, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", configPath, err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Paths.InterfacesFile == "" {
		return fmt.Errorf("paths.interfaces_file is required")
	}
	if c.Paths.ResolvedConf == "" {
		return fmt.Errorf("paths.resolved_conf is required")
	}
	if c.Paths.SysctlConf == "" {
		return fmt.Errorf("paths.sysctl_conf is required")
	}
	if c.Paths.BoxConf == "" {
		return fmt.Errorf("paths.box_conf is required")
	}
	if c.Probe.Address == "" {
		return fmt.Errorf("probe.address is required")
	}
	if c.Probe.Hostname == "" {
		return fmt.Errorf("probe.hostname is required")
	}
	if c.Probe.Attempts < 1 {
		return fmt.Errorf("probe.attempts must be at least 1, got %d", c.Probe.Attempts)
	}
	if c.Probe.TimeoutSeconds < 1 {
		return fmt.Errorf("probe.timeout_seconds must be at least 1, got %d", c.Probe.TimeoutSeconds)
	}
	return nil
}
