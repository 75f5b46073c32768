package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// Config represents the hosttrust configuration.
type Config struct {
	KnownHosts string `yaml:"known_hosts,omitempty"`
}

// Global known-hosts flag (overrides config file)
var knownHostsFlag string

func init() {
	rootCmd.PersistentFlags().StringVar(&knownHostsFlag, "known-hosts", "", "Path to known_hosts file (overrides config file)")

	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configSetKnownHostsCmd)
	configCmd.AddCommand(configGetKnownHostsCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage hosttrust configuration",
	Long: `Commands to configure hosttrust settings.

The configuration file is stored at ~/.config/hosttrust/config.yaml

Examples:
  hosttrust config set-known-hosts /etc/ssh/ssh_known_hosts
  hosttrust config get-known-hosts`,
}

// ConfigPath returns the path to the config file.
func ConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "hosttrust", "config.yaml")
}

// LoadConfig reads the configuration from disk.
// Returns an empty config if the file doesn't exist.
func LoadConfig() (*Config, error) {
	path := ConfigPath()
	if path == "" {
		return &Config{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return &cfg, nil
}

// SaveConfig writes the configuration to disk.
func SaveConfig(cfg *Config) error {
	path := ConfigPath()
	if path == "" {
		return fmt.Errorf("could not determine home directory")
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to serialize config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// GetKnownHostsPath returns the known_hosts path, checking the --known-hosts
// flag first, then the config file, then ~/.ssh/known_hosts.
func GetKnownHostsPath() string {
	if knownHostsFlag != "" {
		return knownHostsFlag
	}

	cfg, err := LoadConfig()
	if err == nil && cfg.KnownHosts != "" {
		return cfg.KnownHosts
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".ssh", "known_hosts")
	}
	return filepath.Join(home, ".ssh", "known_hosts")
}

var configSetKnownHostsCmd = &cobra.Command{
	Use:   "set-known-hosts <path>",
	Short: "Set the default known_hosts file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := LoadConfig()
		if err != nil {
			return err
		}
		cfg.KnownHosts = args[0]
		if err := SaveConfig(cfg); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "known_hosts path set to %s\n", args[0])
		return nil
	},
}

var configGetKnownHostsCmd = &cobra.Command{
	Use:   "get-known-hosts",
	Short: "Show the known_hosts file in use",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Fprintln(cmd.OutOrStdout(), GetKnownHostsPath())
		return nil
	},
}
