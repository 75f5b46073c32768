// Package cmd implements the hosttrust CLI commands.
package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/nmelo/hosttrust/internal/version"
	"github.com/nmelo/hosttrust/pkg/store"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	// Global flags
	outputFormat string
	dbPath       string

	// Shared store instance
	checkStore *store.Store
)

var rootCmd = &cobra.Command{
	Use:   "hosttrust",
	Short: "Hosttrust - SSH known_hosts inspection",
	Long: `hosttrust looks up hosts in OpenSSH known_hosts files and reports
how they are trusted: pinned host keys, certificate authority keys,
and revoked keys.

It never modifies known_hosts files.`,
	Version:       version.Version,
	SilenceUsage:  true,
	SilenceErrors: false,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip store initialization for commands that don't need it
		switch cmd.Name() {
		case "completion", "help", "version", "config", "set-known-hosts", "get-known-hosts":
			return nil
		}

		path := dbPath
		if path == "" {
			path = store.DefaultPath()
		}

		var err error
		checkStore, err = store.Open(path)
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if checkStore != nil {
			checkStore.Close()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "table", "Output format: table, json, yaml")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "History database path (default: ~/.local/share/hosttrust/checks.db)")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// formatOutput handles output formatting based on the --output flag.
func formatOutput(data interface{}) error {
	switch outputFormat {
	case "json":
		return outputJSON(data)
	case "yaml":
		return outputYAML(data)
	default:
		// Table format is handled by each command
		return nil
	}
}

func outputJSON(data interface{}) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

func outputYAML(data interface{}) error {
	out, err := yaml.Marshal(data)
	if err != nil {
		return err
	}
	fmt.Print(string(out))
	return nil
}
