package cmd

import (
	"fmt"
	"net"
	"text/tabwriter"

	"github.com/nmelo/hosttrust/pkg/knownhosts"
	"github.com/nmelo/hosttrust/pkg/store"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/ssh"
)

var (
	checkIP   string
	checkPort int
)

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().StringVar(&checkIP, "ip", "", "Resolved IP address of the host (enables CIDR entries)")
	checkCmd.Flags().IntVar(&checkPort, "port", knownhosts.DefaultPort, "SSH port")
}

var checkCmd = &cobra.Command{
	Use:   "check <host>",
	Short: "Look up a host in known_hosts",
	Long: `Look up a host in the known_hosts file and report how it is trusted.

Matching entries are classified by their marker: plain entries pin host
keys, @cert-authority entries list CA keys, and @revoked entries list
keys that must be rejected.

The exit status is non-zero when the host is unknown or a matching entry
is revoked.

Examples:
  hosttrust check server.example.com
  hosttrust check server.example.com --ip 192.0.2.5
  hosttrust check git.example.com --port 2222
  hosttrust check server.example.com --known-hosts /etc/ssh/ssh_known_hosts -o json`,
	Args: cobra.ExactArgs(1),
	RunE: runCheck,
}

// checkResult is the JSON/YAML shape of a check.
type checkResult struct {
	Host        string   `json:"host"`
	Addr        string   `json:"addr,omitempty"`
	Port        int      `json:"port"`
	Outcome     string   `json:"outcome"`
	HostKeys    []string `json:"host_keys,omitempty"`
	CAKeys      []string `json:"ca_keys,omitempty"`
	RevokedKeys []string `json:"revoked_keys,omitempty"`
}

func runCheck(cmd *cobra.Command, args []string) error {
	host := args[0]

	var ip net.IP
	if checkIP != "" {
		ip = net.ParseIP(checkIP)
		if ip == nil {
			return fmt.Errorf("invalid IP address: %s", checkIP)
		}
	}

	path := GetKnownHostsPath()
	keys, err := knownhosts.MatchFile(path, host, ip, checkPort)
	if err != nil {
		return fmt.Errorf("failed to match %s against %s: %w", host, path, err)
	}

	outcome := classify(keys)
	if err := recordCheck(host, ip, checkPort, outcome, keys); err != nil {
		return err
	}

	result := checkResult{
		Host:        host,
		Addr:        checkIP,
		Port:        checkPort,
		Outcome:     string(outcome),
		HostKeys:    fingerprints(keys.Host),
		CAKeys:      fingerprints(keys.CA),
		RevokedKeys: fingerprints(keys.Revoked),
	}

	if outputFormat == "json" || outputFormat == "yaml" {
		if err := formatOutput(result); err != nil {
			return err
		}
	} else {
		printCheckTable(cmd, result)
	}

	switch outcome {
	case store.OutcomeRevoked:
		return fmt.Errorf("host %s matches a revoked key", host)
	case store.OutcomeUnknown:
		return fmt.Errorf("host %s is not in known_hosts", host)
	}
	return nil
}

// classify picks the single outcome for a lookup result. Revocation wins
// over any other trust.
func classify(keys knownhosts.Keys) store.Outcome {
	switch {
	case len(keys.Revoked) > 0:
		return store.OutcomeRevoked
	case len(keys.Host) > 0 || len(keys.CA) > 0:
		return store.OutcomeTrusted
	default:
		return store.OutcomeUnknown
	}
}

func recordCheck(host string, ip net.IP, port int, outcome store.Outcome, keys knownhosts.Keys) error {
	if checkStore == nil {
		return nil
	}

	addr := ""
	if ip != nil {
		addr = ip.String()
	}
	fingerprint := ""
	if all := fingerprints(keys.Host); len(all) > 0 {
		fingerprint = all[0]
	}

	record := &store.CheckRecord{
		Host:        host,
		Addr:        addr,
		Port:        port,
		Outcome:     outcome,
		HostKeys:    len(keys.Host),
		CAKeys:      len(keys.CA),
		RevokedKeys: len(keys.Revoked),
		Fingerprint: fingerprint,
	}
	if err := checkStore.SaveCheck(record); err != nil {
		return fmt.Errorf("failed to record check: %w", err)
	}
	return nil
}

func fingerprints(keys []ssh.PublicKey) []string {
	var out []string
	for _, k := range keys {
		out = append(out, fmt.Sprintf("%s %s", k.Type(), ssh.FingerprintSHA256(k)))
	}
	return out
}

func printCheckTable(cmd *cobra.Command, result checkResult) {
	fmt.Fprintf(cmd.OutOrStdout(), "%s (port %d): %s\n", result.Host, result.Port, result.Outcome)

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	for _, fp := range result.HostKeys {
		fmt.Fprintf(w, "  host key\t%s\n", fp)
	}
	for _, fp := range result.CAKeys {
		fmt.Fprintf(w, "  CA key\t%s\n", fp)
	}
	for _, fp := range result.RevokedKeys {
		fmt.Fprintf(w, "  revoked\t%s\n", fp)
	}
	w.Flush()
}
