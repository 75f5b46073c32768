package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/nmelo/hosttrust/pkg/store"
	"github.com/nmelo/hosttrust/pkg/timeutil"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().String("host", "", "Filter by host name")
	historyCmd.Flags().String("result", "", "Filter by outcome: trusted, unknown, revoked")
	historyCmd.Flags().Int("limit", 20, "Maximum results")
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show host check history",
	Long: `Display the history of known_hosts checks made by this machine.

Examples:
  hosttrust history
  hosttrust history --host server.example.com
  hosttrust history --result revoked
  hosttrust history --limit 50 -o json`,
	RunE: runHistory,
}

// historyEntry is the JSON/YAML shape of one history record.
type historyEntry struct {
	Timestamp   string `json:"timestamp"`
	Host        string `json:"host"`
	Addr        string `json:"addr,omitempty"`
	Port        int    `json:"port"`
	Outcome     string `json:"outcome"`
	HostKeys    int    `json:"host_keys"`
	CAKeys      int    `json:"ca_keys"`
	RevokedKeys int    `json:"revoked_keys"`
	Fingerprint string `json:"fingerprint,omitempty"`
}

func runHistory(cmd *cobra.Command, args []string) error {
	hostFilter, _ := cmd.Flags().GetString("host")
	resultFilter, _ := cmd.Flags().GetString("result")
	limit, _ := cmd.Flags().GetInt("limit")

	switch resultFilter {
	case "", string(store.OutcomeTrusted), string(store.OutcomeUnknown), string(store.OutcomeRevoked):
	default:
		return fmt.Errorf("invalid --result value: %s (want trusted, unknown, or revoked)", resultFilter)
	}

	records, err := checkStore.ListChecks(store.CheckFilter{
		Host:    hostFilter,
		Outcome: store.Outcome(resultFilter),
		Limit:   limit,
	})
	if err != nil {
		return fmt.Errorf("failed to list history: %w", err)
	}

	if outputFormat == "json" || outputFormat == "yaml" {
		entries := make([]historyEntry, 0, len(records))
		for _, r := range records {
			entries = append(entries, historyEntry{
				Timestamp:   r.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
				Host:        r.Host,
				Addr:        r.Addr,
				Port:        r.Port,
				Outcome:     string(r.Outcome),
				HostKeys:    r.HostKeys,
				CAKeys:      r.CAKeys,
				RevokedKeys: r.RevokedKeys,
				Fingerprint: r.Fingerprint,
			})
		}
		return formatOutput(entries)
	}

	if len(records) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No checks recorded.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "TIME\tHOST\tPORT\tRESULT\tKEYS\tFINGERPRINT")
	for _, r := range records {
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%d/%d/%d\t%s\n",
			timeutil.RelativeTime(r.CreatedAt),
			r.Host, r.Port, r.Outcome,
			r.HostKeys, r.CAKeys, r.RevokedKeys,
			r.Fingerprint)
	}
	return w.Flush()
}
