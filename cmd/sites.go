package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/sells-group/launch-dashboard/internal/dashboard"
)

var sitesCmd = &cobra.Command{
	Use:   "sites",
	Short: "List launch sites with launch and success counts",
	RunE: func(cmd *cobra.Command, _ []string) error {
		table, err := loadTable(cmd.Context(), cfg, "sites")
		if err != nil {
			return err
		}

		summary := dashboard.Summarize(table, siteLabels(cfg), slider(cfg))

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "SITE\tLABEL\tLAUNCHES\tSUCCESSES")
		for _, s := range summary.Sites {
			fmt.Fprintf(w, "%s\t%s\t%d\t%d\n", s.Value, s.Label, s.Launches, s.Successes)
		}
		fmt.Fprintf(w, "TOTAL\t\t%d\t%d\n", summary.Records, summary.Successes)
		fmt.Fprintf(w, "\npayload mass: %.0f-%.0f kg\n", summary.PayloadMinKG, summary.PayloadMaxKG)
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(sitesCmd)
}
