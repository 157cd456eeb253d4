package cmd

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

// statsCmd represents the stats command
var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print per-source lead, audit, and outreach counts",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB(cmd)
		if err != nil {
			return err
		}
		defer db.Close()

		stats, err := db.GetStats(context.Background())
		if err != nil {
			return err
		}
		if len(stats) == 0 {
			fmt.Println("Database is empty. Run 'leadscope scrape' or 'leadscope import' first.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
		fmt.Fprintln(w, "SOURCE\tLEADS\tAUDITED\tOUTREACH")

		var leads, audited, outreach int
		for _, s := range stats {
			fmt.Fprintf(w, "%s\t%d\t%d\t%d\n", s.Source, s.LeadCount, s.AuditCount, s.OutreachCount)
			leads += s.LeadCount
			audited += s.AuditCount
			outreach += s.OutreachCount
		}
		fmt.Fprintf(w, "TOTAL\t%d\t%d\t%d\n", leads, audited, outreach)
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
}
