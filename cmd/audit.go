package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/leadscope/leadscope/pkg/leadscore"
)

// auditCmd represents the audit command
var auditCmd = &cobra.Command{
	Use:   "audit [url]",
	Short: "Audit websites for stored leads, or a single URL directly",
	Long: `Without arguments, audits every stored lead that has never been
audited. With a URL argument, runs a one-off audit and prints the scoring
report without touching the database.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		setupProxy(cmd)
		if len(args) == 1 {
			return auditOne(args[0])
		}

		limit, _ := cmd.Flags().GetInt("limit")
		concurrency, _ := cmd.Flags().GetInt("concurrency")

		db, err := openDB(cmd)
		if err != nil {
			return err
		}
		defer db.Close()

		p := newPipeline(db, concurrency)
		results, err := p.RunAudits(context.Background(), limit)
		if err != nil {
			return err
		}

		stats := p.Stats()
		fmt.Printf("Audited %d websites (%d failed)\n", stats.Audited, stats.AuditFailed)
		for _, r := range results {
			if r.Err != nil {
				continue
			}
			fmt.Printf("  %-30s composite %d/100 [%s]\n",
				r.BusinessName, r.Scoring.CompositeScore, r.Scoring.Priority)
		}
		return nil
	},
}

func auditOne(target string) error {
	snap := newAnalyzer().FullAudit(context.Background(), target)
	result := leadscore.Score(snap)
	fmt.Println(leadscore.FormatReport(result))
	return nil
}

func init() {
	auditCmd.Flags().Int("limit", 10, "Maximum leads to audit")
	auditCmd.Flags().Int("concurrency", 3, "Concurrent audits")
	rootCmd.AddCommand(auditCmd)
}
