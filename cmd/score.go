package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/leadscope/leadscope/pkg/leadscore"
	"github.com/leadscope/leadscope/pkg/pipeline"
)

// scoreCmd represents the score command
var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score audited leads and rank them by outreach priority",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		leadID, _ := cmd.Flags().GetInt64("lead")
		report, _ := cmd.Flags().GetBool("report")

		db, err := openDB(cmd)
		if err != nil {
			return err
		}
		defer db.Close()

		ctx := context.Background()

		if leadID > 0 {
			rec, err := db.LatestAuditByLead(ctx, leadID)
			if err != nil {
				return err
			}
			if rec == nil {
				return fmt.Errorf("lead %d has no audit yet", leadID)
			}
			result := leadscore.Score(pipeline.SnapshotFromRecord(rec))
			fmt.Println(leadscore.FormatReport(result))
			return nil
		}

		p := newPipeline(db, 0)
		rows, err := p.RunScoring(ctx, limit)
		if err != nil {
			return err
		}
		if len(rows) == 0 {
			fmt.Println("No leads ready for scoring.")
			return nil
		}

		for _, row := range rows {
			if report {
				fmt.Printf("\n%s (lead #%d)\n", row.Lead.BusinessName, row.Lead.ID)
				fmt.Println(leadscore.FormatReport(row.Scoring))
				continue
			}
			fmt.Printf("[%-4s] #%-4d %-30s composite %3d  qualification %3d  %s\n",
				row.Scoring.Priority, row.Lead.ID, row.Lead.BusinessName,
				row.Scoring.CompositeScore, row.Scoring.QualificationScore,
				row.Scoring.RecommendedService)
		}
		return nil
	},
}

func init() {
	scoreCmd.Flags().Int("limit", 20, "Maximum leads to score")
	scoreCmd.Flags().Int64("lead", 0, "Print the full scoring report for one lead ID")
	scoreCmd.Flags().Bool("report", false, "Print full scoring reports instead of the summary table")
	rootCmd.AddCommand(scoreCmd)
}
