package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// generateCmd represents the generate command
var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate personalized outreach emails for scored leads",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		leadID, _ := cmd.Flags().GetInt64("lead")

		db, err := openDB(cmd)
		if err != nil {
			return err
		}
		defer db.Close()

		p := newPipeline(db, 0)
		ctx := context.Background()

		var leadIDs []int64
		if leadID > 0 {
			leadIDs = []int64{leadID}
		}

		results, err := p.RunGeneration(ctx, limit, leadIDs)
		if err != nil {
			return err
		}

		for _, r := range results {
			switch {
			case r.Err != nil:
				fmt.Printf("failed  #%-4d %s: %v\n", r.LeadID, r.BusinessName, r.Err)
			case r.Skipped:
				fmt.Printf("skipped #%-4d %s (scored %d/100, too good)\n",
					r.LeadID, r.BusinessName, r.Scoring.CompositeScore)
			default:
				fmt.Printf("ok      #%-4d %s [%s] %q\n",
					r.LeadID, r.BusinessName, r.Scoring.Priority, r.SubjectLine)
			}
		}
		return nil
	},
}

func init() {
	generateCmd.Flags().Int("limit", 10, "Maximum emails to generate")
	generateCmd.Flags().Int64("lead", 0, "Generate for a single lead ID")
	rootCmd.AddCommand(generateCmd)
}
