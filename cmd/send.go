package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// sendCmd represents the send command
var sendCmd = &cobra.Command{
	Use:   "send",
	Short: "Send pending outreach emails over SMTP",
	Long: `Send pending outreach emails over SMTP, most qualified leads first.
Respects limits.max_daily_emails and waits limits.email_delay_minutes between
sends.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		outreachID, _ := cmd.Flags().GetInt64("id")
		testOnly, _ := cmd.Flags().GetBool("test")

		db, err := openDB(cmd)
		if err != nil {
			return err
		}
		defer db.Close()

		mailer, err := newMailer(db)
		if err != nil {
			return err
		}

		if testOnly {
			if err := mailer.TestConnection(); err != nil {
				return fmt.Errorf("SMTP connection test failed: %w", err)
			}
			fmt.Println("SMTP connection test passed")
			return nil
		}

		ctx := context.Background()

		if outreachID > 0 {
			if err := mailer.SendOne(ctx, outreachID); err != nil {
				return err
			}
			fmt.Printf("Outreach #%d sent\n", outreachID)
			return nil
		}

		res, err := mailer.SendBatch(ctx, limit)
		if err != nil {
			return err
		}
		fmt.Printf("Sent %d emails (%d failed, %d skipped, %d/%d today)\n",
			res.Sent, res.Failed, res.Skipped, res.TotalToday, mailer.MaxDaily)
		return nil
	},
}

func init() {
	sendCmd.Flags().Int("limit", 5, "Maximum emails to send this batch")
	sendCmd.Flags().Int64("id", 0, "Send a single outreach record by ID")
	sendCmd.Flags().Bool("test", false, "Test the SMTP connection without sending")
	rootCmd.AddCommand(sendCmd)
}
