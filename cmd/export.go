package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/leadscope/leadscope/pkg/export"
)

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export pending outreach (or all leads) to CSV",
	RunE: func(cmd *cobra.Command, args []string) error {
		output, _ := cmd.Flags().GetString("output")
		leadsOnly, _ := cmd.Flags().GetBool("leads")

		db, err := openDB(cmd)
		if err != nil {
			return err
		}
		defer db.Close()

		ctx := context.Background()

		if output == "" {
			prefix := "outreach"
			if leadsOnly {
				prefix = "leads"
			}
			output = fmt.Sprintf("%s_export_%s.csv", prefix, time.Now().Format("20060102_150405"))
		}

		f, err := os.Create(output)
		if err != nil {
			return err
		}
		defer f.Close()

		if leadsOnly {
			leads, err := db.ListLeads(ctx, 0)
			if err != nil {
				return err
			}
			if err := export.WriteLeadsCSV(f, leads); err != nil {
				return err
			}
			fmt.Printf("Exported %d leads to %s\n", len(leads), output)
			return nil
		}

		p := newPipeline(db, 0)
		n, err := p.Export(ctx, f)
		if err != nil {
			return err
		}
		if n == 0 {
			fmt.Println("No outreach records to export.")
			os.Remove(output)
			return nil
		}
		fmt.Printf("Exported %d outreach records to %s\n", n, output)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringP("output", "o", "", "Output file (default outreach_export_<timestamp>.csv)")
	exportCmd.Flags().Bool("leads", false, "Export the lead list instead of outreach records")
	rootCmd.AddCommand(exportCmd)
}
