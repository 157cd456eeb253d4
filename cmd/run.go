package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the full pipeline: audit, score, generate, export",
	RunE: func(cmd *cobra.Command, args []string) error {
		setupProxy(cmd)
		auditLimit, _ := cmd.Flags().GetInt("audit-limit")
		generateLimit, _ := cmd.Flags().GetInt("generate-limit")
		concurrency, _ := cmd.Flags().GetInt("concurrency")
		noExport, _ := cmd.Flags().GetBool("no-export")
		output, _ := cmd.Flags().GetString("output")

		db, err := openDB(cmd)
		if err != nil {
			return err
		}
		defer db.Close()

		var exportTo io.Writer
		var exportFile *os.File
		if !noExport {
			if output == "" {
				output = fmt.Sprintf("outreach_export_%s.csv", time.Now().Format("20060102_150405"))
			}
			exportFile, err = os.Create(output)
			if err != nil {
				return err
			}
			exportTo = exportFile
		}

		p := newPipeline(db, concurrency)
		summary, err := p.RunAll(context.Background(), auditLimit, generateLimit, exportTo)
		if exportFile != nil {
			exportFile.Close()
		}
		if err != nil {
			return err
		}

		fmt.Println("Pipeline complete")
		fmt.Printf("  Audited:   %d websites\n", summary.Audited)
		fmt.Printf("  Failed:    %d audits\n", summary.AuditFailed)
		fmt.Printf("  Scored:    %d leads\n", summary.Scored)
		fmt.Printf("  Generated: %d emails\n", summary.Generated)
		fmt.Printf("  Skipped:   %d (good websites)\n", summary.Skipped)
		fmt.Printf("  Exported:  %d records\n", summary.Exported)
		fmt.Printf("  Time:      %s\n", summary.Elapsed.Round(time.Second))
		if exportFile != nil {
			if summary.Exported > 0 {
				fmt.Printf("  File:      %s\n", output)
			} else {
				os.Remove(output)
			}
		}
		return nil
	},
}

func init() {
	runCmd.Flags().Int("audit-limit", 10, "Maximum leads to audit")
	runCmd.Flags().Int("generate-limit", 10, "Maximum emails to generate")
	runCmd.Flags().Int("concurrency", 3, "Concurrent audits")
	runCmd.Flags().Bool("no-export", false, "Skip the CSV export stage")
	runCmd.Flags().StringP("output", "o", "", "Export file (default outreach_export_<timestamp>.csv)")
	rootCmd.AddCommand(runCmd)
}
