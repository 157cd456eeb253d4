package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/leadscope/leadscope/pkg/sources/csvfile"
)

// importCmd represents the import command
var importCmd = &cobra.Command{
	Use:   "import <file.csv>",
	Short: "Import leads from a CSV file",
	Long: `Import leads from a CSV file. The first row must be a header with at
least a business name and website column. Optional columns: email, phone,
industry, location.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()

		leads, err := csvfile.Read(f)
		if err != nil {
			return err
		}

		db, err := openDB(cmd)
		if err != nil {
			return err
		}
		defer db.Close()

		inserted, duplicates := storeLeads(db, leads)
		fmt.Printf("Imported %d leads from %s: %d new, %d duplicates\n",
			len(leads), args[0], inserted, duplicates)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(importCmd)
}
