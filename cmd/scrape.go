package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/leadscope/leadscope/internal/utils"
	"github.com/leadscope/leadscope/pkg/sources"
	"github.com/leadscope/leadscope/pkg/sources/hotfrog"
	"github.com/leadscope/leadscope/pkg/sources/sample"
	"github.com/leadscope/leadscope/pkg/storage"
)

// scrapeCmd represents the scrape command
var scrapeCmd = &cobra.Command{
	Use:   "scrape",
	Short: "Collect business leads from a directory source",
}

var scrapeHotfrogCmd = &cobra.Command{
	Use:   "hotfrog",
	Short: "Scrape business leads from Hotfrog",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runScrape(cmd, hotfrog.NewScraper())
	},
}

var scrapeSampleCmd = &cobra.Command{
	Use:   "sample",
	Short: "Load built-in sample leads (no network needed)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runScrape(cmd, sample.NewScraper())
	},
}

func runScrape(cmd *cobra.Command, src sources.Source) error {
	setupProxy(cmd)
	limit, _ := cmd.Flags().GetInt("limit")
	location, _ := cmd.Flags().GetString("location")
	category, _ := cmd.Flags().GetString("category")

	db, err := openDB(cmd)
	if err != nil {
		return err
	}
	defer db.Close()

	leads, err := src.Scrape(context.Background(), sources.ScrapeOptions{
		Location: location,
		Category: category,
		Limit:    limit,
		Delay:    scraperDelay(),
	})
	if err != nil {
		return err
	}

	inserted, duplicates := storeLeads(db, leads)
	fmt.Printf("Scraped %d leads from %s: %d new, %d duplicates\n",
		len(leads), src.Name(), inserted, duplicates)
	return nil
}

// storeLeads inserts leads one by one so a single duplicate doesn't abort
// the whole batch.
func storeLeads(db *storage.DB, leads []storage.Lead) (inserted, duplicates int) {
	for i := range leads {
		err := db.InsertLead(context.Background(), &leads[i])
		switch {
		case err == nil:
			inserted++
		case errors.Is(err, storage.ErrDuplicateLead):
			utils.Log.Debugf("Duplicate lead skipped: %s", leads[i].WebsiteURL)
			duplicates++
		default:
			utils.Log.Warnf("Failed to store lead %s: %v", leads[i].BusinessName, err)
		}
	}
	return inserted, duplicates
}

func init() {
	scrapeCmd.PersistentFlags().Int("limit", 50, "Maximum leads to collect")
	scrapeCmd.PersistentFlags().String("location", "us", "Country code (us, uk, ca, au)")
	scrapeCmd.PersistentFlags().String("category", "restaurant", "Business category to search")

	scrapeCmd.AddCommand(scrapeHotfrogCmd)
	scrapeCmd.AddCommand(scrapeSampleCmd)
	rootCmd.AddCommand(scrapeCmd)
}
