// Package sample provides a fixed set of leads for trying the pipeline
// without scraping anything.
package sample

import (
	"context"

	"github.com/leadscope/leadscope/pkg/sources"
	"github.com/leadscope/leadscope/pkg/storage"
)

type Scraper struct{}

func NewScraper() *Scraper {
	return &Scraper{}
}

func (s *Scraper) Name() string {
	return "sample"
}

// Scrape returns deterministic sample leads. Limit and category are honored,
// location is ignored.
func (s *Scraper) Scrape(_ context.Context, opts sources.ScrapeOptions) ([]storage.Lead, error) {
	leads := []storage.Lead{
		{
			BusinessName: "Joe's Pizza Kitchen",
			WebsiteURL:   "https://joes-pizza-kitchen.example.com",
			Phone:        "(555)123-4567",
			Industry:     "restaurant",
			Location:     "Portland, OR",
		},
		{
			BusinessName: "Bright Smile Dental",
			WebsiteURL:   "https://brightsmiledental.example.com",
			Email:        "office@brightsmiledental.example.com",
			Industry:     "dentist",
			Location:     "Austin, TX",
		},
		{
			BusinessName: "Green Thumb Landscaping",
			WebsiteURL:   "https://greenthumb-landscaping.example.com",
			Phone:        "(555)987-6543",
			Industry:     "landscaping",
			Location:     "Denver, CO",
		},
		{
			BusinessName: "Harbor View Auto Repair",
			WebsiteURL:   "https://harborviewauto.example.com",
			Email:        "service@harborviewauto.example.com",
			Industry:     "auto repair",
			Location:     "Seattle, WA",
		},
		{
			BusinessName: "The Corner Bakery",
			WebsiteURL:   "https://cornerbakery.example.com",
			Industry:     "bakery",
			Location:     "Nashville, TN",
		},
	}

	for i := range leads {
		leads[i].Source = s.Name()
		if opts.Category != "" {
			leads[i].Industry = opts.Category
		}
	}

	if opts.Limit > 0 && opts.Limit < len(leads) {
		leads = leads[:opts.Limit]
	}
	return leads, nil
}
