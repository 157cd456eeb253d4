// Package hotfrog scrapes business leads from the Hotfrog directory.
package hotfrog

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/hashicorp/go-retryablehttp"

	"github.com/leadscope/leadscope/internal/utils"
	"github.com/leadscope/leadscope/pkg/sources"
	"github.com/leadscope/leadscope/pkg/storage"
	"github.com/leadscope/leadscope/pkg/webfetch"
)

const (
	baseURL      = "https://www.hotfrog.com"
	maxPages     = 10
	defaultLimit = 50
)

type Scraper struct {
	client *retryablehttp.Client
}

func NewScraper() *Scraper {
	return &Scraper{client: webfetch.NewClient(30 * time.Second)}
}

func (s *Scraper) Name() string {
	return "hotfrog"
}

// Scrape walks the Hotfrog search pages for a location and category,
// collecting businesses that expose a direct website link.
func (s *Scraper) Scrape(ctx context.Context, opts sources.ScrapeOptions) ([]storage.Lead, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = defaultLimit
	}
	location := opts.Location
	if location == "" {
		location = "us"
	}
	category := opts.Category
	if category == "" {
		category = "restaurant"
	}

	utils.Log.Infof("Starting Hotfrog scrape - Location: %s, Category: %s, Limit: %d", location, category, limit)

	var leads []storage.Lead
	for page := 1; page <= maxPages && len(leads) < limit; page++ {
		if err := ctx.Err(); err != nil {
			return leads, err
		}

		pageURL := searchURL(location, category, page)
		utils.Log.Infof("Fetching: %s", pageURL)

		res, err := webfetch.Send(ctx, &webfetch.Request{URL: pageURL}, s.client)
		if err != nil {
			utils.Log.Warnf("Failed to fetch page %d: %v", page, err)
			break
		}
		if res.StatusCode != 200 {
			utils.Log.Warnf("Hotfrog returned HTTP %d for page %d", res.StatusCode, page)
			break
		}

		pageLeads, err := parseListings(res.BodyString)
		if err != nil {
			return leads, err
		}
		if len(pageLeads) == 0 {
			utils.Log.Infof("No more businesses found on page %d", page)
			break
		}

		for _, lead := range pageLeads {
			if len(leads) >= limit {
				break
			}
			lead.Source = s.Name()
			lead.Location = strings.ToUpper(location)
			lead.Industry = category
			leads = append(leads, lead)
		}
		utils.Log.Infof("Page %d: Found %d businesses, %d total valid", page, len(pageLeads), len(leads))

		if opts.Delay > 0 && len(leads) < limit && page < maxPages {
			select {
			case <-time.After(opts.Delay):
			case <-ctx.Done():
				return leads, ctx.Err()
			}
		}
	}

	utils.Log.Infof("Scrape complete - Source: %s, Valid: %d", s.Name(), len(leads))
	return leads, nil
}

func searchURL(location, category string, page int) string {
	loc := strings.ToLower(location)
	u := baseURL + "/search/" + loc
	if category != "" {
		u += "/" + url.PathEscape(strings.ReplaceAll(strings.ToLower(category), " ", "-"))
	}
	if page > 1 {
		u += fmt.Sprintf("?page=%d", page)
	}
	return u
}

// parseListings pulls businesses out of a Hotfrog search page. Listings are
// keyed on h3 tags holding the business name; details live in the enclosing
// row container.
func parseListings(htmlBody string) ([]storage.Lead, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlBody))
	if err != nil {
		return nil, err
	}

	var leads []storage.Lead
	doc.Find("h3").Each(func(_ int, h3 *goquery.Selection) {
		lead, ok := parseListing(h3)
		if ok {
			leads = append(leads, lead)
		}
	})
	return leads, nil
}

func parseListing(h3 *goquery.Selection) (storage.Lead, bool) {
	var lead storage.Lead

	lead.BusinessName = strings.TrimSpace(h3.Text())
	if len(lead.BusinessName) < 3 {
		return lead, false
	}

	container := h3.Closest("div.row")
	if container.Length() == 0 {
		container = h3.Closest("div")
	}
	if container.Length() == 0 {
		return lead, false
	}

	container.Find("a").EachWithBreak(func(_ int, a *goquery.Selection) bool {
		href, _ := a.Attr("href")
		if strings.HasPrefix(href, "tel:") {
			lead.Phone = utils.NormalizePhone(strings.TrimSpace(a.Text()))
			return true
		}
		if strings.HasPrefix(href, "mailto:") {
			lead.Email = utils.NormalizeEmail(strings.TrimPrefix(href, "mailto:"))
			return true
		}
		return true
	})

	if addr := strings.TrimSpace(container.Find("span").First().Text()); addr != "" &&
		!strings.Contains(strings.ToLower(addr), "claim this business") {
		lead.Location = addr
	}

	// Only listings with a direct external website link are useful leads;
	// detail-page-only businesses are skipped.
	container.Find("a").EachWithBreak(func(_ int, a *goquery.Selection) bool {
		href, _ := a.Attr("href")
		if !strings.HasPrefix(href, "http://") && !strings.HasPrefix(href, "https://") {
			return true
		}
		if utils.IsBusinessWebsite(href) {
			lead.WebsiteURL = href
			return false
		}
		return true
	})

	if lead.WebsiteURL == "" {
		return lead, false
	}
	return lead, true
}
