// Package sources defines the interface every lead source implements and
// shared scrape options.
package sources

import (
	"context"
	"time"

	"github.com/leadscope/leadscope/pkg/storage"
)

// ScrapeOptions tunes a scrape run.
type ScrapeOptions struct {
	// Location is a country or region code understood by the source
	// (us, uk, ca, au).
	Location string
	// Category is the business category to search, e.g. "restaurant".
	Category string
	// Limit caps how many leads to collect. <= 0 means the source default.
	Limit int
	// Delay is the pause between page fetches.
	Delay time.Duration
}

// Source produces business leads from one directory or file format.
type Source interface {
	Name() string
	Scrape(ctx context.Context, opts ScrapeOptions) ([]storage.Lead, error)
}
