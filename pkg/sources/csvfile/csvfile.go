// Package csvfile imports leads from a CSV export, e.g. a purchased list or
// a spreadsheet of hand-collected businesses.
package csvfile

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/leadscope/leadscope/internal/utils"
	"github.com/leadscope/leadscope/pkg/storage"
)

// SourceName is recorded on every imported lead.
const SourceName = "csv_import"

// Header aliases accepted for each lead field, matched case-insensitively
// with spaces and dashes treated as underscores.
var columnAliases = map[string][]string{
	"business_name": {"business_name", "name", "business", "company", "company_name"},
	"website_url":   {"website_url", "website", "url", "site"},
	"email":         {"email", "email_address", "contact_email"},
	"phone":         {"phone", "phone_number", "telephone", "tel"},
	"industry":      {"industry", "category", "type"},
	"location":      {"location", "city", "address", "area"},
}

// Read parses leads from CSV. The first row must be a header containing at
// least a business name and website column. Rows missing either required
// field are skipped with a warning.
func Read(r io.Reader) ([]storage.Lead, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("reading CSV header: %w", err)
	}

	cols := mapColumns(header)
	if _, ok := cols["business_name"]; !ok {
		return nil, fmt.Errorf("CSV is missing a business name column (accepted: %s)",
			strings.Join(columnAliases["business_name"], ", "))
	}
	if _, ok := cols["website_url"]; !ok {
		return nil, fmt.Errorf("CSV is missing a website column (accepted: %s)",
			strings.Join(columnAliases["website_url"], ", "))
	}

	var leads []storage.Lead
	line := 1
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("reading CSV line %d: %w", line, err)
		}

		get := func(field string) string {
			idx, ok := cols[field]
			if !ok || idx >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[idx])
		}

		lead := storage.Lead{
			BusinessName: get("business_name"),
			WebsiteURL:   get("website_url"),
			Email:        utils.NormalizeEmail(get("email")),
			Phone:        utils.NormalizePhone(get("phone")),
			Industry:     get("industry"),
			Location:     get("location"),
			Source:       SourceName,
		}

		if lead.BusinessName == "" || lead.WebsiteURL == "" {
			utils.Log.Warnf("Skipping CSV line %d: missing business name or website", line)
			continue
		}
		leads = append(leads, lead)
	}

	return leads, nil
}

func mapColumns(header []string) map[string]int {
	cols := make(map[string]int)
	for i, raw := range header {
		name := strings.ToLower(strings.TrimSpace(raw))
		name = strings.NewReplacer(" ", "_", "-", "_").Replace(name)
		for field, aliases := range columnAliases {
			if _, taken := cols[field]; taken {
				continue
			}
			for _, alias := range aliases {
				if name == alias {
					cols[field] = i
				}
			}
		}
	}
	return cols
}
