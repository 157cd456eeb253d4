// Package export writes pipeline results to CSV for use in spreadsheets or
// a CRM import.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/leadscope/leadscope/pkg/storage"
)

// OutreachRow is one exported outreach record joined with its lead.
type OutreachRow struct {
	Lead     storage.Lead
	Outreach storage.OutreachRecord
}

var outreachHeader = []string{
	"business_name", "website_url", "email", "phone", "industry", "location",
	"source", "priority", "qualification_score", "recommended_service",
	"subject_line", "email_body", "sent_at",
}

// WriteOutreachCSV writes outreach rows as CSV, highest qualification first
// when the caller pre-sorted them that way.
func WriteOutreachCSV(w io.Writer, rows []OutreachRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(outreachHeader); err != nil {
		return err
	}

	for _, row := range rows {
		sentAt := ""
		if !row.Outreach.SentAt.IsZero() {
			sentAt = row.Outreach.SentAt.Format(time.RFC3339)
		}
		record := []string{
			row.Lead.BusinessName,
			row.Lead.WebsiteURL,
			row.Lead.Email,
			row.Lead.Phone,
			row.Lead.Industry,
			row.Lead.Location,
			row.Lead.Source,
			row.Outreach.Priority,
			strconv.Itoa(row.Outreach.QualificationScore),
			row.Outreach.RecommendedService,
			row.Outreach.SubjectLine,
			row.Outreach.EmailBody,
			sentAt,
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("writing outreach row for %s: %w", row.Lead.BusinessName, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

var leadHeader = []string{
	"business_name", "website_url", "email", "phone", "industry", "location", "source", "created_at",
}

// WriteLeadsCSV writes leads as CSV.
func WriteLeadsCSV(w io.Writer, leads []storage.Lead) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(leadHeader); err != nil {
		return err
	}

	for _, lead := range leads {
		record := []string{
			lead.BusinessName,
			lead.WebsiteURL,
			lead.Email,
			lead.Phone,
			lead.Industry,
			lead.Location,
			lead.Source,
			lead.CreatedAt.Format(time.RFC3339),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("writing lead row for %s: %w", lead.BusinessName, err)
		}
	}

	cw.Flush()
	return cw.Error()
}
