package export

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/leadscope/leadscope/pkg/storage"
)

func TestWriteOutreachCSV(t *testing.T) {
	sent := time.Date(2026, 8, 20, 10, 30, 0, 0, time.UTC)
	rows := []OutreachRow{
		{
			Lead: storage.Lead{
				BusinessName: "Joe's Pizza",
				WebsiteURL:   "https://joes-pizza.com",
				Email:        "joe@joes-pizza.com",
				Industry:     "restaurant",
				Location:     "Portland, OR",
				Source:       "hotfrog",
			},
			Outreach: storage.OutreachRecord{
				SubjectLine:        "Your site might be losing visitors",
				EmailBody:          "Hi,\n\nline two with, commas",
				QualificationScore: 85,
				Priority:           "HOT",
				RecommendedService: "Performance Optimization",
				SentAt:             sent,
			},
		},
		{
			Lead:     storage.Lead{BusinessName: "Bakery", WebsiteURL: "https://bakery.example.com", Source: "sample"},
			Outreach: storage.OutreachRecord{Priority: "WARM", QualificationScore: 60},
		},
	}

	var buf bytes.Buffer
	if err := WriteOutreachCSV(&buf, rows); err != nil {
		t.Fatalf("WriteOutreachCSV: %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("re-reading CSV: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("got %d rows, want header + 2", len(records))
	}
	if records[0][0] != "business_name" {
		t.Fatalf("header = %v", records[0])
	}

	first := records[1]
	if first[0] != "Joe's Pizza" || first[7] != "HOT" || first[8] != "85" {
		t.Fatalf("unexpected first row: %v", first)
	}
	if first[11] != "Hi,\n\nline two with, commas" {
		t.Fatalf("body not round-tripped: %q", first[11])
	}
	if first[12] != "2026-08-20T10:30:00Z" {
		t.Fatalf("sent_at = %q", first[12])
	}

	// Unsent record has an empty sent_at.
	if records[2][12] != "" {
		t.Fatalf("unsent record sent_at = %q, want empty", records[2][12])
	}
}

func TestWriteLeadsCSV(t *testing.T) {
	leads := []storage.Lead{
		{BusinessName: "A", WebsiteURL: "https://a.example.com", Source: "csv_import",
			CreatedAt: time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)},
	}

	var buf bytes.Buffer
	if err := WriteLeadsCSV(&buf, leads); err != nil {
		t.Fatalf("WriteLeadsCSV: %v", err)
	}
	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("re-reading CSV: %v", err)
	}
	if len(records) != 2 || records[1][0] != "A" || records[1][6] != "csv_import" {
		t.Fatalf("unexpected records: %v", records)
	}
}
