package storage

import "time"

// Lead is a single business lead. WebsiteKey is the canonical form of the
// website URL used for duplicate detection.
type Lead struct {
	ID           int64
	BusinessName string
	WebsiteURL   string
	WebsiteKey   string
	Phone        string
	Email        string
	Industry     string
	Location     string
	Source       string // e.g. "hotfrog", "csv_import"
	CreatedAt    time.Time
}

// AuditRecord stores one audit run for a lead. Issues and Raw are JSON blobs
// (the issue list and the full snapshot respectively).
type AuditRecord struct {
	ID                 int64
	LeadID             int64
	PerformanceScore   int
	SEOScore           int
	AccessibilityScore int
	MobileFriendly     bool
	Issues             string
	Raw                string
	Status             string // completed | failed
	ErrorMessage       string
	AuditedAt          time.Time
}

// OutreachRecord tracks a generated (and possibly sent) outreach email.
type OutreachRecord struct {
	ID                 int64
	LeadID             int64
	SubjectLine        string
	EmailBody          string
	AISummary          string
	QualificationScore int
	Priority           string
	RecommendedService string
	SentAt             time.Time // zero = not sent
	CreatedAt          time.Time
}

// SourceStats summarizes pipeline progress per lead source.
type SourceStats struct {
	Source        string
	LeadCount     int
	AuditCount    int
	OutreachCount int
}
