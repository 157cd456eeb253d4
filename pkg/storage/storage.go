// Package storage persists leads, audits, and outreach records in SQLite.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// ErrDuplicateLead is returned when a lead's canonical website key already
// exists in the database.
var ErrDuplicateLead = errors.New("lead already exists")

const timeLayout = "2006-01-02 15:04:05"

type DB struct {
	sql *sql.DB
}

func Open(path string) (*DB, error) {
	dsn := "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		return nil, err
	}
	// Ensure schema exists for convenience.
	if _, err := db.Exec(`
CREATE TABLE IF NOT EXISTS leads (
  id            INTEGER PRIMARY KEY,
  business_name TEXT NOT NULL,
  website_url   TEXT NOT NULL,
  website_key   TEXT NOT NULL UNIQUE,
  phone         TEXT,
  email         TEXT,
  industry      TEXT,
  location      TEXT,
  source        TEXT NOT NULL,
  created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_leads_source ON leads(source);
CREATE TABLE IF NOT EXISTS audits (
  id                  INTEGER PRIMARY KEY,
  lead_id             INTEGER NOT NULL REFERENCES leads(id) ON DELETE CASCADE,
  performance_score   INTEGER,
  seo_score           INTEGER,
  accessibility_score INTEGER,
  mobile_friendly     INTEGER NOT NULL DEFAULT 0 CHECK (mobile_friendly IN (0,1)),
  issues              TEXT,
  raw                 TEXT,
  status              TEXT NOT NULL DEFAULT 'completed',
  error_message       TEXT,
  audited_at          DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_audits_lead ON audits(lead_id, audited_at);
CREATE TABLE IF NOT EXISTS outreach (
  id                  INTEGER PRIMARY KEY,
  lead_id             INTEGER NOT NULL REFERENCES leads(id) ON DELETE CASCADE,
  subject_line        TEXT,
  email_body          TEXT,
  ai_summary          TEXT,
  qualification_score INTEGER NOT NULL DEFAULT 0,
  priority            TEXT,
  recommended_service TEXT,
  sent_at             DATETIME,
  created_at          DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_outreach_lead ON outreach(lead_id);
CREATE INDEX IF NOT EXISTS idx_outreach_pending ON outreach(sent_at, qualification_score);
	`); err != nil {
		return nil, err
	}
	return &DB{sql: db}, nil
}

func (d *DB) Close() error {
	if d == nil || d.sql == nil {
		return nil
	}
	return d.sql.Close()
}

// InsertLead stores a new lead, deriving the canonical website key.
// Returns ErrDuplicateLead when the website is already known.
func (d *DB) InsertLead(ctx context.Context, lead *Lead) error {
	if lead.BusinessName == "" || lead.WebsiteURL == "" {
		return errors.New("lead requires a business name and website URL")
	}
	lead.WebsiteURL = NormalizeWebsiteURL(lead.WebsiteURL)
	lead.WebsiteKey = WebsiteKey(lead.WebsiteURL)

	var exists int
	err := d.sql.QueryRowContext(ctx, "SELECT COUNT(1) FROM leads WHERE website_key = ?", lead.WebsiteKey).Scan(&exists)
	if err != nil {
		return err
	}
	if exists > 0 {
		return fmt.Errorf("%w: %s", ErrDuplicateLead, lead.WebsiteKey)
	}

	res, err := d.sql.ExecContext(ctx,
		`INSERT INTO leads(business_name, website_url, website_key, phone, email, industry, location, source)
		 VALUES(?,?,?,?,?,?,?,?)`,
		lead.BusinessName, lead.WebsiteURL, lead.WebsiteKey,
		nullIfEmpty(lead.Phone), nullIfEmpty(lead.Email),
		nullIfEmpty(lead.Industry), nullIfEmpty(lead.Location), lead.Source)
	if err != nil {
		return err
	}
	lead.ID, err = res.LastInsertId()
	return err
}

// GetLead fetches a single lead by ID.
func (d *DB) GetLead(ctx context.Context, id int64) (*Lead, error) {
	row := d.sql.QueryRowContext(ctx,
		`SELECT id, business_name, website_url, website_key, phone, email, industry, location, source, created_at
		 FROM leads WHERE id = ?`, id)
	lead, err := scanLead(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("lead %d not found", id)
	}
	return lead, err
}

// ListLeads returns leads newest first. limit <= 0 means no limit.
func (d *DB) ListLeads(ctx context.Context, limit int) ([]Lead, error) {
	q := `SELECT id, business_name, website_url, website_key, phone, email, industry, location, source, created_at
	      FROM leads ORDER BY created_at DESC, id DESC`
	args := []interface{}{}
	if limit > 0 {
		q += " LIMIT ?"
		args = append(args, limit)
	}
	return d.queryLeads(ctx, q, args...)
}

// LeadsWithoutAudit returns leads that have never been audited.
func (d *DB) LeadsWithoutAudit(ctx context.Context, limit int) ([]Lead, error) {
	q := `SELECT l.id, l.business_name, l.website_url, l.website_key, l.phone, l.email, l.industry, l.location, l.source, l.created_at
	      FROM leads l LEFT JOIN audits a ON a.lead_id = l.id
	      WHERE a.id IS NULL ORDER BY l.id`
	args := []interface{}{}
	if limit > 0 {
		q += " LIMIT ?"
		args = append(args, limit)
	}
	return d.queryLeads(ctx, q, args...)
}

// LeadsReadyForOutreach returns audited leads with no outreach yet,
// newest lead first.
func (d *DB) LeadsReadyForOutreach(ctx context.Context, limit int) ([]Lead, error) {
	q := `SELECT DISTINCT l.id, l.business_name, l.website_url, l.website_key, l.phone, l.email, l.industry, l.location, l.source, l.created_at
	      FROM leads l
	      JOIN audits a ON a.lead_id = l.id
	      LEFT JOIN outreach o ON o.lead_id = l.id
	      WHERE o.id IS NULL ORDER BY l.created_at DESC, l.id DESC`
	args := []interface{}{}
	if limit > 0 {
		q += " LIMIT ?"
		args = append(args, limit)
	}
	return d.queryLeads(ctx, q, args...)
}

// SaveAudit stores an audit run for a lead.
func (d *DB) SaveAudit(ctx context.Context, rec *AuditRecord) error {
	res, err := d.sql.ExecContext(ctx,
		`INSERT INTO audits(lead_id, performance_score, seo_score, accessibility_score, mobile_friendly, issues, raw, status, error_message)
		 VALUES(?,?,?,?,?,?,?,?,?)`,
		rec.LeadID, rec.PerformanceScore, rec.SEOScore, rec.AccessibilityScore,
		boolToInt(rec.MobileFriendly), nullIfEmpty(rec.Issues), nullIfEmpty(rec.Raw),
		rec.Status, nullIfEmpty(rec.ErrorMessage))
	if err != nil {
		return err
	}
	rec.ID, err = res.LastInsertId()
	return err
}

// LatestAuditByLead returns the most recent audit for a lead, or nil when
// the lead has never been audited.
func (d *DB) LatestAuditByLead(ctx context.Context, leadID int64) (*AuditRecord, error) {
	row := d.sql.QueryRowContext(ctx,
		`SELECT id, lead_id, performance_score, seo_score, accessibility_score, mobile_friendly, issues, raw, status, error_message, audited_at
		 FROM audits WHERE lead_id = ? ORDER BY audited_at DESC, id DESC LIMIT 1`, leadID)

	var rec AuditRecord
	var mobile int
	var issues, raw, errMsg sql.NullString
	var auditedAt string
	err := row.Scan(&rec.ID, &rec.LeadID, &rec.PerformanceScore, &rec.SEOScore,
		&rec.AccessibilityScore, &mobile, &issues, &raw, &rec.Status, &errMsg, &auditedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	rec.MobileFriendly = mobile == 1
	rec.Issues = issues.String
	rec.Raw = raw.String
	rec.ErrorMessage = errMsg.String
	rec.AuditedAt = parseTimestamp(auditedAt)
	return &rec, nil
}

// SaveOutreach stores a generated outreach email.
func (d *DB) SaveOutreach(ctx context.Context, rec *OutreachRecord) error {
	res, err := d.sql.ExecContext(ctx,
		`INSERT INTO outreach(lead_id, subject_line, email_body, ai_summary, qualification_score, priority, recommended_service)
		 VALUES(?,?,?,?,?,?,?)`,
		rec.LeadID, rec.SubjectLine, rec.EmailBody, nullIfEmpty(rec.AISummary),
		rec.QualificationScore, rec.Priority, rec.RecommendedService)
	if err != nil {
		return err
	}
	rec.ID, err = res.LastInsertId()
	return err
}

// PendingOutreach returns unsent outreach records, most qualified first.
func (d *DB) PendingOutreach(ctx context.Context, limit int) ([]OutreachRecord, error) {
	q := `SELECT id, lead_id, subject_line, email_body, ai_summary, qualification_score, priority, recommended_service, sent_at, created_at
	      FROM outreach WHERE sent_at IS NULL ORDER BY qualification_score DESC, id`
	args := []interface{}{}
	if limit > 0 {
		q += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := d.sql.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []OutreachRecord
	for rows.Next() {
		rec, err := scanOutreach(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *rec)
	}
	return out, rows.Err()
}

// GetOutreach fetches a single outreach record.
func (d *DB) GetOutreach(ctx context.Context, id int64) (*OutreachRecord, error) {
	rows, err := d.sql.QueryContext(ctx,
		`SELECT id, lead_id, subject_line, email_body, ai_summary, qualification_score, priority, recommended_service, sent_at, created_at
		 FROM outreach WHERE id = ?`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	if !rows.Next() {
		return nil, fmt.Errorf("outreach %d not found", id)
	}
	return scanOutreach(rows)
}

// MarkOutreachSent stamps an outreach record as sent now.
func (d *DB) MarkOutreachSent(ctx context.Context, id int64) error {
	_, err := d.sql.ExecContext(ctx, "UPDATE outreach SET sent_at = CURRENT_TIMESTAMP WHERE id = ?", id)
	return err
}

// CountSentSince counts emails sent at or after the given time. Used to
// enforce the daily send cap.
func (d *DB) CountSentSince(ctx context.Context, since time.Time) (int, error) {
	var n int
	err := d.sql.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM outreach WHERE sent_at IS NOT NULL AND sent_at >= ?",
		since.UTC().Format(timeLayout)).Scan(&n)
	return n, err
}

// GetStats returns per-source lead/audit/outreach counts.
func (d *DB) GetStats(ctx context.Context) ([]SourceStats, error) {
	rows, err := d.sql.QueryContext(ctx, `
		SELECT
			l.source,
			COUNT(DISTINCT l.id),
			COUNT(DISTINCT a.lead_id),
			COUNT(DISTINCT o.lead_id)
		FROM leads l
		LEFT JOIN audits a ON a.lead_id = l.id
		LEFT JOIN outreach o ON o.lead_id = l.id
		GROUP BY l.source
		ORDER BY l.source`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stats []SourceStats
	for rows.Next() {
		var s SourceStats
		if err := rows.Scan(&s.Source, &s.LeadCount, &s.AuditCount, &s.OutreachCount); err != nil {
			return nil, err
		}
		stats = append(stats, s)
	}
	return stats, rows.Err()
}

func (d *DB) queryLeads(ctx context.Context, q string, args ...interface{}) ([]Lead, error) {
	rows, err := d.sql.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Lead
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *lead)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanLead(row rowScanner) (*Lead, error) {
	var l Lead
	var phone, email, industry, location sql.NullString
	var createdAt string
	err := row.Scan(&l.ID, &l.BusinessName, &l.WebsiteURL, &l.WebsiteKey,
		&phone, &email, &industry, &location, &l.Source, &createdAt)
	if err != nil {
		return nil, err
	}
	l.Phone = phone.String
	l.Email = email.String
	l.Industry = industry.String
	l.Location = location.String
	l.CreatedAt = parseTimestamp(createdAt)
	return &l, nil
}

func scanOutreach(row rowScanner) (*OutreachRecord, error) {
	var rec OutreachRecord
	var aiSummary, sentAt sql.NullString
	var createdAt string
	err := row.Scan(&rec.ID, &rec.LeadID, &rec.SubjectLine, &rec.EmailBody,
		&aiSummary, &rec.QualificationScore, &rec.Priority, &rec.RecommendedService,
		&sentAt, &createdAt)
	if err != nil {
		return nil, err
	}
	rec.AISummary = aiSummary.String
	if sentAt.Valid {
		rec.SentAt = parseTimestamp(sentAt.String)
	}
	rec.CreatedAt = parseTimestamp(createdAt)
	return &rec, nil
}

// parseTimestamp handles both SQLite CURRENT_TIMESTAMP and RFC3339 formats.
func parseTimestamp(s string) time.Time {
	if t, err := time.Parse(timeLayout, s); err == nil {
		return t
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t
	}
	return time.Time{}
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
