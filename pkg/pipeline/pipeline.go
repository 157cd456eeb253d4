// Package pipeline coordinates the full workflow: audit, score, generate,
// export. Each stage can run independently or as part of a full run.
package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/leadscope/leadscope/pkg/ai"
	"github.com/leadscope/leadscope/pkg/audit"
	"github.com/leadscope/leadscope/pkg/export"
	"github.com/leadscope/leadscope/pkg/leadscore"
	"github.com/leadscope/leadscope/pkg/storage"
)

// Logger abstracts logging so callers can use logrus, stdlib log, or any
// other logger that satisfies this interface.
type Logger interface {
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
	Debugf(format string, args ...interface{})
}

// nopLogger silently discards all messages.
type nopLogger struct{}

func (nopLogger) Infof(string, ...interface{})  {}
func (nopLogger) Warnf(string, ...interface{})  {}
func (nopLogger) Errorf(string, ...interface{}) {}
func (nopLogger) Debugf(string, ...interface{}) {}

// Config holds everything a Pipeline needs. DB and Analyzer are required,
// Generator is optional (template fallbacks are used without it).
type Config struct {
	DB        *storage.DB
	Analyzer  *audit.Analyzer
	Generator ai.Generator

	// SenderName signs generated emails.
	SenderName string
	// Concurrency bounds the audit worker pool. Defaults to 3 if <= 0.
	Concurrency int
	Log         Logger
}

// Stats counts what each stage did during this pipeline's lifetime.
type Stats struct {
	Audited     int
	AuditFailed int
	Scored      int
	Generated   int
	Skipped     int
	Exported    int
}

type Pipeline struct {
	db          *storage.DB
	analyzer    *audit.Analyzer
	generator   ai.Generator
	senderName  string
	concurrency int
	log         Logger

	mu    sync.Mutex
	stats Stats
}

func New(cfg Config) *Pipeline {
	log := cfg.Log
	if log == nil {
		log = nopLogger{}
	}
	concurrency := cfg.Concurrency
	if concurrency <= 0 {
		concurrency = 3
	}
	senderName := cfg.SenderName
	if senderName == "" {
		senderName = "Web Performance Consultant"
	}
	return &Pipeline{
		db:          cfg.DB,
		analyzer:    cfg.Analyzer,
		generator:   cfg.Generator,
		senderName:  senderName,
		concurrency: concurrency,
		log:         log,
	}
}

// Stats returns a copy of the stage counters.
func (p *Pipeline) Stats() Stats {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.stats
}

// AuditResult is the outcome of auditing a single lead.
type AuditResult struct {
	LeadID       int64
	BusinessName string
	Snapshot     audit.Snapshot
	Scoring      leadscore.Result
	Err          error
}

// RunAudits audits websites for leads that have never been audited,
// fanning work out across the worker pool.
func (p *Pipeline) RunAudits(ctx context.Context, limit int) ([]AuditResult, error) {
	leads, err := p.db.LeadsWithoutAudit(ctx, limit)
	if err != nil {
		return nil, err
	}
	if len(leads) == 0 {
		p.log.Infof("No leads pending audit.")
		return nil, nil
	}

	p.log.Infof("Auditing %d websites...", len(leads))

	jobs := make(chan storage.Lead)
	results := make([]AuditResult, 0, len(leads))
	var resMu sync.Mutex
	var wg sync.WaitGroup

	for i := 0; i < p.concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for lead := range jobs {
				res := p.auditLead(ctx, lead)
				resMu.Lock()
				results = append(results, res)
				resMu.Unlock()
			}
		}()
	}

	for _, lead := range leads {
		select {
		case jobs <- lead:
		case <-ctx.Done():
			close(jobs)
			wg.Wait()
			return results, ctx.Err()
		}
	}
	close(jobs)
	wg.Wait()

	completed, failed := 0, 0
	for _, r := range results {
		if r.Err != nil {
			failed++
		} else {
			completed++
		}
	}
	p.log.Infof("Audit summary: %d completed, %d failed", completed, failed)
	return results, nil
}

func (p *Pipeline) auditLead(ctx context.Context, lead storage.Lead) AuditResult {
	p.log.Infof("Auditing: %s (%s)", lead.BusinessName, lead.WebsiteURL)

	snap := p.analyzer.FullAudit(ctx, lead.WebsiteURL)
	scoring := leadscore.Score(snap)

	rec := &storage.AuditRecord{
		LeadID:             lead.ID,
		PerformanceScore:   snap.PerformanceScore,
		SEOScore:           snap.SEOScore,
		AccessibilityScore: snap.AccessibilityScore,
		MobileFriendly:     snap.MobileFriendly,
		Status:             "completed",
	}
	if snap.Error != "" && !snap.Reachable {
		rec.Status = "failed"
		rec.ErrorMessage = snap.Error
	}
	if issuesJSON, err := json.Marshal(snap.MajorIssues); err == nil {
		rec.Issues = string(issuesJSON)
	}
	if rawJSON, err := json.Marshal(snap); err == nil {
		rec.Raw = string(rawJSON)
	}

	res := AuditResult{
		LeadID:       lead.ID,
		BusinessName: lead.BusinessName,
		Snapshot:     snap,
		Scoring:      scoring,
	}

	if err := p.db.SaveAudit(ctx, rec); err != nil {
		p.log.Errorf("Saving audit for %s failed: %v", lead.BusinessName, err)
		res.Err = err
		p.bump(func(s *Stats) { s.AuditFailed++ })
		return res
	}

	if rec.Status == "failed" {
		res.Err = fmt.Errorf("audit failed: %s", rec.ErrorMessage)
		p.bump(func(s *Stats) { s.AuditFailed++ })
	} else {
		p.log.Infof("  %s - Performance: %d/100, SEO: %d/100",
			lead.BusinessName, snap.PerformanceScore, snap.SEOScore)
		p.bump(func(s *Stats) { s.Audited++ })
	}
	return res
}

// ScoringRow pairs a lead with its deterministic scoring result.
type ScoringRow struct {
	Lead    storage.Lead
	Scoring leadscore.Result
}

// RunScoring scores audited leads that have no outreach yet, worst websites
// (highest qualification) first.
func (p *Pipeline) RunScoring(ctx context.Context, limit int) ([]ScoringRow, error) {
	leads, err := p.db.LeadsReadyForOutreach(ctx, limit)
	if err != nil {
		return nil, err
	}
	if len(leads) == 0 {
		p.log.Infof("No leads ready for scoring (all scored or no audits).")
		return nil, nil
	}

	p.log.Infof("Scoring %d leads...", len(leads))

	var rows []ScoringRow
	for _, lead := range leads {
		rec, err := p.db.LatestAuditByLead(ctx, lead.ID)
		if err != nil {
			return nil, err
		}
		if rec == nil {
			continue
		}
		snap := SnapshotFromRecord(rec)
		rows = append(rows, ScoringRow{Lead: lead, Scoring: leadscore.Score(snap)})
		p.bump(func(s *Stats) { s.Scored++ })
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Scoring.QualificationScore > rows[j].Scoring.QualificationScore
	})

	p.logScoringSummary(rows)
	return rows, nil
}

// GenerationResult is the outcome of generating outreach for one lead.
type GenerationResult struct {
	LeadID       int64
	BusinessName string
	Scoring      leadscore.Result
	SubjectLine  string
	Skipped      bool
	Err          error
}

// RunGeneration creates outreach emails for the given leads, or for leads
// with audits but no outreach when leadIDs is nil. Leads whose websites score
// too well are skipped.
func (p *Pipeline) RunGeneration(ctx context.Context, limit int, leadIDs []int64) ([]GenerationResult, error) {
	if leadIDs == nil {
		leads, err := p.db.LeadsReadyForOutreach(ctx, limit)
		if err != nil {
			return nil, err
		}
		for _, l := range leads {
			leadIDs = append(leadIDs, l.ID)
		}
	}
	if limit > 0 && len(leadIDs) > limit {
		leadIDs = leadIDs[:limit]
	}
	if len(leadIDs) == 0 {
		p.log.Infof("No leads ready for outreach generation.")
		return nil, nil
	}

	p.log.Infof("Generating outreach for %d leads...", len(leadIDs))

	var results []GenerationResult
	for i, id := range leadIDs {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		p.log.Infof("--- Processing lead %d/%d ---", i+1, len(leadIDs))
		results = append(results, p.generateForLead(ctx, id))
	}

	generated, skipped, failed := 0, 0, 0
	for _, r := range results {
		switch {
		case r.Err != nil:
			failed++
		case r.Skipped:
			skipped++
		default:
			generated++
		}
	}
	p.log.Infof("Outreach generation complete: %d emails, %d skipped (good websites), %d failed",
		generated, skipped, failed)
	return results, nil
}

// GenerateForLead builds and stores the full outreach package for one lead.
func (p *Pipeline) GenerateForLead(ctx context.Context, leadID int64) GenerationResult {
	return p.generateForLead(ctx, leadID)
}

func (p *Pipeline) generateForLead(ctx context.Context, leadID int64) GenerationResult {
	res := GenerationResult{LeadID: leadID}

	lead, err := p.db.GetLead(ctx, leadID)
	if err != nil {
		res.Err = err
		return res
	}
	res.BusinessName = lead.BusinessName

	rec, err := p.db.LatestAuditByLead(ctx, leadID)
	if err != nil {
		res.Err = err
		return res
	}
	if rec == nil {
		p.log.Warnf("No audit found for lead %d (%s). Run audit first.", leadID, lead.BusinessName)
		res.Err = fmt.Errorf("lead %d has no audit", leadID)
		return res
	}

	snap := SnapshotFromRecord(rec)
	scoring := leadscore.Score(snap)
	res.Scoring = scoring

	if scoring.Priority == leadscore.PrioritySkip {
		p.log.Infof("Skipping %s: website scored %d/100 (too good)",
			lead.BusinessName, scoring.CompositeScore)
		res.Skipped = true
		p.bump(func(s *Stats) { s.Skipped++ })
		return res
	}

	info := ai.LeadInfo{
		BusinessName: lead.BusinessName,
		Industry:     lead.Industry,
		Location:     lead.Location,
	}

	summary := p.summarize(ctx, info, snap, scoring)
	draft := p.composeEmail(ctx, info, summary, scoring.RecommendedService)

	outreach := &storage.OutreachRecord{
		LeadID:             leadID,
		SubjectLine:        draft.SubjectLine,
		EmailBody:          draft.EmailBody,
		QualificationScore: scoring.QualificationScore,
		Priority:           string(scoring.Priority),
		RecommendedService: scoring.RecommendedService,
	}
	if summaryJSON, err := json.Marshal(summary); err == nil {
		outreach.AISummary = string(summaryJSON)
	}

	if err := p.db.SaveOutreach(ctx, outreach); err != nil {
		p.log.Errorf("Saving outreach for %s failed: %v", lead.BusinessName, err)
		res.Err = err
		return res
	}

	res.SubjectLine = draft.SubjectLine
	p.bump(func(s *Stats) { s.Generated++ })
	p.log.Infof("Outreach generated for %s [%s]", lead.BusinessName, scoring.Priority)
	return res
}

func (p *Pipeline) summarize(ctx context.Context, info ai.LeadInfo, snap audit.Snapshot, scoring leadscore.Result) *ai.Summary {
	if p.generator != nil {
		summary, err := p.generator.Summarize(ctx, info, snap, scoring)
		if err == nil {
			return summary
		}
		p.log.Warnf("AI summary failed for %s: %v. Using fallback.", info.BusinessName, err)
	}
	return ai.FallbackSummary(info, snap, scoring)
}

func (p *Pipeline) composeEmail(ctx context.Context, info ai.LeadInfo, summary *ai.Summary, service string) *ai.EmailDraft {
	if p.generator != nil {
		draft, err := p.generator.ComposeEmail(ctx, info, summary, service, p.senderName)
		if err == nil {
			return draft
		}
		p.log.Warnf("AI email failed for %s: %v. Using template fallback.", info.BusinessName, err)
	}
	return ai.FallbackEmail(info, summary, p.senderName)
}

// Export writes all pending outreach records to w as CSV.
func (p *Pipeline) Export(ctx context.Context, w io.Writer) (int, error) {
	pending, err := p.db.PendingOutreach(ctx, 0)
	if err != nil {
		return 0, err
	}
	if len(pending) == 0 {
		p.log.Infof("No outreach records to export.")
		return 0, nil
	}

	var rows []export.OutreachRow
	for _, rec := range pending {
		lead, err := p.db.GetLead(ctx, rec.LeadID)
		if err != nil {
			p.log.Warnf("Skipping outreach #%d: %v", rec.ID, err)
			continue
		}
		rows = append(rows, export.OutreachRow{Lead: *lead, Outreach: rec})
	}
	if len(rows) == 0 {
		return 0, nil
	}

	if err := export.WriteOutreachCSV(w, rows); err != nil {
		return 0, err
	}
	p.bump(func(s *Stats) { s.Exported += len(rows) })
	p.log.Infof("Exported %d records", len(rows))
	return len(rows), nil
}

// RunSummary is what a full pipeline run produced.
type RunSummary struct {
	Stats
	Elapsed time.Duration
}

// RunAll executes audit, score, generate, and export in sequence. Only HOT
// and WARM leads get outreach. exportTo may be nil to skip the export stage.
func (p *Pipeline) RunAll(ctx context.Context, auditLimit, generateLimit int, exportTo io.Writer) (*RunSummary, error) {
	start := time.Now()
	p.log.Infof("Full pipeline run starting")

	p.log.Infof("Stage 1: website audits")
	if _, err := p.RunAudits(ctx, auditLimit); err != nil {
		return nil, err
	}

	p.log.Infof("Stage 2: lead scoring")
	rows, err := p.RunScoring(ctx, auditLimit)
	if err != nil {
		return nil, err
	}

	p.log.Infof("Stage 3: outreach generation")
	var hotWarmIDs []int64
	for _, row := range rows {
		if row.Scoring.Priority == leadscore.PriorityHot || row.Scoring.Priority == leadscore.PriorityWarm {
			hotWarmIDs = append(hotWarmIDs, row.Lead.ID)
		}
	}
	if len(hotWarmIDs) > 0 {
		if _, err := p.RunGeneration(ctx, generateLimit, hotWarmIDs); err != nil {
			return nil, err
		}
	} else {
		p.log.Infof("No HOT/WARM leads found for outreach.")
	}

	if exportTo != nil {
		p.log.Infof("Stage 4: export")
		if _, err := p.Export(ctx, exportTo); err != nil {
			return nil, err
		}
	}

	summary := &RunSummary{Stats: p.Stats(), Elapsed: time.Since(start)}
	p.log.Infof("Pipeline complete: %d audited, %d failed, %d scored, %d generated, %d skipped, %d exported in %s",
		summary.Audited, summary.AuditFailed, summary.Scored, summary.Generated,
		summary.Skipped, summary.Exported, summary.Elapsed.Round(time.Second))
	return summary, nil
}

func (p *Pipeline) bump(f func(*Stats)) {
	p.mu.Lock()
	f(&p.stats)
	p.mu.Unlock()
}

func (p *Pipeline) logScoringSummary(rows []ScoringRow) {
	counts := map[leadscore.Priority]int{}
	for _, r := range rows {
		counts[r.Scoring.Priority]++
	}
	p.log.Infof("Scoring summary: %d HOT, %d WARM, %d COLD, %d SKIP",
		counts[leadscore.PriorityHot], counts[leadscore.PriorityWarm],
		counts[leadscore.PriorityCold], counts[leadscore.PrioritySkip])

	top := rows
	if len(top) > 5 {
		top = top[:5]
	}
	for _, r := range top {
		p.log.Infof("  [%-4s] %s - Score: %d/100, Service: %s",
			r.Scoring.Priority, r.Lead.BusinessName,
			r.Scoring.CompositeScore, r.Scoring.RecommendedService)
	}
}

// SnapshotFromRecord rebuilds an audit snapshot from a stored record. The
// raw JSON blob is preferred; the column values cover records saved without
// one.
func SnapshotFromRecord(rec *storage.AuditRecord) audit.Snapshot {
	var snap audit.Snapshot
	if rec.Raw != "" {
		if err := json.Unmarshal([]byte(rec.Raw), &snap); err == nil {
			return snap
		}
	}

	snap = audit.Snapshot{
		PerformanceScore:   rec.PerformanceScore,
		SEOScore:           rec.SEOScore,
		AccessibilityScore: rec.AccessibilityScore,
		MobileFriendly:     rec.MobileFriendly,
	}
	if rec.Issues != "" {
		_ = json.Unmarshal([]byte(rec.Issues), &snap.MajorIssues)
	}
	return snap
}
