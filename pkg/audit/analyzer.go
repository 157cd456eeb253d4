package audit

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"
	"time"

	"github.com/leadscope/leadscope/internal/utils"
	"github.com/leadscope/leadscope/pkg/webfetch"
)

// Analyzer aggregates PageSpeed data, a TLS certificate check, a plain HTTP
// health check, and meta-tag extraction into a single Snapshot.
type Analyzer struct {
	PageSpeed *PageSpeedClient

	tlsTimeout  time.Duration
	httpTimeout time.Duration
}

func NewAnalyzer(ps *PageSpeedClient) *Analyzer {
	return &Analyzer{
		PageSpeed:   ps,
		tlsTimeout:  10 * time.Second,
		httpTimeout: 15 * time.Second,
	}
}

// FullAudit runs every check against a website and combines the results.
// It always returns a usable snapshot; individual check failures degrade
// the relevant fields to their defaults.
func (a *Analyzer) FullAudit(ctx context.Context, target string) Snapshot {
	if !strings.HasPrefix(target, "http://") && !strings.HasPrefix(target, "https://") {
		target = "https://" + target
	}

	utils.Log.Infof("Starting full audit for: %s", target)

	snap := a.PageSpeed.Analyze(ctx, target)
	snap.URL = target

	hasSSL, sslValid, sslErr := a.checkTLS(ctx, target)
	snap.HasSSL = hasSSL
	snap.SSLValid = sslValid

	htmlBody := a.checkHTTP(ctx, target, &snap)

	meta := extractMeta(htmlBody)
	snap.HasTitle = meta.HasTitle
	snap.Title = meta.Title
	snap.HasMetaDescription = meta.HasMetaDescription
	snap.HasViewport = meta.HasViewport
	snap.HasOGTags = meta.HasOGTags
	snap.HasFavicon = meta.HasFavicon
	snap.H1Count = meta.H1Count

	mergeIssues(&snap, deriveIssues(snap, sslErr))

	utils.Log.Infof("Audit complete for %s - Performance: %d, SEO: %d",
		target, snap.PerformanceScore, snap.SEOScore)
	return snap
}

// checkTLS dials port 443 and verifies the certificate chain.
func (a *Analyzer) checkTLS(ctx context.Context, target string) (hasSSL, valid bool, errMsg string) {
	u, err := url.Parse(target)
	if err != nil || u.Hostname() == "" {
		return false, false, "unparseable URL"
	}
	host := u.Hostname()

	dialer := &net.Dialer{Timeout: a.tlsTimeout}
	conn, err := tls.DialWithDialer(dialer, "tcp", net.JoinHostPort(host, "443"), &tls.Config{ServerName: host})
	if err != nil {
		// A handshake that fails verification still proves a listener exists.
		var verifyErr *tls.CertificateVerificationError
		if errors.As(err, &verifyErr) {
			return true, false, err.Error()
		}
		return false, false, err.Error()
	}
	conn.Close()
	return true, true, ""
}

// checkHTTP fetches the landing page, filling in reachability, load time,
// redirect count and status code. Returns the (capped) HTML body.
func (a *Analyzer) checkHTTP(ctx context.Context, target string, snap *Snapshot) string {
	client := webfetch.NewClient(a.httpTimeout)
	res, err := webfetch.Send(ctx, &webfetch.Request{URL: target}, client)
	if err != nil {
		utils.Log.Warnf("HTTP check failed for %s: %v", target, err)
		if snap.Error == "" {
			snap.Error = err.Error()
		}
		return ""
	}

	snap.Reachable = true
	snap.StatusCode = res.StatusCode
	snap.LoadTimeMS = res.LoadTimeMS
	snap.Redirects = res.Redirects
	return res.BodyString
}

// deriveIssues adds findings from our own checks on top of whatever
// PageSpeed reported.
func deriveIssues(snap Snapshot, sslErr string) []Issue {
	var extra []Issue

	if !snap.SSLValid {
		details := sslErr
		if details == "" {
			details = "No valid SSL"
		}
		extra = append(extra, Issue{
			Issue:    "SSL certificate missing or invalid",
			Severity: SeverityCritical,
			Score:    0,
			Details:  details,
		})
	}

	if !snap.HasMetaDescription {
		extra = append(extra, Issue{
			Issue:    "Missing meta description",
			Severity: SeverityWarning,
			Score:    0,
			Details:  "Search engines use this for result snippets",
		})
	}

	if !snap.HasViewport {
		extra = append(extra, Issue{
			Issue:    "Missing viewport meta tag (not mobile optimized)",
			Severity: SeverityCritical,
			Score:    0,
			Details:  "Site will display poorly on mobile devices",
		})
	}

	if snap.H1Count == 0 {
		extra = append(extra, Issue{
			Issue:    "No H1 heading found",
			Severity: SeverityWarning,
			Score:    0,
			Details:  "Bad for SEO and content structure",
		})
	} else if snap.H1Count > 1 {
		extra = append(extra, Issue{
			Issue:    fmt.Sprintf("Multiple H1 headings found (%d)", snap.H1Count),
			Severity: SeverityWarning,
			Score:    30,
			Details:  "Best practice is one H1 per page",
		})
	}

	if !snap.HasOGTags {
		extra = append(extra, Issue{
			Issue:    "Missing Open Graph tags",
			Severity: SeverityWarning,
			Score:    20,
			Details:  "Social media shares will look unprofessional",
		})
	}

	if snap.LoadTimeMS > 3000 {
		severity := SeverityWarning
		if snap.LoadTimeMS > 5000 {
			severity = SeverityCritical
		}
		extra = append(extra, Issue{
			Issue:    fmt.Sprintf("Slow page load (%dms)", snap.LoadTimeMS),
			Severity: severity,
			Score:    20,
			Details:  "Users abandon sites that take over 3 seconds",
		})
	}

	if snap.Redirects > 2 {
		extra = append(extra, Issue{
			Issue:    fmt.Sprintf("Too many redirects (%d)", snap.Redirects),
			Severity: SeverityWarning,
			Score:    40,
			Details:  "Each redirect adds load time",
		})
	}

	return extra
}

// mergeIssues appends extra issues, skipping duplicates already reported
// by PageSpeed.
func mergeIssues(snap *Snapshot, extra []Issue) {
	seen := make(map[string]struct{}, len(snap.MajorIssues))
	for _, i := range snap.MajorIssues {
		seen[i.Issue] = struct{}{}
	}
	for _, i := range extra {
		if _, dup := seen[i.Issue]; dup {
			continue
		}
		snap.MajorIssues = append(snap.MajorIssues, i)
		seen[i.Issue] = struct{}{}
	}
}
