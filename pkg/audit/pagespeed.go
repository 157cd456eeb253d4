package audit

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"encoding/json"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/tidwall/gjson"

	"github.com/leadscope/leadscope/internal/utils"
	"github.com/leadscope/leadscope/pkg/webfetch"
)

const pageSpeedAPIURL = "https://www.googleapis.com/pagespeedonline/v5/runPagespeed"

// cacheMaxAge keeps PageSpeed results around for a month; audit data doesn't
// move fast enough to justify burning API quota on re-runs.
const cacheMaxAge = 30 * 24 * time.Hour

// pageSpeedChecks maps high-impact lighthouse audits to plain-English issue
// descriptions. A check whose score drops below 0.9 becomes an Issue.
var pageSpeedChecks = map[string]string{
	"meta-description":           "Missing meta description",
	"document-title":             "Missing or poor page title",
	"viewport":                   "Not mobile optimized (no viewport meta)",
	"image-alt":                  "Images missing alt text",
	"link-text":                  "Non-descriptive link text",
	"is-crawlable":               "Website blocks search engine crawling",
	"robots-txt":                 "Missing or misconfigured robots.txt",
	"canonical":                  "Missing canonical URL",
	"font-display":               "Font loading causes layout shift",
	"render-blocking-resources":  "Render-blocking CSS/JS slowing load",
	"uses-optimized-images":      "Unoptimized images increasing load time",
	"uses-responsive-images":     "Images not properly sized for device",
	"uses-text-compression":      "Text not compressed (missing gzip/brotli)",
	"efficient-animated-content": "Inefficient animated content",
	"unminified-css":             "CSS files not minified",
	"unminified-javascript":      "JavaScript files not minified",
	"unused-css-rules":           "Large amount of unused CSS",
	"unused-javascript":          "Large amount of unused JavaScript",
	"uses-long-cache-ttl":        "Static assets not cached properly",
	"redirects":                  "Multiple page redirects slowing load",
	"server-response-time":       "Slow server response time (TTFB)",
	"dom-size":                   "Excessively large DOM size",
	"http-status-code":           "Page returns unsuccessful HTTP status",
	"hreflang":                   "Missing hreflang tags for international SEO",
	"structured-data":            "Missing structured data markup",
}

// PageSpeedClient wraps the Google PageSpeed Insights v5 API.
type PageSpeedClient struct {
	APIKey   string
	Strategy string // mobile | desktop
	CacheDir string // empty disables the on-disk cache
	client   *retryablehttp.Client
}

func NewPageSpeedClient(apiKey, cacheDir string) *PageSpeedClient {
	return &PageSpeedClient{
		APIKey:   apiKey,
		Strategy: "mobile",
		CacheDir: cacheDir,
		client:   webfetch.NewClient(90 * time.Second),
	}
}

// Analyze runs a PageSpeed analysis and returns a snapshot carrying only the
// PageSpeed-derived fields. Failures produce a degraded snapshot with
// Status "failed" rather than an error: the audit pipeline keeps going and
// the scorer treats missing scores as zero.
func (c *PageSpeedClient) Analyze(ctx context.Context, target string) Snapshot {
	if cached, ok := c.loadCache(target); ok {
		utils.Log.Debugf("PageSpeed cache hit for %s", target)
		return cached
	}

	utils.Log.Infof("Running PageSpeed analysis: %s (%s)", target, c.Strategy)

	params := url.Values{}
	params.Set("url", target)
	params.Set("strategy", c.Strategy)
	for _, cat := range []string{"performance", "seo", "accessibility", "best-practices"} {
		params.Add("category", cat)
	}
	if c.APIKey != "" {
		params.Set("key", c.APIKey)
	}

	res, err := webfetch.Send(ctx, &webfetch.Request{URL: pageSpeedAPIURL + "?" + params.Encode()}, c.client)
	if err != nil {
		utils.Log.Errorf("PageSpeed request failed for %s: %v", target, err)
		return failedSnapshot(target, err.Error())
	}

	if res.StatusCode == 429 {
		utils.Log.Warnf("PageSpeed API rate limited for %s", target)
		return failedSnapshot(target, "rate limited by API (quota exceeded)")
	}
	if res.StatusCode != 200 {
		utils.Log.Errorf("PageSpeed API HTTP %d for %s", res.StatusCode, target)
		return failedSnapshot(target, fmt.Sprintf("HTTP error: %d", res.StatusCode))
	}

	snap := parsePageSpeed(res.BodyString, target)
	c.saveCache(target, snap)
	return snap
}

func parsePageSpeed(body, target string) Snapshot {
	categories := gjson.Get(body, "lighthouseResult.categories")
	audits := gjson.Get(body, "lighthouseResult.audits")

	snap := Snapshot{
		URL:                target,
		Status:             "completed",
		PerformanceScore:   categoryScore(categories.Get("performance")),
		SEOScore:           categoryScore(categories.Get("seo")),
		AccessibilityScore: categoryScore(categories.Get("accessibility")),
		BestPracticesScore: categoryScore(categories.Get("best-practices")),
	}

	// Viewport audit doubles as the mobile-friendliness signal.
	snap.MobileFriendly = audits.Get("viewport.score").Float() == 1

	snap.MajorIssues = extractIssues(audits)
	return snap
}

func categoryScore(category gjson.Result) int {
	score := category.Get("score")
	if !score.Exists() {
		return 0
	}
	return int(score.Float() * 100)
}

func extractIssues(audits gjson.Result) []Issue {
	var issues []Issue
	for key, description := range pageSpeedChecks {
		a := audits.Get(key)
		if !a.Exists() {
			continue
		}
		score := a.Get("score")
		if !score.Exists() || score.Float() >= 0.9 {
			continue
		}
		severity := SeverityWarning
		if score.Float() == 0 {
			severity = SeverityCritical
		}
		issues = append(issues, Issue{
			Issue:    description,
			Severity: severity,
			Score:    int(score.Float() * 100),
			Details:  a.Get("displayValue").String(),
		})
	}

	// Critical first, then worst score first, stable by description.
	sort.SliceStable(issues, func(i, j int) bool {
		if issues[i].Severity != issues[j].Severity {
			return issues[i].Severity == SeverityCritical
		}
		if issues[i].Score != issues[j].Score {
			return issues[i].Score < issues[j].Score
		}
		return issues[i].Issue < issues[j].Issue
	})
	return issues
}

func failedSnapshot(target, errMsg string) Snapshot {
	return Snapshot{URL: target, Status: "failed", Error: errMsg}
}

func (c *PageSpeedClient) cachePath(target string) string {
	name := strings.TrimPrefix(strings.TrimPrefix(target, "https://"), "http://")
	name = strings.NewReplacer("/", "_", ".", "_", ":", "_").Replace(name)
	if len(name) > 80 {
		name = name[:80]
	}
	return filepath.Join(c.CacheDir, name+".json")
}

func (c *PageSpeedClient) loadCache(target string) (Snapshot, bool) {
	if c.CacheDir == "" {
		return Snapshot{}, false
	}
	path := c.cachePath(target)
	info, err := os.Stat(path)
	if err != nil || time.Since(info.ModTime()) > cacheMaxAge {
		return Snapshot{}, false
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Snapshot{}, false
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return Snapshot{}, false
	}
	return snap, true
}

func (c *PageSpeedClient) saveCache(target string, snap Snapshot) {
	if c.CacheDir == "" || snap.Status != "completed" {
		return
	}
	if err := os.MkdirAll(c.CacheDir, 0o755); err != nil {
		utils.Log.Warnf("Failed to create cache dir: %v", err)
		return
	}
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return
	}
	if err := os.WriteFile(c.cachePath(target), data, 0o644); err != nil {
		utils.Log.Warnf("Failed to save PageSpeed cache for %s: %v", target, err)
	}
}
