// Package audit collects website health data from multiple sources
// (PageSpeed Insights, TLS, plain HTTP) into a single snapshot.
package audit

// Issue severities. Critical issues drive priority escalation during scoring.
const (
	SeverityCritical = "critical"
	SeverityWarning  = "warning"
)

// Issue is a single actionable audit finding. These become the selling
// points for outreach.
type Issue struct {
	Issue    string `json:"issue"`
	Severity string `json:"severity"`
	Score    int    `json:"score"`
	Details  string `json:"details,omitempty"`
}

// Snapshot is a point-in-time report of a website's measured technical
// health. It is the input to lead scoring and is never mutated after it is
// built; re-auditing produces a fresh snapshot.
//
// Score fields are 0-100 with 0 meaning "absent or failed". LoadTimeMS <= 0
// means the load time is unknown.
type Snapshot struct {
	URL    string `json:"url"`
	Status string `json:"status"` // completed | failed

	PerformanceScore   int  `json:"performance_score"`
	SEOScore           int  `json:"seo_score"`
	AccessibilityScore int  `json:"accessibility_score"`
	BestPracticesScore int  `json:"best_practices_score"`
	MobileFriendly     bool `json:"mobile_friendly"`

	HasSSL   bool `json:"has_ssl"`
	SSLValid bool `json:"ssl_valid"`

	Reachable  bool `json:"reachable"`
	StatusCode int  `json:"status_code"`
	LoadTimeMS int  `json:"load_time_ms"`
	Redirects  int  `json:"redirects"`

	HasTitle           bool   `json:"has_title"`
	Title              string `json:"title,omitempty"`
	HasMetaDescription bool   `json:"has_meta_description"`
	HasViewport        bool   `json:"has_viewport"`
	HasOGTags          bool   `json:"has_og_tags"`
	HasFavicon         bool   `json:"has_favicon"`
	H1Count            int    `json:"h1_count"`

	MajorIssues []Issue `json:"major_issues"`

	Error string `json:"error,omitempty"`
}
