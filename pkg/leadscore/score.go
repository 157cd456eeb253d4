// Package leadscore turns a website audit snapshot into an outreach priority.
// Scoring is fully deterministic: numbers decide who gets contacted, the AI
// layer only writes the words afterwards.
package leadscore

import (
	"math"

	"github.com/leadscope/leadscope/pkg/audit"
)

// Priority classifies how urgently a lead is worth contacting.
//
//	HOT  (composite 0-49):   terrible website, high conversion potential
//	WARM (composite 50-69):  weak website, clear improvement areas
//	COLD (composite 70-84):  decent website, lower urgency
//	SKIP (composite 85-100): good website, don't waste outreach
type Priority string

const (
	PriorityHot  Priority = "HOT"
	PriorityWarm Priority = "WARM"
	PriorityCold Priority = "COLD"
	PrioritySkip Priority = "SKIP"
)

// Category names for the individual score breakdown. The order of this slice
// is part of the contract: service recommendation walks it top to bottom and
// the first minimum wins, so ties always resolve the same way.
const (
	CategoryPerformance   = "performance"
	CategorySEO           = "seo"
	CategoryAccessibility = "accessibility"
	CategoryMobile        = "mobile"
	CategorySSL           = "ssl"
	CategoryMetaQuality   = "meta_quality"
	CategoryLoadSpeed     = "load_speed"
)

// Categories lists every scored category in canonical order.
var Categories = []string{
	CategoryPerformance,
	CategorySEO,
	CategoryAccessibility,
	CategoryMobile,
	CategorySSL,
	CategoryMetaQuality,
	CategoryLoadSpeed,
}

// weights for the composite score. Must sum to exactly 1.0.
var weights = map[string]float64{
	CategoryPerformance:   0.25,
	CategorySEO:           0.20,
	CategoryAccessibility: 0.15,
	CategoryMobile:        0.15,
	CategorySSL:           0.10,
	CategoryMetaQuality:   0.10,
	CategoryLoadSpeed:     0.05,
}

// servicePitches maps each category (load_speed excluded: it never drives a
// pitch on its own) to the remediation offer that addresses it.
var servicePitches = map[string]ServicePitch{
	CategoryPerformance: {
		Service: "Performance Optimization",
		Pitch:   "Your website loads slowly, causing visitors to leave before seeing your services.",
	},
	CategorySEO: {
		Service: "SEO Improvement",
		Pitch:   "Your website is nearly invisible in search results. Competitors are getting your potential customers.",
	},
	CategoryAccessibility: {
		Service: "Accessibility & UX Fix",
		Pitch:   "Your website has accessibility issues that could limit your audience and create legal risk.",
	},
	CategoryMobile: {
		Service: "Mobile Responsiveness",
		Pitch:   "Over 60% of web traffic is mobile. Your website doesn't work properly on phones.",
	},
	CategorySSL: {
		Service: "Security Setup",
		Pitch:   "Your website shows a \"Not Secure\" warning to visitors, destroying trust immediately.",
	},
	CategoryMetaQuality: {
		Service: "SEO Foundation",
		Pitch:   "Your website is missing basic SEO tags that search engines need to find and display your business.",
	},
}

// DefaultService is pitched when no category matches (should not happen with
// the fixed category set, but the lookup never fails).
const DefaultService = "Website Improvement"

// ServicePitch is a remediation offer tied to a weak audit category.
type ServicePitch struct {
	Service string
	Pitch   string
}

// Result is the immutable output of a single scoring call.
type Result struct {
	CompositeScore     int            `json:"composite_score"`
	Priority           Priority       `json:"priority"`
	IndividualScores   map[string]int `json:"individual_scores"`
	CriticalIssues     int            `json:"critical_issues"`
	WarningIssues      int            `json:"warning_issues"`
	TotalIssues        int            `json:"total_issues"`
	RecommendedService string         `json:"recommended_service"`
	QualificationScore int            `json:"qualification_score"`
}

// Score computes a deterministic lead score from an audit snapshot.
// It is pure and total: absent snapshot fields degrade to their documented
// defaults and the function never fails.
func Score(snap audit.Snapshot) Result {
	scores := categoryScores(snap)

	// Weighted composite, rounded half away from zero. The tier boundaries
	// (50, 70, 85) are rounding-sensitive, so the rounding rule is pinned
	// by tests and must not change silently. Summation follows the fixed
	// Categories order: float addition is not associative, and map
	// iteration order would make the result depend on the run.
	var composite float64
	for _, cat := range Categories {
		composite += float64(scores[cat]) * weights[cat]
	}
	compositeScore := int(math.Round(composite))

	priority := classify(compositeScore)

	criticalCount := 0
	warningCount := 0
	for _, issue := range snap.MajorIssues {
		switch issue.Severity {
		case audit.SeverityCritical:
			criticalCount++
		case audit.SeverityWarning:
			warningCount++
		}
	}

	// Escalate on critical mass even when the raw scores look mediocre.
	// Order matters: the >=5 rule overrides whatever came before it.
	if criticalCount >= 3 && priority == PriorityCold {
		priority = PriorityWarm
	}
	if criticalCount >= 5 {
		priority = PriorityHot
	}

	return Result{
		CompositeScore:     compositeScore,
		Priority:           priority,
		IndividualScores:   scores,
		CriticalIssues:     criticalCount,
		WarningIssues:      warningCount,
		TotalIssues:        len(snap.MajorIssues),
		RecommendedService: RecommendService(scores),
		QualificationScore: qualificationScore(compositeScore, criticalCount),
	}
}

func categoryScores(snap audit.Snapshot) map[string]int {
	scores := map[string]int{
		CategoryPerformance:   clampScore(snap.PerformanceScore),
		CategorySEO:           clampScore(snap.SEOScore),
		CategoryAccessibility: clampScore(snap.AccessibilityScore),
	}

	if snap.MobileFriendly {
		scores[CategoryMobile] = 100
	} else {
		scores[CategoryMobile] = 0
	}

	if snap.SSLValid {
		scores[CategorySSL] = 100
	} else {
		scores[CategorySSL] = 0
	}

	// 5 checks x 20 points = 100
	meta := 0
	for _, ok := range []bool{snap.HasTitle, snap.HasMetaDescription, snap.HasViewport, snap.HasOGTags, snap.HasFavicon} {
		if ok {
			meta += 20
		}
	}
	scores[CategoryMetaQuality] = meta

	scores[CategoryLoadSpeed] = loadSpeedScore(snap.LoadTimeMS)

	return scores
}

// loadSpeedScore converts a load time to a 0-100 score: <=1000ms is 100,
// >=5000ms is 0, linear in between (truncated). An unknown load time
// (ms <= 0) scores a neutral 50.
func loadSpeedScore(ms int) int {
	switch {
	case ms <= 0:
		return 50
	case ms <= 1000:
		return 100
	case ms >= 5000:
		return 0
	default:
		return int(100 - (float64(ms-1000)/4000)*100)
	}
}

func classify(score int) Priority {
	switch {
	case score < 50:
		return PriorityHot
	case score < 70:
		return PriorityWarm
	case score < 85:
		return PriorityCold
	default:
		return PrioritySkip
	}
}

// qualificationScore inverts website quality into outreach urgency, with a
// capped boost so a pile of critical defects can't push it past 100.
func qualificationScore(composite, criticalCount int) int {
	boost := criticalCount * 5
	if boost > 25 {
		boost = 25
	}
	q := 100 - composite + boost
	if q > 100 {
		q = 100
	}
	if q < 0 {
		q = 0
	}
	return q
}

// RecommendService picks the service addressing the weakest category.
// load_speed is excluded (it's minor on its own) and ties resolve to the
// earliest category in canonical order.
func RecommendService(scores map[string]int) string {
	weakest := ""
	weakestScore := 0
	for _, cat := range Categories {
		if cat == CategoryLoadSpeed {
			continue
		}
		s, ok := scores[cat]
		if !ok {
			continue
		}
		if weakest == "" || s < weakestScore {
			weakest = cat
			weakestScore = s
		}
	}

	if pitch, ok := servicePitches[weakest]; ok {
		return pitch.Service
	}
	return DefaultService
}

// PitchFor returns the sales pitch backing a recommended service label.
func PitchFor(service string) (ServicePitch, bool) {
	for _, p := range servicePitches {
		if p.Service == service {
			return p, true
		}
	}
	return ServicePitch{}, false
}

func clampScore(s int) int {
	if s < 0 {
		return 0
	}
	if s > 100 {
		return 100
	}
	return s
}
