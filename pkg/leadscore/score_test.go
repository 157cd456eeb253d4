package leadscore

import (
	"math"
	"reflect"
	"testing"

	"github.com/leadscope/leadscope/pkg/audit"
)

// perfectSnapshot scores 100 in every category.
func perfectSnapshot() audit.Snapshot {
	return audit.Snapshot{
		PerformanceScore:   100,
		SEOScore:           100,
		AccessibilityScore: 100,
		MobileFriendly:     true,
		SSLValid:           true,
		HasTitle:           true,
		HasMetaDescription: true,
		HasViewport:        true,
		HasOGTags:          true,
		HasFavicon:         true,
		LoadTimeMS:         800,
	}
}

func criticalIssues(n int) []audit.Issue {
	issues := make([]audit.Issue, n)
	for i := range issues {
		issues[i] = audit.Issue{Issue: "issue", Severity: audit.SeverityCritical}
	}
	return issues
}

func TestScoreEmptySnapshot(t *testing.T) {
	r := Score(audit.Snapshot{})

	// Only the neutral load-speed score contributes: 50 * 0.05 = 2.5,
	// rounded half away from zero.
	if r.CompositeScore != 3 {
		t.Fatalf("composite = %d, want 3", r.CompositeScore)
	}
	if r.Priority != PriorityHot {
		t.Fatalf("priority = %s, want HOT", r.Priority)
	}
	if r.IndividualScores[CategoryLoadSpeed] != 50 {
		t.Fatalf("unknown load time scored %d, want neutral 50", r.IndividualScores[CategoryLoadSpeed])
	}
	for _, cat := range []string{CategoryPerformance, CategorySEO, CategoryAccessibility, CategoryMobile, CategorySSL, CategoryMetaQuality} {
		if r.IndividualScores[cat] != 0 {
			t.Fatalf("%s = %d, want 0", cat, r.IndividualScores[cat])
		}
	}
	if r.TotalIssues != 0 || r.CriticalIssues != 0 || r.WarningIssues != 0 {
		t.Fatalf("issue counts = %d/%d/%d, want all zero", r.TotalIssues, r.CriticalIssues, r.WarningIssues)
	}
}

func TestScoreWorstSnapshot(t *testing.T) {
	r := Score(audit.Snapshot{LoadTimeMS: 6000})

	if r.CompositeScore != 0 {
		t.Fatalf("composite = %d, want 0", r.CompositeScore)
	}
	if r.Priority != PriorityHot {
		t.Fatalf("priority = %s, want HOT", r.Priority)
	}
	if r.QualificationScore != 100 {
		t.Fatalf("qualification = %d, want 100", r.QualificationScore)
	}
}

func TestScorePerfectSnapshot(t *testing.T) {
	r := Score(perfectSnapshot())

	if r.CompositeScore != 100 {
		t.Fatalf("composite = %d, want 100", r.CompositeScore)
	}
	if r.Priority != PrioritySkip {
		t.Fatalf("priority = %s, want SKIP", r.Priority)
	}
	if r.QualificationScore != 0 {
		t.Fatalf("qualification = %d, want 0", r.QualificationScore)
	}
}

func TestPriorityBoundaries(t *testing.T) {
	// Each snapshot is constructed so the weighted composite lands exactly
	// on (or just beside) a tier boundary.
	tests := []struct {
		name      string
		snap      audit.Snapshot
		composite int
		priority  Priority
	}{
		{
			// 0.25*40 + 15 + 10 + 10 + 5 = 50
			name: "exactly 50 is WARM",
			snap: audit.Snapshot{
				PerformanceScore: 40, MobileFriendly: true, SSLValid: true,
				HasTitle: true, HasMetaDescription: true, HasViewport: true,
				HasOGTags: true, HasFavicon: true, LoadTimeMS: 900,
			},
			composite: 50,
			priority:  PriorityWarm,
		},
		{
			// 0.25*80 + 0.20*100 + 15 + 10 + 5 = 70
			name: "exactly 70 is COLD",
			snap: audit.Snapshot{
				PerformanceScore: 80, SEOScore: 100,
				MobileFriendly: true, SSLValid: true, LoadTimeMS: 900,
			},
			composite: 70,
			priority:  PriorityCold,
		},
		{
			// 25 + 20 + 15 + 15 + 10 = 85 (load time 5000ms scores 0)
			name: "exactly 85 is SKIP",
			snap: audit.Snapshot{
				PerformanceScore: 100, SEOScore: 100, AccessibilityScore: 100,
				MobileFriendly: true, SSLValid: true, LoadTimeMS: 5000,
			},
			composite: 85,
			priority:  PrioritySkip,
		},
		{
			// As above with performance 96: 24 + 60 = 84
			name: "84 is COLD",
			snap: audit.Snapshot{
				PerformanceScore: 96, SEOScore: 100, AccessibilityScore: 100,
				MobileFriendly: true, SSLValid: true, LoadTimeMS: 5000,
			},
			composite: 84,
			priority:  PriorityCold,
		},
		{
			// Performance 98 gives 84.5, which rounds half away from zero
			// to 85. Pins the rounding rule.
			name: "84.5 rounds up to SKIP",
			snap: audit.Snapshot{
				PerformanceScore: 98, SEOScore: 100, AccessibilityScore: 100,
				MobileFriendly: true, SSLValid: true, LoadTimeMS: 5000,
			},
			composite: 85,
			priority:  PrioritySkip,
		},
		{
			// 0.25*36 = 9, plus 15+10+10+5 = 49
			name: "49 is HOT",
			snap: audit.Snapshot{
				PerformanceScore: 36, MobileFriendly: true, SSLValid: true,
				HasTitle: true, HasMetaDescription: true, HasViewport: true,
				HasOGTags: true, HasFavicon: true, LoadTimeMS: 900,
			},
			composite: 49,
			priority:  PriorityHot,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Score(tt.snap)
			if r.CompositeScore != tt.composite {
				t.Fatalf("composite = %d, want %d", r.CompositeScore, tt.composite)
			}
			if r.Priority != tt.priority {
				t.Fatalf("priority = %s, want %s", r.Priority, tt.priority)
			}
		})
	}
}

func TestCriticalEscalation(t *testing.T) {
	// Composite 70 (COLD tier) regardless of issues.
	coldSnap := func(n int) audit.Snapshot {
		return audit.Snapshot{
			PerformanceScore: 80, SEOScore: 100,
			MobileFriendly: true, SSLValid: true, LoadTimeMS: 900,
			MajorIssues: criticalIssues(n),
		}
	}

	tests := []struct {
		criticals int
		want      Priority
	}{
		{0, PriorityCold},
		{2, PriorityCold},
		{3, PriorityWarm},
		{4, PriorityWarm},
		{5, PriorityHot},
		{8, PriorityHot},
	}
	for _, tt := range tests {
		r := Score(coldSnap(tt.criticals))
		if r.Priority != tt.want {
			t.Fatalf("%d criticals: priority = %s, want %s", tt.criticals, r.Priority, tt.want)
		}
		if r.CriticalIssues != tt.criticals {
			t.Fatalf("critical count = %d, want %d", r.CriticalIssues, tt.criticals)
		}
	}
}

func TestEscalationDoesNotPromoteSkip(t *testing.T) {
	// A SKIP-tier website with 3 criticals stays SKIP: the COLD->WARM rule
	// only fires from COLD, and <5 criticals never forces HOT.
	snap := perfectSnapshot()
	snap.MajorIssues = criticalIssues(3)

	if r := Score(snap); r.Priority != PrioritySkip {
		t.Fatalf("priority = %s, want SKIP", r.Priority)
	}

	// 5 criticals overrides everything.
	snap.MajorIssues = criticalIssues(5)
	if r := Score(snap); r.Priority != PriorityHot {
		t.Fatalf("priority = %s, want HOT", r.Priority)
	}
}

func TestQualificationScore(t *testing.T) {
	tests := []struct {
		composite int
		criticals int
		want      int
	}{
		{50, 0, 50},
		{70, 2, 40},    // 100-70+10
		{70, 10, 55},   // boost capped at 25
		{3, 6, 100},    // 97+25 clamps to 100
		{100, 0, 0},
	}
	for _, tt := range tests {
		got := qualificationScore(tt.composite, tt.criticals)
		if got != tt.want {
			t.Fatalf("qualificationScore(%d, %d) = %d, want %d", tt.composite, tt.criticals, got, tt.want)
		}
	}
}

func TestLoadSpeedScore(t *testing.T) {
	tests := []struct {
		ms   int
		want int
	}{
		{0, 50},    // unknown
		{-1, 50},   // unknown
		{1, 100},
		{1000, 100},
		{1001, 99},
		{3000, 50},
		{4999, 0}, // 100 - (3999/4000)*100 = 0.025, truncated
		{5000, 0},
		{9000, 0},
	}
	for _, tt := range tests {
		got := loadSpeedScore(tt.ms)
		if got != tt.want {
			t.Fatalf("loadSpeedScore(%d) = %d, want %d", tt.ms, got, tt.want)
		}
	}
}

func TestRecommendServiceWeakestCategory(t *testing.T) {
	tests := []struct {
		name   string
		scores map[string]int
		want   string
	}{
		{
			name: "seo lowest",
			scores: map[string]int{
				CategoryPerformance: 90, CategorySEO: 10, CategoryAccessibility: 80,
				CategoryMobile: 100, CategorySSL: 100, CategoryMetaQuality: 60, CategoryLoadSpeed: 0,
			},
			want: "SEO Improvement",
		},
		{
			name: "load_speed excluded even when lowest",
			scores: map[string]int{
				CategoryPerformance: 70, CategorySEO: 80, CategoryAccessibility: 90,
				CategoryMobile: 100, CategorySSL: 100, CategoryMetaQuality: 85, CategoryLoadSpeed: 0,
			},
			want: "Performance Optimization",
		},
		{
			name: "tie resolves to earliest category",
			scores: map[string]int{
				CategoryPerformance: 0, CategorySEO: 0, CategoryAccessibility: 0,
				CategoryMobile: 0, CategorySSL: 0, CategoryMetaQuality: 0, CategoryLoadSpeed: 50,
			},
			want: "Performance Optimization",
		},
		{
			name: "mobile and ssl tie picks mobile",
			scores: map[string]int{
				CategoryPerformance: 90, CategorySEO: 90, CategoryAccessibility: 90,
				CategoryMobile: 0, CategorySSL: 0, CategoryMetaQuality: 90, CategoryLoadSpeed: 100,
			},
			want: "Mobile Responsiveness",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RecommendService(tt.scores); got != tt.want {
				t.Fatalf("RecommendService = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestMetaQualityScoring(t *testing.T) {
	snap := audit.Snapshot{HasTitle: true, HasViewport: true, HasFavicon: true}
	r := Score(snap)
	if r.IndividualScores[CategoryMetaQuality] != 60 {
		t.Fatalf("meta_quality = %d, want 60 (3 of 5 checks)", r.IndividualScores[CategoryMetaQuality])
	}
}

func TestScoreClampsOutOfRangeInputs(t *testing.T) {
	snap := audit.Snapshot{PerformanceScore: 150, SEOScore: -20}
	r := Score(snap)
	if r.IndividualScores[CategoryPerformance] != 100 {
		t.Fatalf("performance = %d, want clamped 100", r.IndividualScores[CategoryPerformance])
	}
	if r.IndividualScores[CategorySEO] != 0 {
		t.Fatalf("seo = %d, want clamped 0", r.IndividualScores[CategorySEO])
	}
}

func TestScoreIsPureAndDeterministic(t *testing.T) {
	snap := perfectSnapshot()
	snap.PerformanceScore = 42
	snap.MajorIssues = []audit.Issue{
		{Issue: "a", Severity: audit.SeverityCritical},
		{Issue: "b", Severity: audit.SeverityWarning},
	}
	before := snap

	first := Score(snap)
	second := Score(snap)

	if !reflect.DeepEqual(first, second) {
		t.Fatalf("two calls disagreed.\nfirst:  %#v\nsecond: %#v", first, second)
	}
	if !reflect.DeepEqual(snap, before) {
		t.Fatal("Score mutated its input snapshot")
	}
	if first.WarningIssues != 1 || first.CriticalIssues != 1 || first.TotalIssues != 2 {
		t.Fatalf("issue counts = %d/%d/%d, want 1 critical, 1 warning, 2 total",
			first.CriticalIssues, first.WarningIssues, first.TotalIssues)
	}
}

func TestCompositeMonotonicInCategoryScores(t *testing.T) {
	base := audit.Snapshot{
		PerformanceScore: 30, SEOScore: 40, AccessibilityScore: 50, LoadTimeMS: 2000,
	}
	baseComposite := Score(base).CompositeScore

	bump := []audit.Snapshot{base, base, base, base, base}
	bump[0].PerformanceScore = 80
	bump[1].SEOScore = 90
	bump[2].AccessibilityScore = 100
	bump[3].MobileFriendly = true
	bump[4].SSLValid = true

	for i, snap := range bump {
		if got := Score(snap).CompositeScore; got < baseComposite {
			t.Fatalf("case %d: raising one category dropped composite from %d to %d", i, baseComposite, got)
		}
	}
}

func TestQualificationNonIncreasingInComposite(t *testing.T) {
	for _, criticals := range []int{0, 3, 7} {
		prev := qualificationScore(0, criticals)
		for composite := 1; composite <= 100; composite++ {
			got := qualificationScore(composite, criticals)
			if got > prev {
				t.Fatalf("qualification rose from %d to %d at composite %d (criticals %d)",
					prev, got, composite, criticals)
			}
			prev = got
		}
	}
}

func TestWeightsSumToOne(t *testing.T) {
	// Sum in the same fixed Categories order Score uses, with an epsilon:
	// summing in map order would make this test (and the composite) depend
	// on Go's randomized map iteration.
	var sum float64
	for _, cat := range Categories {
		sum += weights[cat]
	}
	if math.Abs(sum-1.0) > 1e-9 {
		t.Fatalf("weights sum to %v, want 1.0", sum)
	}
	if len(weights) != len(Categories) {
		t.Fatalf("weights has %d entries, Categories has %d", len(weights), len(Categories))
	}
}

func TestCompositeStableAcrossManyCalls(t *testing.T) {
	snap := audit.Snapshot{
		PerformanceScore: 73, SEOScore: 61, AccessibilityScore: 88,
		MobileFriendly: true, SSLValid: true,
		HasTitle: true, HasOGTags: true, LoadTimeMS: 2600,
	}
	want := Score(snap).CompositeScore
	for i := 0; i < 100; i++ {
		if got := Score(snap).CompositeScore; got != want {
			t.Fatalf("call %d: composite = %d, want %d", i, got, want)
		}
	}
}
