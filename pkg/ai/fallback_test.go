package ai

import (
	"strings"
	"testing"

	"github.com/leadscope/leadscope/pkg/audit"
	"github.com/leadscope/leadscope/pkg/leadscore"
)

func TestFallbackSummaryUrgencyTiers(t *testing.T) {
	lead := LeadInfo{BusinessName: "Joe's Pizza", Industry: "restaurant", Location: "Portland"}

	tests := []struct {
		composite int
		urgency   string
	}{
		{30, "high"},
		{60, "medium"},
		{80, "low"},
	}
	for _, tt := range tests {
		s := FallbackSummary(lead, audit.Snapshot{}, leadscore.Result{CompositeScore: tt.composite})
		if s.Urgency != tt.urgency {
			t.Fatalf("composite %d: urgency = %q, want %q", tt.composite, s.Urgency, tt.urgency)
		}
		if !strings.Contains(s.Summary, "Joe's Pizza") {
			t.Fatalf("summary should name the business: %q", s.Summary)
		}
	}
}

func TestFallbackSummaryProblems(t *testing.T) {
	snap := audit.Snapshot{
		LoadTimeMS:         4200,
		SSLValid:           false,
		MobileFriendly:     false,
		HasTitle:           true,
		HasMetaDescription: true,
		HasOGTags:          true,
	}
	s := FallbackSummary(LeadInfo{BusinessName: "X"}, snap, leadscore.Result{CompositeScore: 40})

	joined := strings.Join(s.TopProblems, " | ")
	if !strings.Contains(joined, "4.2 seconds") {
		t.Fatalf("slow load not translated: %q", joined)
	}
	if !strings.Contains(joined, "Not Secure") {
		t.Fatalf("SSL problem not translated: %q", joined)
	}
	if !strings.Contains(joined, "phones") {
		t.Fatalf("mobile problem not translated: %q", joined)
	}
	if strings.Contains(joined, "description to show") {
		t.Fatalf("meta description should not be flagged when present: %q", joined)
	}
}

func TestFallbackSummaryHealthySiteStillHasProblems(t *testing.T) {
	snap := audit.Snapshot{
		LoadTimeMS: 500, SSLValid: true, MobileFriendly: true,
		HasTitle: true, HasMetaDescription: true, HasOGTags: true,
	}
	s := FallbackSummary(LeadInfo{BusinessName: "X"}, snap, leadscore.Result{CompositeScore: 75})
	if len(s.TopProblems) == 0 {
		t.Fatal("fallback summary must always carry at least one problem")
	}
}

func TestFallbackEmail(t *testing.T) {
	lead := LeadInfo{BusinessName: "Joe's Pizza", Industry: "restaurant", Location: "Portland"}
	summary := &Summary{
		TopProblems: []string{
			"your website takes 4.2 seconds to load, most visitors leave after 3",
			"Google has no description to show for your site in search results",
		},
		Urgency: "high",
	}

	draft := FallbackEmail(lead, summary, "Sam Rivera")

	if !strings.Contains(draft.SubjectLine, "Joe's Pizza") {
		t.Fatalf("subject should name the business: %q", draft.SubjectLine)
	}
	if !strings.Contains(draft.SubjectLine, "losing visitors") {
		t.Fatalf("load problem should drive the subject: %q", draft.SubjectLine)
	}
	for _, want := range []string{
		"Joe's Pizza", "restaurant", "Portland",
		"The main one: your website takes 4.2 seconds",
		"Sam Rivera", "unsubscribe",
	} {
		if !strings.Contains(draft.EmailBody, want) {
			t.Fatalf("email body missing %q:\n%s", want, draft.EmailBody)
		}
	}
}

func TestFallbackEmailSubjectSelection(t *testing.T) {
	lead := LeadInfo{BusinessName: "Acme"}

	tests := []struct {
		problem string
		want    string
	}{
		{"Google has no description to show", "local search"},
		{`visitors see a "Not Secure" warning`, "security warning"},
		{"something unrelated", "Spotted something"},
	}
	for _, tt := range tests {
		draft := FallbackEmail(lead, &Summary{TopProblems: []string{tt.problem}}, "Sam")
		if !strings.Contains(draft.SubjectLine, tt.want) {
			t.Fatalf("problem %q: subject = %q, want it to contain %q", tt.problem, draft.SubjectLine, tt.want)
		}
	}
}

func TestFallbackEmailNoProblems(t *testing.T) {
	draft := FallbackEmail(LeadInfo{BusinessName: "Acme"}, &Summary{}, "Sam")
	if !strings.Contains(draft.EmailBody, "a few things that might be costing you customers") {
		t.Fatalf("empty problems should use the generic opener:\n%s", draft.EmailBody)
	}
}
