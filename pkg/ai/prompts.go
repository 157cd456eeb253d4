package ai

import (
	"fmt"
	"strings"

	"github.com/leadscope/leadscope/pkg/audit"
)

// Prompt builders. Each one forces strict JSON output so the response can be
// unmarshaled directly.

func summaryPrompt(lead LeadInfo, snap audit.Snapshot) string {
	industry := orDefault(lead.Industry, "business")
	location := orDefault(lead.Location, "unknown")

	var issues strings.Builder
	max := len(snap.MajorIssues)
	if max > 10 {
		max = 10
	}
	for _, issue := range snap.MajorIssues[:max] {
		fmt.Fprintf(&issues, "- [%s] %s\n", strings.ToUpper(issue.Severity), issue.Issue)
	}
	if issues.Len() == 0 {
		issues.WriteString("- No major issues detected\n")
	}

	loadTime := "N/A"
	if snap.LoadTimeMS > 0 {
		loadTime = fmt.Sprintf("%dms", snap.LoadTimeMS)
	}

	return fmt.Sprintf(`Analyze this website audit for a %s business and provide a brief, professional summary.

BUSINESS: %s
INDUSTRY: %s
LOCATION: %s

AUDIT SCORES:
- Performance: %d/100
- SEO: %d/100
- Accessibility: %d/100
- Mobile Friendly: %s
- SSL Valid: %s
- Page Load: %s

ISSUES FOUND:
%s
Respond in EXACTLY this JSON format:
{
    "summary": "2-3 sentence plain English summary of the website's condition",
    "business_impact": "1-2 sentences explaining how these issues hurt their business specifically as a %s",
    "top_problems": ["problem 1 in plain English", "problem 2", "problem 3"],
    "urgency": "high" or "medium" or "low"
}

Rules:
- Write for a non-technical business owner
- Be factual, not alarmist
- Reference their specific industry
- Keep it under 150 words total
- Output ONLY valid JSON, no other text`,
		industry, lead.BusinessName, industry, location,
		snap.PerformanceScore, snap.SEOScore, snap.AccessibilityScore,
		yesNo(snap.MobileFriendly), yesNo(snap.SSLValid), loadTime,
		issues.String(), industry)
}

func emailPrompt(lead LeadInfo, summary *Summary, service, senderName string) string {
	industry := orDefault(lead.Industry, "business")
	location := orDefault(lead.Location, "unknown")

	problems := summary.TopProblems
	if len(problems) == 0 {
		problems = []string{"website performance issues"}
	}
	if len(problems) > 3 {
		problems = problems[:3]
	}
	var problemsText strings.Builder
	for _, p := range problems {
		fmt.Fprintf(&problemsText, "- %s\n", p)
	}

	impact := orDefault(summary.BusinessImpact, "Their website may be underperforming.")
	urgency := orDefault(summary.Urgency, "medium")

	return fmt.Sprintf(`Write a short, professional outreach email to a %s business owner.

RECIPIENT:
- Business: %s
- Industry: %s
- Location: %s

THEIR WEBSITE ISSUES:
%s
Business Impact: %s
Urgency: %s

SERVICE OFFERED: %s
SENDER: %s

Respond in EXACTLY this JSON format:
{
    "subject_line": "Email subject - specific to their business, not generic",
    "email_body": "The full email text"
}

EMAIL RULES:
- Maximum 150 words for the body
- Open with a specific observation about THEIR website (not generic)
- Include a subtle authority line like "I run performance audits for small local businesses"
- Mention ONE concrete problem and its business impact
- Frame the loss competitively: "visitors tend to check the next option" or "that traffic goes to a competitor"
- Include a brief social proof hint: "I've helped similar local businesses improve..."
- Offer a quick call, not a hard sell
- Tone: helpful professional, not salesy
- NO fake urgency or pressure tactics
- NO "I noticed your website" cliche opener
- End with a clear but low-pressure close like "If you're open to it, I can show you exactly what I found."
- Include an unsubscribe note at the bottom
- Sound like a real person, not an AI
- Output ONLY valid JSON, no other text`,
		industry, lead.BusinessName, industry, location,
		problemsText.String(), impact, urgency, service, senderName)
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}
