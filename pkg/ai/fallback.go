package ai

import (
	"fmt"
	"strings"

	"github.com/leadscope/leadscope/pkg/audit"
	"github.com/leadscope/leadscope/pkg/leadscore"
)

// FallbackSummary translates raw audit data into business language without an
// LLM. Used when no provider is configured or the API call fails.
func FallbackSummary(lead LeadInfo, snap audit.Snapshot, scoring leadscore.Result) *Summary {
	score := scoring.CompositeScore
	location := orDefault(lead.Location, "the area")
	industry := orDefault(lead.Industry, "business")

	var problems []string
	if snap.LoadTimeMS > 3000 {
		problems = append(problems, fmt.Sprintf(
			"your website takes %.1f seconds to load, most visitors leave after 3",
			float64(snap.LoadTimeMS)/1000))
	}
	if !snap.HasMetaDescription {
		problems = append(problems, "Google has no description to show for your site in search results")
	}
	if !snap.HasTitle {
		problems = append(problems, "your website doesn't have a proper page title for search engines")
	}
	if !snap.MobileFriendly {
		problems = append(problems, "your site may not display correctly on phones")
	}
	if !snap.SSLValid {
		problems = append(problems, `visitors see a "Not Secure" warning when they visit your site`)
	}
	if !snap.HasOGTags {
		problems = append(problems, "when someone shares your site on social media, it shows up without an image or preview")
	}
	if len(problems) == 0 {
		problems = []string{"your website has some technical issues that could be affecting how customers find you"}
	}

	var urgency, summary string
	switch {
	case score < 50:
		urgency = "high"
		summary = fmt.Sprintf("%s's website has significant issues that are likely costing them customers right now.", lead.BusinessName)
	case score < 70:
		urgency = "medium"
		summary = fmt.Sprintf("%s's website has a few areas where small changes could bring in more local customers.", lead.BusinessName)
	default:
		urgency = "low"
		summary = fmt.Sprintf("%s's website is decent but missing some easy wins that could improve their online visibility.", lead.BusinessName)
	}

	return &Summary{
		Summary: summary,
		BusinessImpact: fmt.Sprintf(
			"When someone in %s searches for a %s, these issues make it harder for them to find and trust %s.",
			location, industry, lead.BusinessName),
		TopProblems: problems,
		Urgency:     urgency,
	}
}

// FallbackEmail builds a template outreach email from the audit summary.
// Written to sound like a real person.
func FallbackEmail(lead LeadInfo, summary *Summary, senderName string) *EmailDraft {
	industry := orDefault(lead.Industry, "business")
	location := orDefault(lead.Location, "your area")

	problems := summary.TopProblems
	mainProblem := "a few things that might be costing you customers"
	if len(problems) > 0 {
		mainProblem = problems[0]
	}

	subject := fmt.Sprintf("Spotted something on %s's website", lead.BusinessName)
	switch {
	case anyContains(problems, "load", "seconds"):
		subject = fmt.Sprintf("%s, your site might be losing visitors", lead.BusinessName)
	case anyContains(problems, "search", "Google"):
		subject = fmt.Sprintf("Is %s showing up in local search?", lead.BusinessName)
	case anyContains(problems, "Not Secure", "ssl", "SSL"):
		subject = fmt.Sprintf("%s's website shows a security warning", lead.BusinessName)
	}

	lines := []string{
		"Hi,",
		"",
		fmt.Sprintf("I came across %s while researching %ss in %s and took a quick look at your website.",
			lead.BusinessName, industry, location),
		"",
		"I run performance audits for small local businesses and spotted a couple things on your site.",
		"",
		fmt.Sprintf("The main one: %s.", mainProblem),
	}

	if len(problems) > 1 {
		lines = append(lines, fmt.Sprintf("There's also an issue where %s.", problems[1]))
	}
	lines = append(lines, "")

	if summary.Urgency == "high" {
		lines = append(lines, fmt.Sprintf(
			"When a %s's site is slow or hard to find, visitors tend to check the next option instead, and in %s there's always a next option. That's traffic and bookings going to a competitor.",
			industry, location))
	} else {
		lines = append(lines, fmt.Sprintf(
			"These are the kinds of small things that quietly push potential customers toward a competitor. Someone searches for a %s nearby, your site doesn't load right, and they just pick the next one.",
			industry))
	}

	lines = append(lines,
		"",
		"I've helped similar local businesses improve their load speed and search visibility. Happy to show you exactly what I found, takes about 10 minutes, no strings attached.",
		"",
		"If you're open to it, I can walk you through what I found.",
		"",
		senderName,
		"",
		"P.S. If this isn't relevant, just ignore this, no follow-ups.",
		"",
		"---",
		"Reply 'unsubscribe' to opt out.",
	)

	return &EmailDraft{
		SubjectLine: subject,
		EmailBody:   strings.Join(lines, "\n"),
	}
}

func anyContains(items []string, substrings ...string) bool {
	for _, item := range items {
		for _, sub := range substrings {
			if strings.Contains(item, sub) {
				return true
			}
		}
	}
	return false
}
