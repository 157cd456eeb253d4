package leadscore

import (
	"fmt"
	"strings"
)

const barWidth = 20

// FormatReport renders a scoring result as a fixed-width text report with a
// bar chart per category. Useful for CLI output and debugging.
func FormatReport(r Result) string {
	var b strings.Builder
	rule := strings.Repeat("=", 50)

	fmt.Fprintf(&b, "%s\n", rule)
	fmt.Fprintf(&b, "LEAD SCORE REPORT\n")
	fmt.Fprintf(&b, "%s\n\n", rule)
	fmt.Fprintf(&b, "Composite Score: %d/100\n", r.CompositeScore)
	fmt.Fprintf(&b, "Priority:        %s\n", r.Priority)
	fmt.Fprintf(&b, "Qualification:   %d/100\n\n", r.QualificationScore)
	fmt.Fprintf(&b, "--- Individual Scores ---\n")

	for _, cat := range Categories {
		score, ok := r.IndividualScores[cat]
		if !ok {
			continue
		}
		filled := score / 5
		bar := strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)
		fmt.Fprintf(&b, "  %-15s %s %3d/100\n", cat, bar, score)
	}

	fmt.Fprintf(&b, "\nIssues: %d critical, %d warnings\n", r.CriticalIssues, r.WarningIssues)
	fmt.Fprintf(&b, "Recommended Service: %s\n", r.RecommendedService)
	fmt.Fprintf(&b, "%s", rule)

	return b.String()
}
