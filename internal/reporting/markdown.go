package reporting

import (
	"fmt"
	"strings"
	"time"
)

// RenderMarkdown renders a review document: a summary table followed by one
// section per suggestion with its trades and score terms.
func RenderMarkdown(r *Report) string {
	var sb strings.Builder

	sb.WriteString("# Thesis Suggestions\n\n")
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", r.GeneratedAt.UTC().Format(time.RFC3339)))
	if r.Source != "" {
		sb.WriteString(fmt.Sprintf("Source: %s\n\n", r.Source))
	}
	sb.WriteString(fmt.Sprintf("Trades: %d | Suggestions: %d | Below threshold (%d): %d\n\n",
		r.TradeCount, len(r.Rows), r.MinConfidence, r.BelowThreshold))

	sb.WriteString("## Summary\n\n")
	if len(r.Rows) == 0 {
		sb.WriteString("No suggestions.\n\n")
	} else {
		sb.WriteString("| # | Name | Pattern | Direction | Confidence | Trades | Net Debit/Credit | Realized P/L |\n")
		sb.WriteString("|---|------|---------|-----------|------------|--------|------------------|--------------|\n")
		for i, row := range r.Rows {
			s := row.Suggestion
			sb.WriteString(fmt.Sprintf("| %d | %s | %s | %s | %d | %d | %s | %s |\n",
				i+1, s.SuggestedName, s.Pattern, s.SuggestedDirection, s.Confidence,
				len(s.TradeIDs), row.NetDebitCredit.StringFixed(2), plLabel(row)))
		}
		sb.WriteString("\n")
	}

	for i, row := range r.Rows {
		s := row.Suggestion
		sb.WriteString(fmt.Sprintf("## %d. %s\n\n", i+1, s.SuggestedName))
		sb.WriteString(fmt.Sprintf("- ID: `%s`\n", s.ID))
		sb.WriteString(fmt.Sprintf("- Pattern: %s\n", s.Pattern))
		sb.WriteString(fmt.Sprintf("- Direction: %s\n", s.SuggestedDirection))
		sb.WriteString(fmt.Sprintf("- Confidence: %d (base %d + timing %d + pattern %d + same strategy %d)\n",
			s.Confidence, row.Breakdown.Base, row.Breakdown.Temporal, row.Breakdown.Pattern, row.Breakdown.Homogeneity))
		sb.WriteString(fmt.Sprintf("- Window: %s to %s\n",
			row.FirstOpened.UTC().Format("2006-01-02"), row.LastOpened.UTC().Format("2006-01-02")))
		sb.WriteString(fmt.Sprintf("- Reason: %s\n\n", s.Reason))

		sb.WriteString("| Trade | Opened | Strategy | Status | Action | Debit/Credit |\n")
		sb.WriteString("|-------|--------|----------|--------|--------|--------------|\n")
		for _, t := range row.Trades {
			sb.WriteString(fmt.Sprintf("| %s | %s | %s | %s | %s | %s |\n",
				t.ID, t.OpenedAt.UTC().Format("2006-01-02"), strategyLabel(t.StrategyType),
				t.Status, actionFor(s, t.ID), t.DebitCredit.StringFixed(2)))
		}
		sb.WriteString("\n")
	}

	if len(r.Rejections) > 0 {
		sb.WriteString("## Rejected Trades\n\n")
		for _, rej := range r.Rejections {
			sb.WriteString(fmt.Sprintf("- %s\n", rej))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}
