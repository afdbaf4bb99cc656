// Package reporting renders thesis suggestions for human review.
package reporting

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"trade-thesis-lab/internal/domain"
	"trade-thesis-lab/internal/orchestrator"
	"trade-thesis-lab/internal/scoring"
)

// Report is everything a renderer needs for one suggestion run.
type Report struct {
	GeneratedAt   time.Time
	Source        string // where trades came from, e.g. a file name or account id
	MinConfidence int
	TradeCount    int

	Rows           []SuggestionRow // accepted suggestions, best first
	BelowThreshold int             // clusters scored under MinConfidence

	Rejections []string // normalization failures, one line each
}

// SuggestionRow pairs a suggestion with its score terms and trades.
type SuggestionRow struct {
	Suggestion domain.LinkSuggestion
	Breakdown  scoring.Breakdown
	Trades     []domain.TradeRecord // cluster order

	FirstOpened time.Time
	LastOpened  time.Time

	NetDebitCredit decimal.Decimal
	RealizedPL     decimal.Decimal // sum over trades with a realized P/L
	RealizedKnown  int             // trades contributing to RealizedPL
}

// Input collects the pieces Build assembles.
type Input struct {
	GeneratedAt   time.Time
	Source        string
	MinConfidence int
	TradeCount    int
	Evaluations   []orchestrator.Evaluation
	Rejections    []error
}

// Build turns orchestrator evaluations into a report.
func Build(in Input) *Report {
	r := &Report{
		GeneratedAt:   in.GeneratedAt,
		Source:        in.Source,
		MinConfidence: in.MinConfidence,
		TradeCount:    in.TradeCount,
		Rows:          []SuggestionRow{},
	}

	for _, e := range in.Evaluations {
		if !e.Kept {
			r.BelowThreshold++
			continue
		}
		r.Rows = append(r.Rows, newRow(e))
	}

	for _, err := range in.Rejections {
		r.Rejections = append(r.Rejections, err.Error())
	}

	return r
}

func newRow(e orchestrator.Evaluation) SuggestionRow {
	row := SuggestionRow{
		Suggestion:     e.Suggestion,
		Breakdown:      e.Breakdown,
		Trades:         e.Cluster.Trades,
		NetDebitCredit: decimal.Zero,
		RealizedPL:     decimal.Zero,
	}

	for i, t := range e.Cluster.Trades {
		if i == 0 || t.OpenedAt.Before(row.FirstOpened) {
			row.FirstOpened = t.OpenedAt
		}
		if i == 0 || t.OpenedAt.After(row.LastOpened) {
			row.LastOpened = t.OpenedAt
		}
		row.NetDebitCredit = row.NetDebitCredit.Add(t.DebitCredit)
		if t.RealizedPL != nil {
			row.RealizedPL = row.RealizedPL.Add(*t.RealizedPL)
			row.RealizedKnown++
		}
	}

	return row
}

// Render dispatches to the renderer named by format.
func Render(format string, r *Report) (string, error) {
	switch strings.ToLower(format) {
	case "table", "":
		return RenderTable(r), nil
	case "markdown", "md":
		return RenderMarkdown(r), nil
	case "csv":
		return RenderCSV(r)
	case "json":
		data, err := RenderJSON(r)
		if err != nil {
			return "", err
		}
		return string(data) + "\n", nil
	default:
		return "", fmt.Errorf("unknown report format %q", format)
	}
}

func actionFor(s domain.LinkSuggestion, tradeID string) domain.TradeAction {
	for _, a := range s.SuggestedActions {
		if a.TradeID == tradeID {
			return a.Action
		}
	}
	return ""
}

func strategyLabel(s domain.StrategyType) string {
	if s == domain.StrategyUnknown {
		return "-"
	}
	return string(s)
}

func plLabel(row SuggestionRow) string {
	if row.RealizedKnown == 0 {
		return "-"
	}
	return row.RealizedPL.StringFixed(2)
}
