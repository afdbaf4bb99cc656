package reporting

import (
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"
)

var csvHeader = []string{
	"suggestion_id", "suggested_name", "pattern", "direction", "confidence",
	"trade_id", "action", "ticker", "strategy_type", "opened_at", "status", "debit_credit",
}

// RenderCSV renders one row per (suggestion, trade) pair so the file can be
// filtered and re-linked in a spreadsheet.
func RenderCSV(r *Report) (string, error) {
	var sb strings.Builder
	w := csv.NewWriter(&sb)

	if err := w.Write(csvHeader); err != nil {
		return "", fmt.Errorf("write csv header: %w", err)
	}

	for _, row := range r.Rows {
		s := row.Suggestion
		for _, t := range row.Trades {
			record := []string{
				s.ID,
				s.SuggestedName,
				string(s.Pattern),
				string(s.SuggestedDirection),
				strconv.Itoa(s.Confidence),
				t.ID,
				string(actionFor(s, t.ID)),
				t.Ticker,
				string(t.StrategyType),
				t.OpenedAt.UTC().Format("2006-01-02T15:04:05Z"),
				string(t.Status),
				t.DebitCredit.String(),
			}
			if err := w.Write(record); err != nil {
				return "", fmt.Errorf("write csv row: %w", err)
			}
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("flush csv: %w", err)
	}
	return sb.String(), nil
}
