package reporting

import (
	"encoding/json"
	"time"

	"trade-thesis-lab/internal/domain"
)

type jsonReport struct {
	GeneratedAt    time.Time               `json:"generatedAt"`
	Source         string                  `json:"source,omitempty"`
	MinConfidence  int                     `json:"minConfidence"`
	TradeCount     int                     `json:"tradeCount"`
	BelowThreshold int                     `json:"belowThreshold"`
	Suggestions    []domain.LinkSuggestion `json:"suggestions"`
	Rejections     []string                `json:"rejections,omitempty"`
}

// RenderJSON renders the suggestions in their wire shape, wrapped with run
// metadata.
func RenderJSON(r *Report) ([]byte, error) {
	out := jsonReport{
		GeneratedAt:    r.GeneratedAt.UTC(),
		Source:         r.Source,
		MinConfidence:  r.MinConfidence,
		TradeCount:     r.TradeCount,
		BelowThreshold: r.BelowThreshold,
		Suggestions:    make([]domain.LinkSuggestion, 0, len(r.Rows)),
		Rejections:     r.Rejections,
	}
	for _, row := range r.Rows {
		out.Suggestions = append(out.Suggestions, row.Suggestion)
	}
	return json.MarshalIndent(out, "", "  ")
}
