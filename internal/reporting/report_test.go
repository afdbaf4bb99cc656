package reporting

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trade-thesis-lab/internal/domain"
	"trade-thesis-lab/internal/orchestrator"
)

var day0 = time.Date(2025, 3, 3, 14, 0, 0, 0, time.UTC)

func sampleReport(t *testing.T) *Report {
	t.Helper()

	pl := decimal.RequireFromString("140.25")
	trades := []domain.TradeRecord{
		{ID: "t1", Ticker: "AAPL", StrategyType: domain.StrategyCallSpread, OpenedAt: day0,
			Status: domain.TradeStatusClosed, DebitCredit: decimal.RequireFromString("-210"), RealizedPL: &pl},
		{ID: "t2", Ticker: "AAPL", StrategyType: domain.StrategyCallSpread, OpenedAt: day0.AddDate(0, 0, 10),
			Status: domain.TradeStatusOpen, DebitCredit: decimal.RequireFromString("-185.5")},
		{ID: "m1", Ticker: "MSFT", StrategyType: domain.StrategyLongCall, OpenedAt: day0},
		{ID: "m2", Ticker: "MSFT", StrategyType: domain.StrategyLongPut, OpenedAt: day0.AddDate(0, 0, 10)},
		{ID: "m3", Ticker: "MSFT", OpenedAt: day0.AddDate(0, 0, 20)},
	}

	n := 0
	o := orchestrator.New(orchestrator.Options{NewID: func(domain.TradeCluster) string {
		n++
		return "sugg-" + string(rune('0'+n))
	}})

	return Build(Input{
		GeneratedAt:   day0.AddDate(0, 1, 0),
		Source:        "fixtures",
		MinConfidence: o.MinConfidence(),
		TradeCount:    len(trades),
		Evaluations:   o.Evaluate(trades),
		Rejections:    []error{errors.New(`trade 7 ("x"): ticker is required`)},
	})
}

func TestBuild(t *testing.T) {
	r := sampleReport(t)

	require.Len(t, r.Rows, 1)
	assert.Equal(t, 1, r.BelowThreshold)
	assert.Equal(t, 5, r.TradeCount)

	row := r.Rows[0]
	assert.Equal(t, "sugg-1", row.Suggestion.ID)
	assert.Equal(t, domain.PatternRoll, row.Suggestion.Pattern)
	assert.True(t, row.NetDebitCredit.Equal(decimal.RequireFromString("-395.5")))
	assert.True(t, row.RealizedPL.Equal(decimal.RequireFromString("140.25")))
	assert.Equal(t, 1, row.RealizedKnown)
	assert.Equal(t, day0, row.FirstOpened)
	assert.Equal(t, day0.AddDate(0, 0, 10), row.LastOpened)
	assert.Len(t, r.Rejections, 1)
}

func TestBuild_Empty(t *testing.T) {
	r := Build(Input{MinConfidence: 40})
	require.NotNil(t, r.Rows)
	assert.Empty(t, r.Rows)

	data, err := RenderJSON(r)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"suggestions": []`)
	assert.Contains(t, RenderMarkdown(r), "No suggestions.")
}

func TestRenderMarkdown(t *testing.T) {
	md := RenderMarkdown(sampleReport(t))

	assert.Contains(t, md, "# Thesis Suggestions")
	assert.Contains(t, md, "Source: fixtures")
	assert.Contains(t, md, "Trades: 5 | Suggestions: 1 | Below threshold (40): 1")
	assert.Contains(t, md, "| 1 | AAPL Mar 2025 Roll | ROLL | BULLISH | 75 | 2 | -395.50 | 140.25 |")
	assert.Contains(t, md, "- Confidence: 75 (base 30 + timing 10 + pattern 20 + same strategy 15)")
	assert.Contains(t, md, "| t1 | 2025-03-03 | CALL_SPREAD | CLOSED | INITIAL | -210.00 |")
	assert.Contains(t, md, "| t2 | 2025-03-13 | CALL_SPREAD | OPEN | ROLL | -185.50 |")
	assert.Contains(t, md, "## Rejected Trades")
}

func TestRenderCSV(t *testing.T) {
	out, err := RenderCSV(sampleReport(t))
	require.NoError(t, err)

	records, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, csvHeader, records[0])
	assert.Equal(t, []string{
		"sugg-1", "AAPL Mar 2025 Roll", "ROLL", "BULLISH", "75",
		"t1", "INITIAL", "AAPL", "CALL_SPREAD", "2025-03-03T14:00:00Z", "CLOSED", "-210",
	}, records[1])
	assert.Equal(t, "ROLL", records[2][6])
}

func TestRenderJSON(t *testing.T) {
	data, err := RenderJSON(sampleReport(t))
	require.NoError(t, err)

	var got struct {
		MinConfidence int `json:"minConfidence"`
		Suggestions   []struct {
			ID               string   `json:"id"`
			Confidence       int      `json:"confidence"`
			TradeIDs         []string `json:"tradeIds"`
			SuggestedActions []struct {
				TradeID string `json:"tradeId"`
				Action  string `json:"action"`
			} `json:"suggestedActions"`
		} `json:"suggestions"`
	}
	require.NoError(t, json.Unmarshal(data, &got))

	assert.Equal(t, 40, got.MinConfidence)
	require.Len(t, got.Suggestions, 1)
	assert.Equal(t, []string{"t1", "t2"}, got.Suggestions[0].TradeIDs)
	assert.Equal(t, "ROLL", got.Suggestions[0].SuggestedActions[1].Action)
}

func TestRenderTable(t *testing.T) {
	out := RenderTable(sampleReport(t))

	assert.Contains(t, out, "Thesis suggestions (min confidence 40)")
	assert.Contains(t, out, "AAPL Mar 2025 Roll")
	assert.Contains(t, out, "[t1 t2]")
	assert.Contains(t, out, "140.25")
}

func TestRender_Dispatch(t *testing.T) {
	r := sampleReport(t)

	for _, f := range []string{"table", "markdown", "csv", "json", "JSON"} {
		out, err := Render(f, r)
		require.NoError(t, err, f)
		assert.NotEmpty(t, out, f)
	}

	_, err := Render("pdf", r)
	assert.Error(t, err)
}

func TestJoinIDs(t *testing.T) {
	assert.Equal(t, "[a b]", joinIDs([]string{"a", "b"}))
	assert.Equal(t, "[a b c d] +2", joinIDs([]string{"a", "b", "c", "d", "e", "f"}))
}
