package fixtures

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trade-thesis-lab/internal/domain"
	"trade-thesis-lab/internal/orchestrator"
	"trade-thesis-lab/internal/storage/memory"
)

func TestTrades_UniqueIDs(t *testing.T) {
	seen := map[string]bool{}
	for _, tr := range Trades() {
		assert.False(t, seen[tr.ID], "duplicate id %s", tr.ID)
		seen[tr.ID] = true
	}
}

func TestTrades_FreshCopy(t *testing.T) {
	a := Trades()
	a[0].Ticker = "XXX"
	assert.Equal(t, "AAPL", Trades()[0].Ticker)
}

func TestTrades_ExpectedSuggestions(t *testing.T) {
	got := orchestrator.SuggestLinks(Trades())

	byTicker := map[string]domain.LinkSuggestion{}
	for _, s := range got {
		byTicker[strings.Fields(s.SuggestedName)[0]] = s
	}

	require.Len(t, got, 4)
	assert.Equal(t, domain.PatternScaling, byTicker["AAPL"].Pattern)
	assert.Equal(t, 80, byTicker["AAPL"].Confidence)
	assert.Equal(t, domain.PatternPositionLifecycle, byTicker["SPY"].Pattern)
	assert.Equal(t, 75, byTicker["SPY"].Confidence)
	assert.Equal(t, domain.PatternRoll, byTicker["NVDA"].Pattern)
	assert.Equal(t, 75, byTicker["NVDA"].Confidence)
	assert.Equal(t, domain.PatternScaling, byTicker["MSFT"].Pattern)
	assert.Equal(t, []string{"msft-1", "msft-2"}, byTicker["MSFT"].TradeIDs)

	assert.NotContains(t, byTicker, "TSLA")
	assert.NotContains(t, byTicker, "QQQ")
}

func TestLoadFixtures(t *testing.T) {
	ctx := context.Background()
	store := memory.NewTradeRecordStore()

	require.NoError(t, LoadFixtures(ctx, store))

	got, err := store.GetByAccount(ctx, AccountID)
	require.NoError(t, err)
	assert.Len(t, got, len(Trades()))

	// Second load collides on every id.
	assert.Error(t, LoadFixtures(ctx, store))
}
