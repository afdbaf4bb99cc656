// Package fixtures provides a demo trade book covering every detected pattern.
package fixtures

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"trade-thesis-lab/internal/domain"
	"trade-thesis-lab/internal/storage"
)

// AccountID owns every fixture trade.
const AccountID = "demo"

var start = time.Date(2025, 1, 6, 14, 30, 0, 0, time.UTC) // Monday

func at(day int) time.Time {
	return start.AddDate(0, 0, day)
}

func closedAt(day int) *time.Time {
	t := at(day)
	return &t
}

func amount(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func pl(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

// Trades returns a fresh copy of the demo book. Expected suggestions:
//   - AAPL scaling into long calls over four days (SCALING, 80)
//   - SPY iron condor opened then a strangle closed (POSITION_LIFECYCLE, 75)
//   - NVDA put spread closed and reopened ten days later (ROLL, 75)
//   - MSFT covered calls ten days apart (SCALING, 70); a third one twenty
//     days later stands alone
//   - TSLA single trade, no suggestion
//   - QQQ mixed trades spread over three weeks (SAME_TICKER, 30, filtered)
func Trades() []domain.TradeRecord {
	return []domain.TradeRecord{
		{ID: "aapl-1", Ticker: "AAPL", StrategyType: domain.StrategyLongCall, OpenedAt: at(0),
			DebitCredit: amount("-420.00"), Status: domain.TradeStatusOpen, LegsRaw: "BUY 1 190C 2025-02-21"},
		{ID: "aapl-2", Ticker: "AAPL", StrategyType: domain.StrategyLongCall, OpenedAt: at(2),
			DebitCredit: amount("-385.00"), Status: domain.TradeStatusOpen, LegsRaw: "BUY 1 195C 2025-02-21"},
		{ID: "aapl-3", Ticker: "AAPL", StrategyType: domain.StrategyLongCall, OpenedAt: at(4),
			DebitCredit: amount("-510.00"), Status: domain.TradeStatusOpen, LegsRaw: "BUY 2 195C 2025-03-21"},

		{ID: "spy-1", Ticker: "SPY", StrategyType: domain.StrategyIronCondor, OpenedAt: at(1),
			DebitCredit: amount("185.00"), Status: domain.TradeStatusOpen,
			LegsRaw: "SELL 1 560P; BUY 1 555P; SELL 1 610C; BUY 1 615C"},
		{ID: "spy-2", Ticker: "SPY", StrategyType: domain.StrategyStrangle, OpenedAt: at(3), ClosedAt: closedAt(8),
			DebitCredit: amount("240.00"), RealizedPL: pl("96.50"), Status: domain.TradeStatusClosed},

		{ID: "nvda-1", Ticker: "NVDA", StrategyType: domain.StrategyPutSpread, OpenedAt: at(0), ClosedAt: closedAt(9),
			DebitCredit: amount("-310.00"), RealizedPL: pl("-120.00"), Status: domain.TradeStatusClosed,
			LegsRaw: "BUY 1 130P 2025-01-31; SELL 1 125P 2025-01-31"},
		{ID: "nvda-2", Ticker: "NVDA", StrategyType: domain.StrategyPutSpread, OpenedAt: at(10),
			DebitCredit: amount("-295.00"), Status: domain.TradeStatusOpen,
			LegsRaw: "BUY 1 128P 2025-02-28; SELL 1 123P 2025-02-28"},

		{ID: "msft-1", Ticker: "MSFT", StrategyType: domain.StrategyCoveredCall, OpenedAt: at(0),
			DebitCredit: amount("-41250.00"), Status: domain.TradeStatusOpen, LegsRaw: "BUY 100 SHARES; SELL 1 430C 2025-02-21"},
		{ID: "msft-2", Ticker: "MSFT", StrategyType: domain.StrategyCoveredCall, OpenedAt: at(10),
			DebitCredit: amount("-41400.00"), Status: domain.TradeStatusOpen},
		{ID: "msft-3", Ticker: "MSFT", StrategyType: domain.StrategyCoveredCall, OpenedAt: at(30),
			DebitCredit: amount("-41800.00"), Status: domain.TradeStatusOpen},

		{ID: "tsla-1", Ticker: "TSLA", StrategyType: domain.StrategyStraddle, OpenedAt: at(5),
			DebitCredit: amount("-1650.00"), Status: domain.TradeStatusOpen},

		{ID: "qqq-1", Ticker: "QQQ", StrategyType: domain.StrategyLongCall, OpenedAt: at(0),
			DebitCredit: amount("-220.00"), Status: domain.TradeStatusOpen},
		{ID: "qqq-2", Ticker: "QQQ", StrategyType: domain.StrategyLongPut, OpenedAt: at(11),
			DebitCredit: amount("-205.00"), Status: domain.TradeStatusOpen},
		{ID: "qqq-3", Ticker: "QQQ", StrategyType: domain.StrategyCalendar, OpenedAt: at(22),
			DebitCredit: amount("-140.00"), Status: domain.TradeStatusOpen},
	}
}

// TradesForAccount returns the demo book owned by AccountID.
func TradesForAccount() []domain.TradeRecord {
	trades := Trades()
	for i := range trades {
		trades[i].AccountID = AccountID
	}
	return trades
}

// LoadFixtures inserts the demo book into store under AccountID.
func LoadFixtures(ctx context.Context, store storage.TradeRecordStore) error {
	trades := TradesForAccount()
	batch := make([]*domain.TradeRecord, len(trades))
	for i := range trades {
		batch[i] = &trades[i]
	}
	if err := store.InsertBulk(ctx, batch); err != nil {
		return fmt.Errorf("load fixture trades: %w", err)
	}
	return nil
}
