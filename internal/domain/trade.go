package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TradeRecord represents one executed trade (or trade leg group) from a journal.
// Corresponds to trade_records table in migrations/postgres.
type TradeRecord struct {
	ID        string // opaque unique identifier
	AccountID string // owning trader; ignored by the engine

	Ticker       string       // underlying symbol, upper-cased
	StrategyType StrategyType // empty when unknown

	OpenedAt time.Time
	ClosedAt *time.Time // nil unless the position was closed

	DebitCredit decimal.Decimal  // signed amount at open
	RealizedPL  *decimal.Decimal // nil until realized

	Status TradeStatus

	LegsRaw string // free-text leg description as entered
	Legs    []Leg  // parsed from LegsRaw; nil when unknown
}

// IsClosed reports whether the trade has status CLOSED.
func (t TradeRecord) IsClosed() bool {
	return t.Status == TradeStatusClosed
}

// TradeStatus is the lifecycle state of a trade.
// Values other than OPEN and CLOSED are carried through unchanged.
type TradeStatus string

const (
	TradeStatusOpen   TradeStatus = "OPEN"
	TradeStatusClosed TradeStatus = "CLOSED"
)

// String returns the string representation of TradeStatus.
func (s TradeStatus) String() string {
	return string(s)
}
