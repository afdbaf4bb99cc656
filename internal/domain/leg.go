package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Leg is one option or stock leg of a trade, parsed from free text.
type Leg struct {
	Side     LegSide
	Quantity int
	Right    OptionRight // empty for stock legs
	Strike   *decimal.Decimal
	Expiry   *time.Time
}

// LegSide is the direction of a single leg.
type LegSide string

const (
	LegSideBuy  LegSide = "BUY"
	LegSideSell LegSide = "SELL"
)

// OptionRight distinguishes calls from puts.
type OptionRight string

const (
	OptionRightCall OptionRight = "CALL"
	OptionRightPut  OptionRight = "PUT"
)
