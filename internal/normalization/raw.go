// Package normalization turns loosely typed journal rows into domain.TradeRecord
// values the engine can group.
package normalization

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// RawTrade is the wire shape of a trade as exported by a journal.
// Timestamps and amounts are kept as text until normalization.
type RawTrade struct {
	ID           string `json:"id"`
	AccountID    string `json:"accountId,omitempty"`
	Ticker       string `json:"ticker"`
	StrategyType string `json:"strategyType,omitempty"`
	OpenedAt     string `json:"openedAt"`
	ClosedAt     string `json:"closedAt,omitempty"`
	DebitCredit  Amount `json:"debitCredit,omitempty"`
	RealizedPL   Amount `json:"realizedPL,omitempty"`
	Status       string `json:"status,omitempty"`
	Legs         string `json:"legs,omitempty"`
}

// Amount is a decimal carried as either a JSON number or a JSON string.
type Amount string

// UnmarshalJSON accepts 12.5, "12.5" and null.
func (a *Amount) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "null" {
		*a = ""
		return nil
	}
	if strings.HasPrefix(s, `"`) {
		unq, err := strconv.Unquote(s)
		if err != nil {
			return fmt.Errorf("amount %s: %w", s, err)
		}
		s = unq
	}
	*a = Amount(strings.TrimSpace(s))
	return nil
}

// ErrEmptyInput is returned by DecodeTrades for a blank document.
var ErrEmptyInput = errors.New("empty trade document")

type tradeDocument struct {
	Trades []RawTrade `json:"trades"`
}

// DecodeTrades reads either a JSON array of trades or an object with a
// "trades" array.
func DecodeTrades(r io.Reader) ([]RawTrade, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read trades: %w", err)
	}

	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" {
		return nil, ErrEmptyInput
	}

	if strings.HasPrefix(trimmed, "[") {
		var trades []RawTrade
		if err := json.Unmarshal(data, &trades); err != nil {
			return nil, fmt.Errorf("decode trade array: %w", err)
		}
		return trades, nil
	}

	var doc tradeDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode trade document: %w", err)
	}
	return doc.Trades, nil
}
