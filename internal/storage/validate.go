package storage

import "trade-thesis-lab/internal/domain"

// ValidateTrade reports ErrInvalidInput for records no store should accept.
func ValidateTrade(t *domain.TradeRecord) error {
	if t == nil || t.ID == "" || t.Ticker == "" || t.OpenedAt.IsZero() {
		return ErrInvalidInput
	}
	return nil
}
