package storage

import (
	"context"
	"time"

	"trade-thesis-lab/internal/domain"
)

// TradeRecordStore provides access to trade_records storage.
// Trades are append-only: an id, once stored, is never rewritten.
type TradeRecordStore interface {
	// Insert adds a new trade. Returns ErrDuplicateKey if trade_id exists.
	Insert(ctx context.Context, t *domain.TradeRecord) error

	// InsertBulk adds multiple trades atomically. Fails entire batch on any duplicate.
	InsertBulk(ctx context.Context, trades []*domain.TradeRecord) error

	// GetByID retrieves a trade by its ID. Returns ErrNotFound if not exists.
	GetByID(ctx context.Context, tradeID string) (*domain.TradeRecord, error)

	// GetByAccount retrieves all trades of an account, ordered by (opened_at, trade_id) ASC.
	GetByAccount(ctx context.Context, accountID string) ([]*domain.TradeRecord, error)

	// GetByAccountSince retrieves trades of an account opened at or after since,
	// ordered by (opened_at, trade_id) ASC.
	GetByAccountSince(ctx context.Context, accountID string, since time.Time) ([]*domain.TradeRecord, error)
}
