package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"trade-thesis-lab/internal/domain"
	"trade-thesis-lab/internal/normalization"
	"trade-thesis-lab/internal/storage"
)

// TradeRecordStore implements storage.TradeRecordStore using PostgreSQL.
type TradeRecordStore struct {
	pool *Pool
}

// NewTradeRecordStore creates a new TradeRecordStore.
func NewTradeRecordStore(pool *Pool) *TradeRecordStore {
	return &TradeRecordStore{pool: pool}
}

// Compile-time interface check.
var _ storage.TradeRecordStore = (*TradeRecordStore)(nil)

const insertTradeRecord = `
	INSERT INTO trade_records (
		trade_id, account_id, ticker, strategy_type,
		opened_at, closed_at,
		debit_credit, realized_pl,
		status, legs
	) VALUES (
		$1, $2, $3, $4,
		$5, $6,
		$7::numeric, $8::numeric,
		$9, $10
	)
`

// Amounts are read back as text so decimal precision survives the round trip.
const selectTradeRecord = `
	SELECT
		trade_id, account_id, ticker, strategy_type,
		opened_at, closed_at,
		debit_credit::text, realized_pl::text,
		status, legs
	FROM trade_records
`

// Insert adds a new trade. Returns ErrDuplicateKey if trade_id exists.
func (s *TradeRecordStore) Insert(ctx context.Context, t *domain.TradeRecord) error {
	if err := storage.ValidateTrade(t); err != nil {
		return err
	}

	if _, err := s.pool.Exec(ctx, insertTradeRecord, insertArgs(t)...); err != nil {
		return mapInsertError(err, "insert trade record")
	}
	return nil
}

// InsertBulk adds multiple trades atomically. Fails entire batch on any duplicate.
func (s *TradeRecordStore) InsertBulk(ctx context.Context, trades []*domain.TradeRecord) error {
	if len(trades) == 0 {
		return nil
	}
	for _, t := range trades {
		if err := storage.ValidateTrade(t); err != nil {
			return err
		}
	}

	return s.pool.inTx(ctx, func(tx pgx.Tx) error {
		batch := &pgx.Batch{}
		for _, t := range trades {
			batch.Queue(insertTradeRecord, insertArgs(t)...)
		}

		results := tx.SendBatch(ctx, batch)
		for range trades {
			if _, err := results.Exec(); err != nil {
				_ = results.Close()
				return mapInsertError(err, "insert trade record in bulk")
			}
		}
		if err := results.Close(); err != nil {
			return mapInsertError(err, "close trade record batch")
		}
		return nil
	})
}

// GetByID retrieves a trade by its ID. Returns ErrNotFound if not exists.
func (s *TradeRecordStore) GetByID(ctx context.Context, tradeID string) (*domain.TradeRecord, error) {
	row := s.pool.QueryRow(ctx, selectTradeRecord+` WHERE trade_id = $1`, tradeID)
	t, err := scanTradeRecord(row)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get trade record by id: %w", err)
	}
	return t, nil
}

// GetByAccount retrieves all trades of an account, ordered by (opened_at, trade_id) ASC.
func (s *TradeRecordStore) GetByAccount(ctx context.Context, accountID string) ([]*domain.TradeRecord, error) {
	query := selectTradeRecord + `
		WHERE account_id = $1
		ORDER BY opened_at ASC, trade_id ASC
	`

	rows, err := s.pool.Query(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("get trade records by account: %w", err)
	}
	defer rows.Close()

	return scanTradeRecords(rows)
}

// GetByAccountSince retrieves trades of an account opened at or after since.
func (s *TradeRecordStore) GetByAccountSince(ctx context.Context, accountID string, since time.Time) ([]*domain.TradeRecord, error) {
	query := selectTradeRecord + `
		WHERE account_id = $1 AND opened_at >= $2
		ORDER BY opened_at ASC, trade_id ASC
	`

	rows, err := s.pool.Query(ctx, query, accountID, since)
	if err != nil {
		return nil, fmt.Errorf("get trade records by account since: %w", err)
	}
	defer rows.Close()

	return scanTradeRecords(rows)
}

func insertArgs(t *domain.TradeRecord) []any {
	var realized *string
	if t.RealizedPL != nil {
		s := t.RealizedPL.String()
		realized = &s
	}
	return []any{
		t.ID, t.AccountID, t.Ticker, string(t.StrategyType),
		t.OpenedAt, t.ClosedAt,
		t.DebitCredit.String(), realized,
		string(t.Status), t.LegsRaw,
	}
}

func mapInsertError(err error, op string) error {
	switch {
	case isDuplicateKeyError(err):
		return storage.ErrDuplicateKey
	case isCheckViolation(err):
		return storage.ErrInvalidInput
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}

// scanTradeRecord scans a single row into a TradeRecord.
func scanTradeRecord(row pgx.Row) (*domain.TradeRecord, error) {
	var (
		t        domain.TradeRecord
		strategy string
		status   string
		debit    string
		realized *string
	)

	err := row.Scan(
		&t.ID, &t.AccountID, &t.Ticker, &strategy,
		&t.OpenedAt, &t.ClosedAt,
		&debit, &realized,
		&status, &t.LegsRaw,
	)
	if err != nil {
		return nil, err
	}

	t.StrategyType = domain.StrategyType(strategy)
	t.Status = domain.TradeStatus(status)
	t.OpenedAt = t.OpenedAt.UTC()
	if t.ClosedAt != nil {
		closed := t.ClosedAt.UTC()
		t.ClosedAt = &closed
	}

	t.DebitCredit, err = decimal.NewFromString(debit)
	if err != nil {
		return nil, fmt.Errorf("parse debit_credit %q: %w", debit, err)
	}
	if realized != nil {
		pl, err := decimal.NewFromString(*realized)
		if err != nil {
			return nil, fmt.Errorf("parse realized_pl %q: %w", *realized, err)
		}
		t.RealizedPL = &pl
	}

	t.Legs = normalization.ParseLegs(t.LegsRaw)
	return &t, nil
}

// scanTradeRecords scans multiple rows into a slice of TradeRecord.
func scanTradeRecords(rows pgx.Rows) ([]*domain.TradeRecord, error) {
	var trades []*domain.TradeRecord

	for rows.Next() {
		t, err := scanTradeRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan trade record row: %w", err)
		}
		trades = append(trades, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate trade record rows: %w", err)
	}

	return trades, nil
}
