package normalization

import (
	"context"
	"fmt"
	"io"

	"go.uber.org/zap"

	"trade-thesis-lab/internal/domain"
	"trade-thesis-lab/internal/storage"
)

// Runner decodes raw journal exports, normalizes them and writes the
// accepted trades to a store.
type Runner struct {
	store      storage.TradeRecordStore
	normalizer *Normalizer
	log        *zap.Logger
}

// NewRunner creates an import runner. AccountID on each row may be
// overridden per call to Import.
func NewRunner(store storage.TradeRecordStore, normalizer *Normalizer, log *zap.Logger) *Runner {
	if log == nil {
		log = zap.NewNop()
	}
	if normalizer == nil {
		normalizer = NewNormalizer(log)
	}
	return &Runner{store: store, normalizer: normalizer, log: log}
}

// ImportResult summarizes one import.
type ImportResult struct {
	Read       int
	Stored     int
	Rejections []Rejection
}

// ImportReader decodes r and imports the trades under accountID.
func (r *Runner) ImportReader(ctx context.Context, accountID string, in io.Reader) (*ImportResult, error) {
	raws, err := DecodeTrades(in)
	if err != nil {
		return nil, err
	}
	return r.Import(ctx, accountID, raws)
}

// Import normalizes raws and stores the accepted trades in one batch.
// A non-empty accountID replaces the account on every row.
// Rejected rows are reported, not fatal; a store error fails the whole batch.
func (r *Runner) Import(ctx context.Context, accountID string, raws []RawTrade) (*ImportResult, error) {
	if accountID != "" {
		scoped := make([]RawTrade, len(raws))
		for i, raw := range raws {
			raw.AccountID = accountID
			scoped[i] = raw
		}
		raws = scoped
	}

	records, rejections := r.normalizer.NormalizeAll(raws)
	result := &ImportResult{Read: len(raws), Rejections: rejections}

	if len(records) == 0 {
		return result, nil
	}

	batch := make([]*domain.TradeRecord, len(records))
	for i := range records {
		batch[i] = &records[i]
	}

	if err := r.store.InsertBulk(ctx, batch); err != nil {
		return result, fmt.Errorf("store %d trades: %w", len(batch), err)
	}
	result.Stored = len(batch)

	r.log.Info("imported trades",
		zap.String("account_id", accountID),
		zap.Int("read", result.Read),
		zap.Int("stored", result.Stored),
		zap.Int("rejected", len(rejections)))

	return result, nil
}
