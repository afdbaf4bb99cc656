package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"trade-thesis-lab/internal/domain"
	"trade-thesis-lab/internal/storage"
)

// TradeRecordStore is an in-memory implementation of storage.TradeRecordStore.
type TradeRecordStore struct {
	mu   sync.RWMutex
	data map[string]*domain.TradeRecord // keyed by trade_id
}

// NewTradeRecordStore creates a new in-memory trade record store.
func NewTradeRecordStore() *TradeRecordStore {
	return &TradeRecordStore{
		data: make(map[string]*domain.TradeRecord),
	}
}

// Insert adds a new trade. Returns ErrDuplicateKey if trade_id exists.
func (s *TradeRecordStore) Insert(_ context.Context, t *domain.TradeRecord) error {
	if err := storage.ValidateTrade(t); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[t.ID]; exists {
		return storage.ErrDuplicateKey
	}

	s.data[t.ID] = cloneTrade(t)
	return nil
}

// InsertBulk adds multiple trades atomically. Fails entire batch on any duplicate.
func (s *TradeRecordStore) InsertBulk(_ context.Context, trades []*domain.TradeRecord) error {
	if len(trades) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	batchKeys := make(map[string]struct{}, len(trades))

	// Validate the whole batch before touching the map.
	for _, t := range trades {
		if err := storage.ValidateTrade(t); err != nil {
			return err
		}
		if _, exists := s.data[t.ID]; exists {
			return storage.ErrDuplicateKey
		}
		if _, exists := batchKeys[t.ID]; exists {
			return storage.ErrDuplicateKey
		}
		batchKeys[t.ID] = struct{}{}
	}

	for _, t := range trades {
		s.data[t.ID] = cloneTrade(t)
	}

	return nil
}

// GetByID retrieves a trade by its ID. Returns ErrNotFound if not exists.
func (s *TradeRecordStore) GetByID(_ context.Context, tradeID string) (*domain.TradeRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, exists := s.data[tradeID]
	if !exists {
		return nil, storage.ErrNotFound
	}

	return cloneTrade(t), nil
}

// GetByAccount retrieves all trades of an account, ordered by (opened_at, trade_id) ASC.
func (s *TradeRecordStore) GetByAccount(_ context.Context, accountID string) ([]*domain.TradeRecord, error) {
	return s.filter(func(t *domain.TradeRecord) bool {
		return t.AccountID == accountID
	}), nil
}

// GetByAccountSince retrieves trades of an account opened at or after since.
func (s *TradeRecordStore) GetByAccountSince(_ context.Context, accountID string, since time.Time) ([]*domain.TradeRecord, error) {
	return s.filter(func(t *domain.TradeRecord) bool {
		return t.AccountID == accountID && !t.OpenedAt.Before(since)
	}), nil
}

func (s *TradeRecordStore) filter(keep func(*domain.TradeRecord) bool) []*domain.TradeRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.TradeRecord
	for _, t := range s.data {
		if keep(t) {
			result = append(result, cloneTrade(t))
		}
	}

	sort.Slice(result, func(i, j int) bool {
		if !result[i].OpenedAt.Equal(result[j].OpenedAt) {
			return result[i].OpenedAt.Before(result[j].OpenedAt)
		}
		return result[i].ID < result[j].ID
	})

	return result
}

// cloneTrade copies t including its pointer and slice fields.
func cloneTrade(t *domain.TradeRecord) *domain.TradeRecord {
	c := *t
	if t.ClosedAt != nil {
		closed := *t.ClosedAt
		c.ClosedAt = &closed
	}
	if t.RealizedPL != nil {
		pl := *t.RealizedPL
		c.RealizedPL = &pl
	}
	if t.Legs != nil {
		c.Legs = make([]domain.Leg, len(t.Legs))
		copy(c.Legs, t.Legs)
	}
	return &c
}

var _ storage.TradeRecordStore = (*TradeRecordStore)(nil)
