package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"trade-thesis-lab/internal/domain"
	"trade-thesis-lab/internal/storage"
)

var base = time.Date(2025, 5, 5, 14, 30, 0, 0, time.UTC)

func trade(id, account string, day int) *domain.TradeRecord {
	return &domain.TradeRecord{
		ID:           id,
		AccountID:    account,
		Ticker:       "AAPL",
		StrategyType: domain.StrategyLongCall,
		OpenedAt:     base.AddDate(0, 0, day),
		DebitCredit:  decimal.RequireFromString("-320.50"),
		Status:       domain.TradeStatusOpen,
	}
}

func TestTradeRecordStore_InsertAndGet(t *testing.T) {
	store := NewTradeRecordStore()
	ctx := context.Background()

	if err := store.Insert(ctx, trade("trade1", "acct1", 0)); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	got, err := store.GetByID(ctx, "trade1")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}

	if !got.DebitCredit.Equal(decimal.RequireFromString("-320.5")) {
		t.Errorf("DebitCredit mismatch: got %s", got.DebitCredit)
	}
	if got.StrategyType != domain.StrategyLongCall {
		t.Errorf("StrategyType mismatch: got %s", got.StrategyType)
	}
}

func TestTradeRecordStore_DuplicateKey(t *testing.T) {
	store := NewTradeRecordStore()
	ctx := context.Background()

	tr := trade("trade1", "acct1", 0)
	if err := store.Insert(ctx, tr); err != nil {
		t.Fatalf("First insert failed: %v", err)
	}

	err := store.Insert(ctx, tr)
	if !errors.Is(err, storage.ErrDuplicateKey) {
		t.Errorf("Expected ErrDuplicateKey, got %v", err)
	}
}

func TestTradeRecordStore_InvalidInput(t *testing.T) {
	store := NewTradeRecordStore()
	ctx := context.Background()

	noTicker := trade("t1", "acct1", 0)
	noTicker.Ticker = ""

	for name, tr := range map[string]*domain.TradeRecord{
		"nil":       nil,
		"no id":     trade("", "acct1", 0),
		"no ticker": noTicker,
		"no open":   {ID: "t2", Ticker: "AAPL"},
	} {
		if err := store.Insert(ctx, tr); !errors.Is(err, storage.ErrInvalidInput) {
			t.Errorf("%s: expected ErrInvalidInput, got %v", name, err)
		}
	}
}

func TestTradeRecordStore_NotFound(t *testing.T) {
	store := NewTradeRecordStore()

	_, err := store.GetByID(context.Background(), "nonexistent")
	if !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestTradeRecordStore_InsertBulk(t *testing.T) {
	store := NewTradeRecordStore()
	ctx := context.Background()

	trades := []*domain.TradeRecord{
		trade("t1", "acct1", 0),
		trade("t2", "acct1", 1),
		trade("t3", "acct2", 2),
	}

	if err := store.InsertBulk(ctx, trades); err != nil {
		t.Fatalf("InsertBulk failed: %v", err)
	}

	got, err := store.GetByAccount(ctx, "acct1")
	if err != nil {
		t.Fatalf("GetByAccount failed: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("Expected 2 trades for acct1, got %d", len(got))
	}
}

func TestTradeRecordStore_InsertBulk_IntraBatchDuplicate(t *testing.T) {
	store := NewTradeRecordStore()
	ctx := context.Background()

	err := store.InsertBulk(ctx, []*domain.TradeRecord{
		trade("t1", "acct1", 0),
		trade("t1", "acct1", 1),
	})
	if !errors.Is(err, storage.ErrDuplicateKey) {
		t.Fatalf("Expected ErrDuplicateKey, got %v", err)
	}

	// Nothing from the failed batch is visible.
	if _, err := store.GetByID(ctx, "t1"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Expected ErrNotFound after failed batch, got %v", err)
	}
}

func TestTradeRecordStore_InsertBulk_ExistingDuplicate(t *testing.T) {
	store := NewTradeRecordStore()
	ctx := context.Background()

	if err := store.Insert(ctx, trade("t1", "acct1", 0)); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	err := store.InsertBulk(ctx, []*domain.TradeRecord{
		trade("t2", "acct1", 1),
		trade("t1", "acct1", 2),
	})
	if !errors.Is(err, storage.ErrDuplicateKey) {
		t.Fatalf("Expected ErrDuplicateKey, got %v", err)
	}
	if _, err := store.GetByID(ctx, "t2"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("t2 should not be stored, got %v", err)
	}
}

func TestTradeRecordStore_GetByAccount_Ordering(t *testing.T) {
	store := NewTradeRecordStore()
	ctx := context.Background()

	trades := []*domain.TradeRecord{
		trade("c", "acct1", 3),
		trade("b", "acct1", 1),
		trade("a", "acct1", 1),
	}
	if err := store.InsertBulk(ctx, trades); err != nil {
		t.Fatalf("InsertBulk failed: %v", err)
	}

	got, err := store.GetByAccount(ctx, "acct1")
	if err != nil {
		t.Fatalf("GetByAccount failed: %v", err)
	}

	want := []string{"a", "b", "c"}
	for i, id := range want {
		if got[i].ID != id {
			t.Errorf("position %d: got %s, want %s", i, got[i].ID, id)
		}
	}
}

func TestTradeRecordStore_GetByAccountSince(t *testing.T) {
	store := NewTradeRecordStore()
	ctx := context.Background()

	if err := store.InsertBulk(ctx, []*domain.TradeRecord{
		trade("t1", "acct1", 0),
		trade("t2", "acct1", 5),
		trade("t3", "acct1", 10),
	}); err != nil {
		t.Fatalf("InsertBulk failed: %v", err)
	}

	got, err := store.GetByAccountSince(ctx, "acct1", base.AddDate(0, 0, 5))
	if err != nil {
		t.Fatalf("GetByAccountSince failed: %v", err)
	}
	if len(got) != 2 || got[0].ID != "t2" || got[1].ID != "t3" {
		t.Errorf("Expected [t2 t3], got %v", ids(got))
	}
}

func TestTradeRecordStore_CopyOnRead(t *testing.T) {
	store := NewTradeRecordStore()
	ctx := context.Background()

	closed := base.AddDate(0, 0, 2)
	tr := trade("t1", "acct1", 0)
	tr.ClosedAt = &closed
	tr.Legs = []domain.Leg{{Side: domain.LegSideBuy, Quantity: 1, Right: domain.OptionRightCall}}
	if err := store.Insert(ctx, tr); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	// Mutating the caller's value after insert must not leak into the store.
	tr.Legs[0].Quantity = 99
	*tr.ClosedAt = base

	got, err := store.GetByID(ctx, "t1")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Legs[0].Quantity != 1 {
		t.Errorf("Legs leaked: quantity %d", got.Legs[0].Quantity)
	}
	if !got.ClosedAt.Equal(closed) {
		t.Errorf("ClosedAt leaked: %v", got.ClosedAt)
	}

	got.Ticker = "MSFT"
	again, _ := store.GetByID(ctx, "t1")
	if again.Ticker != "AAPL" {
		t.Errorf("Read copy leaked: ticker %s", again.Ticker)
	}
}

func ids(trades []*domain.TradeRecord) []string {
	out := make([]string, len(trades))
	for i, t := range trades {
		out[i] = t.ID
	}
	return out
}
