package normalization

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"trade-thesis-lab/internal/domain"
	"trade-thesis-lab/internal/idhash"
)

// Validation errors. A trade failing any of them is rejected, the rest of
// the batch is kept.
var (
	ErrMissingID       = errors.New("trade id is required")
	ErrMissingTicker   = errors.New("ticker is required")
	ErrInvalidOpenedAt = errors.New("openedAt is not a valid timestamp")
	ErrInvalidAmount   = errors.New("amount is not a valid decimal")
	ErrDuplicateID     = errors.New("trade id appears more than once")
)

// timeLayouts are tried in order when parsing journal timestamps.
var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"01/02/2006",
}

// strategyAliases maps legacy labels onto the closed strategy set.
var strategyAliases = map[string]domain.StrategyType{
	"BULL_CALL_SPREAD": domain.StrategyCallSpread,
	"BEAR_PUT_SPREAD":  domain.StrategyPutSpread,
}

// Rejection records why one raw trade was dropped.
type Rejection struct {
	Index int    // position in the input batch
	ID    string // raw id, possibly empty
	Err   error
}

func (r Rejection) Error() string {
	return fmt.Sprintf("trade %d (%q): %v", r.Index, r.ID, r.Err)
}

// Unwrap exposes the validation error to errors.Is.
func (r Rejection) Unwrap() error {
	return r.Err
}

// Normalizer converts raw journal rows into trade records.
type Normalizer struct {
	log *zap.Logger

	// DeriveMissingIDs fills an empty id with a hash of
	// (account, ticker, openedAt, strategy) instead of rejecting the row.
	DeriveMissingIDs bool
}

// NewNormalizer creates a normalizer. A nil logger disables rejection logs.
func NewNormalizer(log *zap.Logger) *Normalizer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Normalizer{log: log}
}

// Normalize converts a single raw trade using default settings.
func Normalize(raw RawTrade) (domain.TradeRecord, error) {
	return NewNormalizer(nil).Normalize(raw)
}

// NormalizeAll converts a batch using default settings.
func NormalizeAll(raws []RawTrade) ([]domain.TradeRecord, []Rejection) {
	return NewNormalizer(nil).NormalizeAll(raws)
}

// Normalize converts one raw trade.
// Unparseable closedAt and legs degrade to "unknown" rather than failing.
func (n *Normalizer) Normalize(raw RawTrade) (domain.TradeRecord, error) {
	ticker := strings.ToUpper(strings.TrimSpace(raw.Ticker))
	if ticker == "" {
		return domain.TradeRecord{}, ErrMissingTicker
	}

	openedAt, ok := ParseTime(raw.OpenedAt)
	if !ok {
		return domain.TradeRecord{}, fmt.Errorf("%w: %q", ErrInvalidOpenedAt, raw.OpenedAt)
	}

	strategy := ParseStrategyType(raw.StrategyType)

	id := strings.TrimSpace(raw.ID)
	if id == "" {
		if !n.DeriveMissingIDs {
			return domain.TradeRecord{}, ErrMissingID
		}
		id = idhash.ComputeTradeID(raw.AccountID, ticker, openedAt.UnixMilli(), string(strategy))
	}

	rec := domain.TradeRecord{
		ID:           id,
		AccountID:    strings.TrimSpace(raw.AccountID),
		Ticker:       ticker,
		StrategyType: strategy,
		OpenedAt:     openedAt,
		LegsRaw:      raw.Legs,
		Legs:         ParseLegs(raw.Legs),
	}

	if raw.ClosedAt != "" {
		if closedAt, ok := ParseTime(raw.ClosedAt); ok {
			rec.ClosedAt = &closedAt
		} else {
			n.log.Warn("ignoring unparseable closedAt",
				zap.String("trade_id", id),
				zap.String("closed_at", raw.ClosedAt))
		}
	}

	debit, err := parseAmount(raw.DebitCredit)
	if err != nil {
		return domain.TradeRecord{}, fmt.Errorf("debitCredit: %w", err)
	}
	if debit != nil {
		rec.DebitCredit = *debit
	}

	rec.RealizedPL, err = parseAmount(raw.RealizedPL)
	if err != nil {
		return domain.TradeRecord{}, fmt.Errorf("realizedPL: %w", err)
	}

	rec.Status = ParseStatus(raw.Status, rec.ClosedAt != nil)
	return rec, nil
}

// NormalizeAll converts a batch, keeping input order for accepted trades.
// A repeated id is rejected on every occurrence after the first.
func (n *Normalizer) NormalizeAll(raws []RawTrade) ([]domain.TradeRecord, []Rejection) {
	records := make([]domain.TradeRecord, 0, len(raws))
	var rejections []Rejection
	seen := make(map[string]struct{}, len(raws))

	for i, raw := range raws {
		rec, err := n.Normalize(raw)
		if err == nil {
			if _, dup := seen[rec.ID]; dup {
				err = ErrDuplicateID
			}
		}
		if err != nil {
			rej := Rejection{Index: i, ID: raw.ID, Err: err}
			n.log.Warn("rejected trade", zap.Int("index", i), zap.String("trade_id", raw.ID), zap.Error(err))
			rejections = append(rejections, rej)
			continue
		}
		seen[rec.ID] = struct{}{}
		records = append(records, rec)
	}

	return records, rejections
}

// ParseStrategyType folds case, separators and legacy aliases into the
// closed strategy set. Unrecognized values yield StrategyUnknown.
func ParseStrategyType(s string) domain.StrategyType {
	key := strings.ToUpper(strings.TrimSpace(s))
	key = strings.NewReplacer(" ", "_", "-", "_").Replace(key)
	if key == "" {
		return domain.StrategyUnknown
	}
	if alias, ok := strategyAliases[key]; ok {
		return alias
	}
	st := domain.StrategyType(key)
	if st.IsValid() {
		return st
	}
	return domain.StrategyUnknown
}

// ParseStatus recognizes OPEN and CLOSED in any case. An empty status is
// CLOSED when the trade has a close time, OPEN otherwise. Any other value is
// kept as written, minus surrounding whitespace.
func ParseStatus(s string, hasClose bool) domain.TradeStatus {
	v := strings.TrimSpace(s)
	switch strings.ToUpper(v) {
	case "":
		if hasClose {
			return domain.TradeStatusClosed
		}
		return domain.TradeStatusOpen
	case string(domain.TradeStatusOpen):
		return domain.TradeStatusOpen
	case string(domain.TradeStatusClosed):
		return domain.TradeStatusClosed
	default:
		return domain.TradeStatus(v)
	}
}

// ParseTime parses a journal timestamp into UTC.
func ParseTime(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

func parseAmount(a Amount) (*decimal.Decimal, error) {
	s := strings.ReplaceAll(strings.TrimSpace(string(a)), ",", "")
	if s == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(strings.TrimPrefix(s, "$"))
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAmount, string(a))
	}
	return &d, nil
}
