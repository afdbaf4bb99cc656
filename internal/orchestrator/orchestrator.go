// Package orchestrator turns a trader's trades into ranked thesis suggestions.
// It coordinates: grouping → pattern detection → scoring → naming → filtering
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"trade-thesis-lab/internal/domain"
	"trade-thesis-lab/internal/grouping"
	"trade-thesis-lab/internal/idhash"
	"trade-thesis-lab/internal/narrative"
	"trade-thesis-lab/internal/observability"
	"trade-thesis-lab/internal/pattern"
	"trade-thesis-lab/internal/scoring"
	"trade-thesis-lab/internal/storage"
)

// DefaultMinConfidence is the lowest confidence a suggestion may carry.
const DefaultMinConfidence = 40

// ErrNoStore is returned by SuggestForAccount when no store was configured.
var ErrNoStore = errors.New("orchestrator has no trade store")

// IDGenerator assigns an id to an accepted cluster.
type IDGenerator func(c domain.TradeCluster) string

// UUIDGenerator returns random v4 UUIDs.
func UUIDGenerator() IDGenerator {
	return func(domain.TradeCluster) string {
		return uuid.NewString()
	}
}

// HashGenerator derives the id from the cluster's ticker and trade ids, so
// repeated runs over the same trades yield the same ids.
func HashGenerator() IDGenerator {
	return func(c domain.TradeCluster) string {
		return idhash.ComputeSuggestionID(c.Ticker, c.TradeIDs())
	}
}

// Orchestrator runs the suggestion pipeline. It holds only immutable
// configuration and is safe for concurrent use.
type Orchestrator struct {
	minConfidence int
	windowDays    int
	detector      *pattern.Detector
	newID         IDGenerator
	store         storage.TradeRecordStore
	log           *zap.Logger
	metrics       *observability.Metrics
}

// Options for creating Orchestrator. Zero values select defaults.
type Options struct {
	MinConfidence *int // nil means DefaultMinConfidence
	WindowDays    int  // <= 0 means grouping.DefaultWindowDays

	Detector *pattern.Detector // nil means pattern.NewDetector()
	NewID    IDGenerator       // nil means UUIDGenerator()

	// Store backs SuggestForAccount; SuggestLinks never touches it.
	Store storage.TradeRecordStore

	Logger  *zap.Logger
	Metrics *observability.Metrics
}

// New creates a new Orchestrator.
func New(opts Options) *Orchestrator {
	o := &Orchestrator{
		minConfidence: DefaultMinConfidence,
		windowDays:    opts.WindowDays,
		detector:      opts.Detector,
		newID:         opts.NewID,
		store:         opts.Store,
		log:           opts.Logger,
		metrics:       opts.Metrics,
	}
	if opts.MinConfidence != nil {
		o.minConfidence = *opts.MinConfidence
	}
	if o.windowDays <= 0 {
		o.windowDays = grouping.DefaultWindowDays
	}
	if o.detector == nil {
		o.detector = pattern.NewDetector()
	}
	if o.newID == nil {
		o.newID = UUIDGenerator()
	}
	if o.log == nil {
		o.log = zap.NewNop()
	}
	return o
}

// MinConfidence returns the effective threshold.
func (o *Orchestrator) MinConfidence() int {
	return o.minConfidence
}

// Evaluation is the full outcome for one cluster, kept or not.
type Evaluation struct {
	Cluster    domain.TradeCluster
	Finding    domain.PatternFinding
	Breakdown  scoring.Breakdown
	Suggestion domain.LinkSuggestion // ID is empty when not Kept
	Kept       bool
}

// SuggestLinks returns suggestions at or above the threshold, sorted by
// confidence descending. Fewer than two trades yield an empty slice.
func (o *Orchestrator) SuggestLinks(trades []domain.TradeRecord) []domain.LinkSuggestion {
	evals := o.Evaluate(trades)

	out := make([]domain.LinkSuggestion, 0, len(evals))
	for _, e := range evals {
		if e.Kept {
			out = append(out, e.Suggestion)
		}
	}
	return out
}

// Evaluate scores every cluster, including those below the threshold.
// Kept evaluations come first, in the same order SuggestLinks returns.
func (o *Orchestrator) Evaluate(trades []domain.TradeRecord) []Evaluation {
	start := time.Now()

	if len(trades) < grouping.MinClusterSize {
		o.finish(len(trades), 0, nil, start)
		return []Evaluation{}
	}

	clusters := grouping.GroupByTicker(trades, o.windowDays)

	evals := make([]Evaluation, 0, len(clusters))
	for _, c := range clusters {
		evals = append(evals, o.evaluate(c))
	}

	sort.SliceStable(evals, func(i, j int) bool {
		a, b := evals[i], evals[j]
		if a.Kept != b.Kept {
			return a.Kept
		}
		if a.Suggestion.Confidence != b.Suggestion.Confidence {
			return a.Suggestion.Confidence > b.Suggestion.Confidence
		}
		if a.Cluster.Ticker != b.Cluster.Ticker {
			return a.Cluster.Ticker < b.Cluster.Ticker
		}
		return a.Cluster.Trades[0].OpenedAt.Before(b.Cluster.Trades[0].OpenedAt)
	})

	o.finish(len(trades), len(clusters), evals, start)
	return evals
}

func (o *Orchestrator) evaluate(c domain.TradeCluster) Evaluation {
	finding := o.detector.Detect(c)
	breakdown := scoring.Explain(c, finding)
	story := narrative.Generate(c, finding)

	e := Evaluation{
		Cluster:   c,
		Finding:   finding,
		Breakdown: breakdown,
		Suggestion: domain.LinkSuggestion{
			Confidence:         breakdown.Total,
			TradeIDs:           c.TradeIDs(),
			Pattern:            finding.Pattern,
			Reason:             finding.Reason,
			SuggestedName:      story.Name,
			SuggestedDirection: story.Direction,
			SuggestedActions:   finding.SuggestedActions,
		},
		Kept: breakdown.Total >= o.minConfidence,
	}
	if e.Kept {
		e.Suggestion.ID = o.newID(c)
	}

	o.log.Debug("evaluated cluster",
		zap.String("ticker", c.Ticker),
		zap.Int("trades", len(c.Trades)),
		zap.String("pattern", string(finding.Pattern)),
		zap.Int("confidence", breakdown.Total),
		zap.Bool("kept", e.Kept))

	if o.metrics != nil {
		o.metrics.RecordSuggestion(string(finding.Pattern), breakdown.Total, e.Kept)
	}
	return e
}

func (o *Orchestrator) finish(trades, clusters int, evals []Evaluation, start time.Time) {
	kept := 0
	for _, e := range evals {
		if e.Kept {
			kept++
		}
	}

	o.log.Info("suggestion run complete",
		zap.Int("trades", trades),
		zap.Int("clusters", clusters),
		zap.Int("suggestions", kept),
		zap.Int("filtered", len(evals)-kept),
		zap.Int("min_confidence", o.minConfidence))

	if o.metrics != nil {
		o.metrics.RecordRun(trades, clusters, time.Since(start))
	}
}

// SuggestForAccount loads an account's trades from the store and runs
// SuggestLinks over them. A non-nil since limits trades to those opened at
// or after it.
func (o *Orchestrator) SuggestForAccount(ctx context.Context, accountID string, since *time.Time) ([]domain.LinkSuggestion, error) {
	trades, err := o.LoadAccount(ctx, accountID, since)
	if err != nil {
		return nil, err
	}
	return o.SuggestLinks(trades), nil
}

// LoadAccount reads an account's trades from the store, oldest first.
func (o *Orchestrator) LoadAccount(ctx context.Context, accountID string, since *time.Time) ([]domain.TradeRecord, error) {
	if o.store == nil {
		return nil, ErrNoStore
	}

	var (
		records []*domain.TradeRecord
		err     error
	)
	if since != nil {
		records, err = o.store.GetByAccountSince(ctx, accountID, *since)
	} else {
		records, err = o.store.GetByAccount(ctx, accountID)
	}
	if err != nil {
		return nil, fmt.Errorf("load trades for account %s: %w", accountID, err)
	}

	trades := make([]domain.TradeRecord, 0, len(records))
	for _, r := range records {
		trades = append(trades, *r)
	}
	return trades, nil
}

var defaultOrchestrator = New(Options{})

// SuggestLinks runs the pipeline with default options.
func SuggestLinks(trades []domain.TradeRecord) []domain.LinkSuggestion {
	return defaultOrchestrator.SuggestLinks(trades)
}
