// Package narrative names a suggested thesis and infers its directional bias.
package narrative

import (
	"fmt"
	"strings"
	"time"

	"trade-thesis-lab/internal/domain"
)

// Bucket is the directional class of a single strategy type.
type Bucket int

const (
	BucketNone Bucket = iota
	BucketBullish
	BucketBearish
	BucketNeutral
)

// Narrative is the generated name and direction for a cluster.
type Narrative struct {
	Name      string
	Direction domain.Direction
}

// Generate derives the suggested name and direction of a cluster.
func Generate(c domain.TradeCluster, f domain.PatternFinding) Narrative {
	dir := InferDirection(c)
	return Narrative{
		Name:      SuggestName(c, f, dir),
		Direction: dir,
	}
}

// BucketOf classifies a strategy type. Unknown and non-directional
// strategies fall in BucketNone.
func BucketOf(s domain.StrategyType) Bucket {
	switch s {
	case domain.StrategyLongCall, domain.StrategyCallSpread,
		domain.StrategyCashSecuredPut, domain.StrategyCoveredCall:
		return BucketBullish
	case domain.StrategyLongPut, domain.StrategyPutSpread:
		return BucketBearish
	case domain.StrategyIronCondor, domain.StrategyIronButterfly,
		domain.StrategyStraddle, domain.StrategyStrangle:
		return BucketNeutral
	case domain.StrategyCalendar, domain.StrategyDiagonal, domain.StrategyRatio,
		domain.StrategyButterfly, domain.StrategyStock, domain.StrategyCustom,
		domain.StrategyUnknown:
		return BucketNone
	default:
		return BucketNone
	}
}

// InferDirection tallies strategy buckets across the cluster.
// Neutral wins only when it strictly exceeds both other tallies, bearish
// wins when it strictly exceeds bullish, and everything else is bullish.
func InferDirection(c domain.TradeCluster) domain.Direction {
	var bullish, bearish, neutral int
	for _, t := range c.Trades {
		switch BucketOf(t.StrategyType) {
		case BucketBullish:
			bullish++
		case BucketBearish:
			bearish++
		case BucketNeutral:
			neutral++
		case BucketNone:
		}
	}

	if neutral > bullish && neutral > bearish {
		return domain.DirectionNeutral
	}
	if bearish > bullish {
		return domain.DirectionBearish
	}
	return domain.DirectionBullish
}

// SuggestName builds "{ticker} {Mon} {YYYY} {suffix}" from the earliest trade.
func SuggestName(c domain.TradeCluster, f domain.PatternFinding, dir domain.Direction) string {
	return fmt.Sprintf("%s %s %s", c.Ticker, earliestOpen(c).UTC().Format("Jan 2006"), suffix(f.Pattern, dir))
}

func suffix(p domain.PatternKind, dir domain.Direction) string {
	switch p {
	case domain.PatternRoll:
		return "Roll"
	case domain.PatternPositionLifecycle:
		return "Trade"
	case domain.PatternScaling, domain.PatternSameTicker, domain.PatternAdjustment,
		domain.PatternMultiLeg, domain.PatternAIInferred:
		return DirectionWord(dir)
	default:
		return DirectionWord(dir)
	}
}

// DirectionWord renders a direction as a capitalized word, e.g. "Bullish".
func DirectionWord(d domain.Direction) string {
	s := strings.ToLower(string(d))
	if s == "" {
		return ""
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func earliestOpen(c domain.TradeCluster) (earliest time.Time) {
	for i, t := range c.Trades {
		if i == 0 || t.OpenedAt.Before(earliest) {
			earliest = t.OpenedAt
		}
	}
	return earliest
}
