// Package scoring computes the confidence of a cluster becoming one thesis.
package scoring

import (
	"trade-thesis-lab/internal/domain"
	"trade-thesis-lab/internal/grouping"
	"trade-thesis-lab/internal/pattern"
)

// Score terms.
const (
	BaseScore        = 30
	TightSpanDays    = 7
	TightSpanBonus   = 20
	LooseSpanDays    = 14
	LooseSpanBonus   = 10
	HomogeneityBonus = 15

	MinScore = 0
	MaxScore = 100
)

// Breakdown lists every additive term of a score.
type Breakdown struct {
	Base        int
	Temporal    int
	Pattern     int
	Homogeneity int
	Total       int // clamped sum
}

// Score returns the clamped confidence for a cluster and its finding.
func Score(c domain.TradeCluster, f domain.PatternFinding) int {
	return Explain(c, f).Total
}

// Explain returns the score with each term broken out.
func Explain(c domain.TradeCluster, f domain.PatternFinding) Breakdown {
	b := Breakdown{
		Base:     BaseScore,
		Temporal: temporalBonus(grouping.Span(c)),
		Pattern:  f.ConfidenceBonus,
	}
	if len(c.Trades) > 0 && pattern.SameStrategy(c.Trades) {
		b.Homogeneity = HomogeneityBonus
	}
	b.Total = Clamp(b.Base + b.Temporal + b.Pattern + b.Homogeneity)
	return b
}

func temporalBonus(spanDays int) int {
	switch {
	case spanDays <= TightSpanDays:
		return TightSpanBonus
	case spanDays <= LooseSpanDays:
		return LooseSpanBonus
	default:
		return 0
	}
}

// Clamp bounds v to [MinScore, MaxScore].
func Clamp(v int) int {
	if v < MinScore {
		return MinScore
	}
	if v > MaxScore {
		return MaxScore
	}
	return v
}
