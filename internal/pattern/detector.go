// Package pattern classifies how the trades of a cluster relate to each other.
package pattern

import (
	"fmt"

	"trade-thesis-lab/internal/domain"
	"trade-thesis-lab/internal/grouping"
)

// Confidence bonuses contributed by each rule.
const (
	BonusRoll       = 20
	BonusLifecycle  = 25
	BonusScaling    = 15
	BonusSameTicker = 0
)

// Rule is one heuristic in the detection chain.
// Match receives the cluster trades sorted by OpenedAt.
type Rule struct {
	Kind    domain.PatternKind
	Bonus   int
	Match   func(trades []domain.TradeRecord) bool
	Actions func(trades []domain.TradeRecord) []domain.SuggestedAction
	Reason  func(ticker string, trades []domain.TradeRecord) string
}

// Detector evaluates rules top to bottom; the first match wins.
type Detector struct {
	rules []Rule
}

// NewDetector creates a detector with the default rule chain.
func NewDetector() *Detector {
	return &Detector{rules: DefaultRules()}
}

// NewDetectorWithRules creates a detector with a custom rule chain.
// The same-ticker fallback is appended when the chain does not end with it.
func NewDetectorWithRules(rules []Rule) *Detector {
	chain := make([]Rule, len(rules))
	copy(chain, rules)
	if len(chain) == 0 || chain[len(chain)-1].Kind != domain.PatternSameTicker {
		chain = append(chain, SameTickerRule())
	}
	return &Detector{rules: chain}
}

// DefaultRules returns the rule chain in precedence order.
// Roll must precede lifecycle: lifecycle's open/closed mix is a superset of
// the roll trigger, so roll would never be reached otherwise.
func DefaultRules() []Rule {
	return []Rule{
		RollRule(),
		LifecycleRule(),
		ScalingRule(),
		SameTickerRule(),
	}
}

// Rules returns a copy of the detector's chain.
func (d *Detector) Rules() []Rule {
	out := make([]Rule, len(d.rules))
	copy(out, d.rules)
	return out
}

// Detect returns the finding of the first matching rule. It never returns an
// empty finding: the same-ticker fallback always applies.
func (d *Detector) Detect(c domain.TradeCluster) domain.PatternFinding {
	trades := make([]domain.TradeRecord, len(c.Trades))
	copy(trades, c.Trades)
	grouping.SortByOpenedAt(trades)
	if len(trades) == 0 {
		return SameTickerRule().finding(c.Ticker, trades)
	}

	for _, r := range d.rules {
		if r.Match != nil && !r.Match(trades) {
			continue
		}
		return r.finding(c.Ticker, trades)
	}

	return SameTickerRule().finding(c.Ticker, trades)
}

func (r Rule) finding(ticker string, trades []domain.TradeRecord) domain.PatternFinding {
	f := domain.PatternFinding{
		Pattern:         r.Kind,
		ConfidenceBonus: r.Bonus,
	}
	if r.Reason != nil {
		f.Reason = r.Reason(ticker, trades)
	}
	if r.Actions != nil {
		f.SuggestedActions = r.Actions(trades)
	}
	return f
}

// RollRule matches a closed trade followed directly by a non-closed trade of
// the same strategy type.
func RollRule() Rule {
	return Rule{
		Kind:  domain.PatternRoll,
		Bonus: BonusRoll,
		Match: func(trades []domain.TradeRecord) bool {
			_, ok := findRoll(trades)
			return ok
		},
		Actions: func(trades []domain.TradeRecord) []domain.SuggestedAction {
			return initialThen(trades, func(domain.TradeRecord) domain.TradeAction {
				return domain.ActionRoll
			})
		},
		Reason: func(ticker string, trades []domain.TradeRecord) string {
			i, _ := findRoll(trades)
			return fmt.Sprintf("%s position closed and reopened on %s; looks like a roll",
				strategyLabel(trades[i].StrategyType), ticker)
		},
	}
}

// findRoll returns the index of the closed half of the first roll pair.
func findRoll(trades []domain.TradeRecord) (int, bool) {
	for i := 1; i < len(trades); i++ {
		prev, cur := trades[i-1], trades[i]
		if prev.StrategyType == cur.StrategyType && prev.IsClosed() && !cur.IsClosed() {
			return i - 1, true
		}
	}
	return 0, false
}

// LifecycleRule matches clusters mixing closed and non-closed trades.
func LifecycleRule() Rule {
	return Rule{
		Kind:  domain.PatternPositionLifecycle,
		Bonus: BonusLifecycle,
		Match: func(trades []domain.TradeRecord) bool {
			open, closed := countByStatus(trades)
			return open > 0 && closed > 0
		},
		Actions: func(trades []domain.TradeRecord) []domain.SuggestedAction {
			return initialThen(trades, func(t domain.TradeRecord) domain.TradeAction {
				if t.IsClosed() {
					return domain.ActionClose
				}
				return domain.ActionAdd
			})
		},
		Reason: func(ticker string, trades []domain.TradeRecord) string {
			open, closed := countByStatus(trades)
			return fmt.Sprintf("%d open and %d closed trades on %s form one position lifecycle",
				open, closed, ticker)
		},
	}
}

// ScalingRule matches clusters where every trade shares one strategy type
// and none is closed.
func ScalingRule() Rule {
	return Rule{
		Kind:  domain.PatternScaling,
		Bonus: BonusScaling,
		Match: func(trades []domain.TradeRecord) bool {
			_, closed := countByStatus(trades)
			return closed == 0 && SameStrategy(trades)
		},
		Actions: addAfterInitial,
		Reason: func(ticker string, trades []domain.TradeRecord) string {
			return fmt.Sprintf("%d %s trades on %s opened while the position stayed open; scaling in",
				len(trades), strategyLabel(trades[0].StrategyType), ticker)
		},
	}
}

// SameTickerRule is the fallback that always matches.
func SameTickerRule() Rule {
	return Rule{
		Kind:    domain.PatternSameTicker,
		Bonus:   BonusSameTicker,
		Actions: addAfterInitial,
		Reason: func(ticker string, trades []domain.TradeRecord) string {
			return fmt.Sprintf("%d trades on %s within a short time window", len(trades), ticker)
		},
	}
}

// SameStrategy reports whether every trade has the same strategy type.
// An unknown strategy type compares equal to another unknown one.
func SameStrategy(trades []domain.TradeRecord) bool {
	for i := 1; i < len(trades); i++ {
		if trades[i].StrategyType != trades[0].StrategyType {
			return false
		}
	}
	return true
}

func countByStatus(trades []domain.TradeRecord) (open, closed int) {
	for _, t := range trades {
		if t.IsClosed() {
			closed++
		} else {
			open++
		}
	}
	return open, closed
}

func addAfterInitial(trades []domain.TradeRecord) []domain.SuggestedAction {
	return initialThen(trades, func(domain.TradeRecord) domain.TradeAction {
		return domain.ActionAdd
	})
}

// initialThen marks the first trade INITIAL and classifies the rest with next.
func initialThen(trades []domain.TradeRecord, next func(domain.TradeRecord) domain.TradeAction) []domain.SuggestedAction {
	actions := make([]domain.SuggestedAction, len(trades))
	for i, t := range trades {
		action := domain.ActionInitial
		if i > 0 {
			action = next(t)
		}
		actions[i] = domain.SuggestedAction{TradeID: t.ID, Action: action}
	}
	return actions
}

func strategyLabel(s domain.StrategyType) string {
	if s == domain.StrategyUnknown {
		return "untyped"
	}
	return string(s)
}
