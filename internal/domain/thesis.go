package domain

// PatternKind names the relationship linking the trades of a cluster.
type PatternKind string

const (
	PatternSameTicker        PatternKind = "SAME_TICKER"
	PatternRoll              PatternKind = "ROLL"
	PatternScaling           PatternKind = "SCALING"
	PatternAdjustment        PatternKind = "ADJUSTMENT"
	PatternPositionLifecycle PatternKind = "POSITION_LIFECYCLE"
	PatternMultiLeg          PatternKind = "MULTI_LEG"   // reserved
	PatternAIInferred        PatternKind = "AI_INFERRED" // reserved
)

// String returns the string representation of PatternKind.
func (p PatternKind) String() string {
	return string(p)
}

// TradeAction classifies the role a trade plays inside a thesis.
type TradeAction string

const (
	ActionInitial   TradeAction = "INITIAL"
	ActionAdd       TradeAction = "ADD"
	ActionReduce    TradeAction = "REDUCE"
	ActionRoll      TradeAction = "ROLL"
	ActionConvert   TradeAction = "CONVERT"
	ActionClose     TradeAction = "CLOSE"
	ActionAssigned  TradeAction = "ASSIGNED"
	ActionExercised TradeAction = "EXERCISED"
)

// Direction is the directional bias of a thesis.
type Direction string

const (
	DirectionBullish  Direction = "BULLISH"
	DirectionBearish  Direction = "BEARISH"
	DirectionNeutral  Direction = "NEUTRAL"
	DirectionVolatile Direction = "VOLATILE" // never inferred by the engine
)

// String returns the string representation of Direction.
func (d Direction) String() string {
	return string(d)
}

// TradeCluster is a ticker-homogeneous group of at least two trades,
// ordered by OpenedAt ascending.
type TradeCluster struct {
	Ticker string
	Trades []TradeRecord
}

// TradeIDs returns the ids of the cluster's trades in cluster order.
func (c TradeCluster) TradeIDs() []string {
	ids := make([]string, len(c.Trades))
	for i, t := range c.Trades {
		ids[i] = t.ID
	}
	return ids
}

// SuggestedAction pairs a trade with the action it plays in the thesis.
type SuggestedAction struct {
	TradeID string      `json:"tradeId"`
	Action  TradeAction `json:"action"`
}

// PatternFinding is the outcome of pattern detection for one cluster.
type PatternFinding struct {
	Pattern          PatternKind
	ConfidenceBonus  int
	Reason           string
	SuggestedActions []SuggestedAction
}

// LinkSuggestion proposes that a set of trades forms one thesis.
type LinkSuggestion struct {
	ID                 string            `json:"id"`
	Confidence         int               `json:"confidence"` // 0..100
	TradeIDs           []string          `json:"tradeIds"`
	Pattern            PatternKind       `json:"pattern"`
	Reason             string            `json:"reason"`
	SuggestedName      string            `json:"suggestedName"`
	SuggestedDirection Direction         `json:"suggestedDirection"`
	SuggestedActions   []SuggestedAction `json:"suggestedActions,omitempty"`
}
