package domain

// StrategyType is the options strategy a trade was opened with.
// The zero value means the strategy is unknown.
type StrategyType string

// Strategy type constants
const (
	StrategyUnknown        StrategyType = ""
	StrategyLongCall       StrategyType = "LONG_CALL"
	StrategyLongPut        StrategyType = "LONG_PUT"
	StrategyCallSpread     StrategyType = "CALL_SPREAD"
	StrategyPutSpread      StrategyType = "PUT_SPREAD"
	StrategyIronCondor     StrategyType = "IRON_CONDOR"
	StrategyIronButterfly  StrategyType = "IRON_BUTTERFLY"
	StrategyStraddle       StrategyType = "STRADDLE"
	StrategyStrangle       StrategyType = "STRANGLE"
	StrategyCalendar       StrategyType = "CALENDAR"
	StrategyDiagonal       StrategyType = "DIAGONAL"
	StrategyRatio          StrategyType = "RATIO"
	StrategyButterfly      StrategyType = "BUTTERFLY"
	StrategyStock          StrategyType = "STOCK"
	StrategyCoveredCall    StrategyType = "COVERED_CALL"
	StrategyCashSecuredPut StrategyType = "CASH_SECURED_PUT"
	StrategyCustom         StrategyType = "CUSTOM"
)

// AllStrategyTypes lists every known strategy type in declaration order.
var AllStrategyTypes = []StrategyType{
	StrategyLongCall,
	StrategyLongPut,
	StrategyCallSpread,
	StrategyPutSpread,
	StrategyIronCondor,
	StrategyIronButterfly,
	StrategyStraddle,
	StrategyStrangle,
	StrategyCalendar,
	StrategyDiagonal,
	StrategyRatio,
	StrategyButterfly,
	StrategyStock,
	StrategyCoveredCall,
	StrategyCashSecuredPut,
	StrategyCustom,
}

// String returns the string representation of StrategyType.
func (s StrategyType) String() string {
	return string(s)
}

// IsValid checks if the strategy type is a known, non-empty value.
func (s StrategyType) IsValid() bool {
	for _, known := range AllStrategyTypes {
		if s == known {
			return true
		}
	}
	return false
}
