package normalization

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"trade-thesis-lab/internal/domain"
)

var (
	// 180C, 182.5p
	strikeRightRe = regexp.MustCompile(`^(\d+(?:\.\d+)?)([CP])$`)
	// +2, -1
	signedQtyRe = regexp.MustCompile(`^([+-])(\d+)$`)
	// 3, 3x
	qtyRe    = regexp.MustCompile(`^(\d+)X?$`)
	strikeRe = regexp.MustCompile(`^\$?(\d+(?:\.\d+)?)$`)

	legSeparators = strings.NewReplacer(";", "\n", "|", "\n")
)

var expiryLayouts = []string{"2006-01-02", "01/02/2006", "2Jan06", "Jan2006"}

type jsonLeg struct {
	Side     string `json:"side"`
	Quantity int    `json:"quantity"`
	Right    string `json:"right"`
	Strike   Amount `json:"strike"`
	Expiry   string `json:"expiry"`
}

// ParseLegs reads a free-text leg description. Two forms are understood:
// a JSON array of {side, quantity, right, strike, expiry} objects, or text
// segments separated by ";", "|" or newlines such as
// "BUY 1 180C 2025-03-21; SELL 1 185C 2025-03-21".
// Any segment that cannot be read makes the whole result nil.
func ParseLegs(raw string) []domain.Leg {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	if strings.HasPrefix(raw, "[") {
		return parseJSONLegs(raw)
	}

	var legs []domain.Leg
	for _, seg := range strings.Split(legSeparators.Replace(raw), "\n") {
		seg = strings.TrimSpace(seg)
		if seg == "" {
			continue
		}
		leg, ok := parseLegText(seg)
		if !ok {
			return nil
		}
		legs = append(legs, leg)
	}
	return legs
}

func parseJSONLegs(raw string) []domain.Leg {
	var in []jsonLeg
	if err := json.Unmarshal([]byte(raw), &in); err != nil {
		return nil
	}

	legs := make([]domain.Leg, 0, len(in))
	for _, jl := range in {
		leg := domain.Leg{Side: domain.LegSideBuy, Quantity: jl.Quantity}
		switch strings.ToUpper(jl.Side) {
		case "SELL", "SHORT":
			leg.Side = domain.LegSideSell
		case "BUY", "LONG", "":
		default:
			return nil
		}
		if leg.Quantity <= 0 {
			leg.Quantity = 1
		}
		if jl.Right != "" {
			right, ok := parseRight(jl.Right)
			if !ok {
				return nil
			}
			leg.Right = right
		}
		if jl.Strike != "" {
			d, err := decimal.NewFromString(string(jl.Strike))
			if err != nil {
				return nil
			}
			leg.Strike = &d
		}
		if jl.Expiry != "" {
			exp, ok := parseExpiry(jl.Expiry)
			if !ok {
				return nil
			}
			leg.Expiry = &exp
		}
		legs = append(legs, leg)
	}
	return legs
}

func parseLegText(seg string) (domain.Leg, bool) {
	leg := domain.Leg{Side: domain.LegSideBuy, Quantity: 1}
	var pendingStrike *decimal.Decimal
	var isStock bool

	for _, tok := range strings.Fields(strings.ToUpper(seg)) {
		switch {
		case tok == "BUY" || tok == "LONG" || tok == "BTO" || tok == "+":
			leg.Side = domain.LegSideBuy
		case tok == "SELL" || tok == "SHORT" || tok == "STO" || tok == "-":
			leg.Side = domain.LegSideSell
		case tok == "STOCK" || tok == "SHARES":
			isStock = true
		case tok == "CALL" || tok == "PUT" || tok == "C" || tok == "P":
			leg.Right, _ = parseRight(tok)
			if pendingStrike != nil {
				leg.Strike = pendingStrike
				pendingStrike = nil
			}
		case signedQtyRe.MatchString(tok):
			m := signedQtyRe.FindStringSubmatch(tok)
			if m[1] == "-" {
				leg.Side = domain.LegSideSell
			}
			leg.Quantity, _ = strconv.Atoi(m[2])
		case strikeRightRe.MatchString(tok):
			m := strikeRightRe.FindStringSubmatch(tok)
			d, _ := decimal.NewFromString(m[1])
			leg.Strike = &d
			leg.Right, _ = parseRight(m[2])
		default:
			if exp, ok := parseExpiry(tok); ok {
				leg.Expiry = &exp
				continue
			}
			if qtyRe.MatchString(tok) && strings.HasSuffix(tok, "X") {
				leg.Quantity, _ = strconv.Atoi(strings.TrimSuffix(tok, "X"))
				continue
			}
			if strikeRe.MatchString(tok) {
				// A bare number is a quantity until a strike slot is seen.
				d, _ := decimal.NewFromString(strikeRe.FindStringSubmatch(tok)[1])
				if pendingStrike != nil {
					q := pendingStrike.IntPart()
					leg.Quantity = int(q)
				}
				pendingStrike = &d
				continue
			}
			// Ticker symbols and noise words are ignored.
		}
	}

	if pendingStrike != nil {
		if isStock || leg.Strike != nil {
			leg.Quantity = int(pendingStrike.IntPart())
		} else {
			return domain.Leg{}, false
		}
	}
	if leg.Quantity <= 0 {
		return domain.Leg{}, false
	}
	if isStock {
		leg.Right = ""
		leg.Strike = nil
		return leg, true
	}
	if leg.Right == "" || leg.Strike == nil {
		return domain.Leg{}, false
	}
	return leg, true
}

func parseRight(s string) (domain.OptionRight, bool) {
	switch strings.ToUpper(s) {
	case "C", "CALL":
		return domain.OptionRightCall, true
	case "P", "PUT":
		return domain.OptionRightPut, true
	default:
		return "", false
	}
}

func parseExpiry(s string) (time.Time, bool) {
	for _, layout := range expiryLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}
