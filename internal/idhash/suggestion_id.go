package idhash

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"
)

// ComputeSuggestionID computes a deterministic suggestion id using SHA256.
// Formula: SHA256(len(ticker):ticker|len(id_1):id_1|...)
// Each field carries its length, so ids containing the separator cannot
// collide. Trade ids are hashed in the order given; callers pass them in
// cluster order.
// Returns hex-encoded hash (64 characters).
func ComputeSuggestionID(ticker string, tradeIDs []string) string {
	return hashFields(append([]string{ticker}, tradeIDs...)...)
}

// ComputeTradeID computes a deterministic trade id for imported rows that
// arrive without one.
// Formula: SHA256(account_id|ticker|opened_at_ms|strategy_type), length-prefixed
// like ComputeSuggestionID.
func ComputeTradeID(accountID, ticker string, openedAtMs int64, strategyType string) string {
	return hashFields(accountID, ticker, strconv.FormatInt(openedAtMs, 10), strategyType)
}

func hashFields(fields ...string) string {
	var sb strings.Builder
	for i, f := range fields {
		if i > 0 {
			sb.WriteByte('|')
		}
		sb.WriteString(strconv.Itoa(len(f)))
		sb.WriteByte(':')
		sb.WriteString(f)
	}

	hash := sha256.Sum256([]byte(sb.String()))
	return hex.EncodeToString(hash[:])
}
