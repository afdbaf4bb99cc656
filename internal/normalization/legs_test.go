package normalization

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trade-thesis-lab/internal/domain"
)

func TestParseLegs_Text(t *testing.T) {
	legs := ParseLegs("BUY 1 180C 2025-03-21; SELL 1 185C 2025-03-21")
	require.Len(t, legs, 2)

	assert.Equal(t, domain.LegSideBuy, legs[0].Side)
	assert.Equal(t, 1, legs[0].Quantity)
	assert.Equal(t, domain.OptionRightCall, legs[0].Right)
	assert.True(t, legs[0].Strike.Equal(decimal.NewFromInt(180)))
	require.NotNil(t, legs[0].Expiry)
	assert.Equal(t, time.Date(2025, 3, 21, 0, 0, 0, 0, time.UTC), *legs[0].Expiry)

	assert.Equal(t, domain.LegSideSell, legs[1].Side)
	assert.True(t, legs[1].Strike.Equal(decimal.NewFromInt(185)))
}

func TestParseLegs_TextVariants(t *testing.T) {
	tests := []struct {
		name   string
		in     string
		side   domain.LegSide
		qty    int
		right  domain.OptionRight
		strike string
	}{
		{"signed quantity", "-2 AAPL 190P", domain.LegSideSell, 2, domain.OptionRightPut, "190"},
		{"word right", "sell 3 182.5 put", domain.LegSideSell, 3, domain.OptionRightPut, "182.5"},
		{"x quantity", "3x 50c 03/21/2025", domain.LegSideBuy, 3, domain.OptionRightCall, "50"},
		{"defaults", "400C", domain.LegSideBuy, 1, domain.OptionRightCall, "400"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			legs := ParseLegs(tt.in)
			require.Len(t, legs, 1)
			assert.Equal(t, tt.side, legs[0].Side)
			assert.Equal(t, tt.qty, legs[0].Quantity)
			assert.Equal(t, tt.right, legs[0].Right)
			assert.True(t, legs[0].Strike.Equal(decimal.RequireFromString(tt.strike)))
		})
	}
}

func TestParseLegs_Stock(t *testing.T) {
	legs := ParseLegs("BUY 100 SHARES | SELL 1 200C 2025-06-20")
	require.Len(t, legs, 2)

	assert.Equal(t, 100, legs[0].Quantity)
	assert.Empty(t, legs[0].Right)
	assert.Nil(t, legs[0].Strike)
	assert.Equal(t, domain.OptionRightCall, legs[1].Right)
}

func TestParseLegs_JSON(t *testing.T) {
	legs := ParseLegs(`[{"side":"sell","quantity":2,"right":"PUT","strike":"95.5","expiry":"2025-05-16"}]`)
	require.Len(t, legs, 1)

	assert.Equal(t, domain.LegSideSell, legs[0].Side)
	assert.Equal(t, 2, legs[0].Quantity)
	assert.Equal(t, domain.OptionRightPut, legs[0].Right)
	assert.True(t, legs[0].Strike.Equal(decimal.RequireFromString("95.5")))
}

func TestParseLegs_JSONNumericStrike(t *testing.T) {
	legs := ParseLegs(`[
		{"side":"buy","quantity":1,"right":"CALL","strike":180,"expiry":"2025-03-21"},
		{"side":"sell","quantity":1,"right":"CALL","strike":185.5,"expiry":"2025-03-21"},
		{"side":"buy","quantity":100,"strike":null}
	]`)
	require.Len(t, legs, 3)

	assert.Equal(t, domain.LegSideBuy, legs[0].Side)
	assert.Equal(t, domain.OptionRightCall, legs[0].Right)
	require.NotNil(t, legs[0].Strike)
	assert.True(t, legs[0].Strike.Equal(decimal.NewFromInt(180)))
	require.NotNil(t, legs[0].Expiry)
	assert.Equal(t, time.Date(2025, 3, 21, 0, 0, 0, 0, time.UTC), *legs[0].Expiry)

	assert.True(t, legs[1].Strike.Equal(decimal.RequireFromString("185.5")))
	assert.Nil(t, legs[2].Strike)
}

func TestParseLegs_FailuresMeanUnknown(t *testing.T) {
	for _, in := range []string{
		"",
		"   ",
		"rolled the thing",
		"BUY 1 180C; nonsense",
		`[{"side":"sideways"}]`,
		`[{"strike":"abc"}]`,
		`[not json`,
	} {
		assert.Nil(t, ParseLegs(in), "input %q", in)
	}
}
