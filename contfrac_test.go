package main

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLimitDenominator(t *testing.T) {
	pi, ok := new(big.Rat).SetString("3.141592653589793")
	require.True(t, ok)

	tests := []struct {
		x      *big.Rat
		maxDen int64
		want   string
	}{
		{pi, 10, "22/7"},
		{pi, 100, "311/99"},
		{pi, 1000, "355/113"},
		{big.NewRat(3, 8), 5, "2/5"},
		{big.NewRat(3, 8), 8, "3/8"},
		{big.NewRat(1, 4), 15, "1/4"},
		{big.NewRat(0, 1), 15, "0/1"},
		{big.NewRat(11, 16), 15, "9/13"},
	}
	for _, tt := range tests {
		got := LimitDenominator(tt.x, big.NewInt(tt.maxDen))
		assert.Equal(t, tt.want, got.String(), "LimitDenominator(%s, %d)", tt.x.RatString(), tt.maxDen)
	}
}

func TestLimitDenominatorPanicsOnNonPositiveLimit(t *testing.T) {
	assert.Panics(t, func() { LimitDenominator(big.NewRat(1, 3), big.NewInt(0)) })
}

func TestExtractPeriod(t *testing.T) {
	n := big.NewInt(15)
	tests := []struct {
		measured uint64
		counting int
		want     int64
	}{
		{0, 4, 1},
		{4, 4, 4},
		{8, 4, 2},
		{12, 4, 4},
		{6, 4, 8},
		{64, 8, 4},
		{192, 8, 4},
	}
	for _, tt := range tests {
		got := ExtractPeriod(tt.measured, tt.counting, n)
		assert.Equal(t, tt.want, got.Int64(), "ExtractPeriod(%d, %d)", tt.measured, tt.counting)
	}
}
