package types_test

import (
	"math"
	"testing"

	sdkmath "cosmossdk.io/math"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/oyster-market/oyster/x/market/types"
)

func TestCalcAmountUsed(t *testing.T) {
	tests := []struct {
		name     string
		rate     uint64
		duration uint64
		expected int64
	}{
		{name: "zero duration", rate: 1_000_000_000_000, duration: 0, expected: 0},
		{name: "zero rate", rate: 0, duration: 3600, expected: 0},
		{name: "one unit per second", rate: 1_000_000_000_000, duration: 100, expected: 100},
		{name: "fraction rounds up", rate: 1, duration: 1, expected: 1},
		{name: "just above a unit", rate: 1_000_000_000_001, duration: 1, expected: 2},
		{name: "exact multiple", rate: 500_000_000_000, duration: 4, expected: 2},
		{name: "half unit per second for odd duration", rate: 500_000_000_000, duration: 3, expected: 2},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, sdkmath.NewInt(tc.expected), types.CalcAmountUsed(tc.rate, tc.duration))
		})
	}
}

func TestCalcAmountUsedDoesNotOverflow(t *testing.T) {
	got := types.CalcAmountUsed(math.MaxUint64, math.MaxUint64)

	product := sdkmath.NewIntFromUint64(math.MaxUint64).Mul(sdkmath.NewIntFromUint64(math.MaxUint64))
	floor := product.Quo(types.RatePrecision)
	require.True(t, got.Equal(floor) || got.Equal(floor.AddRaw(1)))
	require.True(t, got.Mul(types.RatePrecision).GTE(product))
}

func TestCalcAmountUsedIsCeiling(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		rate := rapid.Uint64().Draw(t, "rate")
		duration := rapid.Uint64Range(0, 10*365*24*3600).Draw(t, "duration")

		got := types.CalcAmountUsed(rate, duration)
		product := sdkmath.NewIntFromUint64(rate).Mul(sdkmath.NewIntFromUint64(duration))

		// got*P >= product > (got-1)*P
		if got.Mul(types.RatePrecision).LT(product) {
			t.Fatalf("amount %s does not cover %d*%d", got, rate, duration)
		}
		if got.IsPositive() && got.SubRaw(1).Mul(types.RatePrecision).GTE(product) {
			t.Fatalf("amount %s overshoots %d*%d", got, rate, duration)
		}
		if product.IsPositive() && !got.IsPositive() {
			t.Fatalf("nonzero usage %d*%d billed as zero", rate, duration)
		}
	})
}

func TestSplitCredit(t *testing.T) {
	tests := []struct {
		name            string
		total           uint64
		available       uint64
		creditsEnabled  bool
		expectedCredit  uint64
		expectedPrimary uint64
	}{
		{name: "credits disabled", total: 100, available: 1000, creditsEnabled: false, expectedCredit: 0, expectedPrimary: 100},
		{name: "credit covers all", total: 100, available: 1000, creditsEnabled: true, expectedCredit: 100, expectedPrimary: 0},
		{name: "credit covers part", total: 100, available: 30, creditsEnabled: true, expectedCredit: 30, expectedPrimary: 70},
		{name: "no credit", total: 100, available: 0, creditsEnabled: true, expectedCredit: 0, expectedPrimary: 100},
		{name: "zero total", total: 0, available: 50, creditsEnabled: true, expectedCredit: 0, expectedPrimary: 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			credit, primary := types.SplitCredit(tc.total, tc.available, tc.creditsEnabled)
			require.Equal(t, tc.expectedCredit, credit)
			require.Equal(t, tc.expectedPrimary, primary)
			require.Equal(t, tc.total, credit+primary)
		})
	}
}

func TestMaxRate(t *testing.T) {
	require.Equal(t, uint64(5), types.MaxRate(5, 3))
	require.Equal(t, uint64(5), types.MaxRate(3, 5))
	require.Equal(t, uint64(4), types.MaxRate(4, 4))
}
