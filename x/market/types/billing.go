package types

import (
	"cosmossdk.io/math"
)

// RatePrecisionDecimals is the number of decimals of the rate unit: a rate is
// currency units scaled by 10^12 per second.
const RatePrecisionDecimals = 12

// RatePrecision is the fixed precision factor P = 10^12.
var RatePrecision = math.NewIntWithDecimal(1, RatePrecisionDecimals)

// CalcAmountUsed returns ceil(rate * duration / P), the whole currency units
// owed for duration seconds at rate. A nonzero product never rounds to zero.
func CalcAmountUsed(rate, duration uint64) math.Int {
	product := math.NewIntFromUint64(rate).Mul(math.NewIntFromUint64(duration))
	if product.IsZero() {
		return math.ZeroInt()
	}
	return product.Add(RatePrecision).SubRaw(1).Quo(RatePrecision)
}

// SplitCredit divides total into a credit-backed part and a primary part.
// Credit is consumed first, up to available; with credits disabled the whole
// amount is primary.
func SplitCredit(total, available uint64, creditsEnabled bool) (credit, primary uint64) {
	if !creditsEnabled {
		return 0, total
	}
	credit = min(total, available)
	return credit, total - credit
}

// MaxRate returns the higher of two rates.
func MaxRate(a, b uint64) uint64 {
	return max(a, b)
}
