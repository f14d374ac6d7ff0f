package tablesplit

import (
	"math"

	"github.com/shopspring/decimal"
)

// factorFractionDigits is the fixed number of fractional digits the
// distribution factor is rounded to. Floating point is not acceptable
// for (max-min)+1 as it approaches 2^63, so the division is done in
// decimal.Decimal and only converted to float64 at the end.
const factorFractionDigits = 4

// distributionFactor computes F = ceil_div((max-min)+1, n) in
// arbitrary-precision decimal, rounded up to factorFractionDigits
// fractional digits, then converted to float64. n == 0 means maximally
// sparse (+Inf).
func distributionFactor(min, max Key, n int64) (float64, error) {
	if n == 0 {
		return math.Inf(1), nil
	}
	diff, err := Minus(max, min)
	if err != nil {
		return 0, err
	}
	diff = diff.Add(decimal.NewFromInt(1))

	quotient := diff.DivRound(decimal.NewFromInt(n), factorFractionDigits+8)
	ceiled := ceilToFractionDigits(quotient, factorFractionDigits)
	f, _ := ceiled.Float64()
	return f, nil
}

// ceilToFractionDigits rounds d up (towards +Inf) to the given number of
// fractional digits. decimal.DivRound rounds half-away-from-zero, not
// towards the ceiling needed here, so the rounding is done explicitly:
// shift the fractional digits into the integer part, take Ceil, shift
// back.
func ceilToFractionDigits(d decimal.Decimal, digits int32) decimal.Decimal {
	shifted := d.Shift(digits)
	return shifted.Ceil().Shift(-digits)
}
