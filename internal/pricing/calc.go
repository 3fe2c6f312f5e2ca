package pricing

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// FinalPrice applies percent off base and rounds to cents, half away from
// zero. A nil or zero percent returns base untouched.
func FinalPrice(base float64, percent *float64) float64 {
	if percent == nil || *percent == 0 {
		return base
	}

	factor := decimal.NewFromInt(1).Sub(decimal.NewFromFloat(*percent).Div(hundred))
	return decimal.NewFromFloat(base).Mul(factor).Round(2).InexactFloat64()
}

func validPercent(p float64) bool {
	return p >= 0 && p <= 100
}
