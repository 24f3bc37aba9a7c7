package domain

import "math"

// NormalizePrice rescales a raw price by the decimal difference:
// raw / 10^(decimalsA - decimalsB). The exponent is signed, so a token
// with fewer decimals than its counterpart scales up instead of
// underflowing.
func NormalizePrice(raw float64, decimalsA, decimalsB uint8) float64 {
	exp := int(decimalsA) - int(decimalsB)
	return raw / math.Pow10(exp)
}
