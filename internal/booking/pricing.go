package booking

import "math"

// FinalPrice applies a percentage discount to an event price in major
// currency units: price - round(price * discount/100), rounding half away
// from zero. Zero or negative discounts leave the price untouched; values
// over 100 are treated as 100.
func FinalPrice(price, discountPercent float64) float64 {
	if discountPercent <= 0 {
		return price
	}
	if discountPercent > 100 {
		discountPercent = 100
	}
	discountAmount := math.Round(price * discountPercent / 100)
	return price - discountAmount
}

// AmountInPaise converts a major-unit price to the gateway's minor unit.
// The result must be an exact integer; fractional paise would silently
// change what the customer is charged.
func AmountInPaise(price float64) int64 {
	return int64(math.Round(price * 100))
}
