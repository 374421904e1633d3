package money

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// ToCents converts a decimal currency amount into integer cents, rounding
// half-up. All persistence is cents; decimals only exist at the API boundary.
func ToCents(amount decimal.Decimal) int64 {
	return amount.Mul(hundred).Round(0).IntPart()
}

// FromCents converts stored cents back into a decimal amount.
func FromCents(cents int64) decimal.Decimal {
	return decimal.NewFromInt(cents).Div(hundred)
}

// FromCentsPtr converts optional cents, keeping nil as nil.
func FromCentsPtr(cents *int64) *decimal.Decimal {
	if cents == nil {
		return nil
	}
	amount := FromCents(*cents)
	return &amount
}

// Format renders cents as a fixed two-decimal string for messages.
func Format(cents int64) string {
	return FromCents(cents).StringFixed(2)
}
