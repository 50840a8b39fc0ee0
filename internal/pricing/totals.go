package pricing

import (
	"github.com/shopspring/decimal"
)

// Line is one quantity-against-price request in an order computation.
// Quantity ≤ 0 means "not selected" and is excluded, not rejected.
type Line struct {
	Quantity      int
	UnitPrice     decimal.Decimal
	DiscountPrice *decimal.Decimal
}

// EffectivePrice applies the discount-over-unit rule to a single line.
func (l Line) EffectivePrice() decimal.Decimal {
	if l.DiscountPrice != nil && l.DiscountPrice.IsPositive() {
		return *l.DiscountPrice
	}
	return l.UnitPrice
}

// Totals is the computed money summary of an order.
type Totals struct {
	Subtotal       decimal.Decimal
	DiscountAmount decimal.Decimal
	Total          decimal.Decimal
}

// ComputeTotals turns line requests plus an order-level discount into
// subtotal, discount amount and final total. Intermediate math runs at full
// precision; outputs are rounded to 2 decimals (half up). The total is
// clamped at zero — a discount can never produce a negative order value.
func ComputeTotals(lines []Line, discount decimal.Decimal, discountType string) Totals {
	subtotal := decimal.Zero
	for _, l := range lines {
		if l.Quantity <= 0 {
			continue
		}
		subtotal = subtotal.Add(l.EffectivePrice().Mul(decimal.NewFromInt(int64(l.Quantity))))
	}
	subtotal = subtotal.Round(2)

	var discountAmount decimal.Decimal
	switch discountType {
	case "percentage":
		discountAmount = subtotal.Mul(discount).Div(decimal.NewFromInt(100)).Round(2)
	default: // flat
		discountAmount = discount.Round(2)
	}

	total := subtotal.Sub(discountAmount)
	if total.IsNegative() {
		total = decimal.Zero.Round(2)
	}

	return Totals{Subtotal: subtotal, DiscountAmount: discountAmount, Total: total}
}
