// Package pricing holds the pure computation core of the order pipeline:
// price resolution across the catalog's pricing shapes, and order totals.
// Nothing here performs I/O; all functions are deterministic in their inputs.
package pricing

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Variant is one priced variant of a product ("100Mg", "250Mg", ...).
type Variant struct {
	Label         string
	Price         decimal.Decimal
	DiscountPrice *decimal.Decimal
}

// TypePrice is a per-type-key price entry (multi-type products).
type TypePrice struct {
	Price         decimal.Decimal
	DiscountPrice *decimal.Decimal
}

// Product is the resolver's view of a catalog product: whichever of the
// pricing shapes it carries, plus the flat fallback pair.
type Product struct {
	Price           decimal.Decimal
	DiscountPrice   *decimal.Decimal
	Variants        []Variant
	TypePrices      map[string]TypePrice
	LegacyBreakdown map[string]decimal.Decimal
}

// Resolved is the outcome of a price resolution.
// Unresolved is set when the effective price is zero: pricing gaps never block
// order entry, but zero-priced lines must stay visibly distinguishable.
type Resolved struct {
	UnitPrice     decimal.Decimal
	DiscountPrice decimal.Decimal
	Unresolved    bool
}

// Effective returns the price used downstream: the discount price when it is
// present and strictly positive, otherwise the unit price.
func (r Resolved) Effective() decimal.Decimal {
	if r.DiscountPrice.IsPositive() {
		return r.DiscountPrice
	}
	return r.UnitPrice
}

// normalizeKey makes variant/type matching case-insensitive and
// whitespace-tolerant ("100 Mg" matches "100mg").
func normalizeKey(k string) string {
	return strings.ToLower(strings.ReplaceAll(strings.TrimSpace(k), " ", ""))
}

// Resolve finds the effective unit/discount price pair for requestedKey.
// Resolution order, first match wins:
//  1. variant whose label normalizes equal to requestedKey
//  2. type-price map entry for requestedKey (discount defaults to price)
//  3. legacy breakdown bare number, paired with the product-level discount
//  4. the product's own flat price pair
//
// An empty requestedKey (simple products) always falls through to 4.
func Resolve(p Product, requestedKey string) Resolved {
	key := normalizeKey(requestedKey)

	if key != "" {
		for _, v := range p.Variants {
			if normalizeKey(v.Label) == key {
				return finish(v.Price, v.DiscountPrice)
			}
		}
		for tk, tp := range p.TypePrices {
			if normalizeKey(tk) == key {
				if tp.DiscountPrice == nil {
					d := tp.Price
					return finish(tp.Price, &d)
				}
				return finish(tp.Price, tp.DiscountPrice)
			}
		}
		for tk, price := range p.LegacyBreakdown {
			if normalizeKey(tk) == key {
				return finish(price, p.DiscountPrice)
			}
		}
	}

	return finish(p.Price, p.DiscountPrice)
}

func finish(unit decimal.Decimal, discount *decimal.Decimal) Resolved {
	r := Resolved{UnitPrice: unit}
	if discount != nil {
		r.DiscountPrice = *discount
	}
	r.Unresolved = !r.Effective().IsPositive()
	return r
}
