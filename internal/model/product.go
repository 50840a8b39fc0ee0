package model

import (
	"time"

	"betteredible/internal/pricing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product belongs to exactly one ProductLine and carries the pricing data for
// its line's structure: a flat price pair (simple), a variant list (variants),
// or per-type entries (multi-type). LegacyBreakdown is an older flat map kept
// only as a fallback source of a bare number when no type entry exists.
type Product struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductLineID uuid.UUID `gorm:"type:uuid;not null;index"`
	Name          string    `gorm:"index;not null"`
	Description   *string
	Price         decimal.Decimal  `gorm:"type:decimal(10,2);not null;default:0"`
	DiscountPrice *decimal.Decimal `gorm:"type:decimal(10,2)"`
	// LegacyBreakdown maps type-key → bare price, from the pre-variant catalog.
	LegacyBreakdown map[string]decimal.Decimal `gorm:"serializer:json"`
	Active          bool                       `gorm:"not null;default:true"`
	CreatedAt       time.Time
	UpdatedAt       time.Time

	ProductLine *ProductLine       `gorm:"foreignKey:ProductLineID"`
	Variants    []ProductVariant   `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	TypePrices  []ProductTypePrice `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
}

// ProductVariant is one priced variant of a Product (variants structure).
type ProductVariant struct {
	ID            uuid.UUID        `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductID     uuid.UUID        `gorm:"type:uuid;not null;index"`
	Label         string           `gorm:"not null"`
	Price         decimal.Decimal  `gorm:"type:decimal(10,2);not null"`
	DiscountPrice *decimal.Decimal `gorm:"type:decimal(10,2)"`
}

// ProductTypePrice is one priced type-key entry of a Product (multi-type structure).
type ProductTypePrice struct {
	ID            uuid.UUID        `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductID     uuid.UUID        `gorm:"type:uuid;not null;index"`
	TypeKey       string           `gorm:"not null"`
	Price         decimal.Decimal  `gorm:"type:decimal(10,2);not null"`
	DiscountPrice *decimal.Decimal `gorm:"type:decimal(10,2)"`
}

// PricingInput flattens the product's persisted pricing data into the shape
// the pricing resolver consumes.
func (p *Product) PricingInput() pricing.Product {
	in := pricing.Product{
		Price:           p.Price,
		DiscountPrice:   p.DiscountPrice,
		LegacyBreakdown: p.LegacyBreakdown,
	}
	for _, v := range p.Variants {
		in.Variants = append(in.Variants, pricing.Variant{
			Label:         v.Label,
			Price:         v.Price,
			DiscountPrice: v.DiscountPrice,
		})
	}
	if len(p.TypePrices) > 0 {
		in.TypePrices = make(map[string]pricing.TypePrice, len(p.TypePrices))
		for _, tp := range p.TypePrices {
			in.TypePrices[tp.TypeKey] = pricing.TypePrice{
				Price:         tp.Price,
				DiscountPrice: tp.DiscountPrice,
			}
		}
	}
	return in
}
