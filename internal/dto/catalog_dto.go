package dto

import "github.com/shopspring/decimal"

// ─── Product lines ───────────────────────────────────────────────────────────

type CreateProductLineRequest struct {
	Name             string   `json:"name"              validate:"required,min=2,max=150"`
	DisplayRank      int      `json:"display_rank"      validate:"min=0"`
	PricingStructure string   `json:"pricing_structure" validate:"required,oneof=simple variants multi-type"`
	VariantLabels    []string `json:"variant_labels"    validate:"omitempty,dive,min=1"`
	TypeKeys         []string `json:"type_keys"         validate:"omitempty,dive,min=1"`
}

type UpdateProductLineRequest struct {
	Name          string   `json:"name"           validate:"omitempty,min=2,max=150"`
	DisplayRank   *int     `json:"display_rank"   validate:"omitempty,min=0"`
	VariantLabels []string `json:"variant_labels" validate:"omitempty,dive,min=1"`
	TypeKeys      []string `json:"type_keys"      validate:"omitempty,dive,min=1"`
}

type ProductLineResponse struct {
	ID               string   `json:"id"`
	Name             string   `json:"name"`
	DisplayRank      int      `json:"display_rank"`
	PricingStructure string   `json:"pricing_structure"`
	VariantLabels    []string `json:"variant_labels,omitempty"`
	TypeKeys         []string `json:"type_keys,omitempty"`
	Active           bool     `json:"active"`
}

// ─── Products ────────────────────────────────────────────────────────────────

type ProductVariantRequest struct {
	Label         string           `json:"label"          validate:"required,min=1"`
	Price         decimal.Decimal  `json:"price"          validate:"required"`
	DiscountPrice *decimal.Decimal `json:"discount_price"`
}

type ProductTypePriceRequest struct {
	TypeKey       string           `json:"type_key"       validate:"required,min=1"`
	Price         decimal.Decimal  `json:"price"          validate:"required"`
	DiscountPrice *decimal.Decimal `json:"discount_price"`
}

type CreateProductRequest struct {
	ProductLineID   string                     `json:"product_line_id" validate:"required,uuid"`
	Name            string                     `json:"name"            validate:"required,min=2,max=200"`
	Description     *string                    `json:"description"`
	Price           decimal.Decimal            `json:"price"           validate:"min=0"`
	DiscountPrice   *decimal.Decimal           `json:"discount_price"`
	Variants        []ProductVariantRequest    `json:"variants"        validate:"omitempty,dive"`
	TypePrices      []ProductTypePriceRequest  `json:"type_prices"     validate:"omitempty,dive"`
	LegacyBreakdown map[string]decimal.Decimal `json:"legacy_breakdown"`
}

type UpdateProductRequest struct {
	Name          string                    `json:"name"        validate:"omitempty,min=2,max=200"`
	Description   *string                   `json:"description"`
	Price         *decimal.Decimal          `json:"price"`
	DiscountPrice *decimal.Decimal          `json:"discount_price"`
	Variants      []ProductVariantRequest   `json:"variants"    validate:"omitempty,dive"`
	TypePrices    []ProductTypePriceRequest `json:"type_prices" validate:"omitempty,dive"`
}

type ProductVariantResponse struct {
	Label         string           `json:"label"`
	Price         decimal.Decimal  `json:"price"`
	DiscountPrice *decimal.Decimal `json:"discount_price,omitempty"`
}

type ProductTypePriceResponse struct {
	TypeKey       string           `json:"type_key"`
	Price         decimal.Decimal  `json:"price"`
	DiscountPrice *decimal.Decimal `json:"discount_price,omitempty"`
}

type ProductResponse struct {
	ID            string                     `json:"id"`
	ProductLineID string                     `json:"product_line_id"`
	Name          string                     `json:"name"`
	Description   *string                    `json:"description,omitempty"`
	Price         decimal.Decimal            `json:"price"`
	DiscountPrice *decimal.Decimal           `json:"discount_price,omitempty"`
	Variants      []ProductVariantResponse   `json:"variants,omitempty"`
	TypePrices    []ProductTypePriceResponse `json:"type_prices,omitempty"`
	Active        bool                       `json:"active"`
}

// ResolvePriceResponse is the outcome of a catalog price lookup.
// Unresolved means the effective price is zero and must be surfaced as a
// warning, never silently accepted as a sale price.
type ResolvePriceResponse struct {
	UnitPrice      decimal.Decimal `json:"unit_price"`
	DiscountPrice  decimal.Decimal `json:"discount_price"`
	EffectivePrice decimal.Decimal `json:"effective_price"`
	Unresolved     bool            `json:"unresolved"`
}
