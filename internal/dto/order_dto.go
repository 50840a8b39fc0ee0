package dto

import "github.com/shopspring/decimal"

// ─── Filter / List ───────────────────────────────────────────────────────────

// OrderFilter is bound from the query string of GET /v1/orders.
type OrderFilter struct {
	Status   string `form:"status"`    // waiting | stage_1..stage_4 | ready_to_ship | shipped | cancelled | all
	ClientID string `form:"client_id"` // optional client scoping
	Page     int    `form:"page,default=1"   validate:"min=1"`
	Limit    int    `form:"limit,default=50" validate:"min=1,max=200"`
}

type OrderListResponse struct {
	Data  []OrderResponse `json:"data"`
	Total int64           `json:"total"`
	Page  int             `json:"page"`
	Limit int             `json:"limit"`
}

// ─── Request DTOs ────────────────────────────────────────────────────────────

// OrderLineRequest selects an approved label and a quantity. Quantity 0 means
// "not selected" and is skipped, not rejected.
type OrderLineRequest struct {
	LabelID  string `json:"label_id" validate:"required,uuid"`
	Quantity int    `json:"quantity" validate:"min=0"`
}

type CreateOrderRequest struct {
	ClientID     string             `json:"client_id"     validate:"required,uuid"`
	Lines        []OrderLineRequest `json:"lines"         validate:"required,min=1,dive"`
	DeliveryDate *string            `json:"delivery_date" validate:"omitempty,datetime=2006-01-02"`
	Discount     decimal.Decimal    `json:"discount"      validate:"min=0"`
	DiscountType string             `json:"discount_type" validate:"omitempty,oneof=flat percentage"`
	ShipASAP     bool               `json:"ship_asap"`
	IsRecurring  bool               `json:"is_recurring"`
}

// UpdateOrderRequest re-snapshots the full line set. Only accepted while the
// order is still waiting.
type UpdateOrderRequest struct {
	Lines        []OrderLineRequest `json:"lines"         validate:"required,min=1,dive"`
	DeliveryDate *string            `json:"delivery_date" validate:"omitempty,datetime=2006-01-02"`
	Discount     decimal.Decimal    `json:"discount"      validate:"min=0"`
	DiscountType string             `json:"discount_type" validate:"omitempty,oneof=flat percentage"`
	IsRecurring  *bool              `json:"is_recurring"`
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

type ShipASAPRequest struct {
	ShipASAP bool `json:"ship_asap"`
}

// QuoteRequest previews totals without persisting anything.
type QuoteRequest struct {
	Lines        []OrderLineRequest `json:"lines"         validate:"required,min=1,dive"`
	Discount     decimal.Decimal    `json:"discount"      validate:"min=0"`
	DiscountType string             `json:"discount_type" validate:"omitempty,oneof=flat percentage"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type OrderItemResponse struct {
	LabelID     string          `json:"label_id"`
	FlavorName  string          `json:"flavor_name"`
	ProductType string          `json:"product_type"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	LineTotal   decimal.Decimal `json:"line_total"`
	// PriceWarning flags a zero unit price carried into the snapshot.
	PriceWarning bool `json:"price_warning,omitempty"`
}

type OrderResponse struct {
	ID             string              `json:"id"`
	OrderNumber    int                 `json:"order_number"`
	ClientID       string              `json:"client_id"`
	StoreName      string              `json:"store_name,omitempty"`
	Status         string              `json:"status"`
	Items          []OrderItemResponse `json:"items"`
	DeliveryDate   *string             `json:"delivery_date,omitempty"`
	Discount       decimal.Decimal     `json:"discount"`
	DiscountType   string              `json:"discount_type"`
	Subtotal       decimal.Decimal     `json:"subtotal"`
	DiscountAmount decimal.Decimal     `json:"discount_amount"`
	Total          decimal.Decimal     `json:"total"`
	ShipASAP       bool                `json:"ship_asap"`
	IsRecurring    bool                `json:"is_recurring"`
	CreatedAt      string              `json:"created_at"`
}

type QuoteResponse struct {
	Subtotal       decimal.Decimal `json:"subtotal"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	Total          decimal.Decimal `json:"total"`
	// UnpricedLines lists label ids that resolved to a zero price.
	UnpricedLines []string `json:"unpriced_lines,omitempty"`
}
