package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CreateLabelRequest struct {
	FlavorName  string `json:"flavor_name"  validate:"required,min=2,max=200"`
	ProductID   string `json:"product_id"   validate:"required,uuid"`
	ProductType string `json:"product_type" validate:"omitempty,max=100"`
	// UnitPrice overrides the resolved catalog price when set.
	UnitPrice *decimal.Decimal `json:"unit_price" validate:"omitempty"`
}

type UpdateLabelRequest struct {
	FlavorName  string           `json:"flavor_name"  validate:"omitempty,min=2,max=200"`
	ProductType string           `json:"product_type" validate:"omitempty,max=100"`
	UnitPrice   *decimal.Decimal `json:"unit_price"`
}

// AdvanceStageRequest moves a label (or a client's whole label group) forward
// to target_stage.
type AdvanceStageRequest struct {
	TargetStage string  `json:"target_stage" validate:"required"`
	Notes       *string `json:"notes"        validate:"omitempty,max=500"`
}

type LabelFilter struct {
	Stage string `form:"stage"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type LabelResponse struct {
	ID           string          `json:"id"`
	ClientID     string          `json:"client_id"`
	FlavorName   string          `json:"flavor_name"`
	ProductID    string          `json:"product_id"`
	ProductType  string          `json:"product_type"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	CurrentStage string          `json:"current_stage"`
	// AvailableStages is the suffix of the fixed stage list the label may
	// still advance to. Empty once approved.
	AvailableStages []string `json:"available_stages"`
	// PriceWarning flags a zero effective price (unresolved pricing).
	PriceWarning bool   `json:"price_warning"`
	CreatedAt    string `json:"created_at"`
}

type StageEventResponse struct {
	Stage     string  `json:"stage"`
	ActorID   string  `json:"actor_id"`
	ActorType string  `json:"actor_type"`
	Notes     *string `json:"notes,omitempty"`
	CreatedAt string  `json:"created_at"`
}

type BulkAdvanceResponse struct {
	UpdatedCount int    `json:"updated_count"`
	TargetStage  string `json:"target_stage"`
}
