package dto

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CreateClientRequest struct {
	StoreName   string  `json:"store_name"   validate:"required,min=2,max=200"`
	ContactName string  `json:"contact_name" validate:"required,min=2,max=100"`
	Email       *string `json:"email"        validate:"omitempty,email"`
	Phone       *string `json:"phone"        validate:"omitempty,max=30"`
	Address     *string `json:"address"      validate:"omitempty,max=300"`
}

type UpdateClientRequest struct {
	StoreName   string  `json:"store_name"   validate:"omitempty,min=2,max=200"`
	ContactName string  `json:"contact_name" validate:"omitempty,min=2,max=100"`
	Email       *string `json:"email"        validate:"omitempty,email"`
	Phone       *string `json:"phone"        validate:"omitempty,max=30"`
	Address     *string `json:"address"      validate:"omitempty,max=300"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ClientResponse struct {
	ID          string  `json:"id"`
	StoreName   string  `json:"store_name"`
	ContactName string  `json:"contact_name"`
	Email       *string `json:"email"`
	Phone       *string `json:"phone"`
	Address     *string `json:"address"`
	Active      bool    `json:"active"`
	CreatedAt   string  `json:"created_at"`
}

type ClientListResponse struct {
	Data  []ClientResponse `json:"data"`
	Total int64            `json:"total"`
	Page  int              `json:"page"`
	Limit int              `json:"limit"`
}

type ClientFilter struct {
	IncludeInactive bool `form:"include_inactive"`
	Page            int  `form:"page,default=1"   validate:"min=1"`
	Limit           int  `form:"limit,default=50" validate:"min=1,max=200"`
}
