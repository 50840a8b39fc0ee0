package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderStatus is one state in the fixed order lifecycle:
// waiting → stage_1 → stage_2 → stage_3 → stage_4 → ready_to_ship → shipped,
// with cancelled reachable out-of-band from any non-terminal state.
type OrderStatus string

const (
	OrderWaiting     OrderStatus = "waiting"
	OrderStage1      OrderStatus = "stage_1"
	OrderStage2      OrderStatus = "stage_2"
	OrderStage3      OrderStatus = "stage_3"
	OrderStage4      OrderStatus = "stage_4"
	OrderReadyToShip OrderStatus = "ready_to_ship"
	OrderShipped     OrderStatus = "shipped"
	OrderCancelled   OrderStatus = "cancelled"
)

var orderStatuses = []OrderStatus{
	OrderWaiting,
	OrderStage1,
	OrderStage2,
	OrderStage3,
	OrderStage4,
	OrderReadyToShip,
	OrderShipped,
	OrderCancelled,
}

func (s OrderStatus) Valid() bool {
	for _, st := range orderStatuses {
		if st == s {
			return true
		}
	}
	return false
}

// InProduction reports whether deletion is blocked: any status between
// stage_1 and ready_to_ship inclusive.
func (s OrderStatus) InProduction() bool {
	switch s {
	case OrderStage1, OrderStage2, OrderStage3, OrderStage4, OrderReadyToShip:
		return true
	}
	return false
}

// Terminal reports whether the order can no longer change status.
func (s OrderStatus) Terminal() bool { return s == OrderShipped }

// Discount types accepted on a ClientOrder.
const (
	DiscountFlat       = "flat"
	DiscountPercentage = "percentage"
)

// ClientOrder is a private-label order assembled from approved Labels.
// Item prices are snapshots taken at create/update time; later changes to
// the source Label's price never alter an existing order's totals.
type ClientOrder struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OrderNumber    int             `gorm:"uniqueIndex;not null"`
	ClientID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	Status         OrderStatus     `gorm:"type:varchar(20);not null;default:'waiting';index"`
	DeliveryDate   *time.Time      `gorm:"type:date"`
	Discount       decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	DiscountType   string          `gorm:"type:varchar(20);not null;default:'flat'"`
	Subtotal       decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	DiscountAmount decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Total          decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	ShipASAP       bool            `gorm:"not null;default:false"`
	IsRecurring    bool            `gorm:"not null;default:false"`
	// Version is the optimistic-concurrency guard: every state-changing write
	// checks and increments it.
	Version   int `gorm:"not null;default:0"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Client *Client     `gorm:"foreignKey:ClientID"`
	Items  []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

// OrderItem is a by-value snapshot of an approved Label line at the moment the
// order was created or last edited.
type OrderItem struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OrderID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	LabelID     uuid.UUID       `gorm:"type:uuid;not null"`
	FlavorName  string          `gorm:"not null"`
	ProductType string          `gorm:"not null"`
	Quantity    int             `gorm:"not null"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	LineTotal   decimal.Decimal `gorm:"type:decimal(12,2);not null"`
}
