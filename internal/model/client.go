package model

import (
	"time"

	"github.com/google/uuid"
)

// Client is a private-label customer (a store) that owns a group of Labels
// and places ClientOrders.
type Client struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	StoreName   string    `gorm:"index;not null"`
	ContactName string    `gorm:"not null"`
	Email       *string
	Phone       *string
	Address     *string
	Active      bool `gorm:"not null;default:true"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Labels []Label `gorm:"foreignKey:ClientID"`
}
