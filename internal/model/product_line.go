package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Pricing structures a ProductLine can declare. Every Product under a line
// must expose pricing data shaped to match the line's structure.
const (
	PricingSimple    = "simple"
	PricingVariants  = "variants"
	PricingMultiType = "multi-type"
)

// ProductLine groups Products and defines how they are priced.
type ProductLine struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name             string    `gorm:"uniqueIndex;not null"`
	DisplayRank      int       `gorm:"not null;default:0;index"`
	PricingStructure string    `gorm:"type:varchar(20);not null;default:'simple'"`
	// VariantLabels applies when PricingStructure = "variants" (e.g. "100Mg", "250Mg").
	VariantLabels pq.StringArray `gorm:"type:text[]"`
	// TypeKeys applies when PricingStructure = "multi-type" (e.g. "indica", "sativa").
	TypeKeys  pq.StringArray `gorm:"type:text[]"`
	Active    bool           `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Products []Product `gorm:"foreignKey:ProductLineID"`
}
