package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LabelStage is one step in the fixed, totally-ordered approval pipeline.
// A label only ever moves forward through this ordering; StageApproved is
// terminal and is the sole precondition for orderability.
type LabelStage string

const (
	StageSubmitted    LabelStage = "submitted"
	StageDesign       LabelStage = "design"
	StageProofSent    LabelStage = "proof_sent"
	StageClientReview LabelStage = "client_review"
	StageApproved     LabelStage = "approved"
)

// stageOrder declares the total order. Rank and NextStages derive from it so
// the ordering lives in exactly one place.
var stageOrder = []LabelStage{
	StageSubmitted,
	StageDesign,
	StageProofSent,
	StageClientReview,
	StageApproved,
}

// Rank returns the stage's position in the fixed ordering, or -1 for an
// unknown stage value.
func (s LabelStage) Rank() int {
	for i, st := range stageOrder {
		if st == s {
			return i
		}
	}
	return -1
}

func (s LabelStage) Valid() bool { return s.Rank() >= 0 }

// Terminal reports whether s is the final "approved for production" stage.
func (s LabelStage) Terminal() bool { return s == StageApproved }

// NextStages returns the stages a label at s may still advance to: the suffix
// of the fixed ordering strictly after s. Empty for the terminal stage.
func (s LabelStage) NextStages() []LabelStage {
	r := s.Rank()
	if r < 0 || r == len(stageOrder)-1 {
		return nil
	}
	out := make([]LabelStage, len(stageOrder)-r-1)
	copy(out, stageOrder[r+1:])
	return out
}

// AllStages returns the fixed stage ordering.
func AllStages() []LabelStage {
	out := make([]LabelStage, len(stageOrder))
	copy(out, stageOrder)
	return out
}

// Label is a single private-label flavor/design artifact owned by a Client,
// moving through the approval pipeline before it can be ordered.
type Label struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ClientID    uuid.UUID `gorm:"type:uuid;not null;index"`
	FlavorName  string    `gorm:"not null"`
	ProductID   uuid.UUID `gorm:"type:uuid;not null;index"`
	ProductType string    `gorm:"not null"`
	// UnitPrice is snapshotted from the pricing resolver when the label is
	// created or re-priced. Zero means pricing could not be resolved.
	UnitPrice    decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	CurrentStage LabelStage      `gorm:"type:varchar(20);not null;default:'submitted';index"`
	CreatedAt    time.Time
	UpdatedAt    time.Time

	Client  *Client           `gorm:"foreignKey:ClientID"`
	Product *Product          `gorm:"foreignKey:ProductID"`
	History []LabelStageEvent `gorm:"foreignKey:LabelID;constraint:OnDelete:CASCADE"`
}

// LabelStageEvent is an immutable entry in a label's stage-history log.
// Events are never modified or deleted.
type LabelStageEvent struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	LabelID   uuid.UUID  `gorm:"type:uuid;not null;index"`
	Stage     LabelStage `gorm:"type:varchar(20);not null"`
	ActorID   string     `gorm:"not null"`
	ActorType string     `gorm:"not null"`
	Notes     *string
	CreatedAt time.Time
}
