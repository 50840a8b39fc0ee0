package repository

import (
	"context"

	"betteredible/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type LabelRepository interface {
	Create(ctx context.Context, tx *gorm.DB, l *model.Label) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Label, error)
	ListByClient(ctx context.Context, clientID uuid.UUID, stage *model.LabelStage) ([]model.Label, error)
	// ListByClientTx reads the client's label group inside a transaction so a
	// bulk advance sees a consistent snapshot.
	ListByClientTx(tx *gorm.DB, clientID uuid.UUID) ([]model.Label, error)
	Update(ctx context.Context, l *model.Label) error
	SetStageTx(tx *gorm.DB, id uuid.UUID, stage model.LabelStage) error
	AppendHistoryTx(tx *gorm.DB, ev *model.LabelStageEvent) error
	History(ctx context.Context, labelID uuid.UUID) ([]model.LabelStageEvent, error)
	DB() *gorm.DB // exposes the DB for transaction creation in the service layer
}

type labelRepo struct{ db *gorm.DB }

func NewLabelRepository(db *gorm.DB) LabelRepository { return &labelRepo{db: db} }

func (r *labelRepo) DB() *gorm.DB { return r.db }

func (r *labelRepo) Create(ctx context.Context, tx *gorm.DB, l *model.Label) error {
	return tx.WithContext(ctx).Create(l).Error
}

func (r *labelRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Label, error) {
	var l model.Label
	err := r.db.WithContext(ctx).First(&l, "id = ?", id).Error
	return &l, err
}

func (r *labelRepo) ListByClient(ctx context.Context, clientID uuid.UUID, stage *model.LabelStage) ([]model.Label, error) {
	var labels []model.Label
	q := r.db.WithContext(ctx).Where("client_id = ?", clientID).Order("created_at")
	if stage != nil {
		q = q.Where("current_stage = ?", *stage)
	}
	err := q.Find(&labels).Error
	return labels, err
}

func (r *labelRepo) ListByClientTx(tx *gorm.DB, clientID uuid.UUID) ([]model.Label, error) {
	var labels []model.Label
	err := tx.Where("client_id = ?", clientID).Order("created_at").Find(&labels).Error
	return labels, err
}

func (r *labelRepo) Update(ctx context.Context, l *model.Label) error {
	return r.db.WithContext(ctx).Save(l).Error
}

func (r *labelRepo) SetStageTx(tx *gorm.DB, id uuid.UUID, stage model.LabelStage) error {
	return tx.Model(&model.Label{}).Where("id = ?", id).Update("current_stage", stage).Error
}

func (r *labelRepo) AppendHistoryTx(tx *gorm.DB, ev *model.LabelStageEvent) error {
	return tx.Create(ev).Error
}

func (r *labelRepo) History(ctx context.Context, labelID uuid.UUID) ([]model.LabelStageEvent, error) {
	var events []model.LabelStageEvent
	err := r.db.WithContext(ctx).
		Where("label_id = ?", labelID).
		Order("created_at").
		Find(&events).Error
	return events, err
}
