package repository

import (
	"context"

	"betteredible/internal/dto"
	"betteredible/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type OrderRepository interface {
	Create(ctx context.Context, tx *gorm.DB, o *model.ClientOrder) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.ClientOrder, error)
	List(ctx context.Context, filter dto.OrderFilter) ([]model.ClientOrder, int64, error)
	// SaveGuarded updates the order row only if the version column still
	// matches o.Version, then increments it. Zero rows affected means the
	// write lost a race.
	SaveGuarded(ctx context.Context, tx *gorm.DB, o *model.ClientOrder) (int64, error)
	ReplaceItemsTx(tx *gorm.DB, orderID uuid.UUID, items []model.OrderItem) error
	Delete(ctx context.Context, id uuid.UUID) error
	NextOrderNumber(ctx context.Context, tx *gorm.DB) (int, error)
	DB() *gorm.DB // exposes the DB for transaction creation in the service layer
}

type orderRepo struct{ db *gorm.DB }

func NewOrderRepository(db *gorm.DB) OrderRepository { return &orderRepo{db: db} }

func (r *orderRepo) DB() *gorm.DB { return r.db }

func (r *orderRepo) Create(ctx context.Context, tx *gorm.DB, o *model.ClientOrder) error {
	return tx.WithContext(ctx).Create(o).Error
}

func (r *orderRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.ClientOrder, error) {
	var o model.ClientOrder
	err := r.db.WithContext(ctx).Preload("Items").Preload("Client").First(&o, "id = ?", id).Error
	return &o, err
}

func (r *orderRepo) List(ctx context.Context, filter dto.OrderFilter) ([]model.ClientOrder, int64, error) {
	var orders []model.ClientOrder
	var total int64
	offset := (filter.Page - 1) * filter.Limit

	q := r.db.WithContext(ctx).Model(&model.ClientOrder{})

	if filter.Status != "" && filter.Status != "all" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.ClientID != "" {
		q = q.Where("client_id = ?", filter.ClientID)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := q.Preload("Items").Preload("Client").
		Order("created_at DESC").
		Offset(offset).Limit(filter.Limit).
		Find(&orders).Error

	return orders, total, err
}

func (r *orderRepo) SaveGuarded(ctx context.Context, tx *gorm.DB, o *model.ClientOrder) (int64, error) {
	res := tx.WithContext(ctx).Model(&model.ClientOrder{}).
		Where("id = ? AND version = ?", o.ID, o.Version).
		Updates(map[string]interface{}{
			"status":          o.Status,
			"delivery_date":   o.DeliveryDate,
			"discount":        o.Discount,
			"discount_type":   o.DiscountType,
			"subtotal":        o.Subtotal,
			"discount_amount": o.DiscountAmount,
			"total":           o.Total,
			"ship_asap":       o.ShipASAP,
			"is_recurring":    o.IsRecurring,
			"version":         o.Version + 1,
		})
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected > 0 {
		o.Version++
	}
	return res.RowsAffected, nil
}

func (r *orderRepo) ReplaceItemsTx(tx *gorm.DB, orderID uuid.UUID, items []model.OrderItem) error {
	if err := tx.Where("order_id = ?", orderID).Delete(&model.OrderItem{}).Error; err != nil {
		return err
	}
	if len(items) == 0 {
		return nil
	}
	for i := range items {
		items[i].OrderID = orderID
	}
	return tx.Create(&items).Error
}

func (r *orderRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Select("Items").Delete(&model.ClientOrder{ID: id}).Error
}

func (r *orderRepo) NextOrderNumber(ctx context.Context, tx *gorm.DB) (int, error) {
	// PostgreSQL sequence keeps numbering atomic under concurrent creates
	var num int
	err := tx.WithContext(ctx).Raw("SELECT nextval('client_orders_order_number_seq')").Scan(&num).Error
	return num, err
}
