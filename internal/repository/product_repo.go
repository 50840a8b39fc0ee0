package repository

import (
	"context"

	"betteredible/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProductLineRepository interface {
	Create(ctx context.Context, l *model.ProductLine) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.ProductLine, error)
	List(ctx context.Context, includeInactive bool) ([]model.ProductLine, error)
	Update(ctx context.Context, l *model.ProductLine) error
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
}

type productLineRepo struct{ db *gorm.DB }

func NewProductLineRepository(db *gorm.DB) ProductLineRepository { return &productLineRepo{db: db} }

func (r *productLineRepo) Create(ctx context.Context, l *model.ProductLine) error {
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *productLineRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.ProductLine, error) {
	var l model.ProductLine
	err := r.db.WithContext(ctx).First(&l, "id = ?", id).Error
	return &l, err
}

func (r *productLineRepo) List(ctx context.Context, includeInactive bool) ([]model.ProductLine, error) {
	var lines []model.ProductLine
	q := r.db.WithContext(ctx).Order("display_rank, name")
	if !includeInactive {
		q = q.Where("active = true")
	}
	err := q.Find(&lines).Error
	return lines, err
}

func (r *productLineRepo) Update(ctx context.Context, l *model.ProductLine) error {
	return r.db.WithContext(ctx).Save(l).Error
}

func (r *productLineRepo) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	return r.db.WithContext(ctx).Model(&model.ProductLine{}).Where("id = ?", id).Update("active", active).Error
}

type ProductRepository interface {
	Create(ctx context.Context, p *model.Product) error
	// FindByID preloads variants and type prices — callers feed the result
	// straight into the pricing resolver.
	FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error)
	ListByLine(ctx context.Context, lineID uuid.UUID, includeInactive bool) ([]model.Product, error)
	Update(ctx context.Context, p *model.Product) error
	ReplaceVariants(ctx context.Context, productID uuid.UUID, variants []model.ProductVariant) error
	ReplaceTypePrices(ctx context.Context, productID uuid.UUID, prices []model.ProductTypePrice) error
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
}

type productRepo struct{ db *gorm.DB }

func NewProductRepository(db *gorm.DB) ProductRepository { return &productRepo{db: db} }

func (r *productRepo) Create(ctx context.Context, p *model.Product) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *productRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	var p model.Product
	err := r.db.WithContext(ctx).
		Preload("Variants").Preload("TypePrices").Preload("ProductLine").
		First(&p, "id = ?", id).Error
	return &p, err
}

func (r *productRepo) ListByLine(ctx context.Context, lineID uuid.UUID, includeInactive bool) ([]model.Product, error) {
	var products []model.Product
	q := r.db.WithContext(ctx).
		Preload("Variants").Preload("TypePrices").
		Where("product_line_id = ?", lineID).
		Order("name")
	if !includeInactive {
		q = q.Where("active = true")
	}
	err := q.Find(&products).Error
	return products, err
}

func (r *productRepo) Update(ctx context.Context, p *model.Product) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *productRepo) ReplaceVariants(ctx context.Context, productID uuid.UUID, variants []model.ProductVariant) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", productID).Delete(&model.ProductVariant{}).Error; err != nil {
			return err
		}
		if len(variants) == 0 {
			return nil
		}
		return tx.Create(&variants).Error
	})
}

func (r *productRepo) ReplaceTypePrices(ctx context.Context, productID uuid.UUID, prices []model.ProductTypePrice) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", productID).Delete(&model.ProductTypePrice{}).Error; err != nil {
			return err
		}
		if len(prices) == 0 {
			return nil
		}
		return tx.Create(&prices).Error
	})
}

func (r *productRepo) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	return r.db.WithContext(ctx).Model(&model.Product{}).Where("id = ?", id).Update("active", active).Error
}
