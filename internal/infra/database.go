package infra

import (
	"fmt"

	"betteredible/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase establishes a GORM connection backed by pgx, runs AutoMigrate to
// create / update all tables, then applies the idempotent SQL patches that
// GORM cannot express (sequences, partial indexes).
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	if err := db.AutoMigrate(
		&model.User{},
		&model.Client{},
		&model.ProductLine{},
		&model.Product{},
		&model.ProductVariant{},
		&model.ProductTypePrice{},
		&model.Label{},
		&model.LabelStageEvent{},
		&model.ClientOrder{},
		&model.OrderItem{},
	); err != nil {
		return nil, fmt.Errorf("AutoMigrate: %w", err)
	}

	if err := applySchemaPatches(db); err != nil {
		return nil, fmt.Errorf("schema patches: %w", err)
	}

	return db, nil
}

// applySchemaPatches runs idempotent DDL that AutoMigrate cannot handle.
// Each statement uses IF NOT EXISTS semantics so re-running is safe.
func applySchemaPatches(db *gorm.DB) error {
	patches := []string{
		// Atomic order numbering — consumed via nextval() on order creation.
		`CREATE SEQUENCE IF NOT EXISTS client_orders_order_number_seq START 1000`,
		// Partial index for the intake dashboard (waiting orders only).
		`DO $$ BEGIN
		  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_client_orders_waiting') THEN
		    CREATE INDEX idx_client_orders_waiting
		        ON client_orders (created_at)
		        WHERE status = 'waiting';
		  END IF;
		END $$`,
		// Stage-history reads are always label-scoped and time-ordered.
		`DO $$ BEGIN
		  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_label_stage_events_label') THEN
		    CREATE INDEX idx_label_stage_events_label
		        ON label_stage_events (label_id, created_at);
		  END IF;
		END $$`,
	}

	for _, sql := range patches {
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("patch %q: %w", sql[:min(len(sql), 60)], err)
		}
	}
	return nil
}
