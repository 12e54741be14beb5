package infra

import (
	"fmt"
	"time"

	"dellasoft/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase establishes a GORM connection backed by pgx and migrates the
// schema: AutoMigrate for tables and columns, then idempotent SQL patches for
// what GORM cannot express (CHECK constraints, partial indexes).
func NewDatabase(dsn string, debug bool) (*gorm.DB, error) {
	level := logger.Warn
	if debug {
		level = logger.Info
	}
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(level),
		TranslateError: true,
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
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	if err := RunMigrations(db); err != nil {
		return nil, err
	}
	return db, nil
}

// RunMigrations creates or updates every table and applies the schema patches.
// Safe to call on an already migrated database.
func RunMigrations(db *gorm.DB) error {
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS pgcrypto`).Error; err != nil {
		return fmt.Errorf("pgcrypto: %w", err)
	}
	if err := db.AutoMigrate(
		&model.User{},
		&model.Customer{},
		&model.Product{},
		&model.Ingredient{},
		&model.RecipeItem{},
		&model.Stock{},
		&model.StockMovement{},
		&model.Order{},
		&model.ProductOrder{},
		&model.POS{},
		&model.Transaction{},
		&model.Invoice{},
	); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}
	if err := applySchemaPatches(db); err != nil {
		return fmt.Errorf("schema patches: %w", err)
	}
	return nil
}

// applySchemaPatches runs idempotent DDL. Each statement is guarded by an
// existence check so re-running on an already-patched DB is a no-op.
func applySchemaPatches(db *gorm.DB) error {
	patches := []struct{ descr, sql string }{
		{"orders paid range", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_orders_total_paid') THEN
    ALTER TABLE orders ADD CONSTRAINT chk_orders_total_paid
      CHECK (total_paid >= 0 AND total_paid <= total_order);
  END IF;
END $$`},
		{"stock non negative", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_stocks_quantity') THEN
    ALTER TABLE stocks ADD CONSTRAINT chk_stocks_quantity
      CHECK (quantity >= 0 AND min_quantity >= 0);
  END IF;
END $$`},
		{"stock single owner", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_stocks_owner') THEN
    ALTER TABLE stocks ADD CONSTRAINT chk_stocks_owner
      CHECK ((product_id IS NULL) <> (ingredient_id IS NULL));
  END IF;
END $$`},
		{"pos final amount", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_pos_final_amount') THEN
    ALTER TABLE pos ADD CONSTRAINT chk_pos_final_amount
      CHECK (final_amount >= initial_amount);
  END IF;
END $$`},
		// retry cron query
		{"invoices pending retry index", `
CREATE INDEX IF NOT EXISTS idx_invoices_pending_retry
    ON invoices (next_retry_at)
    WHERE status = 'pendiente' AND next_retry_at IS NOT NULL`},
	}

	for _, p := range patches {
		if err := db.Exec(p.sql).Error; err != nil {
			return fmt.Errorf("patch %q: %w", p.descr, err)
		}
	}
	return nil
}
