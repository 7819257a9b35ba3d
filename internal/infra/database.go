package infra

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/IngCristianAraya/bodegapp-sub000/internal/model"
)

// NewDatabase establishes a GORM connection backed by pgx, runs AutoMigrate
// for the ledger tables, then applies the idempotent SQL patches GORM cannot
// express (the partial unique index below).
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
		// Lets repositories detect unique-index violations via
		// gorm.ErrDuplicatedKey instead of driver-specific error codes.
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

	if err := db.AutoMigrate(
		&model.CashRegister{},
		&model.CashMovement{},
		&model.Sale{},
		&model.TenantSettings{},
		&model.Operator{},
		&model.AuditRecord{},
	); err != nil {
		return nil, fmt.Errorf("AutoMigrate: %w", err)
	}

	if err := applySchemaPatches(db); err != nil {
		return nil, fmt.Errorf("schema patches: %w", err)
	}

	return db, nil
}

// applySchemaPatches runs idempotent DDL that AutoMigrate cannot express.
// The partial unique index is the authoritative guard for the "at most one
// open register per tenant" invariant: the service's read-then-insert check
// is racy on its own, so the insert itself must fail atomically when two
// terminals open at once.
func applySchemaPatches(db *gorm.DB) error {
	patches := []string{
		`DO $$ BEGIN
		  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'uniq_cash_registers_open_per_tenant') THEN
		    CREATE UNIQUE INDEX uniq_cash_registers_open_per_tenant
		        ON cash_registers (tenant_id)
		        WHERE status = 'open';
		  END IF;
		END $$`,
		// Window-range query support: sales are always fetched by tenant +
		// created_at range.
		`DO $$ BEGIN
		  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_sales_tenant_created_at') THEN
		    CREATE INDEX idx_sales_tenant_created_at
		        ON sales (tenant_id, created_at);
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

// RunMigrations applies the schema for integration tests.
func RunMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.CashRegister{},
		&model.CashMovement{},
		&model.Sale{},
		&model.TenantSettings{},
		&model.Operator{},
		&model.AuditRecord{},
	); err != nil {
		return err
	}
	return applySchemaPatches(db)
}
