package infra

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"smartstock/internal/model"
)

// NewDatabase establishes a GORM connection backed by pgx, runs AutoMigrate to
// create / update all tables, then applies any idempotent SQL patches that GORM
// cannot express (extensions, sequences), and finally seeds the demo accounts
// and sample catalog so a fresh deployment is usable immediately.
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

	if err := RunMigrations(db); err != nil {
		return nil, err
	}

	if err := SeedDemoUsers(db); err != nil {
		return nil, fmt.Errorf("seed users: %w", err)
	}
	if err := seedSampleProducts(db); err != nil {
		return nil, fmt.Errorf("seed products: %w", err)
	}

	return db, nil
}

// RunMigrations applies AutoMigrate plus the SQL patches. Exposed separately
// so integration tests can migrate a containerized database without seeding.
func RunMigrations(db *gorm.DB) error {
	if err := applyPreMigrationPatches(db); err != nil {
		return fmt.Errorf("pre-migration patches: %w", err)
	}

	if err := db.AutoMigrate(
		&model.Product{},
		&model.StockMovement{},
		&model.Sale{},
		&model.User{},
	); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}

	if err := applySchemaPatches(db); err != nil {
		return fmt.Errorf("schema patches: %w", err)
	}
	return nil
}

// applyPreMigrationPatches runs DDL that must exist BEFORE AutoMigrate:
// gen_random_uuid() (used as the UUID column default) lives in pgcrypto on
// PostgreSQL < 13, so the extension is created defensively. Each statement is
// idempotent so re-running on an already-patched schema is a no-op.
func applyPreMigrationPatches(db *gorm.DB) error {
	patches := []struct{ descr, sql string }{
		{"create pgcrypto extension for gen_random_uuid",
			`CREATE EXTENSION IF NOT EXISTS pgcrypto`},
	}
	for _, p := range patches {
		if err := db.Exec(p.sql).Error; err != nil {
			return fmt.Errorf("pre-patch %q: %w", p.descr, err)
		}
	}
	return nil
}

// applySchemaPatches runs idempotent DDL statements that GORM AutoMigrate
// cannot express: the per-prefix code sequences and supporting indexes for
// the dashboard aggregation queries.
func applySchemaPatches(db *gorm.DB) error {
	patches := []string{
		// Sequences backing the PRD / STK / SAL code generators.
		`CREATE SEQUENCE IF NOT EXISTS seq_product_code START 1`,
		`CREATE SEQUENCE IF NOT EXISTS seq_movement_code START 1`,
		`CREATE SEQUENCE IF NOT EXISTS seq_sale_code START 1`,

		// Listing queries order by created_at DESC on both ledger tables.
		`DO $$ BEGIN
		  IF EXISTS (SELECT 1 FROM information_schema.tables WHERE table_name = 'stock_movements')
		    AND NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_stock_movements_created_at') THEN
		    CREATE INDEX idx_stock_movements_created_at
		        ON stock_movements (created_at DESC);
		  END IF;
		END $$`,
		`DO $$ BEGIN
		  IF EXISTS (SELECT 1 FROM information_schema.tables WHERE table_name = 'sales')
		    AND NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_sales_created_at') THEN
		    CREATE INDEX idx_sales_created_at
		        ON sales (created_at DESC);
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

// SeedDemoUsers upserts the demo accounts on every boot so a wiped password
// or deactivated demo user heals itself. Passwords are bcrypt-hashed here;
// plaintext never touches the database.
func SeedDemoUsers(db *gorm.DB) error {
	demos := []struct {
		username, email, name, password, role string
	}{
		{"admin", "admin@smartstock.local", "Administrator", "admin123", model.RoleAdmin},
		{"user", "user@smartstock.local", "Demo User", "user123", model.RoleUser},
	}

	for _, d := range demos {
		hash, err := bcrypt.GenerateFromPassword([]byte(d.password), 12)
		if err != nil {
			return err
		}
		err = db.Exec(`
			INSERT INTO users (username, email, name, password_hash, role, active, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, TRUE, NOW(), NOW())
			ON CONFLICT (username) DO UPDATE
			SET password_hash = EXCLUDED.password_hash,
			    role          = EXCLUDED.role,
			    active        = TRUE,
			    updated_at    = NOW()`,
			d.username, d.email, d.name, string(hash), d.role,
		).Error
		if err != nil {
			return fmt.Errorf("upsert %s: %w", d.username, err)
		}
	}
	return nil
}

// seedSampleProducts inserts a small starter catalog, only when the products
// table is completely empty. Codes are drawn from seq_product_code so later
// generated codes continue the series without collisions.
func seedSampleProducts(db *gorm.DB) error {
	var count int64
	if err := db.Model(&model.Product{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	samples := []model.Product{
		{Name: "Laptop Dell XPS 13", SKU: "DELL-XPS-13", Category: "Electronics",
			Supplier: "Dell Inc.", Price: decimal.NewFromFloat(1299.99), CurrentStock: 15, MinStock: 5},
		{Name: "Wireless Mouse Logitech MX", SKU: "LOGI-MX-3", Category: "Accessories",
			Supplier: "Logitech", Price: decimal.NewFromFloat(99.99), CurrentStock: 42, MinStock: 10},
		{Name: "Mechanical Keyboard K95", SKU: "CORS-K95", Category: "Accessories",
			Supplier: "Corsair", Price: decimal.NewFromFloat(189.99), CurrentStock: 8, MinStock: 8},
		{Name: "USB-C Hub 7-in-1", SKU: "ANKR-HUB-7", Category: "Accessories",
			Supplier: "Anker", Price: decimal.NewFromFloat(49.99), CurrentStock: 3, MinStock: 12},
		{Name: "Monitor 27\" 4K", SKU: "MON-27-4K", Category: "Electronics",
			Supplier: "LG Display", Price: decimal.NewFromFloat(449.99), CurrentStock: 0, MinStock: 4},
	}

	return db.Transaction(func(tx *gorm.DB) error {
		for i := range samples {
			var seq int64
			if err := tx.Raw(`SELECT nextval('seq_product_code')`).Scan(&seq).Error; err != nil {
				return err
			}
			samples[i].Code = fmt.Sprintf("PRD%06d", seq)
			if err := tx.Create(&samples[i]).Error; err != nil {
				return err
			}
		}
		log.Info().Int("count", len(samples)).Msg("seeded sample products")
		return nil
	})
}
