package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"
	"gorm.io/gorm"

	"legumes/internal/db/migrations"
	"legumes/internal/model"
)

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// dialect maps a driver name to its goose dialect.
func dialect(driver string) (string, error) {
	switch driver {
	case DriverMySQL:
		return "mysql", nil
	case DriverPostgres:
		return "postgres", nil
	default:
		return "", fmt.Errorf("unsupported database driver %q", driver)
	}
}

// Migrate creates the record store tables using the embedded goose migrations.
func Migrate(ctx context.Context, gdb *gorm.DB, driver string) error {
	name, err := dialect(driver)
	if err != nil {
		return err
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		return fmt.Errorf("get sql db: %w", err)
	}
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect(name); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}
	if err := gooseUpContext(ctx, sqlDB, "."); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	return nil
}

// MigrateAccounts creates the accounts table used by the local identity provider.
func MigrateAccounts(gdb *gorm.DB) error {
	return gdb.AutoMigrate(&model.Account{})
}
