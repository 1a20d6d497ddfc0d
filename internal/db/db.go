package db

import (
	"fmt"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Supported SQL drivers.
const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
)

func gormConfig() *gorm.Config {
	return &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
	}
}

// Open connects to the database named by driver.
func Open(driver, dsn string) (*gorm.DB, error) {
	switch driver {
	case DriverMySQL:
		return NewMySQL(dsn)
	case DriverPostgres:
		return NewPostgres(dsn)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
}

// NewMySQL returns a connected GORM DB instance.
func NewMySQL(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(dsn), gormConfig())
	if err != nil {
		return nil, fmt.Errorf("connect mysql: %w", err)
	}
	return db, nil
}

// NewPostgres returns a connected GORM DB instance.
func NewPostgres(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), gormConfig())
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	return db, nil
}
