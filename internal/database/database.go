package database

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/prasetyadi/graphmail-pipeline/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Connection pool configuration
const (
	DefaultMaxIdleConns    = 10
	DefaultMaxOpenConns    = 100
	DefaultConnMaxLifetime = time.Hour
	DefaultConnMaxIdleTime = 10 * time.Minute
)

// Connect establishes a connection to the PostgreSQL database
func Connect(databaseURL string) (*gorm.DB, error) {
	// Validate SSL mode in production
	env := os.Getenv("APP_ENV")
	if env == "production" {
		if err := validateSSLMode(databaseURL); err != nil {
			return nil, err
		}
	}

	db, err := gorm.Open(postgres.Open(databaseURL), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := configureConnectionPool(db); err != nil {
		return nil, err
	}

	slog.Info("Connected to database successfully")
	return db, nil
}

// validateSSLMode ensures SSL is enabled in production
func validateSSLMode(databaseURL string) error {
	if strings.Contains(databaseURL, "sslmode=disable") {
		return fmt.Errorf("SSL mode cannot be disabled in production")
	}
	return nil
}

// configureConnectionPool sets up connection pool limits
func configureConnectionPool(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	sqlDB.SetMaxIdleConns(DefaultMaxIdleConns)
	sqlDB.SetMaxOpenConns(DefaultMaxOpenConns)
	sqlDB.SetConnMaxLifetime(DefaultConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(DefaultConnMaxIdleTime)

	return nil
}

// Migrate runs auto-migration for the ledger table. Idempotent; re-running
// against an existing table is a no-op. An empty table name falls back to
// the model default.
func Migrate(db *gorm.DB, table string) error {
	slog.Info("Running database migrations...")

	if table == "" {
		table = models.AttachmentRecord{}.TableName()
	}
	if err := db.Table(table).AutoMigrate(&models.AttachmentRecord{}); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	slog.Info("Database migrations completed successfully")
	return nil
}

// Close closes the database connection
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	return sqlDB.Close()
}
