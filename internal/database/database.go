package database

import (
	"fmt"
	"time"

	"github.com/defilend/ledgerd/internal/config"
	"github.com/defilend/ledgerd/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func Connect(cfg config.Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
		cfg.DBHost,
		cfg.DBUser,
		cfg.DBPassword,
		cfg.DBName,
		cfg.DBPort,
		cfg.DBSSLMode,
	)

	// Configure GORM with optimized settings
	gormConfig := &gorm.Config{
		Logger:      logger.Default.LogMode(logger.Silent),
		PrepareStmt: true,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	}

	db, err := gorm.Open(postgres.Open(dsn), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Set connection pool settings
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database connection: %w", err)
	}

	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetConnMaxLifetime(time.Hour)

	// Migrate database schema
	if err := Migrate(db); err != nil {
		return nil, err
	}

	return db, nil
}

// Migrate creates the transaction schema. Exported so tests can run it
// against their own database handle.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.Transaction{}); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	// Composite index for the listing query (user scoped, newest first)
	db.Exec("CREATE INDEX IF NOT EXISTS idx_transactions_user_timestamp ON transactions(user_address, timestamp)")

	return nil
}
