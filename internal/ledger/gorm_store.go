package ledger

import (
	"context"

	"github.com/defilend/ledgerd/internal/metrics"
	"github.com/defilend/ledgerd/internal/models"
	"gorm.io/gorm"
)

// GormStore persists transactions through GORM. The handle may be nil or
// point at an unreachable database; every operation surfaces that as a
// StorageError so the process keeps serving requests while storage is down.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore creates a store on top of db. A nil db is valid and yields a
// store whose operations fail with ErrUnavailable.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// Append writes a single record. No retries: a failed write is reported to
// the caller and nothing else happens.
func (s *GormStore) Append(ctx context.Context, tx *models.Transaction) error {
	if s.db == nil {
		return &StorageError{Op: "append", Err: ErrUnavailable}
	}

	if err := s.db.WithContext(ctx).Create(tx).Error; err != nil {
		metrics.RecordDatabaseOperation("insert", "failed")
		return &StorageError{Op: "append", Err: err}
	}

	metrics.RecordDatabaseOperation("insert", "success")
	return nil
}

// ListByUser returns the most recent ListLimit records for userAddress,
// ordered newest first by timestamp.
func (s *GormStore) ListByUser(ctx context.Context, userAddress string) ([]models.Transaction, error) {
	if s.db == nil {
		return nil, &StorageError{Op: "list", Err: ErrUnavailable}
	}

	transactions := make([]models.Transaction, 0, ListLimit)
	err := s.db.WithContext(ctx).
		Where("user_address = ?", userAddress).
		Order("timestamp desc").
		Limit(ListLimit).
		Find(&transactions).Error
	if err != nil {
		metrics.RecordDatabaseOperation("select", "failed")
		return nil, &StorageError{Op: "list", Err: err}
	}

	metrics.RecordDatabaseOperation("select", "success")
	return transactions, nil
}

// Healthy reports whether the backing database answers a ping.
func (s *GormStore) Healthy(ctx context.Context) bool {
	if s.db == nil {
		return false
	}
	sqlDB, err := s.db.DB()
	if err != nil {
		return false
	}
	return sqlDB.PingContext(ctx) == nil
}
