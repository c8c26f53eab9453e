package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/prasetyadi/graphmail-pipeline/internal/models"
	"gorm.io/gorm"
)

// DefaultReportWindow is the trailing window the reporter queries
const DefaultReportWindow = 24 * time.Hour

// Repository defines the interface for attachment record access
type Repository interface {
	Insert(ctx context.Context, record *models.AttachmentRecord) error
	Get(ctx context.Context, messageID, attachmentID string) (*models.AttachmentRecord, error)
	ListUnreported(ctx context.Context, window time.Duration) ([]models.AttachmentRecord, error)
	MarkReported(ctx context.Context, records []models.AttachmentRecord) error
}

// repository implements Repository using GORM
type repository struct {
	db    *gorm.DB
	table string
}

// NewRepository creates a new Repository instance backed by the given table.
// An empty table name falls back to the model default.
func NewRepository(db *gorm.DB, table string) Repository {
	if table == "" {
		table = models.AttachmentRecord{}.TableName()
	}
	return &repository{db: db, table: table}
}

// Insert creates a new attachment record. Inserting an existing
// (message_id, attachment_id) pair returns ErrDuplicateEntry.
func (r *repository) Insert(ctx context.Context, record *models.AttachmentRecord) error {
	result := r.db.WithContext(ctx).Table(r.table).Create(record)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) || isDuplicateKeyError(result.Error) {
			return ErrDuplicateEntry
		}
		return fmt.Errorf("failed to insert attachment record: %w", result.Error)
	}
	return nil
}

// Get fetches a record by its composite key. A missing record returns
// (nil, nil) so callers can distinguish absence from a store error.
func (r *repository) Get(ctx context.Context, messageID, attachmentID string) (*models.AttachmentRecord, error) {
	var record models.AttachmentRecord
	result := r.db.WithContext(ctx).Table(r.table).
		Where("message_id = ? AND attachment_id = ?", messageID, attachmentID).
		First(&record)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get attachment record: %w", result.Error)
	}
	return &record, nil
}

// ListUnreported returns records processed within the trailing window that
// have not been reported yet. An empty result is valid.
func (r *repository) ListUnreported(ctx context.Context, window time.Duration) ([]models.AttachmentRecord, error) {
	var records []models.AttachmentRecord
	cutoff := time.Now().UTC().Add(-window)
	result := r.db.WithContext(ctx).Table(r.table).
		Where("processed_at >= ? AND is_reported = ?", cutoff, false).
		Order("processed_at").
		Find(&records)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list unreported records: %w", result.Error)
	}
	return records, nil
}

// MarkReported flips the reported flag and stamps the report time for every
// given record in one transaction. A failed update rolls the whole batch
// back; callers must not assume partial success.
func (r *repository) MarkReported(ctx context.Context, records []models.AttachmentRecord) error {
	now := time.Now().UTC()
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, record := range records {
			result := tx.Table(r.table).
				Where("message_id = ? AND attachment_id = ?", record.MessageID, record.AttachmentID).
				Updates(map[string]interface{}{
					"is_reported": true,
					"reported_at": now,
				})
			if result.Error != nil {
				return fmt.Errorf("failed to mark record reported: %w", result.Error)
			}
			if result.RowsAffected == 0 {
				return fmt.Errorf("record %s/%s: %w", record.MessageID, record.AttachmentID, ErrNotFound)
			}
		}
		return nil
	})
}
