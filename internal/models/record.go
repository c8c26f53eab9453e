package models

import (
	"time"
)

// DefaultTableName is the ledger table used unless the caller injects a
// different one through the repository and migration constructors.
const DefaultTableName = "email_attachments"

// AttachmentRecord is one processed mail attachment. The composite primary
// key (message_id, attachment_id) makes a duplicate insert a key conflict
// rather than a silent double-count.
type AttachmentRecord struct {
	MessageID    string `gorm:"primaryKey;size:512" json:"message_id"`
	AttachmentID string `gorm:"primaryKey;size:512" json:"attachment_id"`

	// Mail metadata
	Subject        string `json:"subject,omitempty"`
	Sender         string `gorm:"size:255" json:"sender"`
	ReceivedAt     string `gorm:"size:64" json:"received_at"`
	AttachmentName string `gorm:"size:255" json:"attachment_name"`
	Extension      string `gorm:"size:32" json:"extension,omitempty"`
	SizeBytes      int64  `json:"size_bytes"`

	// Upload destination
	SiteID   string `gorm:"size:255" json:"site_id,omitempty"`
	SiteName string `gorm:"size:255" json:"site_name,omitempty"`
	DriveID  string `gorm:"size:255" json:"drive_id,omitempty"`
	FilePath string `gorm:"size:500" json:"file_path"`

	// Reporting
	ProcessedAt time.Time  `gorm:"index" json:"processed_at"`
	IsReported  bool       `gorm:"default:false;index" json:"is_reported"`
	ReportedAt  *time.Time `json:"reported_at,omitempty"`
}

// TableName returns the table name for AttachmentRecord
func (AttachmentRecord) TableName() string {
	return DefaultTableName
}
