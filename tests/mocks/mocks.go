// Package mocks provides testify mocks for the pipeline's collaborator
// interfaces.
package mocks

import (
	"context"
	"io"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/prasetyadi/graphmail-pipeline/internal/graph"
	"github.com/prasetyadi/graphmail-pipeline/internal/models"
)

// MockMailClient implements graph.MailClient
type MockMailClient struct {
	mock.Mock
}

// ListMessages lists messages matching a filter
func (m *MockMailClient) ListMessages(ctx context.Context, filter string) ([]graph.Message, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]graph.Message), args.Error(1)
}

// MarkRead flips a message's read flag
func (m *MockMailClient) MarkRead(ctx context.Context, messageID string, read bool) error {
	args := m.Called(ctx, messageID, read)
	return args.Error(0)
}

// ListAttachments lists a message's file attachments
func (m *MockMailClient) ListAttachments(ctx context.Context, messageID string) ([]graph.FileAttachment, error) {
	args := m.Called(ctx, messageID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]graph.FileAttachment), args.Error(1)
}

// DownloadAttachment stages an attachment locally
func (m *MockMailClient) DownloadAttachment(ctx context.Context, att graph.FileAttachment) (string, error) {
	args := m.Called(ctx, att)
	return args.String(0), args.Error(1)
}

// UploadToDrive uploads a staged file to the personal drive
func (m *MockMailClient) UploadToDrive(ctx context.Context, localPath, folderPath string) (*graph.UploadResult, error) {
	args := m.Called(ctx, localPath, folderPath)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*graph.UploadResult), args.Error(1)
}

// UploadToSite uploads a staged file to a named site's drive
func (m *MockMailClient) UploadToSite(ctx context.Context, siteName, localPath, folderPath string) (*graph.UploadResult, error) {
	args := m.Called(ctx, siteName, localPath, folderPath)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*graph.UploadResult), args.Error(1)
}

// MockLedgerRepository implements ledger.Repository
type MockLedgerRepository struct {
	mock.Mock
}

// Insert creates a new attachment record
func (m *MockLedgerRepository) Insert(ctx context.Context, record *models.AttachmentRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

// Get fetches a record by its composite key
func (m *MockLedgerRepository) Get(ctx context.Context, messageID, attachmentID string) (*models.AttachmentRecord, error) {
	args := m.Called(ctx, messageID, attachmentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AttachmentRecord), args.Error(1)
}

// ListUnreported returns unreported records within the window
func (m *MockLedgerRepository) ListUnreported(ctx context.Context, window time.Duration) ([]models.AttachmentRecord, error) {
	args := m.Called(ctx, window)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.AttachmentRecord), args.Error(1)
}

// MarkReported flips the reported flag for the given records
func (m *MockLedgerRepository) MarkReported(ctx context.Context, records []models.AttachmentRecord) error {
	args := m.Called(ctx, records)
	return args.Error(0)
}

// MockSender implements mailer.Sender
type MockSender struct {
	mock.Mock
}

// Send sends an email with a single attachment
func (m *MockSender) Send(ctx context.Context, subject, body, attachmentPath string) error {
	args := m.Called(ctx, subject, body, attachmentPath)
	return args.Error(0)
}

// MockStore implements storage.Store
type MockStore struct {
	mock.Mock
}

// Save stages content under filename
func (m *MockStore) Save(filename string, content io.Reader) (string, error) {
	args := m.Called(filename, content)
	return args.String(0), args.Error(1)
}

// Get opens a staged file
func (m *MockStore) Get(path string) (io.ReadCloser, error) {
	args := m.Called(path)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(io.ReadCloser), args.Error(1)
}

// Delete removes a staged file
func (m *MockStore) Delete(path string) error {
	args := m.Called(path)
	return args.Error(0)
}
