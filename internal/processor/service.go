// Package processor extracts a message's attachments, uploads them to the
// configured drive and records each one in the ledger.
package processor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/prasetyadi/graphmail-pipeline/internal/graph"
	"github.com/prasetyadi/graphmail-pipeline/internal/ledger"
	"github.com/prasetyadi/graphmail-pipeline/internal/models"
	"github.com/prasetyadi/graphmail-pipeline/internal/storage"
)

// Config holds the upload destination for processed attachments. An empty
// SiteName targets the personal drive.
type Config struct {
	SiteName    string
	DriveFolder string
}

// Summary counts the outcome of one processed message
type Summary struct {
	Processed int
	Skipped   int
	Failed    int
}

// Service runs the per-message attachment pipeline
type Service struct {
	mail    graph.MailClient
	ledger  ledger.Repository
	staging storage.Store
	cfg     Config
	logger  *slog.Logger
}

// NewService creates a processor Service
func NewService(mail graph.MailClient, repo ledger.Repository, staging storage.Store, cfg Config, logger *slog.Logger) *Service {
	return &Service{
		mail:    mail,
		ledger:  repo,
		staging: staging,
		cfg:     cfg,
		logger:  logger,
	}
}

// Process handles every file attachment on the given message. Attachments
// already present in the ledger are skipped, so duplicate deliveries of the
// same message do not re-download or re-upload anything. Per-attachment
// failures are logged and the loop continues; only a failure to list the
// attachments aborts the whole message.
func (s *Service) Process(ctx context.Context, msg *graph.Message) (*Summary, error) {
	attachments, err := s.mail.ListAttachments(ctx, msg.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list attachments for message %s: %w", msg.ID, err)
	}

	summary := &Summary{}
	for _, att := range attachments {
		s.logger.Info("processing attachment",
			"message_id", msg.ID,
			"attachment_id", att.ID,
			"name", att.Name,
			"size", att.Size,
		)

		existing, err := s.ledger.Get(ctx, msg.ID, att.ID)
		if err != nil {
			s.logger.Error("ledger lookup failed", "attachment_id", att.ID, "error", err)
			summary.Failed++
			continue
		}
		if existing != nil {
			s.logger.Info("attachment already processed, skipping", "attachment_id", att.ID, "name", att.Name)
			summary.Skipped++
			continue
		}

		if err := s.processAttachment(ctx, msg, att); err != nil {
			s.logger.Error("failed to process attachment",
				"message_id", msg.ID,
				"attachment_id", att.ID,
				"name", att.Name,
				"error", err,
			)
			summary.Failed++
			continue
		}
		summary.Processed++
	}

	if summary.Failed == 0 {
		if err := s.mail.MarkRead(ctx, msg.ID, true); err != nil {
			// Leaving the message unread only means the next tick revisits
			// it; the ledger check keeps that revisit cheap.
			s.logger.Warn("failed to mark message read", "message_id", msg.ID, "error", err)
		}
	}

	return summary, nil
}

// processAttachment downloads, uploads and records one attachment
func (s *Service) processAttachment(ctx context.Context, msg *graph.Message, att graph.FileAttachment) error {
	localPath, err := s.mail.DownloadAttachment(ctx, att)
	if err != nil {
		return fmt.Errorf("download: %w", err)
	}

	var result *graph.UploadResult
	if s.cfg.SiteName != "" {
		result, err = s.mail.UploadToSite(ctx, s.cfg.SiteName, localPath, s.cfg.DriveFolder)
	} else {
		result, err = s.mail.UploadToDrive(ctx, localPath, s.cfg.DriveFolder)
	}
	if err != nil {
		return fmt.Errorf("upload: %w", err)
	}

	record := &models.AttachmentRecord{
		MessageID:      msg.ID,
		AttachmentID:   att.ID,
		Subject:        msg.Subject,
		Sender:         msg.From.EmailAddress.Address,
		ReceivedAt:     msg.ReceivedDateTime,
		AttachmentName: att.Name,
		Extension:      filepath.Ext(att.Name),
		SizeBytes:      att.Size,
		SiteID:         result.SiteID,
		SiteName:       s.cfg.SiteName,
		DriveID:        result.DriveID,
		FilePath:       result.Path,
		ProcessedAt:    time.Now().UTC(),
		IsReported:     false,
	}

	if err := s.ledger.Insert(ctx, record); err != nil {
		if errors.Is(err, ledger.ErrDuplicateEntry) {
			// A concurrent run got here first; the file is uploaded and
			// recorded, so treat this as done.
			s.logger.Info("record already present after upload", "attachment_id", att.ID)
			_ = s.staging.Delete(localPath)
			return nil
		}
		// The file is uploaded but unrecorded. No compensating delete is
		// attempted; the destination path is logged so the gap can be
		// reconciled against the drive folder.
		return fmt.Errorf("ledger insert after upload to %s: %w", result.Path, err)
	}

	_ = s.staging.Delete(localPath)
	s.logger.Info("attachment uploaded and recorded",
		"attachment_id", att.ID,
		"name", att.Name,
		"destination", result.Path,
	)
	return nil
}
