// Package reporter compiles the periodic spreadsheet report of processed
// attachments and emails it out.
package reporter

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/prasetyadi/graphmail-pipeline/internal/ledger"
	"github.com/prasetyadi/graphmail-pipeline/internal/mailer"
)

const (
	reportSubject = "Daily attachment report"
	reportBody    = "Hello,\n\nAttached is the report of mail attachments processed in the last 24 hours.\n\nRegards"
)

// Reporter queries the ledger for unreported records, renders them to a
// spreadsheet and emails it. If the send fails after the file is built the
// records stay unreported and a later tick re-includes them; duplicate
// reports are accepted over lost ones.
type Reporter struct {
	ledger    ledger.Repository
	sender    mailer.Sender
	outputDir string
	fileName  string
	window    time.Duration
	logger    *slog.Logger
}

// New creates a Reporter with the default 24 hour window
func New(repo ledger.Repository, sender mailer.Sender, outputDir, fileName string, logger *slog.Logger) *Reporter {
	return &Reporter{
		ledger:    repo,
		sender:    sender,
		outputDir: outputDir,
		fileName:  fileName,
		window:    ledger.DefaultReportWindow,
		logger:    logger,
	}
}

// SetWindow overrides the trailing query window, used in tests
func (r *Reporter) SetWindow(window time.Duration) {
	r.window = window
}

// Run executes one report tick. An empty ledger window is a no-op: no
// spreadsheet, no email, no update.
func (r *Reporter) Run(ctx context.Context) error {
	records, err := r.ledger.ListUnreported(ctx, r.window)
	if err != nil {
		return fmt.Errorf("failed to query unreported records: %w", err)
	}
	if len(records) == 0 {
		r.logger.Info("no attachments processed in the report window")
		return nil
	}

	path := filepath.Join(r.outputDir, r.fileName)
	if err := WriteWorkbook(records, path); err != nil {
		return fmt.Errorf("failed to write report workbook: %w", err)
	}
	r.logger.Info("report workbook written", "path", path, "rows", len(records))

	if err := r.sender.Send(ctx, reportSubject, reportBody, path); err != nil {
		return fmt.Errorf("failed to send report email: %w", err)
	}

	if err := r.ledger.MarkReported(ctx, records); err != nil {
		return fmt.Errorf("failed to mark records reported: %w", err)
	}

	r.logger.Info("report completed", "records", len(records))
	return nil
}
