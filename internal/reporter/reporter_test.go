package reporter

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/prasetyadi/graphmail-pipeline/internal/models"
	"github.com/prasetyadi/graphmail-pipeline/tests/fixtures"
	"github.com/prasetyadi/graphmail-pipeline/tests/mocks"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func sampleRecords(n int) []models.AttachmentRecord {
	now := time.Now().UTC()
	records := make([]models.AttachmentRecord, 0, n)
	for i := 0; i < n; i++ {
		record := fixtures.SampleRecord("msg-"+string(rune('a'+i)), "att-1", now.Add(-time.Duration(i)*time.Hour))
		records = append(records, record)
	}
	return records
}

func TestReporter_EmptyWindowIsNoop(t *testing.T) {
	repo := new(mocks.MockLedgerRepository)
	sender := new(mocks.MockSender)
	outputDir := t.TempDir()

	repo.On("ListUnreported", mock.Anything, 24*time.Hour).
		Return([]models.AttachmentRecord{}, nil)

	r := New(repo, sender, outputDir, "daily_report.xlsx", discardLogger())

	err := r.Run(context.Background())

	require.NoError(t, err)
	sender.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	repo.AssertNotCalled(t, "MarkReported", mock.Anything, mock.Anything)

	// No workbook is written either
	_, statErr := os.Stat(filepath.Join(outputDir, "daily_report.xlsx"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestReporter_WritesSendsAndMarks(t *testing.T) {
	repo := new(mocks.MockLedgerRepository)
	sender := new(mocks.MockSender)
	outputDir := t.TempDir()
	records := sampleRecords(3)
	reportPath := filepath.Join(outputDir, "daily_report.xlsx")

	repo.On("ListUnreported", mock.Anything, 24*time.Hour).Return(records, nil)
	sender.On("Send", mock.Anything, "Daily attachment report", mock.AnythingOfType("string"), reportPath).
		Return(nil)
	repo.On("MarkReported", mock.Anything, records).Return(nil)

	r := New(repo, sender, outputDir, "daily_report.xlsx", discardLogger())

	err := r.Run(context.Background())

	require.NoError(t, err)
	repo.AssertExpectations(t)
	sender.AssertExpectations(t)

	// Workbook has a header row and one row per record
	f, err := excelize.OpenFile(reportPath)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, "Message ID", rows[0][0])
	assert.Equal(t, "File Path", rows[0][len(rows[0])-1])
	assert.Equal(t, records[0].MessageID, rows[1][0])
	assert.Equal(t, records[2].MessageID, rows[3][0])
	assert.Equal(t, "Invoice 1042", rows[1][2])
}

func TestReporter_SendFailureLeavesRecordsUnreported(t *testing.T) {
	repo := new(mocks.MockLedgerRepository)
	sender := new(mocks.MockSender)
	outputDir := t.TempDir()
	records := sampleRecords(2)

	repo.On("ListUnreported", mock.Anything, 24*time.Hour).Return(records, nil)
	sender.On("Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(errors.New("smtp auth failed"))

	r := New(repo, sender, outputDir, "daily_report.xlsx", discardLogger())

	err := r.Run(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to send report email")
	repo.AssertNotCalled(t, "MarkReported", mock.Anything, mock.Anything)
}

func TestReporter_ListErrorAborts(t *testing.T) {
	repo := new(mocks.MockLedgerRepository)
	sender := new(mocks.MockSender)

	repo.On("ListUnreported", mock.Anything, 24*time.Hour).
		Return(nil, errors.New("connection refused"))

	r := New(repo, sender, t.TempDir(), "daily_report.xlsx", discardLogger())

	err := r.Run(context.Background())

	require.Error(t, err)
	sender.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestReporter_MarkReportedErrorSurfaces(t *testing.T) {
	repo := new(mocks.MockLedgerRepository)
	sender := new(mocks.MockSender)
	records := sampleRecords(1)

	repo.On("ListUnreported", mock.Anything, 24*time.Hour).Return(records, nil)
	sender.On("Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
	repo.On("MarkReported", mock.Anything, records).Return(errors.New("deadlock"))

	r := New(repo, sender, t.TempDir(), "daily_report.xlsx", discardLogger())

	err := r.Run(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to mark records reported")
}

func TestReporter_SetWindow(t *testing.T) {
	repo := new(mocks.MockLedgerRepository)
	sender := new(mocks.MockSender)

	repo.On("ListUnreported", mock.Anything, time.Hour).
		Return([]models.AttachmentRecord{}, nil)

	r := New(repo, sender, t.TempDir(), "daily_report.xlsx", discardLogger())
	r.SetWindow(time.Hour)

	require.NoError(t, r.Run(context.Background()))
	repo.AssertExpectations(t)
}

func TestWriteWorkbook_ExcludesBookkeepingColumns(t *testing.T) {
	records := sampleRecords(1)
	path := filepath.Join(t.TempDir(), "out.xlsx")

	require.NoError(t, WriteWorkbook(records, path))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	require.NoError(t, err)
	require.NotEmpty(t, rows)
	assert.NotContains(t, rows[0], "Is Reported")
	assert.NotContains(t, rows[0], "Processed At")
	assert.Len(t, rows[0], 12)
}
