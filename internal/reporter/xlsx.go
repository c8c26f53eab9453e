package reporter

import (
	"fmt"

	"github.com/prasetyadi/graphmail-pipeline/internal/models"
	"github.com/xuri/excelize/v2"
)

// reportColumns is the spreadsheet header row. The reported flag and
// processing timestamp are internal bookkeeping and stay out of the report.
var reportColumns = []string{
	"Message ID",
	"Attachment ID",
	"Subject",
	"Sender",
	"Received",
	"Attachment Name",
	"Extension",
	"Size (bytes)",
	"Site ID",
	"Site Name",
	"Drive ID",
	"File Path",
}

// WriteWorkbook renders the records as one sheet, one row per record, and
// saves the workbook at path.
func WriteWorkbook(records []models.AttachmentRecord, path string) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)

	for col, header := range reportColumns {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return fmt.Errorf("failed to build header cell: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return fmt.Errorf("failed to set header cell: %w", err)
		}
	}

	for i, record := range records {
		values := []interface{}{
			record.MessageID,
			record.AttachmentID,
			record.Subject,
			record.Sender,
			record.ReceivedAt,
			record.AttachmentName,
			record.Extension,
			record.SizeBytes,
			record.SiteID,
			record.SiteName,
			record.DriveID,
			record.FilePath,
		}
		for col, value := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return fmt.Errorf("failed to build cell name: %w", err)
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return fmt.Errorf("failed to set cell value: %w", err)
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}
