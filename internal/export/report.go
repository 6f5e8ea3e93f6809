package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/pdfscrubber/pdf-scrubber/internal/review"
)

// Reporter renders a batch's results and decisions as an XLSX workbook.
type Reporter struct {
	logger *zap.Logger
}

// NewReporter creates a new Reporter
func NewReporter(logger *zap.Logger) *Reporter {
	return &Reporter{logger: logger}
}

var reportHeaders = []string{
	"#",
	"Original Name",
	"Derived Name",
	"Company",
	"Document Type",
	"Date",
	"Assumed",
	"Decision",
	"Error",
}

// WriteReport returns workbook bytes with one row per batch item,
// resolved items included, in arrival order.
func (r *Reporter) WriteReport(items []review.Item) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Batch Review"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	for i, h := range reportHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return nil, fmt.Errorf("write header: %w", err)
		}
	}

	for row, item := range items {
		values := r.rowValues(item)
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return nil, fmt.Errorf("write row %d: %w", row+2, err)
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}

	r.logger.Info("Batch report generated", zap.Int("items", len(items)))
	return buf.Bytes(), nil
}

func (r *Reporter) rowValues(item review.Item) []interface{} {
	company, docType, date := "", "", ""
	assumed := false
	if item.Result.Extracted != nil {
		company = item.Result.Extracted.Company
		docType = item.Result.Extracted.DocumentType
		date = item.Result.Extracted.Date
		assumed = item.Result.Extracted.Assumed
	}

	errMsg := item.Result.ErrorMessage
	if item.RenameError != "" {
		errMsg = item.RenameError
	}

	return []interface{}{
		item.Index + 1,
		item.Result.OriginalName,
		item.Result.DerivedName,
		company,
		docType,
		date,
		assumed,
		item.State.String(),
		errMsg,
	}
}
