package out

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"lectern/internal/modules/library/domain"
	libraryout "lectern/internal/modules/library/port/out"
)

const reportSheet = "Library"

var reportHeader = []any{"ID", "Title", "Author", "Filename", "Pages", "Status", "Uploaded", "Progress %"}

type XLSXReportWriter struct{}

func NewXLSXReportWriter() libraryout.ReportWriter {
	return &XLSXReportWriter{}
}

func (w *XLSXReportWriter) Write(path string, rows []domain.ReportRow) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", reportSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if err := f.SetSheetRow(reportSheet, "A1", &reportHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, row := range rows {
		uploaded := ""
		if !row.Book.UploadedAt.IsZero() {
			uploaded = row.Book.UploadedAt.Format("2006-01-02")
		}
		var progress any = ""
		if row.HasProgress {
			progress = row.Percent
		}
		values := []any{
			row.Book.ID,
			row.Book.DisplayTitle(),
			row.Book.Author,
			row.Book.Filename,
			row.Book.PageCount,
			string(row.Book.Status),
			uploaded,
			progress,
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("cell name: %w", err)
		}
		if err := f.SetSheetRow(reportSheet, cell, &values); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create report dir: %w", err)
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save report: %w", err)
	}
	return nil
}
