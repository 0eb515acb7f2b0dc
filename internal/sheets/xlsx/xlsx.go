// Package xlsx writes leaderboard reports as Excel workbooks, one new file per run.
package xlsx

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"pokerboard/internal/core"
	"pokerboard/internal/log"
	ports "pokerboard/internal/sheets"
)

const defaultSheet = "Sheet1"

type Writer struct {
	dir    string
	logger *log.Logger
}

var _ ports.ReportWriter = (*Writer)(nil)

func New(dir string, logger *log.Logger) *Writer {
	if logger == nil {
		logger = log.NewNop()
	}
	return &Writer{dir: dir, logger: logger.WithComponent(log.ComponentSheets)}
}

// FileName returns splitwise_leaderboard_<year>_<YYYYMMDD_HHMMSS>.xlsx for the report.
func FileName(report core.Report) string {
	return fmt.Sprintf("splitwise_leaderboard_%d_%s.xlsx", report.Year, core.GeneratedStamp(report.GeneratedAt))
}

// WriteReport creates a new workbook in the output directory and returns its path.
func (w *Writer) WriteReport(ctx context.Context, report core.Report) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := os.MkdirAll(w.dir, 0755); err != nil {
		return "", fmt.Errorf("create output directory: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	header, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return "", fmt.Errorf("create header style: %w", err)
	}

	for i, table := range ports.Tabulate(report) {
		if i == 0 {
			if err := f.SetSheetName(defaultSheet, table.Name); err != nil {
				return "", fmt.Errorf("rename sheet %s: %w", table.Name, err)
			}
		} else if _, err := f.NewSheet(table.Name); err != nil {
			return "", fmt.Errorf("create sheet %s: %w", table.Name, err)
		}
		if err := writeTable(f, table, header); err != nil {
			return "", err
		}
	}
	f.SetActiveSheet(0)

	path := filepath.Join(w.dir, FileName(report))
	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("save workbook %s: %w", path, err)
	}

	w.logger.InfoContext(ctx, "Leaderboard workbook written",
		log.FieldPath, path,
		log.FieldYear, report.Year,
		log.FieldCount, len(report.Raw),
	)
	return path, nil
}

func writeTable(f *excelize.File, table ports.Table, headerStyle int) error {
	for i, row := range table.Values() {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(table.Name, cell, &row); err != nil {
			return fmt.Errorf("write %s row %d: %w", table.Name, i+1, err)
		}
	}
	if err := f.SetRowStyle(table.Name, 1, 1, headerStyle); err != nil {
		return fmt.Errorf("style %s header: %w", table.Name, err)
	}
	return nil
}
