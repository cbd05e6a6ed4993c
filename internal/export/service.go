// Package export writes traveler records to an XLSX workbook for the
// spreadsheet hand-off.
package export

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/traveler-intake/internal/duedate"
	"github.com/joseph-ayodele/traveler-intake/internal/record"
)

// SheetName is the worksheet that holds one row per traveler.
const SheetName = "Travelers"

// Row is one traveler and its computed commitment.
type Row struct {
	File       string
	Traveler   record.Traveler
	Commitment duedate.Commitment
}

// Headers are the workbook columns, in order.
var Headers = []string{
	"Job Number",
	"PO Number",
	"Due Date",
	"Commitment",
	"Rule",
	"Contact",
	"Part File",
	"Quantity",
	"Finish",
	"Material",
	"Certifications",
	"Inspection",
	"Notes",
	"Source File",
}

// Service produces XLSX workbooks.
type Service struct {
	logger *slog.Logger
}

func NewService(logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{logger: logger}
}

// TravelersXLSX returns a workbook (as bytes) with one row per traveler.
func (s *Service) TravelersXLSX(ctx context.Context, rows []Row) ([]byte, error) {
	start := time.Now()

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			s.logger.Warn("export.xlsx.close_failed", "err", err)
		}
	}()

	if index, _ := f.GetSheetIndex(SheetName); index == -1 {
		if _, err := f.NewSheet(SheetName); err != nil {
			return nil, err
		}
	}
	// drop the default sheet so the workbook opens on the data
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, err
	}
	activeIndex, _ := f.GetSheetIndex(SheetName)
	f.SetActiveSheet(activeIndex)

	for i, h := range Headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(SheetName, cell, h)
	}

	for i, r := range rows {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		row := i + 2
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(SheetName, cell, v)
		}

		t := r.Traveler
		write(1, t.JobNumber)
		write(2, t.PONumber)
		write(3, t.DueDateString())
		write(4, r.Commitment.String())
		write(5, string(r.Commitment.Rule))
		write(6, t.Contact)
		write(7, t.PartFile)
		write(8, t.Quantity)
		write(9, t.Finish)
		write(10, t.Material)
		write(11, t.Certifications)
		write(12, t.Inspection)
		write(13, t.Notes)
		write(14, r.File)
	}

	_ = f.SetColWidth(SheetName, "A", "B", 12) // job, po
	_ = f.SetColWidth(SheetName, "C", "E", 12) // dates, rule
	_ = f.SetColWidth(SheetName, "F", "G", 28) // contact, part
	_ = f.SetColWidth(SheetName, "I", "L", 30)
	_ = f.SetColWidth(SheetName, "M", "M", 60) // notes
	_ = f.SetColWidth(SheetName, "N", "N", 30)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	s.logger.Info("export.xlsx.ok",
		"rows", len(rows),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}

// WriteFile writes the workbook to path.
func (s *Service) WriteFile(ctx context.Context, path string, rows []Row) error {
	data, err := s.TravelersXLSX(ctx, rows)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
