// Package report renders booking lists as downloadable XLSX workbooks.
package report

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/kithuachu121-spec/salonslotbook/internal/models"
)

var bookingColumns = []string{"ID", "Customer", "Service", "Date", "Time", "Status", "Arrival confirmed"}

// WriteBookingsXLSX renders bookings into a single-sheet workbook.
func WriteBookingsXLSX(wr io.Writer, sheetName string, bookings []models.Booking) error {
	if len(sheetName) > 31 {
		// Excel limits sheet names to 31 chars.
		sheetName = sheetName[:31]
	}
	if sheetName == "" {
		sheetName = "Bookings"
	}

	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", sheetName)

	if err := writeHeader(f, sheetName); err != nil {
		return err
	}

	for i, b := range bookings {
		row := i + 2
		values := []interface{}{
			b.ID,
			b.CustomerName,
			b.ServiceName,
			b.Date,
			b.Time,
			string(b.Status),
			b.CustomerConfirmed,
		}
		for col, val := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheetName, cell, val); err != nil {
				return fmt.Errorf("write cell %s: %w", cell, err)
			}
		}
	}

	return f.Write(wr)
}

func writeHeader(f *excelize.File, sheet string) error {
	for i, col := range bookingColumns {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, col); err != nil {
			return err
		}
	}

	style, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	})
	if err == nil {
		startCell, _ := excelize.CoordinatesToCellName(1, 1)
		endCell, _ := excelize.CoordinatesToCellName(len(bookingColumns), 1)
		_ = f.SetCellStyle(sheet, startCell, endCell, style)
	}
	return nil
}
