package services

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
)

const exportSheet = "Bookings"

// ExportService renders admin booking reports as xlsx workbooks.
type ExportService struct {
	Bookings *BookingService
}

func NewExportService(bookings *BookingService) *ExportService {
	return &ExportService{Bookings: bookings}
}

// BookingsReport builds a workbook of bookings overlapping [from, to],
// one row per booking.
func (s *ExportService) BookingsReport(ctx context.Context, from, to time.Time) ([]byte, error) {
	if !from.Before(to) {
		return nil, validationErr("report start must be before report end")
	}

	bookings, err := s.Bookings.ListBetween(ctx, from, to)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	index, err := f.NewSheet(exportSheet)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	f.SetCellValue(exportSheet, "A1", fmt.Sprintf("Period: %s - %s",
		from.Format("2006-01-02"), to.Format("2006-01-02")))

	headers := []string{"Reference", "Hotel", "Guest", "Email", "Check-In", "Check-Out", "Nights", "Created"}
	headerStyle, err := f.NewStyle(&excelize.Style{
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}
	for col, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(col+1, 2)
		f.SetCellValue(exportSheet, cell, h)
		f.SetCellStyle(exportSheet, cell, cell, headerStyle)
	}

	row := 3
	for _, b := range bookings {
		values := []any{
			b.ReferenceCode,
			b.Hotel.Name,
			b.User.Name,
			b.User.Email,
			b.StartDate.Format("2006-01-02"),
			b.EndDate.Format("2006-01-02"),
			b.Nights,
			b.CreatedAt.Format("2006-01-02 15:04"),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			f.SetCellValue(exportSheet, cell, v)
		}
		row++
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// ReportFilename names the downloaded workbook after its period.
func ReportFilename(from, to time.Time) string {
	return fmt.Sprintf("bookings_%s_%s.xlsx", from.Format("20060102"), to.Format("20060102"))
}
