package booking

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/kickoff-academy/field-booking-backend/account"
	"github.com/xuri/excelize/v2"
)

const exportSheet = "Bookings"

var exportColumns = []string{
	"ID", "Field", "Booked by", "Email", "Start", "End", "Hours", "Cost", "Status", "Active",
}

// ExportBookings writes the bookings visible to an admin as an XLSX workbook.
func (s *Service) ExportBookings(ctx context.Context, caller account.User, filter ListFilter, w io.Writer) error {
	if !caller.Role.Privileged() {
		return ErrNotAllowed
	}

	filter.Mine = false
	bookings, err := s.ListBookings(ctx, caller, filter)

	if err != nil {
		return err
	}

	if err := WriteWorkbook(w, bookings, s.policy.location()); err != nil {
		s.logger.Error().Err(err).Str("user_id", caller.ID).Msg("failed to write bookings export")
		return err
	}

	s.logger.Info().Str("user_id", caller.ID).Int("rows", len(bookings)).Msg("bookings exported")

	return nil
}

// WriteWorkbook renders bookings into a single-sheet workbook with times in loc.
func WriteWorkbook(w io.Writer, bookings []Detail, loc *time.Location) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	for i, col := range exportColumns {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(exportSheet, cell, col); err != nil {
			return err
		}
	}

	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("header style: %w", err)
	}

	last, err := excelize.CoordinatesToCellName(len(exportColumns), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(exportSheet, "A1", last, style); err != nil {
		return fmt.Errorf("style header: %w", err)
	}

	for r, b := range bookings {
		cost, _ := b.TotalCost.Round(2).Float64()
		row := []any{
			b.ID,
			b.FieldName,
			b.BookedByName,
			b.BookedByEmail,
			b.StartTime.In(loc).Format(time.DateTime),
			b.EndTime.In(loc).Format(time.DateTime),
			round(b.DurationHours(), 2),
			cost,
			string(b.Status),
			b.IsActive,
		}

		cell, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(exportSheet, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", r+2, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}

	return nil
}
