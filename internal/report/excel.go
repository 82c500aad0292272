// Package report exports rental history to Excel for holder bookkeeping.
package report

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"mecarent/internal/models"
)

// sheetWriter wraps excelize with a cursor so rows append in order.
type sheetWriter struct {
	file         *excelize.File
	currentSheet string
	currentRow   int
}

func newSheetWriter() *sheetWriter {
	return &sheetWriter{file: excelize.NewFile()}
}

func (w *sheetWriter) addSheet(name string) error {
	// Excel caps sheet names at 31 chars.
	if len(name) > 31 {
		name = name[:31]
	}

	if w.currentSheet == "" {
		w.file.SetSheetName("Sheet1", name)
	} else {
		if _, err := w.file.NewSheet(name); err != nil {
			return fmt.Errorf("create sheet %s: %w", name, err)
		}
	}

	w.currentSheet = name
	w.currentRow = 1
	return nil
}

func (w *sheetWriter) writeHeader(columns []string) error {
	row := make([]interface{}, len(columns))
	for i, col := range columns {
		row[i] = col
	}
	if err := w.writeRow(row); err != nil {
		return err
	}

	style, err := w.file.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err == nil {
		startCell, _ := excelize.CoordinatesToCellName(1, w.currentRow-1)
		endCell, _ := excelize.CoordinatesToCellName(len(columns), w.currentRow-1)
		_ = w.file.SetCellStyle(w.currentSheet, startCell, endCell, style)
	}
	return nil
}

func (w *sheetWriter) writeRow(row []interface{}) error {
	if w.currentSheet == "" {
		return fmt.Errorf("no active sheet")
	}
	for i, val := range row {
		cell, err := excelize.CoordinatesToCellName(i+1, w.currentRow)
		if err != nil {
			return err
		}
		if err := w.file.SetCellValue(w.currentSheet, cell, val); err != nil {
			return err
		}
	}
	w.currentRow++
	return nil
}

func (w *sheetWriter) save(wr io.Writer) error {
	return w.file.Write(wr)
}

func (w *sheetWriter) close() error {
	return w.file.Close()
}

// WriteHolderReport writes the rental history of a holder's machines: one
// row per rental plus a summary sheet. Cancelled rentals appear in the
// listing but are excluded from revenue.
func WriteHolderReport(wr io.Writer, holder *models.User, machines []models.Machine, rentals []models.Rental) error {
	machineNames := make(map[string]string, len(machines))
	for _, m := range machines {
		machineNames[m.ID] = m.Name
	}

	w := newSheetWriter()
	defer w.close()

	if err := w.addSheet("Rentals"); err != nil {
		return err
	}
	header := []string{"Rental", "Machine", "Requester", "Mode", "Status", "Start", "Duration (h)", "Total (FCFA)"}
	if err := w.writeHeader(header); err != nil {
		return err
	}

	var revenue int64
	for _, r := range rentals {
		name, ok := machineNames[r.MachineID]
		if !ok {
			name = "removed machine"
		}
		row := []interface{}{
			r.ID,
			name,
			r.RequesterID,
			string(r.Mode),
			string(r.Status),
			r.StartTime.Format("2006-01-02 15:04"),
			r.Duration.Hours(),
			r.TotalPrice,
		}
		if err := w.writeRow(row); err != nil {
			return fmt.Errorf("write rental %s: %w", r.ID, err)
		}
		if r.Status != models.StatusCancelled {
			revenue += r.TotalPrice
		}
	}

	if err := w.addSheet("Summary"); err != nil {
		return err
	}
	summary := [][]interface{}{
		{"Holder", holder.Name},
		{"Machines listed", len(machines)},
		{"Rentals", len(rentals)},
		{"Revenue (FCFA)", revenue},
	}
	for _, row := range summary {
		if err := w.writeRow(row); err != nil {
			return err
		}
	}

	return w.save(wr)
}
