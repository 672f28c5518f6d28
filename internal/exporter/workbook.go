package exporter

import (
	"encoding/json"
	"fmt"
	"gymnotes/training-tracker/internal/domain"
	"io"
	"log"

	"github.com/xuri/excelize/v2"
)

// DefaultSheetName names the single sheet of the exported workbook.
const DefaultSheetName = "Treinos"

// WorkbookOptions tweaks the exported workbook.
type WorkbookOptions struct {
	SheetName  string
	DateLayout string
}

// WriteWorkbook writes trainings as a one-sheet workbook, one summary row each.
func WriteWorkbook(w io.Writer, trainings []domain.Training, opts WorkbookOptions) error {
	if opts.SheetName == "" {
		opts.SheetName = DefaultSheetName
	}

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			log.Printf("WARN: Closing workbook: %v", err)
		}
	}()

	if err := f.SetSheetName(f.GetSheetName(0), opts.SheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	sheet := opts.SheetName

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	})
	if err != nil {
		return err
	}

	header := make([]interface{}, len(SummaryHeader))
	for i, h := range SummaryHeader {
		header[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", "C1", headerStyle); err != nil {
		return err
	}

	for i, row := range SummaryRows(trainings, opts.DateLayout) {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		values := row.Values()
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return err
		}
	}

	f.SetColWidth(sheet, "A", "A", 30)
	f.SetColWidth(sheet, "B", "B", 12)
	f.SetColWidth(sheet, "C", "C", 80)

	_, err = f.WriteTo(w)
	return err
}

// WriteJSON writes the raw training list as pretty-printed JSON.
func WriteJSON(w io.Writer, trainings []domain.Training) error {
	if trainings == nil {
		trainings = []domain.Training{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(trainings)
}
