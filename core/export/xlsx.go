// ABOUTME: Spreadsheet (xlsx) reading and writing of ad records via excelize
// ABOUTME: Produces the downloadable "Ad Rankings" workbook

package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"adtracker/core/domain"
)

// SheetName is the worksheet written by WriteXLSX
const SheetName = "Ad Rankings"

// WriteXLSX writes records to a single-sheet workbook. Ranks are stored as
// numbers and the error sentinel as the text "error".
func WriteXLSX(w io.Writer, records []domain.AdRecord) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return fmt.Errorf("naming sheet: %w", err)
	}

	header := make([]interface{}, len(Header))
	for i, h := range Header {
		header[i] = h
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, r := range records {
		row := make([]interface{}, 0, len(Header))
		for _, c := range Row(r) {
			row = append(row, c)
		}
		if !r.Position.IsError() {
			row[1] = int(r.Position)
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}

// ReadXLSX reads records from the "Ad Rankings" sheet, or the first sheet
// when the workbook has none by that name
func ReadXLSX(r io.Reader) ([]domain.AdRecord, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("opening workbook: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(sheetOrFirst(f, SheetName))
	if err != nil {
		return nil, fmt.Errorf("reading sheet: %w", err)
	}
	return Parse(rows)
}

// sheetOrFirst returns name when the workbook contains it, otherwise the first sheet
func sheetOrFirst(f *excelize.File, name string) string {
	sheets := f.GetSheetList()
	for _, s := range sheets {
		if s == name {
			return s
		}
	}
	if len(sheets) > 0 {
		return sheets[0]
	}
	return name
}
