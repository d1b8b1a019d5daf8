// ABOUTME: CSV reading and writing of ad records
// ABOUTME: Used by the CSV history store and the CSV download artifact

package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"adtracker/core/domain"
)

// WriteCSV writes records with a header row
func WriteCSV(w io.Writer, records []domain.AdRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.WriteAll(Rows(records)); err != nil {
		return fmt.Errorf("writing csv: %w", err)
	}
	return nil
}

// ReadCSV reads records written by WriteCSV
func ReadCSV(r io.Reader) ([]domain.AdRecord, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading csv: %w", err)
	}
	return Parse(rows)
}
