// ABOUTME: File-level export helpers choosing the format from the file extension
// ABOUTME: Supports .xlsx and .csv download artifacts

package export

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"adtracker/core/domain"
	coreerrors "adtracker/core/errors"
)

// Format identifies a tabular file format
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// FormatFromPath infers the export format from a file extension
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return FormatCSV, nil
	case ".xlsx":
		return FormatXLSX, nil
	default:
		return "", &coreerrors.ValidationError{
			Field:   "path",
			Message: fmt.Sprintf("unsupported export extension %q (use .xlsx or .csv)", filepath.Ext(path)),
		}
	}
}

// Write encodes records in the given format
func Write(w io.Writer, format Format, records []domain.AdRecord) error {
	switch format {
	case FormatCSV:
		return WriteCSV(w, records)
	case FormatXLSX:
		return WriteXLSX(w, records)
	default:
		return &coreerrors.ValidationError{Field: "format", Message: fmt.Sprintf("unsupported format %q", format)}
	}
}

// WriteFile writes records to path, creating parent directories
func WriteFile(path string, records []domain.AdRecord) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating export directory: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating export file: %w", err)
	}
	if err := Write(f, format, records); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// ReadFile reads records from a .csv or .xlsx file
func ReadFile(path string) ([]domain.AdRecord, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if format == FormatXLSX {
		return ReadXLSX(f)
	}
	return ReadCSV(f)
}
