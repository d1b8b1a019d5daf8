// ABOUTME: Keyword source turning typed lists and uploaded tables into an ordered keyword list
// ABOUTME: Trims, drops empties and deduplicates while preserving first-seen order

package keywords

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"adtracker/core/domain"
	coreerrors "adtracker/core/errors"
)

// Format identifies the layout of keyword input
type Format string

const (
	FormatText Format = "text"
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// FormatFromPath infers the input format from a file extension.
// Unknown extensions are read as plain text.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return FormatXLSX
	case ".csv":
		return FormatCSV
	default:
		return FormatText
	}
}

// FromText splits free text on commas and newlines
func FromText(text string) []string {
	fields := strings.FieldsFunc(text, func(r rune) bool {
		return r == ',' || r == '\n' || r == '\r'
	})
	return normalize(fields)
}

// FromRows extracts keywords from a table whose first row is a header.
// An empty column selects the first column; otherwise the header is matched
// case-insensitively.
func FromRows(rows [][]string, column string) ([]string, error) {
	if len(rows) == 0 {
		return []string{}, nil
	}

	header := rows[0]
	col := 0
	if name := strings.TrimSpace(column); name != "" {
		col = -1
		for i, h := range header {
			if strings.EqualFold(strings.TrimSpace(h), name) {
				col = i
				break
			}
		}
		if col < 0 {
			available := make([]string, 0, len(header))
			for _, h := range header {
				if h = strings.TrimSpace(h); h != "" {
					available = append(available, h)
				}
			}
			return nil, &coreerrors.MissingColumnError{Column: name, Available: available}
		}
	}

	cells := make([]string, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if col < len(row) {
			cells = append(cells, row[col])
		}
	}
	return normalize(cells), nil
}

// FromReader reads keywords from in-memory input of the given format
func FromReader(r io.Reader, format Format, column string) ([]string, error) {
	switch format {
	case FormatXLSX:
		f, err := excelize.OpenReader(r)
		if err != nil {
			return nil, fmt.Errorf("opening workbook: %w", err)
		}
		defer f.Close()

		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return []string{}, nil
		}
		rows, err := f.GetRows(sheets[0])
		if err != nil {
			return nil, fmt.Errorf("reading sheet %q: %w", sheets[0], err)
		}
		return FromRows(rows, column)

	case FormatCSV:
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, err
		}
		cr := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))))
		cr.FieldsPerRecord = -1
		rows, err := cr.ReadAll()
		if err != nil {
			return nil, fmt.Errorf("reading csv: %w", err)
		}
		return FromRows(rows, column)

	default:
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, err
		}
		return FromText(string(data)), nil
	}
}

// FromFile reads keywords from a .xlsx, .csv or text file
func FromFile(path, column string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return FromReader(f, FormatFromPath(path), column)
}

// normalize cleans, drops empty values and removes duplicates keeping the first
func normalize(values []string) []string {
	out := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		v = domain.CleanText(v)
		if v == "" {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
