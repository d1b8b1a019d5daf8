// ABOUTME: Tabular codec for ad records shared by history files and downloadable exports
// ABOUTME: Converts records to header plus rows and back, tolerating column order and legacy dates

package export

import (
	"strings"

	"adtracker/core/domain"
	coreerrors "adtracker/core/errors"
	timeutil "adtracker/pkg/utils/time"
)

// Column names written to every tabular artifact, in order
const (
	ColKeyword  = "Keyword"
	ColPosition = "Position"
	ColTitle    = "Title"
	ColLink     = "Link"
	ColDomain   = "Domain"
	ColDate     = "Date Checked"
)

// Header is the header row of every tabular artifact
var Header = []string{ColKeyword, ColPosition, ColTitle, ColLink, ColDomain, ColDate}

// legacyDateHeaders are accepted in place of ColDate when reading
var legacyDateHeaders = []string{"timestamp", "date"}

// Row renders a single record in Header order
func Row(r domain.AdRecord) []string {
	date := ""
	if !r.CheckedAt.IsZero() {
		date = r.CheckedAt.Format(domain.DateLayout)
	}
	return []string{r.Keyword, r.Position.String(), r.Title, r.Link, r.Domain, date}
}

// Rows renders records as a header row followed by one row per record
func Rows(records []domain.AdRecord) [][]string {
	rows := make([][]string, 0, len(records)+1)
	rows = append(rows, append([]string(nil), Header...))
	for _, r := range records {
		rows = append(rows, Row(r))
	}
	return rows
}

// Parse reads rows produced by Rows. The first row is the header; columns are
// located by name so reordered files still load. Keyword and Position are
// required; the rest are optional. Blank rows are skipped.
func Parse(rows [][]string) ([]domain.AdRecord, error) {
	records := []domain.AdRecord{}
	if len(rows) == 0 {
		return records, nil
	}

	idx := indexHeader(rows[0])
	for _, required := range []string{ColKeyword, ColPosition} {
		if _, ok := idx[strings.ToLower(required)]; !ok {
			return nil, &coreerrors.MissingColumnError{Column: required, Available: trimAll(rows[0])}
		}
	}
	dateCol := -1
	if i, ok := idx[strings.ToLower(ColDate)]; ok {
		dateCol = i
	} else {
		for _, h := range legacyDateHeaders {
			if i, ok := idx[h]; ok {
				dateCol = i
				break
			}
		}
	}

	cell := func(row []string, col int) string {
		if col < 0 || col >= len(row) {
			return ""
		}
		return row[col]
	}
	column := func(name string) int {
		if i, ok := idx[strings.ToLower(name)]; ok {
			return i
		}
		return -1
	}
	kwCol, posCol := column(ColKeyword), column(ColPosition)
	titleCol, linkCol, domainCol := column(ColTitle), column(ColLink), column(ColDomain)

	for _, row := range rows[1:] {
		if isBlank(row) {
			continue
		}
		rec := domain.AdRecord{
			Keyword:  cell(row, kwCol),
			Position: domain.ParsePosition(cell(row, posCol)),
			Title:    cell(row, titleCol),
			Link:     cell(row, linkCol),
			Domain:   cell(row, domainCol),
		}
		if t, ok := timeutil.ParseDate(cell(row, dateCol)); ok {
			rec.CheckedAt = t
		}
		records = append(records, rec)
	}
	return records, nil
}

func indexHeader(header []string) map[string]int {
	idx := make(map[string]int, len(header))
	for i, h := range header {
		key := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		if _, dup := idx[key]; !dup {
			idx[key] = i
		}
	}
	return idx
}

func trimAll(cells []string) []string {
	out := make([]string, len(cells))
	for i, c := range cells {
		out[i] = strings.TrimSpace(c)
	}
	return out
}

func isBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
