// ABOUTME: Date parsing utilities for the history "Date Checked" column
// ABOUTME: Accepts the layouts written by past versions of the tracker and by spreadsheets

package time

import (
	"strconv"
	"strings"
	"time"
)

// Layouts accepted for history and export dates, most specific first
var dateFormats = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
	"1/2/2006",
	"01-02-06",
}

// excelEpoch is day zero of the spreadsheet serial date system
var excelEpoch = time.Date(1899, 12, 30, 0, 0, 0, 0, time.UTC)

// ParseDate parses a date cell and truncates it to its calendar day in UTC.
// Spreadsheet serial numbers ("45415") are also understood. The second return
// value is false when nothing matched.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}

	for _, format := range dateFormats {
		if t, err := time.Parse(format, s); err == nil {
			return day(t), true
		}
	}

	if serial, err := strconv.ParseFloat(s, 64); err == nil && serial > 0 && serial < 2958466 {
		return excelEpoch.AddDate(0, 0, int(serial)), true
	}

	return time.Time{}, false
}

func day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
