// ABOUTME: Ad domain models represent paid search listings observed for a keyword
// ABOUTME: Defines AdRecord, its rank Position with an error sentinel, and run/history containers

package domain

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Position is the 1-based rank of an ad within a keyword's ad results.
// ErrorPosition marks a record produced by a failed fetch.
type Position int

// ErrorPosition is the sentinel rank of a failed fetch.
const ErrorPosition Position = -1

// errorLabel is how ErrorPosition is written in tabular output.
const errorLabel = "error"

// IsError reports whether p is the error sentinel (or any non-positive rank).
func (p Position) IsError() bool {
	return p <= 0
}

// String renders a rank as its decimal value and the sentinel as "error".
func (p Position) String() string {
	if p.IsError() {
		return errorLabel
	}
	return strconv.Itoa(int(p))
}

// ParsePosition reads a tabular position cell. Anything that is not a positive
// integer, including the literal "error", becomes ErrorPosition.
func ParsePosition(s string) Position {
	s = strings.TrimSpace(s)
	v, err := strconv.Atoi(s)
	if err != nil {
		// spreadsheets sometimes hand back "3.0"
		f, ferr := strconv.ParseFloat(s, 64)
		if ferr != nil || f != float64(int(f)) {
			return ErrorPosition
		}
		v = int(f)
	}
	if v <= 0 {
		return ErrorPosition
	}
	return Position(v)
}

// AdRecord is one observed paid search listing.
type AdRecord struct {
	// Keyword is the query the ad was observed for
	Keyword string

	// Position is the ad's rank, or ErrorPosition for a failed fetch
	Position Position

	// Title is the ad headline, or the failure message for an error record
	Title string

	// Link is the ad's destination link, or its displayed link when no link was returned
	Link string

	// Domain is the host component of Link
	Domain string

	// CheckedAt is the calendar day the fetch ran
	CheckedAt time.Time
}

// IsError reports whether the record is a sentinel error record.
func (r AdRecord) IsError() bool {
	return r.Position.IsError()
}

// NewErrorRecord builds the sentinel record used in place of a failed fetch.
// The message is cleaned so it survives every history format.
func NewErrorRecord(keyword, message string, checkedAt time.Time) AdRecord {
	return AdRecord{
		Keyword:   keyword,
		Position:  ErrorPosition,
		Title:     CleanText(message),
		CheckedAt: Day(checkedAt),
	}
}

// ResultSet is the ordered output of one run over one keyword list.
type ResultSet struct {
	RunID     uuid.UUID
	CheckedAt time.Time
	Records   []AdRecord
}

// NewResultSet creates an empty result set for a run on the given day.
func NewResultSet(checkedAt time.Time) ResultSet {
	return ResultSet{
		RunID:     uuid.New(),
		CheckedAt: Day(checkedAt),
		Records:   []AdRecord{},
	}
}

// Len returns the number of records in the set.
func (rs ResultSet) Len() int {
	return len(rs.Records)
}

// HistoryLog is the accumulated, append-only record of all runs.
type HistoryLog struct {
	Records []AdRecord
}

// Len returns the number of rows in the log.
func (h HistoryLog) Len() int {
	return len(h.Records)
}

// HistoryQuery narrows a history read. Zero values match everything.
// Keyword matches case-insensitively; Domain matches the domain or any subdomain.
type HistoryQuery struct {
	Keyword string
	Domain  string
	Since   time.Time
}

// DateLayout is the calendar date format used for CheckedAt in tabular output.
const DateLayout = "2006-01-02"

// Day truncates t to midnight UTC of its calendar date.
func Day(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
