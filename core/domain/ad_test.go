package domain

import (
	"testing"
	"time"
)

func TestPosition_String(t *testing.T) {
	tests := []struct {
		name     string
		position Position
		expected string
	}{
		{"first rank", 1, "1"},
		{"later rank", 12, "12"},
		{"error sentinel", ErrorPosition, "error"},
		{"zero is treated as error", 0, "error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.position.String(); got != tt.expected {
				t.Errorf("String() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestParsePosition(t *testing.T) {
	tests := []struct {
		input    string
		expected Position
	}{
		{"1", 1},
		{" 4 ", 4},
		{"3.0", 3},
		{"error", ErrorPosition},
		{"", ErrorPosition},
		{"-2", ErrorPosition},
		{"0", ErrorPosition},
		{"2.5", ErrorPosition},
		{"n/a", ErrorPosition},
	}

	for _, tt := range tests {
		if got := ParsePosition(tt.input); got != tt.expected {
			t.Errorf("ParsePosition(%q) = %v, want %v", tt.input, got, tt.expected)
		}
	}
}

func TestParsePosition_RoundTripsString(t *testing.T) {
	for _, p := range []Position{1, 2, 10, ErrorPosition} {
		if got := ParsePosition(p.String()); got != p {
			t.Errorf("ParsePosition(%q) = %v, want %v", p.String(), got, p)
		}
	}
}

func TestNewErrorRecord(t *testing.T) {
	at := time.Date(2024, 5, 3, 17, 45, 0, 0, time.UTC)

	rec := NewErrorRecord("socks", "connection refused", at)

	if !rec.IsError() {
		t.Error("error record should report IsError")
	}
	if rec.Keyword != "socks" {
		t.Errorf("Keyword = %v, want socks", rec.Keyword)
	}
	if rec.Title != "connection refused" {
		t.Errorf("Title = %v, want failure message", rec.Title)
	}
	if rec.Domain != "" {
		t.Errorf("Domain = %v, want empty", rec.Domain)
	}
	if !rec.CheckedAt.Equal(time.Date(2024, 5, 3, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("CheckedAt = %v, want day of fetch", rec.CheckedAt)
	}
}

func TestNewResultSet(t *testing.T) {
	rs := NewResultSet(time.Date(2024, 5, 3, 9, 0, 0, 0, time.FixedZone("X", 3600)))

	if rs.Len() != 0 {
		t.Errorf("Len() = %d, want 0", rs.Len())
	}
	if rs.Records == nil {
		t.Error("Records should be an empty slice, not nil")
	}
	if rs.RunID.String() == "00000000-0000-0000-0000-000000000000" {
		t.Error("RunID should be generated")
	}
	if rs.CheckedAt.Format(DateLayout) != "2024-05-03" {
		t.Errorf("CheckedAt = %v, want 2024-05-03", rs.CheckedAt)
	}
}

func TestDay_Zero(t *testing.T) {
	if !Day(time.Time{}).IsZero() {
		t.Error("Day of zero time should stay zero")
	}
}
