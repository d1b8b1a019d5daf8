// ABOUTME: Request DTOs for the tracking endpoint
// ABOUTME: Merges list and free-text keyword input and parses the run date

package requests

import (
	"fmt"
	"strings"
	"time"

	coreerrors "adtracker/core/errors"
	"adtracker/core/keywords"
	timeutil "adtracker/pkg/utils/time"
)

// TrackRequest is the body of POST /track
type TrackRequest struct {
	// Keywords is an explicit keyword list
	Keywords []string `json:"keywords,omitempty" maxItems:"500" doc:"Keywords to track"`

	// Text is free-form input separated by commas or newlines, as typed into a text box
	Text string `json:"text,omitempty" doc:"Keywords separated by commas or newlines"`

	// APIKey overrides the server's configured SerpApi key
	APIKey string `json:"api_key,omitempty" doc:"SerpApi key; defaults to the server's key"`

	// Date records the run under a given day instead of today
	Date string `json:"date,omitempty" doc:"Date to record the run under (YYYY-MM-DD)" example:"2024-05-03"`

	// Save appends the run to history (default true)
	Save *bool `json:"save,omitempty" default:"true" doc:"Append the run to history"`
}

// ApplyDefaults sets default values for optional fields
func (r *TrackRequest) ApplyDefaults() {
	if r.Save == nil {
		save := true
		r.Save = &save
	}
}

// KeywordList returns the normalized keywords from both inputs, list first
func (r *TrackRequest) KeywordList() []string {
	parts := make([]string, 0, len(r.Keywords)+1)
	parts = append(parts, r.Keywords...)
	parts = append(parts, r.Text)
	return keywords.FromText(strings.Join(parts, "\n"))
}

// CheckedAt returns the requested run date, or now when none was given
func (r *TrackRequest) CheckedAt(now time.Time) (time.Time, error) {
	if strings.TrimSpace(r.Date) == "" {
		return now, nil
	}
	d, ok := timeutil.ParseDate(r.Date)
	if !ok {
		return time.Time{}, &coreerrors.ValidationError{Field: "date", Message: fmt.Sprintf("cannot parse %q", r.Date)}
	}
	return d, nil
}
