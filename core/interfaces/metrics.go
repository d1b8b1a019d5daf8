package interfaces

import "time"

// Fetch outcomes reported to Metrics.
const (
	OutcomeSuccess = "success"
	OutcomeEmpty   = "empty"
	OutcomeError   = "error"
	OutcomeCached  = "cached"
	OutcomeSkipped = "skipped"
)

// Metrics records per-keyword fetch outcomes for a run.
type Metrics interface {
	// ObserveFetch records one keyword fetch with its outcome, duration and ad count
	ObserveFetch(outcome string, duration time.Duration, ads int)
}
