// ABOUTME: Service interfaces for the ad tracking core
// ABOUTME: Defines the fetcher contract the aggregator runs once per keyword

package interfaces

import (
	"context"
	"time"

	"adtracker/core/domain"
)

// AdFetcher fetches the paid listings for a single keyword.
// Implementations never return an error: a failed fetch is reported as a
// single sentinel record so one bad keyword cannot abort a batch.
type AdFetcher interface {
	FetchAds(ctx context.Context, keyword, credential string, asOf time.Time) []domain.AdRecord
}

// ProgressFunc observes aggregator progress after each keyword completes.
type ProgressFunc func(done, total int)

// Aggregator runs the fetcher over a keyword list and returns the ordered results.
type Aggregator interface {
	Run(ctx context.Context, keywords []string, credential string, asOf time.Time, progress ProgressFunc) domain.ResultSet
}
