// ABOUTME: Tracker service runs the ad fetcher over a keyword list and collects one result set
// ABOUTME: Preserves input order, enforces the request budget and survives cancellation

package tracker

import (
	"context"
	"fmt"
	"time"

	"adtracker/core/domain"
	"adtracker/core/interfaces"
	"adtracker/core/workers"
	"adtracker/pkg/featureflags"
)

// BudgetExhaustedMessage is the title of records for keywords skipped by the request budget
const BudgetExhaustedMessage = "request budget exhausted"

// Options tunes a run
type Options struct {
	// Concurrency is the number of keywords fetched at once; 1 or less is sequential.
	// Values above 1 take effect only with the parallel_fetch flag.
	Concurrency int

	// RequestBudget caps fetches per run; 0 means unlimited
	RequestBudget int
}

// Service aggregates per-keyword fetches into a result set
type Service struct {
	fetcher interfaces.AdFetcher
	deps    interfaces.Dependencies
	opts    Options
}

// NewService creates a new tracker service
func NewService(fetcher interfaces.AdFetcher, deps interfaces.Dependencies, opts Options) *Service {
	if opts.Concurrency < 1 {
		opts.Concurrency = 1
	}
	if opts.RequestBudget < 0 {
		opts.RequestBudget = 0
	}
	return &Service{fetcher: fetcher, deps: deps, opts: opts}
}

// Run fetches ads for every keyword and returns them concatenated in input
// order. It does not fail: fetch failures, budget overruns and cancellation
// all show up as sentinel records. progress may be nil.
func (s *Service) Run(ctx context.Context, keywords []string, credential string, asOf time.Time, progress interfaces.ProgressFunc) domain.ResultSet {
	rs := domain.NewResultSet(asOf)
	if len(keywords) == 0 {
		s.log().Info("No keywords to track", map[string]interface{}{"run_id": rs.RunID.String()})
		return rs
	}

	start := time.Now()
	total := len(keywords)
	done := 0
	report := func() {
		done++
		if progress != nil {
			progress(done, total)
		}
	}

	fetchable, skipped := keywords, []string(nil)
	if s.opts.RequestBudget > 0 && len(keywords) > s.opts.RequestBudget {
		fetchable, skipped = keywords[:s.opts.RequestBudget], keywords[s.opts.RequestBudget:]
		s.log().Warn("Request budget exhausted", map[string]interface{}{
			"budget":  s.opts.RequestBudget,
			"skipped": len(skipped),
		})
	}

	if s.parallel(ctx) && len(fetchable) > 1 {
		pool := workers.NewFetchPool(s.fetcher, credential, asOf, workers.PoolConfig{
			MaxWorkers: s.opts.Concurrency,
			QueueSize:  s.opts.Concurrency,
		})
		results := pool.FetchAll(ctx, fetchable, func(workers.FetchResult) { report() })
		for _, r := range results {
			if r.Err != nil {
				rs.Records = append(rs.Records, s.skip(r.Keyword, r.Err.Error(), rs.CheckedAt))
				continue
			}
			rs.Records = append(rs.Records, r.Records...)
		}
	} else {
		for _, kw := range fetchable {
			if err := ctx.Err(); err != nil {
				rs.Records = append(rs.Records, s.skip(kw, err.Error(), rs.CheckedAt))
			} else {
				rs.Records = append(rs.Records, s.fetcher.FetchAds(ctx, kw, credential, asOf)...)
			}
			report()
		}
	}

	for _, kw := range skipped {
		rs.Records = append(rs.Records, s.skip(kw, BudgetExhaustedMessage, rs.CheckedAt))
		report()
	}

	sum := Summarize(rs)
	s.log().Info("Tracking run complete", map[string]interface{}{
		"run_id":   rs.RunID.String(),
		"keywords": total,
		"ads":      sum.Ads,
		"failures": sum.Failures,
		"duration": time.Since(start).String(),
	})
	return rs
}

// skip records a keyword that was never sent to the fetcher
func (s *Service) skip(keyword, reason string, checkedAt time.Time) domain.AdRecord {
	if s.deps.Metrics != nil {
		s.deps.Metrics.ObserveFetch(interfaces.OutcomeSkipped, 0, 0)
	}
	return domain.NewErrorRecord(keyword, fmt.Sprintf("not fetched: %s", reason), checkedAt)
}

func (s *Service) parallel(ctx context.Context) bool {
	return s.opts.Concurrency > 1 && featureflags.Enabled(ctx, s.deps.Flags, featureflags.ParallelFetch)
}

func (s *Service) log() interfaces.Logger {
	if s.deps.Logger == nil {
		return nopLogger{}
	}
	return s.deps.Logger
}

type nopLogger struct{}

func (nopLogger) Debug(string, map[string]interface{}) {}
func (nopLogger) Info(string, map[string]interface{})  {}
func (nopLogger) Warn(string, map[string]interface{})  {}
func (nopLogger) Error(string, map[string]interface{}) {}
