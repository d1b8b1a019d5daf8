package report

import (
	"context"
	"fmt"

	"adtracker/core/domain"
	"adtracker/core/interfaces"
)

// Match applies q to records in memory
func Match(records []domain.AdRecord, q domain.HistoryQuery) []domain.AdRecord {
	if q.Keyword != "" {
		records = FilterKeyword(records, q.Keyword)
	}
	if q.Domain != "" {
		records = FilterDomain(records, q.Domain)
	}
	if !q.Since.IsZero() {
		records = FilterSince(records, q.Since)
	}
	return records
}

// Load reads the history matching q. Stores that filter on their own are
// asked to; the result is matched again so every backend agrees.
func Load(ctx context.Context, store interfaces.HistoryStore, q domain.HistoryQuery) ([]domain.AdRecord, error) {
	var (
		log domain.HistoryLog
		err error
	)
	if querier, ok := store.(interfaces.HistoryQuerier); ok {
		log, err = querier.Query(ctx, q)
	} else {
		log, err = store.Load(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("loading history: %w", err)
	}
	return Match(log.Records, q), nil
}
