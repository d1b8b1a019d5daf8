package tracker

import (
	"context"
	"sync"
	"time"

	"adtracker/core/domain"
)

// mockFetcher is a mock implementation of the AdFetcher interface
type mockFetcher struct {
	mu        sync.Mutex
	calls     []string
	fetchFunc func(ctx context.Context, keyword, credential string, asOf time.Time) []domain.AdRecord
}

func (m *mockFetcher) FetchAds(ctx context.Context, keyword, credential string, asOf time.Time) []domain.AdRecord {
	m.mu.Lock()
	m.calls = append(m.calls, keyword)
	m.mu.Unlock()
	if m.fetchFunc != nil {
		return m.fetchFunc(ctx, keyword, credential, asOf)
	}
	return []domain.AdRecord{}
}

func (m *mockFetcher) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

// mockMetrics records observed outcomes
type mockMetrics struct {
	mu       sync.Mutex
	outcomes []string
}

func (m *mockMetrics) ObserveFetch(outcome string, duration time.Duration, ads int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.outcomes = append(m.outcomes, outcome)
}
