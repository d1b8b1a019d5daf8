package handlers

import (
	"context"
	"errors"
	"sync"
	"time"

	"adtracker/core/domain"
	"adtracker/core/interfaces"
)

// mockAggregator is a mock implementation of the aggregator
type mockAggregator struct {
	runFunc func(ctx context.Context, keywords []string, credential string, asOf time.Time) domain.ResultSet

	mu         sync.Mutex
	calls      int
	credential string
}

func (m *mockAggregator) Run(ctx context.Context, keywords []string, credential string, asOf time.Time, progress interfaces.ProgressFunc) domain.ResultSet {
	m.mu.Lock()
	m.calls++
	m.credential = credential
	m.mu.Unlock()

	if m.runFunc != nil {
		return m.runFunc(ctx, keywords, credential, asOf)
	}
	rs := domain.NewResultSet(asOf)
	for _, k := range keywords {
		rs.Records = append(rs.Records,
			domain.AdRecord{Keyword: k, Position: 1, Title: k + " one", Link: "https://www.nike.com/" + k, Domain: "www.nike.com", CheckedAt: domain.Day(asOf)},
			domain.AdRecord{Keyword: k, Position: 2, Title: k + " two", Link: "https://adidas.com/" + k, Domain: "adidas.com", CheckedAt: domain.Day(asOf)},
		)
	}
	return rs
}

// mockStore is an in-memory history store
type mockStore struct {
	mu        sync.Mutex
	records   []domain.AdRecord
	appendErr error
	appends   int
}

func (m *mockStore) Append(ctx context.Context, rs domain.ResultSet) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.appendErr != nil {
		return m.appendErr
	}
	m.appends++
	m.records = append(m.records, rs.Records...)
	return nil
}

func (m *mockStore) Load(ctx context.Context) (domain.HistoryLog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return domain.HistoryLog{Records: append([]domain.AdRecord(nil), m.records...)}, nil
}

var errDiskFull = errors.New("disk full")

var (
	day1 = time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	day2 = time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC)
)

func seededStore() *mockStore {
	return &mockStore{records: []domain.AdRecord{
		{Keyword: "shoes", Position: 1, Title: "Nike", Link: "https://www.nike.com/", Domain: "www.nike.com", CheckedAt: day1},
		{Keyword: "shoes", Position: 2, Title: "Adidas", Link: "https://adidas.com/", Domain: "adidas.com", CheckedAt: day1},
		domain.NewErrorRecord("socks", "failed to fetch ads", day1),
		{Keyword: "shoes", Position: 1, Title: "Adidas", Link: "https://adidas.com/", Domain: "adidas.com", CheckedAt: day2},
		{Keyword: "boots", Position: 3, Title: "Nike Store", Link: "https://store.nike.com/", Domain: "store.nike.com", CheckedAt: day2},
	}}
}
