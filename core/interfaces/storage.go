// ABOUTME: Storage interfaces for persisting ad history across runs
// ABOUTME: Defines the append-only history contract shared by the CSV and SQLite stores

package interfaces

import (
	"context"

	"adtracker/core/domain"
)

// HistoryStore persists result sets across runs. Append is the only mutation.
type HistoryStore interface {
	// Append adds every record of the result set to the history
	Append(ctx context.Context, results domain.ResultSet) error

	// Load returns the full accumulated history
	Load(ctx context.Context) (domain.HistoryLog, error)
}

// HistoryQuerier is implemented by stores that can filter history themselves
type HistoryQuerier interface {
	Query(ctx context.Context, q domain.HistoryQuery) (domain.HistoryLog, error)
}
