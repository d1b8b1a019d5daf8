// ABOUTME: SQLite history store with schema managed by embedded golang-migrate migrations
// ABOUTME: Appends each run in one transaction and supports filtered trend queries

package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/golang-migrate/migrate/v4"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/mattn/go-sqlite3"

	"adtracker/core/domain"
	"adtracker/core/interfaces"
	"adtracker/infrastructure/storage/sqlite/migrations"
)

// DefaultPath is used when no database path is configured
const DefaultPath = "data/ad_history.db"

const table = "ad_history"

var columns = []string{"keyword", "position", "title", "link", "domain", "checked_at"}

// Store implements interfaces.HistoryStore using SQLite
type Store struct {
	db       *sql.DB
	filePath string
	logger   interfaces.Logger
}

// NewStore opens (creating if needed) the database at filePath and migrates it
func NewStore(filePath string, logger interfaces.Logger) (*Store, error) {
	if filePath == "" {
		filePath = DefaultPath
	}
	if filePath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(filePath), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}
	// one writer at a time; also keeps :memory: on a single connection
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to SQLite database: %w", err)
	}

	s := &Store{db: db, filePath: filePath, logger: logger}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	if err := s.backfillKeywordFold(context.Background()); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// migrate applies all embedded migrations
func (s *Store) migrate() error {
	source, err := iofs.New(migrations.FS, ".")
	if err != nil {
		return fmt.Errorf("failed to create migration source: %w", err)
	}

	driver, err := migratesqlite.WithInstance(s.db, &migratesqlite.Config{})
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, "sqlite3", driver)
	if err != nil {
		return fmt.Errorf("failed to create migrator: %w", err)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("migration failed: %w", err)
	}
	return nil
}

// backfillKeywordFold fills keyword_fold for rows written before the column existed.
// Folding happens in Go because SQLite's LOWER only handles ASCII.
func (s *Store) backfillKeywordFold(ctx context.Context) error {
	query, params, err := NewQueryBuilder().
		Select("id", "keyword").
		From(table).
		Where("keyword_fold", "=", "").
		Where("keyword", "!=", "").
		Build()
	if err != nil {
		return err
	}

	rows, err := s.db.QueryContext(ctx, query, params...)
	if err != nil {
		return fmt.Errorf("failed to read keywords to fold: %w", err)
	}
	folds := map[int64]string{}
	for rows.Next() {
		var (
			id      int64
			keyword string
		)
		if err := rows.Scan(&id, &keyword); err != nil {
			rows.Close()
			return fmt.Errorf("failed to scan keyword: %w", err)
		}
		folds[id] = domain.FoldKeyword(keyword)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to read keywords to fold: %w", err)
	}
	if len(folds) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()
	for id, fold := range folds {
		if _, err := tx.ExecContext(ctx, "UPDATE ad_history SET keyword_fold = ? WHERE id = ?", fold, id); err != nil {
			return fmt.Errorf("failed to fold keyword: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit keyword folds: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("Backfilled folded keywords", map[string]interface{}{
			"path": s.filePath,
			"rows": len(folds),
		})
	}
	return nil
}

// Append inserts every record of the run in a single transaction
func (s *Store) Append(ctx context.Context, rs domain.ResultSet) error {
	query, _, err := NewQueryBuilder().Insert(table, append([]string{"run_id", "keyword_fold"}, columns...)...).Build()
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	runID := rs.RunID.String()
	for _, r := range rs.Records {
		var position sql.NullInt64
		if !r.Position.IsError() {
			position = sql.NullInt64{Int64: int64(r.Position), Valid: true}
		}
		checked := r.CheckedAt
		if checked.IsZero() {
			checked = rs.CheckedAt
		}
		if _, err := stmt.ExecContext(ctx, runID, domain.FoldKeyword(r.Keyword), r.Keyword, position, r.Title, r.Link, r.Domain,
			checked.Format(domain.DateLayout)); err != nil {
			return fmt.Errorf("failed to insert record for %q: %w", r.Keyword, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit run: %w", err)
	}

	if s.logger != nil {
		s.logger.Debug("Appended run to history", map[string]interface{}{
			"path":    s.filePath,
			"run_id":  runID,
			"added":   rs.Len(),
			"backend": "sqlite",
		})
	}
	return nil
}

// Load returns the whole history in insertion order
func (s *Store) Load(ctx context.Context) (domain.HistoryLog, error) {
	return s.Query(ctx, domain.HistoryQuery{})
}

// Query returns history rows matching f in insertion order
func (s *Store) Query(ctx context.Context, f domain.HistoryQuery) (domain.HistoryLog, error) {
	qb := NewQueryBuilder().Select(columns...).From(table)
	if f.Keyword != "" {
		qb.Where("keyword_fold", "=", domain.FoldKeyword(strings.TrimSpace(f.Keyword)))
	}
	if f.Domain != "" {
		qb.WhereHost("domain", f.Domain)
	}
	if !f.Since.IsZero() {
		qb.Where("checked_at", ">=", domain.Day(f.Since).Format(domain.DateLayout))
	}
	query, params, err := qb.OrderBy("id").Build()
	if err != nil {
		return domain.HistoryLog{}, err
	}

	rows, err := s.db.QueryContext(ctx, query, params...)
	if err != nil {
		return domain.HistoryLog{}, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	records := []domain.AdRecord{}
	for rows.Next() {
		var (
			r        domain.AdRecord
			position sql.NullInt64
			checked  string
		)
		if err := rows.Scan(&r.Keyword, &position, &r.Title, &r.Link, &r.Domain, &checked); err != nil {
			return domain.HistoryLog{}, fmt.Errorf("failed to scan history row: %w", err)
		}
		r.Position = domain.ErrorPosition
		if position.Valid && position.Int64 > 0 {
			r.Position = domain.Position(position.Int64)
		}
		if t, err := time.Parse(domain.DateLayout, checked); err == nil {
			r.CheckedAt = t
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return domain.HistoryLog{}, fmt.Errorf("failed to read history: %w", err)
	}
	return domain.HistoryLog{Records: records}, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}
