// ABOUTME: CSV file history store that keeps every run in one spreadsheet-friendly file
// ABOUTME: Appends by rewriting the whole file through a temp file and rename

package csvfile

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"adtracker/core/domain"
	"adtracker/core/export"
	"adtracker/core/interfaces"
)

// DefaultPath is where history lives when no path is configured
const DefaultPath = "data/ad_history.csv"

// Store implements interfaces.HistoryStore on a single CSV file.
// There is no locking: two processes appending at once race and the last
// rename wins.
type Store struct {
	path   string
	logger interfaces.Logger
}

// NewStore creates a store at path, or DefaultPath when path is empty
func NewStore(path string, logger interfaces.Logger) *Store {
	if path == "" {
		path = DefaultPath
	}
	return &Store{path: path, logger: logger}
}

// Path returns the history file location
func (s *Store) Path() string {
	return s.path
}

// Load reads the full history. A missing file is an empty history.
func (s *Store) Load(ctx context.Context) (domain.HistoryLog, error) {
	if err := ctx.Err(); err != nil {
		return domain.HistoryLog{}, err
	}

	f, err := os.Open(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return domain.HistoryLog{Records: []domain.AdRecord{}}, nil
	}
	if err != nil {
		return domain.HistoryLog{}, fmt.Errorf("opening history %s: %w", s.path, err)
	}
	defer f.Close()

	records, err := export.ReadCSV(f)
	if err != nil {
		return domain.HistoryLog{}, fmt.Errorf("loading history %s: %w", s.path, err)
	}
	return domain.HistoryLog{Records: records}, nil
}

// Append adds the run's records after the existing history. An empty run
// still leaves a file with a header behind.
func (s *Store) Append(ctx context.Context, rs domain.ResultSet) error {
	existing, err := s.Load(ctx)
	if err != nil {
		return err
	}

	all := make([]domain.AdRecord, 0, existing.Len()+rs.Len())
	all = append(all, existing.Records...)
	all = append(all, rs.Records...)

	if err := s.write(all); err != nil {
		return err
	}

	if s.logger != nil {
		s.logger.Debug("Appended run to history", map[string]interface{}{
			"path":    s.path,
			"run_id":  rs.RunID.String(),
			"added":   rs.Len(),
			"total":   len(all),
			"backend": "csv",
		})
	}
	return nil
}

func (s *Store) write(records []domain.AdRecord) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating history directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".ad_history-*.csv")
	if err != nil {
		return fmt.Errorf("creating temp history file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	// keep the history file's mode across the rename
	mode := os.FileMode(0o644)
	if info, err := os.Stat(s.path); err == nil {
		mode = info.Mode().Perm()
	}
	if err := tmp.Chmod(mode); err != nil {
		tmp.Close()
		return fmt.Errorf("setting history file mode: %w", err)
	}

	if err := export.WriteCSV(tmp, records); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp history file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("replacing history %s: %w", s.path, err)
	}
	return nil
}
