package csvfile

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"adtracker/core/domain"
	"adtracker/core/interfaces"
)

var _ interfaces.HistoryStore = (*Store)(nil)

var today = time.Date(2024, 5, 3, 0, 0, 0, 0, time.UTC)

func resultSet(records ...domain.AdRecord) domain.ResultSet {
	rs := domain.NewResultSet(today)
	rs.Records = append(rs.Records, records...)
	return rs
}

func ad(keyword string, pos int, domainName string) domain.AdRecord {
	return domain.AdRecord{
		Keyword:   keyword,
		Position:  domain.Position(pos),
		Title:     keyword + " ad",
		Link:      "https://" + domainName + "/",
		Domain:    domainName,
		CheckedAt: today,
	}
}

func TestNewStore_DefaultPath(t *testing.T) {
	assert.Equal(t, "data/ad_history.csv", NewStore("", nil).Path())
}

func TestLoad_MissingFile(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "none.csv"), nil)

	log, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, log.Len())
}

func TestAppend_EmptyRunCreatesHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "history.csv")
	store := NewStore(path, nil)

	require.NoError(t, store.Append(context.Background(), domain.NewResultSet(today)))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Keyword,Position,Title,Link,Domain,Date Checked", strings.TrimSpace(string(data)))
}

func TestAppend_TwoRunsSameDay(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "history.csv"), nil)
	ctx := context.Background()

	first := resultSet(ad("shoes", 1, "a.com"), ad("shoes", 2, "b.com"))
	second := resultSet(ad("shoes", 1, "b.com"), domain.NewErrorRecord("socks", "timeout", today))

	require.NoError(t, store.Append(ctx, first))
	require.NoError(t, store.Append(ctx, second))

	log, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, first.Len()+second.Len(), log.Len())
	assert.Equal(t, "b.com", log.Records[2].Domain)
	assert.True(t, log.Records[3].IsError())
	assert.Equal(t, "timeout", log.Records[3].Title)
}

func TestAppend_Associative(t *testing.T) {
	ctx := context.Background()
	a := resultSet(ad("shoes", 1, "a.com"))
	b := resultSet(ad("socks", 1, "c.com"), ad("socks", 2, "d.com"))

	split := NewStore(filepath.Join(t.TempDir(), "split.csv"), nil)
	require.NoError(t, split.Append(ctx, a))
	require.NoError(t, split.Append(ctx, b))

	joined := NewStore(filepath.Join(t.TempDir(), "joined.csv"), nil)
	require.NoError(t, joined.Append(ctx, resultSet(append(append([]domain.AdRecord{}, a.Records...), b.Records...)...)))

	left, err := split.Load(ctx)
	require.NoError(t, err)
	right, err := joined.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, right.Records, left.Records)
}

func TestLoad_LegacyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.csv")
	legacy := "Keyword,Position,Title,Link,Domain,Date Checked\n" +
		"shoes,1,Buy,https://a.com,a.com,2024-05-03 09:30:00\n" +
		"socks,Error,boom,,,2024-05-03\n"
	require.NoError(t, os.WriteFile(path, []byte(legacy), 0o644))

	log, err := NewStore(path, nil).Load(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, log.Len())
	assert.True(t, log.Records[0].CheckedAt.Equal(today))
	assert.Equal(t, domain.ErrorPosition, log.Records[1].Position)
}

func TestAppend_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	store := NewStore(filepath.Join(t.TempDir(), "history.csv"), nil)
	assert.Error(t, store.Append(ctx, resultSet(ad("shoes", 1, "a.com"))))
}

func TestAppend_FileMode(t *testing.T) {
	ctx := context.Background()

	t.Run("new file is world readable", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "history.csv")
		require.NoError(t, NewStore(path, nil).Append(ctx, resultSet(ad("shoes", 1, "a.com"))))

		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0o644), info.Mode().Perm())
	})

	t.Run("existing mode is kept", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "history.csv")
		store := NewStore(path, nil)
		require.NoError(t, store.Append(ctx, resultSet(ad("shoes", 1, "a.com"))))
		require.NoError(t, os.Chmod(path, 0o640))

		require.NoError(t, store.Append(ctx, resultSet(ad("socks", 1, "b.com"))))

		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0o640), info.Mode().Perm())
	})
}
