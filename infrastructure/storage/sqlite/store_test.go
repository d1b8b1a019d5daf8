package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"adtracker/core/domain"
	"adtracker/core/interfaces"
)

var _ interfaces.HistoryStore = (*Store)(nil)

var today = time.Date(2024, 5, 3, 0, 0, 0, 0, time.UTC)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(filepath.Join(t.TempDir(), "history.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func run(day time.Time, records ...domain.AdRecord) domain.ResultSet {
	rs := domain.NewResultSet(day)
	rs.Records = append(rs.Records, records...)
	return rs
}

func ad(keyword string, pos int, host string, day time.Time) domain.AdRecord {
	return domain.AdRecord{
		Keyword:   keyword,
		Position:  domain.Position(pos),
		Title:     keyword + " ad",
		Link:      "https://" + host + "/",
		Domain:    host,
		CheckedAt: day,
	}
}

func TestNewStore_MigratesTwice(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "history.db")

	first, err := NewStore(path, nil)
	require.NoError(t, err)
	require.NoError(t, first.Close())

	second, err := NewStore(path, nil)
	require.NoError(t, err)
	defer second.Close()

	log, err := second.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, log.Len())
}

func TestAppendLoad_TwoRunsSameDay(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	first := run(today, ad("shoes", 1, "a.com", today), ad("shoes", 2, "b.com", today))
	second := run(today, domain.NewErrorRecord("socks", "timeout", today))

	require.NoError(t, store.Append(ctx, first))
	require.NoError(t, store.Append(ctx, second))

	log, err := store.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, 3, log.Len())
	assert.Equal(t, first.Records[0], log.Records[0])
	assert.Equal(t, first.Records[1], log.Records[1])
	assert.Equal(t, domain.ErrorPosition, log.Records[2].Position)
	assert.Equal(t, "timeout", log.Records[2].Title)
}

func TestAppend_Associative(t *testing.T) {
	ctx := context.Background()
	a := []domain.AdRecord{ad("shoes", 1, "a.com", today)}
	b := []domain.AdRecord{ad("socks", 1, "c.com", today), ad("socks", 2, "d.com", today)}

	split := newTestStore(t)
	require.NoError(t, split.Append(ctx, run(today, a...)))
	require.NoError(t, split.Append(ctx, run(today, b...)))

	joined := newTestStore(t)
	require.NoError(t, joined.Append(ctx, run(today, append(append([]domain.AdRecord{}, a...), b...)...)))

	left, err := split.Load(ctx)
	require.NoError(t, err)
	right, err := joined.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, right.Records, left.Records)
}

func TestQuery_Filters(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	yesterday := today.AddDate(0, 0, -1)

	require.NoError(t, store.Append(ctx, run(yesterday,
		ad("shoes", 1, "a.com", yesterday),
		ad("socks", 1, "b.com", yesterday),
	)))
	require.NoError(t, store.Append(ctx, run(today,
		ad("Shoes", 2, "a.com", today),
		ad("shoes", 1, "c.com", today),
		ad("boots", 3, "shop.a.com", today),
		ad("boots", 4, "data.com", today),
	)))

	byKeyword, err := store.Query(ctx, domain.HistoryQuery{Keyword: "SHOES"})
	require.NoError(t, err)
	assert.Equal(t, 3, byKeyword.Len())

	// subdomains match, unrelated suffixes do not
	byDomain, err := store.Query(ctx, domain.HistoryQuery{Domain: "A.com"})
	require.NoError(t, err)
	assert.Equal(t, 3, byDomain.Len())

	since, err := store.Query(ctx, domain.HistoryQuery{Since: today})
	require.NoError(t, err)
	assert.Equal(t, 4, since.Len())

	combined, err := store.Query(ctx, domain.HistoryQuery{Keyword: "shoes", Domain: "a.com", Since: today})
	require.NoError(t, err)
	require.Equal(t, 1, combined.Len())
	assert.Equal(t, domain.Position(2), combined.Records[0].Position)
}

func TestAppend_EmptyRun(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Append(context.Background(), domain.NewResultSet(today)))

	log, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, log.Len())
}

func TestQuery_UnicodeKeywordAndLiteralUnderscore(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Append(ctx, run(today,
		ad("Écoles Privées", 1, "my_shop.com", today),
		ad("écoles privées", 2, "sub.my_shop.com", today),
		ad("ecoles", 1, "sub.myxshop.com", today),
	)))

	byKeyword, err := store.Query(ctx, domain.HistoryQuery{Keyword: "ÉCOLES PRIVÉES"})
	require.NoError(t, err)
	assert.Equal(t, 2, byKeyword.Len())

	byDomain, err := store.Query(ctx, domain.HistoryQuery{Domain: "my_shop.com"})
	require.NoError(t, err)
	require.Equal(t, 2, byDomain.Len())
	for _, r := range byDomain.Records {
		assert.NotEqual(t, "sub.myxshop.com", r.Domain)
	}
}

func TestNewStore_BackfillsKeywordFold(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	ctx := context.Background()

	store, err := NewStore(path, nil)
	require.NoError(t, err)
	require.NoError(t, store.Append(ctx, run(today, ad("Écoles", 1, "a.com", today))))
	_, err = store.db.ExecContext(ctx, "UPDATE ad_history SET keyword_fold = ''")
	require.NoError(t, err)
	require.NoError(t, store.Close())

	reopened, err := NewStore(path, nil)
	require.NoError(t, err)
	t.Cleanup(func() { reopened.Close() })

	log, err := reopened.Query(ctx, domain.HistoryQuery{Keyword: "écoles"})
	require.NoError(t, err)
	assert.Equal(t, 1, log.Len())
}
