package mappers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"adtracker/core/domain"
	"adtracker/core/report"
)

var day = time.Date(2024, 5, 3, 0, 0, 0, 0, time.UTC)

func TestToAdRecord(t *testing.T) {
	got := ToAdRecord(domain.AdRecord{
		Keyword: "shoes", Position: 2, Title: "B", Link: "https://b.com/y", Domain: "b.com", CheckedAt: day,
	})

	require.NotNil(t, got.Position)
	assert.Equal(t, 2, *got.Position)
	assert.Equal(t, "2024-05-03", got.CheckedAt)
	assert.False(t, got.Error)
}

func TestToAdRecord_ErrorRecord(t *testing.T) {
	got := ToAdRecord(domain.NewErrorRecord("socks", "timeout", day))

	assert.Nil(t, got.Position)
	assert.True(t, got.Error)
	assert.Equal(t, "timeout", got.Title)
	assert.Empty(t, got.Domain)
}

func TestToAdRecords_NeverNil(t *testing.T) {
	assert.NotNil(t, ToAdRecords(nil))
	assert.NotNil(t, ToDomainCounts(nil))
	assert.NotNil(t, ToTrendPoints(nil))
}

func TestToTrendPoints(t *testing.T) {
	got := ToTrendPoints([]report.BestPosition{{Date: day, Domain: "a.com", Position: 1}})

	require.Len(t, got, 1)
	assert.Equal(t, "2024-05-03", got[0].Date)
	assert.Equal(t, 1, got[0].Position)
}

func TestToTrackResponse(t *testing.T) {
	rs := domain.NewResultSet(day)
	rs.Records = append(rs.Records,
		domain.AdRecord{Keyword: "shoes", Position: 1, Title: "A", Link: "https://a.com/x", Domain: "a.com", CheckedAt: day},
		domain.NewErrorRecord("socks", "timeout", day),
	)

	got := ToTrackResponse(rs, true, 5)

	assert.Equal(t, rs.RunID.String(), got.RunID)
	assert.Equal(t, "2024-05-03", got.CheckedAt)
	assert.True(t, got.Saved)
	assert.Len(t, got.Records, 2)
	assert.Equal(t, []string{"socks"}, got.Summary.FailedKeywords)
	assert.False(t, got.Summary.Empty)
	require.Len(t, got.TopDomains, 1)
	assert.Equal(t, "a.com", got.TopDomains[0].Domain)
}

func TestToTrackResponse_Empty(t *testing.T) {
	got := ToTrackResponse(domain.NewResultSet(day), false, 5)

	assert.True(t, got.Summary.Empty)
	assert.Equal(t, NoAdsMessage, got.Summary.Message)
	assert.Equal(t, []string{}, got.Summary.FailedKeywords)
	assert.Empty(t, got.Records)
}
