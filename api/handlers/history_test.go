package handlers

import (
	"encoding/csv"
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"adtracker/api/dto/responses"
	"adtracker/core/export"
)

func newHistoryAPI(t *testing.T, store *mockStore) humatest.TestAPI {
	t.Helper()
	_, api := humatest.New(t)
	NewHistoryHandler(store).RegisterRoutes(api)
	return api
}

func TestHistoryHandler_RegisterRoutes(t *testing.T) {
	api := newHistoryAPI(t, &mockStore{})

	for _, p := range []string{"/history", "/history/trend", "/top", "/export"} {
		item := api.OpenAPI().Paths[p]
		require.NotNil(t, item, p)
		assert.NotNil(t, item.Get, p)
	}
}

func TestList_DropsErrorsByDefault(t *testing.T) {
	api := newHistoryAPI(t, seededStore())

	resp := api.Get("/history")
	require.Equal(t, http.StatusOK, resp.Code)

	var out responses.HistoryResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &out))
	assert.Equal(t, 4, out.Count)
	for _, r := range out.Records {
		assert.False(t, r.Error)
	}
}

func TestList_Filters(t *testing.T) {
	api := newHistoryAPI(t, seededStore())

	tests := []struct {
		query string
		want  int
	}{
		{"/history?include_errors=true", 5},
		{"/history?keyword=SHOES", 3},
		{"/history?domain=nike.com", 2},
		{"/history?since=2024-05-02", 2},
		{"/history?keyword=socks&include_errors=true", 1},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			resp := api.Get(tt.query)
			require.Equal(t, http.StatusOK, resp.Code)

			var out responses.HistoryResponse
			require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &out))
			assert.Equal(t, tt.want, out.Count)
		})
	}
}

func TestList_InvalidSince(t *testing.T) {
	api := newHistoryAPI(t, seededStore())

	resp := api.Get("/history?since=later")
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestTrend(t *testing.T) {
	api := newHistoryAPI(t, seededStore())

	resp := api.Get("/history/trend?domain=adidas.com")
	require.Equal(t, http.StatusOK, resp.Code)

	var out responses.TrendResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &out))
	require.Len(t, out.Points, 2)
	assert.Equal(t, responses.TrendPoint{Date: "2024-05-01", Domain: "adidas.com", Position: 2}, out.Points[0])
	assert.Equal(t, responses.TrendPoint{Date: "2024-05-02", Domain: "adidas.com", Position: 1}, out.Points[1])
}

func TestTop(t *testing.T) {
	api := newHistoryAPI(t, seededStore())

	resp := api.Get("/top?n=1")
	require.Equal(t, http.StatusOK, resp.Code)
	var out responses.TopResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &out))
	assert.Equal(t, []responses.DomainCount{{Domain: "adidas.com", Count: 2}}, out.Domains)

	resp = api.Get("/top?advertisers=true")
	require.Equal(t, http.StatusOK, resp.Code)
	out = responses.TopResponse{}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &out))
	assert.True(t, out.Advertisers)
	// adidas.com and nike.com tie at 2, alphabetical
	assert.Equal(t, []responses.DomainCount{{Domain: "adidas.com", Count: 2}, {Domain: "nike.com", Count: 2}}, out.Domains)
}

func TestExport_CSV(t *testing.T) {
	api := newHistoryAPI(t, seededStore())

	resp := api.Get("/export?format=csv")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Header().Get("Content-Type"), "text/csv")
	assert.Contains(t, resp.Header().Get("Content-Disposition"), "ad_rankings.csv")

	rows, err := csv.NewReader(strings.NewReader(resp.Body.String())).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 6)
	assert.Equal(t, export.Header, rows[0])
	assert.Equal(t, "error", rows[3][1])
}

func TestExport_XLSXDefault(t *testing.T) {
	api := newHistoryAPI(t, seededStore())

	resp := api.Get("/export?include_errors=false")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Header().Get("Content-Disposition"), "ad_rankings.xlsx")

	records, err := export.ReadXLSX(resp.Body)
	require.NoError(t, err)
	assert.Len(t, records, 4)
}

func TestExport_UnknownFormat(t *testing.T) {
	api := newHistoryAPI(t, seededStore())

	resp := api.Get("/export?format=json")
	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
}
