package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"adtracker/api/dto/responses"
	"adtracker/core/domain"
)

func newTrackAPI(t *testing.T, agg *mockAggregator, store *mockStore, apiKey string) humatest.TestAPI {
	t.Helper()
	_, api := humatest.New(t)
	h := NewTrackHandler(agg, store, apiKey)
	h.now = func() time.Time { return time.Date(2024, 5, 3, 15, 0, 0, 0, time.UTC) }
	h.RegisterRoutes(api)
	return api
}

func decodeTrack(t *testing.T, body []byte) responses.TrackResponse {
	t.Helper()
	var out responses.TrackResponse
	require.NoError(t, json.Unmarshal(body, &out))
	return out
}

func TestTrackHandler_RegisterRoutes(t *testing.T) {
	_, api := humatest.New(t)
	NewTrackHandler(&mockAggregator{}, &mockStore{}, "").RegisterRoutes(api)

	path := api.OpenAPI().Paths["/track"]
	require.NotNil(t, path)
	assert.NotNil(t, path.Post)
}

func TestTrack_RunsAndSaves(t *testing.T) {
	agg := &mockAggregator{}
	store := &mockStore{}
	api := newTrackAPI(t, agg, store, "server-key")

	resp := api.Post("/track", map[string]any{"keywords": []string{"shoes"}, "text": "boots, shoes"})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	out := decodeTrack(t, resp.Body.Bytes())
	assert.True(t, out.Saved)
	assert.Equal(t, "2024-05-03", out.CheckedAt)
	assert.Len(t, out.Records, 4)
	assert.Equal(t, "shoes", out.Records[0].Keyword)
	assert.Equal(t, "boots", out.Records[2].Keyword)
	require.NotNil(t, out.Records[1].Position)
	assert.Equal(t, 2, *out.Records[1].Position)
	assert.Equal(t, "adidas.com", out.TopDomains[0].Domain)

	assert.Equal(t, "server-key", agg.credential)
	assert.Equal(t, 1, store.appends)
	assert.Len(t, store.records, 4)
}

func TestTrack_RequestKeyOverridesServerKey(t *testing.T) {
	agg := &mockAggregator{}
	api := newTrackAPI(t, agg, &mockStore{}, "server-key")

	resp := api.Post("/track", map[string]any{"text": "shoes", "api_key": "mine"})
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "mine", agg.credential)
}

func TestTrack_NoSave(t *testing.T) {
	store := &mockStore{}
	api := newTrackAPI(t, &mockAggregator{}, store, "k")

	resp := api.Post("/track", map[string]any{"text": "shoes", "save": false})
	require.Equal(t, http.StatusOK, resp.Code)
	assert.False(t, decodeTrack(t, resp.Body.Bytes()).Saved)
	assert.Equal(t, 0, store.appends)
}

func TestTrack_FailedKeywordIsNullPosition(t *testing.T) {
	agg := &mockAggregator{runFunc: func(ctx context.Context, keywords []string, credential string, asOf time.Time) domain.ResultSet {
		rs := domain.NewResultSet(asOf)
		rs.Records = append(rs.Records, domain.NewErrorRecord(keywords[0], "failed to fetch ads", asOf))
		return rs
	}}
	api := newTrackAPI(t, agg, &mockStore{}, "k")

	resp := api.Post("/track", map[string]any{"text": "socks"})
	require.Equal(t, http.StatusOK, resp.Code)

	out := decodeTrack(t, resp.Body.Bytes())
	require.Len(t, out.Records, 1)
	assert.Nil(t, out.Records[0].Position)
	assert.True(t, out.Records[0].Error)
	assert.Equal(t, []string{"socks"}, out.Summary.FailedKeywords)
	assert.True(t, out.Summary.Empty)
}

func TestTrack_EmptyKeywordList(t *testing.T) {
	agg := &mockAggregator{}
	store := &mockStore{}
	api := newTrackAPI(t, agg, store, "")

	resp := api.Post("/track", map[string]any{"text": " , "})
	require.Equal(t, http.StatusOK, resp.Code)

	out := decodeTrack(t, resp.Body.Bytes())
	assert.Empty(t, out.Records)
	assert.True(t, out.Summary.Empty)
	assert.Equal(t, "No ads found for the entered keywords.", out.Summary.Message)
	assert.False(t, out.Saved)
	assert.Equal(t, 0, store.appends)
}

func TestTrack_MissingAPIKey(t *testing.T) {
	agg := &mockAggregator{}
	api := newTrackAPI(t, agg, &mockStore{}, "")

	resp := api.Post("/track", map[string]any{"text": "shoes"})
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Equal(t, 0, agg.calls)
}

func TestTrack_InvalidDate(t *testing.T) {
	agg := &mockAggregator{}
	api := newTrackAPI(t, agg, &mockStore{}, "k")

	resp := api.Post("/track", map[string]any{"text": "shoes", "date": "someday"})
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Equal(t, 0, agg.calls)
}

func TestTrack_ExplicitDate(t *testing.T) {
	api := newTrackAPI(t, &mockAggregator{}, &mockStore{}, "k")

	resp := api.Post("/track", map[string]any{"text": "shoes", "date": "2024-04-30"})
	require.Equal(t, http.StatusOK, resp.Code)
	out := decodeTrack(t, resp.Body.Bytes())
	assert.Equal(t, "2024-04-30", out.CheckedAt)
	assert.Equal(t, "2024-04-30", out.Records[0].CheckedAt)
}

func TestTrack_StoreFailure(t *testing.T) {
	api := newTrackAPI(t, &mockAggregator{}, &mockStore{appendErr: errDiskFull}, "k")

	resp := api.Post("/track", map[string]any{"text": "shoes"})
	assert.Equal(t, http.StatusInternalServerError, resp.Code)
}
