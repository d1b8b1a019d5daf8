// ABOUTME: Tracking handler runs the aggregator for a keyword list over HTTP
// ABOUTME: Appends each run to history and returns records, top domains and a summary

package handlers

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"adtracker/api/dto/mappers"
	"adtracker/api/dto/requests"
	"adtracker/api/dto/responses"
	coreerrors "adtracker/core/errors"
	"adtracker/core/interfaces"
)

// defaultTopDomains is how many domains a run response summarises
const defaultTopDomains = 10

// TrackHandler handles run requests
type TrackHandler struct {
	aggregator interfaces.Aggregator
	store      interfaces.HistoryStore
	apiKey     string
	now        func() time.Time

	// appends are serialised so concurrent requests cannot interleave a CSV rewrite
	mu sync.Mutex
}

// NewTrackHandler creates a new track handler. apiKey is used when a request
// does not carry its own.
func NewTrackHandler(aggregator interfaces.Aggregator, store interfaces.HistoryStore, apiKey string) *TrackHandler {
	return &TrackHandler{
		aggregator: aggregator,
		store:      store,
		apiKey:     apiKey,
		now:        time.Now,
	}
}

// RegisterRoutes registers the tracking route
func (h *TrackHandler) RegisterRoutes(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "track",
		Method:      http.MethodPost,
		Path:        "/track",
		Summary:     "Track ad rankings for keywords",
		Description: "Fetches the paid ads for each keyword, records the run in history and returns the ranked ads. A keyword whose fetch fails appears as a single record with a null position.",
		Tags:        []string{"Tracking"},
	}, h.Track)
}

// TrackInput defines the input for the Track operation
type TrackInput struct {
	Body requests.TrackRequest
}

// TrackOutput defines the output for the Track operation
type TrackOutput struct {
	Body responses.TrackResponse
}

// Track handles POST /track
func (h *TrackHandler) Track(ctx context.Context, input *TrackInput) (*TrackOutput, error) {
	input.Body.ApplyDefaults()

	asOf, err := input.Body.CheckedAt(h.now())
	if err != nil {
		return nil, toHumaError(err)
	}

	apiKey := input.Body.APIKey
	if apiKey == "" {
		apiKey = h.apiKey
	}

	keywords := input.Body.KeywordList()
	if len(keywords) > 0 && apiKey == "" {
		return nil, toHumaError(&coreerrors.ValidationError{Field: "api_key", Message: "no SerpApi key configured or supplied"})
	}

	rs := h.aggregator.Run(ctx, keywords, apiKey, asOf, nil)

	saved := false
	if *input.Body.Save && len(keywords) > 0 {
		h.mu.Lock()
		err := h.store.Append(context.WithoutCancel(ctx), rs)
		h.mu.Unlock()
		if err != nil {
			return nil, toHumaError(err)
		}
		saved = true
	}

	return &TrackOutput{Body: mappers.ToTrackResponse(rs, saved, defaultTopDomains)}, nil
}
