// ABOUTME: Ad service fetches paid search listings for one keyword from a SerpApi-compatible API
// ABOUTME: Maps the ads list to records and turns every failure into a single sentinel record

package search

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"adtracker/core/domain"
	coreerrors "adtracker/core/errors"
	"adtracker/core/interfaces"
	"adtracker/pkg/featureflags"
)

// PositionPolicy decides how an ad's rank is derived
type PositionPolicy int

const (
	// PositionIndex numbers ads 1..n in the order the API lists them
	PositionIndex PositionPolicy = iota
	// PositionAPI uses the API's own position field, falling back to the index
	PositionAPI
)

// ParsePositionPolicy maps "index" or "api" to a policy
func ParsePositionPolicy(s string) (PositionPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "index":
		return PositionIndex, nil
	case "api":
		return PositionAPI, nil
	default:
		return PositionIndex, &coreerrors.ValidationError{
			Field:   "position_policy",
			Message: fmt.Sprintf("unknown policy %q (use 'index' or 'api')", s),
		}
	}
}

const (
	// DefaultEndpoint is the SerpApi search URL
	DefaultEndpoint = "https://serpapi.com/search"

	// DefaultCacheTTL is how long a keyword's ads are reused within a day
	DefaultCacheTTL = 24 * time.Hour

	apiName      = "serpapi"
	maxBodyBytes = 10 << 20
)

// Options configures the search request and result mapping
type Options struct {
	Endpoint     string
	Engine       string
	Country      string
	Language     string
	GoogleDomain string
	Policy       PositionPolicy
	CacheTTL     time.Duration
}

// DefaultOptions returns the parameters the tracker has always used
func DefaultOptions() Options {
	return Options{
		Endpoint:     DefaultEndpoint,
		Engine:       "google",
		Country:      "us",
		Language:     "en",
		GoogleDomain: "google.com",
		Policy:       PositionIndex,
		CacheTTL:     DefaultCacheTTL,
	}
}

// AdService implements interfaces.AdFetcher
type AdService struct {
	deps interfaces.Dependencies
	opts Options
}

// NewAdService creates a new ad service. Empty options fall back to defaults.
func NewAdService(deps interfaces.Dependencies, opts Options) *AdService {
	def := DefaultOptions()
	if opts.Endpoint == "" {
		opts.Endpoint = def.Endpoint
	}
	if opts.Engine == "" {
		opts.Engine = def.Engine
	}
	if opts.Country == "" {
		opts.Country = def.Country
	}
	if opts.Language == "" {
		opts.Language = def.Language
	}
	if opts.GoogleDomain == "" {
		opts.GoogleDomain = def.GoogleDomain
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = def.CacheTTL
	}
	return &AdService{deps: deps, opts: opts}
}

// serpResponse is the subset of the search API payload the tracker reads
type serpResponse struct {
	Error string   `json:"error"`
	Ads   []serpAd `json:"ads"`
}

type serpAd struct {
	Position      *float64 `json:"position"`
	Title         string   `json:"title"`
	Link          string   `json:"link"`
	DisplayedLink string   `json:"displayed_link"`
}

// FetchAds returns the ads shown for keyword on the asOf day. It never fails:
// a problem of any kind becomes one record carrying ErrorPosition and the
// failure message as its title.
func (s *AdService) FetchAds(ctx context.Context, keyword, credential string, asOf time.Time) []domain.AdRecord {
	start := time.Now()
	checkedAt := domain.Day(asOf)

	records, outcome, err := s.fetch(ctx, keyword, credential, checkedAt)
	if err != nil {
		failure := &coreerrors.FetchFailureError{Keyword: keyword, Err: err}
		s.log().Warn("Ad fetch failed", map[string]interface{}{
			"keyword": keyword,
			"error":   err.Error(),
		})
		s.observe(interfaces.OutcomeError, time.Since(start), 0)
		return []domain.AdRecord{domain.NewErrorRecord(keyword, failure.Error(), checkedAt)}
	}

	s.log().Debug("Fetched ads", map[string]interface{}{
		"keyword": keyword,
		"ads":     len(records),
		"outcome": outcome,
	})
	s.observe(outcome, time.Since(start), len(records))
	return records
}

func (s *AdService) fetch(ctx context.Context, keyword, credential string, checkedAt time.Time) ([]domain.AdRecord, string, error) {
	if strings.TrimSpace(credential) == "" {
		return nil, "", &coreerrors.ValidationError{Field: "api_key", Message: "a SerpApi key is required"}
	}
	if strings.TrimSpace(keyword) == "" {
		return nil, "", &coreerrors.ValidationError{Field: "keyword", Message: "keyword cannot be empty"}
	}

	useCache := s.deps.Cache != nil && featureflags.Enabled(ctx, s.deps.Flags, featureflags.ResponseCache)
	cacheKey := s.CacheKey(keyword, checkedAt)
	if useCache {
		if data, err := s.deps.Cache.Get(ctx, cacheKey); err == nil && data != nil {
			var cached []domain.AdRecord
			if err := json.Unmarshal(data, &cached); err == nil {
				return cached, interfaces.OutcomeCached, nil
			}
		}
	}

	if s.deps.HTTPClient == nil {
		return nil, "", errors.New("HTTP client not configured")
	}

	requestURL, err := s.requestURL(keyword, credential)
	if err != nil {
		return nil, "", err
	}

	resp, err := s.deps.HTTPClient.Get(ctx, requestURL)
	if err != nil {
		return nil, "", fmt.Errorf("search request failed: %s", redact(err.Error(), credential))
	}
	defer resp.Body().Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body(), maxBodyBytes))
	if err != nil {
		return nil, "", fmt.Errorf("failed to read response: %w", err)
	}

	var payload serpResponse
	decodeErr := json.Unmarshal(body, &payload)

	if resp.StatusCode() != http.StatusOK {
		message := http.StatusText(resp.StatusCode())
		if decodeErr == nil && payload.Error != "" {
			message = payload.Error
		}
		return nil, "", &coreerrors.ExternalAPIError{StatusCode: resp.StatusCode(), Message: message, API: apiName}
	}
	if decodeErr != nil {
		return nil, "", fmt.Errorf("failed to parse search results: %w", decodeErr)
	}

	var records []domain.AdRecord
	switch {
	case payload.Error != "" && isNoResults(payload.Error):
		records = []domain.AdRecord{}
	case payload.Error != "":
		return nil, "", &coreerrors.ExternalAPIError{StatusCode: resp.StatusCode(), Message: payload.Error, API: apiName}
	default:
		records = s.mapAds(keyword, payload.Ads, checkedAt)
	}

	if useCache {
		if data, err := json.Marshal(records); err == nil {
			if err := s.deps.Cache.Set(ctx, cacheKey, data, s.opts.CacheTTL); err != nil {
				s.log().Debug("Failed to cache ads", map[string]interface{}{
					"key":   cacheKey,
					"error": err.Error(),
				})
			}
		}
	}

	if len(records) == 0 {
		return records, interfaces.OutcomeEmpty, nil
	}
	return records, interfaces.OutcomeSuccess, nil
}

// mapAds converts API ads to records in API order
func (s *AdService) mapAds(keyword string, ads []serpAd, checkedAt time.Time) []domain.AdRecord {
	records := make([]domain.AdRecord, 0, len(ads))
	for i, ad := range ads {
		position := domain.Position(i + 1)
		if s.opts.Policy == PositionAPI && ad.Position != nil && *ad.Position >= 1 {
			position = domain.Position(int(*ad.Position))
		}

		link := domain.CleanText(ad.Link)
		if link == "" {
			link = domain.CleanText(ad.DisplayedLink)
		}

		records = append(records, domain.AdRecord{
			Keyword:   keyword,
			Position:  position,
			Title:     domain.CleanText(ad.Title),
			Link:      link,
			Domain:    domain.ExtractDomain(link),
			CheckedAt: checkedAt,
		})
	}
	return records
}

func (s *AdService) requestURL(keyword, credential string) (string, error) {
	u, err := url.Parse(s.opts.Endpoint)
	if err != nil {
		return "", fmt.Errorf("invalid search endpoint %q: %w", s.opts.Endpoint, err)
	}
	q := u.Query()
	q.Set("engine", s.opts.Engine)
	q.Set("q", keyword)
	q.Set("api_key", credential)
	q.Set("gl", s.opts.Country)
	q.Set("hl", s.opts.Language)
	q.Set("google_domain", s.opts.GoogleDomain)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// CacheKey is the cache entry for a keyword's ads on a given day. Every
// request parameter except the credential is part of the key.
func (s *AdService) CacheKey(keyword string, checkedAt time.Time) string {
	return fmt.Sprintf("serp:ads:%s:%s:%s:%s:%s:%s:%s", s.opts.Endpoint, s.opts.Engine, s.opts.GoogleDomain,
		s.opts.Country, s.opts.Language, checkedAt.Format(domain.DateLayout), keyword)
}

func (s *AdService) log() interfaces.Logger {
	if s.deps.Logger == nil {
		return nopLogger{}
	}
	return s.deps.Logger
}

func (s *AdService) observe(outcome string, d time.Duration, ads int) {
	if s.deps.Metrics != nil {
		s.deps.Metrics.ObserveFetch(outcome, d, ads)
	}
}

// isNoResults reports whether an API error message means "zero results"
func isNoResults(message string) bool {
	m := strings.ToLower(message)
	return strings.Contains(m, "hasn't returned any results") ||
		strings.Contains(m, "has not returned any results") ||
		strings.Contains(m, "no results")
}

// redact keeps the credential out of error text; transport errors quote the URL
func redact(s, secret string) string {
	if secret == "" {
		return s
	}
	s = strings.ReplaceAll(s, url.QueryEscape(secret), "REDACTED")
	return strings.ReplaceAll(s, secret, "REDACTED")
}

type nopLogger struct{}

func (nopLogger) Debug(string, map[string]interface{}) {}
func (nopLogger) Info(string, map[string]interface{})  {}
func (nopLogger) Warn(string, map[string]interface{})  {}
func (nopLogger) Error(string, map[string]interface{}) {}
