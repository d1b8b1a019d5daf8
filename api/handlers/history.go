// ABOUTME: History handlers expose recorded runs, rank trends, top domains and exports
// ABOUTME: All endpoints share keyword, domain and date filters

package handlers

import (
	"bytes"
	"context"
	"fmt"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"adtracker/api/dto/mappers"
	"adtracker/api/dto/responses"
	"adtracker/core/domain"
	coreerrors "adtracker/core/errors"
	"adtracker/core/export"
	"adtracker/core/interfaces"
	"adtracker/core/report"
	timeutil "adtracker/pkg/utils/time"
)

// HistoryHandler serves read-only history queries
type HistoryHandler struct {
	store interfaces.HistoryStore
}

// NewHistoryHandler creates a new history handler
func NewHistoryHandler(store interfaces.HistoryStore) *HistoryHandler {
	return &HistoryHandler{store: store}
}

// RegisterRoutes registers all history routes
func (h *HistoryHandler) RegisterRoutes(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "listHistory",
		Method:      http.MethodGet,
		Path:        "/history",
		Summary:     "List recorded ads",
		Tags:        []string{"History"},
	}, h.List)

	huma.Register(api, huma.Operation{
		OperationID: "rankTrend",
		Method:      http.MethodGet,
		Path:        "/history/trend",
		Summary:     "Best position per domain and day",
		Tags:        []string{"History"},
	}, h.Trend)

	huma.Register(api, huma.Operation{
		OperationID: "topDomains",
		Method:      http.MethodGet,
		Path:        "/top",
		Summary:     "Most frequent advertiser domains",
		Tags:        []string{"History"},
	}, h.Top)

	huma.Register(api, huma.Operation{
		OperationID: "exportHistory",
		Method:      http.MethodGet,
		Path:        "/export",
		Summary:     "Download history as a spreadsheet",
		Tags:        []string{"History"},
	}, h.Export)
}

// HistoryFilter holds the query parameters shared by every history endpoint
type HistoryFilter struct {
	Keyword string `query:"keyword" doc:"Only records for this keyword (case-insensitive)"`
	Domain  string `query:"domain" doc:"Only records for this domain or its subdomains"`
	Since   string `query:"since" doc:"Only records checked on or after this date" example:"2024-05-01"`
}

func (f HistoryFilter) query() (domain.HistoryQuery, error) {
	q := domain.HistoryQuery{Keyword: f.Keyword, Domain: f.Domain}
	if f.Since != "" {
		since, ok := timeutil.ParseDate(f.Since)
		if !ok {
			return q, &coreerrors.ValidationError{Field: "since", Message: fmt.Sprintf("cannot parse %q", f.Since)}
		}
		q.Since = since
	}
	return q, nil
}

func (h *HistoryHandler) load(ctx context.Context, f HistoryFilter, includeErrors bool) ([]domain.AdRecord, error) {
	q, err := f.query()
	if err != nil {
		return nil, toHumaError(err)
	}
	records, err := report.Load(ctx, h.store, q)
	if err != nil {
		return nil, toHumaError(err)
	}
	if !includeErrors {
		records = report.Ranked(records)
	}
	return records, nil
}

// ListInput defines the input for the List operation
type ListInput struct {
	HistoryFilter
	IncludeErrors bool `query:"include_errors" doc:"Include failed fetches"`
}

// ListOutput defines the output for the List operation
type ListOutput struct {
	Body responses.HistoryResponse
}

// List handles GET /history
func (h *HistoryHandler) List(ctx context.Context, input *ListInput) (*ListOutput, error) {
	records, err := h.load(ctx, input.HistoryFilter, input.IncludeErrors)
	if err != nil {
		return nil, err
	}
	return &ListOutput{Body: responses.HistoryResponse{
		Count:   len(records),
		Records: mappers.ToAdRecords(records),
	}}, nil
}

// TrendInput defines the input for the Trend operation
type TrendInput struct {
	HistoryFilter
}

// TrendOutput defines the output for the Trend operation
type TrendOutput struct {
	Body responses.TrendResponse
}

// Trend handles GET /history/trend
func (h *HistoryHandler) Trend(ctx context.Context, input *TrendInput) (*TrendOutput, error) {
	records, err := h.load(ctx, input.HistoryFilter, false)
	if err != nil {
		return nil, err
	}
	return &TrendOutput{Body: responses.TrendResponse{
		Points: mappers.ToTrendPoints(report.BestPositions(records)),
	}}, nil
}

// TopInput defines the input for the Top operation
type TopInput struct {
	HistoryFilter
	N           int  `query:"n" default:"10" minimum:"0" maximum:"1000" doc:"Number of domains; 0 for all"`
	Advertisers bool `query:"advertisers" doc:"Group subdomains under their registrable domain"`
}

// TopOutput defines the output for the Top operation
type TopOutput struct {
	Body responses.TopResponse
}

// Top handles GET /top
func (h *HistoryHandler) Top(ctx context.Context, input *TopInput) (*TopOutput, error) {
	records, err := h.load(ctx, input.HistoryFilter, false)
	if err != nil {
		return nil, err
	}

	counts := report.TopDomains(records, input.N)
	if input.Advertisers {
		counts = report.TopAdvertisers(records, input.N)
	}
	return &TopOutput{Body: responses.TopResponse{
		Domains:     mappers.ToDomainCounts(counts),
		Advertisers: input.Advertisers,
	}}, nil
}

// ExportInput defines the input for the Export operation
type ExportInput struct {
	HistoryFilter
	Format        string `query:"format" enum:"xlsx,csv" default:"xlsx" doc:"File format"`
	IncludeErrors bool   `query:"include_errors" default:"true" doc:"Include failed fetches"`
}

// ExportOutput is a file download
type ExportOutput struct {
	ContentType        string `header:"Content-Type"`
	ContentDisposition string `header:"Content-Disposition"`
	Body               []byte
}

var exportContentTypes = map[export.Format]string{
	export.FormatXLSX: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	export.FormatCSV:  "text/csv; charset=utf-8",
}

// Export handles GET /export
func (h *HistoryHandler) Export(ctx context.Context, input *ExportInput) (*ExportOutput, error) {
	format := export.Format(input.Format)
	if format == "" {
		format = export.FormatXLSX
	}

	records, err := h.load(ctx, input.HistoryFilter, input.IncludeErrors)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := export.Write(&buf, format, records); err != nil {
		return nil, toHumaError(err)
	}

	return &ExportOutput{
		ContentType:        exportContentTypes[format],
		ContentDisposition: fmt.Sprintf(`attachment; filename="ad_rankings.%s"`, format),
		Body:               buf.Bytes(),
	}, nil
}
