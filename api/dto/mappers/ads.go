// ABOUTME: Mappers convert domain records and reports into response DTOs
// ABOUTME: Keeps JSON shapes out of the core packages

package mappers

import (
	"adtracker/api/dto/responses"
	"adtracker/core/domain"
	"adtracker/core/report"
	"adtracker/core/tracker"
)

// NoAdsMessage is returned with a run that found no ads at all
const NoAdsMessage = "No ads found for the entered keywords."

// ToAdRecord converts one record
func ToAdRecord(r domain.AdRecord) responses.AdRecord {
	out := responses.AdRecord{
		Keyword: r.Keyword,
		Title:   r.Title,
		Link:    r.Link,
		Domain:  r.Domain,
		Error:   r.IsError(),
	}
	if !r.IsError() {
		p := int(r.Position)
		out.Position = &p
	}
	if !r.CheckedAt.IsZero() {
		out.CheckedAt = r.CheckedAt.Format(domain.DateLayout)
	}
	return out
}

// ToAdRecords converts records, never returning nil
func ToAdRecords(records []domain.AdRecord) []responses.AdRecord {
	out := make([]responses.AdRecord, 0, len(records))
	for _, r := range records {
		out = append(out, ToAdRecord(r))
	}
	return out
}

// ToDomainCounts converts report counts, never returning nil
func ToDomainCounts(counts []report.DomainCount) []responses.DomainCount {
	out := make([]responses.DomainCount, 0, len(counts))
	for _, c := range counts {
		out = append(out, responses.DomainCount{Domain: c.Domain, Count: c.Count})
	}
	return out
}

// ToTrendPoints converts best positions, never returning nil
func ToTrendPoints(best []report.BestPosition) []responses.TrendPoint {
	out := make([]responses.TrendPoint, 0, len(best))
	for _, b := range best {
		out = append(out, responses.TrendPoint{
			Date:     b.Date.Format(domain.DateLayout),
			Domain:   b.Domain,
			Position: int(b.Position),
		})
	}
	return out
}

// ToRunSummary converts a run summary
func ToRunSummary(s tracker.Summary) responses.RunSummary {
	out := responses.RunSummary{
		Ads:            s.Ads,
		Failures:       s.Failures,
		FailedKeywords: s.FailedKeywords,
		Empty:          s.Empty,
	}
	if out.FailedKeywords == nil {
		out.FailedKeywords = []string{}
	}
	if s.Empty {
		out.Message = NoAdsMessage
	}
	return out
}

// ToTrackResponse converts a finished run
func ToTrackResponse(rs domain.ResultSet, saved bool, topN int) responses.TrackResponse {
	return responses.TrackResponse{
		RunID:      rs.RunID.String(),
		CheckedAt:  rs.CheckedAt.Format(domain.DateLayout),
		Saved:      saved,
		Records:    ToAdRecords(rs.Records),
		TopDomains: ToDomainCounts(report.TopDomains(rs.Records, topN)),
		Summary:    ToRunSummary(tracker.Summarize(rs)),
	}
}
