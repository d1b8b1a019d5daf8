// ABOUTME: Report queries over ad records for trend views and top advertiser summaries
// ABOUTME: Drops error sentinels and aggregates ranks per domain and date

package report

import (
	"sort"
	"strings"
	"time"

	"golang.org/x/net/publicsuffix"

	"adtracker/core/domain"
)

// DomainCount is how often a domain appeared among ranked ads
type DomainCount struct {
	Domain string
	Count  int
}

// BestPosition is the best (lowest) rank a domain held on a date
type BestPosition struct {
	Date     time.Time
	Domain   string
	Position domain.Position
}

// Ranked returns the records that are real ads, dropping error sentinels
func Ranked(records []domain.AdRecord) []domain.AdRecord {
	out := make([]domain.AdRecord, 0, len(records))
	for _, r := range records {
		if !r.IsError() {
			out = append(out, r)
		}
	}
	return out
}

// FilterKeyword keeps records for keyword, compared case-insensitively
func FilterKeyword(records []domain.AdRecord, keyword string) []domain.AdRecord {
	want := domain.FoldKeyword(strings.TrimSpace(keyword))
	return filter(records, func(r domain.AdRecord) bool {
		return domain.FoldKeyword(r.Keyword) == want
	})
}

// FilterDomain keeps records whose domain equals d or is a subdomain of it
func FilterDomain(records []domain.AdRecord, d string) []domain.AdRecord {
	d = strings.ToLower(strings.TrimSpace(d))
	return filter(records, func(r domain.AdRecord) bool {
		return r.Domain == d || strings.HasSuffix(r.Domain, "."+d)
	})
}

// FilterSince keeps records checked on or after the day of since
func FilterSince(records []domain.AdRecord, since time.Time) []domain.AdRecord {
	day := domain.Day(since)
	return filter(records, func(r domain.AdRecord) bool {
		return !r.CheckedAt.Before(day)
	})
}

func filter(records []domain.AdRecord, keep func(domain.AdRecord) bool) []domain.AdRecord {
	out := make([]domain.AdRecord, 0)
	for _, r := range records {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out
}

// BestPositions returns the best rank per (domain, date), ordered by date then domain
func BestPositions(records []domain.AdRecord) []BestPosition {
	type key struct {
		day    time.Time
		domain string
	}
	best := make(map[key]domain.Position)
	for _, r := range Ranked(records) {
		if r.Domain == "" {
			continue
		}
		k := key{day: domain.Day(r.CheckedAt), domain: r.Domain}
		if p, ok := best[k]; !ok || r.Position < p {
			best[k] = r.Position
		}
	}

	out := make([]BestPosition, 0, len(best))
	for k, p := range best {
		out = append(out, BestPosition{Date: k.day, Domain: k.domain, Position: p})
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].Domain < out[j].Domain
	})
	return out
}

// TopDomains counts ranked ads per domain and returns the n most frequent,
// ties broken alphabetically. n <= 0 returns all.
func TopDomains(records []domain.AdRecord, n int) []DomainCount {
	return top(records, n, func(d string) string { return d })
}

// TopAdvertisers is TopDomains grouped by registrable domain, so
// www.nike.com and store.nike.com count as nike.com
func TopAdvertisers(records []domain.AdRecord, n int) []DomainCount {
	return top(records, n, RegistrableDomain)
}

// RegistrableDomain returns the eTLD+1 of host, or host itself when it has none
func RegistrableDomain(host string) string {
	if d, err := publicsuffix.EffectiveTLDPlusOne(host); err == nil {
		return d
	}
	return host
}

func top(records []domain.AdRecord, n int, group func(string) string) []DomainCount {
	counts := make(map[string]int)
	for _, r := range Ranked(records) {
		if r.Domain == "" {
			continue
		}
		counts[group(r.Domain)]++
	}

	out := make([]DomainCount, 0, len(counts))
	for d, c := range counts {
		out = append(out, DomainCount{Domain: d, Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Domain < out[j].Domain
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}
