package tracker

import "adtracker/core/domain"

// Summary counts what a run produced
type Summary struct {
	Records        int
	Ads            int
	Failures       int
	FailedKeywords []string

	// Empty is set when the run found no ads at all; callers show it as an
	// informational state rather than an error
	Empty bool
}

// Summarize computes the summary of a result set
func Summarize(rs domain.ResultSet) Summary {
	sum := Summary{Records: rs.Len()}
	seen := make(map[string]bool)
	for _, r := range rs.Records {
		if r.IsError() {
			sum.Failures++
			if !seen[r.Keyword] {
				seen[r.Keyword] = true
				sum.FailedKeywords = append(sum.FailedKeywords, r.Keyword)
			}
			continue
		}
		sum.Ads++
	}
	sum.Empty = sum.Ads == 0
	return sum
}
