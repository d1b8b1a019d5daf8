// ABOUTME: Response DTOs for tracking, history and report endpoints
// ABOUTME: Positions are numbers with null marking a failed fetch

package responses

// AdRecord is one observed ad, or a failed fetch when Error is set
type AdRecord struct {
	Keyword   string `json:"keyword"`
	Position  *int   `json:"position" doc:"1-based rank; null for a failed fetch"`
	Title     string `json:"title"`
	Link      string `json:"link,omitempty"`
	Domain    string `json:"domain,omitempty"`
	CheckedAt string `json:"checked_at" format:"date"`
	Error     bool   `json:"error,omitempty"`
}

// DomainCount is how often a domain appeared among ranked ads
type DomainCount struct {
	Domain string `json:"domain"`
	Count  int    `json:"count"`
}

// RunSummary counts what a run produced
type RunSummary struct {
	Ads            int      `json:"ads"`
	Failures       int      `json:"failures"`
	FailedKeywords []string `json:"failed_keywords"`
	Empty          bool     `json:"empty" doc:"No ads were found for any keyword"`
	Message        string   `json:"message,omitempty"`
}

// TrackResponse is the result of POST /track
type TrackResponse struct {
	RunID      string        `json:"run_id"`
	CheckedAt  string        `json:"checked_at" format:"date"`
	Saved      bool          `json:"saved"`
	Records    []AdRecord    `json:"records"`
	TopDomains []DomainCount `json:"top_domains"`
	Summary    RunSummary    `json:"summary"`
}

// HistoryResponse lists recorded ads
type HistoryResponse struct {
	Count   int        `json:"count"`
	Records []AdRecord `json:"records"`
}

// TrendPoint is the best rank a domain held on one day
type TrendPoint struct {
	Date     string `json:"date" format:"date"`
	Domain   string `json:"domain"`
	Position int    `json:"position"`
}

// TrendResponse lists best positions per domain and day
type TrendResponse struct {
	Points []TrendPoint `json:"points"`
}

// TopResponse lists the most frequent domains
type TopResponse struct {
	Domains     []DomainCount `json:"domains"`
	Advertisers bool          `json:"advertisers" doc:"Subdomains grouped under their registrable domain"`
}
