// Package core contains the business logic for the ad tracker.
// It is framework-agnostic and can be used without the CLI or HTTP layers.
//
// The core package is organized into several sub-packages:
//
//   - domain: ad records, positions, result sets and history
//   - keywords: keyword lists from text, CSV or spreadsheet input
//   - search: the ad fetcher for a SerpApi-compatible search API
//   - tracker: the aggregator that runs the fetcher over a keyword list
//   - workers: bounded pool for parallel keyword fetches
//   - export: CSV and XLSX codec for history files and downloads
//   - report: trend and top-domain queries over history
//   - errors: typed errors for input and fetch failures
//   - interfaces: contracts for cache, HTTP, logger, metrics and storage
//
// # Design Principles
//
// The core package follows clean architecture principles:
//   - External dependencies are injected via interfaces
//   - A failed keyword becomes a record, never an aborted batch
//   - Domain models are free from persistence concerns
//
// # Usage Example
//
//	deps := interfaces.Dependencies{
//	    Cache:      myCache,      // implements interfaces.Cache, may be nil
//	    HTTPClient: myHTTPClient, // implements interfaces.HTTPClient
//	    Logger:     myLogger,     // implements interfaces.Logger
//	}
//
//	fetcher := search.NewAdService(deps, search.DefaultOptions())
//	svc := tracker.NewService(fetcher, deps, tracker.Options{})
//
//	rs := svc.Run(ctx, []string{"running shoes"}, apiKey, time.Now(), nil)
//	for _, d := range report.TopDomains(rs.Records, 5) {
//	    fmt.Println(d.Domain, d.Count)
//	}
package core
