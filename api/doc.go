// Package api provides the HTTP API layer for the ad tracker.
// It uses the Huma framework on a chi router for OpenAPI documentation,
// request validation and a typed handler interface.
//
// # Architecture
//
//   - server.go: Huma API configuration, CORS and middleware setup
//   - handlers/: track, history, trend, top and export endpoints
//   - dto/: request and response bodies and the mappers between them and the domain
//   - middleware/: request logging and per-client rate limiting
//
// # Endpoints
//
//	POST /track           run the tracker for a keyword list and record the run
//	GET  /history         recorded ads, filterable by keyword, domain and date
//	GET  /history/trend   best position per domain and date
//	GET  /top             most frequent advertiser domains
//	GET  /export          history as an .xlsx or .csv download
//
// The OpenAPI document is served at /openapi.json and interactive docs at /docs.
package api
