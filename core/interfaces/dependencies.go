// ABOUTME: Dependencies container provides dependency injection for core services
// ABOUTME: Defines the contract for dependencies required by the ad tracking core

package interfaces

import "adtracker/pkg/featureflags"

// Dependencies holds all external dependencies required by the core business logic
type Dependencies struct {
	// Cache stores fetched ad results; nil disables caching
	Cache Cache

	// HTTPClient performs search API requests
	HTTPClient HTTPClient

	// Logger provides structured logging
	Logger Logger

	// Metrics records fetch outcomes; nil disables metrics
	Metrics Metrics

	// Flags toggles optional behaviour; nil means all flags off
	Flags featureflags.Manager
}
