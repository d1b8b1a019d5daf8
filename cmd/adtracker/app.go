// ABOUTME: Wires configuration into logger, cache, transport, metrics and history store
// ABOUTME: Builds the dependency container the core services run on

package main

import (
	"context"
	"fmt"
	"time"

	"adtracker/core/interfaces"
	"adtracker/core/search"
	"adtracker/core/tracker"
	"adtracker/infrastructure/cache/memory"
	"adtracker/infrastructure/cache/redis"
	stdhttp "adtracker/infrastructure/http/standard"
	"adtracker/infrastructure/logger/structured"
	"adtracker/infrastructure/metrics"
	"adtracker/infrastructure/storage/csvfile"
	"adtracker/infrastructure/storage/sqlite"
	"adtracker/pkg/config"
	"adtracker/pkg/featureflags"
)

// app holds the wired components for one command invocation
type app struct {
	cfg     *config.Config
	logger  interfaces.Logger
	flags   featureflags.Manager
	store   interfaces.HistoryStore
	metrics *metrics.Recorder
	closers []func() error
}

// newApp builds the components every command needs
func newApp(cfg *config.Config) (*app, error) {
	logger, err := structured.NewLogger(structured.Options{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		File:   cfg.Log.File,
	})
	if err != nil {
		return nil, err
	}

	a := &app{
		cfg:    cfg,
		logger: logger,
		flags:  featureflags.NewEnvManager("FEATURE_"),
	}

	switch cfg.History.Backend {
	case "sqlite":
		path := cfg.History.Path
		if path == csvfile.DefaultPath {
			path = sqlite.DefaultPath
		}
		store, err := sqlite.NewStore(path, logger)
		if err != nil {
			return nil, fmt.Errorf("opening history database: %w", err)
		}
		a.store = store
		a.closers = append(a.closers, store.Close)
	default:
		a.store = csvfile.NewStore(cfg.History.Path, logger)
	}

	return a, nil
}

// newCache returns the configured response cache, or nil when caching is off
func (a *app) newCache() interfaces.Cache {
	ttl := time.Duration(a.cfg.Cache.Memory.DefaultExpiration) * time.Second

	switch a.cfg.Cache.Type {
	case "none":
		return nil
	case "redis":
		redisCache, err := redis.NewRedisCache(a.cfg.Cache.Redis)
		if err != nil {
			a.logger.Error("Failed to create Redis cache, falling back to memory", map[string]interface{}{
				"error": err.Error(),
			})
			return memory.NewMemoryCache(ttl, 10*time.Minute)
		}
		a.closers = append(a.closers, redisCache.Close)
		a.logger.Debug("Using Redis cache", map[string]interface{}{
			"address": a.cfg.Cache.Redis.Address,
		})
		return redisCache
	default:
		return memory.NewMemoryCache(ttl, 10*time.Minute)
	}
}

// newTracker wires the fetcher and aggregator for a run
func (a *app) newTracker(ctx context.Context, concurrency, budget int) (*tracker.Service, error) {
	policy, err := search.ParsePositionPolicy(a.cfg.SerpAPI.PositionPolicy)
	if err != nil {
		return nil, err
	}

	if featureflags.Enabled(ctx, a.flags, featureflags.MetricsEnabled) || a.cfg.Metrics.TextfilePath != "" {
		a.metrics = metrics.NewRecorder()
	}

	httpClient := stdhttp.NewStandardHTTPClient(
		time.Duration(a.cfg.HTTP.TimeoutSeconds)*time.Second,
		stdhttp.WithMaxRetries(uint64(a.cfg.HTTP.MaxRetries)),
		stdhttp.WithRateLimit(a.cfg.HTTP.RatePerSecond, a.cfg.HTTP.Burst),
	)

	deps := interfaces.Dependencies{
		Cache:      a.newCache(),
		HTTPClient: httpClient,
		Logger:     a.logger,
		Flags:      a.flags,
	}
	if a.metrics != nil {
		deps.Metrics = a.metrics
	}

	fetcher := search.NewAdService(deps, search.Options{
		Endpoint:     a.cfg.SerpAPI.Endpoint,
		Engine:       a.cfg.SerpAPI.Engine,
		Country:      a.cfg.SerpAPI.Country,
		Language:     a.cfg.SerpAPI.Language,
		GoogleDomain: a.cfg.SerpAPI.GoogleDomain,
		Policy:       policy,
	})

	return tracker.NewService(fetcher, deps, tracker.Options{
		Concurrency:   concurrency,
		RequestBudget: budget,
	}), nil
}

// flushMetrics writes the textfile output when configured
func (a *app) flushMetrics(at time.Time) {
	if a.metrics == nil {
		return
	}
	a.metrics.MarkRunComplete(at)
	if a.cfg.Metrics.TextfilePath == "" {
		return
	}
	if err := a.metrics.WriteTextfile(a.cfg.Metrics.TextfilePath); err != nil {
		a.logger.Warn("Failed to write metrics textfile", map[string]interface{}{
			"path":  a.cfg.Metrics.TextfilePath,
			"error": err.Error(),
		})
	}
}

// Close releases stores and caches
func (a *app) Close() {
	for _, c := range a.closers {
		if err := c(); err != nil {
			a.logger.Warn("Failed to close resource", map[string]interface{}{"error": err.Error()})
		}
	}
}
