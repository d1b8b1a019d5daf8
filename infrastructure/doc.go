// Package infrastructure provides concrete implementations of the interfaces
// defined in the core package: caching, HTTP transport, logging, metrics
// and history storage.
//
// The infrastructure package is organized by technical concern:
//
//   - cache/memory: in-process cache on patrickmn/go-cache
//   - cache/redis: Redis cache on go-redis
//   - http/standard: HTTP client with backoff retries and a rate limiter
//   - logger/structured: logrus logger with optional rotated file output
//   - metrics: prometheus recorder with a textfile writer
//   - storage/csvfile: whole-file CSV history store
//   - storage/sqlite: SQLite history store with embedded migrations
//
// # Cache Implementations
//
// Memory Cache Example:
//
//	cache := memory.NewMemoryCache(24*time.Hour, 10*time.Minute)
//	err := cache.Set(ctx, "key", []byte("value"), time.Hour)
//	value, err := cache.Get(ctx, "key")
//
// Redis Cache Example:
//
//	cache, err := redis.NewRedisCache(config.RedisConfig{Address: "localhost:6379"})
//
// # HTTP Client
//
// Network errors, 429 and 5xx responses are retried with exponential backoff:
//
//	client := standard.NewStandardHTTPClient(10*time.Second,
//	    standard.WithMaxRetries(2),
//	    standard.WithRateLimit(5, 1),
//	)
//	resp, err := client.Get(ctx, "https://serpapi.com/search?q=shoes")
//	if err != nil {
//	    // Handle error
//	}
//	defer resp.Body().Close()
//
// # History Stores
//
//	store := csvfile.NewStore(csvfile.DefaultPath, logger)
//	err := store.Append(ctx, resultSet)
//	log, err := store.Load(ctx)
//
// # Logger
//
//	logger, err := structured.NewLogger(structured.Options{Level: "debug", Format: "json"})
//	logger.Info("Run complete", map[string]interface{}{
//	    "keywords": 12,
//	    "ads":      31,
//	})
package infrastructure
