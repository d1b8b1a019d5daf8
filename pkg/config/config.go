// ABOUTME: Configuration management for the ad tracker with .env, YAML and environment support
// ABOUTME: Defines configuration structures for the search API, transport, history, cache and logging

package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is read when ADTRACKER_CONFIG is not set
const DefaultConfigFile = "adtracker.yaml"

// Config holds all application configuration
type Config struct {
	// SerpAPI contains search API configuration
	SerpAPI SerpAPIConfig `yaml:"serpapi"`

	// HTTP contains outbound transport configuration
	HTTP HTTPConfig `yaml:"http"`

	// Tracker contains aggregation configuration
	Tracker TrackerConfig `yaml:"tracker"`

	// History contains history store configuration
	History HistoryConfig `yaml:"history"`

	// Cache contains response cache configuration
	Cache CacheConfig `yaml:"cache"`

	// Log contains logging configuration
	Log LogConfig `yaml:"log"`

	// Metrics contains metrics configuration
	Metrics MetricsConfig `yaml:"metrics"`

	// Server contains HTTP API configuration
	Server ServerConfig `yaml:"server"`
}

// SerpAPIConfig holds search API configuration
type SerpAPIConfig struct {
	// APIKey is the SerpApi credential
	APIKey string `yaml:"api_key"`

	// Endpoint is the search URL
	Endpoint string `yaml:"endpoint"`

	// Engine is the engine selector, e.g. "google"
	Engine string `yaml:"engine"`

	// Country is the gl locale parameter
	Country string `yaml:"country"`

	// Language is the hl locale parameter
	Language string `yaml:"language"`

	// GoogleDomain is the google_domain parameter
	GoogleDomain string `yaml:"google_domain"`

	// PositionPolicy is "index" or "api"
	PositionPolicy string `yaml:"position_policy"`
}

// HTTPConfig holds outbound transport configuration
type HTTPConfig struct {
	// TimeoutSeconds bounds each request attempt
	TimeoutSeconds int `yaml:"timeout_seconds"`

	// MaxRetries is the number of retries after the first attempt
	MaxRetries int `yaml:"max_retries"`

	// RatePerSecond limits request attempts; 0 disables limiting
	RatePerSecond float64 `yaml:"rate_per_second"`

	// Burst is the limiter burst size
	Burst int `yaml:"burst"`
}

// TrackerConfig holds aggregation configuration
type TrackerConfig struct {
	// Concurrency is the number of keywords fetched at once
	Concurrency int `yaml:"concurrency"`

	// RequestBudget caps requests per run; 0 is unlimited
	RequestBudget int `yaml:"request_budget"`
}

// HistoryConfig holds history store configuration
type HistoryConfig struct {
	// Backend is "csv" or "sqlite"
	Backend string `yaml:"backend"`

	// Path is the history file or database path
	Path string `yaml:"path"`
}

// CacheConfig holds cache backend configuration
type CacheConfig struct {
	// Type specifies the cache backend (memory/redis/none)
	Type string `yaml:"type"`

	// Redis contains Redis-specific configuration
	Redis RedisConfig `yaml:"redis"`

	// Memory contains in-memory cache configuration
	Memory MemoryConfig `yaml:"memory"`
}

// RedisConfig holds Redis-specific configuration
type RedisConfig struct {
	// Address is the Redis server address
	Address string `yaml:"address"`

	// Password is the Redis authentication password
	Password string `yaml:"password"`

	// DB is the Redis database number
	DB int `yaml:"db"`
}

// MemoryConfig holds in-memory cache configuration
type MemoryConfig struct {
	// DefaultExpiration is the default TTL for cache entries in seconds
	DefaultExpiration int `yaml:"default_expiration"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	// Level is a logrus level name
	Level string `yaml:"level"`

	// Format is "text" or "json"
	Format string `yaml:"format"`

	// File is a rotated log file; empty logs to stderr
	File string `yaml:"file"`
}

// MetricsConfig holds metrics configuration
type MetricsConfig struct {
	// TextfilePath receives prometheus text output after each run; empty disables it
	TextfilePath string `yaml:"textfile_path"`
}

// ServerConfig holds HTTP API configuration
type ServerConfig struct {
	// Port is the HTTP server port
	Port string `yaml:"port"`

	// RateLimit is the number of requests allowed per client per window; 0 disables limiting
	RateLimit int `yaml:"rate_limit"`

	// RateWindowSeconds is the rate limit window
	RateWindowSeconds int `yaml:"rate_window_seconds"`

	// AllowedOrigins lists CORS origins; empty allows all
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		SerpAPI: SerpAPIConfig{
			Endpoint:       "https://serpapi.com/search",
			Engine:         "google",
			Country:        "us",
			Language:       "en",
			GoogleDomain:   "google.com",
			PositionPolicy: "index",
		},
		HTTP: HTTPConfig{
			TimeoutSeconds: 10,
			MaxRetries:     2,
			RatePerSecond:  0,
			Burst:          1,
		},
		Tracker: TrackerConfig{
			Concurrency:   1,
			RequestBudget: 0,
		},
		History: HistoryConfig{
			Backend: "csv",
			Path:    "data/ad_history.csv",
		},
		Cache: CacheConfig{
			Type: "memory",
			Redis: RedisConfig{
				Address: "localhost:6379",
			},
			Memory: MemoryConfig{
				DefaultExpiration: 86400,
			},
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Server: ServerConfig{
			Port:              "8080",
			RateLimit:         60,
			RateWindowSeconds: 60,
		},
	}
}

// Load reads .env, then the optional YAML file, then environment overrides.
// An empty path falls back to ADTRACKER_CONFIG and then DefaultConfigFile.
func Load(path string) (*Config, error) {
	_ = godotenv.Load() // .env is optional

	if path == "" {
		path = getEnvOrDefault("ADTRACKER_CONFIG", DefaultConfigFile)
	}

	cfg := Default()
	if err := cfg.overlayFile(path); err != nil {
		return nil, err
	}
	cfg.overlayEnv()

	return cfg, nil
}

// LoadFromEnv loads configuration from defaults and environment variables only
func LoadFromEnv() (*Config, error) {
	cfg := Default()
	cfg.overlayEnv()
	return cfg, nil
}

// overlayFile merges a YAML file into the config. A missing file is not an error.
func (c *Config) overlayFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) overlayEnv() {
	c.SerpAPI.APIKey = getEnvOrDefault("SERPAPI_API_KEY", c.SerpAPI.APIKey)
	c.SerpAPI.Endpoint = getEnvOrDefault("SERPAPI_ENDPOINT", c.SerpAPI.Endpoint)
	c.SerpAPI.Engine = getEnvOrDefault("SERPAPI_ENGINE", c.SerpAPI.Engine)
	c.SerpAPI.Country = getEnvOrDefault("SERPAPI_COUNTRY", c.SerpAPI.Country)
	c.SerpAPI.Language = getEnvOrDefault("SERPAPI_LANGUAGE", c.SerpAPI.Language)
	c.SerpAPI.GoogleDomain = getEnvOrDefault("SERPAPI_GOOGLE_DOMAIN", c.SerpAPI.GoogleDomain)
	c.SerpAPI.PositionPolicy = getEnvOrDefault("POSITION_POLICY", c.SerpAPI.PositionPolicy)

	c.HTTP.TimeoutSeconds = getEnvAsIntOrDefault("HTTP_TIMEOUT", c.HTTP.TimeoutSeconds)
	c.HTTP.MaxRetries = getEnvAsIntOrDefault("HTTP_MAX_RETRIES", c.HTTP.MaxRetries)
	c.HTTP.RatePerSecond = getEnvAsFloatOrDefault("HTTP_RATE_PER_SECOND", c.HTTP.RatePerSecond)
	c.HTTP.Burst = getEnvAsIntOrDefault("HTTP_BURST", c.HTTP.Burst)

	c.Tracker.Concurrency = getEnvAsIntOrDefault("TRACKER_CONCURRENCY", c.Tracker.Concurrency)
	c.Tracker.RequestBudget = getEnvAsIntOrDefault("TRACKER_REQUEST_BUDGET", c.Tracker.RequestBudget)

	c.History.Backend = getEnvOrDefault("HISTORY_BACKEND", c.History.Backend)
	c.History.Path = getEnvOrDefault("HISTORY_PATH", c.History.Path)

	c.Cache.Type = getEnvOrDefault("CACHE_TYPE", c.Cache.Type)
	c.Cache.Redis.Address = getEnvOrDefault("REDIS_ADDRESS", c.Cache.Redis.Address)
	c.Cache.Redis.Password = getEnvOrDefault("REDIS_PASSWORD", c.Cache.Redis.Password)
	c.Cache.Redis.DB = getEnvAsIntOrDefault("REDIS_DB", c.Cache.Redis.DB)
	c.Cache.Memory.DefaultExpiration = getEnvAsIntOrDefault("MEMORY_CACHE_EXPIRATION", c.Cache.Memory.DefaultExpiration)

	c.Log.Level = getEnvOrDefault("LOG_LEVEL", c.Log.Level)
	c.Log.Format = getEnvOrDefault("LOG_FORMAT", c.Log.Format)
	c.Log.File = getEnvOrDefault("LOG_FILE", c.Log.File)

	c.Metrics.TextfilePath = getEnvOrDefault("METRICS_TEXTFILE", c.Metrics.TextfilePath)

	c.Server.Port = getEnvOrDefault("PORT", c.Server.Port)
	c.Server.RateLimit = getEnvAsIntOrDefault("SERVER_RATE_LIMIT", c.Server.RateLimit)
	c.Server.RateWindowSeconds = getEnvAsIntOrDefault("SERVER_RATE_WINDOW", c.Server.RateWindowSeconds)
	if origins := os.Getenv("CORS_ALLOWED_ORIGINS"); origins != "" {
		c.Server.AllowedOrigins = splitList(origins)
	}
}

// getEnvOrDefault returns the environment variable value or a default
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// splitList splits a comma separated value, dropping blanks
func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// getEnvAsIntOrDefault returns the environment variable as int or a default
func getEnvAsIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvAsFloatOrDefault returns the environment variable as float64 or a default
func getEnvAsFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.SerpAPI.Endpoint == "" {
		return errors.New("serpapi endpoint cannot be empty")
	}

	if c.SerpAPI.PositionPolicy != "index" && c.SerpAPI.PositionPolicy != "api" {
		return errors.New("position policy must be 'index' or 'api'")
	}

	if c.HTTP.TimeoutSeconds < 1 {
		return errors.New("http timeout must be at least 1 second")
	}

	if c.HTTP.MaxRetries < 0 {
		return errors.New("http max retries cannot be negative")
	}

	if c.HTTP.RatePerSecond < 0 {
		return errors.New("http rate cannot be negative")
	}

	if c.Tracker.Concurrency < 1 {
		return errors.New("tracker concurrency must be at least 1")
	}

	if c.Tracker.RequestBudget < 0 {
		return errors.New("request budget cannot be negative")
	}

	if c.History.Backend != "csv" && c.History.Backend != "sqlite" {
		return errors.New("history backend must be 'csv' or 'sqlite'")
	}

	if strings.TrimSpace(c.History.Path) == "" {
		return errors.New("history path cannot be empty")
	}

	if c.Cache.Type != "redis" && c.Cache.Type != "memory" && c.Cache.Type != "none" {
		return errors.New("cache type must be 'redis', 'memory' or 'none'")
	}

	if c.Cache.Type == "redis" && c.Cache.Redis.Address == "" {
		return errors.New("redis address cannot be empty when using redis cache")
	}

	if c.Log.Format != "text" && c.Log.Format != "json" {
		return errors.New("log format must be 'text' or 'json'")
	}

	if c.Server.Port == "" {
		return errors.New("server port cannot be empty")
	}

	if c.Server.RateLimit < 0 {
		return errors.New("server rate limit cannot be negative")
	}

	if c.Server.RateLimit > 0 && c.Server.RateWindowSeconds < 1 {
		return errors.New("server rate window must be at least 1 second")
	}

	return nil
}
