package config

import (
	"path/filepath"
	"strings"
	"time"
)

// Config holds all application configuration in a structured way.
type Config struct {
	App      AppConfig
	API      APIConfig
	Auth     AuthConfig
	Cache    CacheConfig
	Gateway  GatewayConfig
	MCP      MCPConfig
	Paths    PathsConfig
	State    StateConfig
	Valkey   ValkeyConfig
	Insights InsightsConfig
}

type AppConfig struct {
	Version     string
	Debug       bool
	Environment string
}

// APIConfig describes the remote data-quality backend.
type APIConfig struct {
	BaseURL        string
	Timeout        time.Duration
	RateLimit      float64 // requests per second, 0 disables limiting
	RateBurst      int
	Batch401Delay  time.Duration
	MetricsEnabled bool
}

// AuthConfig points at the hosted auth service. The anon key authenticates
// the client application itself; user credentials are never stored here.
type AuthConfig struct {
	URL           string
	AnonKey       string
	RefreshWindow time.Duration
	SessionFile   string
}

type CacheConfig struct {
	DefaultTTL time.Duration
	Mirror     string // "bolt", "valkey" or "off"
	BoltPath   string
}

type GatewayConfig struct {
	Port               string
	BasicAuth          []string
	CorsAllowedOrigins []string
	TrustedProxies     []string
	MetricsPort        string
	JobPollInterval    time.Duration
}

type MCPConfig struct {
	Host string
	Port string
}

type PathsConfig struct {
	Storages string
}

type StateConfig struct {
	Driver   string // "sqlite" or "postgres"
	Name     string // file path for sqlite, database name for postgres
	Host     string
	Port     int
	User     string
	Password string
}

type ValkeyConfig struct {
	Address   string
	Password  string
	DB        int
	KeyPrefix string
}

type InsightsConfig struct {
	GeminiAPIKey string
	Model        string
}

// Global provides access to the loaded configuration for the cmd layer.
// Everything below cmd receives its configuration via constructors.
var Global *Config

// LoadConfig loads configuration from environment variables or defaults.
func LoadConfig() (*Config, error) {
	storages := getEnv("QUALENS_STORAGE_DIR", "storages")

	cfg := &Config{
		App: AppConfig{
			Version:     "v1.4.0",
			Debug:       getEnvBool("APP_DEBUG", false),
			Environment: getEnv("APP_ENV", "development"),
		},
		API: APIConfig{
			BaseURL:        strings.TrimSuffix(getEnv("QUALENS_API_URL", "http://localhost:8000/api/v1"), "/"),
			Timeout:        getEnvDuration("QUALENS_API_TIMEOUT", 30*time.Second),
			RateLimit:      getEnvFloat("QUALENS_API_RATE_LIMIT", 0),
			RateBurst:      getEnvInt("QUALENS_API_RATE_BURST", 5),
			Batch401Delay:  getEnvDuration("QUALENS_BATCH_401_DELAY", 250*time.Millisecond),
			MetricsEnabled: getEnvBool("QUALENS_METRICS_ENABLED", true),
		},
		Auth: AuthConfig{
			URL:           strings.TrimSuffix(getEnv("QUALENS_AUTH_URL", "http://localhost:9999"), "/"),
			AnonKey:       getEnv("QUALENS_AUTH_ANON_KEY", ""),
			RefreshWindow: getEnvDuration("QUALENS_AUTH_REFRESH_WINDOW", 60*time.Second),
			SessionFile:   getEnv("QUALENS_SESSION_FILE", filepath.Join(storages, "session.json")),
		},
		Cache: CacheConfig{
			DefaultTTL: getEnvDuration("QUALENS_CACHE_TTL", 5*time.Minute),
			Mirror:     getEnv("QUALENS_CACHE_MIRROR", "bolt"),
			BoltPath:   getEnv("QUALENS_CACHE_PATH", filepath.Join(storages, "cache.db")),
		},
		Gateway: GatewayConfig{
			Port:               getEnv("GATEWAY_PORT", "3000"),
			MetricsPort:        getEnv("GATEWAY_METRICS_PORT", "9090"),
			JobPollInterval:    getEnvDuration("GATEWAY_JOB_POLL_INTERVAL", 5*time.Second),
			CorsAllowedOrigins: splitEnv("GATEWAY_CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000", "http://localhost:5173"}),
		},
		MCP: MCPConfig{
			Host: getEnv("MCP_HOST", "localhost"),
			Port: getEnv("MCP_PORT", "8080"),
		},
		Paths: PathsConfig{Storages: storages},
		State: StateConfig{
			Driver:   getEnv("STATE_DB_DRIVER", "sqlite"),
			Name:     getEnv("STATE_DB_NAME", filepath.Join(storages, "qualens.db")),
			Host:     getEnv("STATE_DB_HOST", "localhost"),
			Port:     getEnvInt("STATE_DB_PORT", 5432),
			User:     getEnv("STATE_DB_USER", "postgres"),
			Password: getEnv("STATE_DB_PASSWORD", ""),
		},
		Valkey: ValkeyConfig{
			Address:   getEnv("VALKEY_ADDRESS", "localhost:6379"),
			Password:  getEnv("VALKEY_PASSWORD", ""),
			DB:        getEnvInt("VALKEY_DB", 0),
			KeyPrefix: getEnv("VALKEY_KEY_PREFIX", "qualens:"),
		},
		Insights: InsightsConfig{
			GeminiAPIKey: getEnv("GEMINI_API_KEY", ""),
			Model:        getEnv("INSIGHTS_MODEL", "gemini-2.0-flash"),
		},
	}

	if v := getEnv("GATEWAY_BASIC_AUTH", ""); v != "" {
		cfg.Gateway.BasicAuth = strings.Split(v, ",")
	}
	if v := getEnv("GATEWAY_TRUSTED_PROXIES", ""); v != "" {
		cfg.Gateway.TrustedProxies = strings.Split(v, ",")
	}

	Global = cfg
	return cfg, nil
}
