package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Server       ServerConfig
	Storage      StorageConfig
	Auth         AuthConfig
	OAuth        OAuthConfig
	Logging      LoggingConfig
	Quota        QuotaConfig
	History      HistoryConfig
	Lookup       LookupConfig
	Integrations IntegrationsConfig
	Events       EventsConfig
	Export       ExportConfig
	Worker       WorkerConfig
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Host            string
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	FrontendURL     string
	Environment     string
	RateLimit       float64
	RateBurst       int
}

// StorageConfig selects and configures the key-value store backend.
type StorageConfig struct {
	Driver          string // memory, sqlite, postgres, mysql, redis
	Host            string
	Port            int
	Name            string
	User            string
	Password        string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	// For SQLite
	Path string
	// For Redis
	RedisURL string
}

// AuthConfig contains authentication configuration
type AuthConfig struct {
	JWTSecret  string
	SessionTTL time.Duration
	BCryptCost int
}

// OAuthConfig contains OAuth provider configuration
type OAuthConfig struct {
	Google GoogleOAuthConfig
	GitHub GitHubOAuthConfig
}

// GoogleOAuthConfig contains Google OAuth configuration
type GoogleOAuthConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
}

// GitHubOAuthConfig contains GitHub OAuth configuration
type GitHubOAuthConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level      string
	Format     string // json or console
	OutputPath string
}

// QuotaConfig holds the daily scan ceilings. Pro is always unlimited.
type QuotaConfig struct {
	FreeDaily    int
	PremiumDaily int
	Timezone     string
}

// HistoryConfig holds history retention settings.
type HistoryConfig struct {
	MaxEntries         int
	PremiumVisibleSize int
}

// LookupConfig configures the remote product database client.
type LookupConfig struct {
	OpenFoodFactsURL string
	Timeout          time.Duration
	UserAgent        string
	BreakerFailures  uint32
	BreakerTimeout   time.Duration
}

// IntegrationsConfig contains third-party integration settings
type IntegrationsConfig struct {
	OpenAIAPIKey string
	OpenAIModel  string
	GeminiAPIKey string
	GeminiModel  string
}

// EventsConfig configures scan event publishing.
type EventsConfig struct {
	AMQPURL string
}

// ExportConfig configures where pro history exports are published.
type ExportConfig struct {
	Sink   string // none, local, s3, gcs
	Dir    string
	Bucket string
	Region string
	Prefix string
}

// WorkerConfig configures background jobs.
type WorkerConfig struct {
	QuotaSweepSchedule string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists (ignore errors as it's optional)
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Host:            getEnv("SERVER_HOST", "0.0.0.0"),
			Port:            getEnvAsInt("SERVER_PORT", 8080),
			ReadTimeout:     getEnvAsDuration("SERVER_READ_TIMEOUT", 10*time.Second),
			WriteTimeout:    getEnvAsDuration("SERVER_WRITE_TIMEOUT", 15*time.Second),
			ShutdownTimeout: getEnvAsDuration("SERVER_SHUTDOWN_TIMEOUT", 30*time.Second),
			FrontendURL:     getEnv("FRONTEND_URL", "http://localhost:5173"),
			Environment:     getEnv("ENVIRONMENT", "development"),
			RateLimit:       getEnvAsFloat("RATE_LIMIT_RPS", 20),
			RateBurst:       getEnvAsInt("RATE_LIMIT_BURST", 40),
		},
		Storage: StorageConfig{
			Driver:          getEnv("STORE_DRIVER", "sqlite"),
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnvAsInt("DB_PORT", 5432),
			Name:            getEnv("DB_NAME", "nutriscan"),
			User:            getEnv("DB_USER", ""),
			Password:        getEnv("DB_PASSWORD", ""),
			SSLMode:         getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:    getEnvAsInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    getEnvAsInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvAsDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute),
			Path:            getEnv("DB_PATH", "./nutriscan.db"),
			RedisURL:        getEnv("REDIS_URL", "redis://localhost:6379/0"),
		},
		Auth: AuthConfig{
			JWTSecret:  getEnv("JWT_SECRET", "supersecretkey"),
			SessionTTL: getEnvAsDuration("SESSION_TTL", 30*24*time.Hour),
			BCryptCost: getEnvAsInt("BCRYPT_COST", 12),
		},
		OAuth: OAuthConfig{
			Google: GoogleOAuthConfig{
				ClientID:     getEnv("GOOGLE_CLIENT_ID", ""),
				ClientSecret: getEnv("GOOGLE_CLIENT_SECRET", ""),
				RedirectURL:  getEnv("GOOGLE_REDIRECT_URL", "http://localhost:8080/api/v1/auth/google/callback"),
			},
			GitHub: GitHubOAuthConfig{
				ClientID:     getEnv("GITHUB_CLIENT_ID", ""),
				ClientSecret: getEnv("GITHUB_CLIENT_SECRET", ""),
				RedirectURL:  getEnv("GITHUB_REDIRECT_URL", "http://localhost:8080/api/v1/auth/github/callback"),
			},
		},
		Logging: LoggingConfig{
			Level:      getEnv("LOG_LEVEL", "info"),
			Format:     getEnv("LOG_FORMAT", "json"),
			OutputPath: getEnv("LOG_OUTPUT", "stdout"),
		},
		Quota: QuotaConfig{
			FreeDaily:    getEnvAsInt("QUOTA_FREE_DAILY", 5),
			PremiumDaily: getEnvAsInt("QUOTA_PREMIUM_DAILY", 50),
			Timezone:     getEnv("QUOTA_TIMEZONE", "Local"),
		},
		History: HistoryConfig{
			MaxEntries:         getEnvAsInt("HISTORY_MAX_ENTRIES", 100),
			PremiumVisibleSize: getEnvAsInt("HISTORY_PREMIUM_VISIBLE", 5),
		},
		Lookup: LookupConfig{
			OpenFoodFactsURL: getEnv("OFF_BASE_URL", "https://world.openfoodfacts.org"),
			Timeout:          getEnvAsDuration("OFF_TIMEOUT", 5*time.Second),
			UserAgent:        getEnv("OFF_USER_AGENT", "NutriScan/1.0 (+https://github.com/pratik-mahalle/nutriscan)"),
			BreakerFailures:  uint32(getEnvAsInt("OFF_BREAKER_FAILURES", 5)),
			BreakerTimeout:   getEnvAsDuration("OFF_BREAKER_TIMEOUT", 30*time.Second),
		},
		Integrations: IntegrationsConfig{
			OpenAIAPIKey: getEnv("OPENAI_API_KEY", ""),
			OpenAIModel:  getEnv("OPENAI_MODEL", "gpt-4o-mini"),
			GeminiAPIKey: getEnv("GEMINI_API_KEY", ""),
			GeminiModel:  getEnv("GEMINI_MODEL", "gemini-2.0-flash"),
		},
		Events: EventsConfig{
			AMQPURL: getEnv("AMQP_URL", ""),
		},
		Export: ExportConfig{
			Sink:   getEnv("EXPORT_SINK", "none"),
			Dir:    getEnv("EXPORT_DIR", "./exports"),
			Bucket: getEnv("EXPORT_BUCKET", ""),
			Region: getEnv("EXPORT_REGION", "us-east-1"),
			Prefix: getEnv("EXPORT_PREFIX", "exports"),
		},
		Worker: WorkerConfig{
			QuotaSweepSchedule: getEnv("QUOTA_SWEEP_SCHEDULE", "5 0 * * *"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET must be set")
	}
	if c.Server.Environment == "production" && c.Auth.JWTSecret == "supersecretkey" {
		return fmt.Errorf("JWT_SECRET should not use default value in production")
	}

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	switch c.Storage.Driver {
	case "memory", "sqlite", "postgres", "mysql", "redis":
	default:
		return fmt.Errorf("unsupported store driver: %s", c.Storage.Driver)
	}

	if c.Quota.FreeDaily <= 0 {
		return fmt.Errorf("QUOTA_FREE_DAILY must be positive, got %d", c.Quota.FreeDaily)
	}
	if c.Quota.PremiumDaily <= c.Quota.FreeDaily {
		return fmt.Errorf("QUOTA_PREMIUM_DAILY (%d) must be greater than QUOTA_FREE_DAILY (%d)",
			c.Quota.PremiumDaily, c.Quota.FreeDaily)
	}
	if _, err := c.Quota.Location(); err != nil {
		return fmt.Errorf("invalid QUOTA_TIMEZONE: %w", err)
	}

	if c.History.MaxEntries < 1 {
		return fmt.Errorf("HISTORY_MAX_ENTRIES must be positive")
	}
	if c.History.PremiumVisibleSize < 1 || c.History.PremiumVisibleSize > c.History.MaxEntries {
		return fmt.Errorf("HISTORY_PREMIUM_VISIBLE must be between 1 and %d", c.History.MaxEntries)
	}

	if c.Lookup.Timeout <= 0 {
		return fmt.Errorf("OFF_TIMEOUT must be positive")
	}

	switch c.Export.Sink {
	case "none", "local":
	case "s3", "gcs":
		if c.Export.Bucket == "" {
			return fmt.Errorf("EXPORT_BUCKET is required for the %s sink", c.Export.Sink)
		}
	default:
		return fmt.Errorf("unsupported export sink: %s", c.Export.Sink)
	}

	return nil
}

// Location resolves the timezone that defines the quota calendar day.
func (q QuotaConfig) Location() (*time.Location, error) {
	if q.Timezone == "" || strings.EqualFold(q.Timezone, "local") {
		return time.Local, nil
	}
	return time.LoadLocation(q.Timezone)
}

// Addr returns the listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
