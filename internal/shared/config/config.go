package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

// MinSecretLength is the shortest JWT_SECRET accepted for HS256 signing.
const MinSecretLength = 32

var (
	ErrMissingSecret = errors.New("JWT_SECRET is required")
	ErrWeakSecret    = fmt.Errorf("JWT_SECRET must be at least %d bytes", MinSecretLength)
)

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	Port           string        `env:"PORT, default=8080"`
	GinMode        string        `env:"GIN_MODE, default=debug"`
	APIVersion     string        `env:"API_VERSION, default=v1"`
	ReadTimeout    time.Duration `env:"READ_TIMEOUT, default=15s"`
	WriteTimeout   time.Duration `env:"WRITE_TIMEOUT, default=15s"`
	IdleTimeout    time.Duration `env:"IDLE_TIMEOUT, default=60s"`
	MaxHeaderBytes int           `env:"MAX_HEADER_BYTES, default=1048576"`

	Database  DatabaseConfig
	Redis     RedisConfig
	JWT       JWTConfig
	Auth      AuthConfig
	RateLimit RateLimitConfig
	Kafka     KafkaConfig
	Cache     CacheConfig

	LogLevel string `env:"LOG_LEVEL, default=info"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string `env:"DB_HOST, default=localhost"`
	Port     string `env:"DB_PORT, default=5432"`
	Name     string `env:"DB_NAME, default=shopadmin"`
	User     string `env:"DB_USER, default=shopadmin"`
	Password string `env:"DB_PASSWORD, default=shopadmin"`
	SSLMode  string `env:"DB_SSLMODE, default=disable"`

	MaxIdleConns    int           `env:"DB_MAX_IDLE_CONNS, default=10"`
	MaxOpenConns    int           `env:"DB_MAX_OPEN_CONNS, default=100"`
	ConnMaxLifetime time.Duration `env:"DB_CONN_MAX_LIFETIME, default=1h"`
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Enabled  bool   `env:"REDIS_ENABLED, default=true"`
	Host     string `env:"REDIS_HOST, default=localhost"`
	Port     string `env:"REDIS_PORT, default=6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB, default=0"`
}

// JWTConfig holds token signing configuration. There is no default secret.
type JWTConfig struct {
	Secret     string        `env:"JWT_SECRET"`
	AccessTTL  time.Duration `env:"JWT_ACCESS_TTL, default=15m"`
	RefreshTTL time.Duration `env:"JWT_REFRESH_TTL, default=168h"`
	Issuer     string        `env:"JWT_ISSUER, default=shopadmin"`
}

// AuthConfig holds the filter paths and cookie settings
type AuthConfig struct {
	LoginPath        string `env:"AUTH_LOGIN_PATH, default=/token"`
	RefreshPath      string `env:"AUTH_REFRESH_PATH, default=/token/refresh"`
	InvalidationPath string `env:"AUTH_INVALIDATION_PATH, default=/invalidate-token"`
	CookieSecure     bool   `env:"AUTH_COOKIE_SECURE, default=false"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	Enabled         bool          `env:"RATE_LIMIT_ENABLED, default=true"`
	WindowDuration  time.Duration `env:"RATE_LIMIT_WINDOW_DURATION, default=60s"`
	DefaultRequests int           `env:"RATE_LIMIT_DEFAULT_REQUESTS, default=60"`
	AuthRequests    int           `env:"RATE_LIMIT_AUTH_REQUESTS, default=10"`
	AdminRequests   int           `env:"RATE_LIMIT_ADMIN_REQUESTS, default=200"`
	MemberRequests  int           `env:"RATE_LIMIT_MEMBER_REQUESTS, default=100"`
	HealthRequests  int           `env:"RATE_LIMIT_HEALTH_REQUESTS, default=300"`
	WhitelistedIPs  []string      `env:"RATE_LIMIT_WHITELISTED_IPS"`
}

// KafkaConfig holds audit event streaming configuration
type KafkaConfig struct {
	Enabled    bool     `env:"KAFKA_ENABLED, default=false"`
	Brokers    []string `env:"KAFKA_BROKERS, default=localhost:9092"`
	AuditTopic string   `env:"KAFKA_AUDIT_TOPIC, default=shopadmin-audit"`
	GroupID    string   `env:"KAFKA_GROUP_ID, default=shopadmin-audit-workers"`
}

// CacheConfig holds TTLs for cached lookups
type CacheConfig struct {
	RoleTTL    time.Duration `env:"CACHE_ROLE_TTL, default=5m"`
	ProductTTL time.Duration `env:"CACHE_PRODUCT_TTL, default=10m"`
}

// Load reads an optional .env file, then the environment, and validates the result.
// Variables already set in the environment win over .env entries.
func Load(ctx context.Context) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("config: failed to read .env: %w", err)
	}

	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("config: failed to process environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects configurations the server must not start with
func (c *Config) Validate() error {
	if c.JWT.Secret == "" {
		return ErrMissingSecret
	}
	if len(c.JWT.Secret) < MinSecretLength {
		return ErrWeakSecret
	}
	if c.JWT.AccessTTL <= 0 || c.JWT.RefreshTTL <= 0 {
		return errors.New("JWT_ACCESS_TTL and JWT_REFRESH_TTL must be positive")
	}
	if c.JWT.RefreshTTL < c.JWT.AccessTTL {
		return errors.New("JWT_REFRESH_TTL must not be shorter than JWT_ACCESS_TTL")
	}
	return nil
}

// IsProduction returns true if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.GinMode == "release"
}

// IsDevelopment returns true if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.GinMode == "debug"
}

// GetServerAddress returns the full server address
func (c *Config) GetServerAddress() string {
	return ":" + c.Port
}

// DatabaseDSN builds the PostgreSQL connection string
func (c *Config) DatabaseDSN() string {
	db := c.Database
	return "host=" + db.Host +
		" port=" + db.Port +
		" user=" + db.User +
		" password=" + db.Password +
		" dbname=" + db.Name +
		" sslmode=" + db.SSLMode
}

// RedisAddr returns host:port for the Redis client
func (c *Config) RedisAddr() string {
	return c.Redis.Host + ":" + c.Redis.Port
}
