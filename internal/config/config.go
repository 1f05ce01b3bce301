package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the service and the kiosk client.
type Config struct {
	App      AppConfig
	Postgres PostgresConfig
	Redis    RedisConfig
	Logger   LoggerConfig
	Auth     AuthConfig
	Badge    BadgeConfig
	Kiosk    KioskConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	RunMigrations  bool
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level  string
	Format string
}

// AuthConfig defines authentication parameters.
type AuthConfig struct {
	JWTSecret             string
	AccessTokenTTLMinutes int
	BcryptCost            int
	SessionCookieName     string
}

// BadgeConfig controls the badge scan endpoint.
type BadgeConfig struct {
	LoginEnabled         bool
	MinLength            int
	DebounceMillis       int
	LoginRedirectURL     string
	WorkOrderRedirectURL string
	DemoSeed             bool
	DemoPassword         string
}

// KioskConfig configures the scan terminal client.
type KioskConfig struct {
	ServerURL           string
	RelayTimeoutSeconds int
	ArmTimeoutSeconds   int
	StatusPollSeconds   int
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	minLength := getEnvAsInt("BADGE_MIN_LENGTH", 8)
	if minLength <= 0 {
		return nil, fmt.Errorf("invalid BADGE_MIN_LENGTH: %d", minLength)
	}

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "mes-badge-service"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10)),
			MinConns:       int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2)),
			RunMigrations:  getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true),
			ConnMaxIdleSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30)),
			ConnMaxLifeSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300)),
		},
		Redis: RedisConfig{
			Addr:     os.Getenv("REDIS_ADDR"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Logger: LoggerConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		Auth: AuthConfig{
			JWTSecret:             getEnv("AUTH_JWT_SECRET", "dev-secret"),
			AccessTokenTTLMinutes: getEnvAsInt("AUTH_ACCESS_TOKEN_TTL_MINUTES", 480),
			BcryptCost:            getEnvAsInt("AUTH_BCRYPT_COST", 12),
			SessionCookieName:     getEnv("AUTH_SESSION_COOKIE", "mes_session"),
		},
		Badge: BadgeConfig{
			LoginEnabled:         getEnvAsBool("BADGE_LOGIN_ENABLED", true),
			MinLength:            minLength,
			DebounceMillis:       getEnvAsInt("BADGE_DEBOUNCE_MS", 0),
			LoginRedirectURL:     getEnv("BADGE_LOGIN_REDIRECT_URL", "/dashboard/"),
			WorkOrderRedirectURL: getEnv("BADGE_WORK_ORDER_REDIRECT_URL", "/work-orders/%s"),
			DemoSeed:             getEnvAsBool("BADGE_DEMO_SEED", true),
			DemoPassword:         getEnv("BADGE_DEMO_PASSWORD", "changeme"),
		},
		Kiosk: KioskConfig{
			ServerURL:           getEnv("KIOSK_SERVER_URL", "http://127.0.0.1:8080"),
			RelayTimeoutSeconds: getEnvAsInt("KIOSK_RELAY_TIMEOUT_SECONDS", 10),
			ArmTimeoutSeconds:   getEnvAsInt("KIOSK_ARM_TIMEOUT_SECONDS", 30),
			StatusPollSeconds:   getEnvAsInt("KIOSK_STATUS_POLL_SECONDS", 30),
		},
	}

	return cfg, nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	return seconds(a.RequestTimeoutSeconds)
}

// AccessTokenTTL returns the session token lifetime.
func (a AuthConfig) AccessTokenTTL() time.Duration {
	if a.AccessTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(a.AccessTokenTTLMinutes) * time.Minute
}

// Debounce returns the window in which repeated scans of one badge are dropped.
func (b BadgeConfig) Debounce() time.Duration {
	if b.DebounceMillis <= 0 {
		return 0
	}
	return time.Duration(b.DebounceMillis) * time.Millisecond
}

// RelayTimeout bounds a single scan relay round trip.
func (k KioskConfig) RelayTimeout() time.Duration {
	return seconds(k.RelayTimeoutSeconds)
}

// ArmTimeout is how long an armed work order action waits for a scan.
func (k KioskConfig) ArmTimeout() time.Duration {
	return seconds(k.ArmTimeoutSeconds)
}

// StatusPollInterval is the period of the badge-login status check.
func (k KioskConfig) StatusPollInterval() time.Duration {
	return seconds(k.StatusPollSeconds)
}

func seconds(n int) time.Duration {
	if n <= 0 {
		return 0
	}
	return time.Duration(n) * time.Second
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}
