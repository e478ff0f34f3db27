package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"allowance-app-go/pkg/logger"
	"github.com/joho/godotenv"
)

type Config struct {
	HTTPPort    string
	Env         string
	CORSOrigins []string
	DB          DBConfig
	Auth        AuthConfig
	Session     SessionConfig
	Allowance   AllowanceConfig
}

type DBConfig struct {
	DSN             string
	Host            string
	Port            string
	User            string
	Password        string
	Name            string
	SSLMode         string
	TimeZone        string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// AuthConfig configures the hosted identity provider used to verify
// freshly issued ID tokens.
type AuthConfig struct {
	ProviderURL    string
	PublishableKey string
	Timeout        time.Duration
	SkipVerify     bool
	MockUserID     string
	MockUserEmail  string
	MockUserName   string
}

type SessionConfig struct {
	Secret     string
	TTL        time.Duration
	CookieName string
	Secure     bool
}

type AllowanceConfig struct {
	JobSecret string
	Location  string
}

func Load(log logger.Logger) (Config, error) {
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			return Config{}, err
		}
		log.Debug("config: no .env file found")
	}

	return Config{
		HTTPPort:    getEnv("HTTP_PORT", "8080"),
		Env:         getEnv("ENV", "development"),
		CORSOrigins: getEnvList("CORS_ORIGINS", []string{"http://localhost:3000"}),
		DB: DBConfig{
			DSN:             getEnv("DB_DSN", ""),
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnv("DB_PORT", "5432"),
			User:            getEnv("DB_USER", "postgres"),
			Password:        getEnv("DB_PASSWORD", "postgres"),
			Name:            getEnv("DB_NAME", "allowance_app"),
			SSLMode:         getEnv("DB_SSLMODE", "disable"),
			TimeZone:        getEnv("DB_TIMEZONE", "UTC"),
			MaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:    getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvDuration("DB_CONN_MAX_LIFETIME", 30*time.Minute),
		},
		Auth: AuthConfig{
			ProviderURL:    getEnv("AUTH_PROVIDER_URL", ""),
			PublishableKey: getEnv("AUTH_PUBLISHABLE_KEY", ""),
			Timeout:        getEnvDuration("AUTH_TIMEOUT", 5*time.Second),
			SkipVerify:     getEnvBool("AUTH_SKIP", false),
			MockUserID:     getEnv("AUTH_MOCK_USER_ID", "00000000-0000-0000-0000-000000000001"),
			MockUserEmail:  getEnv("AUTH_MOCK_USER_EMAIL", ""),
			MockUserName:   getEnv("AUTH_MOCK_USER_NAME", ""),
		},
		Session: SessionConfig{
			Secret:     getEnv("SESSION_SECRET", ""),
			TTL:        getEnvDuration("SESSION_TTL", 5*24*time.Hour),
			CookieName: getEnv("SESSION_COOKIE_NAME", "session"),
			Secure:     getEnvBool("SESSION_COOKIE_SECURE", getEnv("ENV", "development") == "production"),
		},
		Allowance: AllowanceConfig{
			JobSecret: getEnv("ALLOWANCE_JOB_SECRET", ""),
			Location:  getEnv("ALLOWANCE_TZ", "UTC"),
		},
	}, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvList(key string, fallback []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}

	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part != "" {
			result = append(result, part)
		}
	}
	if len(result) == 0 {
		return fallback
	}
	return result
}

func (c DBConfig) GetDSN() string {
	if c.DSN != "" {
		return c.DSN
	}
	return "host=" + c.Host +
		" user=" + c.User +
		" password=" + c.Password +
		" dbname=" + c.Name +
		" port=" + c.Port +
		" sslmode=" + c.SSLMode +
		" TimeZone=" + c.TimeZone
}
