// internal/config/config.go
package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Database struct {
		Enabled    bool   `json:"enabled"`
		Host       string `json:"host"`
		Port       string `json:"port"`
		User       string `json:"user"`
		Password   string `json:"password"`
		Name       string `json:"name"`
		SSLMode    string `json:"sslmode"`
		SearchPath string `json:"schema"`
	} `json:"database"`
	JWT struct {
		Secret       string        `json:"secret"`
		ExpiryPeriod time.Duration `json:"expiry_period"`
	} `json:"jwt"`
	Server struct {
		Port           string        `json:"port"`
		ReadTimeout    time.Duration `json:"read_timeout"`
		WriteTimeout   time.Duration `json:"write_timeout"`
		RequestTimeout time.Duration `json:"request_timeout"`
		AllowedOrigins []string      `json:"allowed_origins"`
	} `json:"server"`
	Translator struct {
		GrammarPath    string        `json:"grammar_path"`
		TablePrefix    string        `json:"table_prefix"`
		MaxSourceBytes int           `json:"max_source_bytes"`
		CacheTTL       time.Duration `json:"cache_ttl"`
		CleanupFreq    time.Duration `json:"cleanup_freq"`
	} `json:"translator"`
	LogLevel string `json:"log_level"`
}

func Load() *Config {
	cfg := &Config{}

	// Database configuration
	cfg.Database.Enabled = getEnvBool("DB_ENABLED", false)
	cfg.Database.Host = getEnv("DB_HOST", "localhost")
	cfg.Database.Port = getEnv("DB_PORT", "5432")
	cfg.Database.User = getEnv("DB_USER", "postgres")
	cfg.Database.Password = getEnv("DB_PASSWORD", "")
	cfg.Database.Name = getEnv("DB_NAME", "transpiler")
	cfg.Database.SSLMode = getEnv("DB_SSLMODE", "disable")
	cfg.Database.SearchPath = getEnv("DB_SCHEMA", "public")

	// JWT configuration
	cfg.JWT.Secret = getEnv("JWT_SECRET", "your-secret-key")
	cfg.JWT.ExpiryPeriod = getEnvDuration("JWT_EXPIRY", time.Hour*24)

	// Server configuration
	cfg.Server.Port = getEnv("SERVER_PORT", "8080")
	cfg.Server.ReadTimeout = time.Second * 15
	cfg.Server.WriteTimeout = time.Second * 15
	cfg.Server.RequestTimeout = getEnvDuration("REQUEST_TIMEOUT", time.Second*30)
	cfg.Server.AllowedOrigins = []string{getEnv("CORS_ORIGIN", "*")}

	// Translator configuration
	cfg.Translator.GrammarPath = getEnv("GRAMMAR_PATH", "")
	cfg.Translator.TablePrefix = getEnv("TABLE_PREFIX", "transpiler_")
	cfg.Translator.MaxSourceBytes = getEnvInt("MAX_SOURCE_BYTES", 1<<20)
	cfg.Translator.CacheTTL = getEnvDuration("CACHE_TTL", 10*time.Minute)
	cfg.Translator.CleanupFreq = getEnvDuration("CACHE_CLEANUP", time.Minute)

	cfg.LogLevel = getEnv("LOG_LEVEL", "info")

	return cfg
}

// DSN is the keyword/value connection string used by gorm.
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s search_path=%s",
		c.Database.Host, c.Database.Port, c.Database.User, c.Database.Password,
		c.Database.Name, c.Database.SSLMode, c.Database.SearchPath,
	)
}

// DatabaseURL is the URL form used by pgx and lib/pq.
func (c *Config) DatabaseURL() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(c.Database.User, c.Database.Password),
		Host:   c.Database.Host + ":" + c.Database.Port,
		Path:   c.Database.Name,
	}
	q := u.Query()
	q.Set("sslmode", c.Database.SSLMode)
	q.Set("search_path", c.Database.SearchPath)
	u.RawQuery = q.Encode()
	return u.String()
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
