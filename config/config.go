package config

import (
	"fmt"
	"log"
	"time"

	"github.com/spf13/viper"
)

// Config holds the full application configuration loaded from environment variables or .env file.
//
// It is composed of smaller structs that represent different concerns of the system,
// such as the upstream API, the series builder, the response cache and persistence.
//
// Example ENV equivalent:
//
//	COINGECKO_BASE_URL=https://api.coingecko.com/api/v3
//	VS_CURRENCY=eur
//	CACHE_ENABLED=true
//	REDIS_ADDR=localhost:6379
//	PERSIST_ENABLED=true
//	POSTGRES_HOST=localhost
type Config struct {
	CoinGecko CoinGeckoConfig // upstream market data API
	Analysis  AnalysisConfig  // date validation and series building
	Cache     CacheConfig     // redis response cache
	Persist   bool            // store runs in PostgreSQL
	Postgres  PostgresConfig  // PostgreSQL connection settings
}

// CoinGeckoConfig describes how the market chart is requested.
type CoinGeckoConfig struct {
	BaseURL    string
	APIKey     string
	Timeout    time.Duration
	Currency   string
	EndPadding time.Duration // added to the end date so its data is included
}

// AnalysisConfig holds switches for the calendar and the series builder.
type AnalysisConfig struct {
	SnapToClosest     bool
	RejectFutureDates bool
}

// CacheConfig holds the redis connection used to cache upstream responses.
type CacheConfig struct {
	Enabled  bool
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// PostgresConfig defines connection details for PostgreSQL.
//
// Fields:
//   - Host: hostname of the database server.
//   - Port: port number of the database server (default 5432).
//   - User: username for authentication.
//   - Password: password for authentication.
//   - DBName: target database name.
//   - SSLMode: SSL mode (e.g., "disable", "require").
//   - URL: computed DSN used by database/sql to connect.
type PostgresConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
	URL      string
}

// DSN builds the database/sql connection string from the individual fields.
func (p PostgresConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		p.User,
		p.Password,
		p.Host,
		p.Port,
		p.DBName,
		p.SSLMode,
	)
}

// AppConfig is the globally accessible configuration instance.
//
// It is populated once via LoadConfig() and used throughout the application.
var AppConfig Config

// LoadConfig initializes the global AppConfig by reading from .env file
// or directly from environment variables.
//
// Precedence (from lowest to highest):
//  1. Defaults set in this function.
//  2. Values from .env file (if present).
//  3. Environment variables.
//
// Fatal exit:
//   - If required variables are missing, validateConfig() will terminate the app
//     with a descriptive log message.
func LoadConfig() {
	viper.SetDefault("COINGECKO_BASE_URL", "https://api.coingecko.com/api/v3")
	viper.SetDefault("COINGECKO_API_KEY", "")
	viper.SetDefault("COINGECKO_TIMEOUT", "30s")
	viper.SetDefault("VS_CURRENCY", "eur")
	viper.SetDefault("END_PADDING", "6h")

	viper.SetDefault("SNAP_TO_CLOSEST", false)
	viper.SetDefault("REJECT_FUTURE_DATES", false)

	viper.SetDefault("CACHE_ENABLED", false)
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("CACHE_TTL", "1h")

	viper.SetDefault("PERSIST_ENABLED", false)
	viper.SetDefault("POSTGRES_HOST", "localhost")
	viper.SetDefault("POSTGRES_PORT", 5432)
	viper.SetDefault("POSTGRES_USER", "postgres")
	viper.SetDefault("POSTGRES_PASSWORD", "postgres")
	viper.SetDefault("POSTGRES_DB", "coinpulse")
	viper.SetDefault("POSTGRES_SSLMODE", "disable")

	// Optionally read from .env if present (common in local dev)
	viper.SetConfigFile(".env")
	_ = viper.ReadInConfig() // ignore error if no .env

	viper.AutomaticEnv()

	AppConfig = Config{
		CoinGecko: CoinGeckoConfig{
			BaseURL:    viper.GetString("COINGECKO_BASE_URL"),
			APIKey:     viper.GetString("COINGECKO_API_KEY"),
			Timeout:    viper.GetDuration("COINGECKO_TIMEOUT"),
			Currency:   viper.GetString("VS_CURRENCY"),
			EndPadding: viper.GetDuration("END_PADDING"),
		},
		Analysis: AnalysisConfig{
			SnapToClosest:     viper.GetBool("SNAP_TO_CLOSEST"),
			RejectFutureDates: viper.GetBool("REJECT_FUTURE_DATES"),
		},
		Cache: CacheConfig{
			Enabled:  viper.GetBool("CACHE_ENABLED"),
			Addr:     viper.GetString("REDIS_ADDR"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
			TTL:      viper.GetDuration("CACHE_TTL"),
		},
		Persist: viper.GetBool("PERSIST_ENABLED"),
		Postgres: PostgresConfig{
			Host:     viper.GetString("POSTGRES_HOST"),
			Port:     viper.GetInt("POSTGRES_PORT"),
			User:     viper.GetString("POSTGRES_USER"),
			Password: viper.GetString("POSTGRES_PASSWORD"),
			DBName:   viper.GetString("POSTGRES_DB"),
			SSLMode:  viper.GetString("POSTGRES_SSLMODE"),
		},
	}

	// Construct Postgres DSN (used by database/sql)
	AppConfig.Postgres.URL = AppConfig.Postgres.DSN()

	validateConfig()
}

// missingKeys lists required settings that are empty. Postgres and redis
// settings are only required when the feature using them is enabled.
func missingKeys(c Config) []string {
	var missing []string

	if c.CoinGecko.BaseURL == "" {
		missing = append(missing, "COINGECKO_BASE_URL")
	}
	if c.CoinGecko.Currency == "" {
		missing = append(missing, "VS_CURRENCY")
	}
	if c.CoinGecko.Timeout <= 0 {
		missing = append(missing, "COINGECKO_TIMEOUT")
	}
	if c.Cache.Enabled && c.Cache.Addr == "" {
		missing = append(missing, "REDIS_ADDR")
	}
	if c.Persist {
		if c.Postgres.Host == "" {
			missing = append(missing, "POSTGRES_HOST")
		}
		if c.Postgres.Port == 0 {
			missing = append(missing, "POSTGRES_PORT")
		}
		if c.Postgres.User == "" {
			missing = append(missing, "POSTGRES_USER")
		}
		if c.Postgres.DBName == "" {
			missing = append(missing, "POSTGRES_DB")
		}
	}
	return missing
}

// validateConfig terminates the application if required settings are missing.
func validateConfig() {
	if missing := missingKeys(AppConfig); len(missing) > 0 {
		log.Fatalf("missing required environment variables: %v\n", missing)
	}
}
