package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/api-sage/paper-trading-engine/src/internal/logger"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

const defaultConnectionString = "Host=localhost;Port=5432;Database=paper_trading_db;Username=postgres;Password=postgres;Timeout=30;CommandTimeout=30"
const defaultDatabaseDriver = "postgres"
const defaultSQLitePath = "finance.db"
const defaultHTTPAddr = ":8080"
const defaultInitialCash = "10000.00"
const defaultCurrency = "USD"
const defaultQuoteProvider = "yahoo"
const defaultQuoteTimeout = 8 * time.Second
const defaultTokenTTL = 24 * time.Hour
const devJWTSecret = "paper-trading-dev-secret"

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMemory   = "memory"
)

const (
	QuoteProviderYahoo        = "yahoo"
	QuoteProviderAlphaVantage = "alphavantage"
	QuoteProviderStatic       = "static"
)

type Config struct {
	DatabaseDriver     string
	DatabaseDSN        string
	SQLitePath         string
	MigrationsDir      string
	HTTPAddr           string
	JWTSecret          string
	TokenTTL           time.Duration
	InitialCash        decimal.Decimal
	Currency           string
	QuoteProvider      string
	QuoteTimeout       time.Duration
	AlphaVantageAPIKey string
	StaticQuotes       string
	LogLevel           string
}

// Load reads configuration from the environment. A .env file in the working
// directory is applied first when present; variables already set win.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env file: %w", err)
	}

	driver := strings.ToLower(envOrDefault("DATABASE_DRIVER", defaultDatabaseDriver))
	switch driver {
	case DriverPostgres, DriverSQLite, DriverMemory:
	default:
		return Config{}, fmt.Errorf("DATABASE_DRIVER must be one of postgres, sqlite, memory")
	}

	initialCash, err := decimal.NewFromString(envOrDefault("INITIAL_CASH", defaultInitialCash))
	if err != nil {
		return Config{}, fmt.Errorf("INITIAL_CASH must be a valid number: %w", err)
	}
	if initialCash.IsNegative() {
		return Config{}, fmt.Errorf("INITIAL_CASH cannot be negative")
	}

	tokenTTL, err := durationOrDefault("TOKEN_TTL", defaultTokenTTL)
	if err != nil {
		return Config{}, err
	}

	quoteTimeout, err := durationOrDefault("QUOTE_TIMEOUT", defaultQuoteTimeout)
	if err != nil {
		return Config{}, err
	}

	quoteProvider := strings.ToLower(envOrDefault("QUOTE_PROVIDER", defaultQuoteProvider))
	alphaVantageKey := strings.TrimSpace(os.Getenv("ALPHAVANTAGE_API_KEY"))
	switch quoteProvider {
	case QuoteProviderYahoo, QuoteProviderStatic:
	case QuoteProviderAlphaVantage:
		if alphaVantageKey == "" {
			return Config{}, fmt.Errorf("ALPHAVANTAGE_API_KEY is required for the alphavantage quote provider")
		}
	default:
		return Config{}, fmt.Errorf("QUOTE_PROVIDER must be one of yahoo, alphavantage, static")
	}

	jwtSecret := strings.TrimSpace(os.Getenv("JWT_SECRET"))
	if jwtSecret == "" {
		if driver != DriverMemory {
			return Config{}, fmt.Errorf("JWT_SECRET is required for the %s driver", driver)
		}
		jwtSecret = devJWTSecret
		logger.Info("config using development token secret", logger.Fields{
			"driver": driver,
		})
	}

	return Config{
		DatabaseDriver:     driver,
		DatabaseDSN:        normalizeConnectionString(envOrDefault("DATABASE_DSN", defaultConnectionString)),
		SQLitePath:         envOrDefault("SQLITE_PATH", defaultSQLitePath),
		MigrationsDir:      envOrDefault("MIGRATIONS_DIR", filepath.Join("src", "migrations")),
		HTTPAddr:           envOrDefault("HTTP_ADDR", defaultHTTPAddr),
		JWTSecret:          jwtSecret,
		TokenTTL:           tokenTTL,
		InitialCash:        initialCash,
		Currency:           strings.ToUpper(envOrDefault("CURRENCY", defaultCurrency)),
		QuoteProvider:      quoteProvider,
		QuoteTimeout:       quoteTimeout,
		AlphaVantageAPIKey: alphaVantageKey,
		StaticQuotes:       strings.TrimSpace(os.Getenv("STATIC_QUOTES")),
		LogLevel:           envOrDefault("LOG_LEVEL", "info"),
	}, nil
}

func envOrDefault(key string, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}

func durationOrDefault(key string, fallback time.Duration) (time.Duration, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback, nil
	}

	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be a duration such as 30s: %w", key, err)
	}
	if parsed <= 0 {
		return 0, fmt.Errorf("%s must be greater than zero", key)
	}
	return parsed, nil
}

func normalizeConnectionString(raw string) string {
	if strings.HasPrefix(raw, "postgres://") || strings.HasPrefix(raw, "postgresql://") {
		return raw
	}

	parts := strings.Split(raw, ";")
	out := make([]string, 0, len(parts))
	hasSSLMode := false

	for _, part := range parts {
		p := strings.TrimSpace(part)
		if p == "" {
			continue
		}

		kv := strings.SplitN(p, "=", 2)
		if len(kv) != 2 {
			continue
		}

		key := strings.ToLower(strings.TrimSpace(kv[0]))
		val := strings.TrimSpace(kv[1])

		switch key {
		case "host":
			out = append(out, "host="+val)
		case "port":
			out = append(out, "port="+val)
		case "database":
			out = append(out, "dbname="+val)
		case "username":
			out = append(out, "user="+val)
		case "password":
			out = append(out, "password="+val)
		case "timeout", "connect timeout":
			out = append(out, "connect_timeout="+val)
		case "commandtimeout", "command timeout":
			out = append(out, "statement_timeout="+val+"s")
		case "sslmode":
			hasSSLMode = true
			out = append(out, "sslmode="+val)
		default:
			out = append(out, key+"="+val)
		}
	}

	if len(out) == 0 {
		return raw
	}

	if !hasSSLMode {
		out = append(out, "sslmode=disable")
	}

	return strings.Join(out, " ")
}
