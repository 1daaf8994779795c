package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// LoadENV loads .env when GO_ENV is unset or "development". A missing file is fine.
func LoadENV() error {
	goEnv := os.Getenv("GO_ENV")

	if goEnv == "" || goEnv == "development" {
		err := godotenv.Load()
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}

	return nil
}

const (
	CatalogSourceMemory   = "memory"
	CatalogSourcePostgres = "postgres"
)

type EnvironmentVariable struct {
	GO_ENV          string
	PORT            int
	ALLOWED_ORIGINS string
	LOG_LEVEL       string
	// Supabase
	SUPABASE_URL        string
	SUPABASE_ANON_KEY   string
	SUPABASE_JWT_SECRET string
	// Completion provider
	OPENAI_API_KEY  string
	OPENAI_BASE_URL string
	OPENAI_MODEL    string
	OPENAI_RPS      float64
	// Redis; empty means process-local cache
	REDIS_URL string
	// Catalog
	CATALOG_SOURCE     string
	CATALOG_LATENCY_MS int
	SEARCH_CACHE_TTL   time.Duration
	// Database, only used when CATALOG_SOURCE=postgres
	DB_USER_NAME string
	DB_PASSWORD  string
	DB_NAME      string
	DB_HOST      string
	DB_PORT      string
	DB_SSL_MODE  string
	// Chat
	CHAT_SESSION_TTL time.Duration
	// Rate limiting
	RATE_LIMIT_REQUESTS int
	RATE_LIMIT_WINDOW   time.Duration
	CRON_ENABLED        bool
}

func getOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func intOr(key string, fallback int) (int, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func Get() (*EnvironmentVariable, error) {
	port, err := strconv.Atoi(os.Getenv("PORT"))
	if err != nil {
		port = 8080
	}

	latency, err := intOr("CATALOG_LATENCY_MS", 0)
	if err != nil {
		return nil, err
	}
	cacheTTL, err := intOr("SEARCH_CACHE_TTL_SECONDS", 300)
	if err != nil {
		return nil, err
	}
	sessionTTL, err := intOr("CHAT_SESSION_TTL_MINUTES", 30)
	if err != nil {
		return nil, err
	}
	rateRequests, err := intOr("RATE_LIMIT_REQUESTS", 100)
	if err != nil {
		return nil, err
	}
	rateWindow, err := intOr("RATE_LIMIT_WINDOW_SECONDS", 60)
	if err != nil {
		return nil, err
	}

	rps := 5.0
	if raw := os.Getenv("OPENAI_RPS"); raw != "" {
		rps, err = strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("OPENAI_RPS: %w", err)
		}
	}

	source := strings.ToLower(getOr("CATALOG_SOURCE", CatalogSourceMemory))
	if source != CatalogSourceMemory && source != CatalogSourcePostgres {
		return nil, fmt.Errorf("CATALOG_SOURCE: unknown source %q", source)
	}

	envVariables := &EnvironmentVariable{
		GO_ENV:          os.Getenv("GO_ENV"),
		PORT:            port,
		ALLOWED_ORIGINS: getOr("ALLOWED_ORIGINS", "http://localhost:5173"),
		LOG_LEVEL:       os.Getenv("LOG_LEVEL"),
		// Supabase
		SUPABASE_URL:        getOr("SUPABASE_URL", "https://your-project.supabase.co"),
		SUPABASE_ANON_KEY:   getOr("SUPABASE_ANON_KEY", "your-anon-key"),
		SUPABASE_JWT_SECRET: os.Getenv("SUPABASE_JWT_SECRET"),
		// Completion provider
		OPENAI_API_KEY:  getOr("OPENAI_API_KEY", "your-openai-key"),
		OPENAI_BASE_URL: os.Getenv("OPENAI_BASE_URL"),
		OPENAI_MODEL:    os.Getenv("OPENAI_MODEL"),
		OPENAI_RPS:      rps,
		// Redis
		REDIS_URL: os.Getenv("REDIS_URL"),
		// Catalog
		CATALOG_SOURCE:     source,
		CATALOG_LATENCY_MS: latency,
		SEARCH_CACHE_TTL:   time.Duration(cacheTTL) * time.Second,
		// Database
		DB_USER_NAME: os.Getenv("DB_USER_NAME"),
		DB_PASSWORD:  os.Getenv("DB_PASSWORD"),
		DB_NAME:      os.Getenv("DB_NAME"),
		DB_HOST:      getOr("DB_HOST", "localhost"),
		DB_PORT:      getOr("DB_PORT", "5432"),
		DB_SSL_MODE:  getOr("DB_SSL_MODE", "disable"),
		// Chat
		CHAT_SESSION_TTL: time.Duration(sessionTTL) * time.Minute,
		// Rate limiting
		RATE_LIMIT_REQUESTS: rateRequests,
		RATE_LIMIT_WINDOW:   time.Duration(rateWindow) * time.Second,
		CRON_ENABLED:        os.Getenv("CRON_ENABLED") != "false",
	}

	return envVariables, nil
}

// IsProduction reports whether GO_ENV selects production behaviour
func (e *EnvironmentVariable) IsProduction() bool {
	return e.GO_ENV == "production" || e.GO_ENV == "prod"
}
