package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Proxy    ProxyConfig
	Airtable AirtableConfig
	Sync     SyncConfig
	Storage  StorageConfig
	CORS     CORSConfig
}

type ProxyConfig struct {
	Port string
	Host string
	Env  string
}

type AirtableConfig struct {
	BaseID   string
	APIKey   string
	APIURL   string
	ProxyURL string
}

type SyncConfig struct {
	DebounceWindow time.Duration
	PollInterval   time.Duration
}

type StorageConfig struct {
	Path string
}

type CORSConfig struct {
	AllowedOrigins string
	AllowedMethods string
	AllowedHeaders string
}

func Load() (*Config, error) {
	godotenv.Load()

	return &Config{
		Proxy: ProxyConfig{
			Port: getEnv("PORT", "8080"),
			Host: getEnv("HOST", "0.0.0.0"),
			Env:  getEnv("ENV", "development"),
		},
		Airtable: AirtableConfig{
			BaseID:   getEnv("AIRTABLE_BASE_ID", ""),
			APIKey:   getEnv("AIRTABLE_API_KEY", ""),
			APIURL:   getEnv("AIRTABLE_API_URL", "https://api.airtable.com/v0"),
			ProxyURL: getEnv("WEEDOO_PROXY_URL", "http://localhost:8080/api/airtable"),
		},
		Sync: SyncConfig{
			DebounceWindow: getEnvAsDuration("SYNC_DEBOUNCE_WINDOW", 3*time.Second),
			PollInterval:   getEnvAsDuration("SYNC_POLL_INTERVAL", 30*time.Second),
		},
		Storage: StorageConfig{
			Path: getEnv("WEEDOO_DB_PATH", defaultDBPath()),
		},
		CORS: CORSConfig{
			AllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "*"),
			AllowedMethods: getEnv("CORS_ALLOWED_METHODS", "GET,POST,OPTIONS"),
			AllowedHeaders: getEnv("CORS_ALLOWED_HEADERS", "Content-Type"),
		},
	}, nil
}

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "weedoo.db"
	}
	return filepath.Join(home, ".weedoo", "weedoo.db")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}
