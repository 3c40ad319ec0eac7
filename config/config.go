package config

import (
	"despacho-api/logger"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cast"
)

type SheetsConfig struct {
	APIKey         string `env:"GOOGLE_SHEETS_API_KEY"`
	SpreadsheetID  string `env:"GOOGLE_SHEETS_SPREADSHEET_ID"`
	RangeBitacora  string `env:"GOOGLE_SHEETS_RANGE_BITACORA"`
	RangeContactos string `env:"GOOGLE_SHEETS_RANGE_CONTACTOS"`
	BaseURL        string `env:"GOOGLE_SHEETS_BASE_URL"`
}

type Config struct {
	Environment      string        `env:"ENVIRONMENT"`
	Debug            bool          `env:"DEBUG"`
	Port             string        `env:"PORT"`
	AllowedOrigins   string        `env:"ALLOWED_ORIGINS"`
	RequestTimeout   time.Duration `env:"REQUEST_TIMEOUT"`
	BodyLimitMB      int           `env:"BODY_LIMIT_MB"`
	RateLimit        string        `env:"RATE_LIMIT"`
	RateLimitEnabled bool          `env:"RATE_LIMIT_ENABLED"`
	RedisURL         string        `env:"REDIS_URL"`
	Sheets           SheetsConfig
	Log              logger.LogConfig
}

var GlobalConfig *Config

// Load reads an optional .env file and then the process environment.
// Variables already set in the environment win over the file.
func Load() (*Config, error) {
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			log.Printf("Failed to load .env file: %v", err)
		}
	}

	GlobalConfig = FromEnv()
	return GlobalConfig, nil
}

func FromEnv() *Config {
	return &Config{
		Environment:      GetEnv("ENVIRONMENT", "development"),
		Debug:            GetBoolEnv("DEBUG", false),
		Port:             GetEnv("PORT", "8080"),
		AllowedOrigins:   GetEnv("ALLOWED_ORIGINS", "*"),
		RequestTimeout:   GetDurationEnv("REQUEST_TIMEOUT", 30*time.Second),
		BodyLimitMB:      GetIntEnv("BODY_LIMIT_MB", 4),
		RateLimit:        GetEnv("RATE_LIMIT", "100-H"),
		RateLimitEnabled: GetBoolEnv("RATE_LIMIT_ENABLED", true),
		RedisURL:         GetEnv("REDIS_URL", ""),
		Sheets: SheetsConfig{
			APIKey:         GetEnv("GOOGLE_SHEETS_API_KEY", ""),
			SpreadsheetID:  GetEnv("GOOGLE_SHEETS_SPREADSHEET_ID", ""),
			RangeBitacora:  GetEnv("GOOGLE_SHEETS_RANGE_BITACORA", "BITACORA!A1:O944"),
			RangeContactos: GetEnv("GOOGLE_SHEETS_RANGE_CONTACTOS", "Contactos!A1:H"),
			BaseURL:        GetEnv("GOOGLE_SHEETS_BASE_URL", "https://sheets.googleapis.com"),
		},
		Log: logger.LogConfig{
			Level:      GetEnv("LOG_LEVEL", "info"),
			Filename:   GetEnv("LOG_FILENAME", "stdout"),
			MaxSize:    GetIntEnv("LOG_MAX_SIZE", 100),
			MaxAge:     GetIntEnv("LOG_MAX_AGE", 30),
			MaxBackups: GetIntEnv("LOG_MAX_BACKUPS", 7),
		},
	}
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func (c *Config) BodyLimitBytes() int {
	return c.BodyLimitMB * 1024 * 1024
}

func GetEnv(key, defaultValue string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	return value
}

func GetIntEnv(key string, defaultValue int) int {
	value := GetEnv(key, "")
	if value == "" {
		return defaultValue
	}
	n, err := cast.ToIntE(value)
	if err != nil || n <= 0 {
		return defaultValue
	}
	return n
}

// GetBoolEnv accepts 1/0, true/false and yes/no in any case.
func GetBoolEnv(key string, defaultValue bool) bool {
	value := strings.ToLower(GetEnv(key, ""))
	switch value {
	case "":
		return defaultValue
	case "yes", "y", "on":
		return true
	case "no", "n", "off":
		return false
	}
	b, err := cast.ToBoolE(value)
	if err != nil {
		return defaultValue
	}
	return b
}

// GetDurationEnv accepts Go durations ("45s", "2m") or a bare number of
// seconds.
func GetDurationEnv(key string, defaultValue time.Duration) time.Duration {
	value := GetEnv(key, "")
	if value == "" {
		return defaultValue
	}
	if seconds, err := cast.ToIntE(value); err == nil {
		if seconds <= 0 {
			return defaultValue
		}
		return time.Duration(seconds) * time.Second
	}
	d, err := cast.ToDurationE(value)
	if err != nil || d <= 0 {
		return defaultValue
	}
	return d
}
