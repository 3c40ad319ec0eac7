package db

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

var DB *sql.DB
var currentDriver string

type Config struct {
	Driver   string
	Host     string
	Port     string
	User     string
	Password string
	Database string
	SSLMode  string

	// Fallback is tried when the primary database cannot be reached.
	Fallback *Config
}

func GetConfigFromEnv() Config {
	driver := os.Getenv("DB_DRIVER")
	if driver == "" {
		driver = "pgx"
	}

	config := Config{
		Driver:   driver,
		Host:     getEnvWithDefault("DB_HOST", "localhost"),
		Port:     getEnvWithDefault("DB_PORT", "5432"),
		User:     getEnvWithDefault("DB_USER", "postgres"),
		Password: getEnvWithDefault("DB_PASSWORD", "postgres"),
		Database: getEnvWithDefault("DB_NAME", "despacho"),
		SSLMode:  getEnvWithDefault("DB_SSLMODE", "disable"),
	}

	if altHost := os.Getenv("DB_HOST_ALT"); altHost != "" {
		config.Fallback = &Config{
			Driver:   driver,
			Host:     altHost,
			Port:     getEnvWithDefault("DB_PORT_ALT", config.Port),
			User:     os.Getenv("DB_USER_ALT"),
			Password: os.Getenv("DB_PASSWORD_ALT"),
			Database: os.Getenv("DB_NAME_ALT"),
			SSLMode:  config.SSLMode,
		}
	}

	return config
}

func getEnvWithDefault(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func Connect() error {
	config := GetConfigFromEnv()
	return ConnectWithConfig(config)
}

// ConnectWithConfig opens the primary database and, if that fails, each
// fallback in turn. The returned error wraps ErrStorageUnavailable when no
// candidate could be reached.
func ConnectWithConfig(config Config) error {
	var failures []string

	for candidate := &config; candidate != nil; candidate = candidate.Fallback {
		if candidate.Driver != "sqlite" && (candidate.User == "" || candidate.Database == "") {
			failures = append(failures, fmt.Sprintf("%s: credentials not configured", candidate.Host))
			continue
		}

		conn, err := open(*candidate)
		if err != nil {
			failures = append(failures, err.Error())
			continue
		}

		DB = conn
		currentDriver = candidate.Driver
		return nil
	}

	return fmt.Errorf("%w: %s", ErrStorageUnavailable, strings.Join(failures, "; "))
}

func open(config Config) (*sql.DB, error) {
	var dsn string

	if config.Driver == "sqlite" {
		dsn = config.Database
		if dsn == "" {
			dsn = ":memory:"
		}
		if !strings.Contains(dsn, "?") {
			dsn += "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
		}
	} else {
		dsn = fmt.Sprintf(
			"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
			config.Host, config.Port, config.User, config.Password, config.Database, config.SSLMode,
		)
	}

	conn, err := sql.Open(config.Driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err = conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if config.Driver == "sqlite" {
		// One connection keeps an in-memory database alive and serializes writers.
		conn.SetMaxOpenConns(1)
		conn.SetMaxIdleConns(1)
		conn.SetConnMaxLifetime(0)
	} else {
		conn.SetMaxOpenConns(25)
		conn.SetMaxIdleConns(5)
	}

	return conn, nil
}

func Close() error {
	if DB != nil {
		return DB.Close()
	}
	return nil
}

func GetDB() *sql.DB {
	return DB
}

func IsSQLite() bool {
	return currentDriver == "sqlite"
}

// Ping reports whether the database answers; it never panics on a nil handle.
func Ping() error {
	if DB == nil {
		return errors.New("database not connected")
	}
	return DB.Ping()
}
