package config // package config loads application configuration from environment variables

import (
	"errors"  // errors detects a missing .env file
	"io/fs"   // fs provides the not-exist sentinel
	"log"     // log is used to report configuration errors and halt execution
	"os"      // os provides access to environment variables
	"strings" // strings normalizes enum-like settings

	"github.com/joho/godotenv" // godotenv loads a local .env file into the environment
)

// Supported values for DB_DRIVER.
const (
	DriverMySQL  = "mysql"
	DriverSQLite = "sqlite"
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.  Optional integrations (Redis, RabbitMQ) are
// configured in their own files and left disabled when unset.
type Config struct {
	Env        string // application environment (e.g. "dev", "prod")
	Port       string // HTTP port to listen on
	LogLevel   string // gommon log level name (DEBUG, INFO, WARN, ERROR, OFF)
	DBDriver   string // mysql or sqlite
	DBUser     string // database username
	DBPass     string // database password (optional)
	DBHost     string // database host address
	DBPort     string // database port number
	DBName     string // database name
	SQLitePath string // file path or DSN used when DBDriver is sqlite
	AMQPURL    string // RabbitMQ URL; empty disables event publishing
}

// Load reads .env (when present) and then the process environment.  Required
// variables are enforced by must() and missing values cause the program to
// exit with a fatal log message.
func Load() Config {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Printf("config: could not read .env: %v", err)
	}
	cfg := Config{
		Env:        must("APP_ENV"),                                   // environment (dev/test/prod)
		Port:       must("APP_PORT"),                                  // port to bind the HTTP server
		LogLevel:   strings.ToUpper(envStr("LOG_LEVEL", "INFO")),      // request and handler log level
		DBDriver:   strings.ToLower(envStr("DB_DRIVER", DriverMySQL)), // store backend
		DBPass:     os.Getenv("DB_PASS"),                              // database password (empty allowed)
		SQLitePath: envStr("SQLITE_PATH", "gig.db"),                   // sqlite database file
		AMQPURL:    AMQPURL(),                                         // broker for domain events
	}
	switch cfg.DBDriver {
	case DriverMySQL:
		cfg.DBUser = must("DB_USER")
		cfg.DBHost = must("DB_HOST")
		cfg.DBPort = must("DB_PORT")
		cfg.DBName = must("DB_NAME")
	case DriverSQLite:
	default:
		log.Fatalf("unsupported DB_DRIVER: %q", cfg.DBDriver)
	}
	return cfg
}

// AMQPURL returns the broker URL from RABBITMQ_URL or AMQP_URL.  Unlike the
// consumer, the API treats an unset URL as "publishing disabled".
func AMQPURL() string {
	if url := os.Getenv("RABBITMQ_URL"); url != "" {
		return url
	}
	return os.Getenv("AMQP_URL")
}

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}
