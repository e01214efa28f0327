// Package config provides configuration management for the todolist service.
// It handles loading and validation of configuration values from environment variables,
// with support for required variables, default values, and collective error reporting.
// In Nest.js, the `@nestjs/config` module serves a similar purpose.
package config

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"

	"github.com/user/todolist-go/apperror"
)

// StorageDriver selects the persistence backend for users and todos.
type StorageDriver string

const (
	// DriverPostgres stores everything in PostgreSQL through pgxpool.
	DriverPostgres StorageDriver = "postgres"
	// DriverMemory keeps everything in process memory; data is lost on restart.
	DriverMemory StorageDriver = "memory"
)

// minJWTSecretBytes is the shortest HS256 secret we accept.
const minJWTSecretBytes = 32

// DatabaseConfig represents configuration for the database connection pool.
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
	MaxSize  int
}

// DSN builds a postgres:// URL usable by both pgx and golang-migrate.
// Credentials are escaped, so passwords may contain any character.
func (c *DatabaseConfig) DSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     net.JoinHostPort(c.Host, strconv.Itoa(c.Port)),
		Path:     "/" + c.DBName,
		RawQuery: url.Values{"sslmode": {c.SSLMode}}.Encode(),
	}
	return u.String()
}

// AuthConfig holds authentication-related configuration.
type AuthConfig struct {
	JWTSecret           string        // Secret key for signing JWTs, never empty
	AccessTokenDuration time.Duration // Lifetime of issued access tokens
}

// PasswordConfig holds Argon2id cost parameters.
type PasswordConfig struct {
	MemoryKiB   uint32
	Iterations  uint32
	Parallelism uint8
}

// ServerConfig holds server-related configuration.
type ServerConfig struct {
	Port           string   // Port for the HTTP server
	AllowedOrigins []string // CORS allow-list
}

// AppConfig is the top-level configuration structure for the application.
type AppConfig struct {
	Storage  StorageDriver
	DB       *DatabaseConfig
	Auth     *AuthConfig
	Password *PasswordConfig
	Server   *ServerConfig
	LogLevel string
}

// Helper function to get a required environment variable.
// Appends an error to errs if the variable is not set or blank.
func getRequiredEnv(key string, errs *[]error) string {
	value, exists := os.LookupEnv(key)
	if !exists || strings.TrimSpace(value) == "" {
		*errs = append(*errs, fmt.Errorf("missing required environment variable: %s", key))
		return ""
	}
	return value
}

// Helper function to get an optional environment variable with a default string value.
func getOptionalEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return defaultValue
}

// Helper function to get an optional environment variable parsed as an int.
// Uses defaultValue if not set or if parsing fails. Appends an error if parsing fails.
func getOptionalEnvInt(key string, defaultValue int, errs *[]error) int {
	valueStr, exists := os.LookupEnv(key)
	if !exists || valueStr == "" {
		return defaultValue
	}
	valueInt, err := strconv.Atoi(valueStr)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("invalid value for %s: expected integer, got '%s': %w", key, valueStr, err))
		return defaultValue
	}
	return valueInt
}

// Helper function to get an optional environment variable parsed as time.Duration.
// `time.ParseDuration` expects a string like "15m", "24h".
func getOptionalEnvDuration(key string, defaultValue time.Duration, errs *[]error) time.Duration {
	valueStr, exists := os.LookupEnv(key)
	if !exists || valueStr == "" {
		return defaultValue
	}
	valueDuration, err := time.ParseDuration(valueStr)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("invalid value for %s: expected duration string, got '%s': %w", key, valueStr, err))
		return defaultValue
	}
	if valueDuration <= 0 {
		*errs = append(*errs, fmt.Errorf("invalid value for %s: duration must be positive, got '%s'", key, valueStr))
		return defaultValue
	}
	return valueDuration
}

// getOptionalEnvList splits a comma separated variable, dropping blanks.
func getOptionalEnvList(key string, defaultValue []string) []string {
	valueStr, exists := os.LookupEnv(key)
	if !exists || strings.TrimSpace(valueStr) == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(valueStr, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// clampInt keeps a value within [lo, hi], reporting when it had to clamp.
func clampInt(name string, v, lo, hi int, errs *[]error) int {
	if v < lo || v > hi {
		*errs = append(*errs, fmt.Errorf("%s (%d) must be between %d and %d", name, v, lo, hi))
		if v < lo {
			return lo
		}
		return hi
	}
	return v
}

// LoadConfig creates and returns an AppConfig by reading and validating environment variables.
// It collects all errors encountered during loading and returns them together.
func LoadConfig() (*AppConfig, error) {
	var errs []error

	storage := StorageDriver(strings.ToLower(getOptionalEnv("STORAGE_DRIVER", string(DriverPostgres))))
	if storage != DriverPostgres && storage != DriverMemory {
		errs = append(errs, fmt.Errorf("invalid STORAGE_DRIVER %q: expected postgres or memory", storage))
	}

	// Database Configuration. Credentials only matter when Postgres is in use.
	dbCfg := &DatabaseConfig{
		Host:    getOptionalEnv("DB_HOST", "localhost"),
		Port:    getOptionalEnvInt("DB_PORT", 5432, &errs),
		SSLMode: getOptionalEnv("DB_SSLMODE", "disable"),
		MaxSize: clampInt("DB_POOL_SIZE", getOptionalEnvInt("DB_POOL_SIZE", 10, &errs), 1, 100, &errs),
	}
	if storage == DriverPostgres {
		dbCfg.User = getRequiredEnv("DB_USER", &errs)
		dbCfg.Password = getRequiredEnv("DB_PASSWORD", &errs)
		dbCfg.DBName = getRequiredEnv("DB_NAME", &errs)
	}

	// Auth Configuration
	jwtSecret := getRequiredEnv("JWT_SECRET", &errs)
	if jwtSecret != "" && len(jwtSecret) < minJWTSecretBytes {
		errs = append(errs, fmt.Errorf("JWT_SECRET must be at least %d bytes", minJWTSecretBytes))
	}
	authConfig := &AuthConfig{
		JWTSecret:           jwtSecret,
		AccessTokenDuration: getOptionalEnvDuration("JWT_ACCESS_TOKEN_DURATION", 1440*time.Minute, &errs),
	}

	// Password hashing cost
	passwordConfig := &PasswordConfig{
		MemoryKiB:   uint32(clampInt("ARGON2_MEMORY_KIB", getOptionalEnvInt("ARGON2_MEMORY_KIB", 64*1024, &errs), 8*1024, 1024*1024, &errs)),
		Iterations:  uint32(clampInt("ARGON2_ITERATIONS", getOptionalEnvInt("ARGON2_ITERATIONS", 3, &errs), 1, 10, &errs)),
		Parallelism: uint8(clampInt("ARGON2_PARALLELISM", getOptionalEnvInt("ARGON2_PARALLELISM", 2, &errs), 1, 16, &errs)),
	}

	// Server Configuration
	serverConfig := &ServerConfig{
		Port:           getOptionalEnv("PORT", "8080"),
		AllowedOrigins: getOptionalEnvList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:5173"}),
	}

	if len(errs) > 0 {
		return nil, apperror.NewConfigError("invalid configuration", multierror.Append(&multierror.Error{}, errs...))
	}

	return &AppConfig{
		Storage:  storage,
		DB:       dbCfg,
		Auth:     authConfig,
		Password: passwordConfig,
		Server:   serverConfig,
		LogLevel: getOptionalEnv("LOG_LEVEL", "info"),
	}, nil
}
