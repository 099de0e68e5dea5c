package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port               string
	MongoURI           string
	DBName             string
	FirebaseKeyData    string // service account JSON
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	RequestTimeout     time.Duration
	// DotenvLoaded reports whether a .env file was read.
	DotenvLoaded bool
}

// ValidationError lists every missing or malformed setting.
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("configuration validation failed:\n  - %s", strings.Join(e.Errors, "\n  - "))
}

// Load reads .env (if present) and the process environment.
func Load() (*Config, error) {
	dotenvErr := godotenv.Load()

	cfg := &Config{
		DotenvLoaded:       dotenvErr == nil,
		Port:               getEnv("PORT", "8080"),
		MongoURI:           os.Getenv("MONGO_URI"),
		DBName:             getEnv("DB_NAME", "noteful"),
		FirebaseKeyData:    os.Getenv("KEY_DATA"),
		Environment:        getEnv("GO_ENV", "development"),
		LogFilePath:        os.Getenv("LOG_FILE_PATH"),
		CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "*"),
	}

	var problems []string
	timeout, err := time.ParseDuration(getEnv("REQUEST_TIMEOUT", "10s"))
	if err != nil || timeout <= 0 {
		problems = append(problems, "REQUEST_TIMEOUT must be a positive duration")
	}
	cfg.RequestTimeout = timeout

	if cfg.MongoURI == "" {
		problems = append(problems, "MONGO_URI environment variable not set")
	}
	if cfg.FirebaseKeyData == "" {
		problems = append(problems, "KEY_DATA environment variable not set")
	}
	if len(problems) > 0 {
		return nil, &ValidationError{Errors: problems}
	}
	return cfg, nil
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// AllowedOrigins splits CorsAllowedOrigins on commas.
func (c *Config) AllowedOrigins() []string {
	var origins []string
	for _, o := range strings.Split(c.CorsAllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}
