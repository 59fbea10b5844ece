package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

const minSecretKeyLength = 32

var insecureSecretKeys = map[string]struct{}{
	"change_me_in_production":                    {},
	"replace_with_at_least_32_random_characters": {},
}

type Config struct {
	SecretKey            string
	Port                 string
	Location             *time.Location
	DBPath               string
	CookieSecure         bool
	LogLevel             string
	Environment          string
	RequestTimeout       time.Duration
	RoleGrantAttempts    int
	StrictStepValidation bool
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	if err := LoadEnvFile(); err != nil {
		return nil, err
	}
	return FromEnv()
}

// LoadEnvFile merges .env into the process environment when the file exists.
// Variables already set in the environment win.
func LoadEnvFile() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}
	return nil
}

// DBPath is the only setting maintenance commands need.
func DBPath() string {
	return getEnv("DB_PATH", filepath.Join("data", "landtrust.db"))
}

func FromEnv() (*Config, error) {
	secretKey, err := resolveSecretKey()
	if err != nil {
		return nil, err
	}
	port, err := resolvePort()
	if err != nil {
		return nil, err
	}
	location, err := resolveLocation()
	if err != nil {
		return nil, err
	}
	requestTimeout, err := getEnvAsDuration("REQUEST_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}
	attempts, err := getEnvAsInt("ROLE_GRANT_ATTEMPTS", 3)
	if err != nil {
		return nil, err
	}
	if attempts < 1 {
		return nil, fmt.Errorf("ROLE_GRANT_ATTEMPTS must be at least 1, got %d", attempts)
	}
	cookieSecure, err := getEnvAsBool("COOKIE_SECURE", false)
	if err != nil {
		return nil, err
	}
	strictSteps, err := getEnvAsBool("STRICT_STEP_VALIDATION", false)
	if err != nil {
		return nil, err
	}

	return &Config{
		SecretKey:            secretKey,
		Port:                 port,
		Location:             location,
		DBPath:               DBPath(),
		CookieSecure:         cookieSecure,
		LogLevel:             strings.ToLower(getEnv("LOG_LEVEL", "info")),
		Environment:          getEnv("APP_ENV", "development"),
		RequestTimeout:       requestTimeout,
		RoleGrantAttempts:    attempts,
		StrictStepValidation: strictSteps,
	}, nil
}

// LogFields describes the loaded configuration without secrets.
func (cfg *Config) LogFields() []zap.Field {
	return []zap.Field{
		zap.String("environment", cfg.Environment),
		zap.String("port", cfg.Port),
		zap.String("db_path", cfg.DBPath),
		zap.String("tz", cfg.Location.String()),
		zap.Bool("cookie_secure", cfg.CookieSecure),
		zap.Duration("request_timeout", cfg.RequestTimeout),
		zap.Int("role_grant_attempts", cfg.RoleGrantAttempts),
		zap.Bool("strict_step_validation", cfg.StrictStepValidation),
	}
}

func resolveSecretKey() (string, error) {
	secretKey := strings.TrimSpace(os.Getenv("SECRET_KEY"))
	if secretKey == "" {
		return "", errors.New("SECRET_KEY is required")
	}
	if _, insecure := insecureSecretKeys[secretKey]; insecure {
		return "", errors.New("SECRET_KEY uses an insecure placeholder value")
	}
	if len(secretKey) < minSecretKeyLength {
		return "", fmt.Errorf("SECRET_KEY must be at least %d characters", minSecretKeyLength)
	}
	return secretKey, nil
}

func resolvePort() (string, error) {
	raw := getEnv("PORT", "8080")
	port, err := strconv.Atoi(raw)
	if err != nil || port < 1 || port > 65535 {
		return "", fmt.Errorf("invalid PORT %q", raw)
	}
	return strconv.Itoa(port), nil
}

func resolveLocation() (*time.Location, error) {
	name := getEnv("TZ", "UTC")
	location, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("invalid TZ %q: %w", name, err)
	}
	return location, nil
}

func getEnv(key string, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}

func getEnvAsInt(key string, fallback int) (int, error) {
	raw := getEnv(key, "")
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", key, raw)
	}
	return value, nil
}

func getEnvAsBool(key string, fallback bool) (bool, error) {
	raw := getEnv(key, "")
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("invalid %s %q", key, raw)
	}
	return value, nil
}

func getEnvAsDuration(key string, fallback time.Duration) (time.Duration, error) {
	raw := getEnv(key, "")
	if raw == "" {
		return fallback, nil
	}
	value, err := time.ParseDuration(raw)
	if err != nil || value <= 0 {
		return 0, fmt.Errorf("invalid %s %q", key, raw)
	}
	return value, nil
}
