// Package config reads service configuration from the environment
// (optionally seeded from a .env file) and depot coverage from YAML.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const DefaultRouteServiceURL = "https://us-central1-dpduk-s-test-d1.cloudfunctions.net/parcels"

type Config struct {
	RouteServiceURL   string
	RouteServiceToken string
	Concurrency       int
	MaxAttempts       int
	Backoff           time.Duration
	HTTPTimeout       time.Duration
	RateLimit         float64

	DepotsFile  string
	ParcelsFile string
	OutputDir   string
	Store       string
	DatabaseURL string
	RedisURL    string
	RedisTTL    time.Duration

	MetricsAddr string
	Schedule    string
	LogLevel    string
	Port        string
}

// Load builds a Config from environment variables.
// The route service token is taken from ROUTE_SERVICE_TOKEN or, failing that,
// from the JSON file named by ROUTE_SERVICE_TOKEN_FILE.
func Load() (Config, error) {
	cfg := Config{
		RouteServiceURL: strings.TrimRight(Get("ROUTE_SERVICE_URL", DefaultRouteServiceURL), "/"),
		DepotsFile:      Get("DEPOTS_FILE", ""),
		ParcelsFile:     Get("PARCELS_FILE", "parcels.csv"),
		OutputDir:       Get("OUTPUT_DIR", "."),
		Store:           strings.ToLower(Get("STORE", "file")),
		DatabaseURL:     Get("DATABASE_URL", ""),
		RedisURL:        Get("REDIS_URL", ""),
		MetricsAddr:     Get("METRICS_ADDR", ""),
		Schedule:        Get("SCHEDULE", ""),
		LogLevel:        Get("LOG_LEVEL", "info"),
		Port:            Get("PORT", "8080"),
	}

	var err error
	if cfg.Concurrency, err = GetInt("ROUTE_CONCURRENCY", 10); err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	if cfg.Concurrency < 1 {
		return Config{}, fmt.Errorf("load config: ROUTE_CONCURRENCY must be positive, got %d", cfg.Concurrency)
	}

	if cfg.MaxAttempts, err = GetInt("ROUTE_MAX_ATTEMPTS", 10); err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	if cfg.MaxAttempts < 1 {
		return Config{}, fmt.Errorf("load config: ROUTE_MAX_ATTEMPTS must be positive, got %d", cfg.MaxAttempts)
	}

	if cfg.Backoff, err = GetDuration("ROUTE_BACKOFF", time.Second); err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}

	if cfg.HTTPTimeout, err = GetDuration("ROUTE_HTTP_TIMEOUT", 10*time.Second); err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}

	if cfg.RateLimit, err = GetFloat("ROUTE_RATE_LIMIT", 0); err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}

	if cfg.RedisTTL, err = GetDuration("REDIS_TTL", 0); err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}

	switch cfg.Store {
	case "file", "postgres", "redis":
	default:
		return Config{}, fmt.Errorf("load config: unknown STORE %q (want file, postgres or redis)", cfg.Store)
	}

	token := strings.TrimSpace(os.Getenv("ROUTE_SERVICE_TOKEN"))
	if token == "" {
		token, err = LoadToken(Get("ROUTE_SERVICE_TOKEN_FILE", "token.json"))
		if err != nil {
			return Config{}, fmt.Errorf("load config: %w", err)
		}
	}
	cfg.RouteServiceToken = token

	return cfg, nil
}

// LoadToken reads an authorization token file of the form {"Authorization": "<token>"}.
func LoadToken(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("load token: read %q: %w", path, err)
	}

	var doc struct {
		Authorization string `json:"Authorization"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return "", fmt.Errorf("load token: parse %q: %w", path, err)
	}

	token := strings.TrimSpace(doc.Authorization)
	if token == "" {
		return "", errors.New("load token: file has no 'Authorization' property")
	}

	return token, nil
}

func Get(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func GetInt(key string, fallback int) (int, error) {
	v := Get(key, "")
	if v == "" {
		return fallback, nil
	}

	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func GetFloat(key string, fallback float64) (float64, error) {
	v := Get(key, "")
	if v == "" {
		return fallback, nil
	}

	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return f, nil
}

func GetDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := Get(key, "")
	if v == "" {
		return fallback, nil
	}

	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}
