package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port           string
	DatabaseURL    string
	AllowedOrigins []string
	JWTSecret      string
	TokenTTL       time.Duration
	RequireToken   bool
	DemoMode       bool
	LTA            LTAConfig
}

// LTAConfig points the fare proxy at the upstream LTA fare calculator.
type LTAConfig struct {
	BaseURL    string
	MRTFareURL string
	BusFareURL string
	Timeout    time.Duration
	IndexTTL   time.Duration
}

func Load() Config {
	// Load .env file if present
	_ = godotenv.Load()

	cfg, err := FromEnv()
	if err != nil {
		log.Fatal(err)
	}
	return cfg
}

// FromEnv builds a Config from the process environment without touching .env.
func FromEnv() (Config, error) {
	ltaBase := strings.TrimRight(getEnv("LTA_BASE_URL", "https://www.lta.gov.sg/map/fareCalculator"), "/")

	cfg := Config{
		Port:           getEnv("PORT", "8000"),
		DatabaseURL:    getEnv("DATABASE_URL", ""),
		AllowedOrigins: splitList(getEnv("ALLOWED_ORIGINS", "*")),
		JWTSecret:      getEnv("JWT_SECRET", ""),
		LTA: LTAConfig{
			BaseURL:    ltaBase,
			MRTFareURL: getEnv("LTA_MRT_FARE_URL", ltaBase+"/mrtFareCalc"),
			BusFareURL: getEnv("LTA_BUS_FARE_URL", ltaBase+"/busFareCalc"),
		},
	}

	if cfg.DatabaseURL == "" {
		return Config{}, fmt.Errorf("DATABASE_URL is required")
	}

	var err error
	if cfg.TokenTTL, err = getDuration("TOKEN_TTL", 168*time.Hour); err != nil {
		return Config{}, err
	}
	if cfg.LTA.Timeout, err = getDuration("LTA_TIMEOUT", 10*time.Second); err != nil {
		return Config{}, err
	}
	if cfg.LTA.IndexTTL, err = getDuration("LTA_INDEX_TTL", 6*time.Hour); err != nil {
		return Config{}, err
	}
	if cfg.RequireToken, err = getBool("REQUIRE_TOKEN", false); err != nil {
		return Config{}, err
	}
	if cfg.DemoMode, err = getBool("DEMO_MODE", false); err != nil {
		return Config{}, err
	}

	if cfg.RequireToken && cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("JWT_SECRET is required when REQUIRE_TOKEN is set")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func getBool(key string, fallback bool) (bool, error) {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return b, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
