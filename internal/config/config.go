package config

import (
	"errors"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port               string
	DatabaseURL        string
	JWTSecret          string
	TokenTTL           time.Duration
	RateLimitPerMinute int
	RateLimitBurst     int
}

// Load reads the server configuration from the environment. The listen
// port and signing secret have no defaults: starting without them is a
// deployment mistake and must abort.
func Load() (Config, error) {
	port := os.Getenv("PORT")
	if port == "" {
		return Config{}, errors.New("PORT is required")
	}
	if _, err := strconv.Atoi(port); err != nil {
		return Config{}, errors.New("PORT must be a number")
	}

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return Config{}, errors.New("JWT_SECRET is required")
	}

	return Config{
		Port:               port,
		DatabaseURL:        os.Getenv("DATABASE_URL"),
		JWTSecret:          secret,
		TokenTTL:           readDuration("TOKEN_TTL", 7*24*time.Hour),
		RateLimitPerMinute: readInt("RATE_LIMIT_PER_MIN", 300),
		RateLimitBurst:     readInt("RATE_LIMIT_BURST", 60),
	}, nil
}

func readInt(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}

func readDuration(key string, fallback time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	value, err := time.ParseDuration(raw)
	if err != nil || value <= 0 {
		return fallback
	}
	return value
}
