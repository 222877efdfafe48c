package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all application configuration, loaded from the process
// environment (with an optional local .env file for development).
type Config struct {
	Environment string
	ServerPort  int

	DatabaseURL string

	SpotifyClientID         string
	SpotifyClientSecret     string
	SpotifyRedirectURI      string
	SpotifyRequestsPerSecond float64

	SessionSecret string
	FrontendURL   string
}

// LoadConfig loads configuration based on environment. In development it
// first loads a local .env file if present; in production the real
// environment is expected to already be populated and a missing .env
// file is not an error.
func LoadConfig() *Config {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "development"
	}
	if env != "production" {
		if err := godotenv.Load(); err != nil {
			fmt.Println("no .env file found, reading configuration from the environment directly")
		}
	}

	cfg := &Config{
		Environment:              env,
		ServerPort:               envInt("SERVER_PORT", 8080),
		DatabaseURL:              os.Getenv("DATABASE_URL"),
		SpotifyClientID:          os.Getenv("SPOTIFY_CLIENT_ID"),
		SpotifyClientSecret:      os.Getenv("SPOTIFY_CLIENT_SECRET"),
		SpotifyRedirectURI:       os.Getenv("SPOTIFY_REDIRECT_URI"),
		SpotifyRequestsPerSecond: envFloat("SPOTIFY_REQUESTS_PER_SECOND", 10),
		SessionSecret:            os.Getenv("SESSION_SECRET"),
		FrontendURL:              os.Getenv("FRONTEND_URL"),
	}

	fmt.Printf("loaded configuration for environment: %s\n", env)
	return cfg
}

func envInt(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}

func envFloat(key string, fallback float64) float64 {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fallback
	}
	return n
}
