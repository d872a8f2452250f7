package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config is the client-side configuration.
type Config struct {
	APIBaseURL  string
	DBPath      string
	SessionFile string
	LogLevel    string
	LogFormat   string
}

// ServerConfig configures the development stub server.
type ServerConfig struct {
	Addr        string
	JWTSecret   string
	JWTIssuer   string
	JWTDuration time.Duration
	RateRPS     float64
	RateBurst   int
	LogLevel    string
}

// Load reads the client configuration from the environment, honoring a local
// .env file when present.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		APIBaseURL:  getEnv("NOCTURNA_API_URL", "http://localhost:8080"),
		DBPath:      getEnv("NOCTURNA_DB_PATH", filepath.Join(dataDir(), "data.db")),
		SessionFile: getEnv("NOCTURNA_SESSION_FILE", filepath.Join(dataDir(), "session.json")),
		LogLevel:    getEnv("NOCTURNA_LOG_LEVEL", "info"),
		LogFormat:   getEnv("NOCTURNA_LOG_FORMAT", "console"),
	}
}

// LoadServer reads the stub server configuration from the environment.
func LoadServer() ServerConfig {
	_ = godotenv.Load()

	return ServerConfig{
		Addr:        getEnv("NOCTURNA_STUB_ADDR", ":8080"),
		JWTSecret:   getEnv("NOCTURNA_JWT_SECRET", "dev-secret-change-me"),
		JWTIssuer:   getEnv("NOCTURNA_JWT_ISSUER", "nocturna-stub"),
		JWTDuration: getEnvDuration("NOCTURNA_JWT_TTL", 24*time.Hour),
		RateRPS:     getEnvFloat("NOCTURNA_RATE_RPS", 20),
		RateBurst:   getEnvInt("NOCTURNA_RATE_BURST", 40),
		LogLevel:    getEnv("NOCTURNA_LOG_LEVEL", "info"),
	}
}

func dataDir() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		home = "."
	}
	return filepath.Join(home, ".nocturna")
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
