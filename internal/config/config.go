package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Port   string
	DBPath string

	// Table bindings are resolved once at startup; query code never
	// reads the environment or interpolates caller input into SQL.
	TablePlaces    string
	TableRelations string
	TableDyna      string

	NoiseRatio float64 // prediction mock noise amplitude

	OpenAIKey   string
	OpenAIModel string

	SessionTTL time.Duration
}

// Load reads configuration from the environment
func Load() *Config {
	// A local .env is optional, same as the data tooling expects.
	_ = godotenv.Load()

	cfg := &Config{
		Port:           getEnv("PORT", ":8080"),
		DBPath:         getEnv("DB_PATH", "./data/geo_points.db"),
		TablePlaces:    getEnv("TABLE_PLACES", "places"),
		TableRelations: getEnv("TABLE_RELATIONS", "relations"),
		TableDyna:      getEnv("TABLE_DYNA", "dyna"),
		OpenAIKey:      os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:    getEnv("OPENAI_MODEL", "gpt-4o-mini"),
	}

	cfg.NoiseRatio = getEnvFloat("NOISE_RATIO", 0.03)

	ttlMinutes := getEnvInt("SESSION_TTL_MINUTES", 60)
	cfg.SessionTTL = time.Duration(ttlMinutes) * time.Minute

	return cfg
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
