package config

import (
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/subosito/gotenv"
)

func LoadEnv(env string) {
	envFile := "config/envs/.env." + env
	if err := gotenv.Load(envFile); err != nil {
		slog.Warn("No .env file found, using OS environment")
	}
}

// ServerConfig holds everything the API server reads from the environment.
type ServerConfig struct {
	Addr          string
	SkraperPath   string
	ScrapeTimeout time.Duration
	NERModelPath  string
	NERModelDir   string

	ValkeyAddress string
	RawCacheTTL   time.Duration

	KafkaBroker string
	RunsTable   string
}

func Server() ServerConfig {
	return ServerConfig{
		Addr:          getEnv("SERVER_ADDR", ":8003"),
		SkraperPath:   getEnv("SKRAPER_PATH", "/usr/local/bin/skraper"),
		ScrapeTimeout: getDurationSeconds("SCRAPE_TIMEOUT", 30),
		NERModelPath:  os.Getenv("NER_MODEL_PATH"),
		NERModelDir:   getEnv("NER_MODEL_DIR", "./internal/transformers/models"),
		ValkeyAddress: os.Getenv("VALKEY_INIT_ADDRESS"),
		RawCacheTTL:   getDurationSeconds("RAW_CACHE_TTL", 300),
		KafkaBroker:   os.Getenv("KAFKA_BOOTSTRAP_SERVERS"),
		RunsTable:     os.Getenv("SCRAPE_RUNS_TABLE"),
	}
}

func getEnv(key, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return defaultValue
}

func getDurationSeconds(key string, defaultSeconds int) time.Duration {
	seconds, err := strconv.Atoi(os.Getenv(key))
	if err != nil || seconds <= 0 {
		seconds = defaultSeconds
	}
	return time.Duration(seconds) * time.Second
}
