package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds runtime configuration values for the API service.
type Config struct {
	AppName          string
	AppEnv           string
	AppPort          string
	DatabaseURL      string
	RedisURL         string
	NATSURL          string
	OllamaURL        string
	OllamaModel      string
	OllamaTimeout    time.Duration
	GradingWorkers   int
	GradingQueueSize int
	ProgressCacheTTL time.Duration
}

// HTTPAddress returns the address the HTTP server should listen on.
func (c Config) HTTPAddress() string {
	if strings.HasPrefix(c.AppPort, ":") {
		return c.AppPort
	}

	return fmt.Sprintf(":%s", c.AppPort)
}

// Load reads configuration values from environment variables and optional .env file.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("EDUAI")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "EduAI Companion API")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")
	v.SetDefault("ollama.url", "http://localhost:11434")
	v.SetDefault("ollama.model", "llama3:8b")
	v.SetDefault("ollama.timeout", "120s")
	v.SetDefault("grading.workers", 2)
	v.SetDefault("grading.queue_size", 64)
	v.SetDefault("progress.cache_ttl", "5m")

	timeout, err := time.ParseDuration(v.GetString("ollama.timeout"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid ollama timeout: %w", err)
	}

	cacheTTL, err := time.ParseDuration(v.GetString("progress.cache_ttl"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid progress cache ttl: %w", err)
	}

	cfg := Config{
		AppName:          v.GetString("app.name"),
		AppEnv:           v.GetString("app.env"),
		AppPort:          v.GetString("app.port"),
		DatabaseURL:      v.GetString("database.url"),
		RedisURL:         v.GetString("redis.url"),
		NATSURL:          v.GetString("nats.url"),
		OllamaURL:        v.GetString("ollama.url"),
		OllamaModel:      v.GetString("ollama.model"),
		OllamaTimeout:    timeout,
		GradingWorkers:   v.GetInt("grading.workers"),
		GradingQueueSize: v.GetInt("grading.queue_size"),
		ProgressCacheTTL: cacheTTL,
	}

	if cfg.GradingWorkers <= 0 {
		cfg.GradingWorkers = 2
	}

	if cfg.GradingQueueSize <= 0 {
		cfg.GradingQueueSize = 64
	}

	return cfg, nil
}
