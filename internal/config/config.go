package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"recommender/internal/recommender"
)

type Config struct {
	// Recommendation API
	RecommenderAPIURL string
	ShopID            string
	APIKey            string
	SendTimeout       time.Duration
	StatusCacheTTL    time.Duration

	// Delivery log
	DatabaseURL string

	// Kafka
	KafkaBrokers  string
	KafkaTopic    string
	KafkaGroupID  string
	KafkaUsername string
	KafkaPassword string

	// "sync" forwards inline, "async" publishes to Kafka for the worker
	ForwardMode string

	// API Configuration
	APIPort     string
	APIHost     string
	CORSOrigins string

	// Environment
	Env      string
	LogLevel string
}

const (
	ForwardModeSync  = "sync"
	ForwardModeAsync = "async"
)

func Load() (*Config, error) {
	// Load .env file
	godotenv.Load()

	return &Config{
		RecommenderAPIURL: getEnv("RECOMMENDER_API_URL", "https://api.stacc.cloud"),
		ShopID:            getEnv("SHOP_ID", ""),
		APIKey:            getEnv("API_KEY", ""),
		SendTimeout:       time.Duration(getEnvAsInt("SEND_TIMEOUT_MS", 5000)) * time.Millisecond,
		StatusCacheTTL:    time.Duration(getEnvAsInt("STATUS_CACHE_TTL_SECONDS", 30)) * time.Second,
		DatabaseURL:       getEnv("DATABASE_URL", ""),
		KafkaBrokers:      getEnv("KAFKA_BROKERS", "localhost:9092"),
		KafkaTopic:        getEnv("KAFKA_TOPIC", "storefront-events"),
		KafkaGroupID:      getEnv("KAFKA_GROUP_ID", "recommender-worker"),
		KafkaUsername:     getEnv("KAFKA_USERNAME", ""),
		KafkaPassword:     getEnv("KAFKA_PASSWORD", ""),
		ForwardMode:       strings.ToLower(getEnv("FORWARD_MODE", ForwardModeSync)),
		APIPort:           getEnv("API_PORT", "8080"),
		APIHost:           getEnv("API_HOST", "0.0.0.0"),
		CORSOrigins:       getEnv("CORS_ORIGINS", "*"),
		Env:               getEnv("ENV", "development"),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
	}, nil
}

// Credentials returns the shop credentials used to sign outbound events.
func (c *Config) Credentials() recommender.Credentials {
	return recommender.Credentials{
		ShopID: c.ShopID,
		APIKey: c.APIKey,
	}
}

// Brokers splits the comma-separated KAFKA_BROKERS value.
func (c *Config) Brokers() []string {
	return splitList(c.KafkaBrokers)
}

// AllowedOrigins splits the comma-separated CORS_ORIGINS value.
func (c *Config) AllowedOrigins() []string {
	return splitList(c.CORSOrigins)
}

func (c *Config) Async() bool {
	return c.ForwardMode == ForwardModeAsync
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
