package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Bot update delivery modes.
const (
	ModePolling = "polling"
	ModeWebhook = "webhook"
)

type Config struct {
	Bot      BotConfig
	Server   ServerConfig
	Database DatabaseConfig
	Kafka    KafkaConfig
}

type BotConfig struct {
	// Token authenticates against the Bot API. Empty token is a fatal
	// startup condition; no events are processed without it.
	Token string
	// AdminIDs is the static allow-list for the /admin command.
	AdminIDs  []int64
	StoreName string
	// PaymentAddress is the placeholder LTC destination shown on every
	// order. A real deployment replaces this with an allocated address.
	PaymentAddress string
	Mode           string
	WebhookSecret  string
	PollTimeout    time.Duration
}

type ServerConfig struct {
	Addr         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

type DatabaseConfig struct {
	Path string
}

type KafkaConfig struct {
	Brokers []string
	Topic   string
	Enabled bool
}

func Load() *Config {
	return &Config{
		Bot: BotConfig{
			Token:          os.Getenv("BOT_TOKEN"),
			AdminIDs:       parseAdminIDs(os.Getenv("ADMIN_IDS")),
			StoreName:      getEnv("STORE_NAME", "ESCOBAR SHOP"),
			PaymentAddress: getEnv("LTC_ADDRESS", "LQjkT7V5iQnz8hZRwF8s9mNpKqRvS2tUwX"),
			Mode:           getEnv("TELEGRAM_MODE", ModePolling),
			WebhookSecret:  getEnv("WEBHOOK_SECRET", uuid.NewString()),
			PollTimeout:    time.Duration(getEnvInt("POLL_TIMEOUT_SECONDS", 30)) * time.Second,
		},
		Server: ServerConfig{
			Addr:         getEnv("HTTP_ADDR", ":8080"),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		Database: DatabaseConfig{
			Path: getEnv("DB_PATH", "bot.db"),
		},
		Kafka: KafkaConfig{
			Brokers: strings.Split(getEnv("KAFKA_BROKERS", "localhost:9092"), ","),
			Topic:   getEnv("KAFKA_TOPIC_ORDERS", "order-events"),
			Enabled: getEnvBool("KAFKA_ENABLED", false),
		},
	}
}

// parseAdminIDs reads a comma-separated int64 list, skipping blanks and
// garbage entries.
func parseAdminIDs(raw string) []int64 {
	var ids []int64
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
