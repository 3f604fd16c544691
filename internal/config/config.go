package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	StorageDriverPostgres = "postgres"
	StorageDriverMongo    = "mongo"
)

// Config - структура для хранения конфигурации приложения
type Config struct {
	StorageDriver   string `env:"STORAGE_DRIVER" envDefault:"postgres"`
	DatabaseURL     string `env:"DATABASE_URL"`
	MongoURI        string `env:"MONGODB_URI"`
	MongoDatabase   string `env:"MONGODB_DATABASE" envDefault:"civic_issues"`
	MigrationsPath  string `env:"MIGRATIONS_PATH" envDefault:"file://migrations"`
	HTTPPort        string `env:"HTTP_PORT" envDefault:"8080"`
	LogLevel        string `env:"LOG_LEVEL" envDefault:"info"`
	ShutdownTimeout time.Duration

	// Redis Config
	RedisAddr string        `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPass string        `env:"REDIS_PASSWORD"`
	RedisDB   int           `env:"REDIS_DB" envDefault:"0"`
	CacheTTL  time.Duration `env:"CACHE_TTL" envDefault:"5m"`

	// Events Config
	EventQueueKey    string        `env:"EVENT_QUEUE_KEY" envDefault:"issue_events"`
	BroadcastChannel string        `env:"BROADCAST_CHANNEL" envDefault:"issue_broadcast"`
	EventSinkTimeout time.Duration `env:"EVENT_SINK_TIMEOUT" envDefault:"5s"`

	// Webhook Config
	WebhookURL         string        `env:"WEBHOOK_URL"`
	WebhookSecret      string        `env:"WEBHOOK_SECRET"`
	WebhookTimeout     time.Duration `env:"WEBHOOK_TIMEOUT" envDefault:"5s"`
	WebhookMaxRetries  int           `env:"WEBHOOK_MAX_RETRIES" envDefault:"3"`
	WebhookBaseDelay   time.Duration `env:"WEBHOOK_BASE_DELAY" envDefault:"1s"`
	WebhookConcurrency int64         `env:"WEBHOOK_CONCURRENCY" envDefault:"4"`

	// Auth Config
	JWTSecret      string        `env:"JWT_SECRET"`
	JWTTTL         time.Duration `env:"JWT_TTL" envDefault:"168h"`
	IssueRateLimit int           `env:"ISSUE_RATE_LIMIT" envDefault:"10"`
	CORSOrigins    []string      `env:"CORS_ORIGINS"`

	// API Keys for authentication
	APIKeys []string `env:"API_KEYS"`
}

// LoadConfig загружает конфигурацию из переменных окружения и .env файла
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("ошибка загрузки файла .env: %w", err)
	}

	cfg := &Config{
		StorageDriver:      strings.ToLower(getEnv("STORAGE_DRIVER", StorageDriverPostgres)),
		DatabaseURL:        os.Getenv("DATABASE_URL"),
		MongoURI:           os.Getenv("MONGODB_URI"),
		MongoDatabase:      getEnv("MONGODB_DATABASE", "civic_issues"),
		MigrationsPath:     getEnv("MIGRATIONS_PATH", "file://migrations"),
		HTTPPort:           getEnv("HTTP_PORT", "8080"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		ShutdownTimeout:    getEnvAsDuration("SHUTDOWN_TIMEOUT", 5*time.Second),
		RedisAddr:          getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPass:          os.Getenv("REDIS_PASSWORD"),
		RedisDB:            getEnvAsInt("REDIS_DB", 0),
		CacheTTL:           getEnvAsDuration("CACHE_TTL", 5*time.Minute),
		EventQueueKey:      getEnv("EVENT_QUEUE_KEY", "issue_events"),
		BroadcastChannel:   getEnv("BROADCAST_CHANNEL", "issue_broadcast"),
		EventSinkTimeout:   getEnvAsDuration("EVENT_SINK_TIMEOUT", 5*time.Second),
		WebhookURL:         os.Getenv("WEBHOOK_URL"),
		WebhookSecret:      os.Getenv("WEBHOOK_SECRET"),
		WebhookTimeout:     getEnvAsDuration("WEBHOOK_TIMEOUT", 5*time.Second),
		WebhookMaxRetries:  getEnvAsInt("WEBHOOK_MAX_RETRIES", 3),
		WebhookBaseDelay:   getEnvAsDuration("WEBHOOK_BASE_DELAY", time.Second),
		WebhookConcurrency: int64(getEnvAsInt("WEBHOOK_CONCURRENCY", 4)),
		JWTSecret:          os.Getenv("JWT_SECRET"),
		JWTTTL:             getEnvAsDuration("JWT_TTL", 7*24*time.Hour),
		IssueRateLimit:     getEnvAsInt("ISSUE_RATE_LIMIT", 10),
		CORSOrigins:        getEnvAsList("CORS_ORIGINS"),
		APIKeys:            getEnvAsList("API_KEYS"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.StorageDriver {
	case StorageDriverPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL environment variable is required")
		}
	case StorageDriverMongo:
		if c.MongoURI == "" {
			return fmt.Errorf("MONGODB_URI environment variable is required")
		}
	default:
		return fmt.Errorf("unsupported STORAGE_DRIVER %q", c.StorageDriver)
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET environment variable is required")
	}
	if c.WebhookMaxRetries < 1 {
		c.WebhookMaxRetries = 1
	}
	if c.WebhookConcurrency < 1 {
		c.WebhookConcurrency = 1
	}
	return nil
}

// getEnv возвращает значение переменной окружения или значение по умолчанию
func getEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsInt возвращает значение переменной окружения как int или значение по умолчанию
func getEnvAsInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvAsDuration возвращает значение переменной окружения как time.Duration или значение по умолчанию
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if durationValue, err := time.ParseDuration(value); err == nil {
			return durationValue
		}
	}
	return defaultValue
}

// getEnvAsList разбирает список через запятую, пустые элементы отбрасываются
func getEnvAsList(key string) []string {
	raw := os.Getenv(key)
	if raw == "" {
		return nil
	}
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
