package config

import (
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	SessionStoreRedis  = "redis"
	SessionStoreMemory = "memory"
)

type Config struct {
	BankAPIURL     string
	BankAPITimeout time.Duration
	HTTPAddr       string
	MetricsAddr    string
	SessionStore   string
	SessionTTL     time.Duration
	RedisAddr      string
	KafkaBrokers   []string
	ActivityTopic  string
	JWTSecret      string
	PostgresDSN    string
	OTLPEndpoint   string
	Location       *time.Location
	LogLevel       string
	CLIStatePath   string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file, using environment", "error", err)
	}

	cfg := &Config{
		BankAPIURL:     getEnv("BANK_API_URL", "https://rutg.pythonanywhere.com"),
		BankAPITimeout: getDuration("BANK_API_TIMEOUT", 10*time.Second),
		HTTPAddr:       getEnv("HTTP_ADDR", ":8080"),
		MetricsAddr:    os.Getenv("METRICS_ADDR"),
		SessionStore:   getEnv("SESSION_STORE", SessionStoreRedis),
		SessionTTL:     getDuration("SESSION_TTL", 24*time.Hour),
		RedisAddr:      getEnv("REDIS_ADDR", "localhost:6379"),
		KafkaBrokers:   parseCSV(os.Getenv("KAFKA_BROKER")),
		ActivityTopic:  getEnv("ACTIVITY_TOPIC", "bank-activity"),
		JWTSecret:      getEnv("JWT_SECRET", "supersecret"),
		PostgresDSN:    getEnv("POSTGRES_DSN", "host=localhost user=postgres password=postgres dbname=bankfront sslmode=disable"),
		OTLPEndpoint:   os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		CLIStatePath:   os.Getenv("BANKCLI_STATE"),
	}

	tz := getEnv("TIMEZONE", "Asia/Jerusalem")
	loc, err := time.LoadLocation(tz)
	if err != nil {
		slog.Warn("unknown timezone, using UTC", "timezone", tz, "error", err)
		loc = time.UTC
	}
	cfg.Location = loc

	slog.Info("config loaded",
		"bank_api_url", cfg.BankAPIURL,
		"http_addr", cfg.HTTPAddr,
		"session_store", cfg.SessionStore,
		"redis_addr", cfg.RedisAddr,
		"kafka_brokers", cfg.KafkaBrokers,
		"timezone", loc.String())
	return cfg
}

func getEnv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func getDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		slog.Warn("invalid duration, using default", "key", key, "value", v, "default", def)
		return def
	}
	return d
}

func parseCSV(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
