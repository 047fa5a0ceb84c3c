package main

import (
	"context"
	"database/sql"
	"log"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/honeynil/bankfront/internal/config"
	"github.com/honeynil/bankfront/internal/infrastructure/kafka"
	"github.com/honeynil/bankfront/internal/observability"
	core "github.com/honeynil/bankfront/internal/repository/postgres"
	_ "github.com/lib/pq"
)

const groupID = "bankfront-activity"

// activity-worker drains the activity topic into Postgres.
func main() {
	cfg := config.Load()

	shutdown := observability.Setup("bankfront-activity-worker", cfg)
	defer shutdown(context.Background())

	if len(cfg.KafkaBrokers) == 0 {
		log.Fatal("KAFKA_BROKER is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Подключаемся к Postgres
	db, err := sql.Open("postgres", cfg.PostgresDSN)
	if err != nil {
		log.Fatalf("Failed to connect to Postgres: %v", err)
	}
	defer db.Close()
	if err := core.EnsureSchema(ctx, db); err != nil {
		log.Fatalf("Failed to prepare activity schema: %v", err)
	}

	consumer := kafka.NewConsumer(cfg.KafkaBrokers, cfg.ActivityTopic, groupID, core.NewPostgresActivityRepository(db))
	defer consumer.Close()

	slog.Info("activity worker started", "topic", cfg.ActivityTopic, "brokers", cfg.KafkaBrokers)
	consumer.Consume(ctx)
}
