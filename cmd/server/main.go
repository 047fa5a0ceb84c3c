package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/honeynil/bankfront/internal/api"
	"github.com/honeynil/bankfront/internal/config"
	"github.com/honeynil/bankfront/internal/handler"
	"github.com/honeynil/bankfront/internal/infrastructure/auth"
	"github.com/honeynil/bankfront/internal/infrastructure/bankapi"
	"github.com/honeynil/bankfront/internal/infrastructure/kafka"
	"github.com/honeynil/bankfront/internal/infrastructure/redis"
	"github.com/honeynil/bankfront/internal/normalize"
	"github.com/honeynil/bankfront/internal/observability"
	"github.com/honeynil/bankfront/internal/repository"
	core "github.com/honeynil/bankfront/internal/repository/postgres"
	service "github.com/honeynil/bankfront/internal/services"
	"github.com/honeynil/bankfront/internal/session"
	_ "github.com/lib/pq"
)

func main() {
	cfg := config.Load()

	// Инициализируем логи, метрики, трейсы
	shutdown := observability.Setup("bankfront", cfg)
	defer shutdown(context.Background())

	ctx := context.Background()

	// Хранилище сессий
	stores, closeStores := sessionStores(ctx, cfg)
	defer closeStores()
	sessions := session.NewManager(stores, cfg.SessionTTL)

	// Журнал действий: Kafka на запись, Postgres на чтение
	var publisher kafka.ActivityPublisher = kafka.NopPublisher{}
	if len(cfg.KafkaBrokers) > 0 {
		producer := kafka.NewProducer(cfg.KafkaBrokers, cfg.ActivityTopic)
		defer producer.Close()
		publisher = producer
	} else {
		slog.Info("KAFKA_BROKER not set, activity publishing disabled")
	}

	var activityRepo repository.ActivityRepository
	if db := openActivityDB(ctx, cfg.PostgresDSN); db != nil {
		defer db.Close()
		activityRepo = core.NewPostgresActivityRepository(db)
	}

	// Инициализируем сервис
	client := bankapi.NewClient(cfg.BankAPIURL, cfg.BankAPITimeout)
	svc := service.NewBankService(client, normalize.New(cfg.Location), publisher, activityRepo)
	sessions.OnEvict(svc.ForgetSession)

	issuer, err := auth.NewIssuer(cfg.JWTSecret, cfg.SessionTTL)
	if err != nil {
		log.Fatalf("Failed to create session issuer: %v", err)
	}

	// Настраиваем роутер
	router := api.SetupRouter(handler.NewHandler(svc, cfg.Location), issuer, sessions)

	// Запускаем сервер
	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		slog.Info("starting server", "addr", cfg.HTTPAddr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Graceful shutdown
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server shutdown failed: %v", err)
	}
	slog.Info("server stopped")
}

func sessionStores(ctx context.Context, cfg *config.Config) (session.StoreFactory, func()) {
	if cfg.SessionStore == config.SessionStoreMemory {
		slog.Warn("using in-memory sessions, they will not survive a restart")
		return func(string) session.Store { return session.NewMemoryStore() }, func() {}
	}
	client, err := redis.NewClient(ctx, cfg.RedisAddr)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	return func(id string) session.Store {
		return session.NewRedisStore(client, id, cfg.SessionTTL)
	}, func() { client.Close() }
}

// openActivityDB returns nil when the activity log database is unreachable;
// the server then runs without GET /activity.
func openActivityDB(ctx context.Context, dsn string) *sql.DB {
	if dsn == "" {
		return nil
	}
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		slog.Warn("activity database disabled", "error", err)
		return nil
	}
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		slog.Warn("activity database disabled", "error", err)
		db.Close()
		return nil
	}
	return db
}
