package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/honeynil/bankfront/internal/infrastructure/observability"
	"github.com/honeynil/bankfront/internal/models"
	pkgerrors "github.com/honeynil/bankfront/pkg/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const (
	insertActivityQuery = `INSERT INTO activities (id, phone, type, amount, counterparty, request_id, success, message, created_at) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) ON CONFLICT (id) DO NOTHING`
	listActivityQuery   = `SELECT id, phone, type, amount, counterparty, request_id, success, message, created_at FROM activities WHERE phone = $1 ORDER BY created_at DESC LIMIT $2`

	defaultActivityLimit = 50
)

const activitySchema = `
	CREATE TABLE IF NOT EXISTS activities (
		id           TEXT PRIMARY KEY,
		phone        TEXT NOT NULL,
		type         TEXT NOT NULL,
		amount       TEXT NOT NULL DEFAULT '',
		counterparty TEXT NOT NULL DEFAULT '',
		request_id   TEXT NOT NULL DEFAULT '',
		success      BOOLEAN NOT NULL,
		message      TEXT NOT NULL DEFAULT '',
		created_at   TIMESTAMPTZ NOT NULL
	);
	CREATE INDEX IF NOT EXISTS activities_phone_created_at ON activities (phone, created_at DESC)
`

// EnsureSchema creates the activities table when it does not exist.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, activitySchema); err != nil {
		return fmt.Errorf("failed to create activities schema: %w", err)
	}
	return nil
}

type PostgresActivityRepository struct {
	db *sql.DB
}

func NewPostgresActivityRepository(db *sql.DB) *PostgresActivityRepository {
	return &PostgresActivityRepository{db: db}
}

// Create stores one event. Redelivered events with a known id are ignored.
func (r *PostgresActivityRepository) Create(ctx context.Context, a *models.Activity) error {
	var err error
	tracer := otel.Tracer("activity-repository")
	ctx, span := tracer.Start(ctx, "CreateActivity")
	defer span.End()

	start := time.Now()
	defer func() {
		status := "success"
		if err != nil {
			status = "error"
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		observability.RepositoryCalls.WithLabelValues("CreateActivity", status).Inc()
		observability.RepositoryDuration.WithLabelValues("CreateActivity").Observe(time.Since(start).Seconds())
	}()

	if a == nil {
		err = pkgerrors.ErrNilActivity
		slog.Error("failed to create activity", "method", "Create", "error", err)
		return err
	}

	if a.ID == "" || a.Phone == "" || !a.Type.Valid() {
		err = pkgerrors.ErrInvalidInput
		slog.Error("invalid activity", "method", "Create", "id", a.ID, "type", a.Type, "error", err)
		return err
	}

	span.SetAttributes(
		attribute.String("id", a.ID),
		attribute.String("type", string(a.Type)),
		attribute.Bool("success", a.Success),
	)

	createdAt := a.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	_, err = r.db.ExecContext(ctx, insertActivityQuery,
		a.ID, a.Phone, a.Type, a.Amount, a.Counterparty, a.RequestID, a.Success, a.Message, createdAt)
	if err != nil {
		slog.Error("failed to create activity", "method", "Create", "id", a.ID, "type", a.Type, "error", err)
		return fmt.Errorf("failed to create activity: %w", err)
	}

	a.CreatedAt = createdAt
	slog.Info("activity created", "method", "Create", "id", a.ID, "type", a.Type)
	return nil
}

// ListByPhone returns the newest events of one user first.
func (r *PostgresActivityRepository) ListByPhone(ctx context.Context, phone string, limit int) ([]models.Activity, error) {
	var err error
	tracer := otel.Tracer("activity-repository")
	ctx, span := tracer.Start(ctx, "ListActivityByPhone")
	defer span.End()

	start := time.Now()
	defer func() {
		status := "success"
		if err != nil {
			status = "error"
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		observability.RepositoryCalls.WithLabelValues("ListActivityByPhone", status).Inc()
		observability.RepositoryDuration.WithLabelValues("ListActivityByPhone").Observe(time.Since(start).Seconds())
	}()

	if limit <= 0 {
		limit = defaultActivityLimit
	}

	rows, err := r.db.QueryContext(ctx, listActivityQuery, phone, limit)
	if err != nil {
		slog.Error("failed to list activity", "method", "ListByPhone", "error", err)
		return nil, fmt.Errorf("failed to list activity: %w", err)
	}
	defer rows.Close()

	out := []models.Activity{}
	for rows.Next() {
		var a models.Activity
		if err = rows.Scan(&a.ID, &a.Phone, &a.Type, &a.Amount, &a.Counterparty, &a.RequestID, &a.Success, &a.Message, &a.CreatedAt); err != nil {
			slog.Error("failed to scan activity", "method", "ListByPhone", "error", err)
			return nil, fmt.Errorf("failed to scan activity: %w", err)
		}
		out = append(out, a)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list activity: %w", err)
	}

	slog.Info("activity listed", "method", "ListByPhone", "count", len(out))
	return out, nil
}
