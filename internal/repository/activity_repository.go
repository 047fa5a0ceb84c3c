package repository

import (
	"context"

	"github.com/honeynil/bankfront/internal/models"
)

//go:generate mockgen -destination=mocks/mock_activity_repository.go -package=mocks . ActivityRepository

type ActivityRepository interface {
	Create(ctx context.Context, a *models.Activity) error
	ListByPhone(ctx context.Context, phone string, limit int) ([]models.Activity, error)
}
