package repository

import (
	"context"

	"github.com/daniyarzhalgas/TripMate-backend/internal/entity"

	"gorm.io/gorm"
)

type AuthEventRepository interface {
	Log(ctx context.Context, event *entity.AuthEvent) error
	ListByEmail(ctx context.Context, email string, limit int) ([]entity.AuthEvent, error)
}

type authEventRepository struct {
	db *gorm.DB
}

func NewAuthEventRepository(db *gorm.DB) AuthEventRepository {
	return &authEventRepository{db: db}
}

func (r *authEventRepository) Log(ctx context.Context, event *entity.AuthEvent) error {
	return conn(ctx, r.db).Create(event).Error
}

func (r *authEventRepository) ListByEmail(ctx context.Context, email string, limit int) ([]entity.AuthEvent, error) {
	var events []entity.AuthEvent
	query := conn(ctx, r.db).Where("email = ?", email).Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}
