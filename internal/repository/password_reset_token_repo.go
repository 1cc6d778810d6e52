package repository

import (
	"context"
	"errors"

	"github.com/daniyarzhalgas/TripMate-backend/internal/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PasswordResetTokenRepository interface {
	Create(ctx context.Context, token *entity.PasswordResetToken) error
	FindByToken(ctx context.Context, token uuid.UUID) (*entity.PasswordResetToken, error)
	// FindByTokenForUpdate locks the row until the surrounding transaction ends.
	FindByTokenForUpdate(ctx context.Context, token uuid.UUID) (*entity.PasswordResetToken, error)
	Delete(ctx context.Context, token uuid.UUID) error
	// Consume deletes the token and returns ErrNotFound when it was already gone.
	Consume(ctx context.Context, token uuid.UUID) error
}

type passwordResetTokenRepository struct {
	db *gorm.DB
}

func NewPasswordResetTokenRepository(db *gorm.DB) PasswordResetTokenRepository {
	return &passwordResetTokenRepository{db: db}
}

func (r *passwordResetTokenRepository) Create(ctx context.Context, t *entity.PasswordResetToken) error {
	return conn(ctx, r.db).Create(t).Error
}

func (r *passwordResetTokenRepository) FindByToken(ctx context.Context, token uuid.UUID) (*entity.PasswordResetToken, error) {
	return r.find(conn(ctx, r.db), token)
}

func (r *passwordResetTokenRepository) FindByTokenForUpdate(ctx context.Context, token uuid.UUID) (*entity.PasswordResetToken, error) {
	return r.find(conn(ctx, r.db).Clauses(clause.Locking{Strength: "UPDATE"}), token)
}

func (r *passwordResetTokenRepository) find(db *gorm.DB, token uuid.UUID) (*entity.PasswordResetToken, error) {
	var record entity.PasswordResetToken
	err := db.
		Where("token = ?", token).
		First(&record).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *passwordResetTokenRepository) Delete(ctx context.Context, token uuid.UUID) error {
	return conn(ctx, r.db).
		Where("token = ?", token).
		Delete(&entity.PasswordResetToken{}).
		Error
}

func (r *passwordResetTokenRepository) Consume(ctx context.Context, token uuid.UUID) error {
	result := conn(ctx, r.db).
		Where("token = ?", token).
		Delete(&entity.PasswordResetToken{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
