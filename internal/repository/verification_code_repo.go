package repository

import (
	"context"
	"errors"
	"time"

	"github.com/daniyarzhalgas/TripMate-backend/internal/entity"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type VerificationCodeRepository interface {
	Upsert(ctx context.Context, code *entity.VerificationCode) error
	FindByEmail(ctx context.Context, email string) (*entity.VerificationCode, error)
	// FindByEmailForUpdate locks the row until the surrounding transaction ends.
	FindByEmailForUpdate(ctx context.Context, email string) (*entity.VerificationCode, error)
	Exists(ctx context.Context, email string) (bool, error)
	UpdateCode(ctx context.Context, email string, code string, expiresAt time.Time) error
	Delete(ctx context.Context, email string) error
	// Consume deletes the code and returns ErrNotFound when it was already gone.
	Consume(ctx context.Context, email string) error
}

type verificationCodeRepository struct {
	db *gorm.DB
}

func NewVerificationCodeRepository(db *gorm.DB) VerificationCodeRepository {
	return &verificationCodeRepository{db: db}
}

func (r *verificationCodeRepository) Upsert(ctx context.Context, code *entity.VerificationCode) error {
	return conn(ctx, r.db).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "email"}},
			DoUpdates: clause.AssignmentColumns([]string{"code", "raw_password", "expires_at", "created_at"}),
		}).
		Create(code).Error
}

func (r *verificationCodeRepository) FindByEmail(ctx context.Context, email string) (*entity.VerificationCode, error) {
	return r.find(conn(ctx, r.db), email)
}

func (r *verificationCodeRepository) FindByEmailForUpdate(ctx context.Context, email string) (*entity.VerificationCode, error) {
	return r.find(conn(ctx, r.db).Clauses(clause.Locking{Strength: "UPDATE"}), email)
}

func (r *verificationCodeRepository) find(db *gorm.DB, email string) (*entity.VerificationCode, error) {
	var code entity.VerificationCode
	err := db.
		Where("email = ?", email).
		First(&code).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &code, nil
}

func (r *verificationCodeRepository) Exists(ctx context.Context, email string) (bool, error) {
	var count int64
	err := conn(ctx, r.db).
		Model(&entity.VerificationCode{}).
		Where("email = ?", email).
		Count(&count).Error
	return count > 0, err
}

func (r *verificationCodeRepository) UpdateCode(ctx context.Context, email string, code string, expiresAt time.Time) error {
	result := conn(ctx, r.db).
		Model(&entity.VerificationCode{}).
		Where("email = ?", email).
		Updates(map[string]any{"code": code, "expires_at": expiresAt})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *verificationCodeRepository) Delete(ctx context.Context, email string) error {
	return conn(ctx, r.db).
		Where("email = ?", email).
		Delete(&entity.VerificationCode{}).
		Error
}

func (r *verificationCodeRepository) Consume(ctx context.Context, email string) error {
	result := conn(ctx, r.db).
		Where("email = ?", email).
		Delete(&entity.VerificationCode{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
