package repository

import (
	"context"
	"errors"

	"github.com/daniyarzhalgas/TripMate-backend/internal/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserProfileRepository interface {
	CreateIfMissing(ctx context.Context, profile *entity.UserProfile) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.UserProfile, error)
	FindByEmail(ctx context.Context, email string) (*entity.UserProfile, error)
	MarkEmailVerified(ctx context.Context, email string) error
}

type userProfileRepository struct {
	db *gorm.DB
}

func NewUserProfileRepository(db *gorm.DB) UserProfileRepository {
	return &userProfileRepository{db: db}
}

// CreateIfMissing inserts the profile unless one exists for its id. A row
// holding the same email under another id mirrors an identity account that no
// longer owns the address and is replaced.
func (r *userProfileRepository) CreateIfMissing(ctx context.Context, profile *entity.UserProfile) error {
	return conn(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		err := tx.
			Where("email = ? AND id <> ?", profile.Email, profile.ID).
			Delete(&entity.UserProfile{}).Error
		if err != nil {
			return err
		}
		return tx.
			Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "id"}},
				DoNothing: true,
			}).
			Create(profile).Error
	})
}

func (r *userProfileRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.UserProfile, error) {
	var profile entity.UserProfile
	err := conn(ctx, r.db).
		Where("id = ? AND is_active = ?", id, true).
		First(&profile).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *userProfileRepository) FindByEmail(ctx context.Context, email string) (*entity.UserProfile, error) {
	var profile entity.UserProfile
	err := conn(ctx, r.db).
		Where("email = ? AND is_active = ?", email, true).
		First(&profile).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *userProfileRepository) MarkEmailVerified(ctx context.Context, email string) error {
	return conn(ctx, r.db).
		Model(&entity.UserProfile{}).
		Where("email = ?", email).
		Update("email_verified", true).
		Error
}
