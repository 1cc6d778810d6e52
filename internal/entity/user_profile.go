package entity

import (
	"time"

	"github.com/google/uuid"
)

type AuthProvider string

const (
	AuthProviderLocal  AuthProvider = "local"
	AuthProviderGoogle AuthProvider = "google"
)

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

// UserProfile mirrors an identity provider account locally. ID is the
// identity provider's user id.
type UserProfile struct {
	ID    uuid.UUID `gorm:"type:uuid;primaryKey"`
	Email string    `gorm:"type:varchar(255);uniqueIndex;not null"`

	FirstName   string `gorm:"type:varchar(100)"`
	LastName    string `gorm:"type:varchar(100)"`
	DateOfBirth *time.Time
	Gender      *Gender `gorm:"type:varchar(16)"`
	City        *string `gorm:"type:varchar(100)"`
	Country     *string `gorm:"type:varchar(100)"`
	Bio         *string `gorm:"type:text"`

	AuthProvider  AuthProvider `gorm:"type:varchar(16);default:'local';not null"`
	EmailVerified bool         `gorm:"default:false"`
	IsActive      bool         `gorm:"default:true"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (UserProfile) TableName() string {
	return "user_profiles"
}
