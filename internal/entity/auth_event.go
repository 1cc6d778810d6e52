package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type AuthAction string

const (
	ActionRegistered         AuthAction = "registered"
	ActionEmailVerified      AuthAction = "email_verified"
	ActionVerificationResent AuthAction = "verification_resent"
	ActionResetRequested     AuthAction = "password_reset_requested"
	ActionPasswordReset      AuthAction = "password_reset"
	ActionLoginFailed        AuthAction = "login_failed"
)

type AuthEvent struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey"`

	Email     string     `gorm:"type:varchar(255);index"`
	IPAddress *string    `gorm:"type:varchar(45)"`
	Action    AuthAction `gorm:"type:varchar(32);not null"`

	Metadata datatypes.JSON

	CreatedAt time.Time
}

func (AuthEvent) TableName() string {
	return "auth_events"
}

func (e *AuthEvent) BeforeCreate(_ *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}
