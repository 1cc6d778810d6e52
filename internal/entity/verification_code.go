package entity

import "time"

// VerificationCode is the single pending email verification for an address.
// RawPassword holds the sealed registration password until the code is consumed.
type VerificationCode struct {
	Email       string `gorm:"type:varchar(255);primaryKey"`
	Code        string `gorm:"type:varchar(6);not null"`
	RawPassword string `gorm:"type:text;not null"`

	ExpiresAt time.Time `gorm:"not null"`
	CreatedAt time.Time
}

func (VerificationCode) TableName() string {
	return "email_verification_codes"
}
