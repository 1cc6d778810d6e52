package service

import (
	"time"

	"github.com/daniyarzhalgas/TripMate-backend/internal/entity"
)

type RegisterInput struct {
	Email       string
	Password    string
	FirstName   string
	LastName    string
	DateOfBirth *time.Time
	Gender      *entity.Gender
	City        *string
	Country     *string
	Bio         *string
	IPAddress   *string
}

type RegisterResult struct {
	UserID string
	Email  string
}

type VerifyEmailInput struct {
	Email string
	Code  string
}

type ResetPasswordInput struct {
	Token       string
	NewPassword string
}

type LoginInput struct {
	Email     string
	Password  string
	IPAddress *string
}
