package dto

import (
	"encoding/json"
	"time"

	"github.com/daniyarzhalgas/TripMate-backend/internal/entity"
)

type RegisterRequest struct {
	Email       string  `json:"email" validate:"required,email"`
	Password    string  `json:"password" validate:"required,min=8"`
	FirstName   string  `json:"first_name" validate:"required,max=100"`
	LastName    string  `json:"last_name" validate:"required,max=100"`
	DateOfBirth *string `json:"date_of_birth" validate:"omitempty,datetime=2006-01-02"`
	Gender      *string `json:"gender" validate:"omitempty,oneof=male female other"`
	City        *string `json:"city" validate:"omitempty,max=100"`
	Country     *string `json:"country" validate:"omitempty,max=100"`
	Bio         *string `json:"bio" validate:"omitempty,max=1000"`
}

type RegisterResponse struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
}

type VerifyEmailRequest struct {
	Email string `json:"email" validate:"required,email"`
	Code  string `json:"code" validate:"required,len=6,numeric"`
}

type ResendVerificationRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ForgotPasswordRequest is not validated: the endpoint answers the same way
// for every body.
type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

type ResetPasswordRequest struct {
	Token       string `json:"token" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=8"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type LogoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type GoogleSignInRequest struct {
	IDToken string `json:"id_token" validate:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type TokenResponse struct {
	AccessToken      string `json:"access_token"`
	RefreshToken     string `json:"refresh_token,omitempty"`
	TokenType        string `json:"token_type,omitempty"`
	ExpiresIn        int64  `json:"expires_in,omitempty"`
	RefreshExpiresIn int64  `json:"refresh_expires_in,omitempty"`
}

type UserProfileResponse struct {
	ID            string     `json:"id"`
	Email         string     `json:"email"`
	FirstName     string     `json:"first_name"`
	LastName      string     `json:"last_name"`
	DateOfBirth   *string    `json:"date_of_birth,omitempty"`
	Gender        *string    `json:"gender,omitempty"`
	City          *string    `json:"city,omitempty"`
	Country       *string    `json:"country,omitempty"`
	Bio           *string    `json:"bio,omitempty"`
	AuthProvider  string     `json:"auth_provider"`
	EmailVerified bool       `json:"email_verified"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     *time.Time `json:"updated_at,omitempty"`
}

func UserProfileResponseFromEntity(profile *entity.UserProfile) UserProfileResponse {
	response := UserProfileResponse{
		ID:            profile.ID.String(),
		Email:         profile.Email,
		FirstName:     profile.FirstName,
		LastName:      profile.LastName,
		City:          profile.City,
		Country:       profile.Country,
		Bio:           profile.Bio,
		AuthProvider:  string(profile.AuthProvider),
		EmailVerified: profile.EmailVerified,
		CreatedAt:     profile.CreatedAt,
	}
	if profile.DateOfBirth != nil {
		dob := profile.DateOfBirth.Format("2006-01-02")
		response.DateOfBirth = &dob
	}
	if profile.Gender != nil {
		gender := string(*profile.Gender)
		response.Gender = &gender
	}
	if !profile.UpdatedAt.IsZero() {
		updated := profile.UpdatedAt
		response.UpdatedAt = &updated
	}
	return response
}

type AuthEventResponse struct {
	ID        string         `json:"id"`
	Email     string         `json:"email"`
	Action    string         `json:"action"`
	IPAddress *string        `json:"ip_address,omitempty"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

func AuthEventResponsesFromEntities(events []entity.AuthEvent) []AuthEventResponse {
	responses := make([]AuthEventResponse, 0, len(events))
	for i := range events {
		event := events[i]
		response := AuthEventResponse{
			ID:        event.ID.String(),
			Email:     event.Email,
			Action:    string(event.Action),
			IPAddress: event.IPAddress,
			CreatedAt: event.CreatedAt,
		}
		if len(event.Metadata) > 0 {
			var metadata map[string]any
			if err := json.Unmarshal(event.Metadata, &metadata); err == nil {
				response.Metadata = metadata
			}
		}
		responses = append(responses, response)
	}
	return responses
}
