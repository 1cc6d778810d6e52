package service

import (
	"context"
	"time"

	"github.com/daniyarzhalgas/TripMate-backend/internal/entity"

	"github.com/google/uuid"
)

const (
	DefaultCodeTTL       = 15 * time.Minute
	DefaultResetTokenTTL = 30 * time.Minute
)

type AuthConfig struct {
	CodeTTL       time.Duration
	ResetTokenTTL time.Duration
}

type Clock interface {
	Now() time.Time
}

type RealClock struct{}

func (RealClock) Now() time.Time {
	return time.Now()
}

// VerificationLifecycle owns verification codes and password reset tokens.
// Lookups never judge expiry; callers compare with IsExpired. Claim reads lock
// the record for the caller's transaction and Consume reports ErrNotFound
// when the record is already gone, so a record is spent at most once.
type VerificationLifecycle interface {
	CreateCode(ctx context.Context, email string, code string, rawPassword string) error
	GetCode(ctx context.Context, email string) (*entity.VerificationCode, error)
	ClaimCode(ctx context.Context, email string) (*entity.VerificationCode, error)
	CodeExists(ctx context.Context, email string) (bool, error)
	DeleteCode(ctx context.Context, email string) error
	ConsumeCode(ctx context.Context, email string) error
	UpdateCode(ctx context.Context, email string, newCode string) error
	CreateResetToken(ctx context.Context, email string) (uuid.UUID, error)
	GetResetToken(ctx context.Context, token uuid.UUID) (*entity.PasswordResetToken, error)
	ClaimResetToken(ctx context.Context, token uuid.UUID) (*entity.PasswordResetToken, error)
	DeleteResetToken(ctx context.Context, token uuid.UUID) error
	ConsumeResetToken(ctx context.Context, token uuid.UUID) error
}

type IdentityUser struct {
	ID            string
	Email         string
	FirstName     string
	LastName      string
	Enabled       bool
	EmailVerified bool
}

type NewIdentityUser struct {
	Email         string
	FirstName     string
	LastName      string
	Password      string
	Enabled       bool
	EmailVerified bool
}

type TokenPair struct {
	AccessToken      string
	RefreshToken     string
	TokenType        string
	ExpiresIn        int64
	RefreshExpiresIn int64
}

// IdentityProvider is the external account and credential system.
type IdentityProvider interface {
	FindUserByEmail(ctx context.Context, email string) (*IdentityUser, error)
	CreateUser(ctx context.Context, user NewIdentityUser) (string, error)
	SetEnabledAndVerified(ctx context.Context, userID string, enabled bool, emailVerified bool) error
	SetPassword(ctx context.Context, userID string, password string) error
	PasswordGrant(ctx context.Context, email string, password string) (*TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (*TokenPair, error)
	Revoke(ctx context.Context, refreshToken string) error
	ExchangeGoogleToken(ctx context.Context, idToken string) (*TokenPair, error)
}

// NotificationSender delivers codes and links. Delivery is best-effort.
type NotificationSender interface {
	SendVerificationCode(ctx context.Context, email string, code string) error
	SendPasswordResetLink(ctx context.Context, email string, token string) error
	SendWelcomeMessage(ctx context.Context, email string) error
}

type GoogleIdentity struct {
	Subject       string
	Email         string
	EmailVerified bool
	GivenName     string
	FamilyName    string
}

type GoogleVerifier interface {
	Verify(ctx context.Context, idToken string) (*GoogleIdentity, error)
}
