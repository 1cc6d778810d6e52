package handler_test

import (
	"context"

	"github.com/daniyarzhalgas/TripMate-backend/internal/entity"
	"github.com/daniyarzhalgas/TripMate-backend/internal/service"
	"github.com/daniyarzhalgas/TripMate-backend/internal/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type mockAuthService struct {
	mock.Mock
}

func (m *mockAuthService) Register(ctx context.Context, input service.RegisterInput) (*service.RegisterResult, error) {
	args := m.Called(ctx, input)
	result, _ := args.Get(0).(*service.RegisterResult)
	return result, args.Error(1)
}

func (m *mockAuthService) VerifyEmail(ctx context.Context, input service.VerifyEmailInput) (*service.TokenPair, error) {
	args := m.Called(ctx, input)
	tokens, _ := args.Get(0).(*service.TokenPair)
	return tokens, args.Error(1)
}

func (m *mockAuthService) ResendVerification(ctx context.Context, email string) error {
	return m.Called(ctx, email).Error(0)
}

func (m *mockAuthService) ForgotPassword(ctx context.Context, email string) error {
	return m.Called(ctx, email).Error(0)
}

func (m *mockAuthService) ResetPassword(ctx context.Context, input service.ResetPasswordInput) error {
	return m.Called(ctx, input).Error(0)
}

func (m *mockAuthService) Refresh(ctx context.Context, refreshToken string) (*service.TokenPair, error) {
	args := m.Called(ctx, refreshToken)
	tokens, _ := args.Get(0).(*service.TokenPair)
	return tokens, args.Error(1)
}

func (m *mockAuthService) Logout(ctx context.Context, refreshToken string) error {
	return m.Called(ctx, refreshToken).Error(0)
}

func (m *mockAuthService) GoogleSignIn(ctx context.Context, idToken string) (*service.TokenPair, error) {
	args := m.Called(ctx, idToken)
	tokens, _ := args.Get(0).(*service.TokenPair)
	return tokens, args.Error(1)
}

func (m *mockAuthService) Login(ctx context.Context, input service.LoginInput) (*service.TokenPair, error) {
	args := m.Called(ctx, input)
	tokens, _ := args.Get(0).(*service.TokenPair)
	return tokens, args.Error(1)
}

func (m *mockAuthService) GetProfile(ctx context.Context, userID uuid.UUID) (*entity.UserProfile, error) {
	args := m.Called(ctx, userID)
	profile, _ := args.Get(0).(*entity.UserProfile)
	return profile, args.Error(1)
}

func (m *mockAuthService) ListAuthEvents(ctx context.Context, email string, limit int) ([]entity.AuthEvent, error) {
	args := m.Called(ctx, email, limit)
	events, _ := args.Get(0).([]entity.AuthEvent)
	return events, args.Error(1)
}

type mockEmailSender struct {
	mock.Mock
}

func (m *mockEmailSender) SendVerificationCode(ctx context.Context, email string, code string) error {
	return m.Called(ctx, email, code).Error(0)
}

func (m *mockEmailSender) SendPasswordResetLink(ctx context.Context, email string, token string) error {
	return m.Called(ctx, email, token).Error(0)
}

func (m *mockEmailSender) SendWelcomeMessage(ctx context.Context, email string) error {
	return m.Called(ctx, email).Error(0)
}

// stubTokens accepts the bearer "good" and rejects anything else.
type stubTokens struct {
	claims *utils.AccessClaims
}

func (s stubTokens) ParseAccessToken(token string) (*utils.AccessClaims, error) {
	if token != "good" {
		return nil, utils.ErrInvalidToken
	}
	return s.claims, nil
}
