package service

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type mockIdentity struct {
	mock.Mock
}

func (m *mockIdentity) FindUserByEmail(ctx context.Context, email string) (*IdentityUser, error) {
	args := m.Called(ctx, email)
	user, _ := args.Get(0).(*IdentityUser)
	return user, args.Error(1)
}

func (m *mockIdentity) CreateUser(ctx context.Context, user NewIdentityUser) (string, error) {
	args := m.Called(ctx, user)
	return args.String(0), args.Error(1)
}

func (m *mockIdentity) SetEnabledAndVerified(ctx context.Context, userID string, enabled bool, emailVerified bool) error {
	return m.Called(ctx, userID, enabled, emailVerified).Error(0)
}

func (m *mockIdentity) SetPassword(ctx context.Context, userID string, password string) error {
	return m.Called(ctx, userID, password).Error(0)
}

func (m *mockIdentity) PasswordGrant(ctx context.Context, email string, password string) (*TokenPair, error) {
	args := m.Called(ctx, email, password)
	tokens, _ := args.Get(0).(*TokenPair)
	return tokens, args.Error(1)
}

func (m *mockIdentity) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	args := m.Called(ctx, refreshToken)
	tokens, _ := args.Get(0).(*TokenPair)
	return tokens, args.Error(1)
}

func (m *mockIdentity) Revoke(ctx context.Context, refreshToken string) error {
	return m.Called(ctx, refreshToken).Error(0)
}

func (m *mockIdentity) ExchangeGoogleToken(ctx context.Context, idToken string) (*TokenPair, error) {
	args := m.Called(ctx, idToken)
	tokens, _ := args.Get(0).(*TokenPair)
	return tokens, args.Error(1)
}

type mockNotifier struct {
	mock.Mock
}

func (m *mockNotifier) SendVerificationCode(ctx context.Context, email string, code string) error {
	return m.Called(ctx, email, code).Error(0)
}

func (m *mockNotifier) SendPasswordResetLink(ctx context.Context, email string, token string) error {
	return m.Called(ctx, email, token).Error(0)
}

func (m *mockNotifier) SendWelcomeMessage(ctx context.Context, email string) error {
	return m.Called(ctx, email).Error(0)
}

type stubGoogleVerifier struct {
	identity *GoogleIdentity
	err      error
}

func (v stubGoogleVerifier) Verify(context.Context, string) (*GoogleIdentity, error) {
	return v.identity, v.err
}
