package service

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/daniyarzhalgas/TripMate-backend/internal/entity"
	"github.com/daniyarzhalgas/TripMate-backend/internal/repository"
	"github.com/daniyarzhalgas/TripMate-backend/internal/utils"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
)

type AuthService struct {
	tx           repository.Transactor
	verification VerificationLifecycle
	profiles     repository.UserProfileRepository
	events       repository.AuthEventRepository

	identity IdentityProvider
	notifier NotificationSender
	google   GoogleVerifier
	clock    Clock
	log      logrus.FieldLogger
}

func NewAuthService(
	tx repository.Transactor,
	verification VerificationLifecycle,
	profiles repository.UserProfileRepository,
	events repository.AuthEventRepository,
	identity IdentityProvider,
	notifier NotificationSender,
	google GoogleVerifier,
	clock Clock,
	log logrus.FieldLogger,
) *AuthService {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &AuthService{
		tx:           tx,
		verification: verification,
		profiles:     profiles,
		events:       events,
		identity:     identity,
		notifier:     notifier,
		google:       google,
		clock:        clock,
		log:          log,
	}
}

// Register creates a disabled identity account, records a verification code
// carrying the submitted password and dispatches the code.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*RegisterResult, error) {
	if strings.TrimSpace(input.Email) == "" || strings.TrimSpace(input.Password) == "" {
		return nil, ErrInvalidInput
	}
	email := utils.NormalizeEmail(input.Email)

	existing, err := s.identity.FindUserByEmail(ctx, email)
	if err != nil {
		return nil, s.upstream("find user", email, err)
	}
	if existing != nil {
		return nil, ErrEmailExists
	}

	userID, err := s.identity.CreateUser(ctx, NewIdentityUser{
		Email:     email,
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Password:  input.Password,
	})
	if errors.Is(err, ErrIdentityUserExists) {
		return nil, ErrEmailExists
	}
	if err != nil {
		return nil, s.upstream("create user", email, err)
	}

	profileID, err := uuid.Parse(userID)
	if err != nil {
		return nil, fmt.Errorf("identity user id %q: %w", userID, err)
	}

	code, err := utils.GenerateCode6()
	if err != nil {
		return nil, err
	}

	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.verification.CreateCode(ctx, email, code, input.Password); err != nil {
			return err
		}
		profile := &entity.UserProfile{
			ID:           profileID,
			Email:        email,
			FirstName:    input.FirstName,
			LastName:     input.LastName,
			DateOfBirth:  input.DateOfBirth,
			Gender:       input.Gender,
			City:         input.City,
			Country:      input.Country,
			Bio:          input.Bio,
			AuthProvider: entity.AuthProviderLocal,
			IsActive:     true,
		}
		if err := s.profiles.CreateIfMissing(ctx, profile); err != nil {
			return err
		}
		return s.logEvent(ctx, email, input.IPAddress, entity.ActionRegistered, map[string]any{"provider": entity.AuthProviderLocal})
	})
	if err != nil {
		return nil, err
	}

	s.dispatch(email, "verification code", s.notifier.SendVerificationCode(ctx, email, code))
	return &RegisterResult{UserID: userID, Email: email}, nil
}

// VerifyEmail consumes the pending code and signs the user in with the
// password captured at registration. The code is gone once the account is
// enabled, whether or not the sign-in succeeds.
func (s *AuthService) VerifyEmail(ctx context.Context, input VerifyEmailInput) (*TokenPair, error) {
	email := utils.NormalizeEmail(input.Email)
	var password string

	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		record, err := s.verification.ClaimCode(ctx, email)
		if err != nil {
			return err
		}
		if record == nil || IsExpired(record.ExpiresAt, s.now()) ||
			subtle.ConstantTimeCompare([]byte(record.Code), []byte(input.Code)) != 1 {
			return ErrInvalidCode
		}

		user, err := s.identity.FindUserByEmail(ctx, email)
		if err != nil {
			return s.upstream("find user", email, err)
		}
		if user == nil {
			return ErrInvalidCode
		}

		if err := s.verification.ConsumeCode(ctx, email); err != nil {
			if errors.Is(err, ErrNotFound) {
				return ErrInvalidCode
			}
			return err
		}
		if err := s.identity.SetEnabledAndVerified(ctx, user.ID, true, true); err != nil {
			return s.upstream("enable user", email, err)
		}
		if err := s.profiles.MarkEmailVerified(ctx, email); err != nil {
			return err
		}
		password = record.RawPassword
		return s.logEvent(ctx, email, nil, entity.ActionEmailVerified, nil)
	})
	if err != nil {
		return nil, err
	}

	s.dispatch(email, "welcome message", s.notifier.SendWelcomeMessage(ctx, email))

	tokens, err := s.identity.PasswordGrant(ctx, email, password)
	if err != nil {
		return nil, s.upstream("password grant after verification", email, err)
	}
	return tokens, nil
}

func (s *AuthService) ResendVerification(ctx context.Context, email string) error {
	email = utils.NormalizeEmail(email)

	exists, err := s.verification.CodeExists(ctx, email)
	if err != nil {
		return err
	}
	if !exists {
		return ErrVerificationNotPending
	}

	code, err := utils.GenerateCode6()
	if err != nil {
		return err
	}

	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.verification.UpdateCode(ctx, email, code); err != nil {
			if errors.Is(err, ErrNotFound) {
				return ErrVerificationNotPending
			}
			return err
		}
		return s.logEvent(ctx, email, nil, entity.ActionVerificationResent, nil)
	})
	if err != nil {
		return err
	}

	s.dispatch(email, "verification code", s.notifier.SendVerificationCode(ctx, email, code))
	return nil
}

// ForgotPassword reports success for every address. A token is minted and
// dispatched only when the identity provider knows the account.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	email = utils.NormalizeEmail(email)
	if email == "" {
		return nil
	}

	user, err := s.identity.FindUserByEmail(ctx, email)
	if err != nil {
		s.log.WithError(err).WithField("email", email).Error("password reset lookup failed")
		return nil
	}
	if user == nil {
		return nil
	}

	var token uuid.UUID
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		created, err := s.verification.CreateResetToken(ctx, email)
		if err != nil {
			return err
		}
		token = created
		return s.logEvent(ctx, email, nil, entity.ActionResetRequested, nil)
	})
	if err != nil {
		s.log.WithError(err).WithField("email", email).Error("password reset token not stored")
		return nil
	}

	s.dispatch(email, "password reset link", s.notifier.SendPasswordResetLink(ctx, email, token.String()))
	return nil
}

// ResetPassword sets a new password with a reset token. The token is claimed
// and consumed before the identity call; a rejected password rolls the
// consumption back and the token stays usable.
func (s *AuthService) ResetPassword(ctx context.Context, input ResetPasswordInput) error {
	token, err := utils.ParseTokenID(input.Token)
	if err != nil {
		return ErrInvalidToken
	}
	if strings.TrimSpace(input.NewPassword) == "" {
		return ErrInvalidInput
	}

	return s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		record, err := s.verification.ClaimResetToken(ctx, token)
		if err != nil {
			return err
		}
		if record == nil || IsExpired(record.ExpiresAt, s.now()) {
			return ErrInvalidToken
		}

		user, err := s.identity.FindUserByEmail(ctx, record.Email)
		if err != nil {
			return s.upstream("find user", record.Email, err)
		}
		if user == nil {
			return ErrInvalidToken
		}

		if err := s.verification.ConsumeResetToken(ctx, token); err != nil {
			if errors.Is(err, ErrNotFound) {
				return ErrInvalidToken
			}
			return err
		}
		if err := s.identity.SetPassword(ctx, user.ID, input.NewPassword); err != nil {
			return s.upstream("set password", record.Email, err)
		}
		return s.logEvent(ctx, record.Email, nil, entity.ActionPasswordReset, nil)
	})
}

func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	if strings.TrimSpace(refreshToken) == "" {
		return nil, ErrInvalidRefreshToken
	}
	tokens, err := s.identity.Refresh(ctx, refreshToken)
	if err != nil {
		s.log.WithError(err).Warn("token refresh rejected")
		return nil, ErrInvalidRefreshToken
	}
	return tokens, nil
}

// Logout revokes the session at the identity provider. Failures are logged
// and never reported.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	if strings.TrimSpace(refreshToken) == "" {
		return nil
	}
	if err := s.identity.Revoke(ctx, refreshToken); err != nil {
		s.log.WithError(err).Warn("logout revoke failed")
	}
	return nil
}

// GoogleSignIn trades a Google ID token for identity provider tokens. When the
// provider rejects token exchange, a fresh enabled account with a random
// password is created and signed in with the password grant.
func (s *AuthService) GoogleSignIn(ctx context.Context, idToken string) (*TokenPair, error) {
	if s.google == nil || strings.TrimSpace(idToken) == "" {
		return nil, ErrGoogleAuthFailed
	}

	claims, err := s.google.Verify(ctx, idToken)
	if err != nil {
		s.log.WithError(err).Warn("google id token rejected")
		return nil, ErrGoogleAuthFailed
	}
	if !claims.EmailVerified || strings.TrimSpace(claims.Email) == "" {
		return nil, ErrGoogleAuthFailed
	}
	email := utils.NormalizeEmail(claims.Email)

	tokens, err := s.identity.ExchangeGoogleToken(ctx, idToken)
	if err == nil {
		if err := s.ensureProfile(ctx, email, claims.GivenName, claims.FamilyName, entity.AuthProviderGoogle); err != nil {
			return nil, err
		}
		return tokens, nil
	}
	s.log.WithError(err).WithField("email", email).Info("token exchange unavailable, creating account")

	existing, err := s.identity.FindUserByEmail(ctx, email)
	if err != nil || existing != nil {
		return nil, ErrGoogleAuthFailed
	}

	password, err := utils.GenerateRandomToken(24)
	if err != nil {
		return nil, err
	}
	if _, err := s.identity.CreateUser(ctx, NewIdentityUser{
		Email:         email,
		FirstName:     claims.GivenName,
		LastName:      claims.FamilyName,
		Password:      password,
		Enabled:       true,
		EmailVerified: true,
	}); err != nil {
		s.log.WithError(err).WithField("email", email).Warn("google account creation failed")
		return nil, ErrGoogleAuthFailed
	}

	tokens, err = s.identity.PasswordGrant(ctx, email, password)
	if err != nil {
		s.log.WithError(err).WithField("email", email).Warn("google account sign-in failed")
		return nil, ErrGoogleAuthFailed
	}
	if err := s.ensureProfile(ctx, email, claims.GivenName, claims.FamilyName, entity.AuthProviderGoogle); err != nil {
		return nil, err
	}
	return tokens, nil
}

func (s *AuthService) Login(ctx context.Context, input LoginInput) (*TokenPair, error) {
	email := utils.NormalizeEmail(input.Email)
	if email == "" || input.Password == "" {
		return nil, ErrInvalidCredentials
	}

	tokens, err := s.identity.PasswordGrant(ctx, email, input.Password)
	if err != nil {
		s.log.WithError(err).WithField("email", email).Info("login rejected")
		if logErr := s.logEvent(ctx, email, input.IPAddress, entity.ActionLoginFailed, map[string]any{"reason": "password_grant_rejected"}); logErr != nil {
			s.log.WithError(logErr).Warn("auth event not recorded")
		}
		return nil, ErrInvalidCredentials
	}

	if err := s.ensureProfile(ctx, email, "", "", entity.AuthProviderLocal); err != nil {
		return nil, err
	}
	return tokens, nil
}

func (s *AuthService) GetProfile(ctx context.Context, userID uuid.UUID) (*entity.UserProfile, error) {
	profile, err := s.profiles.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, ErrProfileNotFound
	}
	return profile, nil
}

func (s *AuthService) ListAuthEvents(ctx context.Context, email string, limit int) ([]entity.AuthEvent, error) {
	email = utils.NormalizeEmail(email)
	if email == "" {
		return nil, ErrInvalidInput
	}
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.events.ListByEmail(ctx, email, limit)
}

// ensureProfile mirrors an identity account locally when no profile exists.
// Identity lookup failures leave the mirror for a later sign-in.
func (s *AuthService) ensureProfile(ctx context.Context, email string, firstName string, lastName string, provider entity.AuthProvider) error {
	profile, err := s.profiles.FindByEmail(ctx, email)
	if err != nil {
		return err
	}
	if profile != nil {
		return nil
	}

	user, err := s.identity.FindUserByEmail(ctx, email)
	if err != nil || user == nil {
		s.log.WithError(err).WithField("email", email).Warn("profile mirror skipped")
		return nil
	}
	id, err := uuid.Parse(user.ID)
	if err != nil {
		return fmt.Errorf("identity user id %q: %w", user.ID, err)
	}
	if firstName == "" {
		firstName = user.FirstName
	}
	if lastName == "" {
		lastName = user.LastName
	}

	return s.profiles.CreateIfMissing(ctx, &entity.UserProfile{
		ID:            id,
		Email:         email,
		FirstName:     firstName,
		LastName:      lastName,
		AuthProvider:  provider,
		EmailVerified: user.EmailVerified,
		IsActive:      true,
	})
}

func (s *AuthService) dispatch(email string, kind string, err error) {
	if err == nil {
		return
	}
	s.log.WithError(err).WithFields(logrus.Fields{
		"email": email,
		"kind":  kind,
	}).Warn("notification dispatch failed")
}

func (s *AuthService) upstream(op string, email string, err error) error {
	s.log.WithError(err).WithFields(logrus.Fields{
		"email": email,
		"op":    op,
	}).Error("identity provider call failed")
	return ErrUpstreamAuth
}

func (s *AuthService) logEvent(
	ctx context.Context,
	email string,
	ipAddress *string,
	action entity.AuthAction,
	metadata map[string]any,
) error {
	if s.events == nil {
		return nil
	}
	var payload datatypes.JSON
	if metadata != nil {
		bytes, err := json.Marshal(metadata)
		if err != nil {
			return err
		}
		payload = datatypes.JSON(bytes)
	}

	return s.events.Log(ctx, &entity.AuthEvent{
		Email:     email,
		IPAddress: ipAddress,
		Action:    action,
		Metadata:  payload,
	})
}

func (s *AuthService) now() time.Time {
	if s.clock == nil {
		return time.Now()
	}
	return s.clock.Now()
}
