package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/daniyarzhalgas/TripMate-backend/internal/entity"
	"github.com/daniyarzhalgas/TripMate-backend/internal/repository"
	"github.com/daniyarzhalgas/TripMate-backend/internal/utils"

	"github.com/google/uuid"
)

// IsExpired reports whether a record expiring at expiresAt is unusable at now.
// A record expiring exactly at now is expired.
func IsExpired(expiresAt time.Time, now time.Time) bool {
	return !now.Before(expiresAt)
}

type VerificationService struct {
	codes  repository.VerificationCodeRepository
	tokens repository.PasswordResetTokenRepository
	box    *utils.SecretBox
	clock  Clock
	config AuthConfig
}

func NewVerificationService(
	codes repository.VerificationCodeRepository,
	tokens repository.PasswordResetTokenRepository,
	box *utils.SecretBox,
	clock Clock,
	config AuthConfig,
) *VerificationService {
	return &VerificationService{
		codes:  codes,
		tokens: tokens,
		box:    box,
		clock:  clock,
		config: config,
	}
}

func (s *VerificationService) CreateCode(ctx context.Context, email string, code string, rawPassword string) error {
	sealed, err := s.box.Seal(rawPassword)
	if err != nil {
		return fmt.Errorf("seal password: %w", err)
	}

	now := s.now()
	record := &entity.VerificationCode{
		Email:       utils.NormalizeEmail(email),
		Code:        code,
		RawPassword: sealed,
		ExpiresAt:   now.Add(s.codeTTL()),
		CreatedAt:   now,
	}
	if err := s.codes.Upsert(ctx, record); err != nil {
		return fmt.Errorf("store verification code: %w", err)
	}
	return nil
}

// GetCode returns nil when no record exists. RawPassword is returned opened.
func (s *VerificationService) GetCode(ctx context.Context, email string) (*entity.VerificationCode, error) {
	record, err := s.codes.FindByEmail(ctx, utils.NormalizeEmail(email))
	if err != nil {
		return nil, fmt.Errorf("load verification code: %w", err)
	}
	return s.opened(record)
}

// ClaimCode is GetCode holding a row lock until the caller's transaction ends.
func (s *VerificationService) ClaimCode(ctx context.Context, email string) (*entity.VerificationCode, error) {
	record, err := s.codes.FindByEmailForUpdate(ctx, utils.NormalizeEmail(email))
	if err != nil {
		return nil, fmt.Errorf("claim verification code: %w", err)
	}
	return s.opened(record)
}

func (s *VerificationService) opened(record *entity.VerificationCode) (*entity.VerificationCode, error) {
	if record == nil {
		return nil, nil
	}

	plain, err := s.box.Open(record.RawPassword)
	if err != nil {
		return nil, fmt.Errorf("open password: %w", err)
	}
	record.RawPassword = plain
	return record, nil
}

func (s *VerificationService) CodeExists(ctx context.Context, email string) (bool, error) {
	exists, err := s.codes.Exists(ctx, utils.NormalizeEmail(email))
	if err != nil {
		return false, fmt.Errorf("check verification code: %w", err)
	}
	return exists, nil
}

func (s *VerificationService) DeleteCode(ctx context.Context, email string) error {
	if err := s.codes.Delete(ctx, utils.NormalizeEmail(email)); err != nil {
		return fmt.Errorf("delete verification code: %w", err)
	}
	return nil
}

// ConsumeCode deletes the code and returns ErrNotFound when another caller
// already consumed it.
func (s *VerificationService) ConsumeCode(ctx context.Context, email string) error {
	err := s.codes.Consume(ctx, utils.NormalizeEmail(email))
	if errors.Is(err, repository.ErrNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("consume verification code: %w", err)
	}
	return nil
}

// UpdateCode replaces the code and restarts its TTL. It returns ErrNotFound
// when no record exists for email.
func (s *VerificationService) UpdateCode(ctx context.Context, email string, newCode string) error {
	err := s.codes.UpdateCode(ctx, utils.NormalizeEmail(email), newCode, s.now().Add(s.codeTTL()))
	if errors.Is(err, repository.ErrNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("update verification code: %w", err)
	}
	return nil
}

func (s *VerificationService) CreateResetToken(ctx context.Context, email string) (uuid.UUID, error) {
	now := s.now()
	record := &entity.PasswordResetToken{
		Token:     utils.NewTokenID(),
		Email:     utils.NormalizeEmail(email),
		ExpiresAt: now.Add(s.resetTokenTTL()),
		CreatedAt: now,
	}
	if err := s.tokens.Create(ctx, record); err != nil {
		return uuid.Nil, fmt.Errorf("store reset token: %w", err)
	}
	return record.Token, nil
}

func (s *VerificationService) GetResetToken(ctx context.Context, token uuid.UUID) (*entity.PasswordResetToken, error) {
	record, err := s.tokens.FindByToken(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("load reset token: %w", err)
	}
	return record, nil
}

// ClaimResetToken is GetResetToken holding a row lock until the caller's
// transaction ends.
func (s *VerificationService) ClaimResetToken(ctx context.Context, token uuid.UUID) (*entity.PasswordResetToken, error) {
	record, err := s.tokens.FindByTokenForUpdate(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("claim reset token: %w", err)
	}
	return record, nil
}

func (s *VerificationService) ConsumeResetToken(ctx context.Context, token uuid.UUID) error {
	err := s.tokens.Consume(ctx, token)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("consume reset token: %w", err)
	}
	return nil
}

func (s *VerificationService) DeleteResetToken(ctx context.Context, token uuid.UUID) error {
	if err := s.tokens.Delete(ctx, token); err != nil {
		return fmt.Errorf("delete reset token: %w", err)
	}
	return nil
}

func (s *VerificationService) now() time.Time {
	if s.clock == nil {
		return time.Now()
	}
	return s.clock.Now()
}

func (s *VerificationService) codeTTL() time.Duration {
	if s.config.CodeTTL > 0 {
		return s.config.CodeTTL
	}
	return DefaultCodeTTL
}

func (s *VerificationService) resetTokenTTL() time.Duration {
	if s.config.ResetTokenTTL > 0 {
		return s.config.ResetTokenTTL
	}
	return DefaultResetTokenTTL
}
