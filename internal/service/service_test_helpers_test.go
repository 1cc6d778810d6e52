package service

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/daniyarzhalgas/TripMate-backend/internal/entity"
	"github.com/daniyarzhalgas/TripMate-backend/internal/repository"
	"github.com/daniyarzhalgas/TripMate-backend/internal/utils"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type fixedClock struct {
	now time.Time
}

func (c *fixedClock) Now() time.Time {
	return c.now
}

func (c *fixedClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}

func newServiceDBForTest(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := db.AutoMigrate(
		&entity.VerificationCode{},
		&entity.PasswordResetToken{},
		&entity.UserProfile{},
		&entity.AuthEvent{},
	); err != nil {
		t.Fatalf("migrate db: %v", err)
	}
	return db
}

func newVerificationServiceForTest(db *gorm.DB, clock Clock) *VerificationService {
	return NewVerificationService(
		repository.NewVerificationCodeRepository(db),
		repository.NewPasswordResetTokenRepository(db),
		utils.NewSecretBox("test-verification-secret"),
		clock,
		AuthConfig{},
	)
}
