package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

type HTTPConfig struct {
	Addr string
}

type KeycloakConfig struct {
	BaseURL      string
	Realm        string
	ClientID     string
	ClientSecret string

	// Admin REST credentials. AdminUsername selects the password grant against
	// AdminRealm with admin-cli; otherwise the client credentials of
	// AdminClientID are used.
	AdminRealm        string
	AdminClientID     string
	AdminClientSecret string
	AdminUsername     string
	AdminPassword     string

	// PublicKey verifies bearer access tokens (PEM or bare base64 DER).
	PublicKey string
}

func (k KeycloakConfig) TokenURL() string {
	return strings.TrimRight(k.BaseURL, "/") + "/realms/" + k.Realm + "/protocol/openid-connect/token"
}

func (k KeycloakConfig) LogoutURL() string {
	return strings.TrimRight(k.BaseURL, "/") + "/realms/" + k.Realm + "/protocol/openid-connect/logout"
}

func (k KeycloakConfig) Issuer() string {
	return strings.TrimRight(k.BaseURL, "/") + "/realms/" + k.Realm
}

type UserServiceConfig struct {
	HTTP            HTTPConfig
	DatabaseURL     string
	Keycloak        KeycloakConfig
	GoogleClientID  string
	NotificationURL string
	// VerificationSecret keys the sealing of passwords held by pending codes.
	VerificationSecret string
	CodeTTL            time.Duration
	ResetTokenTTL      time.Duration
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
}

type SESConfig struct {
	Region          string
	AuthType        string
	AccessKeyID     string
	SecretAccessKey string
}

type MailerConfig struct {
	Type         string
	From         string
	ResendAPIKey string
	SMTP         SMTPConfig
	SES          SESConfig
}

type NotificationConfig struct {
	HTTP        HTTPConfig
	FrontendURL string
	CodeTTL     time.Duration
	Mailer      MailerConfig
}

func loadDotEnv() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		logrus.WithError(err).Warn("error load env")
	}
}

func LoadUserService() (UserServiceConfig, error) {
	loadDotEnv()

	codeTTL, err := durationEnv("VERIFICATION_CODE_TTL", 15*time.Minute)
	if err != nil {
		return UserServiceConfig{}, err
	}
	resetTTL, err := durationEnv("RESET_TOKEN_TTL", 30*time.Minute)
	if err != nil {
		return UserServiceConfig{}, err
	}

	cfg := UserServiceConfig{
		HTTP:        HTTPConfig{Addr: stringEnv("HTTP_ADDR", ":8080")},
		DatabaseURL: os.Getenv("DATABASE_URL"),
		Keycloak: KeycloakConfig{
			BaseURL:           os.Getenv("KEYCLOAK_BASE_URL"),
			Realm:             stringEnv("KEYCLOAK_REALM", "tripmate"),
			ClientID:          os.Getenv("KEYCLOAK_CLIENT_ID"),
			ClientSecret:      os.Getenv("KEYCLOAK_CLIENT_SECRET"),
			AdminRealm:        stringEnv("KEYCLOAK_ADMIN_REALM", "master"),
			AdminClientID:     os.Getenv("KEYCLOAK_ADMIN_CLIENT_ID"),
			AdminClientSecret: os.Getenv("KEYCLOAK_ADMIN_CLIENT_SECRET"),
			AdminUsername:     os.Getenv("KEYCLOAK_ADMIN_USERNAME"),
			AdminPassword:     os.Getenv("KEYCLOAK_ADMIN_PASSWORD"),
			PublicKey:         os.Getenv("KEYCLOAK_PUBLIC_KEY"),
		},
		GoogleClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
		NotificationURL:    stringEnv("NOTIFICATION_BASE_URL", "http://localhost:8081"),
		VerificationSecret: os.Getenv("VERIFICATION_SECRET"),
		CodeTTL:            codeTTL,
		ResetTokenTTL:      resetTTL,
	}

	var missing []string
	if cfg.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}
	if cfg.Keycloak.BaseURL == "" {
		missing = append(missing, "KEYCLOAK_BASE_URL")
	}
	if cfg.Keycloak.ClientID == "" {
		missing = append(missing, "KEYCLOAK_CLIENT_ID")
	}
	if cfg.VerificationSecret == "" {
		missing = append(missing, "VERIFICATION_SECRET")
	}
	if len(missing) > 0 {
		return UserServiceConfig{}, fmt.Errorf("missing required env: %s", strings.Join(missing, ", "))
	}
	return cfg, nil
}

func LoadNotification() (NotificationConfig, error) {
	loadDotEnv()

	codeTTL, err := durationEnv("VERIFICATION_CODE_TTL", 15*time.Minute)
	if err != nil {
		return NotificationConfig{}, err
	}
	smtpPort, err := intEnv("SMTP_PORT", 587)
	if err != nil {
		return NotificationConfig{}, err
	}

	cfg := NotificationConfig{
		HTTP:        HTTPConfig{Addr: stringEnv("HTTP_ADDR", ":8081")},
		FrontendURL: stringEnv("FRONTEND_URL", "http://localhost:3000"),
		CodeTTL:     codeTTL,
		Mailer: MailerConfig{
			Type:         stringEnv("MAILER_TYPE", "log"),
			From:         stringEnv("MAIL_FROM", "TripMate <no-reply@tripmate.local>"),
			ResendAPIKey: os.Getenv("RESEND_API_KEY"),
			SMTP: SMTPConfig{
				Host:     os.Getenv("SMTP_HOST"),
				Port:     smtpPort,
				Username: os.Getenv("SMTP_USERNAME"),
				Password: os.Getenv("SMTP_PASSWORD"),
			},
			SES: SESConfig{
				Region:          stringEnv("AWS_REGION", "eu-central-1"),
				AuthType:        stringEnv("SES_AUTH_TYPE", "iam_role"),
				AccessKeyID:     os.Getenv("AWS_ACCESS_KEY_ID"),
				SecretAccessKey: os.Getenv("AWS_SECRET_ACCESS_KEY"),
			},
		},
	}
	return cfg, nil
}

func stringEnv(key string, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}

func durationEnv(key string, fallback time.Duration) (time.Duration, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback, nil
	}
	value, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	if value <= 0 {
		return 0, fmt.Errorf("%s must be positive", key)
	}
	return value, nil
}

func intEnv(key string, fallback int) (int, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return value, nil
}
