package main

import (
	"net/http"
	"os"
	"time"

	"github.com/daniyarzhalgas/TripMate-backend/api/handler"
	apiMiddleware "github.com/daniyarzhalgas/TripMate-backend/api/middleware"
	"github.com/daniyarzhalgas/TripMate-backend/api/routes"
	"github.com/daniyarzhalgas/TripMate-backend/config"
	"github.com/daniyarzhalgas/TripMate-backend/internal/repository"
	"github.com/daniyarzhalgas/TripMate-backend/internal/service"
	"github.com/daniyarzhalgas/TripMate-backend/internal/utils"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	cfg, err := config.LoadUserService()
	if err != nil {
		logger.WithError(err).Fatal("load config")
	}

	db, err := config.ConnectionDb(cfg.DatabaseURL)
	if err != nil {
		logger.WithError(err).Fatal("connect database")
	}
	if err := config.Migrate(db); err != nil {
		logger.WithError(err).Fatal("migrate database")
	}

	httpClient := &http.Client{Timeout: 10 * time.Second}
	authConfig := service.AuthConfig{CodeTTL: cfg.CodeTTL, ResetTokenTTL: cfg.ResetTokenTTL}

	verification := service.NewVerificationService(
		repository.NewVerificationCodeRepository(db),
		repository.NewPasswordResetTokenRepository(db),
		utils.NewSecretBox(cfg.VerificationSecret),
		service.RealClock{},
		authConfig,
	)

	notifier := service.NewNotificationClient(cfg.NotificationURL)

	authService := service.NewAuthService(
		repository.NewTransactor(db),
		verification,
		repository.NewUserProfileRepository(db),
		repository.NewAuthEventRepository(db),
		service.NewKeycloakIdentity(cfg.Keycloak, httpClient),
		notifier,
		service.NewGoogleIDTokenVerifier(cfg.GoogleClientID),
		service.RealClock{},
		logger.WithField("component", "auth"),
	)

	var authMiddleware apiMiddleware.AuthMiddleware
	if cfg.Keycloak.PublicKey != "" {
		verifier, err := utils.NewAccessTokenVerifier(cfg.Keycloak.PublicKey, cfg.Keycloak.Issuer())
		if err != nil {
			logger.WithError(err).Fatal("parse KEYCLOAK_PUBLIC_KEY")
		}
		authMiddleware.Tokens = verifier
	} else {
		logger.Warn("KEYCLOAK_PUBLIC_KEY is not set, bearer endpoints will reject every request")
	}

	app := echo.New()
	app.HideBanner = true
	app.HidePort = true
	app.HTTPErrorHandler = handler.HTTPErrorHandler
	app.Use(echoMiddleware.Recover())
	app.Use(apiMiddleware.RequestLogger(logger))

	authHandler := handler.NewAuthHandler(authService, validator.New())
	router := routes.NewRouter(app, authHandler, authMiddleware)
	router.RegisterRoutes()

	server := &http.Server{
		Addr:              cfg.HTTP.Addr,
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.WithField("addr", cfg.HTTP.Addr).Info("user service started")
	if err := app.StartServer(server); err != nil {
		logger.WithError(err).Fatal("server stopped")
	}
}
