package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/daniyarzhalgas/TripMate-backend/api/handler"
	apiMiddleware "github.com/daniyarzhalgas/TripMate-backend/api/middleware"
	"github.com/daniyarzhalgas/TripMate-backend/api/routes"
	"github.com/daniyarzhalgas/TripMate-backend/config"
	"github.com/daniyarzhalgas/TripMate-backend/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	cfg, err := config.LoadNotification()
	if err != nil {
		logger.WithError(err).Fatal("load config")
	}

	mailer, err := service.NewMailer(context.Background(), cfg.Mailer, logger.WithField("component", "mailer"))
	if err != nil {
		logger.WithError(err).Fatal("create mailer")
	}
	emails := service.NewEmailService(mailer, cfg.FrontendURL, cfg.CodeTTL)

	app := echo.New()
	app.HideBanner = true
	app.HidePort = true
	app.HTTPErrorHandler = handler.HTTPErrorHandler
	app.Use(echoMiddleware.Recover())
	app.Use(apiMiddleware.RequestLogger(logger))

	notificationHandler := handler.NewNotificationHandler(emails, validator.New(), logger.WithField("component", "notification"))
	routes.RegisterNotificationRoutes(app, notificationHandler)

	server := &http.Server{
		Addr:              cfg.HTTP.Addr,
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.WithFields(logrus.Fields{"addr": cfg.HTTP.Addr, "mailer": cfg.Mailer.Type}).Info("notification service started")
	if err := app.StartServer(server); err != nil {
		logger.WithError(err).Fatal("server stopped")
	}
}
