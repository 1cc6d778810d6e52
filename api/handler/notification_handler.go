package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/daniyarzhalgas/TripMate-backend/internal/dto"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

type EmailSender interface {
	SendVerificationCode(ctx context.Context, email string, code string) error
	SendPasswordResetLink(ctx context.Context, email string, token string) error
	SendWelcomeMessage(ctx context.Context, email string) error
}

type NotificationHandler struct {
	Emails   EmailSender
	Validate *validator.Validate
	Log      logrus.FieldLogger
}

func NewNotificationHandler(emails EmailSender, validate *validator.Validate, log logrus.FieldLogger) *NotificationHandler {
	return &NotificationHandler{Emails: emails, Validate: validate, Log: log}
}

func (h *NotificationHandler) VerificationCode(c echo.Context) error {
	var req dto.VerificationCodeRequest
	if err := decodeJSON(c, &req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	if err := validate(h.Validate, req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	err := h.Emails.SendVerificationCode(c.Request().Context(), req.Email, req.Code)
	return h.delivered(c, "verification code", req.Email, err)
}

func (h *NotificationHandler) PasswordResetLink(c echo.Context) error {
	var req dto.PasswordResetLinkRequest
	if err := decodeJSON(c, &req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	if err := validate(h.Validate, req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	err := h.Emails.SendPasswordResetLink(c.Request().Context(), req.Email, req.Token)
	return h.delivered(c, "password reset link", req.Email, err)
}

func (h *NotificationHandler) WelcomeMessage(c echo.Context) error {
	var req dto.WelcomeMessageRequest
	if err := decodeJSON(c, &req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	if err := validate(h.Validate, req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	err := h.Emails.SendWelcomeMessage(c.Request().Context(), req.Email)
	return h.delivered(c, "welcome message", req.Email, err)
}

func (h *NotificationHandler) delivered(c echo.Context, kind string, email string, err error) error {
	if err != nil {
		if h.Log != nil {
			h.Log.WithError(err).WithFields(logrus.Fields{"kind": kind, "email": email}).Error("email delivery failed")
		}
		return writeError(c, http.StatusInternalServerError, errors.New("failed to send "+kind))
	}
	return c.JSON(http.StatusOK, dto.OK(nil, kind+" sent"))
}

func Health(c echo.Context) error {
	return c.JSON(http.StatusOK, dto.OK(map[string]string{"status": "ok"}, ""))
}
