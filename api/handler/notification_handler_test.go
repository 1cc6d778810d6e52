package handler_test

import (
	"errors"
	"io"
	"net/http"
	"testing"

	"github.com/daniyarzhalgas/TripMate-backend/api/handler"
	"github.com/daniyarzhalgas/TripMate-backend/api/routes"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newNotificationEcho(emails handler.EmailSender) *echo.Echo {
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	e := echo.New()
	e.HTTPErrorHandler = handler.HTTPErrorHandler
	routes.RegisterNotificationRoutes(e, handler.NewNotificationHandler(emails, validator.New(), logger))
	return e
}

func TestNotificationHandler(t *testing.T) {
	token := uuid.NewString()

	tests := []struct {
		name           string
		path           string
		body           any
		setupMock      func(m *mockEmailSender)
		expectedStatus int
	}{
		{
			name: "verification code",
			path: "/api/notification/verification-code",
			body: map[string]string{"email": "ann@example.com", "code": "042917"},
			setupMock: func(m *mockEmailSender) {
				m.On("SendVerificationCode", mock.Anything, "ann@example.com", "042917").Return(nil).Once()
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "reset link",
			path: "/api/notification/password-reset-link",
			body: map[string]string{"email": "ann@example.com", "token": token},
			setupMock: func(m *mockEmailSender) {
				m.On("SendPasswordResetLink", mock.Anything, "ann@example.com", token).Return(nil).Once()
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "welcome",
			path: "/api/notification/welcome-message",
			body: map[string]string{"email": "ann@example.com"},
			setupMock: func(m *mockEmailSender) {
				m.On("SendWelcomeMessage", mock.Anything, "ann@example.com").Return(nil).Once()
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "delivery failure",
			path: "/api/notification/welcome-message",
			body: map[string]string{"email": "ann@example.com"},
			setupMock: func(m *mockEmailSender) {
				m.On("SendWelcomeMessage", mock.Anything, "ann@example.com").Return(errors.New("smtp: 554")).Once()
			},
			expectedStatus: http.StatusInternalServerError,
		},
		{
			name:           "reset token must be a uuid",
			path:           "/api/notification/password-reset-link",
			body:           map[string]string{"email": "ann@example.com", "token": "abc"},
			setupMock:      func(*mockEmailSender) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "code must be six digits",
			path:           "/api/notification/verification-code",
			body:           map[string]string{"email": "ann@example.com", "code": "42"},
			setupMock:      func(*mockEmailSender) {},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			emails := new(mockEmailSender)
			tc.setupMock(emails)
			e := newNotificationEcho(emails)

			rec, env := doRequest(t, e, http.MethodPost, tc.path, tc.body, nil)

			assert.Equal(t, tc.expectedStatus, rec.Code)
			assert.Equal(t, tc.expectedStatus == http.StatusOK, env.Success)
			emails.AssertExpectations(t)
		})
	}
}
