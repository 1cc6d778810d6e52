package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/daniyarzhalgas/TripMate-backend/internal/dto"
	"github.com/daniyarzhalgas/TripMate-backend/internal/entity"
	"github.com/daniyarzhalgas/TripMate-backend/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type AuthService interface {
	Register(ctx context.Context, input service.RegisterInput) (*service.RegisterResult, error)
	VerifyEmail(ctx context.Context, input service.VerifyEmailInput) (*service.TokenPair, error)
	ResendVerification(ctx context.Context, email string) error
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, input service.ResetPasswordInput) error
	Refresh(ctx context.Context, refreshToken string) (*service.TokenPair, error)
	Logout(ctx context.Context, refreshToken string) error
	GoogleSignIn(ctx context.Context, idToken string) (*service.TokenPair, error)
	Login(ctx context.Context, input service.LoginInput) (*service.TokenPair, error)
	GetProfile(ctx context.Context, userID uuid.UUID) (*entity.UserProfile, error)
	ListAuthEvents(ctx context.Context, email string, limit int) ([]entity.AuthEvent, error)
}

type AuthHandler struct {
	Service  AuthService
	Validate *validator.Validate
}

func NewAuthHandler(svc AuthService, validate *validator.Validate) *AuthHandler {
	return &AuthHandler{Service: svc, Validate: validate}
}

func (h *AuthHandler) Register(c echo.Context) error {
	var req dto.RegisterRequest
	if err := decodeJSON(c, &req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	if err := validate(h.Validate, req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	input, err := registerInput(req)
	if err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	input.IPAddress = stringPtr(c.RealIP())
	result, err := h.Service.Register(c.Request().Context(), input)
	if err != nil {
		return writeServiceError(c, err)
	}
	response := dto.RegisterResponse{UserID: result.UserID, Email: result.Email}
	return c.JSON(http.StatusCreated, dto.OK(response, "Registration successful. Check your email for the verification code"))
}

func (h *AuthHandler) VerifyEmail(c echo.Context) error {
	var req dto.VerifyEmailRequest
	if err := decodeJSON(c, &req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	if err := validate(h.Validate, req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	tokens, err := h.Service.VerifyEmail(c.Request().Context(), service.VerifyEmailInput{Email: req.Email, Code: req.Code})
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusAccepted, dto.OK(tokenResponse(tokens), "Email verified"))
}

func (h *AuthHandler) ResendVerification(c echo.Context) error {
	var req dto.ResendVerificationRequest
	if err := decodeJSON(c, &req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	if err := validate(h.Validate, req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	if err := h.Service.ResendVerification(c.Request().Context(), req.Email); err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusAccepted, dto.OK(nil, "Verification code sent"))
}

// ForgotPassword answers 202 for every request so callers cannot tell which
// addresses are registered.
func (h *AuthHandler) ForgotPassword(c echo.Context) error {
	var req dto.ForgotPasswordRequest
	if err := decodeJSON(c, &req); err == nil && strings.TrimSpace(req.Email) != "" {
		if err := h.Service.ForgotPassword(c.Request().Context(), req.Email); err != nil {
			c.Logger().Error(err)
		}
	}
	return c.JSON(http.StatusAccepted, dto.OK(nil, "If the account exists, a reset link has been sent"))
}

func (h *AuthHandler) ResetPassword(c echo.Context) error {
	var req dto.ResetPasswordRequest
	if err := decodeJSON(c, &req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	if err := validate(h.Validate, req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	input := service.ResetPasswordInput{Token: req.Token, NewPassword: req.NewPassword}
	if err := h.Service.ResetPassword(c.Request().Context(), input); err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, dto.OK(nil, "Password has been reset"))
}

func (h *AuthHandler) RefreshToken(c echo.Context) error {
	var req dto.RefreshTokenRequest
	if err := decodeJSON(c, &req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	if err := validate(h.Validate, req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	tokens, err := h.Service.Refresh(c.Request().Context(), req.RefreshToken)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, dto.OK(tokenResponse(tokens), ""))
}

// Logout always reports success, even for a malformed body.
func (h *AuthHandler) Logout(c echo.Context) error {
	var req dto.LogoutRequest
	if err := decodeJSON(c, &req); err == nil && req.RefreshToken != "" {
		_ = h.Service.Logout(c.Request().Context(), req.RefreshToken)
	}
	return c.JSON(http.StatusOK, dto.OK(nil, "Logged out"))
}

func (h *AuthHandler) GoogleSignIn(c echo.Context) error {
	var req dto.GoogleSignInRequest
	if err := decodeJSON(c, &req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	if err := validate(h.Validate, req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	tokens, err := h.Service.GoogleSignIn(c.Request().Context(), req.IDToken)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, dto.OK(tokenResponse(tokens), ""))
}

func (h *AuthHandler) Login(c echo.Context) error {
	var req dto.LoginRequest
	if err := decodeJSON(c, &req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	if err := validate(h.Validate, req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	input := service.LoginInput{
		Email:     req.Email,
		Password:  req.Password,
		IPAddress: stringPtr(c.RealIP()),
	}
	tokens, err := h.Service.Login(c.Request().Context(), input)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusAccepted, dto.OK(tokenResponse(tokens), ""))
}

func registerInput(req dto.RegisterRequest) (service.RegisterInput, error) {
	input := service.RegisterInput{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		City:      req.City,
		Country:   req.Country,
		Bio:       req.Bio,
	}
	if req.DateOfBirth != nil {
		dob, err := time.Parse("2006-01-02", *req.DateOfBirth)
		if err != nil {
			return input, errors.New("date_of_birth must be YYYY-MM-DD")
		}
		input.DateOfBirth = &dob
	}
	if req.Gender != nil {
		gender := entity.Gender(*req.Gender)
		input.Gender = &gender
	}
	return input, nil
}

func tokenResponse(tokens *service.TokenPair) *dto.TokenResponse {
	if tokens == nil {
		return nil
	}
	return &dto.TokenResponse{
		AccessToken:      tokens.AccessToken,
		RefreshToken:     tokens.RefreshToken,
		TokenType:        tokens.TokenType,
		ExpiresIn:        tokens.ExpiresIn,
		RefreshExpiresIn: tokens.RefreshExpiresIn,
	}
}

func stringPtr(value string) *string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return &value
}
