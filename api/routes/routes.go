package routes

import (
	"time"

	"github.com/daniyarzhalgas/TripMate-backend/api/handler"
	"github.com/daniyarzhalgas/TripMate-backend/api/middleware"

	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"
)

const AdminRole = "admin"

type Router struct {
	Echo           *echo.Echo
	Auth           *handler.AuthHandler
	AuthMiddleware middleware.AuthMiddleware
	AuthRate       *middleware.RateLimiter
	LoginRate      *middleware.RateLimiter
}

func NewRouter(e *echo.Echo, authHandler *handler.AuthHandler, authMiddleware middleware.AuthMiddleware) *Router {
	loginRate := middleware.NewRateLimiter(rate.Limit(2), 4, 10*time.Minute)
	loginRate.KeyFunc = middleware.RouteKey
	return &Router{
		Echo:           e,
		Auth:           authHandler,
		AuthMiddleware: authMiddleware,
		AuthRate:       middleware.NewRateLimiter(rate.Limit(5), 10, 5*time.Minute),
		LoginRate:      loginRate,
	}
}

func (r *Router) RegisterRoutes() {
	e := r.Echo
	e.GET("/healthz", handler.Health)

	auth := e.Group("/api/auth")
	auth.POST("/register", r.Auth.Register, r.AuthRate.Middleware())
	auth.POST("/verify-email", r.Auth.VerifyEmail, r.LoginRate.Middleware())
	auth.POST("/resend-verification", r.Auth.ResendVerification, r.LoginRate.Middleware())
	auth.POST("/forgot-password", r.Auth.ForgotPassword, r.LoginRate.Middleware())
	auth.POST("/reset-password", r.Auth.ResetPassword, r.AuthRate.Middleware())
	auth.POST("/refresh-token", r.Auth.RefreshToken, r.AuthRate.Middleware())
	auth.POST("/logout", r.Auth.Logout)
	auth.POST("/google", r.Auth.GoogleSignIn, r.AuthRate.Middleware())
	auth.POST("/login", r.Auth.Login, r.LoginRate.Middleware())

	e.GET("/api/users/me", r.Auth.Me, r.AuthMiddleware.RequireAuth)
	e.GET("/api/admin/auth-events", r.Auth.AdminListAuthEvents, r.AuthMiddleware.RequireAuth, middleware.RequireRole(AdminRole))
}

// RegisterNotificationRoutes mounts the internal mail endpoints called by the
// user service.
func RegisterNotificationRoutes(e *echo.Echo, h *handler.NotificationHandler) {
	e.GET("/healthz", handler.Health)

	notification := e.Group("/api/notification")
	notification.POST("/verification-code", h.VerificationCode)
	notification.POST("/password-reset-link", h.PasswordResetLink)
	notification.POST("/welcome-message", h.WelcomeMessage)
}
