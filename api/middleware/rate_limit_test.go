package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

func serveLimited(t *testing.T, e *echo.Echo, path string, ip string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, nil)
	req.RemoteAddr = ip + ":5555"
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func newLimitedEcho(limiter *RateLimiter) *echo.Echo {
	e := echo.New()
	ok := func(c echo.Context) error { return c.NoContent(http.StatusNoContent) }
	e.POST("/a", ok, limiter.Middleware())
	e.POST("/b", ok, limiter.Middleware())
	return e
}

func TestRateLimiter_RejectsAfterBurst(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	limiter := NewRateLimiter(rate.Limit(1), 2, time.Minute)
	limiter.now = func() time.Time { return now }
	e := newLimitedEcho(limiter)

	assert.Equal(t, http.StatusNoContent, serveLimited(t, e, "/a", "10.0.0.1").Code)
	assert.Equal(t, http.StatusNoContent, serveLimited(t, e, "/a", "10.0.0.1").Code)

	rec := serveLimited(t, e, "/a", "10.0.0.1")
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "1", rec.Header().Get("Retry-After"))

	// another client has its own bucket
	assert.Equal(t, http.StatusNoContent, serveLimited(t, e, "/a", "10.0.0.2").Code)

	now = now.Add(time.Second)
	assert.Equal(t, http.StatusNoContent, serveLimited(t, e, "/a", "10.0.0.1").Code)
}

func TestRateLimiter_RouteKey(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	limiter := NewRateLimiter(rate.Limit(1), 1, time.Minute)
	limiter.now = func() time.Time { return now }
	limiter.KeyFunc = RouteKey
	e := newLimitedEcho(limiter)

	assert.Equal(t, http.StatusNoContent, serveLimited(t, e, "/a", "10.0.0.1").Code)
	assert.Equal(t, http.StatusTooManyRequests, serveLimited(t, e, "/a", "10.0.0.1").Code)
	assert.Equal(t, http.StatusNoContent, serveLimited(t, e, "/b", "10.0.0.1").Code)
}

func TestRateLimiter_DropsIdleBuckets(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	limiter := NewRateLimiter(rate.Limit(1), 1, time.Minute)
	limiter.now = func() time.Time { return now }

	limiter.getLimiter("old")
	now = now.Add(2 * time.Minute)
	limiter.getLimiter("new")

	assert.NotContains(t, limiter.limiters, "old")
	assert.Contains(t, limiter.limiters, "new")
}
