package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockRateLimiter struct {
	mock.Mock
}

func (m *MockRateLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	args := m.Called(ctx, key, limit, window)
	return args.Bool(0), args.Error(1)
}

func (m *MockRateLimiter) Remaining(ctx context.Context, key string, limit int, window time.Duration) (int, error) {
	args := m.Called(ctx, key, limit, window)
	return args.Int(0), args.Error(1)
}

func rateLimitTestRouter(limiter RateLimiter, pre ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	handlers := append(pre, RateLimit(limiter, 10, time.Minute), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	router.GET("/ping", handlers...)
	return router
}

func TestRateLimitAllows(t *testing.T) {
	limiter := &MockRateLimiter{}
	limiter.On("Allow", mock.Anything, mock.Anything, 10, time.Minute).Return(true, nil)
	limiter.On("Remaining", mock.Anything, mock.Anything, 10, time.Minute).Return(9, nil)
	router := rateLimitTestRouter(limiter)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "10", w.Header().Get(HeaderRateLimitLimit))
	assert.Equal(t, "9", w.Header().Get(HeaderRateLimitRemaining))
	assert.NotEmpty(t, w.Header().Get(HeaderRateLimitReset))
}

func TestRateLimitRejectsWhenExhausted(t *testing.T) {
	limiter := &MockRateLimiter{}
	limiter.On("Allow", mock.Anything, mock.Anything, 10, time.Minute).Return(false, nil)
	limiter.On("Remaining", mock.Anything, mock.Anything, 10, time.Minute).Return(0, nil)
	router := rateLimitTestRouter(limiter)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))

	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "60", w.Header().Get(HeaderRetryAfter))
	assert.Contains(t, w.Body.String(), "RATE_LIMIT_EXCEEDED")
}

func TestRateLimitFailsOpenOnLimiterError(t *testing.T) {
	limiter := &MockRateLimiter{}
	limiter.On("Allow", mock.Anything, mock.Anything, 10, time.Minute).Return(false, errors.New("redis down"))
	router := rateLimitTestRouter(limiter)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRateLimitKeysByCustomer(t *testing.T) {
	customerID := uuid.New()
	limiter := &MockRateLimiter{}
	limiter.On("Allow", mock.Anything, "customer:"+customerID.String(), 10, time.Minute).Return(true, nil)
	limiter.On("Remaining", mock.Anything, "customer:"+customerID.String(), 10, time.Minute).Return(9, nil)

	router := rateLimitTestRouter(limiter, func(c *gin.Context) {
		c.Set(CustomerIDKey, customerID)
		c.Next()
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	limiter.AssertExpectations(t)
}

func TestRateLimitNilLimiterPassesThrough(t *testing.T) {
	router := rateLimitTestRouter(nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get(HeaderRateLimitLimit))
}
