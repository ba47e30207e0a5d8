package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret string, claims CustomerClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func customerToken(t *testing.T, customerID uuid.UUID) string {
	return signToken(t, testSecret, CustomerClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   customerID.String(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
}

func TestTokenValidator(t *testing.T) {
	validator := NewTokenValidator(testSecret)
	customerID := uuid.New()

	claims, err := validator.Validate(customerToken(t, customerID))
	require.NoError(t, err)
	assert.Equal(t, customerID.String(), claims.Subject)
	assert.False(t, claims.Guest)
}

func TestTokenValidatorRejectsBadTokens(t *testing.T) {
	validator := NewTokenValidator(testSecret)

	tests := []struct {
		name  string
		token string
	}{
		{"garbage", "not-a-token"},
		{"wrong secret", signToken(t, "other-secret", CustomerClaims{
			RegisteredClaims: jwt.RegisteredClaims{Subject: uuid.New().String()},
		})},
		{"expired", signToken(t, testSecret, CustomerClaims{
			RegisteredClaims: jwt.RegisteredClaims{
				Subject:   uuid.New().String(),
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
			},
		})},
		{"non-uuid subject", signToken(t, testSecret, CustomerClaims{
			RegisteredClaims: jwt.RegisteredClaims{Subject: "customer-42"},
		})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := validator.Validate(tt.token)
			assert.Error(t, err)
		})
	}
}

func authTestRouter(optional bool) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/whoami", CustomerAuth(NewTokenValidator(testSecret), optional), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"customerId": GetCustomerID(c).String()})
	})
	return router
}

func TestCustomerAuthBindsCustomer(t *testing.T) {
	router := authTestRouter(true)
	customerID := uuid.New()

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set(AuthorizationHeader, BearerPrefix+customerToken(t, customerID))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), customerID.String())
}

func TestCustomerAuthOptionalPassesAnonymous(t *testing.T) {
	router := authTestRouter(true)

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), uuid.Nil.String())
}

func TestCustomerAuthRequiredRejectsMissingToken(t *testing.T) {
	router := authTestRouter(false)

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCustomerAuthRequiredRejectsInvalidToken(t *testing.T) {
	router := authTestRouter(false)

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set(AuthorizationHeader, BearerPrefix+"bogus")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
