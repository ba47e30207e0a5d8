package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	// AuthorizationHeader is the header key for authorization.
	AuthorizationHeader = "Authorization"
	// BearerPrefix is the prefix for bearer tokens.
	BearerPrefix = "Bearer "
	// CustomerIDKey is the context key for the customer ID.
	CustomerIDKey = "customer_id"
	// GuestKey is the context key for the guest flag.
	GuestKey = "guest"
)

// CustomerClaims are the claims carried by a customer access token.
type CustomerClaims struct {
	Guest bool `json:"guest,omitempty"`
	jwt.RegisteredClaims
}

// TokenValidator validates customer access tokens.
type TokenValidator struct {
	secret []byte
}

// NewTokenValidator creates a validator for HS256 customer tokens.
func NewTokenValidator(secret string) *TokenValidator {
	return &TokenValidator{secret: []byte(secret)}
}

// Validate parses and verifies an access token and returns its claims.
func (v *TokenValidator) Validate(token string) (*CustomerClaims, error) {
	claims := &CustomerClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil {
		return nil, err
	}
	if !parsed.Valid {
		return nil, errors.New("invalid token")
	}
	if _, err := uuid.Parse(claims.Subject); err != nil {
		return nil, fmt.Errorf("invalid subject: %w", err)
	}
	return claims, nil
}

// CustomerAuth returns a middleware that validates customer bearer tokens.
// On success it binds the customer identity to the gin context; with optional
// set, requests without a token pass through anonymously.
func CustomerAuth(validator *TokenValidator, optional bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractBearerToken(c)
		if token == "" {
			if !optional {
				abortUnauthorized(c, "UNAUTHORIZED", "Authorization header required")
				return
			}
			c.Next()
			return
		}

		claims, err := validator.Validate(token)
		if err != nil {
			if !optional {
				abortUnauthorized(c, "INVALID_TOKEN", "Invalid or expired token")
				return
			}
			c.Next()
			return
		}

		customerID, _ := uuid.Parse(claims.Subject)
		c.Set(CustomerIDKey, customerID)
		c.Set(GuestKey, claims.Guest)

		c.Next()
	}
}

// GetCustomerID returns the authenticated customer ID, or uuid.Nil.
func GetCustomerID(c *gin.Context) uuid.UUID {
	val, exists := c.Get(CustomerIDKey)
	if !exists {
		return uuid.Nil
	}
	id, ok := val.(uuid.UUID)
	if !ok {
		return uuid.Nil
	}
	return id
}

func extractBearerToken(c *gin.Context) string {
	header := c.GetHeader(AuthorizationHeader)
	if header == "" || !strings.HasPrefix(header, BearerPrefix) {
		return ""
	}
	return strings.TrimPrefix(header, BearerPrefix)
}

func abortUnauthorized(c *gin.Context, code, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}
