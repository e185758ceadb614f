package middleware

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/pedrorichil/aprovaia/internal/models"
)

const tokenTTL = 24 * time.Hour

// Context keys set by the auth middleware.
const (
	ContextUserID    = "user_id"
	ContextProfileID = "profile_id"
	ContextTenantID  = "tenant_id"
	ContextRole      = "role"
)

type Claims struct {
	UserID    string          `json:"user_id"`
	ProfileID string          `json:"profile_id"`
	TenantID  string          `json:"tenant_id"`
	Role      models.UserRole `json:"role"`
	jwt.RegisteredClaims
}

// GenerateToken issues the HS256 access token for a user.
func GenerateToken(user *models.User, secret string) (string, error) {
	claims := &Claims{
		UserID:    user.ID,
		ProfileID: user.Profile.ID,
		TenantID:  user.TenantID,
		Role:      user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.Email,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// Auth validates the bearer token and stores the caller's identity on the
// request context.
func Auth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			return
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header format must be Bearer {token}"})
			return
		}

		token, err := jwt.ParseWithClaims(parts[1], &Claims{}, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		claims, ok := token.Claims.(*Claims)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token claims"})
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextProfileID, claims.ProfileID)
		c.Set(ContextTenantID, claims.TenantID)
		c.Set(ContextRole, string(claims.Role))
		c.Next()
	}
}

// RequireRole rejects callers whose token does not carry the given role.
func RequireRole(role models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(ContextRole) != string(role) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Insufficient permissions"})
			return
		}
		c.Next()
	}
}
