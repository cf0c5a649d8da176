package middleware

import (
	"net/http"
	"strings"

	"github.com/agrolink/farm-exchange/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type AuthMiddleware struct {
	tokenService *services.TokenService
	testMode     bool
}

func NewAuthMiddleware(tokenService *services.TokenService, testMode bool) *AuthMiddleware {
	return &AuthMiddleware{
		tokenService: tokenService,
		testMode:     testMode,
	}
}

// RequireAuth resolves the caller's profile id. The request layer owns
// authentication; downstream services get a stable caller identity.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if m.testMode {
			header := c.GetHeader("X-Test-Profile")
			if header == "" {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "X-Test-Profile header required in test mode"})
				c.Abort()
				return
			}
			profileID, err := uuid.Parse(header)
			if err != nil {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid X-Test-Profile header"})
				c.Abort()
				return
			}
			c.Set("profile_id", profileID)
			c.Next()
			return
		}

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "authorization header required"})
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization header format"})
			c.Abort()
			return
		}

		claims, err := m.tokenService.ValidateToken(parts[1])
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			c.Abort()
			return
		}

		profileID, err := uuid.Parse(claims.ProfileID)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token subject"})
			c.Abort()
			return
		}

		c.Set("profile_id", profileID)
		c.Next()
	}
}

func GetProfileID(c *gin.Context) uuid.UUID {
	value, exists := c.Get("profile_id")
	if !exists {
		return uuid.Nil
	}
	id, ok := value.(uuid.UUID)
	if !ok {
		return uuid.Nil
	}
	return id
}
