// internal/api/middleware/auth.middleware.go
package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/platformbuilds/mirador-console/internal/config"
	"github.com/platformbuilds/mirador-console/internal/repo"
	"github.com/platformbuilds/mirador-console/pkg/logger"
)

// AuthMiddleware authenticates bearer JWTs and attaches the user named by
// the "sub" claim.
func AuthMiddleware(authConfig config.AuthConfig, users repo.UserRepo, log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if isPublicEndpoint(c.Request.URL.Path) {
			c.Next()
			return
		}

		token := extractToken(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"status": "error",
				"error":  "Authentication required",
			})
			return
		}

		userID, err := validateJWTToken(token, authConfig.JWT)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"status": "error",
				"error":  "Invalid authentication token",
				"detail": err.Error(),
			})
			return
		}

		user, err := users.GetUser(c.Request.Context(), userID)
		if err != nil {
			if !errors.Is(err, repo.ErrNotFound) {
				log.Error("User lookup failed", "user_id", userID, "error", err)
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"status": "error",
				"error":  "Invalid authentication token",
				"detail": "unknown user",
			})
			return
		}

		SetUser(c, user)

		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")

		c.Next()
	}
}

// IssueToken signs a session JWT for userID.
func IssueToken(jwtConfig config.JWTConfig, userID string, now time.Time) (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:  userID,
		Issuer:   jwtConfig.Issuer,
		IssuedAt: jwt.NewNumericDate(now),
	}
	if jwtConfig.ExpiryMinutes > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(time.Duration(jwtConfig.ExpiryMinutes) * time.Minute))
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(jwtConfig.Secret))
}

// extractToken gets the token from the Authorization header or the session
// cookie.
func extractToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			return strings.TrimSpace(parts[1])
		}
	}

	if cookie, err := c.Cookie("mirador_console_session"); err == nil {
		return cookie
	}

	return ""
}

func validateJWTToken(tokenString string, jwtConfig config.JWTConfig) (string, error) {
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if jwtConfig.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(jwtConfig.Issuer))
	}

	var claims jwt.RegisteredClaims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(*jwt.Token) (interface{}, error) {
		return []byte(jwtConfig.Secret), nil
	}, opts...)
	if err != nil || !token.Valid {
		return "", fmt.Errorf("invalid JWT token: %w", err)
	}

	if claims.Subject == "" {
		return "", fmt.Errorf("missing user ID in token")
	}
	return claims.Subject, nil
}

func isPublicEndpoint(path string) bool {
	publicPaths := []string{
		"/health",
		"/ready",
		"/metrics",
	}

	for _, publicPath := range publicPaths {
		if strings.HasPrefix(path, publicPath) {
			return true
		}
	}

	return false
}
