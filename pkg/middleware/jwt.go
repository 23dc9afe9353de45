package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/AkiliNova/in-vent/pkg/logger"
	"github.com/AkiliNova/in-vent/pkg/response"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("invalid token")
)

// Context keys for session information
const (
	ContextKeyUserID    = "user_id"
	ContextKeyEmail     = "email"
	ContextKeyRole      = "role"
	ContextKeyTenantID  = "tenant_id"
	ContextKeySessionID = "session_id"
	ContextKeyIssuedAt  = "issued_at"
	ContextKeyExpiresAt = "expires_at"
)

// RevocationChecker reports whether a session was ended by sign-out
type RevocationChecker interface {
	IsRevoked(ctx context.Context, sessionID string) (bool, error)
}

// JWTConfig holds configuration for JWT middleware
type JWTConfig struct {
	// Secret key for validating JWT tokens
	Secret string
	// Issuer, when set, must match the iss claim
	Issuer string
	// SkipPaths is a list of paths that should skip JWT validation
	SkipPaths []string
	// Revocations is consulted for every token carrying a session_id
	Revocations RevocationChecker
}

// JWTMiddleware validates the bearer token and places the session claims in the context
func JWTMiddleware(config *JWTConfig) gin.HandlerFunc {
	parserOpts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if config.Issuer != "" {
		parserOpts = append(parserOpts, jwt.WithIssuer(config.Issuer))
	}
	parser := jwt.NewParser(parserOpts...)

	return func(c *gin.Context) {
		for _, path := range config.SkipPaths {
			if c.Request.URL.Path == path {
				c.Next()
				return
			}
		}

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.Error("MISSING_TOKEN", "Authorization header is required"))
			return
		}

		const bearerPrefix = "Bearer "
		if !strings.HasPrefix(authHeader, bearerPrefix) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.Error("INVALID_TOKEN", "Invalid authorization header format"))
			return
		}
		tokenString := strings.TrimSpace(authHeader[len(bearerPrefix):])
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.Error("INVALID_TOKEN", "Token is empty"))
			return
		}

		claims := jwt.MapClaims{}
		token, err := parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
			return []byte(config.Secret), nil
		})
		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, response.Error("TOKEN_EXPIRED", "Access token has expired"))
				return
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.Error("INVALID_TOKEN", "Invalid access token"))
			return
		}
		if !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.Error("INVALID_TOKEN", "Invalid access token"))
			return
		}

		userID, ok := claims["user_id"].(string)
		if !ok || userID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.Error("INVALID_TOKEN", "Missing user_id in token"))
			return
		}

		email, _ := claims["email"].(string)
		role, _ := claims["role"].(string)
		tenantID, _ := claims["tenant_id"].(string)
		sessionID, _ := claims["session_id"].(string)

		if sessionID != "" && config.Revocations != nil {
			revoked, err := config.Revocations.IsRevoked(c.Request.Context(), sessionID)
			if err != nil {
				c.AbortWithStatusJSON(http.StatusServiceUnavailable, response.ServiceUnavailable("Session store unavailable"))
				return
			}
			if revoked {
				c.AbortWithStatusJSON(http.StatusUnauthorized, response.Error("SESSION_ENDED", "Session has been signed out"))
				return
			}
		}

		c.Set(ContextKeyUserID, userID)
		c.Set(ContextKeyEmail, email)
		c.Set(ContextKeyRole, role)
		c.Set(ContextKeyTenantID, tenantID)
		c.Set(ContextKeySessionID, sessionID)
		if iat, err := claims.GetIssuedAt(); err == nil && iat != nil {
			c.Set(ContextKeyIssuedAt, iat.Time)
		}
		if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
			c.Set(ContextKeyExpiresAt, exp.Time)
		}

		if tenantID != "" {
			c.Request = c.Request.WithContext(context.WithValue(c.Request.Context(), logger.TenantIDKey, tenantID))
		}

		c.Next()
	}
}

// RequireRole creates a middleware that checks if user has required role
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		roleStr, ok := GetRole(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.Unauthorized("User not authenticated"))
			return
		}

		for _, r := range roles {
			if roleStr == r {
				c.Next()
				return
			}
		}

		c.AbortWithStatusJSON(http.StatusForbidden, response.Forbidden("Insufficient permissions"))
	}
}

// RequireTenant rejects sessions whose admin is not attached to a tenant
func RequireTenant() gin.HandlerFunc {
	return func(c *gin.Context) {
		if tenantID, ok := GetTenantID(c); !ok || tenantID == "" {
			c.AbortWithStatusJSON(http.StatusForbidden, response.Error(response.ErrCodeNoTenant, "No tenant is associated with this account"))
			return
		}
		c.Next()
	}
}

func getString(c *gin.Context, key string) (string, bool) {
	v, exists := c.Get(key)
	if !exists {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// GetUserID extracts user ID from gin context
func GetUserID(c *gin.Context) (string, bool) {
	return getString(c, ContextKeyUserID)
}

// GetEmail extracts email from gin context
func GetEmail(c *gin.Context) (string, bool) {
	return getString(c, ContextKeyEmail)
}

// GetRole extracts role from gin context
func GetRole(c *gin.Context) (string, bool) {
	return getString(c, ContextKeyRole)
}

// GetTenantID extracts tenant ID from gin context
func GetTenantID(c *gin.Context) (string, bool) {
	return getString(c, ContextKeyTenantID)
}

// GetSessionID extracts the session ID from gin context
func GetSessionID(c *gin.Context) (string, bool) {
	return getString(c, ContextKeySessionID)
}
