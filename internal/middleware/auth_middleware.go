// internal/middleware/auth_middleware.go
package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"ptieasy-service/internal/domain/auth"
	"ptieasy-service/internal/pkg/jwt"
	"ptieasy-service/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

// TokenValidator checks a bearer token against its signature and session.
type TokenValidator interface {
	ValidateToken(ctx context.Context, token string) (*jwt.Claims, error)
}

type AuthMiddleware struct {
	validator TokenValidator
}

func NewAuthMiddleware(validator TokenValidator) *AuthMiddleware {
	return &AuthMiddleware{
		validator: validator,
	}
}

// Auth is the base authentication middleware that validates JWT tokens
func (m *AuthMiddleware) Auth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := ExtractToken(c)
		if token == "" {
			response.Error(c, http.StatusUnauthorized, "missing authorization token", nil)
			return
		}

		claims, err := m.validator.ValidateToken(c.Request.Context(), token)
		if err != nil {
			response.Error(c, http.StatusUnauthorized, "invalid or expired token", err)
			return
		}

		setClaims(c, claims)
		c.Next()
	}
}

// RequireRole middleware that requires user to have one of the specified roles
// MUST be used after Auth() middleware
func (m *AuthMiddleware) RequireRole(roles ...auth.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		state := GetAuthState(c)
		if !state.Authenticated {
			response.Error(c, http.StatusUnauthorized, "authentication required", nil)
			return
		}

		for _, required := range roles {
			if state.Role == required {
				c.Next()
				return
			}
		}

		err := errors.New("user does not have required role")
		response.Error(c, http.StatusForbidden, "insufficient permissions", err, map[string]interface{}{
			"required_roles": roles,
			"user_role":      state.Role,
		})
	}
}

// Composed middleware functions that combine Auth + Role checks

// ManagerOnly returns middlewares for manager routes (Auth + RequireRole)
func (m *AuthMiddleware) ManagerOnly() []gin.HandlerFunc {
	return []gin.HandlerFunc{
		m.Auth(),
		m.RequireRole(auth.RoleManager),
	}
}

// DriverOnly returns middlewares for driver routes (Auth + RequireRole)
func (m *AuthMiddleware) DriverOnly() []gin.HandlerFunc {
	return []gin.HandlerFunc{
		m.Auth(),
		m.RequireRole(auth.RoleDriver),
	}
}

// OptionalAuth middleware that doesn't abort if no token is provided
func (m *AuthMiddleware) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := ExtractToken(c)
		if token == "" {
			c.Next()
			return
		}

		claims, err := m.validator.ValidateToken(c.Request.Context(), token)
		if err != nil {
			// Don't abort, just continue without setting user context
			c.Next()
			return
		}

		setClaims(c, claims)
		c.Next()
	}
}

func setClaims(c *gin.Context, claims *jwt.Claims) {
	role := auth.ParseRole(claims.Role)

	c.Set("account_id", claims.AccountID)
	c.Set("jti", claims.ID)
	c.Set("role", role)
	c.Set("roles", []string{string(role)})
	c.Set("driver_ref", claims.DriverRef)
	c.Set("device", claims.Device)
	c.Set("auth_state", auth.AuthState{Authenticated: true, Role: role})
}

// ExtractToken reads the bearer token from the Authorization header or the
// token query parameter
func ExtractToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return parts[1]
		}
	}

	// Fallback to query param, used by the websocket handshake
	return c.Query("token")
}

// Helper function to get account ID from context
func GetAccountID(c *gin.Context) (string, bool) {
	accountID, exists := c.Get("account_id")
	if !exists {
		return "", false
	}

	id, ok := accountID.(string)
	return id, ok
}

// Helper function to get JTI from context
func GetJTI(c *gin.Context) (string, bool) {
	jti, exists := c.Get("jti")
	if !exists {
		return "", false
	}

	jtiStr, ok := jti.(string)
	return jtiStr, ok
}

// GetAuthState returns the AuthState of the request; Anonymous when no
// valid token was presented
func GetAuthState(c *gin.Context) auth.AuthState {
	state, exists := c.Get("auth_state")
	if !exists {
		return auth.Anonymous
	}

	s, ok := state.(auth.AuthState)
	if !ok {
		return auth.Anonymous
	}
	return s
}
