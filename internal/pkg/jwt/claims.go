// internal/pkg/jwt/claims.go
package jwt

import (
	"github.com/golang-jwt/jwt/v5"
)

// Claims represents the JWT claims
type Claims struct {
	AccountID      string `json:"account_id"`
	Role           string `json:"role"`
	DriverRef      string `json:"driver_ref,omitempty"`
	Device         string `json:"device,omitempty"`
	SessionPurpose string `json:"session_purpose"` // access
	jwt.RegisteredClaims
}

// HasRole checks if the claims carry the given role
func (c *Claims) HasRole(role string) bool {
	return c.Role == role
}

// VerifyAudience checks if the expected audience is listed in the claims.
func (c *Claims) VerifyAudience(audience string, required bool) bool {
	if len(c.Audience) == 0 {
		return !required
	}

	for _, aud := range c.Audience {
		if aud == audience {
			return true
		}
	}

	return false
}
