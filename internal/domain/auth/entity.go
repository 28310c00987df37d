// internal/domain/auth/entity.go
package auth

import "time"

// Role is the dashboard role carried by a login.
type Role string

const (
	RoleManager Role = "manager"
	RoleDriver  Role = "driver"
)

// Account is a login that can open the dashboard.
type Account struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	Role         Role      `json:"role"`
	DriverRef    string    `json:"driver_ref,omitempty"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// AuthState is the explicit replacement for the legacy pair of
// "authenticated" / "role" string flags.
type AuthState struct {
	Authenticated bool `json:"authenticated"`
	Role          Role `json:"role,omitempty"`
}

// Anonymous is the state of a request without a valid session.
var Anonymous = AuthState{}

// ParseAuthState converts the legacy flags. The flag must be exactly "true";
// any role other than "driver" is treated as manager.
func ParseAuthState(authFlag, roleFlag string) AuthState {
	if authFlag != "true" {
		return Anonymous
	}
	return AuthState{Authenticated: true, Role: ParseRole(roleFlag)}
}

// ParseRole maps a raw role string onto a Role.
func ParseRole(raw string) Role {
	if Role(raw) == RoleDriver {
		return RoleDriver
	}
	return RoleManager
}

// IsDriver reports whether the state belongs to an authenticated driver.
func (s AuthState) IsDriver() bool {
	return s.Authenticated && s.Role == RoleDriver
}
