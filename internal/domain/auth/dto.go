// internal/domain/auth/dto.go
package auth

import (
	"context"
	"time"
)

// LoginRequest for user login
type LoginRequest struct {
	Email     string `json:"email" binding:"required"`
	Password  string `json:"password" binding:"required"`
	Device    string `json:"device"`
	IPAddress string `json:"-"`
	UserAgent string `json:"-"`
}

// LoginResponse successful login response
type LoginResponse struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresIn   int       `json:"expires_in"`
	ExpiresAt   time.Time `json:"expires_at"`
	User        UserInfo  `json:"user"`
	State       AuthState `json:"state"`
	Landing     string    `json:"landing"`
}

// UserInfo is the public view of an account
type UserInfo struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	Role      Role   `json:"role"`
	DriverRef string `json:"driver_ref,omitempty"`
}

// MeResponse describes the current login
type MeResponse struct {
	User    UserInfo  `json:"user"`
	State   AuthState `json:"state"`
	Landing string    `json:"landing"`
}

// AccountRepository resolves login accounts.
type AccountRepository interface {
	Create(ctx context.Context, account *Account) error
	FindByEmail(ctx context.Context, email string) (*Account, error)
	FindByID(ctx context.Context, id string) (*Account, error)
}

func (a *Account) Info() UserInfo {
	return UserInfo{
		ID:        a.ID,
		Email:     a.Email,
		Name:      a.Name,
		Role:      a.Role,
		DriverRef: a.DriverRef,
	}
}
