// internal/service/auth/accounts.go
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"ptieasy-service/internal/domain/auth"
	xerrors "ptieasy-service/internal/pkg/errors"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// AccountSeed describes a login created at startup.
type AccountSeed struct {
	Email     string
	Name      string
	Role      string
	Password  string
	DriverRef string
}

// EnsureAccounts creates the configured logins that do not exist yet
// (called on startup)
func (s *AuthService) EnsureAccounts(ctx context.Context, seeds []AccountSeed) error {
	for _, seed := range seeds {
		email := strings.TrimSpace(seed.Email)
		if email == "" || seed.Password == "" {
			return xerrors.Invalid("account email and password must be provided")
		}

		_, err := s.accountRepo.FindByEmail(ctx, email)
		if err == nil {
			s.logger.Info("account already exists, skipping creation", zap.String("email", email))
			continue
		}
		if !errors.Is(err, xerrors.ErrNotFound) {
			return fmt.Errorf("failed to check account %s: %w", email, err)
		}

		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(seed.Password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("failed to hash password: %w", err)
		}

		role := auth.ParseRole(seed.Role)
		account := &auth.Account{
			Email:        email,
			Name:         seed.Name,
			Role:         role,
			PasswordHash: string(hashedPassword),
			CreatedAt:    time.Now(),
		}
		if role == auth.RoleDriver {
			account.DriverRef = seed.DriverRef
			if account.DriverRef == "" {
				account.DriverRef = seed.Name
			}
		}

		if err := s.accountRepo.Create(ctx, account); err != nil {
			return fmt.Errorf("failed to create account %s: %w", email, err)
		}

		s.logger.Info("account created",
			zap.String("account_id", account.ID),
			zap.String("email", email),
			zap.String("role", string(role)),
		)
	}

	return nil
}
