// internal/repository/memory/account_repo.go
package memory

import (
	"context"
	"fmt"
	"sync"

	"ptieasy-service/internal/domain/auth"
	xerrors "ptieasy-service/internal/pkg/errors"
	"ptieasy-service/internal/pkg/search"

	"github.com/oklog/ulid/v2"
)

type AccountRepository struct {
	mu       sync.RWMutex
	accounts map[string]auth.Account
}

func NewAccountRepository() *AccountRepository {
	return &AccountRepository{accounts: make(map[string]auth.Account)}
}

// Create stores a login account; emails are unique ignoring case
func (r *AccountRepository) Create(ctx context.Context, account *auth.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, a := range r.accounts {
		if search.Equal(a.Email, account.Email) {
			return fmt.Errorf("%w: account %s already exists", xerrors.ErrDuplicateEntry, account.Email)
		}
	}
	if account.ID == "" {
		account.ID = ulid.Make().String()
	}

	r.accounts[account.ID] = *account
	return nil
}

// FindByEmail retrieves an account by email, ignoring case
func (r *AccountRepository) FindByEmail(ctx context.Context, email string) (*auth.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, a := range r.accounts {
		if search.Equal(a.Email, email) {
			return &a, nil
		}
	}
	return nil, xerrors.ErrNotFound
}

// FindByID retrieves an account by ID
func (r *AccountRepository) FindByID(ctx context.Context, id string) (*auth.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.accounts[id]
	if !ok {
		return nil, xerrors.ErrNotFound
	}
	return &a, nil
}
