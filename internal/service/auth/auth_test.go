package auth

import (
	"context"
	"sync"
	"testing"
	"time"

	"ptieasy-service/internal/domain/auth"
	xerrors "ptieasy-service/internal/pkg/errors"
	"ptieasy-service/internal/pkg/jwt"
	"ptieasy-service/internal/pkg/session"
	"ptieasy-service/internal/repository/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type logoutRecorder struct {
	mu    sync.Mutex
	calls []string
}

func (r *logoutRecorder) ForceLogout(accountID, sessionID, reason string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, accountID+"/"+sessionID)
}

func newTestService(t *testing.T) (*AuthService, *logoutRecorder) {
	t.Helper()

	key, err := jwt.GenerateRSAKey(1024)
	require.NoError(t, err)
	jwtManager := jwt.NewManager(key, jwt.Config{
		Issuer:   "ptieasy",
		Audience: "ptieasy-dashboard",
		TTL:      time.Hour,
		KID:      "test",
	})

	store := session.NewMemoryStore()
	rec := &logoutRecorder{}
	svc := NewAuthService(
		memory.NewAccountRepository(),
		jwtManager,
		session.NewManager(store),
		session.NewRateLimiter(store),
		rec,
		zap.NewNop(),
	)

	require.NoError(t, svc.EnsureAccounts(context.Background(), []AccountSeed{
		{Email: "manager@ptieasy.com", Name: "Fleet Manager", Role: "manager", Password: "demo123"},
		{Email: "driver@ptieasy.com", Name: "John Doe", Role: "driver", Password: "demo123"},
	}))
	return svc, rec
}

func login(email, password string) *auth.LoginRequest {
	return &auth.LoginRequest{Email: email, Password: password, IPAddress: "10.0.0.1"}
}

func TestLogin_LandingByRole(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	resp, err := svc.Login(ctx, login("manager@ptieasy.com", "demo123"))
	require.NoError(t, err)
	assert.Equal(t, "/dashboard", resp.Landing)
	assert.Equal(t, auth.AuthState{Authenticated: true, Role: auth.RoleManager}, resp.State)
	assert.Equal(t, "Bearer", resp.TokenType)

	resp, err = svc.Login(ctx, login("DRIVER@ptieasy.com", "demo123"))
	require.NoError(t, err)
	assert.Equal(t, "/driver", resp.Landing)
	assert.Equal(t, "John Doe", resp.User.DriverRef, "driver ref defaults to the account name")

	claims, err := svc.ValidateToken(ctx, resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "driver", claims.Role)
	assert.Equal(t, "John Doe", claims.DriverRef)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	_, err := svc.Login(ctx, login("manager@ptieasy.com", "wrong"))
	assert.ErrorIs(t, err, xerrors.ErrUnauthorized)

	_, err = svc.Login(ctx, login("ghost@ptieasy.com", "demo123"))
	assert.ErrorIs(t, err, xerrors.ErrUnauthorized)
}

func TestLogin_RateLimited(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	for i := 0; i < session.DefaultMaxLoginAttempts; i++ {
		_, err := svc.Login(ctx, login("manager@ptieasy.com", "wrong"))
		require.ErrorIs(t, err, xerrors.ErrUnauthorized)
	}

	_, err := svc.Login(ctx, login("manager@ptieasy.com", "demo123"))
	assert.ErrorIs(t, err, xerrors.ErrRateLimited)

	// A different client address has its own budget.
	other := login("manager@ptieasy.com", "demo123")
	other.IPAddress = "10.0.0.2"
	_, err = svc.Login(ctx, other)
	assert.NoError(t, err)
}

func TestLogin_RateLimitIgnoresEmailCase(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	variants := []string{"manager@ptieasy.com", "Manager@ptieasy.com", "MANAGER@PTIEASY.COM", " manager@ptieasy.com"}
	for i := 0; i < session.DefaultMaxLoginAttempts; i++ {
		_, err := svc.Login(ctx, login(variants[i%len(variants)], "wrong"))
		require.ErrorIs(t, err, xerrors.ErrUnauthorized)
	}

	for _, email := range variants {
		_, err := svc.Login(ctx, login(email, "demo123"))
		assert.ErrorIs(t, err, xerrors.ErrRateLimited, email)
	}
}

func TestLogout_RevokesToken(t *testing.T) {
	ctx := context.Background()
	svc, rec := newTestService(t)

	resp, err := svc.Login(ctx, login("manager@ptieasy.com", "demo123"))
	require.NoError(t, err)

	claims, err := svc.ValidateToken(ctx, resp.AccessToken)
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, claims.AccountID, claims.ID))

	_, err = svc.ValidateToken(ctx, resp.AccessToken)
	assert.ErrorIs(t, err, xerrors.ErrUnauthorized)
	assert.Equal(t, []string{claims.AccountID + "/" + claims.ID}, rec.calls)
}

func TestValidateToken_Garbage(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.ValidateToken(context.Background(), "not-a-token")
	assert.ErrorIs(t, err, xerrors.ErrUnauthorized)
}

func TestMe(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	resp, err := svc.Login(ctx, login("driver@ptieasy.com", "demo123"))
	require.NoError(t, err)

	me, err := svc.Me(ctx, resp.User.ID)
	require.NoError(t, err)
	assert.Equal(t, "/driver", me.Landing)
	assert.True(t, me.State.IsDriver())

	_, err = svc.Me(ctx, "missing")
	assert.ErrorIs(t, err, xerrors.ErrNotFound)
}

func TestEnsureAccounts_Idempotent(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	require.NoError(t, svc.EnsureAccounts(ctx, []AccountSeed{
		{Email: "manager@ptieasy.com", Name: "Other", Role: "manager", Password: "changed"},
	}))

	// The original password still works.
	_, err := svc.Login(ctx, login("manager@ptieasy.com", "demo123"))
	assert.NoError(t, err)

	err = svc.EnsureAccounts(ctx, []AccountSeed{{Email: "x@ptieasy.com"}})
	assert.ErrorIs(t, err, xerrors.ErrInvalidInput)
}
