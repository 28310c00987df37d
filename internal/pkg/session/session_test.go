package session

import (
	"context"
	"testing"
	"time"

	xerrors "ptieasy-service/internal/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func TestMemoryStore_Expiry(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	store := NewMemoryStore().WithClock(clock.Now)

	require.NoError(t, store.Set(ctx, "k", []byte("v"), time.Minute))

	got, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), got)

	clock.Advance(time.Minute)
	_, err = store.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrKeyNotFound)

	ok, err := store.Exists(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryStore_IncrWindow(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	store := NewMemoryStore().WithClock(clock.Now)

	for want := int64(1); want <= 3; want++ {
		n, err := store.Incr(ctx, "counter", 10*time.Minute)
		require.NoError(t, err)
		assert.Equal(t, want, n)
	}

	clock.Advance(10 * time.Minute)
	n, err := store.Incr(ctx, "counter", 10*time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n, "window restarts after expiry")
}

func TestMemoryStore_Keys(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	require.NoError(t, store.Set(ctx, "session:a:1", nil, 0))
	require.NoError(t, store.Set(ctx, "session:a:2", nil, 0))
	require.NoError(t, store.Set(ctx, "session:b:1", nil, 0))

	keys, err := store.Keys(ctx, "session:a:*")
	require.NoError(t, err)
	assert.Equal(t, []string{"session:a:1", "session:a:2"}, keys)
}

func TestManager_Lifecycle(t *testing.T) {
	ctx := context.Background()
	m := NewManager(NewMemoryStore())

	s := &SessionData{
		JTI:       "jti-1",
		AccountID: "acc-1",
		Role:      "manager",
		LoginAt:   time.Now(),
		ExpiresAt: time.Now().Add(time.Hour),
	}
	require.NoError(t, m.CreateSession(ctx, s))

	got, err := m.GetSession(ctx, "acc-1", "jti-1")
	require.NoError(t, err)
	assert.Equal(t, "manager", got.Role)

	active, err := m.GetUserActiveSessions(ctx, "acc-1")
	require.NoError(t, err)
	assert.Len(t, active, 1)

	require.NoError(t, m.InvalidateSession(ctx, "acc-1", "jti-1"))

	_, err = m.GetSession(ctx, "acc-1", "jti-1")
	assert.ErrorIs(t, err, xerrors.ErrSessionExpired)

	blacklisted, err := m.IsTokenBlacklisted(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, blacklisted)
}

func TestManager_RejectsExpiredSession(t *testing.T) {
	m := NewManager(NewMemoryStore())
	err := m.CreateSession(context.Background(), &SessionData{
		JTI:       "old",
		AccountID: "acc",
		ExpiresAt: time.Now().Add(-time.Second),
	})
	assert.Error(t, err)
}

func TestRateLimiter_LoginAttempts(t *testing.T) {
	ctx := context.Background()
	r := NewRateLimiter(NewMemoryStore())

	for i := 0; i < DefaultMaxLoginAttempts; i++ {
		allowed, _, err := r.CheckLoginAttempt(ctx, "10.0.0.1", "driver@ptieasy.com")
		require.NoError(t, err)
		assert.True(t, allowed, "attempt %d", i+1)
	}

	allowed, remaining, err := r.CheckLoginAttempt(ctx, "10.0.0.1", "driver@ptieasy.com")
	require.NoError(t, err)
	assert.False(t, allowed)
	assert.Zero(t, remaining)

	// Other identities are counted separately.
	allowed, _, err = r.CheckLoginAttempt(ctx, "10.0.0.2", "driver@ptieasy.com")
	require.NoError(t, err)
	assert.True(t, allowed)

	require.NoError(t, r.ResetLoginAttempts(ctx, "10.0.0.1", "driver@ptieasy.com"))
	allowed, remaining, err = r.CheckLoginAttempt(ctx, "10.0.0.1", "driver@ptieasy.com")
	require.NoError(t, err)
	assert.True(t, allowed)
	assert.Equal(t, int64(DefaultMaxLoginAttempts-1), remaining)
}

func TestRateLimiter_EmailVariantsShareBudget(t *testing.T) {
	ctx := context.Background()
	r := NewRateLimiter(NewMemoryStore())

	variants := []string{"manager@ptieasy.com", "Manager@ptieasy.com", "MANAGER@PTIEASY.COM", " manager@ptieasy.com "}
	for i := 0; i < DefaultMaxLoginAttempts; i++ {
		allowed, _, err := r.CheckLoginAttempt(ctx, "10.0.0.1", variants[i%len(variants)])
		require.NoError(t, err)
		assert.True(t, allowed, "attempt %d", i+1)
	}

	for _, email := range variants {
		allowed, _, err := r.CheckLoginAttempt(ctx, "10.0.0.1", email)
		require.NoError(t, err)
		assert.False(t, allowed, email)
	}

	require.NoError(t, r.ResetLoginAttempts(ctx, "10.0.0.1", "MANAGER@ptieasy.com"))
	allowed, _, err := r.CheckLoginAttempt(ctx, "10.0.0.1", "manager@ptieasy.com")
	require.NoError(t, err)
	assert.True(t, allowed)
}
