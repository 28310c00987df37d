// internal/pkg/session/manager.go
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	xerrors "ptieasy-service/internal/pkg/errors"
)

type Manager struct {
	store Store
}

func NewManager(store Store) *Manager {
	return &Manager{store: store}
}

// CreateSession stores a new session until its expiry
func (m *Manager) CreateSession(ctx context.Context, session *SessionData) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	ttl := time.Until(session.ExpiresAt)
	if ttl <= 0 {
		return fmt.Errorf("session already expired")
	}

	if err := m.store.Set(ctx, m.sessionKey(session.AccountID, session.JTI), data, ttl); err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}

	return nil
}

// GetSession retrieves a live session
func (m *Manager) GetSession(ctx context.Context, accountID, jti string) (*SessionData, error) {
	data, err := m.store.Get(ctx, m.sessionKey(accountID, jti))
	if errors.Is(err, ErrKeyNotFound) {
		return nil, xerrors.ErrSessionExpired
	}
	if err != nil {
		return nil, err
	}

	var session SessionData
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}

	return &session, nil
}

// InvalidateSession removes a session and blacklists its token for the
// remainder of its lifetime
func (m *Manager) InvalidateSession(ctx context.Context, accountID, jti string) error {
	session, err := m.GetSession(ctx, accountID, jti)
	if err != nil && !errors.Is(err, xerrors.ErrSessionExpired) {
		return err
	}

	if err := m.store.Del(ctx, m.sessionKey(accountID, jti)); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	if session != nil {
		if ttl := time.Until(session.ExpiresAt); ttl > 0 {
			return m.BlacklistToken(ctx, jti, ttl)
		}
	}

	return nil
}

// InvalidateAllUserSessions removes all sessions for an account
func (m *Manager) InvalidateAllUserSessions(ctx context.Context, accountID string) error {
	sessions, err := m.GetUserActiveSessions(ctx, accountID)
	if err != nil {
		return err
	}

	for _, s := range sessions {
		if err := m.InvalidateSession(ctx, accountID, s.JTI); err != nil {
			return err
		}
	}

	return nil
}

// IsTokenBlacklisted checks if a token is blacklisted
func (m *Manager) IsTokenBlacklisted(ctx context.Context, jti string) (bool, error) {
	exists, err := m.store.Exists(ctx, m.blacklistKey(jti))
	if err != nil {
		return false, fmt.Errorf("failed to check blacklist: %w", err)
	}
	return exists, nil
}

// BlacklistToken adds a token to the blacklist
func (m *Manager) BlacklistToken(ctx context.Context, jti string, ttl time.Duration) error {
	return m.store.Set(ctx, m.blacklistKey(jti), []byte("1"), ttl)
}

// GetUserActiveSessions returns all active sessions for an account
func (m *Manager) GetUserActiveSessions(ctx context.Context, accountID string) ([]*SessionData, error) {
	keys, err := m.store.Keys(ctx, fmt.Sprintf("session:%s:*", accountID))
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}

	sessions := make([]*SessionData, 0, len(keys))
	for _, key := range keys {
		data, err := m.store.Get(ctx, key)
		if err != nil {
			continue // expired between scan and read
		}

		var session SessionData
		if err := json.Unmarshal(data, &session); err != nil {
			continue
		}

		sessions = append(sessions, &session)
	}

	return sessions, nil
}

func (m *Manager) sessionKey(accountID, jti string) string {
	return fmt.Sprintf("session:%s:%s", accountID, jti)
}

func (m *Manager) blacklistKey(jti string) string {
	return fmt.Sprintf("blacklist:%s", jti)
}
