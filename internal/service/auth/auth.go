// internal/service/auth/auth.go
package auth

import (
	"context"
	"fmt"
	"time"

	"ptieasy-service/internal/domain/auth"
	"ptieasy-service/internal/domain/navigation"
	xerrors "ptieasy-service/internal/pkg/errors"
	"ptieasy-service/internal/pkg/jwt"
	"ptieasy-service/internal/pkg/session"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// SessionNotifier tells connected clients that a login ended.
type SessionNotifier interface {
	ForceLogout(accountID, sessionID, reason string)
}

type AuthService struct {
	accountRepo    auth.AccountRepository
	jwtManager     *jwt.Manager
	sessionManager *session.Manager
	rateLimiter    *session.RateLimiter
	notifier       SessionNotifier
	logger         *zap.Logger
}

func NewAuthService(
	accountRepo auth.AccountRepository,
	jwtManager *jwt.Manager,
	sessionManager *session.Manager,
	rateLimiter *session.RateLimiter,
	notifier SessionNotifier,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		accountRepo:    accountRepo,
		jwtManager:     jwtManager,
		sessionManager: sessionManager,
		rateLimiter:    rateLimiter,
		notifier:       notifier,
		logger:         logger,
	}
}

// SetNotifier attaches the realtime layer; the hub validates tokens through
// this service, so it is wired after construction.
func (s *AuthService) SetNotifier(n SessionNotifier) {
	s.notifier = n
}

// ========== Login ==========

// Login checks credentials and opens a session
func (s *AuthService) Login(ctx context.Context, req *auth.LoginRequest) (*auth.LoginResponse, error) {
	// Rate limiting
	allowed, remaining, err := s.rateLimiter.CheckLoginAttempt(ctx, req.IPAddress, req.Email)
	if err != nil {
		return nil, fmt.Errorf("rate limiter error: %w", err)
	}
	if !allowed {
		return nil, fmt.Errorf("%w: too many login attempts, please try again in 15 minutes", xerrors.ErrRateLimited)
	}

	account, err := s.accountRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid credentials", xerrors.ErrUnauthorized)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(req.Password)); err != nil {
		return nil, fmt.Errorf("%w: invalid credentials (attempts remaining: %d)", xerrors.ErrUnauthorized, remaining)
	}

	if err := s.rateLimiter.ResetLoginAttempts(ctx, req.IPAddress, req.Email); err != nil {
		s.logger.Warn("failed to reset login attempts", zap.Error(err))
	}

	return s.openSession(ctx, account, req)
}

// openSession issues an access token and stores its session
func (s *AuthService) openSession(ctx context.Context, account *auth.Account, req *auth.LoginRequest) (*auth.LoginResponse, error) {
	accessToken, jti, err := s.jwtManager.Generator.GenerateAccessToken(
		account.ID,
		string(account.Role),
		account.DriverRef,
		req.Device,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	now := time.Now()
	ttl := s.jwtManager.Generator.Ttl
	expiresAt := now.Add(ttl)

	sessionData := &session.SessionData{
		JTI:            jti,
		AccountID:      account.ID,
		Email:          account.Email,
		Role:           string(account.Role),
		DriverRef:      account.DriverRef,
		Device:         req.Device,
		IPAddress:      req.IPAddress,
		UserAgent:      req.UserAgent,
		LoginAt:        now,
		LastActivityAt: now,
		ExpiresAt:      expiresAt,
	}
	if err := s.sessionManager.CreateSession(ctx, sessionData); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	s.logger.Info("user logged in",
		zap.String("account_id", account.ID),
		zap.String("role", string(account.Role)),
		zap.String("jti", jti),
	)

	state := auth.AuthState{Authenticated: true, Role: account.Role}
	return &auth.LoginResponse{
		AccessToken: accessToken,
		TokenType:   "Bearer",
		ExpiresIn:   int(ttl.Seconds()),
		ExpiresAt:   expiresAt,
		User:        account.Info(),
		State:       state,
		Landing:     navigation.Landing(account.Role),
	}, nil
}

// ========== Logout ==========

// Logout ends one session; its token stops validating immediately
func (s *AuthService) Logout(ctx context.Context, accountID, jti string) error {
	if err := s.sessionManager.InvalidateSession(ctx, accountID, jti); err != nil {
		return fmt.Errorf("failed to invalidate session: %w", err)
	}

	// Blacklist even if the session record was already gone.
	if err := s.sessionManager.BlacklistToken(ctx, jti, s.jwtManager.Generator.Ttl); err != nil {
		return fmt.Errorf("failed to blacklist token: %w", err)
	}

	if s.notifier != nil {
		s.notifier.ForceLogout(accountID, jti, "User logged out")
	}

	s.logger.Info("user logged out", zap.String("account_id", accountID), zap.String("jti", jti))
	return nil
}

// ========== Tokens ==========

// ValidateToken verifies the signature, the blacklist and the session
func (s *AuthService) ValidateToken(ctx context.Context, token string) (*jwt.Claims, error) {
	claims, err := s.jwtManager.Verifier.VerifyAccessToken(token)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid token: %v", xerrors.ErrUnauthorized, err)
	}

	blacklisted, err := s.sessionManager.IsTokenBlacklisted(ctx, claims.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to check blacklist: %w", err)
	}
	if blacklisted {
		return nil, fmt.Errorf("%w: token has been revoked", xerrors.ErrUnauthorized)
	}

	if _, err := s.sessionManager.GetSession(ctx, claims.AccountID, claims.ID); err != nil {
		return nil, fmt.Errorf("session not found or expired: %w", err)
	}

	return claims, nil
}

// Me describes the account behind a session
func (s *AuthService) Me(ctx context.Context, accountID string) (*auth.MeResponse, error) {
	account, err := s.accountRepo.FindByID(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}

	return &auth.MeResponse{
		User:    account.Info(),
		State:   auth.AuthState{Authenticated: true, Role: account.Role},
		Landing: navigation.Landing(account.Role),
	}, nil
}

// GetActiveSessions lists the live sessions of an account
func (s *AuthService) GetActiveSessions(ctx context.Context, accountID string) ([]*session.SessionData, error) {
	sessions, err := s.sessionManager.GetUserActiveSessions(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to get sessions: %w", err)
	}
	return sessions, nil
}
