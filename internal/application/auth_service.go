package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// CredentialStore exposes user credential lookup operations required by the auth service.
type CredentialStore interface {
	GetUserCredentialsByEmail(ctx context.Context, email string) (UserCredentials, error)
	GetUser(ctx context.Context, id string) (User, error)
}

// SessionRepository captures the persistence interactions for login sessions.
type SessionRepository interface {
	CreateSession(ctx context.Context, session Session) error
	GetSessionByTokenHash(ctx context.Context, tokenHash string) (Session, error)
	RevokeSession(ctx context.Context, tokenHash string, revokedAt time.Time) error
	DeleteExpiredSessions(ctx context.Context, reference time.Time) (int64, error)
}

// AuthService coordinates login, logout and session validation.
type AuthService struct {
	credentials    CredentialStore
	sessions       SessionRepository
	verifyPassword PasswordVerifier
	hashToken      TokenHasher
	idGenerator    func() string
	tokenGenerator func() string
	now            func() time.Time
	sessionTTL     time.Duration
	logger         *slog.Logger
}

// AuthServiceConfig groups the optional collaborators of AuthService.
type AuthServiceConfig struct {
	VerifyPassword PasswordVerifier
	HashToken      TokenHasher
	IDGenerator    func() string
	TokenGenerator func() string
	Now            func() time.Time
	SessionTTL     time.Duration
	Logger         *slog.Logger
}

// NewAuthService constructs an AuthService. Zero fields of cfg fall back to
// argon2 verification, random tokens, time.Now and a 24h TTL.
func NewAuthService(credentials CredentialStore, sessions SessionRepository, cfg AuthServiceConfig) *AuthService {
	if cfg.VerifyPassword == nil {
		cfg.VerifyPassword = VerifyPassword
	}
	if cfg.HashToken == nil {
		cfg.HashToken = NewHMACTokenHasher(nil)
	}
	if cfg.TokenGenerator == nil {
		cfg.TokenGenerator = RandomToken
	}
	if cfg.IDGenerator == nil {
		cfg.IDGenerator = cfg.TokenGenerator
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = 24 * time.Hour
	}
	return &AuthService{
		credentials:    credentials,
		sessions:       sessions,
		verifyPassword: cfg.VerifyPassword,
		hashToken:      cfg.HashToken,
		idGenerator:    cfg.IDGenerator,
		tokenGenerator: cfg.TokenGenerator,
		now:            cfg.Now,
		sessionTTL:     cfg.SessionTTL,
		logger:         defaultLogger(cfg.Logger),
	}
}

func (s *AuthService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "AuthService", operation, attrs...)
}

// Authenticate validates credentials and issues a new session token.
func (s *AuthService) Authenticate(ctx context.Context, params AuthenticateParams) (result AuthenticateResult, err error) {
	if s == nil || s.credentials == nil || s.sessions == nil {
		err = fmt.Errorf("auth service not configured")
		return
	}

	email := strings.TrimSpace(strings.ToLower(params.Email))
	logger := s.loggerWith(ctx, "Authenticate", "email", email)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "authentication failed", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With(
			"user_id", result.User.ID,
			"session_id", result.Session.ID,
		).InfoContext(ctx, "authentication succeeded")
	}()

	if email == "" || params.Password == "" {
		err = ErrInvalidCredentials
		return
	}

	var creds UserCredentials
	creds, err = s.credentials.GetUserCredentialsByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			err = ErrInvalidCredentials
		}
		return
	}
	if creds.User.Disabled {
		err = ErrAccountDisabled
		return
	}
	if verifyErr := s.verifyPassword(creds.PasswordHash, params.Password); verifyErr != nil {
		err = ErrInvalidCredentials
		return
	}

	now := s.now()
	if _, err = s.sessions.DeleteExpiredSessions(ctx, now); err != nil {
		return
	}

	token := s.tokenGenerator()
	session := Session{
		ID:        s.idGenerator(),
		UserID:    creds.User.ID,
		TokenHash: s.hashToken(token),
		CreatedAt: now,
		ExpiresAt: now.Add(s.sessionTTL),
	}
	if err = s.sessions.CreateSession(ctx, session); err != nil {
		return
	}

	session.Token = token
	result = AuthenticateResult{User: creds.User, Session: session}
	return
}

// ValidateSession resolves token to the principal of its user.
func (s *AuthService) ValidateSession(ctx context.Context, token string) (principal Principal, err error) {
	if s == nil || s.credentials == nil || s.sessions == nil {
		err = fmt.Errorf("auth service not configured")
		return
	}

	trimmed := strings.TrimSpace(token)
	logger := s.loggerWith(ctx, "ValidateSession", "token_provided", trimmed != "")
	defer func() {
		if err != nil {
			logger.WarnContext(ctx, "session validation failed", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("principal_id", principal.UserID).DebugContext(ctx, "session validated")
	}()

	if trimmed == "" {
		err = ErrUnauthorized
		return
	}

	var session Session
	session, err = s.sessions.GetSessionByTokenHash(ctx, s.hashToken(trimmed))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			err = ErrUnauthorized
		}
		return
	}

	if session.RevokedAt != nil && !session.RevokedAt.IsZero() {
		err = ErrSessionRevoked
		return
	}
	if !session.ExpiresAt.After(s.now()) {
		err = ErrSessionExpired
		return
	}

	var user User
	user, err = s.credentials.GetUser(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			err = ErrUnauthorized
		}
		return
	}
	if user.Disabled {
		err = ErrAccountDisabled
		return
	}

	principal = NewPrincipal(user)
	return
}

// RevokeSession invalidates token. Unknown tokens are reported as
// ErrUnauthorized.
func (s *AuthService) RevokeSession(ctx context.Context, token string) (err error) {
	if s == nil || s.sessions == nil {
		return fmt.Errorf("auth service not configured")
	}

	trimmed := strings.TrimSpace(token)
	logger := s.loggerWith(ctx, "RevokeSession", "token_provided", trimmed != "")
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to revoke session", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "session revoked")
	}()

	if trimmed == "" {
		err = ErrUnauthorized
		return
	}
	if err = s.sessions.RevokeSession(ctx, s.hashToken(trimmed), s.now()); err != nil {
		if errors.Is(err, ErrNotFound) {
			err = ErrUnauthorized
		}
		return
	}
	return nil
}

// PurgeExpiredSessions deletes every session expired at the current time.
func (s *AuthService) PurgeExpiredSessions(ctx context.Context) (removed int64, err error) {
	if s == nil || s.sessions == nil {
		return 0, fmt.Errorf("auth service not configured")
	}

	logger := s.loggerWith(ctx, "PurgeExpiredSessions")
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to purge sessions", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "expired sessions purged", "removed", removed)
	}()

	return s.sessions.DeleteExpiredSessions(ctx, s.now())
}

// SessionTTL reports how long issued sessions stay valid.
func (s *AuthService) SessionTTL() time.Duration {
	return s.sessionTTL
}
