package store

import (
	"context"
	"time"

	"github.com/humia/planning/internal/application"
	"github.com/humia/planning/internal/persistence"
)

// Accounts serves credential lookups and account creation.
type Accounts struct {
	repo persistence.UserRepository
}

func NewAccounts(repo persistence.UserRepository) *Accounts {
	return &Accounts{repo: repo}
}

func (a *Accounts) CreateUser(ctx context.Context, creds application.UserCredentials) error {
	return translate(a.repo.CreateUser(ctx, toPersistenceUser(creds.User, creds.PasswordHash)))
}

func (a *Accounts) GetUserCredentialsByEmail(ctx context.Context, email string) (application.UserCredentials, error) {
	stored, err := a.repo.GetUserByEmail(ctx, email)
	if err != nil {
		return application.UserCredentials{}, translate(err)
	}
	return application.UserCredentials{
		User:         toApplicationUser(stored),
		PasswordHash: stored.PasswordHash,
	}, nil
}

func (a *Accounts) GetUser(ctx context.Context, id string) (application.User, error) {
	stored, err := a.repo.GetUser(ctx, id)
	if err != nil {
		return application.User{}, translate(err)
	}
	return toApplicationUser(stored), nil
}

// Sessions stores login sessions.
type Sessions struct {
	repo persistence.AuthSessionRepository
}

func NewSessions(repo persistence.AuthSessionRepository) *Sessions {
	return &Sessions{repo: repo}
}

func (s *Sessions) CreateSession(ctx context.Context, session application.Session) error {
	return translate(s.repo.CreateSession(ctx, persistence.AuthSession{
		ID:        session.ID,
		UserID:    session.UserID,
		TokenHash: session.TokenHash,
		ExpiresAt: session.ExpiresAt,
		CreatedAt: session.CreatedAt,
		RevokedAt: session.RevokedAt,
	}))
}

func (s *Sessions) GetSessionByTokenHash(ctx context.Context, tokenHash string) (application.Session, error) {
	stored, err := s.repo.GetSessionByTokenHash(ctx, tokenHash)
	if err != nil {
		return application.Session{}, translate(err)
	}
	return application.Session{
		ID:        stored.ID,
		UserID:    stored.UserID,
		TokenHash: stored.TokenHash,
		ExpiresAt: stored.ExpiresAt,
		CreatedAt: stored.CreatedAt,
		RevokedAt: stored.RevokedAt,
	}, nil
}

func (s *Sessions) RevokeSession(ctx context.Context, tokenHash string, revokedAt time.Time) error {
	return translate(s.repo.RevokeSession(ctx, tokenHash, revokedAt))
}

func (s *Sessions) DeleteExpiredSessions(ctx context.Context, reference time.Time) (int64, error) {
	removed, err := s.repo.DeleteExpiredSessions(ctx, reference)
	return removed, translate(err)
}

func toApplicationUser(model persistence.User) application.User {
	return application.User{
		ID:        model.ID,
		Email:     model.Email,
		FirstName: model.FirstName,
		LastName:  model.LastName,
		Role:      application.Role(model.Role),
		ParentID:  cloneString(model.ParentID),
		Disabled:  model.Disabled,
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	}
}

func toPersistenceUser(user application.User, passwordHash string) persistence.User {
	return persistence.User{
		ID:           user.ID,
		Email:        user.Email,
		FirstName:    user.FirstName,
		LastName:     user.LastName,
		Role:         string(user.Role),
		ParentID:     cloneString(user.ParentID),
		PasswordHash: passwordHash,
		Disabled:     user.Disabled,
		CreatedAt:    user.CreatedAt,
		UpdatedAt:    user.UpdatedAt,
	}
}

func cloneString(value *string) *string {
	if value == nil {
		return nil
	}
	copied := *value
	return &copied
}
