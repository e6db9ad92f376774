package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/humia/planning/internal/persistence"
)

// SessionRepository implements persistence.AuthSessionRepository using SQLite.
type SessionRepository struct {
	pool   *ConnectionPool
	mapper *ErrorMapper
	retry  *RetryHelper
}

// NewSessionRepository creates a new SQLite login session repository.
func NewSessionRepository(pool *ConnectionPool) *SessionRepository {
	return &SessionRepository{
		pool:   pool,
		mapper: NewErrorMapper(),
		retry:  NewRetryHelper(DefaultRetryConfig()),
	}
}

type sessionRow struct {
	ID        string         `db:"id"`
	UserID    string         `db:"user_id"`
	TokenHash string         `db:"token_hash"`
	ExpiresAt string         `db:"expires_at"`
	CreatedAt string         `db:"created_at"`
	RevokedAt sql.NullString `db:"revoked_at"`
}

func (row sessionRow) toModel() (persistence.AuthSession, error) {
	expires, err := parseTime(row.ExpiresAt)
	if err != nil {
		return persistence.AuthSession{}, err
	}
	created, err := parseTime(row.CreatedAt)
	if err != nil {
		return persistence.AuthSession{}, err
	}
	session := persistence.AuthSession{
		ID:        row.ID,
		UserID:    row.UserID,
		TokenHash: row.TokenHash,
		ExpiresAt: expires,
		CreatedAt: created,
	}
	if row.RevokedAt.Valid {
		revoked, err := parseTime(row.RevokedAt.String)
		if err != nil {
			return persistence.AuthSession{}, err
		}
		session.RevokedAt = &revoked
	}
	return session, nil
}

// CreateSession stores a new login session.
func (r *SessionRepository) CreateSession(ctx context.Context, session persistence.AuthSession) error {
	if session.ID == "" || session.UserID == "" || strings.TrimSpace(session.TokenHash) == "" {
		return persistence.ErrConstraintViolation
	}

	row := sessionRow{
		ID:        session.ID,
		UserID:    session.UserID,
		TokenHash: session.TokenHash,
		ExpiresAt: formatTime(session.ExpiresAt),
		CreatedAt: formatTime(session.CreatedAt),
	}
	if session.RevokedAt != nil {
		row.RevokedAt = sql.NullString{String: formatTime(*session.RevokedAt), Valid: true}
	}

	const query = `
		INSERT INTO auth_sessions (id, user_id, token_hash, expires_at, created_at, revoked_at)
		VALUES (:id, :user_id, :token_hash, :expires_at, :created_at, :revoked_at)
	`
	return r.retry.WithRetry(ctx, func() error {
		_, err := r.pool.db.NamedExecContext(ctx, query, row)
		return err
	})
}

// GetSessionByTokenHash retrieves a session by the hash of its token.
func (r *SessionRepository) GetSessionByTokenHash(ctx context.Context, tokenHash string) (persistence.AuthSession, error) {
	if strings.TrimSpace(tokenHash) == "" {
		return persistence.AuthSession{}, persistence.ErrNotFound
	}

	var row sessionRow
	err := r.pool.db.GetContext(ctx, &row, `
		SELECT id, user_id, token_hash, expires_at, created_at, revoked_at
		FROM auth_sessions
		WHERE token_hash = ?
	`, tokenHash)
	if err != nil {
		return persistence.AuthSession{}, r.mapper.MapError(err)
	}
	return row.toModel()
}

// RevokeSession marks a session as revoked. Revoking twice keeps the first
// revocation time.
func (r *SessionRepository) RevokeSession(ctx context.Context, tokenHash string, revokedAt time.Time) error {
	var affected int64
	err := r.retry.WithRetry(ctx, func() error {
		result, err := r.pool.db.ExecContext(ctx, `
			UPDATE auth_sessions
			SET revoked_at = COALESCE(revoked_at, ?)
			WHERE token_hash = ?
		`, formatTime(revokedAt), tokenHash)
		if err != nil {
			return err
		}
		affected, err = result.RowsAffected()
		return err
	})
	if err != nil {
		return err
	}
	if affected == 0 {
		return persistence.ErrNotFound
	}
	return nil
}

// DeleteExpiredSessions removes sessions that expired at or before reference
// and returns how many were removed.
func (r *SessionRepository) DeleteExpiredSessions(ctx context.Context, reference time.Time) (int64, error) {
	var affected int64
	err := r.retry.WithRetry(ctx, func() error {
		result, err := r.pool.db.ExecContext(ctx,
			`DELETE FROM auth_sessions WHERE expires_at <= ?`, formatTime(reference))
		if err != nil {
			return err
		}
		affected, err = result.RowsAffected()
		return err
	})
	return affected, err
}

var _ persistence.AuthSessionRepository = (*SessionRepository)(nil)
