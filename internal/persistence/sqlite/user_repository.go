package sqlite

import (
	"context"
	"database/sql"
	"strings"

	"github.com/humia/planning/internal/persistence"
)

// UserRepository implements persistence.UserRepository using SQLite.
type UserRepository struct {
	pool   *ConnectionPool
	mapper *ErrorMapper
	retry  *RetryHelper
}

// NewUserRepository creates a new SQLite user repository.
func NewUserRepository(pool *ConnectionPool) *UserRepository {
	return &UserRepository{
		pool:   pool,
		mapper: NewErrorMapper(),
		retry:  NewRetryHelper(DefaultRetryConfig()),
	}
}

type userRow struct {
	ID           string         `db:"id"`
	Email        string         `db:"email"`
	FirstName    string         `db:"first_name"`
	LastName     string         `db:"last_name"`
	Role         string         `db:"role"`
	ParentID     sql.NullString `db:"parent_id"`
	PasswordHash string         `db:"password_hash"`
	Disabled     bool           `db:"disabled"`
	CreatedAt    string         `db:"created_at"`
	UpdatedAt    string         `db:"updated_at"`
}

const userColumns = `id, email, first_name, last_name, role, parent_id, password_hash, disabled, created_at, updated_at`

func newUserRow(user persistence.User) userRow {
	return userRow{
		ID:           user.ID,
		Email:        normalizeEmail(user.Email),
		FirstName:    user.FirstName,
		LastName:     user.LastName,
		Role:         user.Role,
		ParentID:     nullString(user.ParentID),
		PasswordHash: user.PasswordHash,
		Disabled:     user.Disabled,
		CreatedAt:    formatTime(user.CreatedAt),
		UpdatedAt:    formatTime(user.UpdatedAt),
	}
}

func (row userRow) toModel() (persistence.User, error) {
	created, err := parseTime(row.CreatedAt)
	if err != nil {
		return persistence.User{}, err
	}
	updated, err := parseTime(row.UpdatedAt)
	if err != nil {
		return persistence.User{}, err
	}
	return persistence.User{
		ID:           row.ID,
		Email:        row.Email,
		FirstName:    row.FirstName,
		LastName:     row.LastName,
		Role:         row.Role,
		ParentID:     stringPtr(row.ParentID),
		PasswordHash: row.PasswordHash,
		Disabled:     row.Disabled,
		CreatedAt:    created,
		UpdatedAt:    updated,
	}, nil
}

// CreateUser inserts a new user. Emails are stored lower-cased.
func (r *UserRepository) CreateUser(ctx context.Context, user persistence.User) error {
	if user.ID == "" || user.PasswordHash == "" || strings.TrimSpace(user.Email) == "" {
		return persistence.ErrConstraintViolation
	}

	const query = `
		INSERT INTO users (` + userColumns + `)
		VALUES (:id, :email, :first_name, :last_name, :role, :parent_id, :password_hash, :disabled, :created_at, :updated_at)
	`
	return r.retry.WithRetry(ctx, func() error {
		_, err := r.pool.db.NamedExecContext(ctx, query, newUserRow(user))
		return err
	})
}

// UpdateUser updates profile, role, password and disabled flag.
func (r *UserRepository) UpdateUser(ctx context.Context, user persistence.User) error {
	if user.ID == "" || user.PasswordHash == "" {
		return persistence.ErrConstraintViolation
	}

	const query = `
		UPDATE users
		SET email = :email, first_name = :first_name, last_name = :last_name, role = :role,
			parent_id = :parent_id, password_hash = :password_hash, disabled = :disabled, updated_at = :updated_at
		WHERE id = :id
	`
	var affected int64
	err := r.retry.WithRetry(ctx, func() error {
		result, err := r.pool.db.NamedExecContext(ctx, query, newUserRow(user))
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

// GetUser retrieves a user by ID.
func (r *UserRepository) GetUser(ctx context.Context, id string) (persistence.User, error) {
	if id == "" {
		return persistence.User{}, persistence.ErrNotFound
	}
	var row userRow
	if err := r.pool.db.GetContext(ctx, &row, `SELECT `+userColumns+` FROM users WHERE id = ?`, id); err != nil {
		return persistence.User{}, r.mapper.MapError(err)
	}
	return row.toModel()
}

// GetUserByEmail retrieves a user by email, case-insensitively.
func (r *UserRepository) GetUserByEmail(ctx context.Context, email string) (persistence.User, error) {
	normalized := normalizeEmail(email)
	if normalized == "" {
		return persistence.User{}, persistence.ErrNotFound
	}
	var row userRow
	if err := r.pool.db.GetContext(ctx, &row, `SELECT `+userColumns+` FROM users WHERE email = ?`, normalized); err != nil {
		return persistence.User{}, r.mapper.MapError(err)
	}
	return row.toModel()
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

var _ persistence.UserRepository = (*UserRepository)(nil)
