package sqlite

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/humia/planning/internal/persistence/sqlite/migration"
)

// Storage bundles the SQLite repositories sharing one connection pool.
type Storage struct {
	pool *ConnectionPool

	Users    *UserRepository
	Sessions *SessionRepository
	Registry *RegistryRepository
	Planning *PlanningRepository
}

// Open connects to the database described by config. Call Migrate before
// using the repositories on a fresh database.
func Open(config migration.SQLiteConfig) (*Storage, error) {
	pool, err := NewConnectionPool(config)
	if err != nil {
		return nil, err
	}
	return &Storage{
		pool:     pool,
		Users:    NewUserRepository(pool),
		Sessions: NewSessionRepository(pool),
		Registry: NewRegistryRepository(pool),
		Planning: NewPlanningRepository(pool),
	}, nil
}

// Migrate applies the embedded schema migrations.
func (s *Storage) Migrate(ctx context.Context, logger *slog.Logger) error {
	manager := migration.NewManager(
		migration.NewFileScanner(migration.Files),
		migration.NewSQLiteExecutor(s.pool.DB().DB),
		migration.Dir,
		logger,
	)
	if _, err := manager.Run(ctx); err != nil {
		return fmt.Errorf("sqlite: migrate: %w", err)
	}
	return nil
}

// Ping reports whether the database answers.
func (s *Storage) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Close releases the connection pool.
func (s *Storage) Close() error {
	return s.pool.Close()
}
