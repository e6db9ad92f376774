package migration

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"
)

// Manager orchestrates scanning, validation and execution of migrations.
type Manager struct {
	scanner  FileScanner
	executor Executor
	dir      string
	logger   *slog.Logger
}

// NewManager wires a Manager. A nil logger discards output.
func NewManager(scanner FileScanner, executor Executor, dir string, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Manager{
		scanner:  scanner,
		executor: executor,
		dir:      dir,
		logger:   logger.With(slog.String("component", "migration")),
	}
}

// Run applies every pending migration in version order and returns how many
// were applied. It stops at the first failure.
func (m *Manager) Run(ctx context.Context) (int, error) {
	started := time.Now()

	status, err := m.Status(ctx)
	if err != nil {
		m.logger.ErrorContext(ctx, "migration status unavailable", slog.Any("error", err))
		return 0, err
	}

	m.logger.InfoContext(ctx, "schema version",
		slog.String("current_version", status.CurrentVersion),
		slog.Int("pending", len(status.Pending)),
	)
	if len(status.Pending) == 0 {
		return 0, nil
	}

	for i, migration := range status.Pending {
		migrationStarted := time.Now()
		logger := m.logger.With(
			slog.String("version", migration.Version),
			slog.String("description", migration.Description),
		)
		logger.InfoContext(ctx, "applying migration",
			slog.Int("position", i+1),
			slog.Int("total", len(status.Pending)),
			slog.String("checksum", migration.Checksum),
		)

		if err := m.executor.ExecuteMigration(ctx, migration); err != nil {
			logger.ErrorContext(ctx, "migration failed", slog.Any("error", err))
			return i, NewMigrationError(migration.Version, migration.FilePath, "execute migration",
				fmt.Errorf("%w: %v", ErrMigrationFailed, err))
		}

		elapsed := time.Since(migrationStarted)
		if err := m.executor.RecordMigration(ctx, migration, elapsed); err != nil {
			logger.ErrorContext(ctx, "recording migration failed", slog.Any("error", err))
			return i, NewMigrationError(migration.Version, migration.FilePath, "record migration", err)
		}
		logger.InfoContext(ctx, "migration applied", slog.Duration("duration", elapsed))
	}

	m.logger.InfoContext(ctx, "migrations complete",
		slog.Int("applied", len(status.Pending)),
		slog.Duration("duration", time.Since(started)),
	)
	return len(status.Pending), nil
}

// Status reports the applied and pending migrations after validating that
// the files on disk are consistent with the version table.
func (m *Manager) Status(ctx context.Context) (Status, error) {
	if err := m.executor.InitializeVersionTable(ctx); err != nil {
		return Status{}, fmt.Errorf("failed to initialize version table: %w", err)
	}

	available, err := m.scanner.ScanMigrations(m.dir)
	if err != nil {
		return Status{}, fmt.Errorf("failed to scan migrations: %w", err)
	}

	applied, err := m.executor.GetAppliedVersions(ctx)
	if err != nil {
		return Status{}, fmt.Errorf("failed to get applied versions: %w", err)
	}

	if err := validateSequence(available, applied); err != nil {
		return Status{}, fmt.Errorf("migration sequence validation failed: %w", err)
	}

	appliedSet := make(map[int]bool, len(applied))
	status := Status{Applied: applied}
	for _, a := range applied {
		appliedSet[versionNumber(a.Version)] = true
		status.CurrentVersion = a.Version
	}
	for _, migration := range available {
		if !appliedSet[versionNumber(migration.Version)] {
			status.Pending = append(status.Pending, migration)
		}
	}
	return status, nil
}

// validateSequence rejects gaps between available versions, applied
// versions without a file and applied files whose content changed.
func validateSequence(available []Migration, applied []AppliedMigration) error {
	byVersion := make(map[int]Migration, len(available))
	for i, migration := range available {
		number := versionNumber(migration.Version)
		if i > 0 && number != versionNumber(available[i-1].Version)+1 {
			return fmt.Errorf("%w: missing migration version %03d in sequence",
				ErrVersionConflict, versionNumber(available[i-1].Version)+1)
		}
		byVersion[number] = migration
	}

	for _, a := range applied {
		number, err := strconv.Atoi(a.Version)
		if err != nil {
			return NewDatabaseError(a.Version, "", "validate sequence",
				fmt.Errorf("%w: applied version '%s' is not numeric", ErrVersionTableCorrupt, a.Version))
		}
		migration, ok := byVersion[number]
		if !ok {
			return fmt.Errorf("%w: applied migration %03d not found in available migrations",
				ErrVersionConflict, number)
		}
		if a.Checksum != "" && a.Checksum != migration.Checksum {
			return NewMigrationError(migration.Version, migration.FilePath, "verify checksum", ErrChecksumMismatch)
		}
	}
	return nil
}
