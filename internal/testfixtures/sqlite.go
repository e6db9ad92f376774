package testfixtures

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/humia/planning/internal/persistence"
	"github.com/humia/planning/internal/persistence/sqlite"
	"github.com/humia/planning/internal/persistence/sqlite/migration"
)

// SQLiteHarness provides repository access backed by a migrated temporary
// SQLite database.
type SQLiteHarness struct {
	Storage *sqlite.Storage

	Users      persistence.UserRepository
	Sessions   persistence.AuthSessionRepository
	Schools    persistence.SchoolRepository
	Classrooms persistence.ClassroomRepository
	Trainers   persistence.TrainerRepository
	Planning   persistence.PlanningRepository

	cleanup func()
}

// Close releases resources associated with the harness.
func (h *SQLiteHarness) Close() {
	if h != nil && h.cleanup != nil {
		h.cleanup()
		h.cleanup = nil
	}
}

// NewSQLiteHarness opens and migrates a database in tb's temporary
// directory. Close is registered with tb.Cleanup.
func NewSQLiteHarness(tb testing.TB) *SQLiteHarness {
	tb.Helper()

	path := filepath.Join(tb.TempDir(), "planning.db")
	storage, err := sqlite.Open(migration.TempFileTestSQLiteConfig(path))
	if err != nil {
		tb.Fatalf("failed to open storage: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	if err := storage.Migrate(context.Background(), logger); err != nil {
		_ = storage.Close()
		tb.Fatalf("failed to migrate storage: %v", err)
	}

	harness := &SQLiteHarness{
		Storage:    storage,
		Users:      storage.Users,
		Sessions:   storage.Sessions,
		Schools:    storage.Registry,
		Classrooms: storage.Registry,
		Trainers:   storage.Registry,
		Planning:   storage.Planning,
		cleanup: func() {
			_ = storage.Close()
		},
	}

	tb.Cleanup(harness.Close)
	return harness
}

// Tenant is an organisation with one school, classroom and trainer.
type Tenant struct {
	Owner     UserFixture
	School    persistence.School
	Classroom persistence.Classroom
	Trainer   persistence.Trainer
}

// SeedTenant stores a fresh admin with a school, a classroom and an active
// trainer.
func (h *SQLiteHarness) SeedTenant(tb testing.TB) Tenant {
	tb.Helper()
	ctx := context.Background()

	owner := NewUserFixture()
	if err := h.Users.CreateUser(ctx, owner.Persistence()); err != nil {
		tb.Fatalf("seed owner: %v", err)
	}
	school := NewSchool(owner.ID)
	if err := h.Schools.CreateSchool(ctx, school); err != nil {
		tb.Fatalf("seed school: %v", err)
	}
	classroom := NewClassroom(school, "BTS SIO 1")
	if err := h.Classrooms.CreateClassroom(ctx, classroom); err != nil {
		tb.Fatalf("seed classroom: %v", err)
	}
	trainer := NewTrainer(owner.ID, "Marie", "Curie")
	trainer.SchoolID = &school.ID
	if err := h.Trainers.CreateTrainer(ctx, trainer); err != nil {
		tb.Fatalf("seed trainer: %v", err)
	}

	classroom.SchoolName = school.Name
	return Tenant{Owner: owner, School: school, Classroom: classroom, Trainer: trainer}
}
