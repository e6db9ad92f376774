package persistence

import (
	"context"
	"time"
)

// UserRepository exposes account storage.
type UserRepository interface {
	CreateUser(ctx context.Context, user User) error
	UpdateUser(ctx context.Context, user User) error
	GetUser(ctx context.Context, id string) (User, error)
	GetUserByEmail(ctx context.Context, email string) (User, error)
}

// AuthSessionRepository stores login sessions.
type AuthSessionRepository interface {
	CreateSession(ctx context.Context, session AuthSession) error
	GetSessionByTokenHash(ctx context.Context, tokenHash string) (AuthSession, error)
	RevokeSession(ctx context.Context, tokenHash string, revokedAt time.Time) error
	DeleteExpiredSessions(ctx context.Context, reference time.Time) (int64, error)
}

// SchoolRepository stores schools.
type SchoolRepository interface {
	CreateSchool(ctx context.Context, school School) error
	GetSchool(ctx context.Context, ownerID, id string) (School, error)
	ListSchools(ctx context.Context, ownerID string) ([]School, error)
}

// ClassroomRepository stores classrooms. Every lookup is scoped to an owner.
type ClassroomRepository interface {
	CreateClassroom(ctx context.Context, classroom Classroom) error
	GetClassroom(ctx context.Context, ownerID, id string) (Classroom, error)
	ListClassrooms(ctx context.Context, ownerID string) ([]Classroom, error)
}

// TrainerFilter narrows trainer listings.
type TrainerFilter struct {
	OwnerID string
	Status  string
}

// TrainerRepository stores trainers. Every lookup is scoped to an owner.
type TrainerRepository interface {
	CreateTrainer(ctx context.Context, trainer Trainer) error
	GetTrainer(ctx context.Context, ownerID, id string) (Trainer, error)
	ListTrainers(ctx context.Context, filter TrainerFilter) ([]Trainer, error)
}

// PlanningFilter narrows planning session queries. From and To are
// YYYY-MM-DD bounds; an empty bound is open. To is inclusive unless
// ToExclusive is set.
type PlanningFilter struct {
	OwnerID     string
	From        string
	To          string
	ToExclusive bool
}

// PlanningRepository stores planning sessions.
type PlanningRepository interface {
	CreatePlanningSession(ctx context.Context, session PlanningSession) error
	GetPlanningSession(ctx context.Context, ownerID, id string) (PlanningSessionDetail, error)
	ListPlanningSessions(ctx context.Context, filter PlanningFilter) ([]PlanningSessionDetail, error)
	// DeletePlanningSession reports whether a row was removed.
	DeletePlanningSession(ctx context.Context, ownerID, id string) (bool, error)
}
