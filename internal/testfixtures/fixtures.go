package testfixtures

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/humia/planning/internal/application"
	"github.com/humia/planning/internal/persistence"
)

var (
	userCounter      uint64
	schoolCounter    uint64
	classroomCounter uint64
	trainerCounter   uint64
	sessionCounter   uint64
)

// ReferenceDate is the Monday used as the default planning day.
const ReferenceDate = "2026-02-09"

var referenceTime = time.Date(2026, time.February, 9, 8, 0, 0, 0, time.UTC)

// ReferenceTime returns the canonical baseline timestamp used by fixtures.
func ReferenceTime() time.Time {
	return referenceTime
}

// ----------------------------- User fixtures -----------------------------

// UserFixture is a deterministic account record.
type UserFixture struct {
	ID           string
	Email        string
	FirstName    string
	LastName     string
	Role         application.Role
	ParentID     *string
	PasswordHash string
	Disabled     bool
	CreatedAt    time.Time
}

// UserOption configures the generated user fixture.
type UserOption func(*UserFixture)

// NewUserFixture returns an admin account with optional overrides.
func NewUserFixture(opts ...UserOption) UserFixture {
	idx := atomic.AddUint64(&userCounter, 1)
	id := fmt.Sprintf("user-%03d", idx)
	fixture := UserFixture{
		ID:           id,
		Email:        id + "@example.com",
		FirstName:    "Prénom",
		LastName:     fmt.Sprintf("Nom %03d", idx),
		Role:         application.RoleAdmin,
		PasswordHash: "hash-" + id,
		CreatedAt:    referenceTime.Add(time.Duration(idx) * time.Minute),
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithUserID overrides the generated user ID.
func WithUserID(id string) UserOption {
	return func(f *UserFixture) { f.ID = id }
}

// WithUserEmail overrides the generated email address.
func WithUserEmail(email string) UserOption {
	return func(f *UserFixture) { f.Email = email }
}

// WithUserPasswordHash overrides the generated password hash.
func WithUserPasswordHash(hash string) UserOption {
	return func(f *UserFixture) { f.PasswordHash = hash }
}

// WithUserDisabled marks the account as disabled.
func WithUserDisabled() UserOption {
	return func(f *UserFixture) { f.Disabled = true }
}

// InvitedBy turns the fixture into a sub-user of parentID with role.
func InvitedBy(parentID string, role application.Role) UserOption {
	return func(f *UserFixture) {
		f.ParentID = &parentID
		f.Role = role
	}
}

// Application returns the fixture as an application.User value.
func (f UserFixture) Application() application.User {
	return application.User{
		ID:        f.ID,
		Email:     f.Email,
		FirstName: f.FirstName,
		LastName:  f.LastName,
		Role:      f.Role,
		ParentID:  f.ParentID,
		Disabled:  f.Disabled,
		CreatedAt: f.CreatedAt,
		UpdatedAt: f.CreatedAt,
	}
}

// Principal returns the principal the user acts as.
func (f UserFixture) Principal() application.Principal {
	return application.NewPrincipal(f.Application())
}

// Persistence returns the fixture as a persistence.User value.
func (f UserFixture) Persistence() persistence.User {
	return persistence.User{
		ID:           f.ID,
		Email:        f.Email,
		FirstName:    f.FirstName,
		LastName:     f.LastName,
		Role:         string(f.Role),
		ParentID:     f.ParentID,
		PasswordHash: f.PasswordHash,
		Disabled:     f.Disabled,
		CreatedAt:    f.CreatedAt,
		UpdatedAt:    f.CreatedAt,
	}
}

// --------------------------- Registry fixtures ---------------------------

// NewSchool returns a school of ownerID.
func NewSchool(ownerID string) persistence.School {
	idx := atomic.AddUint64(&schoolCounter, 1)
	return persistence.School{
		ID:        fmt.Sprintf("school-%03d", idx),
		OwnerID:   ownerID,
		Name:      fmt.Sprintf("École %03d", idx),
		CreatedAt: referenceTime,
	}
}

// NewClassroom returns a classroom of school named name.
func NewClassroom(school persistence.School, name string) persistence.Classroom {
	idx := atomic.AddUint64(&classroomCounter, 1)
	return persistence.Classroom{
		ID:        fmt.Sprintf("classroom-%03d", idx),
		OwnerID:   school.OwnerID,
		SchoolID:  school.ID,
		Name:      name,
		Color:     application.DefaultSessionColor,
		CreatedAt: referenceTime,
	}
}

// NewTrainer returns an active trainer of ownerID.
func NewTrainer(ownerID, firstName, lastName string) persistence.Trainer {
	idx := atomic.AddUint64(&trainerCounter, 1)
	return persistence.Trainer{
		ID:        fmt.Sprintf("trainer-%03d", idx),
		OwnerID:   ownerID,
		FirstName: firstName,
		LastName:  lastName,
		Status:    application.TrainerActive,
		CreatedAt: referenceTime,
	}
}

// --------------------------- Planning fixtures ---------------------------

// SessionOption configures a planning session fixture.
type SessionOption func(*persistence.PlanningSession)

// NewPlanningSession returns a 09:00-10:00 session on ReferenceDate held by
// classroom and trainer.
func NewPlanningSession(classroom persistence.Classroom, trainer persistence.Trainer, opts ...SessionOption) persistence.PlanningSession {
	idx := atomic.AddUint64(&sessionCounter, 1)
	session := persistence.PlanningSession{
		ID:          fmt.Sprintf("session-%03d", idx),
		OwnerID:     classroom.OwnerID,
		SchoolID:    classroom.SchoolID,
		ClassroomID: classroom.ID,
		TrainerID:   trainer.ID,
		Title:       fmt.Sprintf("Séance %03d", idx),
		Date:        ReferenceDate,
		StartTime:   "09:00",
		EndTime:     "10:00",
		Color:       application.DefaultSessionColor,
		Status:      application.DefaultSessionStatus,
		CreatedAt:   referenceTime,
		UpdatedAt:   referenceTime,
	}
	for _, opt := range opts {
		opt(&session)
	}
	return session
}

// At places the session on date between start and end.
func At(date, start, end string) SessionOption {
	return func(s *persistence.PlanningSession) {
		s.Date = date
		s.StartTime = start
		s.EndTime = end
	}
}

// WithSessionID overrides the generated session ID.
func WithSessionID(id string) SessionOption {
	return func(s *persistence.PlanningSession) { s.ID = id }
}

// WithSessionTitle overrides the generated title.
func WithSessionTitle(title string) SessionOption {
	return func(s *persistence.PlanningSession) { s.Title = title }
}

// WithSessionLocation sets the room of the session.
func WithSessionLocation(location string) SessionOption {
	return func(s *persistence.PlanningSession) { s.Location = &location }
}
