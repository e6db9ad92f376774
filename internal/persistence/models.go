package persistence

import "time"

// User represents an account record. ParentID is set for users invited by an
// admin and designates the admin whose data they share.
type User struct {
	ID           string
	Email        string
	FirstName    string
	LastName     string
	Role         string
	ParentID     *string
	PasswordHash string
	Disabled     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// AuthSession stores a login session. Only a keyed hash of the bearer token
// is persisted.
type AuthSession struct {
	ID        string
	UserID    string
	TokenHash string
	ExpiresAt time.Time
	CreatedAt time.Time
	RevokedAt *time.Time
}

// School is a training organisation owned by an account.
type School struct {
	ID        string
	OwnerID   string
	Name      string
	CreatedAt time.Time
}

// Classroom is a class group attached to a school.
type Classroom struct {
	ID         string
	OwnerID    string
	SchoolID   string
	Name       string
	Color      string
	CreatedAt  time.Time
	SchoolName string
}

// Trainer is an instructor that can be booked on planning sessions.
type Trainer struct {
	ID        string
	OwnerID   string
	SchoolID  *string
	FirstName string
	LastName  string
	Email     string
	Specialty string
	Status    string
	CreatedAt time.Time
}

// PlanningSession is a scheduled class meeting. Date is YYYY-MM-DD and the
// times are zero-padded HH:MM without a time zone.
type PlanningSession struct {
	ID          string
	OwnerID     string
	SchoolID    string
	ClassroomID string
	TrainerID   string
	Title       string
	Description *string
	Date        string
	StartTime   string
	EndTime     string
	Location    *string
	Color       string
	Status      string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// PlanningSessionDetail is a planning session joined with the display fields
// of its classroom, trainer and school.
type PlanningSessionDetail struct {
	PlanningSession
	ClassroomName    string
	ClassroomColor   string
	TrainerFirstName string
	TrainerLastName  string
	SchoolName       string
}
