package application

import "time"

// Role is the account role controlling which screens a user may reach.
type Role string

const (
	RoleAdmin        Role = "admin"
	RoleResponsable  Role = "responsable"
	RoleCoordinateur Role = "coordinateur"
	RoleFormateur    Role = "formateur"
	RoleEleve        Role = "eleve"
)

// CanManageTeam reports whether role may invite users into its organisation.
func CanManageTeam(role Role) bool {
	switch role {
	case RoleAdmin, RoleResponsable, RoleCoordinateur:
		return true
	}
	return false
}

// User represents an account.
type User struct {
	ID        string
	Email     string
	FirstName string
	LastName  string
	Role      Role
	ParentID  *string
	Disabled  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// OwnerID returns the id of the account whose data user works on: the user
// itself for admins, otherwise the admin that invited it.
func OwnerID(user User) string {
	if user.Role == RoleAdmin {
		return user.ID
	}
	if user.ParentID != nil && *user.ParentID != "" {
		return *user.ParentID
	}
	return user.ID
}

// UserCredentials pairs a user with its stored password hash.
type UserCredentials struct {
	User         User
	PasswordHash string
}

// Principal represents the authenticated user invoking a service method.
type Principal struct {
	UserID  string
	Role    Role
	OwnerID string
}

// NewPrincipal derives the principal of user.
func NewPrincipal(user User) Principal {
	return Principal{UserID: user.ID, Role: user.Role, OwnerID: OwnerID(user)}
}

// Session is an issued login session. Token is only populated on the value
// returned by Authenticate; storage keeps TokenHash.
type Session struct {
	ID        string
	UserID    string
	Token     string
	TokenHash string
	ExpiresAt time.Time
	CreatedAt time.Time
	RevokedAt *time.Time
}

// AuthenticateParams carries login credentials.
type AuthenticateParams struct {
	Email    string
	Password string
}

// AuthenticateResult is returned by a successful login.
type AuthenticateResult struct {
	User    User
	Session Session
}

// School is a training organisation.
type School struct {
	ID        string
	OwnerID   string
	Name      string
	CreatedAt time.Time
}

// Classroom is a class group of a school.
type Classroom struct {
	ID         string
	OwnerID    string
	SchoolID   string
	Name       string
	Color      string
	SchoolName string
	CreatedAt  time.Time
}

// Trainer statuses.
const (
	TrainerActive   = "active"
	TrainerInactive = "inactive"
)

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

// Planning session defaults.
const (
	DefaultSessionColor  = "#7c3aed"
	DefaultSessionStatus = "scheduled"
)

// PlanningSession is a scheduled class meeting joined with the display
// fields of its classroom, trainer and school.
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

	ClassroomName    string
	ClassroomColor   string
	TrainerFirstName string
	TrainerLastName  string
	SchoolName       string
}

// PlanningRange bounds a session listing by YYYY-MM-DD dates. Empty bounds
// are open; End is inclusive unless EndExclusive is set.
type PlanningRange struct {
	Start        string
	End          string
	EndExclusive bool
}

// CreateSessionInput captures the fields of the session creation form.
type CreateSessionInput struct {
	ClassroomID string  `json:"classroomId" validate:"required"`
	TrainerID   string  `json:"trainerId" validate:"required"`
	Title       string  `json:"title" validate:"required,max=200"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
	Date        string  `json:"date" validate:"required,isodate"`
	StartTime   string  `json:"startTime" validate:"required,hhmm"`
	EndTime     string  `json:"endTime" validate:"required,hhmm"`
	Location    *string `json:"location" validate:"omitempty,max=200"`
	Color       string  `json:"color" validate:"omitempty,hexcolor"`
}

// AccountInput captures the fields needed to create an account.
type AccountInput struct {
	Email     string `json:"email" validate:"required,email"`
	FirstName string `json:"firstName" validate:"required,max=100"`
	LastName  string `json:"lastName" validate:"required,max=100"`
	Role      Role   `json:"role" validate:"required,oneof=admin responsable coordinateur formateur eleve"`
	Password  string `json:"password" validate:"required,min=8"`
}

// CreateAccountParams wraps account creation. A nil Principal creates a
// top-level admin account.
type CreateAccountParams struct {
	Principal *Principal
	Input     AccountInput
}

// SchoolInput captures the fields needed to create a school.
type SchoolInput struct {
	Name string `json:"name" validate:"required,max=200"`
}

// ClassroomInput captures the fields needed to create a classroom.
type ClassroomInput struct {
	SchoolID string `json:"schoolId" validate:"required"`
	Name     string `json:"name" validate:"required,max=200"`
	Color    string `json:"color" validate:"omitempty,hexcolor"`
}

// TrainerInput captures the fields needed to create a trainer.
type TrainerInput struct {
	SchoolID  *string `json:"schoolId"`
	FirstName string  `json:"firstName" validate:"required,max=100"`
	LastName  string  `json:"lastName" validate:"required,max=100"`
	Email     string  `json:"email" validate:"omitempty,email"`
	Specialty string  `json:"specialty" validate:"max=200"`
	Status    string  `json:"status" validate:"omitempty,oneof=active inactive"`
}
