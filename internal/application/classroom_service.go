package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// ClassroomRepository captures the persistence operations needed by ClassroomService.
type ClassroomRepository interface {
	CreateClassroom(ctx context.Context, classroom Classroom) error
	GetClassroom(ctx context.Context, ownerID, id string) (Classroom, error)
	ListClassrooms(ctx context.Context, ownerID string) ([]Classroom, error)
}

// ClassroomService exposes the classroom registry.
type ClassroomService struct {
	classrooms  ClassroomRepository
	validator   *Validator
	idGenerator func() string
	now         func() time.Time
	logger      *slog.Logger
}

// NewClassroomServiceWithLogger constructs a classroom service.
func NewClassroomServiceWithLogger(classrooms ClassroomRepository, idGenerator func() string, now func() time.Time, logger *slog.Logger) *ClassroomService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &ClassroomService{
		classrooms:  classrooms,
		validator:   NewValidator(),
		idGenerator: idGenerator,
		now:         now,
		logger:      defaultLogger(logger),
	}
}

func (s *ClassroomService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "ClassroomService", operation, attrs...)
}

// CreateClassroom adds a classroom to one of the principal's schools.
func (s *ClassroomService) CreateClassroom(ctx context.Context, principal Principal, input ClassroomInput) (classroom Classroom, err error) {
	if s == nil || s.classrooms == nil {
		err = fmt.Errorf("classroom service not configured")
		return
	}

	logger := s.loggerWith(ctx, "CreateClassroom", "principal_id", principal.UserID, "school_id", input.SchoolID)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to create classroom", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("classroom_id", classroom.ID).InfoContext(ctx, "classroom created")
	}()

	if !CanManageTeam(principal.Role) {
		err = ErrForbidden
		return
	}
	input.Name = strings.TrimSpace(input.Name)
	if vErr := s.validator.Struct(input); vErr != nil {
		err = vErr
		return
	}
	if input.Color == "" {
		input.Color = DefaultSessionColor
	}

	classroom = Classroom{
		ID:        s.idGenerator(),
		OwnerID:   principal.OwnerID,
		SchoolID:  input.SchoolID,
		Name:      input.Name,
		Color:     input.Color,
		CreatedAt: s.now(),
	}
	if err = s.classrooms.CreateClassroom(ctx, classroom); err != nil {
		if errors.Is(err, ErrNotFound) {
			err = &ReferenceError{Resource: "school", Message: "École introuvable"}
		}
		classroom = Classroom{}
	}
	return
}

// ListClassrooms returns the classrooms of the principal's organisation
// ordered by name, with their school name.
func (s *ClassroomService) ListClassrooms(ctx context.Context, principal Principal) (classrooms []Classroom, err error) {
	if s == nil || s.classrooms == nil {
		return nil, fmt.Errorf("classroom service not configured")
	}
	logger := s.loggerWith(ctx, "ListClassrooms", "owner_id", principal.OwnerID)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to list classrooms", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.DebugContext(ctx, "classrooms listed", "count", len(classrooms))
	}()
	return s.classrooms.ListClassrooms(ctx, principal.OwnerID)
}
