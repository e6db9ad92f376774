package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/humia/planning/internal/calendar"
)

// PlanningRepository captures the persistence operations for planning sessions.
type PlanningRepository interface {
	CreatePlanningSession(ctx context.Context, session PlanningSession) error
	ListPlanningSessions(ctx context.Context, ownerID string, r PlanningRange) ([]PlanningSession, error)
	DeletePlanningSession(ctx context.Context, ownerID, id string) (bool, error)
}

// ClassroomLookup resolves a classroom within an organisation.
type ClassroomLookup interface {
	GetClassroom(ctx context.Context, ownerID, id string) (Classroom, error)
}

// TrainerLookup resolves a trainer within an organisation.
type TrainerLookup interface {
	GetTrainer(ctx context.Context, ownerID, id string) (Trainer, error)
}

const (
	msgSessionFormat  = "Le format de la date, des horaires ou de la couleur est invalide"
	msgClassNotFound  = "Classe introuvable"
	msgTrainerMissing = "Formateur introuvable"
	msgSessionIDBlank = "L'identifiant de la séance est requis"
)

// PlanningService manages planning sessions.
type PlanningService struct {
	sessions    PlanningRepository
	classrooms  ClassroomLookup
	trainers    TrainerLookup
	validator   *Validator
	idGenerator func() string
	now         func() time.Time
	logger      *slog.Logger
}

// NewPlanningService constructs a planning service with the provided dependencies.
func NewPlanningService(sessions PlanningRepository, classrooms ClassroomLookup, trainers TrainerLookup, idGenerator func() string, now func() time.Time) *PlanningService {
	return NewPlanningServiceWithLogger(sessions, classrooms, trainers, idGenerator, now, nil)
}

// NewPlanningServiceWithLogger constructs a planning service with a specified logger.
func NewPlanningServiceWithLogger(sessions PlanningRepository, classrooms ClassroomLookup, trainers TrainerLookup, idGenerator func() string, now func() time.Time, logger *slog.Logger) *PlanningService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &PlanningService{
		sessions:    sessions,
		classrooms:  classrooms,
		trainers:    trainers,
		validator:   NewValidator(),
		idGenerator: idGenerator,
		now:         now,
		logger:      defaultLogger(logger),
	}
}

func (s *PlanningService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "PlanningService", operation, attrs...)
}

func (s *PlanningService) configured() bool {
	return s != nil && s.sessions != nil && s.classrooms != nil && s.trainers != nil
}

// ListSessions returns the sessions of the principal's organisation within
// r, ordered by date then start time.
func (s *PlanningService) ListSessions(ctx context.Context, principal Principal, r PlanningRange) (sessions []PlanningSession, err error) {
	if !s.configured() {
		return nil, fmt.Errorf("planning service not configured")
	}

	logger := s.loggerWith(ctx, "ListSessions",
		"owner_id", principal.OwnerID,
		"range_start", r.Start,
		"range_end", r.End,
		"end_exclusive", r.EndExclusive,
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to list sessions", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.DebugContext(ctx, "sessions listed", "count", len(sessions))
	}()

	sessions, err = s.sessions.ListPlanningSessions(ctx, principal.OwnerID, r)
	if err != nil {
		return nil, err
	}
	if sessions == nil {
		sessions = []PlanningSession{}
	}
	return sessions, nil
}

// CreateSession validates input and schedules a new session. Checks run in
// a fixed order: presence, format, opening hours, ordering, then the
// classroom and trainer references. The first failure is returned.
func (s *PlanningService) CreateSession(ctx context.Context, principal Principal, input CreateSessionInput) (session PlanningSession, err error) {
	if !s.configured() {
		err = fmt.Errorf("planning service not configured")
		return
	}

	logger := s.loggerWith(ctx, "CreateSession",
		"principal_id", principal.UserID,
		"owner_id", principal.OwnerID,
		"classroom_id", input.ClassroomID,
		"trainer_id", input.TrainerID,
		"date", input.Date,
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to create session", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("session_id", session.ID).InfoContext(ctx, "session created")
	}()

	input = normalizeSessionInput(input)

	if !notBlank(input.ClassroomID, input.TrainerID, input.Title, input.Date, input.StartTime, input.EndTime) {
		err = newValidationMessage(calendar.ErrFormIncomplete.Error())
		return
	}
	if vErr := s.validator.Struct(input); vErr != nil {
		vErr.Message = msgSessionFormat
		err = vErr
		return
	}
	if !calendar.WithinWindow(input.StartTime, input.EndTime) {
		err = newValidationMessage(calendar.ErrFormWindow.Error())
		return
	}
	if input.StartTime >= input.EndTime {
		err = newValidationMessage(calendar.ErrFormOrder.Error())
		return
	}

	var classroom Classroom
	classroom, err = s.classrooms.GetClassroom(ctx, principal.OwnerID, input.ClassroomID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			err = &ReferenceError{Resource: "classroom", Message: msgClassNotFound}
		}
		return
	}
	var trainer Trainer
	trainer, err = s.trainers.GetTrainer(ctx, principal.OwnerID, input.TrainerID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			err = &ReferenceError{Resource: "trainer", Message: msgTrainerMissing}
		}
		return
	}

	color := input.Color
	if color == "" {
		color = DefaultSessionColor
	}
	now := s.now()
	candidate := PlanningSession{
		ID:          s.idGenerator(),
		OwnerID:     principal.OwnerID,
		SchoolID:    classroom.SchoolID,
		ClassroomID: classroom.ID,
		TrainerID:   trainer.ID,
		Title:       input.Title,
		Description: input.Description,
		Date:        input.Date,
		StartTime:   input.StartTime,
		EndTime:     input.EndTime,
		Location:    input.Location,
		Color:       color,
		Status:      DefaultSessionStatus,
		CreatedAt:   now,
		UpdatedAt:   now,

		ClassroomName:    classroom.Name,
		ClassroomColor:   classroom.Color,
		TrainerFirstName: trainer.FirstName,
		TrainerLastName:  trainer.LastName,
		SchoolName:       classroom.SchoolName,
	}
	if err = s.sessions.CreatePlanningSession(ctx, candidate); err != nil {
		if errors.Is(err, ErrNotFound) {
			err = &ReferenceError{Resource: "classroom", Message: msgClassNotFound}
		}
		return
	}
	return candidate, nil
}

// DeleteSession removes the session id from the principal's organisation.
// Unknown ids and sessions of other organisations are ignored.
func (s *PlanningService) DeleteSession(ctx context.Context, principal Principal, id string) (err error) {
	if !s.configured() {
		return fmt.Errorf("planning service not configured")
	}

	id = strings.TrimSpace(id)
	logger := s.loggerWith(ctx, "DeleteSession", "owner_id", principal.OwnerID, "session_id", id)
	var deleted bool
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to delete session", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "session delete processed", "deleted", deleted)
	}()

	if id == "" {
		return newValidationMessage(msgSessionIDBlank)
	}
	deleted, err = s.sessions.DeletePlanningSession(ctx, principal.OwnerID, id)
	return err
}

func normalizeSessionInput(input CreateSessionInput) CreateSessionInput {
	input.ClassroomID = strings.TrimSpace(input.ClassroomID)
	input.TrainerID = strings.TrimSpace(input.TrainerID)
	input.Title = strings.TrimSpace(input.Title)
	input.Date = strings.TrimSpace(input.Date)
	input.StartTime = strings.TrimSpace(input.StartTime)
	input.EndTime = strings.TrimSpace(input.EndTime)
	input.Color = strings.TrimSpace(input.Color)
	input.Description = optionalText(input.Description)
	input.Location = optionalText(input.Location)
	return input
}

func optionalText(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
