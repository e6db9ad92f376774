package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// TrainerRepository captures the persistence operations needed by TrainerService.
type TrainerRepository interface {
	CreateTrainer(ctx context.Context, trainer Trainer) error
	GetTrainer(ctx context.Context, ownerID, id string) (Trainer, error)
	ListTrainers(ctx context.Context, ownerID, status string) ([]Trainer, error)
}

// TrainerService exposes the trainer registry.
type TrainerService struct {
	trainers    TrainerRepository
	validator   *Validator
	idGenerator func() string
	now         func() time.Time
	logger      *slog.Logger
}

// NewTrainerServiceWithLogger constructs a trainer service.
func NewTrainerServiceWithLogger(trainers TrainerRepository, idGenerator func() string, now func() time.Time, logger *slog.Logger) *TrainerService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &TrainerService{
		trainers:    trainers,
		validator:   NewValidator(),
		idGenerator: idGenerator,
		now:         now,
		logger:      defaultLogger(logger),
	}
}

func (s *TrainerService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "TrainerService", operation, attrs...)
}

// CreateTrainer adds a trainer to the principal's organisation. Status
// defaults to active.
func (s *TrainerService) CreateTrainer(ctx context.Context, principal Principal, input TrainerInput) (trainer Trainer, err error) {
	if s == nil || s.trainers == nil {
		err = fmt.Errorf("trainer service not configured")
		return
	}

	logger := s.loggerWith(ctx, "CreateTrainer", "principal_id", principal.UserID)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to create trainer", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("trainer_id", trainer.ID).InfoContext(ctx, "trainer created")
	}()

	if !CanManageTeam(principal.Role) {
		err = ErrForbidden
		return
	}
	input.FirstName = strings.TrimSpace(input.FirstName)
	input.LastName = strings.TrimSpace(input.LastName)
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	if vErr := s.validator.Struct(input); vErr != nil {
		err = vErr
		return
	}
	if input.Status == "" {
		input.Status = TrainerActive
	}

	trainer = Trainer{
		ID:        s.idGenerator(),
		OwnerID:   principal.OwnerID,
		SchoolID:  input.SchoolID,
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Email:     input.Email,
		Specialty: strings.TrimSpace(input.Specialty),
		Status:    input.Status,
		CreatedAt: s.now(),
	}
	if err = s.trainers.CreateTrainer(ctx, trainer); err != nil {
		if errors.Is(err, ErrNotFound) {
			err = &ReferenceError{Resource: "school", Message: "École introuvable"}
		}
		trainer = Trainer{}
	}
	return
}

// ListTrainers returns the active trainers of the principal's organisation
// ordered by first then last name.
func (s *TrainerService) ListTrainers(ctx context.Context, principal Principal) (trainers []Trainer, err error) {
	if s == nil || s.trainers == nil {
		return nil, fmt.Errorf("trainer service not configured")
	}
	logger := s.loggerWith(ctx, "ListTrainers", "owner_id", principal.OwnerID)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to list trainers", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.DebugContext(ctx, "trainers listed", "count", len(trainers))
	}()
	return s.trainers.ListTrainers(ctx, principal.OwnerID, TrainerActive)
}
