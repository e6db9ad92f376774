package application

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// SchoolRepository captures the persistence operations needed by SchoolService.
type SchoolRepository interface {
	CreateSchool(ctx context.Context, school School) error
	ListSchools(ctx context.Context, ownerID string) ([]School, error)
}

// SchoolService manages the schools of an organisation.
type SchoolService struct {
	schools     SchoolRepository
	validator   *Validator
	idGenerator func() string
	now         func() time.Time
	logger      *slog.Logger
}

// NewSchoolServiceWithLogger constructs a school service.
func NewSchoolServiceWithLogger(schools SchoolRepository, idGenerator func() string, now func() time.Time, logger *slog.Logger) *SchoolService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &SchoolService{
		schools:     schools,
		validator:   NewValidator(),
		idGenerator: idGenerator,
		now:         now,
		logger:      defaultLogger(logger),
	}
}

func (s *SchoolService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "SchoolService", operation, attrs...)
}

// CreateSchool adds a school to the principal's organisation.
func (s *SchoolService) CreateSchool(ctx context.Context, principal Principal, input SchoolInput) (school School, err error) {
	if s == nil || s.schools == nil {
		err = fmt.Errorf("school service not configured")
		return
	}

	logger := s.loggerWith(ctx, "CreateSchool", "principal_id", principal.UserID, "owner_id", principal.OwnerID)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to create school", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("school_id", school.ID).InfoContext(ctx, "school created")
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

	school = School{
		ID:        s.idGenerator(),
		OwnerID:   principal.OwnerID,
		Name:      input.Name,
		CreatedAt: s.now(),
	}
	if err = s.schools.CreateSchool(ctx, school); err != nil {
		school = School{}
	}
	return
}

// ListSchools returns the schools of the principal's organisation.
func (s *SchoolService) ListSchools(ctx context.Context, principal Principal) (schools []School, err error) {
	if s == nil || s.schools == nil {
		return nil, fmt.Errorf("school service not configured")
	}
	logger := s.loggerWith(ctx, "ListSchools", "owner_id", principal.OwnerID)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to list schools", "error", err, "error_kind", ErrorKind(err))
		}
	}()
	return s.schools.ListSchools(ctx, principal.OwnerID)
}
