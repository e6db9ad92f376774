package seed

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/humia/planning/internal/application"
)

type ownerDirectory interface {
	GetUserCredentialsByEmail(ctx context.Context, email string) (application.UserCredentials, error)
}

type schoolCreator interface {
	CreateSchool(ctx context.Context, principal application.Principal, input application.SchoolInput) (application.School, error)
}

type classroomCreator interface {
	CreateClassroom(ctx context.Context, principal application.Principal, input application.ClassroomInput) (application.Classroom, error)
}

type trainerCreator interface {
	CreateTrainer(ctx context.Context, principal application.Principal, input application.TrainerInput) (application.Trainer, error)
}

type sessionCreator interface {
	CreateSession(ctx context.Context, principal application.Principal, input application.CreateSessionInput) (application.PlanningSession, error)
}

// Services groups the collaborators a Seeder writes through.
type Services struct {
	Owners     ownerDirectory
	Schools    schoolCreator
	Classrooms classroomCreator
	Trainers   trainerCreator
	Planning   sessionCreator
}

// Result counts the records created by Apply.
type Result struct {
	Schools    int
	Classrooms int
	Trainers   int
	Sessions   int
}

type Seeder struct {
	services Services
	logger   *slog.Logger
}

func NewSeeder(services Services, logger *slog.Logger) *Seeder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Seeder{services: services, logger: logger.With("component", "seed")}
}

// Apply creates every record of doc on behalf of its owner. It stops at
// the first failure; records created before it are kept.
func (s *Seeder) Apply(ctx context.Context, doc Document) (Result, error) {
	var result Result
	if err := doc.Validate(); err != nil {
		return result, err
	}

	creds, err := s.services.Owners.GetUserCredentialsByEmail(ctx, strings.ToLower(strings.TrimSpace(doc.Owner)))
	if err != nil {
		return result, fmt.Errorf("seed: owner %s: %w", doc.Owner, err)
	}
	principal := application.NewPrincipal(creds.User)
	logger := s.logger.With("owner_id", principal.OwnerID)

	classrooms := make(map[string]string)
	trainers := make(map[string]string)

	for _, schoolDoc := range doc.Schools {
		school, err := s.services.Schools.CreateSchool(ctx, principal, application.SchoolInput{Name: schoolDoc.Name})
		if err != nil {
			return result, fmt.Errorf("seed: school %q: %w", schoolDoc.Name, err)
		}
		result.Schools++

		for _, c := range schoolDoc.Classrooms {
			classroom, err := s.services.Classrooms.CreateClassroom(ctx, principal, application.ClassroomInput{
				SchoolID: school.ID,
				Name:     c.Name,
				Color:    c.Color,
			})
			if err != nil {
				return result, fmt.Errorf("seed: classroom %q: %w", c.Name, err)
			}
			classrooms[c.Name] = classroom.ID
			result.Classrooms++
		}

		for _, t := range schoolDoc.Trainers {
			schoolID := school.ID
			trainer, err := s.services.Trainers.CreateTrainer(ctx, principal, application.TrainerInput{
				SchoolID:  &schoolID,
				FirstName: t.FirstName,
				LastName:  t.LastName,
				Email:     t.Email,
				Specialty: t.Specialty,
				Status:    t.Status,
			})
			if err != nil {
				return result, fmt.Errorf("seed: trainer %q: %w", t.FullName(), err)
			}
			trainers[t.FullName()] = trainer.ID
			result.Trainers++
		}
	}

	for i, sessionDoc := range doc.Sessions {
		_, err := s.services.Planning.CreateSession(ctx, principal, application.CreateSessionInput{
			ClassroomID: classrooms[sessionDoc.Classroom],
			TrainerID:   trainers[sessionDoc.Trainer],
			Title:       sessionDoc.Title,
			Description: optional(sessionDoc.Description),
			Date:        sessionDoc.Date,
			StartTime:   sessionDoc.Start,
			EndTime:     sessionDoc.End,
			Location:    optional(sessionDoc.Location),
			Color:       sessionDoc.Color,
		})
		if err != nil {
			return result, fmt.Errorf("seed: session %d (%s): %w", i+1, sessionDoc.Title, err)
		}
		result.Sessions++
	}

	logger.InfoContext(ctx, "seed applied",
		"schools", result.Schools,
		"classrooms", result.Classrooms,
		"trainers", result.Trainers,
		"sessions", result.Sessions,
	)
	return result, nil
}

func optional(value string) *string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return &value
}
