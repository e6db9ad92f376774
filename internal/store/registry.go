package store

import (
	"context"

	"github.com/humia/planning/internal/application"
	"github.com/humia/planning/internal/persistence"
)

// RegistryRepository is the union of the school, classroom and trainer
// repositories, as implemented by the SQLite registry.
type RegistryRepository interface {
	persistence.SchoolRepository
	persistence.ClassroomRepository
	persistence.TrainerRepository
}

// Registry serves schools, classrooms and trainers.
type Registry struct {
	repo RegistryRepository
}

func NewRegistry(repo RegistryRepository) *Registry {
	return &Registry{repo: repo}
}

func (r *Registry) CreateSchool(ctx context.Context, school application.School) error {
	return translate(r.repo.CreateSchool(ctx, persistence.School{
		ID:        school.ID,
		OwnerID:   school.OwnerID,
		Name:      school.Name,
		CreatedAt: school.CreatedAt,
	}))
}

func (r *Registry) ListSchools(ctx context.Context, ownerID string) ([]application.School, error) {
	stored, err := r.repo.ListSchools(ctx, ownerID)
	if err != nil {
		return nil, translate(err)
	}
	schools := make([]application.School, 0, len(stored))
	for _, s := range stored {
		schools = append(schools, application.School{ID: s.ID, OwnerID: s.OwnerID, Name: s.Name, CreatedAt: s.CreatedAt})
	}
	return schools, nil
}

func (r *Registry) CreateClassroom(ctx context.Context, classroom application.Classroom) error {
	return translate(r.repo.CreateClassroom(ctx, persistence.Classroom{
		ID:        classroom.ID,
		OwnerID:   classroom.OwnerID,
		SchoolID:  classroom.SchoolID,
		Name:      classroom.Name,
		Color:     classroom.Color,
		CreatedAt: classroom.CreatedAt,
	}))
}

func (r *Registry) GetClassroom(ctx context.Context, ownerID, id string) (application.Classroom, error) {
	stored, err := r.repo.GetClassroom(ctx, ownerID, id)
	if err != nil {
		return application.Classroom{}, translate(err)
	}
	return toApplicationClassroom(stored), nil
}

func (r *Registry) ListClassrooms(ctx context.Context, ownerID string) ([]application.Classroom, error) {
	stored, err := r.repo.ListClassrooms(ctx, ownerID)
	if err != nil {
		return nil, translate(err)
	}
	classrooms := make([]application.Classroom, 0, len(stored))
	for _, c := range stored {
		classrooms = append(classrooms, toApplicationClassroom(c))
	}
	return classrooms, nil
}

func (r *Registry) CreateTrainer(ctx context.Context, trainer application.Trainer) error {
	return translate(r.repo.CreateTrainer(ctx, persistence.Trainer{
		ID:        trainer.ID,
		OwnerID:   trainer.OwnerID,
		SchoolID:  cloneString(trainer.SchoolID),
		FirstName: trainer.FirstName,
		LastName:  trainer.LastName,
		Email:     trainer.Email,
		Specialty: trainer.Specialty,
		Status:    trainer.Status,
		CreatedAt: trainer.CreatedAt,
	}))
}

func (r *Registry) GetTrainer(ctx context.Context, ownerID, id string) (application.Trainer, error) {
	stored, err := r.repo.GetTrainer(ctx, ownerID, id)
	if err != nil {
		return application.Trainer{}, translate(err)
	}
	return toApplicationTrainer(stored), nil
}

func (r *Registry) ListTrainers(ctx context.Context, ownerID, status string) ([]application.Trainer, error) {
	stored, err := r.repo.ListTrainers(ctx, persistence.TrainerFilter{OwnerID: ownerID, Status: status})
	if err != nil {
		return nil, translate(err)
	}
	trainers := make([]application.Trainer, 0, len(stored))
	for _, t := range stored {
		trainers = append(trainers, toApplicationTrainer(t))
	}
	return trainers, nil
}

func toApplicationClassroom(model persistence.Classroom) application.Classroom {
	return application.Classroom{
		ID:         model.ID,
		OwnerID:    model.OwnerID,
		SchoolID:   model.SchoolID,
		Name:       model.Name,
		Color:      model.Color,
		SchoolName: model.SchoolName,
		CreatedAt:  model.CreatedAt,
	}
}

func toApplicationTrainer(model persistence.Trainer) application.Trainer {
	return application.Trainer{
		ID:        model.ID,
		OwnerID:   model.OwnerID,
		SchoolID:  cloneString(model.SchoolID),
		FirstName: model.FirstName,
		LastName:  model.LastName,
		Email:     model.Email,
		Specialty: model.Specialty,
		Status:    model.Status,
		CreatedAt: model.CreatedAt,
	}
}
