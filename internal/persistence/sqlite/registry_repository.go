package sqlite

import (
	"context"
	"database/sql"
	"strings"

	"github.com/humia/planning/internal/persistence"
)

// RegistryRepository stores schools, classrooms and trainers. It implements
// persistence.SchoolRepository, persistence.ClassroomRepository and
// persistence.TrainerRepository.
type RegistryRepository struct {
	pool   *ConnectionPool
	mapper *ErrorMapper
	retry  *RetryHelper
}

// NewRegistryRepository creates a new SQLite registry repository.
func NewRegistryRepository(pool *ConnectionPool) *RegistryRepository {
	return &RegistryRepository{
		pool:   pool,
		mapper: NewErrorMapper(),
		retry:  NewRetryHelper(DefaultRetryConfig()),
	}
}

type schoolRow struct {
	ID        string `db:"id"`
	OwnerID   string `db:"owner_id"`
	Name      string `db:"name"`
	CreatedAt string `db:"created_at"`
}

func (row schoolRow) toModel() (persistence.School, error) {
	created, err := parseTime(row.CreatedAt)
	if err != nil {
		return persistence.School{}, err
	}
	return persistence.School{ID: row.ID, OwnerID: row.OwnerID, Name: row.Name, CreatedAt: created}, nil
}

// CreateSchool inserts a school. Names are unique per owner.
func (r *RegistryRepository) CreateSchool(ctx context.Context, school persistence.School) error {
	if school.ID == "" || school.OwnerID == "" || strings.TrimSpace(school.Name) == "" {
		return persistence.ErrConstraintViolation
	}
	row := schoolRow{ID: school.ID, OwnerID: school.OwnerID, Name: school.Name, CreatedAt: formatTime(school.CreatedAt)}
	return r.retry.WithRetry(ctx, func() error {
		_, err := r.pool.db.NamedExecContext(ctx,
			`INSERT INTO schools (id, owner_id, name, created_at) VALUES (:id, :owner_id, :name, :created_at)`, row)
		return err
	})
}

// GetSchool retrieves a school owned by ownerID.
func (r *RegistryRepository) GetSchool(ctx context.Context, ownerID, id string) (persistence.School, error) {
	var row schoolRow
	err := r.pool.db.GetContext(ctx, &row,
		`SELECT id, owner_id, name, created_at FROM schools WHERE id = ? AND owner_id = ?`, id, ownerID)
	if err != nil {
		return persistence.School{}, r.mapper.MapError(err)
	}
	return row.toModel()
}

// ListSchools returns the schools of ownerID ordered by name.
func (r *RegistryRepository) ListSchools(ctx context.Context, ownerID string) ([]persistence.School, error) {
	var rows []schoolRow
	err := r.pool.db.SelectContext(ctx, &rows,
		`SELECT id, owner_id, name, created_at FROM schools WHERE owner_id = ? ORDER BY name, id`, ownerID)
	if err != nil {
		return nil, r.mapper.MapError(err)
	}
	schools := make([]persistence.School, 0, len(rows))
	for _, row := range rows {
		school, err := row.toModel()
		if err != nil {
			return nil, err
		}
		schools = append(schools, school)
	}
	return schools, nil
}

type classroomRow struct {
	ID         string `db:"id"`
	OwnerID    string `db:"owner_id"`
	SchoolID   string `db:"school_id"`
	Name       string `db:"name"`
	Color      string `db:"color"`
	CreatedAt  string `db:"created_at"`
	SchoolName string `db:"school_name"`
}

func (row classroomRow) toModel() (persistence.Classroom, error) {
	created, err := parseTime(row.CreatedAt)
	if err != nil {
		return persistence.Classroom{}, err
	}
	return persistence.Classroom{
		ID:         row.ID,
		OwnerID:    row.OwnerID,
		SchoolID:   row.SchoolID,
		Name:       row.Name,
		Color:      row.Color,
		CreatedAt:  created,
		SchoolName: row.SchoolName,
	}, nil
}

const classroomSelect = `
	SELECT c.id, c.owner_id, c.school_id, c.name, c.color, c.created_at, s.name AS school_name
	FROM classrooms c
	JOIN schools s ON s.id = c.school_id
`

// CreateClassroom inserts a classroom. The school must belong to the same
// owner.
func (r *RegistryRepository) CreateClassroom(ctx context.Context, classroom persistence.Classroom) error {
	if classroom.ID == "" || classroom.OwnerID == "" || classroom.SchoolID == "" || strings.TrimSpace(classroom.Name) == "" {
		return persistence.ErrConstraintViolation
	}
	row := classroomRow{
		ID:        classroom.ID,
		OwnerID:   classroom.OwnerID,
		SchoolID:  classroom.SchoolID,
		Name:      classroom.Name,
		Color:     classroom.Color,
		CreatedAt: formatTime(classroom.CreatedAt),
	}
	const query = `
		INSERT INTO classrooms (id, owner_id, school_id, name, color, created_at)
		SELECT :id, :owner_id, :school_id, :name, :color, :created_at
		WHERE EXISTS (SELECT 1 FROM schools WHERE id = :school_id AND owner_id = :owner_id)
	`
	return r.insertScoped(ctx, query, row)
}

// GetClassroom retrieves a classroom owned by ownerID.
func (r *RegistryRepository) GetClassroom(ctx context.Context, ownerID, id string) (persistence.Classroom, error) {
	var row classroomRow
	if err := r.pool.db.GetContext(ctx, &row, classroomSelect+` WHERE c.id = ? AND c.owner_id = ?`, id, ownerID); err != nil {
		return persistence.Classroom{}, r.mapper.MapError(err)
	}
	return row.toModel()
}

// ListClassrooms returns the classrooms of ownerID ordered by name.
func (r *RegistryRepository) ListClassrooms(ctx context.Context, ownerID string) ([]persistence.Classroom, error) {
	var rows []classroomRow
	if err := r.pool.db.SelectContext(ctx, &rows, classroomSelect+` WHERE c.owner_id = ? ORDER BY c.name, c.id`, ownerID); err != nil {
		return nil, r.mapper.MapError(err)
	}
	classrooms := make([]persistence.Classroom, 0, len(rows))
	for _, row := range rows {
		classroom, err := row.toModel()
		if err != nil {
			return nil, err
		}
		classrooms = append(classrooms, classroom)
	}
	return classrooms, nil
}

type trainerRow struct {
	ID        string         `db:"id"`
	OwnerID   string         `db:"owner_id"`
	SchoolID  sql.NullString `db:"school_id"`
	FirstName string         `db:"first_name"`
	LastName  string         `db:"last_name"`
	Email     string         `db:"email"`
	Specialty string         `db:"specialty"`
	Status    string         `db:"status"`
	CreatedAt string         `db:"created_at"`
}

func (row trainerRow) toModel() (persistence.Trainer, error) {
	created, err := parseTime(row.CreatedAt)
	if err != nil {
		return persistence.Trainer{}, err
	}
	return persistence.Trainer{
		ID:        row.ID,
		OwnerID:   row.OwnerID,
		SchoolID:  stringPtr(row.SchoolID),
		FirstName: row.FirstName,
		LastName:  row.LastName,
		Email:     row.Email,
		Specialty: row.Specialty,
		Status:    row.Status,
		CreatedAt: created,
	}, nil
}

const trainerColumns = `id, owner_id, school_id, first_name, last_name, email, specialty, status, created_at`

// CreateTrainer inserts a trainer. An attached school must belong to the
// same owner.
func (r *RegistryRepository) CreateTrainer(ctx context.Context, trainer persistence.Trainer) error {
	if trainer.ID == "" || trainer.OwnerID == "" || strings.TrimSpace(trainer.FirstName) == "" {
		return persistence.ErrConstraintViolation
	}
	row := trainerRow{
		ID:        trainer.ID,
		OwnerID:   trainer.OwnerID,
		SchoolID:  nullString(trainer.SchoolID),
		FirstName: trainer.FirstName,
		LastName:  trainer.LastName,
		Email:     trainer.Email,
		Specialty: trainer.Specialty,
		Status:    trainer.Status,
		CreatedAt: formatTime(trainer.CreatedAt),
	}
	const query = `
		INSERT INTO trainers (` + trainerColumns + `)
		SELECT :id, :owner_id, :school_id, :first_name, :last_name, :email, :specialty, :status, :created_at
		WHERE :school_id IS NULL
			OR EXISTS (SELECT 1 FROM schools WHERE id = :school_id AND owner_id = :owner_id)
	`
	return r.insertScoped(ctx, query, row)
}

// GetTrainer retrieves a trainer owned by ownerID.
func (r *RegistryRepository) GetTrainer(ctx context.Context, ownerID, id string) (persistence.Trainer, error) {
	var row trainerRow
	err := r.pool.db.GetContext(ctx, &row,
		`SELECT `+trainerColumns+` FROM trainers WHERE id = ? AND owner_id = ?`, id, ownerID)
	if err != nil {
		return persistence.Trainer{}, r.mapper.MapError(err)
	}
	return row.toModel()
}

// ListTrainers returns the trainers matching filter ordered by first then
// last name.
func (r *RegistryRepository) ListTrainers(ctx context.Context, filter persistence.TrainerFilter) ([]persistence.Trainer, error) {
	query := `SELECT ` + trainerColumns + ` FROM trainers WHERE owner_id = ?`
	args := []any{filter.OwnerID}
	if filter.Status != "" {
		query += ` AND status = ?`
		args = append(args, filter.Status)
	}
	query += ` ORDER BY first_name, last_name, id`

	var rows []trainerRow
	if err := r.pool.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, r.mapper.MapError(err)
	}
	trainers := make([]persistence.Trainer, 0, len(rows))
	for _, row := range rows {
		trainer, err := row.toModel()
		if err != nil {
			return nil, err
		}
		trainers = append(trainers, trainer)
	}
	return trainers, nil
}

// insertScoped runs an INSERT ... SELECT guarded by an ownership check and
// reports a foreign key violation when the guard rejected the row.
func (r *RegistryRepository) insertScoped(ctx context.Context, query string, arg any) error {
	var affected int64
	err := r.retry.WithRetry(ctx, func() error {
		result, err := r.pool.db.NamedExecContext(ctx, query, arg)
		if err != nil {
			return err
		}
		affected, err = result.RowsAffected()
		return err
	})
	if err != nil {
		return err
	}
	if affected == 0 {
		return persistence.ErrForeignKeyViolation
	}
	return nil
}

var (
	_ persistence.SchoolRepository    = (*RegistryRepository)(nil)
	_ persistence.ClassroomRepository = (*RegistryRepository)(nil)
	_ persistence.TrainerRepository   = (*RegistryRepository)(nil)
)
