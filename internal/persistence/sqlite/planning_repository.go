package sqlite

import (
	"context"
	"database/sql"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/humia/planning/internal/persistence"
)

// PlanningRepository implements persistence.PlanningRepository using SQLite.
type PlanningRepository struct {
	pool   *ConnectionPool
	mapper *ErrorMapper
	retry  *RetryHelper
}

// NewPlanningRepository creates a new SQLite planning session repository.
func NewPlanningRepository(pool *ConnectionPool) *PlanningRepository {
	return &PlanningRepository{
		pool:   pool,
		mapper: NewErrorMapper(),
		retry:  NewRetryHelper(DefaultRetryConfig()),
	}
}

type planningRow struct {
	ID               string         `db:"id"`
	OwnerID          string         `db:"owner_id"`
	SchoolID         string         `db:"school_id"`
	ClassroomID      string         `db:"classroom_id"`
	TrainerID        string         `db:"trainer_id"`
	Title            string         `db:"title"`
	Description      sql.NullString `db:"description"`
	Date             string         `db:"date"`
	StartTime        string         `db:"start_time"`
	EndTime          string         `db:"end_time"`
	Location         sql.NullString `db:"location"`
	Color            string         `db:"color"`
	Status           string         `db:"status"`
	CreatedAt        string         `db:"created_at"`
	UpdatedAt        string         `db:"updated_at"`
	ClassroomName    string         `db:"classroom_name"`
	ClassroomColor   string         `db:"classroom_color"`
	TrainerFirstName string         `db:"trainer_first_name"`
	TrainerLastName  string         `db:"trainer_last_name"`
	SchoolName       string         `db:"school_name"`
}

func (row planningRow) toModel() (persistence.PlanningSessionDetail, error) {
	created, err := parseTime(row.CreatedAt)
	if err != nil {
		return persistence.PlanningSessionDetail{}, err
	}
	updated, err := parseTime(row.UpdatedAt)
	if err != nil {
		return persistence.PlanningSessionDetail{}, err
	}
	return persistence.PlanningSessionDetail{
		PlanningSession: persistence.PlanningSession{
			ID:          row.ID,
			OwnerID:     row.OwnerID,
			SchoolID:    row.SchoolID,
			ClassroomID: row.ClassroomID,
			TrainerID:   row.TrainerID,
			Title:       row.Title,
			Description: stringPtr(row.Description),
			Date:        row.Date,
			StartTime:   row.StartTime,
			EndTime:     row.EndTime,
			Location:    stringPtr(row.Location),
			Color:       row.Color,
			Status:      row.Status,
			CreatedAt:   created,
			UpdatedAt:   updated,
		},
		ClassroomName:    row.ClassroomName,
		ClassroomColor:   row.ClassroomColor,
		TrainerFirstName: row.TrainerFirstName,
		TrainerLastName:  row.TrainerLastName,
		SchoolName:       row.SchoolName,
	}, nil
}

const planningSelect = `
	SELECT p.id, p.owner_id, p.school_id, p.classroom_id, p.trainer_id, p.title, p.description,
		p.date, p.start_time, p.end_time, p.location, p.color, p.status, p.created_at, p.updated_at,
		c.name AS classroom_name, c.color AS classroom_color,
		t.first_name AS trainer_first_name, t.last_name AS trainer_last_name,
		s.name AS school_name
	FROM planning_sessions p
	JOIN classrooms c ON c.id = p.classroom_id
	JOIN trainers t ON t.id = p.trainer_id
	JOIN schools s ON s.id = p.school_id
`

// CreatePlanningSession inserts a session after checking, in the same
// transaction, that its classroom and trainer belong to the session owner.
func (r *PlanningRepository) CreatePlanningSession(ctx context.Context, session persistence.PlanningSession) error {
	if session.ID == "" || session.OwnerID == "" || strings.TrimSpace(session.Title) == "" {
		return persistence.ErrConstraintViolation
	}

	row := planningRow{
		ID:          session.ID,
		OwnerID:     session.OwnerID,
		SchoolID:    session.SchoolID,
		ClassroomID: session.ClassroomID,
		TrainerID:   session.TrainerID,
		Title:       session.Title,
		Description: nullString(session.Description),
		Date:        session.Date,
		StartTime:   session.StartTime,
		EndTime:     session.EndTime,
		Location:    nullString(session.Location),
		Color:       session.Color,
		Status:      session.Status,
		CreatedAt:   formatTime(session.CreatedAt),
		UpdatedAt:   formatTime(session.UpdatedAt),
	}

	return r.retry.WithRetry(ctx, func() error {
		return r.pool.WithTransaction(ctx, func(tx *sqlx.Tx) error {
			var owned int
			err := tx.GetContext(ctx, &owned, `
				SELECT COUNT(*) FROM classrooms c, trainers t
				WHERE c.id = ? AND c.owner_id = ? AND c.school_id = ? AND t.id = ? AND t.owner_id = ?
			`, session.ClassroomID, session.OwnerID, session.SchoolID, session.TrainerID, session.OwnerID)
			if err != nil {
				return err
			}
			if owned == 0 {
				return persistence.ErrForeignKeyViolation
			}

			_, err = tx.NamedExecContext(ctx, `
				INSERT INTO planning_sessions (id, owner_id, school_id, classroom_id, trainer_id, title, description,
					date, start_time, end_time, location, color, status, created_at, updated_at)
				VALUES (:id, :owner_id, :school_id, :classroom_id, :trainer_id, :title, :description,
					:date, :start_time, :end_time, :location, :color, :status, :created_at, :updated_at)
			`, row)
			return err
		})
	})
}

// GetPlanningSession retrieves a session owned by ownerID.
func (r *PlanningRepository) GetPlanningSession(ctx context.Context, ownerID, id string) (persistence.PlanningSessionDetail, error) {
	var row planningRow
	if err := r.pool.db.GetContext(ctx, &row, planningSelect+` WHERE p.id = ? AND p.owner_id = ?`, id, ownerID); err != nil {
		return persistence.PlanningSessionDetail{}, r.mapper.MapError(err)
	}
	return row.toModel()
}

// ListPlanningSessions returns the sessions matching filter ordered by date
// then start time.
func (r *PlanningRepository) ListPlanningSessions(ctx context.Context, filter persistence.PlanningFilter) ([]persistence.PlanningSessionDetail, error) {
	query := planningSelect + ` WHERE p.owner_id = ?`
	args := []any{filter.OwnerID}
	if filter.From != "" {
		query += ` AND p.date >= ?`
		args = append(args, filter.From)
	}
	if filter.To != "" {
		if filter.ToExclusive {
			query += ` AND p.date < ?`
		} else {
			query += ` AND p.date <= ?`
		}
		args = append(args, filter.To)
	}
	query += ` ORDER BY p.date, p.start_time, p.id`

	var rows []planningRow
	if err := r.pool.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, r.mapper.MapError(err)
	}
	sessions := make([]persistence.PlanningSessionDetail, 0, len(rows))
	for _, row := range rows {
		session, err := row.toModel()
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, session)
	}
	return sessions, nil
}

// DeletePlanningSession removes a session owned by ownerID. A missing or
// foreign session is not an error; the boolean reports whether a row went.
func (r *PlanningRepository) DeletePlanningSession(ctx context.Context, ownerID, id string) (bool, error) {
	var affected int64
	err := r.retry.WithRetry(ctx, func() error {
		result, err := r.pool.db.ExecContext(ctx,
			`DELETE FROM planning_sessions WHERE id = ? AND owner_id = ?`, id, ownerID)
		if err != nil {
			return err
		}
		affected, err = result.RowsAffected()
		return err
	})
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

var _ persistence.PlanningRepository = (*PlanningRepository)(nil)
