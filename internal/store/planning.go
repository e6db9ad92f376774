package store

import (
	"context"

	"github.com/humia/planning/internal/application"
	"github.com/humia/planning/internal/persistence"
)

// Planning stores planning sessions.
type Planning struct {
	repo persistence.PlanningRepository
}

func NewPlanning(repo persistence.PlanningRepository) *Planning {
	return &Planning{repo: repo}
}

func (p *Planning) CreatePlanningSession(ctx context.Context, session application.PlanningSession) error {
	return translate(p.repo.CreatePlanningSession(ctx, persistence.PlanningSession{
		ID:          session.ID,
		OwnerID:     session.OwnerID,
		SchoolID:    session.SchoolID,
		ClassroomID: session.ClassroomID,
		TrainerID:   session.TrainerID,
		Title:       session.Title,
		Description: cloneString(session.Description),
		Date:        session.Date,
		StartTime:   session.StartTime,
		EndTime:     session.EndTime,
		Location:    cloneString(session.Location),
		Color:       session.Color,
		Status:      session.Status,
		CreatedAt:   session.CreatedAt,
		UpdatedAt:   session.UpdatedAt,
	}))
}

func (p *Planning) ListPlanningSessions(ctx context.Context, ownerID string, r application.PlanningRange) ([]application.PlanningSession, error) {
	stored, err := p.repo.ListPlanningSessions(ctx, persistence.PlanningFilter{
		OwnerID:     ownerID,
		From:        r.Start,
		To:          r.End,
		ToExclusive: r.EndExclusive,
	})
	if err != nil {
		return nil, translate(err)
	}
	sessions := make([]application.PlanningSession, 0, len(stored))
	for _, detail := range stored {
		sessions = append(sessions, toApplicationSession(detail))
	}
	return sessions, nil
}

func (p *Planning) DeletePlanningSession(ctx context.Context, ownerID, id string) (bool, error) {
	deleted, err := p.repo.DeletePlanningSession(ctx, ownerID, id)
	return deleted, translate(err)
}

func toApplicationSession(detail persistence.PlanningSessionDetail) application.PlanningSession {
	return application.PlanningSession{
		ID:          detail.ID,
		OwnerID:     detail.OwnerID,
		SchoolID:    detail.SchoolID,
		ClassroomID: detail.ClassroomID,
		TrainerID:   detail.TrainerID,
		Title:       detail.Title,
		Description: cloneString(detail.Description),
		Date:        detail.Date,
		StartTime:   detail.StartTime,
		EndTime:     detail.EndTime,
		Location:    cloneString(detail.Location),
		Color:       detail.Color,
		Status:      detail.Status,
		CreatedAt:   detail.CreatedAt,
		UpdatedAt:   detail.UpdatedAt,

		ClassroomName:    detail.ClassroomName,
		ClassroomColor:   detail.ClassroomColor,
		TrainerFirstName: detail.TrainerFirstName,
		TrainerLastName:  detail.TrainerLastName,
		SchoolName:       detail.SchoolName,
	}
}
