package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/humia/planning/internal/application"
)

type classroomLister interface {
	ListClassrooms(ctx context.Context, principal application.Principal) ([]application.Classroom, error)
}

type trainerLister interface {
	ListTrainers(ctx context.Context, principal application.Principal) ([]application.Trainer, error)
}

// RegistryHandler serves the reference lists used by the session form.
type RegistryHandler struct {
	classrooms classroomLister
	trainers   trainerLister
	responder  responder
}

func NewRegistryHandler(classrooms classroomLister, trainers trainerLister, logger *slog.Logger) *RegistryHandler {
	return &RegistryHandler{classrooms: classrooms, trainers: trainers, responder: newResponder(defaultLogger(logger))}
}

// ListClassrooms handles GET /classes/list.
func (h *RegistryHandler) ListClassrooms(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.classrooms == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	classrooms, err := h.classrooms.ListClassrooms(r.Context(), principal)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	payload := make([]classroomDTO, 0, len(classrooms))
	for _, c := range classrooms {
		payload = append(payload, classroomDTO{
			ID:       c.ID,
			Name:     c.Name,
			Color:    c.Color,
			SchoolID: c.SchoolID,
			School:   schoolNameResponse{Name: c.SchoolName},
		})
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, payload)
}

// ListTrainers handles GET /trainers/list.
func (h *RegistryHandler) ListTrainers(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.trainers == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	trainers, err := h.trainers.ListTrainers(r.Context(), principal)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	payload := make([]trainerDTO, 0, len(trainers))
	for _, t := range trainers {
		payload = append(payload, trainerDTO{
			ID:        t.ID,
			FirstName: t.FirstName,
			LastName:  t.LastName,
			Specialty: t.Specialty,
			SchoolID:  t.SchoolID,
		})
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, payload)
}

type classroomDTO struct {
	ID       string             `json:"id"`
	Name     string             `json:"name"`
	Color    string             `json:"color"`
	SchoolID string             `json:"schoolId"`
	School   schoolNameResponse `json:"school"`
}

type trainerDTO struct {
	ID        string  `json:"id"`
	FirstName string  `json:"firstName"`
	LastName  string  `json:"lastName"`
	Specialty string  `json:"specialty"`
	SchoolID  *string `json:"schoolId"`
}
