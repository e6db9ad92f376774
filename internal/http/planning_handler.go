package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/humia/planning/internal/application"
	"github.com/humia/planning/internal/calendar"
)

type planningService interface {
	ListSessions(ctx context.Context, principal application.Principal, r application.PlanningRange) ([]application.PlanningSession, error)
	CreateSession(ctx context.Context, principal application.Principal, input application.CreateSessionInput) (application.PlanningSession, error)
	DeleteSession(ctx context.Context, principal application.Principal, id string) error
	ExportCalendar(ctx context.Context, principal application.Principal, r application.PlanningRange) (string, error)
}

type PlanningHandler struct {
	service   planningService
	responder responder
	logger    *slog.Logger
}

func NewPlanningHandler(service planningService, logger *slog.Logger) *PlanningHandler {
	base := defaultLogger(logger)
	return &PlanningHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *PlanningHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return handlerLogger(ctx, h.logger, "PlanningHandler", operation, attrs...)
}

// List handles GET /planning.
func (h *PlanningHandler) List(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	rng, err := parsePlanningRange(r.URL.Query())
	if err != nil {
		h.log(r.Context(), "List", "query", r.URL.RawQuery).WarnContext(r.Context(), "rejected planning range", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidRange)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	sessions, err := h.service.ListSessions(r.Context(), principal, rng)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	payload := make([]sessionDTO, 0, len(sessions))
	for _, session := range sessions {
		payload = append(payload, toSessionDTO(session))
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, payload)
}

// Create handles POST /planning.
func (h *PlanningHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var input application.CreateSessionInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		h.log(r.Context(), "Create", "error_kind", "bad_request").WarnContext(r.Context(), "failed to decode session request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	session, err := h.service.CreateSession(r.Context(), principal, input)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusCreated, toSessionDTO(session))
}

// Delete handles DELETE /planning with body {"id": "..."}.
func (h *PlanningHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req deleteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	if err := h.service.DeleteSession(r.Context(), principal, req.ID); err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, okResponse{OK: true})
}

// Export handles GET /planning/export.ics. It accepts the same period
// parameters as List.
func (h *PlanningHandler) Export(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	rng, err := parsePlanningRange(r.URL.Query())
	if err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidRange)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	document, err := h.service.ExportCalendar(r.Context(), principal, rng)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="planning.ics"`)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(document)); err != nil {
		h.log(r.Context(), "Export").ErrorContext(r.Context(), "failed to write calendar", "error", err)
	}
}

// parsePlanningRange reads start/end, month or date from query. start and
// end are only used together and take precedence over month; month takes
// precedence over date. No parameter lists everything.
func parsePlanningRange(query url.Values) (application.PlanningRange, error) {
	start := strings.TrimSpace(query.Get("start"))
	end := strings.TrimSpace(query.Get("end"))
	month := strings.TrimSpace(query.Get("month"))
	date := strings.TrimSpace(query.Get("date"))

	if start != "" && end != "" {
		from, err := calendar.ParseDate(start, time.UTC)
		if err != nil {
			return application.PlanningRange{}, err
		}
		to, err := calendar.ParseDate(end, time.UTC)
		if err != nil {
			return application.PlanningRange{}, err
		}
		return application.PlanningRange{Start: calendar.FormatDate(from), End: calendar.FormatDate(to)}, nil
	}
	if start != "" || end != "" {
		// a lone bound is not a period; it must still be well formed
		for _, value := range []string{start, end} {
			if value == "" {
				continue
			}
			if _, err := calendar.ParseDate(value, time.UTC); err != nil {
				return application.PlanningRange{}, err
			}
		}
	}
	if month != "" {
		first, err := calendar.ParseMonth(month, time.UTC)
		if err != nil {
			return application.PlanningRange{}, err
		}
		return application.PlanningRange{
			Start:        calendar.FormatDate(first),
			End:          calendar.FormatDate(first.AddDate(0, 1, 0)),
			EndExclusive: true,
		}, nil
	}
	if date != "" {
		day, err := calendar.ParseDate(date, time.UTC)
		if err != nil {
			return application.PlanningRange{}, err
		}
		formatted := calendar.FormatDate(day)
		return application.PlanningRange{Start: formatted, End: formatted}, nil
	}
	return application.PlanningRange{}, nil
}

type deleteRequest struct {
	ID string `json:"id"`
}

type sessionDTO struct {
	ID          string             `json:"id"`
	OwnerID     string             `json:"ownerId"`
	SchoolID    string             `json:"schoolId"`
	ClassroomID string             `json:"classroomId"`
	TrainerID   string             `json:"trainerId"`
	Title       string             `json:"title"`
	Description *string            `json:"description"`
	Date        string             `json:"date"`
	StartTime   string             `json:"startTime"`
	EndTime     string             `json:"endTime"`
	Location    *string            `json:"location"`
	Color       string             `json:"color"`
	Status      string             `json:"status"`
	CreatedAt   string             `json:"createdAt"`
	UpdatedAt   string             `json:"updatedAt"`
	Classroom   sessionClassroom   `json:"classroom"`
	Trainer     sessionTrainer     `json:"trainer"`
	School      schoolNameResponse `json:"school"`
}

type sessionClassroom struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

type sessionTrainer struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

type schoolNameResponse struct {
	Name string `json:"name"`
}

func toSessionDTO(session application.PlanningSession) sessionDTO {
	return sessionDTO{
		ID:          session.ID,
		OwnerID:     session.OwnerID,
		SchoolID:    session.SchoolID,
		ClassroomID: session.ClassroomID,
		TrainerID:   session.TrainerID,
		Title:       session.Title,
		Description: session.Description,
		Date:        session.Date,
		StartTime:   session.StartTime,
		EndTime:     session.EndTime,
		Location:    session.Location,
		Color:       session.Color,
		Status:      session.Status,
		CreatedAt:   formatTimestamp(session.CreatedAt),
		UpdatedAt:   formatTimestamp(session.UpdatedAt),
		Classroom:   sessionClassroom{Name: session.ClassroomName, Color: session.ClassroomColor},
		Trainer:     sessionTrainer{FirstName: session.TrainerFirstName, LastName: session.TrainerLastName},
		School:      schoolNameResponse{Name: session.SchoolName},
	}
}

func formatTimestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
