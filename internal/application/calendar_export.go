package application

import (
	"context"
	"fmt"
	"strings"

	ical "github.com/arran4/golang-ical"
)

// icsLocalLayout is the iCalendar form of a floating local date-time.
const icsLocalLayout = "20060102T150405"

// ExportCalendar renders the sessions of r as an iCalendar document. Times
// are written as floating local values without a TZID, like the planning
// itself.
func (s *PlanningService) ExportCalendar(ctx context.Context, principal Principal, r PlanningRange) (document string, err error) {
	if !s.configured() {
		return "", fmt.Errorf("planning service not configured")
	}

	logger := s.loggerWith(ctx, "ExportCalendar", "owner_id", principal.OwnerID)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to export calendar", "error", err, "error_kind", ErrorKind(err))
		}
	}()

	var sessions []PlanningSession
	sessions, err = s.sessions.ListPlanningSessions(ctx, principal.OwnerID, r)
	if err != nil {
		return "", err
	}

	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId("-//humia//planning//FR")
	cal.SetXWRCalName("Planning")

	stamp := s.now().UTC()
	for _, session := range sessions {
		start, startErr := localStamp(session.Date, session.StartTime)
		if startErr != nil {
			return "", fmt.Errorf("session %s: %w", session.ID, startErr)
		}
		end, endErr := localStamp(session.Date, session.EndTime)
		if endErr != nil {
			return "", fmt.Errorf("session %s: %w", session.ID, endErr)
		}

		event := cal.AddEvent(session.ID + "@planning")
		event.SetDtStampTime(stamp)
		event.SetProperty(ical.ComponentPropertyDtStart, start)
		event.SetProperty(ical.ComponentPropertyDtEnd, end)
		event.SetSummary(session.Title)
		if session.Location != nil {
			event.SetLocation(*session.Location)
		}
		if session.Description != nil {
			event.SetDescription(*session.Description)
		}
		if session.ClassroomName != "" {
			event.SetProperty(ical.ComponentPropertyCategories, session.ClassroomName)
		}
		if session.Color != "" {
			event.SetColor(session.Color)
		}
	}

	logger.DebugContext(ctx, "calendar exported", "events", len(sessions))
	return cal.Serialize(), nil
}

func localStamp(date, clock string) (string, error) {
	if len(date) != len("2006-01-02") || len(clock) != len("15:04") {
		return "", fmt.Errorf("invalid date or time %q %q", date, clock)
	}
	return strings.ReplaceAll(date, "-", "") + "T" + strings.ReplaceAll(clock, ":", "") + "00", nil
}
