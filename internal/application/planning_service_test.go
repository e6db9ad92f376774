package application

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type planningHarness struct {
	svc      *PlanningService
	sessions *planningRepositoryStub
	registry *registryStub
}

func newPlanningHarness() planningHarness {
	registry := &registryStub{
		schools: []School{
			{ID: "s1", OwnerID: "admin-a", Name: "Campus Nord"},
			{ID: "s2", OwnerID: "admin-b", Name: "Campus Sud"},
		},
		classrooms: []Classroom{
			{ID: "c1", OwnerID: "admin-a", SchoolID: "s1", Name: "BTS 1", Color: "#059669"},
			{ID: "c2", OwnerID: "admin-b", SchoolID: "s2", Name: "BTS 2"},
		},
		trainers: []Trainer{
			{ID: "t1", OwnerID: "admin-a", FirstName: "Marie", LastName: "Curie", Status: TrainerActive},
			{ID: "t2", OwnerID: "admin-b", FirstName: "Paul", LastName: "Langevin", Status: TrainerActive},
		},
	}
	sessions := &planningRepositoryStub{}
	svc := NewPlanningService(sessions, registry, registry, sequence("p1", "p2", "p3", "p4"), fixedNow(registryNow))
	return planningHarness{svc: svc, sessions: sessions, registry: registry}
}

func validSessionInput() CreateSessionInput {
	return CreateSessionInput{
		ClassroomID: "c1",
		TrainerID:   "t1",
		Title:       "Algorithmique",
		Date:        "2026-02-09",
		StartTime:   "09:00",
		EndTime:     "10:30",
	}
}

func TestPlanningService_CreateSession(t *testing.T) {
	t.Parallel()

	h := newPlanningHarness()
	blank := "  "
	input := validSessionInput()
	input.Title = "  Algorithmique "
	input.Description = &blank

	session, err := h.svc.CreateSession(context.Background(), trainerA, input)
	require.NoError(t, err)

	assert.Equal(t, "p1", session.ID)
	assert.Equal(t, "admin-a", session.OwnerID)
	assert.Equal(t, "s1", session.SchoolID, "school is copied from the classroom")
	assert.Equal(t, "Algorithmique", session.Title)
	assert.Nil(t, session.Description)
	assert.Equal(t, DefaultSessionColor, session.Color)
	assert.Equal(t, DefaultSessionStatus, session.Status)
	assert.Equal(t, "BTS 1", session.ClassroomName)
	assert.Equal(t, "Campus Nord", session.SchoolName)
	assert.Equal(t, "Marie", session.TrainerFirstName)
	require.Len(t, h.sessions.sessions, 1)
}

func TestPlanningService_CreateSessionValidationOrder(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		mutate  func(*CreateSessionInput)
		message string
		field   string
		ref     string
	}{
		{name: "missing title", mutate: func(in *CreateSessionInput) { in.Title = " " },
			message: "La classe, le formateur, le titre, la date et les horaires sont requis"},
		{name: "missing everything but a bad window", mutate: func(in *CreateSessionInput) { in.ClassroomID = ""; in.StartTime = "05:00" },
			message: "La classe, le formateur, le titre, la date et les horaires sont requis"},
		{name: "malformed date", mutate: func(in *CreateSessionInput) { in.Date = "2026-02-30" },
			message: msgSessionFormat, field: "date"},
		{name: "malformed time before window check", mutate: func(in *CreateSessionInput) { in.StartTime = "6h" },
			message: msgSessionFormat, field: "startTime"},
		{name: "before opening", mutate: func(in *CreateSessionInput) { in.StartTime = "06:45" },
			message: "Les horaires doivent être entre 07:00 et 22:00"},
		{name: "after closing", mutate: func(in *CreateSessionInput) { in.StartTime = "21:00"; in.EndTime = "22:15" },
			message: "Les horaires doivent être entre 07:00 et 22:00"},
		{name: "end equals start", mutate: func(in *CreateSessionInput) { in.EndTime = "09:00" },
			message: "L'heure de fin doit être après l'heure de début"},
		{name: "end before start outside window", mutate: func(in *CreateSessionInput) { in.StartTime = "23:00"; in.EndTime = "08:00" },
			message: "Les horaires doivent être entre 07:00 et 22:00"},
		{name: "classroom of another organisation", mutate: func(in *CreateSessionInput) { in.ClassroomID = "c2" },
			message: "Classe introuvable", ref: "classroom"},
		{name: "unknown classroom checked before trainer", mutate: func(in *CreateSessionInput) { in.ClassroomID = "nope"; in.TrainerID = "nope" },
			message: "Classe introuvable", ref: "classroom"},
		{name: "trainer of another organisation", mutate: func(in *CreateSessionInput) { in.TrainerID = "t2" },
			message: "Formateur introuvable", ref: "trainer"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			h := newPlanningHarness()
			input := validSessionInput()
			tc.mutate(&input)

			_, err := h.svc.CreateSession(context.Background(), adminA, input)
			require.Error(t, err)
			assert.Equal(t, tc.message, err.Error())
			assert.Empty(t, h.sessions.sessions, "nothing is persisted on failure")

			if tc.ref != "" {
				var ref *ReferenceError
				require.ErrorAs(t, err, &ref)
				assert.Equal(t, tc.ref, ref.Resource)
				assert.ErrorIs(t, err, ErrNotFound)
				return
			}
			var vErr *ValidationError
			require.ErrorAs(t, err, &vErr)
			if tc.field != "" {
				assert.Contains(t, vErr.FieldErrors, tc.field)
			}
		})
	}
}

func TestPlanningService_CreateSessionStorageFailures(t *testing.T) {
	t.Parallel()

	h := newPlanningHarness()
	h.sessions.createErr = ErrNotFound
	_, err := h.svc.CreateSession(context.Background(), adminA, validSessionInput())
	assert.Equal(t, "Classe introuvable", err.Error(), "a classroom removed concurrently is reported as missing")

	boom := errors.New("disk full")
	h.sessions.createErr = boom
	_, err = h.svc.CreateSession(context.Background(), adminA, validSessionInput())
	assert.ErrorIs(t, err, boom)
}

func TestPlanningService_ListSessions(t *testing.T) {
	t.Parallel()

	h := newPlanningHarness()
	h.sessions.sessions = []PlanningSession{
		{ID: "late", OwnerID: "admin-a", Date: "2026-02-09", StartTime: "14:00"},
		{ID: "early", OwnerID: "admin-a", Date: "2026-02-09", StartTime: "08:00"},
		{ID: "march", OwnerID: "admin-a", Date: "2026-03-01", StartTime: "08:00"},
		{ID: "foreign", OwnerID: "admin-b", Date: "2026-02-10", StartTime: "08:00"},
	}

	month, err := h.svc.ListSessions(context.Background(), trainerA, PlanningRange{Start: "2026-02-01", End: "2026-03-01", EndExclusive: true})
	require.NoError(t, err)
	require.Len(t, month, 2)
	assert.Equal(t, "early", month[0].ID)
	assert.Equal(t, "late", month[1].ID)

	all, err := h.svc.ListSessions(context.Background(), adminA, PlanningRange{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	empty, err := h.svc.ListSessions(context.Background(), adminA, PlanningRange{Start: "2027-01-01", End: "2027-01-01"})
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestPlanningService_DeleteSession(t *testing.T) {
	t.Parallel()

	h := newPlanningHarness()
	h.sessions.sessions = []PlanningSession{
		{ID: "mine", OwnerID: "admin-a"},
		{ID: "theirs", OwnerID: "admin-b"},
	}
	ctx := context.Background()

	require.NoError(t, h.svc.DeleteSession(ctx, adminA, "mine"))
	require.NoError(t, h.svc.DeleteSession(ctx, adminA, "mine"), "deleting twice is not an error")
	require.NoError(t, h.svc.DeleteSession(ctx, adminA, "theirs"))
	require.Len(t, h.sessions.sessions, 1)
	assert.Equal(t, "theirs", h.sessions.sessions[0].ID)

	var vErr *ValidationError
	require.ErrorAs(t, h.svc.DeleteSession(ctx, adminA, " "), &vErr)

	boom := errors.New("locked")
	h.sessions.deleteErr = boom
	assert.ErrorIs(t, h.svc.DeleteSession(ctx, adminB, "theirs"), boom)
}

func TestPlanningService_ExportCalendar(t *testing.T) {
	t.Parallel()

	h := newPlanningHarness()
	location := "Salle 3"
	description := "Tris, recherche"
	h.sessions.sessions = []PlanningSession{{
		ID: "p1", OwnerID: "admin-a", Title: "Algorithmique", Date: "2026-02-09", StartTime: "09:00", EndTime: "10:30",
		Location: &location, Description: &description, ClassroomName: "BTS 1", Color: "#2563eb",
	}}

	doc, err := h.svc.ExportCalendar(context.Background(), adminA, PlanningRange{})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(doc, "BEGIN:VCALENDAR"))
	for _, want := range []string{
		"UID:p1@planning",
		"DTSTART:20260209T090000",
		"DTEND:20260209T103000",
		"SUMMARY:Algorithmique",
		"LOCATION:Salle 3",
		"DESCRIPTION:Tris\\, recherche",
		"CATEGORIES:BTS 1",
		"METHOD:PUBLISH",
	} {
		assert.Contains(t, doc, want)
	}
	assert.NotContains(t, doc, "TZID")

	other, err := h.svc.ExportCalendar(context.Background(), adminB, PlanningRange{})
	require.NoError(t, err)
	assert.NotContains(t, other, "BEGIN:VEVENT")

	h.sessions.sessions[0].OwnerID = "admin-b"
	h.sessions.sessions[0].StartTime = "9h"
	_, err = h.svc.ExportCalendar(context.Background(), adminB, PlanningRange{})
	assert.Error(t, err)
}
