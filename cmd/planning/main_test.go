package main

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/humia/planning/internal/application"
	"github.com/humia/planning/internal/calendar"
	"github.com/humia/planning/internal/client"
	"github.com/humia/planning/internal/config"
	"github.com/humia/planning/internal/testfixtures"
)

// verifyRawHash accepts the fixture's stored hash as the password.
func verifyRawHash(hash, password string) error {
	if hash != password {
		return application.ErrInvalidCredentials
	}
	return nil
}

type testServer struct {
	url     string
	harness *testfixtures.SQLiteHarness
	clock   *testfixtures.Clock
	app     *app
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	harness := testfixtures.NewSQLiteHarness(t)
	clock := testfixtures.NewClock(testfixtures.ReferenceTime())
	a := newApp(appDeps{
		Storage: harness.Storage,
		Config: config.Config{
			SessionSecret:      "test-secret",
			SessionTTL:         time.Hour,
			RequestBodyMaxSize: 1 << 16,
		},
		Logger:         slog.New(slog.NewTextHandler(io.Discard, nil)),
		Now:            clock.NowFunc(),
		NewID:          testfixtures.NewIDGenerator("e2e").NextFunc(),
		VerifyPassword: verifyRawHash,
	})

	srv := httptest.NewServer(a.handler)
	t.Cleanup(srv.Close)
	return &testServer{url: srv.URL, harness: harness, clock: clock, app: a}
}

func (s *testServer) login(t *testing.T, owner testfixtures.UserFixture) *client.Client {
	t.Helper()
	c, err := client.New(s.url)
	require.NoError(t, err)
	_, err = c.Login(context.Background(), owner.Email, owner.PasswordHash)
	require.NoError(t, err)
	return c
}

func sessionForm(tenant testfixtures.Tenant, date, start, end string) calendar.Form {
	return calendar.Form{
		ClassroomID: tenant.Classroom.ID,
		TrainerID:   tenant.Trainer.ID,
		Title:       "Algorithmique",
		Date:        date,
		StartTime:   start,
		EndTime:     end,
		Location:    "Salle 12",
	}
}

func TestPlanningLifecycle(t *testing.T) {
	srv := newTestServer(t)
	tenant := srv.harness.SeedTenant(t)
	ctx := context.Background()

	c := srv.login(t, tenant.Owner)

	created, err := c.CreateSession(ctx, sessionForm(tenant, "2026-02-10", "09:00", "11:00"))
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, application.DefaultSessionColor, created.Color)
	assert.Equal(t, "Marie", created.Trainer.FirstName)

	_, err = c.CreateSession(ctx, sessionForm(tenant, "2026-03-02", "14:00", "15:00"))
	require.NoError(t, err)

	february := calendar.Resolve(calendar.ViewState{Mode: calendar.ModeMonth, Reference: time.Date(2026, time.February, 1, 0, 0, 0, 0, time.UTC)})
	sessions, err := c.ListSessions(ctx, february)
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, created.ID, sessions[0].ID)
	assert.Equal(t, tenant.School.Name, sessions[0].School.Name)

	classrooms, err := c.ListClassrooms(ctx)
	require.NoError(t, err)
	require.Len(t, classrooms, 1)
	trainers, err := c.ListTrainers(ctx)
	require.NoError(t, err)
	require.Len(t, trainers, 1)

	require.NoError(t, c.DeleteSession(ctx, created.ID))
	require.NoError(t, c.DeleteSession(ctx, created.ID), "deleting twice still acknowledges")

	sessions, err = c.ListSessions(ctx, february)
	require.NoError(t, err)
	assert.Empty(t, sessions)
}

func TestPlanningRejectsInvalidSessions(t *testing.T) {
	srv := newTestServer(t)
	tenant := srv.harness.SeedTenant(t)
	ctx := context.Background()
	c := srv.login(t, tenant.Owner)

	cases := []struct {
		name    string
		form    calendar.Form
		status  int
		message string
	}{
		{name: "before opening", form: sessionForm(tenant, "2026-02-10", "06:00", "08:00"), status: http.StatusBadRequest, message: calendar.ErrFormWindow.Error()},
		{name: "end before start", form: sessionForm(tenant, "2026-02-10", "10:00", "09:00"), status: http.StatusBadRequest, message: calendar.ErrFormOrder.Error()},
		{name: "missing title", form: func() calendar.Form {
			f := sessionForm(tenant, "2026-02-10", "09:00", "10:00")
			f.Title = " "
			return f
		}(), status: http.StatusBadRequest, message: calendar.ErrFormIncomplete.Error()},
		{name: "unknown classroom", form: func() calendar.Form {
			f := sessionForm(tenant, "2026-02-10", "09:00", "10:00")
			f.ClassroomID = "nope"
			return f
		}(), status: http.StatusNotFound, message: "Classe introuvable"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := c.CreateSession(ctx, tc.form)
			var apiErr *client.APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tc.status, apiErr.Status)
			assert.Equal(t, tc.message, apiErr.Message)
		})
	}

	all, err := c.ListSessions(ctx, calendar.Range{})
	require.NoError(t, err)
	assert.Empty(t, all, "rejected sessions are never stored")
}

func TestOrganisationsAreIsolated(t *testing.T) {
	srv := newTestServer(t)
	south := srv.harness.SeedTenant(t)
	north := srv.harness.SeedTenant(t)
	ctx := context.Background()

	southClient := srv.login(t, south.Owner)
	northClient := srv.login(t, north.Owner)

	created, err := southClient.CreateSession(ctx, sessionForm(south, "2026-02-10", "09:00", "10:00"))
	require.NoError(t, err)

	_, err = northClient.CreateSession(ctx, sessionForm(south, "2026-02-10", "09:00", "10:00"))
	var apiErr *client.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.Status)

	northSessions, err := northClient.ListSessions(ctx, calendar.Range{})
	require.NoError(t, err)
	assert.Empty(t, northSessions)

	require.NoError(t, northClient.DeleteSession(ctx, created.ID))
	southSessions, err := southClient.ListSessions(ctx, calendar.Range{})
	require.NoError(t, err)
	assert.Len(t, southSessions, 1, "another organisation cannot delete the session")
}

func TestSessionsExpireAndLogout(t *testing.T) {
	srv := newTestServer(t)
	tenant := srv.harness.SeedTenant(t)
	ctx := context.Background()

	anonymous, err := client.New(srv.url)
	require.NoError(t, err)
	_, err = anonymous.ListSessions(ctx, calendar.Range{})
	assert.ErrorIs(t, err, client.ErrUnauthorized)

	_, err = anonymous.Login(ctx, tenant.Owner.Email, "wrong")
	var apiErr *client.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "Email ou mot de passe incorrect", apiErr.Message)

	c := srv.login(t, tenant.Owner)
	token := c.Token()
	require.NoError(t, c.Logout(ctx))

	revoked, err := client.New(srv.url, client.WithToken(token))
	require.NoError(t, err)
	_, err = revoked.ListSessions(ctx, calendar.Range{})
	assert.ErrorIs(t, err, client.ErrUnauthorized)

	c = srv.login(t, tenant.Owner)
	srv.clock.Advance(2 * time.Hour)
	_, err = c.ListSessions(ctx, calendar.Range{})
	assert.ErrorIs(t, err, client.ErrUnauthorized)

	removed, err := srv.app.auth.PurgeExpiredSessions(ctx)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, removed, int64(1))
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.url + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
