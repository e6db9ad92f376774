package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/humia/planning/internal/calendar"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c, err := New(srv.URL + "/")
	require.NoError(t, err)
	return c
}

func TestNewRejectsNonHTTPURLs(t *testing.T) {
	t.Parallel()

	for _, raw := range []string{"", "ftp://example.com", "localhost:8080"} {
		_, err := New(raw)
		assert.Error(t, err, raw)
	}
}

func TestLoginKeepsTokenForLaterCalls(t *testing.T) {
	t.Parallel()

	var seenAuth string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/login":
			var body map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "a@ecole.fr", body["email"])
			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte(`{"token":"tok-1","expiresAt":"2026-02-10T08:00:00Z"}`))
		case "/classes/list":
			seenAuth = r.Header.Get("Authorization")
			_, _ = w.Write([]byte(`[{"id":"c1","name":"Salle A","color":"#ff0000","schoolId":"s1","school":{"name":"École Sud"}}]`))
		default:
			http.NotFound(w, r)
		}
	})

	login, err := c.Login(context.Background(), "a@ecole.fr", "secret")
	require.NoError(t, err)
	assert.Equal(t, "tok-1", login.Token)
	assert.Equal(t, time.Date(2026, time.February, 10, 8, 0, 0, 0, time.UTC), login.ExpiresAt)
	assert.Equal(t, "tok-1", c.Token())

	classrooms, err := c.ListClassrooms(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok-1", seenAuth)
	require.Len(t, classrooms, 1)
	assert.Equal(t, "École Sud", classrooms[0].School.Name)
}

func TestListSessionsSendsRangeQuery(t *testing.T) {
	t.Parallel()

	var query string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.RawQuery
		_, _ = w.Write([]byte(`[{"id":"p1","title":"Go","date":"2026-02-10","startTime":"09:00","endTime":"10:00",
			"color":"#3B82F6","location":null,"description":"Intro",
			"classroom":{"name":"Salle A","color":"#ff0000"},"trainer":{"firstName":"Ada","lastName":"Lovelace"},"school":{"name":"École Sud"}}]`))
	})

	r := calendar.Resolve(calendar.ViewState{Mode: calendar.ModeMonth, Reference: time.Date(2026, time.February, 4, 0, 0, 0, 0, time.UTC)})
	sessions, err := c.ListSessions(context.Background(), r)
	require.NoError(t, err)
	assert.Equal(t, "month=2026-02", query)
	require.Len(t, sessions, 1)

	view := sessions[0].View()
	assert.Equal(t, "Ada Lovelace", view.TrainerName)
	assert.Equal(t, "Salle A", view.ClassroomName)
	assert.Equal(t, "Intro", view.Description)
	assert.Empty(t, view.Location)
}

func TestAPIErrorCarriesServerMessage(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":"Les horaires doivent être entre 07:00 et 22:00","fields":{"startTime":"range"}}`))
		default:
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":"Unauthorized"}`))
		}
	})

	_, err := c.CreateSession(context.Background(), calendar.Form{Title: "x"})
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Equal(t, "Les horaires doivent être entre 07:00 et 22:00", err.Error())
	assert.Equal(t, "range", apiErr.Fields["startTime"])
	assert.False(t, errors.Is(err, ErrUnauthorized))

	_, err = c.ListTrainers(context.Background())
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestCreateSessionOmitsBlankOptionals(t *testing.T) {
	t.Parallel()

	var body map[string]any
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":"p9"}`))
	})

	form := calendar.NewForm(time.Date(2026, time.February, 9, 0, 0, 0, 0, time.UTC))
	form.ClassroomID, form.TrainerID, form.Title = "c1", "t1", "Go"
	form.Location = "  "

	created, err := c.CreateSession(context.Background(), form)
	require.NoError(t, err)
	assert.Equal(t, "p9", created.ID)
	assert.Equal(t, "2026-02-09", body["date"])
	assert.NotContains(t, body, "location")
	assert.NotContains(t, body, "description")
}

func TestDeleteSessionRequiresAcknowledgement(t *testing.T) {
	t.Parallel()

	ok := true
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		_ = json.NewEncoder(w).Encode(map[string]bool{"ok": ok})
	})

	require.NoError(t, c.DeleteSession(context.Background(), "p1"))

	ok = false
	assert.Error(t, c.DeleteSession(context.Background(), "p1"))
}

func TestLogoutForgetsToken(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusNoContent)
	})
	WithToken("tok")(c)

	require.NoError(t, c.Logout(context.Background()))
	assert.Empty(t, c.Token())
}
