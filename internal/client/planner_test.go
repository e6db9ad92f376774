package client

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/humia/planning/internal/calendar"
)

var plannerNow = func() time.Time { return time.Date(2026, time.February, 11, 10, 0, 0, 0, time.UTC) }

type fakeSource struct {
	mu        sync.Mutex
	ranges    []calendar.Range
	byStart   map[string][]Session
	gates     map[string]chan struct{}
	listErr   error
	createErr error
	deleteErr error
	created   []calendar.Form
}

func newFakeSource() *fakeSource {
	return &fakeSource{byStart: map[string][]Session{}, gates: map[string]chan struct{}{}}
}

func (f *fakeSource) ListSessions(ctx context.Context, r calendar.Range) ([]Session, error) {
	key := calendar.FormatDate(r.Start)
	f.mu.Lock()
	f.ranges = append(f.ranges, r)
	gate := f.gates[key]
	f.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.byStart[key], nil
}

func (f *fakeSource) CreateSession(_ context.Context, form calendar.Form) (Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return Session{}, f.createErr
	}
	f.created = append(f.created, form)
	return Session{ID: "new"}, nil
}

func (f *fakeSource) DeleteSession(context.Context, string) error {
	return f.deleteErr
}

func (f *fakeSource) requests() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.ranges)
}

func TestPlannerFetchesOnNavigationOnly(t *testing.T) {
	t.Parallel()

	source := newFakeSource()
	source.byStart["2026-02-16"] = []Session{{ID: "next-week", Date: "2026-02-17", StartTime: "09:00", EndTime: "10:00"}}
	p := NewPlanner(source, plannerNow)
	ctx := context.Background()

	require.NoError(t, p.Refresh(ctx))
	assert.Equal(t, 1, source.requests())
	assert.Equal(t, "2026-02-09", calendar.FormatDate(source.ranges[0].Start))

	require.NoError(t, p.Dispatch(ctx, calendar.Following()))
	assert.Equal(t, 2, source.requests())
	require.Len(t, p.Sessions(), 1)
	assert.Equal(t, "next-week", p.Sessions()[0].ID)

	require.NoError(t, p.Dispatch(ctx, calendar.Select(time.Date(2026, time.February, 17, 0, 0, 0, 0, time.UTC))))
	assert.Equal(t, 2, source.requests(), "selecting a day does not fetch")

	require.NoError(t, p.Dispatch(ctx, calendar.SetMode(calendar.ModeMonth)))
	assert.Equal(t, 3, source.requests())
	assert.Equal(t, "2026-02-01", calendar.FormatDate(source.ranges[2].Start))
}

func TestPlannerDropsStaleResponses(t *testing.T) {
	t.Parallel()

	source := newFakeSource()
	source.byStart["2026-02-09"] = []Session{{ID: "this-week"}}
	source.byStart["2026-02-16"] = []Session{{ID: "next-week"}}
	slow := make(chan struct{})
	source.gates["2026-02-09"] = slow

	p := NewPlanner(source, plannerNow)
	ctx := context.Background()

	done := make(chan error, 1)
	go func() { done <- p.Refresh(ctx) }()
	require.Eventually(t, func() bool { return source.requests() == 1 }, time.Second, 5*time.Millisecond)

	require.NoError(t, p.Dispatch(ctx, calendar.Following()))
	require.Len(t, p.Sessions(), 1)
	assert.Equal(t, "next-week", p.Sessions()[0].ID)

	close(slow)
	require.NoError(t, <-done)
	require.Len(t, p.Sessions(), 1)
	assert.Equal(t, "next-week", p.Sessions()[0].ID, "a late answer for the old week is ignored")
	assert.False(t, p.Loading())
}

func TestPlannerKeepsSessionsWhenFetchFails(t *testing.T) {
	t.Parallel()

	source := newFakeSource()
	source.byStart["2026-02-09"] = []Session{{ID: "kept"}}
	p := NewPlanner(source, plannerNow)
	require.NoError(t, p.Refresh(context.Background()))

	source.listErr = errors.New("boom")
	assert.Error(t, p.Refresh(context.Background()))
	assert.EqualError(t, p.Err(), "boom")
	require.Len(t, p.Sessions(), 1)
}

func TestPlannerCreate(t *testing.T) {
	t.Parallel()

	source := newFakeSource()
	p := NewPlanner(source, plannerNow)
	ctx := context.Background()

	form := calendar.NewForm(plannerNow())
	form.ClassroomID, form.TrainerID, form.Title = "c1", "t1", "Go"

	invalid := form
	invalid.StartTime, invalid.EndTime = "06:00", "08:00"
	kept, err := p.Create(ctx, invalid)
	assert.ErrorIs(t, err, calendar.ErrFormWindow)
	assert.Equal(t, calendar.ErrFormWindow.Error(), kept.Error)
	assert.Equal(t, "Go", kept.Title)
	assert.Zero(t, source.requests(), "invalid forms never reach the server")

	source.createErr = &APIError{Status: 404, Message: "Classe introuvable"}
	kept, err = p.Create(ctx, form)
	require.Error(t, err)
	assert.Equal(t, "Classe introuvable", kept.Error)
	assert.Equal(t, "c1", kept.ClassroomID)

	source.createErr = nil
	closed, err := p.Create(ctx, form)
	require.NoError(t, err)
	assert.Equal(t, calendar.Form{}, closed)
	assert.Len(t, source.created, 1)
	assert.Equal(t, 1, source.requests(), "creating re-fetches the view")
}

func TestPlannerDelete(t *testing.T) {
	t.Parallel()

	source := newFakeSource()
	source.byStart["2026-02-09"] = []Session{{ID: "a"}, {ID: "b"}}
	p := NewPlanner(source, plannerNow)
	ctx := context.Background()
	require.NoError(t, p.Refresh(ctx))

	source.deleteErr = errors.New("Une erreur est survenue")
	assert.Error(t, p.Delete(ctx, "a"))
	assert.Len(t, p.Sessions(), 2, "failed deletes leave the list untouched")

	source.deleteErr = nil
	require.NoError(t, p.Delete(ctx, "a"))
	require.Len(t, p.Sessions(), 1)
	assert.Equal(t, "b", p.Sessions()[0].ID)
}

func TestPlannerLayouts(t *testing.T) {
	t.Parallel()

	source := newFakeSource()
	source.byStart["2026-02-09"] = []Session{{ID: "wed", Title: "Go", Date: "2026-02-11", StartTime: "09:00", EndTime: "10:00"}}
	source.byStart["2026-02-01"] = source.byStart["2026-02-09"]
	p := NewPlanner(source, plannerNow)
	ctx := context.Background()
	require.NoError(t, p.Refresh(ctx))

	week := p.Week()
	require.Len(t, week, calendar.WeekDays)
	assert.True(t, week[2].Today)
	require.Len(t, week[2].Blocks, 1)
	assert.Equal(t, "wed", week[2].Blocks[0].Session.ID)

	require.NoError(t, p.Dispatch(ctx, calendar.SetMode(calendar.ModeMonth)))
	require.NoError(t, p.Dispatch(ctx, calendar.Select(time.Date(2026, time.February, 11, 0, 0, 0, 0, time.UTC))))
	grid, panel := p.Month()
	assert.Equal(t, 1, grid.Cells[10].Count)
	require.Len(t, panel, 1)
	assert.Equal(t, "Go", panel[0].Title)
}

func TestPlannerOpen(t *testing.T) {
	t.Parallel()

	source := newFakeSource()
	p := NewPlanner(source, plannerNow)
	state := calendar.ViewState{Mode: calendar.ModeDay, Reference: time.Date(2026, time.March, 3, 0, 0, 0, 0, time.UTC)}

	require.NoError(t, p.Open(context.Background(), state))
	assert.Equal(t, state, p.State())
	require.Equal(t, 1, source.requests())
	assert.Equal(t, "2026-03-03", calendar.FormatDate(source.ranges[0].End))
}
