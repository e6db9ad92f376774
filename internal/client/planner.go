package client

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/humia/planning/internal/calendar"
)

// SessionSource is the subset of Client the Planner needs.
type SessionSource interface {
	ListSessions(ctx context.Context, r calendar.Range) ([]Session, error)
	CreateSession(ctx context.Context, form calendar.Form) (Session, error)
	DeleteSession(ctx context.Context, id string) error
}

// Planner owns a calendar view state and the sessions of its range.
//
// Every fetch takes a sequence number; a response is applied only when it
// answers the latest fetch, so a slow answer for a range the user already
// left never overwrites the current one.
type Planner struct {
	source SessionSource
	now    func() time.Time

	mu       sync.Mutex
	state    calendar.ViewState
	sessions []Session
	issued   uint64
	loading  bool
	lastErr  error
}

// NewPlanner starts in week mode on today.
func NewPlanner(source SessionSource, now func() time.Time) *Planner {
	if now == nil {
		now = time.Now
	}
	return &Planner{source: source, now: now, state: calendar.NewViewState(now())}
}

// State returns the current view state.
func (p *Planner) State() calendar.ViewState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Sessions returns a copy of the loaded sessions.
func (p *Planner) Sessions() []Session {
	p.mu.Lock()
	defer p.mu.Unlock()
	return slices.Clone(p.sessions)
}

// Loading reports whether the latest fetch is still outstanding.
func (p *Planner) Loading() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.loading
}

// Err returns the failure of the latest applied fetch.
func (p *Planner) Err() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastErr
}

// Dispatch applies action and re-fetches when the mode or the reference
// date changed. Selecting a day only updates the state.
func (p *Planner) Dispatch(ctx context.Context, action calendar.Action) error {
	p.mu.Lock()
	before := p.state
	p.state = calendar.Next(p.state, action)
	changed := before.Mode != p.state.Mode || !before.Reference.Equal(p.state.Reference)
	p.mu.Unlock()

	if !changed {
		return nil
	}
	return p.Refresh(ctx)
}

// Open replaces the view state and fetches its range.
func (p *Planner) Open(ctx context.Context, state calendar.ViewState) error {
	p.mu.Lock()
	p.state = state
	p.mu.Unlock()
	return p.Refresh(ctx)
}

// Refresh fetches the current range and replaces the session list. A
// response superseded by a later fetch is dropped and reports no error.
func (p *Planner) Refresh(ctx context.Context) error {
	p.mu.Lock()
	p.issued++
	seq := p.issued
	r := calendar.Resolve(p.state)
	p.loading = true
	p.mu.Unlock()

	sessions, err := p.source.ListSessions(ctx, r)

	p.mu.Lock()
	defer p.mu.Unlock()
	if seq != p.issued {
		return nil
	}
	p.loading = false
	p.lastErr = err
	if err != nil {
		return err
	}
	p.sessions = sessions
	return nil
}

// Create submits form. On failure the returned form keeps every field and
// carries the error message; on success the view is re-fetched and a zero
// form is returned.
func (p *Planner) Create(ctx context.Context, form calendar.Form) (calendar.Form, error) {
	if err := form.Validate(); err != nil {
		return form.Failed(err.Error()), err
	}
	if _, err := p.source.CreateSession(ctx, form); err != nil {
		return form.Failed(err.Error()), err
	}
	return calendar.Form{}, p.Refresh(ctx)
}

// Delete removes the session id. The local list changes only after the
// server confirmed; failures leave it untouched and are returned.
func (p *Planner) Delete(ctx context.Context, id string) error {
	if err := p.source.DeleteSession(ctx, id); err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sessions = slices.DeleteFunc(p.sessions, func(s Session) bool { return s.ID == id })
	return nil
}

// Views projects the loaded sessions for the layout engine.
func (p *Planner) Views() []calendar.Session {
	p.mu.Lock()
	defer p.mu.Unlock()
	views := make([]calendar.Session, 0, len(p.sessions))
	for _, s := range p.sessions {
		views = append(views, s.View())
	}
	return views
}

// Week lays out the current week.
func (p *Planner) Week() []calendar.DayColumn {
	return calendar.LayoutWeek(p.State().Reference, p.Views(), calendar.StartOfDay(p.now()))
}

// Day lays out the current day.
func (p *Planner) Day() calendar.DayColumn {
	return calendar.LayoutDay(p.State().Reference, p.Views(), calendar.StartOfDay(p.now()))
}

// Month lays out the current month and, when a day is selected, its
// sessions for the side panel.
func (p *Planner) Month() (calendar.MonthGrid, []calendar.Session) {
	state := p.State()
	views := p.Views()
	grid := calendar.LayoutMonth(state.Reference, views, calendar.StartOfDay(p.now()), state.Selected)
	if state.Selected.IsZero() {
		return grid, nil
	}
	return grid, calendar.DaySessions(views, state.Selected)
}
