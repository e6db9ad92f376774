package calendar

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// ViewMode selects the calendar granularity.
type ViewMode string

const (
	ModeDay   ViewMode = "jour"
	ModeWeek  ViewMode = "semaine"
	ModeMonth ViewMode = "mois"
)

// WeekDays is the number of visible days in week mode. Sunday is never shown.
const WeekDays = 6

// ParseViewMode accepts the French names as well as day/week/month.
func ParseViewMode(value string) (ViewMode, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "jour", "day":
		return ModeDay, nil
	case "semaine", "week", "":
		return ModeWeek, nil
	case "mois", "month":
		return ModeMonth, nil
	default:
		return "", fmt.Errorf("calendar: unknown view mode %q", value)
	}
}

// ViewState is the immutable navigation state of a calendar page.
type ViewState struct {
	Mode      ViewMode
	Reference time.Time
	// Selected is the day opened in the month side panel, zero when none.
	Selected time.Time
}

// NewViewState returns the initial state: week mode anchored on today.
func NewViewState(today time.Time) ViewState {
	return ViewState{Mode: ModeWeek, Reference: StartOfDay(today)}
}

// ActionKind enumerates navigation actions.
type ActionKind int

const (
	ActionPrevious ActionKind = iota + 1
	ActionNext
	ActionToday
	ActionSetMode
	ActionSelect
	ActionClearSelection
)

// Action is an input to Next.
type Action struct {
	Kind ActionKind
	Mode ViewMode
	Date time.Time
}

// Previous moves one period back.
func Previous() Action { return Action{Kind: ActionPrevious} }

// Following moves one period forward.
func Following() Action { return Action{Kind: ActionNext} }

// Today resets the reference date to now.
func Today(now time.Time) Action { return Action{Kind: ActionToday, Date: now} }

// SetMode switches the granularity while keeping the reference date.
func SetMode(mode ViewMode) Action { return Action{Kind: ActionSetMode, Mode: mode} }

// Select opens the side panel for a date.
func Select(date time.Time) Action { return Action{Kind: ActionSelect, Date: date} }

// ClearSelection closes the side panel.
func ClearSelection() Action { return Action{Kind: ActionClearSelection} }

// Next applies action to state and returns the resulting state. The input is
// never modified.
func Next(state ViewState, action Action) ViewState {
	next := state
	switch action.Kind {
	case ActionPrevious:
		next.Reference = shift(state.Mode, state.Reference, -1)
	case ActionNext:
		next.Reference = shift(state.Mode, state.Reference, 1)
	case ActionToday:
		next.Reference = StartOfDay(action.Date)
	case ActionSetMode:
		if action.Mode != "" {
			next.Mode = action.Mode
		}
		if next.Mode != ModeMonth {
			next.Selected = time.Time{}
		}
	case ActionSelect:
		next.Selected = StartOfDay(action.Date)
	case ActionClearSelection:
		next.Selected = time.Time{}
	}
	return next
}

func shift(mode ViewMode, reference time.Time, direction int) time.Time {
	switch mode {
	case ModeDay:
		return AddDays(reference, direction)
	case ModeMonth:
		return AddMonths(reference, direction)
	default:
		return AddDays(reference, 7*direction)
	}
}

// Range is the set of dates a view displays and fetches.
type Range struct {
	Mode  ViewMode
	Start time.Time
	// End is the last included date.
	End time.Time
}

// Resolve computes the range shown by state.
func Resolve(state ViewState) Range {
	ref := StartOfDay(state.Reference)
	switch state.Mode {
	case ModeDay:
		return Range{Mode: ModeDay, Start: ref, End: ref}
	case ModeMonth:
		first := FirstOfMonth(ref)
		return Range{Mode: ModeMonth, Start: first, End: AddDays(first, DaysInMonth(first.Year(), first.Month())-1)}
	default:
		monday := MondayOfWeek(ref)
		return Range{Mode: ModeWeek, Start: monday, End: AddDays(monday, WeekDays-1)}
	}
}

// Days lists every date in the range in order.
func (r Range) Days() []time.Time {
	var days []time.Time
	for d := r.Start; !d.After(r.End); d = AddDays(d, 1) {
		days = append(days, d)
	}
	return days
}

// Contains reports whether the YYYY-MM-DD date falls inside the range.
func (r Range) Contains(date string) bool {
	return date >= FormatDate(r.Start) && date <= FormatDate(r.End)
}

// Query encodes the range as /planning query parameters: month ranges use
// month=YYYY-MM, the others an inclusive start/end pair. The zero Range
// encodes no bounds.
func (r Range) Query() url.Values {
	values := url.Values{}
	if r.Start.IsZero() {
		return values
	}
	if r.Mode == ModeMonth {
		values.Set("month", FormatMonth(r.Start))
		return values
	}
	values.Set("start", FormatDate(r.Start))
	values.Set("end", FormatDate(r.End))
	return values
}

// Title renders the header of the current view in French.
func Title(state ViewState) string {
	r := Resolve(state)
	switch state.Mode {
	case ModeDay:
		d := r.Start
		return fmt.Sprintf("%s %d %s %d", DayName(d.Weekday()), d.Day(), MonthName(d.Month()), d.Year())
	case ModeMonth:
		return fmt.Sprintf("%s %d", MonthName(r.Start.Month()), r.Start.Year())
	default:
		if r.Start.Month() == r.End.Month() {
			return fmt.Sprintf("%d - %d %s %d", r.Start.Day(), r.End.Day(), MonthName(r.End.Month()), r.End.Year())
		}
		return fmt.Sprintf("%d %s - %d %s %d", r.Start.Day(), MonthName(r.Start.Month()), r.End.Day(), MonthName(r.End.Month()), r.End.Year())
	}
}
