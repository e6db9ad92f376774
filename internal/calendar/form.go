package calendar

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrFormIncomplete = errors.New("La classe, le formateur, le titre, la date et les horaires sont requis")
	ErrFormWindow     = errors.New("Les horaires doivent être entre 07:00 et 22:00")
	ErrFormOrder      = errors.New("L'heure de fin doit être après l'heure de début")
)

// Form is the state of the session creation form.
type Form struct {
	ClassroomID string
	TrainerID   string
	Title       string
	Description string
	Date        string
	StartTime   string
	EndTime     string
	Location    string
	Color       string
	// Error holds the last submission failure; fields are kept as entered.
	Error string
}

// NewForm opens a form pre-filled for date.
func NewForm(date time.Time) Form {
	return Form{
		Date:      FormatDate(date),
		StartTime: DefaultStartTime,
		EndTime:   DefaultEndTime,
		Color:     DefaultColor,
	}
}

// NewFormAt opens a form from a double-click on the time grid. The start is
// rounded down to the slot grid and the end defaults to one hour later,
// capped at the closing hour.
func NewFormAt(date time.Time, minutes int) Form {
	f := NewForm(date)
	minutes -= minutes % SlotMinutes
	if minutes < OpeningHour*60 {
		minutes = OpeningHour * 60
	}
	if minutes > ClosingHour*60-SlotMinutes {
		minutes = ClosingHour*60 - SlotMinutes
	}
	f.StartTime = MinutesToTime(minutes)
	f.EndTime = MinutesToTime(min(minutes+60, ClosingHour*60))
	return f
}

// WithStart returns a copy of f with a new start time. When the current end
// is no longer after start, it moves to the first available option.
func (f Form) WithStart(start string) Form {
	f.StartTime = start
	if f.EndTime <= start {
		if options := EndTimeOptions(start); len(options) > 0 {
			f.EndTime = options[0]
		}
	}
	return f
}

// EndOptions lists the end times selectable for the current start.
func (f Form) EndOptions() []string {
	return EndTimeOptions(f.StartTime)
}

// Validate applies the same checks as the server, in the same order.
func (f Form) Validate() error {
	if strings.TrimSpace(f.ClassroomID) == "" || strings.TrimSpace(f.TrainerID) == "" ||
		strings.TrimSpace(f.Title) == "" || f.Date == "" || f.StartTime == "" || f.EndTime == "" {
		return ErrFormIncomplete
	}
	if !WithinWindow(f.StartTime, f.EndTime) {
		return ErrFormWindow
	}
	if f.StartTime >= f.EndTime {
		return ErrFormOrder
	}
	return nil
}

// Failed returns a copy of f carrying message, leaving every field intact.
func (f Form) Failed(message string) Form {
	f.Error = message
	return f
}
