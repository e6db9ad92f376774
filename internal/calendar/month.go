package calendar

import (
	"sort"
	"time"
)

// MaxDots is the number of colour indicators a month cell shows before
// relying on the count alone.
const MaxDots = 3

// MonthCell is one day of the month grid.
type MonthCell struct {
	Date     time.Time
	Day      int
	Dots     []string
	Count    int
	Today    bool
	Selected bool
}

// MonthGrid is a Monday-first month layout.
type MonthGrid struct {
	Year   int
	Month  time.Month
	Title  string
	Blanks int
	Cells  []MonthCell
}

// LayoutMonth builds the grid for the month containing reference.
func LayoutMonth(reference time.Time, sessions []Session, today, selected time.Time) MonthGrid {
	first := FirstOfMonth(reference)
	year, month := first.Year(), first.Month()

	byDate := make(map[string][]Session)
	for _, s := range sessions {
		byDate[s.Date] = append(byDate[s.Date], s)
	}

	days := DaysInMonth(year, month)
	cells := make([]MonthCell, 0, days)
	for day := 1; day <= days; day++ {
		date := time.Date(year, month, day, 0, 0, 0, 0, first.Location())
		daySessions := sortByStart(byDate[FormatDate(date)])
		dots := make([]string, 0, MaxDots)
		for i := 0; i < len(daySessions) && i < MaxDots; i++ {
			dots = append(dots, colorOrDefault(daySessions[i].Color))
		}
		cells = append(cells, MonthCell{
			Date:     date,
			Day:      day,
			Dots:     dots,
			Count:    len(daySessions),
			Today:    !today.IsZero() && SameDay(date, today),
			Selected: !selected.IsZero() && SameDay(date, selected),
		})
	}

	return MonthGrid{
		Year:   year,
		Month:  month,
		Title:  MonthName(month),
		Blanks: FirstWeekdayOfMonth(year, month),
		Cells:  cells,
	}
}

// DaySessions returns the sessions of date ordered by start time, as listed
// in the month side panel.
func DaySessions(sessions []Session, date time.Time) []Session {
	day := FormatDate(date)
	var out []Session
	for _, s := range sessions {
		if s.Date == day {
			out = append(out, s)
		}
	}
	return sortByStart(out)
}

func sortByStart(sessions []Session) []Session {
	out := make([]Session, len(sessions))
	copy(out, sessions)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].StartTime < out[j].StartTime
	})
	return out
}

func colorOrDefault(color string) string {
	if color == "" {
		return DefaultColor
	}
	return color
}
