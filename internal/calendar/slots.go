package calendar

import "time"

const (
	// OpeningHour is the first hour of the operational window.
	OpeningHour = 7
	// ClosingHour is the last hour of the operational window; 22:00 itself is a valid end time.
	ClosingHour = 22
	// SlotMinutes is the granularity of selectable start and end times.
	SlotMinutes = 15

	// DefaultColor is applied to sessions created without an explicit colour.
	DefaultColor = "#7c3aed"
	// DefaultStartTime and DefaultEndTime pre-fill the creation form.
	DefaultStartTime = "09:00"
	DefaultEndTime   = "10:00"
)

// Palette lists the colours offered by the creation form.
var Palette = []string{
	"#7c3aed",
	"#2563eb",
	"#059669",
	"#d97706",
	"#dc2626",
	"#ec4899",
	"#8b5cf6",
	"#0891b2",
}

// WeekDayLabels are the column headers of the week view (Monday to Saturday).
var WeekDayLabels = []string{"Lun", "Mar", "Mer", "Jeu", "Ven", "Sam"}

// MonthDayLabels are the column headers of the month grid (Monday to Sunday).
var MonthDayLabels = []string{"Lun", "Mar", "Mer", "Jeu", "Ven", "Sam", "Dim"}

// MonthNames are the French month names, January first.
var MonthNames = []string{
	"Janvier", "Février", "Mars", "Avril", "Mai", "Juin",
	"Juillet", "Août", "Septembre", "Octobre", "Novembre", "Décembre",
}

var dayNames = []string{"Dimanche", "Lundi", "Mardi", "Mercredi", "Jeudi", "Vendredi", "Samedi"}

// MonthName returns the French name of m.
func MonthName(m time.Month) string {
	if m < time.January || m > time.December {
		return ""
	}
	return MonthNames[m-1]
}

// DayName returns the French name of d.
func DayName(d time.Weekday) string {
	return dayNames[d]
}

// Hours lists the hour rows drawn by the day and week grids (07 through 22).
func Hours() []int {
	hours := make([]int, 0, ClosingHour-OpeningHour+1)
	for h := OpeningHour; h <= ClosingHour; h++ {
		hours = append(hours, h)
	}
	return hours
}

// TimeSlots lists every selectable time from 07:00 to 22:00 in 15 minute steps.
func TimeSlots() []string {
	slots := make([]string, 0, (ClosingHour-OpeningHour)*60/SlotMinutes+1)
	for m := OpeningHour * 60; m <= ClosingHour*60; m += SlotMinutes {
		slots = append(slots, MinutesToTime(m))
	}
	return slots
}

// EndTimeOptions returns the slots strictly after start.
func EndTimeOptions(start string) []string {
	slots := TimeSlots()
	out := make([]string, 0, len(slots))
	for _, slot := range slots {
		if slot > start {
			out = append(out, slot)
		}
	}
	return out
}

// WithinWindow reports whether a start/end pair lies inside the operational window.
// Both values must be zero-padded "HH:MM".
func WithinWindow(start, end string) bool {
	s := TimeToMinutes(start)
	e := TimeToMinutes(end)
	if s < 0 || e < 0 {
		return false
	}
	return s >= OpeningHour*60 && e <= ClosingHour*60
}
