// Package calendar holds the date arithmetic, view navigation and grid layout
// used to render planning sessions in day, week and month views.
//
// All dates are handled through their calendar fields (year, month, day) in
// the location carried by the time value; no UTC conversion happens here.
package calendar

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	// DateLayout is the wire format of calendar dates.
	DateLayout = "2006-01-02"
	// MonthLayout is the wire format of year-month values.
	MonthLayout = "2006-01"
	// TimeLayout is the wire format of times of day.
	TimeLayout = "15:04"
)

// FormatDate renders t as YYYY-MM-DD using its local calendar fields.
func FormatDate(t time.Time) string {
	return fmt.Sprintf("%04d-%02d-%02d", t.Year(), int(t.Month()), t.Day())
}

// FormatMonth renders t as YYYY-MM.
func FormatMonth(t time.Time) string {
	return fmt.Sprintf("%04d-%02d", t.Year(), int(t.Month()))
}

// ParseDate parses a YYYY-MM-DD string into a midnight time in loc.
// A nil loc means time.Local.
func ParseDate(value string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	return time.ParseInLocation(DateLayout, strings.TrimSpace(value), loc)
}

// ParseMonth parses a YYYY-MM string into the first day of that month in loc.
func ParseMonth(value string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	return time.ParseInLocation(MonthLayout, strings.TrimSpace(value), loc)
}

// StartOfDay drops the clock part of t.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// MondayOfWeek returns the Monday that starts the week containing t.
// Sunday belongs to the week that started six days earlier.
func MondayOfWeek(t time.Time) time.Time {
	weekday := int(t.Weekday())
	back := weekday - 1
	if weekday == 0 {
		back = 6
	}
	return AddDays(StartOfDay(t), -back)
}

// AddDays shifts t by n calendar days, rolling months and years as needed.
func AddDays(t time.Time, n int) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day()+n, t.Hour(), t.Minute(), 0, 0, t.Location())
}

// AddMonths shifts t by n calendar months. The day is clamped to the length
// of the target month, so January 31 plus one month is the last day of February.
func AddMonths(t time.Time, n int) time.Time {
	first := time.Date(t.Year(), t.Month()+time.Month(n), 1, t.Hour(), t.Minute(), 0, 0, t.Location())
	day := t.Day()
	if last := DaysInMonth(first.Year(), first.Month()); day > last {
		day = last
	}
	return time.Date(first.Year(), first.Month(), day, t.Hour(), t.Minute(), 0, 0, t.Location())
}

// FirstOfMonth returns midnight on the first day of the month containing t.
func FirstOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// DaysInMonth reports how many days the given month has.
func DaysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// FirstWeekdayOfMonth returns the Monday-indexed weekday (Monday=0 .. Sunday=6)
// of the first day of the month. It equals the number of leading blank cells
// in a Monday-first month grid.
func FirstWeekdayOfMonth(year int, month time.Month) int {
	weekday := int(time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).Weekday())
	return (weekday + 6) % 7
}

// SameDay reports whether a and b fall on the same calendar date.
func SameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

// TimeToMinutes converts "HH:MM" into minutes since midnight.
// Malformed input yields -1.
func TimeToMinutes(value string) int {
	hours, minutes, ok := strings.Cut(strings.TrimSpace(value), ":")
	if !ok {
		return -1
	}
	h, err := strconv.Atoi(hours)
	if err != nil {
		return -1
	}
	m, err := strconv.Atoi(minutes)
	if err != nil {
		return -1
	}
	return h*60 + m
}

// MinutesToTime converts minutes since midnight into a zero-padded "HH:MM".
func MinutesToTime(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}
