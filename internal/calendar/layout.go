package calendar

import (
	"sort"
	"time"
)

// Session is the display projection of a planning session.
type Session struct {
	ID            string
	Title         string
	Description   string
	Date          string
	StartTime     string
	EndTime       string
	Location      string
	Color         string
	ClassroomName string
	TrainerName   string
	SchoolName    string
}

// Grid describes the pixel geometry of a day or week time grid.
type Grid struct {
	RowHeight float64
	MinHeight float64
	// DetailHeight is the block height above which the time range is shown.
	DetailHeight float64
	// LocationHeight is the block height above which the location is shown; zero disables it.
	LocationHeight float64
}

var (
	// WeekGrid is the geometry of the week view.
	WeekGrid = Grid{RowHeight: 48, MinHeight: 20, DetailHeight: 40}
	// DayGrid is the geometry of the day view.
	DayGrid = Grid{RowHeight: 60, MinHeight: 28, DetailHeight: 55, LocationHeight: 80}
)

// Height returns the total grid height for the operational window.
func (g Grid) Height() float64 {
	return float64(len(Hours())) * g.RowHeight
}

// Block is a session positioned on a time grid. Left and Width are fractions
// of the day column.
type Block struct {
	Session      Session
	Top          float64
	Height       float64
	Column       int
	Columns      int
	Left         float64
	Width        float64
	ShowDetails  bool
	ShowLocation bool
}

// DayColumn is one date of a day or week view.
type DayColumn struct {
	Date   time.Time
	Label  string
	Today  bool
	Blocks []Block
}

// LayoutDay positions the sessions of date on the day grid.
func LayoutDay(date time.Time, sessions []Session, today time.Time) DayColumn {
	return layoutColumn(date, DayName(date.Weekday()), sessions, DayGrid, today)
}

// LayoutWeek positions sessions on the six columns (Monday to Saturday) of
// the week containing reference.
func LayoutWeek(reference time.Time, sessions []Session, today time.Time) []DayColumn {
	monday := MondayOfWeek(reference)
	columns := make([]DayColumn, 0, WeekDays)
	for i := 0; i < WeekDays; i++ {
		date := AddDays(monday, i)
		columns = append(columns, layoutColumn(date, WeekDayLabels[i], sessions, WeekGrid, today))
	}
	return columns
}

func layoutColumn(date time.Time, label string, sessions []Session, grid Grid, today time.Time) DayColumn {
	day := FormatDate(date)
	var matching []Session
	for _, s := range sessions {
		if s.Date == day {
			matching = append(matching, s)
		}
	}
	return DayColumn{
		Date:   date,
		Label:  label,
		Today:  !today.IsZero() && SameDay(date, today),
		Blocks: Position(matching, grid),
	}
}

// Position computes the vertical placement of sessions that share a date and
// spreads overlapping ones side by side.
func Position(sessions []Session, grid Grid) []Block {
	if len(sessions) == 0 {
		return nil
	}
	origin := OpeningHour * 60
	blocks := make([]Block, len(sessions))
	spans := make([]span, len(sessions))
	for i, s := range sessions {
		start := TimeToMinutes(s.StartTime)
		end := TimeToMinutes(s.EndTime)
		height := float64(end-start) / 60 * grid.RowHeight
		if height < grid.MinHeight {
			height = grid.MinHeight
		}
		blocks[i] = Block{
			Session:      s,
			Top:          float64(start-origin) / 60 * grid.RowHeight,
			Height:       height,
			ShowDetails:  height > grid.DetailHeight,
			ShowLocation: grid.LocationHeight > 0 && height > grid.LocationHeight && s.Location != "",
		}
		// The visual end accounts for the minimum height so that tiny blocks
		// never draw over their neighbours.
		spans[i] = span{index: i, start: start, end: start + int(height/grid.RowHeight*60+0.5)}
	}

	for _, c := range assignColumns(spans) {
		b := &blocks[c.index]
		b.Column = c.column
		b.Columns = c.columns
		b.Width = 1 / float64(c.columns)
		b.Left = float64(c.column) * b.Width
	}

	sort.SliceStable(blocks, func(i, j int) bool {
		if blocks[i].Top != blocks[j].Top {
			return blocks[i].Top < blocks[j].Top
		}
		return blocks[i].Column < blocks[j].Column
	})
	return blocks
}
