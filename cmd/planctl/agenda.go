package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/humia/planning/internal/calendar"
	"github.com/humia/planning/internal/client"
)

func (c *cli) agenda(ctx context.Context, args []string) error {
	fs := c.flags("agenda")
	email := fs.String("email", "", "email de connexion; ignoré avec -token")
	token := fs.String("token", "", "jeton de session existant")
	mode := fs.String("mode", "semaine", "vue: jour, semaine ou mois")
	date := fs.String("date", "", "date de référence AAAA-MM-JJ; aujourd'hui si absente")
	baseURL := fs.String("url", "", "adresse de l'API; PLANNING_BASE_URL par défaut")
	if err := fs.Parse(args); err != nil {
		return err
	}

	viewMode, err := calendar.ParseViewMode(*mode)
	if err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	reference := calendar.StartOfDay(c.now())
	if strings.TrimSpace(*date) != "" {
		if reference, err = calendar.ParseDate(*date, time.Local); err != nil {
			return fmt.Errorf("%w: %v", errUsage, err)
		}
	}
	if *token == "" && strings.TrimSpace(*email) == "" {
		return fmt.Errorf("%w: -email ou -token est requis", errUsage)
	}

	target := strings.TrimSpace(*baseURL)
	if target == "" {
		if target, err = c.baseURL(); err != nil {
			return err
		}
	}

	var opts []client.Option
	if *token != "" {
		opts = append(opts, client.WithToken(*token))
	}
	api, err := client.New(target, opts...)
	if err != nil {
		return err
	}
	if *token == "" {
		password, err := c.readPassword("Mot de passe: ")
		if err != nil {
			return err
		}
		if _, err := api.Login(ctx, *email, password); err != nil {
			return err
		}
	}

	planner := client.NewPlanner(api, c.now)
	state := calendar.ViewState{Mode: viewMode, Reference: reference}
	if viewMode == calendar.ModeMonth {
		state.Selected = reference
	}
	if err := planner.Open(ctx, state); err != nil {
		return err
	}
	renderAgenda(c.stdout, planner)
	return nil
}

func renderAgenda(w io.Writer, planner *client.Planner) {
	state := planner.State()
	fmt.Fprintln(w, calendar.Title(state))
	fmt.Fprintln(w)

	switch state.Mode {
	case calendar.ModeDay:
		renderColumn(w, planner.Day())
	case calendar.ModeMonth:
		grid, panel := planner.Month()
		renderMonth(w, grid)
		if !state.Selected.IsZero() {
			fmt.Fprintf(w, "\n%s %d %s\n", calendar.DayName(state.Selected.Weekday()), state.Selected.Day(), calendar.MonthName(state.Selected.Month()))
			renderSessions(w, panel)
		}
	default:
		for i, column := range planner.Week() {
			if i > 0 {
				fmt.Fprintln(w)
			}
			renderColumn(w, column)
		}
	}
}

func renderColumn(w io.Writer, column calendar.DayColumn) {
	marker := ""
	if column.Today {
		marker = " *"
	}
	fmt.Fprintf(w, "%s %s%s\n", column.Label, calendar.FormatDate(column.Date), marker)
	sessions := make([]calendar.Session, 0, len(column.Blocks))
	for _, block := range column.Blocks {
		sessions = append(sessions, block.Session)
	}
	renderSessions(w, sessions)
}

func renderSessions(w io.Writer, sessions []calendar.Session) {
	if len(sessions) == 0 {
		fmt.Fprintln(w, "  aucune session")
		return
	}
	for _, s := range sessions {
		details := make([]string, 0, 3)
		for _, part := range []string{s.ClassroomName, s.TrainerName, s.Location} {
			if part != "" {
				details = append(details, part)
			}
		}
		line := fmt.Sprintf("  %s-%s  %s", s.StartTime, s.EndTime, s.Title)
		if len(details) > 0 {
			line += " (" + strings.Join(details, ", ") + ")"
		}
		fmt.Fprintln(w, line)
	}
}

// renderMonth prints a Monday-first grid. Days with sessions carry their
// count, today is starred and the selected day is bracketed.
func renderMonth(w io.Writer, grid calendar.MonthGrid) {
	for _, label := range calendar.MonthDayLabels {
		fmt.Fprintf(w, "%-8s", label)
	}
	fmt.Fprintln(w)

	col := 0
	for ; col < grid.Blanks; col++ {
		fmt.Fprintf(w, "%-8s", "")
	}
	for _, cell := range grid.Cells {
		text := fmt.Sprintf("%d", cell.Day)
		if cell.Count > 0 {
			text += fmt.Sprintf("(%d)", cell.Count)
		}
		if cell.Today {
			text += "*"
		}
		if cell.Selected {
			text = "[" + text + "]"
		}
		fmt.Fprintf(w, "%-8s", text)
		col++
		if col == len(calendar.MonthDayLabels) {
			fmt.Fprintln(w)
			col = 0
		}
	}
	if col != 0 {
		fmt.Fprintln(w)
	}
}
