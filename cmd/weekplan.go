package main

import (
	"context"
	"fmt"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/feldhaus/einkauf/internal/models"
	"github.com/feldhaus/einkauf/internal/shared"
	"github.com/feldhaus/einkauf/internal/state"
)

// WeekplanShow prints the meal plan for one week.
func (r *Runner) WeekplanShow(ctx context.Context, cmd *cli.Command) error {
	weekStart := cmd.String("week")
	if weekStart == "" {
		weekStart = currentMonday(time.Now())
	} else if _, err := time.Parse("2006-01-02", weekStart); err != nil {
		return fmt.Errorf("%w: --week must be YYYY-MM-DD: %v", shared.ErrInvalidArgument, err)
	}

	week := state.NewWeekplan(r.api, r.logger)
	if err := week.Refresh(ctx, weekStart); err != nil {
		return err
	}
	entries := week.Entries()

	if cmd.Bool("json") {
		return r.writeJSON(entries, true)
	}

	if len(entries) == 0 {
		r.writePlain("No entries for the week of %s.\n", weekStart)
		return nil
	}

	r.writePlainHeader(fmt.Sprintf("Week of %s", weekStart))
	date := ""
	for _, e := range entries {
		if e.Date != date {
			date = e.Date
			r.writePlain("\n%s\n", date)
		}
		r.writePlain("  %d  %-8s %s\n", e.ID, e.Meal, e.Text)
	}
	return nil
}

// WeekplanAdd creates a meal entry.
func (r *Runner) WeekplanAdd(ctx context.Context, cmd *cli.Command) error {
	date := cmd.StringArg("date")
	meal := cmd.StringArg("meal")
	text := cmd.StringArg("text")

	if date == "" || meal == "" || text == "" {
		return fmt.Errorf("%w: usage is weekplan add <date> <meal> <text>", shared.ErrMissingArgument)
	}
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return fmt.Errorf("%w: date must be YYYY-MM-DD: %v", shared.ErrInvalidArgument, err)
	}
	switch meal {
	case models.MealMorning, models.MealLunch, models.MealDinner:
	default:
		return fmt.Errorf("%w: meal must be %s, %s, or %s",
			shared.ErrInvalidArgument, models.MealMorning, models.MealLunch, models.MealDinner)
	}

	created, err := r.api.Weekplan.CreateEntry(ctx, models.WeekplanEntryCreate{
		Date: date,
		Meal: meal,
		Text: text,
	})
	if err != nil {
		return err
	}

	r.writePlain("✓ %s %s: %s (id %d)\n", created.Date, created.Meal, created.Text, created.ID)
	return nil
}

// WeekplanRemove deletes a meal entry.
func (r *Runner) WeekplanRemove(ctx context.Context, cmd *cli.Command) error {
	id, err := argInt(cmd, "id")
	if err != nil {
		return err
	}

	if err := r.api.Weekplan.DeleteEntry(ctx, id); err != nil {
		return err
	}

	r.writePlain("✓ Entry %d deleted\n", id)
	return nil
}

// currentMonday returns the Monday of now's week as an ISO date.
func currentMonday(now time.Time) string {
	weekday := int(now.Weekday())
	if weekday == 0 {
		weekday = 7
	}
	return now.AddDate(0, 0, 1-weekday).Format("2006-01-02")
}
