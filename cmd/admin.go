package main

import (
	"context"
	"fmt"
	"os"

	"github.com/goccy/go-json"
	"github.com/urfave/cli/v3"

	"github.com/feldhaus/einkauf/internal/models"
	"github.com/feldhaus/einkauf/internal/shared"
)

// UsersList lists all accounts.
func (r *Runner) UsersList(ctx context.Context, cmd *cli.Command) error {
	users, err := r.api.Users.List(ctx)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(users, true)
	}

	for _, u := range users {
		r.writePlain("%d  %s <%s>%s\n", u.ID, u.Username, u.Email, userBadges(u))
	}
	return nil
}

// UsersPending lists accounts awaiting approval.
func (r *Runner) UsersPending(ctx context.Context, cmd *cli.Command) error {
	users, err := r.api.Users.Pending(ctx)
	if err != nil {
		return err
	}

	if len(users) == 0 {
		r.writePlain("No accounts awaiting approval.\n")
		return nil
	}

	for _, u := range users {
		r.writePlain("%d  %s <%s> registered %s\n", u.ID, u.Username, u.Email, u.CreatedAt.Format("2006-01-02"))
	}
	return nil
}

// UsersApprove approves a pending account.
func (r *Runner) UsersApprove(ctx context.Context, cmd *cli.Command) error {
	id, err := argInt(cmd, "id")
	if err != nil {
		return err
	}

	user, err := r.api.Users.Approve(ctx, id)
	if err != nil {
		return err
	}

	r.writePlain("✓ %s approved\n", user.Username)
	return nil
}

// BackupDownload fetches the full server dump as JSON.
func (r *Runner) BackupDownload(ctx context.Context, cmd *cli.Command) error {
	backup, err := r.api.Backup.Download(ctx)
	if err != nil {
		return err
	}

	output := cmd.String("output")
	if output == "" {
		return r.writeJSON(backup, true)
	}

	data, err := json.MarshalIndent(backup, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal backup: %w", err)
	}
	if err := os.WriteFile(output, data, 0600); err != nil {
		return fmt.Errorf("failed to write backup file: %w", err)
	}

	r.writePlain("✓ Backup saved to %s (%d users, %d items)\n", output, len(backup.Users), len(backup.Items))
	return nil
}

// BackupRestore replaces the server database with a backup file.
func (r *Runner) BackupRestore(ctx context.Context, cmd *cli.Command) error {
	file := cmd.StringArg("file")
	if file == "" {
		return fmt.Errorf("%w: backup file", shared.ErrMissingArgument)
	}
	if !cmd.Bool("yes") {
		return fmt.Errorf("%w: restoring replaces all server data, re-run with --yes", shared.ErrMissingArgument)
	}

	data, err := os.ReadFile(file)
	if err != nil {
		return fmt.Errorf("failed to read backup file: %w", err)
	}

	var backup models.BackupData
	if err := json.Unmarshal(data, &backup); err != nil {
		return fmt.Errorf("%w: not a valid backup file: %v", shared.ErrInvalidInput, err)
	}

	if err := r.api.Backup.Restore(ctx, &backup); err != nil {
		return err
	}

	r.writePlain("✓ Backup from %s restored\n", backup.Timestamp)
	return nil
}

// WebDAVList lists configured WebDAV recipe sources.
func (r *Runner) WebDAVList(ctx context.Context, cmd *cli.Command) error {
	settings, err := r.api.WebDAV.List(ctx)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(settings, true)
	}

	for _, s := range settings {
		enabled := " "
		if s.Enabled {
			enabled = "✓"
		}
		r.writePlain("%d  [%s] %s/%s\n", s.ID, enabled, s.URL, s.Filename)
	}
	return nil
}

// WebDAVAdd adds a WebDAV recipe source.
func (r *Runner) WebDAVAdd(ctx context.Context, cmd *cli.Command) error {
	created, err := r.api.WebDAV.Create(ctx, models.WebDAVSettingsCreate{
		URL:      cmd.String("url"),
		Username: cmd.String("username"),
		Password: cmd.String("password"),
		Filename: cmd.String("filename"),
	})
	if err != nil {
		return err
	}

	r.writePlain("✓ WebDAV source %d created\n", created.ID)
	return nil
}

// WebDAVEnable toggles a WebDAV source on or off.
func (r *Runner) WebDAVEnable(ctx context.Context, cmd *cli.Command) error {
	id, err := argInt(cmd, "id")
	if err != nil {
		return err
	}

	enabled := !cmd.Bool("off")
	updated, err := r.api.WebDAV.Update(ctx, id, models.WebDAVSettingsUpdate{
		Enabled: &enabled,
	})
	if err != nil {
		return err
	}

	if updated.Enabled {
		r.writePlain("✓ WebDAV source %d enabled\n", updated.ID)
	} else {
		r.writePlain("✓ WebDAV source %d disabled\n", updated.ID)
	}
	return nil
}

// WebDAVRemove deletes a WebDAV source.
func (r *Runner) WebDAVRemove(ctx context.Context, cmd *cli.Command) error {
	id, err := argInt(cmd, "id")
	if err != nil {
		return err
	}

	if err := r.api.WebDAV.Delete(ctx, id); err != nil {
		return err
	}

	r.writePlain("✓ WebDAV source %d deleted\n", id)
	return nil
}

// ConfigShow prints the server's shopping-day configuration.
func (r *Runner) ConfigShow(ctx context.Context, cmd *cli.Command) error {
	config, err := r.api.Config.Get(ctx)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(config, true)
	}

	r.writePlain("Main shopping day: %s\n", weekdayName(config.MainShoppingDay))
	r.writePlain("Fresh products day: %s\n", weekdayName(config.FreshProductsDay))
	return nil
}

func userBadges(u models.User) string {
	badges := ""
	if u.IsAdmin {
		badges += " [admin]"
	}
	if !u.IsApproved {
		badges += " [pending]"
	}
	return badges
}

// weekdayName maps the server's 0=Monday convention to a name.
func weekdayName(day int) string {
	names := []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}
	if day < 0 || day >= len(names) {
		return fmt.Sprintf("day %d", day)
	}
	return names[day]
}
