package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/feldhaus/einkauf/internal/shared"
)

// Register creates a new account on the server. New accounts stay inactive
// until an admin approves them.
func (r *Runner) Register(ctx context.Context, cmd *cli.Command) error {
	username := cmd.String("username")

	r.logger.Info("registering account", "username", username)

	user, err := r.session.Register(ctx, username, cmd.String("email"), cmd.String("password"))
	if err != nil {
		return err
	}

	r.writePlain("✓ Account %q created\n", user.Username)
	if !user.IsApproved {
		r.writePlain("An admin must approve the account before you can log in.\n")
	}
	return nil
}

// Login obtains a token pair and stores the session locally.
func (r *Runner) Login(ctx context.Context, cmd *cli.Command) error {
	username := cmd.String("username")

	state, err := r.session.Login(ctx, username, cmd.String("password"))
	if err != nil {
		if errors.Is(err, shared.ErrAccountPending) {
			return fmt.Errorf("account %q is still awaiting admin approval: %w", username, err)
		}
		return err
	}

	r.logger.Info("logged in", "username", state.Username, "expires_at", state.ExpiresAt)
	r.writePlain("✓ Logged in as %s\n", state.Username)
	return nil
}

// Logout removes the stored session.
func (r *Runner) Logout(ctx context.Context, cmd *cli.Command) error {
	if err := r.session.Logout(); err != nil {
		return err
	}
	r.writePlain("✓ Logged out\n")
	return nil
}

// Whoami shows the logged-in account as seen by the server.
func (r *Runner) Whoami(ctx context.Context, cmd *cli.Command) error {
	user, err := r.session.CurrentUser(ctx)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(user, true)
	}

	r.writePlain("%s <%s>\n", user.Username, user.Email)
	if user.IsAdmin {
		r.writePlain("Role: admin\n")
	}
	if state, err := r.session.State(); err == nil {
		r.writePlain("Session expires: %s\n", state.ExpiresAt.Format("2006-01-02 15:04"))
	}
	return nil
}

// AccountDelete permanently deletes the logged-in account and its items.
func (r *Runner) AccountDelete(ctx context.Context, cmd *cli.Command) error {
	if !cmd.Bool("yes") {
		return fmt.Errorf("%w: re-run with --yes to permanently delete the account", shared.ErrMissingArgument)
	}

	if err := r.session.DeleteAccount(ctx); err != nil {
		return err
	}

	r.writePlain("✓ Account deleted\n")
	return nil
}
