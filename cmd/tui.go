package main

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/urfave/cli/v3"

	"github.com/feldhaus/einkauf/internal/session"
	"github.com/feldhaus/einkauf/internal/shared"
	"github.com/feldhaus/einkauf/internal/state"
	"github.com/feldhaus/einkauf/internal/ui"
	"github.com/feldhaus/einkauf/internal/ws"
)

// TUI launches the interactive shopping list.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	configDir, err := shared.ConfigDir()
	if err != nil {
		return err
	}

	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger(filepath.Join(configDir, "tui.log"))
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	r.SetLogger(fileLogger)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	shoppingList := state.NewShoppingList(r.api, fileLogger)
	units := state.NewUnits(r.api, fileLogger)

	events, err := ws.New(ws.Options{
		BaseURL: r.config.Server.BaseURL,
		Tokens:  r.session,
		Logger:  shared.WithLogger(fileLogger, "component", "events"),
		OnConnect: func() {
			refreshCtx, done := context.WithTimeout(ctx, 15*time.Second)
			defer done()
			if err := shoppingList.Refresh(refreshCtx); err != nil {
				fileLogger.Warn("failed to refresh after reconnect", "error", err)
			}
			if err := units.Refresh(refreshCtx); err != nil {
				fileLogger.Warn("failed to refresh units", "error", err)
			}
		},
		BackoffBase: time.Duration(r.config.WebSocket.ReconnectBaseSeconds) * time.Second,
		BackoffMax:  time.Duration(r.config.WebSocket.ReconnectMaxSeconds) * time.Second,
		Heartbeat:   r.config.Heartbeat(),
	})
	if err != nil {
		return err
	}
	shoppingList.Bind(events)
	units.Bind(events)

	username := ""
	if sessionState, err := r.session.State(); err == nil {
		username = sessionState.Username
	}

	var program *tea.Program
	var idle *session.IdleTracker
	if r.config.Session.IdleTimeoutMinutes > 0 {
		idle = session.NewIdleTracker(
			time.Duration(r.config.Session.IdleTimeoutMinutes)*time.Minute,
			func() {
				r.expireIdleSession(func() {
					if program != nil {
						program.Quit()
					}
				})
			},
		)
		defer idle.Stop()
	}

	model := ui.NewModel(ctx, ui.Deps{
		List:      shoppingList,
		Units:     units,
		Client:    r.api,
		Idle:      idle,
		Connected: events.Connected,
		Username:  username,
	})
	program = tea.NewProgram(model, tea.WithAltScreen())

	go func() {
		if err := events.Run(ctx); err != nil && ctx.Err() == nil {
			fileLogger.Error("event stream stopped", "error", err)
		}
	}()

	if _, err := program.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}

// expireIdleSession clears the stored session after the idle timeout fires,
// then quits so the user lands back at a logged-out prompt.
func (r *Runner) expireIdleSession(quit func()) {
	r.logger.Info("session idle, logging out")
	if err := r.session.Logout(); err != nil {
		r.logger.Error("failed to clear session", "error", err)
	}
	if quit != nil {
		quit()
	}
}
