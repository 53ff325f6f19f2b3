package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"time"

	"github.com/goccy/go-json"
	"github.com/urfave/cli/v3"

	"github.com/feldhaus/einkauf/internal/shared"
	"github.com/feldhaus/einkauf/internal/ws"
)

// Watch streams live change events from the server as JSON lines until
// interrupted.
func (r *Runner) Watch(ctx context.Context, cmd *cli.Command) error {
	client, err := ws.New(ws.Options{
		BaseURL:     r.config.Server.BaseURL,
		Tokens:      r.session,
		Logger:      shared.WithLogger(r.logger, "component", "events"),
		BackoffBase: time.Duration(r.config.WebSocket.ReconnectBaseSeconds) * time.Second,
		BackoffMax:  time.Duration(r.config.WebSocket.ReconnectMaxSeconds) * time.Second,
		Heartbeat:   r.config.Heartbeat(),
	})
	if err != nil {
		return err
	}

	client.Subscribe(ws.EventAny, func(ev ws.Event) {
		line, err := json.Marshal(map[string]any{
			"type": ev.Type,
			"data": ev.Data,
			"at":   time.Now().Format(time.RFC3339),
		})
		if err != nil {
			r.logger.Warn("failed to encode event", "type", ev.Type, "error", err)
			return
		}
		r.writePlain("%s\n", string(line))
	})

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	r.logger.Info("streaming events, press ctrl+c to stop")

	if err := client.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
