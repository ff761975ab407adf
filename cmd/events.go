/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/whyteferrari/RECALLR/config"
	"github.com/whyteferrari/RECALLR/internal/logging"
	"github.com/whyteferrari/RECALLR/internal/mq"
)

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Inspect the deck and flashcard event stream",
}

var eventsTailCmd = &cobra.Command{
	Use:   "tail",
	Short: "Subscribe to the events channel and log every event",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.LoadConfig()

		logger, err := logging.Setup(os.Stdout, cfg.LogLevel)
		if err != nil {
			logger.Warn("falling back to info logging", "error", err)
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		bus, err := mq.Open(ctx, cfg.Events)
		if err != nil {
			return err
		}
		if bus == nil {
			return errors.New("no events backend configured (set EVENTS_BACKEND)")
		}
		defer bus.Close()

		logger.Info("tailing events", "backend", cfg.Events.Backend, "channel", cfg.Events.Channel)
		err = bus.Subscribe(ctx, cfg.Events.Channel, func(ctx context.Context, msg mq.Message) error {
			event, err := mq.DecodeEvent(msg)
			if err != nil {
				// Undecodable payloads are acknowledged so they do not loop forever.
				logger.Warn("skipping message", "message_id", msg.ID, "error", err)
				return nil
			}
			logger.Info("event",
				"id", event.ID,
				"type", event.Type,
				"user_id", event.UserID,
				"deck_id", event.DeckID,
				"occurred_at", event.OccurredAt,
				"payload", string(event.Payload),
			)
			return nil
		})
		if err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("subscribe %s: %w", cfg.Events.Channel, err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(eventsCmd)
	eventsCmd.AddCommand(eventsTailCmd)
}
