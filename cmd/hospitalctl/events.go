package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jwalitptl/hospital-api/internal/app"
	"github.com/jwalitptl/hospital-api/internal/config"
	"github.com/jwalitptl/hospital-api/pkg/messaging"
)

func eventsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "events",
		Short: "Print import events from the redis channel until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configFile)
			if err != nil {
				return err
			}
			if cfg.Redis.URL == "" {
				return errors.New("redis.url is not configured")
			}
			log := app.NewLogger(cfg.Log)

			ctx := cmd.Context()
			broker, err := app.OpenBroker(ctx, cfg, log)
			if err != nil {
				return err
			}
			defer broker.Close()

			channel := messaging.NewEventPublisher(broker, cfg.Redis.Channel).Channel()
			msgs, err := broker.Subscribe(ctx, channel)
			if err != nil {
				return err
			}
			log.Info("listening for events", "channel", channel)

			for msg := range msgs {
				fmt.Fprintln(cmd.OutOrStdout(), string(msg))
			}
			return nil
		},
	}
}
