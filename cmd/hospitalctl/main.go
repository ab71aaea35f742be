// Command hospitalctl runs maintenance tasks against the hospital records store.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jwalitptl/hospital-api/internal/app"
	"github.com/jwalitptl/hospital-api/internal/config"
	"github.com/jwalitptl/hospital-api/internal/repository"
	"github.com/jwalitptl/hospital-api/pkg/logger"
)

var configFile string

func main() {
	rootCmd := &cobra.Command{
		Use:          "hospitalctl",
		Short:        "Hospital records maintenance",
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&configFile, "config", os.Getenv("HOSPITAL_CONFIG_FILE"), "Path to the config file")

	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(seedCmd())
	rootCmd.AddCommand(importCmd())
	rootCmd.AddCommand(snapshotCmd())
	rootCmd.AddCommand(eventsCmd())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

// runtime is what most commands need: configuration, a logger and the store.
type runtime struct {
	cfg   *config.Config
	log   *logger.Logger
	repos *repository.Repositories
	close func() error
}

func open(ctx context.Context) (*runtime, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, err
	}
	log := app.NewLogger(cfg.Log)
	repos, closer, err := app.OpenStore(ctx, cfg, log)
	if err != nil {
		return nil, err
	}
	return &runtime{cfg: cfg, log: log, repos: repos, close: closer}, nil
}
