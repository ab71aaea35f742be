package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/jwalitptl/hospital-api/internal/app"
	"github.com/jwalitptl/hospital-api/internal/config"
	"github.com/jwalitptl/hospital-api/internal/service/doctor"
	"github.com/jwalitptl/hospital-api/pkg/metrics"
)

func main() {
	cfg, err := config.Load(os.Getenv("HOSPITAL_CONFIG_FILE"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	log := app.NewLogger(cfg.Log)

	if cfg.UsesDefaultSecret() && !cfg.IsDevelopment() {
		log.Warn("jwt secret is the built-in default; set JWT_SECRET", "env", cfg.Server.Env)
	}

	startCtx, cancelStart := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelStart()

	repos, closeStore, err := app.OpenStore(startCtx, cfg, log)
	if err != nil {
		log.Fatal(err, "failed to open store", "driver", cfg.Database.Driver)
	}
	defer closeStore()

	broker, err := app.OpenBroker(startCtx, cfg, log)
	if err != nil {
		log.Fatal(err, "failed to connect to Redis")
	}

	a := app.New(cfg, app.Deps{
		Repos:    repos,
		Broker:   broker,
		Notifier: app.NewNotifier(cfg.Mail),
		Metrics:  metrics.NewMetrics(prometheus.DefaultRegisterer, "hospital"),
		Gatherer: prometheus.DefaultGatherer,
		Logger:   log,
	})
	defer a.Events.Close()

	if cfg.Seed.Enabled {
		n, err := a.Doctors.Seed(startCtx, doctor.DefaultAccounts)
		if err != nil {
			log.Fatal(err, "failed to seed accounts")
		}
		log.Info("seeded accounts", "created", n)
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      a.NewRouter(cfg).Engine(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Info("server listening", "port", cfg.Server.Port, "env", cfg.Server.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err, "failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error(err, "server forced to shutdown")
	}
	a.Upload.Wait()

	log.Info("server exited properly")
}
