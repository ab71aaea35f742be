package app

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jwalitptl/hospital-api/internal/config"
	"github.com/jwalitptl/hospital-api/internal/mirror"
	"github.com/jwalitptl/hospital-api/internal/notify"
	"github.com/jwalitptl/hospital-api/internal/repository"
	"github.com/jwalitptl/hospital-api/internal/repository/memory"
	"github.com/jwalitptl/hospital-api/internal/repository/postgres"
	"github.com/jwalitptl/hospital-api/pkg/logger"
	"github.com/jwalitptl/hospital-api/pkg/messaging"
	redisBroker "github.com/jwalitptl/hospital-api/pkg/messaging/redis"
)

// NewLogger builds the process logger from the log section.
func NewLogger(cfg config.LogConfig) *logger.Logger {
	return logger.NewLogger(&logger.Config{
		Level:      logger.ParseLevel(cfg.Level),
		TimeFormat: time.RFC3339,
		Pretty:     cfg.Pretty,
		Output:     os.Stdout,
	})
}

// OpenStore connects the configured database driver. The returned func
// releases it.
func OpenStore(ctx context.Context, cfg *config.Config, log *logger.Logger) (*repository.Repositories, func() error, error) {
	if cfg.Database.Driver == config.DriverMemory {
		return openMemory(ctx, cfg, log)
	}

	db, err := postgres.NewDB(ctx, cfg.Database)
	if err != nil {
		return nil, nil, err
	}
	if err := postgres.Migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, nil, err
	}
	log.Info("connected to postgres", "host", cfg.Database.Host, "database", cfg.Database.Name)
	return postgres.NewRepositories(db), db.Close, nil
}

// openMemory keeps records in the state mirror, persisted to the mirror file
// when set, else to the redis mirror key when redis is configured.
func openMemory(ctx context.Context, cfg *config.Config, log *logger.Logger) (*repository.Repositories, func() error, error) {
	var (
		persister mirror.Persister
		closer    = func() error { return nil }
	)
	switch {
	case cfg.Database.MirrorFile != "":
		persister = mirror.NewFilePersister(cfg.Database.MirrorFile)
	case cfg.Redis.URL != "":
		client, err := NewRedisClient(ctx, cfg.Redis.URL)
		if err != nil {
			return nil, nil, err
		}
		persister = mirror.NewRedisPersister(client, cfg.Redis.MirrorKey)
		closer = client.Close
	}

	store, err := mirror.NewStore(ctx, mirror.State{}, persister, log)
	if err != nil {
		_ = closer()
		return nil, nil, err
	}
	log.Info("using in-memory store", "persisted", persister != nil)
	return memory.NewRepositories(store), closer, nil
}

// NewRedisClient parses url and checks the server answers.
func NewRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return client, nil
}

// OpenBroker returns the redis broker when redis is configured, otherwise a
// broker that drops every event.
func OpenBroker(ctx context.Context, cfg *config.Config, log *logger.Logger) (messaging.Broker, error) {
	if cfg.Redis.URL == "" {
		return messaging.NoopBroker{}, nil
	}
	b, err := redisBroker.NewRedisBroker(ctx, redisBroker.Config{
		URL:          cfg.Redis.URL,
		MaxRetries:   3,
		RetryBackoff: 100 * time.Millisecond,
	}, log.Zerolog())
	if err != nil {
		return nil, err
	}
	return b, nil
}

// NewNotifier returns the SMTP mailer when mail is configured.
func NewNotifier(cfg config.MailConfig) notify.Notifier {
	if !cfg.Enabled() {
		return notify.Noop{}
	}
	return notify.NewMailer(notify.Config{
		Host:     cfg.Host,
		Port:     cfg.Port,
		Username: cfg.Username,
		Password: cfg.Password,
		From:     cfg.From,
		To:       cfg.ReportTo,
	})
}
