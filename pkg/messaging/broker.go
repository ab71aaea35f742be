package messaging

import (
	"context"
	"time"
)

// Broker defines the interface for message brokers
type Broker interface {
	Publish(ctx context.Context, channel string, message interface{}) error
	Subscribe(ctx context.Context, channel string) (<-chan []byte, error)
	Close() error
}

// ImportCompleted is published after every CSV ingestion batch.
type ImportCompleted struct {
	Entity       string    `json:"entity"`
	Actor        string    `json:"actor"`
	TotalRows    int       `json:"total_rows"`
	SuccessCount int       `json:"success_count"`
	FailedCount  int       `json:"failed_count"`
	At           time.Time `json:"at"`
}

type Message struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

const EventImportCompleted = "import.completed"

// NoopBroker drops every message. Used when no broker is configured.
type NoopBroker struct{}

func (NoopBroker) Publish(context.Context, string, interface{}) error { return nil }

func (NoopBroker) Subscribe(ctx context.Context, _ string) (<-chan []byte, error) {
	ch := make(chan []byte)
	go func() {
		<-ctx.Done()
		close(ch)
	}()
	return ch, nil
}

func (NoopBroker) Close() error { return nil }
