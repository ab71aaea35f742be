package messaging

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingBroker struct {
	channel string
	message interface{}
	err     error
}

func (b *recordingBroker) Publish(_ context.Context, channel string, message interface{}) error {
	b.channel = channel
	b.message = message
	return b.err
}

func (b *recordingBroker) Subscribe(context.Context, string) (<-chan []byte, error) {
	return nil, errors.New("not supported")
}

func (b *recordingBroker) Close() error { return nil }

func TestPublishImportCompleted(t *testing.T) {
	b := &recordingBroker{}
	p := NewEventPublisher(b, "")

	evt := ImportCompleted{Entity: "visits", Actor: "admin_hospital", TotalRows: 3, SuccessCount: 2, FailedCount: 1, At: time.Now()}
	require.NoError(t, p.PublishImportCompleted(context.Background(), evt))

	assert.Equal(t, "hospital.events", b.channel)
	msg, ok := b.message.(Message)
	require.True(t, ok)
	assert.Equal(t, EventImportCompleted, msg.Type)
	assert.Equal(t, evt, msg.Payload)
}

func TestPublishImportCompletedWrapsBrokerError(t *testing.T) {
	p := NewEventPublisher(&recordingBroker{err: errors.New("down")}, "events")

	err := p.PublishImportCompleted(context.Background(), ImportCompleted{})
	assert.ErrorContains(t, err, "down")
}

func TestNoopBrokerSubscribeClosesOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	ch, err := NoopBroker{}.Subscribe(ctx, "x")
	require.NoError(t, err)

	cancel()
	_, open := <-ch
	assert.False(t, open)
}
