package notifier

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Abhijat05/QuickCourt-sub001/pkg/logger"
)

type published struct {
	exchange string
	key      string
	msg      amqp.Publishing
}

type fakeChannel struct {
	sent []published
	err  error
}

func (f *fakeChannel) PublishWithContext(_ context.Context, exchange, key string, _, _ bool, msg amqp.Publishing) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, published{exchange: exchange, key: key, msg: msg})
	return nil
}

func (f *fakeChannel) Close() error { return nil }

func TestClient_Notify(t *testing.T) {
	ch := &fakeChannel{}
	client := NewClient(ch, "quickcourt.events", "notification.user", logger.Nop())
	fixed := time.Date(2025, 10, 15, 9, 0, 0, 0, time.UTC)
	client.now = func() time.Time { return fixed }

	err := client.Notify(context.Background(), 42, "Game cancelled", "The host left")
	require.NoError(t, err)

	require.Len(t, ch.sent, 1)
	sent := ch.sent[0]
	assert.Equal(t, "quickcourt.events", sent.exchange)
	assert.Equal(t, "notification.user", sent.key)
	assert.Equal(t, amqp.Persistent, sent.msg.DeliveryMode)
	assert.Equal(t, "application/json", sent.msg.ContentType)

	var msg Message
	require.NoError(t, json.Unmarshal(sent.msg.Body, &msg))
	assert.Equal(t, int64(42), msg.RecipientID)
	assert.Equal(t, "Game cancelled", msg.Subject)
	assert.Equal(t, fixed, msg.CreatedAt)
}

func TestClient_NotifyErrors(t *testing.T) {
	ch := &fakeChannel{err: errors.New("channel closed")}
	client := NewClient(ch, "x", "y", logger.Nop())

	err := client.Notify(context.Background(), 1, "s", "b")
	assert.ErrorIs(t, err, ErrPublish)

	err = client.Notify(context.Background(), 0, "s", "b")
	assert.ErrorIs(t, err, ErrInvalidMessage)
}

func TestLogNotifier(t *testing.T) {
	assert.NoError(t, NewLogNotifier(logger.Nop()).Notify(context.Background(), 1, "s", "b"))
}
