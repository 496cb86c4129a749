// Package notifier публикует уведомления пользователям в RabbitMQ.
// Доставка (email, push) выполняется отдельным потребителем.
package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Channel подмножество *amqp.Channel, используемое публикатором
type Channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// Client публикатор уведомлений в topic exchange
type Client struct {
	conn       *amqp.Connection
	ch         Channel
	exchange   string
	routingKey string
	now        func() time.Time
	log        Logger
}

// Dial подключается к брокеру и объявляет durable topic exchange
func Dial(url, exchange, routingKey string, log Logger) (*Client, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("%w: dial: %v", ErrConnect, err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("%w: open channel: %v", ErrConnect, err)
	}

	if err := ch.ExchangeDeclare(exchange, amqp.ExchangeTopic, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("%w: declare exchange %s: %v", ErrConnect, exchange, err)
	}

	client := NewClient(ch, exchange, routingKey, log)
	client.conn = conn
	return client, nil
}

// NewClient создает публикатор поверх уже открытого канала
func NewClient(ch Channel, exchange, routingKey string, log Logger) *Client {
	return &Client{
		ch:         ch,
		exchange:   exchange,
		routingKey: routingKey,
		now:        time.Now,
		log:        log,
	}
}

// Notify публикует persistent JSON сообщение для пользователя
func (c *Client) Notify(ctx context.Context, recipientID int64, subject, body string) error {
	if recipientID <= 0 || subject == "" {
		return fmt.Errorf("%w: recipient=%d subject=%q", ErrInvalidMessage, recipientID, subject)
	}

	payload, err := json.Marshal(Message{
		RecipientID: recipientID,
		Subject:     subject,
		Body:        body,
		CreatedAt:   c.now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("%w: encode: %v", ErrInvalidMessage, err)
	}

	err = c.ch.PublishWithContext(ctx, c.exchange, c.routingKey, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    c.now().UTC(),
		Body:         payload,
	})
	if err != nil {
		return fmt.Errorf("%w: recipient=%d: %v", ErrPublish, recipientID, err)
	}

	c.log.Info("Notifier: published %q to user=%d", subject, recipientID)
	return nil
}

// Close закрывает канал и соединение
func (c *Client) Close() error {
	if c.ch != nil {
		_ = c.ch.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

// LogNotifier пишет уведомления в лог, когда брокер отключен
type LogNotifier struct {
	log Logger
}

// NewLogNotifier создает notifier без брокера
func NewLogNotifier(log Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

// Notify логирует уведомление
func (n *LogNotifier) Notify(_ context.Context, recipientID int64, subject, body string) error {
	n.log.Info("Notifier: user=%d subject=%q body=%q", recipientID, subject, body)
	return nil
}
