package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/Piladin/ZTPAI/internal/core/ports"
)

// AMQPConfig selects the broker and the queue notifications are published to.
type AMQPConfig struct {
	URL   string
	Queue string
}

// AMQPSender hands notifications to a mail relay through a RabbitMQ queue.
type AMQPSender struct {
	mu      sync.Mutex
	conn    *amqp.Connection
	channel *amqp.Channel
	queue   string
}

var _ ports.NotificationSender = (*AMQPSender)(nil)

// NewAMQPSender dials the broker and declares the durable target queue.
func NewAMQPSender(cfg AMQPConfig) (*AMQPSender, error) {
	if strings.TrimSpace(cfg.URL) == "" {
		return nil, errors.New("amqp url is required")
	}
	if strings.TrimSpace(cfg.Queue) == "" {
		return nil, errors.New("amqp queue is required")
	}

	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("amqp dial: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("amqp channel: %w", err)
	}
	if _, err := ch.QueueDeclare(cfg.Queue, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("amqp declare %s: %w", cfg.Queue, err)
	}

	return &AMQPSender{conn: conn, channel: ch, queue: cfg.Queue}, nil
}

type notificationMessage struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// Send publishes one persistent JSON message per notification. The channel is
// shared by all dispatcher workers, so publishes are serialised.
func (s *AMQPSender) Send(ctx context.Context, n ports.Notification) error {
	body, err := json.Marshal(notificationMessage{To: n.Address, Subject: n.Subject, Body: n.Message})
	if err != nil {
		return fmt.Errorf("encode notification: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	err = s.channel.PublishWithContext(ctx, "", s.queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    uuid.NewString(),
		Timestamp:    time.Now().UTC(),
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("amqp publish: %w", err)
	}
	return nil
}

func (s *AMQPSender) Close() error {
	if s.channel != nil {
		_ = s.channel.Close()
	}
	if s.conn != nil {
		return s.conn.Close()
	}
	return nil
}
