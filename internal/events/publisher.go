// Package events publishes show lifecycle events to RabbitMQ. Errors are
// logged and returned so callers can ignore failures without interrupting
// the main request flow.
package events

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"
)

// Queue names, one durable queue per lifecycle transition.
const (
	QueueShowArchived = "show.archived"
	QueueShowRestored = "show.restored"
	QueueShowDeleted  = "show.deleted"
)

// ShowLifecycleEvent carries enough information for downstream consumers to
// log, notify, or trigger analytics without querying the primary store.
type ShowLifecycleEvent struct {
	ShowID     string `json:"show_id"`
	ShowName   string `json:"show_name"`
	UserID     uint64 `json:"user_id"`
	ArchiveID  string `json:"archive_id,omitempty"`
	OccurredAt string `json:"occurred_at"`
}

type Publisher struct {
	url string
	log *logrus.Logger
}

func NewPublisher(url string, log *logrus.Logger) *Publisher {
	return &Publisher{url: url, log: log}
}

// Publish sends a ShowLifecycleEvent to the named queue. The function
// attempts to be robust and to never panic; any error is logged and returned
// so the caller can choose to ignore it. Messages are marked as persistent.
func (p *Publisher) Publish(ctx context.Context, queue string, event ShowLifecycleEvent) error {
	conn, err := amqp.Dial(p.url)
	if err != nil {
		p.log.WithError(err).Warn("rabbitmq: dial failed")
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		p.log.WithError(err).Warn("rabbitmq: channel open failed")
		return err
	}
	defer func() { _ = ch.Close() }()

	// Ensure the queue exists (idempotent). Durable so messages survive broker restarts.
	if _, err := ch.QueueDeclare(
		queue, // name
		true,  // durable
		false, // autoDelete
		false, // exclusive
		false, // noWait
		nil,   // args
	); err != nil {
		p.log.WithError(err).Warn("rabbitmq: queue declare failed")
		return err
	}

	body, err := json.Marshal(event)
	if err != nil {
		p.log.WithError(err).Warn("rabbitmq: marshal event failed")
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent, // store on disk
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}

	if err := ch.PublishWithContext(ctx,
		"",    // default exchange
		queue, // routing key = queue name
		false, // mandatory
		false, // immediate
		pub,
	); err != nil {
		p.log.WithError(err).Warn("rabbitmq: publish failed")
		return err
	}

	return nil
}
