package queue

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/streadway/amqp"

	"github.com/nthenge/sokoreach/internal/model"
)

// EventQueue is the durable queue both the publisher and the
// cmd/worker consumer declare.
const EventQueue = "campaign_events"

// Publisher emits campaign events for downstream consumers (CRM sync,
// dashboards, auditing). Publishing is fire-and-forget from the
// campaign loop's point of view; a broker outage must never stall or
// fail a run.
type Publisher interface {
	PublishAttempt(result model.AttemptResult) error
	PublishLifecycle(event string, progress model.CampaignProgress) error
	Close() error
}

// Event is the wire envelope. Exactly one of Attempt or Progress is
// set, depending on Type.
type Event struct {
	Type      string                  `json:"type"`
	Attempt   *model.AttemptResult    `json:"attempt,omitempty"`
	Progress  *model.CampaignProgress `json:"progress,omitempty"`
	Timestamp time.Time               `json:"timestamp"`
}

// AMQPPublisher pushes events onto a durable RabbitMQ queue.
type AMQPPublisher struct {
	conn *amqp.Connection
	ch   *amqp.Channel
	name string
}

var _ Publisher = (*AMQPPublisher)(nil)

func NewAMQPPublisher(url string) (*AMQPPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	q, err := ch.QueueDeclare(
		EventQueue, // name
		true,       // durable
		false,      // delete when unused
		false,      // exclusive
		false,      // no-wait
		nil,        // arguments
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("declare queue: %w", err)
	}

	return &AMQPPublisher{conn: conn, ch: ch, name: q.Name}, nil
}

func (p *AMQPPublisher) PublishAttempt(result model.AttemptResult) error {
	return p.publish(Event{
		Type:      "attempt",
		Attempt:   &result,
		Timestamp: time.Now(),
	})
}

func (p *AMQPPublisher) PublishLifecycle(event string, progress model.CampaignProgress) error {
	return p.publish(Event{
		Type:      event,
		Progress:  &progress,
		Timestamp: time.Now(),
	})
}

func (p *AMQPPublisher) publish(e Event) error {
	body, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}
	return p.ch.Publish(
		"",     // exchange
		p.name, // routing key
		false,  // mandatory
		false,  // immediate
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
		},
	)
}

func (p *AMQPPublisher) Close() error {
	if err := p.ch.Close(); err != nil {
		p.conn.Close()
		return err
	}
	return p.conn.Close()
}

// NoopPublisher is used when no broker is configured.
type NoopPublisher struct{}

var _ Publisher = NoopPublisher{}

func (NoopPublisher) PublishAttempt(model.AttemptResult) error { return nil }

func (NoopPublisher) PublishLifecycle(string, model.CampaignProgress) error { return nil }

func (NoopPublisher) Close() error { return nil }
