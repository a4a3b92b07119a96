// cmd/worker/main.go
package main

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/streadway/amqp"

	"github.com/nthenge/sokoreach/internal/config"
	"github.com/nthenge/sokoreach/internal/history"
	"github.com/nthenge/sokoreach/internal/queue"
)

// The worker tails the campaign event queue and mirrors attempt events
// into the local delivery history. It exists for setups where the
// campaign runs on another host and the archive should live near the
// operator.

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	if cfg.AMQPURL == "" {
		log.Fatal("AMQP_URL must be set for the worker")
	}

	sink := &eventSink{}
	if cfg.HistoryPath != "" {
		archive, err := history.Open(cfg.HistoryPath)
		if err != nil {
			log.Println("⚠️ Delivery history disabled:", err)
		} else {
			defer archive.Close()
			sink.archive = archive
		}
	}

	conn, err := amqp.Dial(cfg.AMQPURL)
	if err != nil {
		log.Fatal("Failed to connect to RabbitMQ:", err)
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		log.Fatal("Failed to open a channel:", err)
	}
	defer ch.Close()

	q, err := ch.QueueDeclare(
		queue.EventQueue, // name
		true,             // durable
		false,            // delete when unused
		false,            // exclusive
		false,            // no-wait
		nil,              // arguments
	)
	if err != nil {
		log.Fatal("Failed to declare queue:", err)
	}

	msgs, err := ch.Consume(
		q.Name,
		"",
		false, // autoAck = false for reliability
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		log.Fatal("Failed to register consumer:", err)
	}

	forever := make(chan bool)

	go func() {
		for d := range msgs {
			if err := sink.handle(d.Body); err != nil {
				log.Println("⚠️ Could not archive event:", err)
				// One redelivery attempt, then drop.
				if !d.Redelivered {
					d.Nack(false, true)
					continue
				}
			}
			d.Ack(false)
		}
	}()

	log.Println("📨 Worker running, waiting for campaign events...")
	<-forever
}

// eventSink decodes incoming events and keeps the delivery history in
// sync. A nil archive degrades to log-only mode.
type eventSink struct {
	archive *history.Log
}

// handle returns an error only when an attempt could not be archived.
// Malformed payloads are logged and dropped.
func (s *eventSink) handle(body []byte) error {
	var e queue.Event
	if err := json.Unmarshal(body, &e); err != nil {
		log.Println("⚠️ Invalid event, dropping:", err)
		return nil
	}

	log.Println("📨", describe(e))

	if e.Attempt != nil && s.archive != nil {
		return s.archive.Append(*e.Attempt)
	}
	return nil
}

func describe(e queue.Event) string {
	switch {
	case e.Attempt != nil:
		a := e.Attempt
		if a.Error != "" {
			return fmt.Sprintf("%s %s (%s): %s", a.Outcome, a.Phone, a.MessageType, a.Error)
		}
		return fmt.Sprintf("%s %s (%s)", a.Outcome, a.Phone, a.MessageType)
	case e.Progress != nil:
		p := e.Progress
		return fmt.Sprintf("%s: %d/%d processed, %d sent, %d failed, %d skipped",
			e.Type, p.Processed, p.TotalRecipients, p.Sent, p.Failed, p.Skipped)
	default:
		return e.Type
	}
}
