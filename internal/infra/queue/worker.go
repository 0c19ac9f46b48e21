package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

var ErrMalformedEvent = errors.New("malformed meeting event")

// Notifier delivers the "meeting scheduled" confirmation.
type Notifier interface {
	SendMeetingScheduled(to, name string, event MeetingEvent) error
}

type Consumer interface {
	Consume(queue, consumer string, autoAck, exclusive, noLocal, noWait bool, args amqp.Table) (<-chan amqp.Delivery, error)
}

type Worker struct {
	Channel  Consumer
	Users    entity.ReferenceSource
	Notifier Notifier
}

func NewWorker(ch Consumer, users entity.ReferenceSource, notifier Notifier) *Worker {
	return &Worker{
		Channel:  ch,
		Users:    users,
		Notifier: notifier,
	}
}

// Start consumes queueName until ctx is cancelled or the channel closes.
func (w *Worker) Start(ctx context.Context, queueName string) error {
	msgs, err := w.Channel.Consume(
		queueName,
		"",
		false, // manual ack
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("register consumer: %w", err)
	}

	log.Printf("[worker] consuming %s", queueName)
	for {
		select {
		case <-ctx.Done():
			log.Printf("[worker] stopping")
			return nil
		case d, ok := <-msgs:
			if !ok {
				return errors.New("delivery channel closed")
			}
			if err := w.Handle(ctx, d.Body); err != nil {
				log.Printf("[worker] message %s rejected: %v", d.MessageId, err)
				d.Nack(false, false)
				continue
			}
			d.Ack(false)
		}
	}
}

// Handle processes one message body. A non-nil error means the message should
// be dead-lettered.
func (w *Worker) Handle(ctx context.Context, body []byte) error {
	var event MeetingEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedEvent, err)
	}
	if event.Type == "" || len(event.MeetingIDs) == 0 {
		return ErrMalformedEvent
	}

	switch event.Type {
	case EventMeetingCreated:
		return w.notifyCreator(ctx, event)
	default:
		log.Printf("[worker] ignoring %s event", event.Type)
		return nil
	}
}

func (w *Worker) notifyCreator(ctx context.Context, event MeetingEvent) error {
	if event.CreateBy == "" {
		return nil
	}

	found, err := w.Users.FindActive(ctx, entity.KindUser, []string{event.CreateBy}, []string{"email", "firstName"})
	if err != nil {
		return fmt.Errorf("lookup creator: %w", err)
	}

	creator, ok := found[event.CreateBy]
	if !ok || creator["email"] == "" {
		log.Printf("[worker] creator %s unavailable, skipping notification for meeting %s", event.CreateBy, event.MeetingIDs[0])
		return nil
	}

	if err := w.Notifier.SendMeetingScheduled(creator["email"], creator["firstName"], event); err != nil {
		return fmt.Errorf("send notification: %w", err)
	}
	log.Printf("[worker] notified %s about meeting %s", creator["email"], event.MeetingIDs[0])
	return nil
}
