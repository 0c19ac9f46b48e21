package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	EventMeetingCreated = "meeting.created"
	EventMeetingDeleted = "meeting.deleted"
)

// MeetingEvent is published after a meeting write has been committed.
type MeetingEvent struct {
	EventID    string    `json:"event_id"`
	Type       string    `json:"type"`
	MeetingIDs []string  `json:"meeting_ids"`
	Agenda     string    `json:"agenda,omitempty"`
	DateTime   time.Time `json:"date_time,omitzero"`
	Location   string    `json:"location,omitempty"`
	CreateBy   string    `json:"create_by,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

func routingKey(eventType string) (string, error) {
	switch eventType {
	case EventMeetingCreated:
		return RoutingCreated, nil
	case EventMeetingDeleted:
		return RoutingDeleted, nil
	}
	return "", fmt.Errorf("unknown event type %q", eventType)
}

// Publisher is the part of *amqp.Channel the producer needs.
type Publisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

type RabbitMQProducer struct {
	Ch Publisher
}

func NewProducer(ch Publisher) *RabbitMQProducer {
	return &RabbitMQProducer{Ch: ch}
}

func (p *RabbitMQProducer) PublishMeetingEvent(ctx context.Context, event MeetingEvent) error {
	key, err := routingKey(event.Type)
	if err != nil {
		return err
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}

	err = p.Ch.PublishWithContext(ctx,
		ExchangeName,
		key,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			MessageId:    event.EventID,
			Type:         event.Type,
			Timestamp:    event.OccurredAt,
			Body:         body,
			DeliveryMode: amqp.Persistent,
		},
	)
	if err != nil {
		return fmt.Errorf("publish to rabbitmq: %w", err)
	}
	return nil
}

// LogProducer stands in for RabbitMQ when no broker is configured.
type LogProducer struct{}

func (LogProducer) PublishMeetingEvent(_ context.Context, event MeetingEvent) error {
	log.Printf("[events] %s %v (broker disabled)", event.Type, event.MeetingIDs)
	return nil
}
