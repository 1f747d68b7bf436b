package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"github.com/koyo-works/crm-backend/pkg/logging"
)

// Topic carries CRM activity events consumed by reporting tooling.
const Topic = "crm-activity"

// Event types published by the handlers.
const (
	TypeClientCreated   = "client.created"
	TypeProspectCreated = "prospect.created"
	TypeContentCreated  = "content_item.created"
)

// Event is the JSON payload written to the activity topic.
type Event struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	EntityID   int64     `json:"entity_id"`
	UserID     int64     `json:"user_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Publisher writes activity events to Kafka. A Publisher built without
// brokers is a no-op, so handlers can publish unconditionally.
type Publisher struct {
	writer *kafka.Writer
	logger *logging.Logger
}

func NewPublisher(brokers []string, logger *logging.Logger) *Publisher {
	p := &Publisher{logger: logger}
	if len(brokers) == 0 {
		return p
	}

	p.writer = kafka.NewWriter(kafka.WriterConfig{
		Brokers:      brokers,
		Topic:        Topic,
		Balancer:     &kafka.LeastBytes{},
		Async:        false,
		BatchSize:    10,
		BatchTimeout: 1 * time.Second,
		RequiredAcks: 1,
	})
	return p
}

// Publish writes one activity event. Failures are logged and swallowed; an
// unavailable broker must never fail the request that triggered the event.
func (p *Publisher) Publish(ctx context.Context, eventType string, entityID, userID int64) {
	if p.writer == nil {
		return
	}

	event := Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		EntityID:   entityID,
		UserID:     userID,
		OccurredAt: time.Now().UTC(),
	}

	value, err := json.Marshal(event)
	if err != nil {
		p.logger.LogKafkaMessage(Topic, eventType, false)
		return
	}

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(eventType),
		Value: value,
	})
	p.logger.LogKafkaMessage(Topic, eventType, err == nil)
}

// Close flushes and closes the underlying writer.
func (p *Publisher) Close() error {
	if p.writer == nil {
		return nil
	}
	return p.writer.Close()
}
