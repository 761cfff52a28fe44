package events

import (
	"context"
	"encoding/json"
	"fmt"
)

// Writer is satisfied by *broker.KafkaProducer.
type Writer interface {
	Publish(ctx context.Context, key, value []byte) error
}

type KafkaPublisher struct {
	writer Writer
}

func NewKafkaPublisher(w Writer) *KafkaPublisher {
	return &KafkaPublisher{writer: w}
}

func (p *KafkaPublisher) Publish(ctx context.Context, key, eventType string, payload any) error {
	event, err := NewEvent(eventType, payload)
	if err != nil {
		return fmt.Errorf("build %s event: %w", eventType, err)
	}
	value, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return p.writer.Publish(ctx, []byte(key), value)
}

// NoopPublisher drops every event. Used when no brokers are configured.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, string, string, any) error { return nil }
