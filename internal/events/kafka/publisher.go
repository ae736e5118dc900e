package kafka

import (
	"context"
	"encoding/json"

	"github.com/segmentio/kafka-go"

	interfaces "github.com/sheikh-saqib/token-ledger-system/internal/interfaces"
	"github.com/sheikh-saqib/token-ledger-system/internal/models/events"
)

// Publisher writes transaction events to Kafka. Messages are keyed by account
// id so all events for one account land on the same partition in sequence
// order.
type Publisher struct {
	writer *kafka.Writer
}

func NewPublisher(brokers []string, topic string) *Publisher {
	return &Publisher{
		writer: &kafka.Writer{
			Addr:     kafka.TCP(brokers...),
			Topic:    topic,
			Balancer: &kafka.Hash{},
		},
	}
}

func (p *Publisher) Publish(ctx context.Context, event events.TransactionRecorded) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.AccountID),
		Value: data,
	})
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}

var _ interfaces.EventPublisher = (*Publisher)(nil)
