package broker

import (
	"context"
	"time"

	"github.com/segmentio/kafka-go"
)

type Config struct {
	Brokers []string
	Topic   string
	GroupID string
}

// Message is the part of a Kafka record the listeners care about.
type Message struct {
	Key   []byte
	Value []byte
	Time  time.Time
}

// Consumer reads messages one at a time, committing offsets as it goes.
type Consumer interface {
	ReadMessage(ctx context.Context) (Message, error)
	Close() error
}

type KafkaConsumer struct {
	reader *kafka.Reader
}

var _ Consumer = (*KafkaConsumer)(nil)

func NewConsumer(cfg *Config) *KafkaConsumer {
	return &KafkaConsumer{
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers:  cfg.Brokers,
			Topic:    cfg.Topic,
			GroupID:  cfg.GroupID,
			MinBytes: 1,
			MaxBytes: 10e6,
		}),
	}
}

func (c *KafkaConsumer) ReadMessage(ctx context.Context) (Message, error) {
	m, err := c.reader.ReadMessage(ctx)
	if err != nil {
		return Message{}, err
	}
	return Message{Key: m.Key, Value: m.Value, Time: m.Time}, nil
}

func (c *KafkaConsumer) Close() error {
	return c.reader.Close()
}
