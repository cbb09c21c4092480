package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/twmb/franz-go/pkg/kgo"
	"go.uber.org/zap"
)

// Producer is the subset of *kgo.Client used for publishing
type Producer interface {
	ProduceSync(ctx context.Context, rs ...*kgo.Record) kgo.ProduceResults
}

type KafkaNotifierConfig struct {
	Brokers  []string
	ClientID string
	Topic    string
}

// KafkaNotifier publishes booking events keyed by booking ID
type KafkaNotifier struct {
	producer Producer
	client   *kgo.Client
	topic    string
	log      *zap.Logger
}

// NewKafkaNotifier dials the brokers and verifies the connection
func NewKafkaNotifier(ctx context.Context, cfg KafkaNotifierConfig, log *zap.Logger) (*KafkaNotifier, error) {
	if len(cfg.Brokers) == 0 {
		return nil, fmt.Errorf("kafka brokers are required")
	}
	if cfg.Topic == "" {
		cfg.Topic = EventBookingConfirmed
	}

	client, err := kgo.NewClient(
		kgo.SeedBrokers(cfg.Brokers...),
		kgo.ClientID(cfg.ClientID),
		kgo.DefaultProduceTopic(cfg.Topic),
		kgo.AllowAutoTopicCreation(),
		kgo.ProducerLinger(5*time.Millisecond),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka client: %w", err)
	}

	if err := client.Ping(ctx); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping Kafka: %w", err)
	}

	n := NewKafkaNotifierWithProducer(client, cfg.Topic, log)
	n.client = client
	return n, nil
}

func NewKafkaNotifierWithProducer(producer Producer, topic string, log *zap.Logger) *KafkaNotifier {
	return &KafkaNotifier{
		producer: producer,
		topic:    topic,
		log:      log.With(zap.String("notifier", "kafka")),
	}
}

func (n *KafkaNotifier) NotifyBookingConfirmed(ctx context.Context, event BookingConfirmed) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal booking event: %w", err)
	}

	record := &kgo.Record{
		Topic: n.topic,
		Key:   []byte(event.BookingID),
		Value: payload,
		Headers: []kgo.RecordHeader{
			{Key: "event_type", Value: []byte(event.EventType)},
		},
	}

	if err := n.producer.ProduceSync(ctx, record).FirstErr(); err != nil {
		n.log.Warn("Failed to publish booking event",
			zap.String("booking_id", event.BookingID),
			zap.Error(err))
		return fmt.Errorf("publish %s for booking %s: %w", event.EventType, event.BookingID, err)
	}

	n.log.Debug("Booking event published",
		zap.String("topic", n.topic),
		zap.String("booking_id", event.BookingID))
	return nil
}

// Close flushes and closes the underlying client
func (n *KafkaNotifier) Close() {
	if n.client != nil {
		n.client.Close()
	}
}
