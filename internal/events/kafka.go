package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	kafkago "github.com/segmentio/kafka-go"
)

// KafkaConfig holds the Kafka connection settings.
type KafkaConfig struct {
	Brokers []string
	Topic   string
}

// KafkaPublisher writes events to Kafka, keyed by run ID so all events of a
// run land on the same partition.
type KafkaPublisher struct {
	mu      sync.Mutex
	writers map[string]*kafkago.Writer
	brokers []string
	topic   string
}

// NewKafkaPublisher creates a publisher. Writers are created lazily on the
// first publish.
func NewKafkaPublisher(cfg KafkaConfig) *KafkaPublisher {
	topic := cfg.Topic
	if topic == "" {
		topic = DefaultTopic
	}
	return &KafkaPublisher{
		writers: make(map[string]*kafkago.Writer),
		brokers: cfg.Brokers,
		topic:   topic,
	}
}

// Publish sends one event to the configured topic.
func (p *KafkaPublisher) Publish(ctx context.Context, e Event) error {
	msg, err := toMessage(e)
	if err != nil {
		return err
	}

	w := p.getOrCreateWriter(p.topic)
	if err := w.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("kafka publish to %s: %w", p.topic, err)
	}
	return nil
}

// Close closes all writers.
func (p *KafkaPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	var firstErr error
	for topic, w := range p.writers {
		if err := w.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("closing writer for topic %s: %w", topic, err)
		}
	}
	p.writers = make(map[string]*kafkago.Writer)
	return firstErr
}

func toMessage(e Event) (kafkago.Message, error) {
	value, err := json.Marshal(e)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("marshal event %s: %w", e.ID, err)
	}
	return kafkago.Message{
		Key:   []byte(e.RunID),
		Value: value,
		Headers: []kafkago.Header{
			{Key: "content-type", Value: []byte("application/json")},
			{Key: "event-type", Value: []byte(e.Type)},
			{Key: "event-id", Value: []byte(e.ID.String())},
		},
		Time: e.OccurredAt,
	}, nil
}

// getOrCreateWriter lazily creates a writer for a topic.
func (p *KafkaPublisher) getOrCreateWriter(topic string) *kafkago.Writer {
	p.mu.Lock()
	defer p.mu.Unlock()

	if w, ok := p.writers[topic]; ok {
		return w
	}

	w := &kafkago.Writer{
		Addr:         kafkago.TCP(p.brokers...),
		Topic:        topic,
		Balancer:     &kafkago.Hash{},
		BatchTimeout: 10 * time.Millisecond,
		RequiredAcks: kafkago.RequireAll,
		MaxAttempts:  3,
		WriteTimeout: 5 * time.Second,
	}
	p.writers[topic] = w
	return w
}
