// Package kafka publishes seed graph edges to a Kafka topic.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/IBM/sarama"
	"github.com/aretw0/txgraph/internal/logging"
	"github.com/aretw0/txgraph/pkg/edges"
)

// Message is the JSON payload of one published edge.
type Message struct {
	RunID      string `json:"run_id,omitempty"`
	Seed       string `json:"seed"`
	Payer      string `json:"payer"`
	Recipient  string `json:"recipient"`
	Annotation string `json:"annotation,omitempty"`
}

// Sink implements ports.EdgeSink on top of a sarama SyncProducer.
// Messages are keyed by seed so one seed's edges land on one partition.
type Sink struct {
	producer sarama.SyncProducer
	topic    string
	runID    string
	logger   *slog.Logger
}

// Option configures the Sink.
type Option func(*Sink)

// WithRunID tags every message with the run identifier.
func WithRunID(id string) Option {
	return func(s *Sink) {
		s.runID = id
	}
}

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Sink) {
		s.logger = logger
	}
}

// NewConfig returns the producer configuration the sink relies on.
func NewConfig() *sarama.Config {
	cfg := sarama.NewConfig()
	cfg.ClientID = "txgraph"
	cfg.Producer.RequiredAcks = sarama.WaitForAll
	cfg.Producer.Return.Successes = true
	cfg.Producer.Return.Errors = true
	return cfg
}

// New connects a SyncProducer to brokers.
func New(brokers []string, topic string, opts ...Option) (*Sink, error) {
	if topic == "" {
		return nil, fmt.Errorf("kafka topic cannot be empty")
	}
	producer, err := sarama.NewSyncProducer(brokers, NewConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka producer: %w", err)
	}
	return NewFromProducer(producer, topic, opts...), nil
}

// NewFromProducer wraps an existing producer.
func NewFromProducer(producer sarama.SyncProducer, topic string, opts ...Option) *Sink {
	s := &Sink{
		producer: producer,
		topic:    topic,
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Publish sends one message per edge in a single batch.
func (s *Sink) Publish(ctx context.Context, seed string, list []edges.Edge) error {
	if len(list) == 0 {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	msgs := make([]*sarama.ProducerMessage, 0, len(list))
	for _, e := range list {
		payload, err := json.Marshal(Message{
			RunID:      s.runID,
			Seed:       seed,
			Payer:      e.Payer,
			Recipient:  e.Recipient,
			Annotation: e.Annotation,
		})
		if err != nil {
			return fmt.Errorf("failed to encode edge: %w", err)
		}
		msgs = append(msgs, &sarama.ProducerMessage{
			Topic: s.topic,
			Key:   sarama.StringEncoder(seed),
			Value: sarama.ByteEncoder(payload),
		})
	}

	if err := s.producer.SendMessages(msgs); err != nil {
		return fmt.Errorf("failed to publish %d edges to %s: %w", len(msgs), s.topic, err)
	}

	s.logger.Debug("Published edges", "topic", s.topic, "seed", seed, "count", len(msgs))
	return nil
}

// Close closes the producer.
func (s *Sink) Close() error {
	return s.producer.Close()
}
