package reminder

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"LendIt/internal/model"

	"github.com/IBM/sarama"
	"go.uber.org/zap"
)

// Sink доставляет сработавшее напоминание пользователю.
type Sink interface {
	Deliver(ctx context.Context, r model.Reminder) error
	Close() error
}

// LogSink пишет напоминания в лог.
type LogSink struct {
	logger *zap.SugaredLogger
}

func NewLogSink(logger *zap.SugaredLogger) *LogSink {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &LogSink{logger: logger}
}

func (s *LogSink) Deliver(_ context.Context, r model.Reminder) error {
	s.logger.Infow(r.Title, "body", r.Body, "item_id", r.ItemID, "kind", r.Kind, "fire_at", r.FireAt)
	return nil
}

func (s *LogSink) Close() error { return nil }

// reminderEvent — JSON-сообщение, публикуемое в Kafka.
type reminderEvent struct {
	ID       string    `json:"id"`
	ItemID   string    `json:"itemId"`
	Kind     string    `json:"kind"`
	Title    string    `json:"title"`
	Body     string    `json:"body"`
	FireAt   time.Time `json:"fireAt"`
	Produced time.Time `json:"producedAt"`
}

// KafkaSink публикует напоминания в топик Kafka; ключ сообщения — id записи.
type KafkaSink struct {
	producer sarama.SyncProducer
	topic    string
	logger   *zap.SugaredLogger
	now      func() time.Time
}

// NewKafkaSink создаёт синхронного продюсера с подтверждением от всех реплик.
func NewKafkaSink(brokers []string, topic string, logger *zap.SugaredLogger) (*KafkaSink, error) {
	if len(brokers) == 0 {
		return nil, fmt.Errorf("kafka sink: no brokers configured")
	}
	cfg := sarama.NewConfig()
	cfg.Producer.Return.Successes = true
	cfg.Producer.Return.Errors = true
	cfg.Producer.RequiredAcks = sarama.WaitForAll
	cfg.Producer.Retry.Max = 3
	cfg.Producer.Retry.Backoff = 100 * time.Millisecond
	cfg.Version = sarama.V2_8_0_0
	cfg.Net.DialTimeout = 10 * time.Second

	p, err := sarama.NewSyncProducer(brokers, cfg)
	if err != nil {
		return nil, fmt.Errorf("kafka sink: create producer: %w", err)
	}
	return NewKafkaSinkWithProducer(p, topic, logger), nil
}

func NewKafkaSinkWithProducer(p sarama.SyncProducer, topic string, logger *zap.SugaredLogger) *KafkaSink {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &KafkaSink{producer: p, topic: topic, logger: logger, now: time.Now}
}

func (s *KafkaSink) Deliver(_ context.Context, r model.Reminder) error {
	data, err := json.Marshal(reminderEvent{
		ID:       r.ID,
		ItemID:   r.ItemID,
		Kind:     string(r.Kind),
		Title:    r.Title,
		Body:     r.Body,
		FireAt:   r.FireAt.UTC(),
		Produced: s.now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("kafka sink: marshal: %w", err)
	}
	msg := &sarama.ProducerMessage{
		Topic: s.topic,
		Key:   sarama.StringEncoder(r.ItemID),
		Value: sarama.ByteEncoder(data),
		Headers: []sarama.RecordHeader{
			{Key: []byte("reminder-kind"), Value: []byte(r.Kind)},
		},
	}
	partition, offset, err := s.producer.SendMessage(msg)
	if err != nil {
		return fmt.Errorf("kafka sink: send: %w", err)
	}
	s.logger.Infow("reminder published", "topic", s.topic, "partition", partition, "offset", offset, "item_id", r.ItemID)
	return nil
}

func (s *KafkaSink) Close() error { return s.producer.Close() }
