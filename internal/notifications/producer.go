package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"stagepass/internal/shared/config"
	"stagepass/pkg/logger"

	"github.com/IBM/sarama"
)

// Event types published on the seat lifecycle topic
const (
	EventSeatsBooked  = "seats.booked"
	EventHoldsExpired = "seats.hold-expired"
)

// SeatLifecycleEvent is the wire shape of a lifecycle message. EventID keys
// the partition so messages for one event stay ordered.
type SeatLifecycleEvent struct {
	Type      string    `json:"type"`
	EventID   string    `json:"event_id"`
	SeatIDs   []string  `json:"seat_ids,omitempty"`
	HolderID  string    `json:"holder_id,omitempty"`
	Count     int       `json:"count,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Producer publishes seat lifecycle events. A nil *Producer is valid and
// drops every publish, so callers never branch on whether Kafka is enabled.
type Producer struct {
	producer sarama.SyncProducer
	topic    string
}

func NewProducer(cfg *config.KafkaConfig) (*Producer, error) {
	if !cfg.Enabled {
		return nil, nil
	}

	saramaConfig := sarama.NewConfig()
	saramaConfig.Producer.RequiredAcks = sarama.WaitForAll
	saramaConfig.Producer.Retry.Max = cfg.RetryMax
	saramaConfig.Producer.Return.Successes = true
	saramaConfig.Producer.Compression = sarama.CompressionSnappy
	saramaConfig.Producer.Idempotent = true
	saramaConfig.Net.MaxOpenRequests = 1
	saramaConfig.Producer.Partitioner = sarama.NewHashPartitioner
	saramaConfig.Producer.Timeout = time.Duration(cfg.TimeoutMs) * time.Millisecond

	producer, err := sarama.NewSyncProducer(cfg.Brokers, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka producer: %w", err)
	}

	return &Producer{producer: producer, topic: cfg.SeatTopic}, nil
}

// PublishSeatsBooked announces a confirmed booking
func (p *Producer) PublishSeatsBooked(ctx context.Context, eventID, holderID string, seatIDs []string) {
	p.publish(ctx, SeatLifecycleEvent{
		Type:      EventSeatsBooked,
		EventID:   eventID,
		HolderID:  holderID,
		SeatIDs:   seatIDs,
		Count:     len(seatIDs),
		Timestamp: time.Now().UTC(),
	})
}

// PublishHoldsExpired announces a sweep that reclaimed expired holds
func (p *Producer) PublishHoldsExpired(ctx context.Context, count int) {
	p.publish(ctx, SeatLifecycleEvent{
		Type:      EventHoldsExpired,
		Count:     count,
		Timestamp: time.Now().UTC(),
	})
}

func (p *Producer) publish(ctx context.Context, event SeatLifecycleEvent) {
	if p == nil || p.producer == nil {
		return
	}

	payload, err := json.Marshal(event)
	if err != nil {
		logger.GetDefault().ErrorWithContext(ctx, "failed to marshal lifecycle event", err, map[string]interface{}{
			"type": event.Type,
		})
		return
	}

	msg := &sarama.ProducerMessage{
		Topic: p.topic,
		Value: sarama.ByteEncoder(payload),
	}
	if event.EventID != "" {
		msg.Key = sarama.StringEncoder(event.EventID)
	}

	partition, offset, err := p.producer.SendMessage(msg)
	if err != nil {
		logger.GetDefault().ErrorWithContext(ctx, "failed to publish lifecycle event", err, map[string]interface{}{
			"type":  event.Type,
			"topic": p.topic,
		})
		return
	}

	logger.GetDefault().DebugWithContext(ctx, "lifecycle event published", map[string]interface{}{
		"type":      event.Type,
		"topic":     p.topic,
		"partition": partition,
		"offset":    offset,
	})
}

func (p *Producer) Close() error {
	if p == nil || p.producer == nil {
		return nil
	}
	return p.producer.Close()
}
