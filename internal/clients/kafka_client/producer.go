package kafka_client

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/confluentinc/confluent-kafka-go/kafka"

	"github.com/spacesedan/scrapeflow/internal/models"
)

const KAFKA_TOPIC_RUN_EVENTS = "scrapeflow-run-events"

// Producer publishes per-request run summaries. Delivery is best effort; the
// request that triggered the event never waits on it.
type Producer struct {
	producer *kafka.Producer
}

func NewProducer(broker string) (*Producer, error) {
	slog.Info("[KafkaClient] Initializing Kafka Producer...")

	p, err := kafka.NewProducer(&kafka.ConfigMap{
		"bootstrap.servers":   broker,
		"security.protocol":   "PLAINTEXT",
		"api.version.request": "true",
		"acks":                "all",
	})
	if err != nil {
		return nil, fmt.Errorf("[KafkaClient] Failed to create producer: %w", err)
	}

	producer := &Producer{producer: p}
	go producer.drainDeliveryReports()

	slog.Info("[KafkaClient] Kafka Producer initialized successfully")
	return producer, nil
}

func (p *Producer) drainDeliveryReports() {
	for e := range p.producer.Events() {
		if m, ok := e.(*kafka.Message); ok && m.TopicPartition.Error != nil {
			slog.Warn("[KafkaClient] Delivery failed",
				slog.String("error", m.TopicPartition.Error.Error()))
		}
	}
}

// RecordRun publishes a run summary to the run-events topic, keyed by run id.
func (p *Producer) RecordRun(ctx context.Context, event models.ScrapeRunEvent) error {
	jsonData, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("[KafkaClient] failed to marshal run event: %w", err)
	}

	topic := KAFKA_TOPIC_RUN_EVENTS
	msg := &kafka.Message{
		TopicPartition: kafka.TopicPartition{Topic: &topic, Partition: kafka.PartitionAny},
		Key:            []byte(event.RunID),
		Value:          jsonData,
	}

	for i := 0; i < 3; i++ {
		err = p.producer.Produce(msg, nil)
		if err == nil {
			return nil
		}
		slog.Warn("[KafkaClient] Failed to produce run event, retrying...",
			slog.Int("attempt", i+1),
			slog.String("error", err.Error()))
		time.Sleep(250 * time.Millisecond)
	}

	return fmt.Errorf("[KafkaClient] failed to produce run event: %w", err)
}

func (p *Producer) Close() {
	slog.Info("[KafkaClient] Shutting down Kafka producer...")
	if remaining := p.producer.Flush(5000); remaining > 0 {
		slog.Warn("[KafkaClient] Not all messages were delivered before shutdown",
			slog.Int("remaining", remaining))
	}
	p.producer.Close()
	slog.Info("[KafkaClient] Kafka producer shut down")
}
