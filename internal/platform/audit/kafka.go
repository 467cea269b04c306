package audit

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/twmb/franz-go/pkg/kgo"
)

// KafkaPublisher buffers events and produces them to a Kafka topic from a
// single worker goroutine. Emit never blocks the caller beyond the buffer;
// when the buffer is full the event is dropped and counted in the log.
type KafkaPublisher struct {
	client *kgo.Client
	topic  string
	logger *slog.Logger

	events    chan Event
	done      chan struct{}
	closeOnce sync.Once
}

// NewKafkaPublisher connects to the given brokers. Returns nil (and no
// error) when brokers is empty, mirroring how optional infrastructure
// clients behave elsewhere in this codebase.
func NewKafkaPublisher(brokers []string, topic string, logger *slog.Logger) (*KafkaPublisher, error) {
	if len(brokers) == 0 {
		return nil, nil
	}
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.ProducerBatchMaxBytes(1<<20),
	)
	if err != nil {
		return nil, err
	}
	p := &KafkaPublisher{
		client: client,
		topic:  topic,
		logger: logger,
		events: make(chan Event, 256),
		done:   make(chan struct{}),
	}
	go p.worker()
	return p, nil
}

// Emit queues an event for delivery. The event ID and timestamp are filled
// in when absent.
func (p *KafkaPublisher) Emit(ctx context.Context, event Event) {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.At.IsZero() {
		event.At = time.Now().UTC()
	}
	select {
	case p.events <- event:
	default:
		p.logger.WarnContext(ctx, "audit buffer full, dropping event",
			"action", string(event.Action), "subject", event.Subject)
	}
}

func (p *KafkaPublisher) worker() {
	defer close(p.done)
	for event := range p.events {
		payload, err := json.Marshal(event)
		if err != nil {
			p.logger.Error("marshal audit event", "error", err)
			continue
		}
		record := &kgo.Record{
			Topic: p.topic,
			Key:   []byte(event.Subject),
			Value: payload,
		}
		p.client.Produce(context.Background(), record, func(_ *kgo.Record, err error) {
			if err != nil {
				p.logger.Error("produce audit event", "error", err, "action", string(event.Action))
			}
		})
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := p.client.Flush(ctx); err != nil {
		p.logger.Error("flush audit events on close", "error", err)
	}
	p.client.Close()
}

// Close drains the buffer, flushes in-flight produces, and releases the
// client.
func (p *KafkaPublisher) Close(ctx context.Context) error {
	p.closeOnce.Do(func() { close(p.events) })
	select {
	case <-p.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
