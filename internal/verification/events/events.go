// Package events announces completed verdicts on a Kafka topic.
package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kerr"
	"github.com/twmb/franz-go/pkg/kgo"

	"ptacheck/internal/verification/models"
	"ptacheck/internal/verification/ports"
	"ptacheck/pkg/requestcontext"
)

// DefaultTopic carries one message per definitive verdict, keyed by IMEI.
const DefaultTopic = "ptacheck.verdicts"

// VerdictEvent is the message body. Snapshots are never published.
type VerdictEvent struct {
	IMEI         string    `json:"imei"`
	Status       string    `json:"status"`
	DeviceModel  string    `json:"device_model,omitempty"`
	ErrorMessage string    `json:"error_message,omitempty"`
	VerifiedAt   time.Time `json:"verified_at"`
	RequestID    string    `json:"request_id,omitempty"`
}

// NewVerdictEvent builds the event for v.
func NewVerdictEvent(ctx context.Context, v models.Verdict) VerdictEvent {
	e := VerdictEvent{
		IMEI:         v.IMEI.String(),
		Status:       string(v.Status),
		ErrorMessage: v.ErrorMessage,
		VerifiedAt:   v.VerifiedAt.UTC(),
		RequestID:    requestcontext.RequestID(ctx),
	}
	if v.Details != nil {
		e.DeviceModel = v.Details.DeviceModel
	}
	return e
}

var (
	_ ports.VerdictPublisher = (*KafkaPublisher)(nil)
	_ ports.VerdictPublisher = NopPublisher{}
)

// KafkaPublisher produces verdict events with franz-go.
type KafkaPublisher struct {
	client *kgo.Client
	topic  string
	logger *slog.Logger
}

// Option configures a KafkaPublisher.
type Option func(*KafkaPublisher)

func WithLogger(logger *slog.Logger) Option {
	return func(p *KafkaPublisher) {
		p.logger = logger
	}
}

// NewKafkaPublisher connects to brokers. The client is lazy; connection
// errors surface on the first publish.
func NewKafkaPublisher(brokers []string, topic string, opts ...Option) (*KafkaPublisher, error) {
	if len(brokers) == 0 {
		return nil, errors.New("kafka brokers are required")
	}
	if topic == "" {
		topic = DefaultTopic
	}
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.DefaultProduceTopic(topic),
		kgo.RequiredAcks(kgo.AllISRAcks()),
		kgo.ProducerLinger(0),
	)
	if err != nil {
		return nil, fmt.Errorf("create kafka client: %w", err)
	}

	p := &KafkaPublisher{client: client, topic: topic, logger: slog.Default()}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// EnsureTopic creates the topic if it does not exist yet.
func (p *KafkaPublisher) EnsureTopic(ctx context.Context, partitions int32, replicationFactor int16) error {
	admin := kadm.NewClient(p.client)
	resps, err := admin.CreateTopics(ctx, partitions, replicationFactor, nil, p.topic)
	if err != nil {
		return fmt.Errorf("create topic %s: %w", p.topic, err)
	}
	for _, r := range resps {
		if r.Err != nil && !errors.Is(r.Err, kerr.TopicAlreadyExists) {
			return fmt.Errorf("create topic %s: %w", r.Topic, r.Err)
		}
	}
	return nil
}

// PublishVerdict produces synchronously so callers see delivery errors.
func (p *KafkaPublisher) PublishVerdict(ctx context.Context, v models.Verdict) error {
	body, err := json.Marshal(NewVerdictEvent(ctx, v))
	if err != nil {
		return fmt.Errorf("encode verdict event: %w", err)
	}
	rec := &kgo.Record{
		Key:   []byte(v.IMEI.String()),
		Value: body,
		Headers: []kgo.RecordHeader{
			{Key: "status", Value: []byte(v.Status)},
		},
	}
	if err := p.client.ProduceSync(ctx, rec).FirstErr(); err != nil {
		return fmt.Errorf("produce verdict event: %w", err)
	}
	p.logger.DebugContext(ctx, "verdict event published",
		"topic", p.topic,
		"imei", v.IMEI.String(),
	)
	return nil
}

// Health pings the brokers.
func (p *KafkaPublisher) Health(ctx context.Context) error {
	return p.client.Ping(ctx)
}

// Close flushes buffered records and closes the client.
func (p *KafkaPublisher) Close() {
	p.client.Close()
}

// NopPublisher drops every event. Used when Kafka is not configured.
type NopPublisher struct{}

func (NopPublisher) PublishVerdict(context.Context, models.Verdict) error {
	return nil
}
