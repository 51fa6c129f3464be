package event

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/pjackim/webbuddy/internal/application/service"
	"github.com/pjackim/webbuddy/internal/config"
	"github.com/pjackim/webbuddy/internal/domain/canvas"
	"github.com/pjackim/webbuddy/internal/domain/media"
	"github.com/pjackim/webbuddy/pkg/logger"
)

const (
	TopicCanvasEvents = "canvas.events"
	TopicMediaEvents  = "media.events"
)

type KafkaProducerClient struct {
	CanvasEventsWriter *kafka.Writer
	MediaEventsWriter  *kafka.Writer
	logger             logger.Logger
}

var _ service.EventPublisher = (*KafkaProducerClient)(nil)

func NewKafkaProducerClient(cfg config.Config, log logger.Logger) (*KafkaProducerClient, error) {
	brokers := cfg.Kafka.Brokers
	if len(brokers) == 0 {
		return nil, fmt.Errorf("config Kafka brokers not found")
	}

	// writer 'canvas.events'
	canvasWriter := &kafka.Writer{
		Addr:     kafka.TCP(brokers...),
		Topic:    TopicCanvasEvents,
		Balancer: &kafka.Hash{},
	}

	// writer 'media.events'
	mediaWriter := &kafka.Writer{
		Addr:     kafka.TCP(brokers...),
		Topic:    TopicMediaEvents,
		Balancer: &kafka.LeastBytes{},
	}

	l := log.With(zap.String("component", "kafka-producer"))
	l.Info("Initialize Kafka Producers successfully.", zap.Strings("brokers", brokers))

	return &KafkaProducerClient{
		CanvasEventsWriter: canvasWriter,
		MediaEventsWriter:  mediaWriter,
		logger:             l,
	}, nil
}

// PublishCanvasEvent keys by event name so one kind of change stays ordered
// within a partition.
func (c *KafkaProducerClient) PublishCanvasEvent(ctx context.Context, ev canvas.Event) error {
	if ev.OccurredAt.IsZero() {
		ev.OccurredAt = time.Now().UTC()
	}
	return c.write(ctx, c.CanvasEventsWriter, ev.Name, ev)
}

func (c *KafkaProducerClient) PublishMediaEvent(ctx context.Context, ev media.StoredEvent) error {
	return c.write(ctx, c.MediaEventsWriter, ev.StoredFilename, ev)
}

func (c *KafkaProducerClient) write(ctx context.Context, w *kafka.Writer, key string, payload any) error {
	value, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal event for %s: %w", w.Topic, err)
	}
	if err := w.WriteMessages(ctx, kafka.Message{Key: []byte(key), Value: value}); err != nil {
		return fmt.Errorf("write to %s: %w", w.Topic, err)
	}
	return nil
}

func (c *KafkaProducerClient) Close() {
	if c.CanvasEventsWriter != nil {
		c.CanvasEventsWriter.Close()
	}
	if c.MediaEventsWriter != nil {
		c.MediaEventsWriter.Close()
	}
	c.logger.Info("Closed Kafka Producers")
}

// NopPublisher drops events; used when no brokers are configured.
type NopPublisher struct{}

func (NopPublisher) PublishCanvasEvent(context.Context, canvas.Event) error    { return nil }
func (NopPublisher) PublishMediaEvent(context.Context, media.StoredEvent) error { return nil }
