package event

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/pjackim/webbuddy/internal/domain/media"
	"github.com/pjackim/webbuddy/pkg/logger"
)

// MediaEventHandler processes one decoded media event. Failed calls are
// retried with backoff; once retries run out the event is logged and skipped.
type MediaEventHandler func(ctx context.Context, payload media.StoredEvent) error

// MessageReader is the subset of *kafka.Reader the consumer loop needs.
type MessageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
}

func NewMediaEventsReader(brokers []string, groupID string) *kafka.Reader {
	return kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		Topic:    TopicMediaEvents,
		GroupID:  groupID,
		MinBytes: 10e3,
		MaxBytes: 10e6,
	})
}

type consumerOptions struct {
	retries         uint64
	initialInterval time.Duration
	maxInterval     time.Duration
}

type ConsumerOption func(*consumerOptions)

// WithRetry sets how many times a failing handler is retried and the first
// backoff interval, which doubles up to ten times its value.
func WithRetry(retries uint64, initial time.Duration) ConsumerOption {
	return func(o *consumerOptions) {
		o.retries = retries
		o.initialInterval = initial
		o.maxInterval = 10 * initial
	}
}

func (o consumerOptions) backOff(ctx context.Context) backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = o.initialInterval
	b.MaxInterval = o.maxInterval
	b.MaxElapsedTime = 0
	return backoff.WithContext(backoff.WithMaxRetries(b, o.retries), ctx)
}

// ConsumeMediaEvents runs until ctx is cancelled. The reader's position moves
// past a message as soon as it is fetched, so a message whose handler keeps
// failing is committed after the last retry rather than redelivered.
func ConsumeMediaEvents(ctx context.Context, r MessageReader, handle MediaEventHandler, log logger.Logger, opts ...ConsumerOption) error {
	o := consumerOptions{retries: 3, initialInterval: 500 * time.Millisecond, maxInterval: 5 * time.Second}
	for _, opt := range opts {
		opt(&o)
	}

	for {
		msg, err := r.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, context.Canceled) {
				return nil
			}
			log.Error("Failed to read message from Kafka", err)
			continue
		}

		log.Debug("Received message", zap.String("topic", msg.Topic), zap.String("key", string(msg.Key)))

		var payload media.StoredEvent
		if err := json.Unmarshal(msg.Value, &payload); err != nil {
			log.Warn("Failed to unmarshal event, skipping", zap.Error(err))
			commitMessage(ctx, r, msg, log)
			continue
		}

		attempt := 0
		err = backoff.Retry(func() error {
			attempt++
			if err := handle(ctx, payload); err != nil {
				log.Warn("media event handler failed",
					zap.String("stored_filename", payload.StoredFilename),
					zap.Int("attempt", attempt),
					zap.Error(err),
				)
				return err
			}
			return nil
		}, o.backOff(ctx))
		if ctx.Err() != nil {
			// left uncommitted for the next consumer in the group
			return nil
		}
		if err != nil {
			log.Error("Dropping media event after retries", err,
				zap.String("stored_filename", payload.StoredFilename),
				zap.Int64("offset", msg.Offset),
			)
		}

		commitMessage(ctx, r, msg, log)
	}
}

func commitMessage(ctx context.Context, r MessageReader, msg kafka.Message, log logger.Logger) {
	if err := r.CommitMessages(ctx, msg); err != nil {
		log.Error("Failed to commit message", err)
	}
}
