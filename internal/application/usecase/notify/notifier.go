package notify

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/pjackim/webbuddy/internal/application/service"
	"github.com/pjackim/webbuddy/internal/domain/canvas"
	"github.com/pjackim/webbuddy/pkg/logger"
)

// Notifier tells live viewers about a canvas change and mirrors it to the
// event stream in the background.
type Notifier struct {
	hub       service.Broadcaster
	publisher service.EventPublisher
	logger    logger.Logger
}

func NewNotifier(hub service.Broadcaster, pub service.EventPublisher, log logger.Logger) *Notifier {
	return &Notifier{hub: hub, publisher: pub, logger: log}
}

func (n *Notifier) Notify(event string, payload any) {
	n.hub.Broadcast(event, payload)

	ev := canvas.Event{Name: event, Data: payload, OccurredAt: time.Now().UTC()}
	go func() {
		if err := n.publisher.PublishCanvasEvent(context.Background(), ev); err != nil {
			n.logger.Error("Failed to publish Kafka canvas event", err, zap.String("event", event))
		}
	}()
}
