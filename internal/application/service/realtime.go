package service

import (
	"context"

	"github.com/pjackim/webbuddy/internal/domain/asset"
	"github.com/pjackim/webbuddy/internal/domain/canvas"
	"github.com/pjackim/webbuddy/internal/domain/media"
)

// Broadcaster fans an event out to every live subscriber. It never fails
// from the caller's point of view.
type Broadcaster interface {
	Broadcast(event string, payload any)
}

// ScreenRelay mirrors asset changes onto the external screen controller.
type ScreenRelay interface {
	Apply(ctx context.Context, a asset.Asset) error
	Remove(ctx context.Context, a asset.Asset) error
}

type EventPublisher interface {
	PublishCanvasEvent(ctx context.Context, ev canvas.Event) error
	PublishMediaEvent(ctx context.Context, ev media.StoredEvent) error
}
