package screen

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/pjackim/webbuddy/internal/application/service"
	"github.com/pjackim/webbuddy/internal/application/usecase/notify"
	"github.com/pjackim/webbuddy/internal/domain/canvas"
	"github.com/pjackim/webbuddy/internal/domain/screen"
	"github.com/pjackim/webbuddy/pkg/apperror"
	"github.com/pjackim/webbuddy/pkg/logger"
)

type ScreenUseCase struct {
	store    canvas.Store
	relay    service.ScreenRelay
	notifier *notify.Notifier
	logger   logger.Logger
}

func NewScreenUseCase(s canvas.Store, r service.ScreenRelay, n *notify.Notifier, log logger.Logger) *ScreenUseCase {
	return &ScreenUseCase{store: s, relay: r, notifier: n, logger: log}
}

func (uc *ScreenUseCase) ListScreens(ctx context.Context) []screen.Screen {
	return uc.store.ListScreens()
}

func (uc *ScreenUseCase) CreateScreen(ctx context.Context, d screen.Draft) (*screen.Screen, error) {
	if err := d.Validate(); err != nil {
		return nil, apperror.NewInvalidInput(err.Error(), err)
	}
	sc := uc.store.CreateScreen(d)
	uc.notifier.Notify(canvas.EventScreenAdded, sc)
	return &sc, nil
}

func (uc *ScreenUseCase) UpdateScreen(ctx context.Context, id string, p screen.Patch) (*screen.Screen, error) {
	if err := p.Validate(); err != nil {
		return nil, apperror.NewInvalidInput(err.Error(), err)
	}
	sc, ok := uc.store.UpdateScreen(id, p)
	if !ok {
		return nil, apperror.NewNotFound("screen", id)
	}
	uc.notifier.Notify(canvas.EventScreenUpdated, sc)
	return &sc, nil
}

// DeleteScreen removes the screen and every asset placed on it. Each removed
// asset is also taken off the relay; if any of those calls fail the store
// change stands but nothing is broadcast.
func (uc *ScreenUseCase) DeleteScreen(ctx context.Context, id string) error {
	removed, ok := uc.store.DeleteScreen(id)
	if !ok {
		return apperror.NewNotFound("screen", id)
	}

	var errs []error
	for _, a := range removed {
		if err := uc.relay.Remove(ctx, a); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		uc.logger.Warn("screen deleted but relay removal failed",
			zap.String("screen_id", id),
			zap.Int("failed", len(errs)),
			zap.Int("cascaded", len(removed)),
		)
		return errors.Join(errs...)
	}

	for _, a := range removed {
		uc.notifier.Notify(canvas.EventAssetDeleted, canvas.Deleted{ID: a.Common().ID})
	}
	uc.notifier.Notify(canvas.EventScreenDeleted, canvas.Deleted{ID: id})
	return nil
}
