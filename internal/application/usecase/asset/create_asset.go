package asset

import (
	"context"

	"go.uber.org/zap"

	"github.com/pjackim/webbuddy/internal/application/service"
	"github.com/pjackim/webbuddy/internal/application/usecase/notify"
	"github.com/pjackim/webbuddy/internal/domain/asset"
	"github.com/pjackim/webbuddy/internal/domain/canvas"
	"github.com/pjackim/webbuddy/pkg/apperror"
	"github.com/pjackim/webbuddy/pkg/logger"
)

type CreateAssetUseCase struct {
	store    canvas.Store
	relay    service.ScreenRelay
	notifier *notify.Notifier
	logger   logger.Logger
}

func NewCreateAssetUseCase(s canvas.Store, r service.ScreenRelay, n *notify.Notifier, log logger.Logger) *CreateAssetUseCase {
	return &CreateAssetUseCase{store: s, relay: r, notifier: n, logger: log}
}

// Execute does not check that d.ScreenID names an existing screen.
func (uc *CreateAssetUseCase) Execute(ctx context.Context, d asset.Draft) (asset.Asset, error) {
	if err := d.Validate(); err != nil {
		return nil, apperror.NewInvalidInput(err.Error(), err)
	}

	a := uc.store.CreateAsset(d)
	if err := uc.relay.Apply(ctx, a); err != nil {
		uc.logger.Warn("asset created but relay apply failed", zap.String("asset_id", a.Common().ID))
		return nil, err
	}

	uc.notifier.Notify(canvas.EventAssetAdded, a)
	return a, nil
}
