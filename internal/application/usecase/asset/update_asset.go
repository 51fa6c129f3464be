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

type UpdateAssetUseCase struct {
	store    canvas.Store
	relay    service.ScreenRelay
	notifier *notify.Notifier
	logger   logger.Logger
}

func NewUpdateAssetUseCase(s canvas.Store, r service.ScreenRelay, n *notify.Notifier, log logger.Logger) *UpdateAssetUseCase {
	return &UpdateAssetUseCase{store: s, relay: r, notifier: n, logger: log}
}

type UpdateAssetInput struct {
	AssetID string
	Patch   asset.Patch
}

func (uc *UpdateAssetUseCase) Execute(ctx context.Context, in UpdateAssetInput) (asset.Asset, error) {
	if err := in.Patch.Validate(); err != nil {
		return nil, apperror.NewInvalidInput(err.Error(), err)
	}

	a, ok := uc.store.UpdateAsset(in.AssetID, in.Patch)
	if !ok {
		return nil, apperror.NewNotFound("asset", in.AssetID)
	}
	if err := uc.relay.Apply(ctx, a); err != nil {
		uc.logger.Warn("asset updated but relay apply failed", zap.String("asset_id", in.AssetID))
		return nil, err
	}

	uc.notifier.Notify(canvas.EventAssetUpdated, a)
	return a, nil
}
