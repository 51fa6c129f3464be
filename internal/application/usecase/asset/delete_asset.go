package asset

import (
	"context"

	"go.uber.org/zap"

	"github.com/pjackim/webbuddy/internal/application/service"
	"github.com/pjackim/webbuddy/internal/application/usecase/notify"
	"github.com/pjackim/webbuddy/internal/domain/canvas"
	"github.com/pjackim/webbuddy/pkg/apperror"
	"github.com/pjackim/webbuddy/pkg/logger"
)

type DeleteAssetUseCase struct {
	store    canvas.Store
	relay    service.ScreenRelay
	notifier *notify.Notifier
	logger   logger.Logger
}

func NewDeleteAssetUseCase(s canvas.Store, r service.ScreenRelay, n *notify.Notifier, log logger.Logger) *DeleteAssetUseCase {
	return &DeleteAssetUseCase{store: s, relay: r, notifier: n, logger: log}
}

func (uc *DeleteAssetUseCase) Execute(ctx context.Context, assetID string) error {
	removed, ok := uc.store.DeleteAsset(assetID)
	if !ok {
		return apperror.NewNotFound("asset", assetID)
	}
	if err := uc.relay.Remove(ctx, removed); err != nil {
		uc.logger.Warn("asset deleted but relay remove failed", zap.String("asset_id", assetID))
		return err
	}

	uc.notifier.Notify(canvas.EventAssetDeleted, canvas.Deleted{ID: assetID})
	return nil
}
