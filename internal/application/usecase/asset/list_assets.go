package asset

import (
	"context"

	"github.com/pjackim/webbuddy/internal/domain/asset"
	"github.com/pjackim/webbuddy/internal/domain/canvas"
)

type ListAssetsUseCase struct {
	store canvas.Store
}

func NewListAssetsUseCase(s canvas.Store) *ListAssetsUseCase {
	return &ListAssetsUseCase{store: s}
}

// Execute lists every asset when screenID is empty.
func (uc *ListAssetsUseCase) Execute(ctx context.Context, screenID string) []asset.Asset {
	return uc.store.ListAssets(screenID)
}
